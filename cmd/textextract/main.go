// Command textextract writes the text of a document to a text file with a
// header line per page. Tagged and untagged documents join hyphenated words
// differently.
package main

import (
	"fmt"
	"os"

	"github.com/pyhub-apps/pdfsamples-golang"
	"github.com/pyhub-apps/pdfsamples-golang/internal/sample"
	"github.com/pyhub-apps/pdfsamples-golang/pkg/pdf"
)

func main() {
	sample.Run("TextExtract", func(args *sample.Args) error {
		input := args.Get(0, sample.Input("constitution.pdf"))
		fmt.Printf("Reading %s\n", input)

		doc, err := pdfsamples.Open(input)
		if err != nil {
			return fmt.Errorf("failed to open PDF: %w", err)
		}
		defer doc.Close()
		fmt.Printf("Opened document %s\n", input)

		tagged := doc.IsTagged()
		output := "TextExtract-untagged-out.txt"
		if tagged {
			output = "TextExtract-tagged-out.txt"
		}

		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		fmt.Printf("Writing %s\n", output)

		finder := pdfsamples.NewWordFinder(doc, pdfsamples.WithNoXYSort(true))
		n, err := pdf.ExtractDocumentText(f, finder, tagged)
		if err != nil {
			return err
		}
		args.Logf("wrote %d pages", n)
		return f.Close()
	})
}
