// Command regexextracttext writes the phone numbers found in a document, with
// their locations, to a JSON file.
package main

import (
	"fmt"
	"os"

	"github.com/pyhub-apps/pdfsamples-golang"
	"github.com/pyhub-apps/pdfsamples-golang/internal/sample"
	"github.com/pyhub-apps/pdfsamples-golang/pkg/pdf"
)

const phonePattern = `((1-)?(\()?\d{3}(\))?(\s)?(-)?\d{3}-\d{4})`

func main() {
	sample.Run("RegexExtractText", func(args *sample.Args) error {
		input := args.Get(0, sample.Input("RegexExtractText.pdf"))
		output := "RegexExtractText-out.json"
		fmt.Printf("Reading %s\n", input)

		doc, err := pdfsamples.Open(input)
		if err != nil {
			return fmt.Errorf("failed to open PDF: %w", err)
		}
		defer doc.Close()
		fmt.Printf("Opened document %s\n", input)

		finder := pdfsamples.NewDocTextFinder(doc, pdfsamples.WithNoHyphenDetection(true))
		matches, err := finder.GetMatchList(0, doc.PageCount()-1, phonePattern)
		if err != nil {
			return err
		}
		args.Logf("found %d matches", len(matches))

		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()

		fmt.Printf("Writing JSON to %s\n", output)
		if err := pdf.WriteMatchesJSON(f, matches); err != nil {
			return err
		}
		return f.Close()
	})
}
