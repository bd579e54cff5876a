// Command listwords prints every word of a document with its quads, style
// transitions and attributes.
package main

import (
	"fmt"

	"github.com/pyhub-apps/pdfsamples-golang"
	"github.com/pyhub-apps/pdfsamples-golang/internal/sample"
)

func main() {
	sample.Run("ListWords", func(args *sample.Args) error {
		filename := args.Get(0, sample.Input("sample.pdf"))
		fmt.Printf("Words in file %s:\n", filename)

		doc, err := pdfsamples.Open(filename)
		if err != nil {
			return fmt.Errorf("failed to open PDF: %w", err)
		}
		defer doc.Close()

		nPages := doc.PageCount()
		fmt.Printf("Pages=%d\n", nPages)

		finder := pdfsamples.NewWordFinder(doc, pdfsamples.WithIgnoreCharGaps(true), pdfsamples.WithDisableTaggedPDF(true))
		for i := 0; i < nPages; i++ {
			words, err := finder.GetWordList(i)
			if err != nil {
				return err
			}
			args.Logf("page %d: %d words", i+1, len(words))
			for _, w := range words {
				fmt.Println(w.Text)
				fmt.Println(w.Quads)
				fmt.Println(w.StyleTransitions)
				fmt.Println(w.Attributes)
			}
		}
		return nil
	})
}
