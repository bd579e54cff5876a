// Command flattentransparency removes transparency from a single page
// document and from a multi-page document starting at its first transparent
// page.
package main

import (
	"fmt"

	"github.com/pyhub-apps/pdfsamples-golang/internal/sample"
	"github.com/pyhub-apps/pdfsamples-golang/pkg/document"
)

func main() {
	sample.Run("FlattenTransparency", func(args *sample.Args) error {
		input1 := args.Get(0, sample.Input("trans_1page.pdf"))
		input2 := args.Get(1, sample.Input("trans_multipage.pdf"))
		output1 := args.Get(2, "FlattenTransparency-out1.pdf")
		output2 := args.Get(3, "FlattenTransparency-out2.pdf")

		doc1, err := document.Open(input1)
		if err != nil {
			return err
		}
		defer doc1.Close()

		transparent, err := doc1.HasTransparency(0, true)
		if err != nil {
			return err
		}
		if transparent {
			n, err := doc1.FlattenTransparency(0, document.LastPage)
			if err != nil {
				return err
			}
			args.Logf("flattened %d pages of %s", n, input1)
			fmt.Printf("Flattened single page document %s as %s.\n", input1, output1)
			if err := doc1.Save(output1, document.SaveFull); err != nil {
				return err
			}
		}

		doc2, err := document.Open(input2)
		if err != nil {
			return err
		}
		defer doc2.Close()

		first, err := doc2.FirstTransparentPage(true)
		if err != nil {
			return err
		}
		if first < 0 {
			return nil
		}
		n, err := doc2.FlattenTransparency(first, document.LastPage)
		if err != nil {
			return err
		}
		args.Logf("flattened %d pages of %s from page %d", n, input2, first)
		fmt.Printf("Flattened multi-page document %s as %s.\n", input2, output2)
		return doc2.Save(output2, document.SaveFull)
	})
}
