// Command splitpdf writes every page of a document to its own file.
package main

import (
	"fmt"

	"github.com/pyhub-apps/pdfsamples-golang/internal/sample"
	"github.com/pyhub-apps/pdfsamples-golang/pkg/document"
)

func main() {
	sample.Run("SplitPDF", func(args *sample.Args) error {
		input := args.Get(0, sample.Input("PDFToBeSplit.pdf"))
		fmt.Printf("Opened document %s\n", input)

		names, err := document.SplitPages(input, "SplitPDF_out_%d.pdf")
		for _, name := range names {
			fmt.Printf("%s has been created!\n", name)
		}
		return err
	})
}
