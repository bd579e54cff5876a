// Command mergepdf appends the pages of one document to another, keeping
// the bookmarks of both.
package main

import (
	"fmt"

	"github.com/pyhub-apps/pdfsamples-golang/internal/sample"
	"github.com/pyhub-apps/pdfsamples-golang/pkg/document"
)

func main() {
	sample.Run("MergePDF", func(args *sample.Args) error {
		input1 := args.Get(0, sample.Input("merge_pdf1.pdf"))
		input2 := args.Get(1, sample.Input("merge_pdf2.pdf"))
		output := args.Get(2, "MergePDF-out.pdf")
		fmt.Printf("Adding %s and %s and writing to %s\n", input1, input2, output)

		if err := document.Merge([]string{input1, input2}, output); err != nil {
			return err
		}

		merged, err := document.Open(output)
		if err != nil {
			return err
		}
		defer merged.Close()
		args.Logf("%s has %d pages", output, merged.PageCount())
		return nil
	})
}
