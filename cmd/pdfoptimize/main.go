// Command pdfoptimize rewrites a document to make it smaller and reports the
// size of the result.
package main

import (
	"fmt"

	"github.com/pyhub-apps/pdfsamples-golang/internal/sample"
	"github.com/pyhub-apps/pdfsamples-golang/pkg/document"
)

func main() {
	sample.Run("PDFOptimizer", func(args *sample.Args) error {
		input := args.Get(0, sample.Input("sample.pdf"))
		output := args.Get(1, "PDFOptimizer-out.pdf")
		fmt.Printf("Will optimize %s and save as %s\n", input, output)

		res, err := document.Optimize(input, output)
		if err != nil {
			return err
		}
		args.Logf("%d bytes before, %d bytes after", res.Before, res.After)

		fmt.Println("Optimized file")
		fmt.Println(res.Ratio())
		fmt.Println("% the size of the original.")
		return nil
	})
}
