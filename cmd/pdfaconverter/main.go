// Command pdfaconverter converts a document to PDF/A-3b.
package main

import (
	"fmt"

	"github.com/pyhub-apps/pdfsamples-golang/internal/sample"
	"github.com/pyhub-apps/pdfsamples-golang/pkg/document"
	"github.com/pyhub-apps/pdfsamples-golang/pkg/pdfa"
)

func main() {
	sample.Run("PDFAConverter", func(args *sample.Args) error {
		input := args.Get(0, sample.Input("ducky.pdf"))
		output := args.Get(1, "PDFAConverter-out.pdf")
		fmt.Printf("Converting %s\n", input)

		doc, err := document.Open(input)
		if err != nil {
			return err
		}
		defer doc.Close()

		res, err := pdfa.Convert(doc, pdfa.RGB3B, pdfa.Params{
			AbortIfXFAIsPresent:          true,
			ValidateImplementationLimits: true,
		})
		if err != nil {
			fmt.Printf("ERROR: Could not convert %s to PDF/A: %v\n", input, err)
			return nil
		}
		for _, v := range res.Violations {
			args.Logf("%s", v)
		}
		if !res.Converted() {
			fmt.Printf("ERROR: Could not convert %s to PDF/A.\n", input)
			return nil
		}
		defer res.Document.Close()

		fmt.Printf("Successfully converted %s to PDF/A.\n", input)
		args.Logf("made %d repairs", res.Fixed)
		return res.Document.Save(output, res.SaveFlags)
	})
}
