// Command converttooffice converts the sample documents to Word, Excel and
// PowerPoint files.
package main

import (
	"fmt"

	"github.com/pyhub-apps/pdfsamples-golang"
	"github.com/pyhub-apps/pdfsamples-golang/internal/sample"
	"github.com/pyhub-apps/pdfsamples-golang/pkg/office"
)

func convert(args *sample.Args, input, output string, typ office.Type) {
	fmt.Printf("Converting %s, output file is %s\n", input, output)

	doc, err := pdfsamples.Open(input)
	if err == nil {
		err = office.ConvertFile(doc, output, typ)
		doc.Close()
	}
	if err != nil {
		args.Logf("%s conversion failed: %v", typ, err)
		fmt.Printf("ERROR: Could not convert %s\n", input)
		return
	}
	fmt.Printf("Successfully converted %s to %s\n", input, output)
}

func main() {
	sample.Run("ConvertToOffice", func(args *sample.Args) error {
		convert(args, sample.Input("Word.pdf"), "word-out.docx", office.Word)
		convert(args, sample.Input("Excel.pdf"), "excel-out.xlsx", office.Excel)
		convert(args, sample.Input("PowerPoint.pdf"), "powerpoint-out.pptx", office.PowerPoint)
		return nil
	})
}
