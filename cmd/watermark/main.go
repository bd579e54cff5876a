// Command watermark stamps a page of another PDF on the even pages of a
// document and a text watermark on the odd pages.
package main

import (
	"fmt"

	"github.com/pyhub-apps/pdfsamples-golang/internal/sample"
	"github.com/pyhub-apps/pdfsamples-golang/pkg/document"
)

func main() {
	sample.Run("Watermark", func(args *sample.Args) error {
		input := args.Get(0, sample.Input("sample.pdf"))
		watermark := args.Get(1, sample.Input("ducky.pdf"))
		output := args.Get(2, "Watermark-out.pdf")
		fmt.Printf("Adding watermark from %s to %s and saving to %s\n", watermark, input, output)

		params := document.WatermarkParams{
			Opacity:  0.8,
			Rotation: 45.3,
			Scale:    0.5,
			Pages:    document.EvenPages,
		}
		if err := document.AddPDFWatermark(input, output, watermark, 0, params); err != nil {
			return err
		}
		args.Logf("stamped %s on even pages", watermark)

		params.Pages = document.OddPages
		text := document.TextWatermark{
			Text:  "Multiline\nWatermark",
			Font:  "Courier",
			Align: document.AlignCenter,
			Color: document.RGB255(109, 15, 161),
		}
		if err := document.AddTextWatermark(output, "", text, params); err != nil {
			return err
		}
		args.Logf("stamped text on odd pages")
		return nil
	})
}
