// Command redactions marks every word containing "rain" or "cloudy" on the
// first page for redaction, saves the marked-up document and then applies
// the redactions.
package main

import (
	"fmt"
	"strings"

	"github.com/pyhub-apps/pdfsamples-golang"
	"github.com/pyhub-apps/pdfsamples-golang/internal/sample"
	"github.com/pyhub-apps/pdfsamples-golang/pkg/document"
	"github.com/pyhub-apps/pdfsamples-golang/pkg/pdf"
)

func main() {
	sample.Run("Redactions", func(args *sample.Args) error {
		input := args.Get(0, sample.Input("sample.pdf"))
		output := args.Get(1, "Redactions-out-applied.pdf")

		doc, err := pdfsamples.Open(input)
		if err != nil {
			return fmt.Errorf("failed to open PDF: %w", err)
		}
		defer doc.Close()
		fmt.Printf("Input file: %s, will write to %s\n", input, output)

		finder := pdfsamples.NewWordFinder(doc, pdfsamples.WithIgnoreCharGaps(true), pdfsamples.WithDisableTaggedPDF(true))
		words, err := finder.GetWordList(0)
		if err != nil {
			return err
		}

		var rainQuads, cloudyQuads []pdf.Quad
		for _, w := range words {
			current := strings.ToLower(w.Text)
			fmt.Printf(" %s", current)
			switch {
			case strings.Contains(current, "rain"):
				fmt.Printf("\nFound %q on page 0\n", w.Text)
				rainQuads = append(rainQuads, w.Quads...)
			case strings.Contains(current, "cloudy"):
				fmt.Printf("\nFound %q on page 0\n", w.Text)
				cloudyQuads = append(cloudyQuads, w.Quads...)
			}
		}

		editor, err := document.Open(input)
		if err != nil {
			return err
		}
		defer editor.Close()

		fmt.Printf("\nFound %d \"cloudy\" instances.\n", len(cloudyQuads))
		if len(cloudyQuads) > 0 {
			red := document.Red
			err := editor.AddRedaction(0, document.Redaction{
				Quads:         cloudyQuads,
				BorderColor:   document.Red,
				InteriorColor: &red,
				FillOpacity:   0.25,
				FillNormal:    true,
			})
			if err != nil {
				return err
			}
		}

		fmt.Printf("\nFound %d \"rain\" instances.\n", len(rainQuads))
		if len(rainQuads) > 0 {
			green := document.Green
			err := editor.AddRedaction(0, document.Redaction{
				Quads:         rainQuads,
				InteriorColor: &green,
				TextColor:     document.White,
				FontFace:      "CourierStd",
				FontSize:      8,
				OverlayText:   "rain",
				Repeat:        true,
				ScaleToFit:    true,
			})
			if err != nil {
				return err
			}
		}

		if err := editor.Save("Redactions-out.pdf", document.SaveFull); err != nil {
			return err
		}

		n, err := editor.ApplyRedactions()
		if err != nil {
			return err
		}
		args.Logf("applied redactions on %d pages", n)
		return editor.Save(output, document.SaveFull)
	})
}
