// Command regextextsearch finds phone numbers with a regular expression and
// highlights every match.
package main

import (
	"fmt"

	"github.com/pyhub-apps/pdfsamples-golang"
	"github.com/pyhub-apps/pdfsamples-golang/internal/sample"
	"github.com/pyhub-apps/pdfsamples-golang/pkg/document"
)

const phonePattern = `((1-)?(\()?\d{3}(\))?(\s)?(-)?\d{3}-\d{4})`

func main() {
	sample.Run("RegexTextSearch", func(args *sample.Args) error {
		input := args.Get(0, sample.Input("RegexTextSearch.pdf"))
		output := "RegexTextSearch-out.pdf"
		fmt.Printf("Reading %s\n", input)

		doc, err := pdfsamples.Open(input)
		if err != nil {
			return fmt.Errorf("failed to open PDF: %w", err)
		}
		defer doc.Close()

		editor, err := document.Open(input)
		if err != nil {
			return err
		}
		defer editor.Close()
		fmt.Printf("Opened document %s\n", input)

		finder := pdfsamples.NewDocTextFinder(doc, pdfsamples.WithNoHyphenDetection(true))
		matches, err := finder.GetMatchList(0, doc.PageCount()-1, phonePattern)
		if err != nil {
			return err
		}

		for _, m := range matches {
			fmt.Println(m.Text)
			for _, qi := range m.QuadInfo {
				if err := editor.AddHighlight(qi.PageIndex, qi.Quads, document.Yellow); err != nil {
					return err
				}
			}
		}
		args.Logf("highlighted %d matches", len(matches))

		return editor.Save(output, document.SaveFull)
	})
}
