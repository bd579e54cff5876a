package document

import (
	"fmt"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/pyhub-apps/pdfsamples-golang/pkg/content"
)

// PageSpec selects the pages a watermark goes on
type PageSpec int

const (
	AllPages PageSpec = iota
	EvenPages
	OddPages
)

// selection returns the pdfcpu page selection, nil for every page
func (s PageSpec) selection() []string {
	switch s {
	case EvenPages:
		return []string{"even"}
	case OddPages:
		return []string{"odd"}
	}
	return nil
}

// WatermarkParams controls the placement of a watermark
type WatermarkParams struct {
	Opacity  float64 // 0 means opaque
	Rotation float64 // degrees counter-clockwise
	Scale    float64 // relative to the page, 0 means 0.5
	Pages    PageSpec
	OnTop    bool // stamp above the page content instead of below
}

// Alignment of multi-line watermark text
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// TextWatermark is a text watermark in a standard font
type TextWatermark struct {
	Text     string // lines are separated by \n
	Font     string // mapped to a standard font
	FontSize float64
	Align    Alignment
	Color    Color
}

// description builds the pdfcpu watermark description shared by both kinds
func (p WatermarkParams) description() []string {
	scale := p.Scale
	if scale <= 0 {
		scale = 0.5
	}
	desc := []string{
		"rotation:" + content.FormatNumber(p.Rotation),
		"scalefactor:" + content.FormatNumber(scale) + " rel",
	}
	if p.Opacity > 0 && p.Opacity <= 1 {
		desc = append(desc, "opacity:"+content.FormatNumber(p.Opacity))
	}
	return desc
}

func (t TextWatermark) description() []string {
	size := t.FontSize
	if size <= 0 {
		size = 24
	}
	align := "l"
	switch t.Align {
	case AlignCenter:
		align = "c"
	case AlignRight:
		align = "r"
	}
	return []string{
		"fontname:" + standardFont(t.Font),
		"points:" + content.FormatNumber(size),
		"fillcolor:" + t.Color.hex(),
		"aligntext:" + align,
	}
}

// hex returns c as #RRGGBB
func (c Color) hex() string {
	clamp := func(f float64) int {
		return int(min(max(f, 0), 1)*255 + 0.5)
	}
	return fmt.Sprintf("#%02X%02X%02X", clamp(c.R), clamp(c.G), clamp(c.B))
}

// AddPDFWatermark stamps page wmPage (0-based) of wmFile onto the pages of
// in selected by params, writing out. An empty out updates in.
func AddPDFWatermark(in, out, wmFile string, wmPage int, params WatermarkParams, opts ...Option) error {
	if wmPage < 0 {
		return fmt.Errorf("invalid watermark page %d", wmPage)
	}
	desc := strings.Join(params.description(), ", ")
	wm, err := api.PDFWatermark(fmt.Sprintf("%s:%d", wmFile, wmPage+1), desc, params.OnTop, false, types.POINTS)
	if err != nil {
		return fmt.Errorf("failed to build watermark from %s: %w", wmFile, err)
	}
	return addWatermark(in, out, wm, params, opts)
}

// AddTextWatermark stamps t onto the pages of in selected by params,
// writing out. An empty out updates in.
func AddTextWatermark(in, out string, t TextWatermark, params WatermarkParams, opts ...Option) error {
	if t.Text == "" {
		return fmt.Errorf("watermark text is empty")
	}
	desc := strings.Join(append(t.description(), params.description()...), ", ")
	wm, err := api.TextWatermark(t.Text, desc, params.OnTop, false, types.POINTS)
	if err != nil {
		return fmt.Errorf("failed to build text watermark: %w", err)
	}
	return addWatermark(in, out, wm, params, opts)
}

func addWatermark(in, out string, wm *model.Watermark, params WatermarkParams, opts []Option) error {
	if err := api.AddWatermarksFile(in, out, params.Pages.selection(), wm, NewConfiguration(opts...)); err != nil {
		return fmt.Errorf("failed to add watermark to %s: %w", in, err)
	}
	return nil
}
