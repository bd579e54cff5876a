package document

import (
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/font"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/pyhub-apps/pdfsamples-golang/pkg/content"
	"github.com/pyhub-apps/pdfsamples-golang/pkg/pdf"
)

// standardFont maps a font face to one of the standard 14 fonts
func standardFont(face string) string {
	f := strings.ToLower(face)
	switch {
	case strings.HasPrefix(f, "cour"):
		return "Courier"
	case strings.HasPrefix(f, "times"):
		return "Times-Roman"
	case strings.HasPrefix(f, "symbol"):
		return "Symbol"
	case strings.HasPrefix(f, "zapf"):
		return "ZapfDingbats"
	default:
		return "Helvetica"
	}
}

// textWidth returns the width of s in a standard font at size points
func textWidth(s, fontName string, size float64) float64 {
	// Measure at 1000 units to keep precision, then scale
	return font.TextWidth(s, fontName, 1000) * size / 1000
}

// fontMetrics builds the width table of a font dictionary
func (d *Document) fontMetrics(fontDict types.Dict) content.FontMetrics {
	baseFont := d.name(fontDict["BaseFont"])
	if i := strings.IndexByte(baseFont, '+'); i == 6 {
		baseFont = baseFont[i+1:]
	}

	if d.name(fontDict["Subtype"]) == "Type0" {
		t := &content.WidthTable{TwoByte: true, DefaultWidth: 1000}
		descendants := d.array(fontDict["DescendantFonts"])
		if len(descendants) > 0 {
			if cid := d.dict(descendants[0]); cid != nil {
				if dw, ok := d.number(cid["DW"]); ok {
					t.DefaultWidth = dw
				}
				if w, ok := d.contentObject(cid["W"]).(content.Array); ok {
					t.CIDWidths = content.ParseCIDWidths(w)
				}
			}
		}
		return t
	}

	t := &content.WidthTable{}
	if fc, ok := d.number(fontDict["FirstChar"]); ok {
		t.FirstChar = int(fc)
	}
	t.Widths = d.numbers(fontDict["Widths"])
	if desc := d.dict(fontDict["FontDescriptor"]); desc != nil {
		if mw, ok := d.number(desc["MissingWidth"]); ok {
			t.MissingWidth = mw
		}
	}

	if len(t.Widths) == 0 {
		// Standard 14 fonts may omit Widths
		name := baseFont
		if !font.IsCoreFont(name) {
			name = standardFont(name)
		}
		t.FirstChar = 0
		t.Widths = make([]float64, 256)
		for c := range t.Widths {
			t.Widths[c] = font.TextWidth(string([]byte{byte(c)}), name, 1000)
		}
	}
	return t
}

// redactor builds a content redactor for the resources of page i
func (d *Document) redactor(i int) (*content.Redactor, error) {
	res, err := d.resources(i)
	if err != nil {
		return nil, err
	}
	r := &content.Redactor{
		Fonts:        map[string]content.FontMetrics{},
		XObjectBoxes: map[string]pdf.BoundingBox{},
	}
	for name, ref := range d.dict(res["Font"]) {
		if fd := d.dict(ref); fd != nil {
			r.Fonts[name] = d.fontMetrics(fd)
		}
	}
	for name, ref := range d.dict(res["XObject"]) {
		xd := d.dict(ref)
		if xd == nil || d.name(xd["Subtype"]) != "Form" {
			continue
		}
		if bbox, ok := d.rect(xd["BBox"]); ok {
			r.XObjectBoxes[name] = d.matrix(xd["Matrix"]).TransformBox(bbox)
		}
	}
	return r, nil
}
