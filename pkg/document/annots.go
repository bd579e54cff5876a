package document

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/pyhub-apps/pdfsamples-golang/pkg/content"
	"github.com/pyhub-apps/pdfsamples-golang/pkg/pdf"
)

// Color is an RGB colour with components in [0, 1]
type Color struct {
	R, G, B float64
}

// Common colours
var (
	Black  = Color{0, 0, 0}
	White  = Color{1, 1, 1}
	Red    = Color{1, 0, 0}
	Green  = Color{0, 1, 0}
	Yellow = Color{1, 1, 0}
)

// RGB255 builds a colour from 0-255 components
func RGB255(r, g, b int) Color {
	return Color{float64(r) / 255, float64(g) / 255, float64(b) / 255}
}

func (c Color) array() types.Array {
	return floatArray(c.R, c.G, c.B)
}

// fillOp returns the operator setting c as the non-stroking colour
func (c Color) fillOp() string {
	return fmt.Sprintf("%s %s %s rg", content.FormatNumber(c.R), content.FormatNumber(c.G), content.FormatNumber(c.B))
}

func (c Color) strokeOp() string {
	return fmt.Sprintf("%s %s %s RG", content.FormatNumber(c.R), content.FormatNumber(c.G), content.FormatNumber(c.B))
}

// annotation flag bits
const annotFlagPrint = 4

// quadPoints returns QuadPoints in the order annotations use:
// top-left, top-right, bottom-left, bottom-right
func quadPoints(quads []pdf.Quad) types.Array {
	var f []float64
	for _, q := range quads {
		f = append(f,
			q.TopLeft.X, q.TopLeft.Y,
			q.TopRight.X, q.TopRight.Y,
			q.BottomLeft.X, q.BottomLeft.Y,
			q.BottomRight.X, q.BottomRight.Y,
		)
	}
	return floatArray(f...)
}

func quadsBBox(quads []pdf.Quad) pdf.BoundingBox {
	b := quads[0].BBox()
	for _, q := range quads[1:] {
		b = b.Union(q.BBox())
	}
	return b
}

// parseQuadPoints reads a QuadPoints array back into quads
func (d *Document) parseQuadPoints(o types.Object) []pdf.Quad {
	n := d.numbers(o)
	var quads []pdf.Quad
	for i := 0; i+8 <= len(n); i += 8 {
		quads = append(quads, pdf.Quad{
			TopLeft:     pdf.Point{X: n[i], Y: n[i+1]},
			TopRight:    pdf.Point{X: n[i+2], Y: n[i+3]},
			BottomLeft:  pdf.Point{X: n[i+4], Y: n[i+5]},
			BottomRight: pdf.Point{X: n[i+6], Y: n[i+7]},
		})
	}
	return quads
}

// addAnnot adds annot to page i and returns its reference
func (d *Document) addAnnot(i int, annot types.Dict) (types.IndirectRef, error) {
	pageDict, pageRef, _, err := d.pageDict(i)
	if err != nil {
		return types.IndirectRef{}, err
	}
	if pageRef != nil {
		annot["P"] = *pageRef
	}

	ref, err := d.newObject(annot)
	if err != nil {
		return types.IndirectRef{}, err
	}

	annots := d.array(pageDict["Annots"])
	pageDict["Annots"] = append(annots, ref)
	return ref, nil
}

// Annotations returns the annotation dictionaries of page i with their
// references, in page order
func (d *Document) Annotations(i int) ([]types.Dict, []types.Object, error) {
	pageDict, err := d.PageDict(i)
	if err != nil {
		return nil, nil, err
	}
	var dicts []types.Dict
	var refs []types.Object
	for _, ref := range d.array(pageDict["Annots"]) {
		if a := d.dict(ref); a != nil {
			dicts = append(dicts, a)
			refs = append(refs, ref)
		}
	}
	return dicts, refs, nil
}

// AddHighlight adds a highlight annotation covering quads on page i. The
// annotation carries a generated appearance that multiplies color onto
// the page.
func (d *Document) AddHighlight(i int, quads []pdf.Quad, color Color) error {
	if len(quads) == 0 {
		return fmt.Errorf("highlight needs at least one quad")
	}
	rect := quadsBBox(quads)

	var ap bytes.Buffer
	ap.WriteString("/GS0 gs\n")
	ap.WriteString(color.fillOp() + "\n")
	for _, q := range quads {
		fmt.Fprintf(&ap, "%s %s m %s %s l %s %s l %s %s l h f\n",
			content.FormatNumber(q.BottomLeft.X), content.FormatNumber(q.BottomLeft.Y),
			content.FormatNumber(q.BottomRight.X), content.FormatNumber(q.BottomRight.Y),
			content.FormatNumber(q.TopRight.X), content.FormatNumber(q.TopRight.Y),
			content.FormatNumber(q.TopLeft.X), content.FormatNumber(q.TopLeft.Y))
	}
	resources := types.Dict{
		"ExtGState": types.Dict{
			"GS0": types.Dict{"Type": types.Name("ExtGState"), "BM": types.Name("Multiply")},
		},
	}
	form, err := d.newForm(rect, resources, ap.Bytes())
	if err != nil {
		return err
	}

	annot := types.Dict{
		"Type":       types.Name("Annot"),
		"Subtype":    types.Name("Highlight"),
		"Rect":       rectArray(rect),
		"QuadPoints": quadPoints(quads),
		"C":          color.array(),
		"F":          types.Integer(annotFlagPrint),
		"AP":         types.Dict{"N": form},
	}
	if _, err := d.addAnnot(i, annot); err != nil {
		return fmt.Errorf("failed to add highlight to page %d: %w", i, err)
	}
	return nil
}
