package document

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/pyhub-apps/pdfsamples-golang/pkg/content"
	"github.com/pyhub-apps/pdfsamples-golang/pkg/pdf"
)

// scaleToFitKey marks redactions whose overlay text is shrunk to fit its quad.
// There is no standard key for this.
const scaleToFitKey = "PDFSamples_ScaleToFit"

// Redaction describes a region to redact and how to mark it
type Redaction struct {
	Quads []pdf.Quad

	BorderColor   Color
	InteriorColor *Color  // nil leaves the redacted area unpainted
	FillOpacity   float64 // opacity of the marked-up appearance, 0 means opaque
	FillNormal    bool    // fill the marked-up appearance with InteriorColor

	OverlayText string
	TextColor   Color
	FontFace    string // mapped to a standard font, e.g. "CourierStd" becomes Courier
	FontSize    float64
	Repeat      bool
	ScaleToFit  bool
}

// AddRedaction marks r on page i with a Redact annotation. Nothing is
// removed until ApplyRedactions.
func (d *Document) AddRedaction(i int, r Redaction) error {
	if len(r.Quads) == 0 {
		return fmt.Errorf("redaction needs at least one quad")
	}
	rect := quadsBBox(r.Quads)
	fontName := standardFont(r.FontFace)
	size := r.FontSize
	if size <= 0 {
		size = 10
	}

	annot := types.Dict{
		"Type":       types.Name("Annot"),
		"Subtype":    types.Name("Redact"),
		"Rect":       rectArray(rect),
		"QuadPoints": quadPoints(r.Quads),
		"C":          r.BorderColor.array(),
		"F":          types.Integer(annotFlagPrint),
		"DA":         types.StringLiteral(fmt.Sprintf("/%s %s Tf %s", fontName, content.FormatNumber(size), r.TextColor.fillOp())),
	}
	if r.InteriorColor != nil {
		annot["IC"] = r.InteriorColor.array()
	}
	if r.OverlayText != "" {
		annot["OverlayText"] = types.StringLiteral(escapeLiteral(r.OverlayText))
		annot["Repeat"] = types.Boolean(r.Repeat)
		if r.ScaleToFit {
			annot[scaleToFitKey] = types.Boolean(true)
		}
	}
	if r.FillOpacity > 0 && r.FillOpacity < 1 {
		annot["CA"] = types.Float(r.FillOpacity)
	}

	// Marked-up appearance: the border, and the interior when FillNormal
	var ap bytes.Buffer
	if r.FillNormal && r.InteriorColor != nil {
		ap.WriteString(r.InteriorColor.fillOp() + "\n")
		for _, q := range r.Quads {
			writeRect(&ap, q.BBox(), "f")
		}
	}
	ap.WriteString(r.BorderColor.strokeOp() + "\n1 w\n")
	for _, q := range r.Quads {
		writeRect(&ap, q.BBox(), "S")
	}
	form, err := d.newForm(rect, nil, ap.Bytes())
	if err != nil {
		return err
	}
	annot["AP"] = types.Dict{"N": form}

	if _, err := d.addAnnot(i, annot); err != nil {
		return fmt.Errorf("failed to add redaction to page %d: %w", i, err)
	}
	return nil
}

func writeRect(buf *bytes.Buffer, b pdf.BoundingBox, paint string) {
	fmt.Fprintf(buf, "%s %s %s %s re %s\n",
		content.FormatNumber(b.X0), content.FormatNumber(b.Y0),
		content.FormatNumber(b.Width()), content.FormatNumber(b.Height()), paint)
}

func escapeLiteral(s string) string {
	return strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`).Replace(s)
}

func unescapeLiteral(s string) string {
	obj, err := content.Parse([]byte("(" + s + ") x"))
	if err != nil || len(obj) == 0 || len(obj[0].Operands) == 0 {
		return s
	}
	b, _ := content.Bytes(obj[0].Operands[0])
	return string(b)
}

// readRedaction reconstructs a Redaction from its annotation dictionary
func (d *Document) readRedaction(annot types.Dict) Redaction {
	r := Redaction{Quads: d.parseQuadPoints(annot["QuadPoints"])}
	if len(r.Quads) == 0 {
		if rect, ok := d.rect(annot["Rect"]); ok {
			r.Quads = []pdf.Quad{pdf.QuadFromBBox(rect)}
		}
	}
	if ic := d.numbers(annot["IC"]); len(ic) == 3 {
		r.InteriorColor = &Color{ic[0], ic[1], ic[2]}
	}
	if s, ok := d.deref(annot["OverlayText"]).(types.StringLiteral); ok {
		r.OverlayText = unescapeLiteral(string(s))
	}
	if b, ok := d.deref(annot["Repeat"]).(types.Boolean); ok {
		r.Repeat = bool(b)
	}
	if b, ok := d.deref(annot[scaleToFitKey]).(types.Boolean); ok {
		r.ScaleToFit = bool(b)
	}

	r.FontFace, r.FontSize, r.TextColor = "Helvetica", 10, Black
	if da, ok := d.deref(annot["DA"]).(types.StringLiteral); ok {
		ops, _ := content.Parse([]byte(da))
		for _, op := range ops {
			switch op.Operator {
			case "Tf":
				r.FontFace, r.FontSize = op.Name(0), op.Float(1)
			case "rg":
				r.TextColor = Color{op.Float(0), op.Float(1), op.Float(2)}
			case "g":
				r.TextColor = Color{op.Float(0), op.Float(0), op.Float(0)}
			}
		}
	}
	return r
}

// ApplyRedactions removes the content under every Redact annotation,
// paints the interior colour and overlay text, and removes the
// annotations. It returns the number of redactions applied.
func (d *Document) ApplyRedactions() (int, error) {
	applied := 0
	for i := 0; i < d.PageCount(); i++ {
		n, err := d.applyPageRedactions(i)
		if err != nil {
			return applied, fmt.Errorf("failed to apply redactions on page %d: %w", i, err)
		}
		applied += n
	}
	return applied, nil
}

func (d *Document) applyPageRedactions(i int) (int, error) {
	annots, refs, err := d.Annotations(i)
	if err != nil {
		return 0, err
	}

	var redactions []Redaction
	var keep types.Array
	for j, a := range annots {
		if d.name(a["Subtype"]) == "Redact" {
			redactions = append(redactions, d.readRedaction(a))
			continue
		}
		keep = append(keep, refs[j])
	}
	if len(redactions) == 0 {
		return 0, nil
	}

	var targets []pdf.BoundingBox
	for _, r := range redactions {
		for _, q := range r.Quads {
			targets = append(targets, q.BBox())
		}
	}

	data, err := d.PageContent(i)
	if err != nil {
		return 0, err
	}
	ops, err := content.Parse(data)
	if err != nil {
		return 0, fmt.Errorf("failed to parse content: %w", err)
	}
	redactor, err := d.redactor(i)
	if err != nil {
		return 0, err
	}
	ops, _ = redactor.Redact(ops, targets)

	var buf bytes.Buffer
	buf.WriteString("q\n")
	if err := content.Write(&buf, ops); err != nil {
		return 0, err
	}
	buf.WriteString("Q\n")

	for _, r := range redactions {
		if err := d.paintRedaction(i, &buf, r); err != nil {
			return 0, err
		}
	}
	if err := d.ReplaceContent(i, buf.Bytes()); err != nil {
		return 0, err
	}

	pageDict, err := d.PageDict(i)
	if err != nil {
		return 0, err
	}
	if len(keep) == 0 {
		delete(pageDict, "Annots")
	} else {
		pageDict["Annots"] = keep
	}
	return len(redactions), nil
}

// paintRedaction appends the interior fill and overlay text of r
func (d *Document) paintRedaction(i int, buf *bytes.Buffer, r Redaction) error {
	if r.InteriorColor != nil {
		buf.WriteString("q\n" + r.InteriorColor.fillOp() + "\n")
		for _, q := range r.Quads {
			writeRect(buf, q.BBox(), "f")
		}
		buf.WriteString("Q\n")
	}
	if r.OverlayText == "" {
		return nil
	}

	fontName := standardFont(r.FontFace)
	fontDict := types.Dict{
		"Type":     types.Name("Font"),
		"Subtype":  types.Name("Type1"),
		"BaseFont": types.Name(fontName),
	}
	if fontName != "Symbol" && fontName != "ZapfDingbats" {
		fontDict["Encoding"] = types.Name("WinAnsiEncoding")
	}
	ref, err := d.newObject(fontDict)
	if err != nil {
		return err
	}
	resName, err := d.AddResource(i, "Font", "RdF", ref)
	if err != nil {
		return err
	}

	for _, q := range r.Quads {
		box := q.BBox()
		size := r.FontSize
		if size <= 0 {
			size = 10
		}
		width := textWidth(r.OverlayText, fontName, size)
		if r.ScaleToFit && width > 0 {
			fit := math.Min(size*box.Width()/width, box.Height()/1.2)
			size = math.Min(size, fit)
			width = textWidth(r.OverlayText, fontName, size)
		}

		text := r.OverlayText
		if r.Repeat && width > 0 {
			count := max(int(box.Width()/width), 1)
			text = strings.Repeat(r.OverlayText, count)
		}

		x := box.X0
		y := box.Y0 + (box.Height()-size)/2 + 0.2*size
		fmt.Fprintf(buf, "q\n%s re W n\nBT\n/%s %s Tf\n%s\n%s %s Td\n(%s) Tj\nET\nQ\n",
			rectOperands(box), resName, content.FormatNumber(size), r.TextColor.fillOp(),
			content.FormatNumber(x), content.FormatNumber(y), escapeLiteral(text))
	}
	return nil
}

func rectOperands(b pdf.BoundingBox) string {
	return fmt.Sprintf("%s %s %s %s",
		content.FormatNumber(b.X0), content.FormatNumber(b.Y0),
		content.FormatNumber(b.Width()), content.FormatNumber(b.Height()))
}
