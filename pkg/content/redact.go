package content

import (
	"github.com/pyhub-apps/pdfsamples-golang/pkg/pdf"
)

// defaultMetrics is used for fonts the redactor has no metrics for
var defaultMetrics = &WidthTable{MissingWidth: 500}

// Redactor removes page content under a set of target rectangles
type Redactor struct {
	// Fonts maps font resource names to their metrics
	Fonts map[string]FontMetrics

	// XObjectBoxes maps XObject resource names to their extent in form
	// space. Images and missing entries use the unit square.
	XObjectBoxes map[string]pdf.BoundingBox
}

// RedactStats counts what Redact removed
type RedactStats struct {
	Glyphs   int
	XObjects int
	Images   int
}

// Removed reports whether anything was removed
func (s RedactStats) Removed() bool {
	return s.Glyphs+s.XObjects+s.Images > 0
}

var unitSquare = pdf.BoundingBox{X0: 0, Y0: 0, X1: 1, Y1: 1}

// Redact returns ops without the glyphs, XObject placements and inline
// images that intersect any of the targets (user space). Text showing
// operators that lose glyphs are rewritten as TJ with displacements in
// place of the removed glyphs, so the remaining text does not move.
func (r *Redactor) Redact(ops []Operation, targets []pdf.BoundingBox) ([]Operation, RedactStats) {
	var stats RedactStats
	if len(targets) == 0 {
		return ops, stats
	}

	stack := NewStateStack()
	out := make([]Operation, 0, len(ops))

	for _, op := range ops {
		gs := stack.Current()

		switch op.Operator {
		case "Tj", "TJ", "'", `"`:
			moves := op.Operator == "'" || op.Operator == `"`
			if moves {
				stack.Apply(op)
			}
			rewritten, removed := r.showText(gs, showElements(op), targets)
			if removed == 0 {
				out = append(out, op)
				continue
			}
			stats.Glyphs += removed
			if moves {
				out = append(out, lineMoveOps(op)...)
			}
			out = append(out, Operation{Operator: "TJ", Operands: []Object{rewritten}})

		case "Do":
			box, ok := r.XObjectBoxes[op.Name(0)]
			if !ok {
				box = unitSquare
			}
			if intersectsAny(gs.CTM.TransformBox(box), targets) {
				stats.XObjects++
				continue
			}
			out = append(out, op)

		case "BI":
			if intersectsAny(gs.CTM.TransformBox(unitSquare), targets) {
				stats.Images++
				continue
			}
			out = append(out, op)

		default:
			stack.Apply(op)
			out = append(out, op)
		}
	}

	return out, stats
}

// lineMoveOps expresses the state changes of ' and " as separate operators
func lineMoveOps(op Operation) []Operation {
	if op.Operator == `"` {
		return []Operation{
			{Operator: "Tw", Operands: []Object{Number(op.Float(0))}},
			{Operator: "Tc", Operands: []Object{Number(op.Float(1))}},
			{Operator: "T*"},
		}
	}
	return []Operation{{Operator: "T*"}}
}

func lastOperand(op Operation) Object {
	if len(op.Operands) == 0 {
		return String(nil)
	}
	return op.Operands[len(op.Operands)-1]
}

// showElements returns the strings and displacements shown by a text operator
func showElements(op Operation) Array {
	if op.Operator == "TJ" {
		if len(op.Operands) > 0 {
			if arr, ok := op.Operands[0].(Array); ok {
				return arr
			}
		}
		return nil
	}
	return Array{lastOperand(op)}
}

// showText walks the elements of a TJ array, advancing the text matrix, and
// returns the array with removed glyphs turned into displacements.
func (r *Redactor) showText(gs *GraphicsState, elems Array, targets []pdf.BoundingBox) (Array, int) {
	metrics := r.Fonts[gs.FontName]
	if metrics == nil {
		metrics = defaultMetrics
	}
	scale := gs.FontSize * gs.HScale / 100

	var out Array
	var kept []byte
	var shift float64 // pending displacement in thousandths of text space
	removed := 0

	flushShift := func() {
		if shift != 0 {
			out = append(out, Number(shift))
			shift = 0
		}
	}
	flushKept := func(hex bool) {
		if len(kept) == 0 {
			return
		}
		flushShift()
		if hex {
			out = append(out, HexString(kept))
		} else {
			out = append(out, String(kept))
		}
		kept = nil
	}

	for _, e := range elems {
		if n, ok := e.(Number); ok {
			gs.Advance(-float64(n) / 1000 * scale)
			shift += float64(n)
			continue
		}
		s, ok := Bytes(e)
		if !ok {
			continue
		}
		_, hex := e.(HexString)

		for _, g := range metrics.Codes(s) {
			adv := gs.GlyphAdvance(g)
			box := gs.GlyphBox(g)
			gs.Advance(adv)

			if scale != 0 && intersectsAny(box, targets) {
				flushKept(hex)
				shift -= adv / scale * 1000
				removed++
				continue
			}
			if shift != 0 {
				flushShift()
			}
			kept = append(kept, g.Code...)
		}
		flushKept(hex)
	}
	flushShift()

	if out == nil {
		out = Array{}
	}
	return out, removed
}

// overlapEpsilon is the overlap, in points, below which boxes that merely
// touch are not redacted
const overlapEpsilon = 0.01

func intersectsAny(b pdf.BoundingBox, targets []pdf.BoundingBox) bool {
	for _, t := range targets {
		w := min(b.X1, t.X1) - max(b.X0, t.X0)
		h := min(b.Y1, t.Y1) - max(b.Y0, t.Y0)
		if w > overlapEpsilon && h > overlapEpsilon {
			return true
		}
	}
	return false
}
