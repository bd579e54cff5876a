package content

import (
	"math"

	"github.com/pyhub-apps/pdfsamples-golang/pkg/pdf"
)

// GraphicsState is the part of the PDF graphics state that decides where
// glyphs and images land on the page
type GraphicsState struct {
	CTM            Matrix // Current Transformation Matrix
	TextMatrix     Matrix
	TextLineMatrix Matrix
	CharSpace      float64
	WordSpace      float64
	HScale         float64 // percent
	Leading        float64
	FontName       string // resource name of the current font
	FontSize       float64
	TextRise       float64
}

// NewGraphicsState creates a new graphics state with defaults
func NewGraphicsState() *GraphicsState {
	return &GraphicsState{
		CTM:            IdentityMatrix(),
		TextMatrix:     IdentityMatrix(),
		TextLineMatrix: IdentityMatrix(),
		HScale:         100,
	}
}

// Clone creates a copy of the graphics state
func (gs *GraphicsState) Clone() *GraphicsState {
	newState := *gs
	return &newState
}

// Apply updates the state for one of the operators that change the CTM or
// the text state. Other operators are ignored.
func (gs *GraphicsState) Apply(op Operation) {
	switch op.Operator {
	case "cm":
		m := Matrix{op.Float(0), op.Float(1), op.Float(2), op.Float(3), op.Float(4), op.Float(5)}
		gs.CTM = m.Multiply(gs.CTM)
	case "BT":
		gs.TextMatrix = IdentityMatrix()
		gs.TextLineMatrix = IdentityMatrix()
	case "Tf":
		gs.FontName = op.Name(0)
		gs.FontSize = op.Float(1)
	case "Tm":
		gs.TextMatrix = Matrix{op.Float(0), op.Float(1), op.Float(2), op.Float(3), op.Float(4), op.Float(5)}
		gs.TextLineMatrix = gs.TextMatrix
	case "Td":
		gs.moveLine(op.Float(0), op.Float(1))
	case "TD":
		gs.Leading = -op.Float(1)
		gs.moveLine(op.Float(0), op.Float(1))
	case "T*":
		gs.moveLine(0, -gs.Leading)
	case "Tc":
		gs.CharSpace = op.Float(0)
	case "Tw":
		gs.WordSpace = op.Float(0)
	case "Tz":
		gs.HScale = op.Float(0)
	case "TL":
		gs.Leading = op.Float(0)
	case "Ts":
		gs.TextRise = op.Float(0)
	case "'":
		gs.moveLine(0, -gs.Leading)
	case `"`:
		gs.WordSpace = op.Float(0)
		gs.CharSpace = op.Float(1)
		gs.moveLine(0, -gs.Leading)
	}
}

func (gs *GraphicsState) moveLine(tx, ty float64) {
	gs.TextLineMatrix = Translate(tx, ty).Multiply(gs.TextLineMatrix)
	gs.TextMatrix = gs.TextLineMatrix
}

// Advance moves the text matrix along the baseline by tx text space units
func (gs *GraphicsState) Advance(tx float64) {
	gs.TextMatrix = Translate(tx, 0).Multiply(gs.TextMatrix)
}

// GlyphAdvance returns the horizontal displacement of g in text space,
// including character and word spacing
func (gs *GraphicsState) GlyphAdvance(g Glyph) float64 {
	tx := g.Width/1000*gs.FontSize + gs.CharSpace
	if g.Space {
		tx += gs.WordSpace
	}
	return tx * gs.HScale / 100
}

// GlyphBox returns the user space box of a glyph at the current text
// position, using the same ascent and descent as word extraction
func (gs *GraphicsState) GlyphBox(g Glyph) pdf.BoundingBox {
	w := g.Width / 1000 * gs.FontSize * gs.HScale / 100
	box := pdf.BoundingBox{
		X0: 0,
		Y0: gs.TextRise - 0.2*gs.FontSize,
		X1: w,
		Y1: gs.TextRise + 0.8*gs.FontSize,
	}
	return gs.TextMatrix.Multiply(gs.CTM).TransformBox(box)
}

// Matrix represents a 2D transformation matrix
type Matrix struct {
	A, B, C, D, E, F float64
}

// IdentityMatrix returns an identity matrix
func IdentityMatrix() Matrix {
	return Matrix{A: 1, B: 0, C: 0, D: 1, E: 0, F: 0}
}

// Multiply returns m × other; a point is transformed by m first
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.C,
		B: m.A*other.B + m.B*other.D,
		C: m.C*other.A + m.D*other.C,
		D: m.C*other.B + m.D*other.D,
		E: m.E*other.A + m.F*other.C + other.E,
		F: m.E*other.B + m.F*other.D + other.F,
	}
}

// Transform applies the matrix transformation to a point
func (m Matrix) Transform(x, y float64) (float64, float64) {
	newX := m.A*x + m.C*y + m.E
	newY := m.B*x + m.D*y + m.F
	return newX, newY
}

// TransformBox returns the axis-aligned box around the transformed corners of b
func (m Matrix) TransformBox(b pdf.BoundingBox) pdf.BoundingBox {
	x0, y0 := m.Transform(b.X0, b.Y0)
	out := pdf.BoundingBox{X0: x0, Y0: y0, X1: x0, Y1: y0}
	for _, p := range [][2]float64{{b.X1, b.Y0}, {b.X0, b.Y1}, {b.X1, b.Y1}} {
		x, y := m.Transform(p[0], p[1])
		out.X0 = math.Min(out.X0, x)
		out.Y0 = math.Min(out.Y0, y)
		out.X1 = math.Max(out.X1, x)
		out.Y1 = math.Max(out.Y1, y)
	}
	return out
}

// Scale creates a scaling matrix
func Scale(sx, sy float64) Matrix {
	return Matrix{A: sx, B: 0, C: 0, D: sy, E: 0, F: 0}
}

// Translate creates a translation matrix
func Translate(tx, ty float64) Matrix {
	return Matrix{A: 1, B: 0, C: 0, D: 1, E: tx, F: ty}
}

// StateStack manages graphics state stack for save/restore operations
type StateStack struct {
	states []*GraphicsState
}

// NewStateStack creates a new state stack
func NewStateStack() *StateStack {
	return &StateStack{
		states: []*GraphicsState{NewGraphicsState()},
	}
}

// Current returns the current graphics state
func (s *StateStack) Current() *GraphicsState {
	return s.states[len(s.states)-1]
}

// Save saves the current graphics state
func (s *StateStack) Save() {
	s.states = append(s.states, s.Current().Clone())
}

// Restore restores the previous graphics state. An unbalanced Q is ignored.
func (s *StateStack) Restore() {
	if len(s.states) > 1 {
		s.states = s.states[:len(s.states)-1]
	}
}

// Apply handles q and Q and forwards other operators to the current state
func (s *StateStack) Apply(op Operation) {
	switch op.Operator {
	case "q":
		s.Save()
	case "Q":
		s.Restore()
	default:
		s.Current().Apply(op)
	}
}
