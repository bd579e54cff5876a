package pdf

import (
	"fmt"
	"strings"
	"time"
)

// BoundingBox represents a rectangular area in PDF user space
// (origin at the bottom-left corner of the page)
type BoundingBox struct {
	X0 float64 // Left
	Y0 float64 // Bottom
	X1 float64 // Right
	Y1 float64 // Top
}

// Width returns the width of the bounding box
func (b BoundingBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the height of the bounding box
func (b BoundingBox) Height() float64 {
	return b.Y1 - b.Y0
}

// Contains checks if a point is within the bounding box
func (b BoundingBox) Contains(x, y float64) bool {
	return x >= b.X0 && x <= b.X1 && y >= b.Y0 && y <= b.Y1
}

// Intersects checks if two bounding boxes intersect
func (b BoundingBox) Intersects(other BoundingBox) bool {
	return !(b.X1 < other.X0 || b.X0 > other.X1 || b.Y1 < other.Y0 || b.Y0 > other.Y1)
}

// Union returns the smallest box containing both boxes
func (b BoundingBox) Union(other BoundingBox) BoundingBox {
	return BoundingBox{
		X0: min(b.X0, other.X0),
		Y0: min(b.Y0, other.Y0),
		X1: max(b.X1, other.X1),
		Y1: max(b.Y1, other.Y1),
	}
}

// Point represents a 2D point
type Point struct {
	X, Y float64
}

// Quad is a quadrilateral enclosing a run of glyphs.
type Quad struct {
	TopLeft     Point
	TopRight    Point
	BottomLeft  Point
	BottomRight Point
}

// QuadFromBBox returns the axis-aligned quad for b.
func QuadFromBBox(b BoundingBox) Quad {
	return Quad{
		TopLeft:     Point{X: b.X0, Y: b.Y1},
		TopRight:    Point{X: b.X1, Y: b.Y1},
		BottomLeft:  Point{X: b.X0, Y: b.Y0},
		BottomRight: Point{X: b.X1, Y: b.Y0},
	}
}

// BBox returns the bounding box of the quad
func (q Quad) BBox() BoundingBox {
	b := BoundingBox{X0: q.TopLeft.X, Y0: q.TopLeft.Y, X1: q.TopLeft.X, Y1: q.TopLeft.Y}
	for _, p := range []Point{q.TopRight, q.BottomLeft, q.BottomRight} {
		b.X0 = min(b.X0, p.X)
		b.Y0 = min(b.Y0, p.Y)
		b.X1 = max(b.X1, p.X)
		b.Y1 = max(b.Y1, p.Y)
	}
	return b
}

func (q Quad) String() string {
	return fmt.Sprintf("[tl(%.2f, %.2f) tr(%.2f, %.2f) bl(%.2f, %.2f) br(%.2f, %.2f)]",
		q.TopLeft.X, q.TopLeft.Y, q.TopRight.X, q.TopRight.Y,
		q.BottomLeft.X, q.BottomLeft.Y, q.BottomRight.X, q.BottomRight.Y)
}

// Metadata represents PDF document metadata
type Metadata struct {
	Title        string
	Author       string
	Subject      string
	Keywords     string
	Creator      string
	Producer     string
	CreationDate time.Time
	ModDate      time.Time
	Trapped      string
}

// CharObject represents a character in the PDF
type CharObject struct {
	Text     string
	Font     string
	FontSize float64
	X0       float64
	Y0       float64
	X1       float64
	Y1       float64
	Width    float64
	Height   float64
}

// GetBBox returns the character's bounding box
func (c CharObject) GetBBox() BoundingBox {
	return BoundingBox{X0: c.X0, Y0: c.Y0, X1: c.X1, Y1: c.Y1}
}

// Style is the font face and size a run of characters is set in.
type Style struct {
	FontName string
	FontSize float64
}

func (s Style) String() string {
	return fmt.Sprintf("%s %.1fpt", s.FontName, s.FontSize)
}

// WordAttribute is a set of flags describing a word's surroundings.
type WordAttribute uint32

const (
	AdjacentToSpace WordAttribute = 1 << iota
	LastWordOnLine
	HasSoftHyphen
	HasTrailingPunctuation
	HasLeadingPunctuation
	HasDigit
	AllUppercase
)

var attributeNames = []struct {
	flag WordAttribute
	name string
}{
	{AdjacentToSpace, "ADJACENT_TO_SPACE"},
	{LastWordOnLine, "LAST_WORD_ON_LINE"},
	{HasSoftHyphen, "HAS_SOFT_HYPHEN"},
	{HasTrailingPunctuation, "HAS_TRAILING_PUNCTUATION"},
	{HasLeadingPunctuation, "HAS_LEADING_PUNCTUATION"},
	{HasDigit, "HAS_DIGIT"},
	{AllUppercase, "ALL_UPPERCASE"},
}

// Has reports whether all flags in f are set.
func (a WordAttribute) Has(f WordAttribute) bool {
	return a&f == f
}

func (a WordAttribute) String() string {
	var names []string
	for _, n := range attributeNames {
		if a.Has(n.flag) {
			names = append(names, n.name)
		}
	}
	return "[" + strings.Join(names, ", ") + "]"
}

// Word is a run of characters found by the WordFinder
type Word struct {
	Text      string
	PageIndex int
	Quads     []Quad
	Chars     []CharObject

	Attributes WordAttribute

	// StyleTransitions lists the character indices at which Styles[i] begins.
	StyleTransitions []int
	Styles           []Style

	LastWordInRegion bool
}

// BBox returns the box enclosing all of the word's quads
func (w Word) BBox() BoundingBox {
	if len(w.Quads) == 0 {
		return BoundingBox{}
	}
	b := w.Quads[0].BBox()
	for _, q := range w.Quads[1:] {
		b = b.Union(q.BBox())
	}
	return b
}

// TextExtractionOption is a function that modifies text extraction behavior
type TextExtractionOption func(*textExtractionConfig)

type textExtractionConfig struct {
	Tagged bool
	Words  []WordExtractionOption
}

// WithTagged selects the hyphenation rules used for tagged documents
func WithTagged(tagged bool) TextExtractionOption {
	return func(c *textExtractionConfig) {
		c.Tagged = tagged
	}
}

// WithWordOptions passes word extraction options through to the word finder
func WithWordOptions(opts ...WordExtractionOption) TextExtractionOption {
	return func(c *textExtractionConfig) {
		c.Words = append(c.Words, opts...)
	}
}
