package pdf

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"
)

// Glyph box proportions relative to the font size, measured from the baseline
const (
	ascentRatio  = 0.8
	descentRatio = 0.2
)

// baseDocument holds the state shared by the reader backends
type baseDocument struct {
	closer   io.Closer
	filepath string
	pages    []Page
	metadata Metadata
	tagged   bool
}

// GetMetadata returns the PDF metadata
func (d *baseDocument) GetMetadata() Metadata {
	return d.metadata
}

// GetPages returns all pages in the document
func (d *baseDocument) GetPages() []Page {
	return d.pages
}

// GetPage returns a specific page by index (0-based)
func (d *baseDocument) GetPage(index int) (Page, error) {
	if index < 0 || index >= len(d.pages) {
		return nil, fmt.Errorf("%w: page index %d out of range [0, %d)", ErrPageRange, index, len(d.pages))
	}
	return d.pages[index], nil
}

// PageCount returns the total number of pages
func (d *baseDocument) PageCount() int {
	return len(d.pages)
}

// IsTagged reports whether the document carries /MarkInfo << /Marked true >>
func (d *baseDocument) IsTagged() bool {
	return d.tagged
}

// Close releases resources associated with the document
func (d *baseDocument) Close() error {
	d.pages = nil
	if d.closer != nil {
		err := d.closer.Close()
		d.closer = nil
		return err
	}
	return nil
}

// basePage implements the backend independent part of Page
type basePage struct {
	pageNumber int
	width      float64
	height     float64
	rotation   int
	bbox       BoundingBox
	chars      []CharObject
}

// GetPageNumber returns the page number (1-based)
func (p *basePage) GetPageNumber() int {
	return p.pageNumber
}

// GetWidth returns the page width
func (p *basePage) GetWidth() float64 {
	return p.width
}

// GetHeight returns the page height
func (p *basePage) GetHeight() float64 {
	return p.height
}

// GetRotation returns the page rotation in degrees
func (p *basePage) GetRotation() int {
	return p.rotation
}

// GetBBox returns the page bounding box
func (p *basePage) GetBBox() BoundingBox {
	return p.bbox
}

// GetChars returns the glyphs of the page in content stream order
func (p *basePage) GetChars() []CharObject {
	return p.chars
}

// ExtractWords extracts individual words from the page
func (p *basePage) ExtractWords(opts ...WordExtractionOption) []Word {
	config := newWordExtractionConfig(opts...)
	return findWords(p.pageNumber-1, p.chars, config)
}

// ExtractText extracts text from the page using the word finder rules
func (p *basePage) ExtractText(opts ...TextExtractionOption) string {
	config := &textExtractionConfig{}
	for _, opt := range opts {
		opt(config)
	}
	return PageText(p.ExtractWords(config.Words...), config.Tagged)
}

// appendTextRun splits a positioned text run into per-character objects.
// x and y are the baseline origin in user space, w the advance of the whole run.
func (p *basePage) appendTextRun(font string, fontSize, x, y, w float64, s string) {
	chars := []rune(s)
	if len(chars) == 0 {
		return
	}
	if i := strings.Index(font, "+"); i >= 0 {
		font = font[i+1:]
	}

	charWidth := w / float64(len(chars))
	y0 := y - fontSize*descentRatio
	y1 := y + fontSize*ascentRatio

	for _, ch := range chars {
		// Whitespace only separates words; its advance is kept through x
		if !unicode.IsSpace(ch) {
			p.chars = append(p.chars, CharObject{
				Text:     string(ch),
				Font:     font,
				FontSize: fontSize,
				X0:       x,
				Y0:       y0,
				X1:       x + charWidth,
				Y1:       y1,
				Width:    charWidth,
				Height:   y1 - y0,
			})
		}
		x += charWidth
	}
}

// ParseDate parses a PDF date string (D:YYYYMMDDHHmmSSOHH'mm). The time zone
// is ignored. Unparseable dates give the zero time.
func ParseDate(dateStr string) time.Time {
	dateStr = strings.TrimPrefix(dateStr, "D:")

	layouts := []struct {
		layout string
		n      int
	}{
		{"20060102150405", 14},
		{"200601021504", 12},
		{"20060102", 8},
		{"2006", 4},
	}
	for _, l := range layouts {
		if len(dateStr) < l.n {
			continue
		}
		if t, err := time.Parse(l.layout, dateStr[:l.n]); err == nil {
			return t
		}
	}
	return time.Time{}
}

// FormatDate formats t as a PDF date string in UTC
func FormatDate(t time.Time) string {
	return t.UTC().Format("D:20060102150405Z")
}
