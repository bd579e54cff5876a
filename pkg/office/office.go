// Package office exports the text of PDF documents to Office Open XML
// formats: DOCX, XLSX and PPTX.
//
// Only text survives the conversion. Lines come from the word finder, so
// the reading order is the one GetWordList produces.
package office

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pyhub-apps/pdfsamples-golang/pkg/pdf"
)

// ErrUnsupported is returned for unknown output types
var ErrUnsupported = errors.New("unsupported office format")

// Type is an Office output format
type Type int

const (
	Word Type = iota
	Excel
	PowerPoint
)

func (t Type) String() string {
	switch t {
	case Word:
		return "Word"
	case Excel:
		return "Excel"
	case PowerPoint:
		return "PowerPoint"
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Extension returns the file extension of the format
func (t Type) Extension() string {
	switch t {
	case Word:
		return ".docx"
	case Excel:
		return ".xlsx"
	case PowerPoint:
		return ".pptx"
	}
	return ""
}

// Line is one line of text: its words and the font size of the first one
type Line struct {
	Words    []pdf.Word
	FontSize float64
}

// Text joins the words of the line, with a space wherever the page has one
func (l Line) Text() string {
	return joinWords(l.Words)
}

func joinWords(words []pdf.Word) string {
	var sb strings.Builder
	for i, w := range words {
		sb.WriteString(w.Text)
		if i < len(words)-1 && w.Attributes.Has(pdf.AdjacentToSpace) {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

// Clusters splits the line at horizontal gaps wider than twice the font
// size, as columns of a table would be
func (l Line) Clusters() []string {
	if len(l.Words) == 0 {
		return nil
	}
	limit := 2 * l.FontSize
	var out []string
	start := 0
	for i := 1; i < len(l.Words); i++ {
		gap := l.Words[i].BBox().X0 - l.Words[i-1].BBox().X1
		if gap > limit {
			out = append(out, joinWords(l.Words[start:i]))
			start = i
		}
	}
	return append(out, joinWords(l.Words[start:]))
}

// Lines groups words into lines using the LastWordOnLine attribute
func Lines(words []pdf.Word) []Line {
	var lines []Line
	var cur []pdf.Word
	flush := func() {
		if len(cur) == 0 {
			return
		}
		size := 0.0
		if len(cur[0].Chars) > 0 {
			size = cur[0].Chars[0].FontSize
		}
		lines = append(lines, Line{Words: cur, FontSize: size})
		cur = nil
	}
	for _, w := range words {
		cur = append(cur, w)
		if w.Attributes.Has(pdf.LastWordOnLine) {
			flush()
		}
	}
	flush()
	return lines
}

// documentLines returns the lines of every page of doc
func documentLines(doc pdf.Document, opts ...pdf.WordExtractionOption) ([][]Line, error) {
	finder := pdf.NewWordFinder(doc, opts...)
	pages := make([][]Line, doc.PageCount())
	for i := range pages {
		words, err := finder.GetWordList(i)
		if err != nil {
			return nil, fmt.Errorf("failed to get words of page %d: %w", i, err)
		}
		pages[i] = Lines(words)
	}
	return pages, nil
}

// Convert writes the text of doc to w in the given format
func Convert(doc pdf.Document, w io.Writer, typ Type, opts ...pdf.WordExtractionOption) error {
	pages, err := documentLines(doc, opts...)
	if err != nil {
		return err
	}
	switch typ {
	case Word:
		return writeDOCX(w, pages)
	case Excel:
		return writeXLSX(w, pages)
	case PowerPoint:
		return writePPTX(w, pages)
	}
	return fmt.Errorf("%w: %v", ErrUnsupported, typ)
}

// ConvertFile writes the text of doc to the file out
func ConvertFile(doc pdf.Document, out string, typ Type, opts ...pdf.WordExtractionOption) (err error) {
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close %s: %w", out, cerr)
		}
		if err != nil {
			os.Remove(out)
		}
	}()
	if err := Convert(doc, f, typ, opts...); err != nil {
		return fmt.Errorf("failed to convert to %v: %w", typ, err)
	}
	return nil
}
