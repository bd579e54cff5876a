// Package pdfsamples provides the reading side of the PDF samples: documents,
// word finding and regex text search
package pdfsamples

import (
	"errors"

	"github.com/pyhub-apps/pdfsamples-golang/pkg/pdf"
)

// Re-export types from pdf package for public API
type (
	Document             = pdf.Document
	Page                 = pdf.Page
	Word                 = pdf.Word
	WordAttribute        = pdf.WordAttribute
	WordFinder           = pdf.WordFinder
	WordExtractionOption = pdf.WordExtractionOption
	TextExtractionOption = pdf.TextExtractionOption
	DocTextFinder        = pdf.DocTextFinder
	Match                = pdf.Match
	Quad                 = pdf.Quad
	CharObject           = pdf.CharObject
	BoundingBox          = pdf.BoundingBox
)

// Re-export option functions
var (
	WithXTolerance          = pdf.WithXTolerance
	WithYTolerance          = pdf.WithYTolerance
	WithIgnoreCharGaps      = pdf.WithIgnoreCharGaps
	WithIgnoreLineGaps      = pdf.WithIgnoreLineGaps
	WithNoHyphenDetection   = pdf.WithNoHyphenDetection
	WithNoLigatureExpansion = pdf.WithNoLigatureExpansion
	WithNoXYSort            = pdf.WithNoXYSort
	WithNoStyleInfo         = pdf.WithNoStyleInfo
	WithDisableTaggedPDF    = pdf.WithDisableTaggedPDF
	WithTagged              = pdf.WithTagged

	NewWordFinder    = pdf.NewWordFinder
	NewDocTextFinder = pdf.NewDocTextFinder
)

// Open opens a PDF file and returns a Document
func Open(filepath string) (pdf.Document, error) {
	// ledongthuc has the most accurate glyph positions
	doc, err := pdf.OpenWithLedongthuc(filepath)
	if err == nil {
		return doc, nil
	}

	// Fallback to dslipak implementation
	doc, err2 := pdf.OpenWithDslipak(filepath)
	if err2 == nil {
		return doc, nil
	}

	return nil, errors.Join(err, err2)
}

// OpenWithDslipak opens a PDF file using the dslipak/pdf library
func OpenWithDslipak(filepath string) (pdf.Document, error) {
	return pdf.OpenWithDslipak(filepath)
}

// OpenWithLedongthuc opens a PDF file using the ledongthuc/pdf library
func OpenWithLedongthuc(filepath string) (pdf.Document, error) {
	return pdf.OpenWithLedongthuc(filepath)
}
