// Package pdfa converts documents to PDF/A.
//
// Conversion works on a copy of the document. Problems that can be repaired
// automatically (JavaScript, forbidden annotations, transparency for part 1,
// missing output intent and metadata) are repaired; the rest are reported as
// violations.
package pdfa

import (
	"errors"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/pyhub-apps/pdfsamples-golang/pkg/document"
)

var (
	// ErrXFAPresent is returned when the document has an XFA form and
	// Params.AbortIfXFAIsPresent is set
	ErrXFAPresent = errors.New("document contains XFA form data")

	// ErrEncrypted is returned for encrypted documents
	ErrEncrypted = errors.New("encrypted documents cannot be converted to PDF/A")
)

// ConvertType is the PDF/A part and conformance level to produce
type ConvertType int

const (
	RGB1B ConvertType = iota
	RGB2B
	RGB3B
)

// Part returns the PDF/A part number
func (t ConvertType) Part() int {
	switch t {
	case RGB1B:
		return 1
	case RGB2B:
		return 2
	}
	return 3
}

// Conformance returns the conformance level letter
func (t ConvertType) Conformance() string {
	return "B"
}

func (t ConvertType) String() string {
	return fmt.Sprintf("PDF/A-%db", t.Part())
}

// allowsTransparency reports whether the part permits transparency
func (t ConvertType) allowsTransparency() bool {
	return t != RGB1B
}

// Params controls the conversion
type Params struct {
	// AbortIfXFAIsPresent fails the conversion of documents with XFA forms
	// instead of dropping the XFA data
	AbortIfXFAIsPresent bool

	// IgnoreFontErrors skips the font embedding check
	IgnoreFontErrors bool

	// NoValidationErrors produces a document even when violations remain
	NoValidationErrors bool

	// ValidateImplementationLimits checks string, name, array, dictionary
	// and number limits
	ValidateImplementationLimits bool
}

// Violation is a PDF/A requirement the converted document does not meet
type Violation struct {
	Code        string
	Description string
	Location    string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s (%s)", v.Code, v.Description, v.Location)
}

// Result is the outcome of a conversion
type Result struct {
	// Document is the converted document, nil if conversion failed
	Document *document.Document

	// SaveFlags are the flags to save Document with
	SaveFlags document.SaveFlags

	Violations []Violation

	// Fixed counts the repairs that were made
	Fixed int
}

// Converted reports whether a document was produced
func (r *Result) Converted() bool {
	return r.Document != nil
}

// converter holds the state of one conversion
type converter struct {
	doc        *document.Document
	typ        ConvertType
	params     Params
	violations []Violation
	fixed      int
}

func (c *converter) violation(code, desc, loc string) {
	c.violations = append(c.violations, Violation{Code: code, Description: desc, Location: loc})
}

// Convert creates a PDF/A version of doc. The input document is not
// modified.
func Convert(doc *document.Document, typ ConvertType, params Params) (*Result, error) {
	if doc.IsEncrypted() {
		return nil, ErrEncrypted
	}

	clone, err := doc.Clone()
	if err != nil {
		return nil, fmt.Errorf("failed to copy document: %w", err)
	}
	c := &converter{doc: clone, typ: typ, params: params}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"remove XFA", c.removeXFA},
		{"remove actions", c.removeActions},
		{"fix annotations", c.fixAnnotations},
		{"flatten transparency", c.flattenTransparency},
		{"check fonts", c.checkFonts},
		{"check optional content", c.checkOptionalContent},
		{"check limits", c.checkLimits},
		{"add output intent", c.addOutputIntent},
		{"fix info", c.fixInfo},
		{"add metadata", c.addMetadata},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			clone.Close()
			if errors.Is(err, ErrXFAPresent) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to %s: %w", step.name, err)
		}
	}

	res := &Result{Violations: c.violations, Fixed: c.fixed, SaveFlags: document.SaveFull}
	if typ.allowsTransparency() {
		res.SaveFlags |= document.SaveCompressed
	}
	if len(c.violations) > 0 && !params.NoValidationErrors {
		clone.Close()
		return res, nil
	}
	res.Document = clone
	return res, nil
}

// removeXFA drops XFA form data, or fails when configured to
func (c *converter) removeXFA() error {
	catalog, err := c.doc.Catalog()
	if err != nil {
		return err
	}
	form := c.doc.DictOf(catalog["AcroForm"])
	_, inForm := form["XFA"]
	if !inForm && !c.doc.HasXFA() {
		return nil
	}
	if c.params.AbortIfXFAIsPresent {
		return ErrXFAPresent
	}
	if inForm {
		delete(form, "XFA")
		delete(form, "NeedsRendering")
	}
	c.fixed++
	return nil
}

func (c *converter) flattenTransparency() error {
	if c.typ.allowsTransparency() || c.doc.PageCount() == 0 {
		return nil
	}
	n, err := c.doc.FlattenTransparency(0, document.LastPage)
	c.fixed += n
	return err
}

func (c *converter) checkOptionalContent() error {
	if c.typ.allowsTransparency() {
		return nil
	}
	catalog, err := c.doc.Catalog()
	if err != nil {
		return err
	}
	if _, ok := catalog["OCProperties"]; ok {
		c.violation("LYR001", "Optional content is forbidden in "+c.typ.String(), "Catalog")
	}
	return nil
}

// fixInfo removes an invalid Trapped entry from the information dictionary
func (c *converter) fixInfo() error {
	info, err := c.doc.Info()
	if err != nil {
		return err
	}
	trapped, ok := info["Trapped"]
	if !ok {
		return nil
	}
	switch v := c.doc.Deref(trapped).(type) {
	case types.Name:
		if v == "True" || v == "False" {
			return nil
		}
	case types.Boolean:
		info["Trapped"] = types.Name("False")
		if v {
			info["Trapped"] = types.Name("True")
		}
		c.fixed++
		return nil
	}
	delete(info, "Trapped")
	c.fixed++
	return nil
}
