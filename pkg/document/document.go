// Package document edits PDF files on top of pdfcpu: page content,
// annotations, redaction, transparency, page assembly, watermarks and
// optimization.
package document

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/pyhub-apps/pdfsamples-golang/pkg/pdf"
)

const (
	// LastPage selects the last page of a document in page ranges
	LastPage = -1

	// BeforeFirstPage inserts pages in front of the first page
	BeforeFirstPage = -2
)

// Option modifies the pdfcpu configuration used to read and write a document
type Option func(*model.Configuration)

// WithPassword sets the user and owner password
func WithPassword(pw string) Option {
	return func(c *model.Configuration) {
		c.UserPW = pw
		c.OwnerPW = pw
	}
}

// WithValidation sets the validation mode (model.ValidationStrict or
// model.ValidationRelaxed)
func WithValidation(mode int) Option {
	return func(c *model.Configuration) {
		c.ValidationMode = mode
	}
}

// NewConfiguration returns a pdfcpu configuration with relaxed validation
func NewConfiguration(opts ...Option) *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	for _, opt := range opts {
		opt(conf)
	}
	return conf
}

// SaveFlags select how a document is written
type SaveFlags int

const (
	// SaveFull writes a complete file
	SaveFull SaveFlags = 1 << iota
	// SaveCompressed uses object and cross-reference streams
	SaveCompressed
	// SaveLinearized is accepted for compatibility; the file is not linearized
	SaveLinearized
	// SaveOptimized removes duplicate resources before writing
	SaveOptimized
)

// Document is an editable PDF document
type Document struct {
	ctx  *model.Context
	conf *model.Configuration
	path string

	// xfa records an XFA form seen before validation, which drops
	// AcroForms without fields
	xfa bool
}

// Open reads and validates a PDF file
func Open(path string, opts ...Option) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := Read(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc.path = path
	return doc, nil
}

// Read reads and validates a PDF document from rs
func Read(rs io.ReadSeeker, opts ...Option) (*Document, error) {
	d := &Document{conf: NewConfiguration(opts...)}
	if err := d.load(rs); err != nil {
		return nil, err
	}
	return d, nil
}

// load reads and validates the context of d from rs
func (d *Document) load(rs io.ReadSeeker) error {
	ctx, err := api.ReadContext(rs, d.conf)
	if err != nil {
		return fmt.Errorf("failed to parse PDF: %w", err)
	}
	xfa := hasXFA(ctx)
	if err := api.ValidateContext(ctx); err != nil {
		return fmt.Errorf("failed to validate PDF: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return fmt.Errorf("failed to count pages: %w", err)
	}
	d.ctx = ctx
	d.xfa = xfa
	return nil
}

// hasXFA reports whether the unvalidated catalog of ctx has an AcroForm
// with XFA data
func hasXFA(ctx *model.Context) bool {
	catalog, err := ctx.Catalog()
	if err != nil {
		return false
	}
	form, err := ctx.DereferenceDict(catalog["AcroForm"])
	if err != nil || form == nil {
		return false
	}
	_, ok := form["XFA"]
	return ok
}

// Context returns the underlying pdfcpu context
func (d *Document) Context() *model.Context {
	return d.ctx
}

// Path returns the file the document was opened from, if any
func (d *Document) Path() string {
	return d.path
}

// Close releases the document
func (d *Document) Close() error {
	d.ctx = nil
	return nil
}

// PageCount returns the number of pages
func (d *Document) PageCount() int {
	return d.ctx.PageCount
}

// HasXFA reports whether the file the document was read from contains an
// XFA form, even if validation removed it
func (d *Document) HasXFA() bool {
	return d.xfa
}

// IsEncrypted reports whether the file was encrypted
func (d *Document) IsEncrypted() bool {
	return d.ctx.Encrypt != nil
}

// Write writes the document to w
func (d *Document) Write(w io.Writer, flags SaveFlags) error {
	if flags&SaveOptimized != 0 {
		if err := api.OptimizeContext(d.ctx); err != nil {
			return fmt.Errorf("failed to optimize: %w", err)
		}
	}
	compressed := flags&SaveCompressed != 0
	d.ctx.Configuration.WriteObjectStream = compressed
	d.ctx.Configuration.WriteXRefStream = compressed

	if err := api.WriteContext(d.ctx, w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// Save writes the document to path. The document stays usable and reflects
// the file as written.
func (d *Document) Save(path string, flags SaveFlags) error {
	var buf bytes.Buffer
	if err := d.Write(&buf, flags); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}

	if err := d.load(bytes.NewReader(buf.Bytes())); err != nil {
		return fmt.Errorf("failed to reload %s: %w", path, err)
	}
	d.path = path
	return nil
}

// Clone returns an independent copy of the document
func (d *Document) Clone() (*Document, error) {
	var buf bytes.Buffer
	if err := d.Write(&buf, SaveFull); err != nil {
		return nil, err
	}
	// Writing updates the context, so both documents are read back
	if err := d.reloadBytes(buf.Bytes()); err != nil {
		return nil, err
	}
	clone := &Document{conf: d.conf, xfa: d.xfa}
	if err := clone.reloadBytes(buf.Bytes()); err != nil {
		return nil, err
	}
	return clone, nil
}

func (d *Document) checkPage(i int) error {
	if i < 0 || i >= d.ctx.PageCount {
		return fmt.Errorf("%w: page %d of %d", pdf.ErrPageRange, i, d.ctx.PageCount)
	}
	return nil
}

// PageDict returns the dictionary of page i (0-based)
func (d *Document) PageDict(i int) (types.Dict, error) {
	pageDict, _, _, err := d.pageDict(i)
	return pageDict, err
}

func (d *Document) pageDict(i int) (types.Dict, *types.IndirectRef, *model.InheritedPageAttrs, error) {
	if err := d.checkPage(i); err != nil {
		return nil, nil, nil, err
	}
	pageDict, ref, attrs, err := d.ctx.PageDict(i+1, false)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get page dict: %w", err)
	}
	if pageDict == nil {
		return nil, nil, nil, fmt.Errorf("page %d has no dictionary", i)
	}
	return pageDict, ref, attrs, nil
}

// MediaBox returns the media box of page i
func (d *Document) MediaBox(i int) (pdf.BoundingBox, error) {
	_, _, attrs, err := d.pageDict(i)
	if err != nil {
		return pdf.BoundingBox{}, err
	}
	if attrs == nil || attrs.MediaBox == nil {
		// Default US Letter size
		return pdf.BoundingBox{X1: 612, Y1: 792}, nil
	}
	mb := attrs.MediaBox
	return pdf.BoundingBox{X0: mb.LL.X, Y0: mb.LL.Y, X1: mb.UR.X, Y1: mb.UR.Y}, nil
}
