package pdf

import (
	"errors"
	"fmt"

	lpdf "github.com/ledongthuc/pdf"
)

// LedongthucDocument implements the Document interface using ledongthuc/pdf library
type LedongthucDocument struct {
	baseDocument
	reader *lpdf.Reader
}

// OpenWithLedongthuc opens a PDF file using the ledongthuc/pdf library
func OpenWithLedongthuc(filepath string) (doc Document, err error) {
	// The reader panics on some malformed input instead of returning an error
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("failed to open PDF with ledongthuc: %v", r)
		}
	}()

	f, r, err := lpdf.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF with ledongthuc: %w", err)
	}

	d := &LedongthucDocument{
		baseDocument: baseDocument{closer: f, filepath: filepath},
		reader:       r,
	}

	trailer := r.Trailer()
	d.metadata = ledongthucMetadata(trailer.Key("Info"))
	d.tagged = ledongthucMarked(trailer.Key("Root"))

	if err := d.initializePages(); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to initialize pages: %w", err)
	}

	return d, nil
}

// initializePages initializes all pages in the document
func (d *LedongthucDocument) initializePages() error {
	pageCount := d.reader.NumPage()
	if pageCount == 0 {
		return errors.New("document has no pages")
	}
	d.pages = make([]Page, pageCount)

	for i := 1; i <= pageCount; i++ {
		page, err := NewLedongthucPage(d.reader, i)
		if err != nil {
			return fmt.Errorf("failed to initialize page %d: %w", i, err)
		}
		d.pages[i-1] = page
	}

	return nil
}

func ledongthucMetadata(info lpdf.Value) Metadata {
	if info.Kind() != lpdf.Dict {
		return Metadata{}
	}
	return Metadata{
		Title:        info.Key("Title").Text(),
		Author:       info.Key("Author").Text(),
		Subject:      info.Key("Subject").Text(),
		Keywords:     info.Key("Keywords").Text(),
		Creator:      info.Key("Creator").Text(),
		Producer:     info.Key("Producer").Text(),
		CreationDate: ParseDate(info.Key("CreationDate").Text()),
		ModDate:      ParseDate(info.Key("ModDate").Text()),
		Trapped:      info.Key("Trapped").Name(),
	}
}

func ledongthucMarked(root lpdf.Value) bool {
	markInfo := root.Key("MarkInfo")
	if markInfo.Kind() != lpdf.Dict {
		return false
	}
	marked := markInfo.Key("Marked")
	return marked.Kind() == lpdf.Bool && marked.Bool()
}

// ledongthucInherited looks a page attribute up the page tree
func ledongthucInherited(page lpdf.Value, key string) lpdf.Value {
	for v := page; v.Kind() == lpdf.Dict; v = v.Key("Parent") {
		if attr := v.Key(key); !attr.IsNull() {
			return attr
		}
	}
	return lpdf.Value{}
}

// LedongthucPage implements the Page interface using ledongthuc/pdf
type LedongthucPage struct {
	basePage
	page lpdf.Page
}

// NewLedongthucPage creates a new page using ledongthuc/pdf
func NewLedongthucPage(reader *lpdf.Reader, pageNumber int) (Page, error) {
	if pageNumber < 1 || pageNumber > reader.NumPage() {
		return nil, fmt.Errorf("%w: invalid page number %d", ErrPageRange, pageNumber)
	}

	page := reader.Page(pageNumber)

	// Default to US Letter
	bbox := BoundingBox{X0: 0, Y0: 0, X1: 612, Y1: 792}
	mediaBox := ledongthucInherited(page.V, "MediaBox")
	if mediaBox.Kind() == lpdf.Array && mediaBox.Len() == 4 {
		bbox = BoundingBox{
			X0: mediaBox.Index(0).Float64(),
			Y0: mediaBox.Index(1).Float64(),
			X1: mediaBox.Index(2).Float64(),
			Y1: mediaBox.Index(3).Float64(),
		}
	}

	p := &LedongthucPage{
		basePage: basePage{
			pageNumber: pageNumber,
			width:      bbox.Width(),
			height:     bbox.Height(),
			bbox:       bbox,
		},
		page: page,
	}

	if rotate := ledongthucInherited(page.V, "Rotate"); rotate.Kind() == lpdf.Integer {
		p.rotation = int(rotate.Int64())
	}

	for _, text := range page.Content().Text {
		p.appendTextRun(text.Font, text.FontSize, text.X, text.Y, text.W, text.S)
	}

	return p, nil
}
