package pdf

import (
	"errors"
	"fmt"

	gopdf "github.com/dslipak/pdf"
)

// DsliPakDocument implements the Document interface using dslipak/pdf library
type DsliPakDocument struct {
	baseDocument
	reader *gopdf.Reader
}

// OpenWithDslipak opens a PDF file using the dslipak/pdf library
func OpenWithDslipak(filepath string) (doc Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("failed to open PDF with dslipak: %v", r)
		}
	}()

	r, err := gopdf.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF with dslipak: %w", err)
	}

	d := &DsliPakDocument{
		baseDocument: baseDocument{filepath: filepath},
		reader:       r,
	}

	trailer := r.Trailer()
	d.metadata = dslipakMetadata(trailer.Key("Info"))
	if markInfo := trailer.Key("Root").Key("MarkInfo"); markInfo.Kind() == gopdf.Dict {
		marked := markInfo.Key("Marked")
		d.tagged = marked.Kind() == gopdf.Bool && marked.Bool()
	}

	if err := d.initializePages(); err != nil {
		return nil, fmt.Errorf("failed to initialize pages: %w", err)
	}

	return d, nil
}

// initializePages initializes all pages in the document
func (d *DsliPakDocument) initializePages() error {
	pageCount := d.reader.NumPage()
	if pageCount == 0 {
		return errors.New("document has no pages")
	}
	d.pages = make([]Page, pageCount)

	for i := 1; i <= pageCount; i++ {
		page, err := NewDsliPakPage(d.reader, i)
		if err != nil {
			return fmt.Errorf("failed to initialize page %d: %w", i, err)
		}
		d.pages[i-1] = page
	}

	return nil
}

func dslipakMetadata(info gopdf.Value) Metadata {
	if info.Kind() != gopdf.Dict {
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

// DsliPakPage implements the Page interface using dslipak/pdf
type DsliPakPage struct {
	basePage
	page gopdf.Page
}

// NewDsliPakPage creates a new page using dslipak/pdf
func NewDsliPakPage(reader *gopdf.Reader, pageNumber int) (Page, error) {
	if pageNumber < 1 || pageNumber > reader.NumPage() {
		return nil, fmt.Errorf("%w: invalid page number %d", ErrPageRange, pageNumber)
	}

	page := reader.Page(pageNumber)

	bbox := BoundingBox{X0: 0, Y0: 0, X1: 612, Y1: 792}
	for v := page.V; v.Kind() == gopdf.Dict; v = v.Key("Parent") {
		mediaBox := v.Key("MediaBox")
		if mediaBox.Kind() == gopdf.Array && mediaBox.Len() == 4 {
			bbox = BoundingBox{
				X0: mediaBox.Index(0).Float64(),
				Y0: mediaBox.Index(1).Float64(),
				X1: mediaBox.Index(2).Float64(),
				Y1: mediaBox.Index(3).Float64(),
			}
			break
		}
	}

	p := &DsliPakPage{
		basePage: basePage{
			pageNumber: pageNumber,
			width:      bbox.Width(),
			height:     bbox.Height(),
			bbox:       bbox,
		},
		page: page,
	}

	if rotate := page.V.Key("Rotate"); rotate.Kind() == gopdf.Integer {
		p.rotation = int(rotate.Int64())
	}

	for _, text := range page.Content().Text {
		p.appendTextRun(text.Font, text.FontSize, text.X, text.Y, text.W, text.S)
	}

	return p, nil
}
