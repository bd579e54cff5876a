package pdf

// Document represents a PDF document opened for reading
type Document interface {
	// GetMetadata returns the PDF metadata
	GetMetadata() Metadata

	// GetPages returns all pages in the document
	GetPages() []Page

	// GetPage returns a specific page by index (0-based)
	GetPage(index int) (Page, error)

	// PageCount returns the total number of pages
	PageCount() int

	// IsTagged reports whether the catalog's MarkInfo dictionary marks
	// the document as tagged
	IsTagged() bool

	// Close releases resources associated with the document
	Close() error
}

// Page represents a single page in a PDF document
type Page interface {
	// GetPageNumber returns the page number (1-based)
	GetPageNumber() int

	// GetWidth returns the page width
	GetWidth() float64

	// GetHeight returns the page height
	GetHeight() float64

	// GetRotation returns the page rotation in degrees
	GetRotation() int

	// GetBBox returns the page bounding box
	GetBBox() BoundingBox

	// GetChars returns the positioned glyphs of the page in content order
	GetChars() []CharObject

	// ExtractText extracts text from the page
	ExtractText(opts ...TextExtractionOption) string

	// ExtractWords extracts individual words from the page
	ExtractWords(opts ...WordExtractionOption) []Word
}
