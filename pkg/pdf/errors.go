package pdf

import "errors"

var (
	// ErrPageRange is returned for page indexes outside the document
	ErrPageRange = errors.New("page out of range")

	// ErrNoPattern is returned when a text search is started without a pattern
	ErrNoPattern = errors.New("empty search pattern")
)
