package pdf

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dlclark/regexp2"
)

// matchTimeout bounds a single page search against catastrophic backtracking
const matchTimeout = 10 * time.Second

// PageQuads are the quads a match covers on one page
type PageQuads struct {
	PageIndex int
	Quads     []Quad
}

// Match is one occurrence of a search pattern
type Match struct {
	Text     string
	QuadInfo []PageQuads
}

// DocTextFinder runs regular expressions over the words of a document
type DocTextFinder struct {
	finder *WordFinder
}

// NewDocTextFinder returns a text finder for doc using the given word options
func NewDocTextFinder(doc Document, opts ...WordExtractionOption) *DocTextFinder {
	return &DocTextFinder{finder: NewWordFinder(doc, opts...)}
}

// charRef locates a rune of the page text stream; word is -1 for separators
type charRef struct {
	word int
	char int
}

// pageStream is the searchable text of a page with a back-reference per rune
type pageStream struct {
	words []Word
	text  []rune
	refs  []charRef
}

func newPageStream(words []Word) *pageStream {
	s := &pageStream{words: words}
	for wi, w := range words {
		for ci, c := range w.Chars {
			for _, r := range c.Text {
				s.text = append(s.text, r)
				s.refs = append(s.refs, charRef{word: wi, char: ci})
			}
		}
		if w.Attributes.Has(LastWordOnLine) {
			s.text = append(s.text, '\n')
			s.refs = append(s.refs, charRef{word: -1})
		} else if w.Attributes.Has(AdjacentToSpace) {
			s.text = append(s.text, ' ')
			s.refs = append(s.refs, charRef{word: -1})
		}
	}
	return s
}

// quads returns one quad per line touched by the runes [start, end)
func (s *pageStream) quads(start, end int) []Quad {
	var quads []Quad
	var box BoundingBox
	open := false

	flush := func() {
		if open {
			quads = append(quads, QuadFromBBox(box))
		}
		open = false
	}

	for i := start; i < end; i++ {
		ref := s.refs[i]
		if ref.word < 0 {
			if s.text[i] == '\n' {
				flush()
			}
			continue
		}
		cb := s.words[ref.word].Chars[ref.char].GetBBox()
		if !open {
			box = cb
			open = true
		} else {
			box = box.Union(cb)
		}
	}
	flush()
	return quads
}

// GetMatchList returns every match of pattern on the pages first through last
// (0-based, inclusive). Matches never span pages.
func (f *DocTextFinder) GetMatchList(first, last int, pattern string) ([]Match, error) {
	if pattern == "" {
		return nil, ErrNoPattern
	}
	n := f.finder.Document().PageCount()
	if first < 0 || last >= n || first > last {
		return nil, fmt.Errorf("%w: pages %d-%d of %d", ErrPageRange, first, last, n)
	}

	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	re.MatchTimeout = matchTimeout

	var matches []Match
	for pageIndex := first; pageIndex <= last; pageIndex++ {
		words, err := f.finder.GetWordList(pageIndex)
		if err != nil {
			return nil, err
		}
		stream := newPageStream(words)

		m, err := re.FindRunesMatch(stream.text)
		for ; m != nil && err == nil; m, err = re.FindNextMatch(m) {
			if m.Length == 0 {
				continue
			}
			quads := stream.quads(m.Index, m.Index+m.Length)
			if len(quads) == 0 {
				continue
			}
			matches = append(matches, Match{
				Text:     m.String(),
				QuadInfo: []PageQuads{{PageIndex: pageIndex, Quads: quads}},
			})
		}
		if err != nil {
			return nil, fmt.Errorf("search on page %d failed: %w", pageIndex+1, err)
		}
	}

	return matches, nil
}

type jsonPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type jsonQuadLocation struct {
	BottomLeft  jsonPoint `json:"bottom-left"`
	BottomRight jsonPoint `json:"bottom-right"`
	TopLeft     jsonPoint `json:"top-left"`
	TopRight    jsonPoint `json:"top-right"`
}

type jsonMatchQuad struct {
	PageNumber   int              `json:"page-number"`
	QuadLocation jsonQuadLocation `json:"quad-location"`
}

type jsonMatch struct {
	MatchPhrase string          `json:"match-phrase"`
	MatchQuads  []jsonMatchQuad `json:"match-quads"`
}

// WriteMatchesJSON writes matches as a JSON array, one object per match
// with the page number and corner points of every quad.
func WriteMatchesJSON(w io.Writer, matches []Match) error {
	out := make([]jsonMatch, 0, len(matches))
	for _, m := range matches {
		jm := jsonMatch{MatchPhrase: m.Text, MatchQuads: []jsonMatchQuad{}}
		for _, qi := range m.QuadInfo {
			for _, q := range qi.Quads {
				jm.MatchQuads = append(jm.MatchQuads, jsonMatchQuad{
					PageNumber: qi.PageIndex,
					QuadLocation: jsonQuadLocation{
						BottomLeft:  jsonPoint(q.BottomLeft),
						BottomRight: jsonPoint(q.BottomRight),
						TopLeft:     jsonPoint(q.TopLeft),
						TopRight:    jsonPoint(q.TopRight),
					},
				})
			}
		}
		out = append(out, jm)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}
