package pdf

import (
	"math"
	"sort"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// WordExtractionOption is a function that modifies word extraction behavior
type WordExtractionOption func(*wordExtractionConfig)

type wordExtractionConfig struct {
	XTolerance        float64
	YTolerance        float64
	IgnoreCharGaps    bool
	IgnoreLineGaps    bool
	NoHyphenDetection bool
	NoLigatureExp     bool
	NoXYSort          bool
	NoStyleInfo       bool
	DisableTaggedPDF  bool
}

func newWordExtractionConfig(opts ...WordExtractionOption) *wordExtractionConfig {
	config := &wordExtractionConfig{
		XTolerance: 3.0,
		YTolerance: 3.0,
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// WithXTolerance sets the horizontal gap that separates two words
func WithXTolerance(tolerance float64) WordExtractionOption {
	return func(c *wordExtractionConfig) {
		c.XTolerance = tolerance
	}
}

// WithYTolerance sets the baseline difference that starts a new line
func WithYTolerance(tolerance float64) WordExtractionOption {
	return func(c *wordExtractionConfig) {
		c.YTolerance = tolerance
	}
}

// WithIgnoreCharGaps splits words only at gaps as wide as a space,
// so letter-spaced text stays a single word
func WithIgnoreCharGaps(enabled bool) WordExtractionOption {
	return func(c *wordExtractionConfig) {
		c.IgnoreCharGaps = enabled
	}
}

// WithIgnoreLineGaps keeps consecutive lines in one region regardless of spacing
func WithIgnoreLineGaps(enabled bool) WordExtractionOption {
	return func(c *wordExtractionConfig) {
		c.IgnoreLineGaps = enabled
	}
}

// WithNoHyphenDetection disables the HasSoftHyphen attribute
func WithNoHyphenDetection(enabled bool) WordExtractionOption {
	return func(c *wordExtractionConfig) {
		c.NoHyphenDetection = enabled
	}
}

// WithNoLigatureExpansion keeps ligature code points such as U+FB01 as they are
func WithNoLigatureExpansion(enabled bool) WordExtractionOption {
	return func(c *wordExtractionConfig) {
		c.NoLigatureExp = enabled
	}
}

// WithNoXYSort keeps glyphs in content stream order instead of reading order
func WithNoXYSort(enabled bool) WordExtractionOption {
	return func(c *wordExtractionConfig) {
		c.NoXYSort = enabled
	}
}

// WithNoStyleInfo skips the computation of style transitions
func WithNoStyleInfo(enabled bool) WordExtractionOption {
	return func(c *wordExtractionConfig) {
		c.NoStyleInfo = enabled
	}
}

// WithDisableTaggedPDF makes a word finder treat tagged documents as
// untagged ones
func WithDisableTaggedPDF(enabled bool) WordExtractionOption {
	return func(c *wordExtractionConfig) {
		c.DisableTaggedPDF = enabled
	}
}

// WordFinder extracts and caches the words of a document page by page
type WordFinder struct {
	doc    Document
	opts   []WordExtractionOption
	tagged bool

	mu    sync.Mutex
	cache map[int][]Word
}

// NewWordFinder returns a word finder for doc
func NewWordFinder(doc Document, opts ...WordExtractionOption) *WordFinder {
	config := newWordExtractionConfig(opts...)
	return &WordFinder{
		doc:    doc,
		opts:   opts,
		tagged: doc.IsTagged() && !config.DisableTaggedPDF,
		cache:  make(map[int][]Word),
	}
}

// GetWordList returns the words on the page with the given index (0-based)
func (f *WordFinder) GetWordList(pageIndex int) ([]Word, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if words, ok := f.cache[pageIndex]; ok {
		return words, nil
	}

	page, err := f.doc.GetPage(pageIndex)
	if err != nil {
		return nil, err
	}

	words := page.ExtractWords(f.opts...)
	f.cache[pageIndex] = words
	return words, nil
}

// Document returns the document the finder reads from
func (f *WordFinder) Document() Document {
	return f.doc
}

// Tagged reports whether the finder treats its document as tagged
func (f *WordFinder) Tagged() bool {
	return f.tagged
}

// findWords groups the glyphs of a page into lines, words and regions
func findWords(pageIndex int, chars []CharObject, config *wordExtractionConfig) []Word {
	if len(chars) == 0 {
		return nil
	}

	if !config.NoLigatureExp {
		chars = expandLigatures(chars)
	} else {
		chars = append([]CharObject(nil), chars...)
	}

	lines := groupLines(chars, config)

	var words []Word
	var prevLine []CharObject
	for _, line := range lines {
		lineWords := extractWordsFromLine(pageIndex, line, config)
		if len(lineWords) == 0 {
			continue
		}

		if prevLine != nil && len(words) > 0 && startsRegion(prevLine, line, config) {
			words[len(words)-1].LastWordInRegion = true
		}

		lineWords[len(lineWords)-1].Attributes |= LastWordOnLine
		for i := range lineWords {
			if i < len(lineWords)-1 {
				lineWords[i].Attributes |= AdjacentToSpace
			}
			lineWords[i].Attributes |= textAttributes(lineWords[i], config)
		}

		words = append(words, lineWords...)
		prevLine = line
	}

	if len(words) > 0 {
		words[len(words)-1].LastWordInRegion = true
	}

	return words
}

// expandLigatures replaces typographic ligatures with their component letters.
// The ligature's box is divided evenly between the letters.
func expandLigatures(chars []CharObject) []CharObject {
	out := make([]CharObject, 0, len(chars))
	for _, c := range chars {
		r := []rune(c.Text)
		if len(r) != 1 || r[0] < 0xFB00 || r[0] > 0xFB06 {
			out = append(out, c)
			continue
		}

		parts := []rune(norm.NFKC.String(c.Text))
		w := c.Width / float64(len(parts))
		x := c.X0
		for _, p := range parts {
			part := c
			part.Text = string(p)
			part.X0 = x
			part.X1 = x + w
			part.Width = w
			out = append(out, part)
			x += w
		}
	}
	return out
}

func baseline(c CharObject) float64 {
	return c.Y0 + c.FontSize*descentRatio
}

// groupLines splits glyphs into lines, top to bottom and left to right
// unless content order is requested.
func groupLines(chars []CharObject, config *wordExtractionConfig) [][]CharObject {
	if !config.NoXYSort {
		sort.SliceStable(chars, func(i, j int) bool {
			return baseline(chars[i]) > baseline(chars[j])
		})
	}

	var lines [][]CharObject
	var currentLine []CharObject
	currentY := baseline(chars[0])

	for i, char := range chars {
		newLine := math.Abs(baseline(char)-currentY) > config.YTolerance
		if config.NoXYSort && i > 0 && !newLine {
			// Content order: a jump back to the left also ends the line
			prev := chars[i-1]
			newLine = char.X0 < prev.X0-config.XTolerance
		}
		if newLine {
			if len(currentLine) > 0 {
				lines = append(lines, currentLine)
			}
			currentLine = []CharObject{char}
			currentY = baseline(char)
		} else {
			currentLine = append(currentLine, char)
		}
	}

	// Add the last line
	if len(currentLine) > 0 {
		lines = append(lines, currentLine)
	}

	if !config.NoXYSort {
		for _, line := range lines {
			sort.SliceStable(line, func(i, j int) bool {
				return line[i].X0 < line[j].X0
			})
		}
	}

	return lines
}

// startsRegion reports whether line is separated from prev by more than a line height.
func startsRegion(prev, line []CharObject, config *wordExtractionConfig) bool {
	if config.IgnoreLineGaps {
		return false
	}
	prevBox, lineBox := lineBBox(prev), lineBBox(line)
	if lineBox.Y0 > prevBox.Y1 {
		// Reading moved back up the page, e.g. to the next column
		return true
	}
	gap := prevBox.Y0 - lineBox.Y1
	return gap > lineBox.Height()
}

func lineBBox(line []CharObject) BoundingBox {
	b := line[0].GetBBox()
	for _, c := range line[1:] {
		b = b.Union(c.GetBBox())
	}
	return b
}

// extractWordsFromLine extracts words from a single line of characters
func extractWordsFromLine(pageIndex int, lineChars []CharObject, config *wordExtractionConfig) []Word {
	if len(lineChars) == 0 {
		return nil
	}

	var words []Word
	var currentWord []CharObject

	for i, char := range lineChars {
		if i == 0 {
			currentWord = []CharObject{char}
			continue
		}

		gap := char.X0 - lineChars[i-1].X1
		var split bool
		if config.IgnoreCharGaps {
			split = gap > char.FontSize*0.2
		} else {
			split = gap > config.XTolerance || gap > char.Width*0.3
		}

		if split {
			words = append(words, createWord(pageIndex, currentWord, config))
			currentWord = []CharObject{char}
		} else {
			currentWord = append(currentWord, char)
		}
	}

	// Add the last word
	if len(currentWord) > 0 {
		words = append(words, createWord(pageIndex, currentWord, config))
	}

	return words
}

// createWord creates a Word from a group of characters
func createWord(pageIndex int, chars []CharObject, config *wordExtractionConfig) Word {
	var text strings.Builder
	box := chars[0].GetBBox()

	for _, char := range chars {
		text.WriteString(char.Text)
		box = box.Union(char.GetBBox())
	}

	w := Word{
		Text:      text.String(),
		PageIndex: pageIndex,
		Quads:     []Quad{QuadFromBBox(box)},
		Chars:     chars,
	}

	if !config.NoStyleInfo {
		idx := 0
		for i, char := range chars {
			s := Style{FontName: char.Font, FontSize: char.FontSize}
			if i == 0 || s != w.Styles[len(w.Styles)-1] {
				w.StyleTransitions = append(w.StyleTransitions, idx)
				w.Styles = append(w.Styles, s)
			}
			idx += len([]rune(char.Text))
		}
	}

	return w
}

func isHyphen(r rune) bool {
	return r == '-' || r == '\u00ad' || r == '\u2010'
}

// textAttributes derives the flags that depend only on the word's text
// and its position at the end of a line
func textAttributes(w Word, config *wordExtractionConfig) WordAttribute {
	runes := []rune(w.Text)
	if len(runes) == 0 {
		return 0
	}

	var attrs WordAttribute
	first, last := runes[0], runes[len(runes)-1]

	if !config.NoHyphenDetection && isHyphen(last) && w.Attributes.Has(LastWordOnLine) && len(runes) > 1 {
		attrs |= HasSoftHyphen
	} else if unicode.IsPunct(last) {
		attrs |= HasTrailingPunctuation
	}
	if unicode.IsPunct(first) && len(runes) > 1 {
		attrs |= HasLeadingPunctuation
	}

	letters, upper := 0, 0
	for _, r := range runes {
		if unicode.IsDigit(r) {
			attrs |= HasDigit
		}
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters > 0 && letters == upper {
		attrs |= AllUppercase
	}

	return attrs
}
