package pdf

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// PageText renders the words of one page as plain text.
//
// A word marked HasSoftHyphen loses its trailing hyphen. Tagged documents
// only treat U+00AD and U+2010 as soft hyphens; untagged documents also
// accept '-', but only on the last word of a line. The word separators
// are written either way.
func PageText(words []Word, tagged bool) string {
	var sb strings.Builder
	for _, w := range words {
		text := w.Text
		if w.Attributes.Has(HasSoftHyphen) && (tagged || w.Attributes.Has(LastWordOnLine)) {
			text = trimSoftHyphen(text, tagged)
		}
		sb.WriteString(text)

		if w.Attributes.Has(AdjacentToSpace) || w.LastWordInRegion {
			sb.WriteByte(' ')
		}
		if w.Attributes.Has(LastWordOnLine) {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func trimSoftHyphen(text string, tagged bool) string {
	r := []rune(text)
	if len(r) < 2 {
		return text
	}
	last := r[len(r)-1]
	if last == '\u00ad' || last == '\u2010' || (!tagged && last == '-') {
		return string(r[:len(r)-1])
	}
	return text
}

// ExtractDocumentText writes the text of every page of the finder's document
// to w, each page preceded by a "<page N>" header line. It returns the
// number of pages written.
func ExtractDocumentText(w io.Writer, finder *WordFinder, tagged bool) (int, error) {
	bw := bufio.NewWriter(w)
	n := finder.Document().PageCount()

	for pageIndex := 0; pageIndex < n; pageIndex++ {
		words, err := finder.GetWordList(pageIndex)
		if err != nil {
			return pageIndex, fmt.Errorf("failed to get words of page %d: %w", pageIndex+1, err)
		}

		fmt.Fprintf(bw, "<page %d>\n", pageIndex+1)
		bw.WriteString(PageText(words, tagged))
		bw.WriteString("\n")
	}

	if err := bw.Flush(); err != nil {
		return n, fmt.Errorf("failed to write text: %w", err)
	}
	return n, nil
}
