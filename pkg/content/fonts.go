package content

// Glyph is one character code of a shown string
type Glyph struct {
	Code  []byte
	Width float64 // glyph space, thousandths of the font size
	Space bool    // single-byte code 32, which gets word spacing
}

// FontMetrics splits shown strings into glyphs
type FontMetrics interface {
	Codes(s []byte) []Glyph
}

// WidthTable is the width information of a font dictionary.
//
// Simple fonts use one byte per code and FirstChar/Widths. Composite fonts
// (TwoByte) use two bytes per code with CIDWidths from the descendant's W
// array and DefaultWidth for the rest.
type WidthTable struct {
	FirstChar    int
	Widths       []float64
	MissingWidth float64

	TwoByte      bool
	CIDWidths    map[int]float64
	DefaultWidth float64
}

// Codes implements FontMetrics
func (t *WidthTable) Codes(s []byte) []Glyph {
	if t.TwoByte {
		glyphs := make([]Glyph, 0, (len(s)+1)/2)
		for i := 0; i < len(s); i += 2 {
			end := min(i+2, len(s))
			code := 0
			for _, b := range s[i:end] {
				code = code<<8 | int(b)
			}
			w, ok := t.CIDWidths[code]
			if !ok {
				w = t.DefaultWidth
			}
			glyphs = append(glyphs, Glyph{Code: s[i:end], Width: w})
		}
		return glyphs
	}

	glyphs := make([]Glyph, len(s))
	for i, b := range s {
		glyphs[i] = Glyph{Code: s[i : i+1], Width: t.width(int(b)), Space: b == ' '}
	}
	return glyphs
}

func (t *WidthTable) width(code int) float64 {
	i := code - t.FirstChar
	if i >= 0 && i < len(t.Widths) {
		return t.Widths[i]
	}
	return t.MissingWidth
}

// maxCID is the largest CID a W array entry may assign
const maxCID = 0xFFFF

// ParseCIDWidths reads a W array of the form [c [w1 w2 ...] cfirst clast w ...].
// CIDs outside 0 to 0xFFFF are ignored.
func ParseCIDWidths(w []Object) map[int]float64 {
	widths := map[int]float64{}
	for i := 0; i < len(w); {
		first, ok := w[i].(Number)
		if !ok || i+1 >= len(w) {
			break
		}
		switch next := w[i+1].(type) {
		case Array:
			for j, v := range next {
				c := int(first) + j
				if c > maxCID {
					break
				}
				if n, ok := v.(Number); ok && c >= 0 {
					widths[c] = float64(n)
				}
			}
			i += 2
		case Number:
			if i+2 >= len(w) {
				return widths
			}
			n, ok := w[i+2].(Number)
			if !ok {
				return widths
			}
			for c := max(int(first), 0); c <= min(int(next), maxCID); c++ {
				widths[c] = float64(n)
			}
			i += 3
		default:
			return widths
		}
	}
	return widths
}
