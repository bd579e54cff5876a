// Package testpdf writes small, well-formed PDF files for tests.
//
// Fonts F1 (Helvetica, every glyph 500 units wide) and F2 (Courier, 600
// units) are available on every page. Both carry explicit Widths so that
// glyph positions are predictable for every reader.
package testpdf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// Glyph widths in thousandths of the font size
const (
	HelveticaWidth = 500
	CourierWidth   = 600
)

// Text is a single line of text placed with a text matrix
type Text struct {
	X, Y float64
	Size float64
	Font string // "F1" (default) or "F2"
	S    string
}

// Page describes one page
type Page struct {
	Width, Height float64 // default 612 x 792
	Texts         []Text

	// Raw is appended verbatim to the content stream
	Raw string

	// ExtGState maps resource names to dictionary source, e.g. "<< /ca 0.5 >>"
	ExtGState map[string]string

	// XObject maps resource names to the object number of an Extra object
	XObject map[string]int

	// TransparencyGroup adds /Group << /S /Transparency >> to the page
	TransparencyGroup bool

	// Annots are object numbers of Extra objects listed in /Annots
	Annots []int
}

// Doc describes a document
type Doc struct {
	Pages  []Page
	Tagged bool
	Info   map[string]string

	// Catalog is appended to the catalog dictionary source, e.g. "/AcroForm << ... >>"
	Catalog string

	// Extra are additional objects numbered from ExtraBase on, in order.
	// A value starting with "stream:" becomes a stream with that content
	// and an empty dictionary; use "stream:<<dict>>\n" to give it one.
	Extra []string
}

// ExtraBase is the object number of Doc.Extra[0]
const ExtraBase = 100

// Escape escapes a string for use inside a PDF literal string
func Escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}

// Content returns the content stream for the page's texts followed by Raw
func (p Page) Content() string {
	var sb strings.Builder
	for _, t := range p.Texts {
		font := t.Font
		if font == "" {
			font = "F1"
		}
		size := t.Size
		if size == 0 {
			size = 12
		}
		fmt.Fprintf(&sb, "BT /%s %g Tf 1 0 0 1 %g %g Tm (%s) Tj ET\n", font, size, t.X, t.Y, Escape(t.S))
	}
	sb.WriteString(p.Raw)
	return sb.String()
}

func widths(w int) string {
	parts := make([]string, 0, 95)
	for i := 32; i <= 126; i++ {
		parts = append(parts, fmt.Sprint(w))
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Bytes renders the document
func (d Doc) Bytes() []byte {
	objects := map[int]string{}

	var kids []string
	nextObj := 10
	for _, p := range d.Pages {
		w, h := p.Width, p.Height
		if w == 0 {
			w = 612
		}
		if h == 0 {
			h = 792
		}
		pageNr, contentNr := nextObj, nextObj+1
		nextObj += 2
		kids = append(kids, fmt.Sprintf("%d 0 R", pageNr))

		res := "/Font << /F1 3 0 R /F2 4 0 R >>"
		if len(p.ExtGState) > 0 {
			res += " /ExtGState << " + dictEntries(p.ExtGState) + " >>"
		}
		if len(p.XObject) > 0 {
			refs := map[string]string{}
			for k, v := range p.XObject {
				refs[k] = fmt.Sprintf("%d 0 R", v)
			}
			res += " /XObject << " + dictEntries(refs) + " >>"
		}

		page := fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %g %g] /Resources << %s >> /Contents %d 0 R", w, h, res, contentNr)
		if p.TransparencyGroup {
			page += " /Group << /Type /Group /S /Transparency /CS /DeviceRGB >>"
		}
		if len(p.Annots) > 0 {
			var refs []string
			for _, a := range p.Annots {
				refs = append(refs, fmt.Sprintf("%d 0 R", a))
			}
			page += " /Annots [" + strings.Join(refs, " ") + "]"
		}
		objects[pageNr] = page + " >>"
		objects[contentNr] = stream("", p.Content())
	}

	catalog := "<< /Type /Catalog /Pages 2 0 R"
	if d.Tagged {
		catalog += " /MarkInfo << /Marked true >>"
	}
	if d.Catalog != "" {
		catalog += " " + d.Catalog
	}
	objects[1] = catalog + " >>"
	objects[2] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(kids))
	objects[3] = "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths " + widths(HelveticaWidth) + " >>"
	objects[4] = "<< /Type /Font /Subtype /Type1 /BaseFont /Courier /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths " + widths(CourierWidth) + " >>"

	infoNr := 0
	if len(d.Info) > 0 {
		infoNr = 5
		lits := map[string]string{}
		for k, v := range d.Info {
			lits[k] = "(" + Escape(v) + ")"
		}
		objects[infoNr] = "<< " + dictEntries(lits) + " >>"
	}

	for i, src := range d.Extra {
		if body, ok := strings.CutPrefix(src, "stream:"); ok {
			dict := ""
			if strings.HasPrefix(body, "<<") {
				if j := strings.Index(body, ">>\n"); j >= 0 {
					dict, body = strings.TrimSpace(body[2:j]), body[j+3:]
				}
			}
			objects[ExtraBase+i] = stream(dict, body)
			continue
		}
		objects[ExtraBase+i] = src
	}

	nums := make([]int, 0, len(objects))
	for n := range objects {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	size := nums[len(nums)-1] + 1

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")
	offsets := make([]int, size)
	for _, n := range nums {
		offsets[n] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", n, objects[n])
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", size)
	for n := 0; n < size; n++ {
		if _, ok := objects[n]; ok {
			fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[n])
		} else {
			buf.WriteString("0000000000 65535 f \n")
		}
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R", size)
	if infoNr > 0 {
		fmt.Fprintf(&buf, " /Info %d 0 R", infoNr)
	}
	buf.WriteString(" /ID [<00112233445566778899aabbccddeeff> <00112233445566778899aabbccddeeff>] >>\n")
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xref)
	return buf.Bytes()
}

func stream(dict, content string) string {
	if dict != "" {
		dict += " "
	}
	return fmt.Sprintf("<< %s/Length %d >>\nstream\n%s\nendstream", dict, len(content), content)
}

func dictEntries(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var parts []string
	for _, k := range keys {
		parts = append(parts, "/"+k+" "+m[k])
	}
	return strings.Join(parts, " ")
}

// Write renders d into a file called name inside a temporary directory
// and returns its path
func Write(t testing.TB, name string, d Doc) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, d.Bytes(), 0o644); err != nil {
		t.Fatalf("Failed to write test PDF: %v", err)
	}
	return path
}
