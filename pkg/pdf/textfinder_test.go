package pdf

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/pyhub-apps/pdfsamples-golang/internal/testpdf"
)

const phonePattern = `((1-)?(\()?\d{3}(\))?(\s)?(-)?\d{3}-\d{4})`

func TestGetMatchList(t *testing.T) {
	doc := openTestDoc(t, testpdf.Doc{Pages: []testpdf.Page{
		{Texts: []testpdf.Text{{X: 72, Y: 700, S: "Call (555) 123-4567 today"}}},
		{Texts: []testpdf.Text{
			{X: 72, Y: 700, S: "Office 1-800-555-0199"},
			{X: 72, Y: 686, S: "no number here"},
		}},
	}})

	finder := NewDocTextFinder(doc)
	matches, err := finder.GetMatchList(0, doc.PageCount()-1, phonePattern)
	if err != nil {
		t.Fatalf("GetMatchList failed: %v", err)
	}

	var texts []string
	for _, m := range matches {
		texts = append(texts, m.Text)
	}
	if diff := cmp.Diff([]string{"(555) 123-4567", "1-800-555-0199"}, texts); diff != "" {
		t.Fatalf("Matches mismatch (-want +got):\n%s", diff)
	}

	// "Call " is 5 glyphs of 6pt, the match is 14 glyphs
	want := []PageQuads{{
		PageIndex: 0,
		Quads: []Quad{QuadFromBBox(BoundingBox{
			X0: 102, Y0: 697.6, X1: 186, Y1: 709.6,
		})},
	}}
	approx := cmpopts.EquateApprox(0, 1e-9)
	if diff := cmp.Diff(want, matches[0].QuadInfo, approx); diff != "" {
		t.Errorf("Quads mismatch (-want +got):\n%s", diff)
	}

	if matches[1].QuadInfo[0].PageIndex != 1 {
		t.Errorf("Expected second match on page index 1, got %d", matches[1].QuadInfo[0].PageIndex)
	}
}

func TestGetMatchListAcrossLines(t *testing.T) {
	doc := openTestDoc(t, testpdf.Doc{Pages: []testpdf.Page{{
		Texts: []testpdf.Text{
			{X: 72, Y: 700, S: "red apple"},
			{X: 72, Y: 686, S: "green pear"},
		},
	}}})

	matches, err := NewDocTextFinder(doc).GetMatchList(0, 0, `apple\sgreen`)
	if err != nil {
		t.Fatalf("GetMatchList failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("Expected 1 match, got %d", len(matches))
	}
	if got := len(matches[0].QuadInfo[0].Quads); got != 2 {
		t.Errorf("Expected one quad per line, got %d", got)
	}
}

func TestGetMatchListErrors(t *testing.T) {
	doc := openTestDoc(t, testpdf.Doc{Pages: []testpdf.Page{{
		Texts: []testpdf.Text{{X: 72, Y: 700, S: "text"}},
	}}})
	finder := NewDocTextFinder(doc)

	tests := []struct {
		name        string
		first, last int
		pattern     string
		wantErr     error
	}{
		{"empty pattern", 0, 0, "", ErrNoPattern},
		{"last out of range", 0, 1, "x", ErrPageRange},
		{"negative first", -1, 0, "x", ErrPageRange},
		{"reversed range", 1, 0, "x", ErrPageRange},
		{"bad pattern", 0, 0, "(", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := finder.GetMatchList(tt.first, tt.last, tt.pattern)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestWriteMatchesJSON(t *testing.T) {
	matches := []Match{{
		Text: "a<b",
		QuadInfo: []PageQuads{{
			PageIndex: 2,
			Quads:     []Quad{QuadFromBBox(BoundingBox{X0: 1, Y0: 2, X1: 3, Y1: 4})},
		}},
	}}

	var sb strings.Builder
	if err := WriteMatchesJSON(&sb, matches); err != nil {
		t.Fatalf("WriteMatchesJSON failed: %v", err)
	}
	if !strings.Contains(sb.String(), `"match-phrase": "a<b"`) {
		t.Errorf("Expected unescaped phrase, got:\n%s", sb.String())
	}

	var decoded []map[string]any
	if err := json.Unmarshal([]byte(sb.String()), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	quads := decoded[0]["match-quads"].([]any)
	quad := quads[0].(map[string]any)
	if quad["page-number"].(float64) != 2 {
		t.Errorf("Unexpected page number: %v", quad["page-number"])
	}
	loc := quad["quad-location"].(map[string]any)
	tr := loc["top-right"].(map[string]any)
	if tr["x"].(float64) != 3 || tr["y"].(float64) != 4 {
		t.Errorf("Unexpected top-right: %v", tr)
	}
	bl := loc["bottom-left"].(map[string]any)
	if bl["x"].(float64) != 1 || bl["y"].(float64) != 2 {
		t.Errorf("Unexpected bottom-left: %v", bl)
	}
}

func TestWriteMatchesJSONEmpty(t *testing.T) {
	var sb strings.Builder
	if err := WriteMatchesJSON(&sb, nil); err != nil {
		t.Fatalf("WriteMatchesJSON failed: %v", err)
	}
	if strings.TrimSpace(sb.String()) != "[]" {
		t.Errorf("Expected empty array, got %q", sb.String())
	}
}

func TestQuadFromBBox(t *testing.T) {
	q := QuadFromBBox(BoundingBox{X0: 10, Y0: 20, X1: 30, Y1: 40})
	if q.TopLeft != (Point{10, 40}) || q.BottomRight != (Point{30, 20}) {
		t.Errorf("Unexpected quad: %v", q)
	}
	if b := q.BBox(); math.Abs(b.Width()-20) > 1e-9 || math.Abs(b.Height()-20) > 1e-9 {
		t.Errorf("Unexpected bbox: %v", b)
	}
}
