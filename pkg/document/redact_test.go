package document

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/pyhub-apps/pdfsamples-golang/internal/testpdf"
	"github.com/pyhub-apps/pdfsamples-golang/pkg/pdf"
)

// wordBoxes reads the words of page 0 of path with their boxes
func wordBoxes(t *testing.T, path string) map[string]pdf.BoundingBox {
	t.Helper()
	doc, err := pdf.OpenWithLedongthuc(path)
	if err != nil {
		t.Fatalf("Failed to open %s: %v", path, err)
	}
	defer doc.Close()
	words, err := pdf.NewWordFinder(doc).GetWordList(0)
	if err != nil {
		t.Fatalf("GetWordList failed: %v", err)
	}
	boxes := map[string]pdf.BoundingBox{}
	for _, w := range words {
		boxes[w.Text] = w.BBox()
	}
	return boxes
}

func TestRedactionRoundTrip(t *testing.T) {
	doc := openTestDoc(t, textDoc("Hello"))
	ic := Green
	in := Redaction{
		Quads:         []pdf.Quad{pdf.QuadFromBBox(pdf.BoundingBox{X0: 10, Y0: 20, X1: 50, Y1: 30})},
		BorderColor:   Red,
		InteriorColor: &ic,
		FillOpacity:   0.25,
		FillNormal:    true,
		OverlayText:   "a (b) c",
		TextColor:     White,
		FontFace:      "CourierStd",
		FontSize:      8,
		Repeat:        true,
		ScaleToFit:    true,
	}
	if err := doc.AddRedaction(0, in); err != nil {
		t.Fatalf("AddRedaction failed: %v", err)
	}

	annots, _, err := doc.Annotations(0)
	if err != nil || len(annots) != 1 {
		t.Fatalf("Expected 1 annotation, got %d (%v)", len(annots), err)
	}
	if doc.name(annots[0]["Subtype"]) != "Redact" {
		t.Errorf("Expected Redact, got %v", annots[0]["Subtype"])
	}
	if ca, _ := doc.number(annots[0]["CA"]); ca != 0.25 {
		t.Errorf("Expected CA 0.25, got %v", ca)
	}

	got := doc.readRedaction(annots[0])
	want := in
	want.FontFace = "Courier"
	want.BorderColor, want.FillOpacity, want.FillNormal = Color{}, 0, false
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Redaction mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyRedactions(t *testing.T) {
	path := testpdf.Write(t, "redact.pdf", textDoc("Hello rain World", "cloudy"))
	before := wordBoxes(t, path)
	for _, w := range []string{"Hello", "rain", "World", "cloudy"} {
		if _, ok := before[w]; !ok {
			t.Fatalf("Word %q missing before redaction: %v", w, before)
		}
	}

	doc, err := Open(path)
	if err != nil {
		t.Fatalf("Failed to open: %v", err)
	}
	defer doc.Close()

	black := Black
	if err := doc.AddRedaction(0, Redaction{
		Quads:         []pdf.Quad{pdf.QuadFromBBox(before["rain"])},
		BorderColor:   Green,
		InteriorColor: &black,
	}); err != nil {
		t.Fatalf("AddRedaction failed: %v", err)
	}
	if err := doc.AddRedaction(0, Redaction{
		Quads:       []pdf.Quad{pdf.QuadFromBBox(before["cloudy"])},
		BorderColor: Red,
	}); err != nil {
		t.Fatalf("AddRedaction failed: %v", err)
	}
	if err := doc.AddHighlight(0, []pdf.Quad{pdf.QuadFromBBox(before["Hello"])}, Yellow); err != nil {
		t.Fatalf("AddHighlight failed: %v", err)
	}

	n, err := doc.ApplyRedactions()
	if err != nil {
		t.Fatalf("ApplyRedactions failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 redactions applied, got %d", n)
	}

	annots, _, _ := doc.Annotations(0)
	if len(annots) != 1 || doc.name(annots[0]["Subtype"]) != "Highlight" {
		t.Errorf("Expected only the highlight to remain, got %d annotations", len(annots))
	}

	out := t.TempDir() + "/applied.pdf"
	if err := doc.Save(out, SaveFull); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	after := wordBoxes(t, out)
	for _, w := range []string{"rain", "cloudy"} {
		if _, ok := after[w]; ok {
			t.Errorf("Word %q still present after redaction", w)
		}
	}
	approx := cmpopts.EquateApprox(0, 0.01)
	for _, w := range []string{"Hello", "World"} {
		if diff := cmp.Diff(before[w], after[w], approx); diff != "" {
			t.Errorf("Word %q moved (-before +after):\n%s", w, diff)
		}
	}

	data, _ := doc.PageContent(0)
	if !strings.Contains(string(data), "0 0 0 rg") {
		t.Errorf("Expected interior fill in content: %q", data)
	}
}

func TestApplyRedactionsOverlayText(t *testing.T) {
	doc := openTestDoc(t, textDoc("Hello rain"))
	box := pdf.BoundingBox{X0: 130, Y0: 697, X1: 154, Y1: 709}

	if err := doc.AddRedaction(0, Redaction{
		Quads:       []pdf.Quad{pdf.QuadFromBBox(box)},
		OverlayText: "rain",
		TextColor:   White,
		FontFace:    "Courier",
		FontSize:    8,
		Repeat:      true,
	}); err != nil {
		t.Fatalf("AddRedaction failed: %v", err)
	}
	if _, err := doc.ApplyRedactions(); err != nil {
		t.Fatalf("ApplyRedactions failed: %v", err)
	}

	data, err := doc.PageContent(0)
	if err != nil {
		t.Fatalf("PageContent failed: %v", err)
	}
	s := string(data)
	// "rain" in Courier 8pt is 19.2 wide, so it fits once in 24pt
	for _, want := range []string{"130 697 24 12 re W n", "/RdF 8 Tf", "1 1 1 rg", "(rain) Tj"} {
		if !strings.Contains(s, want) {
			t.Errorf("Expected %q in content:\n%s", want, s)
		}
	}
	if strings.Contains(s, "(Hello rain) Tj") {
		t.Errorf("Original text not redacted:\n%s", s)
	}
}

func TestAddRedactionNoQuads(t *testing.T) {
	doc := openTestDoc(t, textDoc("Hello"))
	if err := doc.AddRedaction(0, Redaction{}); err == nil {
		t.Error("Expected error for redaction without quads")
	}
}
