package document

import (
	"errors"
	"testing"

	"github.com/pyhub-apps/pdfsamples-golang/internal/testpdf"
	"github.com/pyhub-apps/pdfsamples-golang/pkg/pdf"
)

func TestHasTransparency(t *testing.T) {
	form := "stream:<< /Type /XObject /Subtype /Form /BBox [0 0 10 10] /Resources << /ExtGState << /G0 << /BM /Multiply >> >> >> >>\n/G0 gs 0 0 10 10 re f"
	image := "stream:<< /Type /XObject /Subtype /Image /Width 1 /Height 1 /ColorSpace /DeviceGray /BitsPerComponent 8 /SMask 103 0 R >>\nx"
	annot := "<< /Type /Annot /Subtype /Square /Rect [0 0 10 10] /CA 0.5 >>"
	mask := "stream:<< /Type /XObject /Subtype /Image /Width 1 /Height 1 /ColorSpace /DeviceGray /BitsPerComponent 8 >>\nx"
	nested := "stream:<< /Type /XObject /Subtype /Form /BBox [0 0 10 10] /Resources << /XObject << /Fm0 100 0 R /Fm1 104 0 R >> >> >>\n/Fm0 Do"

	doc := openTestDoc(t, testpdf.Doc{
		Extra: []string{form, image, annot, mask, nested},
		Pages: []testpdf.Page{
			{},
			{ExtGState: map[string]string{"GS0": "<< /ca 0.5 >>"}},
			{ExtGState: map[string]string{"GS0": "<< /BM /Normal /CA 1 >>"}},
			{TransparencyGroup: true},
			{XObject: map[string]int{"Fm0": 100}},
			{XObject: map[string]int{"Im0": 101}},
			{Annots: []int{102}},
			{ExtGState: map[string]string{"GS0": "<< /SMask /None /BM [/Compatible] >>"}},
			{XObject: map[string]int{"Fm1": 104}},
		},
	})

	tests := []struct {
		name          string
		page          int
		includeAnnots bool
		want          bool
	}{
		{"plain page", 0, true, false},
		{"constant alpha", 1, false, true},
		{"normal blend", 2, false, false},
		{"page group", 3, false, true},
		{"form blend mode", 4, false, true},
		{"image soft mask", 5, false, true},
		{"annotation ignored", 6, false, false},
		{"annotation alpha", 6, true, true},
		{"no soft mask", 7, false, false},
		{"self-referencing form", 8, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := doc.HasTransparency(tt.page, tt.includeAnnots)
			if err != nil {
				t.Fatalf("HasTransparency failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("HasTransparency(%d, %v) = %v, want %v", tt.page, tt.includeAnnots, got, tt.want)
			}
		})
	}

	first, err := doc.FirstTransparentPage(false)
	if err != nil || first != 1 {
		t.Errorf("FirstTransparentPage = %d (%v), want 1", first, err)
	}
}

func TestFlattenTransparency(t *testing.T) {
	doc := openTestDoc(t, testpdf.Doc{
		Extra: []string{
			"<< /Type /Annot /Subtype /Square /Rect [0 0 10 10] /CA 0.5 >>",
			"stream:<< /Type /XObject /Subtype /Form /BBox [0 0 10 10] /Group << /S /Transparency /CS /DeviceGray >> >>\n0 g 0 0 10 10 re f",
		},
		Pages: []testpdf.Page{
			{ExtGState: map[string]string{"GS0": "<< /ca 0.5 /SMask << /S /Luminosity /G 101 0 R >> >>"}},
			{},
			{TransparencyGroup: true, Annots: []int{100}},
		},
	})

	first, err := doc.FirstTransparentPage(true)
	if err != nil || first != 0 {
		t.Fatalf("FirstTransparentPage = %d (%v), want 0", first, err)
	}

	changed, err := doc.FlattenTransparency(first, LastPage)
	if err != nil {
		t.Fatalf("FlattenTransparency failed: %v", err)
	}
	if changed != 2 {
		t.Errorf("Expected 2 changed pages, got %d", changed)
	}

	for i := 0; i < doc.PageCount(); i++ {
		found, err := doc.HasTransparency(i, true)
		if err != nil {
			t.Fatalf("HasTransparency failed: %v", err)
		}
		if found {
			t.Errorf("Page %d still has transparency", i)
		}
	}

	out := t.TempDir() + "/flat.pdf"
	if err := doc.Save(out, SaveFull); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if first, _ := doc.FirstTransparentPage(true); first != -1 {
		t.Errorf("Expected no transparency after save, found page %d", first)
	}

	if _, err := doc.FlattenTransparency(2, 5); !errors.Is(err, pdf.ErrPageRange) {
		t.Errorf("Expected ErrPageRange, got %v", err)
	}
}

func TestFlattenSharedResources(t *testing.T) {
	doc := openTestDoc(t, testpdf.Doc{
		Extra: []string{"<< /Type /ExtGState /ca 0.5 >>"},
		Pages: []testpdf.Page{
			{ExtGState: map[string]string{"GS0": "100 0 R"}},
			{ExtGState: map[string]string{"GS0": "100 0 R"}},
		},
	})

	changed, err := doc.FlattenTransparency(1, 1)
	if err != nil {
		t.Fatalf("FlattenTransparency failed: %v", err)
	}
	if changed != 1 {
		t.Errorf("Expected 1 changed page, got %d", changed)
	}

	// The first page shares the graphics state of the flattened one
	for i := 0; i < doc.PageCount(); i++ {
		if found, _ := doc.HasTransparency(i, false); found {
			t.Errorf("Page %d still has transparency", i)
		}
	}
}
