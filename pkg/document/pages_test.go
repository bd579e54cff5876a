package document

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pyhub-apps/pdfsamples-golang/internal/testpdf"
	"github.com/pyhub-apps/pdfsamples-golang/pkg/pdf"
)

// labeledDoc has one page per label, each showing its label
func labeledDoc(labels ...string) testpdf.Doc {
	var pages []testpdf.Page
	for _, l := range labels {
		pages = append(pages, testpdf.Page{Texts: []testpdf.Text{{X: 72, Y: 700, S: l}}})
	}
	return testpdf.Doc{Pages: pages}
}

// pageLabels returns the first word of every page of path
func pageLabels(t *testing.T, path string) []string {
	t.Helper()
	doc, err := pdf.OpenWithLedongthuc(path)
	if err != nil {
		t.Fatalf("Failed to open %s: %v", path, err)
	}
	defer doc.Close()

	finder := pdf.NewWordFinder(doc)
	var labels []string
	for i := 0; i < doc.PageCount(); i++ {
		words, err := finder.GetWordList(i)
		if err != nil {
			t.Fatalf("GetWordList(%d) failed: %v", i, err)
		}
		if len(words) == 0 {
			labels = append(labels, "")
			continue
		}
		labels = append(labels, words[0].Text)
	}
	return labels
}

func TestMerge(t *testing.T) {
	in1 := testpdf.Write(t, "in1.pdf", labeledDoc("one", "two"))
	in2 := testpdf.Write(t, "in2.pdf", labeledDoc("three"))
	out := filepath.Join(t.TempDir(), "merged.pdf")

	if err := Merge(nil, out); err == nil {
		t.Error("Expected error for merge without inputs")
	}
	if err := Merge([]string{in1, in2}, out); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if diff := cmp.Diff([]string{"one", "two", "three"}, pageLabels(t, out)); diff != "" {
		t.Errorf("Merged pages mismatch (-want +got):\n%s", diff)
	}
}

func TestSplitPages(t *testing.T) {
	in := testpdf.Write(t, "split.pdf", labeledDoc("a", "b", "c"))
	pattern := filepath.Join(t.TempDir(), "SplitPDF_out_%d.pdf")

	paths, err := SplitPages(in, pattern)
	if err != nil {
		t.Fatalf("SplitPages failed: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("Expected 3 files, got %d", len(paths))
	}
	for i, want := range []string{"a", "b", "c"} {
		if paths[i] != fmt.Sprintf(pattern, i+1) {
			t.Errorf("Unexpected file name %s", paths[i])
		}
		if diff := cmp.Diff([]string{want}, pageLabels(t, paths[i])); diff != "" {
			t.Errorf("Page %d mismatch (-want +got):\n%s", i, diff)
		}
	}

	if err := ExtractPage(in, filepath.Join(t.TempDir(), "x.pdf"), -1); !errors.Is(err, pdf.ErrPageRange) {
		t.Errorf("Expected ErrPageRange, got %v", err)
	}
}

func TestInsertPages(t *testing.T) {
	tests := []struct {
		name         string
		after        int
		first, count int
		want         []string
	}{
		{"append all", LastPage, 0, LastPage, []string{"one", "two", "x", "y", "z"}},
		{"prepend", BeforeFirstPage, 0, 1, []string{"x", "one", "two"}},
		{"after last index", 1, 2, LastPage, []string{"one", "two", "z"}},
		{"middle", 0, 1, 2, []string{"one", "y", "z", "two"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := openTestDoc(t, labeledDoc("one", "two"))
			src, err := Open(testpdf.Write(t, "src.pdf", labeledDoc("x", "y", "z")))
			if err != nil {
				t.Fatalf("Failed to open source: %v", err)
			}
			defer src.Close()

			if err := dst.InsertPages(tt.after, src, tt.first, tt.count); err != nil {
				t.Fatalf("InsertPages failed: %v", err)
			}
			if dst.PageCount() != len(tt.want) {
				t.Fatalf("Expected %d pages, got %d", len(tt.want), dst.PageCount())
			}

			out := filepath.Join(t.TempDir(), "out.pdf")
			if err := dst.Save(out, SaveFull); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, pageLabels(t, out)); diff != "" {
				t.Errorf("Pages mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInsertPagesRange(t *testing.T) {
	dst := openTestDoc(t, labeledDoc("one"))
	src := openTestDoc(t, labeledDoc("x"))

	for _, after := range []int{3, -3} {
		if err := dst.InsertPages(after, src, 0, 1); !errors.Is(err, pdf.ErrPageRange) {
			t.Errorf("Expected ErrPageRange for target %d, got %v", after, err)
		}
	}
	if err := dst.InsertPages(0, src, 0, 2); !errors.Is(err, pdf.ErrPageRange) {
		t.Errorf("Expected ErrPageRange for bad source range, got %v", err)
	}
}

func TestOptimize(t *testing.T) {
	in := testpdf.Write(t, "big.pdf", labeledDoc("a", "b", "c", "d"))
	out := filepath.Join(t.TempDir(), "small.pdf")

	res, err := Optimize(in, out)
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	if res.Before <= 0 || res.After <= 0 {
		t.Errorf("Unexpected sizes: %+v", res)
	}
	if diff := cmp.Diff([]string{"a", "b", "c", "d"}, pageLabels(t, out)); diff != "" {
		t.Errorf("Optimized pages mismatch (-want +got):\n%s", diff)
	}
}

func TestOptimizeResultRatio(t *testing.T) {
	tests := []struct {
		res  OptimizeResult
		want float64
	}{
		{OptimizeResult{Before: 200, After: 50}, 25},
		{OptimizeResult{Before: 100, After: 100}, 100},
		{OptimizeResult{}, 0},
	}
	for _, tt := range tests {
		if got := tt.res.Ratio(); got != tt.want {
			t.Errorf("Ratio(%+v) = %v, want %v", tt.res, got, tt.want)
		}
	}
}

func TestWatermarks(t *testing.T) {
	in := testpdf.Write(t, "in.pdf", labeledDoc("one", "two", "three"))
	wm := testpdf.Write(t, "wm.pdf", labeledDoc("duck"))
	out := filepath.Join(t.TempDir(), "out.pdf")

	params := WatermarkParams{Opacity: 0.8, Rotation: 45.3, Scale: 0.5, Pages: EvenPages}
	if err := AddPDFWatermark(in, out, wm, 0, params); err != nil {
		t.Fatalf("AddPDFWatermark failed: %v", err)
	}

	params.Pages = OddPages
	text := TextWatermark{Text: "Multiline\nWatermark", Font: "Courier", Align: AlignCenter, Color: RGB255(109, 15, 161)}
	if err := AddTextWatermark(out, "", text, params); err != nil {
		t.Fatalf("AddTextWatermark failed: %v", err)
	}
	if err := AddTextWatermark(out, "", TextWatermark{}, params); err == nil {
		t.Error("Expected error for empty watermark text")
	}

	orig, err := Open(in)
	if err != nil {
		t.Fatalf("Failed to open input: %v", err)
	}
	defer orig.Close()
	marked, err := Open(out)
	if err != nil {
		t.Fatalf("Failed to open output: %v", err)
	}
	defer marked.Close()

	if marked.PageCount() != 3 {
		t.Fatalf("Expected 3 pages, got %d", marked.PageCount())
	}
	for i := 0; i < 3; i++ {
		before, _ := orig.PageContent(i)
		after, err := marked.PageContent(i)
		if err != nil {
			t.Fatalf("PageContent(%d) failed: %v", i, err)
		}
		if bytes.Equal(before, after) {
			t.Errorf("Page %d has no watermark", i)
		}
	}
}

func TestWatermarkDescription(t *testing.T) {
	params := WatermarkParams{Opacity: 0.8, Rotation: 45.3, Scale: 0.5}
	want := []string{"rotation:45.3", "scalefactor:0.5 rel", "opacity:0.8"}
	if diff := cmp.Diff(want, params.description()); diff != "" {
		t.Errorf("Description mismatch (-want +got):\n%s", diff)
	}

	text := TextWatermark{Font: "CourierStd", Align: AlignCenter, Color: RGB255(109, 15, 161)}
	want = []string{"fontname:Courier", "points:24", "fillcolor:#6D0FA1", "aligntext:c"}
	if diff := cmp.Diff(want, text.description()); diff != "" {
		t.Errorf("Text description mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"even"}, EvenPages.selection()); diff != "" {
		t.Errorf("Selection mismatch: %s", diff)
	}
	if AllPages.selection() != nil {
		t.Error("Expected nil selection for all pages")
	}
}
