package office

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/pyhub-apps/pdfsamples-golang/internal/testpdf"
	"github.com/pyhub-apps/pdfsamples-golang/pkg/pdf"
)

func openTestDoc(t *testing.T) pdf.Document {
	t.Helper()
	path := testpdf.Write(t, "office.pdf", testpdf.Doc{Pages: []testpdf.Page{
		{Texts: []testpdf.Text{
			{X: 72, Y: 700, S: "Quarterly report"},
			{X: 72, Y: 680, S: "Q1"},
			{X: 200, Y: 680, S: "<100> & more"},
		}},
		{Texts: []testpdf.Text{{X: 72, Y: 700, S: "Second page"}}},
	}})
	doc, err := pdf.OpenWithLedongthuc(path)
	if err != nil {
		t.Fatalf("Failed to open PDF: %v", err)
	}
	t.Cleanup(func() { doc.Close() })
	return doc
}

// readPart returns the content of one file of a zip package
func readPart(t *testing.T, data []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("Invalid zip: %v", err)
	}
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("Failed to open %s: %v", name, err)
		}
		defer rc.Close()
		b, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("Failed to read %s: %v", name, err)
		}
		return string(b)
	}
	t.Fatalf("Part %s not found", name)
	return ""
}

func TestLines(t *testing.T) {
	doc := openTestDoc(t)
	pages, err := documentLines(doc)
	if err != nil {
		t.Fatalf("documentLines failed: %v", err)
	}

	var got [][]string
	for _, lines := range pages {
		var texts []string
		for _, l := range lines {
			texts = append(texts, l.Text())
		}
		got = append(got, texts)
	}
	want := [][]string{
		{"Quarterly report", "Q1 <100> & more"},
		{"Second page"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Lines mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"Q1", "<100> & more"}, pages[0][1].Clusters()); diff != "" {
		t.Errorf("Clusters mismatch (-want +got):\n%s", diff)
	}
	if pages[0][0].FontSize != 12 {
		t.Errorf("Expected font size 12, got %v", pages[0][0].FontSize)
	}
}

func TestConvertWord(t *testing.T) {
	var buf bytes.Buffer
	if err := Convert(openTestDoc(t), &buf, Word); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	body := readPart(t, buf.Bytes(), "word/document.xml")
	for _, want := range []string{
		`<w:t xml:space="preserve">Quarterly report</w:t>`,
		`&lt;100&gt; &amp; more`,
		`<w:br w:type="page"/>`,
		`<w:sz w:val="24"/>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected %q in document.xml", want)
		}
	}
	if ct := readPart(t, buf.Bytes(), "[Content_Types].xml"); !strings.Contains(ct, docxMain) {
		t.Errorf("Content types lack the document part: %s", ct)
	}
}

func TestConvertExcel(t *testing.T) {
	out := filepath.Join(t.TempDir(), "excel-out.xlsx")
	if err := ConvertFile(openTestDoc(t), out, Excel); err != nil {
		t.Fatalf("ConvertFile failed: %v", err)
	}

	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatalf("Failed to open workbook: %v", err)
	}
	defer f.Close()

	if diff := cmp.Diff([]string{"Page 1", "Page 2"}, f.GetSheetList()); diff != "" {
		t.Errorf("Sheets mismatch (-want +got):\n%s", diff)
	}
	tests := []struct {
		sheet, cell, want string
	}{
		{"Page 1", "A1", "Quarterly report"},
		{"Page 1", "A2", "Q1"},
		{"Page 1", "B2", "<100> & more"},
		{"Page 2", "A1", "Second page"},
	}
	for _, tt := range tests {
		got, err := f.GetCellValue(tt.sheet, tt.cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s, %s) failed: %v", tt.sheet, tt.cell, err)
		}
		if got != tt.want {
			t.Errorf("%s!%s = %q, want %q", tt.sheet, tt.cell, got, tt.want)
		}
	}
}

func TestConvertPowerPoint(t *testing.T) {
	var buf bytes.Buffer
	if err := Convert(openTestDoc(t), &buf, PowerPoint); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	data := buf.Bytes()

	pres := readPart(t, data, "ppt/presentation.xml")
	if strings.Count(pres, "<p:sldId ") != 2 {
		t.Errorf("Expected 2 slides in presentation.xml: %s", pres)
	}
	if s := readPart(t, data, "ppt/slides/slide2.xml"); !strings.Contains(s, "<a:t>Second page</a:t>") {
		t.Errorf("Unexpected slide 2: %s", s)
	}
	rels := readPart(t, data, "ppt/_rels/presentation.xml.rels")
	if !strings.Contains(rels, `Target="slides/slide1.xml"`) {
		t.Errorf("Missing slide relationship: %s", rels)
	}
	readPart(t, data, "ppt/theme/theme1.xml")
}

func TestConvertUnsupported(t *testing.T) {
	err := Convert(openTestDoc(t), io.Discard, Type(7))
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("Expected ErrUnsupported, got %v", err)
	}
}

func TestTypeExtension(t *testing.T) {
	tests := map[Type]string{Word: ".docx", Excel: ".xlsx", PowerPoint: ".pptx"}
	for typ, want := range tests {
		if got := typ.Extension(); got != want {
			t.Errorf("%v.Extension() = %s, want %s", typ, got, want)
		}
	}
}
