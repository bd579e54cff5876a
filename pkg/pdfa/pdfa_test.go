package pdfa

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"seehuhn.de/go/icc"

	"github.com/pyhub-apps/pdfsamples-golang/internal/testpdf"
	"github.com/pyhub-apps/pdfsamples-golang/pkg/document"
)

func openTestDoc(t *testing.T, d testpdf.Doc) *document.Document {
	t.Helper()
	doc, err := document.Open(testpdf.Write(t, "test.pdf", d))
	if err != nil {
		t.Fatalf("Failed to open PDF: %v", err)
	}
	t.Cleanup(func() { doc.Close() })
	return doc
}

func violationCodes(vs []Violation) []string {
	var codes []string
	for _, v := range vs {
		codes = append(codes, v.Code)
	}
	return codes
}

func simpleDoc() testpdf.Doc {
	return testpdf.Doc{
		Pages: []testpdf.Page{{Texts: []testpdf.Text{{X: 72, Y: 700, S: "Archive"}}}},
		Info:  map[string]string{"Title": "Ducky"},
	}
}

func TestConvertFontErrors(t *testing.T) {
	doc := openTestDoc(t, simpleDoc())

	res, err := Convert(doc, RGB3B, Params{AbortIfXFAIsPresent: true, ValidateImplementationLimits: true})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if res.Converted() {
		t.Error("Expected conversion to fail with unembedded fonts")
	}
	// F1 and F2 are standard fonts without font programs
	if diff := cmp.Diff([]string{"FNT001", "FNT001"}, violationCodes(res.Violations)); diff != "" {
		t.Errorf("Violations mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(res.Violations[0].String(), "Font must be embedded") {
		t.Errorf("Unexpected violation text: %s", res.Violations[0])
	}

	res, err = Convert(doc, RGB3B, Params{NoValidationErrors: true})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if !res.Converted() {
		t.Error("Expected a document when validation errors are allowed")
	}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		typ   ConvertType
		part  string
		flags document.SaveFlags
	}{
		{RGB1B, "1", document.SaveFull},
		{RGB2B, "2", document.SaveFull | document.SaveCompressed},
		{RGB3B, "3", document.SaveFull | document.SaveCompressed},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			doc := openTestDoc(t, simpleDoc())
			info, err := doc.Info()
			if err != nil {
				t.Fatalf("Info failed: %v", err)
			}
			info["Trapped"] = types.Name("Unknown")

			res, err := Convert(doc, tt.typ, Params{IgnoreFontErrors: true, ValidateImplementationLimits: true})
			if err != nil {
				t.Fatalf("Convert failed: %v", err)
			}
			if !res.Converted() {
				t.Fatalf("Conversion failed: %v", res.Violations)
			}
			if res.SaveFlags != tt.flags {
				t.Errorf("Expected save flags %d, got %d", tt.flags, res.SaveFlags)
			}

			out := filepath.Join(t.TempDir(), "pdfa.pdf")
			if err := res.Document.Save(out, res.SaveFlags); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			res.Document.Close()

			saved, err := document.Open(out)
			if err != nil {
				t.Fatalf("Failed to reopen: %v", err)
			}
			defer saved.Close()

			id, err := ReadIdentification(saved)
			if err != nil {
				t.Fatalf("ReadIdentification failed: %v", err)
			}
			if id.Part.V != tt.part || id.Conformance.V != "B" {
				t.Errorf("Unexpected identification: part %q conformance %q", id.Part.V, id.Conformance.V)
			}

			catalog, err := saved.Catalog()
			if err != nil {
				t.Fatalf("Catalog failed: %v", err)
			}
			intents, _ := saved.Deref(catalog["OutputIntents"]).(types.Array)
			if len(intents) != 1 {
				t.Fatalf("Expected 1 output intent, got %d", len(intents))
			}
			intent := saved.DictOf(intents[0])
			if s, _ := saved.Deref(intent["S"]).(types.Name); s != "GTS_PDFA1" {
				t.Errorf("Unexpected output intent subtype %v", intent["S"])
			}
			profile, err := saved.StreamContent(intent["DestOutputProfile"])
			if err != nil {
				t.Fatalf("Failed to read output profile: %v", err)
			}
			if p, err := icc.Decode(profile); err != nil || p.ColorSpace != icc.RGBSpace {
				t.Errorf("Output profile is not an RGB ICC profile: %v", err)
			}

			info, err = saved.Info()
			if err != nil {
				t.Fatalf("Info failed: %v", err)
			}
			if _, ok := info["Trapped"]; ok {
				t.Error("Invalid Trapped entry not removed")
			}
			if _, ok := info["ModDate"]; !ok {
				t.Error("ModDate not set")
			}
		})
	}

	// The input document is left alone
	doc := openTestDoc(t, simpleDoc())
	if _, err := Convert(doc, RGB3B, Params{IgnoreFontErrors: true}); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	catalog, _ := doc.Catalog()
	if _, ok := catalog["OutputIntents"]; ok {
		t.Error("Convert modified its input")
	}
}

func TestConvertXFA(t *testing.T) {
	d := simpleDoc()
	d.Extra = []string{"stream:<xdp:xdp/>"}
	d.Catalog = "/AcroForm << /Fields [] /XFA 100 0 R >>"

	// A form without fields does not survive validation, the XFA is
	// still detected
	doc := openTestDoc(t, d)
	if !doc.HasXFA() {
		t.Fatal("Expected the XFA form to be detected")
	}
	for i := 0; i < 2; i++ {
		if _, err := Convert(doc, RGB3B, Params{AbortIfXFAIsPresent: true}); !errors.Is(err, ErrXFAPresent) {
			t.Errorf("Conversion %d: expected ErrXFAPresent, got %v", i+1, err)
		}
	}

	res, err := Convert(doc, RGB3B, Params{IgnoreFontErrors: true})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if !res.Converted() {
		t.Fatalf("Conversion failed: %v", res.Violations)
	}
	catalog, _ := res.Document.Catalog()
	if form := res.Document.DictOf(catalog["AcroForm"]); form != nil && form["XFA"] != nil {
		t.Errorf("Expected XFA to be removed, got %v", form)
	}
}

func TestConvertRepairs(t *testing.T) {
	d := simpleDoc()
	d.Extra = []string{
		"<< /Type /Annot /Subtype /Screen /Rect [0 0 10 10] /AP << /N 102 0 R >> >>",
		"<< /Type /Annot /Subtype /Link /Rect [0 0 10 10] /F 2 /A << /S /JavaScript /JS (app.alert\\(1\\)) >> >>",
		"stream:<< /Type /XObject /Subtype /Form /BBox [0 0 10 10] >>\n",
		"<< /S /JavaScript /JS (app.alert\\(2\\)) >>",
	}
	d.Catalog = "/OpenAction 103 0 R /AA << /WC << /S /JavaScript /JS (x) >> >>"
	d.Pages[0].Annots = []int{100, 101}
	d.Pages[0].ExtGState = map[string]string{"GS0": "<< /ca 0.5 >>"}

	tests := []struct {
		typ    ConvertType
		annots []string
		alpha  bool
	}{
		{RGB1B, []string{"Link"}, false},
		{RGB3B, []string{"Screen", "Link"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			doc := openTestDoc(t, d)
			res, err := Convert(doc, tt.typ, Params{IgnoreFontErrors: true})
			if err != nil {
				t.Fatalf("Convert failed: %v", err)
			}
			if !res.Converted() {
				t.Fatalf("Conversion failed: %v", res.Violations)
			}
			out := res.Document

			catalog, _ := out.Catalog()
			for _, key := range []string{"OpenAction", "AA"} {
				if _, ok := catalog[key]; ok {
					t.Errorf("Catalog %s not removed", key)
				}
			}

			annots, _, err := out.Annotations(0)
			if err != nil {
				t.Fatalf("Annotations failed: %v", err)
			}
			var subtypes []string
			for _, a := range annots {
				st, _ := out.Deref(a["Subtype"]).(types.Name)
				subtypes = append(subtypes, string(st))
				if _, ok := a["A"]; ok {
					t.Errorf("%s annotation keeps its JavaScript action", st)
				}
				if f, _ := out.Deref(a["F"]).(types.Integer); f != 4 {
					t.Errorf("%s annotation flags = %d, want 4", st, f)
				}
			}
			if diff := cmp.Diff(tt.annots, subtypes); diff != "" {
				t.Errorf("Annotations mismatch (-want +got):\n%s", diff)
			}

			found, err := out.HasTransparency(0, false)
			if err != nil {
				t.Fatalf("HasTransparency failed: %v", err)
			}
			if found != tt.alpha {
				t.Errorf("HasTransparency = %v, want %v", found, tt.alpha)
			}
			if res.Fixed == 0 {
				t.Error("Expected repairs to be counted")
			}
		})
	}
}

func TestConvertActionChains(t *testing.T) {
	tests := []struct {
		name  string
		extra []string
		kept  bool
	}{
		{
			name:  "self loop",
			extra: []string{"<< /S /URI /URI (http://example.com) /Next 100 0 R >>"},
			kept:  true,
		},
		{
			name: "cycle with JavaScript",
			extra: []string{
				"<< /S /URI /URI (http://example.com) /Next 101 0 R >>",
				"<< /S /JavaScript /JS (x) /Next [100 0 R] >>",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := simpleDoc()
			d.Extra = tt.extra
			d.Catalog = "/OpenAction 100 0 R"

			res, err := Convert(openTestDoc(t, d), RGB2B, Params{IgnoreFontErrors: true})
			if err != nil {
				t.Fatalf("Convert failed: %v", err)
			}
			if !res.Converted() {
				t.Fatalf("Conversion failed: %v", res.Violations)
			}
			catalog, _ := res.Document.Catalog()
			if _, ok := catalog["OpenAction"]; ok != tt.kept {
				t.Errorf("OpenAction kept = %v, want %v", ok, tt.kept)
			}
		})
	}
}

func TestCheckLimits(t *testing.T) {
	d := simpleDoc()
	d.Extra = []string{
		"<< /Big 4294967296 /Real 40000.5 /" + strings.Repeat("N", 130) + " 1 >>",
		"(" + strings.Repeat("x", maxStringLength+1) + ")",
	}
	// Referenced from the catalog so that they survive rewriting
	d.Catalog = "/PieceInfo << /Limits << /LastModified (D:20240101000000Z) /Private [100 0 R 101 0 R] >> >>"
	doc := openTestDoc(t, d)

	res, err := Convert(doc, RGB1B, Params{IgnoreFontErrors: true, ValidateImplementationLimits: true})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if res.Converted() {
		t.Error("Expected conversion to fail on limit violations")
	}
	got := map[string]bool{}
	for _, v := range res.Violations {
		got[v.Code] = true
	}
	for _, code := range []string{"LIM001", "LIM002", "LIM003", "LIM004"} {
		if !got[code] {
			t.Errorf("Missing violation %s in %v", code, res.Violations)
		}
	}
}

func TestConvertTypes(t *testing.T) {
	tests := []struct {
		typ  ConvertType
		part int
		name string
	}{
		{RGB1B, 1, "PDF/A-1b"},
		{RGB2B, 2, "PDF/A-2b"},
		{RGB3B, 3, "PDF/A-3b"},
	}
	for _, tt := range tests {
		if tt.typ.Part() != tt.part || tt.typ.String() != tt.name {
			t.Errorf("%v: part %d name %s", tt.typ, tt.typ.Part(), tt.typ.String())
		}
	}
}
