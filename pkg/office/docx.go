package office

import (
	"bytes"
	"io"
	"strconv"
)

const docxMain = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"

// writeDOCX writes one paragraph per line and a page break between pages
func writeDOCX(w io.Writer, pages [][]Line) error {
	var body bytes.Buffer
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for i, lines := range pages {
		if i > 0 {
			body.WriteString(`<w:p><w:r><w:br w:type="page"/></w:r></w:p>`)
		}
		for _, l := range lines {
			body.WriteString(`<w:p><w:r>`)
			if l.FontSize > 0 {
				// Sizes are in half points
				body.WriteString(`<w:rPr><w:sz w:val="` + halfPoints(l.FontSize) + `"/></w:rPr>`)
			}
			body.WriteString(`<w:t xml:space="preserve">` + escape(l.Text()) + `</w:t></w:r></w:p>`)
		}
	}
	body.WriteString(`<w:sectPr/></w:body></w:document>`)

	return writePackage(w, []part{
		{"[Content_Types].xml", contentTypes(map[string]string{"word/document.xml": docxMain}, []string{"word/document.xml"})},
		{"_rels/.rels", relationships(relationship{"rId1", relOfficeDocument, "word/document.xml"})},
		{"word/document.xml", body.String()},
	})
}

func halfPoints(size float64) string {
	n := int(size*2 + 0.5)
	if n < 2 {
		n = 2
	}
	return strconv.Itoa(n)
}
