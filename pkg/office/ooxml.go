package office

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// part is one file of an OPC package
type part struct {
	name string
	data string
}

// writePackage zips the parts in order
func writePackage(w io.Writer, parts []part) error {
	zw := zip.NewWriter(w)
	for _, p := range parts {
		fw, err := zw.Create(p.name)
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", p.name, err)
		}
		if _, err := io.WriteString(fw, xmlHeader+p.data); err != nil {
			return fmt.Errorf("failed to write %s: %w", p.name, err)
		}
	}
	return zw.Close()
}

// escape returns s with XML special characters escaped
func escape(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

type relationship struct {
	id, typ, target string
}

const (
	relOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relSlide          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relSlideLayout    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	relSlideMaster    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	relTheme          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
)

func relationships(rels ...relationship) string {
	var buf bytes.Buffer
	buf.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for _, r := range rels {
		fmt.Fprintf(&buf, `<Relationship Id="%s" Type="%s" Target="%s"/>`, r.id, r.typ, r.target)
	}
	buf.WriteString(`</Relationships>`)
	return buf.String()
}

// contentTypes lists the default types and one override per part name
func contentTypes(overrides map[string]string, order []string) string {
	var buf bytes.Buffer
	buf.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	buf.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	buf.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	for _, name := range order {
		fmt.Fprintf(&buf, `<Override PartName="/%s" ContentType="%s"/>`, name, overrides[name])
	}
	buf.WriteString(`</Types>`)
	return buf.String()
}
