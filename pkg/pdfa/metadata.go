package pdfa

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"golang.org/x/text/language"
	"seehuhn.de/go/xmp"

	"github.com/pyhub-apps/pdfsamples-golang/pkg/document"
	"github.com/pyhub-apps/pdfsamples-golang/pkg/pdf"
)

// Producer is written to documents that do not name one
const Producer = "pdfsamples-golang"

// outputCondition identifies the sRGB output intent
const outputCondition = "sRGB IEC61966-2.1"

// PDFAID is the PDF/A identification XMP schema
type PDFAID struct {
	_           xmp.Namespace `xmp:"http://www.aiim.org/pdfa/ns/id/"`
	_           xmp.Prefix    `xmp:"pdfaid"`
	Part        xmp.Text      `xmp:"part"`
	Conformance xmp.Text      `xmp:"conformance"`
}

// PDFInfo is the Adobe PDF XMP schema
type PDFInfo struct {
	_        xmp.Namespace `xmp:"http://ns.adobe.com/pdf/1.3/"`
	_        xmp.Prefix    `xmp:"pdf"`
	Keywords xmp.Text
	Producer xmp.AgentName
	Trapped  xmp.Text
}

// addOutputIntent adds the sRGB output intent unless a PDF/A one exists
func (c *converter) addOutputIntent() error {
	catalog, err := c.doc.Catalog()
	if err != nil {
		return err
	}
	intents, _ := c.doc.Deref(catalog["OutputIntents"]).(types.Array)
	for _, o := range intents {
		if intent := c.doc.DictOf(o); intent != nil && c.name(intent["S"]) == "GTS_PDFA1" {
			return nil
		}
	}

	profile, err := c.doc.NewStream(srgbProfile(), types.Dict{"N": types.Integer(3)}, false)
	if err != nil {
		return err
	}
	intent := types.Dict{
		"Type":                      types.Name("OutputIntent"),
		"S":                         types.Name("GTS_PDFA1"),
		"OutputConditionIdentifier": types.StringLiteral(outputCondition),
		"Info":                      types.StringLiteral(outputCondition),
		"RegistryName":              types.StringLiteral("http://www.color.org"),
		"DestOutputProfile":         profile,
	}
	catalog["OutputIntents"] = append(intents, intent)
	c.fixed++
	return nil
}

// infoString decodes a text string of the information dictionary
func (c *converter) infoString(info types.Dict, key string) string {
	switch v := c.doc.Deref(info[key]).(type) {
	case types.StringLiteral:
		if s, err := types.StringLiteralToString(v); err == nil {
			return s
		}
	case types.HexLiteral:
		if s, err := types.HexLiteralToString(v); err == nil {
			return s
		}
	}
	return ""
}

// addMetadata replaces the document metadata with an XMP packet that
// matches the information dictionary and identifies the PDF/A part
func (c *converter) addMetadata() error {
	info, err := c.doc.Info()
	if err != nil {
		return err
	}

	now := time.Now().UTC().Truncate(time.Second)
	created := pdf.ParseDate(c.infoString(info, "CreationDate"))
	if created.IsZero() {
		created = now
		info["CreationDate"] = types.StringLiteral(pdf.FormatDate(created))
	}
	info["ModDate"] = types.StringLiteral(pdf.FormatDate(now))

	producer := c.infoString(info, "Producer")
	if producer == "" {
		producer = Producer
		info["Producer"] = types.StringLiteral(producer)
	}

	packet := xmp.NewPacket()

	dc := &xmp.DublinCore{}
	if title := c.infoString(info, "Title"); title != "" {
		dc.Title.Set(language.MustParse("x-default"), title)
	}
	if author := c.infoString(info, "Author"); author != "" {
		dc.Creator.Append(xmp.NewProperName(author))
	}
	if subject := c.infoString(info, "Subject"); subject != "" {
		dc.Description.Set(language.MustParse("x-default"), subject)
	}

	basic := &xmp.Basic{}
	basic.CreateDate = xmp.NewDate(created)
	basic.ModifyDate = xmp.NewDate(now)

	pdfInfo := &PDFInfo{Producer: xmp.NewAgentName(producer)}
	if keywords := c.infoString(info, "Keywords"); keywords != "" {
		pdfInfo.Keywords = xmp.NewText(keywords)
	}
	if trapped := c.name(info["Trapped"]); trapped != "" {
		pdfInfo.Trapped = xmp.NewText(trapped)
	}

	id := &PDFAID{
		Part:        xmp.NewText(strconv.Itoa(c.typ.Part())),
		Conformance: xmp.NewText(c.typ.Conformance()),
	}
	packet.Set(dc, basic, pdfInfo, id)

	var buf bytes.Buffer
	if err := packet.Write(&buf, &xmp.PacketOptions{Pretty: true}); err != nil {
		return err
	}
	// Metadata streams must not be filtered in PDF/A-1
	ref, err := c.doc.NewStream(buf.Bytes(), types.Dict{
		"Type":    types.Name("Metadata"),
		"Subtype": types.Name("XML"),
	}, true)
	if err != nil {
		return err
	}

	catalog, err := c.doc.Catalog()
	if err != nil {
		return err
	}
	catalog["Metadata"] = ref
	c.fixed++
	return nil
}

// ReadIdentification returns the PDF/A identification stored in the
// metadata stream of doc
func ReadIdentification(doc *document.Document) (*PDFAID, error) {
	catalog, err := doc.Catalog()
	if err != nil {
		return nil, err
	}
	if catalog["Metadata"] == nil {
		return nil, fmt.Errorf("document has no metadata")
	}
	data, err := doc.StreamContent(catalog["Metadata"])
	if err != nil {
		return nil, err
	}
	packet, err := xmp.Read(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}
	id := &PDFAID{}
	packet.Get(id)
	return id, nil
}
