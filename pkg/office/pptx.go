package office

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

const (
	pptxPresentation = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	pptxSlide        = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	pptxLayout       = "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"
	pptxMaster       = "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"
	pptxTheme        = "application/vnd.openxmlformats-officedocument.theme+xml"

	nsA = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"`
	nsR = `xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`
	nsP = `xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`

	// 10 x 7.5 inches in EMU
	slideWidth  = 9144000
	slideHeight = 6858000
	margin      = 457200
)

const emptyTree = `<p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/></p:spTree></p:cSld>`

const theme = `<a:theme ` + nsA + ` name="Office"><a:themeElements>` +
	`<a:clrScheme name="Office"><a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1><a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>` +
	`<a:dk2><a:srgbClr val="1F497D"/></a:dk2><a:lt2><a:srgbClr val="EEECE1"/></a:lt2><a:accent1><a:srgbClr val="4F81BD"/></a:accent1>` +
	`<a:accent2><a:srgbClr val="C0504D"/></a:accent2><a:accent3><a:srgbClr val="9BBB59"/></a:accent3><a:accent4><a:srgbClr val="8064A2"/></a:accent4>` +
	`<a:accent5><a:srgbClr val="4BACC6"/></a:accent5><a:accent6><a:srgbClr val="F79646"/></a:accent6><a:hlink><a:srgbClr val="0000FF"/></a:hlink>` +
	`<a:folHlink><a:srgbClr val="800080"/></a:folHlink></a:clrScheme>` +
	`<a:fontScheme name="Office"><a:majorFont><a:latin typeface="Calibri"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>` +
	`<a:minorFont><a:latin typeface="Calibri"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont></a:fontScheme>` +
	`<a:fmtScheme name="Office"><a:fillStyleLst><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:fillStyleLst>` +
	`<a:lnStyleLst><a:ln w="9525"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln><a:ln w="25400"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln><a:ln w="38100"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln></a:lnStyleLst>` +
	`<a:effectStyleLst><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle></a:effectStyleLst>` +
	`<a:bgFillStyleLst><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:bgFillStyleLst></a:fmtScheme>` +
	`</a:themeElements></a:theme>`

// slideXML returns a slide with one text box holding the lines
func slideXML(lines []Line) string {
	var body strings.Builder
	for _, l := range lines {
		body.WriteString(`<a:p><a:r><a:rPr lang="en-US" dirty="0"/><a:t>` + escape(l.Text()) + `</a:t></a:r></a:p>`)
	}
	if len(lines) == 0 {
		body.WriteString(`<a:p><a:endParaRPr lang="en-US"/></a:p>`)
	}
	return fmt.Sprintf(`<p:sld %s %s %s><p:cSld><p:spTree>`+
		`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`+
		`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Text 1"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`+
		`<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr>`+
		`<p:txBody><a:bodyPr wrap="square"><a:normAutofit/></a:bodyPr><a:lstStyle/>%s</p:txBody></p:sp>`+
		`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`,
		nsA, nsR, nsP, margin, margin, slideWidth-2*margin, slideHeight-2*margin, body.String())
}

// writePPTX writes one slide per page with the page text in a text box
func writePPTX(w io.Writer, pages [][]Line) error {
	if len(pages) == 0 {
		pages = [][]Line{nil}
	}

	overrides := map[string]string{
		"ppt/presentation.xml":              pptxPresentation,
		"ppt/slideMasters/slideMaster1.xml": pptxMaster,
		"ppt/slideLayouts/slideLayout1.xml": pptxLayout,
		"ppt/theme/theme1.xml":              pptxTheme,
	}
	order := []string{"ppt/presentation.xml", "ppt/slideMasters/slideMaster1.xml", "ppt/slideLayouts/slideLayout1.xml", "ppt/theme/theme1.xml"}

	presRels := []relationship{
		{"rId1", relSlideMaster, "slideMasters/slideMaster1.xml"},
		{"rId2", relTheme, "theme/theme1.xml"},
	}
	var slideIDs bytes.Buffer
	var slides []part
	for i, lines := range pages {
		name := fmt.Sprintf("ppt/slides/slide%d.xml", i+1)
		rid := fmt.Sprintf("rId%d", i+3)
		overrides[name] = pptxSlide
		order = append(order, name)
		presRels = append(presRels, relationship{rid, relSlide, fmt.Sprintf("slides/slide%d.xml", i+1)})
		fmt.Fprintf(&slideIDs, `<p:sldId id="%d" r:id="%s"/>`, 256+i, rid)
		slides = append(slides,
			part{name, slideXML(lines)},
			part{fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1),
				relationships(relationship{"rId1", relSlideLayout, "../slideLayouts/slideLayout1.xml"})},
		)
	}

	presentation := fmt.Sprintf(`<p:presentation %s %s %s>`+
		`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`+
		`<p:sldIdLst>%s</p:sldIdLst><p:sldSz cx="%d" cy="%d"/><p:notesSz cx="%d" cy="%d"/></p:presentation>`,
		nsA, nsR, nsP, slideIDs.String(), slideWidth, slideHeight, slideHeight, slideWidth)

	master := fmt.Sprintf(`<p:sldMaster %s %s %s>%s`+
		`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>`+
		`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst></p:sldMaster>`,
		nsA, nsR, nsP, emptyTree)

	layout := fmt.Sprintf(`<p:sldLayout %s %s %s type="blank" preserve="1">%s<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sldLayout>`,
		nsA, nsR, nsP, emptyTree)

	parts := []part{
		{"[Content_Types].xml", contentTypes(overrides, order)},
		{"_rels/.rels", relationships(relationship{"rId1", relOfficeDocument, "ppt/presentation.xml"})},
		{"ppt/presentation.xml", presentation},
		{"ppt/_rels/presentation.xml.rels", relationships(presRels...)},
		{"ppt/slideMasters/slideMaster1.xml", master},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", relationships(
			relationship{"rId1", relSlideLayout, "../slideLayouts/slideLayout1.xml"},
			relationship{"rId2", relTheme, "../theme/theme1.xml"},
		)},
		{"ppt/slideLayouts/slideLayout1.xml", layout},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", relationships(
			relationship{"rId1", relSlideMaster, "../slideMasters/slideMaster1.xml"},
		)},
		{"ppt/theme/theme1.xml", theme},
	}
	return writePackage(w, append(parts, slides...))
}
