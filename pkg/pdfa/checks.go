package pdfa

import (
	"fmt"
	"math"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// forbiddenActions are action types PDF/A does not permit
var forbiddenActions = map[string]bool{
	"Launch":     true,
	"Sound":      true,
	"Movie":      true,
	"ResetForm":  true,
	"ImportData": true,
	"JavaScript": true,
}

// annotation flags
const (
	flagInvisible = 1
	flagHidden    = 2
	flagPrint     = 4
	flagNoView    = 32
)

func refNr(o types.Object) int {
	switch v := o.(type) {
	case types.IndirectRef:
		return v.ObjectNumber.Value()
	case *types.IndirectRef:
		if v != nil {
			return v.ObjectNumber.Value()
		}
	}
	return -1
}

func (c *converter) name(o types.Object) string {
	n, _ := c.doc.Deref(o).(types.Name)
	return string(n)
}

// forbiddenAction reports whether the action dictionary a, or an action
// chained from it through Next, is not permitted
func (c *converter) forbiddenAction(o types.Object) bool {
	return c.forbiddenActionChain(o, map[int]bool{})
}

func (c *converter) forbiddenActionChain(o types.Object, seen map[int]bool) bool {
	if nr := refNr(o); nr >= 0 {
		if seen[nr] {
			return false
		}
		seen[nr] = true
	}
	a := c.doc.DictOf(o)
	if a == nil {
		return false
	}
	switch s := c.name(a["S"]); {
	case forbiddenActions[s]:
		return true
	case s == "URI":
		if uri, ok := c.doc.Deref(a["URI"]).(types.StringLiteral); ok &&
			strings.HasPrefix(strings.ToLower(string(uri)), "javascript:") {
			return true
		}
	}
	next := a["Next"]
	if arr, ok := c.doc.Deref(next).(types.Array); ok {
		for _, n := range arr {
			if c.forbiddenActionChain(n, seen) {
				return true
			}
		}
		return false
	}
	return c.forbiddenActionChain(next, seen)
}

// removeActions drops document JavaScript, additional actions and
// forbidden open actions
func (c *converter) removeActions() error {
	catalog, err := c.doc.Catalog()
	if err != nil {
		return err
	}
	if names := c.doc.DictOf(catalog["Names"]); names != nil {
		if _, ok := names["JavaScript"]; ok {
			delete(names, "JavaScript")
			c.fixed++
		}
	}
	if _, ok := catalog["AA"]; ok {
		delete(catalog, "AA")
		c.fixed++
	}
	if c.forbiddenAction(catalog["OpenAction"]) {
		delete(catalog, "OpenAction")
		c.fixed++
	}

	for i := 0; i < c.doc.PageCount(); i++ {
		page, err := c.doc.PageDict(i)
		if err != nil {
			return err
		}
		if _, ok := page["AA"]; ok {
			delete(page, "AA")
			c.fixed++
		}
	}

	if form := c.doc.DictOf(catalog["AcroForm"]); form != nil {
		c.removeFieldActions(form["Fields"], map[int]bool{})
	}
	return nil
}

func (c *converter) removeFieldActions(fields types.Object, seen map[int]bool) {
	arr, _ := c.doc.Deref(fields).(types.Array)
	for _, f := range arr {
		if nr := refNr(f); nr >= 0 {
			if seen[nr] {
				continue
			}
			seen[nr] = true
		}
		field := c.doc.DictOf(f)
		if field == nil {
			continue
		}
		if _, ok := field["AA"]; ok {
			delete(field, "AA")
			c.fixed++
		}
		c.removeFieldActions(field["Kids"], seen)
	}
}

// forbiddenAnnotation reports whether the subtype is not permitted
func (c *converter) forbiddenAnnotation(subtype string) bool {
	switch subtype {
	case "Movie", "Sound":
		return true
	case "Screen", "3D", "FileAttachment":
		return c.typ == RGB1B
	}
	return false
}

// fixAnnotations removes forbidden annotations and actions, and makes the
// remaining annotations printable
func (c *converter) fixAnnotations() error {
	for i := 0; i < c.doc.PageCount(); i++ {
		annots, refs, err := c.doc.Annotations(i)
		if err != nil {
			return err
		}
		if len(annots) == 0 {
			continue
		}

		var keep types.Array
		for j, a := range annots {
			subtype := c.name(a["Subtype"])
			if c.forbiddenAnnotation(subtype) {
				c.fixed++
				continue
			}
			keep = append(keep, refs[j])

			if _, ok := a["AA"]; ok {
				delete(a, "AA")
				c.fixed++
			}
			if c.forbiddenAction(a["A"]) {
				delete(a, "A")
				c.fixed++
			}
			if ca, ok := c.doc.Deref(a["CA"]).(types.Float); ok && ca < 1 && c.typ == RGB1B {
				delete(a, "CA")
				c.fixed++
			}
			if subtype == "Popup" {
				continue
			}

			flags := 0
			if f, ok := c.doc.Deref(a["F"]).(types.Integer); ok {
				flags = f.Value()
			}
			fixedFlags := (flags | flagPrint) &^ (flagInvisible | flagHidden | flagNoView)
			if fixedFlags != flags {
				a["F"] = types.Integer(fixedFlags)
				c.fixed++
			}
			if _, ok := a["AP"]; !ok && subtype != "Link" {
				c.violation("ANN001", "Annotation lacks an appearance stream: "+subtype, pageLocation(i))
			}
		}

		page, err := c.doc.PageDict(i)
		if err != nil {
			return err
		}
		if len(keep) == 0 {
			delete(page, "Annots")
		} else {
			page["Annots"] = keep
		}
	}
	return nil
}

func pageLocation(i int) string {
	return fmt.Sprintf("Page %d", i+1)
}

// fontEmbedded reports whether the font dictionary carries its font program
func (c *converter) fontEmbedded(font types.Dict) bool {
	switch c.name(font["Subtype"]) {
	case "Type3":
		return true
	case "Type0":
		desc, _ := c.doc.Deref(font["DescendantFonts"]).(types.Array)
		if len(desc) == 0 {
			return false
		}
		if cid := c.doc.DictOf(desc[0]); cid != nil {
			return c.fontEmbedded(cid)
		}
		return false
	}
	fd := c.doc.DictOf(font["FontDescriptor"])
	if fd == nil {
		return false
	}
	for _, key := range []string{"FontFile", "FontFile2", "FontFile3"} {
		if _, ok := fd[key]; ok {
			return true
		}
	}
	return false
}

// checkFonts reports every font without an embedded font program, searching
// form XObjects too
func (c *converter) checkFonts() error {
	if c.params.IgnoreFontErrors {
		return nil
	}
	seen := map[int]bool{}
	for i := 0; i < c.doc.PageCount(); i++ {
		res, err := c.doc.Resources(i)
		if err != nil {
			return err
		}
		c.checkResourceFonts(res, pageLocation(i), seen)
	}
	return nil
}

func (c *converter) checkResourceFonts(res types.Dict, loc string, seen map[int]bool) {
	for name, ref := range c.doc.DictOf(res["Font"]) {
		if nr := refNr(ref); nr >= 0 {
			if seen[nr] {
				continue
			}
			seen[nr] = true
		}
		font := c.doc.DictOf(ref)
		if font == nil || c.fontEmbedded(font) {
			continue
		}
		c.violation("FNT001", "Font must be embedded: "+c.name(font["BaseFont"]), loc+" Resource "+name)
	}
	for name, ref := range c.doc.DictOf(res["XObject"]) {
		if nr := refNr(ref); nr >= 0 {
			if seen[nr] {
				continue
			}
			seen[nr] = true
		}
		xobj := c.doc.DictOf(ref)
		if xobj == nil || c.name(xobj["Subtype"]) != "Form" {
			continue
		}
		if formRes := c.doc.DictOf(xobj["Resources"]); formRes != nil {
			c.checkResourceFonts(formRes, loc+" XObject "+name, seen)
		}
	}
}

// Implementation limits
const (
	maxStringLength = 32767
	maxNameLength   = 127
	maxArrayLength  = 8191
	maxDictLength   = 4095
	maxReal         = 32767
)

// checkLimits reports objects beyond the implementation limits
func (c *converter) checkLimits() error {
	if !c.params.ValidateImplementationLimits {
		return nil
	}
	c.doc.Objects(func(nr int, obj types.Object) {
		c.checkObjectLimits(obj, fmt.Sprintf("Object %d", nr))
	})
	return nil
}

func (c *converter) checkObjectLimits(obj types.Object, loc string) {
	switch v := obj.(type) {
	case types.StringLiteral:
		if len(v) > maxStringLength {
			c.violation("LIM001", fmt.Sprintf("String of %d bytes exceeds %d", len(v), maxStringLength), loc)
		}
	case types.HexLiteral:
		if len(v)/2 > maxStringLength {
			c.violation("LIM001", fmt.Sprintf("String of %d bytes exceeds %d", len(v)/2, maxStringLength), loc)
		}
	case types.Name:
		if len(v) > maxNameLength {
			c.violation("LIM002", fmt.Sprintf("Name of %d bytes exceeds %d", len(v), maxNameLength), loc)
		}
	case types.Integer:
		if n := int64(v); n > math.MaxInt32 || n < math.MinInt32 {
			c.violation("LIM003", fmt.Sprintf("Integer %d is out of range", n), loc)
		}
	case types.Float:
		if c.typ == RGB1B && math.Abs(float64(v)) > maxReal {
			c.violation("LIM004", fmt.Sprintf("Real %g is out of range", float64(v)), loc)
		}
	case types.Array:
		if len(v) > maxArrayLength {
			c.violation("LIM005", fmt.Sprintf("Array of %d elements exceeds %d", len(v), maxArrayLength), loc)
		}
		for _, e := range v {
			c.checkObjectLimits(e, loc)
		}
	case types.Dict:
		c.checkDictLimits(v, loc)
	case types.StreamDict:
		c.checkDictLimits(v.Dict, loc)
	}
}

func (c *converter) checkDictLimits(d types.Dict, loc string) {
	if len(d) > maxDictLength {
		c.violation("LIM006", fmt.Sprintf("Dictionary of %d entries exceeds %d", len(d), maxDictLength), loc)
	}
	for k, e := range d {
		if len(k) > maxNameLength {
			c.violation("LIM002", fmt.Sprintf("Name of %d bytes exceeds %d", len(k), maxNameLength), loc)
		}
		c.checkObjectLimits(e, loc)
	}
}
