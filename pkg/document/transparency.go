package document

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/pyhub-apps/pdfsamples-golang/pkg/pdf"
)

// transparencyWalker visits the resources reachable from a page once each
type transparencyWalker struct {
	d       *Document
	flatten bool
	found   bool
	seen    map[int]bool
}

func (d *Document) newTransparencyWalker(flatten bool) *transparencyWalker {
	return &transparencyWalker{d: d, flatten: flatten, seen: map[int]bool{}}
}

// visit reports whether ref was already visited and marks it
func (w *transparencyWalker) visit(ref types.Object) bool {
	nr := objNr(ref)
	if nr < 0 {
		return false
	}
	if w.seen[nr] {
		return true
	}
	w.seen[nr] = true
	return false
}

// group handles a /Group entry of a page or form
func (w *transparencyWalker) group(d types.Dict) {
	g := w.d.dict(d["Group"])
	if g == nil || w.d.name(g["S"]) != "Transparency" {
		return
	}
	w.found = true
	if w.flatten {
		delete(d, "Group")
	}
}

func (w *transparencyWalker) resources(res types.Dict) {
	if res == nil {
		return
	}
	for _, ref := range w.d.dict(res["ExtGState"]) {
		if w.visit(ref) {
			continue
		}
		if gs := w.d.dict(ref); gs != nil {
			w.extGState(gs)
		}
	}
	for _, ref := range w.d.dict(res["XObject"]) {
		if w.visit(ref) {
			continue
		}
		if xd := w.d.dict(ref); xd != nil {
			w.xobject(xd)
		}
	}
	for _, ref := range w.d.dict(res["Pattern"]) {
		if w.visit(ref) {
			continue
		}
		if pd := w.d.dict(ref); pd != nil {
			w.resources(w.d.dict(pd["Resources"]))
			if gs := w.d.dict(pd["ExtGState"]); gs != nil {
				w.extGState(gs)
			}
		}
	}
}

func (w *transparencyWalker) extGState(gs types.Dict) {
	for _, key := range []string{"CA", "ca"} {
		if a, ok := w.d.number(gs[key]); ok && a < 1 {
			w.found = true
			if w.flatten {
				gs[key] = types.Float(1)
			}
		}
	}

	if sm, ok := gs["SMask"]; ok && w.d.name(sm) != "None" {
		w.found = true
		if w.flatten {
			gs["SMask"] = types.Name("None")
		}
	}

	if bm, ok := gs["BM"]; ok && !normalBlend(w.d, bm) {
		w.found = true
		if w.flatten {
			gs["BM"] = types.Name("Normal")
		}
	}
}

func normalBlend(d *Document, bm types.Object) bool {
	if arr := d.array(bm); arr != nil {
		if len(arr) == 0 {
			return true
		}
		bm = arr[0]
	}
	switch d.name(bm) {
	case "Normal", "Compatible":
		return true
	}
	return false
}

func (w *transparencyWalker) xobject(xd types.Dict) {
	switch w.d.name(xd["Subtype"]) {
	case "Image":
		if _, ok := xd["SMask"]; ok {
			w.found = true
			if w.flatten {
				delete(xd, "SMask")
			}
		}
		if n, ok := w.d.number(xd["SMaskInData"]); ok && n > 0 {
			w.found = true
			if w.flatten {
				delete(xd, "SMaskInData")
			}
		}
	case "Form":
		w.group(xd)
		w.resources(w.d.dict(xd["Resources"]))
	}
}

func (w *transparencyWalker) annotations(annots []types.Dict) {
	for _, a := range annots {
		if ca, ok := w.d.number(a["CA"]); ok && ca < 1 {
			w.found = true
			if w.flatten {
				delete(a, "CA")
			}
		}
		ap := w.d.dict(a["AP"])
		if ap == nil {
			continue
		}
		for _, key := range []string{"N", "R", "D"} {
			w.appearance(ap[key])
		}
	}
}

// appearance handles an appearance entry, a stream or a dictionary of states
func (w *transparencyWalker) appearance(o types.Object) {
	if o == nil || w.visit(o) {
		return
	}
	switch v := w.d.deref(o).(type) {
	case types.StreamDict:
		w.xobject(v.Dict)
	case types.Dict:
		for _, state := range v {
			if w.visit(state) {
				continue
			}
			if sd, ok := w.d.deref(state).(types.StreamDict); ok {
				w.xobject(sd.Dict)
			}
		}
	}
}

func (w *transparencyWalker) page(i int, includeAnnots bool) error {
	pageDict, _, attrs, err := w.d.pageDict(i)
	if err != nil {
		return err
	}
	w.group(pageDict)

	res := w.d.dict(pageDict["Resources"])
	if res == nil && attrs != nil {
		res = attrs.Resources
	}
	w.resources(res)

	if includeAnnots {
		annots, _, err := w.d.Annotations(i)
		if err != nil {
			return err
		}
		w.annotations(annots)
	}
	return nil
}

// HasTransparency reports whether page i uses transparency: a page
// transparency group, constant alpha below 1, a soft mask, a blend mode
// other than Normal, or an image with a soft mask. Form XObjects are
// searched recursively, and annotation appearances too when includeAnnots
// is set.
func (d *Document) HasTransparency(i int, includeAnnots bool) (bool, error) {
	w := d.newTransparencyWalker(false)
	if err := w.page(i, includeAnnots); err != nil {
		return false, err
	}
	return w.found, nil
}

// FirstTransparentPage returns the index of the first page with
// transparency, or -1 if there is none
func (d *Document) FirstTransparentPage(includeAnnots bool) (int, error) {
	for i := 0; i < d.PageCount(); i++ {
		found, err := d.HasTransparency(i, includeAnnots)
		if err != nil {
			return -1, err
		}
		if found {
			return i, nil
		}
	}
	return -1, nil
}

// FlattenTransparency removes the transparency attributes found by
// HasTransparency from the pages first through last (LastPage for the end
// of the document), annotations included. Content is not rasterized:
// alpha becomes 1, soft masks are dropped and blend modes become Normal.
// Resources are changed in place, so pages outside the range that share an
// ExtGState or form XObject with a flattened page lose their transparency
// as well. It returns the number of pages that changed.
func (d *Document) FlattenTransparency(first, last int) (int, error) {
	if last == LastPage {
		last = d.PageCount() - 1
	}
	if first < 0 || last >= d.PageCount() || first > last {
		return 0, fmt.Errorf("%w: pages %d-%d of %d", pdf.ErrPageRange, first, last, d.PageCount())
	}

	changed := 0
	for i := first; i <= last; i++ {
		w := d.newTransparencyWalker(true)
		if err := w.page(i, true); err != nil {
			return changed, fmt.Errorf("failed to flatten page %d: %w", i, err)
		}
		if w.found {
			changed++
		}
	}
	return changed, nil
}
