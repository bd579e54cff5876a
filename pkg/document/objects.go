package document

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/pyhub-apps/pdfsamples-golang/pkg/content"
	"github.com/pyhub-apps/pdfsamples-golang/pkg/pdf"
)

// deref resolves indirect references, accepting both value and pointer forms
func (d *Document) deref(o types.Object) types.Object {
	switch v := o.(type) {
	case *types.IndirectRef:
		if v == nil {
			return nil
		}
		o = *v
	case nil:
		return nil
	}
	obj, err := d.ctx.Dereference(o)
	if err != nil {
		return nil
	}
	return obj
}

func (d *Document) dict(o types.Object) types.Dict {
	switch v := d.deref(o).(type) {
	case types.Dict:
		return v
	case types.StreamDict:
		return v.Dict
	}
	return nil
}

func (d *Document) array(o types.Object) types.Array {
	arr, _ := d.deref(o).(types.Array)
	return arr
}

func (d *Document) number(o types.Object) (float64, bool) {
	switch v := d.deref(o).(type) {
	case types.Integer:
		return float64(v), true
	case types.Float:
		return float64(v), true
	}
	return 0, false
}

func (d *Document) name(o types.Object) string {
	n, _ := d.deref(o).(types.Name)
	return string(n)
}

func (d *Document) numbers(o types.Object) []float64 {
	var out []float64
	for _, e := range d.array(o) {
		if f, ok := d.number(e); ok {
			out = append(out, f)
		}
	}
	return out
}

// rect reads a rectangle array in any corner order
func (d *Document) rect(o types.Object) (pdf.BoundingBox, bool) {
	n := d.numbers(o)
	if len(n) != 4 {
		return pdf.BoundingBox{}, false
	}
	return pdf.BoundingBox{
		X0: min(n[0], n[2]), Y0: min(n[1], n[3]),
		X1: max(n[0], n[2]), Y1: max(n[1], n[3]),
	}, true
}

// matrix reads a six-number matrix array, defaulting to the identity
func (d *Document) matrix(o types.Object) content.Matrix {
	n := d.numbers(o)
	if len(n) != 6 {
		return content.IdentityMatrix()
	}
	return content.Matrix{A: n[0], B: n[1], C: n[2], D: n[3], E: n[4], F: n[5]}
}

// objNr returns the object number of an indirect reference, or -1
func objNr(o types.Object) int {
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

// stream resolves a stream object, decoding its content
func (d *Document) stream(o types.Object) (*types.StreamDict, error) {
	if ref, ok := o.(*types.IndirectRef); ok && ref != nil {
		o = *ref
	}
	sd, _, err := d.ctx.DereferenceStreamDict(o)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference stream: %w", err)
	}
	if sd == nil {
		return nil, nil
	}
	if len(sd.Content) == 0 {
		if err := sd.Decode(); err != nil {
			return nil, fmt.Errorf("failed to decode stream: %w", err)
		}
	}
	return sd, nil
}

// newStream adds a Flate-compressed stream object with the given extra
// dictionary entries
func (d *Document) newStream(data []byte, entries types.Dict) (types.IndirectRef, error) {
	sd, err := d.ctx.NewStreamDictForBuf(data)
	if err != nil {
		return types.IndirectRef{}, fmt.Errorf("failed to create stream: %w", err)
	}
	for k, v := range entries {
		sd.Dict[k] = v
	}
	if err := sd.Encode(); err != nil {
		return types.IndirectRef{}, fmt.Errorf("failed to encode stream: %w", err)
	}
	ref, err := d.ctx.IndRefForNewObject(*sd)
	if err != nil {
		return types.IndirectRef{}, fmt.Errorf("failed to add stream: %w", err)
	}
	return *ref, nil
}

// newObject adds an indirect object
func (d *Document) newObject(obj types.Object) (types.IndirectRef, error) {
	ref, err := d.ctx.IndRefForNewObject(obj)
	if err != nil {
		return types.IndirectRef{}, fmt.Errorf("failed to add object: %w", err)
	}
	return *ref, nil
}

// newForm adds a form XObject with the given bounding box and content
func (d *Document) newForm(bbox pdf.BoundingBox, resources types.Dict, data []byte) (types.IndirectRef, error) {
	entries := types.Dict{
		"Type":    types.Name("XObject"),
		"Subtype": types.Name("Form"),
		"BBox":    rectArray(bbox),
	}
	if resources != nil {
		entries["Resources"] = resources
	}
	return d.newStream(data, entries)
}

func floatArray(f ...float64) types.Array {
	arr := make(types.Array, len(f))
	for i, v := range f {
		arr[i] = types.Float(v)
	}
	return arr
}

func rectArray(b pdf.BoundingBox) types.Array {
	return floatArray(b.X0, b.Y0, b.X1, b.Y1)
}

// contentObject converts a pdfcpu object to its content stream form
func (d *Document) contentObject(o types.Object) content.Object {
	switch v := d.deref(o).(type) {
	case types.Integer:
		return content.Number(v)
	case types.Float:
		return content.Number(v)
	case types.Name:
		return content.Name(v)
	case types.Boolean:
		return content.Bool(v)
	case types.StringLiteral:
		return content.String(v)
	case types.Array:
		arr := make(content.Array, len(v))
		for i, e := range v {
			arr[i] = d.contentObject(e)
		}
		return arr
	}
	return content.Null{}
}

// Deref resolves an indirect reference; other objects are returned as is
func (d *Document) Deref(o types.Object) types.Object {
	return d.deref(o)
}

// DictOf resolves o to a dictionary, or the dictionary of a stream. It
// returns nil for anything else.
func (d *Document) DictOf(o types.Object) types.Dict {
	return d.dict(o)
}

// NewObject adds obj as a new indirect object
func (d *Document) NewObject(obj types.Object) (types.IndirectRef, error) {
	return d.newObject(obj)
}

// NewStream adds a stream object with the given dictionary entries. Data is
// Flate-compressed unless raw is set.
func (d *Document) NewStream(data []byte, entries types.Dict, raw bool) (types.IndirectRef, error) {
	if !raw {
		return d.newStream(data, entries)
	}
	sd, err := d.ctx.NewStreamDictForBuf(data)
	if err != nil {
		return types.IndirectRef{}, fmt.Errorf("failed to create stream: %w", err)
	}
	sd.FilterPipeline = nil
	delete(sd.Dict, "Filter")
	for k, v := range entries {
		sd.Dict[k] = v
	}
	if err := sd.Encode(); err != nil {
		return types.IndirectRef{}, fmt.Errorf("failed to encode stream: %w", err)
	}
	return d.newObject(*sd)
}

// Catalog returns the document catalog
func (d *Document) Catalog() (types.Dict, error) {
	catalog, err := d.ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}
	return catalog, nil
}

// Info returns the document information dictionary, creating an empty one
// if the document has none
func (d *Document) Info() (types.Dict, error) {
	if d.ctx.Info != nil {
		if info := d.dict(*d.ctx.Info); info != nil {
			return info, nil
		}
	}
	info := types.Dict{}
	ref, err := d.newObject(info)
	if err != nil {
		return nil, err
	}
	d.ctx.Info = &ref
	return info, nil
}

// Objects calls fn for every object in the cross-reference table
func (d *Document) Objects(fn func(nr int, obj types.Object)) {
	for nr, entry := range d.ctx.Table {
		if entry == nil || entry.Free || entry.Object == nil {
			continue
		}
		fn(nr, entry.Object)
	}
}

// StreamContent returns the decoded content of a stream object
func (d *Document) StreamContent(o types.Object) ([]byte, error) {
	sd, err := d.stream(o)
	if err != nil {
		return nil, err
	}
	if sd == nil {
		return nil, fmt.Errorf("object is not a stream")
	}
	return sd.Content, nil
}
