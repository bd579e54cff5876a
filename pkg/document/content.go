package document

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// PageContent returns the decoded content streams of page i, concatenated
func (d *Document) PageContent(i int) ([]byte, error) {
	pageDict, err := d.PageDict(i)
	if err != nil {
		return nil, err
	}

	var refs []types.Object
	switch v := pageDict["Contents"].(type) {
	case nil:
		return nil, nil
	case types.Array:
		refs = v
	case *types.IndirectRef:
		if arr := d.array(*v); arr != nil {
			refs = arr
		} else {
			refs = []types.Object{*v}
		}
	case types.IndirectRef:
		if arr := d.array(v); arr != nil {
			refs = arr
		} else {
			refs = []types.Object{v}
		}
	}

	var streams [][]byte
	for _, ref := range refs {
		sd, err := d.stream(ref)
		if err != nil {
			return nil, fmt.Errorf("failed to read content of page %d: %w", i, err)
		}
		if sd != nil {
			streams = append(streams, sd.Content)
		}
	}
	return bytes.Join(streams, []byte("\n")), nil
}

// ReplaceContent replaces the content of page i with data
func (d *Document) ReplaceContent(i int, data []byte) error {
	pageDict, err := d.PageDict(i)
	if err != nil {
		return err
	}
	ref, err := d.newStream(data, nil)
	if err != nil {
		return err
	}
	pageDict["Contents"] = ref
	return nil
}

// AppendContent adds data after the existing content of page i. The existing
// content is wrapped in q/Q so that data starts from the default state.
func (d *Document) AppendContent(i int, data []byte) error {
	old, err := d.PageContent(i)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if len(old) > 0 {
		buf.WriteString("q\n")
		buf.Write(old)
		buf.WriteString("\nQ\n")
	}
	buf.Write(data)
	return d.ReplaceContent(i, buf.Bytes())
}

// resources returns the resource dictionary of page i, creating a page level
// dictionary from the inherited one if needed
func (d *Document) resources(i int) (types.Dict, error) {
	pageDict, _, attrs, err := d.pageDict(i)
	if err != nil {
		return nil, err
	}
	if res := d.dict(pageDict["Resources"]); res != nil {
		return res, nil
	}

	res := types.Dict{}
	if attrs != nil && attrs.Resources != nil {
		for k, v := range attrs.Resources {
			res[k] = v
		}
	}
	pageDict["Resources"] = res
	return res, nil
}

// AddResource adds obj to the given resource category (Font, ExtGState,
// XObject, ...) of page i. It returns the name under which obj was added,
// which is name itself unless that name is taken.
func (d *Document) AddResource(i int, category, name string, obj types.Object) (string, error) {
	res, err := d.resources(i)
	if err != nil {
		return "", err
	}

	sub := d.dict(res[category])
	if sub == nil {
		sub = types.Dict{}
		res[category] = sub
	}

	unique := name
	for n := 1; ; n++ {
		if _, taken := sub[unique]; !taken {
			break
		}
		unique = name + strconv.Itoa(n)
	}
	sub[unique] = obj
	return unique, nil
}

// Resources returns the resource dictionary of page i. Inherited resources
// are copied into the page.
func (d *Document) Resources(i int) (types.Dict, error) {
	return d.resources(i)
}
