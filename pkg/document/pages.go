package document

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/pyhub-apps/pdfsamples-golang/pkg/pdf"
)

// pageSelection returns the pdfcpu page selection for the 0-based pages
// first through last
func pageSelection(first, last int) []string {
	if first == last {
		return []string{strconv.Itoa(first + 1)}
	}
	return []string{fmt.Sprintf("%d-%d", first+1, last+1)}
}

// Merge writes the pages of every input, in order, to out. Outlines of
// the inputs are kept.
func Merge(inputs []string, out string, opts ...Option) error {
	if len(inputs) == 0 {
		return fmt.Errorf("merge needs at least one input")
	}
	if err := api.MergeCreateFile(inputs, out, false, NewConfiguration(opts...)); err != nil {
		return fmt.Errorf("failed to merge into %s: %w", out, err)
	}
	return nil
}

// ExtractPage writes page i (0-based) of in to out
func ExtractPage(in, out string, i int, opts ...Option) error {
	if i < 0 {
		return fmt.Errorf("%w: page %d", pdf.ErrPageRange, i)
	}
	if err := api.TrimFile(in, out, pageSelection(i, i), NewConfiguration(opts...)); err != nil {
		return fmt.Errorf("failed to extract page %d: %w", i, err)
	}
	return nil
}

// SplitPages writes every page of in to its own file. The file name for page
// n (1-based) is fmt.Sprintf(pattern, n). It returns the written paths.
func SplitPages(in, pattern string, opts ...Option) ([]string, error) {
	n, err := api.PageCountFile(in)
	if err != nil {
		return nil, fmt.Errorf("failed to count pages of %s: %w", in, err)
	}

	paths := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out := fmt.Sprintf(pattern, i+1)
		if err := ExtractPage(in, out, i, opts...); err != nil {
			return paths, err
		}
		paths = append(paths, out)
	}
	return paths, nil
}

// InsertPages inserts count pages of src, starting at page first, after
// page after of d. Use BeforeFirstPage to insert at the front and LastPage
// to append. A count of LastPage takes the rest of src.
func (d *Document) InsertPages(after int, src *Document, first, count int) error {
	switch after {
	case LastPage:
		after = d.PageCount() - 1
	case BeforeFirstPage:
		after = -1
	default:
		if after < 0 {
			return fmt.Errorf("%w: insert after page %d of %d", pdf.ErrPageRange, after, d.PageCount())
		}
	}
	if count == LastPage {
		count = src.PageCount() - first
	}
	if after < -1 || after >= d.PageCount() {
		return fmt.Errorf("%w: insert after page %d of %d", pdf.ErrPageRange, after, d.PageCount())
	}
	if first < 0 || count <= 0 || first+count > src.PageCount() {
		return fmt.Errorf("%w: pages %d+%d of %d", pdf.ErrPageRange, first, count, src.PageCount())
	}

	dir, err := os.MkdirTemp("", "pdfsamples-insert")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	target := filepath.Join(dir, "target.pdf")
	if err := d.writeFile(target); err != nil {
		return err
	}
	source := filepath.Join(dir, "source.pdf")
	if err := src.writeFile(source); err != nil {
		return err
	}

	var parts []string
	if after >= 0 {
		head := filepath.Join(dir, "head.pdf")
		if err := api.TrimFile(target, head, pageSelection(0, after), d.conf); err != nil {
			return fmt.Errorf("failed to split target: %w", err)
		}
		parts = append(parts, head)
	}

	middle := filepath.Join(dir, "middle.pdf")
	if err := api.TrimFile(source, middle, pageSelection(first, first+count-1), src.conf); err != nil {
		return fmt.Errorf("failed to select source pages: %w", err)
	}
	parts = append(parts, middle)

	if after < d.PageCount()-1 {
		tail := filepath.Join(dir, "tail.pdf")
		if err := api.TrimFile(target, tail, pageSelection(after+1, d.PageCount()-1), d.conf); err != nil {
			return fmt.Errorf("failed to split target: %w", err)
		}
		parts = append(parts, tail)
	}

	merged := filepath.Join(dir, "merged.pdf")
	if err := api.MergeCreateFile(parts, merged, false, d.conf); err != nil {
		return fmt.Errorf("failed to merge pages: %w", err)
	}
	return d.reload(merged)
}

func (d *Document) writeFile(path string) error {
	var buf bytes.Buffer
	if err := d.Write(&buf, SaveFull); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return d.reloadBytes(buf.Bytes())
}

func (d *Document) reload(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return d.reloadBytes(data)
}

// reloadBytes replaces the context of d with data written from it
func (d *Document) reloadBytes(data []byte) error {
	xfa := d.xfa
	if err := d.load(bytes.NewReader(data)); err != nil {
		return err
	}
	d.xfa = d.xfa || xfa
	return nil
}
