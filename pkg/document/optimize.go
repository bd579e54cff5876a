package document

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// OptimizeResult holds the file sizes before and after optimization
type OptimizeResult struct {
	Before int64
	After  int64
}

// Ratio returns the optimized size as a percentage of the original
func (r OptimizeResult) Ratio() float64 {
	if r.Before == 0 {
		return 0
	}
	return float64(r.After) / float64(r.Before) * 100
}

// Optimize removes redundant objects and duplicate resources from in and
// writes the result to out
func Optimize(in, out string, opts ...Option) (OptimizeResult, error) {
	var res OptimizeResult
	fi, err := os.Stat(in)
	if err != nil {
		return res, fmt.Errorf("failed to stat %s: %w", in, err)
	}
	res.Before = fi.Size()

	conf := NewConfiguration(opts...)
	conf.WriteObjectStream = true
	conf.WriteXRefStream = true
	if err := api.OptimizeFile(in, out, conf); err != nil {
		return res, fmt.Errorf("failed to optimize %s: %w", in, err)
	}

	fo, err := os.Stat(out)
	if err != nil {
		return res, fmt.Errorf("failed to stat %s: %w", out, err)
	}
	res.After = fo.Size()
	return res, nil
}
