package slidepdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Merge concatenates the pages of results, in order, into one PDF.
func Merge(results ...*Result) (*Result, error) {
	for i, r := range results {
		if r == nil {
			return nil, fmt.Errorf("slidepdf: merging: result %d is nil", i)
		}
	}
	switch len(results) {
	case 0:
		return nil, errors.New("slidepdf: nothing to merge")
	case 1:
		return &Result{data: bytes.Clone(results[0].data)}, nil
	}

	readers := make([]io.ReadSeeker, len(results))
	for i, r := range results {
		readers[i] = r.Reader()
	}

	var out bytes.Buffer
	if err := api.MergeRaw(readers, &out, false, pdfcpuConfig()); err != nil {
		return nil, fmt.Errorf("slidepdf: merging: %w", err)
	}
	return &Result{data: out.Bytes()}, nil
}
