package slidepdf

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Result holds a generated PDF and provides helpers for common output
// formats such as raw bytes, base64 encoding, and streaming readers.
//
// A Result is returned by every conversion method. Its methods may be called
// any number of times; the underlying data is never modified.
type Result struct {
	data []byte
}

// NewResult wraps existing PDF bytes, for example a file read from disk,
// so they can be inspected or merged.
func NewResult(data []byte) *Result {
	return &Result{data: data}
}

// Bytes returns the raw PDF content.
func (r *Result) Bytes() []byte {
	return r.data
}

// Base64 returns the PDF encoded as a standard base64 string (RFC 4648).
func (r *Result) Base64() string {
	return base64.StdEncoding.EncodeToString(r.data)
}

// Reader returns an [*bytes.Reader] over the PDF content.
func (r *Result) Reader() *bytes.Reader {
	return bytes.NewReader(r.data)
}

// WriteTo writes the full PDF content to w. It implements [io.WriterTo].
func (r *Result) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.data)
	return int64(n), err
}

// WriteToFile writes the PDF to the file at path, creating it if needed.
func (r *Result) WriteToFile(path string, perm os.FileMode) error {
	return os.WriteFile(path, r.data, perm)
}

// Len returns the size of the PDF in bytes.
func (r *Result) Len() int {
	return len(r.data)
}

// PageCount parses the PDF and returns its number of pages.
func (r *Result) PageCount() (int, error) {
	n, err := api.PageCount(r.Reader(), pdfcpuConfig())
	if err != nil {
		return 0, fmt.Errorf("slidepdf: reading pdf: %w", err)
	}
	return n, nil
}

// Info describes a parsed PDF.
type Info struct {
	Version string
	Pages   int
	// Dims holds the media box of every page, in points.
	Dims []types.Dim
}

// Info parses the PDF and reports its version and page geometry.
func (r *Result) Info() (Info, error) {
	ctx, err := api.ReadContext(r.Reader(), pdfcpuConfig())
	if err != nil {
		return Info{}, fmt.Errorf("slidepdf: reading pdf: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return Info{}, fmt.Errorf("slidepdf: counting pages: %w", err)
	}
	dims, err := ctx.PageDims()
	if err != nil {
		return Info{}, fmt.Errorf("slidepdf: reading page sizes: %w", err)
	}
	return Info{
		Version: fmt.Sprint(ctx.HeaderVersion),
		Pages:   ctx.PageCount,
		Dims:    dims,
	}, nil
}

var disableConfigDir sync.Once

// pdfcpuConfig returns a default pdfcpu configuration without touching the
// user's pdfcpu config directory.
func pdfcpuConfig() *model.Configuration {
	disableConfigDir.Do(api.DisableConfigDir)
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}
