package slidepdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Converter turns decks, images and text files into PDF documents.
//
// HTML conversions need a [PageRenderer]; image and text conversions work
// without one. Pages are rendered one at a time, in slide order.
type Converter struct {
	renderer  PageRenderer
	extractor *SlideExtractor
	log       zerolog.Logger
	progress  ProgressFunc
	only      string
	whole     bool
}

// NewConverter creates a Converter that rasterizes HTML with r, which may be
// nil if only images and text will be converted. Rendering options in opts
// are ignored; configure them on the renderer instead.
func NewConverter(r PageRenderer, opts ...Option) *Converter {
	cfg := newConfig(opts)
	ext := cfg.extractor
	if ext == nil {
		ext = &SlideExtractor{}
	}
	progress := cfg.progress
	if progress == nil {
		progress = func(int, int) {}
	}
	return &Converter{
		renderer:  r,
		extractor: ext,
		log:       cfg.logger.With().Str("component", "converter").Logger(),
		progress:  progress,
		only:      cfg.slideRange,
		whole:     cfg.wholeDocument,
	}
}

// Slides extracts the slides of source with the converter's conventions.
func (c *Converter) Slides(source string) []Slide {
	return c.extractor.Extract(source)
}

// ConvertSlides renders every slide of source as one PDF page.
// It returns [ErrNoSlides] without rendering anything when source contains
// no slide markers. If page is nil, [DefaultPageConfig] values are used.
func (c *Converter) ConvertSlides(ctx context.Context, source string, pg *PageConfig) (*Result, error) {
	slides := c.extractor.Extract(source)
	if len(slides) == 0 {
		return nil, ErrNoSlides
	}
	slides, err := SelectSlides(slides, c.only)
	if err != nil {
		return nil, err
	}
	return c.RenderSlides(ctx, slides, pg)
}

// RenderSlides renders slides in order, one page each. The slide range set
// with [WithSlideRange] is not applied.
func (c *Converter) RenderSlides(ctx context.Context, slides []Slide, pg *PageConfig) (*Result, error) {
	if len(slides) == 0 {
		return nil, ErrNoSlides
	}
	if c.renderer == nil {
		return nil, ErrNoRenderer
	}
	cfg := pg.resolved()
	asm, err := NewAssembler(pg)
	if err != nil {
		return nil, err
	}

	for i, s := range slides {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("slidepdf: conversion failed: %w", err)
		}
		start := time.Now()
		bitmap, err := c.renderer.Render(ctx, s.Standalone, cfg.Quality)
		if err != nil {
			return nil, fmt.Errorf("slidepdf: conversion failed: slide %d (%s): %w", s.Index+1, s.Title, err)
		}
		if err := asm.AddBitmap(bitmap); err != nil {
			return nil, fmt.Errorf("slidepdf: conversion failed: slide %d (%s): %w", s.Index+1, s.Title, err)
		}
		c.log.Debug().
			Int("slide", s.Index+1).
			Int("total", len(slides)).
			Str("title", s.Title).
			Dur("elapsed", time.Since(start)).
			Msg("slide rendered")
		c.progress(i+1, len(slides))
	}
	return asm.Finish()
}

// ConvertHTMLPage renders a whole HTML document as a single page, clipped to
// the page height.
func (c *Converter) ConvertHTMLPage(ctx context.Context, html string, pg *PageConfig) (*Result, error) {
	if c.renderer == nil {
		return nil, ErrNoRenderer
	}
	cfg := pg.resolved()
	asm, err := NewAssembler(pg)
	if err != nil {
		return nil, err
	}
	bitmap, err := c.renderer.Render(ctx, html, cfg.Quality)
	if err != nil {
		return nil, fmt.Errorf("slidepdf: conversion failed: %w", err)
	}
	if err := asm.AddBitmap(bitmap); err != nil {
		return nil, fmt.Errorf("slidepdf: conversion failed: %w", err)
	}
	return asm.Finish()
}

// ConvertImage places an encoded image on a single page.
func (c *Converter) ConvertImage(data []byte, pg *PageConfig) (*Result, error) {
	asm, err := NewAssembler(pg)
	if err != nil {
		return nil, err
	}
	if err := asm.AddImage(data); err != nil {
		return nil, fmt.Errorf("slidepdf: conversion failed: %w", err)
	}
	return asm.Finish()
}

// ConvertText lays out plain text over as many pages as it needs.
func (c *Converter) ConvertText(text string, pg *PageConfig) (*Result, error) {
	asm, err := NewAssembler(pg)
	if err != nil {
		return nil, err
	}
	if err := asm.AddText(text); err != nil {
		return nil, fmt.Errorf("slidepdf: conversion failed: %w", err)
	}
	return asm.Finish()
}

// ConvertFile converts the file at path according to its [Kind].
//
// HTML files are converted slide by slide. A file without slides fails with
// [ErrNoSlides] unless the converter was built with
// [WithWholeDocumentFallback].
func (c *Converter) ConvertFile(ctx context.Context, path string, pg *PageConfig) (*Result, error) {
	kind := DetectKind(path)
	c.log.Debug().Str("path", path).Stringer("kind", kind).Msg("converting file")

	switch kind {
	case KindHTML:
		src, err := LoadSource(path)
		if err != nil {
			return nil, err
		}
		dir, err := filepath.Abs(filepath.Dir(path))
		if err != nil {
			return nil, fmt.Errorf("slidepdf: resolving path: %w", err)
		}
		base := fileURL(dir) + "/"

		slides := c.extractor.Extract(src)
		if len(slides) > 0 {
			c.log.Info().Str("path", path).Int("slides", len(slides)).Msg("slides detected")
			if slides, err = SelectSlides(slides, c.only); err != nil {
				return nil, err
			}
			for i := range slides {
				slides[i].Standalone = withBaseURL(slides[i].Standalone, base)
			}
			return c.RenderSlides(ctx, slides, pg)
		}
		if !c.whole {
			return nil, ErrNoSlides
		}
		c.log.Info().Str("path", path).Msg("no slides found, rendering whole document")
		return c.ConvertHTMLPage(ctx, withBaseURL(src, base), pg)
	case KindImage:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("slidepdf: %w", err)
		}
		return c.ConvertImage(data, pg)
	case KindText:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("slidepdf: %w", err)
		}
		return c.ConvertText(string(data), pg)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
}

// BatchResult is the outcome of converting one file in a batch.
// Exactly one of Result and Err is set; Err is an [*ItemError].
type BatchResult struct {
	Path   string
	Result *Result
	Err    error
}

// ConvertBatch converts each file in turn. A failing file is recorded in its
// BatchResult and does not stop the others. Once ctx is done the remaining
// files fail with the context's error.
func (c *Converter) ConvertBatch(ctx context.Context, paths []string, pg *PageConfig) []BatchResult {
	out := make([]BatchResult, len(paths))
	for i, p := range paths {
		out[i].Path = p
		var err error
		if err = ctx.Err(); err == nil {
			out[i].Result, err = c.ConvertFile(ctx, p, pg)
		}
		if err != nil {
			out[i].Err = &ItemError{Item: p, Err: err}
			c.log.Warn().Err(err).Str("path", p).Msg("conversion failed")
		}
	}
	return out
}

// Failed returns the entries of results that have an error.
func Failed(results []BatchResult) []BatchResult {
	var out []BatchResult
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

// OutputName replaces the extension of path with ext, e.g. ".pdf".
func OutputName(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

var unsafeName = regexp.MustCompile(`[^a-z0-9]`)

// SanitizeFilename turns a document title into a lower-case file name stem
// made of ASCII letters, digits and underscores.
func SanitizeFilename(title string) string {
	return unsafeName.ReplaceAllString(strings.ToLower(title), "_")
}

// --- Package-level convenience functions ---

// ConvertSlides converts a deck using a temporary [Renderer].
// This is convenient for one-off conversions. For repeated use, create a
// [Renderer] with [NewRenderer] and a [Converter] around it.
func ConvertSlides(ctx context.Context, source string, pg *PageConfig, opts ...Option) (*Result, error) {
	cfg := newConfig(opts)
	if len(cfg.extractorOrDefault().Extract(source)) == 0 {
		return nil, ErrNoSlides
	}
	r, err := NewRenderer(opts...)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return NewConverter(r, opts...).ConvertSlides(ctx, source, pg)
}

// ConvertFile converts a file using a temporary [Renderer].
func ConvertFile(ctx context.Context, path string, pg *PageConfig, opts ...Option) (*Result, error) {
	var r PageRenderer
	if DetectKind(path) == KindHTML {
		rr, err := NewRenderer(opts...)
		if err != nil {
			return nil, err
		}
		defer rr.Close()
		r = rr
	}
	return NewConverter(r, opts...).ConvertFile(ctx, path, pg)
}

func (c config) extractorOrDefault() *SlideExtractor {
	if c.extractor != nil {
		return c.extractor
	}
	return &SlideExtractor{}
}
