package slidepdf

import (
	"fmt"
	"strings"
	"time"
)

// PageSize represents paper dimensions in millimetres.
type PageSize struct {
	Width  float64 // Width in millimetres.
	Height float64 // Height in millimetres.
}

// Standard paper sizes.
var (
	A3      = PageSize{Width: 297, Height: 420}
	A4      = PageSize{Width: 210, Height: 297}
	A5      = PageSize{Width: 148, Height: 210}
	Letter  = PageSize{Width: 215.9, Height: 279.4}
	Legal   = PageSize{Width: 215.9, Height: 355.6}
	Tabloid = PageSize{Width: 279.4, Height: 431.8}
)

var namedSizes = map[string]PageSize{
	"a3":      A3,
	"a4":      A4,
	"a5":      A5,
	"letter":  Letter,
	"legal":   Legal,
	"tabloid": Tabloid,
}

// ParsePageSize returns the standard paper size called name.
// Matching is case-insensitive.
func ParsePageSize(name string) (PageSize, error) {
	s, ok := namedSizes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return PageSize{}, fmt.Errorf("%w: unknown page format %q", ErrInvalidConfig, name)
	}
	return s, nil
}

// Orientation represents the page orientation.
type Orientation int

const (
	// Portrait is the default vertical orientation.
	Portrait Orientation = iota
	// Landscape rotates the page to horizontal orientation.
	Landscape
)

func (o Orientation) String() string {
	if o == Landscape {
		return "landscape"
	}
	return "portrait"
}

// ParseOrientation parses "portrait" or "landscape" (or "p" / "l").
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "p", "portrait":
		return Portrait, nil
	case "l", "landscape":
		return Landscape, nil
	}
	return Portrait, fmt.Errorf("%w: unknown orientation %q", ErrInvalidConfig, s)
}

// PageConfig controls the PDF output parameters.
//
// A nil PageConfig uses [DefaultPageConfig]. For a non-nil PageConfig,
// zero-value Size, Quality, JPEGQuality, Title and Creator fields fall back to
// the defaults. Margin is taken as given, so zero means no margin.
type PageConfig struct {
	// Size specifies the paper size. Defaults to A4.
	Size PageSize

	// Orientation specifies portrait or landscape. Defaults to Portrait.
	Orientation Orientation

	// Margin is applied on all four sides, in millimetres.
	Margin float64

	// Quality is the device scale factor used when rasterizing HTML.
	// Higher values give sharper pages and larger files. Defaults to 2.
	Quality float64

	// Lossless embeds rendered pages as PNG instead of JPEG.
	Lossless bool

	// JPEGQuality is used for rendered pages when Lossless is false.
	// Defaults to 95.
	JPEGQuality int

	// Document metadata.
	Title   string
	Author  string
	Subject string
	Creator string

	// CreationDate pins the document timestamps. Zero means now.
	CreationDate time.Time
}

// DefaultPageConfig returns a PageConfig with sensible defaults.
func DefaultPageConfig() PageConfig {
	return PageConfig{
		Size:        A4,
		Orientation: Portrait,
		Margin:      10,
		Quality:     2,
		JPEGQuality: 95,
		Title:       "Presentation",
		Creator:     "slidepdf",
	}
}

// resolved returns a PageConfig with zero values replaced by defaults.
func (p *PageConfig) resolved() PageConfig {
	d := DefaultPageConfig()
	if p == nil {
		return d
	}
	r := *p
	if r.Size == (PageSize{}) {
		r.Size = d.Size
	}
	if r.Quality <= 0 {
		r.Quality = d.Quality
	}
	if r.JPEGQuality <= 0 || r.JPEGQuality > 100 {
		r.JPEGQuality = d.JPEGQuality
	}
	if r.Title == "" {
		r.Title = d.Title
	}
	if r.Creator == "" {
		r.Creator = d.Creator
	}
	return r
}

// Validate reports whether the configuration leaves a printable area.
func (p *PageConfig) Validate() error {
	r := p.resolved()
	if r.Size.Width <= 0 || r.Size.Height <= 0 {
		return fmt.Errorf("%w: page size %vx%v mm", ErrInvalidConfig, r.Size.Width, r.Size.Height)
	}
	if r.Margin < 0 {
		return fmt.Errorf("%w: negative margin %v", ErrInvalidConfig, r.Margin)
	}
	w, h := r.dimensions()
	if 2*r.Margin >= w || 2*r.Margin >= h {
		return fmt.Errorf("%w: margin %v mm leaves no printable area on %vx%v mm", ErrInvalidConfig, r.Margin, w, h)
	}
	return nil
}

// dimensions returns the page width and height in millimetres,
// accounting for orientation.
func (p *PageConfig) dimensions() (width, height float64) {
	r := p.resolved()
	if r.Orientation == Landscape {
		return r.Size.Height, r.Size.Width
	}
	return r.Size.Width, r.Size.Height
}
