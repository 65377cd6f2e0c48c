// Package config loads slidepdf settings from flags, environment variables
// and an optional YAML or JSON file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	slidepdf "github.com/porticus-lab/slidepdf"
	yaml "gopkg.in/yaml.v3"
)

// Environment variables that provide flag defaults.
const (
	EnvConfig = "SLIDEPDF_CONFIG"
	EnvChrome = "SLIDEPDF_CHROME"
)

// Settings are the effective CLI settings after flags, environment and the
// config file have been combined.
type Settings struct {
	Format       string
	Orientation  string
	Quality      float64
	Margin       float64
	Lossless     bool
	Title        string
	Author       string
	ChromePath   string
	NoSandbox    bool
	AutoDownload bool
	Timeout      time.Duration
	Settle       time.Duration
	OutDir       string
	Verbose      bool

	MarkerClass      string
	ActiveClass      string
	HiddenClasses    []string
	VideoPlaceholder string
}

// Defaults returns the settings used when nothing else is configured.
func Defaults() Settings {
	d := slidepdf.DefaultPageConfig()
	o := slidepdf.DefaultOverrides()
	return Settings{
		Format:           "a4",
		Orientation:      "portrait",
		Quality:          d.Quality,
		Margin:           d.Margin,
		Title:            d.Title,
		ChromePath:       os.Getenv(EnvChrome),
		Timeout:          30 * time.Second,
		MarkerClass:      slidepdf.DefaultMarkerClass,
		ActiveClass:      slidepdf.DefaultActiveClass,
		HiddenClasses:    o.HiddenClasses,
		VideoPlaceholder: o.VideoPlaceholder,
	}
}

// File is the configuration file schema.
type File struct {
	Page struct {
		Format      string   `yaml:"format" json:"format"`
		Orientation string   `yaml:"orientation" json:"orientation"`
		Quality     float64  `yaml:"quality" json:"quality"`
		Margin      *float64 `yaml:"margin" json:"margin"`
		Lossless    bool     `yaml:"lossless" json:"lossless"`
		Title       string   `yaml:"title" json:"title"`
		Author      string   `yaml:"author" json:"author"`
	} `yaml:"page" json:"page"`

	Chrome struct {
		Path         string        `yaml:"path" json:"path"`
		NoSandbox    bool          `yaml:"noSandbox" json:"noSandbox"`
		AutoDownload bool          `yaml:"autoDownload" json:"autoDownload"`
		Timeout      time.Duration `yaml:"timeout" json:"timeout"`
		Settle       time.Duration `yaml:"settle" json:"settle"`
	} `yaml:"chrome" json:"chrome"`

	Slides struct {
		Marker           string   `yaml:"marker" json:"marker"`
		Active           string   `yaml:"active" json:"active"`
		Hidden           []string `yaml:"hidden" json:"hidden"`
		VideoPlaceholder string   `yaml:"videoPlaceholder" json:"videoPlaceholder"`
	} `yaml:"slides" json:"slides"`

	OutDir  string `yaml:"outDir" json:"outDir"`
	Verbose bool   `yaml:"verbose" json:"verbose"`
}

// Load reads YAML or JSON into File, choosing the parser by extension.
func Load(path string) (File, error) {
	var f File
	b, err := os.ReadFile(path)
	if err != nil {
		return f, err
	}
	switch filepath.Ext(path) {
	case ".json":
		if err := json.Unmarshal(b, &f); err != nil {
			return f, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &f); err != nil {
			return f, fmt.Errorf("parse yaml: %w", err)
		}
	}
	return f, nil
}

// Apply overlays values from f onto s for every setting whose flag was not
// given explicitly. changed reports whether the named flag was set on the
// command line.
func Apply(s *Settings, f File, changed func(flag string) bool) {
	set := func(flag string, apply func()) {
		if !changed(flag) {
			apply()
		}
	}
	if f.Page.Format != "" {
		set("format", func() { s.Format = f.Page.Format })
	}
	if f.Page.Orientation != "" {
		set("orientation", func() { s.Orientation = f.Page.Orientation })
	}
	if f.Page.Quality > 0 {
		set("quality", func() { s.Quality = f.Page.Quality })
	}
	if f.Page.Margin != nil {
		set("margin", func() { s.Margin = *f.Page.Margin })
	}
	if f.Page.Lossless {
		set("lossless", func() { s.Lossless = true })
	}
	if f.Page.Title != "" {
		set("title", func() { s.Title = f.Page.Title })
	}
	if f.Page.Author != "" {
		set("author", func() { s.Author = f.Page.Author })
	}
	if f.Chrome.Path != "" {
		set("chrome", func() { s.ChromePath = f.Chrome.Path })
	}
	if f.Chrome.NoSandbox {
		set("no-sandbox", func() { s.NoSandbox = true })
	}
	if f.Chrome.AutoDownload {
		set("auto-download", func() { s.AutoDownload = true })
	}
	if f.Chrome.Timeout > 0 {
		set("timeout", func() { s.Timeout = f.Chrome.Timeout })
	}
	if f.Chrome.Settle > 0 {
		set("settle", func() { s.Settle = f.Chrome.Settle })
	}
	if f.OutDir != "" {
		set("out-dir", func() { s.OutDir = f.OutDir })
	}
	if f.Verbose {
		set("verbose", func() { s.Verbose = true })
	}
	// Slide conventions have no flags.
	if f.Slides.Marker != "" {
		s.MarkerClass = f.Slides.Marker
	}
	if f.Slides.Active != "" {
		s.ActiveClass = f.Slides.Active
	}
	if f.Slides.Hidden != nil {
		s.HiddenClasses = f.Slides.Hidden
	}
	if f.Slides.VideoPlaceholder != "" {
		s.VideoPlaceholder = f.Slides.VideoPlaceholder
	}
}

// PageConfig converts the page settings.
func (s Settings) PageConfig() (*slidepdf.PageConfig, error) {
	size, err := slidepdf.ParsePageSize(s.Format)
	if err != nil {
		return nil, err
	}
	orientation, err := slidepdf.ParseOrientation(s.Orientation)
	if err != nil {
		return nil, err
	}
	if s.Quality <= 0 {
		return nil, fmt.Errorf("%w: quality must be positive, got %v", slidepdf.ErrInvalidConfig, s.Quality)
	}
	pg := &slidepdf.PageConfig{
		Size:        size,
		Orientation: orientation,
		Margin:      s.Margin,
		Quality:     s.Quality,
		Lossless:    s.Lossless,
		Title:       s.Title,
		Author:      s.Author,
	}
	if err := pg.Validate(); err != nil {
		return nil, err
	}
	return pg, nil
}

// Extractor builds the slide extractor described by the settings.
func (s Settings) Extractor() *slidepdf.SlideExtractor {
	o := slidepdf.DefaultOverrides()
	o.HiddenClasses = s.HiddenClasses
	if s.VideoPlaceholder != "" {
		o.VideoPlaceholder = s.VideoPlaceholder
	}
	return &slidepdf.SlideExtractor{
		MarkerClass: s.MarkerClass,
		ActiveClass: s.ActiveClass,
		Overrides:   &o,
	}
}

// RendererOptions returns the browser options described by the settings.
func (s Settings) RendererOptions() []slidepdf.Option {
	opts := []slidepdf.Option{
		slidepdf.WithTimeout(s.Timeout),
		slidepdf.WithSettleDelay(s.Settle),
	}
	if s.ChromePath != "" {
		opts = append(opts, slidepdf.WithChromePath(s.ChromePath))
	}
	if s.NoSandbox {
		opts = append(opts, slidepdf.WithNoSandbox())
	}
	if s.AutoDownload {
		opts = append(opts, slidepdf.WithAutoDownload())
	}
	return opts
}
