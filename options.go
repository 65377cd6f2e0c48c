package slidepdf

import (
	"image/color"
	"time"

	"github.com/rs/zerolog"
)

// Default viewport used to rasterize slides, in CSS pixels. Every slide is
// laid out at the same width so pages look alike.
const (
	DefaultViewportWidth  = 1200
	DefaultViewportHeight = 800
)

// ProgressFunc is called after each unit of work with the number of
// completed units and the total.
type ProgressFunc func(done, total int)

// config holds internal configuration for a Renderer and a Converter.
type config struct {
	chromePath   string
	timeout      time.Duration
	noSandbox    bool
	headless     string
	autoDownload bool
	width        int
	height       int
	baseDir      string
	settle       time.Duration
	background   *color.RGBA

	logger        zerolog.Logger
	progress      ProgressFunc
	extractor     *SlideExtractor
	slideRange    string
	wholeDocument bool
}

func defaultConfig() config {
	return config{
		timeout:  30 * time.Second,
		headless: "new",
		width:    DefaultViewportWidth,
		height:   DefaultViewportHeight,
		logger:   zerolog.Nop(),
	}
}

func newConfig(opts []Option) config {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// Option configures a [Renderer] or a [Converter]. Options that do not apply
// to the value being built are ignored.
type Option func(*config)

// WithChromePath sets the path to the Chrome or Chromium executable.
// By default the library searches standard locations automatically.
func WithChromePath(path string) Option {
	return func(c *config) {
		c.chromePath = path
	}
}

// WithTimeout sets the maximum duration for rendering a single page.
// Defaults to 30 seconds. A zero or negative value disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithNoSandbox disables the Chrome sandbox. This is required when
// running as root, for example inside Docker containers.
func WithNoSandbox() Option {
	return func(c *config) {
		c.noSandbox = true
	}
}

// WithAutoDownload fetches a compatible Chromium build when no executable
// path is configured. The download is cached between runs.
func WithAutoDownload() Option {
	return func(c *config) {
		c.autoDownload = true
	}
}

// WithViewport sets the logical page width and the initial viewport height
// in CSS pixels. Non-positive values keep the defaults.
func WithViewport(width, height int) Option {
	return func(c *config) {
		if width > 0 {
			c.width = width
		}
		if height > 0 {
			c.height = height
		}
	}
}

// WithBaseDir writes documents into dir before rendering them, so that
// relative URLs such as stylesheet links resolve against it. Files converted
// with [Converter.ConvertFile] resolve against their own directory instead.
func WithBaseDir(dir string) Option {
	return func(c *config) {
		c.baseDir = dir
	}
}

// WithSettleDelay waits d after the document is ready before capturing,
// giving web fonts and transitions time to finish.
func WithSettleDelay(d time.Duration) Option {
	return func(c *config) {
		c.settle = d
	}
}

// WithBackground sets the color painted behind documents that do not
// define their own background.
func WithBackground(bg color.RGBA) Option {
	return func(c *config) {
		c.background = &bg
	}
}

// WithLogger routes diagnostic output to l. The default discards it.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithProgress registers fn to be called after every rendered slide.
func WithProgress(fn ProgressFunc) Option {
	return func(c *config) {
		c.progress = fn
	}
}

// WithSlideExtractor replaces the default slide conventions.
func WithSlideExtractor(e *SlideExtractor) Option {
	return func(c *config) {
		c.extractor = e
	}
}

// WithSlideRange limits deck conversions to the slides named by spec, such
// as "1-3,7". See [ParseRange].
func WithSlideRange(spec string) Option {
	return func(c *config) {
		c.slideRange = spec
	}
}

// WithWholeDocumentFallback makes [Converter.ConvertFile] render an HTML file
// without slide markers as a single page instead of failing with
// [ErrNoSlides].
func WithWholeDocumentFallback() Option {
	return func(c *config) {
		c.wholeDocument = true
	}
}
