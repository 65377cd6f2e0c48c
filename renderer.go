package slidepdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

// PageRenderer rasterizes a complete HTML document into an encoded bitmap.
//
// scale is the device scale factor; the layout width is fixed by the
// implementation so that every page of a document has the same geometry.
type PageRenderer interface {
	Render(ctx context.Context, html string, scale float64) ([]byte, error)
}

// Renderer is a [PageRenderer] backed by headless Chrome.
//
// A Renderer manages a browser instance that is reused across renders.
// It is safe for concurrent use, though callers converting a deck render
// one slide at a time.
//
// Call [Renderer.Close] when the Renderer is no longer needed to release
// browser resources.
type Renderer struct {
	cfg           config
	log           zerolog.Logger
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// NewRenderer starts a headless browser with the given options.
// The caller must call [Renderer.Close] when finished.
func NewRenderer(opts ...Option) (*Renderer, error) {
	cfg := newConfig(opts)

	if cfg.chromePath == "" && cfg.autoDownload {
		path, err := resolveBrowser()
		if err != nil {
			return nil, err
		}
		cfg.chromePath = path
	}

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("headless", cfg.headless),
	)
	if cfg.chromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(cfg.chromePath))
	}
	if cfg.noSandbox {
		allocOpts = append(allocOpts, chromedp.Flag("no-sandbox", true))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser eagerly so errors surface at creation time.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("slidepdf: starting browser: %w", err)
	}

	log := cfg.logger.With().Str("component", "renderer").Logger()
	log.Debug().Str("chrome", cfg.chromePath).Int("width", cfg.width).Msg("browser started")

	return &Renderer{
		cfg:           cfg,
		log:           log,
		allocCtx:      allocCtx,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

// Close releases all resources held by the Renderer, including the
// browser process. Close is idempotent.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	r.browserCancel()
	r.allocCancel()
	return nil
}

// Render lays html out at the configured viewport width and returns a PNG of
// the full page. A non-positive scale renders at 1.
func (r *Renderer) Render(ctx context.Context, html string, scale float64) ([]byte, error) {
	if err := r.checkClosed(); err != nil {
		return nil, err
	}
	if scale <= 0 {
		scale = 1
	}

	f, err := os.CreateTemp(r.cfg.baseDir, ".slidepdf-*.html")
	if err != nil {
		return nil, fmt.Errorf("slidepdf: creating temp file: %w", err)
	}
	name := f.Name()
	defer os.Remove(name)

	if _, err := f.WriteString(html); err != nil {
		f.Close()
		return nil, fmt.Errorf("slidepdf: writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("slidepdf: closing temp file: %w", err)
	}

	abs, err := filepath.Abs(name)
	if err != nil {
		return nil, fmt.Errorf("slidepdf: resolving path: %w", err)
	}
	return r.capture(ctx, fileURL(abs), scale)
}

// capture navigates a fresh tab to targetURL and screenshots the whole page.
func (r *Renderer) capture(ctx context.Context, targetURL string, scale float64) ([]byte, error) {
	if r.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.timeout)
		defer cancel()
	}

	tabCtx, tabCancel := chromedp.NewContext(r.browserCtx)
	defer tabCancel()
	// The tab lives under the browser context; tie it to the caller's too.
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	start := time.Now()
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(r.cfg.width), int64(r.cfg.height), chromedp.EmulateScale(scale)),
	}
	if bg := r.cfg.background; bg != nil {
		tasks = append(tasks, chromedp.ActionFunc(func(ctx context.Context) error {
			return emulation.SetDefaultBackgroundColorOverride().
				WithColor(&cdp.RGBA{R: int64(bg.R), G: int64(bg.G), B: int64(bg.B), A: float64(bg.A) / 255}).
				Do(ctx)
		}))
	}
	tasks = append(tasks,
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if r.cfg.settle > 0 {
		tasks = append(tasks, chromedp.Sleep(r.cfg.settle))
	}

	var buf []byte
	// Quality 100 makes chromedp capture PNG.
	tasks = append(tasks, chromedp.FullScreenshot(&buf, 100))

	if err := chromedp.Run(tabCtx, tasks); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("slidepdf: render failed: %w", ctxErr)
		}
		return nil, fmt.Errorf("slidepdf: render failed: %w", err)
	}

	r.log.Debug().
		Float64("scale", scale).
		Int("bytes", len(buf)).
		Dur("elapsed", time.Since(start)).
		Msg("page captured")
	return buf, nil
}

func (r *Renderer) checkClosed() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	return nil
}
