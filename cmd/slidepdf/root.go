package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	slidepdf "github.com/porticus-lab/slidepdf"
	"github.com/porticus-lab/slidepdf/internal/config"
)

// app carries the settings shared by every subcommand.
type app struct {
	settings   config.Settings
	configPath string
	log        zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{settings: config.Defaults(), log: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "slidepdf",
		Short: "Convert HTML slide decks to PDF",
		Long: `slidepdf renders every slide of an HTML deck with headless Chrome and
assembles the results into a PDF, one slide per page.

Images (PNG, JPEG, GIF, BMP, TIFF, WebP) and plain text files can be
converted too, and several outputs can be merged into one document.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	s := &a.settings
	f := root.PersistentFlags()
	f.StringVar(&a.configPath, "config", os.Getenv(config.EnvConfig), "YAML or JSON config file")
	f.StringVar(&s.Format, "format", s.Format, "Page format: a3, a4, a5, letter, legal, tabloid")
	f.StringVar(&s.Orientation, "orientation", s.Orientation, "Page orientation: portrait or landscape")
	f.Float64Var(&s.Quality, "quality", s.Quality, "Render scale factor for slides")
	f.Float64Var(&s.Margin, "margin", s.Margin, "Page margin in millimeters")
	f.BoolVar(&s.Lossless, "lossless", s.Lossless, "Embed rendered slides as PNG instead of JPEG")
	f.StringVar(&s.Title, "title", s.Title, "Document title")
	f.StringVar(&s.Author, "author", s.Author, "Document author")
	f.StringVar(&s.ChromePath, "chrome", s.ChromePath, "Chrome or Chromium executable (env "+config.EnvChrome+")")
	f.BoolVar(&s.NoSandbox, "no-sandbox", s.NoSandbox, "Disable the Chrome sandbox (needed as root)")
	f.BoolVar(&s.AutoDownload, "auto-download", s.AutoDownload, "Download Chromium when none is installed")
	f.DurationVar(&s.Timeout, "timeout", s.Timeout, "Maximum time to render one slide")
	f.DurationVar(&s.Settle, "settle", s.Settle, "Wait this long after load before capturing")
	f.StringVarP(&s.OutDir, "out-dir", "o", s.OutDir, "Output directory (default: next to each input)")
	f.BoolVarP(&s.Verbose, "verbose", "v", s.Verbose, "Verbose logging")

	root.AddCommand(
		a.slidesCmd(),
		a.convertCmd(),
		a.transcodeCmd(),
		a.infoCmd(),
	)
	return root
}

// setup merges the config file into the flag values and configures logging.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.configPath != "" {
		fc, err := config.Load(a.configPath)
		if err != nil {
			return fmt.Errorf("loading config %s: %w", a.configPath, err)
		}
		config.Apply(&a.settings, fc, cmd.Flags().Changed)
	}

	level := zerolog.InfoLevel
	if a.settings.Verbose {
		level = zerolog.DebugLevel
	}
	a.log = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()
	return nil
}

// newRenderer starts a browser with the configured options.
func (a *app) newRenderer() (*slidepdf.Renderer, error) {
	opts := append(a.settings.RendererOptions(), slidepdf.WithLogger(a.log))
	r, err := slidepdf.NewRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("starting browser: %w (install Chrome, set --chrome, or pass --auto-download)", err)
	}
	return r, nil
}

// outputPath places the converted form of in, with extension ext, in the
// configured output directory or next to in.
func (a *app) outputPath(in, ext string) string {
	name := slidepdf.OutputName(filepath.Base(in), ext)
	if a.settings.OutDir == "" {
		return filepath.Join(filepath.Dir(in), name)
	}
	return filepath.Join(a.settings.OutDir, name)
}

func (a *app) ensureOutDir() error {
	if a.settings.OutDir == "" {
		return nil
	}
	if err := os.MkdirAll(a.settings.OutDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return nil
}
