package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	slidepdf "github.com/porticus-lab/slidepdf"
)

func (a *app) convertCmd() *cobra.Command {
	var (
		merge string
		only  string
		whole bool
	)
	cmd := &cobra.Command{
		Use:   "convert <file>...",
		Short: "Convert decks, images and text files to PDF",
		Long: `Convert each input to a PDF written next to it, or into --out-dir.

HTML files are converted slide by slide. Inputs that would map to the same
output file (a.png and a.txt, or decks with one name under --out-dir) keep
their own files: later ones are written as a-2.pdf, a-3.pdf and so on. Images are placed on a single
page and text files are laid out over as many pages as needed. A file
that fails does not stop the others; the command exits non-zero if any
file failed.`,
		Example: `  slidepdf convert deck.html
  slidepdf convert -o out --format letter --orientation landscape *.html
  slidepdf convert --merge all.pdf intro.html photo.png notes.txt
  slidepdf convert --title "Quarterly Review" --merge out/ q1.html q2.html`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pg, err := a.settings.PageConfig()
			if err != nil {
				return err
			}
			if err := a.ensureOutDir(); err != nil {
				return err
			}

			var renderer slidepdf.PageRenderer
			if needsBrowser(args) {
				r, err := a.newRenderer()
				if err != nil {
					return err
				}
				defer r.Close()
				renderer = r
			}

			opts := []slidepdf.Option{
				slidepdf.WithLogger(a.log),
				slidepdf.WithSlideExtractor(a.settings.Extractor()),
				slidepdf.WithSlideRange(only),
				slidepdf.WithProgress(func(done, total int) {
					a.log.Info().Msgf("rendered slide %d/%d", done, total)
				}),
			}
			if whole {
				opts = append(opts, slidepdf.WithWholeDocumentFallback())
			}
			conv := slidepdf.NewConverter(renderer, opts...)

			var written []*slidepdf.Result
			claimed := make(map[string]bool)
			failed := 0
			for _, br := range conv.ConvertBatch(cmd.Context(), args, pg) {
				if br.Err != nil {
					failed++
					a.log.Error().Err(br.Err).Str("file", br.Path).Msg("conversion failed")
					continue
				}
				out := claim(claimed, a.outputPath(br.Path, ".pdf"))
				if err := br.Result.WriteToFile(out, 0o644); err != nil {
					failed++
					a.log.Error().Err(err).Str("file", out).Msg("writing output")
					continue
				}
				a.log.Info().Str("file", out).Int("bytes", br.Result.Len()).Msg("written")
				fmt.Fprintln(cmd.OutOrStdout(), out)
				written = append(written, br.Result)
			}

			if merge != "" && len(written) > 0 {
				if fi, err := os.Stat(merge); err == nil && fi.IsDir() {
					name := slidepdf.SanitizeFilename(a.settings.Title)
					if name == "" {
						name = "presentation"
					}
					merge = filepath.Join(merge, name+".pdf")
				}
				merged, err := slidepdf.Merge(written...)
				if err != nil {
					return err
				}
				if err := merged.WriteToFile(merge, 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", merge, err)
				}
				a.log.Info().Str("file", merge).Int("documents", len(written)).Msg("merged")
				fmt.Fprintln(cmd.OutOrStdout(), merge)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&merge, "merge", "", "Also merge all converted files into this PDF (a directory names it after --title)")
	cmd.Flags().StringVarP(&only, "pages", "p", "", `Slides to convert from each deck, e.g. "1-3,5" (default: all)`)
	cmd.Flags().BoolVar(&whole, "whole-page", false, "Render HTML files without slides as a single page")
	return cmd
}

// needsBrowser reports whether any input is HTML.
func needsBrowser(paths []string) bool {
	for _, p := range paths {
		if slidepdf.DetectKind(p) == slidepdf.KindHTML {
			return true
		}
	}
	return false
}

// claim reserves an output path that no earlier input of this run used,
// adding a numeric suffix on collision.
func claim(taken map[string]bool, out string) string {
	path := out
	for n := 2; taken[path]; n++ {
		path = strings.TrimSuffix(out, ".pdf") + "-" + strconv.Itoa(n) + ".pdf"
	}
	taken[path] = true
	return path
}
