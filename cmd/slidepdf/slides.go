package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	slidepdf "github.com/porticus-lab/slidepdf"
)

func (a *app) slidesCmd() *cobra.Command {
	var (
		dump   string
		only   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "slides <deck.html>",
		Short: "List the slides of a deck",
		Long: `List the slides found in a deck with their titles.

With --dump, every slide is also written as a standalone HTML document,
which is exactly what gets rendered during conversion.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := slidepdf.LoadSource(args[0])
			if err != nil {
				return err
			}
			slides := a.settings.Extractor().Extract(src)
			if len(slides) == 0 {
				return fmt.Errorf("%s: %w", args[0], slidepdf.ErrNoSlides)
			}
			if slides, err = slidepdf.SelectSlides(slides, only); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				type entry struct {
					Slide int    `json:"slide"`
					Title string `json:"title"`
				}
				entries := make([]entry, len(slides))
				for i, s := range slides {
					entries[i] = entry{Slide: s.Index + 1, Title: s.Title}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(entries); err != nil {
					return fmt.Errorf("encoding JSON: %w", err)
				}
			} else {
				for _, s := range slides {
					fmt.Fprintf(out, "%3d  %s\n", s.Index+1, s.Title)
				}
			}

			if dump == "" {
				return nil
			}
			if err := os.MkdirAll(dump, 0o755); err != nil {
				return fmt.Errorf("creating dump directory: %w", err)
			}
			for _, s := range slides {
				name := filepath.Join(dump, fmt.Sprintf("slide-%03d.html", s.Index+1))
				if err := os.WriteFile(name, []byte(s.Standalone), 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", name, err)
				}
				a.log.Debug().Str("file", name).Str("title", s.Title).Msg("slide written")
			}
			a.log.Info().Int("slides", len(slides)).Str("dir", dump).Msg("slides dumped")
			return nil
		},
	}
	cmd.Flags().StringVar(&dump, "dump", "", "Write each slide as a standalone HTML file into this directory")
	cmd.Flags().StringVarP(&only, "pages", "p", "", `Slides to include, e.g. "1", "1-5", "1,3,5" (default: all)`)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the slide list as JSON")
	return cmd
}
