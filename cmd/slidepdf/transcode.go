package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	slidepdf "github.com/porticus-lab/slidepdf"
)

func (a *app) transcodeCmd() *cobra.Command {
	var (
		to      string
		quality int
	)
	cmd := &cobra.Command{
		Use:   "transcode --to FORMAT <image>...",
		Short: "Convert images between formats",
		Long: `Convert images between PNG, JPEG, GIF, BMP and TIFF. WebP input is
accepted but cannot be written. Transparent areas become white when the
target format has no alpha channel.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := slidepdf.ParseFormat(to)
			if err != nil {
				return err
			}
			if err := a.ensureOutDir(); err != nil {
				return err
			}
			opts := slidepdf.TranscodeOptions{Quality: quality}

			failed := 0
			for _, in := range args {
				out := a.outputPath(in, format.Extension())
				if err := transcodeFile(in, out, format, opts); err != nil {
					failed++
					a.log.Error().Err(err).Str("file", in).Msg("transcode failed")
					continue
				}
				a.log.Info().Str("file", out).Str("format", string(format)).Msg("written")
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "png", "Target format: png, jpeg, gif, bmp, tiff")
	cmd.Flags().IntVar(&quality, "jpeg-quality", 92, "JPEG quality (1-100)")
	return cmd
}

func transcodeFile(in, out string, to slidepdf.Format, opts slidepdf.TranscodeOptions) error {
	if filepath.Clean(in) == filepath.Clean(out) {
		return fmt.Errorf("output would overwrite input %s", in)
	}
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	converted, err := slidepdf.Transcode(data, to, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(out, converted, 0o644)
}
