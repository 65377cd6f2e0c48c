package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	slidepdf "github.com/porticus-lab/slidepdf"
)

const pointsPerMM = 72 / 25.4

func (a *app) infoCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "info <file.pdf>...",
		Short: "Display PDF version, page count and page dimensions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			type report struct {
				File    string `json:"file"`
				Version string `json:"version"`
				Pages   int    `json:"pages"`
			}
			var reports []report
			out := cmd.OutOrStdout()

			for i, in := range args {
				data, err := os.ReadFile(in)
				if err != nil {
					return fmt.Errorf("opening %s: %w", in, err)
				}
				info, err := slidepdf.NewResult(data).Info()
				if err != nil {
					return fmt.Errorf("%s: %w", in, err)
				}
				if asJSON {
					reports = append(reports, report{File: in, Version: info.Version, Pages: info.Pages})
					continue
				}
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "File:    %s\n", in)
				fmt.Fprintf(out, "Version: PDF-%s\n", info.Version)
				fmt.Fprintf(out, "Pages:   %d\n", info.Pages)
				if len(info.Dims) > 0 {
					fmt.Fprintln(out)
					fmt.Fprintln(out, "Page dimensions:")
					for p, d := range info.Dims {
						fmt.Fprintf(out, "  Page %d: %.0f x %.0f pt (%.0f x %.0f mm)\n",
							p+1, d.Width, d.Height, d.Width/pointsPerMM, d.Height/pointsPerMM)
					}
				}
			}

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(reports); err != nil {
					return fmt.Errorf("encoding JSON: %w", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print a JSON report")
	return cmd
}
