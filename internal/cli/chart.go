package cli

import (
	"fmt"
	"sort"

	"AstroChart/internal/services/astro"

	"github.com/spf13/cobra"
)

func chartCmd(opts *options) *cobra.Command {
	var file string

	c := &cobra.Command{
		Use:   "chart",
		Short: "Assemble positions, cusps and aspects from raw longitudes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var in snapshotFile
			if err := readYAML(file, &in); err != nil {
				return err
			}
			snap, err := in.toSnapshot()
			if err != nil {
				return err
			}

			body := astro.AssembleChart(snap)
			if opts.format == "json" {
				return writeJSON(cmd.OutOrStdout(), body)
			}

			w := cmd.OutOrStdout()
			names := make([]string, 0, len(body.PlanetaryPositions))
			for name := range body.PlanetaryPositions {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				p := body.PlanetaryPositions[name]
				fmt.Fprintf(w, "%-16s %-18s %s\n", name, p.FormattedPosition, p.FormattedHouse)
			}
			for _, a := range body.Aspects {
				fmt.Fprintln(w, a.FullDescription)
			}
			if len(body.SkippedBodies) > 0 {
				fmt.Fprintf(w, "skipped: %v\n", body.SkippedBodies)
			}
			return nil
		},
	}

	c.Flags().StringVarP(&file, "file", "f", "", "YAML snapshot with bodies, cusps, ascendant and midheaven (required)")
	_ = c.MarkFlagRequired("file")
	return c
}
