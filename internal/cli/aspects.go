package cli

import (
	"fmt"

	"AstroChart/internal/services/astro"

	"github.com/spf13/cobra"
)

func aspectsCmd(opts *options) *cobra.Command {
	var file string

	c := &cobra.Command{
		Use:   "aspects",
		Short: "Detect aspects between named longitudes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var in pointsFile
			if err := readYAML(file, &in); err != nil {
				return err
			}
			if err := in.check(); err != nil {
				return err
			}

			aspects := astro.DetectAspects(in.Points)
			if opts.format == "json" {
				return writeJSON(cmd.OutOrStdout(), aspects)
			}
			if len(aspects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no aspects")
				return nil
			}
			for _, a := range aspects {
				fmt.Fprintln(cmd.OutOrStdout(), a.FullDescription)
			}
			return nil
		},
	}

	c.Flags().StringVarP(&file, "file", "f", "", "YAML file with a points list (required)")
	_ = c.MarkFlagRequired("file")
	return c
}
