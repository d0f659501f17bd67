package cli

import (
	"fmt"

	"AstroChart/internal/services/astro"
	"AstroChart/pkg/util"

	"github.com/spf13/cobra"
)

func signCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sign <longitude>",
		Short: "Convert an ecliptic longitude to sign, degrees and minutes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lon, err := parseLongitude(args[0])
			if err != nil {
				return err
			}

			sp := astro.ToSignPosition(lon)
			if opts.format == "json" {
				return writeJSON(cmd.OutOrStdout(), sp)
			}
			fmt.Fprintln(cmd.OutOrStdout(), astro.FormatPosition(sp))
			return nil
		},
	}
}

func parseLongitude(s string) (float64, error) {
	lon, ok := util.ParseFloat(s)
	if !ok {
		return 0, fmt.Errorf("invalid longitude %q: want a finite number", s)
	}
	return lon, nil
}
