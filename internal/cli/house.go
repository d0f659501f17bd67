package cli

import (
	"fmt"

	"AstroChart/internal/services/astro"
	"AstroChart/pkg/util"

	"github.com/spf13/cobra"
)

func houseCmd(opts *options) *cobra.Command {
	var cusps string

	c := &cobra.Command{
		Use:   "house <longitude>",
		Short: "Find the house holding a longitude for 12 house cusps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lon, err := parseLongitude(args[0])
			if err != nil {
				return err
			}
			cs, err := parseCusps(cusps)
			if err != nil {
				return err
			}

			house := astro.LocateHouse(lon, cs)
			if opts.format == "json" {
				return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
					"longitude": lon,
					"house":     house,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), astro.FormatHouse(house))
			return nil
		},
	}

	c.Flags().StringVar(&cusps, "cusps", "", "12 comma-separated cusp longitudes in house order (required)")
	_ = c.MarkFlagRequired("cusps")
	return c
}

func parseCusps(s string) ([]float64, error) {
	cusps, err := util.ParseFloatList(s)
	if err != nil {
		return nil, fmt.Errorf("invalid cusps: %w", err)
	}
	if len(cusps) != 12 {
		return nil, fmt.Errorf("expected 12 cusps, got %d", len(cusps))
	}
	return cusps, nil
}
