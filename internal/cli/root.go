package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	format string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "chartctl",
		Short:        "Offline natal chart arithmetic: signs, houses, aspects",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if opts.format != "text" && opts.format != "json" {
				return fmt.Errorf("--output must be text or json, got %q", opts.format)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.format, "output", "o", "text", "output format: text or json")

	cmd.AddCommand(signCmd(opts))
	cmd.AddCommand(houseCmd(opts))
	cmd.AddCommand(aspectsCmd(opts))
	cmd.AddCommand(chartCmd(opts))
	return cmd
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
