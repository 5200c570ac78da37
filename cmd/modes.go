package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/ecocommute/core/ecoscore"
)

func newModesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List transport modes and their emission factors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			engine, err := ecoscore.New(cfg.Scoring)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "MODE\tKG CO2E/KM\tSHARED")
			for _, e := range engine.Factors().Entries() {
				fmt.Fprintf(tw, "%s\t%.3f\t%t\n", e.Mode, e.KgPerKm, e.PerPerson)
			}
			fmt.Fprintf(tw, "\nreference\t%.3f\t\n", engine.ReferenceFactor())
			return tw.Flush()
		},
	}
}
