// Package cmd implements the ecocommute command line.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/ecocommute/config"
)

// Execute runs the CLI.
func Execute() error { return newRootCmd().Execute() }

type options struct {
	cfgPath string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "ecocommute",
		Short:        "Commute Eco-Score engine and service",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.cfgPath, "config", "c", "", "configuration file (yaml or json)")
	root.AddCommand(
		newServeCmd(opts),
		newScoreCmd(opts),
		newModesCmd(opts),
		newHistoryCmd(opts),
	)
	return root
}

func (o *options) load() (*config.Config, error) {
	cfg, err := config.Load(o.cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
