package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/ecocommute/core/ecoscore"
	corehistory "github.com/kilianp07/ecocommute/core/history"
	_ "github.com/kilianp07/ecocommute/infra/history"
	"github.com/kilianp07/ecocommute/infra/logger"
	"github.com/kilianp07/ecocommute/jobs/backfill"
)

func newHistoryCmd(opts *options) *cobra.Command {
	c := &cobra.Command{
		Use:   "history",
		Short: "Inspect and backfill the score history",
	}
	c.AddCommand(newHistoryImportCmd(opts), newHistoryListCmd(opts))
	return c
}

func (o *options) openHistory() (corehistory.Store, *ecoscore.Engine, error) {
	cfg, err := o.load()
	if err != nil {
		return nil, nil, err
	}
	engine, err := ecoscore.New(cfg.Scoring)
	if err != nil {
		return nil, nil, err
	}
	if cfg.History.Type == "memory" {
		logger.New("cli").Warnf("history backend is memory, records are discarded on exit")
	}
	store, err := corehistory.NewStore(cfg.History.Module())
	if err != nil {
		return nil, nil, fmt.Errorf("history store: %w", err)
	}
	return store, engine, nil
}

func newHistoryImportCmd(opts *options) *cobra.Command {
	var at string
	c := &cobra.Command{
		Use:   "import <file|dir>...",
		Short: "Rescore exported CSV reports and add them to the history",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var o backfill.Options
			if at != "" {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("--at: %w", err)
				}
				o.At = t
			}
			o.Logger = logger.New("history-import")
			store, engine, err := opts.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()
			sum, err := backfill.Import(cmd.Context(), store, engine, args, o)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "files=%d imported=%d skipped=%d drifted=%d\n",
				sum.Files, sum.Imported, sum.Skipped, sum.Drifted)
			return err
		},
	}
	c.Flags().StringVar(&at, "at", "", "record time (RFC3339), defaults to each file's modification time")
	return c
}

func newHistoryListCmd(opts *options) *cobra.Command {
	var (
		start, end string
		session    string
		asJSON     bool
	)
	c := &cobra.Command{
		Use:   "list",
		Short: "List history records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := corehistory.Query{SessionID: session}
			var err error
			if q.Start, err = parseTime(start); err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			if q.End, err = parseTime(end); err != nil {
				return fmt.Errorf("--end: %w", err)
			}
			store, _, err := opts.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()
			recs, err := store.Query(cmd.Context(), q)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{"records": recs, "days": corehistory.Summarize(recs)})
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tSESSION\tLEGS\tDISTANCE_KM\tEMISSIONS_KG\tSCORE")
			for _, r := range recs {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\t%.3f\t%.1f\n",
					r.Time.Format(time.RFC3339), r.SessionID, r.Legs, r.DistanceKm, r.EmissionsKg, r.Score)
			}
			return tw.Flush()
		},
	}
	c.Flags().StringVar(&start, "start", "", "only records at or after this RFC3339 time")
	c.Flags().StringVar(&end, "end", "", "only records at or before this RFC3339 time")
	c.Flags().StringVar(&session, "session", "", "only records of this session")
	c.Flags().BoolVar(&asJSON, "json", false, "print records and daily summaries as JSON")
	return c
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}
