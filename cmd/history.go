package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/xeniter/romygo/app"
	"github.com/xeniter/romygo/config"
	"github.com/xeniter/romygo/core/history"
	"github.com/xeniter/romygo/pkg/export"
)

var (
	historySince string
	historyLimit int
	historyEvent string
	historyCSV   string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Query the recorded run history",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historySince, "since", "", "window start, RFC3339 or a duration like 24h")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "keep only the most recent records")
	historyCmd.Flags().StringVar(&historyEvent, "event", "", "filter by event type")
	historyCmd.Flags().StringVar(&historyCSV, "csv", "", "write CSV to this file instead of JSON to stdout")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	store, err := app.NewHistoryStore(cfg.History)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "close history: %v\n", err)
		}
	}()

	q := history.LogQuery{Event: historyEvent, Limit: historyLimit}
	if historySince != "" {
		start, err := parseSince(historySince)
		if err != nil {
			return fmt.Errorf("parse --since: %w", err)
		}
		q.Start = start
	}
	recs, err := store.Query(ctx, q)
	if err != nil {
		return err
	}
	if historyCSV != "" {
		f, err := os.Create(historyCSV)
		if err != nil {
			return err
		}
		if err := export.WriteCSV(f, recs); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d record(s) written to %s\n", len(recs), historyCSV)
		return nil
	}
	return export.WriteJSON(cmd.OutOrStdout(), recs)
}

// parseSince accepts a duration relative to now or an absolute RFC3339 time.
func parseSince(s string) (time.Time, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return time.Now().Add(-d), nil
	}
	return time.Parse(time.RFC3339, s)
}
