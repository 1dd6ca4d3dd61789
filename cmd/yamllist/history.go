package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"mercator-hq/yamllist/pkg/cli"
	"mercator-hq/yamllist/pkg/config"
	"mercator-hq/yamllist/pkg/history"
)

var historyFlags struct {
	since   string
	until   string
	outcome string
	source  string
	limit   int
	offset  int
	format  string

	days       int
	maxRecords int64
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and prune invocation history",
	Long: `Inspect and prune the history of list invocations.

History is recorded when history.enabled is set in the configuration. Use
the sqlite backend to keep history across runs.`,
}

var historyQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "List recorded invocations",
	Long: `List recorded invocations, newest first.

Time bounds accept RFC 3339 timestamps or a duration before now.

Examples:
  # Failures in the last day
  yamllist history query --outcome error --since 24h

  # Export as CSV
  yamllist history query --limit 1000 --format csv > history.csv`,
	RunE: runHistoryQuery,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old invocation records",
	Long: `Apply the retention policy once: delete records older than the retention
period, then trim to the maximum record count.

Flags override history.retention for this run.

Examples:
  yamllist history prune
  yamllist history prune --days 7 --max-records 10000`,
	RunE: runHistoryPrune,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyQueryCmd)
	historyCmd.AddCommand(historyPruneCmd)

	f := historyQueryCmd.Flags()
	f.StringVar(&historyFlags.since, "since", "", "only records at or after this time (RFC 3339 or duration)")
	f.StringVar(&historyFlags.until, "until", "", "only records at or before this time (RFC 3339 or duration)")
	f.StringVar(&historyFlags.outcome, "outcome", "", "filter by outcome: success, error")
	f.StringVar(&historyFlags.source, "source", "", "filter by document source")
	f.IntVar(&historyFlags.limit, "limit", history.DefaultQueryLimit, "maximum records to return")
	f.IntVar(&historyFlags.offset, "offset", 0, "records to skip")
	f.StringVarP(&historyFlags.format, "format", "f", "text", "output format: text, json, csv")

	historyPruneCmd.Flags().IntVar(&historyFlags.days, "days", 0, "retention period in days (0 uses config, -1 keeps forever)")
	historyPruneCmd.Flags().Int64Var(&historyFlags.maxRecords, "max-records", 0, "maximum records to keep (0 uses config)")
}

// recordTable implements cli.Table for history records.
type recordTable []*history.Record

func (t recordTable) Header() []string {
	return []string{"TIME", "OUTCOME", "SOURCE", "ENGINE", "BYTES", "RESULT"}
}

func (t recordTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, r := range t {
		result := r.Result
		if r.Outcome == history.OutcomeError {
			result = fmt.Sprintf("[%s] %s", r.ErrorKind, r.ErrorMessage)
		}
		rows = append(rows, []string{
			r.Timestamp.Format(time.RFC3339),
			r.Outcome,
			r.Source,
			r.Engine,
			strconv.Itoa(r.InputBytes),
			result,
		})
	}
	return rows
}

func openHistory(cfg *config.Config) (history.Storage, error) {
	if !cfg.History.Enabled {
		return nil, cli.NewConfigError("history.enabled", "invocation history is disabled")
	}
	store, err := history.NewStorage(cfg.History)
	if err != nil {
		return nil, cli.NewCommandError("history", err)
	}
	return store, nil
}

func runHistoryQuery(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(historyFlags.format)
	if err != nil {
		return cli.NewConfigError("format", err.Error())
	}

	q := history.Query{
		Outcome: historyFlags.outcome,
		Source:  historyFlags.source,
		Limit:   historyFlags.limit,
		Offset:  historyFlags.offset,
	}
	if q.Since, err = parseTimeFlag(historyFlags.since); err != nil {
		return cli.NewConfigError("since", err.Error())
	}
	if q.Until, err = parseTimeFlag(historyFlags.until); err != nil {
		return cli.NewConfigError("until", err.Error())
	}

	store, err := openHistory(currentConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Query(commandContext(cmd), q)
	if err != nil {
		return cli.NewCommandError("history query", err)
	}

	if format == cli.FormatJSON {
		if records == nil {
			records = []*history.Record{}
		}
		return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), records)
	}
	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), recordTable(records))
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	cfg := currentConfig()
	retention := cfg.History.Retention
	if historyFlags.days != 0 {
		retention.Days = historyFlags.days
	}
	if historyFlags.maxRecords != 0 {
		retention.MaxRecords = historyFlags.maxRecords
	}

	store, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	deleted, err := history.NewPruner(store, retention, nil).Prune(commandContext(cmd))
	if err != nil {
		return cli.NewCommandError("history prune", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Pruned %d records\n", deleted)
	return nil
}

// parseTimeFlag accepts an RFC 3339 timestamp or a duration before now.
func parseTimeFlag(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		return time.Now().Add(-d), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected RFC 3339 time or duration, got %q", s)
	}
	return t, nil
}
