package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/stocksage/sage/internal/history"
	"github.com/stocksage/sage/internal/output"
)

// historyOptions holds dependencies for the history command.
type historyOptions struct {
	file      string
	sinceYear int
	jsonMode  bool
}

type historyFlags struct {
	file  string
	since int
	last  int
}

// newHistoryCmd creates the history command with the given options.
func newHistoryCmd(opts *historyOptions) *cobra.Command {
	var flags historyFlags

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the index history from a CSV file",
		Long: `Read the daily index history CSV (Date and Close columns) and show it
with a short summary. The file and starting year default to the config.

Examples:
  sage history
  sage history --file NEPSE.csv --since 2023
  sage history --last 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, opts, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "History CSV file (default from config)")
	cmd.Flags().IntVar(&flags.since, "since", 0, "Drop rows before this year (default from config)")
	cmd.Flags().IntVarP(&flags.last, "last", "n", 0, "Only list the last N days")
	cmd.SilenceUsage = true
	return cmd
}

type historyPointJSON struct {
	Date  string          `json:"date"`
	Close decimal.Decimal `json:"close"`
	Label string          `json:"label,omitempty"`
}

type historySummaryJSON struct {
	First     string          `json:"first"`
	Last      string          `json:"last"`
	Min       decimal.Decimal `json:"min"`
	Max       decimal.Decimal `json:"max"`
	Change    decimal.Decimal `json:"change"`
	ChangePct decimal.Decimal `json:"changePct"`
	Days      int             `json:"days"`
}

func runHistory(cmd *cobra.Command, opts *historyOptions, flags historyFlags) error {
	path := firstNonEmpty(flags.file, opts.file)
	if path == "" {
		return fmt.Errorf("no history file given\nPass --file or set history_file with: sage configure")
	}
	since := opts.sinceYear
	if flags.since > 0 {
		since = flags.since
	}

	series, err := history.Load(path, since)
	if err != nil {
		return err
	}

	points := series.Points
	labels := history.MonthLabels(points)
	if flags.last > 0 && flags.last < len(points) {
		offset := len(points) - flags.last
		points = points[offset:]
		labels = labels[offset:]
	}

	formatter := output.New(cmd.OutOrStdout(), opts.jsonMode)
	summary, ok := history.Summarize(series.Points)

	if opts.jsonMode {
		out := struct {
			File    string              `json:"file"`
			Points  []historyPointJSON  `json:"points"`
			Skipped int                 `json:"skipped"`
			Summary *historySummaryJSON `json:"summary,omitempty"`
		}{File: path, Points: make([]historyPointJSON, 0, len(points)), Skipped: series.Skipped}
		for i, p := range points {
			out.Points = append(out.Points, historyPointJSON{Date: p.Date.Format("2006-01-02"), Close: p.Close, Label: labels[i]})
		}
		if ok {
			out.Summary = &historySummaryJSON{
				First:     summary.First.Date.Format("2006-01-02"),
				Last:      summary.Last.Date.Format("2006-01-02"),
				Min:       summary.Min.Close,
				Max:       summary.Max.Close,
				Change:    summary.Change,
				ChangePct: summary.ChangePct,
				Days:      summary.Days,
			}
		}
		return formatter.Print(out)
	}

	if !ok {
		return formatter.Message("No history since %d in %s", since, path)
	}

	rows := make([][]string, 0, len(points))
	for i, p := range points {
		rows = append(rows, []string{labels[i], p.Date.Format("2006-01-02"), p.Close.StringFixed(2)})
	}
	if err := formatter.Table([]string{"Month", "Date", "Close"}, rows); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out)
	pairs := [][2]string{
		{"Range", fmt.Sprintf("%s to %s (%d days)", summary.First.Date.Format("2006-01-02"), summary.Last.Date.Format("2006-01-02"), summary.Days)},
		{"Low", fmt.Sprintf("%s on %s", summary.Min.Close.StringFixed(2), summary.Min.Date.Format("2006-01-02"))},
		{"High", fmt.Sprintf("%s on %s", summary.Max.Close.StringFixed(2), summary.Max.Date.Format("2006-01-02"))},
		{"Change", fmt.Sprintf("%s (%s%%)", signed(summary.Change), signed(summary.ChangePct))},
	}
	if series.Skipped > 0 {
		pairs = append(pairs, [2]string{"Skipped rows", fmt.Sprintf("%d", series.Skipped)})
	}
	return formatter.KeyValues(pairs)
}

func signed(d decimal.Decimal) string {
	s := d.StringFixed(2)
	if d.IsPositive() {
		return "+" + s
	}
	return s
}

func init() {
	opts := &historyOptions{}
	rootCmd.AddCommand(bindRuntime(newHistoryCmd(opts), func(rt *runtime) {
		opts.file = rt.cfg.HistoryFile
		opts.sinceYear = rt.cfg.HistorySinceYear
		opts.jsonMode = GetJSONMode()
	}))
}
