package cmd

import (
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stocksage/sage/internal/api"
	"github.com/stocksage/sage/internal/output"
	"github.com/stocksage/sage/pkg/sageapi"
)

// predictOptions holds dependencies for the returns, predict and analyze commands.
type predictOptions struct {
	client   *api.Client
	jsonMode bool
	timeout  time.Duration
}

// newReturnsCmd creates the returns command with the given options.
func newReturnsCmd(opts *predictOptions) *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "returns",
		Short: "Show expected stock returns",
		Long: `Show predicted prices and expected returns, best first.

Examples:
  sage returns
  sage returns --top 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReturns(cmd, opts, top)
		},
	}

	cmd.Flags().IntVarP(&top, "top", "n", 0, "Only show the N highest expected returns")
	cmd.SilenceUsage = true
	return cmd
}

func runReturns(cmd *cobra.Command, opts *predictOptions, top int) error {
	ctx, cancel := commandContext(cmd, opts.timeout)
	defer cancel()

	returns, err := opts.client.StockReturns(ctx)
	if err != nil {
		return err
	}

	sort.SliceStable(returns, func(i, j int) bool {
		return returns[i].ExpectedReturn.Decimal.GreaterThan(returns[j].ExpectedReturn.Decimal)
	})
	if top > 0 && top < len(returns) {
		returns = returns[:top]
	}

	formatter := output.New(cmd.OutOrStdout(), opts.jsonMode)
	if len(returns) == 0 {
		return formatter.Message("No stock returns available")
	}

	headers := []string{"Symbol", "Current", "Predicted", "Expected Return", "Note"}
	rows := make([][]string, 0, len(returns))
	for _, r := range returns {
		note := ""
		if r.IsMock {
			note = "sample data"
		}
		rows = append(rows, []string{
			r.Symbol,
			sageapi.FormatNumber(r.CurrentPrice),
			sageapi.FormatNumber(r.PredictedPrice),
			sageapi.FormatChange(r.ExpectedReturn),
			note,
		})
	}
	return formatter.Table(headers, rows)
}

// newPredictCmd creates the predict command with the given options.
func newPredictCmd(opts *predictOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict SYMBOL",
		Short: "Predict a stock's price",
		Long: `Ask the backend for a price prediction for one symbol.

Example:
  sage predict NABIL`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd, opts.timeout)
			defer cancel()

			p, err := opts.client.Predict(ctx, args[0])
			if err != nil {
				return err
			}

			formatter := output.New(cmd.OutOrStdout(), opts.jsonMode)
			if opts.jsonMode {
				return formatter.Print(p)
			}
			pairs := [][2]string{
				{"Symbol", p.Symbol},
				{"Current Price", sageapi.FormatNumber(p.CurrentPrice)},
				{"Predicted Price", sageapi.FormatNumber(p.PredictedPrice)},
				{"Expected Return", sageapi.FormatChange(p.ExpectedReturn)},
			}
			if p.Horizon != "" {
				pairs = append(pairs, [2]string{"Horizon", p.Horizon})
			}
			if p.GeneratedAt != "" {
				pairs = append(pairs, [2]string{"Generated", p.GeneratedAt})
			}
			return formatter.KeyValues(pairs)
		},
	}
	cmd.SilenceUsage = true
	return cmd
}

// newAnalyzeCmd creates the analyze command with the given options.
func newAnalyzeCmd(opts *predictOptions) *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "analyze SYMBOL",
		Short: "Run sentiment analysis for a stock",
		Long: `Submit a symbol, and optionally a piece of text, for sentiment analysis.

Examples:
  sage analyze NABIL
  sage analyze NABIL --text "Quarterly profit up 20%"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd, opts.timeout)
			defer cancel()

			a, err := opts.client.Analyze(ctx, sageapi.AnalyzeRequest{
				Symbol: args[0],
				Text:   strings.TrimSpace(text),
			})
			if err != nil {
				return err
			}

			formatter := output.New(cmd.OutOrStdout(), opts.jsonMode)
			if opts.jsonMode {
				return formatter.Print(a)
			}
			return formatter.KeyValues([][2]string{
				{"Symbol", a.Symbol},
				{"Sentiment", a.Sentiment},
				{"Score", a.Score.String()},
				{"Summary", a.Summary},
			})
		},
	}

	cmd.Flags().StringVarP(&text, "text", "t", "", "Text to analyze alongside the symbol")
	cmd.SilenceUsage = true
	return cmd
}

func init() {
	opts := &predictOptions{}
	bind := func(rt *runtime) {
		opts.client = rt.client
		opts.jsonMode = GetJSONMode()
		opts.timeout = rt.cfg.RequestTimeout()
	}

	rootCmd.AddCommand(bindRuntime(newReturnsCmd(opts), bind))
	rootCmd.AddCommand(bindRuntime(newPredictCmd(opts), bind))
	rootCmd.AddCommand(bindRuntime(newAnalyzeCmd(opts), bind))
}
