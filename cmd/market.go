package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stocksage/sage/internal/api"
	"github.com/stocksage/sage/internal/output"
	"github.com/stocksage/sage/internal/poller"
	"github.com/stocksage/sage/pkg/sageapi"
)

// marketOptions holds dependencies for the market command.
type marketOptions struct {
	client       *api.Client
	logger       *zap.Logger
	jsonMode     bool
	timeout      time.Duration
	pollInterval time.Duration
}

// newMarketCmd creates the market command with the given options.
func newMarketCmd(opts *marketOptions) *cobra.Command {
	var watch bool
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "market",
		Short: "Show the market summary",
		Long: `Show the latest market summary (turnover, traded shares, transactions...).

With --watch the summary is refreshed every 30 seconds (or --interval)
until interrupted. A failed refresh is reported and polling continues.

Examples:
  sage market
  sage market --watch --interval 1m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !watch {
				return runMarket(cmd, opts)
			}
			if interval <= 0 {
				interval = opts.pollInterval
			}
			return runMarketWatch(cmd, opts, interval)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep refreshing until interrupted")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Refresh interval for --watch (default from config, 30s)")
	cmd.SilenceUsage = true
	return cmd
}

func runMarket(cmd *cobra.Command, opts *marketOptions) error {
	ctx, cancel := commandContext(cmd, opts.timeout)
	defer cancel()

	summary, err := opts.client.MarketSummary(ctx)
	if err != nil {
		return err
	}
	return printMarketSummary(cmd, opts.jsonMode, summary)
}

func runMarketWatch(cmd *cobra.Command, opts *marketOptions, interval time.Duration) error {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()

	logger := loggerOrNop(opts.logger)
	timeout := opts.timeout
	if timeout <= 0 {
		timeout = defaultCommandTimeout
	}
	p := &poller.Poller[*sageapi.MarketSummary]{
		Interval: interval,
		Fetch: func(ctx context.Context) (*sageapi.MarketSummary, error) {
			fetchCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			return opts.client.MarketSummary(fetchCtx)
		},
	}

	err := p.Run(ctx, func(r poller.Result[*sageapi.MarketSummary]) {
		if r.Err != nil {
			logger.Warn("market summary refresh failed", zap.Error(r.Err))
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "refresh failed at %s: %v\n", r.At.Format("15:04:05"), r.Err)
			return
		}
		if !opts.jsonMode {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\n[%s]\n", r.At.Format("15:04:05"))
		}
		if err := printMarketSummary(cmd, opts.jsonMode, r.Value); err != nil {
			logger.Warn("failed to print market summary", zap.Error(err))
		}
	})
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func printMarketSummary(cmd *cobra.Command, jsonMode bool, summary *sageapi.MarketSummary) error {
	formatter := output.New(cmd.OutOrStdout(), jsonMode)
	if jsonMode {
		return formatter.Print(summary)
	}

	if summary.Heading != "" {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), summary.Heading)
		_, _ = fmt.Fprintln(cmd.OutOrStdout())
	}
	entries := summary.Entries()
	if len(entries) == 0 {
		return formatter.Message("No market summary available")
	}
	pairs := make([][2]string, 0, len(entries))
	for _, e := range entries {
		pairs = append(pairs, [2]string{e.Key, e.Value})
	}
	return formatter.KeyValues(pairs)
}

func init() {
	opts := &marketOptions{}
	rootCmd.AddCommand(bindRuntime(newMarketCmd(opts), func(rt *runtime) {
		opts.client = rt.client
		opts.logger = rt.logger
		opts.jsonMode = GetJSONMode()
		opts.timeout = rt.cfg.RequestTimeout()
		opts.pollInterval = rt.cfg.PollInterval()
	}))
}
