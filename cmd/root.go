package cmd

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stocksage/sage/internal/api"
	"github.com/stocksage/sage/internal/config"
	"github.com/stocksage/sage/internal/keyring"
	"github.com/stocksage/sage/internal/logging"
	"github.com/stocksage/sage/internal/session"
	"github.com/stocksage/sage/internal/telemetry"
)

// Version is reported by --version and attached to trace spans.
var Version = "dev"

var (
	// jsonOutput controls whether output is formatted as JSON
	jsonOutput bool
	logLevel   string
	verbose    bool
	traceSpans bool
)

var rootCmd = &cobra.Command{
	Use:   "sage",
	Short: "StockSage terminal client",
	Long: `A terminal client for the StockSage market backend: company listings,
news, market summary, predictions and your account.`,
	Version:            Version,
	PersistentPostRunE: teardownRuntime,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&traceSpans, "trace", false, "Print OpenTelemetry spans for API requests to stderr")
}

// GetJSONMode returns whether JSON output mode is enabled.
func GetJSONMode() bool {
	return jsonOutput
}

// runtime holds what the commands share once the config is loaded.
type runtime struct {
	cfg      *config.Config
	logger   *zap.Logger
	client   *api.Client
	session  *session.Manager
	shutdown func(context.Context) error
}

var (
	rtOnce sync.Once
	rt     *runtime
	rtErr  error
)

// loadRuntime builds the shared runtime the first time a command needs it.
func loadRuntime() (*runtime, error) {
	rtOnce.Do(func() {
		rt, rtErr = newRuntime()
	})
	return rt, rtErr
}

func newRuntime() (*runtime, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ApplyEnv()
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", config.ConfigPath(), err)
	}

	logger, err := logging.New(cfg.LogLevel, verbose)
	if err != nil {
		return nil, err
	}

	r := &runtime{cfg: cfg, logger: logger}
	if traceSpans {
		shutdown, err := telemetry.Setup(context.Background(), os.Stderr, Version)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
		r.shutdown = shutdown
	}

	r.client = api.NewClient(cfg.APIBaseURL, nil).
		WithLogger(logger.Named("api")).
		WithTimeout(cfg.RequestTimeout())
	r.session = session.NewManager(keyring.Default(), config.SessionPath(), r.client).
		WithLogger(logger.Named("session"))

	// Local only; commands that need a verified session call Restore. Any
	// later 401 goes through HandleUnauthorized and clears a dead token.
	if _, err := r.session.Load(); err != nil {
		logger.Warn("could not load stored session", zap.Error(err))
	}

	logger.Debug("runtime ready", zap.String("api_base_url", cfg.APIBaseURL))
	return r, nil
}

// bindRuntime sets a PreRunE on cmd that loads the runtime and hands it to bind.
func bindRuntime(cmd *cobra.Command, bind func(rt *runtime)) *cobra.Command {
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		r, err := loadRuntime()
		if err != nil {
			return err
		}
		bind(r)
		return nil
	}
	return cmd
}

func teardownRuntime(cmd *cobra.Command, args []string) error {
	if rt == nil {
		return nil
	}
	if rt.shutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rt.shutdown(ctx); err != nil {
			rt.logger.Warn("failed to flush traces", zap.Error(err))
		}
	}
	_ = rt.logger.Sync()
	return nil
}

// Execute runs the root command. Version may be set by main before the call.
func Execute() {
	rootCmd.Version = Version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
