package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stocksage/sage/internal/api"
	"github.com/stocksage/sage/internal/config"
	"github.com/stocksage/sage/internal/logging"
	"github.com/stocksage/sage/internal/tui"
)

// uiOptions holds dependencies for the ui command.
type uiOptions struct {
	client    *api.Client
	logLevel  string
	interval  time.Duration
	prefsPath string
	logPath   string
	start     func(cmd *cobra.Command, model tea.Model) error
}

// newUICmd creates the ui command with the given options.
func newUICmd(opts *uiOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Interactive terminal UI",
		Long: `Launch an interactive terminal UI with company listings, news and
the live market summary.

Keys:
  1-3      Switch between Stocks, News and Market
  /        Search companies by symbol or name
  s / o    Cycle sector / toggle sort order
  c        Cycle news category
  n / p    Next / previous page
  r        Refresh the current view
  q        Quit

The market summary refreshes on the configured interval. Logs are written
to ui.log in the config directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd, opts)
		},
	}
	cmd.SilenceUsage = true
	return cmd
}

func runUI(cmd *cobra.Command, opts *uiOptions) error {
	logFile, err := openUILog(opts.logPath)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()

	logger, err := logging.NewWriter(logFile, opts.logLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// Keep request logs off the screen the TUI draws on.
	opts.client.WithLogger(logger.Named("api"))

	prefs, err := tui.LoadConfig(opts.prefsPath)
	if err != nil {
		logger.Warn("ignoring unreadable ui preferences", zap.Error(err))
		prefs = &tui.UIConfig{}
	}

	model := tui.New(cmd.Context(), tui.Options{
		Fetcher:         opts.client,
		Logger:          logger.Named("tui"),
		Prefs:           prefs,
		PrefsPath:       opts.prefsPath,
		RefreshInterval: opts.interval,
	})

	start := opts.start
	if start == nil {
		start = startProgram
	}
	logger.Info("starting ui", zap.Duration("refresh_interval", opts.interval))
	return start(cmd, model)
}

func startProgram(cmd *cobra.Command, model tea.Model) error {
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	_, err := p.Run()
	return err
}

func openUILog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open ui log: %w", err)
	}
	return f, nil
}

func init() {
	opts := &uiOptions{}
	rootCmd.AddCommand(bindRuntime(newUICmd(opts), func(rt *runtime) {
		opts.client = rt.client
		opts.logLevel = rt.cfg.LogLevel
		opts.interval = rt.cfg.PollInterval()
		opts.prefsPath = tui.ConfigPath()
		opts.logPath = filepath.Join(config.ConfigDir(), "ui.log")
	}))
}
