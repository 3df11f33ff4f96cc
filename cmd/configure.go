package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stocksage/sage/internal/api"
	"github.com/stocksage/sage/internal/config"
)

// configureOptions holds dependencies for the configure command.
// This allows for dependency injection in tests.
type configureOptions struct {
	configPath string
	terminal   passwordReader
	prompt     prompter
}

// newConfigureCmd creates the configure command with the given options.
func newConfigureCmd(opts configureOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Configure the CLI",
		Long: `Set the StockSage API address, the market refresh interval and the
index history file. Press Enter at a prompt to keep the value shown in
brackets.

Example:
  sage configure`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigure(cmd, opts)
		},
	}

	// Don't show usage info on validation errors - just show the error
	cmd.SilenceUsage = true

	return cmd
}

// reconfigureMenuOptions defines the menu options when already configured.
var reconfigureMenuOptions = []string{
	"Edit settings",
	"View current configuration",
	"Reset to defaults",
}

func runConfigure(cmd *cobra.Command, opts configureOptions) error {
	if !opts.terminal.IsTerminal() {
		return fmt.Errorf("configure requires an interactive terminal\nRun this command directly in your terminal (not piped or in a script)")
	}

	if _, err := os.Stat(opts.configPath); err == nil {
		return runReconfigureMenu(cmd, opts)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to read configuration: %w", err)
	}

	return runEditSettings(cmd, opts)
}

// runReconfigureMenu shows the reconfigure menu when a config file exists.
func runReconfigureMenu(cmd *cobra.Command, opts configureOptions) error {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, "CLI is already configured. What would you like to do?")
	_, _ = fmt.Fprintln(out)
	for i, opt := range reconfigureMenuOptions {
		_, _ = fmt.Fprintf(out, "  %d. %s\n", i+1, opt)
	}
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprint(out, "Select option: ")

	choice, err := opts.prompt.SelectOption(reconfigureMenuOptions)
	if err != nil {
		return fmt.Errorf("failed to read selection: %w", err)
	}

	switch choice {
	case 0:
		return runEditSettings(cmd, opts)
	case 1:
		return runViewConfiguration(cmd, opts)
	case 2:
		return runResetConfiguration(cmd, opts)
	default:
		return fmt.Errorf("invalid selection")
	}
}

// runEditSettings prompts for each setting, keeping the current value on an
// empty answer.
func runEditSettings(cmd *cobra.Command, opts configureOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		cfg = config.DefaultConfig()
	}

	baseURL, err := opts.prompt.ReadLine(fmt.Sprintf("API base URL [%s]: ", cfg.APIBaseURL))
	if err != nil {
		return fmt.Errorf("failed to read API base URL: %w", err)
	}
	if baseURL != "" {
		cfg.APIBaseURL = strings.TrimSuffix(baseURL, "/")
	}

	interval, err := opts.prompt.ReadLine(fmt.Sprintf("Market refresh interval in seconds [%d]: ", cfg.PollIntervalSeconds))
	if err != nil {
		return fmt.Errorf("failed to read refresh interval: %w", err)
	}
	if interval != "" {
		n, err := strconv.Atoi(interval)
		if err != nil || n <= 0 {
			return fmt.Errorf("refresh interval must be a positive number of seconds, got %q", interval)
		}
		cfg.PollIntervalSeconds = n
	}

	historyFile, err := opts.prompt.ReadLine(fmt.Sprintf("Index history CSV file [%s]: ", cfg.HistoryFile))
	if err != nil {
		return fmt.Errorf("failed to read history file: %w", err)
	}
	if historyFile != "" {
		cfg.HistoryFile = historyFile
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	// Non-fatal: the backend may simply not be running yet.
	if err := checkConnection(cmd.Context(), cfg); err != nil {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Note: Could not reach %s: %v\n", cfg.APIBaseURL, err)
	}

	if err := config.Save(opts.configPath, cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Configuration saved successfully!")
	return nil
}

// checkConnection makes one anonymous request against the configured backend.
func checkConnection(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, 5*time.Second)
	defer cancel()

	_, err := api.NewClient(cfg.APIBaseURL, nil).Sectors(ctx)
	return err
}

// runViewConfiguration displays the current configuration.
func runViewConfiguration(cmd *cobra.Command, opts configureOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, "Current Configuration:")
	_, _ = fmt.Fprintln(out, "----------------------")
	_, _ = fmt.Fprintf(out, "API base URL: %s\n", cfg.APIBaseURL)
	_, _ = fmt.Fprintf(out, "Market refresh interval: %d seconds\n", cfg.PollIntervalSeconds)
	_, _ = fmt.Fprintf(out, "Request timeout: %d seconds\n", cfg.RequestTimeoutSeconds)
	_, _ = fmt.Fprintf(out, "History file: %s (since %d)\n", cfg.HistoryFile, cfg.HistorySinceYear)
	_, _ = fmt.Fprintf(out, "Log level: %s\n", cfg.LogLevel)
	return nil
}

// runResetConfiguration overwrites the config file with the defaults.
func runResetConfiguration(cmd *cobra.Command, opts configureOptions) error {
	if err := config.Save(opts.configPath, config.DefaultConfig()); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Configuration reset to defaults.")
	return nil
}

func init() {
	configureCmd := newConfigureCmd(configureOptions{
		configPath: config.ConfigPath(),
		terminal:   newTerminalReader(int(os.Stdin.Fd())),
		prompt:     newTerminalPrompter(os.Stdin, os.Stdout),
	})
	rootCmd.AddCommand(configureCmd)
}
