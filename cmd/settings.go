package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stocksage/sage/internal/output"
	"github.com/stocksage/sage/pkg/sageapi"
)

// newSettingsCmd creates the settings command with the given options.
func newSettingsCmd(opts *accountOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show your account settings",
		Long: `Show notification, preference and privacy settings.

Examples:
  sage settings
  sage settings set notifications.email=false preferences.theme=dark`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSignedIn(opts.session); err != nil {
				return err
			}

			ctx, cancel := commandContext(cmd, opts.timeout)
			defer cancel()

			settings, err := opts.client.Settings(ctx)
			if err != nil {
				return err
			}
			return printSettings(output.New(cmd.OutOrStdout(), opts.jsonMode), settings)
		},
	}
	cmd.SilenceUsage = true
	cmd.AddCommand(newSettingsSetCmd(opts))
	return cmd
}

func newSettingsSetCmd(opts *accountOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set KEY=VALUE...",
		Short: "Change account settings",
		Long: `Change one or more settings. Every assignment is checked before
anything is saved, so a typo leaves the settings untouched.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSignedIn(opts.session); err != nil {
				return err
			}

			assignments, err := parseAssignments(args)
			if err != nil {
				return err
			}

			ctx, cancel := commandContext(cmd, opts.timeout)
			defer cancel()

			settings, err := opts.client.Settings(ctx)
			if err != nil {
				return err
			}

			var errs []error
			for _, kv := range assignments {
				if err := settings.Set(kv[0], kv[1]); err != nil {
					errs = append(errs, err)
				}
			}
			if err := errors.Join(errs...); err != nil {
				return err
			}

			if _, err := opts.client.UpdateSettings(ctx, *settings); err != nil {
				return err
			}
			return printSettings(output.New(cmd.OutOrStdout(), opts.jsonMode), settings)
		},
	}
	cmd.SilenceUsage = true
	return cmd
}

// parseAssignments splits KEY=VALUE arguments.
func parseAssignments(args []string) ([][2]string, error) {
	out := make([][2]string, 0, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, &sageapi.ValidationError{Field: arg, Reason: "expected KEY=VALUE"}
		}
		out = append(out, [2]string{strings.TrimSpace(key), value})
	}
	return out, nil
}

func printSettings(formatter *output.Formatter, settings *sageapi.Settings) error {
	if formatter.JSONMode {
		return formatter.Print(settings)
	}
	keys := settings.Keys()
	pairs := make([][2]string, 0, len(keys))
	for _, key := range keys {
		value, _ := settings.Get(key)
		pairs = append(pairs, [2]string{key, value})
	}
	return formatter.KeyValues(pairs)
}
