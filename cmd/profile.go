package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stocksage/sage/internal/api"
	"github.com/stocksage/sage/internal/forms"
	"github.com/stocksage/sage/internal/output"
	"github.com/stocksage/sage/internal/session"
	"github.com/stocksage/sage/pkg/sageapi"
)

// accountOptions holds dependencies for the profile, settings and contact commands.
type accountOptions struct {
	client         *api.Client
	session        *session.Manager
	jsonMode       bool
	timeout        time.Duration
	passwordReader passwordReader
}

type profileFlags struct {
	fullName       string
	email          string
	phone          string
	changePassword bool
}

// newProfileCmd creates the profile command with the given options.
func newProfileCmd(opts *accountOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show your profile",
		Long: `Show the profile of the signed-in account.

Examples:
  sage profile
  sage profile update --phone 9800000001
  sage profile update --change-password`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSignedIn(opts.session); err != nil {
				return err
			}

			ctx, cancel := commandContext(cmd, opts.timeout)
			defer cancel()

			user, err := opts.client.Profile(ctx)
			if err != nil {
				return err
			}
			opts.session.UpdateUser(user)

			formatter := output.New(cmd.OutOrStdout(), opts.jsonMode)
			if opts.jsonMode {
				return formatter.Print(user)
			}
			return formatter.KeyValues([][2]string{
				{"Name", user.FullName},
				{"Email", user.Email},
				{"Phone", orDash(user.Phone)},
			})
		},
	}
	cmd.SilenceUsage = true
	cmd.AddCommand(newProfileUpdateCmd(opts))
	return cmd
}

func newProfileUpdateCmd(opts *accountOptions) *cobra.Command {
	var flags profileFlags

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update your profile",
		Long: `Update profile fields. Fields you leave out keep their current value.
With --change-password you are asked for the current password and the new
one twice.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfileUpdate(cmd, opts, flags)
		},
	}

	cmd.Flags().StringVar(&flags.fullName, "full-name", "", "New full name")
	cmd.Flags().StringVarP(&flags.email, "email", "e", "", "New email")
	cmd.Flags().StringVar(&flags.phone, "phone", "", "New phone number")
	cmd.Flags().BoolVar(&flags.changePassword, "change-password", false, "Change the password")
	cmd.SilenceUsage = true
	return cmd
}

func runProfileUpdate(cmd *cobra.Command, opts *accountOptions, flags profileFlags) error {
	if err := requireSignedIn(opts.session); err != nil {
		return err
	}
	if flags.fullName == "" && flags.email == "" && flags.phone == "" && !flags.changePassword {
		return fmt.Errorf("nothing to update\nPass --full-name, --email, --phone or --change-password")
	}

	ctx, cancel := commandContext(cmd, opts.timeout)
	defer cancel()

	current, err := opts.client.Profile(ctx)
	if err != nil {
		return err
	}

	edit := forms.ProfileEdit{
		FullName: firstNonEmpty(flags.fullName, current.FullName),
		Email:    firstNonEmpty(flags.email, current.Email),
		Phone:    firstNonEmpty(flags.phone, current.Phone),
	}

	if flags.changePassword {
		if !opts.passwordReader.IsTerminal() {
			return fmt.Errorf("changing the password requires an interactive terminal")
		}
		w := cmd.ErrOrStderr()
		if edit.CurrentPassword, err = readSecret(w, opts.passwordReader, "Current password: "); err != nil {
			return err
		}
		if edit.NewPassword, err = readSecret(w, opts.passwordReader, "New password: "); err != nil {
			return err
		}
		if edit.ConfirmPassword, err = readSecret(w, opts.passwordReader, "Confirm new password: "); err != nil {
			return err
		}
	}

	if err := forms.ValidateProfileUpdate(edit); err != nil {
		return err
	}

	req := edit.Request()
	resp, err := opts.client.UpdateProfile(ctx, req)
	if err != nil {
		return err
	}
	opts.session.UpdateUser(&sageapi.User{FullName: req.FullName, Email: req.Email, Phone: req.Phone})

	formatter := output.New(cmd.OutOrStdout(), opts.jsonMode)
	if opts.jsonMode {
		return formatter.Print(resp)
	}
	return formatter.Message("%s", firstNonEmpty(resp.Message, "Profile updated"))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	opts := &accountOptions{
		passwordReader: newTerminalReader(int(os.Stdin.Fd())),
	}
	bind := func(rt *runtime) {
		opts.client = rt.client
		opts.session = rt.session
		opts.jsonMode = GetJSONMode()
		opts.timeout = rt.cfg.RequestTimeout()
	}

	profileCmd := newProfileCmd(opts)
	bindRuntime(profileCmd, bind)
	for _, sub := range profileCmd.Commands() {
		bindRuntime(sub, bind)
	}
	rootCmd.AddCommand(profileCmd)

	settingsCmd := newSettingsCmd(opts)
	bindRuntime(settingsCmd, bind)
	for _, sub := range settingsCmd.Commands() {
		bindRuntime(sub, bind)
	}
	rootCmd.AddCommand(settingsCmd)

	rootCmd.AddCommand(bindRuntime(newContactCmd(opts), bind))
}
