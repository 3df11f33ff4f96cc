package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/stocksage/sage/internal/forms"
	"github.com/stocksage/sage/internal/output"
	"github.com/stocksage/sage/internal/session"
	"github.com/stocksage/sage/pkg/sageapi"
)

var errNotSignedIn = errors.New("not signed in\nRun: sage login")

// authOptions holds dependencies for the login, signup, logout and whoami commands.
type authOptions struct {
	session        *session.Manager
	jsonMode       bool
	timeout        time.Duration
	passwordReader passwordReader
	prompt         prompter
}

// newLoginCmd creates the login command with the given options.
func newLoginCmd(opts *authOptions) *cobra.Command {
	var email string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to StockSage",
		Long: `Sign in with your email and password. The session token is kept in
the system keyring.

Examples:
  sage login
  sage login --email you@example.com
  echo "$PASSWORD" | sage login --email you@example.com --password-stdin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, opts, email, passwordStdin)
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email (prompted if omitted)")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from standard input")
	cmd.SilenceUsage = true
	return cmd
}

func runLogin(cmd *cobra.Command, opts *authOptions, email string, passwordStdin bool) error {
	email, err := promptIfEmpty(opts.prompt, email, "Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	var password string
	if passwordStdin {
		password, err = opts.prompt.ReadLine("")
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
	} else {
		if !opts.passwordReader.IsTerminal() {
			return fmt.Errorf("password input requires a terminal\nUse --password-stdin when piping the password")
		}
		password, err = readSecret(cmd.ErrOrStderr(), opts.passwordReader, "Password: ")
		if err != nil {
			return err
		}
	}

	ctx, cancel := commandContext(cmd, opts.timeout)
	defer cancel()

	s, err := opts.session.Login(ctx, email, password)
	if err != nil {
		return err
	}

	formatter := output.New(cmd.OutOrStdout(), opts.jsonMode)
	if opts.jsonMode {
		return formatter.Print(sessionView(s, true))
	}
	return formatter.Message("Signed in as %s", displayName(s.User))
}

// newSignupCmd creates the signup command with the given options.
func newSignupCmd(opts *authOptions) *cobra.Command {
	var form forms.Signup

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a StockSage account",
		Long: `Create an account. Missing fields are prompted for; the password is
always read without echo and must be entered twice.

Example:
  sage signup --full-name "Asha Rai" --email asha@example.com --phone 9800000000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSignup(cmd, opts, form)
		},
	}

	cmd.Flags().StringVar(&form.FullName, "full-name", "", "Full name")
	cmd.Flags().StringVarP(&form.Email, "email", "e", "", "Email")
	cmd.Flags().StringVar(&form.Phone, "phone", "", "Phone number")
	cmd.SilenceUsage = true
	return cmd
}

func runSignup(cmd *cobra.Command, opts *authOptions, form forms.Signup) error {
	if !opts.passwordReader.IsTerminal() {
		return fmt.Errorf("signup requires an interactive terminal")
	}

	var err error
	if form.FullName, err = promptIfEmpty(opts.prompt, form.FullName, "Full name: "); err != nil {
		return err
	}
	if form.Email, err = promptIfEmpty(opts.prompt, form.Email, "Email: "); err != nil {
		return err
	}
	if form.Phone, err = promptIfEmpty(opts.prompt, form.Phone, "Phone: "); err != nil {
		return err
	}
	if form.Password, err = readSecret(cmd.ErrOrStderr(), opts.passwordReader, "Password: "); err != nil {
		return err
	}
	if form.ConfirmPassword, err = readSecret(cmd.ErrOrStderr(), opts.passwordReader, "Confirm password: "); err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd, opts.timeout)
	defer cancel()

	resp, err := opts.session.Register(ctx, form)
	if err != nil {
		return err
	}

	formatter := output.New(cmd.OutOrStdout(), opts.jsonMode)
	if opts.jsonMode {
		return formatter.Print(resp)
	}
	msg := resp.Message
	if msg == "" {
		msg = "Account created"
	}
	return formatter.Message("%s\nSign in with: sage login --email %s", msg, form.Request().Email)
}

// newLogoutCmd creates the logout command with the given options.
func newLogoutCmd(opts *authOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Long: `Sign out and forget the stored session. The local session is cleared
even when the backend cannot be reached.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wasSignedIn := opts.session.Current().State == session.Authenticated

			ctx, cancel := commandContext(cmd, opts.timeout)
			defer cancel()

			if err := opts.session.Logout(ctx); err != nil {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: server logout failed: %v\n", err)
			}

			formatter := output.New(cmd.OutOrStdout(), opts.jsonMode)
			if !wasSignedIn {
				return formatter.Message("Not signed in")
			}
			return formatter.Message("Signed out")
		},
	}
	cmd.SilenceUsage = true
	return cmd
}

// newWhoamiCmd creates the whoami command with the given options.
func newWhoamiCmd(opts *authOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Long: `Verify the stored session with the backend and show who is signed in.
When the backend cannot be reached the cached account is shown unverified.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd, opts.timeout)
			defer cancel()

			verified := true
			s, err := opts.session.Restore(ctx)
			if err != nil {
				if !sageapi.IsUnreachable(err) {
					return err
				}
				verified = false
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
			}

			formatter := output.New(cmd.OutOrStdout(), opts.jsonMode)
			if opts.jsonMode {
				return formatter.Print(sessionView(s, verified))
			}
			if s.State != session.Authenticated {
				return formatter.Message("Not signed in")
			}

			pairs := [][2]string{{"Status", "Signed in"}}
			if !verified {
				pairs[0][1] = "Signed in (offline, not verified)"
			}
			if s.User != nil {
				pairs = append(pairs,
					[2]string{"Name", s.User.FullName},
					[2]string{"Email", s.User.Email},
				)
				if s.User.Phone != "" {
					pairs = append(pairs, [2]string{"Phone", s.User.Phone})
				}
			}
			return formatter.KeyValues(pairs)
		},
	}
	cmd.SilenceUsage = true
	return cmd
}

type sessionJSON struct {
	State    string        `json:"state"`
	Verified bool          `json:"verified"`
	User     *sageapi.User `json:"user,omitempty"`
}

func sessionView(s session.Session, verified bool) sessionJSON {
	return sessionJSON{State: s.State.String(), Verified: verified, User: s.User}
}

func displayName(u *sageapi.User) string {
	switch {
	case u == nil:
		return "unknown user"
	case u.FullName != "" && u.Email != "":
		return fmt.Sprintf("%s <%s>", u.FullName, u.Email)
	case u.FullName != "":
		return u.FullName
	default:
		return u.Email
	}
}

// requireSignedIn fails fast when no session is stored locally.
func requireSignedIn(m *session.Manager) error {
	if m.Current().State != session.Authenticated {
		return errNotSignedIn
	}
	return nil
}

func init() {
	opts := &authOptions{
		passwordReader: newTerminalReader(int(os.Stdin.Fd())),
		prompt:         newTerminalPrompter(os.Stdin, os.Stderr),
	}
	bind := func(rt *runtime) {
		opts.session = rt.session
		opts.jsonMode = GetJSONMode()
		opts.timeout = rt.cfg.RequestTimeout()
	}

	rootCmd.AddCommand(bindRuntime(newLoginCmd(opts), bind))
	rootCmd.AddCommand(bindRuntime(newSignupCmd(opts), bind))
	rootCmd.AddCommand(bindRuntime(newLogoutCmd(opts), bind))
	rootCmd.AddCommand(bindRuntime(newWhoamiCmd(opts), bind))
}
