package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/stocksage/sage/internal/forms"
	"github.com/stocksage/sage/internal/output"
	"github.com/stocksage/sage/pkg/sageapi"
)

// newContactCmd creates the contact command with the given options.
func newContactCmd(opts *accountOptions) *cobra.Command {
	var msg sageapi.ContactMessage

	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Send a message to the StockSage team",
		Long: `Send a message through the contact form. When signed in, your name
and email default to the account's.

Example:
  sage contact --subject "Data issue" --message "NABIL price looks stale"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if u := opts.session.Current().User; u != nil {
				msg.Name = firstNonEmpty(msg.Name, u.FullName)
				msg.Email = firstNonEmpty(msg.Email, u.Email)
			}
			msg.Name = strings.TrimSpace(msg.Name)
			msg.Email = strings.TrimSpace(msg.Email)
			msg.Subject = strings.TrimSpace(msg.Subject)

			if err := forms.ValidateContact(msg); err != nil {
				return err
			}

			ctx, cancel := commandContext(cmd, opts.timeout)
			defer cancel()

			resp, err := opts.client.Contact(ctx, msg)
			if err != nil {
				return err
			}

			formatter := output.New(cmd.OutOrStdout(), opts.jsonMode)
			if opts.jsonMode {
				return formatter.Print(resp)
			}
			return formatter.Message("%s", firstNonEmpty(resp.Message, "Message sent"))
		},
	}

	cmd.Flags().StringVar(&msg.Name, "name", "", "Your name")
	cmd.Flags().StringVarP(&msg.Email, "email", "e", "", "Your email")
	cmd.Flags().StringVarP(&msg.Subject, "subject", "s", "", "Subject")
	cmd.Flags().StringVarP(&msg.Message, "message", "m", "", "Message text")
	cmd.SilenceUsage = true
	return cmd
}
