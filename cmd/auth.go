package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/osvaldocariege06/Up-ToDo/internal/google"
)

func newAuthCmd(opts *rootOptions) *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in with Google to identify the task owner",
		Long: `Sign in with Google so uptodo can use your e-mail address as the task owner
and, with the firestore backend, reach the database with your credentials.

  1. uptodo auth url          open the printed URL and grant access
  2. uptodo auth save <code>  store the token under ~/.cache/uptodo
  3. uptodo auth whoami       check which address is used

The OAuth client is read from GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET.`,
	}
	cmd.PersistentFlags().StringVar(&account, "account", google.DefaultAccount, "Account name, for keeping several Google sign-ins apart")

	cmd.AddCommand(&cobra.Command{
		Use:   "url",
		Short: "Print the Google authorization URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := google.GetAuthURLForAccount(account)
			if err != nil {
				return err
			}
			p, err := newPrinter(cmd.OutOrStdout(), opts.output)
			if err != nil {
				return err
			}
			return p.message(url, map[string]string{"account": account, "url": url})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "save <code>",
		Short: "Exchange an authorization code for a stored token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := google.SaveTokenForAccount(cmd.Context(), account, args[0]); err != nil {
				return err
			}
			p, err := newPrinter(cmd.OutOrStdout(), opts.output)
			if err != nil {
				return err
			}
			return p.message(fmt.Sprintf("Token saved for account %q", account), map[string]any{"account": account, "saved": true})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "whoami",
		Short: "Print the e-mail address of the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := whoami(cmd.Context(), account)
			if err != nil {
				return err
			}
			p, err := newPrinter(cmd.OutOrStdout(), opts.output)
			if err != nil {
				return err
			}
			return p.message(email, map[string]string{"account": account, "email": email})
		},
	})

	return cmd
}

func whoami(ctx context.Context, account string) (string, error) {
	if !google.HasTokenForAccount(account) {
		return "", fmt.Errorf("no Google token for account %q: run 'uptodo auth url' first", account)
	}
	owner, err := google.NewUserInfoOwnerForAccount(ctx, account)
	if err != nil {
		return "", err
	}
	return owner.OwnerID(ctx)
}
