package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the OmniRAG API access token",
		Long: `Store the bearer token used for every OmniRAG API call in the local
console database. OMNIRAG_ACCESS_TOKEN, when set, takes precedence.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := requireFlag(cmd, "token")
			if err != nil {
				return err
			}
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Auth.SetToken(cmd.Context(), token); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Token saved.")
			return nil
		},
	}
	cmd.Flags().String("token", "", "Access token")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Auth.ClearToken(cmd.Context()); err != nil {
				return err
			}
			status, err := a.Auth.Status(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, "Token removed.")
			if status.Source == "env" {
				_, _ = fmt.Fprintln(out, "OMNIRAG_ACCESS_TOKEN is still set and will be used.")
			}
			return nil
		},
	}
}
