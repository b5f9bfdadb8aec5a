package cli

import (
	"github.com/spf13/cobra"

	"omnirag/console/internal/render"
)

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List the conversations of a bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			botID, err := requireFlag(cmd, "bot")
			if err != nil {
				return err
			}
			limit, _ := cmd.Flags().GetInt("limit")

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if limit <= 0 {
				limit = a.Config.SessionsLimit
			}
			sessions, err := a.Chat.ListSessions(cmd.Context(), botID, limit)
			if err != nil {
				return err
			}
			render.Sessions(cmd.OutOrStdout(), sessions, "")
			return nil
		},
	}
	cmd.Flags().String("bot", "", "Bot ID")
	cmd.Flags().Int("limit", 0, "Maximum number of sessions (default SESSIONS_LIMIT)")
	return cmd
}
