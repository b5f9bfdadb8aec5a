package cli

import (
	"github.com/spf13/cobra"

	"omnirag/console/internal/render"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print or export the messages of a session",
		Long: `Print the messages of one session.

Use --format json or --format yaml to export them, including retrieved chunks
and agent logs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			botID, err := requireFlag(cmd, "bot")
			if err != nil {
				return err
			}
			sessionID, err := requireFlag(cmd, "session")
			if err != nil {
				return err
			}
			rawFormat, _ := cmd.Flags().GetString("format")
			format, err := render.ParseFormat(rawFormat)
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
				limit = a.Config.HistoryLimit
			}
			messages, err := a.Chat.GetHistory(cmd.Context(), botID, sessionID, limit)
			if err != nil {
				return err
			}
			return render.History(cmd.OutOrStdout(), messages, format)
		},
	}
	cmd.Flags().String("bot", "", "Bot ID")
	cmd.Flags().String("session", "", "Session ID")
	cmd.Flags().StringP("format", "f", "text", "Output format: text, json or yaml")
	cmd.Flags().Int("limit", 0, "Maximum number of messages (default HISTORY_LIMIT)")
	return cmd
}
