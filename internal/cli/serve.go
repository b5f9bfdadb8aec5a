package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"omnirag/console/internal/app"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local console API server",
		Long: `Run the console HTTP server. It mounts one chat view per bot and exposes
its state as JSON and its live updates as Server-Sent Events under /api/v1.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if code := app.Run(); code != 0 {
				return errors.New("server exited with an error, see the log above")
			}
			return nil
		},
	}
	cmd.Flags().Int("port", 8000, "Port to listen on (APP_PORT)")
	bindLocalFlag(cmd, "port", "APP_PORT")
	return cmd
}
