// Package cli implements the omnirag command line.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"omnirag/console/internal/app"
	"omnirag/console/internal/config"
	"omnirag/console/internal/render"
)

var version = "dev"

// NewRootCmd builds the omnirag command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "omnirag",
		Short: "Chat with OmniRAG bots from the terminal or a local console server",
		Long: `omnirag drives OmniRAG bot conversations.

Quick Start:
  omnirag login --token <token>            # store the API access token
  omnirag chat --bot <bot-id>              # interactive chat
  omnirag sessions --bot <bot-id>          # list conversations
  omnirag history --bot <id> --session <id> --format yaml
  omnirag serve                            # local console API on APP_PORT`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("api-url", "", "OmniRAG API base URL (API_BASE_URL)")
	flags.String("db", "", "Path of the local console database (DATABASE_PATH)")
	flags.String("log-level", "", "Log level: DEBUG, INFO, WARN, ERROR (LOG_LEVEL)")
	bindFlag(root, "api-url", "API_BASE_URL")
	bindFlag(root, "db", "DATABASE_PATH")
	bindFlag(root, "log-level", "LOG_LEVEL")

	root.AddCommand(
		newServeCmd(),
		newChatCmd(),
		newSessionsCmd(),
		newHistoryCmd(),
		newLoginCmd(),
		newLogoutCmd(),
	)
	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		render.Error(root.ErrOrStderr(), err)
		return 1
	}
	return 0
}

// Only a changed flag overrides the environment and .env values.
func bindFlag(cmd *cobra.Command, flag, key string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", flag, err))
	}
}

func bindLocalFlag(cmd *cobra.Command, flag, key string) {
	if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", flag, err))
	}
}

// openApp loads the configuration and wires the console for a CLI command.
// Logs go to stderr, and INFO is raised to WARN so they do not interleave with chat output.
func openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	level := cfg.LogLevel
	if strings.EqualFold(level, "INFO") {
		level = "WARN"
	}
	app.SetupLogger(level, cmd.ErrOrStderr())

	return app.NewApp(cfg)
}

func requireFlag(cmd *cobra.Command, name string) (string, error) {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("--%s is required", name)
	}
	return v, nil
}
