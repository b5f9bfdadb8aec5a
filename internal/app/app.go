package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"omnirag/console/internal/api"
	"omnirag/console/internal/client"
	"omnirag/console/internal/config"
	"omnirag/console/internal/conversation"
	"omnirag/console/internal/database"
	"omnirag/console/internal/repository"
	"omnirag/console/internal/service"
)

// App holds the wired dependencies shared by the server and the CLI commands.
type App struct {
	Config  *config.Config
	DB      *sql.DB
	Auth    *service.AuthService
	Backend client.Backend
	Chat    *service.ChatService
	Server  *http.Server
}

// NewApp opens the local database and wires the services, handlers and server.
func NewApp(cfg *config.Config) (*App, error) {
	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	repo := repository.NewSQLiteRepository(db)
	authService := service.NewAuthService(repo, cfg.AccessToken)
	backend := client.NewHTTPBackend(cfg.APIBaseURL, authService, cfg.RequestTimeout)
	chatService := service.NewChatService(backend, ViewOptions(cfg)...)

	chatHandler := api.NewChatHandler(chatService, api.PageLimits{
		Sessions: cfg.SessionsLimit,
		History:  cfg.HistoryLimit,
	})
	authHandler := api.NewAuthHandler(authService)
	router := api.NewRouter(chatHandler, authHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      0, // Disabled for streaming endpoints
		IdleTimeout:       120 * time.Second,
	}

	return &App{
		Config:  cfg,
		DB:      db,
		Auth:    authService,
		Backend: backend,
		Chat:    chatService,
		Server:  server,
	}, nil
}

// ViewOptions translates the configuration into options for every chat view.
func ViewOptions(cfg *config.Config) []conversation.Option {
	return []conversation.Option{
		conversation.WithHistoryWindow(cfg.HistoryWindow),
		conversation.WithHistoryLimit(cfg.HistoryLimit),
		conversation.WithSessionsLimit(cfg.SessionsLimit),
		conversation.WithIdleTimeout(cfg.StreamIdleTimeout),
	}
}

// Close unmounts every view and closes the database.
func (a *App) Close() {
	a.Chat.CloseAll()
	if err := a.DB.Close(); err != nil {
		slog.Error("Failed to close database connection", "error", err)
	}
}

// Run starts the console server and blocks until it stops or receives SIGINT/SIGTERM.
func Run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		// slog is not yet configured, so use the default logger for this critical error.
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	SetupLogger(cfg.LogLevel, os.Stdout)

	logConfigSource()

	a, err := NewApp(cfg)
	if err != nil {
		slog.Error("Failed to start console", "error", err)
		return 1
	}
	defer a.Close()
	slog.Info("Successfully connected to SQLite database.", "path", cfg.DatabasePath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Serve(ctx); err != nil {
		slog.Error("Server failed", "error", err)
		return 1
	}
	return 0
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down.
func (a *App) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "port", a.Config.AppPort, "api_base_url", a.Config.APIBaseURL)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	// Views are unmounted first so open SSE streams end and Shutdown can drain.
	a.Chat.CloseAll()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return <-errCh
}

func logConfigSource() {
	configFileUsed := viper.ConfigFileUsed()
	if configFileUsed != "" {
		slog.Info("Successfully loaded configuration from file.", "file", configFileUsed)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

// SetupLogger installs the default JSON logger writing to w.
func SetupLogger(logLevel string, w io.Writer) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
