package api

import (
	"net/http"
	"time"

	// This blank import is required by swaggo to find the API definitions.
	_ "omnirag/console/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter creates and configures a new chi router with all the console's routes.
func NewRouter(chatHandler *ChatHandler, authHandler *AuthHandler) *chi.Mux {
	r := chi.NewRouter()

	// --- Global Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// --- Public Routes ---
	r.Get("/api/swagger/*", httpSwagger.WrapHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// --- API Version 1 Routes ---
	r.Route("/api/v1", func(r chi.Router) {

		// Standard JSON routes run under a request timeout.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			// --- Auth ---
			r.Get("/auth/token", authHandler.HandleTokenStatus)
			r.Post("/auth/token", authHandler.HandleSetToken)
			r.Delete("/auth/token", authHandler.HandleClearToken)

			// --- Views ---
			r.Post("/bots/{botID}/view", chatHandler.HandleOpenView)
			r.Delete("/bots/{botID}/view", chatHandler.HandleCloseView)
			r.Get("/bots/{botID}/state", chatHandler.HandleGetState)
			r.Post("/bots/{botID}/new-chat", chatHandler.HandleNewChat)
			r.Post("/bots/{botID}/evidence/{messageID}", chatHandler.HandleSelectEvidence)

			// --- Sessions ---
			r.Get("/bots/{botID}/sessions", chatHandler.HandleListSessions)
			r.Post("/bots/{botID}/sessions/{sessionID}/select", chatHandler.HandleSelectSession)
			r.Delete("/bots/{botID}/sessions/{sessionID}", chatHandler.HandleDeleteSession)
			r.Get("/bots/{botID}/history", chatHandler.HandleGetHistory)
			r.Delete("/bots/{botID}/history", chatHandler.HandleClearHistory)
		})

		// Streaming routes hold the connection open and must NOT have a timeout.
		r.Group(func(r chi.Router) {
			r.Post("/bots/{botID}/messages", chatHandler.HandleSendMessage)
			r.Get("/bots/{botID}/events", chatHandler.HandleEvents)
		})
	})

	return r
}
