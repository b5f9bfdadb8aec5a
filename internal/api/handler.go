package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"omnirag/console/internal/conversation"
	app_errors "omnirag/console/internal/errors"
	"omnirag/console/internal/interfaces"
)

// eventBuffer is the per-client buffer of a view subscription.
const eventBuffer = 256

// PageLimits are the default page sizes of the passthrough list endpoints.
type PageLimits struct {
	Sessions int
	History  int
}

// ChatHandler exposes bot chat views over HTTP.
type ChatHandler struct {
	service interfaces.ChatService
	limits  PageLimits
}

func NewChatHandler(svc interfaces.ChatService, limits PageLimits) *ChatHandler {
	return &ChatHandler{service: svc, limits: limits}
}

// HandleOpenView godoc
// @Summary      Mount a chat view
// @Description  Loads the bot and its sessions and seeds the conversation. Reopening a mounted view returns its current state, switching to session_id first when one is given.
// @Tags         Views
// @Produce      json
// @Param        botID       path   string  true   "Bot ID"
// @Param        session_id  query  string  false  "Session to open instead of a new chat"
// @Success      200  {object}  conversation.ConversationState
// @Failure      404  {object}  ErrorResponse
// @Failure      502  {object}  ErrorResponse
// @Router       /v1/bots/{botID}/view [post]
func (h *ChatHandler) HandleOpenView(w http.ResponseWriter, r *http.Request) {
	botID := chi.URLParam(r, "botID")

	var opts []conversation.Option
	if sessionID := r.URL.Query().Get("session_id"); sessionID != "" {
		opts = append(opts, conversation.WithSession(sessionID))
	}

	state, err := h.service.Open(r.Context(), botID, opts...)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, state)
}

// HandleCloseView godoc
// @Summary      Unmount a chat view
// @Description  Cancels any in-flight reply and closes the view's event streams.
// @Tags         Views
// @Produce      json
// @Param        botID  path  string  true  "Bot ID"
// @Success      200  {object}  StatusResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/bots/{botID}/view [delete]
func (h *ChatHandler) HandleCloseView(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Close(chi.URLParam(r, "botID")); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// HandleGetState godoc
// @Summary      Get view state
// @Tags         Views
// @Produce      json
// @Param        botID  path  string  true  "Bot ID"
// @Success      200  {object}  conversation.ConversationState
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/bots/{botID}/state [get]
func (h *ChatHandler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.State(chi.URLParam(r, "botID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, state)
}

// HandleNewChat godoc
// @Summary      Start a new chat
// @Description  Clears the active session and the evidence panel, leaving only the welcome message.
// @Tags         Views
// @Produce      json
// @Param        botID  path  string  true  "Bot ID"
// @Success      200  {object}  conversation.ConversationState
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/bots/{botID}/new-chat [post]
func (h *ChatHandler) HandleNewChat(w http.ResponseWriter, r *http.Request) {
	botID := chi.URLParam(r, "botID")
	if err := h.service.NewChat(botID); err != nil {
		respondWithError(w, err)
		return
	}
	h.respondWithState(w, botID)
}

// HandleSelectSession godoc
// @Summary      Open an existing session
// @Description  Switches the view to the session and loads its history. A failed history load leaves the view empty.
// @Tags         Sessions
// @Produce      json
// @Param        botID      path  string  true  "Bot ID"
// @Param        sessionID  path  string  true  "Session ID"
// @Success      200  {object}  conversation.ConversationState
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/bots/{botID}/sessions/{sessionID}/select [post]
func (h *ChatHandler) HandleSelectSession(w http.ResponseWriter, r *http.Request) {
	botID := chi.URLParam(r, "botID")
	if err := h.service.SelectSession(r.Context(), botID, chi.URLParam(r, "sessionID")); err != nil {
		respondWithError(w, err)
		return
	}
	h.respondWithState(w, botID)
}

// HandleDeleteSession godoc
// @Summary      Delete a session
// @Tags         Sessions
// @Produce      json
// @Param        botID      path  string  true  "Bot ID"
// @Param        sessionID  path  string  true  "Session ID"
// @Success      200  {object}  StatusResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      502  {object}  ErrorResponse
// @Router       /v1/bots/{botID}/sessions/{sessionID} [delete]
func (h *ChatHandler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteSession(r.Context(), chi.URLParam(r, "botID"), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// HandleClearHistory godoc
// @Summary      Delete all sessions of a bot
// @Tags         Sessions
// @Produce      json
// @Param        botID  path  string  true  "Bot ID"
// @Success      200  {object}  StatusResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      502  {object}  ErrorResponse
// @Router       /v1/bots/{botID}/history [delete]
func (h *ChatHandler) HandleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearHistory(r.Context(), chi.URLParam(r, "botID")); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// HandleSelectEvidence godoc
// @Summary      Show a message's evidence
// @Description  Replaces the evidence panel with the retrieved chunks of the message. Messages without chunks leave the panel unchanged.
// @Tags         Views
// @Produce      json
// @Param        botID      path  string  true  "Bot ID"
// @Param        messageID  path  string  true  "Message ID"
// @Success      200  {object}  EvidenceResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/bots/{botID}/evidence/{messageID} [post]
func (h *ChatHandler) HandleSelectEvidence(w http.ResponseWriter, r *http.Request) {
	selected, err := h.service.SelectEvidence(chi.URLParam(r, "botID"), chi.URLParam(r, "messageID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, EvidenceResponse{Selected: selected})
}

// HandleListSessions godoc
// @Summary      List sessions
// @Description  Fetches the bot's sessions from the OmniRAG API without mounting a view.
// @Tags         Sessions
// @Produce      json
// @Param        botID  path   string  true   "Bot ID"
// @Param        limit  query  int     false  "Page size"
// @Success      200  {array}   model.Session
// @Failure      400  {object}  ErrorResponse
// @Failure      502  {object}  ErrorResponse
// @Router       /v1/bots/{botID}/sessions [get]
func (h *ChatHandler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r, h.limits.Sessions)
	if err != nil {
		respondWithError(w, err)
		return
	}
	sessions, err := h.service.ListSessions(r.Context(), chi.URLParam(r, "botID"), limit)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, sessions)
}

// HandleGetHistory godoc
// @Summary      Get session history
// @Description  Fetches the messages of one session without mounting a view.
// @Tags         Sessions
// @Produce      json
// @Param        botID       path   string  true   "Bot ID"
// @Param        session_id  query  string  true   "Session ID"
// @Param        limit       query  int     false  "Page size"
// @Success      200  {array}   model.ChatMessage
// @Failure      400  {object}  ErrorResponse
// @Failure      502  {object}  ErrorResponse
// @Router       /v1/bots/{botID}/history [get]
func (h *ChatHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r, h.limits.History)
	if err != nil {
		respondWithError(w, err)
		return
	}
	history, err := h.service.GetHistory(r.Context(), chi.URLParam(r, "botID"), r.URL.Query().Get("session_id"), limit)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, history)
}

// HandleSendMessage godoc
// @Summary      Send a message
// @Description  Sends a message through the view and relays view events until the reply has finished streaming. The last event is a send.finished result.
// @Tags         Views
// @Accept       json
// @Produce      text/event-stream
// @Param        botID    path  string              true  "Bot ID"
// @Param        message  body  SendMessageRequest  true  "Message"
// @Success      200  {object}  conversation.Event  "Stream of view events"
// @Failure      400  {object}  ErrorResponse       "Sent as a stream error event"
// @Router       /v1/bots/{botID}/messages [post]
func (h *ChatHandler) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	botID := chi.URLParam(r, "botID")

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Error decoding request body", "error", err)
		sendStreamError(w, "Invalid request body")
		return
	}
	if err := validateRequest(&req); err != nil {
		sendStreamError(w, err.Error())
		return
	}

	events, unsubscribe, err := h.service.Subscribe(botID, eventBuffer)
	if err != nil {
		sendStreamError(w, err.Error())
		return
	}
	defer unsubscribe()

	ctx := r.Context()
	done := make(chan error, 1)
	go func() { done <- h.service.Send(ctx, botID, req.Message) }()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if err := writeStreamEvent(w, ev); err != nil {
				slog.Warn("Could not write to message stream, client likely disconnected.", "bot_id", botID, "error", err)
				return
			}
		case sendErr := <-done:
			drainEvents(w, events)
			finishSend(w, sendErr)
			slog.Info("Finished streaming reply.", "bot_id", botID)
			return
		}
	}
}

// HandleEvents godoc
// @Summary      Subscribe to view events
// @Description  Streams every change of the view until the client disconnects or the view is unmounted.
// @Tags         Views
// @Produce      text/event-stream
// @Param        botID  path  string  true  "Bot ID"
// @Success      200  {object}  conversation.Event  "Stream of view events"
// @Failure      404  {object}  ErrorResponse       "Sent as a stream error event"
// @Router       /v1/bots/{botID}/events [get]
func (h *ChatHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	botID := chi.URLParam(r, "botID")
	events, unsubscribe, err := h.service.Subscribe(botID, eventBuffer)
	if err != nil {
		sendStreamError(w, err.Error())
		return
	}
	defer unsubscribe()

	for {
		select {
		case <-r.Context().Done():
			slog.Info("Client disconnected from view events.", "bot_id", botID)
			return
		case ev, ok := <-events:
			if !ok {
				slog.Info("View closed, ending event stream.", "bot_id", botID)
				return
			}
			if err := writeStreamEvent(w, ev); err != nil {
				slog.Warn("Could not write to event stream, client likely disconnected.", "bot_id", botID, "error", err)
				return
			}
		}
	}
}

func (h *ChatHandler) respondWithState(w http.ResponseWriter, botID string) {
	state, err := h.service.State(botID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, state)
}

// drainEvents writes the events already buffered when a send returns.
func drainEvents(w http.ResponseWriter, events <-chan conversation.Event) {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := writeStreamEvent(w, ev); err != nil {
				return
			}
		default:
			return
		}
	}
}

func finishSend(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		_ = writeStreamEvent(w, SendResult{Kind: "send.finished", Status: "ok"})
	case errors.Is(err, conversation.ErrSuperseded):
		_ = writeStreamEvent(w, SendResult{Kind: "send.finished", Status: "superseded"})
	case errors.Is(err, context.Canceled):
		_ = writeStreamEvent(w, SendResult{Kind: "send.finished", Status: "cancelled"})
	case errors.Is(err, app_errors.ErrValidation), errors.Is(err, app_errors.ErrNotFound):
		sendStreamError(w, err.Error())
	default:
		sendStreamError(w, "Failed to send message")
	}
}

func queryLimit(r *http.Request, fallback int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("%w: limit must be a positive integer", app_errors.ErrValidation)
	}
	return limit, nil
}
