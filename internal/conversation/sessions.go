package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"omnirag/console/internal/client"
	app_errors "omnirag/console/internal/errors"
	"omnirag/console/internal/metrics"
	"omnirag/console/internal/model"
)

// SessionManager tracks the active session of one bot view and keeps the
// displayed session list in step with the backend.
type SessionManager struct {
	mu       sync.RWMutex
	active   string
	sessions []model.Session

	botID         string
	backend       client.Backend
	log           *Log
	evidence      *Evidence
	sig           *signals
	sessionsLimit int
	historyLimit  int
	newUUID       func() (uuid.UUID, error)

	// reset starts a new chat; set by the owning controller.
	reset func()
}

// Active returns the active session id, or "" for an unsaved conversation.
func (m *SessionManager) Active() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// Sessions returns the last fetched session list in server order.
func (m *SessionManager) Sessions() []model.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.sessions)
}

// EnsureActiveSession returns the active session id, synthesising and
// activating a new one when none is set. The backend creates the session
// lazily on the first message, so nothing is sent here.
func (m *SessionManager) EnsureActiveSession() string {
	m.mu.Lock()
	if m.active != "" {
		id := m.active
		m.mu.Unlock()
		return id
	}
	id := newSessionID(m.newUUID)
	m.active = id
	m.mu.Unlock()

	slog.Debug("Synthesised new session id", "bot_id", m.botID, "session_id", id)
	m.sig.publish(Event{Kind: EventSessionChanged, SessionID: id})
	return id
}

// SelectSession activates id and clears the log and evidence so the next
// LoadHistory fetches the session fresh.
func (m *SessionManager) SelectSession(id string) {
	m.log.ReplaceAll(nil)
	m.setActive(id)
	m.evidence.Clear()
	m.sig.publish(Event{Kind: EventMessagesReset})
}

// Adopt switches the active session to an id assigned by the backend.
func (m *SessionManager) Adopt(id string) {
	if id == "" {
		return
	}
	m.mu.Lock()
	changed := m.active != id
	m.active = id
	m.mu.Unlock()

	if changed {
		slog.Info("Adopting server-assigned session id", "bot_id", m.botID, "session_id", id)
		m.sig.publish(Event{Kind: EventSessionChanged, SessionID: id})
	}
}

// LoadHistory fetches the persisted messages of the active session.
//
// It does nothing when no session is active or when the log already holds more
// than one message, since that conversation was just produced in this view.
// A result that arrives after the active session changed is discarded.
func (m *SessionManager) LoadHistory(ctx context.Context) error {
	sessionID := m.Active()
	if sessionID == "" || m.log.Len() > 1 {
		return nil
	}

	history, err := m.backend.GetHistory(ctx, m.botID, sessionID, m.historyLimit)
	metrics.ObserveSessionAction("history", err)
	if err != nil {
		slog.Error("Failed to load session history", "bot_id", m.botID, "session_id", sessionID, "error", err)
		return fmt.Errorf("failed to load history of session %s: %w", sessionID, err)
	}
	if len(history) == 0 {
		return nil
	}
	if m.Active() != sessionID {
		slog.Debug("Discarding history of a session that is no longer active", "bot_id", m.botID, "session_id", sessionID)
		return nil
	}

	messages := normalizeHistory(history)
	m.log.ReplaceAll(messages)
	m.sig.publish(Event{Kind: EventMessagesReset, Messages: messages})
	m.evidence.FromHistory(messages)
	return nil
}

// RefreshSessionList re-fetches the session list. On failure the current list is kept.
func (m *SessionManager) RefreshSessionList(ctx context.Context) error {
	sessions, err := m.backend.ListSessions(ctx, m.botID, m.sessionsLimit)
	metrics.ObserveSessionAction("list", err)
	if err != nil {
		slog.Warn("Failed to refresh session list", "bot_id", m.botID, "error", err)
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	m.setSessions(sessions)
	return nil
}

// DeleteSession deletes one session. On failure the user is notified and no
// state changes; deleting the active session starts a new chat.
func (m *SessionManager) DeleteSession(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: session id is required", app_errors.ErrValidation)
	}

	err := m.backend.DeleteSession(ctx, m.botID, id)
	metrics.ObserveSessionAction("delete", err)
	if err != nil {
		slog.Error("Failed to delete session", "bot_id", m.botID, "session_id", id, "error", err)
		m.sig.notify(LevelError, "Failed to delete conversation")
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	m.sig.notify(LevelSuccess, "Conversation deleted")

	_ = m.RefreshSessionList(ctx)
	if m.Active() == id {
		m.reset()
	}
	return nil
}

// ClearHistory deletes every session of the bot and starts a new chat.
func (m *SessionManager) ClearHistory(ctx context.Context) error {
	err := m.backend.ClearHistory(ctx, m.botID)
	metrics.ObserveSessionAction("clear", err)
	if err != nil {
		slog.Error("Failed to clear history", "bot_id", m.botID, "error", err)
		m.sig.notify(LevelError, "Failed to clear history")
		return fmt.Errorf("failed to clear history: %w", err)
	}
	m.sig.notify(LevelSuccess, "All history cleared")

	m.setSessions([]model.Session{})
	m.reset()
	return nil
}

func (m *SessionManager) setActive(id string) {
	m.mu.Lock()
	changed := m.active != id
	m.active = id
	m.mu.Unlock()

	if changed {
		m.sig.publish(Event{Kind: EventSessionChanged, SessionID: id})
	}
}

func (m *SessionManager) setSessions(sessions []model.Session) {
	m.mu.Lock()
	m.sessions = slices.Clone(sessions)
	m.mu.Unlock()
	m.sig.publish(Event{Kind: EventSessionsChanged, Sessions: sessions})
}

// normalizeHistory gives every historical message an id, preferring the
// backend's message_id.
func normalizeHistory(history []model.ChatMessage) []model.ChatMessage {
	out := slices.Clone(history)
	for i := range out {
		if out[i].ID != "" {
			continue
		}
		if out[i].MessageID != "" {
			out[i].ID = out[i].MessageID
			continue
		}
		out[i].ID = "history-" + strconv.Itoa(i)
	}
	return out
}
