package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"omnirag/console/internal/client"
	"omnirag/console/internal/conversation"
	app_errors "omnirag/console/internal/errors"
	"omnirag/console/internal/metrics"
	"omnirag/console/internal/model"
)

// ChatService keeps one mounted conversation view per bot and routes
// requests from the HTTP API and the CLI to it.
type ChatService struct {
	backend client.Backend
	opts    []conversation.Option

	mu    sync.Mutex
	views map[string]*conversation.Controller
}

// NewChatService creates a ChatService. opts are applied to every view it opens.
func NewChatService(backend client.Backend, opts ...conversation.Option) *ChatService {
	s := &ChatService{backend: backend, views: make(map[string]*conversation.Controller)}
	s.opts = append([]conversation.Option{conversation.WithNotifier(s)}, opts...)
	return s
}

// Notify logs user-facing notifications raised by any view.
func (s *ChatService) Notify(botID string, n conversation.Notification) {
	slog.Info("Chat notification", "bot_id", botID, "level", n.Level, "text", n.Text)
}

// Open mounts the view of botID, or returns the state of the already mounted one.
// A session requested with conversation.WithSession is selected on a mounted view
// when it is not already active.
func (s *ChatService) Open(ctx context.Context, botID string, extra ...conversation.Option) (*conversation.ConversationState, error) {
	if botID == "" {
		return nil, fmt.Errorf("%w: bot id is required", app_errors.ErrValidation)
	}
	if c, ok := s.lookup(botID); ok {
		return s.reopen(ctx, c, conversation.RequestedSession(extra...))
	}

	opts := append(append([]conversation.Option{}, s.opts...), extra...)
	c := conversation.NewController(botID, s.backend, opts...)
	if err := c.Mount(ctx); err != nil {
		c.Unmount()
		return nil, err
	}

	s.mu.Lock()
	if existing, ok := s.views[botID]; ok {
		// Another caller mounted the same bot while this one was loading.
		s.mu.Unlock()
		c.Unmount()
		return s.reopen(ctx, existing, conversation.RequestedSession(extra...))
	}
	s.views[botID] = c
	s.mu.Unlock()

	metrics.OpenViews.Inc()
	state := c.State()
	return &state, nil
}

func (s *ChatService) reopen(ctx context.Context, c *conversation.Controller, sessionID string) (*conversation.ConversationState, error) {
	if sessionID != "" && sessionID != c.State().SessionID {
		if err := c.SelectSession(ctx, sessionID); err != nil {
			return nil, err
		}
	}
	state := c.State()
	return &state, nil
}

// Close unmounts the view of botID.
func (s *ChatService) Close(botID string) error {
	s.mu.Lock()
	c, ok := s.views[botID]
	delete(s.views, botID)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: no open view for bot %s", app_errors.ErrNotFound, botID)
	}
	c.Unmount()
	metrics.OpenViews.Dec()
	return nil
}

// CloseAll unmounts every open view.
func (s *ChatService) CloseAll() {
	s.mu.Lock()
	views := s.views
	s.views = make(map[string]*conversation.Controller)
	s.mu.Unlock()

	for _, c := range views {
		c.Unmount()
		metrics.OpenViews.Dec()
	}
}

// State returns the working set of the view of botID.
func (s *ChatService) State(botID string) (*conversation.ConversationState, error) {
	c, err := s.get(botID)
	if err != nil {
		return nil, err
	}
	state := c.State()
	return &state, nil
}

// Send posts a message through the view of botID and waits for the reply to finish streaming.
func (s *ChatService) Send(ctx context.Context, botID, text string) error {
	c, err := s.get(botID)
	if err != nil {
		return err
	}
	return c.Send(ctx, text)
}

// NewChat starts an unsaved conversation in the view of botID.
func (s *ChatService) NewChat(botID string) error {
	c, err := s.get(botID)
	if err != nil {
		return err
	}
	c.NewChat()
	return nil
}

// SelectSession switches the view of botID to an existing session.
func (s *ChatService) SelectSession(ctx context.Context, botID, sessionID string) error {
	c, err := s.get(botID)
	if err != nil {
		return err
	}
	return c.SelectSession(ctx, sessionID)
}

// SelectEvidence shows the evidence of one message in the view of botID.
func (s *ChatService) SelectEvidence(botID, messageID string) (bool, error) {
	c, err := s.get(botID)
	if err != nil {
		return false, err
	}
	return c.SelectEvidence(messageID)
}

// DeleteSession deletes a session of botID through its view.
func (s *ChatService) DeleteSession(ctx context.Context, botID, sessionID string) error {
	c, err := s.get(botID)
	if err != nil {
		return err
	}
	return c.DeleteSession(ctx, sessionID)
}

// ClearHistory deletes all sessions of botID through its view.
func (s *ChatService) ClearHistory(ctx context.Context, botID string) error {
	c, err := s.get(botID)
	if err != nil {
		return err
	}
	return c.ClearHistory(ctx)
}

// Subscribe attaches a listener to the event bus of the view of botID.
func (s *ChatService) Subscribe(botID string, buffer int) (<-chan conversation.Event, func(), error) {
	c, err := s.get(botID)
	if err != nil {
		return nil, nil, err
	}
	ch, unsubscribe := c.Bus().Subscribe(buffer)
	return ch, unsubscribe, nil
}

// ListSessions fetches the sessions of botID without mounting a view.
func (s *ChatService) ListSessions(ctx context.Context, botID string, limit int) ([]model.Session, error) {
	sessions, err := s.backend.ListSessions(ctx, botID, limit)
	metrics.ObserveSessionAction("list", err)
	if err != nil {
		return nil, fmt.Errorf("could not list sessions: %w", err)
	}
	return sessions, nil
}

// GetHistory fetches the messages of one session without mounting a view.
func (s *ChatService) GetHistory(ctx context.Context, botID, sessionID string, limit int) ([]model.ChatMessage, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", app_errors.ErrValidation)
	}
	history, err := s.backend.GetHistory(ctx, botID, sessionID, limit)
	metrics.ObserveSessionAction("history", err)
	if err != nil {
		return nil, fmt.Errorf("could not get history: %w", err)
	}
	return history, nil
}

func (s *ChatService) lookup(botID string) (*conversation.Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.views[botID]
	return c, ok
}

func (s *ChatService) get(botID string) (*conversation.Controller, error) {
	c, ok := s.lookup(botID)
	if !ok {
		return nil, fmt.Errorf("%w: no open view for bot %s", app_errors.ErrNotFound, botID)
	}
	return c, nil
}
