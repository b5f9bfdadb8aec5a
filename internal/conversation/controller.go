package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"omnirag/console/internal/client"
	app_errors "omnirag/console/internal/errors"
	"omnirag/console/internal/metrics"
	"omnirag/console/internal/model"
	"omnirag/console/internal/stream"
)

var (
	// ErrSuperseded is the cause of a send cancelled because a newer send started.
	ErrSuperseded = errors.New("send superseded by a newer message")
	// ErrStreamIdle is the cause of a send aborted because the stream went quiet.
	ErrStreamIdle = errors.New("chat stream idle timeout")
	// ErrUnmounted is returned by operations on a view that has been torn down.
	ErrUnmounted = errors.New("conversation view unmounted")
)

// StreamError is an error event reported by the backend inside a chat stream.
type StreamError struct {
	Message string
}

func (e *StreamError) Error() string {
	return "chat stream error: " + e.Message
}

const (
	DefaultHistoryWindow = 5
	DefaultHistoryLimit  = 50
	DefaultSessionsLimit = 50
)

type options struct {
	historyWindow  int
	historyLimit   int
	sessionsLimit  int
	idleTimeout    time.Duration
	initialSession string
	notifier       Notifier
	now            func() time.Time
	newUUID        func() (uuid.UUID, error)
}

// Option configures a Controller.
type Option func(*options)

// WithHistoryWindow sets how many prior turns are sent as context with a message.
func WithHistoryWindow(n int) Option { return func(o *options) { o.historyWindow = n } }

// WithHistoryLimit sets the page size used when loading session history.
func WithHistoryLimit(n int) Option { return func(o *options) { o.historyLimit = n } }

// WithSessionsLimit sets the page size used when listing sessions.
func WithSessionsLimit(n int) Option { return func(o *options) { o.sessionsLimit = n } }

// WithIdleTimeout aborts a send whose stream yields no event for d. Zero disables it.
func WithIdleTimeout(d time.Duration) Option { return func(o *options) { o.idleTimeout = d } }

// WithSession makes Mount open an existing session instead of a new chat.
func WithSession(id string) Option { return func(o *options) { o.initialSession = id } }

// RequestedSession returns the session id set by WithSession among opts, or "".
func RequestedSession(opts ...Option) string {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o.initialSession
}

// WithNotifier registers a receiver for user-facing notifications.
func WithNotifier(n Notifier) Option { return func(o *options) { o.notifier = n } }

// WithClock overrides the wall clock used for message ids and timestamps.
func WithClock(now func() time.Time) Option { return func(o *options) { o.now = now } }

// WithUUIDGenerator overrides the generator used for new session ids.
func WithUUIDGenerator(gen func() (uuid.UUID, error)) Option {
	return func(o *options) { o.newUUID = gen }
}

// ConversationState is a point-in-time copy of a view's working set.
type ConversationState struct {
	BotID       string                 `json:"bot_id"`
	Bot         *model.Bot             `json:"bot,omitempty"`
	SessionID   string                 `json:"session_id,omitempty"`
	Messages    []model.ChatMessage    `json:"messages"`
	Evidence    []model.RetrievedChunk `json:"evidence"`
	IsStreaming bool                   `json:"is_streaming"`
	Sessions    []model.Session        `json:"sessions"`
}

// Controller drives the chat view of one bot: it owns the message log, the
// session manager and the evidence panel, and folds chat streams into them.
type Controller struct {
	botID   string
	backend client.Backend
	opts    options

	bus      *Bus
	sig      *signals
	log      *Log
	evidence *Evidence
	sessions *SessionManager

	mu        sync.Mutex
	bot       *model.Bot
	cancel    context.CancelCauseFunc
	sendSeq   uint64
	inFlight  int
	unmounted bool
}

// NewController creates an unmounted controller for botID.
func NewController(botID string, backend client.Backend, opts ...Option) *Controller {
	o := options{
		historyWindow: DefaultHistoryWindow,
		historyLimit:  DefaultHistoryLimit,
		sessionsLimit: DefaultSessionsLimit,
		now:           time.Now,
		newUUID:       uuid.NewRandom,
	}
	for _, opt := range opts {
		opt(&o)
	}

	bus := NewBus()
	sig := &signals{botID: botID, bus: bus, notifier: o.notifier}
	log := NewLog(NewIDGenerator(o.now), o.now)
	evidence := newEvidence(sig)

	c := &Controller{
		botID:    botID,
		backend:  backend,
		opts:     o,
		bus:      bus,
		sig:      sig,
		log:      log,
		evidence: evidence,
	}
	c.sessions = &SessionManager{
		botID:         botID,
		backend:       backend,
		log:           log,
		evidence:      evidence,
		sig:           sig,
		sessionsLimit: o.sessionsLimit,
		historyLimit:  o.historyLimit,
		newUUID:       o.newUUID,
		reset:         c.NewChat,
	}
	return c
}

// BotID returns the bot this controller serves.
func (c *Controller) BotID() string { return c.botID }

// Bus returns the event bus of this view.
func (c *Controller) Bus() *Bus { return c.bus }

// Sessions returns the session manager of this view.
func (c *Controller) Sessions() *SessionManager { return c.sessions }

// Mount loads the bot and its session list and seeds the conversation: the
// history of the initial session when one was given, the welcome message otherwise.
func (c *Controller) Mount(ctx context.Context) error {
	bot, err := c.backend.GetBot(ctx, c.botID)
	if err != nil {
		slog.Error("Failed to load bot", "bot_id", c.botID, "error", err)
		c.sig.notify(LevelError, "Failed to load bot information")
		return fmt.Errorf("failed to load bot %s: %w", c.botID, err)
	}

	c.mu.Lock()
	c.bot = bot
	c.mu.Unlock()

	_ = c.sessions.RefreshSessionList(ctx)

	if c.opts.initialSession != "" {
		c.sessions.SelectSession(c.opts.initialSession)
		_ = c.sessions.LoadHistory(ctx)
		return nil
	}
	c.seedWelcome()
	slog.Info("Mounted chat view", "bot_id", c.botID)
	return nil
}

// Unmount cancels any in-flight send and closes the event bus.
func (c *Controller) Unmount() {
	c.mu.Lock()
	if c.unmounted {
		c.mu.Unlock()
		return
	}
	c.unmounted = true
	if c.cancel != nil {
		c.cancel(ErrUnmounted)
		c.cancel = nil
	}
	c.mu.Unlock()

	c.bus.Close()
	slog.Info("Unmounted chat view", "bot_id", c.botID)
}

// NewChat starts an unsaved conversation: no active session, no evidence, and
// only the welcome message in the log. In-flight sends keep running but their
// patches no longer find a target.
func (c *Controller) NewChat() {
	c.sessions.setActive("")
	c.evidence.Clear()
	c.seedWelcome()
}

// SelectSession switches to an existing session and loads its history.
// A failed history load leaves the view empty and is only logged.
func (c *Controller) SelectSession(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: session id is required", app_errors.ErrValidation)
	}
	c.sessions.SelectSession(id)
	_ = c.sessions.LoadHistory(ctx)
	return nil
}

// SelectEvidence shows the retrieved chunks of the message with the given id.
// It reports false when the message carries no chunks.
func (c *Controller) SelectEvidence(messageID string) (bool, error) {
	msg, ok := c.log.Get(messageID)
	if !ok {
		return false, fmt.Errorf("%w: message %s", app_errors.ErrNotFound, messageID)
	}
	return c.evidence.Select(msg), nil
}

// DeleteSession deletes a session of this bot.
func (c *Controller) DeleteSession(ctx context.Context, id string) error {
	return c.sessions.DeleteSession(ctx, id)
}

// ClearHistory deletes every session of this bot.
func (c *Controller) ClearHistory(ctx context.Context) error {
	return c.sessions.ClearHistory(ctx)
}

// State returns a copy of the current working set.
func (c *Controller) State() ConversationState {
	c.mu.Lock()
	bot := c.bot
	streaming := c.inFlight > 0
	c.mu.Unlock()

	return ConversationState{
		BotID:       c.botID,
		Bot:         bot,
		SessionID:   c.sessions.Active(),
		Messages:    c.log.Snapshot(),
		Evidence:    c.evidence.Current(),
		IsStreaming: streaming,
		Sessions:    c.sessions.Sessions(),
	}
}

// Send posts text to the active session, creating one if needed, and folds the
// streamed reply into a placeholder assistant message.
//
// A newer Send cancels this one; the cancelled send returns ErrSuperseded and
// keeps whatever content already arrived. A failed send notifies the user and
// removes the placeholder while keeping the user message. The session list is
// refreshed after every send.
func (c *Controller) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("%w: message is required", app_errors.ErrValidation)
	}

	sendCtx, seq, err := c.beginSend(ctx)
	if err != nil {
		return err
	}
	// The refresh outlives a cancelled send: the backend may still have
	// created or retitled the session. It runs after the streaming flag clears.
	defer func() { _ = c.sessions.RefreshSessionList(context.WithoutCancel(ctx)) }()
	defer c.endSend(seq)

	sessionID := c.sessions.EnsureActiveSession()
	history := c.historyWindow()

	user, assistant := c.log.AppendPair(text)
	c.sig.publish(Event{Kind: EventMessageAppended, Message: &user})
	c.sig.publish(Event{Kind: EventMessageAppended, Message: &assistant})

	req := &model.ChatStreamRequest{Message: text, SessionID: sessionID, History: history}

	var watchdog *time.Timer
	if c.opts.idleTimeout > 0 {
		cancel := c.cancelFunc(seq)
		watchdog = time.AfterFunc(c.opts.idleTimeout, func() { cancel(ErrStreamIdle) })
	}

	metrics.StreamsInFlight.Inc()
	streamErr := c.backend.ChatStream(sendCtx, c.botID, req, func(ev stream.Event) error {
		if watchdog != nil {
			watchdog.Reset(c.opts.idleTimeout)
		}
		return c.apply(assistant.ID, ev)
	})
	metrics.StreamsInFlight.Dec()
	if watchdog != nil {
		watchdog.Stop()
	}

	return c.finishSend(sendCtx, assistant.ID, streamErr)
}

func (c *Controller) beginSend(ctx context.Context) (context.Context, uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.unmounted {
		return nil, 0, ErrUnmounted
	}
	if c.cancel != nil {
		c.cancel(ErrSuperseded)
	}

	sendCtx, cancel := context.WithCancelCause(ctx)
	c.sendSeq++
	c.cancel = cancel
	c.inFlight++
	if c.inFlight == 1 {
		c.sig.publish(Event{Kind: EventStreamingChanged, Streaming: true})
	}
	return sendCtx, c.sendSeq, nil
}

func (c *Controller) endSend(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sendSeq == seq && c.cancel != nil {
		c.cancel(nil)
		c.cancel = nil
	}
	c.inFlight--
	if c.inFlight == 0 {
		c.sig.publish(Event{Kind: EventStreamingChanged, Streaming: false})
	}
}

// cancelFunc returns the cancel function registered for send seq.
func (c *Controller) cancelFunc(seq uint64) context.CancelCauseFunc {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sendSeq != seq || c.cancel == nil {
		return func(error) {}
	}
	return c.cancel
}

func (c *Controller) finishSend(sendCtx context.Context, assistantID string, streamErr error) error {
	if streamErr == nil {
		metrics.StreamsTotal.WithLabelValues("ok").Inc()
		return nil
	}

	if sendCtx.Err() != nil {
		cause := context.Cause(sendCtx)
		if !errors.Is(cause, ErrStreamIdle) {
			metrics.StreamsTotal.WithLabelValues("cancelled").Inc()
			slog.Info("Chat stream cancelled", "bot_id", c.botID, "message_id", assistantID, "cause", cause)
			if msg, ok := c.log.Get(assistantID); ok && msg.Pending() {
				c.removeMessage(assistantID)
			}
			return cause
		}
		streamErr = fmt.Errorf("%w: %w", cause, streamErr)
	}

	metrics.StreamsTotal.WithLabelValues("failed").Inc()
	slog.Error("Failed to send message", "bot_id", c.botID, "message_id", assistantID, "error", streamErr)
	c.sig.notify(LevelError, "Failed to send message")
	c.removeMessage(assistantID)
	return fmt.Errorf("failed to send message: %w", streamErr)
}

// apply folds one stream event into the placeholder with the given id.
func (c *Controller) apply(id string, ev stream.Event) error {
	switch e := ev.(type) {
	case stream.ContentEvent:
		c.patch(id, func(m model.ChatMessage) model.ChatMessage {
			m.Content += e.Content
			return m
		})
	case stream.MetadataEvent:
		_, ok := c.patch(id, func(m model.ChatMessage) model.ChatMessage {
			m.Sources = e.Sources
			m.RetrievedChunks = e.RetrievedChunks
			m.AgentLogs = e.AgentLogs
			m.Reasoning = e.Reasoning
			m.SearchQuery = e.SearchQuery
			return m
		})
		if !ok {
			return nil
		}
		c.evidence.FromStream(e.RetrievedChunks)
		c.sessions.Adopt(e.SessionID)
	case stream.LogEvent:
		c.patch(id, func(m model.ChatMessage) model.ChatMessage {
			m.AgentLogs = append(m.AgentLogs, e.Log)
			return m
		})
	case stream.DoneEvent:
	case stream.ErrorEvent:
		return &StreamError{Message: e.Message}
	default:
		slog.Debug("Ignoring unknown chat stream event", "bot_id", c.botID, "type", ev.Type())
	}
	return nil
}

func (c *Controller) patch(id string, update func(model.ChatMessage) model.ChatMessage) (model.ChatMessage, bool) {
	msg, ok := c.log.Patch(id, update)
	if ok {
		c.sig.publish(Event{Kind: EventMessagePatched, Message: &msg})
	}
	return msg, ok
}

func (c *Controller) removeMessage(id string) {
	if c.log.RemoveByID(id) {
		c.sig.publish(Event{Kind: EventMessageRemoved, MessageID: id})
	}
}

// historyWindow returns the last prior turns sent as context, without the welcome message.
func (c *Controller) historyWindow() []model.HistoryTurn {
	turns := []model.HistoryTurn{}
	for _, m := range c.log.Snapshot() {
		if m.ID == model.WelcomeMessageID {
			continue
		}
		turns = append(turns, model.HistoryTurn{Role: m.Role, Content: m.Content})
	}
	if n := c.opts.historyWindow; n >= 0 && len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	return turns
}

func (c *Controller) seedWelcome() {
	c.mu.Lock()
	bot := c.bot
	c.mu.Unlock()

	var messages []model.ChatMessage
	if bot != nil && bot.Config.WelcomeMessage != "" {
		messages = []model.ChatMessage{{
			ID:        model.WelcomeMessageID,
			Role:      model.RoleAssistant,
			Content:   bot.Config.WelcomeMessage,
			Timestamp: model.NewTimestamp(c.opts.now().UTC()),
		}}
	}
	c.log.ReplaceAll(messages)
	c.sig.publish(Event{Kind: EventMessagesReset, Messages: messages})
}
