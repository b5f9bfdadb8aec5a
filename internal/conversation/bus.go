package conversation

import (
	"log/slog"
	"sync"

	"omnirag/console/internal/model"
)

// EventKind names a change in a conversation view.
type EventKind string

const (
	EventMessageAppended  EventKind = "message.appended"
	EventMessagePatched   EventKind = "message.patched"
	EventMessageRemoved   EventKind = "message.removed"
	EventMessagesReset    EventKind = "messages.reset"
	EventEvidenceChanged  EventKind = "evidence.changed"
	EventSessionsChanged  EventKind = "sessions.changed"
	EventSessionChanged   EventKind = "session.changed"
	EventStreamingChanged EventKind = "streaming.changed"
	EventNotification     EventKind = "notification"
)

// NotificationLevel is the severity of a user-facing notification.
type NotificationLevel string

const (
	LevelSuccess NotificationLevel = "success"
	LevelError   NotificationLevel = "error"
)

// Notification is a toast shown to the user after a user-initiated action.
type Notification struct {
	Level NotificationLevel `json:"level"`
	Text  string            `json:"text"`
}

// Notifier receives notifications as they are raised.
type Notifier interface {
	Notify(botID string, n Notification)
}

// Event is a typed change notification published on a Bus.
// Only the fields relevant to Kind are set.
type Event struct {
	Kind         EventKind              `json:"kind"`
	BotID        string                 `json:"bot_id"`
	Message      *model.ChatMessage     `json:"message,omitempty"`
	MessageID    string                 `json:"message_id,omitempty"`
	Messages     []model.ChatMessage    `json:"messages,omitempty"`
	Evidence     []model.RetrievedChunk `json:"evidence,omitempty"`
	Sessions     []model.Session        `json:"sessions,omitempty"`
	SessionID    string                 `json:"session_id,omitempty"`
	Streaming    bool                   `json:"streaming"`
	Notification *Notification          `json:"notification,omitempty"`
}

// Bus is a publish/subscribe channel for the events of one view.
//
// Publish never blocks: a subscriber whose buffer is full misses the event.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]chan Event
	nextID int
	closed bool
}

// NewBus creates an open bus with no subscribers.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a subscriber with the given buffer size.
// The returned function unsubscribes and closes the channel; it is safe to call twice.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
}

// Publish delivers ev to every subscriber with room in its buffer.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			slog.Debug("Dropping conversation event for slow subscriber", "kind", ev.Kind, "bot_id", ev.BotID)
		}
	}
}

// Close closes every subscriber channel. Later publishes are no-ops.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// signals bundles the outbound side of a view: the bus and the notifier.
type signals struct {
	botID    string
	bus      *Bus
	notifier Notifier
}

func (s *signals) publish(ev Event) {
	ev.BotID = s.botID
	s.bus.Publish(ev)
}

func (s *signals) notify(level NotificationLevel, text string) {
	n := Notification{Level: level, Text: text}
	if s.notifier != nil {
		s.notifier.Notify(s.botID, n)
	}
	s.publish(Event{Kind: EventNotification, Notification: &n})
}
