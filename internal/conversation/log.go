package conversation

import (
	"slices"
	"sync"
	"time"

	"omnirag/console/internal/model"
)

// Log is the ordered message list of one conversation view.
//
// Messages keep their append order; the log is never sorted by timestamp.
// Patch is the only mutation used while a reply streams in.
type Log struct {
	mu       sync.RWMutex
	messages []model.ChatMessage
	ids      *IDGenerator
	now      func() time.Time
}

// NewLog creates an empty log using ids for optimistic message ids.
func NewLog(ids *IDGenerator, now func() time.Time) *Log {
	if now == nil {
		now = time.Now
	}
	if ids == nil {
		ids = NewIDGenerator(now)
	}
	return &Log{ids: ids, now: now}
}

// AppendPair appends a user turn immediately followed by an empty assistant placeholder.
func (l *Log) AppendPair(userText string) (user, assistant model.ChatMessage) {
	userID, assistantID := l.ids.Pair()
	ts := model.NewTimestamp(l.now().UTC())

	user = model.ChatMessage{ID: userID, Role: model.RoleUser, Content: userText, Timestamp: ts}
	assistant = model.ChatMessage{ID: assistantID, Role: model.RoleAssistant, Timestamp: ts}

	l.mu.Lock()
	l.messages = append(l.messages, user, assistant)
	l.mu.Unlock()
	return user, assistant
}

// Patch replaces the message with the given id by update(existing).
// It reports false and changes nothing when no message has that id.
func (l *Log) Patch(id string, update func(model.ChatMessage) model.ChatMessage) (model.ChatMessage, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return model.ChatMessage{}, false
	}
	l.messages[i] = update(l.messages[i])
	return l.messages[i], true
}

// ReplaceAll swaps the whole conversation, e.g. after loading history.
func (l *Log) ReplaceAll(messages []model.ChatMessage) {
	l.mu.Lock()
	l.messages = slices.Clone(messages)
	l.mu.Unlock()
}

// RemoveByID drops the message with the given id, reporting whether it existed.
func (l *Log) RemoveByID(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return false
	}
	l.messages = slices.Delete(l.messages, i, i+1)
	return true
}

// Get returns a copy of the message with the given id.
func (l *Log) Get(id string) (model.ChatMessage, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	i := l.indexOf(id)
	if i < 0 {
		return model.ChatMessage{}, false
	}
	return l.messages[i], true
}

// Snapshot returns the messages in order. The slice is a copy.
func (l *Log) Snapshot() []model.ChatMessage {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.messages)
}

// Len returns the number of messages.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}

func (l *Log) indexOf(id string) int {
	return slices.IndexFunc(l.messages, func(m model.ChatMessage) bool { return m.ID == id })
}
