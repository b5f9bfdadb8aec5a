package conversation

import (
	"slices"
	"sync"

	"omnirag/console/internal/model"
)

// Evidence tracks which retrieval results the side panel shows.
//
// The latest writer wins: a click on a message, a live metadata event, or a
// history load each replace the panel. A nil selection hides the panel.
type Evidence struct {
	mu      sync.RWMutex
	current []model.RetrievedChunk
	sig     *signals
}

func newEvidence(sig *signals) *Evidence {
	return &Evidence{sig: sig}
}

// Current returns the chunks on display, or nil when the panel is empty.
func (e *Evidence) Current() []model.RetrievedChunk {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.current)
}

// Select shows the evidence of a clicked message. Messages without chunks are ignored.
func (e *Evidence) Select(msg model.ChatMessage) bool {
	if len(msg.RetrievedChunks) == 0 {
		return false
	}
	e.set(msg.RetrievedChunks)
	return true
}

// FromStream shows chunks attached by a live metadata event.
func (e *Evidence) FromStream(chunks []model.RetrievedChunk) {
	if len(chunks) == 0 {
		return
	}
	e.set(chunks)
}

// FromHistory shows the chunks of the last assistant message that has any,
// scanning loaded history from the end. It reports whether one was found.
func (e *Evidence) FromHistory(messages []model.ChatMessage) bool {
	for i := len(messages) - 1; i >= 0; i-- {
		m := messages[i]
		if m.Role == model.RoleAssistant && len(m.RetrievedChunks) > 0 {
			e.set(m.RetrievedChunks)
			return true
		}
	}
	return false
}

// Clear hides the panel.
func (e *Evidence) Clear() {
	e.mu.Lock()
	wasSet := e.current != nil
	e.current = nil
	e.mu.Unlock()

	if wasSet {
		e.sig.publish(Event{Kind: EventEvidenceChanged})
	}
}

func (e *Evidence) set(chunks []model.RetrievedChunk) {
	cp := slices.Clone(chunks)
	e.mu.Lock()
	e.current = cp
	e.mu.Unlock()
	e.sig.publish(Event{Kind: EventEvidenceChanged, Evidence: cp})
}
