package conversation

import (
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// IDGenerator hands out client-side message ids for optimistic turns.
//
// Ids are epoch-millisecond timestamps rendered as decimal strings. The
// assistant id of a pair is the user id plus one, and the next pair always
// starts after the previous assistant id, so ids stay unique and increasing
// even when many pairs are created within the same millisecond.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewIDGenerator creates a generator reading the wall clock through now.
func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Pair returns the ids for a user turn and the assistant placeholder that follows it.
func (g *IDGenerator) Pair() (userID, assistantID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms + 1
	return strconv.FormatInt(ms, 10), strconv.FormatInt(ms+1, 10)
}

// newSessionID synthesises a candidate session id for a conversation the
// backend has not seen yet. It prefers a random UUID from gen and falls back
// to two concatenated base-36 pseudo-random segments when gen fails.
func newSessionID(gen func() (uuid.UUID, error)) string {
	if gen != nil {
		if id, err := gen(); err == nil {
			return id.String()
		}
	}
	return randomSegment() + randomSegment()
}

func randomSegment() string {
	s := strconv.FormatUint(rand.Uint64(), 36)
	if len(s) > 13 {
		s = s[:13]
	}
	return s
}
