package conversation

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omnirag/console/internal/model"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIDGenerator_Pair(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)

	t.Run("assistant id is user id plus one", func(t *testing.T) {
		gen := NewIDGenerator(fixedClock(now))

		userID, assistantID := gen.Pair()

		assert.Equal(t, "1700000000000", userID)
		assert.Equal(t, "1700000000001", assistantID)
	})

	t.Run("pairs in the same millisecond never collide", func(t *testing.T) {
		gen := NewIDGenerator(fixedClock(now))
		seen := map[string]bool{}
		var last int64

		for i := 0; i < 100; i++ {
			userID, assistantID := gen.Pair()
			require.NotEqual(t, userID, assistantID)

			u, err := strconv.ParseInt(userID, 10, 64)
			require.NoError(t, err)
			a, err := strconv.ParseInt(assistantID, 10, 64)
			require.NoError(t, err)
			assert.Greater(t, u, last)
			assert.Equal(t, u+1, a)
			last = a

			assert.False(t, seen[userID])
			assert.False(t, seen[assistantID])
			seen[userID], seen[assistantID] = true, true
		}
	})

	t.Run("concurrent callers get distinct ids", func(t *testing.T) {
		gen := NewIDGenerator(fixedClock(now))
		var mu sync.Mutex
		seen := map[string]bool{}
		var wg sync.WaitGroup

		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				userID, assistantID := gen.Pair()
				mu.Lock()
				defer mu.Unlock()
				seen[userID] = true
				seen[assistantID] = true
			}()
		}
		wg.Wait()

		assert.Len(t, seen, 40)
	})
}

func TestNewSessionID(t *testing.T) {
	t.Run("uses the uuid generator", func(t *testing.T) {
		want := uuid.MustParse("7b0f3c1e-4d7a-4a45-9b1c-2f6d8e9a0b11")

		id := newSessionID(func() (uuid.UUID, error) { return want, nil })

		assert.Equal(t, want.String(), id)
	})

	t.Run("falls back to base-36 segments", func(t *testing.T) {
		id := newSessionID(func() (uuid.UUID, error) { return uuid.Nil, assert.AnError })

		assert.NotEmpty(t, id)
		assert.LessOrEqual(t, len(id), 26)
		assert.Regexp(t, `^[0-9a-z]+$`, id)
	})
}

func TestLog(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	newLog := func() *Log { return NewLog(NewIDGenerator(fixedClock(now)), fixedClock(now)) }

	t.Run("AppendPair appends user then pending placeholder", func(t *testing.T) {
		l := newLog()

		user, assistant := l.AppendPair("hello")

		msgs := l.Snapshot()
		require.Len(t, msgs, 2)
		assert.Equal(t, user, msgs[0])
		assert.Equal(t, assistant, msgs[1])
		assert.Equal(t, model.RoleUser, msgs[0].Role)
		assert.Equal(t, "hello", msgs[0].Content)
		assert.Equal(t, model.RoleAssistant, msgs[1].Role)
		assert.True(t, msgs[1].Pending())
		assert.NotEqual(t, msgs[0].ID, msgs[1].ID)
	})

	t.Run("repeated sends keep append order", func(t *testing.T) {
		l := newLog()
		l.ReplaceAll([]model.ChatMessage{{ID: model.WelcomeMessageID, Role: model.RoleAssistant, Content: "Hi!"}})

		for i := 0; i < 3; i++ {
			l.AppendPair("q" + strconv.Itoa(i))
		}

		msgs := l.Snapshot()
		require.Len(t, msgs, 7)
		for i := 0; i < 3; i++ {
			assert.Equal(t, model.RoleUser, msgs[1+2*i].Role)
			assert.Equal(t, "q"+strconv.Itoa(i), msgs[1+2*i].Content)
			assert.Equal(t, model.RoleAssistant, msgs[2+2*i].Role)
		}
	})

	t.Run("Patch updates in place and ignores unknown ids", func(t *testing.T) {
		l := newLog()
		_, assistant := l.AppendPair("hello")

		got, ok := l.Patch(assistant.ID, func(m model.ChatMessage) model.ChatMessage {
			m.Content = "hi"
			return m
		})
		require.True(t, ok)
		assert.Equal(t, "hi", got.Content)

		_, ok = l.Patch("missing", func(m model.ChatMessage) model.ChatMessage {
			t.Fatal("updater must not run for unknown ids")
			return m
		})
		assert.False(t, ok)
		assert.Len(t, l.Snapshot(), 2)
	})

	t.Run("RemoveByID drops only the matching message", func(t *testing.T) {
		l := newLog()
		user, assistant := l.AppendPair("hello")

		assert.True(t, l.RemoveByID(assistant.ID))
		assert.False(t, l.RemoveByID(assistant.ID))

		msgs := l.Snapshot()
		require.Len(t, msgs, 1)
		assert.Equal(t, user.ID, msgs[0].ID)
	})

	t.Run("Snapshot is a copy", func(t *testing.T) {
		l := newLog()
		l.AppendPair("hello")

		snap := l.Snapshot()
		snap[0].Content = "changed"

		assert.Equal(t, "hello", l.Snapshot()[0].Content)
	})
}
