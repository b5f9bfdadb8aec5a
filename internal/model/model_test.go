package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"RFC3339 UTC", `"2025-05-01T12:00:00Z"`, time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)},
		{"RFC3339 with offset", `"2025-05-01T14:00:00.5+02:00"`, time.Date(2025, 5, 1, 12, 0, 0, 500_000_000, time.UTC)},
		{"zoneless with micros", `"2025-05-01T12:00:00.123000"`, time.Date(2025, 5, 1, 12, 0, 0, 123_000_000, time.UTC)},
		{"zoneless without fraction", `"2025-05-01T12:00:00"`, time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)},
		{"space separator", `"2025-05-01 12:00:00.1"`, time.Date(2025, 5, 1, 12, 0, 0, 100_000_000, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %s", ts.Time)
		})
	}

	t.Run("null and empty are zero", func(t *testing.T) {
		for _, in := range []string{`null`, `""`} {
			ts := NewTimestamp(time.Now())
			require.NoError(t, json.Unmarshal([]byte(in), &ts))
			assert.True(t, ts.IsZero(), in)
		}
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		var ts Timestamp
		assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
		assert.Error(t, json.Unmarshal([]byte(`12`), &ts))
	})
}

func TestChatMessage_DecodesBackendHistory(t *testing.T) {
	body := `[{"id":"x_u","role":"user","content":"q","timestamp":"2025-05-01T12:00:00.123000"},
		{"id":"x_a","message_id":"x","role":"assistant","content":"a","timestamp":"2025-05-01T12:00:01.000000"}]`

	var history []ChatMessage
	require.NoError(t, json.Unmarshal([]byte(body), &history))
	require.Len(t, history, 2)
	assert.Equal(t, 2025, history[0].Timestamp.Year())
	assert.True(t, history[0].Timestamp.Before(history[1].Timestamp.Time))
}

func TestTimestamp_Marshal(t *testing.T) {
	ts := NewTimestamp(time.Date(2025, 5, 1, 12, 0, 0, 123_000_000, time.UTC))

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2025-05-01T12:00:00.123Z"`, string(data))

	data, err = json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, `""`, string(data))

	out, err := yaml.Marshal(struct {
		At Timestamp `yaml:"at"`
	}{At: ts})
	require.NoError(t, err)
	assert.Contains(t, string(out), "2025-05-01T12:00:00.123Z")
}
