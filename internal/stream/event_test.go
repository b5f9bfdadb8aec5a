package stream_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omnirag/console/internal/stream"
)

func TestParseLine(t *testing.T) {
	testCases := []struct {
		name     string
		line     string
		wantOK   bool
		wantErr  bool
		wantType stream.EventType
	}{
		{name: "Content", line: `data: {"type":"content","content":"hi"}`, wantOK: true, wantType: stream.EventContent},
		{name: "Done", line: `data: {"type":"done"}`, wantOK: true, wantType: stream.EventDone},
		{name: "Log", line: `data: {"type":"log","log":{"step":"Vectorization"}}`, wantOK: true, wantType: stream.EventLog},
		{name: "Error", line: `data: {"type":"error","message":"quota"}`, wantOK: true, wantType: stream.EventError},
		{name: "Unknown type", line: `data: {"type":"usage","tokens":3}`, wantOK: true, wantType: "usage"},
		{name: "Missing prefix", line: `{"type":"content"}`, wantOK: false},
		{name: "Prefix without space", line: `data:{"type":"content"}`, wantOK: false},
		{name: "Empty", line: "", wantOK: false},
		{name: "Bad JSON", line: "data: {oops", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ev, ok, err := stream.ParseLine(tc.line)
			if tc.wantErr {
				assert.Error(t, err)
				assert.False(t, ok)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.Equal(t, tc.wantType, ev.Type())
			}
		})
	}
}

func TestParsePayload_Metadata(t *testing.T) {
	ev, err := stream.ParsePayload([]byte(`{
		"type": "metadata",
		"sources": ["policy.pdf"],
		"retrieved_chunks": [{"text": "Refunds within 30 days", "source": "policy.pdf", "score": 0.91, "metadata": {}}],
		"agent_logs": [{"step": "Knowledge Retrieval", "description": "Searching"}],
		"reasoning": "1 segment",
		"search_query": "refund policy",
		"session_id": "s-1"
	}`))
	require.NoError(t, err)

	md, ok := ev.(stream.MetadataEvent)
	require.True(t, ok)
	assert.Equal(t, []string{"policy.pdf"}, md.Sources)
	require.Len(t, md.RetrievedChunks, 1)
	assert.Equal(t, "policy.pdf", md.RetrievedChunks[0].Source)
	assert.InDelta(t, 0.91, md.RetrievedChunks[0].Score, 1e-9)
	assert.Equal(t, "Knowledge Retrieval", md.AgentLogs[0].Step)
	assert.Equal(t, "refund policy", md.SearchQuery)
	assert.Equal(t, "s-1", md.SessionID)
}

func TestParsePayload_ErrorFallsBackToErrorField(t *testing.T) {
	ev, err := stream.ParsePayload([]byte(`{"type":"error","error":"upstream timeout"}`))
	require.NoError(t, err)
	assert.Equal(t, stream.ErrorEvent{Message: "upstream timeout"}, ev)
}
