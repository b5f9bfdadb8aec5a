package stream

import (
	"encoding/json"
	"fmt"
	"strings"

	"omnirag/console/internal/model"
)

// DataPrefix marks a line that carries a JSON event payload.
const DataPrefix = "data: "

// EventType is the discriminator carried in the "type" field of every payload.
type EventType string

const (
	EventContent  EventType = "content"
	EventMetadata EventType = "metadata"
	EventLog      EventType = "log"
	EventDone     EventType = "done"
	EventError    EventType = "error"
)

// Event is one decoded chat-stream event. The concrete type is one of
// ContentEvent, MetadataEvent, LogEvent, DoneEvent, ErrorEvent or UnknownEvent.
type Event interface {
	Type() EventType
}

// ContentEvent carries a fragment of the assistant reply.
type ContentEvent struct {
	Content string
}

// MetadataEvent carries the retrieval annotations for the reply in progress.
type MetadataEvent struct {
	Sources         []string
	RetrievedChunks []model.RetrievedChunk
	AgentLogs       []model.AgentLog
	Reasoning       string
	SearchQuery     string
	SessionID       string
}

// LogEvent carries one pipeline step emitted before the reply starts.
type LogEvent struct {
	Log model.AgentLog
}

// DoneEvent is the explicit end-of-reply marker.
type DoneEvent struct{}

// ErrorEvent is sent by the backend when generation failed mid-stream.
type ErrorEvent struct {
	Message string
}

// UnknownEvent keeps payloads with a discriminator this client does not know.
type UnknownEvent struct {
	Kind string
	Raw  json.RawMessage
}

func (ContentEvent) Type() EventType  { return EventContent }
func (MetadataEvent) Type() EventType { return EventMetadata }
func (LogEvent) Type() EventType      { return EventLog }
func (DoneEvent) Type() EventType     { return EventDone }
func (ErrorEvent) Type() EventType    { return EventError }
func (e UnknownEvent) Type() EventType {
	return EventType(e.Kind)
}

// wirePayload mirrors every field any event variant may carry.
type wirePayload struct {
	Type            string                 `json:"type"`
	Content         string                 `json:"content"`
	Sources         []string               `json:"sources"`
	RetrievedChunks []model.RetrievedChunk `json:"retrieved_chunks"`
	AgentLogs       []model.AgentLog       `json:"agent_logs"`
	Reasoning       string                 `json:"reasoning"`
	SearchQuery     string                 `json:"search_query"`
	SessionID       string                 `json:"session_id"`
	Log             *model.AgentLog        `json:"log"`
	Message         string                 `json:"message"`
	Error           string                 `json:"error"`
}

// ParseLine decodes a single line of the stream.
//
// Lines that do not start with DataPrefix are not events and return ok=false.
// A data line whose payload is not valid JSON returns an error; callers skip it.
func ParseLine(line string) (ev Event, ok bool, err error) {
	if !strings.HasPrefix(line, DataPrefix) {
		return nil, false, nil
	}
	ev, err = ParsePayload([]byte(strings.TrimPrefix(line, DataPrefix)))
	if err != nil {
		return nil, false, err
	}
	return ev, true, nil
}

// ParsePayload decodes the JSON body of a data line.
func ParsePayload(data []byte) (Event, error) {
	var p wirePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("could not decode stream payload: %w", err)
	}

	switch EventType(p.Type) {
	case EventContent:
		return ContentEvent{Content: p.Content}, nil
	case EventMetadata:
		return MetadataEvent{
			Sources:         p.Sources,
			RetrievedChunks: p.RetrievedChunks,
			AgentLogs:       p.AgentLogs,
			Reasoning:       p.Reasoning,
			SearchQuery:     p.SearchQuery,
			SessionID:       p.SessionID,
		}, nil
	case EventLog:
		if p.Log == nil {
			return LogEvent{}, nil
		}
		return LogEvent{Log: *p.Log}, nil
	case EventDone:
		return DoneEvent{}, nil
	case EventError:
		msg := p.Message
		if msg == "" {
			msg = p.Error
		}
		return ErrorEvent{Message: msg}, nil
	default:
		return UnknownEvent{Kind: p.Type, Raw: append(json.RawMessage(nil), data...)}, nil
	}
}
