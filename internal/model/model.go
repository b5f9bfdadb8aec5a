package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Role identifies the author of a chat turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// WelcomeMessageID is the id of the synthetic greeting seeded from the bot config.
// It is never sent back to the backend as conversation history.
const WelcomeMessageID = "welcome"

// Bot is the subset of the bot record the chat console needs.
type Bot struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	IsActive bool      `json:"is_active,omitempty"`
	Config   BotConfig `json:"config"`
}

// BotConfig holds the per-bot settings relevant to chatting.
type BotConfig struct {
	LLMModel       string `json:"llm_model,omitempty"`
	Model          string `json:"model,omitempty"`
	WelcomeMessage string `json:"welcome_message,omitempty"`
}

// ModelName returns the configured LLM model, preferring llm_model over its alias.
func (c BotConfig) ModelName() string {
	if c.LLMModel != "" {
		return c.LLMModel
	}
	return c.Model
}

// Session is a persisted conversation thread scoped to one bot.
// Title is computed by the backend and stays empty until it is.
type Session struct {
	ID        string `json:"id"`
	Title     string `json:"title,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// RetrievedChunk is one retrieval result used to ground an assistant reply.
type RetrievedChunk struct {
	Text        string         `json:"text" yaml:"text"`
	Source      string         `json:"source" yaml:"source"`
	Score       float64        `json:"score,omitempty" yaml:"score,omitempty"`
	HybridScore float64        `json:"hybrid_score,omitempty" yaml:"hybrid_score,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Highlights  []string       `json:"highlights,omitempty" yaml:"highlights,omitempty"`
}

// AgentLog is a single step of the backend's retrieval pipeline.
type AgentLog struct {
	Step        string `json:"step" yaml:"step"`
	Description string `json:"description" yaml:"description"`
	Status      string `json:"status,omitempty" yaml:"status,omitempty"`
	Timestamp   string `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}

// ChatMessage is one turn in a conversation.
type ChatMessage struct {
	ID              string           `json:"id" yaml:"id"`
	MessageID       string           `json:"message_id,omitempty" yaml:"message_id,omitempty"`
	Role            Role             `json:"role" yaml:"role"`
	Content         string           `json:"content" yaml:"content"`
	Timestamp       Timestamp        `json:"timestamp" yaml:"timestamp"`
	Sources         []string         `json:"sources,omitempty" yaml:"sources,omitempty"`
	RetrievedChunks []RetrievedChunk `json:"retrieved_chunks,omitempty" yaml:"retrieved_chunks,omitempty"`
	AgentLogs       []AgentLog       `json:"agent_logs,omitempty" yaml:"agent_logs,omitempty"`
	Reasoning       string           `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`
	SearchQuery     string           `json:"search_query,omitempty" yaml:"search_query,omitempty"`
}

// Pending reports whether the message is an assistant turn with nothing to show yet.
// Pending turns render as a typing indicator instead of a bubble.
func (m ChatMessage) Pending() bool {
	return m.Role == RoleAssistant && m.Content == "" && len(m.RetrievedChunks) == 0
}

// HistoryTurn is the compact {role, content} form sent as context with a new message.
type HistoryTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatStreamRequest is the body of POST /bots/{botId}/chat-stream.
type ChatStreamRequest struct {
	Message   string        `json:"message"`
	SessionID string        `json:"session_id"`
	History   []HistoryTurn `json:"history"`
}

// Timestamp is a message time as sent by the backend. History timestamps are
// ISO 8601 without a zone ("2025-05-01T12:00:00.123000"); those are read as UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp parses RFC 3339 or a zoneless ISO 8601 date-time.
func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("invalid timestamp %q", s)
}

// NewTimestamp wraps t, dropping its monotonic reading.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.Round(0)}
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if s == "" {
		*t = Timestamp{}
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

func (t Timestamp) MarshalYAML() (interface{}, error) {
	if t.IsZero() {
		return "", nil
	}
	return t.UTC().Format(time.RFC3339Nano), nil
}
