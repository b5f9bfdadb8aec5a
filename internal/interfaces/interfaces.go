package interfaces

import (
	"context"

	"omnirag/console/internal/conversation"
	"omnirag/console/internal/model"
	"omnirag/console/internal/service"
)

// This file defines the interfaces for our core services.
// The API layer and the CLI depend on these instead of the concrete types.

// ChatService defines the contract for driving bot chat views.
type ChatService interface {
	Open(ctx context.Context, botID string, opts ...conversation.Option) (*conversation.ConversationState, error)
	Close(botID string) error
	State(botID string) (*conversation.ConversationState, error)
	Send(ctx context.Context, botID, text string) error
	NewChat(botID string) error
	SelectSession(ctx context.Context, botID, sessionID string) error
	SelectEvidence(botID, messageID string) (bool, error)
	DeleteSession(ctx context.Context, botID, sessionID string) error
	ClearHistory(ctx context.Context, botID string) error
	Subscribe(botID string, buffer int) (<-chan conversation.Event, func(), error)
	ListSessions(ctx context.Context, botID string, limit int) ([]model.Session, error)
	GetHistory(ctx context.Context, botID, sessionID string, limit int) ([]model.ChatMessage, error)
}

// AuthService defines the contract for managing the backend bearer token.
type AuthService interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
	Status(ctx context.Context) (*service.TokenStatus, error)
}

var (
	_ ChatService = (*service.ChatService)(nil)
	_ AuthService = (*service.AuthService)(nil)
)
