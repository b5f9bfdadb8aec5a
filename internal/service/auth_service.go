package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	app_errors "omnirag/console/internal/errors"
	"omnirag/console/internal/repository"
)

const accessTokenKey = "access_token"

// TokenStatus reports whether a bearer token is configured and where it comes from.
type TokenStatus struct {
	Configured bool   `json:"configured"`
	Source     string `json:"source" example:"store" enums:"env,store,none"`
}

// AuthService stores the bearer token used for backend calls.
// A token from the environment takes precedence over the stored one.
type AuthService struct {
	repo     repository.Repository
	override string
}

func NewAuthService(repo repository.Repository, override string) *AuthService {
	return &AuthService{repo: repo, override: strings.TrimSpace(override)}
}

// Token returns the current bearer token, or "" when none is configured.
func (s *AuthService) Token(ctx context.Context) (string, error) {
	if s.override != "" {
		return s.override, nil
	}
	token, err := s.repo.GetSetting(ctx, accessTokenKey)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("%w: could not read access token: %w", app_errors.ErrInternal, err)
	}
	return token, nil
}

// SetToken stores token for later sessions.
func (s *AuthService) SetToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("%w: token cannot be empty", app_errors.ErrValidation)
	}
	if err := s.repo.SetSetting(ctx, accessTokenKey, token); err != nil {
		return fmt.Errorf("%w: could not store access token: %w", app_errors.ErrInternal, err)
	}
	if s.override != "" {
		slog.Warn("Stored access token is shadowed by OMNIRAG_ACCESS_TOKEN")
	}
	slog.Info("Access token stored")
	return nil
}

// ClearToken removes the stored token. It is a no-op when none is stored.
func (s *AuthService) ClearToken(ctx context.Context) error {
	if err := s.repo.DeleteSetting(ctx, accessTokenKey); err != nil {
		return fmt.Errorf("%w: could not clear access token: %w", app_errors.ErrInternal, err)
	}
	slog.Info("Access token cleared")
	return nil
}

// Status describes the token configuration without revealing the token.
func (s *AuthService) Status(ctx context.Context) (*TokenStatus, error) {
	if s.override != "" {
		return &TokenStatus{Configured: true, Source: "env"}, nil
	}
	token, err := s.Token(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return &TokenStatus{Configured: false, Source: "none"}, nil
	}
	return &TokenStatus{Configured: true, Source: "store"}, nil
}
