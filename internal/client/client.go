package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	app_errors "omnirag/console/internal/errors"
	"omnirag/console/internal/metrics"
	"omnirag/console/internal/model"
	"omnirag/console/internal/stream"
)

const apiPrefix = "/api/v1"

// TokenSource supplies the bearer token attached to every backend call.
// An empty token means the request is sent without an Authorization header.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Backend is the contract the chat console consumes from the OmniRAG API.
type Backend interface {
	GetBot(ctx context.Context, botID string) (*model.Bot, error)
	ListSessions(ctx context.Context, botID string, limit int) ([]model.Session, error)
	GetHistory(ctx context.Context, botID, sessionID string, limit int) ([]model.ChatMessage, error)
	DeleteSession(ctx context.Context, botID, sessionID string) error
	ClearHistory(ctx context.Context, botID string) error
	// ChatStream sends a message and calls fn for each event of the reply, in
	// arrival order. It returns when the stream ends, fails, or fn returns an error.
	ChatStream(ctx context.Context, botID string, req *model.ChatStreamRequest, fn func(stream.Event) error) error
}

type httpBackend struct {
	client       *http.Client
	streamClient *http.Client
	baseURL      string
	tokens       TokenSource
}

// NewHTTPBackend creates a Backend talking to the API at baseURL.
// timeout bounds ordinary calls; the chat stream is bounded only by its context.
func NewHTTPBackend(baseURL string, tokens TokenSource, timeout time.Duration) Backend {
	return &httpBackend{
		client:       &http.Client{Timeout: timeout},
		streamClient: &http.Client{},
		baseURL:      strings.TrimRight(baseURL, "/"),
		tokens:       tokens,
	}
}

// StatusError is returned when the backend answers with a non-2xx status.
// It unwraps to the sentinel matching the status code.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api returned non-2xx status %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return app_errors.ErrUnauthorized
	case http.StatusForbidden:
		return app_errors.ErrPermission
	case http.StatusNotFound:
		return app_errors.ErrNotFound
	default:
		return app_errors.ErrUnavailable
	}
}

func (b *httpBackend) GetBot(ctx context.Context, botID string) (*model.Bot, error) {
	var bot model.Bot
	if err := b.getJSON(ctx, botPath(botID), nil, &bot); err != nil {
		return nil, fmt.Errorf("could not get bot %s: %w", botID, err)
	}
	return &bot, nil
}

func (b *httpBackend) ListSessions(ctx context.Context, botID string, limit int) ([]model.Session, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var sessions []model.Session
	if err := b.getJSON(ctx, botPath(botID)+"/sessions", query, &sessions); err != nil {
		return nil, fmt.Errorf("could not list sessions: %w", err)
	}
	return sessions, nil
}

func (b *httpBackend) GetHistory(ctx context.Context, botID, sessionID string, limit int) ([]model.ChatMessage, error) {
	query := url.Values{}
	query.Set("session_id", sessionID)
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var messages []model.ChatMessage
	if err := b.getJSON(ctx, botPath(botID)+"/history", query, &messages); err != nil {
		return nil, fmt.Errorf("could not get history: %w", err)
	}
	return messages, nil
}

func (b *httpBackend) DeleteSession(ctx context.Context, botID, sessionID string) error {
	path := botPath(botID) + "/sessions/" + url.PathEscape(sessionID)
	if err := b.delete(ctx, path); err != nil {
		return fmt.Errorf("could not delete session %s: %w", sessionID, err)
	}
	return nil
}

func (b *httpBackend) ClearHistory(ctx context.Context, botID string) error {
	if err := b.delete(ctx, botPath(botID)+"/history"); err != nil {
		return fmt.Errorf("could not clear history: %w", err)
	}
	return nil
}

func (b *httpBackend) ChatStream(ctx context.Context, botID string, req *model.ChatStreamRequest, fn func(stream.Event) error) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("could not marshal request: %w", err)
	}

	httpReq, err := b.newRequest(ctx, http.MethodPost, botPath(botID)+"/chat-stream", nil, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := b.streamClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: stream request failed: %w", app_errors.ErrUnavailable, err)
	}
	defer func() {
		if cErr := resp.Body.Close(); cErr != nil {
			slog.Debug("Failed to close stream body", "error", cErr)
		}
	}()

	if err := checkStatus(resp); err != nil {
		return err
	}

	dec := stream.NewDecoder(resp.Body)
	err = dec.Decode(ctx, fn)
	if n := dec.Malformed(); n > 0 {
		metrics.MalformedLines.Add(float64(n))
	}
	return err
}

func (b *httpBackend) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := b.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: http request failed: %w", app_errors.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("could not decode response: %w", err)
	}
	return nil
}

func (b *httpBackend) delete(ctx context.Context, path string) error {
	req, err := b.newRequest(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: http request failed: %w", app_errors.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (b *httpBackend) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	endpoint := b.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("could not create http request: %w", err)
	}
	if b.tokens != nil {
		token, err := b.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("could not read access token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(bodyBytes))}
}

func botPath(botID string) string {
	return apiPrefix + "/bots/" + url.PathEscape(botID)
}
