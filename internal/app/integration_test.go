package app

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// omniragStub plays the remote OmniRAG API for the full console workflow.
type omniragStub struct {
	mu       sync.Mutex
	deleted  []string
	badAuths int
}

func (s *omniragStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer workflow-token" {
		s.mu.Lock()
		s.badAuths++
		s.mu.Unlock()
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	switch {
	case r.URL.Path == "/api/v1/bots/bot-1":
		_, _ = w.Write([]byte(`{"id":"bot-1","name":"Support","config":{"welcome_message":"Hi! Ask me anything."}}`))
	case r.URL.Path == "/api/v1/bots/bot-1/sessions":
		_, _ = w.Write([]byte(`[{"id":"srv-1","title":"Refund policy"}]`))
	case r.URL.Path == "/api/v1/bots/bot-1/chat-stream":
		w.Header().Set("Content-Type", "text/event-stream")
		for _, line := range []string{
			`data: {"type":"log","log":{"step":"retrieve","description":"Searching documents"}}`,
			`data: {"type":"content","content":"Refunds within "}`,
			`data: {"type":"content","content":"30 days."}`,
			`data: {"type":"metadata","sources":["policy.pdf"],"retrieved_chunks":[{"text":"Refunds are accepted within 30 days.","source":"policy.pdf","score":0.9}],"agent_logs":[{"step":"retrieve","description":"Searching documents"}],"session_id":"srv-1"}`,
			`data: {"type":"done"}`,
		} {
			_, _ = fmt.Fprintf(w, "%s\n\n", line)
			w.(http.Flusher).Flush()
		}
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/api/v1/bots/bot-1/sessions/"):
		s.mu.Lock()
		s.deleted = append(s.deleted, strings.TrimPrefix(r.URL.Path, "/api/v1/bots/bot-1/sessions/"))
		s.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	return resp
}

func TestFullChatWorkflow(t *testing.T) {
	stub := &omniragStub{}
	backend := httptest.NewServer(stub)
	defer backend.Close()

	app, err := NewApp(testConfig(t, backend.URL))
	if err != nil {
		t.Fatalf("Failed to build app: %v", err)
	}
	defer app.Close()

	console := httptest.NewServer(app.Server.Handler)
	defer console.Close()
	baseAPIURL := console.URL + "/api/v1"

	var assistantID string

	t.Run("OpenViewWithoutToken", func(t *testing.T) {
		resp := do(t, http.MethodPost, baseAPIURL+"/bots/bot-1/view", "")
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("Expected status 401 without a token, got %d", resp.StatusCode)
		}
	})

	t.Run("StoreToken", func(t *testing.T) {
		resp := do(t, http.MethodPost, baseAPIURL+"/auth/token", `{"token":"workflow-token"}`)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected status 200 for token storage, got %d", resp.StatusCode)
		}
	})

	t.Run("OpenView", func(t *testing.T) {
		resp := do(t, http.MethodPost, baseAPIURL+"/bots/bot-1/view", "")
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected status 200 for mount, got %d", resp.StatusCode)
		}

		var state struct {
			Messages []map[string]any `json:"messages"`
			Sessions []map[string]any `json:"sessions"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
			t.Fatalf("Failed to decode state: %v", err)
		}
		if len(state.Messages) != 1 || state.Messages[0]["id"] != "welcome" {
			t.Fatalf("Expected only the welcome message, got %v", state.Messages)
		}
		if len(state.Sessions) != 1 {
			t.Fatalf("Expected 1 session, got %d", len(state.Sessions))
		}
	})

	t.Run("SendMessage", func(t *testing.T) {
		resp := do(t, http.MethodPost, baseAPIURL+"/bots/bot-1/messages", `{"message":"What is the refund policy?"}`)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected status 200 for send, got %d", resp.StatusCode)
		}

		scanner := bufio.NewScanner(resp.Body)
		finished := false
		sawContent := false
		for scanner.Scan() {
			line := scanner.Text()
			if strings.HasPrefix(line, "event: error") {
				t.Fatalf("Stream reported an error")
			}
			if !strings.HasPrefix(line, "data: ") {
				continue
			}
			if strings.Contains(line, "Refunds within 30 days.") {
				sawContent = true
			}
			if strings.Contains(line, `"kind":"send.finished"`) {
				if !strings.Contains(line, `"status":"ok"`) {
					t.Fatalf("Send did not finish ok: %s", line)
				}
				finished = true
				break
			}
		}
		if err := scanner.Err(); err != nil {
			t.Fatalf("Error reading stream: %v", err)
		}
		if !finished {
			t.Fatal("Stream ended without a send.finished event")
		}
		if !sawContent {
			t.Fatal("Stream never carried the accumulated reply")
		}
	})

	t.Run("GetState", func(t *testing.T) {
		resp := do(t, http.MethodGet, baseAPIURL+"/bots/bot-1/state", "")
		defer resp.Body.Close()

		var state struct {
			SessionID   string           `json:"session_id"`
			IsStreaming bool             `json:"is_streaming"`
			Messages    []map[string]any `json:"messages"`
			Evidence    []map[string]any `json:"evidence"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
			t.Fatalf("Failed to decode state: %v", err)
		}
		if state.SessionID != "srv-1" {
			t.Fatalf("Expected the server session to be adopted, got %q", state.SessionID)
		}
		if state.IsStreaming {
			t.Fatal("Expected streaming to be finished")
		}
		if len(state.Messages) != 3 {
			t.Fatalf("Expected welcome, user and assistant messages, got %d", len(state.Messages))
		}
		if len(state.Evidence) != 1 {
			t.Fatalf("Expected 1 evidence chunk, got %d", len(state.Evidence))
		}
		assistantID, _ = state.Messages[2]["id"].(string)
		if logs, _ := state.Messages[2]["agent_logs"].([]any); len(logs) != 1 {
			t.Fatalf("Expected 1 agent log, got %v", state.Messages[2]["agent_logs"])
		}
	})

	t.Run("SelectEvidence", func(t *testing.T) {
		if assistantID == "" {
			t.Fatal("Assistant ID not set from previous step")
		}
		resp := do(t, http.MethodPost, baseAPIURL+"/bots/bot-1/evidence/"+assistantID, "")
		defer resp.Body.Close()

		var body struct {
			Selected bool `json:"selected"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("Failed to decode evidence response: %v", err)
		}
		if !body.Selected {
			t.Fatal("Expected the assistant message to select evidence")
		}
	})

	t.Run("DeleteActiveSession", func(t *testing.T) {
		resp := do(t, http.MethodDelete, baseAPIURL+"/bots/bot-1/sessions/srv-1", "")
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected status 200 for deletion, got %d", resp.StatusCode)
		}

		resp = do(t, http.MethodGet, baseAPIURL+"/bots/bot-1/state", "")
		defer resp.Body.Close()
		var state struct {
			SessionID string           `json:"session_id"`
			Messages  []map[string]any `json:"messages"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
			t.Fatalf("Failed to decode state: %v", err)
		}
		if state.SessionID != "" || len(state.Messages) != 1 {
			t.Fatalf("Expected a fresh chat after deleting the active session, got %q with %d messages", state.SessionID, len(state.Messages))
		}

		stub.mu.Lock()
		defer stub.mu.Unlock()
		if len(stub.deleted) != 1 || stub.deleted[0] != "srv-1" {
			t.Fatalf("Expected srv-1 to be deleted upstream, got %v", stub.deleted)
		}
	})

	t.Run("CloseView", func(t *testing.T) {
		resp := do(t, http.MethodDelete, baseAPIURL+"/bots/bot-1/view", "")
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected status 200 for unmount, got %d", resp.StatusCode)
		}

		resp = do(t, http.MethodGet, baseAPIURL+"/bots/bot-1/state", "")
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("Expected status 404 after unmount, got %d", resp.StatusCode)
		}
	})
}
