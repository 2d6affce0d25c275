package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/cortivus/chat-api/internal/config"
	"github.com/cortivus/chat-api/internal/database"
	"github.com/cortivus/chat-api/internal/llm"
	"github.com/cortivus/chat-api/internal/model"
	"github.com/cortivus/chat-api/internal/retrieval"
	"github.com/cortivus/chat-api/internal/service"
)

// newTestServer wires a full server with an empty API key, so the generation
// client falls back to its apology string without touching the network.
func newTestServer(t *testing.T) *HTTPServer {
	t.Helper()

	cfg := &config.Config{
		Server:    config.ServerConfig{Port: 0},
		CORS:      config.CORSConfig{AllowedOrigin: "https://cortivus.github.io"},
		LLM:       llm.Config{Model: "minimax-m1"},
		Retrieval: config.RetrievalConfig{CacheTTL: retrieval.DefaultCacheTTL, DefaultMode: "policy"},
	}

	db, err := database.Open(filepath.Join(t.TempDir(), "server_test.db"))
	if err != nil {
		t.Fatal(err)
	}

	retriever := retrieval.NewRetriever(retrieval.NewQueryCache(cfg.Retrieval.CacheTTL))
	return NewHTTPServer(cfg, retriever, llm.NewClient(&cfg.LLM), service.NewChatLogService(db))
}

func doChat(t *testing.T, s *HTTPServer, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func TestChatMissingMessage(t *testing.T) {
	s := newTestServer(t)

	w := doChat(t, s, `{"mode": "policy"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var resp model.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error != "No message provided" {
		t.Errorf("unexpected error: %q", resp.Error)
	}
}

func TestChatInvalidBody(t *testing.T) {
	s := newTestServer(t)

	w := doChat(t, s, `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestChatUnknownMode(t *testing.T) {
	s := newTestServer(t)

	w := doChat(t, s, `{"message": "hi", "mode": "nope"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestChatDefaultModeWithSources(t *testing.T) {
	s := newTestServer(t)

	w := doChat(t, s, `{"message": "tell me about privacy and my account"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp model.ChatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Response == "" {
		t.Error("response text must never be empty")
	}
	want := []string{
		"Privacy Policy - Information Collection",
		"Terms of Service - Account Registration",
	}
	if len(resp.Sources) != len(want) {
		t.Fatalf("expected sources %v, got %v", want, resp.Sources)
	}
	for i := range want {
		if resp.Sources[i] != want[i] {
			t.Errorf("source %d: expected %q, got %q", i, want[i], resp.Sources[i])
		}
	}
	if _, err := time.Parse(time.RFC3339, resp.Timestamp); err != nil {
		t.Errorf("timestamp is not RFC3339: %q", resp.Timestamp)
	}
}

func TestChatDemoModeShortCircuits(t *testing.T) {
	s := newTestServer(t)

	w := doChat(t, s, `{"message": "hello", "mode": "bar"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp model.ChatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Sources) != 0 {
		t.Errorf("demo modes cite no sources, got %v", resp.Sources)
	}
	if resp.Response == "" {
		t.Error("demo modes must return their canned reply")
	}
}

func TestPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://cortivus.github.io" {
		t.Errorf("unexpected allowed origin: %q", got)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestTranslateHistory(t *testing.T) {
	turns := translateHistory([]HistoryMessage{
		{Type: "user", Text: "question"},
		{Type: "bot", Text: "answer"},
		{Type: "system", Text: "dropped"},
	})

	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].Role != llm.RoleUser || turns[0].Content != "question" {
		t.Errorf("user turn mangled: %+v", turns[0])
	}
	if turns[1].Role != llm.RoleAssistant || turns[1].Content != "answer" {
		t.Errorf("bot turn mangled: %+v", turns[1])
	}
}

func TestExtractSources(t *testing.T) {
	docs := []retrieval.Document{
		{Source: "A"},
		{Source: "B"},
		{Source: "A"},
		{Source: ""},
	}

	sources := extractSources(docs)

	if len(sources) != 2 || sources[0] != "A" || sources[1] != "B" {
		t.Errorf("expected [A B] in first-occurrence order, got %v", sources)
	}
}
