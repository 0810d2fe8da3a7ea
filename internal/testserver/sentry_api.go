// Package testserver runs the whole tool stack against a fake Sentry API.
package testserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Organization is the org slug every fixture lives under.
const Organization = "acme"

type response struct {
	status int
	body   string
}

// SentryAPI is a fake Sentry REST API (plus an OpenAI-compatible completion
// endpoint) serving canned JSON by exact path.
type SentryAPI struct {
	Server *httptest.Server

	mu         sync.Mutex
	routes     map[string]response
	hits       map[string]int
	modelReply string
	prompts    []string
}

// NewSentryAPI starts a fake API loaded with DefaultFixtures.
func NewSentryAPI(t *testing.T) *SentryAPI {
	t.Helper()

	api := &SentryAPI{
		routes: map[string]response{},
		hits:   map[string]int{},
	}
	for path, body := range DefaultFixtures() {
		api.routes[path] = response{status: http.StatusOK, body: body}
	}
	api.Server = httptest.NewServer(http.HandlerFunc(api.serve))
	t.Cleanup(api.Server.Close)
	return api
}

// URL is the host to configure the Sentry client with.
func (a *SentryAPI) URL() string {
	return a.Server.URL
}

// Respond replaces the response served for path.
func (a *SentryAPI) Respond(path string, status int, body string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.routes[path] = response{status: status, body: body}
}

// SetModelReply sets the text returned by the completion endpoint.
func (a *SentryAPI) SetModelReply(reply string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.modelReply = reply
}

// Hits reports how many requests path received.
func (a *SentryAPI) Hits(path string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hits[path]
}

// Prompts returns every prompt sent to the completion endpoint.
func (a *SentryAPI) Prompts() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.prompts...)
}

func (a *SentryAPI) serve(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	a.hits[r.URL.Path]++
	resp, ok := a.routes[r.URL.Path]
	a.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if r.URL.Path == CompletionPath {
		a.complete(w, r)
		return
	}
	if r.Header.Get("Authorization") != "Bearer "+Token {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Invalid token"}`))
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"The requested resource does not exist"}`))
		return
	}
	w.WriteHeader(resp.status)
	_, _ = w.Write([]byte(resp.body))
}

func (a *SentryAPI) complete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Messages []struct {
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"bad request","type":"invalid_request_error"}}`))
		return
	}

	a.mu.Lock()
	for _, m := range req.Messages {
		a.prompts = append(a.prompts, m.Content)
	}
	reply := a.modelReply
	a.mu.Unlock()

	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": reply},
			"finish_reason": "stop",
		}},
	})
}

func decodeJSON(text string, out any) error {
	return json.Unmarshal([]byte(text), out)
}
