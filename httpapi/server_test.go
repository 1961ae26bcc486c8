package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/meikuraledutech/assistant"
	"github.com/meikuraledutech/assistant/agent"
	"github.com/meikuraledutech/assistant/memory"
	"github.com/meikuraledutech/assistant/service"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeProvider struct {
	fail bool
}

func (f *fakeProvider) Send(_ context.Context, _ assistant.Rules, prompt string) (*assistant.Result, error) {
	if strings.HasPrefix(prompt, "Generate a concise") {
		return &assistant.Result{Content: "Greeting Chat"}, nil
	}
	if f.fail {
		return nil, errors.Wrap(assistant.ErrModel, "upstream unavailable")
	}
	return &assistant.Result{Content: "Hi! I'm here to help.", Usage: assistant.Usage{TotalTokens: 9}}, nil
}

func (f *fakeProvider) Model() string    { return "gemini-2.5-flash" }
func (f *fakeProvider) Configured() bool { return !f.fail }

func newTestServer(t *testing.T, p *fakeProvider) *httptest.Server {
	t.Helper()
	a, err := agent.New(p)
	require.NoError(t, err)
	srv := httptest.NewServer(NewServer(service.New(memory.New(), a)).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func TestConversationLifecycle(t *testing.T) {
	srv := newTestServer(t, &fakeProvider{})

	resp, body := do(t, srv, http.MethodPost, "/api/conversations", `{"title":"Test"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	conv := decode[assistant.Conversation](t, body)
	assert.Equal(t, int64(1), conv.ID)
	assert.Equal(t, "Test", conv.Title)
	assert.Nil(t, conv.UserID)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, body = do(t, srv, http.MethodPost, "/api/conversations/1/messages", `{"role":"user","content":"Hello"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	ex := decode[map[string]json.RawMessage](t, body)
	require.Contains(t, ex, "userMessage")
	require.Contains(t, ex, "aiMessage")
	require.Contains(t, ex, "conversation")

	aiMsg := decode[assistant.Message](t, ex["aiMessage"])
	assert.Equal(t, int64(2), aiMsg.ID)
	assert.Equal(t, assistant.RoleAssistant, aiMsg.Role)
	assert.Equal(t, "Hi! I'm here to help.", aiMsg.Content)
	assert.Equal(t, float64(9), aiMsg.Metadata["tokensUsed"])
	assert.Equal(t, "Greeting Chat", decode[assistant.Conversation](t, ex["conversation"]).Title)

	resp, body = do(t, srv, http.MethodGet, "/api/conversations/1/messages", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	msgs := decode[[]assistant.Message](t, body)
	require.Len(t, msgs, 2)
	assert.Equal(t, "Hello", msgs[0].Content)

	resp, body = do(t, srv, http.MethodGet, "/api/conversations/1/session", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = do(t, srv, http.MethodGet, "/api/conversations", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]assistant.Conversation](t, body), 1)

	resp, body = do(t, srv, http.MethodDelete, "/api/conversations/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"success":true}`, string(body))

	resp, body = do(t, srv, http.MethodGet, "/api/conversations/1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Conversation not found"}`, string(body))

	resp, body = do(t, srv, http.MethodGet, "/api/conversations/1/messages", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))

	resp, _ = do(t, srv, http.MethodDelete, "/api/conversations/1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOwnerFilter(t *testing.T) {
	srv := newTestServer(t, &fakeProvider{})

	do(t, srv, http.MethodPost, "/api/conversations", `{"title":"mine","userId":5}`)
	do(t, srv, http.MethodPost, "/api/conversations", `{"title":"other"}`)

	resp, body := do(t, srv, http.MethodGet, "/api/conversations?userId=5", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	convs := decode[[]assistant.Conversation](t, body)
	require.Len(t, convs, 1)
	assert.Equal(t, "mine", convs[0].Title)

	resp, _ = do(t, srv, http.MethodGet, "/api/conversations?userId=abc", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBadRequests(t *testing.T) {
	srv := newTestServer(t, &fakeProvider{})
	do(t, srv, http.MethodPost, "/api/conversations", `{"title":"Test"}`)

	cases := []struct {
		name, method, path, body string
		wantError                string
	}{
		{"non numeric id", http.MethodGet, "/api/conversations/abc", "", "Invalid conversation ID"},
		{"missing title", http.MethodPost, "/api/conversations", `{}`, "Invalid conversation data"},
		{"malformed body", http.MethodPost, "/api/conversations", `{"title":`, "Invalid conversation data"},
		{"assistant role", http.MethodPost, "/api/conversations/1/messages", `{"role":"assistant","content":"x"}`, "Only user messages are allowed via this endpoint"},
		{"unknown role", http.MethodPost, "/api/conversations/1/messages", `{"role":"system","content":"x"}`, "Invalid message data"},
		{"empty content", http.MethodPost, "/api/conversations/1/messages", `{"role":"user","content":""}`, "Invalid message data"},
		{"empty analysis", http.MethodPost, "/api/agent/analyze", `{"content":""}`, "Invalid analysis request"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := do(t, srv, tc.method, tc.path, tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))
			got := decode[errorBody](t, body)
			assert.Equal(t, tc.wantError, got.Error)
		})
	}
}

func TestPostMessageUnknownConversation(t *testing.T) {
	srv := newTestServer(t, &fakeProvider{})
	resp, body := do(t, srv, http.MethodPost, "/api/conversations/42/messages", `{"role":"user","content":"hi"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Conversation not found"}`, string(body))
}

func TestPostMessageAgentFailure(t *testing.T) {
	srv := newTestServer(t, &fakeProvider{fail: true})
	do(t, srv, http.MethodPost, "/api/conversations", `{"title":"Test"}`)

	resp, body := do(t, srv, http.MethodPost, "/api/conversations/1/messages", `{"role":"user","content":"hi"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	got := decode[errorBody](t, body)
	assert.Equal(t, "Failed to process message", got.Error)
	assert.Contains(t, got.Message, "upstream unavailable")

	resp, body = do(t, srv, http.MethodGet, "/api/conversations/1/messages", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]assistant.Message](t, body), 1)
}

func TestAgentStatus(t *testing.T) {
	srv := newTestServer(t, &fakeProvider{})
	resp, body := do(t, srv, http.MethodGet, "/api/agent/status", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{
		"status": "connected",
		"connected": true,
		"agent": "KOOMENJUE",
		"model": "gemini-2.5-flash",
		"capabilities": ["conversational AI", "code assistance", "technical guidance", "problem solving"]
	}`, string(body))

	srv = newTestServer(t, &fakeProvider{fail: true})
	_, body = do(t, srv, http.MethodGet, "/api/agent/status", "")
	assert.Equal(t, "disconnected", decode[agent.Status](t, body).Status)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &fakeProvider{})
	resp, body := do(t, srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestRequestIDIsPropagated(t *testing.T) {
	srv := newTestServer(t, &fakeProvider{})
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))
}

func TestFormatLogLine(t *testing.T) {
	line := formatLogLine("GET", "/api/agent/status", 200, 3*time.Millisecond, nil)
	assert.Equal(t, "GET /api/agent/status 200 in 3ms", line)

	line = formatLogLine("GET", "/api/conversations", 200, 12*time.Millisecond, []byte(`[{"id":1,"title":"A very long conversation title that will not fit"}]`+"\n"))
	assert.Equal(t, 80, utf8.RuneCountInString(line))
	assert.True(t, strings.HasPrefix(line, "GET /api/conversations 200 in 12ms :: [{\"id\":1"))
	assert.True(t, strings.HasSuffix(line, "…"))
}
