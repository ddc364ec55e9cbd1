package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chau0/multimind-chat/internal/api"
	"github.com/chau0/multimind-chat/internal/chat"
	"github.com/chau0/multimind-chat/internal/llm"
	"github.com/chau0/multimind-chat/internal/models"
	"github.com/chau0/multimind-chat/internal/store"
)

type stubProvider struct {
	reply string
	err   error
}

func (p *stubProvider) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return p.reply, nil
}

type testServer struct {
	server   *httptest.Server
	router   http.Handler
	store    *store.SQLiteStore
	provider *stubProvider
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := store.NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(st.Close)

	provider := &stubProvider{reply: "stub reply"}
	logger := zerolog.Nop()

	builder := chat.NewContextBuilder(st, 10)
	generator := chat.NewGenerator(provider, logger)
	chatService := chat.NewService(st, builder, generator, logger)

	router := api.NewRouter(logger, st, chatService)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{server: srv, router: router, store: st, provider: provider}
}

func (ts *testServer) seedAgent(t *testing.T, seed models.AgentSeed) *models.Agent {
	t.Helper()
	agent, err := ts.store.CreateAgent(context.Background(), seed)
	require.NoError(t, err)
	return agent
}

func (ts *testServer) postMessage(t *testing.T, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(ts.server.URL+"/chat/messages", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestListAgents(t *testing.T) {
	ts := newTestServer(t)
	ts.seedAgent(t, models.AgentSeed{Name: "Assistant", Description: "Helpful", Avatar: "🤖"})
	ts.seedAgent(t, models.AgentSeed{Name: "Coder", Description: "Programming expert", SystemPrompt: "You write code"})

	resp, err := http.Get(ts.server.URL + "/agents")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var agents []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&agents))
	require.Len(t, agents, 2)
	assert.Equal(t, "Assistant", agents[0]["name"])
	assert.Equal(t, "🤖", agents[0]["avatar"])
	_, hasPrompt := agents[0]["system_prompt"]
	assert.False(t, hasPrompt, "empty system_prompt is omitted")
	assert.Equal(t, "You write code", agents[1]["system_prompt"])
}

func TestSendMessageSuccess(t *testing.T) {
	ts := newTestServer(t)
	agent := ts.seedAgent(t, models.AgentSeed{Name: "Assistant", Description: "Helpful"})
	ts.provider.reply = "Hello! How can I help you today?"

	resp, body := ts.postMessage(t, `{"content": "@Assistant hello", "session_id": "s1"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Hello! How can I help you today?", body["content"])
	assert.Equal(t, float64(agent.ID), body["agent_id"])
	assert.Equal(t, "Assistant", body["agent_name"])
	assert.Equal(t, "s1", body["session_id"])
	assert.NotEmpty(t, body["timestamp"])
	assert.NotZero(t, body["id"])
}

func TestSendMessageNoMention(t *testing.T) {
	ts := newTestServer(t)
	ts.seedAgent(t, models.AgentSeed{Name: "Assistant"})

	resp, body := ts.postMessage(t, `{"content": "Hello", "session_id": "s1"}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["detail"], "no agent mentioned")
}

func TestSendMessageUnknownAgent(t *testing.T) {
	ts := newTestServer(t)
	ts.seedAgent(t, models.AgentSeed{Name: "Assistant"})

	resp, body := ts.postMessage(t, `{"content": "@Ghost hi", "session_id": "s1"}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["detail"], "not found")
	assert.Contains(t, body["detail"], "Ghost")
}

func TestSendMessageValidation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing content", `{"session_id": "s1"}`},
		{"blank content", `{"content": "   ", "session_id": "s1"}`},
		{"missing session_id", `{"content": "@Assistant hi"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := ts.postMessage(t, tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
			assert.NotEmpty(t, body["detail"])
		})
	}
}

func TestSendMessageMalformedJSON(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.postMessage(t, `{"content": `)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["detail"], "invalid JSON")
}

func TestSendMessageChunkedBodyTooLarge(t *testing.T) {
	ts := newTestServer(t)

	// With no Content-Length the size middleware cannot reject up front;
	// the body cap trips during decode and must surface as 413.
	payload := `{"content":"` + strings.Repeat("a", 2<<20) + `","session_id":"big"}`
	req := httptest.NewRequest(http.MethodPost, "/chat/messages", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.ContentLength = -1

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "request body too large", body["detail"])
}

func TestSendMessageProviderFailureStillReplies(t *testing.T) {
	ts := newTestServer(t)
	ts.seedAgent(t, models.AgentSeed{Name: "Coder", Description: "Programming expert"})
	ts.provider.err = errors.New("upstream timeout")

	sessionID := uuid.NewString()
	resp, body := ts.postMessage(t, `{"content": "@Coder write a loop", "session_id": "`+sessionID+`"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	reply, _ := body["content"].(string)
	assert.Contains(t, reply, "Coder")
	assert.Contains(t, reply, "I apologize")

	// Both the user message and the fallback reply were persisted.
	messages, err := ts.store.ListSessionMessages(context.Background(), sessionID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "@Coder write a loop", messages[0].Content)
	assert.Equal(t, reply, messages[1].Content)
}

func TestGetSessionMessages(t *testing.T) {
	ts := newTestServer(t)
	ts.seedAgent(t, models.AgentSeed{Name: "Assistant", Description: "Helpful"})
	ts.provider.reply = "first reply"

	_, first := ts.postMessage(t, `{"content": "@Assistant one", "session_id": "t1"}`)
	ts.provider.reply = "second reply"
	_, _ = ts.postMessage(t, `{"content": "@Assistant two", "session_id": "t1"}`)

	resp, err := http.Get(ts.server.URL + "/chat/sessions/t1/messages")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var transcript []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&transcript))
	require.Len(t, transcript, 4)

	assert.Equal(t, "@Assistant one", transcript[0]["content"])
	assert.Equal(t, true, transcript[0]["is_user"])
	assert.Nil(t, transcript[0]["agent_id"])

	assert.Equal(t, "first reply", transcript[1]["content"])
	assert.Equal(t, false, transcript[1]["is_user"])
	assert.Equal(t, first["agent_id"], transcript[1]["agent_id"])

	assert.Equal(t, "@Assistant two", transcript[2]["content"])
	assert.Equal(t, "second reply", transcript[3]["content"])
}

func TestGetSessionMessagesEmptySession(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.server.URL + "/chat/sessions/none/messages")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var transcript []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&transcript))
	assert.Empty(t, transcript)
}
