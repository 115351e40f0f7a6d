package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/rosellabs/crmlens/internal/interfaces"
)

func TestChatEndpoint(t *testing.T) {
	chat := &mockChatService{chatFunc: func(ctx context.Context, req *interfaces.ChatRequest) (*interfaces.ChatResponse, error) {
		assert.Equal(t, "show top churn accounts", req.Query)
		return &interfaces.ChatResponse{
			Answer: "Churn or high-risk customers:\n1. Acme Corp",
			Route:  "rule",
			Mode:   interfaces.LLMModeDisabled,
		}, nil
	}}
	h := NewChatHandler(chat, arbor.NewLogger())

	body := strings.NewReader(`{"query": "show top churn accounts"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/chat", body)
	w := httptest.NewRecorder()
	h.Chat(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp interfaces.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Answer, "Acme Corp")
	assert.Equal(t, "rule", resp.Route)
}

func TestChatEndpointEmptyQuery(t *testing.T) {
	chat := &mockChatService{chatFunc: func(ctx context.Context, req *interfaces.ChatRequest) (*interfaces.ChatResponse, error) {
		t.Fatal("chat service must not be called for an empty query")
		return nil, nil
	}}
	h := NewChatHandler(chat, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"query": "  "}`))
	w := httptest.NewRecorder()
	h.Chat(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatEndpointInvalidJSON(t *testing.T) {
	h := NewChatHandler(&mockChatService{}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{not json`))
	w := httptest.NewRecorder()
	h.Chat(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatEndpointRequiresPost(t *testing.T) {
	h := NewChatHandler(&mockChatService{}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
	w := httptest.NewRecorder()
	h.Chat(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
