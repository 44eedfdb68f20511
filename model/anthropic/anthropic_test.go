package anthropic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meghna-1234/game-strategy-ai/model"
)

const messageJSON = `{
  "id": "msg_01",
  "type": "message",
  "role": "assistant",
  "model": "claude-3-5-sonnet-20241022",
  "content": [
    {"type": "text", "text": "Trade when ahead."},
    {"type": "text", "text": "Keep your king safe."}
  ],
  "stop_reason": "end_turn",
  "stop_sequence": null,
  "usage": {"input_tokens": 20, "output_tokens": 9}
}`

func TestModel_Generate(t *testing.T) {
	var seen map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &seen)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, messageJSON)
	}))
	defer srv.Close()

	m := NewModel(func(o *Options) {
		o.APIKey = "test-key"
		o.BaseURL = srv.URL
		o.MaxRetries = 0
	})
	resp, err := m.Generate(context.Background(), model.Request{Instructions: "coach", Prompt: "endgame?"})
	require.NoError(t, err)

	assert.Equal(t, "Trade when ahead.\nKeep your king safe.", resp.Text)
	assert.Equal(t, "end_turn", resp.FinishReason)
	assert.Equal(t, 29, resp.Usage.TotalTokens)
	assert.NotNil(t, seen["system"])
	assert.Equal(t, "claude-3-5-sonnet-20241022", seen["model"])
}

func TestModel_GenerateAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"type":"error","error":{"type":"invalid_request_error","message":"nope"}}`)
	}))
	defer srv.Close()

	m := NewModel(func(o *Options) { o.APIKey = "k"; o.BaseURL = srv.URL; o.MaxRetries = 0 })
	_, err := m.Generate(context.Background(), model.Request{Prompt: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic api error")
}

func TestModel_Info(t *testing.T) {
	m := NewModel(func(o *Options) { o.APIKey = "k"; o.Model = "claude-3-5-haiku-latest" })
	assert.Equal(t, model.Info{Name: "claude-3-5-haiku-latest", Provider: "anthropic"}, m.Info())
}
