package gemini

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meghna-1234/game-strategy-ai/model"
)

const generateJSON = `{
  "candidates": [{
    "content": {"role": "model", "parts": [{"text": "Push the passed pawn."}]},
    "finishReason": "STOP"
  }],
  "usageMetadata": {"promptTokenCount": 7, "candidatesTokenCount": 5, "totalTokenCount": 12}
}`

func TestModel_Generate(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, generateJSON)
	}))
	defer srv.Close()

	m, err := NewModel(context.Background(), func(o *Options) {
		o.APIKey = "test-key"
		o.BaseURL = srv.URL
	})
	require.NoError(t, err)

	resp, err := m.Generate(context.Background(), model.Request{Instructions: "coach", Prompt: "endgame?"})
	require.NoError(t, err)
	assert.Equal(t, "Push the passed pawn.", resp.Text)
	assert.Equal(t, "stop", resp.FinishReason)
	require.NotNil(t, resp.Usage)
	assert.Equal(t, 12, resp.Usage.TotalTokens)
	assert.True(t, strings.Contains(path, DefaultModel), path)
}

func TestModel_GenerateEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates": []}`)
	}))
	defer srv.Close()

	m, err := NewModel(context.Background(), func(o *Options) { o.APIKey = "k"; o.BaseURL = srv.URL })
	require.NoError(t, err)
	_, err = m.Generate(context.Background(), model.Request{Prompt: "x"})
	assert.ErrorIs(t, err, model.ErrEmptyResponse)
}

func TestModel_Info(t *testing.T) {
	m, err := NewModel(context.Background(), func(o *Options) { o.APIKey = "k" })
	require.NoError(t, err)
	assert.Equal(t, model.Info{Name: DefaultModel, Provider: "gemini"}, m.Info())
}
