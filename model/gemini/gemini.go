// Package gemini provides an implementation of model.Model backed by the
// Google Gemini API via google.golang.org/genai.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/meghna-1234/game-strategy-ai/model"
)

// DefaultModel is the Gemini model used when Options.Model is empty.
const DefaultModel = "gemini-2.0-flash"

// Options configures the Gemini model adapter.
type Options struct {
	Model       string
	Temperature float32
	APIKey      string
	// BaseURL overrides the API endpoint (used by tests).
	BaseURL string
}

// Model wraps the genai Models service behind the generic model.Model interface.
type Model struct {
	client *genai.Client
	opts   Options
}

var _ model.Model = (*Model)(nil)

// NewModel creates a Gemini API client. The client is created eagerly so
// configuration errors (missing key) surface at wiring time.
func NewModel(ctx context.Context, optFns ...func(o *Options)) (*Model, error) {
	opts := Options{Model: DefaultModel, Temperature: 0.7}
	for _, fn := range optFns {
		fn(&opts)
	}

	cfg := &genai.ClientConfig{APIKey: opts.APIKey, Backend: genai.BackendGeminiAPI}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Model{client: client, opts: opts}, nil
}

// Generate runs a single GenerateContent call.
func (m *Model) Generate(ctx context.Context, req model.Request) (model.Response, error) {
	cfg := &genai.GenerateContentConfig{Temperature: genai.Ptr(m.opts.Temperature)}
	if req.Instructions != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.Instructions, genai.RoleUser)
	}

	resp, err := m.client.Models.GenerateContent(ctx, m.opts.Model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return model.Response{}, fmt.Errorf("gemini api error: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return model.Response{}, fmt.Errorf("gemini: %w", model.ErrEmptyResponse)
	}

	out := model.Response{Text: text, FinishReason: "stop"}
	if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != "" {
		out.FinishReason = strings.ToLower(string(resp.Candidates[0].FinishReason))
	}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = &model.TokenUsage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	return out, nil
}

// Info returns metadata describing this Gemini model implementation.
func (m *Model) Info() model.Info {
	return model.Info{Name: m.opts.Model, Provider: "gemini"}
}
