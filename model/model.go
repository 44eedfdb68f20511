package model

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrEmptyResponse is returned by providers when the model produced no text.
var ErrEmptyResponse = errors.New("model returned no text")

// Request captures the normalized model input produced by the advisor.
type Request struct {
	Instructions string `json:"instructions"` // System instructions for the model
	Prompt       string `json:"prompt"`       // User prompt
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the final completion returned by a model.
type Response struct {
	Text         string      `json:"text"`
	FinishReason string      `json:"finish_reason"` // "stop", "length", etc.
	Usage        *TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "gemini", "openai", "anthropic", "mock"
}

// String renders the info as provider/name.
func (i Info) String() string { return i.Provider + "/" + i.Name }

// Model is the minimal interface required by the advisor to drive generation.
type Model interface {
	Generate(ctx context.Context, req Request) (Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in‑memory Model useful for tests & examples.
type MockModel struct {
	info Info

	mu        sync.Mutex
	responses []cannedResponse
	err       error
	calls     []Request
}

type cannedResponse struct {
	fragment string
	text     string
}

// NewMockModel constructs a MockModel.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{info: Info{Name: name, Provider: provider}}
}

// AddResponse registers a canned completion for prompts containing the given
// fragment. When several fragments match, the earliest registered wins;
// registering the same fragment again replaces its response in place.
func (m *MockModel) AddResponse(fragment, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.responses {
		if m.responses[i].fragment == fragment {
			m.responses[i].text = response
			return
		}
	}
	m.responses = append(m.responses, cannedResponse{fragment: fragment, text: response})
}

// FailWith makes every subsequent Generate call return err.
func (m *MockModel) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns the requests received so far.
func (m *MockModel) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.calls...)
}

// Generate implements Model.
func (m *MockModel) Generate(ctx context.Context, req Request) (Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, req)
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	if m.err != nil {
		return Response{}, m.err
	}
	if req.Prompt == "" {
		return Response{}, fmt.Errorf("no prompt provided")
	}
	for _, c := range m.responses {
		if strings.Contains(req.Prompt, c.fragment) {
			return Response{Text: c.text, FinishReason: "stop"}, nil
		}
	}
	return Response{Text: fmt.Sprintf("Mock response to: %s", req.Prompt), FinishReason: "stop"}, nil
}

// Info implements Model interface.
func (m *MockModel) Info() Info { return m.info }
