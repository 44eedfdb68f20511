package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Model = (*MockModel)(nil)

func TestMockModel_CannedAndDefaultResponses(t *testing.T) {
	m := NewMockModel("mock-1", "mock")
	m.AddResponse("knight", "Develop your knights early.")

	resp, err := m.Generate(context.Background(), Request{Prompt: "where should my knight go?"})
	require.NoError(t, err)
	assert.Equal(t, "Develop your knights early.", resp.Text)
	assert.Equal(t, "stop", resp.FinishReason)

	resp, err = m.Generate(context.Background(), Request{Prompt: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: hello", resp.Text)

	assert.Len(t, m.Calls(), 2)
	assert.Equal(t, "mock/mock-1", m.Info().String())
}

func TestMockModel_FirstRegisteredFragmentWins(t *testing.T) {
	m := NewMockModel("mock-1", "mock")
	m.AddResponse("GAME: chess", "chess answer")
	m.AddResponse("SITUATION", "generic answer")
	m.AddResponse("GAME: chess", "updated chess answer")

	for i := 0; i < 20; i++ {
		resp, err := m.Generate(context.Background(), Request{Prompt: "GAME: chess\nSITUATION: opening"})
		require.NoError(t, err)
		assert.Equal(t, "updated chess answer", resp.Text)
	}

	resp, err := m.Generate(context.Background(), Request{Prompt: "GAME: go\nSITUATION: corner"})
	require.NoError(t, err)
	assert.Equal(t, "generic answer", resp.Text)
}

func TestMockModel_Errors(t *testing.T) {
	m := NewMockModel("mock-1", "mock")

	_, err := m.Generate(context.Background(), Request{})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.Generate(ctx, Request{Prompt: "x"})
	assert.ErrorIs(t, err, context.Canceled)

	boom := errors.New("quota exceeded")
	m.FailWith(boom)
	_, err = m.Generate(context.Background(), Request{Prompt: "x"})
	assert.ErrorIs(t, err, boom)
}
