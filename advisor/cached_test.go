package advisor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCached_ReusesModelResults(t *testing.T) {
	inner := &mockGenerator{}
	inner.On("Generate", mock.Anything, chessReq).Return(Result{Text: "cached", Source: SourcePrimary}, nil).Once()

	c := NewCached(inner, 0, 0)
	for i := 0; i < 3; i++ {
		res, err := c.Generate(context.Background(), chessReq)
		require.NoError(t, err)
		assert.Equal(t, "cached", res.Text)
	}
	assert.Equal(t, 1, c.Len())
	inner.AssertExpectations(t)
}

func TestCached_SkipsFallbackAndErrors(t *testing.T) {
	inner := &mockGenerator{}
	pokerReq := Request{GameType: "poker", Situation: "river"}
	inner.On("Generate", mock.Anything, chessReq).Return(Result{Text: "tips", Source: SourceFallback}, nil).Twice()
	inner.On("Generate", mock.Anything, pokerReq).Return(Result{}, errors.New("down")).Twice()

	c := NewCached(inner, 8, time.Minute)
	for i := 0; i < 2; i++ {
		_, err := c.Generate(context.Background(), chessReq)
		require.NoError(t, err)
		_, err = c.Generate(context.Background(), pokerReq)
		require.Error(t, err)
	}
	assert.Equal(t, 0, c.Len())
	inner.AssertExpectations(t)
}

func TestCached_Expiry(t *testing.T) {
	inner := &mockGenerator{}
	inner.On("Generate", mock.Anything, chessReq).Return(Result{Text: "fresh", Source: SourcePrimary}, nil).Twice()

	c := NewCached(inner, 8, 20*time.Millisecond)
	_, err := c.Generate(context.Background(), chessReq)
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return c.Len() == 0 }, 2*time.Second, 10*time.Millisecond)

	_, err = c.Generate(context.Background(), chessReq)
	require.NoError(t, err)
	inner.AssertExpectations(t)
}

func TestCached_Purge(t *testing.T) {
	inner := &mockGenerator{}
	inner.On("Generate", mock.Anything, chessReq).Return(Result{Text: "x", Source: SourceSecondary}, nil)

	c := NewCached(inner, 8, time.Minute)
	_, err := c.Generate(context.Background(), chessReq)
	require.NoError(t, err)
	c.Purge()
	assert.Equal(t, 0, c.Len())
}
