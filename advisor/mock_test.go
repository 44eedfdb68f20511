package advisor

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, req Request) (Result, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(Result), args.Error(1)
}
