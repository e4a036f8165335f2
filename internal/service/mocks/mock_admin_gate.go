package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockAdminGate struct {
	mock.Mock
}

func (m *MockAdminGate) VerifyPassword(ctx context.Context, candidate string) (bool, error) {
	args := m.Called(ctx, candidate)
	return args.Bool(0), args.Error(1)
}

func (m *MockAdminGate) EnsureInitialized(ctx context.Context, seed string) error {
	args := m.Called(ctx, seed)
	return args.Error(0)
}
