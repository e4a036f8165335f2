package mocks

import (
	"context"

	"docvault/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) Get(ctx context.Context) (*model.AdminCredential, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AdminCredential), args.Error(1)
}

func (m *MockAdminRepository) CreateIfAbsent(ctx context.Context, passwordHash string) (bool, error) {
	args := m.Called(ctx, passwordHash)
	return args.Bool(0), args.Error(1)
}
