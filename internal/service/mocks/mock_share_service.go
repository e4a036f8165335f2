package mocks

import (
	"context"

	"docvault/internal/model"
	"docvault/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockShareService struct {
	mock.Mock
}

func (m *MockShareService) CreateShareLink(ctx context.Context, docID string, days *int) (*service.ShareLink, error) {
	args := m.Called(ctx, docID, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ShareLink), args.Error(1)
}

func (m *MockShareService) ResolveShareToken(ctx context.Context, token string) (*model.Document, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockShareService) RevokeShare(ctx context.Context, docID string) (bool, error) {
	args := m.Called(ctx, docID)
	return args.Bool(0), args.Error(1)
}
