package mocks

import (
	"context"
	"time"

	"docvault/internal/model"
	"docvault/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id string) (*model.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) List(ctx context.Context, q repository.ListQuery) ([]model.Document, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentRepository) SetShare(ctx context.Context, id, token string, expiresAt time.Time) (bool, error) {
	args := m.Called(ctx, id, token, expiresAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentRepository) ClearShare(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentRepository) FindByShareToken(ctx context.Context, token string, now time.Time) (*model.Document, error) {
	args := m.Called(ctx, token, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) UpdateOwnerAll(ctx context.Context, owner model.OwnerTag) (int64, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).(int64), args.Error(1)
}
