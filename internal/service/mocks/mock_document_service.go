package mocks

import (
	"context"

	"docvault/internal/model"
	"docvault/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) List(ctx context.Context, owner string) ([]model.Document, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentService) Create(ctx context.Context, in service.CreateDocumentInput) (*model.Document, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, id string) (*model.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Preview(ctx context.Context, id string) (*service.Preview, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Preview), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentService) TransferAll(ctx context.Context, owner string) (int64, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).(int64), args.Error(1)
}
