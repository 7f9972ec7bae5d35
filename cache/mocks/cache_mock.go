package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Publish(ctx context.Context, channel string, message []byte) error {
	args := m.Called(ctx, channel, message)
	return args.Error(0)
}

func (m *MockCache) Subscribe(ctx context.Context, channel string, handler func(message []byte)) error {
	args := m.Called(ctx, channel, handler)
	return args.Error(0)
}

func (m *MockCache) GetPublished(ctx context.Context, slug string) ([]byte, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCache) SetPublished(ctx context.Context, slug string, doc []byte) error {
	args := m.Called(ctx, slug, doc)
	return args.Error(0)
}

func (m *MockCache) InvalidatePublished(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}
