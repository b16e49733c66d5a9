package mocks

import (
	"context"
	"time"

	"es-diff/core/elastic"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of elastic.Client
type Client struct {
	mock.Mock
}

func (m *Client) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *Client) IndexExists(ctx context.Context, index string) (bool, error) {
	args := m.Called(ctx, index)
	return args.Bool(0), args.Error(1)
}

func (m *Client) Count(ctx context.Context, index string) (int64, error) {
	args := m.Called(ctx, index)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Client) OpenScroll(ctx context.Context, index string, size int, keepAlive time.Duration) (*elastic.Page, error) {
	args := m.Called(ctx, index, size, keepAlive)
	if page, ok := args.Get(0).(*elastic.Page); ok {
		return page, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) ContinueScroll(ctx context.Context, scrollID string, keepAlive time.Duration) (*elastic.Page, error) {
	args := m.Called(ctx, scrollID, keepAlive)
	if page, ok := args.Get(0).(*elastic.Page); ok {
		return page, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) ClearScroll(ctx context.Context, scrollID string) error {
	args := m.Called(ctx, scrollID)
	return args.Error(0)
}

func (m *Client) MultiGet(ctx context.Context, index string, ids []string) (map[string]map[string]any, error) {
	args := m.Called(ctx, index, ids)
	if docs, ok := args.Get(0).(map[string]map[string]any); ok {
		return docs, args.Error(1)
	}
	return nil, args.Error(1)
}
