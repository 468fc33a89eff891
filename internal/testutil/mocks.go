// Package testutil provides shared mocks and fixtures for tests.
package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"webhook-consumer/internal/producer"
)

// MockProducerClient is a testify mock of the producer API client
type MockProducerClient struct {
	mock.Mock
}

func (m *MockProducerClient) Subscribe(ctx context.Context, req producer.SubscribeRequest) (*producer.SubscriptionResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*producer.SubscriptionResult), args.Error(1)
}

func (m *MockProducerClient) GetSecret(ctx context.Context, endpointID string) (*producer.SecretResult, error) {
	args := m.Called(ctx, endpointID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*producer.SecretResult), args.Error(1)
}

func (m *MockProducerClient) Unsubscribe(ctx context.Context, endpointID string) error {
	args := m.Called(ctx, endpointID)
	return args.Error(0)
}

func (m *MockProducerClient) GetEndpoint(ctx context.Context, endpointID string) (*producer.Endpoint, error) {
	args := m.Called(ctx, endpointID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*producer.Endpoint), args.Error(1)
}

func (m *MockProducerClient) ListEndpoints(ctx context.Context) (*producer.EndpointsResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*producer.EndpointsResponse), args.Error(1)
}
