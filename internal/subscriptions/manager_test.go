package subscriptions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"webhook-consumer/internal/common/errors"
	"webhook-consumer/internal/producer"
	"webhook-consumer/internal/secrets"
	"webhook-consumer/internal/testutil"
)

const publicBase = "https://consumer.example.com"

func newManager(t *testing.T) (*Manager, *testutil.MockProducerClient, *secrets.MemoryStore) {
	t.Helper()
	client := &testutil.MockProducerClient{}
	store := secrets.NewMemoryStore()
	return NewManager(client, store, publicBase, nil), client, store
}

func TestSubscribe_InlineSecret(t *testing.T) {
	m, client, store := newManager(t)
	ctx := context.Background()

	client.On("Subscribe", ctx, producer.SubscribeRequest{
		URL:        publicBase + "/webhooks/acme/transactions",
		ConsumerID: "acme",
		EventTypes: []string{"transaction.deposit", "transaction.withdrawal"},
	}).Return(&producer.SubscriptionResult{
		Success:    true,
		EndpointID: "ep_1",
		Secret:     "whsec_inline",
	}, nil)

	result, err := m.Subscribe(ctx, "acme", "/webhooks/acme/transactions",
		[]string{"transaction.deposit", "transaction.withdrawal"})
	require.NoError(t, err)
	assert.Equal(t, "ep_1", result.EndpointID)
	assert.Equal(t, publicBase+"/webhooks/acme/transactions", result.WebhookURL)

	secret, err := store.Get(ctx, result.WebhookURL)
	require.NoError(t, err)
	assert.Equal(t, "whsec_inline", secret)

	// Inline secret means no follow-up lookup
	client.AssertNotCalled(t, "GetSecret", mock.Anything, mock.Anything)
}

func TestSubscribe_FollowUpSecretLookup(t *testing.T) {
	m, client, store := newManager(t)
	ctx := context.Background()

	client.On("Subscribe", ctx, mock.Anything).Return(&producer.SubscriptionResult{
		Success:    true,
		EndpointID: "ep_2",
	}, nil)
	client.On("GetSecret", ctx, "ep_2").Return(&producer.SecretResult{
		Success: true,
		Secret:  "whsec_fetched",
	}, nil)

	result, err := m.Subscribe(ctx, "acme", "/webhooks/acme/domain", []string{"domain.changed"})
	require.NoError(t, err)

	secret, err := store.Get(ctx, result.WebhookURL)
	require.NoError(t, err)
	assert.Equal(t, "whsec_fetched", secret)
}

func TestSubscribe_FailuresWriteNoSecret(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*testutil.MockProducerClient)
		wantType errors.ErrorType
	}{
		{
			name: "registration fails",
			setup: func(c *testutil.MockProducerClient) {
				c.On("Subscribe", mock.Anything, mock.Anything).
					Return(nil, errors.UpstreamError("producer down", nil))
			},
			wantType: errors.ErrTypeUpstream,
		},
		{
			name: "endpoint id missing",
			setup: func(c *testutil.MockProducerClient) {
				c.On("Subscribe", mock.Anything, mock.Anything).
					Return(&producer.SubscriptionResult{Success: true}, nil)
			},
			wantType: errors.ErrTypeUpstream,
		},
		{
			name: "secret lookup fails",
			setup: func(c *testutil.MockProducerClient) {
				c.On("Subscribe", mock.Anything, mock.Anything).
					Return(&producer.SubscriptionResult{Success: true, EndpointID: "ep_3"}, nil)
				c.On("GetSecret", mock.Anything, "ep_3").
					Return(nil, errors.UpstreamError("secret endpoint 500", nil))
			},
			wantType: errors.ErrTypeUpstream,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, client, store := newManager(t)
			tt.setup(client)

			_, err := m.Subscribe(context.Background(), "acme", "/webhooks/acme/receive", nil)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, tt.wantType))

			snapshot, err := store.List(context.Background())
			require.NoError(t, err)
			assert.Empty(t, snapshot, "no secret may be written on failure")
		})
	}
}

func TestSubscribe_Validation(t *testing.T) {
	m, _, _ := newManager(t)
	ctx := context.Background()

	_, err := m.Subscribe(ctx, "", "/webhooks/acme/receive", nil)
	assert.True(t, errors.IsType(err, errors.ErrTypeValidation))

	_, err = m.Subscribe(ctx, "acme", "webhooks/no-leading-slash", nil)
	assert.True(t, errors.IsType(err, errors.ErrTypeValidation))
}

func TestUnsubscribe_RevokesSecret(t *testing.T) {
	m, client, store := newManager(t)
	ctx := context.Background()

	url := publicBase + "/webhooks/acme/transactions"
	require.NoError(t, store.Put(ctx, url, "whsec_live"))

	client.On("GetEndpoint", ctx, "ep_1").Return(&producer.Endpoint{ID: "ep_1", URL: url}, nil)
	client.On("Unsubscribe", ctx, "ep_1").Return(nil)

	require.NoError(t, m.Unsubscribe(ctx, "ep_1"))

	_, err := store.Get(ctx, url)
	assert.True(t, errors.IsType(err, errors.ErrTypeNotFound))
}

func TestUnsubscribe_LookupFails(t *testing.T) {
	m, client, store := newManager(t)
	ctx := context.Background()

	url := publicBase + "/webhooks/acme/transactions"
	require.NoError(t, store.Put(ctx, url, "whsec_live"))

	client.On("GetEndpoint", ctx, "ep_1").
		Return(nil, errors.UpstreamError("endpoint lookup 500", nil))

	err := m.Unsubscribe(ctx, "ep_1")
	assert.True(t, errors.IsType(err, errors.ErrTypeUpstream))

	// Nothing was deregistered, so the secret stays
	client.AssertNotCalled(t, "Unsubscribe", mock.Anything, mock.Anything)
	secret, err := store.Get(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, "whsec_live", secret)
}

func TestUnsubscribe_DeregistrationFails(t *testing.T) {
	m, client, store := newManager(t)
	ctx := context.Background()

	url := publicBase + "/webhooks/acme/transactions"
	require.NoError(t, store.Put(ctx, url, "whsec_live"))

	client.On("GetEndpoint", ctx, "ep_1").Return(&producer.Endpoint{ID: "ep_1", URL: url}, nil)
	client.On("Unsubscribe", ctx, "ep_1").
		Return(errors.UpstreamError("deregistration 500", nil))

	err := m.Unsubscribe(ctx, "ep_1")
	assert.True(t, errors.IsType(err, errors.ErrTypeUpstream))

	secret, err := store.Get(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, "whsec_live", secret)
}

func TestResync_RestoresAllSecrets(t *testing.T) {
	m, client, store := newManager(t)
	ctx := context.Background()

	client.On("ListEndpoints", ctx).Return(&producer.EndpointsResponse{
		Success: true,
		Endpoints: []producer.Endpoint{
			{ID: "ep_1", URL: publicBase + "/webhooks/acme/transactions"},
			{ID: "ep_2", URL: publicBase + "/webhooks/acme/domain"},
		},
	}, nil)
	client.On("GetSecret", ctx, "ep_1").Return(&producer.SecretResult{Success: true, Secret: "whsec_1"}, nil)
	client.On("GetSecret", ctx, "ep_2").Return(&producer.SecretResult{Success: true, Secret: "whsec_2"}, nil)

	report, err := m.Resync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Restored)

	secret, err := store.Get(ctx, publicBase+"/webhooks/acme/domain")
	require.NoError(t, err)
	assert.Equal(t, "whsec_2", secret)
}

func TestResync_FailsFastWithPartialReport(t *testing.T) {
	m, client, store := newManager(t)
	ctx := context.Background()

	client.On("ListEndpoints", ctx).Return(&producer.EndpointsResponse{
		Success: true,
		Endpoints: []producer.Endpoint{
			{ID: "ep_1", URL: publicBase + "/webhooks/acme/transactions"},
			{ID: "ep_2", URL: publicBase + "/webhooks/acme/domain"},
			{ID: "ep_3", URL: publicBase + "/webhooks/acme/receive"},
		},
	}, nil)
	client.On("GetSecret", ctx, "ep_1").Return(&producer.SecretResult{Success: true, Secret: "whsec_1"}, nil)
	client.On("GetSecret", ctx, "ep_2").
		Return(nil, errors.UpstreamError("secret endpoint 500", nil))

	report, err := m.Resync(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeUpstream))

	// Partial state is observable: ep_1 restored, ep_2 reported, ep_3 untouched
	assert.Equal(t, 1, report.Restored)
	assert.Equal(t, []string{publicBase + "/webhooks/acme/transactions"}, report.Endpoints)

	_, err = store.Get(ctx, publicBase+"/webhooks/acme/receive")
	assert.True(t, errors.IsType(err, errors.ErrTypeNotFound))

	client.AssertNotCalled(t, "GetSecret", ctx, "ep_3")
}
