package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webhook-consumer/internal/common/errors"
)

func TestDispatch_RoutesByEventType(t *testing.T) {
	var gotDeposit *Deposit
	var gotOrder *OrderCompleted

	d := NewDispatcher(Handlers{
		Deposit: func(ctx context.Context, e Deposit) error {
			gotDeposit = &e
			return nil
		},
		OrderCompleted: func(ctx context.Context, e OrderCompleted) error {
			gotOrder = &e
			return nil
		},
	}, nil)

	body := []byte(`{
		"eventType": "transaction.deposit",
		"data": {"transactionId": "tx_1", "accountId": "acc_1", "amount": 125.5, "currency": "EUR"}
	}`)
	require.NoError(t, d.Dispatch(context.Background(), body))

	require.NotNil(t, gotDeposit)
	assert.Equal(t, "tx_1", gotDeposit.TransactionID)
	assert.Equal(t, 125.5, gotDeposit.Amount)
	assert.Nil(t, gotOrder, "only the matching handler runs")
}

func TestDispatch_AllKnownKinds(t *testing.T) {
	calls := map[string]int{}
	count := func(kind string) { calls[kind]++ }

	d := NewDispatcher(Handlers{
		Deposit:        func(ctx context.Context, e Deposit) error { count(TypeDeposit); return nil },
		Withdrawal:     func(ctx context.Context, e Withdrawal) error { count(TypeWithdrawal); return nil },
		Authorization:  func(ctx context.Context, e Authorization) error { count(TypeAuthorization); return nil },
		Refund:         func(ctx context.Context, e Refund) error { count(TypeRefund); return nil },
		DomainChange:   func(ctx context.Context, e DomainChange) error { count(TypeDomainChange); return nil },
		OrderCompleted: func(ctx context.Context, e OrderCompleted) error { count(TypeOrderCompleted); return nil },
	}, nil)

	for _, kind := range []string{
		TypeDeposit, TypeWithdrawal, TypeAuthorization,
		TypeRefund, TypeDomainChange, TypeOrderCompleted,
	} {
		body := []byte(`{"eventType": "` + kind + `", "data": {}}`)
		require.NoError(t, d.Dispatch(context.Background(), body))
		assert.Equal(t, 1, calls[kind], "kind %s", kind)
	}
}

func TestDispatch_UnknownTypeIsTolerated(t *testing.T) {
	var invoked bool
	d := NewDispatcher(Handlers{
		Deposit: func(ctx context.Context, e Deposit) error {
			invoked = true
			return nil
		},
	}, nil)

	body := []byte(`{"eventType": "promotion.created", "data": {"campaign": "summer"}}`)
	assert.NoError(t, d.Dispatch(context.Background(), body))
	assert.False(t, invoked, "no domain handler may run for an unknown kind")
}

func TestDispatch_NilHandlerIsTolerated(t *testing.T) {
	d := NewDispatcher(Handlers{}, nil)

	body := []byte(`{"eventType": "transaction.refund", "data": {"transactionId": "tx_9"}}`)
	assert.NoError(t, d.Dispatch(context.Background(), body))
}

func TestDispatch_InvalidPayloads(t *testing.T) {
	d := NewDispatcher(Handlers{}, nil)

	tests := []struct {
		name string
		body string
	}{
		{"not json", `{"eventType": `},
		{"missing event type", `{"data": {}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := d.Dispatch(context.Background(), []byte(tt.body))
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrTypeValidation))
		})
	}
}

func TestDispatch_MismatchedDataShape(t *testing.T) {
	d := NewDispatcher(Handlers{
		Deposit: func(ctx context.Context, e Deposit) error { return nil },
	}, nil)

	body := []byte(`{"eventType": "transaction.deposit", "data": {"amount": "not-a-number"}}`)
	err := d.Dispatch(context.Background(), body)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeValidation))
}

func TestDispatch_HandlerErrorBecomesProcessingError(t *testing.T) {
	d := NewDispatcher(Handlers{
		Withdrawal: func(ctx context.Context, e Withdrawal) error {
			return assert.AnError
		},
	}, nil)

	body := []byte(`{"eventType": "transaction.withdrawal", "data": {}}`)
	err := d.Dispatch(context.Background(), body)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeInternal))
}

func TestDispatch_HandlerPanicIsRecovered(t *testing.T) {
	d := NewDispatcher(Handlers{
		Refund: func(ctx context.Context, e Refund) error {
			panic("boom")
		},
	}, nil)

	body := []byte(`{"eventType": "transaction.refund", "data": {}}`)
	err := d.Dispatch(context.Background(), body)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeInternal))

	// The dispatcher stays usable after a panic
	assert.NoError(t, d.Dispatch(context.Background(),
		[]byte(`{"eventType": "promotion.created"}`)))
}
