// Package subscriptions orchestrates the subscription lifecycle with the
// producer: registration, secret retrieval and storage on subscribe, secret
// revocation on unsubscribe, and bulk secret recovery (resync) when local
// secret state is lost.
package subscriptions

import (
	"context"
	"strings"

	"webhook-consumer/internal/common/errors"
	"webhook-consumer/internal/common/logging"
	"webhook-consumer/internal/producer"
	"webhook-consumer/internal/secrets"
)

// Result reports a successful subscription
type Result struct {
	EndpointID string
	WebhookURL string
}

// ResyncReport describes how far a resync got. On failure the restored
// endpoints are still listed so partial state is observable.
type ResyncReport struct {
	Restored  int
	Endpoints []string
}

// Manager drives the subscription lifecycle against the producer API and
// keeps the secret store in step with it.
type Manager struct {
	producer      producer.Client
	secrets       secrets.Store
	publicBaseURL string
	logger        logging.Logger
}

// NewManager creates a subscription manager. publicBaseURL is this service's
// externally reachable base URL, used to build callback URLs.
func NewManager(client producer.Client, store secrets.Store, publicBaseURL string, logger logging.Logger) *Manager {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	return &Manager{
		producer:      client,
		secrets:       store,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger.WithFields(logging.Field{Key: "component", Value: "subscriptions"}),
	}
}

// Subscribe registers a callback URL with the producer, retrieves the signing
// secret issued for it, and persists the secret keyed by the callback URL.
// The secret arrives either inline in the registration response or through a
// follow-up lookup by endpoint id; both producer versions are supported.
// No secret is written on any failure.
func (m *Manager) Subscribe(ctx context.Context, consumerID, callbackPath string, eventKinds []string) (*Result, error) {
	if consumerID == "" {
		return nil, errors.ValidationError("consumerId is required")
	}
	if callbackPath == "" || !strings.HasPrefix(callbackPath, "/") {
		return nil, errors.ValidationError("callbackPath must be an absolute path")
	}

	webhookURL := m.publicBaseURL + callbackPath

	registration, err := m.producer.Subscribe(ctx, producer.SubscribeRequest{
		URL:        webhookURL,
		ConsumerID: consumerID,
		EventTypes: eventKinds,
	})
	if err != nil {
		return nil, err
	}
	if registration.EndpointID == "" {
		return nil, errors.UpstreamError("producer response omitted endpoint id", nil).
			WithContext("url", webhookURL)
	}

	secret := registration.Secret
	if secret == "" {
		secretResult, err := m.producer.GetSecret(ctx, registration.EndpointID)
		if err != nil {
			return nil, err
		}
		secret = secretResult.Secret
	}

	if err := m.secrets.Put(ctx, webhookURL, secret); err != nil {
		return nil, err
	}

	m.logger.Info("Subscription registered",
		logging.Field{Key: "consumer", Value: consumerID},
		logging.Field{Key: "endpoint_id", Value: registration.EndpointID},
		logging.Field{Key: "url", Value: webhookURL},
	)

	return &Result{
		EndpointID: registration.EndpointID,
		WebhookURL: webhookURL,
	}, nil
}

// Unsubscribe deregisters an endpoint with the producer and revokes its
// signing secret. The callback URL is resolved before deregistration so the
// revocation is always keyable; once deregistration succeeds the secret is
// revoked unconditionally - the system must never stay able to authenticate
// deliveries to a URL the producer no longer calls.
func (m *Manager) Unsubscribe(ctx context.Context, endpointID string) error {
	if endpointID == "" {
		return errors.ValidationError("endpointId is required")
	}

	endpoint, err := m.producer.GetEndpoint(ctx, endpointID)
	if err != nil {
		return err
	}

	if err := m.producer.Unsubscribe(ctx, endpointID); err != nil {
		return err
	}

	if err := m.secrets.Delete(ctx, endpoint.URL); err != nil {
		// Deregistration already happened; report the dangling secret loudly
		m.logger.Error("Failed to revoke secret after deregistration", err,
			logging.Field{Key: "endpoint_id", Value: endpointID},
			logging.Field{Key: "url", Value: endpoint.URL},
		)
		return errors.InternalError("endpoint deregistered but secret revocation failed", err).
			WithContext("endpoint_id", endpointID)
	}

	m.logger.Info("Subscription removed",
		logging.Field{Key: "endpoint_id", Value: endpointID},
		logging.Field{Key: "url", Value: endpoint.URL},
	)

	return nil
}

// Resync repopulates the secret store from the producer's authoritative
// endpoint list, restoring verification capability after local storage loss.
// It fails fast on the first endpoint whose secret cannot be retrieved; the
// returned report always lists what was already restored.
func (m *Manager) Resync(ctx context.Context) (*ResyncReport, error) {
	listing, err := m.producer.ListEndpoints(ctx)
	if err != nil {
		return &ResyncReport{}, err
	}

	report := &ResyncReport{}
	for _, endpoint := range listing.Endpoints {
		secretResult, err := m.producer.GetSecret(ctx, endpoint.ID)
		if err != nil {
			return report, errors.UpstreamError("resync stopped: secret retrieval failed", err).
				WithContext("endpoint_id", endpoint.ID).
				WithContext("restored", report.Restored)
		}

		if err := m.secrets.Put(ctx, endpoint.URL, secretResult.Secret); err != nil {
			return report, err
		}

		report.Restored++
		report.Endpoints = append(report.Endpoints, endpoint.URL)
	}

	m.logger.Info("Secret resync completed",
		logging.Field{Key: "restored", Value: report.Restored},
	)

	return report, nil
}
