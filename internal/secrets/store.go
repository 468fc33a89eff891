// Package secrets owns the mapping from an endpoint identity (the callback
// URL the producer delivers to) to its current signing secret.
//
// Exactly one live secret exists per endpoint at a time; replacing it
// invalidates verification of deliveries signed with the old value. Absence
// of a secret is a valid, expected state (unsubscribed, or not yet resynced)
// and is reported with a typed not-found error rather than a crash.
package secrets

import (
	"context"

	"webhook-consumer/internal/common/errors"
)

// Store maps an endpoint identity to its current signing secret.
// Implementations must be safe under concurrent access from multiple
// simultaneous deliveries and subscription operations. Only single-key
// atomic get/put semantics are required; once Put returns, all subsequent
// Gets for that key observe the new value until the next Put or Delete.
type Store interface {
	// Get returns the secret for the endpoint, or a not_found error when
	// no secret is on file.
	Get(ctx context.Context, endpoint string) (string, error)

	// Put stores the secret for the endpoint, replacing any previous value.
	Put(ctx context.Context, endpoint, secret string) error

	// Delete revokes the secret for the endpoint. Deleting an absent key
	// is not an error.
	Delete(ctx context.Context, endpoint string) error

	// List returns a snapshot of all stored endpoint/secret pairs.
	List(ctx context.Context) (map[string]string, error)

	// Health reports whether the store is reachable.
	Health(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}

// ErrNotFound builds the canonical absent-secret error for an endpoint.
func ErrNotFound(endpoint string) *errors.AppError {
	return errors.NotFoundError("signing secret").WithContext("endpoint", endpoint)
}
