package secrets

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store backed by a mutex-guarded map.
// It is the default backend; secrets live only for the lifetime of the
// process and are recovered through a resync after a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	secrets map[string]string
}

// NewMemoryStore creates an empty in-memory secret store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		secrets: make(map[string]string),
	}
}

func (s *MemoryStore) Get(ctx context.Context, endpoint string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	secret, ok := s.secrets[endpoint]
	if !ok {
		return "", ErrNotFound(endpoint)
	}
	return secret, nil
}

func (s *MemoryStore) Put(ctx context.Context, endpoint, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.secrets[endpoint] = secret
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, endpoint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.secrets, endpoint)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(map[string]string, len(s.secrets))
	for endpoint, secret := range s.secrets {
		snapshot[endpoint] = secret
	}
	return snapshot, nil
}

func (s *MemoryStore) Health(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
