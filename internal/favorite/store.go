package favorite

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrNotFound is returned by a Store when the key has never been set.
	ErrNotFound = errors.New("favorite: key not found")
	// ErrStoreUnavailable wraps any other store failure.
	ErrStoreUnavailable = errors.New("favorite: store unavailable")
	// ErrUnresolvable means the book to toggle could not be looked up.
	ErrUnresolvable = errors.New("favorite: book cannot be resolved")
	// ErrLookupUnavailable is wrapped by a Resolver when the lookup itself
	// failed, as opposed to the book not existing.
	ErrLookupUnavailable = errors.New("favorite: book lookup unavailable")
)

//go:generate mockgen -source=store.go -destination=mock_store_test.go -package=favorite

// Store is a durable string key-value store scoped by owner.
type Store interface {
	Get(ctx context.Context, owner, key string) (string, error)
	Set(ctx context.Context, owner, key, value string) error
}

// MemoryStore keeps values in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, owner, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[owner][key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStore) Set(_ context.Context, owner, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.values[owner] == nil {
		m.values[owner] = make(map[string]string)
	}
	m.values[owner][key] = value
	return nil
}
