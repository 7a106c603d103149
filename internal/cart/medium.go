package cart

import (
	"context"
	"errors"
	"sync"

	storeredis "github.com/arleipolo/storefront-backend/pkg/redis"
)

// Medium is the key-value persistence surface carts and episode markers live on.
// A nil Medium is legal everywhere it is consumed: reads degrade to "absent"
// and writes are silently skipped.
type Medium interface {
	Read(ctx context.Context, key string) (string, bool, error)
	Write(ctx context.Context, key, value string) error
	// WriteIfAbsent stores the value only when the key does not exist yet,
	// reporting whether the write happened.
	WriteIfAbsent(ctx context.Context, key, value string) (bool, error)
	Delete(ctx context.Context, key string) error
	// Take atomically reads and deletes the value, returning whether it existed.
	Take(ctx context.Context, key string) (string, bool, error)
}

// MemoryMedium is an in-process Medium, the session-local analogue of browser storage.
type MemoryMedium struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryMedium builds an empty in-memory medium.
func NewMemoryMedium() *MemoryMedium {
	return &MemoryMedium{values: map[string]string{}}
}

func (m *MemoryMedium) Read(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *MemoryMedium) Write(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryMedium) WriteIfAbsent(_ context.Context, key, value string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.values[key]; ok {
		return false, nil
	}
	m.values[key] = value
	return true, nil
}

func (m *MemoryMedium) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *MemoryMedium) Take(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	if ok {
		delete(m.values, key)
	}
	return value, ok, nil
}

// RedisMedium persists cart state under a namespaced prefix, usually the session id.
type RedisMedium struct {
	client *storeredis.Client
	prefix string
}

// NewRedisMedium binds a medium to the given client and key prefix.
func NewRedisMedium(client *storeredis.Client, prefix string) *RedisMedium {
	return &RedisMedium{client: client, prefix: prefix}
}

func (m *RedisMedium) key(key string) string {
	return storeredis.Key(m.prefix, key)
}

func (m *RedisMedium) Read(ctx context.Context, key string) (string, bool, error) {
	value, err := m.client.Get(ctx, m.key(key))
	if err != nil {
		if errors.Is(err, storeredis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (m *RedisMedium) Write(ctx context.Context, key, value string) error {
	return m.client.Set(ctx, m.key(key), value, 0)
}

func (m *RedisMedium) WriteIfAbsent(ctx context.Context, key, value string) (bool, error) {
	return m.client.SetNX(ctx, m.key(key), value, 0)
}

func (m *RedisMedium) Delete(ctx context.Context, key string) error {
	return m.client.Del(ctx, m.key(key))
}

func (m *RedisMedium) Take(ctx context.Context, key string) (string, bool, error) {
	value, err := m.client.GetDel(ctx, m.key(key))
	if err != nil {
		if errors.Is(err, storeredis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}
