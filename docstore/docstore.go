// Package docstore is the storefront's durable session storage: one JSON
// document per key, read permissively and written atomically as a whole.
// It stands in for the browser's local storage, so partial or keyed
// updates are deliberately not offered.
package docstore

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, doc []byte) error
	Del(ctx context.Context, key string) error
	// SetNX sets key only when absent, with a TTL. Used as the in-flight
	// guard around checkout and delivery confirmation.
	SetNX(ctx context.Context, key string, doc []byte, ttl time.Duration) (bool, error)
}

// Load unmarshals the document at key into out. A missing or corrupt
// document leaves out untouched and returns false, never an error: the
// caller's zero value is the fresh-session default.
func Load(ctx context.Context, s Store, key string, out any) bool {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false
	}
	return true
}

// Save marshals doc and writes it whole.
func Save(ctx context.Context, s Store, key string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, raw)
}

// RedisStore is the production implementation.
type RedisStore struct {
	Conn *redis.Client
}

func NewRedisStore(conn *redis.Client) *RedisStore {
	return &RedisStore{Conn: conn}
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := r.Conn.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, doc []byte) error {
	return r.Conn.Set(ctx, key, doc, 0).Err()
}

func (r *RedisStore) Del(ctx context.Context, key string) error {
	return r.Conn.Del(ctx, key).Err()
}

func (r *RedisStore) SetNX(ctx context.Context, key string, doc []byte, ttl time.Duration) (bool, error) {
	return r.Conn.SetNX(ctx, key, doc, ttl).Result()
}

// MemStore keeps documents in a map. Used in tests and as a last-resort
// degraded mode when Redis is down at startup.
type MemStore struct {
	mu   sync.Mutex
	docs map[string][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{docs: make(map[string][]byte)}
}

func (m *MemStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.docs[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(raw))
	copy(cp, raw)
	return cp, true, nil
}

func (m *MemStore) Set(_ context.Context, key string, doc []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(doc))
	copy(cp, doc)
	m.docs[key] = cp
	return nil
}

func (m *MemStore) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, key)
	return nil
}

func (m *MemStore) SetNX(_ context.Context, key string, doc []byte, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[key]; ok {
		return false, nil
	}
	m.docs[key] = append([]byte(nil), doc...)
	return true, nil
}
