package session

import (
	"context"
	"maps"
	"sync"
	"time"
)

// MemoryStore is a process-local IStore. It backs sessions when no Redis
// address is configured; sessions do not survive a restart and are not shared
// across instances.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	options  MemoryStoreOptions
	now      func() time.Time
}

type memoryEntry struct {
	data      map[string]string
	expiresAt time.Time
}

// MemoryStoreOptions configures the MemoryStore.
type MemoryStoreOptions struct {
	TTL time.Duration
}

type MemoryStoreOption func(*MemoryStoreOptions)

// WithMemoryStoreTTL sets the expiry of stored sessions. Zero means no expiry.
func WithMemoryStoreTTL(ttl time.Duration) MemoryStoreOption {
	return func(o *MemoryStoreOptions) {
		o.TTL = ttl
	}
}

func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	options := &MemoryStoreOptions{}
	for _, opt := range opts {
		opt(options)
	}

	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		options:  *options,
		now:      time.Now,
	}
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Load returns a copy of the data stored under name. An unknown or expired
// name yields an empty map, matching the Redis store behavior.
func (s *MemoryStore) Load(ctx context.Context, name string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.sessions[name]
	if !ok || entry.expired(s.now()) {
		return map[string]string{}, nil
	}
	return maps.Clone(entry.data), nil
}

// Save replaces the data stored under name and restarts its TTL. Expired
// sessions are swept here, so the store never grows past the set of sessions
// touched within one TTL.
func (s *MemoryStore) Save(ctx context.Context, name string, data map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, entry := range s.sessions {
		if entry.expired(now) {
			delete(s.sessions, id)
		}
	}

	entry := memoryEntry{data: maps.Clone(data)}
	if s.options.TTL > 0 {
		entry.expiresAt = now.Add(s.options.TTL)
	}
	s.sessions[name] = entry
	return nil
}
