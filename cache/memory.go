package cache

import (
	"log/slog"
	"sync"
	"time"
)

// memoryStore is the in-process substitute used when the persistent backend
// is unreachable. Entries are evicted lazily on access past expiry.
type memoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	logger  *slog.Logger

	// now is swapped in tests to control expiry.
	now func() time.Time
}

type memoryEntry struct {
	value  []byte
	expiry time.Time
}

func newMemoryStore(logger *slog.Logger) *memoryStore {
	return &memoryStore{
		entries: make(map[string]memoryEntry),
		logger:  logger,
		now:     time.Now,
	}
}

func (s *memoryStore) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if s.now().After(entry.expiry) {
		delete(s.entries, key)
		return nil, false
	}
	return entry.value, true
}

func (s *memoryStore) Set(key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{value: value, expiry: s.now().Add(ttl)}
}

func (s *memoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]memoryEntry)
	return nil
}
