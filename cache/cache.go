package cache

import (
	"log/slog"
	"time"
)

// DefaultTTL applies when Set is called with a non-positive ttl.
const DefaultTTL = 300 * time.Second

// Store is a TTL key→value store. Implementations must be safe for
// concurrent use. Get never reports why a key is absent: a miss, an expired
// entry and a backend read error all look the same to the caller.
type Store interface {
	// Get returns the value for key, or ok=false when absent.
	Get(key string) (value []byte, ok bool)

	// Set stores value under key for ttl. A non-positive ttl means DefaultTTL.
	// Failures are logged, never returned: callers re-fetch on the next miss.
	Set(key string, value []byte, ttl time.Duration)

	// Close releases backend resources.
	Close() error
}

// Option configures a store opened with Open.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
	}
}

// Open opens the cache at dir. When the persistent backend cannot be opened
// there, Open logs the failure once and returns an in-process substitute with
// the same semantics. It never fails.
func Open(dir string, opts ...Option) Store {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	if dir != "" {
		store, err := openBadgerStore(dir, o.logger)
		if err == nil {
			return store
		}
		o.logger.Warn("cache backend unavailable, using in-process cache", "dir", dir, "err", err)
	}
	return newMemoryStore(o.logger)
}
