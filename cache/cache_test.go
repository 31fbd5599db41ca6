package cache

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(path string) error {
	return os.WriteFile(path, []byte("x"), 0644)
}

func TestMemoryStore_SetGet(t *testing.T) {
	store := newMemoryStore(slog.Default())
	defer store.Close()

	_, ok := store.Get("missing")
	assert.False(t, ok)

	store.Set("k", []byte("v"), time.Minute)
	got, ok := store.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := newMemoryStore(slog.Default())
	defer store.Close()

	now := time.Now()
	store.now = func() time.Time { return now }

	store.Set("k", []byte("v"), 10*time.Second)

	_, ok := store.Get("k")
	assert.True(t, ok)

	// Advance past expiry; the entry must be indistinguishable from a miss.
	now = now.Add(11 * time.Second)
	_, ok = store.Get("k")
	assert.False(t, ok)

	// Lazy eviction removed the entry entirely.
	store.mu.Lock()
	_, present := store.entries["k"]
	store.mu.Unlock()
	assert.False(t, present)
}

func TestMemoryStore_DefaultTTL(t *testing.T) {
	store := newMemoryStore(slog.Default())
	defer store.Close()

	now := time.Now()
	store.now = func() time.Time { return now }

	store.Set("k", []byte("v"), 0)

	now = now.Add(DefaultTTL - time.Second)
	_, ok := store.Get("k")
	assert.True(t, ok)

	now = now.Add(2 * time.Second)
	_, ok = store.Get("k")
	assert.False(t, ok)
}

func TestBadgerStore_RoundTrip(t *testing.T) {
	store, err := openBadgerStore(t.TempDir(), slog.Default())
	require.NoError(t, err)
	defer store.Close()

	store.Set("g:ada lovelace:1:10", []byte(`{"items":[]}`), time.Minute)
	got, ok := store.Get("g:ada lovelace:1:10")
	require.True(t, ok)
	assert.Equal(t, []byte(`{"items":[]}`), got)

	_, ok = store.Get("other")
	assert.False(t, ok)
}

func TestOpen_FallsBackToMemory(t *testing.T) {
	// A file (not a directory) makes the persistent backend unopenable.
	path := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, writeFile(path))

	store := Open(path)
	defer store.Close()

	_, isMemory := store.(*memoryStore)
	assert.True(t, isMemory, "expected transparent in-process fallback")

	// Same contract either way.
	store.Set("k", []byte("v"), time.Minute)
	got, ok := store.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)
}

func TestOpen_EmptyDirMeansMemory(t *testing.T) {
	store := Open("")
	defer store.Close()

	_, isMemory := store.(*memoryStore)
	assert.True(t, isMemory)
}

func TestOpen_Persistent(t *testing.T) {
	store := Open(t.TempDir())
	defer store.Close()

	_, isBadger := store.(*badgerStore)
	assert.True(t, isBadger)
}
