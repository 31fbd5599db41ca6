package connector

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/PanagiotisDrakatos/TraceMatrix/cache"
	"github.com/PanagiotisDrakatos/TraceMatrix/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) cache.Store {
	t.Helper()
	store := cache.Open("", cache.WithLogger(slog.Default()))
	t.Cleanup(func() { store.Close() })
	return store
}

func googlePage(items ...string) string {
	out := `{"items":[`
	for i, it := range items {
		if i > 0 {
			out += ","
		}
		out += `{"title":"t-` + it + `","link":"https://` + it + `","snippet":"s-` + it + `"}`
	}
	return out + `]}`
}

func TestGoogleCSE_New(t *testing.T) {
	store := newTestCache(t)

	t.Run("valid", func(t *testing.T) {
		g, err := NewGoogleCSE(store, "key", "cx")
		require.NoError(t, err)
		assert.Equal(t, "google", g.Name())
		assert.Equal(t, core.SourcePrimary, g.Source())
	})

	t.Run("nil cache", func(t *testing.T) {
		_, err := NewGoogleCSE(nil, "key", "cx")
		assert.Equal(t, ErrCacheRequired, err)
	})

	t.Run("missing credentials", func(t *testing.T) {
		_, err := NewGoogleCSE(store, "", "cx")
		assert.Equal(t, ErrCredentialsRequired, err)
	})
}

func TestGoogleCSE_Fetch_Paginates(t *testing.T) {
	doer := &fakeDoer{responses: []*http.Response{
		jsonResponse(200, googlePage("a.example", "b.example", "c.example", "d.example", "e.example",
			"f.example", "g.example", "h.example", "i.example", "j.example")),
		jsonResponse(200, googlePage("k.example", "l.example")),
	}}

	g, err := NewGoogleCSE(newTestCache(t), "key", "cx", WithGoogleDoer(doer))
	require.NoError(t, err)

	hits, err := g.Fetch(context.Background(), "ada lovelace", 15)
	require.NoError(t, err)
	require.Len(t, hits, 12)

	// 1-based engine ranks follow page order across pages.
	assert.Equal(t, 1, hits[0].EngineRank)
	assert.Equal(t, 10, hits[9].EngineRank)
	assert.Equal(t, 11, hits[10].EngineRank)
	assert.Equal(t, 12, hits[11].EngineRank)
	assert.Equal(t, "https://k.example", hits[10].URL)
	for _, h := range hits {
		assert.Equal(t, core.SourcePrimary, h.Source)
	}

	// Second page was short, so pagination stopped there.
	assert.Len(t, doer.requests, 2)
	assert.Equal(t, "1", doer.requests[0].URL.Query().Get("start"))
	assert.Equal(t, "11", doer.requests[1].URL.Query().Get("start"))
}

func TestGoogleCSE_Fetch_QuotaStopsPaginationOnly(t *testing.T) {
	doer := &fakeDoer{responses: []*http.Response{
		jsonResponse(200, googlePage("a.example", "b.example", "c.example", "d.example", "e.example",
			"f.example", "g.example", "h.example", "i.example", "j.example")),
		jsonResponse(403, `{"error":{"errors":[{"reason":"dailyLimitExceeded"}]}}`),
	}}

	g, err := NewGoogleCSE(newTestCache(t), "key", "cx", WithGoogleDoer(doer))
	require.NoError(t, err)

	hits, err := g.Fetch(context.Background(), "ada lovelace", 20)
	require.NoError(t, err, "quota exhaustion is not a hard error")
	assert.Len(t, hits, 10, "partial results from before the quota refusal are kept")
}

func TestGoogleCSE_Fetch_UpstreamErrorPropagates(t *testing.T) {
	doer := &fakeDoer{responses: []*http.Response{jsonResponse(500, `{}`)}}

	g, err := NewGoogleCSE(newTestCache(t), "key", "cx", WithGoogleDoer(doer))
	require.NoError(t, err)

	_, err = g.Fetch(context.Background(), "ada lovelace", 5)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestGoogleCSE_Fetch_ServesFromCache(t *testing.T) {
	store := newTestCache(t)
	doer := &fakeDoer{responses: []*http.Response{
		jsonResponse(200, googlePage("a.example", "b.example")),
	}}

	g, err := NewGoogleCSE(store, "key", "cx", WithGoogleDoer(doer))
	require.NoError(t, err)

	first, err := g.Fetch(context.Background(), "ada lovelace", 5)
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.Len(t, doer.requests, 1)

	// Same query again: the page must come from the cache, not the wire.
	second, err := g.Fetch(context.Background(), "ada lovelace", 5)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, doer.requests, 1, "no second upstream call expected")
}

func TestGoogleCSE_Fetch_InvalidLimit(t *testing.T) {
	g, err := NewGoogleCSE(newTestCache(t), "key", "cx")
	require.NoError(t, err)

	_, err = g.Fetch(context.Background(), "q", 0)
	assert.ErrorIs(t, err, core.ErrInvalidLimit)
}
