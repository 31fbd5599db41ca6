package connector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/PanagiotisDrakatos/TraceMatrix/cache"
	"github.com/PanagiotisDrakatos/TraceMatrix/core"
)

const (
	// DefaultGoogleEndpoint is the commercial engine's search endpoint.
	DefaultGoogleEndpoint = "https://customsearch.googleapis.com/customsearch/v1"

	googlePageSize = 10
	// googleMaxTotal caps total fetch per query irrespective of the requested
	// total: the provider refuses deeper pagination anyway.
	googleMaxTotal = 100

	defaultSearchTimeout = 10 * time.Second
)

// GoogleCSE is the primary connector: paginated, quota-guarded, capped.
type GoogleCSE struct {
	doer     Doer
	store    cache.Store
	apiKey   string
	cx       string
	endpoint string
	cacheTTL time.Duration
	logger   *slog.Logger
}

// GoogleOption configures a GoogleCSE connector.
type GoogleOption func(*GoogleCSE)

// WithGoogleDoer sets the HTTP client used for page fetches.
// Default is an http.Client with a 10s timeout.
func WithGoogleDoer(doer Doer) GoogleOption {
	return func(g *GoogleCSE) {
		if doer != nil {
			g.doer = doer
		}
	}
}

// WithGoogleEndpoint overrides the search endpoint URL.
func WithGoogleEndpoint(endpoint string) GoogleOption {
	return func(g *GoogleCSE) {
		if endpoint != "" {
			g.endpoint = endpoint
		}
	}
}

// WithGoogleCacheTTL sets how long cached pages stay fresh.
func WithGoogleCacheTTL(ttl time.Duration) GoogleOption {
	return func(g *GoogleCSE) {
		g.cacheTTL = ttl
	}
}

// WithGoogleLogger sets a custom logger.
// Default is slog.Default().
func WithGoogleLogger(logger *slog.Logger) GoogleOption {
	return func(g *GoogleCSE) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGoogleCSE creates the primary connector. The store is required; apiKey
// and cx are the credential pair from the deployment environment.
func NewGoogleCSE(store cache.Store, apiKey, cx string, opts ...GoogleOption) (*GoogleCSE, error) {
	if store == nil {
		return nil, ErrCacheRequired
	}
	if apiKey == "" || cx == "" {
		return nil, ErrCredentialsRequired
	}

	g := &GoogleCSE{
		doer:     &http.Client{Timeout: defaultSearchTimeout},
		store:    store,
		apiKey:   apiKey,
		cx:       cx,
		endpoint: DefaultGoogleEndpoint,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Name identifies the connector in logs and fusion ordering.
func (g *GoogleCSE) Name() string { return "google" }

// Source reports which hit source this connector produces.
func (g *GoogleCSE) Source() core.Source { return core.SourcePrimary }

// Fetch pages through results for query until targetTotal hits are gathered,
// the provider runs out of pages, or quota is exceeded. On quota exhaustion
// the hits gathered so far are returned without error: the provider simply
// yielded fewer results than requested. Any other upstream failure aborts
// with an error for the caller to degrade on.
func (g *GoogleCSE) Fetch(ctx context.Context, query string, targetTotal int) ([]core.SearchHit, error) {
	if targetTotal < 1 {
		return nil, core.ErrInvalidLimit
	}

	toFetch := min(targetTotal, googleMaxTotal)
	out := make([]core.SearchHit, 0, toFetch)
	start := 1

	for len(out) < toFetch && start <= googleMaxTotal {
		num := min(googlePageSize, toFetch-len(out))
		key := fmt.Sprintf("g:%s:%d:%d", query, start, num)

		items, ok := g.cachedPage(key)
		if !ok {
			body, err := GuardedGet(ctx, g.doer, g.endpoint, url.Values{
				"q":     {query},
				"key":   {g.apiKey},
				"cx":    {g.cx},
				"num":   {strconv.Itoa(num)},
				"start": {strconv.Itoa(start)},
			})
			if err != nil {
				if errors.Is(err, ErrQuotaExceeded) {
					g.logger.Info("quota exceeded, stopping pagination", "query", query, "start", start)
					return out, nil
				}
				return nil, err
			}
			if items, err = parseGooglePage(body); err != nil {
				return nil, err
			}
			g.store.Set(key, marshalPage(items), g.cacheTTL)
		}

		for idx, it := range items {
			out = append(out, core.SearchHit{
				URL:        it.URL,
				Title:      it.Title,
				Snippet:    it.Snippet,
				Source:     core.SourcePrimary,
				EngineRank: start + idx,
			})
		}
		// A short page means the provider has no more results.
		if len(items) == 0 || len(items) < num {
			break
		}
		start += googlePageSize
	}
	return out, nil
}

func (g *GoogleCSE) cachedPage(key string) ([]pageItem, bool) {
	raw, ok := g.store.Get(key)
	if !ok {
		return nil, false
	}
	items, err := unmarshalPage(raw)
	if err != nil {
		g.logger.Warn("dropping corrupt cached page", "key", key, "err", err)
		return nil, false
	}
	return items, true
}

func parseGooglePage(body []byte) ([]pageItem, error) {
	var payload struct {
		Items []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"items"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	items := make([]pageItem, 0, len(payload.Items))
	for _, it := range payload.Items {
		if it.Link == "" {
			continue
		}
		items = append(items, pageItem{Title: it.Title, URL: it.Link, Snippet: it.Snippet})
	}
	return items, nil
}
