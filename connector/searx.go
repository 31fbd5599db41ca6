package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PanagiotisDrakatos/TraceMatrix/cache"
	"github.com/PanagiotisDrakatos/TraceMatrix/core"
)

const (
	searxPageSize    = 10
	searxMaxPages    = 10
	defaultSearxBase = "http://localhost:8081"
)

// SearxNG is the secondary connector: paginated, no quota accounting. An
// unreachable instance or an empty page ends pagination gracefully.
type SearxNG struct {
	doer     Doer
	store    cache.Store
	baseURL  string
	maxPages int
	cacheTTL time.Duration
	logger   *slog.Logger
}

// SearxOption configures a SearxNG connector.
type SearxOption func(*SearxNG)

// WithSearxDoer sets the HTTP client used for page fetches.
// Default is an http.Client with a 10s timeout.
func WithSearxDoer(doer Doer) SearxOption {
	return func(s *SearxNG) {
		if doer != nil {
			s.doer = doer
		}
	}
}

// WithSearxMaxPages caps how many pages one Fetch may request.
func WithSearxMaxPages(n int) SearxOption {
	return func(s *SearxNG) {
		if n > 0 {
			s.maxPages = n
		}
	}
}

// WithSearxCacheTTL sets how long cached pages stay fresh.
func WithSearxCacheTTL(ttl time.Duration) SearxOption {
	return func(s *SearxNG) {
		s.cacheTTL = ttl
	}
}

// WithSearxLogger sets a custom logger.
// Default is slog.Default().
func WithSearxLogger(logger *slog.Logger) SearxOption {
	return func(s *SearxNG) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSearxNG creates the secondary connector against baseURL.
func NewSearxNG(store cache.Store, baseURL string, opts ...SearxOption) (*SearxNG, error) {
	if store == nil {
		return nil, ErrCacheRequired
	}
	if baseURL == "" {
		baseURL = defaultSearxBase
	}

	s := &SearxNG{
		doer:     &http.Client{Timeout: defaultSearchTimeout},
		store:    store,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxPages: searxMaxPages,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Name identifies the connector in logs and fusion ordering.
func (s *SearxNG) Name() string { return "searxng" }

// Source reports which hit source this connector produces.
func (s *SearxNG) Source() core.Source { return core.SourceSecondary }

// Fetch pages through results for query until targetTotal hits are gathered,
// a page comes back empty, or the page cap is hit. Reachability failures are
// graceful termination, never an error: the provider just contributed what it
// could.
func (s *SearxNG) Fetch(ctx context.Context, query string, targetTotal int) ([]core.SearchHit, error) {
	if targetTotal < 1 {
		return nil, core.ErrInvalidLimit
	}

	out := make([]core.SearchHit, 0, targetTotal)
	for pageno := 1; len(out) < targetTotal && pageno <= s.maxPages; pageno++ {
		key := fmt.Sprintf("sx:%s:%d", query, pageno)

		items, ok := s.cachedPage(key)
		if !ok {
			body, err := s.getPage(ctx, query, pageno)
			if err != nil {
				s.logger.Info("metasearch unreachable, stopping pagination",
					"query", query, "pageno", pageno, "err", err)
				break
			}
			if items, err = parseSearxPage(body); err != nil {
				s.logger.Info("metasearch returned invalid payload, stopping pagination",
					"query", query, "pageno", pageno, "err", err)
				break
			}
			s.store.Set(key, marshalPage(items), s.cacheTTL)
		}

		for idx, it := range items {
			out = append(out, core.SearchHit{
				URL:        it.URL,
				Title:      it.Title,
				Snippet:    it.Snippet,
				Source:     core.SourceSecondary,
				EngineRank: (pageno-1)*searxPageSize + idx + 1,
			})
		}
		if len(items) == 0 {
			break
		}
	}
	return out, nil
}

func (s *SearxNG) getPage(ctx context.Context, query string, pageno int) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/search", nil)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = url.Values{
		"q":      {query},
		"format": {"json"},
		"pageno": {strconv.Itoa(pageno)},
	}.Encode()

	resp, err := s.doer.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (s *SearxNG) cachedPage(key string) ([]pageItem, bool) {
	raw, ok := s.store.Get(key)
	if !ok {
		return nil, false
	}
	items, err := unmarshalPage(raw)
	if err != nil {
		s.logger.Warn("dropping corrupt cached page", "key", key, "err", err)
		return nil, false
	}
	return items, true
}

func parseSearxPage(body []byte) ([]pageItem, error) {
	var payload struct {
		Results []struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Content string `json:"content"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	items := make([]pageItem, 0, len(payload.Results))
	for _, it := range payload.Results {
		if it.URL == "" {
			continue
		}
		items = append(items, pageItem{Title: it.Title, URL: it.URL, Snippet: it.Content})
	}
	return items, nil
}
