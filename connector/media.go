package connector

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/PanagiotisDrakatos/TraceMatrix/core"
)

const (
	defaultImagesLimit = 20
	defaultPDFsLimit   = 15
)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".gif"}

// MediaFinder discovers image and document hits through the metasearch
// engine. Each category is tried twice: a category-specific query first,
// then a general-category query filtered by file-extension heuristics.
// Failures are swallowed per tier; an empty result is a valid outcome.
type MediaFinder struct {
	doer        Doer
	baseURL     string
	imagesLimit int
	pdfsLimit   int
	logger      *slog.Logger
}

// MediaOption configures a MediaFinder.
type MediaOption func(*MediaFinder)

// WithMediaDoer sets the HTTP client used for discovery calls.
// Default is an http.Client with a 10s timeout.
func WithMediaDoer(doer Doer) MediaOption {
	return func(m *MediaFinder) {
		if doer != nil {
			m.doer = doer
		}
	}
}

// WithMediaLimits caps how many hits each category may contribute.
func WithMediaLimits(images, pdfs int) MediaOption {
	return func(m *MediaFinder) {
		if images > 0 {
			m.imagesLimit = images
		}
		if pdfs > 0 {
			m.pdfsLimit = pdfs
		}
	}
}

// WithMediaLogger sets a custom logger.
// Default is slog.Default().
func WithMediaLogger(logger *slog.Logger) MediaOption {
	return func(m *MediaFinder) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewMediaFinder creates a finder against the metasearch base URL.
func NewMediaFinder(baseURL string, opts ...MediaOption) (*MediaFinder, error) {
	if baseURL == "" {
		baseURL = defaultSearxBase
	}
	m := &MediaFinder{
		doer:        &http.Client{Timeout: defaultSearchTimeout},
		baseURL:     strings.TrimRight(baseURL, "/"),
		imagesLimit: defaultImagesLimit,
		pdfsLimit:   defaultPDFsLimit,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Discover returns typed media hits for the name/keyword query: images first,
// then documents. Hits without a URL are dropped.
func (m *MediaFinder) Discover(ctx context.Context, name string, keywords []string) ([]core.SearchHit, error) {
	query := mediaQuery(name, keywords)
	if query == "" {
		return nil, core.ErrEmptyQuery
	}

	out := make([]core.SearchHit, 0, m.imagesLimit+m.pdfsLimit)
	out = append(out, m.discoverImages(ctx, query)...)
	out = append(out, m.discoverPDFs(ctx, query)...)
	return out, nil
}

func (m *MediaFinder) discoverImages(ctx context.Context, query string) []core.SearchHit {
	items, err := m.search(ctx, query, "images")
	if err != nil {
		m.logger.Info("image category search failed, trying general fallback", "err", err)
		items = nil
	}

	hits := make([]core.SearchHit, 0, m.imagesLimit)
	for _, it := range items {
		if len(hits) == m.imagesLimit {
			break
		}
		src := it.ImgSrc
		if src == "" {
			src = it.URL
		}
		if src == "" {
			continue
		}
		hits = append(hits, mediaHit(src, it, core.SourceImage, len(hits)+1))
	}
	if len(hits) > 0 {
		return hits
	}

	// Tier two: general category, keep only hits that look like images.
	items, err = m.search(ctx, query, "general")
	if err != nil {
		m.logger.Info("general image fallback failed", "err", err)
		return nil
	}
	for _, it := range items {
		if len(hits) == m.imagesLimit {
			break
		}
		src := it.ImgSrc
		if src == "" {
			src = it.Thumbnail
		}
		if src == "" {
			src = it.URL
		}
		if !hasAnySuffix(src, imageExtensions) {
			continue
		}
		hits = append(hits, mediaHit(src, it, core.SourceImage, len(hits)+1))
	}
	return hits
}

func (m *MediaFinder) discoverPDFs(ctx context.Context, query string) []core.SearchHit {
	fileQuery := "filetype:pdf " + query

	items, err := m.search(ctx, fileQuery, "files")
	if err != nil {
		m.logger.Info("files category search failed, trying general fallback", "err", err)
		items = nil
	}

	hits := make([]core.SearchHit, 0, m.pdfsLimit)
	for _, it := range items {
		if len(hits) == m.pdfsLimit {
			break
		}
		if it.URL == "" {
			continue
		}
		hits = append(hits, mediaHit(it.URL, it, core.SourcePDF, len(hits)+1))
	}
	if len(hits) > 0 {
		return hits
	}

	// Tier two: general category, keep only .pdf URLs.
	items, err = m.search(ctx, fileQuery, "general")
	if err != nil {
		m.logger.Info("general pdf fallback failed", "err", err)
		return nil
	}
	for _, it := range items {
		if len(hits) == m.pdfsLimit {
			break
		}
		if !strings.HasSuffix(strings.ToLower(it.URL), ".pdf") {
			continue
		}
		hits = append(hits, mediaHit(it.URL, it, core.SourcePDF, len(hits)+1))
	}
	return hits
}

type mediaItem struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	ImgSrc    string `json:"img_src"`
	Thumbnail string `json:"thumbnail"`
}

func (m *MediaFinder) search(ctx context.Context, query, category string) ([]mediaItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/search", nil)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = url.Values{
		"q":          {query},
		"format":     {"json"},
		"categories": {category},
		"language":   {"en"},
	}.Encode()

	resp, err := m.doer.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, ErrUpstream
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Results []mediaItem `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

func mediaHit(hitURL string, it mediaItem, source core.Source, rank int) core.SearchHit {
	return core.SearchHit{
		URL:        hitURL,
		Title:      it.Title,
		Domain:     domainOf(hitURL),
		Source:     source,
		EngineRank: rank,
	}
}

func mediaQuery(name string, keywords []string) string {
	parts := make([]string, 0, len(keywords)+1)
	if strings.TrimSpace(name) != "" {
		parts = append(parts, strings.TrimSpace(name))
	}
	for _, k := range keywords {
		if k != "" {
			parts = append(parts, k)
		}
	}
	return strings.Join(parts, " ")
}

func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

func hasAnySuffix(s string, suffixes []string) bool {
	lower := strings.ToLower(s)
	for _, suffix := range suffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}
