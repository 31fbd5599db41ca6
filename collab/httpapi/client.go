package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PanagiotisDrakatos/TraceMatrix/collab"
	"github.com/PanagiotisDrakatos/TraceMatrix/core"
)

const defaultClientTimeout = 30 * time.Second

// Doer abstracts the HTTP client for testability.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the orchestrator collaborator service. One Client covers
// every collab interface; wiring picks the subset it needs.
type Client struct {
	doer    Doer
	baseURL string
	logger  *slog.Logger
}

// Interface compliance.
var (
	_ collab.Ingestor       = (*Client)(nil)
	_ collab.HybridSearcher = (*Client)(nil)
	_ collab.Exporter       = (*Client)(nil)
	_ collab.IdentityLookup = (*Client)(nil)
)

// Option configures a Client.
type Option func(*Client)

// WithDoer sets the HTTP client. Default is an http.Client with a 30s timeout.
func WithDoer(doer Doer) Option {
	return func(c *Client) {
		if doer != nil {
			c.doer = doer
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a collaborator client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, ErrBaseURLRequired
	}

	c := &Client{
		doer:    &http.Client{Timeout: defaultClientTimeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// IngestURLs submits urls and accompanying text for indexing.
func (c *Client) IngestURLs(ctx context.Context, urls []string, text string) (int, error) {
	in := struct {
		URLs []string `json:"urls"`
		Text string   `json:"text,omitempty"`
	}{URLs: urls, Text: text}

	var out struct {
		Count int `json:"count"`
	}
	if err := c.post(ctx, "/ingest_urls", in, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// SearchHybrid queries the lexical+vector index for up to k hits.
func (c *Client) SearchHybrid(ctx context.Context, query string, k int) ([]core.SearchHit, error) {
	in := struct {
		Query string `json:"query"`
		K     int    `json:"k"`
	}{Query: query, K: k}

	var out struct {
		Results []struct {
			URL    string `json:"url"`
			Title  string `json:"title"`
			Domain string `json:"domain"`
			Source string `json:"source"`
		} `json:"results"`
	}
	if err := c.post(ctx, "/search_hybrid", in, &out); err != nil {
		return nil, err
	}

	hits := make([]core.SearchHit, 0, len(out.Results))
	for i, r := range out.Results {
		if r.URL == "" {
			continue
		}
		hits = append(hits, core.SearchHit{
			URL:        r.URL,
			Title:      r.Title,
			Domain:     r.Domain,
			Source:     sourceFromWire(r.Source),
			EngineRank: i + 1,
		})
	}
	return hits, nil
}

// Export hands accumulated rows to the export collaborator.
func (c *Client) Export(ctx context.Context, req collab.ExportRequest) (collab.ExportResult, error) {
	type wireRow struct {
		Kind   string `json:"kind"`
		Value  string `json:"value"`
		Title  string `json:"title,omitempty"`
		Source string `json:"source,omitempty"`
	}
	rows := make([]wireRow, len(req.Rows))
	for i, r := range req.Rows {
		rows[i] = wireRow{Kind: string(r.Kind), Value: r.Value, Title: r.Title, Source: r.Source}
	}

	in := struct {
		Name          string    `json:"name"`
		Rows          []wireRow `json:"rows"`
		Dir           string    `json:"dir"`
		Filename      string    `json:"filename"`
		Formats       []string  `json:"formats"`
		SplitByEntity bool      `json:"split_by_entity"`
	}{Name: req.Name, Rows: rows, Dir: req.Dir, Filename: req.Filename, Formats: req.Formats, SplitByEntity: req.SplitByEntity}

	var out struct {
		Paths map[string]string `json:"paths"`
	}
	if err := c.post(ctx, "/export", in, &out); err != nil {
		return collab.ExportResult{}, err
	}
	return collab.ExportResult{Paths: out.Paths}, nil
}

// LookupUsername enumerates accounts registered under username.
func (c *Client) LookupUsername(ctx context.Context, username string) ([]core.IdentityHit, error) {
	in := struct {
		Username string `json:"username"`
	}{Username: username}
	return c.lookup(ctx, "/maigret_lookup", in, username, "username")
}

// LookupEmail enumerates accounts associated with email.
func (c *Client) LookupEmail(ctx context.Context, email string) ([]core.IdentityHit, error) {
	in := struct {
		Email string `json:"email"`
	}{Email: email}
	return c.lookup(ctx, "/email_accounts", in, email, "email")
}

func (c *Client) lookup(ctx context.Context, path string, in any, identifier, source string) ([]core.IdentityHit, error) {
	var out struct {
		Hits []struct {
			URL  string `json:"url"`
			Site string `json:"site"`
		} `json:"hits"`
	}
	if err := c.post(ctx, path, in, &out); err != nil {
		return nil, err
	}

	hits := make([]core.IdentityHit, 0, len(out.Hits))
	for _, h := range out.Hits {
		if h.URL == "" {
			continue
		}
		hits = append(hits, core.IdentityHit{URL: h.URL, Site: h.Site, Identifier: identifier, Source: source})
	}
	return hits, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%w: encode %s request: %w", collab.ErrCollaborator, path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %w", collab.ErrCollaborator, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.doer.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", collab.ErrCollaborator, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%s: %w", path, collab.ErrRateLimited)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s returned status %d", collab.ErrCollaborator, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %w", collab.ErrCollaborator, path, err)
	}
	return nil
}

func sourceFromWire(s string) core.Source {
	switch s {
	case "primary", "google":
		return core.SourcePrimary
	case "secondary", "searx":
		return core.SourceSecondary
	case "image":
		return core.SourceImage
	case "pdf":
		return core.SourcePDF
	default:
		return core.SourceHybrid
	}
}
