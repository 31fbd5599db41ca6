package collab

import (
	"context"

	"github.com/PanagiotisDrakatos/TraceMatrix/core"
)

// Ingestor submits discovered URLs (with optional accompanying text) to the
// external document store for crawling and indexing.
// Implementations must be safe for concurrent use.
type Ingestor interface {
	// IngestURLs submits urls for ingestion and returns the accepted count.
	IngestURLs(ctx context.Context, urls []string, text string) (int, error)
}

// HybridSearcher queries the external lexical+vector index.
// Implementations must be safe for concurrent use.
type HybridSearcher interface {
	// SearchHybrid returns up to k hits for query, ranked by the
	// collaborator. Hits carry core.SourceHybrid unless the collaborator
	// reports otherwise.
	SearchHybrid(ctx context.Context, query string, k int) ([]core.SearchHit, error)
}

// ExportRequest describes one export run.
type ExportRequest struct {
	// Name is the subject name, used for slugging inside filenames.
	Name string

	// Rows are the accumulated result rows to write.
	Rows []core.ExportRow

	// Dir is the output directory.
	Dir string

	// Filename is the templated base filename; the ".ext" suffix is
	// replaced per format.
	Filename string

	// Formats lists the output formats to produce ("csv", "json").
	Formats []string

	// SplitByEntity additionally writes per-entity-kind files
	// (urls, phones, images, pdfs).
	SplitByEntity bool
}

// ExportResult reports where the export landed.
type ExportResult struct {
	// Paths maps format name to output location.
	Paths map[string]string
}

// Exporter writes accumulated rows through the external export collaborator.
type Exporter interface {
	Export(ctx context.Context, req ExportRequest) (ExportResult, error)
}

// IdentityLookup resolves a username or email to accounts across sites.
// Process lifecycle of the underlying OSINT tooling (spawn, timeout, kill)
// is an adapter detail; callers only see typed hits or an error.
type IdentityLookup interface {
	// LookupUsername returns accounts registered under username, ordered
	// by the collaborator. May return ErrRateLimited.
	LookupUsername(ctx context.Context, username string) ([]core.IdentityHit, error)

	// LookupEmail returns accounts associated with email, ordered by the
	// collaborator. May return ErrRateLimited.
	LookupEmail(ctx context.Context, email string) ([]core.IdentityHit, error)
}
