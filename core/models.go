package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// Source identifies which backend produced a search hit.
type Source int

const (
	// SourcePrimary is the quota-limited commercial engine.
	SourcePrimary Source = iota + 1
	// SourceSecondary is the self-hosted metasearch engine.
	SourceSecondary
	// SourceHybrid marks hits returned by the external hybrid search collaborator.
	SourceHybrid
	// SourceImage marks image hits from media discovery.
	SourceImage
	// SourcePDF marks document hits from media discovery.
	SourcePDF
)

// String returns the wire name of the source.
func (s Source) String() string {
	switch s {
	case SourcePrimary:
		return "primary"
	case SourceSecondary:
		return "secondary"
	case SourceHybrid:
		return "hybrid"
	case SourceImage:
		return "image"
	case SourcePDF:
		return "pdf"
	default:
		return "unknown"
	}
}

// SearchHit is a single result retrieved from one backend.
// EngineRank is the 1-based position within that backend's paginated output.
// FusedScore is zero until the hit has been through rank fusion.
type SearchHit struct {
	URL        string
	Title      string
	Snippet    string
	Domain     string
	Source     Source
	EngineRank int
	FusedScore float64
}

// IdentityHit is a typed hit from an external OSINT lookup collaborator
// (username enumeration, email-existence probing and the like).
type IdentityHit struct {
	URL        string
	Site       string
	Identifier string
	Source     string
}

// Limits are the per-category fetch limits for one orchestration run.
// They are part of the per-run context: a run reads them at the start and
// returns an adjusted copy for the next run. No field may exceed Cap.
type Limits struct {
	SearchLimit int
	EmailLimit  int
	SocialLimit int
	PhoneLimit  int
	Cap         int
}

// DefaultLimits returns the starting limits for a fresh run sequence.
func DefaultLimits() Limits {
	return Limits{
		SearchLimit: 15,
		EmailLimit:  20,
		SocialLimit: 10,
		PhoneLimit:  5,
		Cap:         200,
	}
}

// Observed captures the yield of one orchestration run, consumed by the
// adaptive limiter when computing the next run's limits.
type Observed struct {
	SearchHits  int
	EmailsFound int
	PhonesFound int
	PhoneInput  bool
}

// Stage names a state of the fallback orchestrator.
type Stage int

const (
	StageInit Stage = iota
	StageWebSearch
	StageIngest
	StageHybridSearch
	StageMediaDiscovery
	StageExport
	StageDone
	// StageEmptyResult is the terminal state reached when web search yields
	// zero URLs. It is a valid outcome, not an error.
	StageEmptyResult
)

// String returns the stage name used in logs and result modes.
func (s Stage) String() string {
	switch s {
	case StageInit:
		return "init"
	case StageWebSearch:
		return "websearch"
	case StageIngest:
		return "ingest"
	case StageHybridSearch:
		return "hybrid_search"
	case StageMediaDiscovery:
		return "media_discovery"
	case StageExport:
		return "export"
	case StageDone:
		return "done"
	case StageEmptyResult:
		return "websearch_empty"
	default:
		return "unknown"
	}
}

// PreviewSize bounds ResultsPreview in a FallbackRunResult.
const PreviewSize = 5

// FallbackRunResult is the immutable outcome of one fallback orchestration.
type FallbackRunResult struct {
	StageReached   Stage
	ExportedRows   int
	ExportPaths    map[string]string
	ResultsPreview []SearchHit
	PhonesFound    []string
	StartedAt      time.Time
	FinishedAt     time.Time
}

// OrchestrateRequest is the caller's input to an orchestration run.
// When URLs is empty and fallback is enabled, the staged fallback pipeline
// runs; otherwise the caller is expected to drive the standard path itself.
type OrchestrateRequest struct {
	Name        string
	Keywords    []string
	URLs        []string
	Phone       string
	Fallback    bool
	IngestLimit int
	ExportLimit int
}

// Query joins the request name and keywords into a single search query.
func (r *OrchestrateRequest) Query() string {
	parts := make([]string, 0, len(r.Keywords)+1)
	if strings.TrimSpace(r.Name) != "" {
		parts = append(parts, strings.TrimSpace(r.Name))
	}
	for _, k := range r.Keywords {
		if k != "" {
			parts = append(parts, k)
		}
	}
	return strings.Join(parts, " ")
}

// ExportRowKind categorizes an export row for split-by-kind exports.
type ExportRowKind string

const (
	ExportRowURL   ExportRowKind = "url"
	ExportRowImage ExportRowKind = "image"
	ExportRowPDF   ExportRowKind = "pdf"
	ExportRowPhone ExportRowKind = "phone"
)

// ExportRow is one row handed to the export collaborator.
type ExportRow struct {
	Kind   ExportRowKind
	Value  string
	Title  string
	Source string
}

// KeyFromContent generates a deterministic 64-bit key from text using BLAKE2b.
// Identical content always produces the identical key.
func KeyFromContent(text string) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}

// TitleKey hashes a display title for near-duplicate detection. Titles are
// trimmed and lower-cased first so cosmetic variants collide.
func TitleKey(title string) uint64 {
	return KeyFromContent(strings.ToLower(strings.TrimSpace(title)))
}
