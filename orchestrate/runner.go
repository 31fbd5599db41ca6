package orchestrate

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/PanagiotisDrakatos/TraceMatrix/adaptive"
	"github.com/PanagiotisDrakatos/TraceMatrix/collab"
	"github.com/PanagiotisDrakatos/TraceMatrix/config"
	"github.com/PanagiotisDrakatos/TraceMatrix/core"
	"github.com/PanagiotisDrakatos/TraceMatrix/search"
)

const (
	defaultIngestLimit = 60
	defaultExportLimit = 2000
)

// Searcher produces the fused web-search result for a query. Satisfied by
// search.Aggregator.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]core.SearchHit, error)
}

// MediaDiscoverer finds typed image and document hits for a subject.
// Satisfied by connector.MediaFinder.
type MediaDiscoverer interface {
	Discover(ctx context.Context, name string, keywords []string) ([]core.SearchHit, error)
}

// Runner executes fallback orchestration runs. Collaborators left unset
// have their stage skipped; the pipeline shape never changes.
type Runner struct {
	searcher Searcher
	ingestor collab.Ingestor
	hybrid   collab.HybridSearcher
	media    MediaDiscoverer
	exporter collab.Exporter
	cfg      config.Config
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithIngestor wires the document-store ingestion collaborator.
func WithIngestor(i collab.Ingestor) Option {
	return func(r *Runner) { r.ingestor = i }
}

// WithHybridSearcher wires the hybrid search collaborator.
func WithHybridSearcher(h collab.HybridSearcher) Option {
	return func(r *Runner) { r.hybrid = h }
}

// WithMediaDiscoverer wires the media discovery source.
func WithMediaDiscoverer(m MediaDiscoverer) Option {
	return func(r *Runner) { r.media = m }
}

// WithExporter wires the export collaborator.
func WithExporter(e collab.Exporter) Option {
	return func(r *Runner) { r.exporter = e }
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a runner over the given searcher and plan configuration.
func NewRunner(searcher Searcher, cfg config.Config, opts ...Option) (*Runner, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}

	r := &Runner{
		searcher: searcher,
		cfg:      cfg,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// dedupKey is the composite identity of a result within one run: the
// canonical URL plus a hash of the lower-cased title, so near-duplicate
// titles under slightly different URLs still collide.
type dedupKey struct {
	url   string
	title uint64
}

func keyOf(h core.SearchHit) dedupKey {
	return dedupKey{url: search.NormalizeURL(h.URL), title: core.TitleKey(h.Title)}
}

// Run executes one orchestration for req under the given per-run limits and
// returns the outcome together with the limits adjusted for the next run.
//
// When req carries explicit URLs the search stages are skipped and the URLs
// go straight to ingest and export. Otherwise, if fallback is enabled by
// both the request and the configuration, the full pipeline runs; a run
// with fallback disabled stops at Init with nothing done.
func (r *Runner) Run(ctx context.Context, req *core.OrchestrateRequest, limits core.Limits) (core.FallbackRunResult, core.Limits, error) {
	if err := core.ValidateOrchestrateRequest(req); err != nil {
		return core.FallbackRunResult{}, limits, err
	}

	if len(req.URLs) > 0 {
		return r.runStandard(ctx, req, limits)
	}
	if !req.Fallback || !r.cfg.Fallback.Enabled {
		r.logger.Info("fallback disabled, nothing to do", "request_fallback", req.Fallback, "config_fallback", r.cfg.Fallback.Enabled)
		res := core.FallbackRunResult{
			StageReached: core.StageInit,
			ExportPaths:  map[string]string{},
			StartedAt:    r.now(),
			FinishedAt:   r.now(),
		}
		return res, limits, nil
	}
	return r.runFallback(ctx, req, limits)
}

func (r *Runner) runFallback(ctx context.Context, req *core.OrchestrateRequest, limits core.Limits) (core.FallbackRunResult, core.Limits, error) {
	started := r.now()
	query := req.Query()

	// WebSearch. A searcher failure leaves zero candidate URLs, and every
	// later stage depends on having at least one, so it terminates the run
	// the same way a definitive empty result does.
	webHits := r.webSearch(ctx, query, limits.SearchLimit)
	phonesFound := harvestPhones(webHits)
	observed := core.Observed{
		SearchHits:  len(webHits),
		PhonesFound: len(phonesFound),
		PhoneInput:  req.Phone != "",
	}

	if len(webHits) == 0 {
		r.logger.Info("web search returned zero urls", "query", query, "stage", core.StageEmptyResult)
		res := core.FallbackRunResult{
			StageReached: core.StageEmptyResult,
			ExportPaths:  map[string]string{},
			StartedAt:    started,
			FinishedAt:   r.now(),
		}
		return res, adaptive.Adjust(limits, observed), nil
	}

	phonesConsidered := phonesFound
	if req.Phone != "" {
		phonesConsidered = []string{req.Phone}
	} else if len(phonesConsidered) > limits.PhoneLimit {
		phonesConsidered = phonesConsidered[:limits.PhoneLimit]
	}

	r.ingest(ctx, req, webHits)

	results := make([]core.SearchHit, len(webHits))
	copy(results, webHits)
	seen := make(map[dedupKey]struct{}, len(results))
	for _, h := range results {
		seen[keyOf(h)] = struct{}{}
	}

	results = r.hybridSearch(ctx, query, results, seen)
	results = r.mediaDiscovery(ctx, req, results, seen)

	exported, paths := r.export(ctx, req, results, phonesConsidered)

	res := core.FallbackRunResult{
		StageReached:   core.StageDone,
		ExportedRows:   exported,
		ExportPaths:    paths,
		ResultsPreview: preview(results),
		PhonesFound:    phonesFound,
		StartedAt:      started,
		FinishedAt:     r.now(),
	}
	return res, adaptive.Adjust(limits, observed), nil
}

// runStandard handles requests that already carry target URLs: no search,
// just ingest and export of the given set.
func (r *Runner) runStandard(ctx context.Context, req *core.OrchestrateRequest, limits core.Limits) (core.FallbackRunResult, core.Limits, error) {
	started := r.now()

	urls := req.URLs
	if limit := ingestLimit(req); len(urls) > limit {
		urls = urls[:limit]
	}
	hits := make([]core.SearchHit, 0, len(urls))
	for i, u := range urls {
		hits = append(hits, core.SearchHit{URL: u, Source: core.SourcePrimary, EngineRank: i + 1})
	}

	r.ingest(ctx, req, hits)
	exported, paths := r.export(ctx, req, hits, nil)

	res := core.FallbackRunResult{
		StageReached:   core.StageDone,
		ExportedRows:   exported,
		ExportPaths:    paths,
		ResultsPreview: preview(hits),
		StartedAt:      started,
		FinishedAt:     r.now(),
	}
	observed := core.Observed{SearchHits: len(hits), PhoneInput: req.Phone != ""}
	return res, adaptive.Adjust(limits, observed), nil
}

func (r *Runner) webSearch(ctx context.Context, query string, limit int) []core.SearchHit {
	sctx, cancel := r.stageCtx(ctx)
	defer cancel()

	hits, err := r.searcher.Search(sctx, query, limit)
	if err != nil {
		r.logger.Warn("web search failed", "stage", core.StageWebSearch, "err", err)
		return nil
	}
	return hits
}

func (r *Runner) ingest(ctx context.Context, req *core.OrchestrateRequest, hits []core.SearchHit) {
	if r.ingestor == nil || len(hits) == 0 {
		return
	}
	sctx, cancel := r.stageCtx(ctx)
	defer cancel()

	limit := min(ingestLimit(req), len(hits))
	urls := make([]string, 0, limit)
	snippets := make([]string, 0, limit)
	for _, h := range hits[:limit] {
		urls = append(urls, h.URL)
		if h.Snippet != "" {
			snippets = append(snippets, h.Snippet)
		}
	}

	count, err := r.ingestor.IngestURLs(sctx, urls, strings.Join(snippets, " "))
	if err != nil {
		r.logger.Warn("ingest failed, continuing", "stage", core.StageIngest, "err", err)
		return
	}
	r.logger.Debug("ingested urls", "stage", core.StageIngest, "count", count)
}

func (r *Runner) hybridSearch(ctx context.Context, query string, results []core.SearchHit, seen map[dedupKey]struct{}) []core.SearchHit {
	if r.hybrid == nil {
		return results
	}
	sctx, cancel := r.stageCtx(ctx)
	defer cancel()

	hits, err := r.hybrid.SearchHybrid(sctx, query, r.cfg.HybridK())
	if err != nil {
		r.logger.Warn("hybrid search failed, continuing", "stage", core.StageHybridSearch, "err", err)
		return results
	}
	return appendNovel(results, hits, seen)
}

func (r *Runner) mediaDiscovery(ctx context.Context, req *core.OrchestrateRequest, results []core.SearchHit, seen map[dedupKey]struct{}) []core.SearchHit {
	if r.media == nil {
		return results
	}
	sctx, cancel := r.stageCtx(ctx)
	defer cancel()

	hits, err := r.media.Discover(sctx, req.Name, req.Keywords)
	if err != nil {
		r.logger.Warn("media discovery failed, continuing", "stage", core.StageMediaDiscovery, "err", err)
		return results
	}
	return appendNovel(results, hits, seen)
}

// export builds the row set and hands it to the export collaborator. An
// export failure zeroes the stage contribution but still reaches Done.
func (r *Runner) export(ctx context.Context, req *core.OrchestrateRequest, results []core.SearchHit, phones []string) (int, map[string]string) {
	rows := buildRows(results, phones, exportLimit(req))
	if r.exporter == nil || len(rows) == 0 {
		return 0, map[string]string{}
	}
	sctx, cancel := r.stageCtx(ctx)
	defer cancel()

	step := r.cfg.ExportStep()
	out, err := r.exporter.Export(sctx, collab.ExportRequest{
		Name:          req.Name,
		Rows:          rows,
		Dir:           step.Dir,
		Filename:      config.FilenameFromTemplate(step.FilenameTemplate, req.Name, r.now()),
		Formats:       step.Formats,
		SplitByEntity: step.SplitEnabled(),
	})
	if err != nil {
		r.logger.Warn("export failed, continuing", "stage", core.StageExport, "err", err)
		return 0, map[string]string{}
	}
	if out.Paths == nil {
		out.Paths = map[string]string{}
	}
	return len(rows), out.Paths
}

func (r *Runner) stageCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.cfg.PerStepTimeout())
}

func appendNovel(results, hits []core.SearchHit, seen map[dedupKey]struct{}) []core.SearchHit {
	for _, h := range hits {
		if h.URL == "" {
			continue
		}
		k := keyOf(h)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		results = append(results, h)
	}
	return results
}

func buildRows(results []core.SearchHit, phones []string, limit int) []core.ExportRow {
	rows := make([]core.ExportRow, 0, len(results)+len(phones))
	for _, h := range results {
		kind := core.ExportRowURL
		switch h.Source {
		case core.SourceImage:
			kind = core.ExportRowImage
		case core.SourcePDF:
			kind = core.ExportRowPDF
		}
		rows = append(rows, core.ExportRow{Kind: kind, Value: h.URL, Title: h.Title, Source: h.Source.String()})
	}
	for _, p := range phones {
		rows = append(rows, core.ExportRow{Kind: core.ExportRowPhone, Value: p, Source: "discovered"})
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

func preview(results []core.SearchHit) []core.SearchHit {
	n := min(core.PreviewSize, len(results))
	out := make([]core.SearchHit, n)
	copy(out, results[:n])
	return out
}

func ingestLimit(req *core.OrchestrateRequest) int {
	if req.IngestLimit > 0 {
		return req.IngestLimit
	}
	return defaultIngestLimit
}

func exportLimit(req *core.OrchestrateRequest) int {
	if req.ExportLimit > 0 {
		return req.ExportLimit
	}
	return defaultExportLimit
}
