package orchestrate

import (
	"context"
	"errors"
	"testing"

	"github.com/PanagiotisDrakatos/TraceMatrix/collab"
	"github.com/PanagiotisDrakatos/TraceMatrix/collab/mock"
	"github.com/PanagiotisDrakatos/TraceMatrix/config"
	"github.com/PanagiotisDrakatos/TraceMatrix/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSearcher struct {
	hits  []core.SearchHit
	err   error
	calls int
}

func (s *stubSearcher) Search(ctx context.Context, query string, limit int) ([]core.SearchHit, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if len(s.hits) > limit {
		return s.hits[:limit], nil
	}
	return s.hits, nil
}

type stubMedia struct {
	hits  []core.SearchHit
	err   error
	calls int
}

func (s *stubMedia) Discover(ctx context.Context, name string, keywords []string) ([]core.SearchHit, error) {
	s.calls++
	return s.hits, s.err
}

func webHits() []core.SearchHit {
	return []core.SearchHit{
		{URL: "https://a.example/profile", Title: "Ada Lovelace", Snippet: "mathematician +306912345678", Source: core.SourcePrimary, EngineRank: 1},
		{URL: "https://b.example/bio", Title: "Biography", Snippet: "analytical engine", Source: core.SourceSecondary, EngineRank: 1},
	}
}

func fallbackRequest() *core.OrchestrateRequest {
	return &core.OrchestrateRequest{Name: "Ada Lovelace", Keywords: []string{"mathematician"}, Fallback: true}
}

func newTestRunner(t *testing.T, searcher Searcher, opts ...Option) *Runner {
	t.Helper()
	r, err := NewRunner(searcher, config.Default(), opts...)
	require.NoError(t, err)
	return r
}

func TestNewRunner_RequiresSearcher(t *testing.T) {
	_, err := NewRunner(nil, config.Default())
	assert.ErrorIs(t, err, ErrSearcherRequired)
}

func TestRun_RequestValidation(t *testing.T) {
	r := newTestRunner(t, &stubSearcher{})

	_, _, err := r.Run(context.Background(), nil, core.DefaultLimits())
	assert.ErrorIs(t, err, core.ErrEmptyQuery)

	_, _, err = r.Run(context.Background(), &core.OrchestrateRequest{Fallback: true}, core.DefaultLimits())
	assert.ErrorIs(t, err, core.ErrEmptyQuery)
}

func TestRun_EmptyWebSearchShortCircuits(t *testing.T) {
	searcher := &stubSearcher{}
	ingestor := mock.NewMockIngestor()
	hybrid := mock.NewMockHybridSearcher()
	media := &stubMedia{}
	exporter := mock.NewMockExporter()

	r := newTestRunner(t, searcher,
		WithIngestor(ingestor),
		WithHybridSearcher(hybrid),
		WithMediaDiscoverer(media),
		WithExporter(exporter),
	)

	res, adjusted, err := r.Run(context.Background(), fallbackRequest(), core.DefaultLimits())
	require.NoError(t, err, "an empty web search is an outcome, not an error")

	assert.Equal(t, core.StageEmptyResult, res.StageReached)
	assert.Zero(t, res.ExportedRows)
	assert.Empty(t, res.ResultsPreview)
	assert.Empty(t, res.ExportPaths)

	assert.Zero(t, ingestor.CallCount(), "ingest must not run without urls")
	assert.Zero(t, hybrid.CallCount(), "hybrid search must not run without urls")
	assert.Zero(t, media.calls, "media discovery must not run without urls")
	assert.Zero(t, exporter.CallCount(), "export must not run without urls")

	// Zero hits still feed the limiter.
	assert.Equal(t, core.DefaultLimits().SearchLimit*3/2, adjusted.SearchLimit)
}

func TestRun_SearcherFailureTerminatesAsEmpty(t *testing.T) {
	exporter := mock.NewMockExporter()
	r := newTestRunner(t, &stubSearcher{err: errors.New("down")}, WithExporter(exporter))

	res, _, err := r.Run(context.Background(), fallbackRequest(), core.DefaultLimits())
	require.NoError(t, err)
	assert.Equal(t, core.StageEmptyResult, res.StageReached)
	assert.Zero(t, exporter.CallCount())
}

func TestRun_HappyPath(t *testing.T) {
	searcher := &stubSearcher{hits: webHits()}
	ingestor := mock.NewMockIngestor()
	hybrid := mock.NewMockHybridSearcher()
	hybrid.SearchHybridFunc = func(ctx context.Context, query string, k int) ([]core.SearchHit, error) {
		assert.Equal(t, "Ada Lovelace mathematician", query)
		assert.Equal(t, config.DefaultHybridK, k)
		return []core.SearchHit{
			{URL: "https://c.example/paper", Title: "Notes", Source: core.SourceHybrid, EngineRank: 1},
		}, nil
	}
	media := &stubMedia{hits: []core.SearchHit{
		{URL: "https://img.example/ada.jpg", Source: core.SourceImage, EngineRank: 1},
		{URL: "https://doc.example/notes.pdf", Source: core.SourcePDF, EngineRank: 1},
	}}
	exporter := mock.NewMockExporter()

	r := newTestRunner(t, searcher,
		WithIngestor(ingestor),
		WithHybridSearcher(hybrid),
		WithMediaDiscoverer(media),
		WithExporter(exporter),
	)

	res, adjusted, err := r.Run(context.Background(), fallbackRequest(), core.DefaultLimits())
	require.NoError(t, err)

	assert.Equal(t, core.StageDone, res.StageReached)
	assert.Equal(t, 1, ingestor.CallCount())
	assert.Equal(t, 1, exporter.CallCount())

	// 2 web + 1 hybrid + 2 media url-ish rows, plus 1 discovered phone.
	assert.Equal(t, 6, res.ExportedRows)
	assert.Equal(t, []string{"+306912345678"}, res.PhonesFound)
	assert.Len(t, res.ResultsPreview, 5)
	assert.NotEmpty(t, res.ExportPaths["csv"])
	assert.NotEmpty(t, res.ExportPaths["json"])

	req := exporter.LastRequest
	assert.True(t, req.SplitByEntity)
	assert.Contains(t, req.Filename, "ada-lovelace")

	kinds := map[core.ExportRowKind]int{}
	for _, row := range req.Rows {
		kinds[row.Kind]++
	}
	assert.Equal(t, 3, kinds[core.ExportRowURL])
	assert.Equal(t, 1, kinds[core.ExportRowImage])
	assert.Equal(t, 1, kinds[core.ExportRowPDF])
	assert.Equal(t, 1, kinds[core.ExportRowPhone])

	// 2 search hits < 10 ratchets the search limit; a phone was discovered
	// without phone input, so the phone limit grows too.
	assert.Equal(t, core.DefaultLimits().SearchLimit*3/2, adjusted.SearchLimit)
	assert.Equal(t, core.DefaultLimits().PhoneLimit+2, adjusted.PhoneLimit)
}

func TestRun_HybridDedupByCompositeKey(t *testing.T) {
	searcher := &stubSearcher{hits: []core.SearchHit{
		{URL: "https://a.example/page", Title: "Ada Lovelace", Source: core.SourcePrimary, EngineRank: 1},
	}}
	hybrid := mock.NewMockHybridSearcher()
	hybrid.SearchHybridFunc = func(ctx context.Context, query string, k int) ([]core.SearchHit, error) {
		return []core.SearchHit{
			// Same canonical URL, same title modulo case: dropped.
			{URL: "https://a.example/page?utm_source=x", Title: "ADA LOVELACE", Source: core.SourceHybrid, EngineRank: 1},
			// Same URL but a genuinely different title: kept.
			{URL: "https://a.example/page", Title: "Collected letters", Source: core.SourceHybrid, EngineRank: 2},
		}, nil
	}
	exporter := mock.NewMockExporter()

	r := newTestRunner(t, searcher, WithHybridSearcher(hybrid), WithExporter(exporter))

	res, _, err := r.Run(context.Background(), fallbackRequest(), core.DefaultLimits())
	require.NoError(t, err)
	assert.Equal(t, 2, res.ExportedRows)
	require.Len(t, res.ResultsPreview, 2)
	assert.Equal(t, "Collected letters", res.ResultsPreview[1].Title)
}

func TestRun_SoftStageFailures(t *testing.T) {
	boom := errors.New("boom")

	t.Run("ingest failure does not block", func(t *testing.T) {
		ingestor := mock.NewMockIngestor()
		ingestor.IngestURLsFunc = func(ctx context.Context, urls []string, text string) (int, error) {
			return 0, boom
		}
		exporter := mock.NewMockExporter()
		r := newTestRunner(t, &stubSearcher{hits: webHits()}, WithIngestor(ingestor), WithExporter(exporter))

		res, _, err := r.Run(context.Background(), fallbackRequest(), core.DefaultLimits())
		require.NoError(t, err)
		assert.Equal(t, core.StageDone, res.StageReached)
		assert.Equal(t, 1, exporter.CallCount())
	})

	t.Run("hybrid failure contributes zero rows", func(t *testing.T) {
		hybrid := mock.NewMockHybridSearcher()
		hybrid.SearchHybridFunc = func(ctx context.Context, query string, k int) ([]core.SearchHit, error) {
			return nil, boom
		}
		exporter := mock.NewMockExporter()
		r := newTestRunner(t, &stubSearcher{hits: webHits()}, WithHybridSearcher(hybrid), WithExporter(exporter))

		res, _, err := r.Run(context.Background(), fallbackRequest(), core.DefaultLimits())
		require.NoError(t, err)
		assert.Equal(t, core.StageDone, res.StageReached)
		assert.Equal(t, 3, res.ExportedRows) // 2 urls + 1 phone
	})

	t.Run("export failure reaches Done with zero rows", func(t *testing.T) {
		exporter := mock.NewMockExporter()
		exporter.ExportFunc = func(ctx context.Context, req collab.ExportRequest) (collab.ExportResult, error) {
			return collab.ExportResult{}, boom
		}
		r := newTestRunner(t, &stubSearcher{hits: webHits()}, WithExporter(exporter))

		res, _, err := r.Run(context.Background(), fallbackRequest(), core.DefaultLimits())
		require.NoError(t, err)
		assert.Equal(t, core.StageDone, res.StageReached)
		assert.Zero(t, res.ExportedRows)
		assert.Empty(t, res.ExportPaths)
	})
}

func TestRun_PhoneInputOverridesDiscovered(t *testing.T) {
	exporter := mock.NewMockExporter()
	r := newTestRunner(t, &stubSearcher{hits: webHits()}, WithExporter(exporter))

	req := fallbackRequest()
	req.Phone = "+14155550100"

	res, adjusted, err := r.Run(context.Background(), req, core.DefaultLimits())
	require.NoError(t, err)

	var phoneRows []string
	for _, row := range exporter.LastRequest.Rows {
		if row.Kind == core.ExportRowPhone {
			phoneRows = append(phoneRows, row.Value)
		}
	}
	assert.Equal(t, []string{"+14155550100"}, phoneRows, "supplied phone replaces discovered ones")
	assert.Equal(t, []string{"+306912345678"}, res.PhonesFound, "discovered phones still reported")
	assert.Equal(t, core.DefaultLimits().PhoneLimit, adjusted.PhoneLimit, "phone input suppresses the ratchet")
}

func TestRun_ExportLimitCapsRows(t *testing.T) {
	hits := make([]core.SearchHit, 8)
	for i := range hits {
		hits[i] = core.SearchHit{URL: "https://e.example/" + string(rune('a'+i)), Title: "t", EngineRank: i + 1}
	}
	exporter := mock.NewMockExporter()
	r := newTestRunner(t, &stubSearcher{hits: hits}, WithExporter(exporter))

	req := fallbackRequest()
	req.ExportLimit = 3

	res, _, err := r.Run(context.Background(), req, core.DefaultLimits())
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExportedRows)
	assert.Len(t, exporter.LastRequest.Rows, 3)
}

func TestRun_StandardPathWithExplicitURLs(t *testing.T) {
	searcher := &stubSearcher{}
	ingestor := mock.NewMockIngestor()
	var gotURLs []string
	ingestor.IngestURLsFunc = func(ctx context.Context, urls []string, text string) (int, error) {
		gotURLs = urls
		return len(urls), nil
	}
	exporter := mock.NewMockExporter()
	r := newTestRunner(t, searcher, WithIngestor(ingestor), WithExporter(exporter))

	req := &core.OrchestrateRequest{
		Name: "Ada Lovelace",
		URLs: []string{"https://x.example/1", "https://x.example/2"},
	}
	res, _, err := r.Run(context.Background(), req, core.DefaultLimits())
	require.NoError(t, err)

	assert.Equal(t, core.StageDone, res.StageReached)
	assert.Zero(t, searcher.calls, "explicit urls skip web search")
	assert.Equal(t, []string{"https://x.example/1", "https://x.example/2"}, gotURLs)
	assert.Equal(t, 2, res.ExportedRows)
}

func TestRun_FallbackDisabledStopsAtInit(t *testing.T) {
	searcher := &stubSearcher{}

	t.Run("disabled by request", func(t *testing.T) {
		r := newTestRunner(t, searcher)
		req := fallbackRequest()
		req.Fallback = false

		res, adjusted, err := r.Run(context.Background(), req, core.DefaultLimits())
		require.NoError(t, err)
		assert.Equal(t, core.StageInit, res.StageReached)
		assert.Zero(t, searcher.calls)
		assert.Equal(t, core.DefaultLimits(), adjusted, "no run, no adjustment")
	})

	t.Run("disabled by config", func(t *testing.T) {
		cfg := config.Default()
		cfg.Fallback.Enabled = false
		r, err := NewRunner(searcher, cfg)
		require.NoError(t, err)

		res, _, err := r.Run(context.Background(), fallbackRequest(), core.DefaultLimits())
		require.NoError(t, err)
		assert.Equal(t, core.StageInit, res.StageReached)
	})
}

func TestHarvestPhones(t *testing.T) {
	hits := []core.SearchHit{
		{Title: "call 306912345678", Snippet: "+14155550100 office"},
		{URL: "https://t.example/+14155550100"},
		{Snippet: "no digits here"},
		{Snippet: "12345"}, // too short
	}
	phones := harvestPhones(hits)
	assert.Equal(t, []string{"+14155550100", "+306912345678"}, phones)
}
