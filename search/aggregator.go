package search

import (
	"context"
	"log/slog"
	"sync"

	"github.com/PanagiotisDrakatos/TraceMatrix/core"
	"github.com/panjf2000/ants/v2"
)

// Provider fetches one ranked hit list for a query. Both connectors satisfy
// it, as do the stub providers used in tests.
type Provider interface {
	// Fetch returns up to targetTotal hits in page-retrieval order.
	Fetch(ctx context.Context, query string, targetTotal int) ([]core.SearchHit, error)

	// Name identifies the provider in logs.
	Name() string
}

// Aggregator fans a query out to every provider concurrently and fuses the
// ranked lists into one ordering. Provider enumeration order is fixed at
// construction; it decides first-discovery tie order in the fused list.
type Aggregator struct {
	providers []Provider
	pool      *ants.Pool
	logger    *slog.Logger
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) AggregatorOption {
	return func(a *Aggregator) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// NewAggregator creates an aggregator over the given providers. Providers are
// enumerated in the order given; list the primary engine first.
func NewAggregator(providers []Provider, opts ...AggregatorOption) (*Aggregator, error) {
	if len(providers) == 0 {
		return nil, ErrProvidersRequired
	}

	pool, err := ants.NewPool(len(providers))
	if err != nil {
		return nil, err
	}

	a := &Aggregator{
		providers: providers,
		pool:      pool,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			a.pool.Release()
			return nil, err
		}
	}
	return a, nil
}

// Search runs the query against every provider concurrently, deduplicates
// each provider's list, and returns the RRF-fused ordering truncated to
// limit. A provider error means zero hits from that provider, logged and
// otherwise ignored; partial results are the normal degraded outcome.
func (a *Aggregator) Search(ctx context.Context, query string, limit int) ([]core.SearchHit, error) {
	if limit < 1 {
		return nil, core.ErrInvalidLimit
	}

	lists := make([][]core.SearchHit, len(a.providers))
	var wg sync.WaitGroup
	for i, provider := range a.providers {
		wg.Add(1)
		submitErr := a.pool.Submit(func() {
			defer wg.Done()
			hits, err := provider.Fetch(ctx, query, limit)
			if err != nil {
				a.logger.Warn("provider yielded no results", "provider", provider.Name(), "err", err)
				return
			}
			lists[i] = Dedup(hits)
		})
		if submitErr != nil {
			wg.Done()
			a.logger.Warn("provider task rejected", "provider", provider.Name(), "err", submitErr)
		}
	}
	wg.Wait()

	return Fuse(lists, limit), nil
}

// Release releases the worker pool. The aggregator must not be used after
// calling Release.
func (a *Aggregator) Release() {
	if a.pool != nil {
		a.pool.Release()
	}
}
