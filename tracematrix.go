// Copyright 2025 TraceMatrix Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package tracematrix assembles the search fusion and fallback orchestration
// service from configuration and deployment environment: the TTL result
// cache, the provider connectors, the rank-fusion aggregator, the media
// finder, the collaborator client, and the fallback runner.
package tracematrix

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/PanagiotisDrakatos/TraceMatrix/cache"
	"github.com/PanagiotisDrakatos/TraceMatrix/collab"
	"github.com/PanagiotisDrakatos/TraceMatrix/collab/httpapi"
	"github.com/PanagiotisDrakatos/TraceMatrix/config"
	"github.com/PanagiotisDrakatos/TraceMatrix/connector"
	"github.com/PanagiotisDrakatos/TraceMatrix/core"
	"github.com/PanagiotisDrakatos/TraceMatrix/orchestrate"
	"github.com/PanagiotisDrakatos/TraceMatrix/search"
)

// ErrNoCollaborator is returned by operations that need the collaborator
// service when ORCH_BASE_URL is not configured.
var ErrNoCollaborator = errors.New("collaborator service not configured")

// Environment variables read at construction. Values are deployment
// secrets; only the names are fixed here.
const (
	EnvGoogleAPIKey = "GOOGLE_CSE_API_KEY"
	EnvGoogleCX     = "GOOGLE_CSE_CX"
	EnvSearxBase    = "SEARXNG_BASE_URL"
	EnvSearxBaseAlt = "SEARX_BASE"
	EnvOrchBase     = "ORCH_BASE_URL"
	EnvCacheDir     = "CACHE_DIR"
	EnvCacheTTL     = "CACHE_TTL_SECONDS"
)

// Service is the assembled application facade.
type Service struct {
	store  cache.Store
	agg    *search.Aggregator
	media  *connector.MediaFinder
	client *httpapi.Client
	runner *orchestrate.Runner
	cfg    config.Config
	logger *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	logger *slog.Logger
}

// WithServiceLogger sets a custom logger.
// Default is slog.Default().
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewService builds the service. configPath may be empty; a missing or
// unparsable plan file falls back to defaults. The primary connector is
// wired only when its credential pair is present in the environment — a
// deployment without it runs on the secondary engine alone.
func NewService(configPath string, opts ...ServiceOption) (*Service, error) {
	options := &serviceOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}
	logger := options.logger

	cfg := config.Load(configPath, logger)
	store := cache.Open(os.Getenv(EnvCacheDir), cache.WithLogger(logger))
	ttl := cacheTTLFromEnv()

	searxBase := os.Getenv(EnvSearxBase)
	if searxBase == "" {
		searxBase = os.Getenv(EnvSearxBaseAlt)
	}

	var providers []search.Provider

	apiKey, cx := os.Getenv(EnvGoogleAPIKey), os.Getenv(EnvGoogleCX)
	if apiKey != "" && cx != "" {
		google, err := connector.NewGoogleCSE(store, apiKey, cx,
			connector.WithGoogleCacheTTL(ttl),
			connector.WithGoogleLogger(logger),
		)
		if err != nil {
			store.Close()
			return nil, err
		}
		providers = append(providers, google)
	} else {
		logger.Info("primary engine credentials absent, running on secondary only")
	}

	searx, err := connector.NewSearxNG(store, searxBase,
		connector.WithSearxCacheTTL(ttl),
		connector.WithSearxLogger(logger),
	)
	if err != nil {
		store.Close()
		return nil, err
	}
	providers = append(providers, searx)

	agg, err := search.NewAggregator(providers, search.WithLogger(logger))
	if err != nil {
		store.Close()
		return nil, err
	}

	media, err := connector.NewMediaFinder(searxBase, connector.WithMediaLogger(logger))
	if err != nil {
		agg.Release()
		store.Close()
		return nil, err
	}

	runnerOpts := []orchestrate.Option{
		orchestrate.WithMediaDiscoverer(media),
		orchestrate.WithLogger(logger),
	}

	var client *httpapi.Client
	if base := os.Getenv(EnvOrchBase); base != "" {
		client, err = httpapi.NewClient(base, httpapi.WithLogger(logger))
		if err != nil {
			agg.Release()
			store.Close()
			return nil, err
		}
		runnerOpts = append(runnerOpts,
			orchestrate.WithIngestor(client),
			orchestrate.WithHybridSearcher(client),
			orchestrate.WithExporter(client),
		)
	}

	runner, err := orchestrate.NewRunner(agg, cfg, runnerOpts...)
	if err != nil {
		agg.Release()
		store.Close()
		return nil, err
	}

	return &Service{
		store:  store,
		agg:    agg,
		media:  media,
		client: client,
		runner: runner,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Search runs a fused web search across the configured providers.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]core.SearchHit, error) {
	return s.agg.Search(ctx, query, limit)
}

// Orchestrate executes one orchestration run and returns the outcome with
// the limits adjusted for the caller's next run.
func (s *Service) Orchestrate(ctx context.Context, req *core.OrchestrateRequest, limits core.Limits) (core.FallbackRunResult, core.Limits, error) {
	return s.runner.Run(ctx, req, limits)
}

// DiscoverMedia previews image and document hits for a subject.
func (s *Service) DiscoverMedia(ctx context.Context, name string, keywords []string) ([]core.SearchHit, error) {
	return s.media.Discover(ctx, name, keywords)
}

// Lookup resolves a username and/or email to identity hits through the
// collaborator service and merges the two lists, preferring username hits
// when both report the same account. Rate-limited lookups are retried once.
func (s *Service) Lookup(ctx context.Context, username, email string) ([]core.IdentityHit, error) {
	if s.client == nil {
		return nil, ErrNoCollaborator
	}
	if username == "" && email == "" {
		return nil, core.ErrEmptyQuery
	}

	var byUser, byEmail []core.IdentityHit
	if username != "" {
		err := collab.WithRateLimitRetry(ctx, func() error {
			var err error
			byUser, err = s.client.LookupUsername(ctx, username)
			return err
		}, time.Second)
		if err != nil {
			s.logger.Warn("username lookup failed", "err", err)
		}
	}
	if email != "" {
		err := collab.WithRateLimitRetry(ctx, func() error {
			var err error
			byEmail, err = s.client.LookupEmail(ctx, email)
			return err
		}, time.Second)
		if err != nil {
			s.logger.Warn("email lookup failed", "err", err)
		}
	}
	return search.MergeIdentityHits(byUser, byEmail, "username"), nil
}

// Config exposes the loaded plan configuration.
func (s *Service) Config() config.Config {
	return s.cfg
}

// Close releases the aggregator pool and the cache backend.
func (s *Service) Close() error {
	s.agg.Release()
	if err := s.store.Close(); err != nil {
		s.logger.Error("error closing cache store", "err", err)
		return err
	}
	return nil
}

func cacheTTLFromEnv() time.Duration {
	raw := os.Getenv(EnvCacheTTL)
	if raw == "" {
		return cache.DefaultTTL
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		return cache.DefaultTTL
	}
	return time.Duration(secs) * time.Second
}
