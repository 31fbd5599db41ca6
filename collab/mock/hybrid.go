package mock

import (
	"context"

	"github.com/PanagiotisDrakatos/TraceMatrix/core"
)

// MockHybridSearcher is a test double for collab.HybridSearcher.
type MockHybridSearcher struct {
	// SearchHybridFunc is called by SearchHybrid if set.
	// If nil, an empty result is returned.
	SearchHybridFunc func(ctx context.Context, query string, k int) ([]core.SearchHit, error)

	callCount int
}

// NewMockHybridSearcher creates a mock hybrid searcher returning no hits.
func NewMockHybridSearcher() *MockHybridSearcher {
	return &MockHybridSearcher{}
}

// SearchHybrid returns no hits unless SearchHybridFunc is set.
func (m *MockHybridSearcher) SearchHybrid(ctx context.Context, query string, k int) ([]core.SearchHit, error) {
	m.callCount++

	if m.SearchHybridFunc != nil {
		return m.SearchHybridFunc(ctx, query, k)
	}
	return nil, nil
}

// CallCount returns the number of times SearchHybrid was called.
func (m *MockHybridSearcher) CallCount() int {
	return m.callCount
}
