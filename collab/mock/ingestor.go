package mock

import "context"

// MockIngestor is a test double for collab.Ingestor.
type MockIngestor struct {
	// IngestURLsFunc is called by IngestURLs if set.
	// If nil, every URL is reported as accepted.
	IngestURLsFunc func(ctx context.Context, urls []string, text string) (int, error)

	callCount int
}

// NewMockIngestor creates a mock ingestor that accepts everything.
func NewMockIngestor() *MockIngestor {
	return &MockIngestor{}
}

// IngestURLs reports len(urls) accepted unless IngestURLsFunc is set.
func (m *MockIngestor) IngestURLs(ctx context.Context, urls []string, text string) (int, error) {
	m.callCount++

	if m.IngestURLsFunc != nil {
		return m.IngestURLsFunc(ctx, urls, text)
	}
	return len(urls), nil
}

// CallCount returns the number of times IngestURLs was called.
func (m *MockIngestor) CallCount() int {
	return m.callCount
}
