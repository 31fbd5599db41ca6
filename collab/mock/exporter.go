package mock

import (
	"context"

	"github.com/PanagiotisDrakatos/TraceMatrix/collab"
)

// MockExporter is a test double for collab.Exporter.
type MockExporter struct {
	// ExportFunc is called by Export if set.
	// If nil, a synthetic per-format path is reported.
	ExportFunc func(ctx context.Context, req collab.ExportRequest) (collab.ExportResult, error)

	// LastRequest records the most recent Export input for assertions.
	LastRequest collab.ExportRequest

	callCount int
}

// NewMockExporter creates a mock exporter with synthetic output paths.
func NewMockExporter() *MockExporter {
	return &MockExporter{}
}

// Export records the request and returns synthetic paths unless ExportFunc
// is set.
func (m *MockExporter) Export(ctx context.Context, req collab.ExportRequest) (collab.ExportResult, error) {
	m.callCount++
	m.LastRequest = req

	if m.ExportFunc != nil {
		return m.ExportFunc(ctx, req)
	}

	paths := make(map[string]string, len(req.Formats))
	for _, f := range req.Formats {
		paths[f] = req.Dir + "/" + req.Filename + "." + f
	}
	return collab.ExportResult{Paths: paths}, nil
}

// CallCount returns the number of times Export was called.
func (m *MockExporter) CallCount() int {
	return m.callCount
}
