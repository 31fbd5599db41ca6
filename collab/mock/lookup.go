package mock

import (
	"context"

	"github.com/PanagiotisDrakatos/TraceMatrix/core"
)

// MockIdentityLookup is a test double for collab.IdentityLookup.
type MockIdentityLookup struct {
	// LookupUsernameFunc is called by LookupUsername if set.
	LookupUsernameFunc func(ctx context.Context, username string) ([]core.IdentityHit, error)

	// LookupEmailFunc is called by LookupEmail if set.
	LookupEmailFunc func(ctx context.Context, email string) ([]core.IdentityHit, error)

	usernameCalls int
	emailCalls    int
}

// NewMockIdentityLookup creates a mock lookup returning no hits.
func NewMockIdentityLookup() *MockIdentityLookup {
	return &MockIdentityLookup{}
}

// LookupUsername returns no hits unless LookupUsernameFunc is set.
func (m *MockIdentityLookup) LookupUsername(ctx context.Context, username string) ([]core.IdentityHit, error) {
	m.usernameCalls++

	if m.LookupUsernameFunc != nil {
		return m.LookupUsernameFunc(ctx, username)
	}
	return nil, nil
}

// LookupEmail returns no hits unless LookupEmailFunc is set.
func (m *MockIdentityLookup) LookupEmail(ctx context.Context, email string) ([]core.IdentityHit, error) {
	m.emailCalls++

	if m.LookupEmailFunc != nil {
		return m.LookupEmailFunc(ctx, email)
	}
	return nil, nil
}

// UsernameCalls returns the number of LookupUsername invocations.
func (m *MockIdentityLookup) UsernameCalls() int { return m.usernameCalls }

// EmailCalls returns the number of LookupEmail invocations.
func (m *MockIdentityLookup) EmailCalls() int { return m.emailCalls }
