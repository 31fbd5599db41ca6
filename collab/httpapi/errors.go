package httpapi

import "errors"

var (
	// ErrBaseURLRequired is returned by NewClient without a base URL.
	ErrBaseURLRequired = errors.New("collaborator base URL is required")
)
