package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Doer issues a single HTTP request. *http.Client satisfies it; tests inject
// canned responses.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// quotaReasons are the provider reason codes that signal a quota refusal on
// a 403 response.
var quotaReasons = []string{"dailyLimitExceeded", "userRateLimitExceeded"}

// GuardedGet performs one GET against endpoint with params and classifies the
// outcome. A 429, or a 403 carrying a quota reason code, yields
// ErrQuotaExceeded; any other non-2xx status yields an error wrapping
// ErrUpstream; otherwise the raw response body is returned.
func GuardedGet(ctx context.Context, doer Doer, endpoint string, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = params.Encode()

	resp, err := doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: status 429", ErrQuotaExceeded)
	case resp.StatusCode == http.StatusForbidden:
		if reason := quotaReason(body); reason != "" {
			return nil, fmt.Errorf("%w: %s", ErrQuotaExceeded, reason)
		}
		return nil, fmt.Errorf("%w: status 403", ErrUpstream)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
	return body, nil
}

// quotaReason extracts the first error reason code from a provider error
// body, returning it only when it names a quota condition.
func quotaReason(body []byte) string {
	var payload struct {
		Error struct {
			Errors []struct {
				Reason string `json:"reason"`
			} `json:"errors"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if len(payload.Error.Errors) == 0 {
		return ""
	}
	reason := payload.Error.Errors[0].Reason
	for _, q := range quotaReasons {
		if strings.Contains(reason, q) {
			return reason
		}
	}
	return ""
}
