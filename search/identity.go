package search

import (
	"net/url"
	"strings"

	"github.com/PanagiotisDrakatos/TraceMatrix/core"
)

// identityKey relaxes a profile URL to host+path for cross-source matching:
// scheme and "www." are noise between OSINT tools reporting the same account.
func identityKey(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return strings.ToLower(strings.TrimSpace(raw))
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	path := strings.TrimRight(u.Path, "/")
	return host + path
}

// MergeIdentityHits reconciles hits for the same identity reported by two
// lookup collaborators. Hits are deduplicated by relaxed host+path key with
// first appearance deciding position. When both sources report the same URL,
// the variant whose Source equals preferred replaces a non-preferred one in
// place, so its richer fields survive. Hits without a URL are dropped.
func MergeIdentityHits(a, b []core.IdentityHit, preferred string) []core.IdentityHit {
	out := make([]core.IdentityHit, 0, len(a)+len(b))
	seen := make(map[string]int, len(a)+len(b))

	for _, hit := range append(append([]core.IdentityHit{}, a...), b...) {
		if hit.URL == "" {
			continue
		}
		key := identityKey(hit.URL)
		if i, ok := seen[key]; ok {
			if hit.Source == preferred && out[i].Source != preferred {
				out[i] = hit
			}
			continue
		}
		seen[key] = len(out)
		out = append(out, hit)
	}
	return out
}
