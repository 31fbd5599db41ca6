package search

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/PanagiotisDrakatos/TraceMatrix/core"
)

// trackingParams are query parameters stripped during canonicalization:
// utm_* by prefix, the rest by exact name, all case-insensitive.
var trackingParamNames = map[string]struct{}{
	"fbclid":  {},
	"gclid":   {},
	"yclid":   {},
	"mc_cid":  {},
	"mc_eid":  {},
	"ref":     {},
	"ref_src": {},
}

var repeatedSlashes = regexp.MustCompile(`/+`)

// NormalizeURL maps a raw URL to its canonical comparison form: scheme and
// host lower-cased, repeated path separators collapsed, tracking parameters
// stripped, remaining parameters sorted, fragment dropped. The mapping is
// pure and idempotent; unparsable input is returned as-is.
func NormalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Path = repeatedSlashes.ReplaceAllString(u.Path, "/")
	u.Fragment = ""
	u.RawFragment = ""
	u.RawQuery = normalizeQuery(u.RawQuery)
	return u.String()
}

func normalizeQuery(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return rawQuery
	}

	type pair struct{ key, value string }
	pairs := make([]pair, 0, len(values))
	for key, vs := range values {
		if isTrackingParam(key) {
			continue
		}
		for _, v := range vs {
			pairs = append(pairs, pair{key, v})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].key != pairs[j].key {
			return pairs[i].key < pairs[j].key
		}
		return pairs[i].value < pairs[j].value
	})

	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}

func isTrackingParam(key string) bool {
	lower := strings.ToLower(key)
	if strings.HasPrefix(lower, "utm_") {
		return true
	}
	_, ok := trackingParamNames[lower]
	return ok
}

// Dedup removes duplicate hits keyed by the normalized URL. The first
// occurrence wins and order of first appearance is preserved. Hits whose URL
// normalizes to the empty string are dropped.
func Dedup(hits []core.SearchHit) []core.SearchHit {
	seen := make(map[string]struct{}, len(hits))
	out := make([]core.SearchHit, 0, len(hits))
	for _, hit := range hits {
		key := NormalizeURL(hit.URL)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, hit)
	}
	return out
}
