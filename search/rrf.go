package search

import (
	"sort"

	"github.com/PanagiotisDrakatos/TraceMatrix/core"
)

// RRFK flattens the influence of any single provider's exact rank position
// in Reciprocal Rank Fusion scoring.
const RRFK = 60

// bucket collects every per-source hit that resolves to the same canonical URL.
type bucket struct {
	key   string
	hits  []core.SearchHit
	score float64
}

// Fuse merges per-provider ranked lists into one fused ordering. Hits are
// grouped by canonical URL across all lists, each group scored with
// Σ 1/(RRFK+engineRank), and groups sorted by descending score with ties kept
// in first-discovery order. The representative hit for display fields is the
// first contributor encountered. Truncation to limit happens only at the very
// end, after fusion considered the full retrieved set; limit <= 0 means no
// truncation.
func Fuse(lists [][]core.SearchHit, limit int) []core.SearchHit {
	index := make(map[string]int)
	buckets := make([]*bucket, 0)

	for _, list := range lists {
		for _, hit := range list {
			key := NormalizeURL(hit.URL)
			if key == "" {
				continue
			}
			i, ok := index[key]
			if !ok {
				i = len(buckets)
				index[key] = i
				buckets = append(buckets, &bucket{key: key})
			}
			buckets[i].hits = append(buckets[i].hits, hit)
		}
	}

	for _, b := range buckets {
		for _, hit := range b.hits {
			b.score += 1.0 / float64(RRFK+hit.EngineRank)
		}
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].score > buckets[j].score
	})

	out := make([]core.SearchHit, 0, len(buckets))
	for _, b := range buckets {
		representative := b.hits[0]
		representative.FusedScore = b.score
		out = append(out, representative)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
