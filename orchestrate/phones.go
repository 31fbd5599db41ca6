package orchestrate

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PanagiotisDrakatos/TraceMatrix/core"
)

var phonePattern = regexp.MustCompile(`\+?\d{6,15}`)

// harvestPhones scans title, snippet and URL of every hit for phone-shaped
// digit runs, normalizes them to a "+" prefix, and returns them deduplicated
// and sorted.
func harvestPhones(hits []core.SearchHit) []string {
	set := make(map[string]struct{})
	for _, h := range hits {
		blob := h.Title + " " + h.Snippet + " " + h.URL
		for _, m := range phonePattern.FindAllString(blob, -1) {
			if !strings.HasPrefix(m, "+") {
				m = "+" + m
			}
			set[m] = struct{}{}
		}
	}

	phones := make([]string, 0, len(set))
	for p := range set {
		phones = append(phones, p)
	}
	sort.Strings(phones)
	return phones
}
