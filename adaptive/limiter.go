// Copyright 2025 TraceMatrix Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package adaptive tunes per-category fetch limits between orchestration
// runs based on observed yield. Limits only ever ratchet upward.
package adaptive

import "github.com/PanagiotisDrakatos/TraceMatrix/core"

// phoneCeiling caps the phone limit, intentionally tighter than Limits.Cap:
// phone lookups are the most expensive and rate-limited category.
const phoneCeiling = 15

// Adjust returns a copy of limits tuned for the next run. Pure: the input is
// never mutated and the rules are independent of each other.
//
// Rules:
//   - fewer than 5 emails found: double the email limit, capped at Cap
//   - fewer than 10 search hits: search limit × 1.5 truncated, capped at Cap
//   - phones discovered without a phone in the input: phone limit + 2,
//     capped at phoneCeiling
func Adjust(limits core.Limits, observed core.Observed) core.Limits {
	next := limits

	if observed.EmailsFound < 5 {
		next.EmailLimit = min(next.EmailLimit*2, next.Cap)
	}
	if observed.SearchHits < 10 {
		next.SearchLimit = min(next.SearchLimit*3/2, next.Cap)
	}
	if observed.PhonesFound > 0 && !observed.PhoneInput {
		next.PhoneLimit = min(next.PhoneLimit+2, phoneCeiling)
	}
	return next
}
