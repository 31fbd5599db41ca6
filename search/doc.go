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


// Package search fuses ranked hit lists from independent providers.
//
// The Aggregator fans a query out to every provider concurrently, then:
//   - canonicalizes and deduplicates URLs (first seen wins)
//   - groups hits into buckets keyed by the canonical URL
//   - scores each bucket with Reciprocal Rank Fusion, score = Σ 1/(K+rank)
//   - orders buckets by descending score, ties by first discovery
//
// A provider that fails or runs out of quota simply contributes zero hits;
// the fused list is built from whatever the remaining providers returned.
package search
