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


// Package connector fetches raw search hits from upstream engines.
//
// Two connectors are provided:
//   - GoogleCSE: paginated, quota-guarded, capped at a provider-level maximum
//     total fetch. A quota refusal stops pagination for this provider only
//     and the hits gathered so far are returned.
//   - SearxNG: paginated without quota accounting; an unreachable instance or
//     an empty page terminates the loop gracefully with whatever was fetched.
//
// Every page request is keyed into a TTL cache so concurrent and repeated
// queries do not burn upstream quota. Each returned hit carries a 1-based
// engine rank computed from its page position.
//
// MediaFinder reuses the metasearch engine to discover images and documents
// with a two-tier fallback per category.
package connector
