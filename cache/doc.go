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


// Package cache provides a key→value store with per-entry time-to-live.
//
// Open tries a persistent BadgerDB store first and transparently substitutes
// an in-process map with identical TTL semantics when the backend cannot be
// opened. Callers never learn which backend is active: a miss and an expired
// entry are indistinguishable, and both mean "re-fetch".
//
// Two concurrent callers missing the same key may both fetch upstream and
// both write the same value. Cached payloads are deterministic for a given
// key, so last-write-wins is safe.
package cache
