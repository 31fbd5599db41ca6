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


package connector

import "errors"

var (
	// ErrQuotaExceeded is returned when the upstream refused the call due to
	// a rate or quota condition. The calling connector stops paging for that
	// provider only; it is never a request-level failure.
	ErrQuotaExceeded = errors.New("provider quota exceeded")

	// ErrUpstream is returned for any other non-2xx upstream response.
	ErrUpstream = errors.New("upstream error")

	// ErrCacheRequired is returned when a connector is built without a cache.
	ErrCacheRequired = errors.New("cache store required")

	// ErrCredentialsRequired is returned when the primary connector is built
	// without an API key/identifier pair.
	ErrCredentialsRequired = errors.New("api key and cx required")

	// ErrCorruptPage is returned when a cached page cannot be decoded.
	ErrCorruptPage = errors.New("corrupt cached page")
)
