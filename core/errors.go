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


package core

import "errors"

// Domain validation errors
var (
	// ErrEmptyQuery indicates the request carried neither target URLs nor a
	// name/keyword query. This is the only request-level failure: every later
	// stage depends on having at least something to search for.
	ErrEmptyQuery = errors.New("request needs urls or a name/keyword query")

	// ErrInvalidLimit indicates a non-positive fetch limit.
	ErrInvalidLimit = errors.New("limit must be positive")

	// ErrInvalidHit indicates a SearchHit failed validation.
	ErrInvalidHit = errors.New("invalid search hit")

	// ErrEmptyURL indicates a hit URL is empty after normalization.
	ErrEmptyURL = errors.New("hit url cannot be empty")

	// ErrInvalidRank indicates an engine rank below 1.
	ErrInvalidRank = errors.New("engine rank must be >= 1")
)
