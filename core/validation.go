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

import "fmt"

// ValidateOrchestrateRequest validates a request according to domain rules.
//
// Validation rules:
//   - either URLs or a name/keyword query must be present
//
// NOT validated (degraded gracefully at runtime):
//   - reachability of the target URLs
//   - whether the query will yield any results
func ValidateOrchestrateRequest(req *OrchestrateRequest) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrEmptyQuery)
	}
	if len(req.URLs) == 0 && req.Query() == "" {
		return ErrEmptyQuery
	}
	return nil
}

// ValidateSearchHit validates a SearchHit according to domain rules.
//
// Validation rules:
//   - URL must not be empty
//   - EngineRank must be 1-based
func ValidateSearchHit(hit *SearchHit) error {
	if hit == nil {
		return fmt.Errorf("%w: hit is nil", ErrInvalidHit)
	}
	if hit.URL == "" {
		return fmt.Errorf("%w: %w", ErrInvalidHit, ErrEmptyURL)
	}
	if hit.EngineRank < 1 {
		return fmt.Errorf("%w: %w", ErrInvalidHit, ErrInvalidRank)
	}
	return nil
}
