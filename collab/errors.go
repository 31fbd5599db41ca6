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


package collab

import "errors"

var (
	// ErrRateLimited signals the collaborator rejected the call due to rate
	// limiting. Callers may retry once via WithRateLimitRetry.
	ErrRateLimited = errors.New("collaborator rate limited")

	// ErrCollaborator wraps any other collaborator-side failure.
	ErrCollaborator = errors.New("collaborator call failed")
)
