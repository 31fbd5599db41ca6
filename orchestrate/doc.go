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


// Package orchestrate drives the staged fallback pipeline:
//
//	Init → WebSearch → Ingest → HybridSearch → MediaDiscovery → Export → Done
//
// with the terminal EmptyResult state reachable only from WebSearch. Every
// stage after WebSearch fails soft: a collaborator error contributes zero
// rows and the pipeline proceeds. Only a request that supplies neither URLs
// nor a name/keyword query is a request-level error.
//
// Each run consumes per-run limits and returns an adjusted copy for the
// next run; there is no shared mutable state between runs.
package orchestrate
