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


// Package collab defines the narrow interfaces through which the fusion
// core reaches its external collaborators: the document-store ingestor,
// the hybrid (lexical+vector) searcher, the export writer, and the
// identity lookup tools.
//
// The core never embeds, indexes, or spawns processes itself; those are
// implementation details of the adapters in collab/httpapi. Test doubles
// live in collab/mock.
package collab
