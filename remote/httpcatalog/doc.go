// Copyright 2025 Poiesic Systems
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


// Package httpcatalog talks to the remote catalog over HTTP.
//
// The wire contract is a single collection resource:
//
//	GET {base}/items                                   full collection
//	GET {base}/items?where=updatedAt&after=T&limit=N   range query
//	GET {base}/items?where=createdAt&after=T&orderBy=createdAt
//
// Both forms answer with {"items": [...]}. After is RFC 3339 with optional
// fractional seconds. Client calls run behind a circuit breaker so a dead
// catalog fails fast; every failure wraps remote.ErrUnavailable.
//
// NewHandler serves the same contract from any remote.Catalog.
package httpcatalog
