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


// Package search ranks catalog records against a free-text query.
//
// Scoring is lexical and additive: substring, prefix and fuzzy subsequence
// matches against brand, name and their combination, category name matches,
// and token coverage for multi-word queries. There is no index; every call
// scans the record set, which is fine for catalogs in the low thousands.
//
// A blank query returns every record by quality. Results are deterministic
// for a fixed record set.
package search
