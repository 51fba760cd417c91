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


// Package recommend ranks catalog records for a user.
//
// Recommend scores records against a UserProfile: matched concern tags,
// the share of desired concerns covered, and quality. RecommendBySimilarity
// scores records by cosine similarity between their concern weights and a
// caller-supplied vector, less a harshness penalty scaled by the user's
// sensitivity level.
//
// Both apply the same hard filters before scoring. A record that declares
// skin types not including the profile's preference is dropped, as is one
// containing any excluded sensitivity. A record declaring no skin types
// suits every profile. Filtered records never appear in output regardless
// of score.
//
// Missing inputs are not errors: a nil profile, a nil weight vector or an
// empty record set all yield an empty result.
package recommend
