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


// Package query provides pure filters and sorts over a catalog snapshot.
//
// Every function takes the record map as an argument and never modifies it.
// Filters return records ordered by quality score, highest first, with id as
// the final tie-break. Trending is the one randomized ranking and takes its
// random source as a parameter.
package query
