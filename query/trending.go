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


package query

import (
	"math/rand/v2"
	"sort"

	"github.com/poiesic/skinshelf/core"
)

// TrendingMinQuality is the lowest quality score eligible for Trending.
const TrendingMinQuality = 60

// RandSource supplies uniform values in [0, 1). *rand.Rand satisfies it.
type RandSource interface {
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// Trending returns up to limit ids of records scoring at least
// TrendingMinQuality, ordered by a random key weighted toward quality.
// A nil rng uses the global generator. A limit <= 0 means no limit.
func Trending(records core.Records, limit int, rng RandSource) []string {
	if rng == nil {
		rng = globalRand{}
	}

	// Draw in id order so a seeded source gives repeatable output.
	eligible := make([]*core.ItemRecord, 0, len(records))
	for _, r := range records {
		if r != nil && r.QualityScore >= TrendingMinQuality {
			eligible = append(eligible, r)
		}
	}
	sort.Slice(eligible, func(i, j int) bool { return eligible[i].ID < eligible[j].ID })

	type keyed struct {
		id  string
		key float64
	}
	ranked := make([]keyed, len(eligible))
	for i, r := range eligible {
		ranked[i] = keyed{id: r.ID, key: rng.Float64() * (1 + r.QualityScore/100)}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].key > ranked[j].key })

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	ids := make([]string, len(ranked))
	for i, k := range ranked {
		ids[i] = k.id
	}
	return ids
}
