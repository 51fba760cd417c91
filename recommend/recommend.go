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


package recommend

import (
	"math"
	"sort"

	"github.com/poiesic/skinshelf/core"
)

// Score weights and thresholds.
const (
	compatibleBonus = 50
	perConcernBonus = 30
	coverageBonus   = 20
	qualityWeight   = 0.5
	similarityMinQ  = 70
	harshnessWeight = 0.3
	maxLevel        = 3
	scoreTieEpsilon = 0.001
)

// Scored pairs a record with its ranking score.
type Scored struct {
	Record *core.ItemRecord
	Score  float64
}

// eligible applies the hard filters shared by both recommenders.
func eligible(r *core.ItemRecord, profile *core.UserProfile, excluded map[string]struct{}) bool {
	if r == nil {
		return false
	}
	if _, ok := excluded[r.ID]; ok {
		return false
	}
	if profile.PreferredSkinType != "" && !r.SuitsSkinType(profile.PreferredSkinType) {
		return false
	}
	if len(profile.ExcludedSensitivities) > 0 && r.HasAnySensitivity(profile.ExcludedSensitivities) {
		return false
	}
	return true
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// ProfileScore returns the profile score of r, assuming it passed the hard filters.
func ProfileScore(r *core.ItemRecord, profile *core.UserProfile) float64 {
	score := float64(compatibleBonus)
	matched := r.MatchingConcerns(profile.DesiredConcerns)
	score += float64(perConcernBonus * matched)
	if desired := len(profile.DesiredConcerns); desired > 0 {
		score += coverageBonus * float64(matched) / float64(desired)
	}
	score += qualityWeight * r.QualityScore
	return score
}

// RankByProfile returns every eligible record with its profile score, best first.
func RankByProfile(records core.Records, profile *core.UserProfile, excludedIDs []string) []Scored {
	if profile == nil || len(records) == 0 {
		return []Scored{}
	}
	excluded := idSet(excludedIDs)

	ranked := make([]Scored, 0)
	for _, r := range records {
		if !eligible(r, profile, excluded) {
			continue
		}
		ranked = append(ranked, Scored{Record: r, Score: ProfileScore(r, profile)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Record.QualityScore != b.Record.QualityScore {
			return a.Record.QualityScore > b.Record.QualityScore
		}
		return a.Record.ID < b.Record.ID
	})
	return ranked
}

// Recommend returns up to limit records for profile, best first, skipping
// excludedIDs. A limit <= 0 means no limit.
func Recommend(records core.Records, profile *core.UserProfile, excludedIDs []string, limit int) []*core.ItemRecord {
	ranked := truncate(RankByProfile(records, profile, excludedIDs), limit)
	out := make([]*core.ItemRecord, len(ranked))
	for i, s := range ranked {
		out[i] = s.Record
	}
	return out
}

// HarshnessPenalty scales the record's harshness by the user's sensitivity.
// Both are on a 0..3 scale; out-of-range values are clamped.
func HarshnessPenalty(harshness float64, sensitivityLevel int) float64 {
	h := math.Max(0, math.Min(maxLevel, harshness))
	s := math.Max(0, math.Min(maxLevel, float64(sensitivityLevel)))
	return (h / maxLevel) * (s / maxLevel) * harshnessWeight
}

// SimilarityScore returns the similarity score of r against weights for
// profile, assuming it passed the hard filters. Records without concern
// weights fall back to quality / 100.
func SimilarityScore(r *core.ItemRecord, weights core.ConcernVector, profile *core.UserProfile) float64 {
	var sim float64
	if r.ConcernWeights != nil {
		sim = CosineSimilarity(*r.ConcernWeights, weights)
	} else {
		sim = r.QualityScore / 100
	}
	return sim - HarshnessPenalty(r.HarshnessLevel, profile.SensitivityLevel)
}

// RankBySimilarity returns every eligible record with its similarity score, best first.
// Scores within 0.001 of each other are ordered by quality.
func RankBySimilarity(records core.Records, weights *core.ConcernVector, profile *core.UserProfile, excludedIDs []string) []Scored {
	if weights == nil || profile == nil || len(records) == 0 {
		return []Scored{}
	}
	excluded := idSet(excludedIDs)

	ranked := make([]Scored, 0)
	for _, r := range records {
		if !eligible(r, profile, excluded) || r.QualityScore < similarityMinQ {
			continue
		}
		ranked = append(ranked, Scored{Record: r, Score: SimilarityScore(r, *weights, profile)})
	}

	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Record.ID < ranked[j].Record.ID })
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if math.Abs(a.Score-b.Score) >= scoreTieEpsilon {
			return a.Score > b.Score
		}
		return a.Record.QualityScore > b.Record.QualityScore
	})
	return ranked
}

// RecommendBySimilarity returns up to limit record ids ranked against
// weights, skipping excludedIDs and records below quality 70.
// A limit <= 0 means no limit.
func RecommendBySimilarity(records core.Records, weights *core.ConcernVector, profile *core.UserProfile, excludedIDs []string, limit int) []string {
	ranked := truncate(RankBySimilarity(records, weights, profile, excludedIDs), limit)
	ids := make([]string, len(ranked))
	for i, s := range ranked {
		ids[i] = s.Record.ID
	}
	return ids
}

func truncate(ranked []Scored, limit int) []Scored {
	if limit > 0 && len(ranked) > limit {
		return ranked[:limit]
	}
	return ranked
}
