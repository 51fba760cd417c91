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


package search

import (
	"sort"
	"strings"

	"github.com/poiesic/skinshelf/core"
)

// Score weights.
const (
	scoreFullContains  = 200
	scoreNameContains  = 100
	scoreBrandContains = 80

	scoreCategoryExact   = 150
	scoreCategoryPartial = 120
	scoreCategoryFuzzy   = 90

	scoreAllTokens          = 180
	scoreBrandTokenContains = 40
	scoreNameTokenContains  = 50
	scoreBrandTokenPrefix   = 30
	scoreNameTokenPrefix    = 35

	scoreNameFuzzy  = 50
	scoreBrandFuzzy = 30
	scoreFullFuzzy  = 70

	scoreNamePrefix  = 50
	scoreBrandPrefix = 30
	scoreFullPrefix  = 60
)

// Search ranks records against query and returns at most limit of them.
// A limit <= 0 means no limit. Records that score 0 are omitted. Ties are
// broken by quality score, then by id.
func Search(records core.Records, query string, limit int) []*core.ItemRecord {
	return SearchWithMonitor(records, query, limit, nil)
}

// SearchWithMonitor is Search with a monitor receiving each scored record.
func SearchWithMonitor(records core.Records, query string, limit int, monitor Monitor) []*core.ItemRecord {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(query)

	m := newMatcher(query)
	if m.query == "" {
		results := truncate(records.Sorted(), limit)
		monitor.Finish(results)
		return results
	}

	type hit struct {
		record *core.ItemRecord
		score  float64
	}
	hits := make([]hit, 0)
	for _, r := range records {
		if r == nil {
			continue
		}
		score := m.score(r)
		if score <= 0 {
			continue
		}
		monitor.Scored(r, score)
		hits = append(hits, hit{record: r, score: score})
	}

	sort.Slice(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.record.QualityScore != b.record.QualityScore {
			return a.record.QualityScore > b.record.QualityScore
		}
		return a.record.ID < b.record.ID
	})

	results := make([]*core.ItemRecord, len(hits))
	for i, h := range hits {
		results[i] = h.record
	}
	results = truncate(results, limit)
	monitor.Finish(results)
	return results
}

// Score returns the lexical relevance of r for query. Zero means no match.
func Score(r *core.ItemRecord, query string) float64 {
	if r == nil {
		return 0
	}
	return newMatcher(query).score(r)
}

type matcher struct {
	query  string
	tokens []string
}

func newMatcher(query string) matcher {
	q := normalize(query)
	return matcher{query: q, tokens: tokenize(q)}
}

func (m matcher) score(r *core.ItemRecord) float64 {
	q := m.query
	if q == "" {
		return 0
	}
	brand := normalize(r.Brand)
	name := normalize(r.Name)
	full := brand + " " + name

	var score float64

	if strings.Contains(full, q) {
		score += scoreFullContains
	}
	if strings.Contains(name, q) {
		score += scoreNameContains
	}
	if strings.Contains(brand, q) {
		score += scoreBrandContains
	}

	score += m.categoryScore(r.Category)

	if len(m.tokens) > 1 {
		if containsAllTokens(full, m.tokens) {
			score += scoreAllTokens
		}
		brandTokens := tokenize(brand)
		nameTokens := tokenize(name)
		for _, qt := range m.tokens {
			if anyToken(brandTokens, func(t string) bool { return strings.Contains(t, qt) }) {
				score += scoreBrandTokenContains
			}
			if anyToken(nameTokens, func(t string) bool { return strings.Contains(t, qt) }) {
				score += scoreNameTokenContains
			}
			if anyToken(brandTokens, func(t string) bool { return strings.HasPrefix(t, qt) }) {
				score += scoreBrandTokenPrefix
			}
			if anyToken(nameTokens, func(t string) bool { return strings.HasPrefix(t, qt) }) {
				score += scoreNameTokenPrefix
			}
		}
	}

	if fuzzyMatch(q, name) {
		score += scoreNameFuzzy
	}
	if fuzzyMatch(q, brand) {
		score += scoreBrandFuzzy
	}
	if fuzzyMatch(q, full) {
		score += scoreFullFuzzy
	}

	if name != "" && strings.HasPrefix(name, q) {
		score += scoreNamePrefix
	}
	if brand != "" && strings.HasPrefix(brand, q) {
		score += scoreBrandPrefix
	}
	if strings.HasPrefix(full, q) {
		score += scoreFullPrefix
	}

	return score
}

// categoryScore awards the best of exact, partial and fuzzy matches of the
// query against the category's title, label and plural title.
func (m matcher) categoryScore(c core.Category) float64 {
	names := c.MatchNames()
	if len(names) == 0 {
		return 0
	}
	for _, n := range names {
		if n == m.query {
			return scoreCategoryExact
		}
	}
	for _, n := range names {
		if strings.Contains(n, m.query) || strings.Contains(m.query, n) {
			return scoreCategoryPartial
		}
	}
	for _, n := range names {
		if fuzzyMatch(m.query, n) {
			return scoreCategoryFuzzy
		}
	}
	return 0
}

func truncate(records []*core.ItemRecord, limit int) []*core.ItemRecord {
	if limit > 0 && len(records) > limit {
		return records[:limit]
	}
	return records
}
