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
	"slices"
	"strings"

	"github.com/poiesic/skinshelf/core"
)

// Predicate decides whether a record is kept.
type Predicate func(r *core.ItemRecord) bool

// Filter returns the records matching every predicate, by quality.
func Filter(records core.Records, preds ...Predicate) []*core.ItemRecord {
	out := make([]*core.ItemRecord, 0)
	for _, r := range records {
		if r == nil || !matchAll(r, preds) {
			continue
		}
		out = append(out, r)
	}
	core.SortByQuality(out)
	return out
}

func matchAll(r *core.ItemRecord, preds []Predicate) bool {
	for _, p := range preds {
		if !p(r) {
			return false
		}
	}
	return true
}

// InCategory keeps records of category c.
func InCategory(c core.Category) Predicate {
	return func(r *core.ItemRecord) bool { return r.Category == c }
}

// AddressesAny keeps records tagged with at least one of concerns.
func AddressesAny(concerns []core.Concern) Predicate {
	return func(r *core.ItemRecord) bool { return r.MatchingConcerns(concerns) > 0 }
}

// SuitsSkinType keeps records suitable for st, including records that
// declare no skin types.
func SuitsSkinType(st core.SkinType) Predicate {
	return func(r *core.ItemRecord) bool { return r.SuitsSkinType(st) }
}

// MinQuality keeps records scoring at least threshold.
func MinQuality(threshold float64) Predicate {
	return func(r *core.ItemRecord) bool { return r.QualityScore >= threshold }
}

// MaxPrice keeps records priced at most ceiling. Unpriced records are kept.
func MaxPrice(ceiling float64) Predicate {
	return func(r *core.ItemRecord) bool { return r.Price <= 0 || r.Price <= ceiling }
}

// FromBrand keeps records of brand, compared case-insensitively.
func FromBrand(brand string) Predicate {
	brand = strings.TrimSpace(brand)
	return func(r *core.ItemRecord) bool { return strings.EqualFold(strings.TrimSpace(r.Brand), brand) }
}

// WithoutSensitivities drops records containing any of excluded.
func WithoutSensitivities(excluded []core.Sensitivity) Predicate {
	return func(r *core.ItemRecord) bool { return !r.HasAnySensitivity(excluded) }
}

// NotIn drops records whose id is in ids.
func NotIn(ids []string) Predicate {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return func(r *core.ItemRecord) bool {
		_, excluded := set[r.ID]
		return !excluded
	}
}

// ByCategory returns the records of category c.
func ByCategory(records core.Records, c core.Category) []*core.ItemRecord {
	return Filter(records, InCategory(c))
}

// ByConcern returns the records addressing at least one of concerns.
func ByConcern(records core.Records, concerns []core.Concern) []*core.ItemRecord {
	return Filter(records, AddressesAny(concerns))
}

// ByAttribute returns the records suitable for skin type st.
func ByAttribute(records core.Records, st core.SkinType) []*core.ItemRecord {
	return Filter(records, SuitsSkinType(st))
}

// ByMinQuality returns the records scoring at least threshold.
func ByMinQuality(records core.Records, threshold float64) []*core.ItemRecord {
	return Filter(records, MinQuality(threshold))
}

// Criteria combines the advanced filter options. Zero values are skipped.
type Criteria struct {
	ExcludeIDs            []string           `json:"excludeIds,omitempty"`
	Category              core.Category      `json:"category,omitempty"`
	MinQuality            *float64           `json:"minQuality,omitempty"`
	MaxPrice              *float64           `json:"maxPrice,omitempty"`
	Brand                 string             `json:"brand,omitempty"`
	Concerns              []core.Concern     `json:"concerns,omitempty"`
	SkinType              core.SkinType      `json:"skinType,omitempty"`
	ExcludedSensitivities []core.Sensitivity `json:"excludedSensitivities,omitempty"`
}

// Predicates returns the predicates for the set criteria, in evaluation order.
func (c Criteria) Predicates() []Predicate {
	var preds []Predicate
	if len(c.ExcludeIDs) > 0 {
		preds = append(preds, NotIn(c.ExcludeIDs))
	}
	if c.Category != "" {
		preds = append(preds, InCategory(c.Category))
	}
	if c.MinQuality != nil {
		preds = append(preds, MinQuality(*c.MinQuality))
	}
	if c.MaxPrice != nil {
		preds = append(preds, MaxPrice(*c.MaxPrice))
	}
	if strings.TrimSpace(c.Brand) != "" {
		preds = append(preds, FromBrand(c.Brand))
	}
	if len(c.Concerns) > 0 {
		preds = append(preds, AddressesAny(slices.Clone(c.Concerns)))
	}
	if c.SkinType != "" {
		preds = append(preds, SuitsSkinType(c.SkinType))
	}
	if len(c.ExcludedSensitivities) > 0 {
		preds = append(preds, WithoutSensitivities(slices.Clone(c.ExcludedSensitivities)))
	}
	return preds
}

// AdvancedFilter applies every set criterion and returns the survivors by quality.
func AdvancedFilter(records core.Records, c Criteria) []*core.ItemRecord {
	return Filter(records, c.Predicates()...)
}
