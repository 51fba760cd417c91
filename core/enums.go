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


package core

import "strings"

// Category is the closed set of product categories.
type Category string

const (
	CategoryCleanser    Category = "cleanser"
	CategoryToner       Category = "toner"
	CategorySerum       Category = "serum"
	CategoryMoisturizer Category = "moisturizer"
	CategorySunscreen   Category = "sunscreen"
	CategoryMask        Category = "mask"
	CategoryExfoliant   Category = "exfoliant"
	CategoryEyeCream    Category = "eye_cream"
	CategoryFaceOil     Category = "face_oil"
	CategoryTreatment   Category = "treatment"
)

type categoryNames struct {
	title  string
	label  string
	plural string
}

var categoryTable = map[Category]categoryNames{
	CategoryCleanser:    {"Cleanser", "Cleansers & Face Wash", "Cleansers"},
	CategoryToner:       {"Toner", "Toners & Essences", "Toners"},
	CategorySerum:       {"Serum", "Serums", "Serums"},
	CategoryMoisturizer: {"Moisturizer", "Moisturizers & Creams", "Moisturizers"},
	CategorySunscreen:   {"Sunscreen", "Sunscreen & SPF", "Sunscreens"},
	CategoryMask:        {"Mask", "Face Masks", "Masks"},
	CategoryExfoliant:   {"Exfoliant", "Exfoliants & Peels", "Exfoliants"},
	CategoryEyeCream:    {"Eye Cream", "Eye Care", "Eye Creams"},
	CategoryFaceOil:     {"Face Oil", "Facial Oils", "Face Oils"},
	CategoryTreatment:   {"Treatment", "Spot Treatments", "Treatments"},
}

var categoryOrder = []Category{
	CategoryCleanser, CategoryToner, CategorySerum, CategoryMoisturizer, CategorySunscreen,
	CategoryMask, CategoryExfoliant, CategoryEyeCream, CategoryFaceOil, CategoryTreatment,
}

// Categories returns every category in display order.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// Valid reports whether c is a member of the closed category set.
func (c Category) Valid() bool {
	_, ok := categoryTable[c]
	return ok
}

// Title returns the canonical singular title, e.g. "Eye Cream".
func (c Category) Title() string { return categoryTable[c].title }

// Label returns the display label shown in category pickers.
func (c Category) Label() string { return categoryTable[c].label }

// Plural returns the plural title, e.g. "Eye Creams".
func (c Category) Plural() string { return categoryTable[c].plural }

// MatchNames returns the lowercase names used for lexical matching.
func (c Category) MatchNames() []string {
	n, ok := categoryTable[c]
	if !ok {
		return nil
	}
	return []string{strings.ToLower(n.title), strings.ToLower(n.label), strings.ToLower(n.plural)}
}

// ParseCategory resolves a category from its identifier, title, label or plural title.
func ParseCategory(s string) (Category, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", false
	}
	for _, c := range categoryOrder {
		if string(c) == s {
			return c, true
		}
		for _, name := range c.MatchNames() {
			if name == s {
				return c, true
			}
		}
	}
	return "", false
}

// SkinType is the attribute an item can declare suitability for.
type SkinType string

const (
	SkinTypeDry         SkinType = "dry"
	SkinTypeOily        SkinType = "oily"
	SkinTypeCombination SkinType = "combination"
	SkinTypeNormal      SkinType = "normal"
	SkinTypeSensitive   SkinType = "sensitive"
)

// Valid reports whether s is a known skin type.
func (s SkinType) Valid() bool {
	switch s {
	case SkinTypeDry, SkinTypeOily, SkinTypeCombination, SkinTypeNormal, SkinTypeSensitive:
		return true
	}
	return false
}

// Concern is one of the fixed concern dimensions. Concerns double as discrete
// tags on items and as coordinates of a ConcernVector.
type Concern string

const (
	ConcernAcne              Concern = "acne"
	ConcernAging             Concern = "aging"
	ConcernDryness           Concern = "dryness"
	ConcernRedness           Concern = "redness"
	ConcernHyperpigmentation Concern = "hyperpigmentation"
	ConcernPores             Concern = "pores"
	ConcernDullness          Concern = "dullness"
	ConcernTexture           Concern = "texture"
)

// ConcernCount is the dimensionality of a ConcernVector.
const ConcernCount = 8

var concernOrder = [ConcernCount]Concern{
	ConcernAcne, ConcernAging, ConcernDryness, ConcernRedness,
	ConcernHyperpigmentation, ConcernPores, ConcernDullness, ConcernTexture,
}

// Concerns returns the concern dimensions in vector order.
func Concerns() []Concern {
	return concernOrder[:]
}

// Index returns the vector coordinate of c, or -1 if c is unknown.
func (c Concern) Index() int {
	for i, known := range concernOrder {
		if known == c {
			return i
		}
	}
	return -1
}

// Valid reports whether c is one of the fixed dimensions.
func (c Concern) Valid() bool { return c.Index() >= 0 }

// Sensitivity is an irritant or allergen an item may contain.
type Sensitivity string

const (
	SensitivityFragrance     Sensitivity = "fragrance"
	SensitivityAlcohol       Sensitivity = "alcohol"
	SensitivityEssentialOils Sensitivity = "essential_oils"
	SensitivitySulfates      Sensitivity = "sulfates"
	SensitivityParabens      Sensitivity = "parabens"
	SensitivitySilicones     Sensitivity = "silicones"
	SensitivityDyes          Sensitivity = "dyes"
	SensitivityLanolin       Sensitivity = "lanolin"
)

// Valid reports whether s is a known sensitivity tag.
func (s Sensitivity) Valid() bool {
	switch s {
	case SensitivityFragrance, SensitivityAlcohol, SensitivityEssentialOils, SensitivitySulfates,
		SensitivityParabens, SensitivitySilicones, SensitivityDyes, SensitivityLanolin:
		return true
	}
	return false
}
