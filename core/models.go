package core

import (
	"math"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// ItemRecord is one catalog entry. Records are replaced wholesale on merge and
// must be treated as immutable once handed to the store.
type ItemRecord struct {
	ID              string         `json:"id"`
	Brand           string         `json:"brand"`
	Name            string         `json:"name"`
	Category        Category       `json:"category"`
	SkinTypes       []SkinType     `json:"skinTypes,omitempty"`
	ConcernTags     []Concern      `json:"concernTags,omitempty"`
	SensitivityTags []Sensitivity  `json:"sensitivityTags,omitempty"`
	QualityScore    float64        `json:"safetyScore"`
	HarshnessLevel  float64        `json:"harshnessLevel"`
	Price           float64        `json:"price,omitempty"`
	ConcernWeights  *ConcernVector `json:"concernWeights,omitempty"`
	CreatedAt       Timestamp      `json:"createdAt,omitempty"`
	UpdatedAt       Timestamp      `json:"updatedAt,omitempty"`
}

// Clone returns a deep copy of the record.
func (r *ItemRecord) Clone() *ItemRecord {
	if r == nil {
		return nil
	}
	c := *r
	c.SkinTypes = slices.Clone(r.SkinTypes)
	c.ConcernTags = slices.Clone(r.ConcernTags)
	c.SensitivityTags = slices.Clone(r.SensitivityTags)
	if r.ConcernWeights != nil {
		w := *r.ConcernWeights
		c.ConcernWeights = &w
	}
	c.CreatedAt = slices.Clone(r.CreatedAt)
	c.UpdatedAt = slices.Clone(r.UpdatedAt)
	return &c
}

// SuitsSkinType reports whether the record is suitable for st. A record that
// declares no skin types is suitable for every skin type.
func (r *ItemRecord) SuitsSkinType(st SkinType) bool {
	return len(r.SkinTypes) == 0 || slices.Contains(r.SkinTypes, st)
}

// MatchingConcerns counts how many of want appear in the record's concern tags.
func (r *ItemRecord) MatchingConcerns(want []Concern) int {
	n := 0
	for _, c := range want {
		if slices.Contains(r.ConcernTags, c) {
			n++
		}
	}
	return n
}

// HasAnySensitivity reports whether the record contains any of the given irritants.
func (r *ItemRecord) HasAnySensitivity(excluded []Sensitivity) bool {
	for _, s := range excluded {
		if slices.Contains(r.SensitivityTags, s) {
			return true
		}
	}
	return false
}

// Records is the id-keyed record map the query and ranking functions operate on.
type Records map[string]*ItemRecord

// Sorted returns the records ordered by QualityScore descending, then id.
func (rs Records) Sorted() []*ItemRecord {
	out := make([]*ItemRecord, 0, len(rs))
	for _, r := range rs {
		if r != nil {
			out = append(out, r)
		}
	}
	SortByQuality(out)
	return out
}

// SortByQuality orders records by QualityScore descending with id as the final tie-break.
func SortByQuality(records []*ItemRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].QualityScore != records[j].QualityScore {
			return records[i].QualityScore > records[j].QualityScore
		}
		return records[i].ID < records[j].ID
	})
}

// ConcernVector is a weight per concern dimension, indexed by Concern.Index.
// It serializes as an object keyed by concern name.
type ConcernVector [ConcernCount]float64

// NewConcernVector builds a vector from named weights, rejecting unknown names.
func NewConcernVector(weights map[Concern]float64) (ConcernVector, error) {
	var v ConcernVector
	for c, w := range weights {
		i := c.Index()
		if i < 0 {
			return v, ErrUnknownConcern
		}
		v[i] = w
	}
	return v, nil
}

// Get returns the weight for c, or 0 for an unknown concern.
func (v ConcernVector) Get(c Concern) float64 {
	if i := c.Index(); i >= 0 {
		return v[i]
	}
	return 0
}

// Norm returns the Euclidean norm of the vector.
func (v ConcernVector) Norm() float64 {
	var sum float64
	for _, w := range v {
		sum += w * w
	}
	return math.Sqrt(sum)
}

func (v ConcernVector) MarshalJSON() ([]byte, error) {
	m := make(map[string]float64, ConcernCount)
	for i, c := range concernOrder {
		m[string(c)] = v[i]
	}
	return json.Marshal(m)
}

func (v *ConcernVector) UnmarshalJSON(data []byte) error {
	var m map[string]float64
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*v = ConcernVector{}
	for name, w := range m {
		if i := Concern(strings.ToLower(name)).Index(); i >= 0 {
			v[i] = w
		}
	}
	return nil
}

// UserProfile describes the caller's attributes for personalized ranking.
// An empty PreferredSkinType means no preference.
type UserProfile struct {
	PreferredSkinType     SkinType      `json:"skinType,omitempty"`
	DesiredConcerns       []Concern     `json:"concerns,omitempty"`
	ExcludedSensitivities []Sensitivity `json:"sensitivities,omitempty"`
	SensitivityLevel      int           `json:"sensitivityLevel"`
}

// CacheMetadata is derived from the record map after every successful merge.
type CacheMetadata struct {
	TotalCount   int       `json:"totalCount"`
	LastSyncedAt time.Time `json:"lastUpdated"`
	Fingerprint  string    `json:"fingerprint,omitempty"`
}
