package query

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/skinshelf/core"
)

type fixedRand struct {
	values []float64
	i      int
}

func (f *fixedRand) Float64() float64 {
	v := f.values[f.i%len(f.values)]
	f.i++
	return v
}

func TestTrending_EligibilityAndLimit(t *testing.T) {
	got := Trending(fixture(), 0, rand.New(rand.NewPCG(1, 2)))
	assert.ElementsMatch(t, []string{"cleanser", "serum", "oil-serum"}, got, "quality below 60 is excluded")

	assert.Len(t, Trending(fixture(), 2, nil), 2)
	assert.Empty(t, Trending(nil, 5, nil))
}

func TestTrending_QualityWeightedKey(t *testing.T) {
	records := core.Records{
		"low":  {ID: "low", QualityScore: 60},
		"high": {ID: "high", QualityScore: 100},
	}
	// Draws happen in id order: high, low. Same draw, so quality decides.
	got := Trending(records, 0, &fixedRand{values: []float64{0.5, 0.5}})
	assert.Equal(t, []string{"high", "low"}, got)

	// A much larger draw can overcome the quality weighting.
	got = Trending(records, 0, &fixedRand{values: []float64{0.1, 0.9}})
	assert.Equal(t, []string{"low", "high"}, got)
}

func TestTrending_SeededIsRepeatable(t *testing.T) {
	records := core.Records{}
	for i := 0; i < 30; i++ {
		id := fmt.Sprintf("p%02d", i)
		records[id] = &core.ItemRecord{ID: id, QualityScore: float64(60 + i)}
	}

	first := Trending(records, 10, rand.New(rand.NewPCG(7, 7)))
	second := Trending(records, 10, rand.New(rand.NewPCG(7, 7)))
	require.Len(t, first, 10)
	assert.Equal(t, first, second)
}
