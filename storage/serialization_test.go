package storage

import (
	"testing"
	"time"

	"github.com/poiesic/skinshelf/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalRecords(t *testing.T) {
	w := core.ConcernVector{0.5, 0.5}
	records := core.Records{
		"a": {
			ID:             "a",
			Brand:          "Glow",
			Name:           "Gentle Cleanser",
			Category:       core.CategoryCleanser,
			SkinTypes:      []core.SkinType{core.SkinTypeDry},
			QualityScore:   90,
			ConcernWeights: &w,
			CreatedAt:      core.TimestampOf(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		},
		"b": {ID: "b", Brand: "Pure", Name: "Serum", Category: core.CategorySerum},
	}

	data, err := MarshalRecords(records)
	require.NoError(t, err)

	decoded, err := UnmarshalRecords(data)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.Equal(t, records["a"].Name, decoded["a"].Name)
	assert.Equal(t, records["a"].SkinTypes, decoded["a"].SkinTypes)
	assert.Equal(t, w, *decoded["a"].ConcernWeights)

	again, err := MarshalRecords(decoded)
	require.NoError(t, err)
	assert.Equal(t, data, again, "serialization should be byte-stable")
}

func TestMarshalRecords_Nil(t *testing.T) {
	data, err := MarshalRecords(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestUnmarshalRecords_WrongShape(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"null", "null"},
		{"array", `[{"id":"a"}]`},
		{"string", `"records"`},
		{"truncated", `{"a":{"id":"a"`},
		{"record is a number", `{"a":42}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalRecords([]byte(tt.data))
			assert.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestUnmarshalRecords_FillsMissingIDs(t *testing.T) {
	decoded, err := UnmarshalRecords([]byte(`{"a":{"name":"x"},"b":null}`))
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, "a", decoded["a"].ID)
}

func TestUnmarshalRecords_EmptyObject(t *testing.T) {
	decoded, err := UnmarshalRecords([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestMarshalUnmarshalMetadata(t *testing.T) {
	meta := &core.CacheMetadata{
		TotalCount:   500,
		LastSyncedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Fingerprint:  "abc",
	}
	data, err := MarshalMetadata(meta)
	require.NoError(t, err)

	decoded, err := UnmarshalMetadata(data)
	require.NoError(t, err)
	assert.Equal(t, meta.TotalCount, decoded.TotalCount)
	assert.True(t, meta.LastSyncedAt.Equal(decoded.LastSyncedAt))
	assert.Equal(t, meta.Fingerprint, decoded.Fingerprint)

	_, err = UnmarshalMetadata([]byte("not json"))
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestMarshalUnmarshalTime(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 123, time.UTC)
	decoded, err := UnmarshalTime(MarshalTime(now))
	require.NoError(t, err)
	assert.True(t, now.Equal(decoded))

	_, err = UnmarshalTime([]byte("yesterday"))
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint([]byte("one"))
	b := Fingerprint([]byte("one"))
	c := Fingerprint([]byte("two"))

	assert.Len(t, a, 64)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
