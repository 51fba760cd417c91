package remote

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/skinshelf/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func stamped(id string, created, updated time.Duration) *core.ItemRecord {
	return &core.ItemRecord{
		ID:           id,
		QualityScore: 50,
		CreatedAt:    core.TimestampOf(epoch.Add(created)),
		UpdatedAt:    core.TimestampOf(epoch.Add(updated)),
	}
}

func idsOf(records []*core.ItemRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestApply(t *testing.T) {
	records := []*core.ItemRecord{
		stamped("late", 0, 9*time.Hour),
		stamped("early", 0, 2*time.Hour),
		stamped("old", 0, 0),
		nil,
		{ID: "unstamped"},
	}

	got := Apply(Delta(FieldUpdatedAt, epoch), records)
	assert.Equal(t, []string{"early", "late"}, idsOf(got))

	got = Apply(Probe(FieldUpdatedAt, epoch, 1), records)
	assert.Len(t, got, 1)

	got = Apply(Delta(FieldCreatedAt, epoch), records)
	assert.Empty(t, got)
}

func TestApply_MixedEncodings(t *testing.T) {
	r := &core.ItemRecord{ID: "epoch", UpdatedAt: core.Timestamp(`1709856000`)}
	got := Apply(Delta(FieldUpdatedAt, epoch), []*core.ItemRecord{r})
	require.Len(t, got, 1)
	assert.Equal(t, "epoch", got[0].ID)
}

func TestSnapshotFunc(t *testing.T) {
	records := core.Records{
		"a": stamped("a", time.Hour, time.Hour),
		"b": stamped("b", 0, 0),
	}
	cat := SnapshotFunc(func() core.Records { return records })
	ctx := context.Background()

	all, err := cat.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	all[0].Name = "mutated"
	assert.Empty(t, records[all[0].ID].Name)

	newer, err := cat.FetchWhere(ctx, Probe(FieldCreatedAt, epoch, 5))
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, idsOf(newer))

	_, err = cat.FetchWhere(ctx, Query{Field: "brand"})
	assert.ErrorIs(t, err, ErrInvalidQuery)
}
