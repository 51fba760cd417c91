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


package remote

import (
	"context"
	"sort"
	"time"

	"github.com/poiesic/skinshelf/core"
)

// Apply evaluates q against records the way the remote document store does:
// records whose q.Field is strictly after q.After, ascending on q.OrderBy
// when set, truncated to q.Limit. Records without a parseable value for
// q.Field never match. The input slice is not modified.
func Apply(q Query, records []*core.ItemRecord) []*core.ItemRecord {
	type hit struct {
		record *core.ItemRecord
		order  time.Time
	}

	hits := make([]hit, 0)
	for _, r := range records {
		if r == nil {
			continue
		}
		t, ok := q.Field.Value(r).Time()
		if !ok || !t.After(q.After) {
			continue
		}
		h := hit{record: r}
		if q.OrderBy != "" {
			h.order, _ = q.OrderBy.Value(r).Time()
		}
		hits = append(hits, h)
	}

	sort.Slice(hits, func(i, j int) bool {
		if !hits[i].order.Equal(hits[j].order) {
			return hits[i].order.Before(hits[j].order)
		}
		return hits[i].record.ID < hits[j].record.ID
	})
	if q.Limit > 0 && len(hits) > q.Limit {
		hits = hits[:q.Limit]
	}

	out := make([]*core.ItemRecord, len(hits))
	for i, h := range hits {
		out[i] = h.record
	}
	return out
}

// SnapshotFunc adapts a record snapshot source into a read-only Catalog.
// It lets a populated local cache act as the remote for another instance.
type SnapshotFunc func() core.Records

var _ Catalog = SnapshotFunc(nil)

// FetchAll returns every record of the current snapshot.
func (f SnapshotFunc) FetchAll(ctx context.Context) ([]*core.ItemRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return cloneAll(f().Sorted()), nil
}

// FetchWhere runs q against the current snapshot.
func (f SnapshotFunc) FetchWhere(ctx context.Context, q Query) ([]*core.ItemRecord, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return cloneAll(Apply(q, f().Sorted())), nil
}

func cloneAll(records []*core.ItemRecord) []*core.ItemRecord {
	out := make([]*core.ItemRecord, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
