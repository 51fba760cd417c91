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


package mock

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/poiesic/skinshelf/core"
	"github.com/poiesic/skinshelf/remote"
)

// MockCatalog is a test double for remote.Catalog. It is safe for
// concurrent use.
type MockCatalog struct {
	// FetchAllFunc is called by FetchAll if set.
	FetchAllFunc func(ctx context.Context) ([]*core.ItemRecord, error)

	// FetchWhereFunc is called by FetchWhere if set.
	FetchWhereFunc func(ctx context.Context, q remote.Query) ([]*core.ItemRecord, error)

	mu         sync.Mutex
	records    map[string]*core.ItemRecord
	allCalls   int
	whereCalls int
	queries    []remote.Query
}

var _ remote.Catalog = (*MockCatalog)(nil)

// NewMockCatalog creates a mock catalog holding records.
func NewMockCatalog(records ...*core.ItemRecord) *MockCatalog {
	m := &MockCatalog{records: make(map[string]*core.ItemRecord)}
	m.Put(records...)
	return m
}

// Put inserts or replaces records in the remote collection.
func (m *MockCatalog) Put(records ...*core.ItemRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range records {
		m.records[r.ID] = r.Clone()
	}
}

// Delete removes records from the remote collection.
func (m *MockCatalog) Delete(ids ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.records, id)
	}
}

// FetchAll returns every record.
func (m *MockCatalog) FetchAll(ctx context.Context) ([]*core.ItemRecord, error) {
	m.mu.Lock()
	m.allCalls++
	fn := m.FetchAllFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*core.ItemRecord, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// FetchWhere returns records whose q.Field is strictly after q.After.
func (m *MockCatalog) FetchWhere(ctx context.Context, q remote.Query) ([]*core.ItemRecord, error) {
	m.mu.Lock()
	m.whereCalls++
	m.queries = append(m.queries, q)
	fn := m.FetchWhereFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, q)
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	all := make([]*core.ItemRecord, 0, len(m.records))
	for _, r := range m.records {
		all = append(all, r)
	}
	hits := remote.Apply(q, all)
	out := make([]*core.ItemRecord, len(hits))
	for i, r := range hits {
		out[i] = r.Clone()
	}
	m.mu.Unlock()

	return out, nil
}

// FetchAllCalls returns the number of FetchAll calls.
func (m *MockCatalog) FetchAllCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.allCalls
}

// FetchWhereCalls returns the number of FetchWhere calls.
func (m *MockCatalog) FetchWhereCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.whereCalls
}

// Queries returns every query passed to FetchWhere, in call order.
func (m *MockCatalog) Queries() []remote.Query {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.queries)
}

// Reset clears call counts and injected behavior.
func (m *MockCatalog) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.allCalls = 0
	m.whereCalls = 0
	m.queries = nil
	m.FetchAllFunc = nil
	m.FetchWhereFunc = nil
}
