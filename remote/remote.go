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


// Package remote defines the contract of the remote catalog service: a
// queryable document store keyed by item id whose documents carry createdAt
// and updatedAt timestamps.
package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/poiesic/skinshelf/core"
)

var (
	// ErrUnavailable indicates a network or service failure talking to the catalog.
	ErrUnavailable = errors.New("remote catalog unavailable")

	// ErrInvalidQuery indicates a malformed range query.
	ErrInvalidQuery = errors.New("invalid catalog query")
)

// Field is a timestamp field that range queries can filter and order on.
type Field string

const (
	FieldCreatedAt Field = "createdAt"
	FieldUpdatedAt Field = "updatedAt"
)

// Valid reports whether f is a queryable timestamp field.
func (f Field) Valid() bool {
	return f == FieldCreatedAt || f == FieldUpdatedAt
}

// Value returns the raw timestamp of r for field f.
func (f Field) Value(r *core.ItemRecord) core.Timestamp {
	if f == FieldCreatedAt {
		return r.CreatedAt
	}
	return r.UpdatedAt
}

// Query selects records whose Field is strictly after After. OrderBy, when
// set, sorts ascending on that field. A zero Limit means unbounded.
type Query struct {
	Field   Field
	After   time.Time
	OrderBy Field
	Limit   int
}

// Validate checks the query is well formed.
func (q Query) Validate() error {
	if !q.Field.Valid() {
		return fmt.Errorf("%w: field %q", ErrInvalidQuery, q.Field)
	}
	if q.OrderBy != "" && !q.OrderBy.Valid() {
		return fmt.Errorf("%w: orderBy %q", ErrInvalidQuery, q.OrderBy)
	}
	if q.Limit < 0 {
		return fmt.Errorf("%w: negative limit", ErrInvalidQuery)
	}
	return nil
}

// Probe returns the cheap existence query for records newer than after.
func Probe(field Field, after time.Time, limit int) Query {
	return Query{Field: field, After: after, Limit: limit}
}

// Delta returns the unbounded, ascending delta query for field.
func Delta(field Field, after time.Time) Query {
	return Query{Field: field, After: after, OrderBy: field}
}

// Catalog is the remote catalog collaborator.
// Implementations must be safe for concurrent use.
type Catalog interface {
	// FetchAll reads the full collection.
	FetchAll(ctx context.Context) ([]*core.ItemRecord, error)

	// FetchWhere runs a timestamp range query.
	FetchWhere(ctx context.Context, q Query) ([]*core.ItemRecord, error)
}
