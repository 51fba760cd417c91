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


package httpcatalog

import (
	"strconv"
	"time"

	"github.com/poiesic/skinshelf/core"
	"github.com/poiesic/skinshelf/remote"
)

const (
	itemsPath = "/items"

	paramWhere   = "where"
	paramAfter   = "after"
	paramOrderBy = "orderBy"
	paramLimit   = "limit"
)

// itemsResponse is the body of GET /items.
type itemsResponse struct {
	Items []*core.ItemRecord `json:"items"`
}

// errorResponse is the body of a failed request.
type errorResponse struct {
	Error string `json:"error"`
}

func encodeQuery(q remote.Query) map[string]string {
	params := map[string]string{
		paramWhere: string(q.Field),
		paramAfter: q.After.UTC().Format(time.RFC3339Nano),
	}
	if q.OrderBy != "" {
		params[paramOrderBy] = string(q.OrderBy)
	}
	if q.Limit > 0 {
		params[paramLimit] = strconv.Itoa(q.Limit)
	}
	return params
}

func decodeQuery(get func(string) string) (remote.Query, error) {
	q := remote.Query{
		Field:   remote.Field(get(paramWhere)),
		OrderBy: remote.Field(get(paramOrderBy)),
	}
	if raw := get(paramAfter); raw != "" {
		after, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return q, remote.ErrInvalidQuery
		}
		q.After = after
	}
	if raw := get(paramLimit); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return q, remote.ErrInvalidQuery
		}
		q.Limit = n
	}
	return q, q.Validate()
}
