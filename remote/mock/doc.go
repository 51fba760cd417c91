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


// Package mock provides an in-memory remote.Catalog for tests.
//
// # Usage
//
//	cat := mock.NewMockCatalog(records...)
//	cat.FetchWhereFunc = func(ctx context.Context, q remote.Query) ([]*core.ItemRecord, error) {
//	    return nil, remote.ErrUnavailable
//	}
//
//	// Check call counts
//	all, where := cat.FetchAllCalls(), cat.FetchWhereCalls()
//
// # Default Behavior
//
// FetchAll returns every stored record; FetchWhere applies the query's
// timestamp filter, ordering and limit the way a document store would.
package mock
