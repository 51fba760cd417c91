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


// Package skinshelf is an offline mirror of a skincare product catalog.
//
// A Shelf keeps a local copy of the remote catalog in a durable blob store,
// refreshes it incrementally using a timestamp watermark, and answers
// search, filter, trending and recommendation queries against the local
// copy without touching the network.
//
//	shelf, err := skinshelf.Open(config.NewConfig(
//	    config.WithStorage(config.BackendBadger, "/var/lib/skinshelf"),
//	    config.WithRemoteURL("https://catalog.example.com/v1"),
//	))
//	if err != nil { ... }
//	defer shelf.Close()
//
//	if err := shelf.InitializeCache(ctx); err != nil { ... }
//	hits := shelf.Search("gentle cleanser", 20)
package skinshelf
