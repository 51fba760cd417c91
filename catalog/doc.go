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


// Package catalog holds the local mirror of the remote product catalog and
// its persistence.
//
// The Store keeps the id -> record map in memory and writes it, together
// with derived metadata and a last-sync marker, to a storage.BlobStore.
// Writes are copy-on-write: a merge builds a new map and publishes it, so
// snapshots handed to readers are never mutated.
package catalog
