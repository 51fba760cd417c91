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


// Package storage provides the durable blob abstraction for skinshelf.
//
// The catalog mirror is persisted as three logical blobs in a device-local
// key-value store:
//
//   - KeyRecords: the serialized id -> record map
//   - KeyLastSync: the instant of the last successful write
//   - KeyMetadata: derived CacheMetadata, including a content fingerprint
//
// # Constructor Return Type Pattern
//
// Backend constructors return concrete types (badger.Backend, sqlite.Store)
// that satisfy BlobStore. Consumers accept the BlobStore interface so tests
// can substitute an in-memory backend:
//
//	backend, err := badger.OpenBackend("", true)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
// # Thread Safety
//
// All BlobStore implementations must be safe for concurrent use. SetBlobs
// must apply all entries atomically so a record map is never persisted
// without its matching metadata.
package storage
