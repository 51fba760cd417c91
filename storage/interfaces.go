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


package storage

import "context"

// Logical blob keys used by the catalog store.
const (
	KeyRecords  = "catalog:records"
	KeyLastSync = "catalog:last_sync"
	KeyMetadata = "catalog:metadata"
)

// AllKeys lists every key the catalog store writes.
func AllKeys() []string {
	return []string{KeyRecords, KeyLastSync, KeyMetadata}
}

// BlobStore is an asynchronous key-value blob store on durable device storage.
type BlobStore interface {
	// GetBlob returns the value stored under key.
	// Returns ErrNotFound if the key is absent.
	GetBlob(ctx context.Context, key string) ([]byte, error)

	// SetBlob stores value under key, replacing any previous value.
	SetBlob(ctx context.Context, key string, value []byte) error

	// SetBlobs stores every entry in a single atomic write.
	SetBlobs(ctx context.Context, blobs map[string][]byte) error

	// RemoveBlob deletes the given keys. Missing keys are not an error.
	RemoveBlob(ctx context.Context, keys ...string) error

	// Close releases the underlying storage.
	Close() error
}
