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

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/goccy/go-json"
	"github.com/poiesic/skinshelf/core"
)

// MarshalRecords serializes the full record map.
func MarshalRecords(records core.Records) ([]byte, error) {
	if records == nil {
		records = core.Records{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalRecords decodes a record map. Anything that is not a JSON object
// of records (including null) is reported as ErrCorrupt. Nil entries are
// dropped and entries without an id inherit their key.
func UnmarshalRecords(data []byte) (core.Records, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: record map is not an object", ErrCorrupt)
	}
	var records core.Records
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	for id, r := range records {
		if r == nil {
			delete(records, id)
			continue
		}
		if r.ID == "" {
			r.ID = id
		}
	}
	return records, nil
}

// MarshalMetadata serializes cache metadata.
func MarshalMetadata(meta *core.CacheMetadata) ([]byte, error) {
	data, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalMetadata decodes cache metadata.
func UnmarshalMetadata(data []byte) (*core.CacheMetadata, error) {
	var meta core.CacheMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return &meta, nil
}

// MarshalTime encodes the last-sync marker.
func MarshalTime(t time.Time) []byte {
	return []byte(t.UTC().Format(time.RFC3339Nano))
}

// UnmarshalTime decodes the last-sync marker.
func UnmarshalTime(data []byte) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, string(bytes.TrimSpace(data)))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return t, nil
}

// Fingerprint returns a hex BLAKE2b-256 digest of a serialized blob.
func Fingerprint(data []byte) string {
	h, _ := blake2b.New(32, nil)
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
