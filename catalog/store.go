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


package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/poiesic/skinshelf/core"
	"github.com/poiesic/skinshelf/metrics"
	"github.com/poiesic/skinshelf/storage"
)

// Store is the authoritative local mirror of the catalog.
type Store struct {
	blobs  storage.BlobStore
	now    func() time.Time
	logger *slog.Logger

	mu      sync.RWMutex
	records core.Records
	meta    *core.CacheMetadata

	// writeMu serializes merge+persist so each write lands as one unit.
	writeMu sync.Mutex
}

// Option configures a Store.
type Option func(*Store) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithClock overrides the time source used for metadata timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) error {
		if now != nil {
			s.now = now
		}
		return nil
	}
}

// NewStore creates an empty store backed by blobs. Call Load to populate it.
func NewStore(blobs storage.BlobStore, opts ...Option) (*Store, error) {
	if blobs == nil {
		return nil, ErrBlobStoreRequired
	}

	s := &Store{
		blobs:   blobs,
		now:     time.Now,
		logger:  slog.Default(),
		records: core.Records{},
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Load replaces the in-memory map with the persisted one and returns the
// number of records loaded. An absent, corrupt, or empty blob yields 0 and a
// nil error; a corrupt blob also has every persisted key removed so a stale
// last-sync marker cannot outlive its records. A non-nil error means the
// storage itself could not be read.
func (s *Store) Load(ctx context.Context) (int, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	data, err := s.blobs.GetBlob(ctx, storage.KeyRecords)
	if errors.Is(err, storage.ErrNotFound) {
		s.logger.Debug("no persisted catalog found")
		s.publish(core.Records{}, nil)
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read catalog: %w", err)
	}

	meta := s.readMetadata(ctx)
	records, err := storage.UnmarshalRecords(data)
	if err == nil {
		err = verifyFingerprint(data, meta)
	}
	if err != nil {
		s.logger.Warn("persisted catalog is corrupt, discarding", "bytes", len(data), "err", err)
		metrics.CorruptionRecoveries.Inc()
		if rmErr := s.blobs.RemoveBlob(ctx, storage.AllKeys()...); rmErr != nil {
			s.logger.Error("error removing corrupt catalog", "err", rmErr)
		}
		s.publish(core.Records{}, nil)
		return 0, nil
	}

	s.publish(records, meta)
	s.logger.Info("loaded persisted catalog", "records", len(records))
	return len(records), nil
}

// verifyFingerprint compares the record blob against the digest recorded in
// metadata. Missing or unreadable metadata is not treated as corruption.
func verifyFingerprint(data []byte, meta *core.CacheMetadata) error {
	if meta == nil || meta.Fingerprint == "" {
		return nil
	}
	if got := storage.Fingerprint(data); got != meta.Fingerprint {
		return fmt.Errorf("%w: fingerprint mismatch", storage.ErrCorrupt)
	}
	return nil
}

func (s *Store) readMetadata(ctx context.Context) *core.CacheMetadata {
	data, err := s.blobs.GetBlob(ctx, storage.KeyMetadata)
	if err != nil {
		return nil
	}
	meta, err := storage.UnmarshalMetadata(data)
	if err != nil {
		s.logger.Debug("ignoring unreadable cache metadata", "err", err)
		return nil
	}
	return meta
}

// UpsertAll merges records by id, fully replacing existing entries, then
// persists the result. Records without an id are skipped; records with
// invalid fields are stored as sent so the watermark moves past them.
// Persistence failures are logged; the merged map stays live in memory.
// Returns the number merged.
func (s *Store) UpsertAll(ctx context.Context, records []*core.ItemRecord) int {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	next := maps.Clone(s.records)
	s.mu.RUnlock()
	if next == nil {
		next = core.Records{}
	}

	merged := s.merge(next, records)
	s.commit(ctx, next)
	metrics.RecordsMerged.Add(float64(merged))
	return merged
}

// ReplaceAll swaps the whole map for records (full download) and persists it.
// Returns the number of records kept.
func (s *Store) ReplaceAll(ctx context.Context, records []*core.ItemRecord) int {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := make(core.Records, len(records))
	merged := s.merge(next, records)
	s.commit(ctx, next)
	metrics.RecordsMerged.Add(float64(merged))
	return merged
}

func (s *Store) merge(into core.Records, records []*core.ItemRecord) int {
	merged := 0
	for _, r := range records {
		if r == nil || r.ID == "" {
			s.logger.Warn("skipping record without id")
			continue
		}
		if err := core.ValidateItemRecord(r); err != nil {
			s.logger.Warn("storing record with invalid fields", "id", r.ID, "err", err)
		}
		into[r.ID] = r.Clone()
		merged++
	}
	return merged
}

// commit publishes next and persists it. Must be called with writeMu held.
func (s *Store) commit(ctx context.Context, next core.Records) {
	meta := &core.CacheMetadata{
		TotalCount:   len(next),
		LastSyncedAt: s.now().UTC(),
	}
	if err := s.persist(ctx, next, meta); err != nil {
		s.logger.Error("error persisting catalog, serving from memory", "records", len(next), "err", err)
		metrics.PersistFailures.Inc()
	}
	s.publish(next, meta)
}

// Persist writes the current map, its metadata, and the last-sync marker as
// one atomic unit.
func (s *Store) Persist(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	current := s.records
	s.mu.RUnlock()

	meta := &core.CacheMetadata{
		TotalCount:   len(current),
		LastSyncedAt: s.now().UTC(),
	}
	if err := s.persist(ctx, current, meta); err != nil {
		metrics.PersistFailures.Inc()
		return err
	}
	s.publish(current, meta)
	return nil
}

func (s *Store) persist(ctx context.Context, records core.Records, meta *core.CacheMetadata) error {
	data, err := storage.MarshalRecords(records)
	if err != nil {
		return err
	}
	meta.Fingerprint = storage.Fingerprint(data)
	metaData, err := storage.MarshalMetadata(meta)
	if err != nil {
		return err
	}
	return s.blobs.SetBlobs(ctx, map[string][]byte{
		storage.KeyRecords:  data,
		storage.KeyMetadata: metaData,
		storage.KeyLastSync: storage.MarshalTime(meta.LastSyncedAt),
	})
}

func (s *Store) publish(records core.Records, meta *core.CacheMetadata) {
	s.mu.Lock()
	s.records = records
	s.meta = meta
	s.mu.Unlock()
	metrics.CachedRecords.Set(float64(len(records)))
}

// Snapshot returns a read-only view of the current records. The map is a
// copy; the records themselves are shared and must not be modified.
func (s *Store) Snapshot() core.Records {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.records)
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (*core.ItemRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	return r, ok
}

// Len returns the number of records currently held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Watermark returns the latest createdAt/updatedAt instant across all
// records. It is recomputed on every call rather than tracked, so it stays
// correct if the store is cleared or restored.
func (s *Store) Watermark() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		latest time.Time
		found  bool
	)
	for _, r := range s.records {
		if t, ok := r.Latest(); ok && (!found || t.After(latest)) {
			latest = t
			found = true
		}
	}
	return latest, found
}

// Metadata returns the metadata computed by the last successful load or
// merge, falling back to the persisted copy. Returns nil when none exists.
func (s *Store) Metadata(ctx context.Context) *core.CacheMetadata {
	s.mu.RLock()
	meta := s.meta
	s.mu.RUnlock()
	if meta != nil {
		c := *meta
		return &c
	}
	return s.readMetadata(ctx)
}

// LastSync returns the persisted last-sync marker.
func (s *Store) LastSync(ctx context.Context) (time.Time, bool, error) {
	data, err := s.blobs.GetBlob(ctx, storage.KeyLastSync)
	if errors.Is(err, storage.ErrNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	t, err := storage.UnmarshalTime(data)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}
