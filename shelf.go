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


package skinshelf

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/poiesic/skinshelf/catalog"
	"github.com/poiesic/skinshelf/config"
	"github.com/poiesic/skinshelf/core"
	"github.com/poiesic/skinshelf/query"
	"github.com/poiesic/skinshelf/recommend"
	"github.com/poiesic/skinshelf/remote"
	"github.com/poiesic/skinshelf/remote/httpcatalog"
	"github.com/poiesic/skinshelf/search"
	"github.com/poiesic/skinshelf/storage"
	"github.com/poiesic/skinshelf/storage/badger"
	"github.com/poiesic/skinshelf/storage/sqlite"
	"github.com/poiesic/skinshelf/syncer"
)

const closeTimeout = 10 * time.Second

// Shelf owns the local catalog mirror and keeps it in sync.
type Shelf struct {
	blobs     storage.BlobStore
	ownsBlobs bool
	store     *catalog.Store
	engine    *syncer.Engine
	logger    *slog.Logger
	closed    atomic.Bool
}

// Option configures a Shelf.
type Option func(*shelfOptions)

type shelfOptions struct {
	remote remote.Catalog
	blobs  storage.BlobStore
	logger *slog.Logger
	clock  func() time.Time
}

// WithRemote uses cat instead of an HTTP client built from the config.
func WithRemote(cat remote.Catalog) Option {
	return func(o *shelfOptions) {
		o.remote = cat
	}
}

// WithBlobStore uses blobs instead of opening the configured backend.
// The caller keeps ownership and must close it after the Shelf.
func WithBlobStore(blobs storage.BlobStore) Option {
	return func(o *shelfOptions) {
		o.blobs = blobs
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *shelfOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock sets the clock used for metadata timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *shelfOptions) {
		o.clock = now
	}
}

// Open creates a Shelf from cfg. A nil cfg uses config.DefaultConfig().
// The cache is not populated until InitializeCache is called.
func Open(cfg *config.Config, opts ...Option) (*Shelf, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &shelfOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}

	cat := options.remote
	if cat == nil {
		if cfg.Remote.BaseURL == "" {
			return nil, ErrRemoteRequired
		}
		client, err := httpcatalog.NewClient(cfg.Remote.BaseURL,
			httpcatalog.WithTimeout(cfg.Remote.Timeout),
			httpcatalog.WithBreaker(cfg.Remote.BreakerFailures, cfg.Remote.BreakerTimeout),
			httpcatalog.WithLogger(options.logger),
		)
		if err != nil {
			return nil, err
		}
		cat = client
	}

	blobs, owns := options.blobs, false
	if blobs == nil {
		opened, err := openBlobStore(cfg.Storage)
		if err != nil {
			return nil, err
		}
		blobs, owns = opened, true
	}

	storeOpts := []catalog.Option{catalog.WithLogger(options.logger)}
	if options.clock != nil {
		storeOpts = append(storeOpts, catalog.WithClock(options.clock))
	}
	store, err := catalog.NewStore(blobs, storeOpts...)
	if err != nil {
		closeIf(owns, blobs)
		return nil, err
	}

	engine, err := syncer.NewEngine(store, cat,
		syncer.WithLogger(options.logger),
		syncer.WithPoolSize(cfg.Sync.PoolSize),
		syncer.WithProbeLimit(cfg.Sync.ProbeLimit),
		syncer.WithBootstrapRetry(cfg.Sync.BootstrapAttempts, cfg.Sync.BootstrapDelay),
		syncer.WithMinRefreshInterval(cfg.Sync.MinRefreshInterval),
	)
	if err != nil {
		closeIf(owns, blobs)
		return nil, err
	}

	return &Shelf{
		blobs:     blobs,
		ownsBlobs: owns,
		store:     store,
		engine:    engine,
		logger:    options.logger,
	}, nil
}

func openBlobStore(cfg config.StorageConfig) (storage.BlobStore, error) {
	switch cfg.Backend {
	case config.BackendBadger:
		return badger.OpenBackend(cfg.Path, false)
	case config.BackendSQLite:
		return sqlite.Open(cfg.Path)
	case config.BackendMemory:
		return badger.NewMemoryBackend()
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func closeIf(owns bool, blobs storage.BlobStore) {
	if owns {
		_ = blobs.Close()
	}
}

// Close persists the mirror one last time, stops the sync workers and
// closes the blob store if the Shelf opened it.
func (s *Shelf) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	if s.engine.Ready() {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		if err := s.store.Persist(ctx); err != nil {
			s.logger.Error("error persisting catalog on close", "err", err)
		}
		cancel()
	}
	s.engine.Release()

	if s.ownsBlobs {
		if err := s.blobs.Close(); err != nil {
			s.logger.Error("error closing blob store", "err", err)
			return err
		}
	}
	return nil
}

// InitializeCache loads the persisted mirror or bootstraps it from the
// remote. It is a no-op once the cache is ready.
func (s *Shelf) InitializeCache(ctx context.Context) error {
	if s.closed.Load() {
		return ErrClosed
	}
	return s.engine.Initialize(ctx)
}

// DownloadAllProducts replaces the mirror with the full remote catalog.
func (s *Shelf) DownloadAllProducts(ctx context.Context) (int, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}
	return s.engine.DownloadAll(ctx)
}

// CheckAndUpdateProducts merges remote changes and reports whether any arrived.
func (s *Shelf) CheckAndUpdateProducts(ctx context.Context) (bool, error) {
	if s.closed.Load() {
		return false, ErrClosed
	}
	return s.engine.CheckAndRefresh(ctx)
}

// OnBecameActive handles an application foreground signal.
func (s *Shelf) OnBecameActive(ctx context.Context) (bool, error) {
	if s.closed.Load() {
		return false, ErrClosed
	}
	return s.engine.OnBecameActive(ctx)
}

// GetCacheMetadata returns the cache metadata, or nil if nothing was synced yet.
func (s *Shelf) GetCacheMetadata(ctx context.Context) *core.CacheMetadata {
	return s.store.Metadata(ctx)
}

// Ready reports whether the cache has been initialized.
func (s *Shelf) Ready() bool {
	return s.engine.Ready()
}

// State returns the sync engine state.
func (s *Shelf) State() syncer.State {
	return s.engine.State()
}

// Records returns a snapshot of the mirror. Mutating it does not affect the Shelf.
func (s *Shelf) Records() core.Records {
	snapshot := s.store.Snapshot()
	out := make(core.Records, len(snapshot))
	for id, r := range snapshot {
		out[id] = r.Clone()
	}
	return out
}

// Get returns a copy of the record with id.
func (s *Shelf) Get(id string) (*core.ItemRecord, bool) {
	r, ok := s.store.Get(id)
	return r.Clone(), ok
}

// Search ranks the mirror against a free-text query.
func (s *Shelf) Search(q string, limit int) []*core.ItemRecord {
	return cloneAll(search.Search(s.store.Snapshot(), q, limit))
}

// Filter returns the records matching criteria, by quality.
func (s *Shelf) Filter(criteria query.Criteria) []*core.ItemRecord {
	return cloneAll(query.AdvancedFilter(s.store.Snapshot(), criteria))
}

// Trending returns quality-weighted random picks. A nil rng uses the global generator.
func (s *Shelf) Trending(limit int, rng query.RandSource) []string {
	return query.Trending(s.store.Snapshot(), limit, rng)
}

// Recommend ranks the mirror for profile, skipping excludedIDs.
func (s *Shelf) Recommend(profile *core.UserProfile, excludedIDs []string, limit int) []*core.ItemRecord {
	return cloneAll(recommend.Recommend(s.store.Snapshot(), profile, excludedIDs, limit))
}

// RecommendBySimilarity ranks the mirror against a concern weight vector.
func (s *Shelf) RecommendBySimilarity(weights *core.ConcernVector, profile *core.UserProfile, excludedIDs []string, limit int) []string {
	return recommend.RecommendBySimilarity(s.store.Snapshot(), weights, profile, excludedIDs, limit)
}

// Handler serves the mirror over the catalog wire contract so another
// instance can use this one as its remote.
func (s *Shelf) Handler() http.Handler {
	return httpcatalog.NewHandler(remote.SnapshotFunc(s.store.Snapshot), s.logger)
}

func cloneAll(records []*core.ItemRecord) []*core.ItemRecord {
	out := make([]*core.ItemRecord, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
