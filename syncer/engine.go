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


package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/poiesic/skinshelf/catalog"
	"github.com/poiesic/skinshelf/core"
	"github.com/poiesic/skinshelf/metrics"
	"github.com/poiesic/skinshelf/remote"
)

const (
	defaultProbeLimit         = 1
	defaultBootstrapAttempts  = 3
	defaultBootstrapDelay     = 500 * time.Millisecond
	defaultMinRefreshInterval = 30 * time.Second

	opInitialize = "initialize"
	opRefresh    = "refresh"
	opDownload   = "download"
)

// Engine synchronizes a catalog.Store with a remote.Catalog.
type Engine struct {
	store  *catalog.Store
	remote remote.Catalog
	pool   *ants.Pool
	logger *slog.Logger

	probeLimit        int
	bootstrapAttempts int
	bootstrapDelay    time.Duration
	limiter           *rate.Limiter

	state      atomic.Int32
	initFlight singleflight.Group

	// writeMu is held for the whole of a write cycle.
	writeMu sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine) error

// WithPoolSize sets the worker pool size for concurrent remote fetches.
// Default is runtime.NumCPU() / 2, with a minimum of 2.
func WithPoolSize(size int) Option {
	return func(e *Engine) error {
		if size < 1 {
			size = 1
		}
		if e.pool != nil {
			e.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		e.pool = pool
		return nil
	}
}

// WithProbeLimit sets how many records each existence probe asks for.
// Default is 1.
func WithProbeLimit(limit int) Option {
	return func(e *Engine) error {
		if limit > 0 {
			e.probeLimit = limit
		}
		return nil
	}
}

// WithBootstrapRetry sets how often a full download is attempted and the
// base delay between attempts, which doubles after each failure.
func WithBootstrapRetry(attempts int, delay time.Duration) Option {
	return func(e *Engine) error {
		if attempts > 0 {
			e.bootstrapAttempts = attempts
		}
		if delay >= 0 {
			e.bootstrapDelay = delay
		}
		return nil
	}
}

// WithMinRefreshInterval sets the minimum spacing between refreshes started
// by OnBecameActive. Zero disables throttling.
func WithMinRefreshInterval(d time.Duration) Option {
	return func(e *Engine) error {
		if d <= 0 {
			e.limiter = rate.NewLimiter(rate.Inf, 1)
			return nil
		}
		e.limiter = rate.NewLimiter(rate.Every(d), 1)
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEngine creates a sync engine in the Uninitialized state.
func NewEngine(store *catalog.Store, cat remote.Catalog, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if cat == nil {
		return nil, ErrRemoteRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 2 {
		poolSize = 2
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		store:             store,
		remote:            cat,
		pool:              pool,
		logger:            slog.Default(),
		probeLimit:        defaultProbeLimit,
		bootstrapAttempts: defaultBootstrapAttempts,
		bootstrapDelay:    defaultBootstrapDelay,
		limiter:           rate.NewLimiter(rate.Every(defaultMinRefreshInterval), 1),
	}
	for _, opt := range opts {
		if optErr := opt(e); optErr != nil {
			e.Release()
			return nil, optErr
		}
	}
	e.logger = e.logger.With("component", "syncer")
	return e, nil
}

// Release releases the worker pool.
func (e *Engine) Release() {
	if e.pool != nil {
		e.pool.Release()
	}
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Ready reports whether the cache has been initialized.
func (e *Engine) Ready() bool {
	return e.State().Initialized()
}

func (e *Engine) setState(s State) {
	prev := State(e.state.Swap(int32(s)))
	if prev != s {
		e.logger.Debug("sync state change", "from", prev.String(), "to", s.String())
	}
}

// Initialize populates the store from durable storage, or from a full remote
// download when nothing usable was persisted. It is a no-op once the engine
// is initialized, and concurrent callers share one attempt. When both
// sources fail the engine stays Uninitialized and ErrInitFailed is returned.
func (e *Engine) Initialize(ctx context.Context) error {
	if e.Ready() {
		return nil
	}
	_, err, shared := e.initFlight.Do(opInitialize, func() (any, error) {
		return nil, e.initialize(ctx)
	})
	if shared {
		e.logger.Debug("joined in-flight initialization")
	}
	return err
}

func (e *Engine) initialize(ctx context.Context) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	if e.Ready() {
		return nil
	}

	start := time.Now()
	e.setState(StateLoading)
	loaded, loadErr := e.store.Load(ctx)
	if loadErr != nil {
		e.logger.Error("error loading persisted catalog", "err", loadErr)
	}
	if loaded > 0 {
		e.setState(StateReady)
		e.observe(opInitialize, metrics.OutcomeUnchanged, start)
		return nil
	}

	e.setState(StateBootstrapping)
	count, err := e.downloadAll(ctx)
	if err != nil {
		e.setState(StateUninitialized)
		e.observe(opInitialize, metrics.OutcomeFailed, start)
		if loadErr != nil {
			return fmt.Errorf("%w: load: %w; download: %w", ErrInitFailed, loadErr, err)
		}
		return fmt.Errorf("%w: %w", ErrInitFailed, err)
	}

	e.setState(StateReady)
	e.observe(opInitialize, metrics.OutcomeUpdated, start)
	e.logger.Info("catalog bootstrapped", "records", count, "elapsed", time.Since(start))
	return nil
}

// DownloadAll replaces the whole store with a fresh copy of the remote
// collection and returns the number of records stored. A successful
// download leaves the engine Ready. On a cold engine the download runs as
// Bootstrapping, so the engine never reports ready before data arrives.
func (e *Engine) DownloadAll(ctx context.Context) (int, error) {
	if !e.writeMu.TryLock() {
		return 0, ErrRefreshInProgress
	}
	defer e.writeMu.Unlock()

	start := time.Now()
	prev := e.State()
	running := StateDownloading
	if !prev.Initialized() {
		running = StateBootstrapping
	}
	e.setState(running)

	count, err := e.downloadAll(ctx)
	if err != nil {
		e.setState(prev)
		e.observe(opDownload, metrics.OutcomeFailed, start)
		return 0, err
	}
	e.setState(StateReady)
	e.observe(opDownload, metrics.OutcomeUpdated, start)
	return count, nil
}

// downloadAll fetches the full collection, retrying with backoff, and
// replaces the store with it. Must be called with writeMu held.
func (e *Engine) downloadAll(ctx context.Context) (int, error) {
	var records []*core.ItemRecord
	err := retryWithBackoff(ctx, e.logger, func() error {
		var fetchErr error
		records, fetchErr = e.remote.FetchAll(ctx)
		return fetchErr
	}, e.bootstrapAttempts, e.bootstrapDelay)
	if err != nil {
		return 0, fmt.Errorf("full download: %w", err)
	}

	count := e.store.ReplaceAll(ctx, records)
	e.logger.Info("downloaded full catalog", "fetched", len(records), "stored", count)
	return count, nil
}

// CheckAndRefresh brings the store up to date with the remote and reports
// whether anything changed. It requires a Ready engine.
//
// An empty store, or one with no timestamped records, is refreshed with a
// full download. Otherwise both existence probes run concurrently; when
// either returns a record, or either fails, both deltas are fetched
// concurrently and merged. If either delta fails nothing is merged, so the
// watermark cannot advance past records that were never fetched.
func (e *Engine) CheckAndRefresh(ctx context.Context) (bool, error) {
	if !e.writeMu.TryLock() {
		return false, ErrRefreshInProgress
	}
	defer e.writeMu.Unlock()

	if e.State() != StateReady {
		return false, ErrNotReady
	}

	start := time.Now()
	logger := e.logger.With("run", uuid.NewString())
	e.setState(StateChecking)
	defer e.setState(StateReady)

	watermark, ok := e.store.Watermark()
	if e.store.Len() == 0 || !ok {
		logger.Info("no usable watermark, downloading full catalog", "records", e.store.Len())
		e.setState(StateDownloading)
		if _, err := e.downloadAll(ctx); err != nil {
			e.observe(opRefresh, metrics.OutcomeFailed, start)
			return false, err
		}
		e.observe(opRefresh, metrics.OutcomeUpdated, start)
		return true, nil
	}

	probes := e.fetchAll(ctx,
		remote.Probe(remote.FieldCreatedAt, watermark, e.probeLimit),
		remote.Probe(remote.FieldUpdatedAt, watermark, e.probeLimit),
	)
	if err := ctx.Err(); err != nil {
		e.observe(opRefresh, metrics.OutcomeFailed, start)
		return false, err
	}

	stale := false
	for _, p := range probes {
		if p.err != nil {
			metrics.ProbeFailures.Inc()
			logger.Warn("probe failed, assuming stale", "field", p.query.Field, "err", p.err)
			stale = true
			continue
		}
		if len(p.records) > 0 {
			stale = true
		}
	}
	if !stale {
		logger.Debug("catalog up to date", "watermark", watermark)
		e.observe(opRefresh, metrics.OutcomeUnchanged, start)
		return false, nil
	}

	e.setState(StateDownloading)
	deltas := e.fetchAll(ctx,
		remote.Delta(remote.FieldCreatedAt, watermark),
		remote.Delta(remote.FieldUpdatedAt, watermark),
	)
	var (
		changed []*core.ItemRecord
		errs    []error
	)
	for _, d := range deltas {
		if d.err != nil {
			errs = append(errs, fmt.Errorf("delta on %s: %w", d.query.Field, d.err))
			continue
		}
		changed = append(changed, d.records...)
	}
	if len(errs) > 0 {
		e.observe(opRefresh, metrics.OutcomeFailed, start)
		return false, errors.Join(errs...)
	}

	merged := 0
	if len(changed) > 0 {
		merged = e.store.UpsertAll(ctx, changed)
	}
	outcome := metrics.OutcomeUnchanged
	if merged > 0 {
		outcome = metrics.OutcomeUpdated
	}
	e.observe(opRefresh, outcome, start)
	logger.Info("catalog refreshed", "watermark", watermark, "fetched", len(changed), "merged", merged, "elapsed", time.Since(start))
	return merged > 0, nil
}

// OnBecameActive reacts to an external activity signal. Signals arriving
// faster than the configured minimum interval are dropped. An uninitialized
// engine is initialized; a Ready one is refreshed. Returns true when the
// cycle populated or changed the cache.
func (e *Engine) OnBecameActive(ctx context.Context) (bool, error) {
	if !e.limiter.Allow() {
		metrics.SyncCycles.WithLabelValues(opRefresh, metrics.OutcomeSkipped).Inc()
		e.logger.Debug("activity signal throttled")
		return false, nil
	}

	switch e.State() {
	case StateUninitialized:
		if err := e.Initialize(ctx); err != nil {
			return false, err
		}
		return true, nil
	case StateReady:
		updated, err := e.CheckAndRefresh(ctx)
		if errors.Is(err, ErrRefreshInProgress) || errors.Is(err, ErrNotReady) {
			return false, nil
		}
		return updated, err
	default:
		return false, nil
	}
}

type fetchResult struct {
	query   remote.Query
	records []*core.ItemRecord
	err     error
}

// fetchAll runs queries concurrently on the worker pool and waits for all
// of them. Results are returned in query order.
func (e *Engine) fetchAll(ctx context.Context, queries ...remote.Query) []fetchResult {
	results := make([]fetchResult, len(queries))
	var wg sync.WaitGroup
	for i, q := range queries {
		results[i].query = q
		run := func() {
			defer wg.Done()
			results[i].records, results[i].err = e.remote.FetchWhere(ctx, q)
		}
		wg.Add(1)
		if err := e.pool.Submit(run); err != nil {
			e.logger.Debug("worker pool unavailable, fetching inline", "err", err)
			run()
		}
	}
	wg.Wait()
	return results
}

func (e *Engine) observe(op, outcome string, start time.Time) {
	metrics.SyncCycles.WithLabelValues(op, outcome).Inc()
	metrics.SyncDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
