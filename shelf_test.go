package skinshelf

import (
	"context"
	"fmt"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/skinshelf/config"
	"github.com/poiesic/skinshelf/core"
	"github.com/poiesic/skinshelf/query"
	"github.com/poiesic/skinshelf/remote"
	"github.com/poiesic/skinshelf/remote/mock"
	"github.com/poiesic/skinshelf/syncer"
)

var base = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func product(id, brand, name string, category core.Category, quality float64) *core.ItemRecord {
	return &core.ItemRecord{
		ID:           id,
		Brand:        brand,
		Name:         name,
		Category:     category,
		QualityScore: quality,
		CreatedAt:    core.TimestampOf(base),
		UpdatedAt:    core.TimestampOf(base),
	}
}

func sampleCatalog() []*core.ItemRecord {
	return []*core.ItemRecord{
		product("A", "Glow", "Gentle Cleanser", core.CategoryCleanser, 90),
		product("B", "Glow", "Night Serum", core.CategorySerum, 70),
		product("C", "Pure", "Gentle Serum", core.CategorySerum, 95),
	}
}

func openMemory(t *testing.T, cat remote.Catalog, opts ...config.Option) *Shelf {
	t.Helper()
	cfg := config.NewConfig(append([]config.Option{
		config.WithMemoryStorage(),
		config.WithBootstrapRetry(1, 0),
		config.WithMinRefreshInterval(0),
	}, opts...)...)
	shelf, err := Open(cfg, WithRemote(cat))
	require.NoError(t, err)
	t.Cleanup(func() { shelf.Close() })
	return shelf
}

func ids(records []*core.ItemRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestOpen(t *testing.T) {
	t.Run("requires a remote", func(t *testing.T) {
		_, err := Open(config.NewConfig(config.WithMemoryStorage()))
		assert.ErrorIs(t, err, ErrRemoteRequired)
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		_, err := Open(config.NewConfig(config.WithStorage("tape", "x")), WithRemote(mock.NewMockCatalog()))
		assert.Error(t, err)
	})

	t.Run("builds an http client from the config", func(t *testing.T) {
		shelf, err := Open(config.NewConfig(
			config.WithMemoryStorage(),
			config.WithRemoteURL("http://127.0.0.1:1"),
		))
		require.NoError(t, err)
		assert.NoError(t, shelf.Close())
	})
}

func TestShelf_EndToEnd(t *testing.T) {
	cat := mock.NewMockCatalog(sampleCatalog()...)
	shelf := openMemory(t, cat)
	ctx := context.Background()

	assert.False(t, shelf.Ready())
	assert.Nil(t, shelf.GetCacheMetadata(ctx))
	assert.Empty(t, shelf.Search("gentle", 10), "queries work before sync")

	require.NoError(t, shelf.InitializeCache(ctx))
	assert.True(t, shelf.Ready())
	assert.Equal(t, syncer.StateReady, shelf.State())

	meta := shelf.GetCacheMetadata(ctx)
	require.NotNil(t, meta)
	assert.Equal(t, 3, meta.TotalCount)

	assert.Equal(t, []string{"C", "A"}, ids(shelf.Search("gentle", 10)))
	assert.Equal(t, []string{"C", "B"}, ids(shelf.Filter(query.Criteria{Category: core.CategorySerum})))
	assert.ElementsMatch(t, []string{"A", "B", "C"}, shelf.Trending(0, nil))
	assert.Equal(t, []string{"C", "A", "B"}, ids(shelf.Recommend(&core.UserProfile{}, nil, 0)))

	weights, err := core.NewConcernVector(map[core.Concern]float64{core.ConcernAcne: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, shelf.RecommendBySimilarity(&weights, &core.UserProfile{}, nil, 0))

	updated, err := shelf.CheckAndUpdateProducts(ctx)
	require.NoError(t, err)
	assert.False(t, updated)

	d := product("D", "Pure", "Gentle Toner", core.CategoryToner, 80)
	d.CreatedAt = core.TimestampOf(base.Add(time.Hour))
	d.UpdatedAt = d.CreatedAt
	cat.Put(d)
	updated, err = shelf.OnBecameActive(ctx)
	require.NoError(t, err)
	assert.True(t, updated)
	got, ok := shelf.Get("D")
	require.True(t, ok)
	assert.Equal(t, "Gentle Toner", got.Name)

	n, err := shelf.DownloadAllProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestShelf_ResultsAreCopies(t *testing.T) {
	shelf := openMemory(t, mock.NewMockCatalog(sampleCatalog()...))
	require.NoError(t, shelf.InitializeCache(context.Background()))

	hits := shelf.Search("gentle", 1)
	require.Len(t, hits, 1)
	hits[0].Name = "Tampered"

	records := shelf.Records()
	records["A"].Brand = "Tampered"
	delete(records, "B")

	got, ok := shelf.Get("C")
	require.True(t, ok)
	assert.Equal(t, "Gentle Serum", got.Name)
	got, _ = shelf.Get("A")
	assert.Equal(t, "Glow", got.Brand)
	assert.Len(t, shelf.Records(), 3)
}

func TestShelf_PersistsAcrossRestarts(t *testing.T) {
	for _, backend := range []string{config.BackendBadger, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "catalog")
			cfg := func() *config.Config {
				return config.NewConfig(config.WithStorage(backend, path), config.WithBootstrapRetry(1, 0))
			}
			ctx := context.Background()

			first := mock.NewMockCatalog(sampleCatalog()...)
			shelf, err := Open(cfg(), WithRemote(first))
			require.NoError(t, err)
			require.NoError(t, shelf.InitializeCache(ctx))
			require.NoError(t, shelf.Close())
			assert.NoError(t, shelf.Close(), "close is idempotent")

			_, err = shelf.CheckAndUpdateProducts(ctx)
			assert.ErrorIs(t, err, ErrClosed)

			offline := mock.NewMockCatalog()
			offline.FetchAllFunc = func(ctx context.Context) ([]*core.ItemRecord, error) {
				return nil, remote.ErrUnavailable
			}
			reopened, err := Open(cfg(), WithRemote(offline))
			require.NoError(t, err)
			defer reopened.Close()

			require.NoError(t, reopened.InitializeCache(ctx))
			assert.Zero(t, offline.FetchAllCalls())
			assert.Len(t, reopened.Records(), 3)
			assert.Equal(t, 3, reopened.GetCacheMetadata(ctx).TotalCount)
		})
	}
}

func TestShelf_InitializeFailsWhenOffline(t *testing.T) {
	cat := mock.NewMockCatalog()
	cat.FetchAllFunc = func(ctx context.Context) ([]*core.ItemRecord, error) {
		return nil, remote.ErrUnavailable
	}
	shelf := openMemory(t, cat)

	err := shelf.InitializeCache(context.Background())
	assert.ErrorIs(t, err, syncer.ErrInitFailed)
	assert.False(t, shelf.Ready())
	assert.Empty(t, shelf.Search("", 0))
}

func TestShelf_HandlerServesMirror(t *testing.T) {
	upstream := openMemory(t, mock.NewMockCatalog(sampleCatalog()...))
	require.NoError(t, upstream.InitializeCache(context.Background()))

	srv := httptest.NewServer(upstream.Handler())
	defer srv.Close()

	cfg := config.NewConfig(
		config.WithMemoryStorage(),
		config.WithRemoteURL(srv.URL),
		config.WithMinRefreshInterval(0),
	)
	downstream, err := Open(cfg)
	require.NoError(t, err)
	defer downstream.Close()

	ctx := context.Background()
	require.NoError(t, downstream.InitializeCache(ctx))
	assert.Len(t, downstream.Records(), 3)

	updated, err := downstream.CheckAndUpdateProducts(ctx)
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestShelf_LargeBootstrap(t *testing.T) {
	records := make([]*core.ItemRecord, 500)
	for i := range records {
		records[i] = product(fmt.Sprintf("p%03d", i), "Brand", "Product", core.CategorySerum, 60)
	}
	shelf := openMemory(t, mock.NewMockCatalog(records...))
	require.NoError(t, shelf.InitializeCache(context.Background()))
	assert.Equal(t, 500, shelf.GetCacheMetadata(context.Background()).TotalCount)
}
