package badger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/poiesic/skinshelf/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	tmpDir := t.TempDir()
	backend, err := OpenBackend(tmpDir, false)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)

	require.NoError(t, backend.Close())
	assert.True(t, backend.IsClosed())

	_, err = backend.GetBlob(context.Background(), storage.KeyRecords)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestBlobLifecycle(t *testing.T) {
	backend, err := NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()
	ctx := context.Background()

	_, err = backend.GetBlob(ctx, storage.KeyRecords)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, backend.SetBlob(ctx, storage.KeyRecords, []byte(`{}`)))
	got, err := backend.GetBlob(ctx, storage.KeyRecords)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{}`), got)

	require.NoError(t, backend.SetBlob(ctx, storage.KeyRecords, []byte(`{"a":{}}`)))
	got, err = backend.GetBlob(ctx, storage.KeyRecords)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":{}}`), got)

	require.NoError(t, backend.RemoveBlob(ctx, storage.KeyRecords, "never-written"))
	_, err = backend.GetBlob(ctx, storage.KeyRecords)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSetBlobs_Atomic(t *testing.T) {
	backend, err := NewMemoryBackend()
	require.NoError(t, err)
	defer backend.Close()
	ctx := context.Background()

	err = backend.SetBlobs(ctx, map[string][]byte{
		storage.KeyRecords:  []byte("r"),
		storage.KeyMetadata: []byte("m"),
		storage.KeyLastSync: []byte("s"),
	})
	require.NoError(t, err)

	for key, want := range map[string]string{storage.KeyRecords: "r", storage.KeyMetadata: "m", storage.KeyLastSync: "s"} {
		got, err := backend.GetBlob(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, want, string(got))
	}

	err = backend.SetBlobs(ctx, map[string][]byte{"": []byte("x")})
	assert.ErrorIs(t, err, storage.ErrEmptyKey)
}

func TestBlobsSurviveReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	ctx := context.Background()

	backend, err := OpenBackend(dir, false)
	require.NoError(t, err)
	require.NoError(t, backend.SetBlob(ctx, storage.KeyLastSync, []byte("2024-01-01T00:00:00Z")))
	require.NoError(t, backend.Close())

	backend, err = OpenBackend(dir, false)
	require.NoError(t, err)
	defer backend.Close()

	got, err := backend.GetBlob(ctx, storage.KeyLastSync)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T00:00:00Z", string(got))
}
