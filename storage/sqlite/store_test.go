package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/poiesic/skinshelf/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBlobLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.GetBlob(ctx, storage.KeyRecords)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.SetBlob(ctx, storage.KeyRecords, []byte(`{}`)))
	got, err := s.GetBlob(ctx, storage.KeyRecords)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(got))

	require.NoError(t, s.SetBlob(ctx, storage.KeyRecords, []byte(`{"a":{}}`)))
	got, err = s.GetBlob(ctx, storage.KeyRecords)
	require.NoError(t, err)
	assert.Equal(t, `{"a":{}}`, string(got))

	require.NoError(t, s.RemoveBlob(ctx, storage.AllKeys()...))
	_, err = s.GetBlob(ctx, storage.KeyRecords)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSetBlobs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetBlobs(ctx, map[string][]byte{
		storage.KeyRecords:  []byte("r"),
		storage.KeyMetadata: []byte("m"),
	}))

	got, err := s.GetBlob(ctx, storage.KeyMetadata)
	require.NoError(t, err)
	assert.Equal(t, "m", string(got))

	assert.ErrorIs(t, s.SetBlobs(ctx, map[string][]byte{"": nil}), storage.ErrEmptyKey)
}

func TestClosedStore(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err = s.GetBlob(context.Background(), storage.KeyRecords)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SetBlob(ctx, storage.KeyLastSync, []byte("x")))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.GetBlob(ctx, storage.KeyLastSync)
	require.NoError(t, err)
	assert.Equal(t, "x", string(got))
}
