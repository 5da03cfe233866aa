package local

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spisovka/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "blobs.db"), "http://localhost:8080/")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_UploadGetDelete(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	url, err := store.Upload(ctx, "u1/r1/documents/1_zmluva.pdf", []byte("%PDF"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/u1/r1/documents/1_zmluva.pdf", url)

	data, contentType, err := store.Get("u1/r1/documents/1_zmluva.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), data)
	assert.Equal(t, "application/pdf", contentType)

	require.NoError(t, store.Delete(ctx, "u1/r1/documents/1_zmluva.pdf"))
	_, _, err = store.Get("u1/r1/documents/1_zmluva.pdf")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.NoError(t, store.Delete(ctx, "u1/r1/documents/1_zmluva.pdf"), "deleting twice is fine")
}

func TestStore_UploadRejectsEmptyPath(t *testing.T) {
	_, err := openTestStore(t).Upload(context.Background(), "", []byte("x"), "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := openTestStore(t).Upload(ctx, "a", []byte("x"), "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blobs.db")
	store, err := Open(path, "http://x")
	require.NoError(t, err)
	_, err = store.Upload(context.Background(), "k", []byte("v"), "text/plain")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = Open(path, "http://x")
	require.NoError(t, err)
	defer store.Close()
	data, _, err := store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), data)
}
