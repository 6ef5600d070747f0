package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	url, err := store.Put(ctx, "progress/abc/home.png", []byte("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/files/progress/abc/home.png", url)

	data, contentType, err := store.Get(ctx, "progress/abc/home.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
	assert.Equal(t, "image/png", contentType)
}

func TestLocalStoreGetMissing(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, _, err = store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStoreDelete(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Put(ctx, "a/b", []byte("x"), "text/plain")
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, "a/b"))

	_, _, err = store.Get(ctx, "a/b")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing key is not an error
	assert.NoError(t, store.Delete(ctx, "a/b"))
}

func TestNewLocalStoreRequiresRoot(t *testing.T) {
	_, err := NewLocalStore("")
	assert.Error(t, err)
}
