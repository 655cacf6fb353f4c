package store_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"

	"github.com/ngff-go/zarrgo/store"
	"github.com/ngff-go/zarrgo/zarrerr"
)

func TestBlobStore_ReadWriteExists(t *testing.T) {
	tmpDir := t.TempDir()
	ctx := context.Background()

	s, err := store.NewBlobStore(ctx, "file:///"+filepath.ToSlash(tmpDir))
	require.NoError(t, err)
	defer s.Close()

	ok, err := s.Exists(ctx, "missing.json")
	require.NoError(t, err)
	require.False(t, ok)

	_, err = s.Read(ctx, "missing.json")
	require.ErrorIs(t, err, zarrerr.ErrNotFound)

	require.NoError(t, s.Write(ctx, "a/b.json", []byte(`{"x":1}`)))

	ok, err = s.Exists(ctx, "a/b.json")
	require.NoError(t, err)
	require.True(t, ok)

	data, err := s.Read(ctx, "a/b.json")
	require.NoError(t, err)
	require.Equal(t, `{"x":1}`, string(data))
}

func TestBlobStore_MetadataCache(t *testing.T) {
	tmpDir := t.TempDir()
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".zarray"), []byte(`{"v":1}`), 0644))

	s, err := store.NewBlobStore(ctx, "file:///"+filepath.ToSlash(tmpDir))
	require.NoError(t, err)
	defer s.Close()

	first, err := s.Read(ctx, ".zarray")
	require.NoError(t, err)

	// Mutate on disk directly; a cached read should still return the
	// originally observed bytes.
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".zarray"), []byte(`{"v":2}`), 0644))

	second, err := s.Read(ctx, ".zarray")
	require.NoError(t, err)
	require.Equal(t, string(first), string(second))
}

func TestBlobStore_ReadOnly(t *testing.T) {
	ctx := context.Background()
	s, err := store.NewBlobStore(ctx, "mem://", store.WithReadOnly())
	require.NoError(t, err)
	defer s.Close()

	err = s.Write(ctx, "x", []byte("y"))
	require.True(t, errors.Is(err, zarrerr.ErrNotSupported))

	err = s.Delete(ctx, "x")
	require.True(t, errors.Is(err, zarrerr.ErrNotSupported))
}

func TestBlobStore_DeleteAbsent(t *testing.T) {
	ctx := context.Background()
	s, err := store.NewBlobStore(ctx, "mem://")
	require.NoError(t, err)
	defer s.Close()

	err = s.Delete(ctx, "nope")
	require.ErrorIs(t, err, zarrerr.ErrNotFound)
}
