package group_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	_ "gocloud.dev/blob/memblob"

	"github.com/ngff-go/zarrgo/group"
	"github.com/ngff-go/zarrgo/store"
)

func newMemStore(t *testing.T) store.Store {
	t.Helper()
	ctx := context.Background()
	s, err := store.NewBlobStore(ctx, "mem://")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNavigator_OpensV3Group(t *testing.T) {
	ctx := context.Background()
	st := newMemStore(t)
	require.NoError(t, st.Write(ctx, "zarr.json", []byte(`{"zarr_format":3,"node_type":"group"}`)))

	nav := group.New(st)
	node, err := nav.Open(ctx, "")
	require.NoError(t, err)
	require.Equal(t, group.NodeGroup, node.Kind)
	require.NotNil(t, node.Group)
}

func TestNavigator_OpensV3Array(t *testing.T) {
	ctx := context.Background()
	st := newMemStore(t)
	require.NoError(t, st.Write(ctx, "0/zarr.json", []byte(`{
		"zarr_format": 3,
		"node_type": "array",
		"shape": [4, 4],
		"data_type": "uint8",
		"chunk_grid": {"name": "regular", "configuration": {"chunk_shape": [2, 2]}},
		"chunk_key_encoding": {"name": "default", "configuration": {"separator": "/"}},
		"codecs": [{"name": "bytes", "configuration": {"endian": "little"}}],
		"fill_value": 0
	}`)))

	nav := group.New(st)
	node, err := nav.Open(ctx, "0")
	require.NoError(t, err)
	require.Equal(t, group.NodeArray, node.Kind)
	require.NotNil(t, node.Array)
	require.Equal(t, []int64{4, 4}, node.Array.Shape())
}

func TestNavigator_OpensV2Array_WithDeclaredSeparator(t *testing.T) {
	ctx := context.Background()
	st := newMemStore(t)
	require.NoError(t, st.Write(ctx, "arr/.zarray", []byte(`{
		"zarr_format": 2,
		"shape": [4],
		"chunks": [2],
		"dtype": "<u1",
		"compressor": null,
		"fill_value": 0,
		"order": "C",
		"dimension_separator": "/"
	}`)))

	nav := group.New(st)
	node, err := nav.Open(ctx, "arr")
	require.NoError(t, err)
	require.Equal(t, group.NodeArray, node.Kind)
}

// spec.md §8 scenario 6: .zarray omits dimension_separator; the
// navigator probes the store for the all-zero chunk key under '/' and
// '.' to decide which separator is actually in use.
func TestNavigator_ProbesSeparator_SlashPresent(t *testing.T) {
	ctx := context.Background()
	st := newMemStore(t)
	require.NoError(t, st.Write(ctx, "arr/.zarray", []byte(`{
		"zarr_format": 2,
		"shape": [4, 4, 4, 4, 4],
		"chunks": [2, 2, 2, 2, 2],
		"dtype": "<u1",
		"compressor": null,
		"fill_value": 0,
		"order": "C"
	}`)))
	// A full 2x2x2x2x2 uint8 chunk is 32 bytes; only its first element is set.
	chunk := make([]byte, 32)
	chunk[0] = 42
	require.NoError(t, st.Write(ctx, "arr/0/0/0/0/0", chunk))

	nav := group.New(st)
	node, err := nav.Open(ctx, "arr")
	require.NoError(t, err)

	out, err := node.Array.ReadRegion(ctx, []int64{0, 0, 0, 0, 0}, []int64{1, 1, 1, 1, 1})
	require.NoError(t, err)
	require.Equal(t, []byte{42}, out)
}

func TestNavigator_ProbesSeparator_DotPresent(t *testing.T) {
	ctx := context.Background()
	st := newMemStore(t)
	require.NoError(t, st.Write(ctx, "arr/.zarray", []byte(`{
		"zarr_format": 2,
		"shape": [4, 4, 4, 4, 4],
		"chunks": [2, 2, 2, 2, 2],
		"dtype": "<u1",
		"compressor": null,
		"fill_value": 0,
		"order": "C"
	}`)))
	chunk := make([]byte, 32)
	chunk[0] = 7
	require.NoError(t, st.Write(ctx, "arr/0.0.0.0.0", chunk))

	nav := group.New(st)
	node, err := nav.Open(ctx, "arr")
	require.NoError(t, err)

	out, err := node.Array.ReadRegion(ctx, []int64{0, 0, 0, 0, 0}, []int64{1, 1, 1, 1, 1})
	require.NoError(t, err)
	require.Equal(t, []byte{7}, out)
}

func TestNavigator_OpensV2Group(t *testing.T) {
	ctx := context.Background()
	st := newMemStore(t)
	require.NoError(t, st.Write(ctx, ".zgroup", []byte(`{"zarr_format":2}`)))
	require.NoError(t, st.Write(ctx, ".zattrs", []byte(`{"multiscales":[]}`)))

	nav := group.New(st)
	node, err := nav.Open(ctx, "")
	require.NoError(t, err)
	require.Equal(t, group.NodeGroup, node.Kind)
	require.NotNil(t, node.Group.RawAttributes)
}

func TestNavigator_NotFound(t *testing.T) {
	ctx := context.Background()
	st := newMemStore(t)
	nav := group.New(st)
	_, err := nav.Open(ctx, "nope")
	require.Error(t, err)
}
