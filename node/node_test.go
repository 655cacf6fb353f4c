package node_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	_ "gocloud.dev/blob/memblob"

	"github.com/ngff-go/zarrgo/group"
	"github.com/ngff-go/zarrgo/node"
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

func writeArray(t *testing.T, st store.Store, path string, shape, chunkShape string) {
	t.Helper()
	ctx := context.Background()
	doc := `{
		"zarr_format": 3,
		"node_type": "array",
		"shape": ` + shape + `,
		"data_type": "uint8",
		"chunk_grid": {"name": "regular", "configuration": {"chunk_shape": ` + chunkShape + `}},
		"chunk_key_encoding": {"name": "default", "configuration": {"separator": "/"}},
		"codecs": [{"name": "bytes", "configuration": {"endian": "little"}}],
		"fill_value": 0
	}`
	key := "zarr.json"
	if path != "" {
		key = path + "/zarr.json"
	}
	require.NoError(t, st.Write(ctx, key, []byte(doc)))
}

func TestOpen_MultiscaleImage(t *testing.T) {
	ctx := context.Background()
	st := newMemStore(t)

	require.NoError(t, st.Write(ctx, "zarr.json", []byte(`{
		"zarr_format": 3,
		"node_type": "group",
		"attributes": {
			"multiscales": [{
				"axes": [{"name":"y","type":"space"},{"name":"x","type":"space"}],
				"datasets": [
					{"path": "0", "coordinateTransformations": [{"type":"scale","scale":[1,1]}]},
					{"path": "1", "coordinateTransformations": [{"type":"scale","scale":[2,2]}]}
				],
				"coordinateTransformations": [{"type":"translation","translation":[0,0]}]
			}]
		}
	}`)))
	writeArray(t, st, "0", "[8,8]", "[4,4]")
	writeArray(t, st, "1", "[4,4]", "[4,4]")

	nav := group.New(st)
	n, err := node.Open(ctx, nav, "")
	require.NoError(t, err)
	require.Equal(t, node.KindMultiscaleImage, n.Kind)
	require.Len(t, n.Multiscale.Levels, 2)
	require.Equal(t, "y", n.Multiscale.Axes[0].Name)

	lvl, err := n.Multiscale.OpenLevel(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, []int64{8, 8}, lvl.Array.Shape())
}

func TestOpen_BareArrayWrapsAsMultiscale(t *testing.T) {
	ctx := context.Background()
	st := newMemStore(t)
	writeArray(t, st, "", "[4,4]", "[2,2]")

	nav := group.New(st)
	n, err := node.Open(ctx, nav, "")
	require.NoError(t, err)
	require.Equal(t, node.KindMultiscaleImage, n.Kind)
	require.Equal(t, "y", n.Multiscale.Axes[0].Name)
	require.Equal(t, "x", n.Multiscale.Axes[1].Name)
}

func TestOpen_Plate(t *testing.T) {
	ctx := context.Background()
	st := newMemStore(t)

	require.NoError(t, st.Write(ctx, "zarr.json", []byte(`{
		"zarr_format": 3,
		"node_type": "group",
		"attributes": {
			"plate": {
				"columns": [{"name":"1"}],
				"rows": [{"name":"A"}],
				"wells": [{"path":"A/1","rowIndex":0,"columnIndex":0}],
				"field_count": 1
			}
		}
	}`)))
	require.NoError(t, st.Write(ctx, "A/1/zarr.json", []byte(`{
		"zarr_format": 3,
		"node_type": "group",
		"attributes": {
			"well": {"images": [{"path":"0","acquisition":1}]}
		}
	}`)))
	require.NoError(t, st.Write(ctx, "A/1/0/zarr.json", []byte(`{
		"zarr_format": 3,
		"node_type": "group",
		"attributes": {
			"multiscales": [{
				"datasets": [{"path":"0"}]
			}]
		}
	}`)))
	writeArray(t, st, "A/1/0/0", "[4,4]", "[2,2]")

	nav := group.New(st)
	n, err := node.Open(ctx, nav, "")
	require.NoError(t, err)
	require.Equal(t, node.KindPlate, n.Kind)
	require.Len(t, n.Plate.Wells, 1)

	well, err := n.Plate.OpenWell(ctx, "A/1")
	require.NoError(t, err)
	require.Len(t, well.Images, 1)

	field, err := well.OpenField(ctx, 0)
	require.NoError(t, err)
	require.Len(t, field.Levels, 1)
}

func TestOpen_LabelGroup(t *testing.T) {
	ctx := context.Background()
	st := newMemStore(t)

	require.NoError(t, st.Write(ctx, "labels/zarr.json", []byte(`{
		"zarr_format": 3,
		"node_type": "group",
		"attributes": {"labels": ["cells"]}
	}`)))
	require.NoError(t, st.Write(ctx, "labels/cells/zarr.json", []byte(`{
		"zarr_format": 3,
		"node_type": "group",
		"attributes": {"multiscales": [{"datasets": [{"path":"0"}]}]}
	}`)))
	writeArray(t, st, "labels/cells/0", "[4,4]", "[2,2]")

	nav := group.New(st)
	n, err := node.Open(ctx, nav, "labels")
	require.NoError(t, err)
	require.Equal(t, node.KindLabelGroup, n.Kind)

	ms, err := n.Labels.OpenLabel(ctx, "cells")
	require.NoError(t, err)
	require.Len(t, ms.Levels, 1)

	_, err = n.Labels.OpenLabel(ctx, "nope")
	require.Error(t, err)
}

func TestOpen_UnknownOverlay(t *testing.T) {
	ctx := context.Background()
	st := newMemStore(t)
	require.NoError(t, st.Write(ctx, "zarr.json", []byte(`{
		"zarr_format": 3,
		"node_type": "group",
		"attributes": {"something_else": 1}
	}`)))

	nav := group.New(st)
	n, err := node.Open(ctx, nav, "")
	require.NoError(t, err)
	require.Equal(t, node.KindUnknown, n.Kind)
}
