package zarrmeta_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ngff-go/zarrgo/codec"
	"github.com/ngff-go/zarrgo/dtype"
	"github.com/ngff-go/zarrgo/zarrmeta"
)

func TestParseV2Array(t *testing.T) {
	doc := []byte(`{
		"zarr_format": 2,
		"shape": [128, 128],
		"chunks": [64, 64],
		"dtype": "<f4",
		"compressor": null,
		"fill_value": 0.0,
		"order": "C"
	}`)

	meta, err := zarrmeta.ParseV2Array(doc, nil, "")
	require.NoError(t, err)
	require.Equal(t, []int64{128, 128}, meta.Shape)
	require.Equal(t, []int{64, 64}, meta.ChunkShape)
	require.Equal(t, dtype.Float32, meta.Kind)
	require.Equal(t, zarrmeta.V2, meta.LayoutVersion)
	require.Len(t, meta.CodecChain, 1)
	require.Equal(t, codec.KindBoundary, meta.CodecChain[0].Kind)
	require.False(t, meta.SeparatorResolved())
}

func TestParseV2Array_WithBloscCompressor(t *testing.T) {
	doc := []byte(`{
		"zarr_format": 2,
		"shape": [10],
		"chunks": [5],
		"dtype": "<u2",
		"compressor": {"id": "blosc", "cname": "zstd", "clevel": 5, "shuffle": 1, "typesize": 2, "blocksize": 0},
		"fill_value": 0,
		"order": "C",
		"dimension_separator": "/"
	}`)

	meta, err := zarrmeta.ParseV2Array(doc, nil, "")
	require.NoError(t, err)
	require.Len(t, meta.CodecChain, 2)
	require.Equal(t, codec.KindBlosc, meta.CodecChain[1].Kind)
	require.Equal(t, "byteshuffle", meta.CodecChain[1].BloscShuffle)
	require.True(t, meta.SeparatorResolved())
	require.Equal(t, byte('/'), meta.ChunkKeySeparator)
}

func TestParseV2Array_RejectsNonCOrder(t *testing.T) {
	doc := []byte(`{"zarr_format":2,"shape":[2],"chunks":[2],"dtype":"<i4","order":"F"}`)
	_, err := zarrmeta.ParseV2Array(doc, nil, "")
	require.Error(t, err)
}

func TestParseV3Array(t *testing.T) {
	doc := []byte(`{
		"zarr_format": 3,
		"node_type": "array",
		"shape": [4, 4],
		"data_type": "uint8",
		"chunk_grid": {"name": "regular", "configuration": {"chunk_shape": [2, 2]}},
		"chunk_key_encoding": {"name": "default", "configuration": {"separator": "/"}},
		"codecs": [{"name": "bytes", "configuration": {"endian": "little"}}],
		"fill_value": 0
	}`)

	meta, err := zarrmeta.ParseV3Array(doc, "c")
	require.NoError(t, err)
	require.Equal(t, []int64{4, 4}, meta.Shape)
	require.Equal(t, dtype.Uint8, meta.Kind)
	require.Equal(t, byte('/'), meta.ChunkKeySeparator)
	require.Equal(t, zarrmeta.V3, meta.LayoutVersion)
}

func TestParseV3Array_WithBloscCodec(t *testing.T) {
	doc := []byte(`{
		"zarr_format": 3,
		"node_type": "array",
		"shape": [8],
		"data_type": "float64",
		"chunk_grid": {"name": "regular", "configuration": {"chunk_shape": [4]}},
		"chunk_key_encoding": {"name": "default", "configuration": {"separator": "/"}},
		"codecs": [
			{"name": "bytes", "configuration": {"endian": "big"}},
			{"name": "blosc", "configuration": {"cname": "lz4", "clevel": 5, "shuffle": "byteshuffle", "typesize": 8, "blocksize": 0}}
		]
	}`)

	meta, err := zarrmeta.ParseV3Array(doc, "")
	require.NoError(t, err)
	require.Len(t, meta.CodecChain, 2)
	require.Equal(t, "big", meta.CodecChain[0].Endian)
	require.Equal(t, "lz4", meta.CodecChain[1].BloscCname)
}

func TestParseV3Array_RejectsSharding(t *testing.T) {
	doc := []byte(`{
		"zarr_format": 3,
		"node_type": "array",
		"shape": [8],
		"data_type": "uint8",
		"chunk_grid": {"name": "regular", "configuration": {"chunk_shape": [4]}},
		"codecs": [
			{"name": "bytes", "configuration": {"endian": "little"}},
			{"name": "sharding_indexed", "configuration": {}}
		]
	}`)
	_, err := zarrmeta.ParseV3Array(doc, "")
	require.Error(t, err)
}

func TestNodeTypeOf(t *testing.T) {
	nt, err := zarrmeta.NodeTypeOf([]byte(`{"zarr_format":3,"node_type":"group"}`))
	require.NoError(t, err)
	require.Equal(t, "group", nt)
}
