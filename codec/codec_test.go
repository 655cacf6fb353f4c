package codec_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ngff-go/zarrgo/codec"
)

func TestGzipRoundTrip(t *testing.T) {
	for _, level := range []int{0, 1, 5, 7} {
		g := codec.NewGzip(level)
		data := []byte("the quick brown fox jumps over the lazy dog, repeated. the quick brown fox jumps over the lazy dog.")
		encoded, err := g.Encode(data)
		require.NoError(t, err)
		decoded, err := g.Decode(encoded)
		require.NoError(t, err)
		require.Equal(t, data, decoded)
	}
}

func TestZstdRoundTrip(t *testing.T) {
	z, err := codec.NewZstd(3)
	require.NoError(t, err)
	data := []byte("some data to compress with zstd, some data to compress with zstd")
	encoded, err := z.Encode(data)
	require.NoError(t, err)
	decoded, err := z.Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, data, decoded)
}

func TestBoundaryEndianSwap(t *testing.T) {
	// uint16 values 0x0102, 0x0304 as host-endian bytes (little-endian
	// test assumption matches every platform this pipeline targets).
	hostBytes := []byte{0x02, 0x01, 0x04, 0x03}

	big, err := codec.NewBoundary("big")
	require.NoError(t, err)
	bigSized := big.WithElementSize(2)

	onDisk, err := bigSized.Encode(hostBytes)
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, onDisk)

	back, err := bigSized.Decode(onDisk)
	require.NoError(t, err)
	require.Equal(t, hostBytes, back)
}

func TestBoundaryLittleEndianNoop(t *testing.T) {
	little, err := codec.NewBoundary("little")
	require.NoError(t, err)
	sized := little.WithElementSize(4)

	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	out, err := sized.Encode(data)
	require.NoError(t, err)
	require.Equal(t, data, out)
}

func TestPipelineDecodeEncodeRoundTrip(t *testing.T) {
	pipeline, err := codec.NewPipeline([]codec.Descriptor{
		{Kind: codec.KindBoundary, Endian: "little"},
		{Kind: codec.KindGzip, Level: 5},
	}, 4)
	require.NoError(t, err)

	data := make([]byte, 400)
	for i := range data {
		data[i] = byte(i % 7)
	}

	encoded, err := pipeline.Encode(data)
	require.NoError(t, err)
	decoded, err := pipeline.Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, data, decoded)
}

func TestPipelineWithBlosc(t *testing.T) {
	pipeline, err := codec.NewPipeline([]codec.Descriptor{
		{Kind: codec.KindBoundary, Endian: "little"},
		{
			Kind:           codec.KindBlosc,
			BloscCname:     "zstd",
			BloscClevel:    5,
			BloscShuffle:   "byteshuffle",
			BloscTypeSize:  4,
			BloscBlockSize: 128,
		},
	}, 4)
	require.NoError(t, err)

	data := make([]byte, 512)
	for i := range data {
		data[i] = byte(i * 3)
	}

	encoded, err := pipeline.Encode(data)
	require.NoError(t, err)
	decoded, err := pipeline.Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, data, decoded)
}
