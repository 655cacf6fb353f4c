package blosc

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/ngff-go/zarrgo/zarrerr"
)

// innerCompress compresses a single stream with the frame's inner
// codec. The caller is responsible for the raw/zero-stream fallback;
// this always attempts real compression.
func innerCompress(id InnerCodec, data []byte, level int) ([]byte, error) {
	switch id {
	case InnerLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		var c lz4.Compressor
		n, err := c.CompressBlock(data, buf)
		if err != nil {
			return nil, fmt.Errorf("%w: lz4 compress: %v", zarrerr.ErrUnsupported, err)
		}
		if n == 0 {
			// lz4 reports n==0 when the block was incompressible into
			// the provided buffer; treat as maximally expanded so the
			// caller's raw-stream fallback kicks in.
			return data, nil
		}
		return buf[:n], nil
	case InnerZlib:
		var out bytes.Buffer
		w, err := flate.NewWriter(&out, mapDeflateLevel(level))
		if err != nil {
			return nil, fmt.Errorf("%w: deflate: %v", zarrerr.ErrUnsupported, err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("%w: deflate compress: %v", zarrerr.ErrChunkCorrupt, err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("%w: deflate compress: %v", zarrerr.ErrChunkCorrupt, err)
		}
		return out.Bytes(), nil
	case InnerZstd:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
		if err != nil {
			return nil, fmt.Errorf("%w: zstd encoder: %v", zarrerr.ErrUnsupported, err)
		}
		defer enc.Close()
		return enc.EncodeAll(data, nil), nil
	default:
		return nil, fmt.Errorf("%w: blosc inner codec id %d", zarrerr.ErrUnsupported, id)
	}
}

// innerDecompress decompresses a single stream of known uncompressed
// length expectedLen.
func innerDecompress(id InnerCodec, data []byte, expectedLen int) ([]byte, error) {
	switch id {
	case InnerLZ4:
		out := make([]byte, expectedLen)
		n, err := lz4.UncompressBlock(data, out)
		if err != nil {
			return nil, fmt.Errorf("%w: lz4 decompress: %v", zarrerr.ErrChunkCorrupt, err)
		}
		return out[:n], nil
	case InnerZlib:
		r := flate.NewReader(bytes.NewReader(data))
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w: deflate decompress: %v", zarrerr.ErrChunkCorrupt, err)
		}
		return out, nil
	case InnerZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd decoder: %v", zarrerr.ErrUnsupported, err)
		}
		defer dec.Close()
		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd decompress: %v", zarrerr.ErrChunkCorrupt, err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: blosc inner codec id %d", zarrerr.ErrUnsupported, id)
	}
}

// mapDeflateLevel maps a blosc-style 1..9 level onto flate's
// -2..9 range, defaulting to flate's DefaultCompression.
func mapDeflateLevel(level int) int {
	if level <= 0 {
		return flate.DefaultCompression
	}
	if level > 9 {
		return 9
	}
	return level
}
