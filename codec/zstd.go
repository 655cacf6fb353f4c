package codec

import (
	"fmt"

	kzstd "github.com/klauspost/compress/zstd"

	"github.com/ngff-go/zarrgo/zarrerr"
)

// Zstd is a standard zstd frame, clamped to the valid level range
// [1,22] per spec §4.2. This is the same klauspost/compress/zstd
// package the teacher's zarr/dataset.go already depends on.
type Zstd struct {
	level kzstd.EncoderLevel
}

// NewZstd builds a Zstd codec at level, clamped to [1,22].
func NewZstd(level int) (*Zstd, error) {
	if level < 1 {
		level = 1
	}
	if level > 22 {
		level = 22
	}
	return &Zstd{level: kzstd.EncoderLevelFromZstd(level)}, nil
}

// Encode implements Codec.
func (z *Zstd) Encode(data []byte) ([]byte, error) {
	enc, err := kzstd.NewWriter(nil, kzstd.WithEncoderLevel(z.level))
	if err != nil {
		return nil, fmt.Errorf("%w: zstd encoder: %v", zarrerr.ErrUnsupported, err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

// Decode implements Codec.
func (z *Zstd) Decode(data []byte) ([]byte, error) {
	dec, err := kzstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd decoder: %v", zarrerr.ErrUnsupported, err)
	}
	defer dec.Close()
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd decode: %v", zarrerr.ErrChunkCorrupt, err)
	}
	return out, nil
}
