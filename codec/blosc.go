package codec

import (
	"fmt"

	"github.com/ngff-go/zarrgo/codec/blosc"
	"github.com/ngff-go/zarrgo/zarrerr"
)

// Blosc wraps codec/blosc's frame encode/decode as a Codec primitive.
type Blosc struct {
	opts blosc.Options
}

var bloscCnameIDs = map[string]blosc.InnerCodec{
	"lz4":   blosc.InnerLZ4,
	"lz4hc": blosc.InnerLZ4,
	"zlib":  blosc.InnerZlib,
	"zstd":  blosc.InnerZstd,
}

// NewBlosc builds a Blosc codec from a Descriptor as read from either
// metadata layout's `blosc` codec entry (spec §6.2).
func NewBlosc(d Descriptor) (*Blosc, error) {
	id, ok := bloscCnameIDs[d.BloscCname]
	if !ok {
		return nil, fmt.Errorf("%w: blosc cname %q", zarrerr.ErrUnsupported, d.BloscCname)
	}

	var shuffle bool
	switch d.BloscShuffle {
	case "noshuffle", "0":
		shuffle = false
	case "byteshuffle", "1":
		shuffle = true
	default:
		return nil, fmt.Errorf("%w: blosc shuffle %q", zarrerr.ErrUnsupported, d.BloscShuffle)
	}

	return &Blosc{opts: blosc.Options{
		TypeSize:  d.BloscTypeSize,
		Shuffle:   shuffle,
		Cname:     id,
		Clevel:    d.BloscClevel,
		BlockSize: d.BloscBlockSize,
	}}, nil
}

// Encode implements Codec.
func (b *Blosc) Encode(data []byte) ([]byte, error) {
	return blosc.Encode(data, b.opts)
}

// Decode implements Codec.
func (b *Blosc) Decode(data []byte) ([]byte, error) {
	return blosc.Decode(data)
}
