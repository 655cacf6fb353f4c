// Package codec implements the codec primitives of spec.md §4.2 and the
// ordered codec pipeline of §4.3. Descriptors name the closed set of
// codec kinds — boundary, gzip, zstd, block-shuffled (blosc) — through
// the Kind enum; Build turns each descriptor into a live value, and the
// pipeline calls every codec through the Codec interface.
package codec

import "github.com/ngff-go/zarrgo/zarrerr"

// Codec is the symmetric encode/decode contract every codec primitive
// exposes over byte buffers.
type Codec interface {
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

// ElementAware is implemented only by the boundary codec: it needs the
// element size to reverse byte groups for endian swapping. The pipeline
// type-switches on this interface to supply it, per §4.3.
type ElementAware interface {
	Codec
	WithElementSize(elementSize int) Codec
}

// Kind distinguishes the closed set of codec primitives a Descriptor
// may name.
type Kind int

const (
	KindBoundary Kind = iota
	KindGzip
	KindZstd
	KindBlosc
)

// Descriptor is codec metadata as read from either metadata layout,
// before it is turned into a live Codec by Build.
type Descriptor struct {
	Kind Kind

	// Boundary
	Endian string // "little" | "big"

	// Gzip / Zstd
	Level int

	// Blosc
	BloscCname     string // "lz4" | "lz4hc" | "zstd" | "zlib"
	BloscClevel    int
	BloscShuffle   string // "noshuffle" | "byteshuffle"
	BloscTypeSize  int
	BloscBlockSize int
}

// Build instantiates the live Codec named by d.
func Build(d Descriptor) (Codec, error) {
	switch d.Kind {
	case KindBoundary:
		return NewBoundary(d.Endian)
	case KindGzip:
		return NewGzip(d.Level), nil
	case KindZstd:
		return NewZstd(d.Level)
	case KindBlosc:
		return NewBlosc(d)
	default:
		return nil, zarrerr.ErrUnsupported
	}
}
