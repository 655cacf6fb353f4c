package codec

import (
	"fmt"
	"unsafe"

	"github.com/ngff-go/zarrgo/zarrerr"
)

// hostLittleEndian is the host's native byte order, detected once at
// package init so the boundary codec knows when a swap is actually
// required. This relies on no architecture supported by Go being
// mixed-endian.
var hostLittleEndian = func() bool {
	var x uint16 = 1
	b := (*[2]byte)(unsafe.Pointer(&x))
	return b[0] == 1
}()

// Boundary is the array-to-bytes boundary codec: it carries the
// declared endianness and, when it differs from the host's, returns a
// copy of the buffer with each element-sized byte group reversed. It is
// always the first entry
// in a codec chain and is always adjacent to the raw array bytes.
type Boundary struct {
	littleEndian bool
	elementSize  int
}

// NewBoundary builds a Boundary codec for the declared endianness,
// "little" or "big".
func NewBoundary(endian string) (*Boundary, error) {
	switch endian {
	case "little":
		return &Boundary{littleEndian: true}, nil
	case "big":
		return &Boundary{littleEndian: false}, nil
	default:
		return nil, fmt.Errorf("%w: boundary codec endian %q", zarrerr.ErrUnsupported, endian)
	}
}

// WithElementSize returns a copy of the codec configured for the given
// element size, as required by ElementAware.
func (b *Boundary) WithElementSize(elementSize int) Codec {
	return &Boundary{littleEndian: b.littleEndian, elementSize: elementSize}
}

func (b *Boundary) needsSwap() bool {
	return b.littleEndian != hostLittleEndian
}

func (b *Boundary) swap(data []byte) ([]byte, error) {
	if !b.needsSwap() || b.elementSize <= 1 {
		return data, nil
	}
	if len(data)%b.elementSize != 0 {
		return nil, fmt.Errorf("%w: buffer length %d is not a multiple of element size %d", zarrerr.ErrChunkCorrupt, len(data), b.elementSize)
	}
	out := make([]byte, len(data))
	copy(out, data)
	for off := 0; off < len(out); off += b.elementSize {
		group := out[off : off+b.elementSize]
		for i, j := 0, len(group)-1; i < j; i, j = i+1, j-1 {
			group[i], group[j] = group[j], group[i]
		}
	}
	return out, nil
}

// Encode reverses each element-size byte group if the declared
// endianness differs from the host's.
func (b *Boundary) Encode(data []byte) ([]byte, error) { return b.swap(data) }

// Decode is the same transform as Encode: byte-swapping is its own
// inverse.
func (b *Boundary) Decode(data []byte) ([]byte, error) { return b.swap(data) }
