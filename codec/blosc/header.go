// Package blosc implements the self-describing block-shuffled meta-codec
// of spec.md §4.2.1: a 16-byte frame header, a bstarts offset table, and
// per-block split streams that are independently shuffled and
// compressed. The on-disk layout is fixed and version-stable; this
// package reproduces it bit-exactly rather than delegating to a
// single-block library like other_examples' mrjoshuak/go-blosc, whose
// compressBackend always emits exactly one block with no bstarts table
// at all.
package blosc

import (
	"encoding/binary"
	"fmt"

	"github.com/ngff-go/zarrgo/zarrerr"
)

const (
	// HeaderSize is the fixed 16-byte frame header length.
	HeaderSize = 16

	versionMajor = 0x01
	versionMinor = 0x01
)

// Flag bits, per spec §4.2.1.
const (
	flagByteShuffle = 0x01
	flagMemcpy      = 0x02
	flagBitShuffle  = 0x04
	flagDoSplit     = 0x10
)

// InnerCodec identifies the compressor used for non-raw, non-zero
// streams. Only LZ4, Zlib, and Zstd are supported; BloscLZ and Snappy
// are named by the format but out of scope (spec.md §1 Non-goals).
type InnerCodec uint8

const (
	InnerBloscLZ InnerCodec = 0
	InnerLZ4     InnerCodec = 1
	InnerSnappy  InnerCodec = 2
	InnerZlib    InnerCodec = 3
	InnerZstd    InnerCodec = 4
)

func (c InnerCodec) supported() bool {
	return c == InnerLZ4 || c == InnerZlib || c == InnerZstd
}

// Header is the parsed 16-byte frame header.
type Header struct {
	TypeSize    int
	NBytes      uint32
	BlockSize   uint32
	CBytes      uint32
	ByteShuffle bool
	Memcpy      bool
	DoSplit     bool
	Inner       InnerCodec
}

// ParseHeader parses the frame header and rejects bit-shuffle frames,
// which this implementation does not support (spec.md §1 Non-goals).
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: blosc frame shorter than header", zarrerr.ErrChunkCorrupt)
	}
	if data[0] != versionMajor || data[1] != versionMinor {
		return Header{}, fmt.Errorf("%w: blosc frame version %d.%d", zarrerr.ErrUnsupported, data[0], data[1])
	}

	flags := data[2]
	if flags&flagBitShuffle != 0 {
		return Header{}, fmt.Errorf("%w: blosc bit-shuffle", zarrerr.ErrUnsupported)
	}

	inner := InnerCodec((flags >> 5) & 0x07)
	if !inner.supported() {
		return Header{}, fmt.Errorf("%w: blosc inner codec id %d", zarrerr.ErrUnsupported, inner)
	}

	h := Header{
		TypeSize:    int(data[3]),
		NBytes:      binary.LittleEndian.Uint32(data[4:8]),
		BlockSize:   binary.LittleEndian.Uint32(data[8:12]),
		CBytes:      binary.LittleEndian.Uint32(data[12:16]),
		ByteShuffle: flags&flagByteShuffle != 0,
		Memcpy:      flags&flagMemcpy != 0,
		DoSplit:     flags&flagDoSplit != 0,
		Inner:       inner,
	}
	return h, nil
}

// Bytes serializes the header.
func (h Header) Bytes() []byte {
	var flags byte
	if h.ByteShuffle {
		flags |= flagByteShuffle
	}
	if h.Memcpy {
		flags |= flagMemcpy
	}
	if h.DoSplit {
		flags |= flagDoSplit
	}
	flags |= byte(h.Inner) << 5

	typesize := h.TypeSize
	if typesize > 255 {
		typesize = 255
	}

	buf := make([]byte, HeaderSize)
	buf[0] = versionMajor
	buf[1] = versionMinor
	buf[2] = flags
	buf[3] = byte(typesize)
	binary.LittleEndian.PutUint32(buf[4:8], h.NBytes)
	binary.LittleEndian.PutUint32(buf[8:12], h.BlockSize)
	binary.LittleEndian.PutUint32(buf[12:16], h.CBytes)
	return buf
}

// splitActive decides whether a block is split into TypeSize streams,
// per spec §4.2.1: inferred from shuffle+typesize, with DOSPLIT acting
// only as a veto when shuffle is inactive (some writers set DOSPLIT
// without meaning it; we never let it turn splitting ON by itself).
func (h Header) splitActive() bool {
	if !h.ByteShuffle {
		return false
	}
	return h.TypeSize > 1
}
