// Package dtype classifies array element types across both metadata
// layouts: v3's explicit type names ("uint16") and v2's numpy-style
// dtype strings ("<f4"). Only the closed set spec.md §3 names is
// accepted: bool, signed/unsigned 8/16/32/64, float32/64.
package dtype

import (
	"fmt"
	"strconv"

	"github.com/ngff-go/zarrgo/zarrerr"
)

// Kind is the element type classification, independent of byte order.
type Kind int

const (
	Bool Kind = iota
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float32
	Float64
)

// String returns the v3-style type name for Kind.
func (k Kind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	case Uint64:
		return "uint64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ElementSize returns the element's size in bytes.
func (k Kind) ElementSize() int {
	switch k {
	case Bool, Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64:
		return 8
	default:
		return 0
	}
}

// Endian is the declared byte order of a v2 dtype string.
type Endian int

const (
	// Little is the `<` marker.
	Little Endian = iota
	// Big is the `>` marker.
	Big
	// NotApplicable is the `|` marker, valid only for single-byte kinds.
	NotApplicable
	// Native is the `=` marker: whatever the host's byte order is.
	Native
)

var kindByLetterAndSize = map[byte]map[int]Kind{
	'b': {1: Bool},
	'i': {1: Int8, 2: Int16, 4: Int32, 8: Int64},
	'u': {1: Uint8, 2: Uint16, 4: Uint32, 8: Uint64},
	'f': {4: Float32, 8: Float64},
}

// ParseNumpy parses a v2 `.zarray` dtype string of the form
// `[<>|=]` + kind-letter + digit(s), e.g. "<f4", "|b1", ">u8", "=i4".
// Complex kinds and unknown letters are rejected per spec §4.5.
func ParseNumpy(s string) (Kind, Endian, error) {
	if len(s) < 3 {
		return 0, 0, fmt.Errorf("%w: numpy dtype %q too short", zarrerr.ErrMetadataInvalid, s)
	}

	var endian Endian
	switch s[0] {
	case '<':
		endian = Little
	case '>':
		endian = Big
	case '|':
		endian = NotApplicable
	case '=':
		endian = Native
	default:
		return 0, 0, fmt.Errorf("%w: numpy dtype %q has unknown byte-order marker %q", zarrerr.ErrMetadataInvalid, s, s[0])
	}

	letter := s[1]
	sizeStr := s[2:]
	size, err := strconv.Atoi(sizeStr)
	if err != nil || size <= 0 {
		return 0, 0, fmt.Errorf("%w: numpy dtype %q has invalid size suffix", zarrerr.ErrMetadataInvalid, s)
	}

	byKind, ok := kindByLetterAndSize[letter]
	if !ok {
		return 0, 0, fmt.Errorf("%w: numpy dtype kind %q", zarrerr.ErrUnsupported, string(letter))
	}
	kind, ok := byKind[size]
	if !ok {
		return 0, 0, fmt.Errorf("%w: numpy dtype %q has unsupported size %d for kind %q", zarrerr.ErrUnsupported, s, size, string(letter))
	}

	if endian == NotApplicable && kind.ElementSize() != 1 {
		return 0, 0, fmt.Errorf("%w: numpy dtype %q: %q byte order only valid for single-byte kinds", zarrerr.ErrMetadataInvalid, s, "|")
	}

	return kind, endian, nil
}

// v3Names maps v3's explicit `data_type` strings to Kind.
var v3Names = map[string]Kind{
	"bool":    Bool,
	"int8":    Int8,
	"int16":   Int16,
	"int32":   Int32,
	"int64":   Int64,
	"uint8":   Uint8,
	"uint16":  Uint16,
	"uint32":  Uint32,
	"uint64":  Uint64,
	"float32": Float32,
	"float64": Float64,
}

// ParseV3 parses a v3 `zarr.json` explicit `data_type` string. v3 does
// not encode endianness in the dtype name; that is carried separately
// by the `bytes` boundary codec's `endian` configuration.
func ParseV3(s string) (Kind, error) {
	kind, ok := v3Names[s]
	if !ok {
		return 0, fmt.Errorf("%w: data_type %q", zarrerr.ErrUnsupported, s)
	}
	return kind, nil
}
