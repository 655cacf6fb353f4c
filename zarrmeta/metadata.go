// Package zarrmeta parses the two array metadata layouts (v2 .zarray /
// v2 .zgroup and v3 zarr.json) into a single unified ArrayMetadata /
// GroupMetadata representation, per spec.md §4.5 and §6.2.
package zarrmeta

import (
	"encoding/json"

	"github.com/ngff-go/zarrgo/codec"
	"github.com/ngff-go/zarrgo/dtype"
)

// Version names the on-disk layout an array or group was read from.
type Version int

const (
	V2 Version = iota
	V3
)

func (v Version) String() string {
	if v == V3 {
		return "v3"
	}
	return "v2"
}

// separatorUnknown is the sentinel ChunkKeySeparator value meaning "the
// metadata document didn't declare one"; the group navigator resolves
// it by probing the store (spec §4.4.1).
const separatorUnknown byte = 0

// ArrayMetadata is the unified, immutable description of an array node,
// independent of which layout version produced it (spec.md §3).
type ArrayMetadata struct {
	Shape             []int64
	ChunkShape        []int
	Kind              dtype.Kind
	ElementSize       int
	CodecChain        []codec.Descriptor
	ChunkKeySeparator byte // '/' or '.'; 0 means unresolved, see separatorUnknown
	LayoutVersion     Version
	DimensionNames    []string // v3 only; nil for v2
	ArrayPath         string   // store path prefix, e.g. "0" or "labels/cells"
	RawAttributes     json.RawMessage
	FillValue         any // accepted and ignored beyond zero-fill, per spec §4.4.5
}

// SeparatorResolved reports whether the chunk key separator is already
// known (declared in metadata) rather than pending a group-navigator
// probe.
func (m *ArrayMetadata) SeparatorResolved() bool {
	return m.ChunkKeySeparator != separatorUnknown
}

// ResolveSeparator sets the chunk key separator once the group
// navigator has determined it (by declaration or by probing).
func (m *ArrayMetadata) ResolveSeparator(sep byte) {
	m.ChunkKeySeparator = sep
}

// Rank returns the array's dimensionality.
func (m *ArrayMetadata) Rank() int { return len(m.Shape) }

// GroupMetadata is the unified description of a group node: no shape,
// no data, just attributes and the layout version it was read under.
type GroupMetadata struct {
	LayoutVersion Version
	RawAttributes json.RawMessage
}
