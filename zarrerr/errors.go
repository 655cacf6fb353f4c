// Package zarrerr defines the error taxonomy shared by every layer of
// zarrgo: stores, codecs, metadata resolution, and the chunked array
// engine all wrap one of these sentinels so callers can classify a
// failure with errors.Is instead of parsing messages.
package zarrerr

import "errors"

var (
	// ErrInvalidRegion marks a rank mismatch or an out-of-bounds region
	// at the public read_region/write_region surface.
	ErrInvalidRegion = errors.New("zarrgo: invalid region")

	// ErrUnsupported marks a codec, dtype, transform, or layout feature
	// this implementation does not cover (sharding, bit-shuffle, snappy,
	// blosclz, non-"C" array order, etc).
	ErrUnsupported = errors.New("zarrgo: unsupported")

	// ErrChunkCorrupt marks a decode failure or a decoded chunk whose
	// size is neither the full nor the truncated-edge chunk size.
	ErrChunkCorrupt = errors.New("zarrgo: chunk corrupt")

	// ErrMetadataInvalid marks a metadata document missing a required
	// field, with inconsistent shape/rank, or an unknown enumerator.
	ErrMetadataInvalid = errors.New("zarrgo: invalid metadata")

	// ErrStoreFailure wraps an opaque transport/backend error surfaced
	// by the store layer.
	ErrStoreFailure = errors.New("zarrgo: store failure")

	// ErrNotFound marks an array or group absent at the requested path.
	ErrNotFound = errors.New("zarrgo: not found")

	// ErrCancelled marks cooperative cancellation firing at a
	// suspension point.
	ErrCancelled = errors.New("zarrgo: cancelled")

	// ErrNotSupported marks a store operation the backend cannot
	// perform (write/delete on a read-only store, list on a backend
	// with no directory enumeration).
	ErrNotSupported = errors.New("zarrgo: operation not supported by store")
)
