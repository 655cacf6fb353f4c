// Package store defines the abstract byte-addressable key/value map that
// the chunked array engine and metadata resolver read and write through.
// Concrete backends (local filesystem, HTTP, cloud object storage) are
// external collaborators; this package specifies the contract and
// provides two implementations of it: an adapter over gocloud.dev/blob
// buckets and a read-only net/http store.
package store

import (
	"context"
	"strings"

	"github.com/ngff-go/zarrgo/zarrerr"
)

// Store is an abstract `/`-separated-path byte map. Keys are non-empty
// forward-slash paths. Implementations MUST distinguish "absent"
// (Read returns ErrNotFound) from a transport failure (Read returns
// ErrStoreFailure); the chunked array engine depends on that distinction
// for fill-value semantics.
type Store interface {
	// Read returns the bytes stored at key, or a zarrerr.ErrNotFound
	// error if key is absent.
	Read(ctx context.Context, key string) ([]byte, error)

	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) (bool, error)

	// Write stores bytes at key. Read-only stores return
	// zarrerr.ErrNotSupported.
	Write(ctx context.Context, key string, data []byte) error

	// List returns the keys under prefix. Backends without directory
	// enumeration return zarrerr.ErrNotSupported.
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes key. Read-only stores return
	// zarrerr.ErrNotSupported.
	Delete(ctx context.Context, key string) error
}

// ValidateKey reports whether key is a well-formed store key: non-empty
// and free of a leading slash (keys are relative to the store root).
func ValidateKey(key string) error {
	if key == "" {
		return zarrerr.ErrInvalidRegion
	}
	if strings.HasPrefix(key, "/") {
		return zarrerr.ErrInvalidRegion
	}
	return nil
}
