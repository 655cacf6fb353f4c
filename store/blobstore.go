package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	"github.com/ngff-go/zarrgo/zarrerr"
)

// metadataSuffixes lists the small JSON documents worth caching: the two
// layout versions' group/array/attribute files. Chunk files are never
// cached; they are the only large blobs in the store (spec §6.3).
var metadataSuffixes = []string{
	".zarray", ".zgroup", ".zattrs", "zarr.json",
}

func isMetadataKey(key string) bool {
	for _, suffix := range metadataSuffixes {
		if strings.HasSuffix(key, suffix) {
			return true
		}
	}
	return false
}

// BlobStore adapts a gocloud.dev/blob.Bucket to the Store contract. It
// owns the bucket's connection pool and is safe for concurrent use; the
// metadata cache is a sync.Map so repeated discovery reads (group
// navigator probing `.zarray`/`.zgroup`/`zarr.json` while walking a
// hierarchy) don't round-trip to the backend every time.
type BlobStore struct {
	bucket   *blob.Bucket
	log      *slog.Logger
	cache    sync.Map // string -> []byte
	readOnly bool
}

// BlobStoreOption configures a BlobStore at construction.
type BlobStoreOption func(*BlobStore)

// WithLogger attaches a structured logger for diagnostic output. A nil
// logger (the default) disables logging entirely.
func WithLogger(logger *slog.Logger) BlobStoreOption {
	return func(s *BlobStore) { s.log = logger }
}

// WithReadOnly marks the store read-only: Write and Delete always
// return zarrerr.ErrNotSupported regardless of what the underlying
// bucket permits.
func WithReadOnly() BlobStoreOption {
	return func(s *BlobStore) { s.readOnly = true }
}

// NewBlobStore opens bucket at the given gocloud.dev/blob URL (e.g.
// "file:///abs/path", "mem://", "s3://bucket") and wraps it.
func NewBlobStore(ctx context.Context, urlstr string, opts ...BlobStoreOption) (*BlobStore, error) {
	bucket, err := blob.OpenBucket(ctx, urlstr)
	if err != nil {
		return nil, fmt.Errorf("%w: opening bucket %q: %v", zarrerr.ErrStoreFailure, urlstr, err)
	}
	return WrapBucket(bucket, opts...), nil
}

// WrapBucket adapts an already-open bucket. Ownership of bucket passes
// to the returned BlobStore; closing the store closes the bucket.
func WrapBucket(bucket *blob.Bucket, opts ...BlobStoreOption) *BlobStore {
	s := &BlobStore{bucket: bucket}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *BlobStore) logf(format string, args ...any) {
	if s.log != nil {
		s.log.Debug(fmt.Sprintf(format, args...))
	}
}

// Read implements Store.
func (s *BlobStore) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	if isMetadataKey(key) {
		if cached, ok := s.cache.Load(key); ok {
			s.logf("blobstore: cache hit for %s", key)
			return cached.([]byte), nil
		}
	}

	reader, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, fmt.Errorf("%w: %s", zarrerr.ErrNotFound, key)
		}
		return nil, fmt.Errorf("%w: reading %s: %v", zarrerr.ErrStoreFailure, key, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", zarrerr.ErrStoreFailure, key, err)
	}

	if isMetadataKey(key) {
		s.cache.Store(key, data)
	}

	return data, nil
}

// Exists implements Store.
func (s *BlobStore) Exists(ctx context.Context, key string) (bool, error) {
	if err := ValidateKey(key); err != nil {
		return false, err
	}
	ok, err := s.bucket.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("%w: checking %s: %v", zarrerr.ErrStoreFailure, key, err)
	}
	return ok, nil
}

// Write implements Store.
func (s *BlobStore) Write(ctx context.Context, key string, data []byte) error {
	if s.readOnly {
		return fmt.Errorf("%w: store is read-only", zarrerr.ErrNotSupported)
	}
	if err := ValidateKey(key); err != nil {
		return err
	}

	writer, err := s.bucket.NewWriter(ctx, key, nil)
	if err != nil {
		return fmt.Errorf("%w: writing %s: %v", zarrerr.ErrStoreFailure, key, err)
	}
	if _, err := io.Copy(writer, bytes.NewReader(data)); err != nil {
		writer.Close()
		return fmt.Errorf("%w: writing %s: %v", zarrerr.ErrStoreFailure, key, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("%w: writing %s: %v", zarrerr.ErrStoreFailure, key, err)
	}

	if isMetadataKey(key) {
		s.cache.Store(key, data)
	}
	return nil
}

// List implements Store.
func (s *BlobStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := s.bucket.List(&blob.ListOptions{Prefix: prefix})
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			if gcerrors.Code(err) == gcerrors.Unimplemented {
				return nil, fmt.Errorf("%w: listing not supported by backend", zarrerr.ErrNotSupported)
			}
			return nil, fmt.Errorf("%w: listing %s: %v", zarrerr.ErrStoreFailure, prefix, err)
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

// Delete implements Store.
func (s *BlobStore) Delete(ctx context.Context, key string) error {
	if s.readOnly {
		return fmt.Errorf("%w: store is read-only", zarrerr.ErrNotSupported)
	}
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := s.bucket.Delete(ctx, key); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return fmt.Errorf("%w: %s", zarrerr.ErrNotFound, key)
		}
		return fmt.Errorf("%w: deleting %s: %v", zarrerr.ErrStoreFailure, key, err)
	}
	s.cache.Delete(key)
	return nil
}

// Close releases the underlying bucket's connection pool and handles.
func (s *BlobStore) Close() error {
	return s.bucket.Close()
}
