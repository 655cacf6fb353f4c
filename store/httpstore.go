package store

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/ngff-go/zarrgo/zarrerr"
)

// HTTPStore is a read-only Store backed directly by net/http, used for
// http(s):// locators that gocloud.dev/blob has no registered opener
// for (unlike s3/gs/azure, there is no generic "plain HTTP directory"
// blob driver). It mirrors the download helper the teacher's own tests
// use (reader_test.go's downloadFile) but as a first-class Store rather
// than test scaffolding.
type HTTPStore struct {
	base   string
	client *http.Client
	cache  sync.Map // string -> []byte
}

// NewHTTPStore builds a store rooted at base, an http:// or https://
// URL. Arbitrary path segments are URL-encoded per spec §6.1.
func NewHTTPStore(base string, client *http.Client) *HTTPStore {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPStore{base: strings.TrimSuffix(base, "/"), client: client}
}

func (s *HTTPStore) resolve(key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return s.base + "/" + strings.Join(segments, "/")
}

// Read implements Store.
func (s *HTTPStore) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	if isMetadataKey(key) {
		if cached, ok := s.cache.Load(key); ok {
			return cached.([]byte), nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.resolve(key), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request for %s: %v", zarrerr.ErrStoreFailure, key, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching %s: %v", zarrerr.ErrStoreFailure, key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", zarrerr.ErrNotFound, key)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d", zarrerr.ErrStoreFailure, key, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", zarrerr.ErrStoreFailure, key, err)
	}

	if isMetadataKey(key) {
		s.cache.Store(key, data)
	}
	return data, nil
}

// Exists implements Store via a HEAD request.
func (s *HTTPStore) Exists(ctx context.Context, key string) (bool, error) {
	if err := ValidateKey(key); err != nil {
		return false, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.resolve(key), nil)
	if err != nil {
		return false, fmt.Errorf("%w: building request for %s: %v", zarrerr.ErrStoreFailure, key, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: checking %s: %v", zarrerr.ErrStoreFailure, key, err)
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}

// Write implements Store; HTTP stores are read-only.
func (s *HTTPStore) Write(ctx context.Context, key string, data []byte) error {
	return fmt.Errorf("%w: http store is read-only", zarrerr.ErrNotSupported)
}

// List implements Store; plain HTTP has no directory enumeration.
func (s *HTTPStore) List(ctx context.Context, prefix string) ([]string, error) {
	return nil, fmt.Errorf("%w: http store does not support listing", zarrerr.ErrNotSupported)
}

// Delete implements Store; HTTP stores are read-only.
func (s *HTTPStore) Delete(ctx context.Context, key string) error {
	return fmt.Errorf("%w: http store is read-only", zarrerr.ErrNotSupported)
}

// Close is a no-op; the http.Client's transport is not owned by us.
func (s *HTTPStore) Close() error { return nil }
