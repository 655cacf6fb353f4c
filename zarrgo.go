// Package zarrgo is the reader entry point of spec.md §4.8: it
// scheme-dispatches a locator to the appropriate store, opens the root
// group, and returns a typed overlay node (multiscale image, plate,
// well, or label group).
package zarrgo

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ngff-go/zarrgo/chunkedarray"
	"github.com/ngff-go/zarrgo/group"
	"github.com/ngff-go/zarrgo/node"
	"github.com/ngff-go/zarrgo/store"
	"github.com/ngff-go/zarrgo/zarrerr"
)

// Option configures how Open builds the store and array engine.
type Option func(*options)

type options struct {
	arrayOpts []chunkedarray.Option
}

// WithMaxParallel bounds concurrent chunk fetches for every array
// opened through this session (spec §4.4, default 16).
func WithMaxParallel(n int) Option {
	return func(o *options) { o.arrayOpts = append(o.arrayOpts, chunkedarray.WithMaxParallel(n)) }
}

// Session is an opened root: a store plus the navigator built over it.
// Closing a Session releases the store's underlying connection pool or
// file handles (spec §3 Lifecycle).
type Session struct {
	st  store.Store
	nav *group.Navigator
}

// Open scheme-dispatches locator to a store (spec §6.5: bare path or
// "file://" for local filesystem, "http://"/"https://" for an HTTP
// store) and opens a Session over it.
func Open(ctx context.Context, locator string, opts ...Option) (*Session, error) {
	cfg := &options{}
	for _, opt := range opts {
		opt(cfg)
	}

	st, err := openStore(ctx, locator)
	if err != nil {
		return nil, err
	}

	nav := group.New(st, group.WithArrayOptions(cfg.arrayOpts...))
	return &Session{st: st, nav: nav}, nil
}

func openStore(ctx context.Context, locator string) (store.Store, error) {
	switch {
	case strings.HasPrefix(locator, "http://"), strings.HasPrefix(locator, "https://"):
		return store.NewHTTPStore(locator, nil), nil
	case strings.HasPrefix(locator, "file://"):
		return store.NewBlobStore(ctx, locator)
	case strings.Contains(locator, "://"):
		return store.NewBlobStore(ctx, locator)
	default:
		return store.NewBlobStore(ctx, "file://"+locator)
	}
}

// Root opens the root node at the session's store (a multiscale image,
// plate, well, label group, or KindUnknown if the group declares no
// recognized overlay attributes).
func (s *Session) Root(ctx context.Context) (*node.Node, error) {
	return node.Open(ctx, s.nav, "")
}

// Node opens the node at an arbitrary path under the session's store,
// for callers that already know the sub-path (e.g. a collection
// wrapper discovering numbered sub-series).
func (s *Session) Node(ctx context.Context, path string) (*node.Node, error) {
	return node.Open(ctx, s.nav, path)
}

// Collection discovers a root group's numbered sub-series ("0", "1", …)
// per spec §4.8, for roots that are neither a recognized overlay nor a
// single array: each numeric top-level child path is opened as a node,
// and the nodes are returned in ascending numeric order. An error
// opening any of them fails the whole call.
func (s *Session) Collection(ctx context.Context) ([]*node.Node, error) {
	keys, err := s.st.List(ctx, "")
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var series []string
	for _, key := range keys {
		idx := strings.IndexByte(key, '/')
		if idx < 0 {
			continue
		}
		top := key[:idx]
		if seen[top] || !isNumeric(top) {
			continue
		}
		seen[top] = true
		series = append(series, top)
	}

	if len(series) == 0 {
		return nil, fmt.Errorf("%w: no numbered sub-series found", zarrerr.ErrNotFound)
	}
	sort.Slice(series, func(i, j int) bool {
		a, _ := strconv.Atoi(series[i])
		b, _ := strconv.Atoi(series[j])
		return a < b
	})

	nodes := make([]*node.Node, 0, len(series))
	for _, path := range series {
		n, err := s.Node(ctx, path)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// closer is implemented by stores that own releasable resources (e.g.
// BlobStore's bucket connection pool). HTTPStore has nothing to
// release and does not implement it.
type closer interface {
	Close() error
}

// Close releases the session's store, if it owns closeable resources.
func (s *Session) Close() error {
	if c, ok := s.st.(closer); ok {
		return c.Close()
	}
	return nil
}
