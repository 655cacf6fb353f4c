// Package group implements the group navigator of spec.md §4.5: given a
// store and a path prefix, decide whether the node there is a v2 or v3
// array or group, and for arrays hand back a ready-to-read
// chunkedarray.ChunkedArray with its metadata fully resolved (including,
// for v2 arrays with no declared dimension_separator, a probe of the
// store for the actual on-disk chunk key layout).
package group

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ngff-go/zarrgo/chunkedarray"
	"github.com/ngff-go/zarrgo/store"
	"github.com/ngff-go/zarrgo/zarrerr"
	"github.com/ngff-go/zarrgo/zarrmeta"
)

// NodeKind distinguishes what Open found at a path.
type NodeKind int

const (
	NodeArray NodeKind = iota
	NodeGroup
)

// Node is the navigator's result: exactly one of Array or Group is set,
// matching Kind.
type Node struct {
	Kind  NodeKind
	Path  string
	Array *chunkedarray.ChunkedArray
	Group *zarrmeta.GroupMetadata
}

// Navigator opens array and group nodes from a single store root.
type Navigator struct {
	st        store.Store
	arrayOpts []chunkedarray.Option
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithArrayOptions forwards chunkedarray.Option values to every array
// the navigator constructs (e.g. WithMaxParallel, WithLogger).
func WithArrayOptions(opts ...chunkedarray.Option) Option {
	return func(n *Navigator) { n.arrayOpts = append(n.arrayOpts, opts...) }
}

// New builds a Navigator over st.
func New(st store.Store, opts ...Option) *Navigator {
	n := &Navigator{st: st}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func joinPath(path, suffix string) string {
	if path == "" {
		return suffix
	}
	return path + "/" + suffix
}

// Open decides whether path names a v2 or v3 array or group (probing
// zarr.json first, then .zgroup/.zarray per spec §4.5) and returns the
// corresponding Node.
func (n *Navigator) Open(ctx context.Context, path string) (*Node, error) {
	if node, err, handled := n.tryV3(ctx, path); handled {
		return node, err
	}
	if node, err, handled := n.tryV2Array(ctx, path); handled {
		return node, err
	}
	if node, err, handled := n.tryV2Group(ctx, path); handled {
		return node, err
	}
	return nil, fmt.Errorf("%w: no zarr.json, .zarray, or .zgroup at %q", zarrerr.ErrNotFound, path)
}

func (n *Navigator) tryV3(ctx context.Context, path string) (*Node, error, bool) {
	data, err := n.st.Read(ctx, joinPath(path, "zarr.json"))
	if err != nil {
		if errors.Is(err, zarrerr.ErrNotFound) {
			return nil, nil, false
		}
		return nil, err, true
	}

	nodeType, err := zarrmeta.NodeTypeOf(data)
	if err != nil {
		return nil, err, true
	}

	switch nodeType {
	case "array":
		meta, err := zarrmeta.ParseV3Array(data, path)
		if err != nil {
			return nil, err, true
		}
		arr, err := chunkedarray.New(n.st, meta, n.arrayOpts...)
		if err != nil {
			return nil, err, true
		}
		return &Node{Kind: NodeArray, Path: path, Array: arr}, nil, true
	case "group":
		gm, err := zarrmeta.ParseV3Group(data)
		if err != nil {
			return nil, err, true
		}
		return &Node{Kind: NodeGroup, Path: path, Group: gm}, nil, true
	default:
		return nil, fmt.Errorf("%w: zarr.json node_type %q", zarrerr.ErrMetadataInvalid, nodeType), true
	}
}

func (n *Navigator) tryV2Array(ctx context.Context, path string) (*Node, error, bool) {
	data, err := n.st.Read(ctx, joinPath(path, ".zarray"))
	if err != nil {
		if errors.Is(err, zarrerr.ErrNotFound) {
			return nil, nil, false
		}
		return nil, err, true
	}

	var attrs []byte
	if a, err := n.st.Read(ctx, joinPath(path, ".zattrs")); err == nil {
		attrs = a
	} else if !errors.Is(err, zarrerr.ErrNotFound) {
		return nil, err, true
	}

	meta, err := zarrmeta.ParseV2Array(data, attrs, path)
	if err != nil {
		return nil, err, true
	}

	if !meta.SeparatorResolved() {
		sep, err := n.probeSeparator(ctx, path, meta.Rank())
		if err != nil {
			return nil, err, true
		}
		meta.ResolveSeparator(sep)
	}

	arr, err := chunkedarray.New(n.st, meta, n.arrayOpts...)
	if err != nil {
		return nil, err, true
	}
	return &Node{Kind: NodeArray, Path: path, Array: arr}, nil, true
}

func (n *Navigator) tryV2Group(ctx context.Context, path string) (*Node, error, bool) {
	data, err := n.st.Read(ctx, joinPath(path, ".zgroup"))
	if err != nil {
		if errors.Is(err, zarrerr.ErrNotFound) {
			return nil, nil, false
		}
		return nil, err, true
	}

	var attrs []byte
	if a, err := n.st.Read(ctx, joinPath(path, ".zattrs")); err == nil {
		attrs = a
	} else if !errors.Is(err, zarrerr.ErrNotFound) {
		return nil, err, true
	}

	gm, err := zarrmeta.ParseV2Group(data, attrs)
	if err != nil {
		return nil, err, true
	}
	return &Node{Kind: NodeGroup, Path: path, Group: gm}, nil, true
}

// probeSeparator implements spec §4.4.1 / §8 scenario 6: when .zarray
// omits dimension_separator, probe for the all-zero chunk key under '/'
// first, then '.'; default to '.' if neither is present.
func (n *Navigator) probeSeparator(ctx context.Context, path string, rank int) (byte, error) {
	zeros := make([]string, rank)
	for i := range zeros {
		zeros[i] = "0"
	}

	slashKey := joinPath(path, strings.Join(zeros, "/"))
	if ok, err := n.st.Exists(ctx, slashKey); err != nil {
		return 0, err
	} else if ok {
		return '/', nil
	}

	dotKey := joinPath(path, strings.Join(zeros, "."))
	if ok, err := n.st.Exists(ctx, dotKey); err != nil {
		return 0, err
	} else if ok {
		return '.', nil
	}

	return '.', nil
}
