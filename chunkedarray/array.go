// Package chunkedarray implements the chunked-array engine of spec.md
// §4.4: region<->chunk mapping, bounded concurrent fetch, truncated
// edge-chunk expansion, and the row-contiguous N-D copy that stitches
// chunk data into (or out of) a caller's output buffer.
package chunkedarray

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ngff-go/zarrgo/codec"
	"github.com/ngff-go/zarrgo/store"
	"github.com/ngff-go/zarrgo/zarrerr"
	"github.com/ngff-go/zarrgo/zarrmeta"
)

// DefaultMaxParallel is the default bound on concurrent chunk fetches
// (spec §4.4).
const DefaultMaxParallel = 16

// ChunkedArray reads and writes rectangular regions of one array node.
// It shares no mutable state with its Store beyond the Store's own
// internal pooling/caching, so it is safe to use from multiple
// concurrent region operations (spec §3 Ownership).
type ChunkedArray struct {
	st          store.Store
	meta        *zarrmeta.ArrayMetadata
	pipeline    *codec.Pipeline
	log         *slog.Logger
	maxParallel int
}

// Option configures a ChunkedArray at construction.
type Option func(*ChunkedArray)

// WithMaxParallel bounds concurrent chunk fetches per ReadRegion call.
// Values less than 1 are clamped to 1.
func WithMaxParallel(n int) Option {
	return func(a *ChunkedArray) {
		if n < 1 {
			n = 1
		}
		a.maxParallel = n
	}
}

// WithLogger attaches a structured logger to the array. ReadRegion and
// WriteRegion emit no log records through it.
func WithLogger(logger *slog.Logger) Option {
	return func(a *ChunkedArray) { a.log = logger }
}

// New builds a ChunkedArray over st for the array described by meta.
// meta's chunk key separator must already be resolved (group.Navigator
// does this before handing back an array).
func New(st store.Store, meta *zarrmeta.ArrayMetadata, opts ...Option) (*ChunkedArray, error) {
	if !meta.SeparatorResolved() {
		return nil, fmt.Errorf("%w: chunk key separator not resolved", zarrerr.ErrMetadataInvalid)
	}
	pipeline, err := codec.NewPipeline(meta.CodecChain, meta.ElementSize)
	if err != nil {
		return nil, err
	}
	a := &ChunkedArray{st: st, meta: meta, pipeline: pipeline, maxParallel: DefaultMaxParallel}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Shape returns the array's per-axis element count.
func (a *ChunkedArray) Shape() []int64 { return a.meta.Shape }

// ElementSize returns the array's element size in bytes.
func (a *ChunkedArray) ElementSize() int { return a.meta.ElementSize }

// Metadata returns the array's resolved metadata.
func (a *ChunkedArray) Metadata() *zarrmeta.ArrayMetadata { return a.meta }

func (a *ChunkedArray) validateRegion(start, end []int64) error {
	rank := a.meta.Rank()
	if len(start) != rank || len(end) != rank {
		return fmt.Errorf("%w: region rank %d/%d does not match array rank %d", zarrerr.ErrInvalidRegion, len(start), len(end), rank)
	}
	for d := 0; d < rank; d++ {
		if start[d] < 0 || end[d] <= start[d] || end[d] > a.meta.Shape[d] {
			return fmt.Errorf("%w: axis %d: [%d,%d) out of bounds for shape %d", zarrerr.ErrInvalidRegion, d, start[d], end[d], a.meta.Shape[d])
		}
	}
	return nil
}

// chunkBounds returns the half-open [first, lastExclusive) range of
// chunk coordinates covering [start, end) on each axis (spec §4.4 step 3).
func (a *ChunkedArray) chunkBounds(start, end []int64) (first, lastExclusive []int64) {
	rank := a.meta.Rank()
	first = make([]int64, rank)
	lastExclusive = make([]int64, rank)
	for d := 0; d < rank; d++ {
		cs := int64(a.meta.ChunkShape[d])
		first[d] = start[d] / cs
		lastExclusive[d] = ((end[d] - 1) / cs) + 1
	}
	return
}

// enumerateChunks lists every chunk coordinate vector in [first, lastExclusive).
func enumerateChunks(first, lastExclusive []int64) [][]int64 {
	rank := len(first)
	total := 1
	for d := 0; d < rank; d++ {
		total *= int(lastExclusive[d] - first[d])
	}
	out := make([][]int64, 0, total)

	coords := make([]int64, rank)
	var rec func(dim int)
	rec = func(dim int) {
		if dim == rank {
			cp := make([]int64, rank)
			copy(cp, coords)
			out = append(out, cp)
			return
		}
		for c := first[dim]; c < lastExclusive[dim]; c++ {
			coords[dim] = c
			rec(dim + 1)
		}
	}
	rec(0)
	return out
}

// truncatedShape returns the valid (possibly clipped) element extent of
// the chunk at coords: min(shape[d] - coord[d]*chunkShape[d], chunkShape[d])
// per axis (spec §4.4.2).
func (a *ChunkedArray) truncatedShape(coords []int64) []int64 {
	rank := a.meta.Rank()
	out := make([]int64, rank)
	for d := 0; d < rank; d++ {
		cs := int64(a.meta.ChunkShape[d])
		remaining := a.meta.Shape[d] - coords[d]*cs
		if remaining < cs {
			out[d] = remaining
		} else {
			out[d] = cs
		}
	}
	return out
}

func (a *ChunkedArray) fullChunkShape() []int64 {
	rank := a.meta.Rank()
	out := make([]int64, rank)
	for d := 0; d < rank; d++ {
		out[d] = int64(a.meta.ChunkShape[d])
	}
	return out
}

func elementCount(shape []int64) int64 {
	n := int64(1)
	for _, d := range shape {
		n *= d
	}
	return n
}

// fetchChunk reads, decodes, and (if needed) expands the chunk at
// coords, always returning a full-chunk-shaped buffer.
func (a *ChunkedArray) fetchChunk(ctx context.Context, coords []int64) ([]byte, error) {
	key := chunkKey(a.meta, coords)

	raw, err := a.st.Read(ctx, key)
	if err != nil {
		if errors.Is(err, zarrerr.ErrNotFound) {
			full := a.fullChunkShape()
			return make([]byte, elementCount(full)*int64(a.meta.ElementSize)), nil
		}
		return nil, err
	}

	decoded, err := a.pipeline.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: chunk %s: %v", zarrerr.ErrChunkCorrupt, key, err)
	}

	full := a.fullChunkShape()
	fullBytes := elementCount(full) * int64(a.meta.ElementSize)
	if int64(len(decoded)) == fullBytes {
		return decoded, nil
	}

	truncated := a.truncatedShape(coords)
	truncatedBytes := elementCount(truncated) * int64(a.meta.ElementSize)
	if int64(len(decoded)) == truncatedBytes {
		return expandTruncated(decoded, truncated, full, a.meta.ElementSize), nil
	}

	return nil, fmt.Errorf("%w: chunk %s decoded to %d bytes, expected %d (full) or %d (truncated)", zarrerr.ErrChunkCorrupt, key, len(decoded), fullBytes, truncatedBytes)
}

// ReadRegion reads the half-open region [start, end) and returns a
// C-order byte buffer of size elementSize * Π(end[d]-start[d]).
func (a *ChunkedArray) ReadRegion(ctx context.Context, start, end []int64) ([]byte, error) {
	if err := a.validateRegion(start, end); err != nil {
		return nil, err
	}

	regionShape := make([]int64, a.meta.Rank())
	for d := range regionShape {
		regionShape[d] = end[d] - start[d]
	}
	out := make([]byte, elementCount(regionShape)*int64(a.meta.ElementSize))

	first, lastExclusive := a.chunkBounds(start, end)
	chunks := enumerateChunks(first, lastExclusive)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, a.maxParallel)
	var wg sync.WaitGroup
	errOnce := make(chan error, 1)

	reportErr := func(err error) {
		select {
		case errOnce <- err:
			cancel()
		default:
		}
	}

	for _, coords := range chunks {
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, a.cancelOrErr(ctx, errOnce)
		default:
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(coords []int64) {
			defer wg.Done()
			defer func() { <-sem }()

			chunkData, err := a.fetchChunk(ctx, coords)
			if err != nil {
				reportErr(err)
				return
			}

			full := a.fullChunkShape()
			copyShape := make([]int64, a.meta.Rank())
			srcOffset := make([]int64, a.meta.Rank())
			dstOffset := make([]int64, a.meta.Rank())
			for d := 0; d < a.meta.Rank(); d++ {
				chunkStart := coords[d] * int64(a.meta.ChunkShape[d])
				chunkEnd := chunkStart + full[d]
				intersectStart := maxI64(chunkStart, start[d])
				intersectEnd := minI64(chunkEnd, end[d])
				if intersectStart >= intersectEnd {
					return
				}
				copyShape[d] = intersectEnd - intersectStart
				srcOffset[d] = intersectStart - chunkStart
				dstOffset[d] = intersectStart - start[d]
			}

			copyBox(out, regionShape, dstOffset, chunkData, full, srcOffset, copyShape, a.meta.ElementSize)
		}(coords)
	}

	wg.Wait()
	select {
	case err := <-errOnce:
		return nil, err
	default:
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w", zarrerr.ErrCancelled)
	}
	return out, nil
}

func (a *ChunkedArray) cancelOrErr(ctx context.Context, errOnce chan error) error {
	select {
	case err := <-errOnce:
		return err
	default:
		return fmt.Errorf("%w", zarrerr.ErrCancelled)
	}
}

// WriteRegion writes data (size elementSize * Π(end[d]-start[d])) into
// [start, end). Any chunk only partially covered by the region is read
// back (or zero-synthesized if absent), patched, and rewritten in full:
// chunks are written sequentially, never concurrently (spec §5).
func (a *ChunkedArray) WriteRegion(ctx context.Context, start, end []int64, data []byte) error {
	if err := a.validateRegion(start, end); err != nil {
		return err
	}

	regionShape := make([]int64, a.meta.Rank())
	for d := range regionShape {
		regionShape[d] = end[d] - start[d]
	}
	wantLen := elementCount(regionShape) * int64(a.meta.ElementSize)
	if int64(len(data)) != wantLen {
		return fmt.Errorf("%w: write data is %d bytes, expected %d", zarrerr.ErrInvalidRegion, len(data), wantLen)
	}

	first, lastExclusive := a.chunkBounds(start, end)
	full := a.fullChunkShape()

	for _, coords := range enumerateChunks(first, lastExclusive) {
		chunkData, err := a.fetchChunk(ctx, coords)
		if err != nil {
			return err
		}

		copyShape := make([]int64, a.meta.Rank())
		srcOffset := make([]int64, a.meta.Rank())
		dstOffset := make([]int64, a.meta.Rank())
		skip := false
		for d := 0; d < a.meta.Rank(); d++ {
			chunkStart := coords[d] * int64(a.meta.ChunkShape[d])
			chunkEnd := chunkStart + full[d]
			intersectStart := maxI64(chunkStart, start[d])
			intersectEnd := minI64(chunkEnd, end[d])
			if intersectStart >= intersectEnd {
				skip = true
				break
			}
			copyShape[d] = intersectEnd - intersectStart
			dstOffset[d] = intersectStart - chunkStart
			srcOffset[d] = intersectStart - start[d]
		}
		if skip {
			continue
		}

		copyBox(chunkData, full, dstOffset, data, regionShape, srcOffset, copyShape, a.meta.ElementSize)

		encoded, err := a.pipeline.Encode(chunkData)
		if err != nil {
			return fmt.Errorf("%w: encoding chunk: %v", zarrerr.ErrChunkCorrupt, err)
		}
		if err := a.st.Write(ctx, chunkKey(a.meta, coords), encoded); err != nil {
			return err
		}
	}

	return nil
}

func maxI64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func minI64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
