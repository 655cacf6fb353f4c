package zarrgo

import (
	"context"
	"fmt"
	"io"

	"github.com/gomlx/gomlx/pkg/core/tensors"

	"github.com/ngff-go/zarrgo/chunkedarray"
	"github.com/ngff-go/zarrgo/dtype"
	"github.com/ngff-go/zarrgo/zarrerr"
)

// TensorBatchReader iterates an array's axis 0 in fixed-size batches,
// handing each batch back as a gomlx tensor shaped
// [batchSize, shape[1], shape[2], …]. It generalizes the teacher's
// Dataset.NextBatch from a single v2 float/int array to any supported
// dtype over either layout version, built on ChunkedArray.ReadRegion
// rather than duplicating chunk-fetch logic.
type TensorBatchReader struct {
	arr     *chunkedarray.ChunkedArray
	current int64
}

// NewTensorBatchReader wraps arr for batched axis-0 iteration.
func NewTensorBatchReader(arr *chunkedarray.ChunkedArray) *TensorBatchReader {
	return &TensorBatchReader{arr: arr}
}

// Reset rewinds iteration back to the first batch.
func (r *TensorBatchReader) Reset() { r.current = 0 }

// NextBatch reads the next batch of up to batchSize rows along axis 0.
// It returns io.EOF once the array is exhausted, matching the teacher's
// NextBatch contract.
func (r *TensorBatchReader) NextBatch(ctx context.Context, batchSize int) (*tensors.Tensor, error) {
	shape := r.arr.Shape()
	if len(shape) == 0 {
		return nil, fmt.Errorf("%w: tensor batching requires rank >= 1", zarrerr.ErrUnsupported)
	}
	if r.current >= shape[0] {
		return nil, io.EOF
	}

	start := r.current
	end := start + int64(batchSize)
	if end > shape[0] {
		end = shape[0]
	}
	r.current = end

	regionStart := make([]int64, len(shape))
	regionEnd := make([]int64, len(shape))
	regionStart[0] = start
	regionEnd[0] = end
	for d := 1; d < len(shape); d++ {
		regionEnd[d] = shape[d]
	}

	raw, err := r.arr.ReadRegion(ctx, regionStart, regionEnd)
	if err != nil {
		return nil, err
	}

	batchShape := make([]int, len(shape))
	batchShape[0] = int(end - start)
	for d := 1; d < len(shape); d++ {
		batchShape[d] = int(shape[d])
	}

	return bytesToTensor(raw, r.arr.Metadata().Kind, batchShape)
}

// bytesToTensor reinterprets a C-order byte buffer as a typed slice and
// builds a gomlx tensor of shape dims. Bool is carried as uint8 (gomlx
// has no packed-bit dtype as of this writing); every other supported
// Kind maps onto its natural Go numeric type.
func bytesToTensor(raw []byte, kind dtype.Kind, dims []int) (*tensors.Tensor, error) {
	switch kind {
	case dtype.Bool, dtype.Uint8:
		return tensors.FromFlatDataAndDimensions(raw, dims...), nil
	case dtype.Int8:
		return tensors.FromFlatDataAndDimensions(asInt8(raw), dims...), nil
	case dtype.Uint16:
		return tensors.FromFlatDataAndDimensions(asUint16(raw), dims...), nil
	case dtype.Int16:
		return tensors.FromFlatDataAndDimensions(asInt16(raw), dims...), nil
	case dtype.Uint32:
		return tensors.FromFlatDataAndDimensions(asUint32(raw), dims...), nil
	case dtype.Int32:
		return tensors.FromFlatDataAndDimensions(asInt32(raw), dims...), nil
	case dtype.Uint64:
		return tensors.FromFlatDataAndDimensions(asUint64(raw), dims...), nil
	case dtype.Int64:
		return tensors.FromFlatDataAndDimensions(asInt64(raw), dims...), nil
	case dtype.Float32:
		return tensors.FromFlatDataAndDimensions(asFloat32(raw), dims...), nil
	case dtype.Float64:
		return tensors.FromFlatDataAndDimensions(asFloat64(raw), dims...), nil
	default:
		return nil, fmt.Errorf("%w: tensor conversion for dtype %s", zarrerr.ErrUnsupported, kind)
	}
}
