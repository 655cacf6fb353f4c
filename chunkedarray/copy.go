package chunkedarray

// strides returns the C-order element strides for shape: stride[N-1] =
// 1, stride[d] = stride[d+1] * shape[d+1] (spec §4.4.3).
func strides(shape []int64) []int64 {
	s := make([]int64, len(shape))
	stride := int64(1)
	for i := len(shape) - 1; i >= 0; i-- {
		s[i] = stride
		stride *= shape[i]
	}
	return s
}

// copyBox copies a [0, copyShape) box, offset by srcOffset in src and
// by dstOffset in dst, from a C-order buffer of shape srcShape to a
// C-order buffer of shape dstShape. The innermost axis is copied with a
// single bulk memory copy per row; outer axes are walked with a reused
// coordinate array, never allocating per element. Rank-0 (scalar)
// degenerates to one element-sized copy.
func copyBox(
	dst []byte, dstShape, dstOffset []int64,
	src []byte, srcShape, srcOffset []int64,
	copyShape []int64, elementSize int,
) {
	if len(copyShape) == 0 {
		copy(dst[:elementSize], src[:elementSize])
		return
	}

	dstStrides := strides(dstShape)
	srcStrides := strides(srcShape)

	baseDst := int64(0)
	baseSrc := int64(0)
	for i := range copyShape {
		baseDst += dstOffset[i] * dstStrides[i]
		baseSrc += srcOffset[i] * srcStrides[i]
	}

	coords := make([]int64, len(copyShape))
	last := len(copyShape) - 1

	var walk func(dim int, dstIdx, srcIdx int64)
	walk = func(dim int, dstIdx, srcIdx int64) {
		if dim == last {
			n := copyShape[dim]
			rowBytes := n * int64(elementSize)
			dstStart := dstIdx * int64(elementSize)
			srcStart := srcIdx * int64(elementSize)
			copy(dst[dstStart:dstStart+rowBytes], src[srcStart:srcStart+rowBytes])
			return
		}
		for i := int64(0); i < copyShape[dim]; i++ {
			coords[dim] = i
			walk(dim+1, dstIdx+i*dstStrides[dim], srcIdx+i*srcStrides[dim])
		}
	}
	walk(0, baseDst, baseSrc)
}
