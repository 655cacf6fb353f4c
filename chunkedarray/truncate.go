package chunkedarray

// expandTruncated pads a truncated edge chunk (spec §4.4.2) — stored at
// its actual valid extent rather than the nominal chunk shape — out to
// a full-sized, zero-filled chunk buffer so later copy strides can
// assume uniform chunkShape. A flat memcpy only works when a single
// trailing axis is clipped; general multi-axis clipping needs the
// strided copy copyBox already provides.
func expandTruncated(data []byte, truncatedShape, fullShape []int64, elementSize int) []byte {
	fullElements := int64(1)
	for _, d := range fullShape {
		fullElements *= d
	}
	out := make([]byte, fullElements*int64(elementSize))

	zeroOffset := make([]int64, len(fullShape))
	copyBox(out, fullShape, zeroOffset, data, truncatedShape, zeroOffset, truncatedShape, elementSize)
	return out
}
