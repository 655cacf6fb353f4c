package blosc

// shuffle groups bytes by their intra-element position: for a run of M
// whole elements of typesize bytes, the shuffled form places all
// position-0 bytes first, then all position-1 bytes, and so on. A
// trailing partial element (when the run length isn't a multiple of
// typesize) is left untouched at the end, unshuffled.
func shuffleBytes(data []byte, typesize int) []byte {
	if typesize <= 1 || len(data) == 0 {
		out := make([]byte, len(data))
		copy(out, data)
		return out
	}

	nElements := len(data) / typesize
	wholeLen := nElements * typesize
	out := make([]byte, len(data))

	for pos := 0; pos < typesize; pos++ {
		dst := pos * nElements
		for elem := 0; elem < nElements; elem++ {
			out[dst+elem] = data[elem*typesize+pos]
		}
	}
	copy(out[wholeLen:], data[wholeLen:])
	return out
}

// unshuffleBytes is the exact inverse of shuffleBytes.
func unshuffleBytes(data []byte, typesize int) []byte {
	if typesize <= 1 || len(data) == 0 {
		out := make([]byte, len(data))
		copy(out, data)
		return out
	}

	nElements := len(data) / typesize
	wholeLen := nElements * typesize
	out := make([]byte, len(data))

	for pos := 0; pos < typesize; pos++ {
		src := pos * nElements
		for elem := 0; elem < nElements; elem++ {
			out[elem*typesize+pos] = data[src+elem]
		}
	}
	copy(out[wholeLen:], data[wholeLen:])
	return out
}
