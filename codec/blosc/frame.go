package blosc

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/ngff-go/zarrgo/zarrerr"
)

// defaultBlockSize is used when Options.BlockSize is 0. c-blosc derives
// this from cache sizes and typesize; we don't need to match its
// heuristic bit-for-bit since we only need our own encoder and decoder
// to agree (the blocksize actually used is always carried in the
// header), so a flat default keeps block count reasonable for the
// region sizes this package handles.
const defaultBlockSize = 1 << 16

// Options configures an Encode call.
type Options struct {
	TypeSize  int
	Shuffle   bool
	Cname     InnerCodec
	Clevel    int
	BlockSize int
}

func chooseBlockSize(nbytes, requested int) int {
	if requested > 0 {
		return requested
	}
	if nbytes < defaultBlockSize {
		if nbytes == 0 {
			return 1
		}
		return nbytes
	}
	return defaultBlockSize
}

// streamBounds returns the uncompressed length of stream index s out
// of numStreams splitting a block of blockLen bytes: integer division
// to each stream, remainder to the last (spec §4.2.1).
func streamBounds(blockLen, numStreams, s int) int {
	base := blockLen / numStreams
	if s == numStreams-1 {
		return blockLen - base*(numStreams-1)
	}
	return base
}

func isAllZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// Encode builds a complete blosc frame for data under opts.
func Encode(data []byte, opts Options) ([]byte, error) {
	nbytes := len(data)
	typesize := opts.TypeSize
	if typesize <= 0 {
		typesize = 1
	}
	blocksize := chooseBlockSize(nbytes, opts.BlockSize)

	nBlocks := 0
	if nbytes > 0 {
		nBlocks = (nbytes + blocksize - 1) / blocksize
	}

	header := Header{
		TypeSize:    typesize,
		NBytes:      uint32(nbytes),
		BlockSize:   uint32(blocksize),
		ByteShuffle: opts.Shuffle,
		DoSplit:     opts.Shuffle && typesize > 1,
		Inner:       opts.Cname,
	}

	split := header.splitActive()
	numStreams := 1
	if split {
		numStreams = typesize
	}

	bstarts := make([]int32, nBlocks)
	var blockData bytes.Buffer
	blockDataStart := HeaderSize + 4*nBlocks

	for i := 0; i < nBlocks; i++ {
		start := i * blocksize
		end := start + blocksize
		if end > nbytes {
			end = nbytes
		}
		block := data[start:end]
		blockLen := len(block)

		bstarts[i] = int32(blockDataStart + blockData.Len())

		shuffled := block
		if opts.Shuffle {
			shuffled = shuffleBytes(block, typesize)
		}

		streamStart := 0
		for s := 0; s < numStreams; s++ {
			streamLen := streamBounds(blockLen, numStreams, s)
			stream := shuffled[streamStart : streamStart+streamLen]
			streamStart += streamLen

			if isAllZero(stream) {
				writeInt32(&blockData, 0)
				continue
			}

			compressed, err := innerCompress(opts.Cname, stream, opts.Clevel)
			if err != nil {
				return nil, err
			}

			if len(compressed) >= len(stream) {
				writeInt32(&blockData, int32(len(stream)))
				blockData.Write(stream)
			} else {
				writeInt32(&blockData, int32(len(compressed)))
				blockData.Write(compressed)
			}
		}
	}

	var frame bytes.Buffer
	frame.Write(header.Bytes())
	for _, v := range bstarts {
		writeInt32(&frame, v)
	}
	frame.Write(blockData.Bytes())

	if frame.Len() >= HeaderSize+nbytes {
		// The split/compress pipeline didn't pay for itself; fall back
		// to a flat memcpy frame (flagMemcpy, no bstarts).
		header.Memcpy = true
		header.DoSplit = false
		header.CBytes = uint32(HeaderSize + nbytes)
		var mf bytes.Buffer
		mf.Write(header.Bytes())
		mf.Write(data)
		return mf.Bytes(), nil
	}

	header.CBytes = uint32(frame.Len())
	out := frame.Bytes()
	copy(out[:HeaderSize], header.Bytes())
	return out, nil
}

func writeInt32(buf *bytes.Buffer, v int32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	buf.Write(b[:])
}

func readInt32(data []byte, off int) (int32, error) {
	if off+4 > len(data) {
		return 0, fmt.Errorf("%w: blosc frame truncated reading int32 at offset %d", zarrerr.ErrChunkCorrupt, off)
	}
	return int32(binary.LittleEndian.Uint32(data[off : off+4])), nil
}

// Decode decompresses a complete blosc frame, bit-exactly reversing
// Encode regardless of which writer produced it (subject to the
// supported inner-codec/shuffle subset).
func Decode(data []byte) ([]byte, error) {
	header, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	nbytes := int(header.NBytes)
	if header.Memcpy {
		if HeaderSize+nbytes > len(data) {
			return nil, fmt.Errorf("%w: blosc memcpy frame shorter than declared nbytes", zarrerr.ErrChunkCorrupt)
		}
		out := make([]byte, nbytes)
		copy(out, data[HeaderSize:HeaderSize+nbytes])
		return out, nil
	}

	blocksize := int(header.BlockSize)
	if blocksize <= 0 {
		if nbytes == 0 {
			return []byte{}, nil
		}
		return nil, fmt.Errorf("%w: blosc frame has zero blocksize", zarrerr.ErrChunkCorrupt)
	}
	nBlocks := (nbytes + blocksize - 1) / blocksize

	bstarts := make([]int32, nBlocks)
	for i := 0; i < nBlocks; i++ {
		v, err := readInt32(data, HeaderSize+4*i)
		if err != nil {
			return nil, err
		}
		bstarts[i] = v
	}

	split := header.splitActive()
	numStreams := 1
	if split {
		numStreams = header.TypeSize
	}

	out := make([]byte, nbytes)
	for i := 0; i < nBlocks; i++ {
		start := i * blocksize
		end := start + blocksize
		if end > nbytes {
			end = nbytes
		}
		blockLen := end - start

		cursor := int(bstarts[i])
		shuffled := make([]byte, 0, blockLen)

		for s := 0; s < numStreams; s++ {
			streamLen := streamBounds(blockLen, numStreams, s)
			csize, err := readInt32(data, cursor)
			if err != nil {
				return nil, err
			}
			cursor += 4

			if csize == 0 {
				shuffled = append(shuffled, make([]byte, streamLen)...)
				continue
			}
			if cursor+int(csize) > len(data) {
				return nil, fmt.Errorf("%w: blosc stream exceeds frame bounds", zarrerr.ErrChunkCorrupt)
			}
			payload := data[cursor : cursor+int(csize)]
			cursor += int(csize)

			if int(csize) >= streamLen {
				shuffled = append(shuffled, payload...)
				continue
			}
			decompressed, err := innerDecompress(header.Inner, payload, streamLen)
			if err != nil {
				return nil, err
			}
			if len(decompressed) != streamLen {
				return nil, fmt.Errorf("%w: blosc stream decompressed to %d bytes, expected %d", zarrerr.ErrChunkCorrupt, len(decompressed), streamLen)
			}
			shuffled = append(shuffled, decompressed...)
		}

		var rawBlock []byte
		if header.ByteShuffle {
			rawBlock = unshuffleBytes(shuffled, header.TypeSize)
		} else {
			rawBlock = shuffled
		}
		copy(out[start:end], rawBlock)
	}

	return out, nil
}
