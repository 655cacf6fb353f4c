package codec

import (
	"bytes"
	"fmt"
	"io"

	kgzip "github.com/klauspost/compress/gzip"

	"github.com/ngff-go/zarrgo/zarrerr"
)

// Gzip is standard deflate wrapped in a gzip envelope, using
// klauspost/compress's drop-in gzip package (the teacher's compression
// stack) rather than the stdlib compress/gzip, for consistency with the
// rest of the codec pipeline's inner compressors.
type Gzip struct {
	level int
}

// gzipLevel maps the nominal level of spec §4.2 onto
// klauspost/compress/gzip's compression-level constants.
func gzipLevel(nominal int) int {
	switch {
	case nominal <= 0:
		return kgzip.NoCompression
	case nominal == 1:
		return kgzip.BestSpeed
	case nominal >= 7:
		return kgzip.BestCompression
	default:
		return kgzip.DefaultCompression
	}
}

// NewGzip builds a Gzip codec for the nominal level
// (0→none, 1→fastest, ≥7→smallest, else→default).
func NewGzip(nominalLevel int) *Gzip {
	return &Gzip{level: nominalLevel}
}

// Encode implements Codec.
func (g *Gzip) Encode(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := kgzip.NewWriterLevel(&buf, gzipLevel(g.level))
	if err != nil {
		return nil, fmt.Errorf("%w: gzip: %v", zarrerr.ErrUnsupported, err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("%w: gzip encode: %v", zarrerr.ErrChunkCorrupt, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%w: gzip encode: %v", zarrerr.ErrChunkCorrupt, err)
	}
	return buf.Bytes(), nil
}

// Decode implements Codec.
func (g *Gzip) Decode(data []byte) ([]byte, error) {
	r, err := kgzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: gzip decode: %v", zarrerr.ErrChunkCorrupt, err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: gzip decode: %v", zarrerr.ErrChunkCorrupt, err)
	}
	return out, nil
}
