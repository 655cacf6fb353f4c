package codec

import "fmt"

// Pipeline holds an ordered list of codec descriptors plus the element
// size, and threads the element size to whichever codec in the chain is
// the boundary codec (spec §4.3). Decode applies codecs in reverse
// pipeline order; Encode applies them forward.
type Pipeline struct {
	codecs      []Codec
	elementSize int
}

// NewPipeline builds a live Pipeline from an ordered list of
// descriptors. The first descriptor is conventionally the boundary
// codec (spec §3's "first entry is always the array-to-bytes boundary
// codec"), but Pipeline only relies on ElementAware to find it, not on
// position, so a resolver that orders things differently still works.
func NewPipeline(descriptors []Descriptor, elementSize int) (*Pipeline, error) {
	codecs := make([]Codec, len(descriptors))
	for i, d := range descriptors {
		c, err := Build(d)
		if err != nil {
			return nil, fmt.Errorf("codec %d: %w", i, err)
		}
		if aware, ok := c.(ElementAware); ok {
			c = aware.WithElementSize(elementSize)
		}
		codecs[i] = c
	}
	return &Pipeline{codecs: codecs, elementSize: elementSize}, nil
}

// Decode applies the chain in reverse order: the last-applied encode
// step is undone first.
func (p *Pipeline) Decode(data []byte) ([]byte, error) {
	var err error
	for i := len(p.codecs) - 1; i >= 0; i-- {
		data, err = p.codecs[i].Decode(data)
		if err != nil {
			return nil, fmt.Errorf("codec %d decode: %w", i, err)
		}
	}
	return data, nil
}

// Encode applies the chain in forward order.
func (p *Pipeline) Encode(data []byte) ([]byte, error) {
	var err error
	for i := 0; i < len(p.codecs); i++ {
		data, err = p.codecs[i].Encode(data)
		if err != nil {
			return nil, fmt.Errorf("codec %d encode: %w", i, err)
		}
	}
	return data, nil
}
