// Package coords implements the coordinate service of spec.md §4.6:
// composing dataset- and multiscale-level coordinate transforms into a
// single per-axis (scale, translation) pair, converting between
// physical and index coordinates, and clamping/snapping physical
// regions to array bounds.
package coords

import (
	"fmt"

	"github.com/ngff-go/zarrgo/zarrerr"
)

// Kind is the closed set of coordinate transform types an overlay
// document may declare (spec §3, §6.4).
type Kind int

const (
	Identity Kind = iota
	Scale
	Translation
)

// Transform is one step of an ordered coordinate transform list.
// Vector is unused for Identity.
type Transform struct {
	Kind   Kind
	Vector []float64
}

// Compose folds an ordered list of transforms into a single per-axis
// (scale, translation) pair, starting from scale=1, translation=0 on
// every axis (spec §4.6). Dataset-level transforms must precede
// multiscale-level transforms in transforms; Compose itself only
// applies them in the order given.
func Compose(rank int, transforms []Transform) (scale, translation []float64, err error) {
	scale = make([]float64, rank)
	translation = make([]float64, rank)
	for d := range scale {
		scale[d] = 1
	}

	for i, t := range transforms {
		switch t.Kind {
		case Identity:
			continue
		case Scale:
			if len(t.Vector) != rank {
				return nil, nil, fmt.Errorf("%w: transform %d: scale vector has rank %d, expected %d", zarrerr.ErrMetadataInvalid, i, len(t.Vector), rank)
			}
			for d := 0; d < rank; d++ {
				translation[d] *= t.Vector[d]
				scale[d] *= t.Vector[d]
			}
		case Translation:
			if len(t.Vector) != rank {
				return nil, nil, fmt.Errorf("%w: transform %d: translation vector has rank %d, expected %d", zarrerr.ErrMetadataInvalid, i, len(t.Vector), rank)
			}
			for d := 0; d < rank; d++ {
				translation[d] += t.Vector[d]
			}
		default:
			return nil, nil, fmt.Errorf("%w: transform %d has unrecognized kind", zarrerr.ErrUnsupported, i)
		}
	}

	return scale, translation, nil
}
