package coords

import (
	"fmt"
	"math"

	"github.com/ngff-go/zarrgo/zarrerr"
)

// Service holds one resolved per-axis (scale, translation) mapping and
// converts between physical and index coordinates through it.
type Service struct {
	rank        int
	scale       []float64
	translation []float64
}

// NewService composes datasetTransforms followed by multiscaleTransforms
// (dataset-level transforms are applied first, per spec §4.6) into a
// Service for an array of the given rank.
func NewService(rank int, datasetTransforms, multiscaleTransforms []Transform) (*Service, error) {
	combined := make([]Transform, 0, len(datasetTransforms)+len(multiscaleTransforms))
	combined = append(combined, datasetTransforms...)
	combined = append(combined, multiscaleTransforms...)

	scale, translation, err := Compose(rank, combined)
	if err != nil {
		return nil, err
	}
	for d, s := range scale {
		if s == 0 {
			return nil, fmt.Errorf("%w: composed scale is zero on axis %d", zarrerr.ErrMetadataInvalid, d)
		}
	}

	return &Service{rank: rank, scale: scale, translation: translation}, nil
}

// Scale returns the composed per-axis scale.
func (s *Service) Scale() []float64 { return s.scale }

// Translation returns the composed per-axis translation.
func (s *Service) Translation() []float64 { return s.translation }

// PhysicalToIndex converts a physical-space point to index space:
// (p - translation) / scale.
func (s *Service) PhysicalToIndex(p []float64) ([]float64, error) {
	if len(p) != s.rank {
		return nil, fmt.Errorf("%w: point has rank %d, expected %d", zarrerr.ErrInvalidRegion, len(p), s.rank)
	}
	out := make([]float64, s.rank)
	for d := 0; d < s.rank; d++ {
		out[d] = (p[d] - s.translation[d]) / s.scale[d]
	}
	return out, nil
}

// IndexToPhysical converts an index-space point to physical space:
// scale*i + translation.
func (s *Service) IndexToPhysical(i []float64) ([]float64, error) {
	if len(i) != s.rank {
		return nil, fmt.Errorf("%w: point has rank %d, expected %d", zarrerr.ErrInvalidRegion, len(i), s.rank)
	}
	out := make([]float64, s.rank)
	for d := 0; d < s.rank; d++ {
		out[d] = s.scale[d]*i[d] + s.translation[d]
	}
	return out, nil
}

// PhysicalToPixelRegion converts a physical ROI (origin, size) into a
// half-open pixel region clamped to shape, per spec §4.6: start is
// floored and clamped down to 0, end is ceilinged and clamped up to
// shape, and any axis left degenerate by clamping is widened to one
// pixel so every returned axis has positive extent.
func (s *Service) PhysicalToPixelRegion(origin, size []float64, shape []int64) (start, end []int64, err error) {
	if len(origin) != s.rank || len(size) != s.rank || len(shape) != s.rank {
		return nil, nil, fmt.Errorf("%w: origin/size/shape rank mismatch", zarrerr.ErrInvalidRegion)
	}
	physEnd := make([]float64, s.rank)
	for d := 0; d < s.rank; d++ {
		if size[d] <= 0 {
			return nil, nil, fmt.Errorf("%w: physical size on axis %d must be positive", zarrerr.ErrInvalidRegion, d)
		}
		physEnd[d] = origin[d] + size[d]
	}

	idxStart, err := s.PhysicalToIndex(origin)
	if err != nil {
		return nil, nil, err
	}
	idxEnd, err := s.PhysicalToIndex(physEnd)
	if err != nil {
		return nil, nil, err
	}

	start = make([]int64, s.rank)
	end = make([]int64, s.rank)
	for d := 0; d < s.rank; d++ {
		lo, hi := idxStart[d], idxEnd[d]
		if lo > hi {
			lo, hi = hi, lo
		}

		pStart := int64(math.Floor(lo))
		if pStart < 0 {
			pStart = 0
		}
		pEnd := int64(math.Ceil(hi))
		if pEnd > shape[d] {
			pEnd = shape[d]
		}

		if pEnd <= pStart {
			if pStart >= shape[d] {
				pStart = shape[d] - 1
				pEnd = shape[d]
			} else {
				pEnd = pStart + 1
			}
		}

		start[d] = pStart
		end[d] = pEnd
	}

	return start, end, nil
}
