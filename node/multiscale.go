package node

import (
	"context"
	"fmt"

	"github.com/ngff-go/zarrgo/chunkedarray"
	"github.com/ngff-go/zarrgo/coords"
	"github.com/ngff-go/zarrgo/group"
	"github.com/ngff-go/zarrgo/zarrerr"
)

// Level is one resolution dataset of a multiscale image: an array path
// relative to the group, plus its own coordinate transform list.
type Level struct {
	Path       string
	Transforms []coords.Transform
}

// MultiscaleImage is a family of resolution levels describing the same
// image at different scales (spec §3, §4.7).
type MultiscaleImage struct {
	nav  *group.Navigator
	path string

	Axes          []Axis
	Levels        []Level
	TopTransforms []coords.Transform
}

func newMultiscaleImage(nav *group.Navigator, path string, doc multiscaleDoc) (*MultiscaleImage, error) {
	if len(doc.Datasets) == 0 {
		return nil, fmt.Errorf("%w: multiscale at %q declares no datasets", zarrerr.ErrMetadataInvalid, path)
	}

	axes, err := parseAxes(doc.Axes)
	if err != nil {
		return nil, err
	}

	top, err := toTransforms(doc.CoordinateTransformations)
	if err != nil {
		return nil, err
	}

	levels := make([]Level, len(doc.Datasets))
	for i, ds := range doc.Datasets {
		t, err := toTransforms(ds.CoordinateTransformations)
		if err != nil {
			return nil, err
		}
		levels[i] = Level{Path: ds.Path, Transforms: t}
	}

	return &MultiscaleImage{nav: nav, path: path, Axes: axes, Levels: levels, TopTransforms: top}, nil
}

// ResolvedLevel is one opened resolution level: a ready-to-read array
// plus the coordinate service composed from its dataset transform and
// the multiscale's top-level transform.
type ResolvedLevel struct {
	Array *chunkedarray.ChunkedArray
	Coords *coords.Service
}

// ReadPhysicalRegion converts a physical-space ROI to a pixel region
// (clamped to the array's bounds) and reads it.
func (l *ResolvedLevel) ReadPhysicalRegion(ctx context.Context, origin, size []float64) ([]byte, error) {
	start, end, err := l.Coords.PhysicalToPixelRegion(origin, size, l.Array.Shape())
	if err != nil {
		return nil, err
	}
	return l.Array.ReadRegion(ctx, start, end)
}

// OpenLevel opens the i'th resolution level (0 = highest resolution,
// per spec §6.4 dataset ordering) and resolves its coordinate service.
func (m *MultiscaleImage) OpenLevel(ctx context.Context, i int) (*ResolvedLevel, error) {
	if i < 0 || i >= len(m.Levels) {
		return nil, fmt.Errorf("%w: level index %d out of range (have %d)", zarrerr.ErrInvalidRegion, i, len(m.Levels))
	}
	lvl := m.Levels[i]

	n, err := m.nav.Open(ctx, joinPath(m.path, lvl.Path))
	if err != nil {
		return nil, err
	}
	if n.Kind != group.NodeArray {
		return nil, fmt.Errorf("%w: dataset path %q is not an array", zarrerr.ErrMetadataInvalid, lvl.Path)
	}

	rank := n.Array.Metadata().Rank()
	axes := m.Axes
	if axes == nil {
		axes, err = axesFromRank(rank)
		if err != nil {
			return nil, err
		}
		m.Axes = axes
	}

	svc, err := coords.NewService(rank, lvl.Transforms, m.TopTransforms)
	if err != nil {
		return nil, err
	}
	return &ResolvedLevel{Array: n.Array, Coords: svc}, nil
}

func joinPath(path, suffix string) string {
	if suffix == "" {
		return path
	}
	if path == "" {
		return suffix
	}
	return path + "/" + suffix
}
