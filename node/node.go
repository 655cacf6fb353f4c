package node

import (
	"context"

	"github.com/ngff-go/zarrgo/group"
)

// Node is the result of classifying a group (or bare array) under the
// overlay model: exactly one of Multiscale, Plate, Well, or Labels is
// set, matching Kind, unless Kind is KindUnknown.
type Node struct {
	Kind Kind
	Path string

	Multiscale *MultiscaleImage
	Plate      *Plate
	Well       *Well
	Labels     *LabelGroup
}

// Open navigates to path via nav and classifies it into a typed overlay
// node (spec §4.7). A bare array (no group attributes to classify) is
// wrapped as a single-level multiscale image with axes inferred from
// its rank and no coordinate transforms beyond identity.
func Open(ctx context.Context, nav *group.Navigator, path string) (*Node, error) {
	n, err := nav.Open(ctx, path)
	if err != nil {
		return nil, err
	}

	if n.Kind == group.NodeArray {
		rank := n.Array.Metadata().Rank()
		axes, err := axesFromRank(rank)
		if err != nil {
			return nil, err
		}
		ms := &MultiscaleImage{
			nav:    nav,
			path:   path,
			Axes:   axes,
			Levels: []Level{{Path: ""}},
		}
		return &Node{Kind: KindMultiscaleImage, Path: path, Multiscale: ms}, nil
	}

	kind, doc, err := classify(n.Group.RawAttributes)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindMultiscaleImage:
		ms, err := newMultiscaleImage(nav, path, doc.Multiscales[0])
		if err != nil {
			return nil, err
		}
		return &Node{Kind: kind, Path: path, Multiscale: ms}, nil
	case KindPlate:
		return &Node{Kind: kind, Path: path, Plate: newPlate(nav, path, doc.Plate)}, nil
	case KindWell:
		images := make([]WellImage, len(doc.Well.Images))
		for i, img := range doc.Well.Images {
			images[i] = WellImage{Path: img.Path, Acquisition: img.Acquisition}
		}
		return &Node{Kind: kind, Path: path, Well: &Well{nav: nav, path: path, Images: images}}, nil
	case KindLabelGroup:
		return &Node{Kind: kind, Path: path, Labels: &LabelGroup{nav: nav, path: path, Names: doc.Labels}}, nil
	default:
		// Unrecognized top-level overlay attributes classify as Unknown
		// rather than erroring (spec §6.4); callers interrogate Node.Kind.
		return &Node{Kind: KindUnknown, Path: path}, nil
	}
}
