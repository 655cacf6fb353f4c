package node

import (
	"context"
	"fmt"

	"github.com/ngff-go/zarrgo/group"
	"github.com/ngff-go/zarrgo/zarrerr"
)

// WellRef locates one well within a plate's row/column grid.
type WellRef struct {
	Path        string
	RowIndex    int
	ColumnIndex int
}

// Plate is an HCS plate: a grid of wells, each reachable by a relative
// group path (spec §4.7, §6.4).
type Plate struct {
	nav  *group.Navigator
	path string

	Rows       []string
	Columns    []string
	Wells      []WellRef
	FieldCount int
}

func newPlate(nav *group.Navigator, path string, doc *plateDoc) *Plate {
	rows := make([]string, len(doc.Rows))
	for i, r := range doc.Rows {
		rows[i] = r.Name
	}
	columns := make([]string, len(doc.Columns))
	for i, c := range doc.Columns {
		columns[i] = c.Name
	}
	wells := make([]WellRef, len(doc.Wells))
	for i, w := range doc.Wells {
		wells[i] = WellRef{Path: w.Path, RowIndex: w.RowIndex, ColumnIndex: w.ColumnIndex}
	}
	return &Plate{nav: nav, path: path, Rows: rows, Columns: columns, Wells: wells, FieldCount: doc.FieldCount}
}

// OpenWell navigates to one of the plate's wells by relative group path.
func (p *Plate) OpenWell(ctx context.Context, wellPath string) (*Well, error) {
	n, err := p.nav.Open(ctx, joinPath(p.path, wellPath))
	if err != nil {
		return nil, err
	}
	if n.Kind != group.NodeGroup {
		return nil, fmt.Errorf("%w: well path %q is not a group", zarrerr.ErrMetadataInvalid, wellPath)
	}

	kind, doc, err := classify(n.Group.RawAttributes)
	if err != nil {
		return nil, err
	}
	if kind != KindWell {
		return nil, fmt.Errorf("%w: %q does not declare well attributes", zarrerr.ErrMetadataInvalid, wellPath)
	}

	images := make([]WellImage, len(doc.Well.Images))
	for i, img := range doc.Well.Images {
		images[i] = WellImage{Path: img.Path, Acquisition: img.Acquisition}
	}
	return &Well{nav: p.nav, path: joinPath(p.path, wellPath), Images: images}, nil
}

// WellImage is one field-of-view image belonging to a well.
type WellImage struct {
	Path        string
	Acquisition int
}

// Well holds the field images acquired at one plate location.
type Well struct {
	nav  *group.Navigator
	path string

	Images []WellImage
}

// OpenField opens the i'th field image as a multiscale image.
func (w *Well) OpenField(ctx context.Context, i int) (*MultiscaleImage, error) {
	if i < 0 || i >= len(w.Images) {
		return nil, fmt.Errorf("%w: field index %d out of range (have %d)", zarrerr.ErrInvalidRegion, i, len(w.Images))
	}
	fieldPath := joinPath(w.path, w.Images[i].Path)

	n, err := w.nav.Open(ctx, fieldPath)
	if err != nil {
		return nil, err
	}
	if n.Kind != group.NodeGroup {
		return nil, fmt.Errorf("%w: field path %q is not a group", zarrerr.ErrMetadataInvalid, fieldPath)
	}

	kind, doc, err := classify(n.Group.RawAttributes)
	if err != nil {
		return nil, err
	}
	if kind != KindMultiscaleImage {
		return nil, fmt.Errorf("%w: field %q does not declare multiscale attributes", zarrerr.ErrMetadataInvalid, fieldPath)
	}
	return newMultiscaleImage(w.nav, fieldPath, doc.Multiscales[0])
}

// LabelGroup is a collection of label mask images sharing a parent
// image's grid (spec §4.7, §6.4's label overlay).
type LabelGroup struct {
	nav  *group.Navigator
	path string

	Names []string
}

// OpenLabel opens one named label mask as a multiscale image.
func (g *LabelGroup) OpenLabel(ctx context.Context, name string) (*MultiscaleImage, error) {
	found := false
	for _, n := range g.Names {
		if n == name {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: label %q not declared in labels group %q", zarrerr.ErrNotFound, name, g.path)
	}

	labelPath := joinPath(g.path, name)
	n, err := g.nav.Open(ctx, labelPath)
	if err != nil {
		return nil, err
	}
	if n.Kind != group.NodeGroup {
		return nil, fmt.Errorf("%w: label path %q is not a group", zarrerr.ErrMetadataInvalid, labelPath)
	}

	kind, doc, err := classify(n.Group.RawAttributes)
	if err != nil {
		return nil, err
	}
	if kind != KindMultiscaleImage {
		return nil, fmt.Errorf("%w: label %q does not declare multiscale attributes", zarrerr.ErrMetadataInvalid, labelPath)
	}
	return newMultiscaleImage(g.nav, labelPath, doc.Multiscales[0])
}
