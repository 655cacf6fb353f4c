// Package node implements the node overlay of spec.md §4.7: typed
// navigation over groups and arrays as multiscale images, HCS plate/
// well/field hierarchies, and label groups, built on top of the group
// navigator and the coordinate service.
package node

import (
	"encoding/json"
	"fmt"

	"github.com/ngff-go/zarrgo/coords"
	"github.com/ngff-go/zarrgo/zarrerr"
)

// Kind is the closed set of overlay classifications spec §6.4 names.
type Kind int

const (
	KindUnknown Kind = iota
	KindMultiscaleImage
	KindPlate
	KindWell
	KindLabelGroup
)

func (k Kind) String() string {
	switch k {
	case KindMultiscaleImage:
		return "multiscale"
	case KindPlate:
		return "plate"
	case KindWell:
		return "well"
	case KindLabelGroup:
		return "labels"
	default:
		return "unknown"
	}
}

type transformDoc struct {
	Type        string    `json:"type"`
	Scale       []float64 `json:"scale,omitempty"`
	Translation []float64 `json:"translation,omitempty"`
}

func (d transformDoc) toTransform() (coords.Transform, error) {
	switch d.Type {
	case "identity":
		return coords.Transform{Kind: coords.Identity}, nil
	case "scale":
		return coords.Transform{Kind: coords.Scale, Vector: d.Scale}, nil
	case "translation":
		return coords.Transform{Kind: coords.Translation, Vector: d.Translation}, nil
	default:
		return coords.Transform{}, fmt.Errorf("%w: coordinate transform type %q", zarrerr.ErrUnsupported, d.Type)
	}
}

func toTransforms(docs []transformDoc) ([]coords.Transform, error) {
	out := make([]coords.Transform, len(docs))
	for i, d := range docs {
		t, err := d.toTransform()
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

type datasetDoc struct {
	Path                    string         `json:"path"`
	CoordinateTransformations []transformDoc `json:"coordinateTransformations,omitempty"`
}

type multiscaleDoc struct {
	Axes                       json.RawMessage `json:"axes,omitempty"`
	Datasets                   []datasetDoc    `json:"datasets"`
	CoordinateTransformations  []transformDoc  `json:"coordinateTransformations,omitempty"`
}

type plateColumnDoc struct {
	Name string `json:"name"`
}

type plateRowDoc struct {
	Name string `json:"name"`
}

type plateWellDoc struct {
	Path        string `json:"path"`
	RowIndex    int    `json:"rowIndex"`
	ColumnIndex int    `json:"columnIndex"`
}

type plateDoc struct {
	Columns    []plateColumnDoc `json:"columns"`
	Rows       []plateRowDoc    `json:"rows"`
	Wells      []plateWellDoc   `json:"wells"`
	FieldCount int              `json:"field_count,omitempty"`
}

type wellImageDoc struct {
	Path        string `json:"path"`
	Acquisition int    `json:"acquisition,omitempty"`
}

type wellDoc struct {
	Images []wellImageDoc `json:"images"`
}

type rawAttrs struct {
	Multiscales []multiscaleDoc `json:"multiscales,omitempty"`
	Plate       *plateDoc       `json:"plate,omitempty"`
	Well        *wellDoc        `json:"well,omitempty"`
	Labels      []string        `json:"labels,omitempty"`
}

// classify parses a group's raw attributes JSON and reports which
// overlay kind it declares, per the precedence multiscales > plate >
// well > labels > unknown (spec §6.4: unrecognized top-level overlay
// kinds classify as Unknown rather than erroring).
func classify(raw json.RawMessage) (Kind, rawAttrs, error) {
	if len(raw) == 0 {
		return KindUnknown, rawAttrs{}, nil
	}
	var doc rawAttrs
	if err := json.Unmarshal(raw, &doc); err != nil {
		return KindUnknown, rawAttrs{}, fmt.Errorf("%w: overlay attributes: %v", zarrerr.ErrMetadataInvalid, err)
	}
	switch {
	case len(doc.Multiscales) > 0:
		return KindMultiscaleImage, doc, nil
	case doc.Plate != nil:
		return KindPlate, doc, nil
	case doc.Well != nil:
		return KindWell, doc, nil
	case doc.Labels != nil:
		return KindLabelGroup, doc, nil
	default:
		return KindUnknown, doc, nil
	}
}
