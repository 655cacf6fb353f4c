package node

import (
	"encoding/json"
	"fmt"

	"github.com/ngff-go/zarrgo/zarrerr"
)

// Axis describes one dimension of a multiscale image (spec §6.4).
type Axis struct {
	Name string
	Type string
	Unit string
}

type axisDoc struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
	Unit string `json:"unit,omitempty"`
}

// legacyAxisOrder is the fixed (t, c, z, y, x) axis suffix spec §9 and
// §4.7 specify for overlays that predate the axes field.
var legacyAxisOrder = []Axis{
	{Name: "t", Type: "time"},
	{Name: "c", Type: "channel"},
	{Name: "z", Type: "space"},
	{Name: "y", Type: "space"},
	{Name: "x", Type: "space"},
}

// axesFromRank infers axes as the suffix of (t, c, z, y, x) matching
// rank. Ranks beyond 5 are not guessed (spec §9).
func axesFromRank(rank int) ([]Axis, error) {
	if rank <= 0 || rank > len(legacyAxisOrder) {
		return nil, fmt.Errorf("%w: cannot infer axes for rank %d beyond 5", zarrerr.ErrUnsupported, rank)
	}
	out := make([]Axis, rank)
	copy(out, legacyAxisOrder[len(legacyAxisOrder)-rank:])
	return out, nil
}

// parseAxes accepts both the current object form ([{name,type,unit}])
// and "very old" overlays that declare axes as a plain list of
// dimension-name strings (spec §6.4).
func parseAxes(raw json.RawMessage) ([]Axis, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var objs []axisDoc
	if err := json.Unmarshal(raw, &objs); err == nil {
		out := make([]Axis, len(objs))
		for i, a := range objs {
			out[i] = Axis{Name: a.Name, Type: a.Type, Unit: a.Unit}
		}
		return out, nil
	}

	var names []string
	if err := json.Unmarshal(raw, &names); err == nil {
		out := make([]Axis, len(names))
		for i, n := range names {
			out[i] = Axis{Name: n}
		}
		return out, nil
	}

	return nil, fmt.Errorf("%w: axes field is neither an object list nor a string list", zarrerr.ErrMetadataInvalid)
}
