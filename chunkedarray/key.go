package chunkedarray

import (
	"strconv"
	"strings"

	"github.com/ngff-go/zarrgo/zarrmeta"
)

// chunkKey builds the store key for a chunk at coords, per spec §4.4.1:
// v3 inserts a literal "c" segment ahead of the coordinates, joining
// both with the metadata's separator ('/' or '.'); v2 joins coordinates
// directly with the declared (or probed) separator. coords may be empty for a 0-dimensional array, in
// which case the conventional key is "0".
func chunkKey(meta *zarrmeta.ArrayMetadata, coords []int64) string {
	sep := string(meta.ChunkKeySeparator)

	var coordPart string
	if len(coords) == 0 {
		coordPart = "0"
	} else {
		parts := make([]string, len(coords))
		for i, c := range coords {
			parts[i] = strconv.FormatInt(c, 10)
		}
		if meta.LayoutVersion == zarrmeta.V3 {
			coordPart = "c" + sep + strings.Join(parts, sep)
		} else {
			coordPart = strings.Join(parts, sep)
		}
	}

	if meta.ArrayPath == "" {
		return coordPart
	}
	return meta.ArrayPath + "/" + coordPart
}
