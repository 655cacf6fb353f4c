package zarrmeta

import (
	"encoding/json"
	"fmt"

	"github.com/ngff-go/zarrgo/codec"
	"github.com/ngff-go/zarrgo/dtype"
	"github.com/ngff-go/zarrgo/zarrerr"
)

type v3ChunkGridDoc struct {
	Name          string `json:"name"`
	Configuration struct {
		ChunkShape []int `json:"chunk_shape"`
	} `json:"configuration"`
}

type v3ChunkKeyEncodingDoc struct {
	Name          string `json:"name"`
	Configuration struct {
		Separator string `json:"separator"`
	} `json:"configuration"`
}

type v3CodecDoc struct {
	Name          string         `json:"name"`
	Configuration map[string]any `json:"configuration"`
}

// v3NodeDoc covers both array and group `zarr.json` documents; which
// fields are required depends on NodeType.
type v3NodeDoc struct {
	ZarrFormat        int                    `json:"zarr_format"`
	NodeType          string                 `json:"node_type"`
	Shape             []int64                `json:"shape,omitempty"`
	DataType          string                 `json:"data_type,omitempty"`
	ChunkGrid         *v3ChunkGridDoc        `json:"chunk_grid,omitempty"`
	ChunkKeyEncoding  *v3ChunkKeyEncodingDoc `json:"chunk_key_encoding,omitempty"`
	Codecs            []v3CodecDoc           `json:"codecs,omitempty"`
	FillValue         any                    `json:"fill_value,omitempty"`
	DimensionNames    []string               `json:"dimension_names,omitempty"`
	Attributes        json.RawMessage        `json:"attributes,omitempty"`
}

// NodeTypeOf peeks at a `zarr.json` document's node_type without fully
// parsing it, so the group navigator can dispatch without duplicating
// JSON decoding.
func NodeTypeOf(zarrJSON []byte) (string, error) {
	var doc struct {
		ZarrFormat int    `json:"zarr_format"`
		NodeType   string `json:"node_type"`
	}
	if err := json.Unmarshal(zarrJSON, &doc); err != nil {
		return "", fmt.Errorf("%w: zarr.json: %v", zarrerr.ErrMetadataInvalid, err)
	}
	if doc.ZarrFormat != 3 {
		return "", fmt.Errorf("%w: zarr.json zarr_format %d, expected 3", zarrerr.ErrMetadataInvalid, doc.ZarrFormat)
	}
	return doc.NodeType, nil
}

// ParseV3Array parses a v3 `zarr.json` array node document.
func ParseV3Array(zarrJSON []byte, arrayPath string) (*ArrayMetadata, error) {
	var doc v3NodeDoc
	if err := json.Unmarshal(zarrJSON, &doc); err != nil {
		return nil, fmt.Errorf("%w: zarr.json: %v", zarrerr.ErrMetadataInvalid, err)
	}
	if doc.ZarrFormat != 3 {
		return nil, fmt.Errorf("%w: zarr.json zarr_format %d, expected 3", zarrerr.ErrMetadataInvalid, doc.ZarrFormat)
	}
	if doc.NodeType != "array" {
		return nil, fmt.Errorf("%w: zarr.json node_type %q, expected array", zarrerr.ErrMetadataInvalid, doc.NodeType)
	}
	if len(doc.Shape) == 0 {
		return nil, fmt.Errorf("%w: zarr.json shape must have rank >= 1", zarrerr.ErrMetadataInvalid)
	}
	if doc.ChunkGrid == nil || doc.ChunkGrid.Name != "regular" {
		return nil, fmt.Errorf("%w: zarr.json chunk_grid must be {name: regular}", zarrerr.ErrUnsupported)
	}
	if len(doc.ChunkGrid.Configuration.ChunkShape) != len(doc.Shape) {
		return nil, fmt.Errorf("%w: zarr.json chunk_shape rank does not match shape rank", zarrerr.ErrMetadataInvalid)
	}
	for _, c := range doc.ChunkGrid.Configuration.ChunkShape {
		if c <= 0 {
			return nil, fmt.Errorf("%w: zarr.json chunk_shape must be positive", zarrerr.ErrMetadataInvalid)
		}
	}
	if doc.DimensionNames != nil && len(doc.DimensionNames) != len(doc.Shape) {
		return nil, fmt.Errorf("%w: zarr.json dimension_names rank does not match shape rank", zarrerr.ErrMetadataInvalid)
	}

	kind, err := dtype.ParseV3(doc.DataType)
	if err != nil {
		return nil, err
	}

	sep := byte('/')
	if doc.ChunkKeyEncoding != nil {
		if doc.ChunkKeyEncoding.Name != "default" {
			return nil, fmt.Errorf("%w: chunk_key_encoding name %q", zarrerr.ErrUnsupported, doc.ChunkKeyEncoding.Name)
		}
		switch doc.ChunkKeyEncoding.Configuration.Separator {
		case "/", "":
			sep = '/'
		case ".":
			sep = '.'
		default:
			return nil, fmt.Errorf("%w: chunk_key_encoding separator %q", zarrerr.ErrMetadataInvalid, doc.ChunkKeyEncoding.Configuration.Separator)
		}
	}

	chain, err := v3CodecsToChain(doc.Codecs)
	if err != nil {
		return nil, err
	}

	return &ArrayMetadata{
		Shape:             doc.Shape,
		ChunkShape:        doc.ChunkGrid.Configuration.ChunkShape,
		Kind:              kind,
		ElementSize:       kind.ElementSize(),
		CodecChain:        chain,
		ChunkKeySeparator: sep,
		LayoutVersion:     V3,
		DimensionNames:    doc.DimensionNames,
		ArrayPath:         arrayPath,
		RawAttributes:     doc.Attributes,
		FillValue:         doc.FillValue,
	}, nil
}

func v3CodecsToChain(codecs []v3CodecDoc) ([]codec.Descriptor, error) {
	if len(codecs) == 0 {
		return nil, fmt.Errorf("%w: zarr.json codecs must be non-empty", zarrerr.ErrMetadataInvalid)
	}

	chain := make([]codec.Descriptor, 0, len(codecs))
	for i, c := range codecs {
		d, err := v3CodecToDescriptor(c)
		if err != nil {
			return nil, fmt.Errorf("codec %d: %w", i, err)
		}
		chain = append(chain, d)
	}
	if chain[0].Kind != codec.KindBoundary {
		return nil, fmt.Errorf("%w: zarr.json codecs[0] must be the \"bytes\" boundary codec", zarrerr.ErrMetadataInvalid)
	}
	return chain, nil
}

func v3CodecToDescriptor(c v3CodecDoc) (codec.Descriptor, error) {
	switch c.Name {
	case "bytes":
		endian, _ := c.Configuration["endian"].(string)
		if endian == "" {
			endian = "little"
		}
		return codec.Descriptor{Kind: codec.KindBoundary, Endian: endian}, nil
	case "gzip":
		return codec.Descriptor{Kind: codec.KindGzip, Level: intField(c.Configuration, "level")}, nil
	case "zstd":
		return codec.Descriptor{Kind: codec.KindZstd, Level: intField(c.Configuration, "level")}, nil
	case "blosc":
		shuffle, err := normalizeShuffle(c.Configuration["shuffle"])
		if err != nil {
			return codec.Descriptor{}, err
		}
		cname, _ := c.Configuration["cname"].(string)
		return codec.Descriptor{
			Kind:           codec.KindBlosc,
			BloscCname:     cname,
			BloscClevel:    intField(c.Configuration, "clevel"),
			BloscShuffle:   shuffle,
			BloscTypeSize:  intField(c.Configuration, "typesize"),
			BloscBlockSize: intField(c.Configuration, "blocksize"),
		}, nil
	case "sharding_indexed":
		return codec.Descriptor{}, fmt.Errorf("%w: sharding codec", zarrerr.ErrUnsupported)
	default:
		return codec.Descriptor{}, fmt.Errorf("%w: codec %q", zarrerr.ErrUnsupported, c.Name)
	}
}

func intField(m map[string]any, key string) int {
	if v, ok := m[key]; ok {
		if f, ok := v.(float64); ok {
			return int(f)
		}
	}
	return 0
}

// ParseV3Group parses a v3 `zarr.json` group node document.
func ParseV3Group(zarrJSON []byte) (*GroupMetadata, error) {
	var doc v3NodeDoc
	if err := json.Unmarshal(zarrJSON, &doc); err != nil {
		return nil, fmt.Errorf("%w: zarr.json: %v", zarrerr.ErrMetadataInvalid, err)
	}
	if doc.ZarrFormat != 3 {
		return nil, fmt.Errorf("%w: zarr.json zarr_format %d, expected 3", zarrerr.ErrMetadataInvalid, doc.ZarrFormat)
	}
	if doc.NodeType != "group" {
		return nil, fmt.Errorf("%w: zarr.json node_type %q, expected group", zarrerr.ErrMetadataInvalid, doc.NodeType)
	}
	return &GroupMetadata{LayoutVersion: V3, RawAttributes: doc.Attributes}, nil
}
