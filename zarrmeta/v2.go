package zarrmeta

import (
	"encoding/json"
	"fmt"

	"github.com/ngff-go/zarrgo/codec"
	"github.com/ngff-go/zarrgo/dtype"
	"github.com/ngff-go/zarrgo/zarrerr"
)

// v2CompressorDoc is the `.zarray` `compressor` field, covering both
// the simple zlib/gzip form and blosc's richer configuration.
type v2CompressorDoc struct {
	ID      string `json:"id"`
	Level   int    `json:"level,omitempty"`
	Cname   string `json:"cname,omitempty"`
	Clevel  int    `json:"clevel,omitempty"`
	Shuffle any    `json:"shuffle,omitempty"` // "noshuffle"/"byteshuffle" or 0/1
	TypeSz  int    `json:"typesize,omitempty"`
	BlkSize int    `json:"blocksize,omitempty"`
}

// v2ArrayDoc is the `.zarray` document (spec.md §6.2).
type v2ArrayDoc struct {
	ZarrFormat        int               `json:"zarr_format"`
	Shape             []int64           `json:"shape"`
	Chunks            []int             `json:"chunks"`
	DType             string            `json:"dtype"`
	Compressor        *v2CompressorDoc  `json:"compressor"`
	FillValue         any               `json:"fill_value"`
	Order             string            `json:"order"`
	DimensionSeparator *string          `json:"dimension_separator,omitempty"`
}

// v2GroupDoc is the `.zgroup` document.
type v2GroupDoc struct {
	ZarrFormat int `json:"zarr_format"`
}

// ParseV2Array parses a `.zarray` document. attrs is the raw contents
// of the sibling `.zattrs` file, or nil if absent.
func ParseV2Array(zarrayJSON, attrsJSON []byte, arrayPath string) (*ArrayMetadata, error) {
	var doc v2ArrayDoc
	if err := json.Unmarshal(zarrayJSON, &doc); err != nil {
		return nil, fmt.Errorf("%w: .zarray: %v", zarrerr.ErrMetadataInvalid, err)
	}
	if doc.ZarrFormat != 2 {
		return nil, fmt.Errorf("%w: .zarray zarr_format %d, expected 2", zarrerr.ErrMetadataInvalid, doc.ZarrFormat)
	}
	if len(doc.Shape) == 0 {
		return nil, fmt.Errorf("%w: .zarray shape must have rank >= 1", zarrerr.ErrMetadataInvalid)
	}
	if len(doc.Chunks) != len(doc.Shape) {
		return nil, fmt.Errorf("%w: .zarray chunks rank does not match shape rank", zarrerr.ErrMetadataInvalid)
	}
	if doc.Order != "" && doc.Order != "C" {
		return nil, fmt.Errorf("%w: .zarray order %q", zarrerr.ErrUnsupported, doc.Order)
	}
	for _, c := range doc.Chunks {
		if c <= 0 {
			return nil, fmt.Errorf("%w: .zarray chunk shape must be positive", zarrerr.ErrMetadataInvalid)
		}
	}

	kind, endian, err := dtype.ParseNumpy(doc.DType)
	if err != nil {
		return nil, err
	}

	boundaryEndian := "little"
	if endian == dtype.Big {
		boundaryEndian = "big"
	}

	chain := []codec.Descriptor{{Kind: codec.KindBoundary, Endian: boundaryEndian}}
	if doc.Compressor != nil {
		d, err := v2CompressorToDescriptor(*doc.Compressor)
		if err != nil {
			return nil, err
		}
		chain = append(chain, d)
	}

	sep := separatorUnknown
	if doc.DimensionSeparator != nil {
		if *doc.DimensionSeparator != "." && *doc.DimensionSeparator != "/" {
			return nil, fmt.Errorf("%w: .zarray dimension_separator %q", zarrerr.ErrMetadataInvalid, *doc.DimensionSeparator)
		}
		sep = (*doc.DimensionSeparator)[0]
	}

	return &ArrayMetadata{
		Shape:             doc.Shape,
		ChunkShape:        doc.Chunks,
		Kind:              kind,
		ElementSize:       kind.ElementSize(),
		CodecChain:        chain,
		ChunkKeySeparator: sep,
		LayoutVersion:     V2,
		ArrayPath:         arrayPath,
		RawAttributes:     json.RawMessage(attrsJSON),
		FillValue:         doc.FillValue,
	}, nil
}

func v2CompressorToDescriptor(c v2CompressorDoc) (codec.Descriptor, error) {
	switch c.ID {
	case "gzip", "zlib":
		return codec.Descriptor{Kind: codec.KindGzip, Level: c.Level}, nil
	case "zstd":
		return codec.Descriptor{Kind: codec.KindZstd, Level: c.Level}, nil
	case "blosc":
		shuffle, err := normalizeShuffle(c.Shuffle)
		if err != nil {
			return codec.Descriptor{}, err
		}
		return codec.Descriptor{
			Kind:           codec.KindBlosc,
			BloscCname:     c.Cname,
			BloscClevel:    c.Clevel,
			BloscShuffle:   shuffle,
			BloscTypeSize:  c.TypeSz,
			BloscBlockSize: c.BlkSize,
		}, nil
	default:
		return codec.Descriptor{}, fmt.Errorf("%w: compressor id %q", zarrerr.ErrUnsupported, c.ID)
	}
}

// normalizeShuffle accepts either the string form ("noshuffle" /
// "byteshuffle") or the legacy integer form (0 / 1) per spec §6.2.
func normalizeShuffle(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "noshuffle", nil
	case string:
		return t, nil
	case float64:
		switch int(t) {
		case 0:
			return "noshuffle", nil
		case 1:
			return "byteshuffle", nil
		default:
			return "", fmt.Errorf("%w: blosc shuffle integer %v", zarrerr.ErrUnsupported, t)
		}
	default:
		return "", fmt.Errorf("%w: blosc shuffle value %v", zarrerr.ErrMetadataInvalid, v)
	}
}

// ParseV2Group parses a `.zgroup` document.
func ParseV2Group(zgroupJSON, attrsJSON []byte) (*GroupMetadata, error) {
	var doc v2GroupDoc
	if err := json.Unmarshal(zgroupJSON, &doc); err != nil {
		return nil, fmt.Errorf("%w: .zgroup: %v", zarrerr.ErrMetadataInvalid, err)
	}
	if doc.ZarrFormat != 2 {
		return nil, fmt.Errorf("%w: .zgroup zarr_format %d, expected 2", zarrerr.ErrMetadataInvalid, doc.ZarrFormat)
	}
	return &GroupMetadata{LayoutVersion: V2, RawAttributes: json.RawMessage(attrsJSON)}, nil
}
