package tile

import (
	"image"

	"github.com/bodgit/gbaconv/quant"
)

// DecodeIndices unpacks tile records back into one palette index per
// pixel, in the same row-major tile order produced by Encode.
func DecodeIndices(data []byte, depth BitDepth) ([]uint8, error) {
	if !depth.valid() {
		return nil, ErrBitDepth
	}
	if len(data)%depth.TileBytes() != 0 {
		return nil, errTruncated
	}

	if depth == Depth8 {
		out := make([]uint8, len(data))
		copy(out, data)
		return out, nil
	}

	out := make([]uint8, 0, len(data)*2)
	for _, b := range data {
		out = append(out, b&0x0f, b>>4)
	}
	return out, nil
}

// DecodeImage rebuilds a paletted image from tile records laid out
// widthTiles tiles per row. The record count must fill the grid exactly
// and every index must fall inside p.
func DecodeImage(data []byte, depth BitDepth, widthTiles int, p quant.Palette) (*image.Paletted, error) {
	if widthTiles < 1 {
		return nil, errWidthTiles
	}

	indices, err := DecodeIndices(data, depth)
	if err != nil {
		return nil, err
	}

	count := len(data) / depth.TileBytes()
	if count%widthTiles != 0 {
		return nil, errWidthTiles
	}
	heightTiles := count / widthTiles

	m := image.NewPaletted(image.Rect(0, 0, widthTiles*tileWidth, heightTiles*tileHeight), p.Colors())

	pos := 0
	for t := 0; t < count; t++ {
		ox := t % widthTiles * tileWidth
		oy := t / widthTiles * tileHeight
		for y := 0; y < tileHeight; y++ {
			for x := 0; x < tileWidth; x++ {
				idx := indices[pos]
				pos++
				if int(idx) >= len(m.Palette) {
					return nil, errBadPalette
				}
				m.SetColorIndex(ox+x, oy+y, idx)
			}
		}
	}

	return m, nil
}
