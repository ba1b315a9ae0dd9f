package bitmap

import (
	"image"

	"github.com/bodgit/gbaconv/quant"
)

// DecodeRGB15 rebuilds a direct-color raster of the given dimensions.
func DecodeRGB15(data []byte, w, h int) (*image.NRGBA, error) {
	if w < 1 || h < 1 || len(data) != w*h*2 {
		return nil, errDimensions
	}

	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(data); i += 2 {
		c := quant.Color15(uint16(data[i]) | uint16(data[i+1])<<8)
		m.Set(i/2%w, i/2/w, c)
	}

	return m, nil
}

// DecodeIndexed rebuilds an indexed raster of the given dimensions.
// Every index must fall inside p.
func DecodeIndexed(data []byte, w, h int, p quant.Palette) (*image.Paletted, error) {
	if w < 1 || h < 1 || len(data) != w*h {
		return nil, errDimensions
	}

	m := image.NewPaletted(image.Rect(0, 0, w, h), p.Colors())
	for i, idx := range data {
		if int(idx) >= len(m.Palette) {
			return nil, errBadPalette
		}
		m.SetColorIndex(i%w, i/w, idx)
	}

	return m, nil
}
