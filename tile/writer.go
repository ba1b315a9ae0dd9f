package tile

import (
	"image"

	"github.com/bodgit/gbaconv/quant"
)

// Encode slices m into 8 by 8 tiles, row-major from the top-left corner,
// and packs one record per tile at the given depth. Pixel values come from
// q.Classify. It returns the packed records and the number of tiles; with
// Options.PadToFit the slice is extended with zero filler to the full
// MaxBlocks capacity, but the count still reflects real tiles only.
func Encode(m image.Image, depth BitDepth, q quant.Quantizer, opts Options) ([]byte, int, error) {
	if !depth.valid() {
		return nil, 0, ErrBitDepth
	}
	if m == nil {
		return nil, 0, ErrInvalidImage
	}

	b := m.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 0 || h < 0 {
		return nil, 0, ErrInvalidImage
	}
	if w == 0 || h == 0 {
		if !opts.AllowEmpty {
			return nil, 0, ErrEmptyImage
		}
		return padToFit(nil, depth, opts), 0, nil
	}
	if !opts.PadPartial && (w%tileWidth != 0 || h%tileHeight != 0) {
		return nil, 0, ErrUnexpectedSize
	}

	tilesX := (w + tileWidth - 1) / tileWidth
	tilesY := (h + tileHeight - 1) / tileHeight
	count := tilesX * tilesY
	if count > MaxTiles {
		return nil, 0, ErrTooManyTiles
	}
	if opts.MaxBlocks > 0 && count > opts.MaxBlocks*depth.BlockTiles() {
		return nil, 0, ErrImageTooLarge
	}

	out := make([]byte, 0, count*depth.TileBytes())
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			for y := 0; y < tileHeight; y++ {
				for x := 0; x < tileWidth; x++ {
					idx := opts.PadIndex
					if dx, dy := tx*tileWidth+x, ty*tileHeight+y; dx < w && dy < h {
						idx = q.Classify(m.At(b.Min.X+dx, b.Min.Y+dy))
					}
					if idx > depth.maxIndex() {
						return nil, 0, ErrPaletteIndex
					}

					switch {
					case depth == Depth8:
						out = append(out, idx)
					case x&1 == 0:
						// First pixel of the pair sits in the low nibble.
						out = append(out, idx)
					default:
						out[len(out)-1] |= idx << 4
					}
				}
			}
		}
	}

	return padToFit(out, depth, opts), count, nil
}

func padToFit(data []byte, depth BitDepth, opts Options) []byte {
	if !opts.PadToFit || opts.MaxBlocks <= 0 {
		return data
	}
	if n := opts.MaxBlocks*depth.BlockTiles()*depth.TileBytes() - len(data); n > 0 {
		data = append(data, make([]byte, n)...)
	}
	return data
}
