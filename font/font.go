/*
Package font packs glyph sheets into a compact bitmap font artifact.

A sheet is divided into fixed-size cells on a grid, row-major; each cell
holds one glyph. Partial cells at the right and bottom edges are ignored.
A pixel belongs to a glyph when it is fully opaque and not pure black, so
sheets drawn white-on-transparent or white-on-black both work.

The artifact begins with a four byte header per glyph followed by the
glyph bitmaps. Header byte 0 stores the bounding box width in the low
nibble and height in the high nibble, byte 1 the distance from the cell
top to the first set row, and bytes 2 and 3 the little-endian absolute
offset of the glyph's bitmap within the artifact, or zero for a blank
glyph. Bitmap rows store the leftmost pixel in the least significant bit,
one byte per row for boxes up to 8 pixels wide and two bytes
little-endian up to the 12 pixel maximum.

Glyph boxes are limited to 12 by 12 pixels with at most 15 rows of space
above the first set row. A sheet that violates these limits cannot be
encoded and Pack panics.
*/
package font

import (
	"fmt"
	"image"
	"image/color"
)

const (
	headerBytes  = 4
	maxGlyphSize = 12
	maxRise      = 15
)

type glyph struct {
	w, h, rise int
	rows       []uint16
}

func (g glyph) blank() bool { return g.w == 0 }

func (g glyph) rowBytes() int {
	if g.w > 8 {
		return 2
	}
	return 1
}

// Pack encodes every cell of the sheet. See the package documentation for
// the artifact layout.
func Pack(m image.Image, cellW, cellH int) []byte {
	if m == nil {
		panic("font: nil sheet")
	}
	return PackRect(m, cellW, cellH, m.Bounds())
}

// PackRect encodes only the cells inside r, which must lie within the
// bounds of the sheet.
func PackRect(m image.Image, cellW, cellH int, r image.Rectangle) []byte {
	if m == nil {
		panic("font: nil sheet")
	}
	if cellW < 1 || cellH < 1 {
		panic("font: cell dimensions must be positive")
	}
	if !r.In(m.Bounds()) {
		panic("font: rectangle outside sheet bounds")
	}

	cols := r.Dx() / cellW
	rows := r.Dy() / cellH

	glyphs := make([]glyph, 0, cols*rows)
	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			glyphs = append(glyphs, scanCell(m, len(glyphs), r.Min.X+cx*cellW, r.Min.Y+cy*cellH, cellW, cellH))
		}
	}

	size := headerBytes * len(glyphs)
	for _, g := range glyphs {
		if !g.blank() {
			size += len(g.rows) * g.rowBytes()
		}
	}

	out := make([]byte, 0, size)
	offset := headerBytes * len(glyphs)
	for i, g := range glyphs {
		if g.blank() {
			out = append(out, 0, 0, 0, 0)
			continue
		}
		if offset > 0xffff {
			panic(fmt.Sprintf("font: glyph %d bitmap offset exceeds 16 bits", i))
		}
		out = append(out, byte(g.w)|byte(g.h)<<4, byte(g.rise), byte(offset), byte(offset>>8))
		offset += len(g.rows) * g.rowBytes()
	}
	for _, g := range glyphs {
		for _, row := range g.rows {
			out = append(out, byte(row))
			if g.w > 8 {
				out = append(out, byte(row>>8))
			}
		}
	}

	return out
}

func scanCell(m image.Image, index, ox, oy, w, h int) glyph {
	minX, minY := w, h
	maxX, maxY := -1, -1
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !set(m.At(ox+x, oy+y)) {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if maxX < 0 {
		return glyph{}
	}

	g := glyph{w: maxX - minX + 1, h: maxY - minY + 1, rise: minY}
	if g.w > maxGlyphSize || g.h > maxGlyphSize {
		panic(fmt.Sprintf("font: glyph %d is %d by %d, larger than %d by %d", index, g.w, g.h, maxGlyphSize, maxGlyphSize))
	}
	if g.rise > maxRise {
		panic(fmt.Sprintf("font: glyph %d starts %d rows below the cell top, more than %d", index, g.rise, maxRise))
	}

	g.rows = make([]uint16, g.h)
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			if set(m.At(ox+minX+x, oy+minY+y)) {
				g.rows[y] |= 1 << x
			}
		}
	}

	return g
}

// set reports whether a sheet pixel belongs to a glyph.
func set(c color.Color) bool {
	r, g, b, a := c.RGBA()
	return a == 0xffff && r|g|b != 0
}
