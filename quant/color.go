package quant

import (
	"errors"
	"image/color"
)

const (
	// MaxColors4 and MaxColors8 are the palette length limits imposed by
	// the 4bpp and 8bpp tile formats.
	MaxColors4 = 16
	MaxColors8 = 256
)

var (
	errPaletteOdd  = errors.New("quant: palette data is not a multiple of 2 bytes")
	errPaletteSize = errors.New("quant: palette has more than 256 entries")
)

// Color15 is a native 15-bit display color. Color is packed as
// 0BBBBBGGGGGRRRRR with bit 15 unused.
type Color15 uint16

// RGB15 packs three 8-bit channels into a Color15. Each channel is
// truncated to its top five bits; there is no rounding or dithering.
func RGB15(r, g, b uint8) Color15 {
	return Color15(r>>3) | Color15(g>>3)<<5 | Color15(b>>3)<<10
}

// ToRGB15 converts any color to its native 15-bit equivalent.
func ToRGB15(c color.Color) Color15 {
	r, g, b, _ := rgba8(c)
	return RGB15(r, g, b)
}

// RGBA implements the color.Color interface. The five bit channels are
// expanded so that white maps back to full intensity.
func (c Color15) RGBA() (r, g, b, a uint32) {
	expand := func(v Color15) uint32 {
		v8 := uint32(v)<<3 | uint32(v)>>2
		return v8 | v8<<8
	}
	return expand(c & 0x1f), expand(c >> 5 & 0x1f), expand(c >> 10 & 0x1f), 0xffff
}

// Palette is an ordered sequence of colors. Index 0 is reserved as the
// transparency sentinel; the color stored there is ignored when matching
// pixels. Insertion order fixes index assignment.
type Palette []color.NRGBA

// MarshalBinary encodes the palette as consecutive 2-byte little-endian
// 15-bit colors in index order. It implements encoding.BinaryMarshaler.
func (p Palette) MarshalBinary() ([]byte, error) {
	if len(p) > MaxColors8 {
		return nil, errPaletteSize
	}
	b := make([]byte, 0, len(p)*2)
	for _, c := range p {
		v := RGB15(c.R, c.G, c.B)
		b = append(b, byte(v), byte(v>>8))
	}
	return b, nil
}

// UnmarshalBinary decodes a palette written by MarshalBinary. Entries come
// back fully opaque; index 0 keeps its transparency role by position. It
// implements encoding.BinaryUnmarshaler.
func (p *Palette) UnmarshalBinary(b []byte) error {
	if len(b)%2 != 0 {
		return errPaletteOdd
	}
	if len(b)/2 > MaxColors8 {
		return errPaletteSize
	}
	pal := make(Palette, 0, len(b)/2)
	for i := 0; i < len(b); i += 2 {
		c := Color15(b[i]) | Color15(b[i+1])<<8
		r, g, bl, _ := c.RGBA()
		pal = append(pal, color.NRGBA{uint8(r >> 8), uint8(g >> 8), uint8(bl >> 8), 0xff})
	}
	*p = pal
	return nil
}

// Padded returns the palette extended with zero colors up to n entries.
// Hardware palette banks hold 16 or 256 colors regardless of how many are
// used. Palettes already at least n entries long are returned unchanged.
func (p Palette) Padded(n int) Palette {
	if len(p) >= n {
		return p
	}
	dup := make(Palette, len(p), n)
	copy(dup, p)
	for len(dup) < n {
		dup = append(dup, color.NRGBA{})
	}
	return dup
}

// Colors returns the palette as a stdlib color.Palette, for building
// image.Paletted previews of encoded artifacts.
func (p Palette) Colors() color.Palette {
	cp := make(color.Palette, len(p))
	for i, c := range p {
		cp[i] = c
	}
	return cp
}

// rgba8 reduces any color to non-premultiplied-looking 8-bit channels. Only
// fully opaque pixels have their color channels inspected by the
// quantizers, so the premultiplied/straight distinction never matters.
func rgba8(c color.Color) (r, g, b, a uint8) {
	r16, g16, b16, a16 := c.RGBA()
	return uint8(r16 >> 8), uint8(g16 >> 8), uint8(b16 >> 8), uint8(a16 >> 8)
}
