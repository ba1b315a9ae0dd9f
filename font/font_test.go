package font

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var white = color.NRGBA{0xff, 0xff, 0xff, 0xff}

func fill(m *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			m.SetNRGBA(x, y, c)
		}
	}
}

func TestPackSingleGlyph(t *testing.T) {
	t.Parallel()

	m := image.NewNRGBA(image.Rect(0, 0, 10, 12))
	fill(m, image.Rect(2, 4, 5, 9), white)

	data := Pack(m, 10, 12)
	require.Len(t, data, 4+5)

	assert.Equal(t, uint8(0x53), data[0])
	assert.Equal(t, uint8(4), data[1])
	assert.Equal(t, uint16(4), uint16(data[2])|uint16(data[3])<<8)
	assert.Equal(t, []byte{0x07, 0x07, 0x07, 0x07, 0x07}, data[4:])
}

func TestPackOffsets(t *testing.T) {
	t.Parallel()

	// Three cells: a 2 by 2 box, a blank, and a 9 by 1 box.
	m := image.NewNRGBA(image.Rect(0, 0, 30, 10))
	fill(m, image.Rect(0, 0, 2, 2), white)
	fill(m, image.Rect(20, 5, 29, 6), white)

	data := Pack(m, 10, 10)
	require.Len(t, data, 12+2+2)

	assert.Equal(t, uint8(2|2<<4), data[0])
	assert.Equal(t, uint8(0), data[1])
	assert.Equal(t, uint16(12), uint16(data[2])|uint16(data[3])<<8)

	assert.Equal(t, []byte{0, 0, 0, 0}, data[4:8])

	assert.Equal(t, uint8(9|1<<4), data[8])
	assert.Equal(t, uint8(5), data[9])
	assert.Equal(t, uint16(14), uint16(data[10])|uint16(data[11])<<8)

	// Two rows of 0b11, then one 9 bit row split little-endian.
	assert.Equal(t, []byte{0x03, 0x03, 0xff, 0x01}, data[12:])
}

func TestPackDropsPartialCells(t *testing.T) {
	t.Parallel()

	m := image.NewNRGBA(image.Rect(0, 0, 25, 17))
	// Only the truncated right and bottom bands hold pixels.
	fill(m, image.Rect(21, 1, 23, 3), white)
	fill(m, image.Rect(2, 16, 6, 17), white)

	data := Pack(m, 10, 8)
	require.Len(t, data, 4*4)
	assert.Equal(t, make([]byte, 16), data)
}

func TestPackRect(t *testing.T) {
	t.Parallel()

	m := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	fill(m, image.Rect(11, 11, 13, 13), white)

	data := PackRect(m, 10, 10, image.Rect(10, 10, 30, 30))
	require.Len(t, data, 4*4+2)

	assert.Equal(t, uint8(2|2<<4), data[0])
	assert.Equal(t, uint8(1), data[1])
	assert.Equal(t, uint16(16), uint16(data[2])|uint16(data[3])<<8)
	assert.Equal(t, []byte{0x03, 0x03}, data[16:])
}

func TestPackSetPixelRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		c     color.NRGBA
		blank bool
	}{
		{"opaque white", color.NRGBA{0xff, 0xff, 0xff, 0xff}, false},
		{"opaque color", color.NRGBA{0x10, 0x00, 0x00, 0xff}, false},
		{"opaque black", color.NRGBA{0x00, 0x00, 0x00, 0xff}, true},
		{"translucent white", color.NRGBA{0xff, 0xff, 0xff, 0xfe}, true},
		{"transparent", color.NRGBA{}, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := image.NewNRGBA(image.Rect(0, 0, 8, 8))
			m.SetNRGBA(3, 3, tt.c)

			data := Pack(m, 8, 8)
			if tt.blank {
				assert.Equal(t, []byte{0, 0, 0, 0}, data)
				return
			}

			require.Len(t, data, 5)
			assert.Equal(t, uint8(0x11), data[0])
			assert.Equal(t, uint8(3), data[1])
			assert.Equal(t, uint8(0x01), data[4])
		})
	}
}

func TestPackPanics(t *testing.T) {
	t.Parallel()

	m := image.NewNRGBA(image.Rect(0, 0, 16, 16))

	wide := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	fill(wide, image.Rect(0, 0, 13, 2), white)

	tall := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	fill(tall, image.Rect(0, 0, 2, 13), white)

	low := image.NewNRGBA(image.Rect(0, 0, 8, 24))
	fill(low, image.Rect(0, 16, 2, 18), white)

	assert.Panics(t, func() { Pack(nil, 8, 8) })
	assert.Panics(t, func() { Pack(m, 0, 8) })
	assert.Panics(t, func() { PackRect(m, 8, 8, image.Rect(0, 0, 32, 32)) })
	assert.Panics(t, func() { Pack(wide, 16, 16) })
	assert.Panics(t, func() { Pack(tall, 16, 16) })
	assert.Panics(t, func() { Pack(low, 8, 24) })
}
