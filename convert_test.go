package gbaconv

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/bodgit/gbaconv/cache"
	"github.com/bodgit/gbaconv/quant"
	"github.com/bodgit/gbaconv/tile"
)

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func writePNG(t *testing.T, path string, m image.Image) {
	t.Helper()

	var b bytes.Buffer
	require.NoError(t, png.Encode(&b, m))
	require.NoError(t, os.WriteFile(path, b.Bytes(), 0644))
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetNRGBA(x, y, c)
		}
	}
	return m
}

func TestConvertTiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "sprite.png")
	dst := filepath.Join(dir, "sprite.chr")
	pal := filepath.Join(dir, "sprite.pal")

	m := solid(8, 8, color.NRGBA{B: 0xff, A: 0xff})
	m.SetNRGBA(0, 0, color.NRGBA{R: 0xff, A: 0xff})
	writePNG(t, src, m)

	c := New(nil, discardLogger())
	require.NoError(t, c.ConvertTiles(src, dst, TileOptions{
		Quantizer:   QuantIncremental,
		PalettePath: pal,
	}))

	// Red is met first and takes index 1, blue takes index 2.
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Len(t, data, 32)
	assert.Equal(t, uint8(0x21), data[0])
	for _, b := range data[1:] {
		assert.Equal(t, uint8(0x22), b)
	}

	palData, err := os.ReadFile(pal)
	require.NoError(t, err)
	require.Len(t, palData, 32)
	assert.Equal(t, []byte{0x00, 0x00, 0x1f, 0x00, 0x00, 0x7c}, palData[:6])
}

func TestConvertTilesNearest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "sprite.png")
	dst := filepath.Join(dir, "sprite.chr")
	pal := filepath.Join(dir, "fixed.pal")

	p := quant.Palette{
		{},
		{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		{R: 0xff, A: 0xff},
	}
	b, err := p.MarshalBinary()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(pal, b, 0644))

	writePNG(t, src, solid(8, 8, color.NRGBA{R: 0xf0, A: 0xff}))

	c := New(nil, discardLogger())
	require.NoError(t, c.ConvertTiles(src, dst, TileOptions{
		Quantizer: QuantNearest,
		Palette:   pal,
	}))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Len(t, data, 32)
	for _, b := range data {
		assert.Equal(t, uint8(0x22), b)
	}
}

func TestConvertTilesCache(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	db, err := cache.Open(filepath.Join(dir, "cache.db"))
	require.NoError(t, err)
	defer db.Close()

	src := filepath.Join(dir, "sprite.png")
	dst := filepath.Join(dir, "sprite.chr")
	writePNG(t, src, solid(8, 8, color.NRGBA{G: 0xff, A: 0xff}))

	var buf bytes.Buffer
	c := New(db, log.New(&buf, "", 0))

	opts := TileOptions{Quantizer: QuantIncremental}
	require.NoError(t, c.ConvertTiles(src, dst, opts))

	first, err := os.ReadFile(dst)
	require.NoError(t, err)

	// A second run restores identical bytes from the cache.
	require.NoError(t, os.Remove(dst))
	buf.Reset()
	require.NoError(t, c.ConvertTiles(src, dst, opts))
	assert.Contains(t, buf.String(), "cached")

	second, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Different parameters miss the cache.
	dst8 := filepath.Join(dir, "sprite8.chr")
	opts.Depth = tile.Depth8
	require.NoError(t, c.ConvertTiles(src, dst8, opts))

	eight, err := os.ReadFile(dst8)
	require.NoError(t, err)
	assert.Len(t, eight, 64)
}

func TestConvertTilesErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "odd.png")
	writePNG(t, src, solid(12, 8, color.NRGBA{R: 0xff, A: 0xff}))

	c := New(nil, discardLogger())

	err := c.ConvertTiles(src, filepath.Join(dir, "odd.chr"), TileOptions{})
	assert.True(t, errors.Is(err, tile.ErrUnexpectedSize))

	err = c.ConvertTiles(filepath.Join(dir, "missing.png"), filepath.Join(dir, "missing.chr"), TileOptions{})
	assert.Error(t, err)

	err = c.ConvertTiles(src, filepath.Join(dir, "odd.chr"), TileOptions{Quantizer: "dither", PadPartial: true})
	assert.EqualError(t, err, `unknown quantizer "dither"`)
}

func TestConvertBitmap(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "screen.png")

	m := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	m.SetNRGBA(0, 0, color.NRGBA{R: 0xff, A: 0xff})
	m.SetNRGBA(1, 0, color.NRGBA{B: 0xff, A: 0xff})
	writePNG(t, src, m)

	c := New(nil, discardLogger())

	dst := filepath.Join(dir, "screen.raw")
	require.NoError(t, c.ConvertBitmap(src, dst, BitmapOptions{}))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1f, 0x00, 0x00, 0x7c}, data)

	sub := filepath.Join(dir, "sub.raw")
	require.NoError(t, c.ConvertBitmap(src, sub, BitmapOptions{Rect: image.Rect(1, 0, 2, 1)}))

	data, err = os.ReadFile(sub)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x7c}, data)

	idx := filepath.Join(dir, "screen.idx")
	require.NoError(t, c.ConvertBitmap(src, idx, BitmapOptions{
		Format:    FormatIndexed,
		Quantizer: QuantIncremental,
	}))

	data, err = os.ReadFile(idx)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, data)

	err = c.ConvertBitmap(src, idx, BitmapOptions{Format: "bgr24"})
	assert.EqualError(t, err, `unknown bitmap format "bgr24"`)
}

func TestConvertPalette(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "scene.png")
	dst := filepath.Join(dir, "scene.pal")

	m := solid(4, 4, color.NRGBA{R: 0xff, A: 0xff})
	for y := 2; y < 4; y++ {
		for x := 0; x < 4; x++ {
			m.SetNRGBA(x, y, color.NRGBA{B: 0xff, A: 0xff})
		}
	}
	writePNG(t, src, m)

	c := New(nil, discardLogger())
	require.NoError(t, c.ConvertPalette(src, dst, PaletteOptions{Colors: 4, Pad: 8}))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Len(t, data, 16)

	// Slot 0 stays transparent black; the two buckets hold red and blue
	// in whichever order the cut produced.
	assert.Equal(t, []byte{0x00, 0x00}, data[:2])
	words := []uint16{
		uint16(data[2]) | uint16(data[3])<<8,
		uint16(data[4]) | uint16(data[5])<<8,
	}
	assert.ElementsMatch(t, []uint16{0x001f, 0x7c00}, words)
	assert.Equal(t, make([]byte, 10), data[6:])
}

func TestConvertFont(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "glyphs.png")
	dst := filepath.Join(dir, "glyphs.fnt")

	m := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	m.SetNRGBA(3, 3, color.NRGBA{0xff, 0xff, 0xff, 0xff})
	writePNG(t, src, m)

	c := New(nil, discardLogger())
	require.NoError(t, c.ConvertFont(src, dst, FontOptions{CellW: 8, CellH: 8}))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x11, 0x03, 0x04, 0x00, 0x01}, data)
}

func TestConvertFontTrueType(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "regular.ttf")
	dst := filepath.Join(dir, "regular.fnt")
	require.NoError(t, os.WriteFile(src, goregular.TTF, 0644))

	c := New(nil, discardLogger())
	require.NoError(t, c.ConvertFont(src, dst, FontOptions{
		CellW: 12,
		CellH: 16,
		First: 'o',
		Last:  'o',
	}))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Greater(t, len(data), 4)
	assert.NotZero(t, data[0])
}
