package gbaconv

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"

	"github.com/bodgit/gbaconv/bitmap"
	"github.com/bodgit/gbaconv/font"
	"github.com/bodgit/gbaconv/quant"
	"github.com/bodgit/gbaconv/tile"
)

// Quantizer names accepted by the conversion options.
const (
	QuantMedianCut   = "mediancut"
	QuantIncremental = "incremental"
	QuantNearest     = "nearest"
)

// Bitmap artifact formats.
const (
	FormatRGB15   = "rgb15"
	FormatIndexed = "indexed"
)

// TileOptions control a tile conversion. The zero value encodes 4bpp
// tiles with a median cut palette and no block budget.
type TileOptions struct {
	Depth     tile.BitDepth // 4bpp when zero
	Quantizer string        // QuantMedianCut when empty
	Palette   string        // palette artifact read by the nearest quantizer
	Colors    int           // palette size limit, defaults to the depth maximum

	MaxBlocks  int
	AllowEmpty bool
	PadPartial bool
	PadIndex   uint8
	PadToFit   bool

	// PalettePath writes the palette the quantizer settled on as a
	// second artifact.
	PalettePath string
}

func (o TileOptions) params(depth tile.BitDepth, palCRC string) string {
	return fmt.Sprintf("tiles bpp=%d q=%s pal=%s colors=%d blocks=%d empty=%t partial=%t padidx=%d fit=%t",
		depth, quantName(o.Quantizer), palCRC, o.Colors, o.MaxBlocks, o.AllowEmpty, o.PadPartial, o.PadIndex, o.PadToFit)
}

// BitmapOptions control a framebuffer conversion. The zero value encodes
// the whole image as a direct-color raster.
type BitmapOptions struct {
	Format    string          // FormatRGB15 when empty
	Rect      image.Rectangle // whole image when empty
	Quantizer string
	Palette   string
	Colors    int

	PalettePath string
}

func (o BitmapOptions) params(palCRC string) string {
	return fmt.Sprintf("bitmap fmt=%s rect=%s q=%s pal=%s colors=%d",
		formatName(o.Format), o.Rect, quantName(o.Quantizer), palCRC, o.Colors)
}

// PaletteOptions control a palette extraction.
type PaletteOptions struct {
	Colors int // palette size limit including the transparent slot
	Pad    int // pad the artifact with black up to this many entries
}

func (o PaletteOptions) params() string {
	return fmt.Sprintf("palette colors=%d pad=%d", o.Colors, o.Pad)
}

// FontOptions control a glyph sheet conversion. First and Last select the
// rune range rendered from TrueType sources and default to printable
// ASCII; Rect restricts packing to part of the sheet.
type FontOptions struct {
	CellW, CellH int
	Rect         image.Rectangle
	First, Last  rune
}

func (o FontOptions) params() string {
	return fmt.Sprintf("font cell=%dx%d rect=%s runes=%d-%d", o.CellW, o.CellH, o.Rect, o.First, o.Last)
}

// ConvertTiles encodes the image at src into packed character tiles at
// dst. When PalettePath is set the palette derived during quantization is
// written alongside as a 15-bit palette artifact.
func (c *Converter) ConvertTiles(src, dst string, opts TileOptions) error {
	b, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	depth := opts.Depth
	if depth == 0 {
		depth = tile.Depth4
	}

	palData, palCRC, err := readPalette(opts.Quantizer, opts.Palette)
	if err != nil {
		return err
	}

	crc := crcBytes(b)
	params := opts.params(depth, palCRC)

	if done, err := c.fromCache(crc, params, dst, opts.PalettePath); done || err != nil {
		return err
	}

	m, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}

	colors := opts.Colors
	if colors == 0 {
		colors = maxColors(depth)
	}

	q, err := newQuantizer(opts.Quantizer, palData, colors, m)
	if err != nil {
		return err
	}

	data, count, err := tile.Encode(m, depth, q, tile.Options{
		MaxBlocks:  opts.MaxBlocks,
		AllowEmpty: opts.AllowEmpty,
		PadPartial: opts.PadPartial,
		PadIndex:   opts.PadIndex,
		PadToFit:   opts.PadToFit,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}

	pal, err := exportPalette(q, colors, opts.PalettePath)
	if err != nil {
		return err
	}

	c.logger.Printf("%s: %d tiles, %d bytes", src, count, len(data))

	return c.store(crc, params, dst, data, opts.PalettePath, pal)
}

// ConvertBitmap encodes the image at src into a framebuffer raster at dst.
func (c *Converter) ConvertBitmap(src, dst string, opts BitmapOptions) error {
	b, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	palData, palCRC, err := readPalette(opts.Quantizer, opts.Palette)
	if err != nil {
		return err
	}

	crc := crcBytes(b)
	params := opts.params(palCRC)

	if done, err := c.fromCache(crc, params, dst, opts.PalettePath); done || err != nil {
		return err
	}

	m, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}

	r := opts.Rect
	if r.Empty() {
		r = m.Bounds()
	}

	var data, pal []byte
	switch formatName(opts.Format) {
	case FormatRGB15:
		if data, err = bitmap.EncodeRGB15Sub(m, r); err != nil {
			return fmt.Errorf("%s: %w", src, err)
		}
	case FormatIndexed:
		colors := opts.Colors
		if colors == 0 {
			colors = quant.MaxColors8
		}
		q, err := newQuantizer(opts.Quantizer, palData, colors, m)
		if err != nil {
			return err
		}
		if data, err = bitmap.EncodeIndexedSub(m, r, q); err != nil {
			return fmt.Errorf("%s: %w", src, err)
		}
		if pal, err = exportPalette(q, colors, opts.PalettePath); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown bitmap format %q", opts.Format)
	}

	c.logger.Printf("%s: %d by %d raster, %d bytes", src, r.Dx(), r.Dy(), len(data))

	return c.store(crc, params, dst, data, opts.PalettePath, pal)
}

// ConvertPalette extracts a palette from the image at src and writes it
// as a 15-bit palette artifact at dst.
func (c *Converter) ConvertPalette(src, dst string, opts PaletteOptions) error {
	b, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	crc := crcBytes(b)
	params := opts.params()

	if done, err := c.fromCache(crc, params, dst, ""); done || err != nil {
		return err
	}

	m, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}

	colors := opts.Colors
	if colors == 0 {
		colors = quant.MaxColors8
	}

	q, err := quant.NewMedianCut(m, colors)
	if err != nil {
		return err
	}

	data, err := q.ExportPalette().Padded(opts.Pad).MarshalBinary()
	if err != nil {
		return err
	}

	c.logger.Printf("%s: %d bytes", src, len(data))

	return c.store(crc, params, dst, data, "", nil)
}

// ConvertFont packs the glyph sheet at src into a bitmap font artifact at
// dst. A .ttf source is rasterized into a sheet first; anything else is
// decoded as an image. A sheet that breaks the glyph size limits is an
// authoring error and panics.
func (c *Converter) ConvertFont(src, dst string, opts FontOptions) error {
	b, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	if opts.First == 0 && opts.Last == 0 {
		opts.First, opts.Last = ' ', '~'
	}

	crc := crcBytes(b)
	params := opts.params()

	if done, err := c.fromCache(crc, params, dst, ""); done || err != nil {
		return err
	}

	var sheet image.Image
	if strings.EqualFold(filepath.Ext(src), ".ttf") {
		if sheet, err = font.RenderSheet(b, opts.CellW, opts.CellH, opts.First, opts.Last); err != nil {
			return err
		}
	} else {
		if sheet, _, err = image.Decode(bytes.NewReader(b)); err != nil {
			return fmt.Errorf("%s: %w", src, err)
		}
	}

	r := opts.Rect
	if r.Empty() {
		r = sheet.Bounds()
	}

	data := font.PackRect(sheet, opts.CellW, opts.CellH, r)

	c.logger.Printf("%s: %d glyphs, %d bytes", src, r.Dx()/opts.CellW*(r.Dy()/opts.CellH), len(data))

	return c.store(crc, params, dst, data, "", nil)
}

// fromCache writes dst, and the companion palette artifact when palDst is
// set, from cached data. It reports whether the cache satisfied the
// conversion.
func (c *Converter) fromCache(crc, params, dst, palDst string) (bool, error) {
	if c.cache == nil {
		return false, nil
	}

	data, err := c.cache.Get(crc, params)
	if err != nil || data == nil {
		return false, err
	}

	var pal []byte
	if palDst != "" {
		if pal, err = c.cache.Get(crc, params+" palette"); err != nil {
			return false, err
		}
		if pal == nil {
			return false, nil
		}
	}

	c.logger.Printf("%s: cached", dst)

	if err := os.WriteFile(dst, data, 0644); err != nil {
		return true, err
	}
	if palDst != "" {
		if err := os.WriteFile(palDst, pal, 0644); err != nil {
			return true, err
		}
	}

	return true, nil
}

// store caches and writes the artifacts produced by a conversion.
func (c *Converter) store(crc, params, dst string, data []byte, palDst string, pal []byte) error {
	if c.cache != nil {
		if err := c.cache.Put(crc, params, data); err != nil {
			return err
		}
		if palDst != "" {
			if err := c.cache.Put(crc, params+" palette", pal); err != nil {
				return err
			}
		}
	}

	if err := os.WriteFile(dst, data, 0644); err != nil {
		return err
	}
	if palDst != "" {
		return os.WriteFile(palDst, pal, 0644)
	}

	return nil
}

func maxColors(depth tile.BitDepth) int {
	if depth == tile.Depth8 {
		return quant.MaxColors8
	}
	return quant.MaxColors4
}

func quantName(name string) string {
	if name == "" {
		return QuantMedianCut
	}
	return name
}

func formatName(name string) string {
	if name == "" {
		return FormatRGB15
	}
	return name
}

// readPalette loads the palette artifact backing the nearest quantizer,
// returning its bytes and checksum for the cache key.
func readPalette(quantizer, palette string) ([]byte, string, error) {
	if quantName(quantizer) != QuantNearest {
		return nil, "", nil
	}
	b, err := os.ReadFile(palette)
	if err != nil {
		return nil, "", err
	}
	return b, crcBytes(b), nil
}

// newQuantizer builds the pixel classifier selected by name. The nearest
// quantizer reads its palette from a marshalled artifact; the other two
// derive one from the image.
func newQuantizer(name string, palData []byte, colors int, m image.Image) (quant.Quantizer, error) {
	switch quantName(name) {
	case QuantMedianCut:
		return quant.NewMedianCut(m, colors)
	case QuantIncremental:
		return quant.NewIncremental(colors)
	case QuantNearest:
		var p quant.Palette
		if err := p.UnmarshalBinary(palData); err != nil {
			return nil, err
		}
		return quant.NewNearestFixed(p)
	default:
		return nil, fmt.Errorf("unknown quantizer %q", name)
	}
}

// exportPalette marshals the palette a quantizer settled on, padded to
// the full artifact size, when a destination is configured.
func exportPalette(q quant.Quantizer, colors int, dst string) ([]byte, error) {
	if dst == "" {
		return nil, nil
	}
	pe, ok := q.(quant.PaletteExporter)
	if !ok {
		return nil, fmt.Errorf("quantizer %T cannot export a palette", q)
	}
	return pe.ExportPalette().Padded(colors).MarshalBinary()
}
