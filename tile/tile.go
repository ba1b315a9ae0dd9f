/*
Package tile encodes images into packed 8 by 8 character tiles.

An image is sliced into 8 by 8 blocks, row-major, and each block is
serialized as one fixed-size record: 32 bytes at 4bpp with two palette
indices per byte (first pixel in the low nibble), or 64 bytes at 8bpp with
one index per byte. Within a tile, pixel rows run top to bottom and columns
left to right, so records can be copied straight into character VRAM.

Character memory is organized in 16 KiB blocks holding 512 4-bit or 256
8-bit tiles; encoders validate against a caller-supplied block budget
rather than assuming any particular hardware layout.
*/
package tile

import "errors"

const (
	tileWidth  = 8
	tileHeight = tileWidth
	tilePixels = tileWidth * tileHeight

	blockTiles4 = 512
	blockTiles8 = 256

	// MaxTiles is the absolute record limit of the tile format.
	MaxTiles = 0xffff
)

var (
	ErrInvalidImage   = errors.New("tile: invalid image")
	ErrEmptyImage     = errors.New("tile: empty image")
	ErrUnexpectedSize = errors.New("tile: image dimensions are not a multiple of 8")
	ErrImageTooLarge  = errors.New("tile: image does not fit the configured charblocks")
	ErrTooManyTiles   = errors.New("tile: too many tiles")
	ErrPaletteIndex   = errors.New("tile: palette index out of range for bit depth")
	ErrBitDepth       = errors.New("tile: unsupported bit depth")

	errTruncated  = errors.New("tile: truncated tile data")
	errBadPalette = errors.New("tile: index outside palette")
	errWidthTiles = errors.New("tile: tile count is not a multiple of the row width")
)

// BitDepth selects how many bits store one palette index.
type BitDepth int

const (
	Depth4 BitDepth = 4
	Depth8 BitDepth = 8
)

// TileBytes returns the size of one encoded tile record.
func (d BitDepth) TileBytes() int {
	if d == Depth4 {
		return tilePixels / 2
	}
	return tilePixels
}

// BlockTiles returns how many tiles fit in one 16 KiB character block.
func (d BitDepth) BlockTiles() int {
	if d == Depth4 {
		return blockTiles4
	}
	return blockTiles8
}

// maxIndex is the largest palette index the depth can store.
func (d BitDepth) maxIndex() uint8 {
	if d == Depth4 {
		return 0x0f
	}
	return 0xff
}

func (d BitDepth) valid() bool {
	return d == Depth4 || d == Depth8
}

// Options control validation and padding during encoding. The zero value
// rejects empty and unaligned images and applies no block budget.
type Options struct {
	// MaxBlocks caps the tile count at the given number of character
	// blocks. Zero means only the absolute record limit applies.
	MaxBlocks int

	// AllowEmpty accepts zero-area images, producing an empty artifact.
	AllowEmpty bool

	// PadPartial accepts dimensions that are not a multiple of 8 by
	// rounding the tile grid up; pixels outside the image encode as
	// PadIndex.
	PadPartial bool
	PadIndex   uint8

	// PadToFit appends zero filler after the last tile up to the
	// MaxBlocks capacity, reserving whole blocks in the artifact.
	PadToFit bool
}
