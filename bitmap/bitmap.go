/*
Package bitmap encodes images as linear framebuffer rasters.

Unlike character tiles there is no 8 by 8 structure: pixels run left to
right, top to bottom, one after another. Direct-color rasters store each
pixel as a little-endian 16-bit word holding a 15-bit color; indexed
rasters store one 8-bit palette index per pixel. Both match the memory
layout of bitmapped video modes, so an artifact can be copied into the
framebuffer unchanged.

Encoders accept an optional sub-rectangle so a region of interest, such as
a HUD panel or dialog box, can be extracted from a larger mockup image.
*/
package bitmap

import "errors"

var (
	ErrInvalidImage = errors.New("bitmap: invalid image")
	ErrEmptyImage   = errors.New("bitmap: empty image")
	ErrInvalidRect  = errors.New("bitmap: rectangle outside image bounds")

	errDimensions = errors.New("bitmap: dimensions do not match data length")
	errBadPalette = errors.New("bitmap: index outside palette")
)
