/*
Package gbaconv converts ordinary raster images into the binary asset
formats used by Game Boy Advance style hardware: packed character tiles,
linear framebuffer rasters, 15-bit palettes and bitmap fonts.
*/
package gbaconv

import (
	"log"

	"github.com/bodgit/gbaconv/cache"
)

type Converter struct {
	cache  *cache.Cache
	logger *log.Logger
}

// New returns a Converter. A nil cache disables artifact caching and
// every conversion runs from scratch.
func New(c *cache.Cache, logger *log.Logger) *Converter {
	return &Converter{
		cache:  c,
		logger: logger,
	}
}
