/*
Package quant assigns palette indices to true-color pixels.

Every quantizer honors the same convention: palette index 0 denotes
transparency, and any pixel that is not fully opaque maps to it
unconditionally. Opaque pixels are matched on color alone, so an opaque
black pixel lands on whichever entry holds black, never on index 0 by
accident.
*/
package quant

import (
	"errors"
	"image/color"
)

var (
	errEmptyPalette = errors.New("quant: palette needs at least the transparent entry")
	errCapacity     = errors.New("quant: capacity must be between 2 and 256")
)

// Quantizer maps a single pixel to a palette index.
type Quantizer interface {
	Classify(c color.Color) uint8
}

// PaletteExporter is implemented by quantizers that can report the palette
// their indices refer to.
type PaletteExporter interface {
	ExportPalette() Palette
}

// distance is the squared Euclidean distance between two colors in RGB
// space. Alpha plays no part; transparency is decided before matching.
func distance(r, g, b uint8, c color.NRGBA) int {
	dr := int(r) - int(c.R)
	dg := int(g) - int(c.G)
	db := int(b) - int(c.B)
	return dr*dr + dg*dg + db*db
}

// nearest returns the index of the palette entry closest to the given
// channels. Entry 0 is excluded from matching; ties keep the lowest index.
func nearest(p Palette, r, g, b uint8) (int, int) {
	best, bestDist := 0, int(^uint(0)>>1)
	for i := 1; i < len(p); i++ {
		if d := distance(r, g, b, p[i]); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}

// NearestFixed quantizes against a fixed palette. It is stateless after
// construction and may be shared across encodings.
type NearestFixed struct {
	palette Palette
}

// NewNearestFixed returns a quantizer matching pixels against the given
// palette. The palette must hold at least the reserved transparent entry
// and at most 256 entries in total.
func NewNearestFixed(p Palette) (*NearestFixed, error) {
	if len(p) < 1 {
		return nil, errEmptyPalette
	}
	if len(p) > MaxColors8 {
		return nil, errPaletteSize
	}
	return &NearestFixed{palette: p}, nil
}

// Classify returns the index of the palette entry nearest to c, or 0 for
// any pixel that is not fully opaque. It never fails.
func (q *NearestFixed) Classify(c color.Color) uint8 {
	r, g, b, a := rgba8(c)
	if a < 0xff {
		return 0
	}
	i, _ := nearest(q.palette, r, g, b)
	return uint8(i)
}

// ExportPalette returns the palette the indices refer to.
func (q *NearestFixed) ExportPalette() Palette {
	return q.palette
}

// Incremental grows a palette from the colors it encounters. The first
// occurrence of each distinct opaque color claims the next free index, so
// palette order is entirely determined by first-encounter order. Once the
// palette is full, further colors snap to their nearest existing entry.
//
// Classify mutates the quantizer; an Incremental must not be shared
// between concurrent callers for the duration of a pass.
type Incremental struct {
	palette  Palette
	capacity int
}

// NewIncremental returns an empty growing quantizer. Capacity counts all
// entries including the reserved transparent slot and is bounded by the
// 8bpp palette limit.
func NewIncremental(capacity int) (*Incremental, error) {
	if capacity < 2 || capacity > MaxColors8 {
		return nil, errCapacity
	}
	p := make(Palette, 1, capacity)
	return &Incremental{palette: p, capacity: capacity}, nil
}

// Classify returns the palette index for c, recording its color first if
// it is new and the palette has room.
func (q *Incremental) Classify(c color.Color) uint8 {
	r, g, b, a := rgba8(c)
	if a < 0xff {
		return 0
	}

	// The first recorded color is assigned directly; with nothing beyond
	// the transparent slot there is nothing to match against yet.
	if len(q.palette) < 2 {
		q.palette = append(q.palette, color.NRGBA{r, g, b, 0xff})
		return uint8(len(q.palette) - 1)
	}

	i, d := nearest(q.palette, r, g, b)
	if d == 0 || len(q.palette) == q.capacity {
		return uint8(i)
	}

	q.palette = append(q.palette, color.NRGBA{r, g, b, 0xff})
	return uint8(len(q.palette) - 1)
}

// ExportPalette returns the palette recorded so far.
func (q *Incremental) ExportPalette() Palette {
	return q.palette
}
