package quant

import (
	"errors"
	"image"
	"image/color"

	"github.com/ericpauley/go-quantize/quantize"
)

var errMedianCutColors = errors.New("quant: median cut needs between 2 and 256 colors")

// MedianCut derives a fixed palette from a source image using median-cut
// color reduction and then behaves exactly like NearestFixed. It is the
// strategy of choice when the source holds more distinct colors than the
// target palette can record.
type MedianCut struct {
	NearestFixed
}

// NewMedianCut builds a palette of at most maxColors entries (including
// the reserved transparent slot) from the colors of m.
func NewMedianCut(m image.Image, maxColors int) (*MedianCut, error) {
	if maxColors < 2 || maxColors > MaxColors8 {
		return nil, errMedianCutColors
	}

	// Slot 0 is seeded before quantization so median cut only fills the
	// remaining capacity with real colors.
	seed := make(color.Palette, 0, maxColors)
	seed = append(seed, color.NRGBA{})

	q := quantize.MedianCutQuantizer{}
	reduced := q.Quantize(seed, m)

	p := make(Palette, 0, len(reduced))
	for _, c := range reduced {
		r, g, b, a := rgba8(c)
		p = append(p, color.NRGBA{r, g, b, a})
	}

	return &MedianCut{NearestFixed{palette: p}}, nil
}
