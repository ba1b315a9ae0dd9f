package bitmap

import (
	"image"

	"github.com/bodgit/gbaconv/quant"
)

// EncodeRGB15 packs every pixel of m as a little-endian 16-bit word
// holding its 15-bit color, row-major.
func EncodeRGB15(m image.Image) ([]byte, error) {
	if m == nil {
		return nil, ErrInvalidImage
	}
	return EncodeRGB15Sub(m, m.Bounds())
}

// EncodeRGB15Sub packs only the pixels inside r, which must lie within
// the bounds of m.
func EncodeRGB15Sub(m image.Image, r image.Rectangle) ([]byte, error) {
	if err := checkRect(m, r); err != nil {
		return nil, err
	}

	out := make([]byte, 0, r.Dx()*r.Dy()*2)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := quant.ToRGB15(m.At(x, y))
			out = append(out, byte(c), byte(c>>8))
		}
	}

	return out, nil
}

// EncodeIndexed packs every pixel of m as one 8-bit palette index,
// row-major. Pixel values come from q.Classify.
func EncodeIndexed(m image.Image, q quant.Quantizer) ([]byte, error) {
	if m == nil {
		return nil, ErrInvalidImage
	}
	return EncodeIndexedSub(m, m.Bounds(), q)
}

// EncodeIndexedSub packs only the pixels inside r, which must lie within
// the bounds of m.
func EncodeIndexedSub(m image.Image, r image.Rectangle, q quant.Quantizer) ([]byte, error) {
	if err := checkRect(m, r); err != nil {
		return nil, err
	}

	out := make([]byte, 0, r.Dx()*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			out = append(out, q.Classify(m.At(x, y)))
		}
	}

	return out, nil
}

func checkRect(m image.Image, r image.Rectangle) error {
	if m == nil {
		return ErrInvalidImage
	}
	if r.Empty() {
		return ErrEmptyImage
	}
	if !r.In(m.Bounds()) {
		return ErrInvalidRect
	}
	return nil
}
