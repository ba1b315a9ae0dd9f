package font

import (
	"errors"
	"image"
	"image/color"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	xfont "golang.org/x/image/font"
)

// SheetColumns is the cell count per row in sheets built by RenderSheet.
const SheetColumns = 16

var (
	errCellSize  = errors.New("font: cell dimensions must be positive")
	errRuneRange = errors.New("font: invalid rune range")
)

// RenderSheet rasterizes the runes lo through hi from TrueType font data
// into a glyph sheet laid out SheetColumns cells per row, sized for Pack.
// Antialiased coverage is thresholded at 25 percent; set pixels become
// opaque white and everything else stays transparent, so the sheet
// binarizes the way Pack expects.
func RenderSheet(fontData []byte, cellW, cellH int, lo, hi rune) (*image.NRGBA, error) {
	if cellW < 1 || cellH < 1 {
		return nil, errCellSize
	}
	if hi < lo {
		return nil, errRuneRange
	}

	f, err := freetype.ParseFont(fontData)
	if err != nil {
		return nil, err
	}

	face := truetype.NewFace(f, &truetype.Options{
		Size:    float64(cellH),
		DPI:     72,
		Hinting: xfont.HintingFull,
	})
	defer face.Close()

	// Place the baseline so ascenders and descenders both fit the cell.
	metrics := face.Metrics()
	ascent := int(metrics.Ascent >> 6)
	descent := int(metrics.Descent >> 6)
	baseline := (cellH + ascent - descent) / 2

	mask := image.NewAlpha(image.Rect(0, 0, cellW, cellH))
	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(f)
	ctx.SetFontSize(float64(cellH))
	ctx.SetClip(mask.Bounds())
	ctx.SetDst(mask)
	ctx.SetSrc(image.White)
	ctx.SetHinting(xfont.HintingFull)

	count := int(hi-lo) + 1
	rows := (count + SheetColumns - 1) / SheetColumns
	sheet := image.NewNRGBA(image.Rect(0, 0, SheetColumns*cellW, rows*cellH))

	for i := 0; i < count; i++ {
		for p := range mask.Pix {
			mask.Pix[p] = 0
		}
		if _, err := ctx.DrawString(string(lo+rune(i)), freetype.Pt(0, baseline)); err != nil {
			return nil, err
		}

		ox := i % SheetColumns * cellW
		oy := i / SheetColumns * cellH
		for y := 0; y < cellH; y++ {
			for x := 0; x < cellW; x++ {
				if mask.AlphaAt(x, y).A > 64 {
					sheet.SetNRGBA(ox+x, oy+y, color.NRGBA{0xff, 0xff, 0xff, 0xff})
				}
			}
		}
	}

	return sheet, nil
}
