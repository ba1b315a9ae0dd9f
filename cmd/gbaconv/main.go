package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/bodgit/gbaconv"
	"github.com/bodgit/gbaconv/bitmap"
	"github.com/bodgit/gbaconv/cache"
	"github.com/bodgit/gbaconv/quant"
	"github.com/bodgit/gbaconv/tile"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func newConverter(c *cli.Context) (*gbaconv.Converter, func() error, error) {
	closer := func() error { return nil }

	var db *cache.Cache
	if file := c.String("cache"); file != "" {
		var err error
		if db, err = cache.Open(file); err != nil {
			return nil, nil, err
		}
		closer = db.Close
	}

	return gbaconv.New(db, newLogger(c)), closer, nil
}

func parseRect(s string) (image.Rectangle, error) {
	if s == "" {
		return image.Rectangle{}, nil
	}
	var x0, y0, x1, y1 int
	if _, err := fmt.Sscanf(s, "%d,%d,%d,%d", &x0, &y0, &x1, &y1); err != nil {
		return image.Rectangle{}, fmt.Errorf("invalid rectangle %q", s)
	}
	return image.Rect(x0, y0, x1, y1), nil
}

// loadPalette reads a palette artifact, or derives a grayscale ramp of n
// entries when no artifact is given.
func loadPalette(file string, n int) (quant.Palette, error) {
	if file == "" {
		p := make(quant.Palette, n)
		for i := range p {
			v := uint8(i * 255 / (n - 1))
			p[i] = color.NRGBA{R: v, G: v, B: v, A: 0xff}
		}
		return p, nil
	}

	b, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	var p quant.Palette
	if err := p.UnmarshalBinary(b); err != nil {
		return nil, err
	}
	return p, nil
}

// paletteSwatch renders each palette entry as an 8 by 8 block, sixteen
// per row.
func paletteSwatch(data []byte) (image.Image, error) {
	var p quant.Palette
	if err := p.UnmarshalBinary(data); err != nil {
		return nil, err
	}

	const cell = 8
	cols := 16
	if len(p) < cols {
		cols = len(p)
	}
	rows := (len(p) + 15) / 16

	m := image.NewNRGBA(image.Rect(0, 0, cols*cell, rows*cell))
	for i, c := range p {
		ox := i % 16 * cell
		oy := i / 16 * cell
		for y := 0; y < cell; y++ {
			for x := 0; x < cell; x++ {
				m.SetNRGBA(ox+x, oy+y, c)
			}
		}
	}
	return m, nil
}

func writePNG(file string, m image.Image) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, m)
}

func tileOptions(c *cli.Context) gbaconv.TileOptions {
	return gbaconv.TileOptions{
		Depth:       tile.BitDepth(c.Int("bpp")),
		Quantizer:   c.String("quantizer"),
		Palette:     c.String("palette"),
		Colors:      c.Int("colors"),
		MaxBlocks:   c.Int("max-blocks"),
		AllowEmpty:  c.Bool("allow-empty"),
		PadPartial:  c.Bool("pad-partial"),
		PadIndex:    uint8(c.Int("pad-index")),
		PadToFit:    c.Bool("pad-to-fit"),
		PalettePath: c.String("export-palette"),
	}
}

func tileFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "bpp",
			Aliases: []string{"b"},
			Value:   4,
			Usage:   "bits per pixel, 4 or 8",
		},
		&cli.StringFlag{
			Name:    "quantizer",
			Aliases: []string{"q"},
			Value:   gbaconv.QuantMedianCut,
			Usage:   "mediancut, incremental or nearest",
		},
		&cli.StringFlag{
			Name:    "palette",
			Aliases: []string{"p"},
			Usage:   "palette artifact for the nearest quantizer",
		},
		&cli.IntFlag{
			Name:  "colors",
			Usage: "palette size limit, defaults to the depth maximum",
		},
		&cli.IntFlag{
			Name:  "max-blocks",
			Usage: "character block budget",
		},
		&cli.BoolFlag{
			Name:  "allow-empty",
			Usage: "accept zero-area images",
		},
		&cli.BoolFlag{
			Name:  "pad-partial",
			Usage: "round partial tiles up instead of failing",
		},
		&cli.IntFlag{
			Name:  "pad-index",
			Usage: "palette index for pixels added by --pad-partial",
		},
		&cli.BoolFlag{
			Name:  "pad-to-fit",
			Usage: "fill the artifact with zeros up to the block budget",
		},
		&cli.StringFlag{
			Name:  "export-palette",
			Usage: "write the derived palette artifact to this path",
		},
	}
}

func main() {
	app := cli.NewApp()

	app.Name = "gbaconv"
	app.Usage = "GBA asset conversion utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "cache",
			EnvVars: []string{"GBACONV_CACHE"},
			Usage:   "path to the artifact cache database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "tiles",
			Usage:     "Convert an image to packed character tiles",
			ArgsUsage: "IMAGE ARTIFACT",
			Flags:     tileFlags(),
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				conv, closer, err := newConverter(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer closer()

				if err := conv.ConvertTiles(c.Args().Get(0), c.Args().Get(1), tileOptions(c)); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "bitmap",
			Usage:     "Convert an image to a framebuffer raster",
			ArgsUsage: "IMAGE ARTIFACT",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   gbaconv.FormatRGB15,
					Usage:   "rgb15 or indexed",
				},
				&cli.StringFlag{
					Name:  "rect",
					Usage: "sub-rectangle to extract as X0,Y0,X1,Y1",
				},
				&cli.StringFlag{
					Name:    "quantizer",
					Aliases: []string{"q"},
					Value:   gbaconv.QuantMedianCut,
					Usage:   "quantizer for the indexed format",
				},
				&cli.StringFlag{
					Name:    "palette",
					Aliases: []string{"p"},
					Usage:   "palette artifact for the nearest quantizer",
				},
				&cli.IntFlag{
					Name:  "colors",
					Usage: "palette size limit for the indexed format",
				},
				&cli.StringFlag{
					Name:  "export-palette",
					Usage: "write the derived palette artifact to this path",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				r, err := parseRect(c.String("rect"))
				if err != nil {
					return cli.Exit(err, 1)
				}

				conv, closer, err := newConverter(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer closer()

				opts := gbaconv.BitmapOptions{
					Format:      c.String("format"),
					Rect:        r,
					Quantizer:   c.String("quantizer"),
					Palette:     c.String("palette"),
					Colors:      c.Int("colors"),
					PalettePath: c.String("export-palette"),
				}

				if err := conv.ConvertBitmap(c.Args().Get(0), c.Args().Get(1), opts); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "palette",
			Usage:     "Extract a 15-bit palette from an image",
			ArgsUsage: "IMAGE ARTIFACT",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "colors",
					Usage: "palette size limit including the transparent slot",
				},
				&cli.IntFlag{
					Name:  "pad",
					Usage: "pad the artifact with black up to this many entries",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				conv, closer, err := newConverter(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer closer()

				opts := gbaconv.PaletteOptions{
					Colors: c.Int("colors"),
					Pad:    c.Int("pad"),
				}

				if err := conv.ConvertPalette(c.Args().Get(0), c.Args().Get(1), opts); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "font",
			Usage:     "Pack a glyph sheet or TrueType font into a font artifact",
			ArgsUsage: "SHEET ARTIFACT",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:     "cell-width",
					Aliases:  []string{"W"},
					Required: true,
					Usage:    "glyph cell width in pixels",
				},
				&cli.IntFlag{
					Name:     "cell-height",
					Aliases:  []string{"H"},
					Required: true,
					Usage:    "glyph cell height in pixels",
				},
				&cli.StringFlag{
					Name:  "rect",
					Usage: "sub-rectangle of the sheet as X0,Y0,X1,Y1",
				},
				&cli.IntFlag{
					Name:  "first",
					Usage: "first rune rendered from a TrueType source",
				},
				&cli.IntFlag{
					Name:  "last",
					Usage: "last rune rendered from a TrueType source",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				r, err := parseRect(c.String("rect"))
				if err != nil {
					return cli.Exit(err, 1)
				}

				conv, closer, err := newConverter(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer closer()

				opts := gbaconv.FontOptions{
					CellW: c.Int("cell-width"),
					CellH: c.Int("cell-height"),
					Rect:  r,
					First: rune(c.Int("first")),
					Last:  rune(c.Int("last")),
				}

				if err := conv.ConvertFont(c.Args().Get(0), c.Args().Get(1), opts); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "scan",
			Usage:     "Convert every image under a directory to tile artifacts",
			ArgsUsage: "DIRECTORY",
			Flags:     tileFlags(),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				conv, closer, err := newConverter(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer closer()

				if err := conv.Scan(c.Args().First(), tileOptions(c)); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "preview",
			Usage:     "Render an artifact back to a PNG for inspection",
			ArgsUsage: "ARTIFACT PNG",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "type",
					Aliases: []string{"t"},
					Value:   "tiles",
					Usage:   "artifact type: tiles, bitmap or palette",
				},
				&cli.IntFlag{
					Name:    "bpp",
					Aliases: []string{"b"},
					Value:   4,
					Usage:   "bits per pixel of a tile artifact",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   gbaconv.FormatRGB15,
					Usage:   "format of a bitmap artifact",
				},
				&cli.IntFlag{
					Name:  "width",
					Value: 32,
					Usage: "tiles per row, or raster width in pixels",
				},
				&cli.IntFlag{
					Name:  "height",
					Usage: "raster height in pixels",
				},
				&cli.StringFlag{
					Name:    "palette",
					Aliases: []string{"p"},
					Usage:   "palette artifact, grayscale when omitted",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				data, err := os.ReadFile(c.Args().Get(0))
				if err != nil {
					return cli.Exit(err, 1)
				}

				var m image.Image
				switch c.String("type") {
				case "tiles":
					depth := tile.BitDepth(c.Int("bpp"))
					n := 16
					if depth == tile.Depth8 {
						n = 256
					}
					p, err := loadPalette(c.String("palette"), n)
					if err != nil {
						return cli.Exit(err, 1)
					}
					if m, err = tile.DecodeImage(data, depth, c.Int("width"), p); err != nil {
						return cli.Exit(err, 1)
					}
				case "bitmap":
					switch c.String("format") {
					case gbaconv.FormatRGB15:
						if m, err = bitmap.DecodeRGB15(data, c.Int("width"), c.Int("height")); err != nil {
							return cli.Exit(err, 1)
						}
					case gbaconv.FormatIndexed:
						p, err := loadPalette(c.String("palette"), 256)
						if err != nil {
							return cli.Exit(err, 1)
						}
						if m, err = bitmap.DecodeIndexed(data, c.Int("width"), c.Int("height"), p); err != nil {
							return cli.Exit(err, 1)
						}
					default:
						return cli.Exit(fmt.Errorf("unknown bitmap format %q", c.String("format")), 1)
					}
				case "palette":
					if m, err = paletteSwatch(data); err != nil {
						return cli.Exit(err, 1)
					}
				default:
					return cli.Exit(fmt.Errorf("unknown artifact type %q", c.String("type")), 1)
				}

				if err := writePNG(c.Args().Get(1), m); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
