package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/urfave/cli/v2"
	"golang.org/x/image/bmp"

	"puyotools/compression"
	"puyotools/puyo_formats"
)

func outputPath(c *cli.Context, ext string) string {
	if out := c.String("output"); out != "" {
		return out
	}

	input := c.Args().First()
	return strings.TrimSuffix(input, filepath.Ext(input)) + ext
}

// saveImage picks the container by extension; the modding tools for
// these games exchange font sheets as BMP or PNG.
func saveImage(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".bmp") {
		return bmp.Encode(f, img)
	}

	return png.Encode(f, img)
}

var outputFlag = &cli.StringFlag{
	Name:    "output",
	Aliases: []string{"o"},
	Usage:   "write to `FILE` instead of the input path with a new extension",
}

var convertCommand = &cli.Command{
	Name:  "convert",
	Usage: "convert game data files to editable formats",
	Subcommands: []*cli.Command{
		{
			Name:      "fpd",
			Usage:     "convert a fpd character table to CSV",
			ArgsUsage: "FPD_FILE",
			Flags: []cli.Flag{
				outputFlag,
				&cli.BoolFlag{Name: "text", Usage: "write UTF-16LE text instead of CSV"},
			},
			Action: func(c *cli.Context) error {
				data, err := os.ReadFile(c.Args().First())
				if err != nil {
					return err
				}

				fpd, err := puyo_formats.DecodeFpd(data)
				if err != nil {
					return err
				}

				if c.Bool("text") {
					f, err := os.Create(outputPath(c, ".txt"))
					if err != nil {
						return err
					}
					defer f.Close()

					return fpd.WriteText(f)
				}

				f, err := os.Create(outputPath(c, ".csv"))
				if err != nil {
					return err
				}
				defer f.Close()

				return fpd.WriteCSV(f)
			},
		},
		{
			Name:      "fmp",
			Usage:     "convert a fmp glyph table to a font sheet image",
			ArgsUsage: "FMP_FILE",
			Flags: []cli.Flag{
				outputFlag,
				&cli.IntFlag{Name: "size", Value: puyo_formats.FmpDefaultFontSize, Usage: "glyph size in pixels, 8 or 14"},
				&cli.IntFlag{Name: "padding", Value: puyo_formats.FmpDefaultPadding, Usage: "pixels of padding around every glyph"},
				&cli.StringFlag{Name: "orientation", Value: string(puyo_formats.Portrait), Usage: "portrait or landscape sheet"},
			},
			Action: func(c *cli.Context) error {
				data, err := os.ReadFile(c.Args().First())
				if err != nil {
					return err
				}

				fmp, err := puyo_formats.DecodeFmp(data, c.Int("size"))
				if err != nil {
					return err
				}

				img, err := fmp.Image(c.Int("padding"), puyo_formats.Orientation(c.String("orientation")))
				if err != nil {
					return err
				}

				return saveImage(outputPath(c, ".png"), img)
			},
		},
		{
			Name:      "fnt",
			Usage:     "convert a fnt character table to CSV, optionally with a font sheet",
			ArgsUsage: "FNT_FILE",
			Flags: []cli.Flag{
				outputFlag,
				&cli.StringFlag{Name: "image", Usage: "also write embedded glyphs to an image `FILE`"},
				&cli.IntFlag{Name: "padding", Value: puyo_formats.FntDefaultPadding},
				&cli.StringFlag{Name: "orientation", Value: string(puyo_formats.Portrait)},
			},
			Action: func(c *cli.Context) error {
				f, err := os.Open(c.Args().First())
				if err != nil {
					return err
				}
				defer f.Close()

				fnt, err := puyo_formats.DecodeFnt(f)
				if err != nil {
					return err
				}

				out, err := os.Create(outputPath(c, ".csv"))
				if err != nil {
					return err
				}
				defer out.Close()

				if err := fnt.WriteCSV(out); err != nil {
					return err
				}

				if imagePath := c.String("image"); imagePath != "" {
					img, err := fnt.WriteImage(c.Int("padding"), puyo_formats.Orientation(c.String("orientation")))
					if err != nil {
						return err
					}

					return saveImage(imagePath, img)
				}

				return nil
			},
		},
		{
			Name:      "mtx",
			Usage:     "convert a mtx text bank to XML",
			ArgsUsage: "MTX_FILE",
			Flags: []cli.Flag{
				outputFlag,
				&cli.StringFlag{Name: "fpd", Usage: "fpd character table `FILE` to resolve text against"},
				&cli.StringFlag{Name: "fnt", Usage: "fnt character table `FILE` to resolve text against"},
			},
			Action: func(c *cli.Context) error {
				font, err := loadFont(c)
				if err != nil {
					return err
				}

				data, err := os.ReadFile(c.Args().First())
				if err != nil {
					return err
				}

				mtx, err := puyo_formats.DecodeMtx(data)
				if err != nil {
					return err
				}

				xml, err := mtx.XML(font)
				if err != nil {
					return err
				}

				return os.WriteFile(outputPath(c, ".xml"), xml, 0644)
			},
		},
	},
}

func loadFont(c *cli.Context) (puyo_formats.Font, error) {
	switch {
	case c.String("fpd") != "":
		data, err := os.ReadFile(c.String("fpd"))
		if err != nil {
			return nil, err
		}
		return puyo_formats.DecodeFpd(data)
	case c.String("fnt") != "":
		f, err := os.Open(c.String("fnt"))
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return puyo_formats.DecodeFnt(f)
	}

	return nil, fmt.Errorf("rendering mtx text needs a character table, pass --fpd or --fnt")
}

var createCommand = &cli.Command{
	Name:  "create",
	Usage: "create game data files from editable formats",
	Subcommands: []*cli.Command{
		{
			Name:      "fpd",
			Usage:     "create a fpd character table from CSV or UTF-16LE text",
			ArgsUsage: "CSV_OR_TXT_FILE",
			Flags: []cli.Flag{
				outputFlag,
				&cli.BoolFlag{Name: "text", Usage: "read a UTF-16LE text file instead of CSV"},
			},
			Action: func(c *cli.Context) error {
				f, err := os.Open(c.Args().First())
				if err != nil {
					return err
				}
				defer f.Close()

				var fpd *puyo_formats.Fpd
				if c.Bool("text") {
					fpd, err = puyo_formats.ReadFpdText(f)
				} else {
					fpd, err = puyo_formats.ReadFpdCSV(f)
				}
				if err != nil {
					return err
				}

				encoded, err := fpd.Encode()
				if err != nil {
					return err
				}

				return os.WriteFile(outputPath(c, ".fpd"), encoded, 0644)
			},
		},
		{
			Name:      "fnt",
			Usage:     "create a fnt character table from CSV, optionally with a font sheet",
			ArgsUsage: "CSV_FILE",
			Flags: []cli.Flag{
				outputFlag,
				&cli.StringFlag{Name: "image", Usage: "font sheet image `FILE` with the glyphs to embed"},
				&cli.IntFlag{Name: "height", Value: puyo_formats.FntDefaultFontHeight, Usage: "glyph height in pixels"},
				&cli.IntFlag{Name: "width", Value: puyo_formats.FntDefaultFontWidth, Usage: "glyph width in pixels"},
				&cli.IntFlag{Name: "padding", Value: puyo_formats.FntDefaultPadding},
				&cli.StringFlag{Name: "version", Value: string(puyo_formats.FntVersionAuto), Usage: "platform variant: PTE, NDS, PSP, GCIX or GVRT"},
			},
			Action: func(c *cli.Context) error {
				f, err := os.Open(c.Args().First())
				if err != nil {
					return err
				}
				defer f.Close()

				fnt, err := puyo_formats.ReadFntCSV(f, c.Int("height"), c.Int("width"))
				if err != nil {
					return err
				}

				if imagePath := c.String("image"); imagePath != "" {
					img, err := imaging.Open(imagePath)
					if err != nil {
						return err
					}

					if err := fnt.AddGraphics(img, c.Int("padding")); err != nil {
						return err
					}
				}

				encoded, err := fnt.Encode(puyo_formats.FntVersion(c.String("version")))
				if err != nil {
					return err
				}

				return os.WriteFile(outputPath(c, ".fnt"), encoded, 0644)
			},
		},
	},
}

var decompressCommand = &cli.Command{
	Name:      "decompress",
	Usage:     "decompress an LZ11 compressed data file",
	ArgsUsage: "LZ11_FILE",
	Flags:     []cli.Flag{outputFlag},
	Action: func(c *cli.Context) error {
		f, err := os.Open(c.Args().First())
		if err != nil {
			return err
		}
		defer f.Close()

		out, err := os.Create(outputPath(c, ".bin"))
		if err != nil {
			return err
		}
		defer out.Close()

		return compression.DecompressLZ11(f, out)
	},
}

func main() {
	app := &cli.App{
		Name:  "puyotools",
		Usage: "convert data files from the older Puyo Puyo games to and from editable formats",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "debug",
				Aliases:     []string{"d"},
				Usage:       "print decoded headers",
				Destination: &puyo_formats.Debug,
			},
		},
		Commands: []*cli.Command{
			convertCommand,
			createCommand,
			decompressCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
