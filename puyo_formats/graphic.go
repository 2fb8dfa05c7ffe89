package puyo_formats

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Graphic is a black and white character bitmap, one bool per pixel in
// row major order. On the wire a graphic is 4 bits per pixel with the low
// nibble of every byte holding the left pixel of the pair.
type Graphic [][]bool

// Orientation picks which grid axis of an exported font sheet is the
// longer one.
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// UnpackGraphic expands 4bpp graphic data into a bitmap of the given
// pixel width. Every row is width/2 bytes; data that does not divide into
// whole rows is a format error.
func UnpackGraphic(data []byte, width int) (Graphic, error) {
	if width <= 0 || width%pixelsPerByte != 0 {
		return nil, fmt.Errorf("graphic width %d is not a positive multiple of 2: %w", width, ErrFormat)
	}

	rowBytes := width / pixelsPerByte
	if len(data)%rowBytes != 0 {
		return nil, fmt.Errorf("%d bytes of graphic data does not divide into rows of %d bytes: %w", len(data), rowBytes, ErrFormat)
	}

	graphic := make(Graphic, 0, len(data)/rowBytes)
	for row := 0; row < len(data); row += rowBytes {
		graphicRow := make([]bool, 0, width)

		for _, b := range data[row : row+rowBytes] {
			// Swap nibble order, the graphic data is little endian
			first, second := b&0xF, b>>bitsPerPixel
			graphicRow = append(graphicRow, first != 0, second != 0)
		}

		graphic = append(graphic, graphicRow)
	}

	return graphic, nil
}

// Pack flattens the bitmap row by row and packs pixel pairs back into
// 4bpp bytes. The pixel count must be even.
func (g Graphic) Pack() ([]byte, error) {
	var pixels []bool
	for _, row := range g {
		pixels = append(pixels, row...)
	}

	if len(pixels)%pixelsPerByte != 0 {
		return nil, fmt.Errorf("graphic holds %d pixels, not a multiple of 2: %w", len(pixels), ErrFormat)
	}

	packed := make([]byte, 0, len(pixels)/pixelsPerByte)
	for i := 0; i < len(pixels); i += pixelsPerByte {
		// Swap nibble order, the graphic data is little endian
		var b byte
		if pixels[i] {
			b |= 0x1
		}
		if pixels[i+1] {
			b |= 0x1 << bitsPerPixel
		}

		packed = append(packed, b)
	}

	return packed, nil
}

// mediumDivisors returns the divisor pair of n whose ratio is closest to
// 1, larger divisor first. Used to arrange a character table into a grid
// that is as close to square as possible.
func mediumDivisors(n int) (int, int) {
	for i := int(math.Sqrt(float64(n))); i > 1; i-- {
		if n%i == 0 {
			return n / i, i
		}
	}

	return n, 1
}

// GraphicsToImage lays a run of equally sized graphics out in a grid,
// each cell padded on all sides, and renders them into a grayscale image.
// A nil graphic renders as a blank cell.
func GraphicsToImage(graphics []Graphic, fontHeight, fontWidth, padding int, orientation Orientation) (image.Image, error) {
	if len(graphics) == 0 {
		return nil, fmt.Errorf("no graphics to lay out: %w", ErrFormat)
	}

	width, height := mediumDivisors(len(graphics))
	if (orientation == Portrait && width > height) ||
		(orientation == Landscape && width < height) {
		width, height = height, width
	}

	cellHeight := fontHeight + padding*2
	cellWidth := fontWidth + padding*2

	img := image.NewGray(image.Rect(0, 0, cellWidth*width, cellHeight*height))
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			graphic := graphics[row*width+col]

			for y, graphicRow := range graphic {
				for x, on := range graphicRow {
					if on {
						img.SetGray(col*cellWidth+padding+x, row*cellHeight+padding+y, color.Gray{Y: 0xFF})
					}
				}
			}
		}
	}

	return img, nil
}

// GraphicsFromImage cuts a font sheet image back into per character
// graphics, cropping the padding border off every cell. The image must
// divide evenly into cells.
func GraphicsFromImage(img image.Image, fontHeight, fontWidth, padding int) ([]Graphic, error) {
	cellHeight := fontHeight + padding*2
	cellWidth := fontWidth + padding*2

	bounds := img.Bounds()
	if bounds.Dx()%cellWidth != 0 || bounds.Dy()%cellHeight != 0 {
		return nil, fmt.Errorf("%dx%d image does not divide into %dx%d cells: %w",
			bounds.Dx(), bounds.Dy(), cellWidth, cellHeight, ErrFormat)
	}

	gray := imaging.Grayscale(img)

	graphics := make([]Graphic, 0, (bounds.Dy()/cellHeight)*(bounds.Dx()/cellWidth))
	for row := 0; row < bounds.Dy()/cellHeight; row++ {
		for col := 0; col < bounds.Dx()/cellWidth; col++ {
			cell := imaging.Crop(gray, image.Rect(
				col*cellWidth+padding,
				row*cellHeight+padding,
				(col+1)*cellWidth-padding,
				(row+1)*cellHeight-padding,
			))

			graphic := make(Graphic, fontHeight)
			for y := 0; y < fontHeight; y++ {
				graphic[y] = make([]bool, fontWidth)
				for x := 0; x < fontWidth; x++ {
					r, _, _, _ := cell.At(x, y).RGBA()
					graphic[y][x] = r >= 0x8000
				}
			}

			graphics = append(graphics, graphic)
		}
	}

	return graphics, nil
}
