package puyo_formats

import (
	"bytes"
	"fmt"
	"image"
)

const (
	FmpDefaultFontSize = 14
	FmpDefaultPadding  = 1
)

// Fmp is the glyph graphics table paired with the fpd: a headerless run
// of square 4bpp cells whose positions line up with the fpd character
// indices. The cell is stored as two halves, upper and lower, each
// (size/2)^2 bytes.
type Fmp struct {
	Glyphs   []Graphic
	FontSize int
}

func fmpCellSize(fontSize int) int {
	bytesWidth := fontSize * bitsPerPixel / 8
	return bytesWidth * bytesWidth * 2
}

// DecodeFmp reads a fmp glyph table. The font size is not recorded in
// the file and must be supplied; the games use 8 or 14 pixels.
func DecodeFmp(data []byte, fontSize int) (*Fmp, error) {
	if fontSize <= 0 || fontSize%pixelsPerByte != 0 {
		return nil, fmt.Errorf("font size %d is not a positive multiple of 2: %w", fontSize, ErrFormat)
	}

	cellSize := fmpCellSize(fontSize)
	if len(data)%cellSize != 0 {
		return nil, fmt.Errorf("%d byte fmp does not divide into %d byte cells: %w", len(data), cellSize, ErrFormat)
	}

	glyphs := make([]Graphic, 0, len(data)/cellSize)
	for i := 0; i < len(data); i += cellSize {
		glyph, err := UnpackGraphic(data[i:i+cellSize], fontSize)
		if err != nil {
			return nil, err
		}

		glyphs = append(glyphs, glyph)
	}

	return &Fmp{Glyphs: glyphs, FontSize: fontSize}, nil
}

// Encode concatenates the packed cells in table order.
func (f *Fmp) Encode() ([]byte, error) {
	var buf bytes.Buffer

	for _, glyph := range f.Glyphs {
		packed, err := glyph.Pack()
		if err != nil {
			return nil, err
		}

		buf.Write(packed)
	}

	return buf.Bytes(), nil
}

// FmpFromImage cuts a font sheet image into a glyph table.
func FmpFromImage(img image.Image, fontSize, padding int) (*Fmp, error) {
	glyphs, err := GraphicsFromImage(img, fontSize, fontSize, padding)
	if err != nil {
		return nil, err
	}

	return &Fmp{Glyphs: glyphs, FontSize: fontSize}, nil
}

// Image renders the glyph table as a font sheet.
func (f *Fmp) Image(padding int, orientation Orientation) (image.Image, error) {
	return GraphicsToImage(f.Glyphs, f.FontSize, f.FontSize, padding, orientation)
}
