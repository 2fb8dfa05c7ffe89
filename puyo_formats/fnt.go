package puyo_formats

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"io"
	"io/ioutil"
)

const (
	fntHeaderLength = 16 // 4s magic, u32 height, u32 width, u32 count
	fntEntryLength  = 4  // u16 code point, u16 width

	// The NDS sub header is 32 bytes: the 6 byte marker and 26 reserved
	// bytes that are only ever observed zeroed.
	fntNdsHeaderLength = 32

	FntDefaultFontHeight = 11
	FntDefaultFontWidth  = 16
	FntDefaultPadding    = 1
)

// FntVersion selects the platform trailer written by Encode.
type FntVersion string

const (
	// FntVersionAuto writes the bare Puyo Text Editor layout, embedding
	// glyphs only when the table carries at least one.
	FntVersionAuto FntVersion = "PTE"
	FntVersionNDS  FntVersion = "NDS"
	FntVersionPSP  FntVersion = "PSP"
	FntVersionGCIX FntVersion = "GCIX"
	FntVersionGVRT FntVersion = "GVRT"
)

var (
	fntMagicNumber = []byte("FNT\x00")

	fntNdsMarker  = []byte{0xe0, 0x03, 0xff, 0x7f, 0xc6, 0x18}
	fntWiiMarkers = [][]byte{[]byte(FntVersionGCIX), []byte(FntVersionGVRT)}
	fntPspMarker  = []byte("MIG.00.1PSP")
)

// Fnt is the character table format of Puyo Puyo!! 20th Anniversary. The
// header is shared across platforms; the platform is identified by a
// marker either directly after the header (NDS, with embedded glyphs) or
// at the end of the file.
type Fnt struct {
	Table      *CharTable
	FontHeight int
	FontWidth  int

	// Version is the variant detected by DecodeFnt or, for tables built
	// from CSV, FntVersionAuto.
	Version FntVersion
}

func (f *Fnt) graphicSize() int {
	return f.FontHeight * f.FontWidth / pixelsPerByte
}

// sniffFntVariant picks the platform variant by probing markers in
// priority order: the NDS marker directly after the header, a Wii marker
// in the last 4 bytes, the PSP marker in the last 11 bytes, then the bare
// layout written by Puyo Text Editor. It returns the variant together
// with the total size a file of that variant must have.
func sniffFntVariant(data []byte, count, graphicSize int) (FntVersion, int) {
	recordBytes := count * fntEntryLength

	if len(data) >= fntHeaderLength+len(fntNdsMarker) &&
		bytes.Equal(data[fntHeaderLength:fntHeaderLength+len(fntNdsMarker)], fntNdsMarker) {
		return FntVersionNDS, fntHeaderLength + fntNdsHeaderLength + count*(fntEntryLength+graphicSize)
	}

	for _, marker := range fntWiiMarkers {
		if len(data) >= len(marker) && bytes.Equal(data[len(data)-len(marker):], marker) {
			return FntVersion(marker), fntHeaderLength + recordBytes + len(marker)
		}
	}

	if len(data) >= len(fntPspMarker) && bytes.Equal(data[len(data)-len(fntPspMarker):], fntPspMarker) {
		return FntVersionPSP, fntHeaderLength + recordBytes + len(fntPspMarker)
	}

	return FntVersionAuto, fntHeaderLength + recordBytes
}

// DecodeFnt reads a fnt character table. Detecting the platform variant
// probes markers relative to the end of the stream, so the source must be
// seekable; a plain reader fails with ErrNotSeekable.
func DecodeFnt(r io.Reader) (*Fnt, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		return nil, fmt.Errorf("fnt decoding probes end of stream markers: %w", ErrNotSeekable)
	}

	data, err := ioutil.ReadAll(rs)
	if err != nil {
		return nil, err
	}

	if len(data) < fntHeaderLength {
		return nil, fmt.Errorf("%d byte fnt is too short for a header: %w", len(data), ErrFormat)
	}
	if !bytes.Equal(data[:4], fntMagicNumber) {
		return nil, fmt.Errorf("magic number %q is not %q: %w", data[:4], fntMagicNumber, ErrFormat)
	}

	fontHeight := int(binary.LittleEndian.Uint32(data[4:8]))
	fontWidth := int(binary.LittleEndian.Uint32(data[8:12]))
	count := int(binary.LittleEndian.Uint32(data[12:16]))

	if fontWidth <= 0 || fontWidth%pixelsPerByte != 0 {
		return nil, fmt.Errorf("font width %d is not a positive multiple of 2: %w", fontWidth, ErrFormat)
	}

	graphicSize := fontHeight * fontWidth / pixelsPerByte

	version, expected := sniffFntVariant(data, count, graphicSize)
	if expected != len(data) {
		return nil, fmt.Errorf("%d byte fnt should be %d bytes as a %s fnt: %w", len(data), expected, version, ErrFormat)
	}

	if Debug {
		pprint(struct {
			FontHeight int
			FontWidth  int
			Count      int
			Version    FntVersion
		}{fontHeight, fontWidth, count, version})
	}

	offset := fntHeaderLength
	if version == FntVersionNDS {
		offset += fntNdsHeaderLength
	}

	table := NewCharTable()
	for i := 0; i < count; i++ {
		codePoint := binary.LittleEndian.Uint16(data[offset : offset+2])
		width := binary.LittleEndian.Uint16(data[offset+2 : offset+4])
		offset += fntEntryLength

		entry := &Entry{Character: Character{Rune: rune(codePoint), Width: uint8(width)}}

		if version == FntVersionNDS {
			graphic, err := UnpackGraphic(data[offset:offset+graphicSize], fontWidth)
			if err != nil {
				return nil, err
			}

			entry.Graphic = graphic
			offset += graphicSize
		}

		table.Add(entry)
	}

	return &Fnt{Table: table, FontHeight: fontHeight, FontWidth: fontWidth, Version: version}, nil
}

// Encode writes the table as the given platform variant. NDS always
// embeds glyphs, substituting a blank cell for entries without one; auto
// embeds only when at least one entry carries a graphic.
func (f *Fnt) Encode(version FntVersion) ([]byte, error) {
	var buf bytes.Buffer

	buf.Write(fntMagicNumber)

	var header [fntHeaderLength - 4]byte
	binary.LittleEndian.PutUint32(header[0:4], uint32(f.FontHeight))
	binary.LittleEndian.PutUint32(header[4:8], uint32(f.FontWidth))
	binary.LittleEndian.PutUint32(header[8:12], uint32(f.Table.Len()))
	buf.Write(header[:])

	writeGraphics := version == FntVersionNDS ||
		(version == FntVersionAuto && f.Table.HasGraphics())
	if writeGraphics {
		buf.Write(fntNdsMarker)
		buf.Write(make([]byte, fntNdsHeaderLength-len(fntNdsMarker)))
	}

	for i := 0; i < f.Table.Len(); i++ {
		e, err := f.Table.Resolve(i)
		if err != nil {
			return nil, err
		}
		if e.Rune > maxBMPCodePoint {
			return nil, fmt.Errorf("fnt cannot encode %q: %w", e.Rune, ErrCodePointRange)
		}

		var record [fntEntryLength]byte
		binary.LittleEndian.PutUint16(record[0:2], uint16(e.Rune))
		binary.LittleEndian.PutUint16(record[2:4], uint16(e.Width))
		buf.Write(record[:])

		if !writeGraphics {
			continue
		}

		if e.Graphic == nil {
			buf.Write(make([]byte, f.graphicSize()))
			continue
		}

		packed, err := e.Graphic.Pack()
		if err != nil {
			return nil, err
		}
		buf.Write(packed)
	}

	switch version {
	case FntVersionPSP:
		buf.Write(fntPspMarker)
	case FntVersionGCIX, FntVersionGVRT:
		buf.Write([]byte(version))
	}

	return buf.Bytes(), nil
}

// CharacterAt lets a mtx string bank resolve indices against this table.
func (f *Fnt) CharacterAt(index int) (rune, error) {
	return f.Table.CharacterAt(index)
}

// ReadFntCSV builds a table from its CSV projection. The font dimensions
// are not part of the CSV and must be supplied.
func ReadFntCSV(r io.Reader, fontHeight, fontWidth int) (*Fnt, error) {
	if fontWidth <= 0 || fontWidth%pixelsPerByte != 0 {
		return nil, fmt.Errorf("font width %d is not a positive multiple of 2: %w", fontWidth, ErrFormat)
	}

	table, err := readCharacterTableCSV(r)
	if err != nil {
		return nil, err
	}

	return &Fnt{Table: table, FontHeight: fontHeight, FontWidth: fontWidth, Version: FntVersionAuto}, nil
}

// WriteCSV writes the CSV projection of the table, graphics omitted.
func (f *Fnt) WriteCSV(w io.Writer) error {
	return writeCharacterTableCSV(w, f.Table)
}

// AddGraphics cuts a font sheet image into glyphs and attaches them to
// the concrete entries in table order.
func (f *Fnt) AddGraphics(img image.Image, padding int) error {
	graphics, err := GraphicsFromImage(img, f.FontHeight, f.FontWidth, padding)
	if err != nil {
		return err
	}

	return f.Table.AttachGraphics(graphics)
}

// WriteImage renders the glyphs of every concrete entry as a font sheet.
// Entries without a graphic render blank.
func (f *Fnt) WriteImage(padding int, orientation Orientation) (image.Image, error) {
	direct := f.Table.DirectEntries()

	graphics := make([]Graphic, 0, len(direct))
	for _, e := range direct {
		graphics = append(graphics, e.Graphic)
	}

	return GraphicsToImage(graphics, f.FontHeight, f.FontWidth, padding, orientation)
}
