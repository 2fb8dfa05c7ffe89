package puyo_formats

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/beevik/etree"
)

const (
	mtxInt32Width     = 4
	mtxInt64Width     = 8
	mtxCharacterWidth = 2

	// The identifier doubles as the byte offset of the section table
	// pointer, which is how the two offset widths are told apart.
	mtxIdentifier32 = 8
	mtxIdentifier64 = 16
)

// Literal control codes checked before font resolution.
const (
	mtxControlArrow   = 0xF813
	mtxControlUnknown = 0xF883 // meaning unknown, rendered literally
	mtxControlNewline = 0xFFFD
	mtxControlStop    = 0xFFFF
)

// MtxString is one dialog string of 16 bit character table indices.
type MtxString []uint16

// Font resolves mtx indices to characters. A mtx does not own the table
// it renders against; a fpd or fnt is supplied at render time.
type Font interface {
	CharacterAt(index int) (rune, error)
}

// Mtx is the Manzai text bank of Puyo Puyo 7 and Puyo Puyo! 15th
// Anniversary: an offset delimited bank of dialog strings, stored as
// indices into the game's character table.
type Mtx struct {
	Strings []MtxString
}

// DecodeMtx reads a mtx string bank. The 32 bit and 64 bit offset
// layouts are told apart by re-reading the leading fields at the wider
// width when the 32 bit identifier does not match.
func DecodeMtx(data []byte) (*Mtx, error) {
	if len(data) < mtxInt32Width*2 {
		return nil, fmt.Errorf("%d byte mtx is too short for a header: %w", len(data), ErrFormat)
	}

	width := mtxInt32Width
	length := int(binary.LittleEndian.Uint32(data[0:4]))

	if int(binary.LittleEndian.Uint32(data[4:8])) != mtxIdentifier32 {
		if len(data) < mtxInt64Width*2 ||
			int(binary.LittleEndian.Uint64(data[8:16])) != mtxIdentifier64 {
			return nil, fmt.Errorf("identifier is neither %d nor %d, not a valid mtx or it uses the other offset width: %w",
				mtxIdentifier32, mtxIdentifier64, ErrFormat)
		}

		width = mtxInt64Width
		length = int(binary.LittleEndian.Uint64(data[0:8]))
	}

	if length != len(data) {
		return nil, fmt.Errorf("mtx header says %d bytes but the stream holds %d: %w", length, len(data), ErrFormat)
	}

	readOffset := func(pos int) int {
		if width == mtxInt64Width {
			return int(binary.LittleEndian.Uint64(data[pos : pos+mtxInt64Width]))
		}
		return int(binary.LittleEndian.Uint32(data[pos : pos+mtxInt32Width]))
	}

	sectionTableOffset := readOffset(width * 2)
	if sectionTableOffset < 0 || sectionTableOffset+width > len(data) {
		return nil, fmt.Errorf("section table offset %d points outside the stream: %w", sectionTableOffset, ErrFormat)
	}

	stringTableOffset := readOffset(sectionTableOffset)
	if stringTableOffset < sectionTableOffset || stringTableOffset > len(data) {
		return nil, fmt.Errorf("string table offset %d points outside the stream: %w", stringTableOffset, ErrFormat)
	}

	if Debug {
		pprint(struct {
			Length             int
			OffsetWidth        int
			SectionTableOffset int
			StringTableOffset  int
		}{length, width, sectionTableOffset, stringTableOffset})
	}

	sections := make([]int, 0, (stringTableOffset-sectionTableOffset)/width+1)
	for pos := sectionTableOffset; pos+width <= stringTableOffset; pos += width {
		sections = append(sections, readOffset(pos))
	}

	// The total length delimits the final string.
	sections = append(sections, length)

	strings := make([]MtxString, 0, len(sections)-1)
	for i := 0; i+1 < len(sections); i++ {
		start, end := sections[i], sections[i+1]
		if start < 0 || end > len(data) || start > end || (end-start)%mtxCharacterWidth != 0 {
			return nil, fmt.Errorf("string %d spans bytes %d to %d, outside the stream: %w", i, start, end, ErrFormat)
		}

		s := make(MtxString, 0, (end-start)/mtxCharacterWidth)
		for pos := start; pos < end; pos += mtxCharacterWidth {
			s = append(s, binary.LittleEndian.Uint16(data[pos:pos+mtxCharacterWidth]))
		}

		strings = append(strings, s)
	}

	return &Mtx{Strings: strings}, nil
}

// Encode writes the bank back out in the 32 bit offset layout. The 64
// bit layout is never written; no game shipped with a tool that does.
func (m *Mtx) Encode() []byte {
	headerLength := mtxInt32Width * 3
	length := headerLength + mtxInt32Width*len(m.Strings)

	offsets := make([]int, 0, len(m.Strings))
	for _, s := range m.Strings {
		offsets = append(offsets, length)
		length += len(s) * mtxCharacterWidth
	}

	var buf bytes.Buffer

	writeUint32 := func(v int) {
		var b [mtxInt32Width]byte
		binary.LittleEndian.PutUint32(b[:], uint32(v))
		buf.Write(b[:])
	}

	writeUint32(length)
	writeUint32(mtxIdentifier32)
	writeUint32(headerLength)

	for _, offset := range offsets {
		writeUint32(offset)
	}

	for _, s := range m.Strings {
		for _, c := range s {
			var b [mtxCharacterWidth]byte
			binary.LittleEndian.PutUint16(b[:], c)
			buf.Write(b[:])
		}
	}

	return buf.Bytes()
}

// XML renders every string against a font into the mtx markup tree: a
// root mtx element holding a sheet, one text element per string, arrow
// control codes as empty inline elements.
func (m *Mtx) XML(font Font) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)

	sheet := doc.CreateElement("mtx").CreateElement("sheet")

	for _, s := range m.Strings {
		dialog := sheet.CreateElement("text")

	render:
		for _, c := range s {
			switch c {
			case mtxControlArrow:
				dialog.CreateElement("arrow")
			case mtxControlUnknown:
				dialog.CreateCharData(fmt.Sprintf("0x%04X", c))
			case mtxControlNewline:
				dialog.CreateCharData("\n")
			case mtxControlStop:
				break render
			default:
				r, err := font.CharacterAt(int(c))
				if err != nil {
					return nil, err
				}
				dialog.CreateCharData(string(r))
			}
		}
	}

	return doc.WriteToBytes()
}
