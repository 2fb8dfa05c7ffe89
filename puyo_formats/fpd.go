package puyo_formats

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"io/ioutil"

	"golang.org/x/text/encoding/unicode"
)

// A fpd entry is 3 bytes: a UTF-16 little endian code point followed by
// the character's display width. The width is only meaningful on the
// Nintendo DS releases.
const fpdEntryLength = 3

// Fpd is the character table format used by Puyo Puyo! 15th Anniversary
// and Puyo Puyo 7. Entries sit back to back with no header; the table
// index is the entry's position.
type Fpd struct {
	Table *CharTable
}

// DecodeFpd reads a fpd character table out of a byte stream. Repeated
// characters become aliases to their first index so they re-encode as the
// same repeated bytes.
func DecodeFpd(data []byte) (*Fpd, error) {
	if len(data)%fpdEntryLength != 0 {
		return nil, fmt.Errorf("%d byte fpd does not divide into %d byte entries: %w", len(data), fpdEntryLength, ErrFormat)
	}

	table := NewCharTable()
	for i := 0; i < len(data); i += fpdEntryLength {
		codePoint := binary.LittleEndian.Uint16(data[i : i+2])
		table.Add(&Entry{Character: Character{Rune: rune(codePoint), Width: data[i+2]}})
	}

	return &Fpd{Table: table}, nil
}

// Encode writes the table back into fpd entries in index order. A
// character above the basic multilingual plane does not fit the 16 bit
// code point field and fails the encode.
func (f *Fpd) Encode() ([]byte, error) {
	var buf bytes.Buffer

	for i := 0; i < f.Table.Len(); i++ {
		e, err := f.Table.Resolve(i)
		if err != nil {
			return nil, err
		}
		if e.Rune > maxBMPCodePoint {
			return nil, fmt.Errorf("fpd cannot encode %q: %w", e.Rune, ErrCodePointRange)
		}

		var entry [fpdEntryLength]byte
		binary.LittleEndian.PutUint16(entry[:2], uint16(e.Rune))
		entry[2] = e.Width
		buf.Write(entry[:])
	}

	return buf.Bytes(), nil
}

// Text returns every character in table order.
func (f *Fpd) Text() string {
	return f.Table.String()
}

// CharacterAt lets a mtx string bank resolve indices against this table.
func (f *Fpd) CharacterAt(index int) (rune, error) {
	return f.Table.CharacterAt(index)
}

// ReadFpdCSV builds a table from its CSV projection.
func ReadFpdCSV(r io.Reader) (*Fpd, error) {
	table, err := readCharacterTableCSV(r)
	if err != nil {
		return nil, err
	}

	return &Fpd{Table: table}, nil
}

// WriteCSV writes the CSV projection of the table.
func (f *Fpd) WriteCSV(w io.Writer) error {
	return writeCharacterTableCSV(w, f.Table)
}

// FpdFromText builds a table from plain text, giving every character the
// same width.
func FpdFromText(text string, width uint8) *Fpd {
	table := NewCharTable()
	for _, r := range text {
		table.Add(&Entry{Character: Character{Rune: r, Width: width}})
	}

	return &Fpd{Table: table}
}

// ReadFpdText builds a table from a UTF-16 little endian text stream. The
// stream must open with the UTF-16LE byte order mark; widths are zeroed.
func ReadFpdText(r io.Reader) (*Fpd, error) {
	decoder := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()

	text, err := ioutil.ReadAll(decoder.Reader(r))
	if err != nil {
		return nil, fmt.Errorf("not a UTF-16 little endian text stream: %w", ErrFormat)
	}

	return FpdFromText(string(text), 0), nil
}

// WriteText writes the characters as UTF-16 little endian text with a
// byte order mark, for plain text editors.
func (f *Fpd) WriteText(w io.Writer) error {
	encoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()

	_, err := encoder.Writer(w).Write([]byte(f.Text()))
	return err
}
