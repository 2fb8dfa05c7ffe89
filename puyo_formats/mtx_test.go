package puyo_formats

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMtxRoundTrip(t *testing.T) {
	mtx := &Mtx{Strings: []MtxString{
		{0, 1, mtxControlStop},
		{1, mtxControlNewline, 0, mtxControlStop},
	}}

	encoded := mtx.Encode()

	back, err := DecodeMtx(encoded)
	require.NoError(t, err)
	assert.Equal(t, mtx.Strings, back.Strings)
}

func TestMtxEncodeLayout(t *testing.T) {
	mtx := &Mtx{Strings: []MtxString{{5, mtxControlStop}}}

	encoded := mtx.Encode()
	require.Len(t, encoded, 20)

	assert.Equal(t, uint32(20), binary.LittleEndian.Uint32(encoded[0:4]))
	assert.Equal(t, uint32(8), binary.LittleEndian.Uint32(encoded[4:8]))
	assert.Equal(t, uint32(12), binary.LittleEndian.Uint32(encoded[8:12]))
	assert.Equal(t, uint32(16), binary.LittleEndian.Uint32(encoded[12:16]))
	assert.Equal(t, uint16(5), binary.LittleEndian.Uint16(encoded[16:18]))
}

func TestDecodeMtx64BitOffsets(t *testing.T) {
	data := make([]byte, 36)
	binary.LittleEndian.PutUint64(data[0:8], 36)   // total length
	binary.LittleEndian.PutUint64(data[8:16], 16)  // identifier
	binary.LittleEndian.PutUint64(data[16:24], 24) // section table
	binary.LittleEndian.PutUint64(data[24:32], 32) // first string
	binary.LittleEndian.PutUint16(data[32:34], 5)
	binary.LittleEndian.PutUint16(data[34:36], mtxControlStop)

	mtx, err := DecodeMtx(data)
	require.NoError(t, err)
	assert.Equal(t, []MtxString{{5, mtxControlStop}}, mtx.Strings)
}

func TestDecodeMtxTooShort(t *testing.T) {
	_, err := DecodeMtx([]byte{0x01})
	assert.ErrorIs(t, err, ErrFormat)
}

func TestDecodeMtxBadIdentifier(t *testing.T) {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint32(data[0:4], 8)
	binary.LittleEndian.PutUint32(data[4:8], 9)

	_, err := DecodeMtx(data)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestDecodeMtxLengthMismatch(t *testing.T) {
	encoded := (&Mtx{Strings: []MtxString{{mtxControlStop}}}).Encode()
	encoded = append(encoded, 0x00)

	_, err := DecodeMtx(encoded)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestDecodeMtxBadSectionOffset(t *testing.T) {
	encoded := (&Mtx{Strings: []MtxString{{mtxControlStop}}}).Encode()
	binary.LittleEndian.PutUint32(encoded[8:12], uint32(len(encoded)))

	_, err := DecodeMtx(encoded)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestMtxXML(t *testing.T) {
	font := FpdFromText("AB", 0)

	mtx := &Mtx{Strings: []MtxString{
		{0, mtxControlArrow, mtxControlNewline, 1, mtxControlStop, 99},
		{mtxControlUnknown, mtxControlStop},
	}}

	xml, err := mtx.XML(font)
	require.NoError(t, err)

	out := string(xml)
	assert.Contains(t, out, `<?xml version="1.0" encoding="utf-8"?>`)
	assert.Contains(t, out, "<mtx><sheet>")
	assert.Contains(t, out, "<text>A<arrow/>\nB</text>")
	assert.Contains(t, out, "<text>0xF883</text>")
}

func TestMtxXMLUnresolvableIndex(t *testing.T) {
	font := FpdFromText("A", 0)

	mtx := &Mtx{Strings: []MtxString{{7, mtxControlStop}}}

	_, err := mtx.XML(font)
	assert.ErrorIs(t, err, ErrIndexNotFound)
}
