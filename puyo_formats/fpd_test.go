package puyo_formats

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFpd(t *testing.T) {
	fpd, err := DecodeFpd([]byte{0x41, 0x00, 0x00})
	require.NoError(t, err)

	require.Equal(t, 1, fpd.Table.Len())
	e, err := fpd.Table.Resolve(0)
	require.NoError(t, err)
	assert.Equal(t, 'A', e.Rune)
	assert.Equal(t, uint8(0), e.Width)
}

func TestDecodeFpdBadLength(t *testing.T) {
	_, err := DecodeFpd([]byte{0x41, 0x00})
	assert.ErrorIs(t, err, ErrFormat)
}

func TestFpdRoundTrip(t *testing.T) {
	// 'A' appears twice with the same width and must re-encode both times.
	data := []byte{
		0x41, 0x00, 0x01,
		0x42, 0x00, 0x02,
		0x41, 0x00, 0x01,
	}

	fpd, err := DecodeFpd(data)
	require.NoError(t, err)
	assert.Equal(t, "ABA", fpd.Text())

	encoded, err := fpd.Encode()
	require.NoError(t, err)
	assert.Equal(t, data, encoded)
}

func TestFpdEncodeOutsideBMP(t *testing.T) {
	fpd := FpdFromText("\U00020000", 0)

	_, err := fpd.Encode()
	assert.ErrorIs(t, err, ErrCodePointRange)
}

func TestFpdCharacterAt(t *testing.T) {
	fpd := FpdFromText("AB", 0)

	r, err := fpd.CharacterAt(1)
	require.NoError(t, err)
	assert.Equal(t, 'B', r)

	_, err = fpd.CharacterAt(2)
	assert.ErrorIs(t, err, ErrIndexNotFound)
}

func TestFpdCSVRoundTrip(t *testing.T) {
	fpd, err := DecodeFpd([]byte{
		0x41, 0x00, 0x0a,
		0x42, 0x00, 0x0b,
		0x41, 0x00, 0x0a,
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, fpd.WriteCSV(&buf))

	assert.Equal(t, "character,width\nA,0xa\nB,0xb\nA,0xa\n", buf.String())

	back, err := ReadFpdCSV(&buf)
	require.NoError(t, err)

	encoded, err := back.Encode()
	require.NoError(t, err)

	original, err := fpd.Encode()
	require.NoError(t, err)
	assert.Equal(t, original, encoded)
}

func TestReadFpdCSVBadHeader(t *testing.T) {
	_, err := ReadFpdCSV(bytes.NewBufferString("char,width\nA,0x1\n"))
	assert.ErrorIs(t, err, ErrFormat)
}

func TestReadFpdCSVBadRecord(t *testing.T) {
	_, err := ReadFpdCSV(bytes.NewBufferString("character,width\nAB,0x1\n"))
	assert.ErrorIs(t, err, ErrFormat)

	_, err = ReadFpdCSV(bytes.NewBufferString("character,width\nA,wide\n"))
	assert.ErrorIs(t, err, ErrFormat)
}

func TestFpdTextRoundTrip(t *testing.T) {
	fpd := FpdFromText("ぷよ", 0)

	var buf bytes.Buffer
	require.NoError(t, fpd.WriteText(&buf))

	// UTF-16LE byte order mark followed by two code units.
	assert.Equal(t, []byte{0xff, 0xfe, 0x77, 0x30, 0x88, 0x30}, buf.Bytes())

	back, err := ReadFpdText(&buf)
	require.NoError(t, err)
	assert.Equal(t, "ぷよ", back.Text())
}

func TestReadFpdTextWithoutBOM(t *testing.T) {
	_, err := ReadFpdText(bytes.NewBuffer([]byte{0x41, 0x00}))
	assert.ErrorIs(t, err, ErrFormat)
}
