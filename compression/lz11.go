// Package compression implements the LZ11 scheme, the LZSS variant used
// by Nintendo on the DS and 3DS to compress the Puyo data files this
// module decodes.
package compression

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrDecompression reports a stream that is not valid LZ11 or whose
// decompressed size does not match its header.
var ErrDecompression = errors.New("stream does not decompress cleanly")

const lz11MagicNumber = 0x11

// DecompressLZ11 inflates an LZ11 stream from r into w. The stream opens
// with the 0x11 magic byte and a 24 bit little endian decompressed size;
// a zero size is followed by a 32 bit size instead. Compressed runs are
// copied byte at a time so overlapping back references repeat correctly.
func DecompressLZ11(r io.Reader, w io.Writer) error {
	br := bufio.NewReader(r)

	magic, err := br.ReadByte()
	if err != nil {
		return err
	}
	if magic != lz11MagicNumber {
		return fmt.Errorf("leading byte %#02x is not the LZ11 magic number: %w", magic, ErrDecompression)
	}

	var sizeBytes [4]byte
	if _, err := io.ReadFull(br, sizeBytes[:3]); err != nil {
		return err
	}
	size := int(binary.LittleEndian.Uint32(sizeBytes[:]))
	if size == 0 {
		if _, err := io.ReadFull(br, sizeBytes[:]); err != nil {
			return err
		}
		size = int(binary.LittleEndian.Uint32(sizeBytes[:]))
	}

	out := make([]byte, 0, size)

	for len(out) < size {
		flag, err := br.ReadByte()
		if err != nil {
			return err
		}

		for i := 0; i < 8; i++ {
			if flag&0x80 == 0 {
				b, err := br.ReadByte()
				if err != nil {
					return err
				}
				out = append(out, b)
			} else {
				b, err := br.ReadByte()
				if err != nil {
					return err
				}

				var count int
				switch b >> 4 {
				case 0:
					// 8 bit count, 12 bit displacement
					next, err := br.ReadByte()
					if err != nil {
						return err
					}
					count = int(b)<<4 + int(next>>4) + 0x11
					b = next
				case 1:
					// 16 bit count, 12 bit displacement
					var pair [2]byte
					if _, err := io.ReadFull(br, pair[:]); err != nil {
						return err
					}
					count = int(b&0xF)<<12 + int(pair[0])<<4 + int(pair[1]>>4) + 0x111
					b = pair[1]
				default:
					// the indicator nibble is the count, 12 bit displacement
					count = int(b>>4) + 1
				}

				next, err := br.ReadByte()
				if err != nil {
					return err
				}
				displacement := int(b&0xF)<<8 + int(next) + 1

				if displacement > len(out) {
					return fmt.Errorf("back reference of %d bytes into %d decompressed bytes: %w",
						displacement, len(out), ErrDecompression)
				}

				for j := 0; j < count; j++ {
					out = append(out, out[len(out)-displacement])
				}
			}

			if len(out) >= size {
				break
			}

			flag <<= 1
		}
	}

	if len(out) != size {
		return fmt.Errorf("decompressed %d bytes, expected %d: %w", len(out), size, ErrDecompression)
	}

	_, err = w.Write(out)
	return err
}
