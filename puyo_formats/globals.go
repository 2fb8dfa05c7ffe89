package puyo_formats

import (
	"encoding/json"
	"fmt"
)

var (
	Debug bool
)

const (
	// graphics are stored 4 bits per pixel, two pixels to a byte
	bitsPerPixel  = 4
	pixelsPerByte = 2

	// highest code point that fits a single 16 bit unit
	maxBMPCodePoint = 0xFFFF
)

func pprint(s interface{}) {
	jsonBytes, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return
	}

	fmt.Printf("%s\n", string(jsonBytes))
}
