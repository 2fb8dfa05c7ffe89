package puyo_formats

import "errors"

// Decode and encode failures wrap one of these sentinels so callers can
// classify them with errors.Is. Decoding never retries and never returns a
// partial table; the wrapping message carries the expected and actual
// values where the format contract names them.
var (
	// ErrFormat reports input whose size or shape does not match the
	// binary contract of the format being decoded.
	ErrFormat = errors.New("data does not conform to the format")

	// ErrCodePointRange reports a character that cannot be packed into a
	// 16 bit code point field.
	ErrCodePointRange = errors.New("code point is outside the basic multilingual plane")

	// ErrIndexNotFound reports an index with no entry in a character table.
	ErrIndexNotFound = errors.New("index is not in the character table")

	// ErrCharacterNotFound reports a character with no index in a
	// character table.
	ErrCharacterNotFound = errors.New("character is not in the character table")

	// ErrNotSeekable reports a source stream without the random access
	// some formats need to probe platform markers.
	ErrNotSeekable = errors.New("stream does not support seeking")
)
