package puyo_formats

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Both table formats share one CSV projection: a header row of exactly
// "character,width" followed by one row per table index, widths in hex.
var csvTableHeader = []string{"character", "width"}

func readCharacterTableCSV(r io.Reader) (*CharTable, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("csv table has no header row: %w", ErrFormat)
	}
	if len(header) != len(csvTableHeader) || header[0] != csvTableHeader[0] || header[1] != csvTableHeader[1] {
		return nil, fmt.Errorf("csv header %q is not %q: %w", header, csvTableHeader, ErrFormat)
	}

	table := NewCharTable()
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv table: %v: %w", err, ErrFormat)
		}

		runes := []rune(record[0])
		if len(runes) != 1 {
			return nil, fmt.Errorf("csv character %q is not a single character: %w", record[0], ErrFormat)
		}

		width, err := strconv.ParseUint(record[1], 0, 8)
		if err != nil {
			return nil, fmt.Errorf("csv width %q: %w", record[1], ErrFormat)
		}

		table.Add(&Entry{Character: Character{Rune: runes[0], Width: uint8(width)}})
	}

	return table, nil
}

func writeCharacterTableCSV(w io.Writer, table *CharTable) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvTableHeader); err != nil {
		return err
	}

	for i := 0; i < table.Len(); i++ {
		e, err := table.Resolve(i)
		if err != nil {
			return err
		}

		record := []string{string(e.Rune), "0x" + strconv.FormatUint(uint64(e.Width), 16)}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
