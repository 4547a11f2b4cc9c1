package portfolio

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// RawTable is the generic tabular form of a decoded CSV file: ordered column
// headers and ordered rows keyed by header. It only lives inside one parse
// invocation.
type RawTable struct {
	Headers []string
	Rows    []map[string]string
}

// readTable parses decoded CSV text into a RawTable. The first record is the
// header row; every data row must have the same width. Column order and row
// order follow the file.
func readTable(text string) (*RawTable, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &MalformedTableError{Reason: "empty input"}
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &MalformedTableError{Reason: "missing header row"}
		}
		return nil, &MalformedTableError{Reason: "unreadable header row", Err: err}
	}

	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	table := &RawTable{Headers: headers}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// encoding/csv reports rows whose width differs from the
			// header as csv.ErrFieldCount.
			return nil, &MalformedTableError{Reason: "inconsistent row width", Err: err}
		}

		row := make(map[string]string, len(headers))
		for i, h := range headers {
			row[h] = record[i]
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}
