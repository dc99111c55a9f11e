// Package ingest implements the upload pipeline: CSV decoding, field
// normalization, and grouping of flat score rows into per-student records.
package ingest

import (
	"encoding/csv"
	"io"

	"gradeboard/internal/shared"
)

// RawRow maps a header column name to the value in one CSV data line.
// Column names are kept case-sensitive exactly as uploaded.
type RawRow map[string]string

// Decode parses header-first delimited text into a sequence of RawRows.
//
// The first line is the header; every following line is a data row whose
// values align positionally with the header. Rows with a differing column
// count are still accepted: missing trailing fields become empty strings
// and surplus fields are dropped. Blank lines are skipped. Input that is
// not parseable as CSV at all fails with a format error.
func Decode(r io.Reader) ([]RawRow, error) {
	reader := csv.NewReader(r)
	// Deliberately permissive: partial ingestion beats rejecting the file.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, shared.NewFormatError("csv input is empty", nil)
	}
	if err != nil {
		return nil, shared.NewFormatError("csv header line is not parseable", err)
	}

	rows := make([]RawRow, 0)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, shared.NewFormatError("csv data is not parseable", err)
		}

		row := make(RawRow, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}
