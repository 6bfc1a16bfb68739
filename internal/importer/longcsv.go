package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// RawRow is one parsed CSV row, keyed by header name.
type RawRow map[string]string

// Column synonyms accepted in long-format exports. Tracker apps are not
// consistent about header names, so each logical column is resolved
// against a candidate list, case-insensitively.
var (
	dateColumns     = []string{"observation_date", "date", "day"}
	nameColumns     = []string{"tracker_name", "name", "metric", "type"}
	valueColumns    = []string{"observation_value", "value", "score", "rating"}
	categoryColumns = []string{"tracker_category", "category", "group"}
)

// ParseLongCSV reads a long-format CSV (one measurement per row) into
// raw rows keyed by header. Ragged rows are tolerated; cells beyond the
// header width are dropped and short rows simply lack the trailing keys.
func ParseLongCSV(r io.Reader) ([]RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	var rows []RawRow
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}

		row := make(RawRow, len(header))
		for i, h := range header {
			if i >= len(fields) {
				break
			}
			row[h] = fields[i]
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// findColumn returns the value of the first candidate column present in
// the row, matching header names case-insensitively and ignoring
// surrounding whitespace.
func findColumn(row RawRow, candidates []string) (string, bool) {
	for _, candidate := range candidates {
		for key, value := range row {
			if strings.EqualFold(strings.TrimSpace(key), candidate) {
				return value, true
			}
		}
	}
	return "", false
}
