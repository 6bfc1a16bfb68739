package importer

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const stepCountType = "HKQuantityTypeIdentifierStepCount"

// ParseHealthExport streams an Apple Health export.xml and returns step
// counts summed per calendar day, keyed by "YYYY-MM-DD". Only step
// count records are read; everything else in the export is skipped.
// Exports can be hundreds of megabytes, so the file is decoded as a
// token stream rather than loaded into memory.
func ParseHealthExport(r io.Reader) (map[string]int, error) {
	decoder := xml.NewDecoder(r)
	steps := make(map[string]int)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding health export: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "Record" {
			continue
		}

		var recordType, startDate, value string
		for _, attr := range start.Attr {
			switch attr.Name.Local {
			case "type":
				recordType = attr.Value
			case "startDate":
				startDate = attr.Value
			case "value":
				value = attr.Value
			}
		}

		if recordType != stepCountType {
			continue
		}

		// startDate looks like "2023-01-01 00:00:00 +0100"; the
		// calendar day is everything before the first space.
		date := startDate
		if i := strings.IndexByte(date, ' '); i >= 0 {
			date = date[:i]
		}
		if date == "" {
			continue
		}

		count, ok := parseStepValue(value)
		if !ok {
			continue
		}
		steps[date] += count
	}

	return steps, nil
}

func parseStepValue(s string) (int, bool) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, true
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return int(v), true
	}
	return 0, false
}
