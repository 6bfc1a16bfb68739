package importer

import (
	"strings"
	"testing"
)

func TestParseLongCSV(t *testing.T) {
	csv := `observation_date,tracker_category,tracker_name,observation_value
2024-03-01,Vitals,HRV,52
2024-03-01,General,Fatigue,2
2024-03-02,Vitals,HRV,48
`
	rows, err := ParseLongCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseLongCSV failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0]["tracker_name"] != "HRV" || rows[0]["observation_value"] != "52" {
		t.Errorf("first row not keyed by header: %v", rows[0])
	}
}

func TestParseLongCSVRaggedRows(t *testing.T) {
	csv := `date,name,value
2024-03-01,HRV,52,extra-cell
2024-03-02,HRV
`
	rows, err := ParseLongCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseLongCSV failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0]["value"] != "52" {
		t.Errorf("long row not truncated to header width: %v", rows[0])
	}
	if _, ok := rows[1]["value"]; ok {
		t.Errorf("short row should lack trailing keys: %v", rows[1])
	}
}

func TestParseLongCSVEmpty(t *testing.T) {
	rows, err := ParseLongCSV(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ParseLongCSV failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}

func TestFindColumnSynonyms(t *testing.T) {
	row := RawRow{" Day ": "2024-03-01", "Metric": "HRV", "Rating": "52"}

	if v, ok := findColumn(row, dateColumns); !ok || v != "2024-03-01" {
		t.Errorf("date not resolved via synonym: %q, %v", v, ok)
	}
	if v, ok := findColumn(row, nameColumns); !ok || v != "HRV" {
		t.Errorf("name not resolved via synonym: %q, %v", v, ok)
	}
	if v, ok := findColumn(row, valueColumns); !ok || v != "52" {
		t.Errorf("value not resolved via synonym: %q, %v", v, ok)
	}
	if _, ok := findColumn(row, categoryColumns); ok {
		t.Error("category should be absent from this row")
	}
}
