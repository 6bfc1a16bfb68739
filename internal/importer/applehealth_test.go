package importer

import (
	"strings"
	"testing"
)

func TestParseHealthExport(t *testing.T) {
	export := `<?xml version="1.0" encoding="UTF-8"?>
<HealthData locale="en_US">
 <Record type="HKQuantityTypeIdentifierStepCount" sourceName="Watch" startDate="2024-03-01 08:00:00 +0100" endDate="2024-03-01 08:10:00 +0100" value="523"/>
 <Record type="HKQuantityTypeIdentifierStepCount" sourceName="Watch" startDate="2024-03-01 17:30:00 +0100" endDate="2024-03-01 17:45:00 +0100" value="1200"/>
 <Record type="HKQuantityTypeIdentifierHeartRate" sourceName="Watch" startDate="2024-03-01 08:00:00 +0100" endDate="2024-03-01 08:00:00 +0100" value="72"/>
 <Record type="HKQuantityTypeIdentifierStepCount" sourceName="Phone" startDate="2024-03-02 09:00:00 +0100" endDate="2024-03-02 09:20:00 +0100" value="300"/>
</HealthData>`

	steps, err := ParseHealthExport(strings.NewReader(export))
	if err != nil {
		t.Fatalf("ParseHealthExport failed: %v", err)
	}

	if len(steps) != 2 {
		t.Fatalf("expected 2 days, got %d: %v", len(steps), steps)
	}
	if steps["2024-03-01"] != 1723 {
		t.Errorf("2024-03-01 = %d, want 1723 (records summed per day)", steps["2024-03-01"])
	}
	if steps["2024-03-02"] != 300 {
		t.Errorf("2024-03-02 = %d, want 300", steps["2024-03-02"])
	}
}

func TestParseHealthExportSkipsBadValues(t *testing.T) {
	export := `<HealthData>
 <Record type="HKQuantityTypeIdentifierStepCount" startDate="2024-03-01 08:00:00 +0100" value="abc"/>
 <Record type="HKQuantityTypeIdentifierStepCount" startDate="" value="100"/>
 <Record type="HKQuantityTypeIdentifierStepCount" startDate="2024-03-01 09:00:00 +0100" value="8.0"/>
</HealthData>`

	steps, err := ParseHealthExport(strings.NewReader(export))
	if err != nil {
		t.Fatalf("ParseHealthExport failed: %v", err)
	}
	if len(steps) != 1 || steps["2024-03-01"] != 8 {
		t.Errorf("expected only the fractional-value day, got %v", steps)
	}
}

func TestParseHealthExportEmpty(t *testing.T) {
	steps, err := ParseHealthExport(strings.NewReader("<HealthData></HealthData>"))
	if err != nil {
		t.Fatalf("ParseHealthExport failed: %v", err)
	}
	if len(steps) != 0 {
		t.Errorf("expected no steps, got %v", steps)
	}
}
