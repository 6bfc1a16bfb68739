package importer

import (
	"testing"
)

func row(date, name, category, value string) RawRow {
	return RawRow{
		"observation_date":  date,
		"tracker_name":      name,
		"tracker_category":  category,
		"observation_value": value,
	}
}

func TestClassifyMetric(t *testing.T) {
	tests := []struct {
		name     string
		metric   string
		category string
		want     MetricClass
	}{
		{"hrv is a known field", "HRV", "Vitals", ClassKnown},
		{"resting hr is a known field", "Resting HR", "Vitals", ClassKnown},
		{"stability score is a known field", "Stability Score", "Scores", ClassKnown},
		{"canonical exertion name", "Cognitive Exertion", "Exertion", ClassExertion},
		{"vendor exertion name", "Mentally demanding", "Exertion", ClassExertion},
		{"symptom by category", "Brain Fog", "Brain", ClassSymptom},
		{"symptom category is case-insensitive", "Nausea", "gastrointestinal", ClassSymptom},
		{"funcap category excluded", "Walking", "Funcap_Mobility", ClassExcluded},
		{"funcap prefix is case-insensitive", "Standing", "funcap_posture", ClassExcluded},
		{"unknown category falls back to custom", "Mood", "Journal", ClassCustom},
		{"symptom-like name outside allowlist is custom", "Fatigue", "Other", ClassCustom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyMetric(tt.metric, tt.category)
			if got != tt.want {
				t.Errorf("ClassifyMetric(%q, %q) = %v, want %v", tt.metric, tt.category, got, tt.want)
			}
		})
	}
}

func TestNormalizePivot(t *testing.T) {
	rows := []RawRow{
		row("2024-03-01", "HRV", "Vitals", "52.5"),
		row("2024-03-01", "Resting HR", "Vitals", "61.6"),
		row("2024-03-01", "Fatigue", "General", "2"),
		row("2024-03-01", "Brain Fog", "Brain", "1"),
		row("2024-03-01", "Cognitive Exertion", "Exertion", "3"),
		row("2024-03-02", "HRV", "Vitals", "48"),
	}

	records := Normalize(rows)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.Date.Format("2006-01-02") != "2024-03-01" {
		t.Fatalf("records not sorted by date, first is %s", first.Date.Format("2006-01-02"))
	}
	if first.HRV == nil || *first.HRV != 52.5 {
		t.Errorf("HRV = %v, want 52.5", first.HRV)
	}
	if first.RestingHeartRate == nil || *first.RestingHeartRate != 62 {
		t.Errorf("resting HR = %v, want 62 (rounded)", first.RestingHeartRate)
	}
	if first.CompositeScore == nil || *first.CompositeScore != 3 {
		t.Errorf("composite = %v, want 3 (symptom sum)", first.CompositeScore)
	}
	if first.ExertionScore == nil || *first.ExertionScore != 3 {
		t.Errorf("exertion = %v, want 3 (backfilled from exertion sum)", first.ExertionScore)
	}
	if first.SymptomScore != nil {
		t.Errorf("legacy symptom score must stay nil, got %v", *first.SymptomScore)
	}
	// Symptom and exertion metrics are retained in custom metrics too.
	for _, name := range []string{"Fatigue", "Brain Fog", "Cognitive Exertion"} {
		if _, ok := first.CustomMetrics[name]; !ok {
			t.Errorf("custom metrics missing %q: %v", name, first.CustomMetrics)
		}
	}
	if _, ok := first.CustomMetrics["HRV"]; ok {
		t.Error("known fields must not appear in custom metrics")
	}

	second := records[1]
	if second.CompositeScore != nil {
		t.Errorf("day without symptoms must have nil composite, got %v", *second.CompositeScore)
	}
}

func TestNormalizeStabilityScoreWins(t *testing.T) {
	rows := []RawRow{
		row("2024-03-01", "Stability Score", "Scores", "4"),
		row("2024-03-01", "Physical Exertion", "Exertion", "2"),
	}

	records := Normalize(rows)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].ExertionScore == nil || *records[0].ExertionScore != 4 {
		t.Errorf("explicit stability score must not be backfilled over, got %v", records[0].ExertionScore)
	}
}

func TestNormalizeDuplicateMetricLastWins(t *testing.T) {
	rows := []RawRow{
		row("2024-03-01", "Fatigue", "General", "1"),
		row("2024-03-01", "Fatigue", "General", "3"),
		row("2024-03-01", "Nausea", "Gastrointestinal", "2"),
	}

	records := Normalize(rows)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	// Fatigue counted once at its latest value, not averaged or summed twice.
	if records[0].CompositeScore == nil || *records[0].CompositeScore != 5 {
		t.Errorf("composite = %v, want 5", records[0].CompositeScore)
	}
	if records[0].CustomMetrics["Fatigue"] != 3 {
		t.Errorf("custom Fatigue = %v, want 3", records[0].CustomMetrics["Fatigue"])
	}
}

func TestNormalizeSkipsBadRows(t *testing.T) {
	rows := []RawRow{
		row("", "HRV", "Vitals", "52"),
		row("2024-03-01", "HRV", "Vitals", "not a number"),
		row("not a date", "HRV", "Vitals", "52"),
		row("2024-03-01", "Walking", "Funcap_Mobility", "7"),
	}

	records := Normalize(rows)
	if len(records) != 0 {
		t.Errorf("expected all rows dropped, got %d records: %+v", len(records), records)
	}
}

func TestNormalizeCrashFlagCoercion(t *testing.T) {
	rows := []RawRow{
		row("2024-03-01", "Crash", "Custom", "true"),
		row("2024-03-02", "Crash", "Custom", "1"),
		row("2024-03-03", "Crash", "Custom", "false"),
	}

	records := Normalize(rows)
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if !records[0].CrashFlag() || !records[1].CrashFlag() {
		t.Error("true/1 crash values must coerce to a set flag")
	}
	if records[2].CrashFlag() {
		t.Error("false crash value must not set the flag")
	}
}

func TestNormalizeDatetimeDates(t *testing.T) {
	rows := []RawRow{
		row("2024-03-01 08:15:00", "HRV", "Vitals", "50"),
		row("2024-03-01 21:00:00", "Resting HR", "Vitals", "60"),
	}

	records := Normalize(rows)
	if len(records) != 1 {
		t.Fatalf("expected datetime rows to collapse onto one day, got %d", len(records))
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	if records := Normalize(nil); len(records) != 0 {
		t.Errorf("expected empty output, got %d records", len(records))
	}
}
