package analysis

import (
	"testing"
	"time"

	"trackme/internal/store"
)

func TestAnalyzeExperiment(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 30)

	// 30 baseline days at low HRV, then 30 treatment days at high HRV.
	var records []store.DailyRecord
	for i := -30; i < 0; i++ {
		records = append(records, store.DailyRecord{
			Date: start.AddDate(0, 0, i),
			HRV:  fp(20),
		})
	}
	for i := 0; i < 30; i++ {
		records = append(records, store.DailyRecord{
			Date: start.AddDate(0, 0, i),
			HRV:  fp(100),
		})
	}

	exp := store.Experiment{
		ID:        "exp-1",
		Name:      "Pacing protocol",
		StartDate: start,
		EndDate:   &end,
	}

	result := AnalyzeExperiment(exp, records, end)
	if result == nil {
		t.Fatal("expected a result, got nil")
	}
	if result.TreatmentMean <= result.BaselineMean {
		t.Errorf("treatment mean %d should exceed baseline mean %d",
			result.TreatmentMean, result.BaselineMean)
	}
	if result.ChangePercent <= 0 {
		t.Errorf("change percent = %v, want positive", result.ChangePercent)
	}
	if !result.IsSignificant {
		t.Error("a jump from HRV 20 to 100 should clear the significance heuristic")
	}
	if result.SampleSizeBaseline != 30 || result.SampleSizeTreatment != 30 {
		t.Errorf("sample sizes = %d/%d, want 30/30",
			result.SampleSizeBaseline, result.SampleSizeTreatment)
	}
}

func TestAnalyzeExperimentInsufficientData(t *testing.T) {
	start := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 3)

	// Only 2 days of data for an experiment spanning days 2-5.
	records := []store.DailyRecord{
		{Date: start, HRV: fp(50)},
		{Date: start.AddDate(0, 0, 1), HRV: fp(55)},
	}

	exp := store.Experiment{ID: "exp-1", StartDate: start, EndDate: &end}

	if result := AnalyzeExperiment(exp, records, end); result != nil {
		t.Errorf("expected nil for insufficient data, got %+v", result)
	}
}

func TestAnalyzeExperimentOpenEnded(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	now := start.AddDate(0, 0, 9)

	var records []store.DailyRecord
	for i := -10; i < 10; i++ {
		records = append(records, store.DailyRecord{
			Date: start.AddDate(0, 0, i),
			HRV:  fp(50),
		})
	}

	// No end date: the treatment window runs to now.
	exp := store.Experiment{ID: "exp-1", StartDate: start}
	result := AnalyzeExperiment(exp, records, now)
	if result == nil {
		t.Fatal("expected a result for an open-ended experiment")
	}
	if result.ChangePercent != 0 {
		t.Errorf("flat HRV should show 0 change, got %v", result.ChangePercent)
	}
	if result.IsSignificant {
		t.Error("0 change must not be significant")
	}
}

func TestAnalyzeExperimentUnscoredDaysIgnored(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 10)

	var records []store.DailyRecord
	for i := -10; i < 10; i++ {
		r := store.DailyRecord{Date: start.AddDate(0, 0, i)}
		if i%2 == 0 {
			r.HRV = fp(50)
		}
		// Odd days have neither composite nor HRV and score nil.
		records = append(records, r)
	}

	exp := store.Experiment{ID: "exp-1", StartDate: start, EndDate: &end}
	result := AnalyzeExperiment(exp, records, end)
	if result == nil {
		t.Fatal("expected a result")
	}
	if result.SampleSizeBaseline != 5 || result.SampleSizeTreatment != 5 {
		t.Errorf("sample sizes = %d/%d, want 5/5 (unscored days ignored)",
			result.SampleSizeBaseline, result.SampleSizeTreatment)
	}
}
