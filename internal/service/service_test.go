package service

import (
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"trackme/internal/analysis"
	"trackme/internal/store"

	_ "modernc.org/sqlite"
)

const testSubject = "subj-test"

// openTestStore creates an in-memory SQLite store with migrations applied
func openTestStore(t *testing.T) *store.Store {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	st, err := store.NewTestStore(sqlDB)
	if err != nil {
		sqlDB.Close()
		t.Fatalf("failed to migrate test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func seedDays(t *testing.T, st *store.Store, start time.Time, hrvs []float64) {
	t.Helper()
	var records []store.DailyRecord
	for i, h := range hrvs {
		h := h
		records = append(records, store.DailyRecord{
			Date: start.AddDate(0, 0, i),
			HRV:  &h,
		})
	}
	if err := st.UpsertDailyRecords(testSubject, records); err != nil {
		t.Fatalf("seeding records failed: %v", err)
	}
}

func TestGetMetricStats(t *testing.T) {
	st := openTestStore(t)
	now := time.Date(2024, 3, 30, 0, 0, 0, 0, time.UTC)

	// 14 days of steadily climbing HRV ending at now.
	hrvs := make([]float64, 14)
	for i := range hrvs {
		hrvs[i] = 40 + float64(i)*2
	}
	seedDays(t, st, now.AddDate(0, 0, -13), hrvs)

	q := NewQueryService(st, testSubject)
	stats, err := q.GetMetricStats(analysis.MetricHRV, Range7d, nil, now)
	if err != nil {
		t.Fatalf("GetMetricStats failed: %v", err)
	}

	if stats.SampleCount != 7 {
		t.Errorf("sample count = %d, want 7", stats.SampleCount)
	}
	// Last 7 values are 54..66, mean 60.
	if stats.Average != 60 {
		t.Errorf("average = %v, want 60", stats.Average)
	}
	if stats.PeriodTrend.Status != analysis.TrendImproving {
		t.Errorf("period trend = %s, want improving", stats.PeriodTrend.Status)
	}
	// Previous 7 days averaged 46; the comparison must see the climb.
	if stats.CompareTrend.Status != analysis.TrendImproving {
		t.Errorf("compare trend = %s, want improving", stats.CompareTrend.Status)
	}
	if len(stats.History) != 7 || len(stats.Dates) != 7 {
		t.Errorf("history lengths = %d/%d, want 7/7", len(stats.History), len(stats.Dates))
	}
}

func TestGetMetricStatsNoPreviousData(t *testing.T) {
	st := openTestStore(t)
	now := time.Date(2024, 3, 30, 0, 0, 0, 0, time.UTC)

	seedDays(t, st, now.AddDate(0, 0, -3), []float64{50, 52, 54, 56})

	q := NewQueryService(st, testSubject)
	stats, err := q.GetMetricStats(analysis.MetricHRV, Range7d, nil, now)
	if err != nil {
		t.Fatalf("GetMetricStats failed: %v", err)
	}
	if stats.CompareTrend.Status != analysis.TrendInsufficientData {
		t.Errorf("compare trend = %s, want insufficient_data", stats.CompareTrend.Status)
	}
}

func TestGetMetricStatsAdjustedScoreWindowing(t *testing.T) {
	st := openTestStore(t)
	now := time.Date(2024, 3, 30, 0, 0, 0, 0, time.UTC)

	composite := 3.0
	lowSteps, highSteps := 1000, 9000
	records := []store.DailyRecord{
		{Date: now.AddDate(0, 0, -2), CompositeScore: &composite, StepCount: &lowSteps},
		{Date: now.AddDate(0, 0, -1), CompositeScore: &composite, StepCount: &highSteps},
	}
	if err := st.UpsertDailyRecords(testSubject, records); err != nil {
		t.Fatalf("seeding failed: %v", err)
	}

	q := NewQueryService(st, testSubject)
	stats, err := q.GetMetricStats(MetricAdjustedScore, Range7d, nil, now)
	if err != nil {
		t.Fatalf("GetMetricStats failed: %v", err)
	}

	if stats.SampleCount != 2 {
		t.Fatalf("sample count = %d, want 2", stats.SampleCount)
	}
	// Low-step day keeps its composite, high-step day is discounted by
	// the full factor of 3.
	if stats.History[0] != 3 {
		t.Errorf("low-step adjusted score = %v, want 3", stats.History[0])
	}
	if stats.History[1] != 0 {
		t.Errorf("high-step adjusted score = %v, want 0", stats.History[1])
	}
}

func TestMetricOptionsDiscoversCustomMetrics(t *testing.T) {
	st := openTestStore(t)
	now := time.Date(2024, 3, 30, 0, 0, 0, 0, time.UTC)

	hrv := 50.0
	records := []store.DailyRecord{{
		Date:          now,
		HRV:           &hrv,
		CustomMetrics: map[string]float64{"Brain Fog": 2, "Morning Walk": 1},
	}}
	if err := st.UpsertDailyRecords(testSubject, records); err != nil {
		t.Fatalf("seeding failed: %v", err)
	}

	q := NewQueryService(st, testSubject)
	options, err := q.MetricOptions()
	if err != nil {
		t.Fatalf("MetricOptions failed: %v", err)
	}

	byKey := make(map[string]MetricOption)
	for _, opt := range options {
		byKey[opt.Key] = opt
	}

	if _, ok := byKey[analysis.MetricHRV]; !ok {
		t.Error("default metrics missing from options")
	}
	fog, ok := byKey["Brain Fog"]
	if !ok {
		t.Fatal("custom metric not discovered")
	}
	if !fog.Inverted {
		t.Error("symptom-like custom metric should be inverted")
	}
	walk, ok := byKey["Morning Walk"]
	if !ok {
		t.Fatal("custom metric not discovered")
	}
	if walk.Inverted {
		t.Error("activity-like custom metric should not be inverted")
	}
}

func TestImportCSVRoundTrip(t *testing.T) {
	st := openTestStore(t)

	csv := `observation_date,tracker_category,tracker_name,observation_value
2024-03-01,Vitals,HRV,52
2024-03-01,General,Fatigue,2
2024-03-02,Vitals,HRV,48
`
	imp := NewImportService(st, testSubject)
	result, err := imp.ImportCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}
	if result.RecordsImported != 2 {
		t.Errorf("records imported = %d, want 2", result.RecordsImported)
	}
	if result.FirstDate != "2024-03-01" || result.LastDate != "2024-03-02" {
		t.Errorf("date span = %s..%s", result.FirstDate, result.LastDate)
	}

	count, err := st.CountDailyRecords(testSubject)
	if err != nil {
		t.Fatalf("CountDailyRecords failed: %v", err)
	}
	if count != 2 {
		t.Errorf("stored %d records, want 2", count)
	}
}

func TestImportCSVNoValidRecords(t *testing.T) {
	st := openTestStore(t)

	csv := `some,unrelated,columns
a,b,c
`
	imp := NewImportService(st, testSubject)
	if _, err := imp.ImportCSV(strings.NewReader(csv)); !errors.Is(err, ErrNoValidRecords) {
		t.Errorf("expected ErrNoValidRecords, got %v", err)
	}
}

func TestImportHealthExportMergesSteps(t *testing.T) {
	st := openTestStore(t)
	seedDays(t, st, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), []float64{50})

	export := `<HealthData>
 <Record type="HKQuantityTypeIdentifierStepCount" startDate="2024-03-01 08:00:00 +0100" value="4000"/>
 <Record type="HKQuantityTypeIdentifierStepCount" startDate="2024-03-05 08:00:00 +0100" value="9000"/>
</HealthData>`

	imp := NewImportService(st, testSubject)
	result, err := imp.ImportHealthExport(strings.NewReader(export))
	if err != nil {
		t.Fatalf("ImportHealthExport failed: %v", err)
	}
	if result.DaysParsed != 2 {
		t.Errorf("days parsed = %d, want 2", result.DaysParsed)
	}
	if result.DaysMatched != 1 {
		t.Errorf("days matched = %d, want 1 (no record exists for the other day)", result.DaysMatched)
	}
}

func TestGetCycleAnalysisNoCrashes(t *testing.T) {
	st := openTestStore(t)
	now := time.Date(2024, 3, 30, 0, 0, 0, 0, time.UTC)
	seedDays(t, st, now.AddDate(0, 0, -5), []float64{50, 51, 52, 53, 54, 55})

	q := NewQueryService(st, testSubject)
	result, err := q.GetCycleAnalysis(RangeAll, nil, now)
	if err != nil {
		t.Fatalf("GetCycleAnalysis failed: %v", err)
	}
	if !result.NoCrashes {
		t.Error("expected NoCrashes for a crash-free history")
	}
}

func TestGetExperimentResults(t *testing.T) {
	st := openTestStore(t)
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 10)

	hrvs := make([]float64, 20)
	for i := range hrvs {
		if i < 10 {
			hrvs[i] = 20
		} else {
			hrvs[i] = 100
		}
	}
	seedDays(t, st, start.AddDate(0, 0, -10), hrvs)

	exp := &store.Experiment{
		ID:        "exp-1",
		SubjectID: testSubject,
		Name:      "Pacing",
		StartDate: start,
		EndDate:   &end,
	}
	if err := st.CreateExperiment(exp); err != nil {
		t.Fatalf("CreateExperiment failed: %v", err)
	}

	q := NewQueryService(st, testSubject)
	results, err := q.GetExperimentResults(end)
	if err != nil {
		t.Fatalf("GetExperimentResults failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Result == nil {
		t.Fatal("expected an analysis result")
	}
	if !results[0].Result.IsSignificant {
		t.Error("HRV jump from 20 to 100 should be significant")
	}
}
