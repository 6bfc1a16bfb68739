package importer

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"trackme/internal/store"
)

// MetricClass says what a long-format metric contributes to a daily record.
type MetricClass int

const (
	// ClassKnown metrics map to a dedicated record field (HRV, resting
	// heart rate, exertion) and are not kept in custom metrics.
	ClassKnown MetricClass = iota
	// ClassExertion metrics feed the daily exertion sum and are also
	// kept in custom metrics.
	ClassExertion
	// ClassSymptom metrics feed the daily symptom sum (and therefore
	// the composite score) and are also kept in custom metrics.
	ClassSymptom
	// ClassExcluded metrics are dropped entirely.
	ClassExcluded
	// ClassCustom metrics are kept only in custom metrics.
	ClassCustom
)

// Exertion metrics by name. Both the canonical names and the labels the
// Visible CSV export actually uses.
var exertionMetrics = map[string]bool{
	"Cognitive Exertion":    true,
	"Emotional Exertion":    true,
	"Physical Exertion":     true,
	"Social Exertion":       true,
	"Mentally demanding":    true,
	"Emotionally stressful": true,
	"Physically active":     true,
	"Socially demanding":    true,
}

// Symptom categories. Anything outside this allowlist is not a symptom
// no matter how symptom-like its name is.
var symptomCategories = []string{
	"Custom",
	"General",
	"Brain",
	"Heart and Lungs",
	"Pain",
	"Muscles",
	"Sensory",
	"Gastrointestinal",
}

// excludedCategoryPrefix marks questionnaire-derived values that must
// not leak into custom metrics.
const excludedCategoryPrefix = "funcap_"

// ClassifyMetric decides how a named metric with the given category is
// folded into a daily record.
func ClassifyMetric(name, category string) MetricClass {
	switch name {
	case "HRV", "Resting HR", "Stability Score":
		return ClassKnown
	}
	if exertionMetrics[name] {
		return ClassExertion
	}
	for _, c := range symptomCategories {
		if strings.EqualFold(c, category) {
			return ClassSymptom
		}
	}
	if strings.HasPrefix(strings.ToLower(category), excludedCategoryPrefix) {
		return ClassExcluded
	}
	return ClassCustom
}

// dayAccumulator collects one day's measurements before finalization.
// Symptom and exertion contributions are keyed by metric name so a
// duplicate (date, metric) pair overwrites rather than double-counts.
type dayAccumulator struct {
	date      time.Time
	hrv       *float64
	restingHR *int
	exertion  *float64
	symptoms  map[string]float64
	exertions map[string]float64
	custom    map[string]float64
}

// Normalize pivots long-format rows into one record per day.
//
// Per-day finalization: the composite score is the sum of symptom
// values (nil when no symptoms were logged); the exertion score is
// backfilled from the sum of exertion values when no Stability Score
// was present; the legacy symptom score column stays nil. Days where
// nothing usable was logged are dropped.
func Normalize(rows []RawRow) []store.DailyRecord {
	days := make(map[string]*dayAccumulator)

	for _, row := range rows {
		dateStr, ok := findColumn(row, dateColumns)
		if !ok {
			continue
		}
		date, ok := parseDate(dateStr)
		if !ok {
			continue
		}

		valueStr, _ := findColumn(row, valueColumns)
		value, ok := parseNumeric(valueStr)
		if !ok {
			continue
		}

		name, _ := findColumn(row, nameColumns)
		category, ok := findColumn(row, categoryColumns)
		if !ok {
			category = "Other"
		}

		key := date.Format(store.DateLayout)
		acc := days[key]
		if acc == nil {
			acc = &dayAccumulator{
				date:      date,
				symptoms:  make(map[string]float64),
				exertions: make(map[string]float64),
				custom:    make(map[string]float64),
			}
			days[key] = acc
		}

		switch ClassifyMetric(name, category) {
		case ClassKnown:
			switch name {
			case "HRV":
				v := value
				acc.hrv = &v
			case "Resting HR":
				rhr := int(math.Round(value))
				acc.restingHR = &rhr
			case "Stability Score":
				v := value
				acc.exertion = &v
			}
		case ClassExertion:
			acc.exertions[name] = value
			acc.custom[name] = value
		case ClassSymptom:
			acc.symptoms[name] = value
			acc.custom[name] = value
		case ClassCustom:
			acc.custom[name] = value
		case ClassExcluded:
		}
	}

	records := make([]store.DailyRecord, 0, len(days))
	for _, acc := range days {
		r := store.DailyRecord{
			Date:             acc.date,
			HRV:              acc.hrv,
			RestingHeartRate: acc.restingHR,
			ExertionScore:    acc.exertion,
		}

		if len(acc.symptoms) > 0 {
			sum := 0.0
			for _, v := range acc.symptoms {
				sum += v
			}
			r.CompositeScore = &sum
		}

		if r.ExertionScore == nil && len(acc.exertions) > 0 {
			sum := 0.0
			for _, v := range acc.exertions {
				sum += v
			}
			r.ExertionScore = &sum
		}

		if len(acc.custom) > 0 {
			r.CustomMetrics = acc.custom
		}

		if r.Empty() {
			continue
		}
		records = append(records, r)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
	return records
}

// parseDate accepts bare dates and datetime strings that start with a
// date, like "2024-03-01 08:00:00".
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) > len(store.DateLayout) {
		s = s[:len(store.DateLayout)]
	}
	t, err := time.Parse(store.DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// parseNumeric parses a measurement value, coercing boolean-like
// strings so flags such as "Crash" survive as 1/0.
func parseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(v) {
		return v, true
	}
	switch strings.ToLower(s) {
	case "true":
		return 1, true
	case "false":
		return 0, true
	}
	return 0, false
}
