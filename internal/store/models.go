package store

import "time"

// DateLayout is the calendar-day format used throughout the database.
const DateLayout = "2006-01-02"

// DailyRecord is one calendar day of health data for one subject.
// All measurement fields are optional; a day typically has whichever
// subset the source export contained.
type DailyRecord struct {
	SubjectID        string
	Date             time.Time
	HRV              *float64
	RestingHeartRate *int
	ExertionScore    *float64
	// SymptomScore is the legacy averaged score. The normalizer always
	// leaves it nil; it survives only for rows imported before the
	// migration to the sum-based composite.
	SymptomScore   *float64
	CompositeScore *float64
	StepCount      *int
	CustomMetrics  map[string]float64
}

// CrashFlag reports whether the day was labeled a crash day. The flag is
// carried as a custom metric named "Crash" (or "crash" in older exports)
// with value 1.
func (r *DailyRecord) CrashFlag() bool {
	if v, ok := r.CustomMetrics["Crash"]; ok && v == 1 {
		return true
	}
	if v, ok := r.CustomMetrics["crash"]; ok && v == 1 {
		return true
	}
	return false
}

// Empty reports whether the record carries no data at all. Empty records
// are dropped during normalization rather than persisted.
func (r *DailyRecord) Empty() bool {
	return r.HRV == nil &&
		r.RestingHeartRate == nil &&
		r.ExertionScore == nil &&
		r.SymptomScore == nil &&
		r.CompositeScore == nil &&
		r.StepCount == nil &&
		len(r.CustomMetrics) == 0
}

// DateRange is an inclusive calendar-day interval.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the range (inclusive).
func (dr DateRange) Contains(t time.Time) bool {
	return !t.Before(dr.Start) && !t.After(dr.End)
}

// Overlaps reports whether the interval [start, end] overlaps the range
// at all. Partial overlap counts.
func (dr DateRange) Overlaps(start, end time.Time) bool {
	return !start.After(dr.End) && !end.Before(dr.Start)
}

// Experiment is a named intervention (medication, supplement, lifestyle
// change) with a start date and an optional end date. Open-ended
// experiments are analyzed up to the current day.
type Experiment struct {
	ID        string
	SubjectID string
	Name      string
	StartDate time.Time
	EndDate   *time.Time
	Category  string
	CreatedAt time.Time
}
