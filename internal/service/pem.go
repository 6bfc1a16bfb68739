package service

import (
	"time"

	"trackme/internal/analysis"
	"trackme/internal/store"
)

// GetCycleAnalysis runs the crash-cycle analysis over the subject's
// full history. The time range does not trim the series; it selects
// which episodes count as active, since epochs need the days around an
// episode even when those fall outside the visible window.
func (q *QueryService) GetCycleAnalysis(rng TimeRange, custom *store.DateRange, now time.Time) (*analysis.CycleAnalysis, error) {
	records, err := q.store.GetDailyRecords(q.subjectID, nil)
	if err != nil {
		return nil, err
	}

	bounds := resolveRange(rng, custom, now)
	result := analysis.AnalyzeCycles(records, bounds)
	return &result, nil
}
