package service

import (
	"time"

	"trackme/internal/analysis"
	"trackme/internal/store"
)

// compareWindowDays is the window used on both sides of the all-time
// comparison, where no natural "previous period" exists.
const compareWindowDays = 30

// MetricStats is one metric's dashboard card: the current average, the
// in-window trend, the against-history trend, and the per-day history
// behind them.
type MetricStats struct {
	Key   string
	Label string
	Unit  string

	Average     float64
	SampleCount int

	// PeriodTrend is how the metric moved within the visible window.
	PeriodTrend analysis.TrendResult
	// CompareTrend is the visible window against the equal-length
	// window before it.
	CompareTrend analysis.TrendResult

	History []float64
	Dates   []time.Time
}

// GetMetricStats computes dashboard statistics for one metric over the
// selected time range. Everything is recomputed from scratch per call;
// the step-adjusted score in particular renormalizes against the
// visible window's own step bounds, so the same day can score
// differently under different ranges.
func (q *QueryService) GetMetricStats(metric string, rng TimeRange, custom *store.DateRange, now time.Time) (*MetricStats, error) {
	all, err := q.store.GetDailyRecords(q.subjectID, nil)
	if err != nil {
		return nil, err
	}

	bounds := resolveRange(rng, custom, now)
	view := filterRecords(all, bounds)

	opt := metricOption(metric)
	window := analysis.NewStepWindow(view)

	stats := &MetricStats{
		Key:   opt.Key,
		Label: opt.Label,
		Unit:  opt.Unit,
	}

	var values []float64
	for _, r := range view {
		v := computeValue(r, metric, window)
		if v == nil {
			continue
		}
		values = append(values, *v)
		stats.History = append(stats.History, *v)
		stats.Dates = append(stats.Dates, r.Date)
	}

	stats.SampleCount = len(values)
	if len(values) > 0 {
		stats.Average = meanOf(values)
	}
	stats.PeriodTrend = analysis.PeriodTrend(values, opt.Inverted)
	stats.CompareTrend = q.compareAgainstHistory(all, view, values, metric, rng, opt.Inverted, window, now)

	return stats, nil
}

// compareAgainstHistory builds the comparison trend. Bounded ranges
// compare the view against the equal-duration window immediately before
// it. The all-time range has no preceding window, so it compares the
// most recent 30 days against the 30 before those. Previous-window
// values reuse the current view's step normalization so the adjusted
// score compares like for like.
func (q *QueryService) compareAgainstHistory(all, view []store.DailyRecord, viewValues []float64, metric string, rng TimeRange, inverted bool, window analysis.StepWindow, now time.Time) analysis.TrendResult {
	if rng == RangeAll {
		recent := &store.DateRange{Start: now.AddDate(0, 0, -(compareWindowDays - 1)), End: now}
		previous := &store.DateRange{
			Start: recent.Start.AddDate(0, 0, -compareWindowDays),
			End:   recent.Start.AddDate(0, 0, -1),
		}

		recentValues := metricValues(filterRecords(all, recent), metric, window)
		prevValues := metricValues(filterRecords(all, previous), metric, window)
		if len(recentValues) == 0 {
			return analysis.TrendResult{Status: analysis.TrendInsufficientData}
		}
		return analysis.CompareTrend(meanOf(recentValues), prevValues, inverted)
	}

	if len(view) == 0 {
		return analysis.TrendResult{Status: analysis.TrendInsufficientData}
	}

	// Derive the window from the records actually present so sparse
	// data doesn't skew the previous-period bounds.
	start := view[0].Date
	end := view[len(view)-1].Date
	duration := int(end.Sub(start).Hours()/24) + 1

	previous := &store.DateRange{
		Start: start.AddDate(0, 0, -duration),
		End:   start.AddDate(0, 0, -1),
	}
	prevValues := metricValues(filterRecords(all, previous), metric, window)

	currentAvg := 0.0
	if len(viewValues) > 0 {
		currentAvg = meanOf(viewValues)
	}
	return analysis.CompareTrend(currentAvg, prevValues, inverted)
}

// computeValue reads a metric off one record, deriving the adjusted
// score on the fly against the given step window.
func computeValue(r store.DailyRecord, metric string, window analysis.StepWindow) *float64 {
	if metric == MetricAdjustedScore {
		v := analysis.AdjustedScore(r, window)
		return &v
	}
	return analysis.MetricValue(r, metric)
}

func metricValues(records []store.DailyRecord, metric string, window analysis.StepWindow) []float64 {
	var values []float64
	for _, r := range records {
		if v := computeValue(r, metric, window); v != nil {
			values = append(values, *v)
		}
	}
	return values
}

func filterRecords(records []store.DailyRecord, bounds *store.DateRange) []store.DailyRecord {
	if bounds == nil {
		return records
	}
	var filtered []store.DailyRecord
	for _, r := range records {
		if bounds.Contains(r.Date) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func meanOf(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
