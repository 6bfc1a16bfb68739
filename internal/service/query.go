package service

import (
	"sort"
	"strings"
	"time"

	"trackme/internal/analysis"
	"trackme/internal/store"
)

// MetricAdjustedScore is the synthetic step-adjusted score metric. It
// is derived per request, never stored.
const MetricAdjustedScore = "adjusted_score"

// QueryService provides read-only queries for the TUI and CLI
type QueryService struct {
	store     *store.Store
	subjectID string
}

// NewQueryService creates a new query service
func NewQueryService(st *store.Store, subjectID string) *QueryService {
	return &QueryService{store: st, subjectID: subjectID}
}

// TimeRange selects how much history a query looks at.
type TimeRange string

const (
	Range7d     TimeRange = "7d"
	Range30d    TimeRange = "30d"
	Range90d    TimeRange = "90d"
	RangeAll    TimeRange = "all"
	RangeCustom TimeRange = "custom"
)

// ParseTimeRange maps a user-supplied range string to a TimeRange.
func ParseTimeRange(s string) (TimeRange, bool) {
	switch TimeRange(s) {
	case Range7d, Range30d, Range90d, RangeAll, RangeCustom:
		return TimeRange(s), true
	}
	return "", false
}

// days returns the range's window length, or 0 for unbounded ranges.
func (r TimeRange) days() int {
	switch r {
	case Range7d:
		return 7
	case Range30d:
		return 30
	case Range90d:
		return 90
	}
	return 0
}

// resolveRange turns a time range selection into concrete date bounds.
// Returns nil for the unbounded all-time range.
func resolveRange(rng TimeRange, custom *store.DateRange, now time.Time) *store.DateRange {
	switch rng {
	case RangeAll:
		return nil
	case RangeCustom:
		return custom
	}
	days := rng.days()
	if days == 0 {
		return nil
	}
	return &store.DateRange{
		Start: now.AddDate(0, 0, -(days - 1)),
		End:   now,
	}
}

// MetricOption is one selectable metric.
type MetricOption struct {
	Key      string
	Label    string
	Unit     string
	Inverted bool
}

// defaultMetricOptions are always offered, whether or not data exists
// for them yet.
var defaultMetricOptions = []MetricOption{
	{Key: MetricAdjustedScore, Label: "Adjusted Score", Inverted: true},
	{Key: analysis.MetricComposite, Label: "Symptom Score", Inverted: true},
	{Key: analysis.MetricHRV, Label: "Heart Rate Variability", Unit: "ms"},
	{Key: analysis.MetricRestingHR, Label: "Resting HR", Unit: "bpm", Inverted: true},
	{Key: analysis.MetricSteps, Label: "Steps"},
	{Key: analysis.MetricExertion, Label: "Exertion Score"},
}

// exertionKeywords mark custom metric names that track activity rather
// than symptoms; for those, higher is not worse.
var exertionKeywords = []string{
	"exertion", "demanding", "active", "activity", "walk", "run",
	"cycle", "sport", "gym", "train", "cook", "clean", "social",
	"work", "focus",
}

// MetricOptions lists the default metrics plus every custom metric key
// present anywhere in the subject's history, sorted.
func (q *QueryService) MetricOptions() ([]MetricOption, error) {
	records, err := q.store.GetDailyRecords(q.subjectID, nil)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, opt := range defaultMetricOptions {
		seen[opt.Key] = true
	}

	var customKeys []string
	for _, r := range records {
		for key := range r.CustomMetrics {
			if !seen[key] {
				seen[key] = true
				customKeys = append(customKeys, key)
			}
		}
	}
	sort.Strings(customKeys)

	options := append([]MetricOption(nil), defaultMetricOptions...)
	for _, key := range customKeys {
		options = append(options, MetricOption{
			Key:      key,
			Label:    key,
			Inverted: !isExertionLike(key),
		})
	}
	return options, nil
}

// metricOption resolves a metric key to its option, falling back to a
// custom-metric config for unknown keys.
func metricOption(key string) MetricOption {
	for _, opt := range defaultMetricOptions {
		if opt.Key == key {
			return opt
		}
	}
	return MetricOption{Key: key, Label: key, Inverted: !isExertionLike(key)}
}

func isExertionLike(key string) bool {
	lower := strings.ToLower(key)
	for _, kw := range exertionKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
