package analysis

import "trackme/internal/store"

// Metric keys used across the analysis package. Known keys address a
// dedicated record field; any other key is looked up in a day's custom
// metrics.
const (
	MetricHRV       = "hrv"
	MetricRestingHR = "resting_heart_rate"
	MetricExertion  = "exertion_score"
	MetricComposite = "composite_score"
	MetricSteps     = "step_count"
	MetricCrash     = "Crash"
)

// MetricValue reads a named metric from a daily record. Returns nil
// when the day has no value for it.
func MetricValue(r store.DailyRecord, key string) *float64 {
	switch key {
	case MetricHRV:
		return r.HRV
	case MetricRestingHR:
		if r.RestingHeartRate == nil {
			return nil
		}
		v := float64(*r.RestingHeartRate)
		return &v
	case MetricExertion:
		return r.ExertionScore
	case MetricComposite:
		return r.CompositeScore
	case MetricSteps:
		if r.StepCount == nil {
			return nil
		}
		v := float64(*r.StepCount)
		return &v
	}
	if v, ok := r.CustomMetrics[key]; ok {
		return &v
	}
	return nil
}
