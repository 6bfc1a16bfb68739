package analysis

import (
	"math"

	"trackme/internal/store"
)

// TrendStatus is a qualitative reading of a trend percentage.
type TrendStatus string

const (
	TrendImproving        TrendStatus = "improving"
	TrendWorsening        TrendStatus = "worsening"
	TrendStable           TrendStatus = "stable"
	TrendInsufficientData TrendStatus = "insufficient_data"
)

// TrendResult pairs a percent change with its qualitative status.
type TrendResult struct {
	Percent float64
	Status  TrendStatus
}

// PeriodTrend measures how a metric moved within the visible window by
// fitting a least-squares line over the ordered values (x = 0..n-1) and
// comparing the fitted endpoints. A fitted start below 0.01 in
// magnitude is substituted with 0.01 so near-zero baselines don't blow
// the percentage up to infinity. Inverted metrics (where higher raw
// values are worse, like symptom scores) flip the improving/worsening
// reading. Fewer than 2 points yields a stable 0.
func PeriodTrend(values []float64, inverted bool) TrendResult {
	if len(values) < 2 {
		return TrendResult{Status: TrendStable}
	}

	m, b := linearRegression(values)

	startVal := b
	endVal := m*float64(len(values)-1) + b

	safeStart := startVal
	if math.Abs(startVal) < 0.01 {
		safeStart = 0.01
	}

	pct := (endVal - startVal) / safeStart * 100
	return TrendResult{Percent: pct, Status: trendStatus(pct, inverted)}
}

// CompareTrend measures the current window's mean against the mean of
// an equal-duration preceding window. The denominator is clamped to at
// least 1 so tiny previous means don't explode the percentage. An empty
// previous window reports insufficient data.
func CompareTrend(currentAvg float64, previous []float64, inverted bool) TrendResult {
	if len(previous) == 0 {
		return TrendResult{Status: TrendInsufficientData}
	}

	prevAvg := mean(previous)
	denominator := math.Abs(prevAvg)
	if denominator < 1 {
		denominator = 1
	}

	pct := (currentAvg - prevAvg) / denominator * 100
	return TrendResult{Percent: pct, Status: trendStatus(pct, inverted)}
}

func trendStatus(pct float64, inverted bool) TrendStatus {
	if math.Abs(pct) < 1 {
		return TrendStable
	}
	if (pct > 0) != inverted {
		return TrendImproving
	}
	return TrendWorsening
}

// linearRegression fits value = m*x + b over x = 0..n-1.
func linearRegression(values []float64) (m, b float64) {
	n := float64(len(values))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	m = (n*sumXY - sumX*sumY) / denom
	b = (sumY - m*sumX) / n
	return m, b
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// populationStdDev is the uncorrected (divide by n) standard deviation.
func populationStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var sumSq float64
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// StepWindow holds the step-count normalization bounds of one visible
// window. The bounds are relative to the window, not global, so the
// same day's adjusted score changes with the selected date range.
type StepWindow struct {
	Min     float64
	Max     float64
	hasData bool
}

// NewStepWindow scans the visible records for step-count bounds.
func NewStepWindow(records []store.DailyRecord) StepWindow {
	var w StepWindow
	for _, r := range records {
		if r.StepCount == nil {
			continue
		}
		v := float64(*r.StepCount)
		if !w.hasData {
			w.Min, w.Max = v, v
			w.hasData = true
			continue
		}
		if v < w.Min {
			w.Min = v
		}
		if v > w.Max {
			w.Max = v
		}
	}
	return w
}

// Factor rescales a day's step count into a 0-3 penalty using the
// window's bounds. Days without steps, windows without step data, and
// windows without variance all yield 0.
func (w StepWindow) Factor(stepCount *int) float64 {
	if stepCount == nil || !w.hasData || w.Max == w.Min {
		return 0
	}
	return (float64(*stepCount) - w.Min) / (w.Max - w.Min) * 3
}

// AdjustedScore is the step-adjusted daily score: the symptom composite
// discounted by how active the day was relative to the rest of the
// window, floored at 0. A missing composite counts as 0.
func AdjustedScore(r store.DailyRecord, w StepWindow) float64 {
	base := 0.0
	if r.CompositeScore != nil {
		base = *r.CompositeScore
	}
	adjusted := base - w.Factor(r.StepCount)
	if adjusted < 0 {
		return 0
	}
	return adjusted
}
