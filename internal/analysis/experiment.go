package analysis

import (
	"math"
	"time"

	"trackme/internal/store"
)

// minExperimentSamples is the minimum scored days each side of an
// experiment comparison needs before a result is produced.
const minExperimentSamples = 3

// ExperimentResult compares a treatment window against the equal-length
// baseline window immediately before it.
type ExperimentResult struct {
	ExperimentID  string
	MetricName    string
	BaselineMean  int
	TreatmentMean int
	ChangePercent float64

	// IsSignificant is a simple >5% change heuristic, not a
	// hypothesis test.
	IsSignificant bool

	SampleSizeBaseline  int
	SampleSizeTreatment int
}

// AnalyzeExperiment measures an intervention's effect on the composite
// health score. The treatment window runs from the experiment's start
// to its end (or now, when still running); the baseline window is the
// equal-duration stretch immediately before the start. Returns nil when
// either window has fewer than 3 scored days.
func AnalyzeExperiment(exp store.Experiment, records []store.DailyRecord, now time.Time) *ExperimentResult {
	end := now
	if exp.EndDate != nil {
		end = *exp.EndDate
	}

	duration := end.Sub(exp.StartDate)
	baselineStart := exp.StartDate.Add(-duration)
	baselineEnd := exp.StartDate.AddDate(0, 0, -1)

	var baselineScores, treatmentScores []float64
	for _, r := range records {
		score := HealthScore(r.CompositeScore, r.HRV)
		if score == nil {
			continue
		}
		switch {
		case !r.Date.Before(exp.StartDate) && !r.Date.After(end):
			treatmentScores = append(treatmentScores, float64(*score))
		case !r.Date.Before(baselineStart) && !r.Date.After(baselineEnd):
			baselineScores = append(baselineScores, float64(*score))
		}
	}

	if len(baselineScores) < minExperimentSamples || len(treatmentScores) < minExperimentSamples {
		return nil
	}

	baselineMean := mean(baselineScores)
	treatmentMean := mean(treatmentScores)

	changePercent := 0.0
	if baselineMean != 0 {
		changePercent = (treatmentMean - baselineMean) / baselineMean * 100
	}

	return &ExperimentResult{
		ExperimentID:        exp.ID,
		MetricName:          "Composite Health Score",
		BaselineMean:        int(math.Round(baselineMean)),
		TreatmentMean:       int(math.Round(treatmentMean)),
		ChangePercent:       math.Round(changePercent*10) / 10,
		IsSignificant:       math.Abs(changePercent) > 5,
		SampleSizeBaseline:  len(baselineScores),
		SampleSizeTreatment: len(treatmentScores),
	}
}
