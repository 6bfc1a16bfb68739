package analysis

import "math"

// Composite health score weights and normalization bounds.
// Symptom scores run 0 (best) to 3 (worst); HRV is clamped to a
// practical 15-100ms band before rescaling.
const (
	symptomMaxScale = 3.0
	symptomWeight   = 0.6

	hrvMin    = 15.0
	hrvMax    = 100.0
	hrvWeight = 0.4
)

// HealthScore calculates a composite 0-100 health score from a day's
// symptom severity and HRV. Each present input contributes a normalized
// 0-100 sub-score; sub-scores are weight-averaged, so a single present
// input yields its own normalized value unchanged. Returns nil when
// both inputs are missing.
func HealthScore(symptomScore, hrv *float64) *int {
	if symptomScore == nil && hrv == nil {
		return nil
	}

	totalWeight := 0.0
	totalScore := 0.0

	if symptomScore != nil {
		clamped := clamp(*symptomScore, 0, symptomMaxScale)
		normalized := (1 - clamped/symptomMaxScale) * 100
		totalScore += normalized * symptomWeight
		totalWeight += symptomWeight
	}

	if hrv != nil {
		clamped := clamp(*hrv, hrvMin, hrvMax)
		normalized := (clamped - hrvMin) / (hrvMax - hrvMin) * 100

		// HRV carries full weight when it's the only signal
		weight := 1.0
		if symptomScore != nil {
			weight = hrvWeight
		}
		totalScore += normalized * weight
		totalWeight += weight
	}

	score := int(math.Round(totalScore / totalWeight))
	return &score
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
