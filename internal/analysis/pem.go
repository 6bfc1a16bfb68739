package analysis

import (
	"math"

	"trackme/internal/store"
)

// Days around an active episode excluded from the baseline and scanned
// for trigger/recovery deltas.
const phaseBufferDays = 7

// deltaThreshold is the minimum percent shift from baseline worth
// reporting as a finding.
const deltaThreshold = 5.0

// cycleMetrics are the metrics fed through the superposed epoch
// analysis.
var cycleMetrics = []string{
	MetricSteps,
	MetricExertion,
	MetricHRV,
	MetricRestingHR,
	MetricComposite,
	MetricCrash,
}

// deltaMetrics are the raw metrics compared against the non-crash
// baseline for the per-phase findings.
var deltaMetrics = []string{
	MetricSteps,
	MetricExertion,
	MetricHRV,
	MetricRestingHR,
}

// DeltaFinding reports a raw metric that shifted meaningfully from its
// non-crash baseline during one phase of the cycle. Lag is only set for
// trigger findings: how many days before onset the shift peaked.
type DeltaFinding struct {
	Metric   string
	Delta    float64
	Value    float64
	Baseline float64
	Lag      int
}

// CycleAnalysis is the full result of one crash-cycle analysis run.
type CycleAnalysis struct {
	NoCrashes     bool
	FilterApplied bool

	EpisodeCount  int
	AvgEpisodeLen float64

	Epochs  []Epoch
	Profile []ProfilePoint

	PreCrash PreCrashFindings
	Crash    CrashPhaseFindings
	Recovery RecoveryFindings

	TriggerFindings  []DeltaFinding
	DuringFindings   []DeltaFinding
	RecoveryFindings []DeltaFinding
}

// AnalyzeCycles runs the whole crash-cycle pipeline over a date-sorted
// series: detect episodes, optionally filter to those overlapping a
// date range, z-score epoch windows against the non-crash baseline,
// superpose them, and classify the pre-crash, crash, and recovery
// phases. When no episode survives filtering the result short-circuits
// to NoCrashes instead of computing degenerate statistics.
func AnalyzeCycles(records []store.DailyRecord, rng *store.DateRange) CycleAnalysis {
	episodes := DetectEpisodes(records)
	active := ActiveEpisodes(records, episodes, rng)

	if len(active) == 0 {
		return CycleAnalysis{NoCrashes: true, FilterApplied: rng != nil}
	}

	// Baseline excludes every crash day plus the trigger/recovery
	// buffer around active episodes, so the "normal" days stay pure.
	excluded := make(map[int]bool)
	for _, ep := range episodes {
		for i := ep.StartIndex; i <= ep.EndIndex; i++ {
			excluded[i] = true
		}
	}
	for _, ep := range active {
		for i := 1; i <= phaseBufferDays; i++ {
			if ep.StartIndex-i >= 0 {
				excluded[ep.StartIndex-i] = true
			}
			if ep.EndIndex+i < len(records) {
				excluded[ep.EndIndex+i] = true
			}
		}
	}

	baseline := BaselineStats(records, excluded, cycleMetrics)

	onsets := make([]int, len(active))
	for i, ep := range active {
		onsets[i] = ep.StartIndex
	}

	epochs := ExtractEpochs(records, onsets, cycleMetrics)
	ApplyZScores(epochs, baseline)
	profile := AggregateEpochs(epochs, cycleMetrics)

	lengthSum := 0
	for _, ep := range active {
		lengthSum += ep.Length()
	}

	rawBaseline := rawBaselineMeans(records, excluded)

	return CycleAnalysis{
		FilterApplied: rng != nil,
		EpisodeCount:  len(active),
		AvgEpisodeLen: float64(lengthSum) / float64(len(active)),
		Epochs:        epochs,
		Profile:       profile,
		PreCrash:      AnalyzePreCrashPhase(profile),
		Crash:         AnalyzeCrashPhase(epochs),
		Recovery:      AnalyzeRecoveryPhase(profile),

		TriggerFindings:  triggerDeltas(records, active, rawBaseline),
		DuringFindings:   duringDeltas(records, active, rawBaseline),
		RecoveryFindings: recoveryDeltas(records, active, rawBaseline),
	}
}

// rawBaselineMeans averages each delta metric's raw values over the
// baseline days.
func rawBaselineMeans(records []store.DailyRecord, excluded map[int]bool) map[string]float64 {
	baseline := make(map[string]float64, len(deltaMetrics))
	for _, key := range deltaMetrics {
		var values []float64
		for i, r := range records {
			if excluded[i] {
				continue
			}
			if v := MetricValue(r, key); v != nil {
				values = append(values, *v)
			}
		}
		baseline[key] = mean(values)
	}
	return baseline
}

// calcDelta is the percent shift of a phase mean from its baseline
// mean. A near-zero baseline yields 0 rather than a blown-up ratio.
func calcDelta(val, base float64) float64 {
	if math.Abs(base) < 0.01 {
		return 0
	}
	return (val - base) / base * 100
}

// triggerDeltas scans lags of 1..7 days before episode onsets for the
// strongest per-metric shift from baseline. A metric only produces a
// finding when its best lag shifted more than the reporting threshold.
func triggerDeltas(records []store.DailyRecord, active []Episode, baseline map[string]float64) []DeltaFinding {
	var findings []DeltaFinding

	for _, key := range deltaMetrics {
		bestLag := -1
		maxDelta := 0.0
		bestAvg := 0.0

		for lag := 1; lag <= phaseBufferDays; lag++ {
			var values []float64
			for _, ep := range active {
				idx := ep.StartIndex - lag
				if idx < 0 {
					continue
				}
				if v := MetricValue(records[idx], key); v != nil {
					values = append(values, *v)
				}
			}
			if len(values) == 0 {
				continue
			}

			avg := mean(values)
			delta := calcDelta(avg, baseline[key])
			if math.Abs(delta) > math.Abs(maxDelta) {
				maxDelta = delta
				bestLag = lag
				bestAvg = avg
			}
		}

		if bestLag != -1 && math.Abs(maxDelta) > deltaThreshold {
			findings = append(findings, DeltaFinding{
				Metric:   key,
				Delta:    maxDelta,
				Value:    bestAvg,
				Baseline: baseline[key],
				Lag:      bestLag,
			})
		}
	}

	return findings
}

// duringDeltas compares each metric's mean across all active episode
// days against baseline.
func duringDeltas(records []store.DailyRecord, active []Episode, baseline map[string]float64) []DeltaFinding {
	var findings []DeltaFinding

	for _, key := range deltaMetrics {
		var values []float64
		for _, ep := range active {
			for i := ep.StartIndex; i <= ep.EndIndex; i++ {
				if v := MetricValue(records[i], key); v != nil {
					values = append(values, *v)
				}
			}
		}
		if len(values) == 0 {
			continue
		}

		avg := mean(values)
		delta := calcDelta(avg, baseline[key])
		if math.Abs(delta) > deltaThreshold {
			findings = append(findings, DeltaFinding{
				Metric:   key,
				Delta:    delta,
				Value:    avg,
				Baseline: baseline[key],
			})
		}
	}

	return findings
}

// recoveryDeltas compares each metric's mean over the 7 days after
// episode ends against baseline.
func recoveryDeltas(records []store.DailyRecord, active []Episode, baseline map[string]float64) []DeltaFinding {
	var findings []DeltaFinding

	for _, key := range deltaMetrics {
		var values []float64
		for _, ep := range active {
			for i := 1; i <= phaseBufferDays; i++ {
				idx := ep.EndIndex + i
				if idx >= len(records) {
					continue
				}
				if v := MetricValue(records[idx], key); v != nil {
					values = append(values, *v)
				}
			}
		}
		if len(values) == 0 {
			continue
		}

		avg := mean(values)
		delta := calcDelta(avg, baseline[key])
		if math.Abs(delta) > deltaThreshold {
			findings = append(findings, DeltaFinding{
				Metric:   key,
				Delta:    delta,
				Value:    avg,
				Baseline: baseline[key],
			})
		}
	}

	return findings
}
