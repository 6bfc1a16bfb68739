package analysis

// Crash type labels for the crash-phase classifier.
const (
	CrashTypeDip     = "Type A (Dip)"
	CrashTypeBurnout = "Type B (Burnout)"
	CrashTypeMixed   = "Mixed"
)

// PreCrashFindings describes exertion behavior leading into crashes.
type PreCrashFindings struct {
	DelayedTriggerDetected bool
	CumulativeLoadDetected bool
	TriggerLag             int
	Confidence             float64
}

// CrashPhaseFindings classifies the crash events themselves.
type CrashPhaseFindings struct {
	Type        string
	AvgDuration float64
	AvgPeakZ    float64
	SeverityAUC float64
}

// RecoveryFindings describes how symptoms and physiology return to
// baseline after crashes.
type RecoveryFindings struct {
	AvgRecoveryDays    int
	HysteresisDetected bool
}

// AnalyzePreCrashPhase scans the pre-onset exertion profile for
// triggers. An acute spike is any mean exertion z above 1.5 within the
// two days before onset; cumulative load is a mean above 0.5 over the
// last five pre-onset days. Confidence reflects which signal fired:
// 0.8 for a spike, 0.6 for load only, 0 for neither.
func AnalyzePreCrashPhase(profile []ProfilePoint) PreCrashFindings {
	spikeLag := 0
	spikeFound := false
	var recentSum float64
	recentCount := 0

	for _, point := range profile {
		if point.DayOffset >= 0 {
			continue
		}
		m := point.Metrics[MetricExertion].Mean

		if !spikeFound && point.DayOffset >= -2 && m > 1.5 {
			spikeFound = true
			spikeLag = point.DayOffset
		}
		if point.DayOffset >= -5 {
			recentSum += m
			recentCount++
		}
	}

	cumulativeAvg := 0.0
	if recentCount > 0 {
		cumulativeAvg = recentSum / float64(recentCount)
	}
	cumulativeLoad := cumulativeAvg > 0.5

	findings := PreCrashFindings{
		DelayedTriggerDetected: spikeFound,
		CumulativeLoadDetected: cumulativeLoad,
	}
	switch {
	case spikeFound:
		findings.TriggerLag = spikeLag
		findings.Confidence = 0.8
	case cumulativeLoad:
		findings.TriggerLag = -1
		findings.Confidence = 0.6
	}
	return findings
}

// AnalyzeCrashPhase walks each epoch forward from onset, counting
// flagged days as duration and accumulating composite-score z as
// severity; a day past onset that is neither flagged nor elevated
// (z > 0.5) ends the walk. Short sharp crashes (under 3 days with peak
// z above 1.5) classify as a Dip, prolonged ones (3+ days) as Burnout,
// the rest as Mixed. SeverityAUC is the mean per-epoch severity sum, a
// rough area-under-curve proxy.
func AnalyzeCrashPhase(epochs []Epoch) CrashPhaseFindings {
	if len(epochs) == 0 {
		return CrashPhaseFindings{Type: CrashTypeMixed}
	}

	var durationSum, peakSum, severityTotal float64
	for _, epoch := range epochs {
		duration := 0
		severitySum := 0.0
		peak := 0.0

		for offset := 0; offset <= EpochPostDays; offset++ {
			day := findDay(epoch, offset)
			if day == nil {
				break
			}

			flagged := dayCrashFlagged(*day)
			z := day.ZScores[MetricComposite]

			if flagged {
				duration++
			}
			if flagged || z > 0.5 {
				severitySum += z
				if z > peak {
					peak = z
				}
			}
			if offset > 0 && !flagged && z <= 0.5 {
				break
			}
		}

		durationSum += float64(duration)
		peakSum += peak
		severityTotal += severitySum
	}

	n := float64(len(epochs))
	avgDuration := durationSum / n
	avgPeak := peakSum / n

	crashType := CrashTypeMixed
	if avgDuration < 3 && avgPeak > 1.5 {
		crashType = CrashTypeDip
	} else if avgDuration >= 3 {
		crashType = CrashTypeBurnout
	}

	return CrashPhaseFindings{
		Type:        crashType,
		AvgDuration: avgDuration,
		AvgPeakZ:    avgPeak,
		SeverityAUC: severityTotal / n,
	}
}

// AnalyzeRecoveryPhase finds the first post-onset offset where the
// aggregated composite z drops below 0.5; HRV recovery is the first
// offset where its z rises above -0.5, since HRV returns upward toward
// baseline. Either defaults to the window edge (14) when it never
// recovers. Hysteresis is flagged when HRV normalizes strictly before
// symptoms do, the pattern where physiology looks fine while symptoms
// persist.
func AnalyzeRecoveryPhase(profile []ProfilePoint) RecoveryFindings {
	symptomRecovery := recoveryDay(profile, MetricComposite, false)
	hrvRecovery := recoveryDay(profile, MetricHRV, true)

	return RecoveryFindings{
		AvgRecoveryDays:    symptomRecovery,
		HysteresisDetected: hrvRecovery < symptomRecovery,
	}
}

func recoveryDay(profile []ProfilePoint, metric string, upward bool) int {
	for _, point := range profile {
		if point.DayOffset <= 0 {
			continue
		}
		m := point.Metrics[metric].Mean
		if upward && m > -0.5 {
			return point.DayOffset
		}
		if !upward && m < 0.5 {
			return point.DayOffset
		}
	}
	return EpochPostDays
}

func findDay(epoch Epoch, offset int) *EpochDay {
	for i := range epoch.Days {
		if epoch.Days[i].DayOffset == offset {
			return &epoch.Days[i]
		}
	}
	return nil
}

// dayCrashFlagged checks the epoch day's extracted crash metric under
// either capitalization.
func dayCrashFlagged(day EpochDay) bool {
	for _, key := range []string{"Crash", "crash"} {
		if v := day.Metrics[key]; v != nil && *v == 1 {
			return true
		}
	}
	return false
}
