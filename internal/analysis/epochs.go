package analysis

import (
	"time"

	"trackme/internal/store"
)

// Epoch window bounds in days relative to a crash onset.
const (
	EpochPreDays  = 7
	EpochPostDays = 14
)

// EpochDay is one day inside an epoch window.
type EpochDay struct {
	DayOffset int
	Date      time.Time
	Metrics   map[string]*float64
	ZScores   map[string]float64
}

// Epoch is a fixed-width window of days anchored at one crash onset
// (day offset 0). Partial windows at series boundaries keep only the
// days that exist; they are not padded.
type Epoch struct {
	CrashDate  time.Time
	StartIndex int
	Days       []EpochDay
}

// ExtractEpochs cuts a window of offsets -EpochPreDays..+EpochPostDays
// around each onset index, clipped at the series boundaries, and reads
// the requested metrics for each day in the window.
func ExtractEpochs(records []store.DailyRecord, onsets []int, metrics []string) []Epoch {
	var epochs []Epoch

	for _, onset := range onsets {
		epoch := Epoch{
			CrashDate:  records[onset].Date,
			StartIndex: onset,
		}

		for offset := -EpochPreDays; offset <= EpochPostDays; offset++ {
			idx := onset + offset
			if idx < 0 || idx >= len(records) {
				continue
			}

			day := EpochDay{
				DayOffset: offset,
				Date:      records[idx].Date,
				Metrics:   make(map[string]*float64, len(metrics)),
			}
			for _, key := range metrics {
				day.Metrics[key] = MetricValue(records[idx], key)
			}
			epoch.Days = append(epoch.Days, day)
		}

		if len(epoch.Days) > 0 {
			epochs = append(epochs, epoch)
		}
	}

	return epochs
}

// ApplyZScores converts each epoch day's raw metrics into z-scores
// against the baseline. A zero-variance baseline scores any value above
// its mean as a fixed 2 sigma rather than dividing by zero; missing
// values and unknown metrics score 0.
func ApplyZScores(epochs []Epoch, baseline map[string]BaselineStat) {
	for ei := range epochs {
		for di := range epochs[ei].Days {
			day := &epochs[ei].Days[di]
			day.ZScores = make(map[string]float64, len(day.Metrics))

			for key, val := range day.Metrics {
				stat, ok := baseline[key]
				if val == nil || !ok {
					day.ZScores[key] = 0
					continue
				}
				if stat.Std > 0 {
					day.ZScores[key] = (*val - stat.Mean) / stat.Std
				} else if *val > stat.Mean {
					day.ZScores[key] = 2
				} else {
					day.ZScores[key] = 0
				}
			}
		}
	}
}
