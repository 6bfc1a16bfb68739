package analysis

import (
	"strings"

	"trackme/internal/store"
)

// BaselineStat is a metric's mean and standard deviation over the
// baseline (non-episode) days.
type BaselineStat struct {
	Mean float64
	Std  float64
}

// BaselineStats computes per-metric baseline statistics over the days
// not in the excluded set, using the population standard deviation.
// Metrics with fewer than 2 numeric samples default to {0, 0}, except
// the crash flag which defaults to {0, 1} so a flagged day still scores
// a clean 1 sigma instead of vanishing in a divide-by-zero guard.
func BaselineStats(records []store.DailyRecord, excluded map[int]bool, metrics []string) map[string]BaselineStat {
	stats := make(map[string]BaselineStat, len(metrics))

	for _, key := range metrics {
		var values []float64
		for i, r := range records {
			if excluded[i] {
				continue
			}
			if v := MetricValue(r, key); v != nil {
				values = append(values, *v)
			}
		}

		if len(values) > 1 {
			stats[key] = BaselineStat{Mean: mean(values), Std: populationStdDev(values)}
		} else if strings.EqualFold(key, MetricCrash) {
			stats[key] = BaselineStat{Mean: 0, Std: 1}
		} else {
			stats[key] = BaselineStat{Mean: 0, Std: 0}
		}
	}

	return stats
}
