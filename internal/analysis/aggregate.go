package analysis

import "math"

// MetricAggregate is one metric's distribution at a single day offset,
// pooled across epochs. N is the number of epoch-days contributing at
// that offset; consumers should treat low-N offsets as low confidence.
type MetricAggregate struct {
	Mean float64
	Std  float64
	N    int
}

// ProfilePoint is one day offset of the superposed epoch profile.
type ProfilePoint struct {
	DayOffset int
	Metrics   map[string]MetricAggregate
}

// AggregateEpochs pools z-scored epochs into one averaged profile per
// day offset (superposed epoch analysis). Standard deviation comes from
// the sum-of-squares identity, guarded against the small negative
// variance floating point can produce.
func AggregateEpochs(epochs []Epoch, metrics []string) []ProfilePoint {
	type node struct {
		count  int
		sums   map[string]float64
		sqSums map[string]float64
	}

	nodes := make(map[int]*node)
	for offset := -EpochPreDays; offset <= EpochPostDays; offset++ {
		n := &node{sums: make(map[string]float64), sqSums: make(map[string]float64)}
		nodes[offset] = n
	}

	for _, epoch := range epochs {
		for _, day := range epoch.Days {
			n, ok := nodes[day.DayOffset]
			if !ok {
				continue
			}
			for _, key := range metrics {
				z, ok := day.ZScores[key]
				if !ok || math.IsNaN(z) {
					continue
				}
				n.sums[key] += z
				n.sqSums[key] += z * z
			}
			n.count++
		}
	}

	profile := make([]ProfilePoint, 0, EpochPreDays+EpochPostDays+1)
	for offset := -EpochPreDays; offset <= EpochPostDays; offset++ {
		n := nodes[offset]
		point := ProfilePoint{
			DayOffset: offset,
			Metrics:   make(map[string]MetricAggregate, len(metrics)),
		}

		for _, key := range metrics {
			if n.count == 0 {
				point.Metrics[key] = MetricAggregate{}
				continue
			}
			m := n.sums[key] / float64(n.count)
			variance := n.sqSums[key]/float64(n.count) - m*m
			point.Metrics[key] = MetricAggregate{
				Mean: m,
				Std:  math.Sqrt(math.Max(0, variance)),
				N:    n.count,
			}
		}
		profile = append(profile, point)
	}

	return profile
}
