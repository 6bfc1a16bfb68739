package analysis

import "trackme/internal/store"

// Episode is a maximal run of consecutive crash-flagged days. Indices
// point into the sorted daily series it was detected on.
type Episode struct {
	StartIndex int
	EndIndex   int
}

// Length is the episode's span in days, inclusive of both ends.
func (e Episode) Length() int {
	return e.EndIndex - e.StartIndex + 1
}

// DetectEpisodes finds crash episodes in a date-sorted series with a
// single left-to-right scan. An episode still open at the end of the
// series is closed at the last index, not discarded.
func DetectEpisodes(records []store.DailyRecord) []Episode {
	var episodes []Episode
	start := -1

	for i, r := range records {
		if r.CrashFlag() {
			if start == -1 {
				start = i
			}
		} else if start != -1 {
			episodes = append(episodes, Episode{StartIndex: start, EndIndex: i - 1})
			start = -1
		}
	}
	if start != -1 {
		episodes = append(episodes, Episode{StartIndex: start, EndIndex: len(records) - 1})
	}

	return episodes
}

// ActiveEpisodes filters episodes to those whose date span overlaps the
// given range at all; partial overlap counts. A nil range keeps every
// episode.
func ActiveEpisodes(records []store.DailyRecord, episodes []Episode, rng *store.DateRange) []Episode {
	if rng == nil {
		return episodes
	}

	var active []Episode
	for _, ep := range episodes {
		if rng.Overlaps(records[ep.StartIndex].Date, records[ep.EndIndex].Date) {
			active = append(active, ep)
		}
	}
	return active
}
