package service

import (
	"time"

	"trackme/internal/analysis"
	"trackme/internal/store"
)

// ExperimentWithResult pairs an experiment with its analysis. Result is
// nil when either comparison window has too few scored days.
type ExperimentWithResult struct {
	Experiment store.Experiment
	Result     *analysis.ExperimentResult
}

// GetExperimentResults analyzes every experiment of the subject against
// their daily history.
func (q *QueryService) GetExperimentResults(now time.Time) ([]ExperimentWithResult, error) {
	experiments, err := q.store.ListExperiments(q.subjectID)
	if err != nil {
		return nil, err
	}
	if len(experiments) == 0 {
		return nil, nil
	}

	records, err := q.store.GetDailyRecords(q.subjectID, nil)
	if err != nil {
		return nil, err
	}

	results := make([]ExperimentWithResult, 0, len(experiments))
	for _, exp := range experiments {
		results = append(results, ExperimentWithResult{
			Experiment: exp,
			Result:     analysis.AnalyzeExperiment(exp, records, now),
		})
	}
	return results, nil
}

// GetExperimentResult analyzes a single experiment by ID.
func (q *QueryService) GetExperimentResult(id string, now time.Time) (*ExperimentWithResult, error) {
	exp, err := q.store.GetExperiment(id)
	if err != nil {
		return nil, err
	}

	records, err := q.store.GetDailyRecords(q.subjectID, nil)
	if err != nil {
		return nil, err
	}

	return &ExperimentWithResult{
		Experiment: *exp,
		Result:     analysis.AnalyzeExperiment(*exp, records, now),
	}, nil
}
