package store

import (
	"errors"
	"testing"
)

func TestCreateAndGetExperiment(t *testing.T) {
	s := setupTestStore(t)

	end := day(t, "2024-04-15")
	exp := &Experiment{
		ID:        "exp-1",
		SubjectID: "subj-1",
		Name:      "LDN trial",
		StartDate: day(t, "2024-03-15"),
		EndDate:   &end,
		Category:  "medication",
	}
	if err := s.CreateExperiment(exp); err != nil {
		t.Fatalf("CreateExperiment failed: %v", err)
	}

	got, err := s.GetExperiment("exp-1")
	if err != nil {
		t.Fatalf("GetExperiment failed: %v", err)
	}
	if got.Name != "LDN trial" || got.Category != "medication" {
		t.Errorf("experiment not round-tripped: %+v", got)
	}
	if got.StartDate.Format(DateLayout) != "2024-03-15" {
		t.Errorf("start date wrong: %s", got.StartDate.Format(DateLayout))
	}
	if got.EndDate == nil || got.EndDate.Format(DateLayout) != "2024-04-15" {
		t.Errorf("end date wrong: %v", got.EndDate)
	}
}

func TestGetExperimentNotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetExperiment("nope")
	if !errors.Is(err, ErrExperimentNotFound) {
		t.Errorf("expected ErrExperimentNotFound, got %v", err)
	}
}

func TestListExperimentsOrdering(t *testing.T) {
	s := setupTestStore(t)

	for _, e := range []Experiment{
		{ID: "a", SubjectID: "subj-1", Name: "older", StartDate: day(t, "2024-01-01")},
		{ID: "b", SubjectID: "subj-1", Name: "newer", StartDate: day(t, "2024-06-01")},
		{ID: "c", SubjectID: "subj-2", Name: "other subject", StartDate: day(t, "2024-07-01")},
	} {
		e := e
		if err := s.CreateExperiment(&e); err != nil {
			t.Fatalf("CreateExperiment failed: %v", err)
		}
	}

	got, err := s.ListExperiments("subj-1")
	if err != nil {
		t.Fatalf("ListExperiments failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 experiments, got %d", len(got))
	}
	if got[0].Name != "newer" || got[1].Name != "older" {
		t.Errorf("wrong ordering: %s, %s", got[0].Name, got[1].Name)
	}
}

func TestDeleteExperiment(t *testing.T) {
	s := setupTestStore(t)

	exp := &Experiment{ID: "exp-1", SubjectID: "subj-1", Name: "trial", StartDate: day(t, "2024-03-01")}
	if err := s.CreateExperiment(exp); err != nil {
		t.Fatalf("CreateExperiment failed: %v", err)
	}

	if err := s.DeleteExperiment("exp-1"); err != nil {
		t.Fatalf("DeleteExperiment failed: %v", err)
	}
	if err := s.DeleteExperiment("exp-1"); !errors.Is(err, ErrExperimentNotFound) {
		t.Errorf("expected ErrExperimentNotFound on second delete, got %v", err)
	}
}
