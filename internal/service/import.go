package service

import (
	"errors"
	"fmt"
	"io"

	"trackme/internal/importer"
	"trackme/internal/store"
)

// ErrNoValidRecords is returned when a CSV parses but yields nothing
// usable (wrong columns, all rows malformed, or all days empty).
var ErrNoValidRecords = errors.New("no valid records found in file")

// ImportService writes imported files into the store
type ImportService struct {
	store     *store.Store
	subjectID string
}

// NewImportService creates a new import service
func NewImportService(st *store.Store, subjectID string) *ImportService {
	return &ImportService{store: st, subjectID: subjectID}
}

// CSVImportResult summarizes a long-format CSV import.
type CSVImportResult struct {
	RecordsImported int
	FirstDate       string
	LastDate        string
}

// ImportCSV parses a long-format CSV, pivots it into daily records, and
// upserts them. Re-importing a day fully replaces it.
func (s *ImportService) ImportCSV(r io.Reader) (*CSVImportResult, error) {
	rows, err := importer.ParseLongCSV(r)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}

	records := importer.Normalize(rows)
	if len(records) == 0 {
		return nil, ErrNoValidRecords
	}

	if err := s.store.UpsertDailyRecords(s.subjectID, records); err != nil {
		return nil, fmt.Errorf("storing records: %w", err)
	}

	return &CSVImportResult{
		RecordsImported: len(records),
		FirstDate:       records[0].Date.Format(store.DateLayout),
		LastDate:        records[len(records)-1].Date.Format(store.DateLayout),
	}, nil
}

// StepImportResult summarizes an Apple Health steps import.
type StepImportResult struct {
	DaysParsed  int
	DaysMatched int
}

// ImportHealthExport reads step counts out of an Apple Health
// export.xml and merges them into existing days. Days with no record
// yet are skipped; steps alone never create a day.
func (s *ImportService) ImportHealthExport(r io.Reader) (*StepImportResult, error) {
	steps, err := importer.ParseHealthExport(r)
	if err != nil {
		return nil, fmt.Errorf("parsing health export: %w", err)
	}
	if len(steps) == 0 {
		return &StepImportResult{}, nil
	}

	matched, err := s.store.MergeStepCounts(s.subjectID, steps)
	if err != nil {
		return nil, fmt.Errorf("merging step counts: %w", err)
	}

	return &StepImportResult{
		DaysParsed:  len(steps),
		DaysMatched: matched,
	}, nil
}
