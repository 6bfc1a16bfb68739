package store

import (
	"database/sql"
	"fmt"
	"time"
)

// CreateExperiment inserts a new experiment.
func (s *Store) CreateExperiment(e *Experiment) error {
	var endDate sql.NullString
	if e.EndDate != nil {
		endDate = sql.NullString{String: e.EndDate.Format(DateLayout), Valid: true}
	}
	_, err := s.db.Exec(`
		INSERT INTO experiments (id, subject_id, name, start_date, end_date, category)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.ID, e.SubjectID, e.Name, e.StartDate.Format(DateLayout), endDate, e.Category)
	return err
}

// ListExperiments returns a subject's experiments ordered by start date
// descending (most recent first).
func (s *Store) ListExperiments(subjectID string) ([]Experiment, error) {
	rows, err := s.db.Query(`
		SELECT id, subject_id, name, start_date, end_date, category, created_at
		FROM experiments
		WHERE subject_id = ?
		ORDER BY start_date DESC
	`, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var experiments []Experiment
	for rows.Next() {
		e, err := scanExperiment(rows)
		if err != nil {
			return nil, err
		}
		experiments = append(experiments, *e)
	}
	return experiments, rows.Err()
}

// GetExperiment retrieves an experiment by ID.
func (s *Store) GetExperiment(id string) (*Experiment, error) {
	rows, err := s.db.Query(`
		SELECT id, subject_id, name, start_date, end_date, category, created_at
		FROM experiments
		WHERE id = ?
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrExperimentNotFound
	}
	return scanExperiment(rows)
}

// DeleteExperiment removes an experiment by ID.
func (s *Store) DeleteExperiment(id string) error {
	result, err := s.db.Exec(`DELETE FROM experiments WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrExperimentNotFound
	}
	return nil
}

func scanExperiment(rows *sql.Rows) (*Experiment, error) {
	var e Experiment
	var startDate, createdAt string
	var endDate, category sql.NullString

	if err := rows.Scan(&e.ID, &e.SubjectID, &e.Name, &startDate, &endDate, &category, &createdAt); err != nil {
		return nil, err
	}

	var err error
	e.StartDate, err = time.Parse(DateLayout, startDate)
	if err != nil {
		return nil, fmt.Errorf("parsing start_date %q: %w", startDate, err)
	}
	if endDate.Valid {
		end, err := time.Parse(DateLayout, endDate.String)
		if err != nil {
			return nil, fmt.Errorf("parsing end_date %q: %w", endDate.String, err)
		}
		e.EndDate = &end
	}
	e.Category = category.String

	// created_at comes from CURRENT_TIMESTAMP; tolerate either layout.
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, createdAt); err == nil {
			e.CreatedAt = t
			break
		}
	}

	return &e, nil
}
