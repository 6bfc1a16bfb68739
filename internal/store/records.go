package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// stepMergeBatchSize bounds how many dates a single step-merge
// transaction touches.
const stepMergeBatchSize = 20

// GetDailyRecords returns a subject's daily records ordered by date
// ascending. A nil range fetches all time; otherwise only days within
// the inclusive range are returned.
func (s *Store) GetDailyRecords(subjectID string, rng *DateRange) ([]DailyRecord, error) {
	query := `
		SELECT subject_id, date, hrv, resting_heart_rate, exertion_score,
			symptom_score, composite_score, step_count, custom_metrics
		FROM health_metrics
		WHERE subject_id = ?`
	args := []interface{}{subjectID}

	if rng != nil {
		query += ` AND date >= ? AND date <= ?`
		args = append(args, rng.Start.Format(DateLayout), rng.End.Format(DateLayout))
	}
	query += ` ORDER BY date ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []DailyRecord
	for rows.Next() {
		r, err := scanDailyRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}
	return records, rows.Err()
}

// UpsertDailyRecords writes records keyed on (subject_id, date). An
// upsert fully replaces the prior row's fields with the new record's
// fields; callers importing partial data must read-merge-write
// themselves (see MergeStepCounts).
func (s *Store) UpsertDailyRecords(subjectID string, records []DailyRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO health_metrics (
			subject_id, date, hrv, resting_heart_rate, exertion_score,
			symptom_score, composite_score, step_count, custom_metrics
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (subject_id, date) DO UPDATE SET
			hrv = excluded.hrv,
			resting_heart_rate = excluded.resting_heart_rate,
			exertion_score = excluded.exertion_score,
			symptom_score = excluded.symptom_score,
			composite_score = excluded.composite_score,
			step_count = excluded.step_count,
			custom_metrics = excluded.custom_metrics,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		custom, err := customMetricsJSON(r.CustomMetrics)
		if err != nil {
			return fmt.Errorf("encoding custom metrics for %s: %w", r.Date.Format(DateLayout), err)
		}
		_, err = stmt.Exec(
			subjectID,
			r.Date.Format(DateLayout),
			ptrToNullFloat64(r.HRV),
			ptrIntToNullInt64(r.RestingHeartRate),
			ptrToNullFloat64(r.ExertionScore),
			ptrToNullFloat64(r.SymptomScore),
			ptrToNullFloat64(r.CompositeScore),
			ptrIntToNullInt64(r.StepCount),
			custom,
		)
		if err != nil {
			return fmt.Errorf("upserting record for %s: %w", r.Date.Format(DateLayout), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// MergeStepCounts writes a step count per day, but only for days that
// already have a record; steps alone never create a new day. Dates are
// processed in chunks to bound transaction size. Returns the number of
// days actually updated.
func (s *Store) MergeStepCounts(subjectID string, steps map[string]int) (int, error) {
	dates := make([]string, 0, len(steps))
	for d := range steps {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	matched := 0
	for i := 0; i < len(dates); i += stepMergeBatchSize {
		end := i + stepMergeBatchSize
		if end > len(dates) {
			end = len(dates)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return matched, fmt.Errorf("beginning transaction: %w", err)
		}

		stmt, err := tx.Prepare(`
			UPDATE health_metrics
			SET step_count = ?, updated_at = CURRENT_TIMESTAMP
			WHERE subject_id = ? AND date = ?
		`)
		if err != nil {
			tx.Rollback()
			return matched, fmt.Errorf("preparing statement: %w", err)
		}

		for _, date := range dates[i:end] {
			result, err := stmt.Exec(steps[date], subjectID, date)
			if err != nil {
				stmt.Close()
				tx.Rollback()
				return matched, fmt.Errorf("merging steps for %s: %w", date, err)
			}
			n, err := result.RowsAffected()
			if err != nil {
				stmt.Close()
				tx.Rollback()
				return matched, err
			}
			matched += int(n)
		}

		stmt.Close()
		if err := tx.Commit(); err != nil {
			return matched, fmt.Errorf("committing transaction: %w", err)
		}
	}

	return matched, nil
}

// CountDailyRecords returns the total number of days stored for a subject.
func (s *Store) CountDailyRecords(subjectID string) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM health_metrics WHERE subject_id = ?`, subjectID,
	).Scan(&count)
	return count, err
}

func customMetricsJSON(m map[string]float64) (sql.NullString, error) {
	if len(m) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func scanDailyRecord(rows *sql.Rows) (*DailyRecord, error) {
	var r DailyRecord
	var date string
	var hrv, exertion, symptom, composite sql.NullFloat64
	var rhr, steps sql.NullInt64
	var custom sql.NullString

	err := rows.Scan(
		&r.SubjectID, &date, &hrv, &rhr, &exertion,
		&symptom, &composite, &steps, &custom,
	)
	if err != nil {
		return nil, err
	}

	r.Date, err = time.Parse(DateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("parsing date %q: %w", date, err)
	}

	r.HRV = nullFloat64ToPtr(hrv)
	r.RestingHeartRate = nullInt64ToIntPtr(rhr)
	r.ExertionScore = nullFloat64ToPtr(exertion)
	r.SymptomScore = nullFloat64ToPtr(symptom)
	r.CompositeScore = nullFloat64ToPtr(composite)
	r.StepCount = nullInt64ToIntPtr(steps)

	if custom.Valid && custom.String != "" {
		if err := json.Unmarshal([]byte(custom.String), &r.CustomMetrics); err != nil {
			return nil, fmt.Errorf("decoding custom metrics for %s: %w", date, err)
		}
	}

	return &r, nil
}
