package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Daily health records, one row per (subject, day). custom_metrics
		// is a JSON object of user-defined metric name -> numeric value.
		`CREATE TABLE IF NOT EXISTS health_metrics (
			subject_id TEXT NOT NULL,
			date TEXT NOT NULL,
			hrv REAL,
			resting_heart_rate INTEGER,
			exertion_score REAL,
			symptom_score REAL,
			composite_score REAL,
			step_count INTEGER,
			custom_metrics TEXT,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (subject_id, date)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_health_metrics_date ON health_metrics(date)`,

		// Experiments (interventions the subject is trialing)
		`CREATE TABLE IF NOT EXISTS experiments (
			id TEXT PRIMARY KEY,
			subject_id TEXT NOT NULL,
			name TEXT NOT NULL,
			start_date TEXT NOT NULL,
			end_date TEXT,
			category TEXT,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_experiments_subject ON experiments(subject_id)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
