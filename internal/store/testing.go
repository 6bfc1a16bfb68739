package store

import "database/sql"

// NewTestStore wraps an existing database handle in a Store, running
// migrations on it. This is only intended for use in tests.
func NewTestStore(sqlDB *sql.DB) (*Store, error) {
	if err := migrate(sqlDB); err != nil {
		return nil, err
	}
	return &Store{db: sqlDB}, nil
}
