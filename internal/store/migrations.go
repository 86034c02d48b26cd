package store

// runMigrations creates the schema. Every statement is idempotent.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Stored phrases, matched after the built-in table in position order.
		// signs is a JSON array of sign names.
		`CREATE TABLE IF NOT EXISTS phrases (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			signs TEXT NOT NULL,
			position INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_phrases_position ON phrases(position)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}
	return nil
}
