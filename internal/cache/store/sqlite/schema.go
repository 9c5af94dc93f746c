package sqlite

import (
	"database/sql"
	"fmt"
)

const schemaVersion = 1

func initSchema(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("sqlite: get schema version: %w", err)
	}
	if version == schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("sqlite: begin schema transaction: %w", err)
	}
	defer tx.Rollback()

	queries := []string{
		// One row per selected range.
		// - position: order of the range within its file, ascending start line
		// - content: text cached when the range was last readable
		`CREATE TABLE IF NOT EXISTS selections (
            path TEXT NOT NULL,
            position INTEGER NOT NULL,
            start_line INTEGER,
            end_line INTEGER,
            content TEXT NOT NULL DEFAULT '',
            PRIMARY KEY (path, position)
        )`,
		fmt.Sprintf("PRAGMA user_version = %d", schemaVersion),
	}
	for _, q := range queries {
		if _, err := tx.Exec(q); err != nil {
			return fmt.Errorf("sqlite: create schema: %w", err)
		}
	}

	return tx.Commit()
}
