// Package sqlite is a store.Backend on top of an SQLite database.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"copyselect/internal/cache/store"
	"copyselect/internal/ranges"

	_ "github.com/mattn/go-sqlite3"
)

// Store implements store.Backend. Every Save rewrites the selections table
// inside a single transaction.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

var _ store.Backend = (*Store)(nil)

// New opens (or creates) the database at dbPath, enables WAL mode and
// brings the schema up to date.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", dbPath, err)
	}
	// A single connection keeps the write-through saves strictly ordered.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: enable WAL: %w", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// withTx runs fn inside a transaction.
func (s *Store) withTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *Store) Load() (store.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil, store.ErrClosed
	}

	rows, err := s.db.Query(`
        SELECT path, position, start_line, end_line, content
        FROM selections
        ORDER BY path, position
    `)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query selections: %w", err)
	}
	defer rows.Close()

	snap := store.Snapshot{}
	var malformed store.MalformedError
	for rows.Next() {
		var (
			path       string
			position   int
			start, end sql.NullInt64
			content    sql.NullString
		)
		if err := rows.Scan(&path, &position, &start, &end, &content); err != nil {
			malformed.Add(path, position, err)
			continue
		}
		if !start.Valid || !end.Valid {
			malformed.Add(path, position, errors.New("null line bound"))
			continue
		}
		snap[path] = append(snap[path], ranges.LineRange{
			StartLine: int(start.Int64),
			EndLine:   int(end.Int64),
			Content:   content.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: read selections: %w", err)
	}

	return snap, malformed.Err()
}

func (s *Store) Save(snap store.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return store.ErrClosed
	}

	snap = snap.Clone()
	return s.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM selections`); err != nil {
			return fmt.Errorf("sqlite: clear selections: %w", err)
		}
		stmt, err := tx.Prepare(`
            INSERT INTO selections (path, position, start_line, end_line, content)
            VALUES (?, ?, ?, ?, ?)
        `)
		if err != nil {
			return fmt.Errorf("sqlite: prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, path := range snap.Paths() {
			for i, r := range snap[path] {
				if _, err := stmt.Exec(path, i, r.StartLine, r.EndLine, r.Content); err != nil {
					return fmt.Errorf("sqlite: insert %s[%d]: %w", path, i, err)
				}
			}
		}
		return nil
	})
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
