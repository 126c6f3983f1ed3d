// Package kvstore implements the local durable key-value store that backs
// conversation persistence.
package kvstore

import (
	"database/sql"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/duskren/convo/internal/file"
)

// Store implements a SQLite-backed key-value store.
type Store struct {
	db *sql.DB
}

// New store.
func New(dbPath string) (*Store, error) {
	if err := file.EnsureParentDirectory(dbPath); err != nil {
		return nil, errors.Wrap(err, "creating store directory")
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}

	// Create kv table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	if err != nil {
		return nil, errors.Wrap(err, "creating kv table")
	}

	return &Store{
		db: db,
	}, nil
}

// Put writes a value under the given key.
func (s *Store) Put(key, value string) error {
	// Use REPLACE INTO to handle both insert and update cases
	_, err := s.db.Exec(`
		REPLACE INTO kv (key, value)
		VALUES (?, ?)
	`, key, value)
	if err != nil {
		return errors.Wrap(err, "writing value to database")
	}
	return nil
}

// Get reads the value stored under the given key. The boolean reports
// whether the key was present.
func (s *Store) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`
		SELECT value
		FROM kv
		WHERE key = ?
	`, key).Scan(&value)

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "querying value")
	}

	return value, true, nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return errors.Wrap(err, "deleting key")
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
