package storage

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure Go SQLite driver

	"github.com/felixgeelhaar/scribe/internal/errors"
	"github.com/felixgeelhaar/scribe/internal/log"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT NOT NULL PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);`

// chmod is replaced in tests
var chmod = os.Chmod

// SQLiteStore keeps values in a single-table SQLite database
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (and migrates) the database at path
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorageBackend, "failed to create storage directory", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorageBackend, "failed to open session database", err)
	}
	// one writer keeps the upserts serialized
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.ErrCodeStorageBackend, "failed to open session database", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.ErrCodeStorageBackend, "failed to migrate session database", err)
	}
	if err := chmod(path, 0o600); err != nil {
		log.DefaultLogger().Warn("session database may be readable by other users",
			"path", path, "error", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// Path returns the database file
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.NewStorageReadError(s.path, err)
	}
	return value, true, nil
}

func (s *SQLiteStore) Put(values map[string]string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.NewStorageWriteError(s.path, err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return errors.NewStorageWriteError(s.path, err)
	}
	defer stmt.Close()

	for k, v := range values {
		if _, err := stmt.Exec(k, v); err != nil {
			return errors.NewStorageWriteError(s.path, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.NewStorageWriteError(s.path, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(keys ...string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.NewStorageWriteError(s.path, err)
	}
	defer tx.Rollback()

	for _, k := range keys {
		if _, err := tx.Exec(`DELETE FROM kv WHERE key = ?`, k); err != nil {
			return errors.NewStorageWriteError(s.path, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.NewStorageWriteError(s.path, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
