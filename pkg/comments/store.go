// Package comments persists engineering assessments keyed by
// defect-group identity. The store is a single SQLite file; writers are
// not coordinated and the last write wins, which is acceptable for the
// single-engineer usage this tool targets.
package comments

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/model"
)

// DefaultDBPath is where the comment store lives when nothing is
// configured.
const DefaultDBPath = ".rdm/comments.db"

// Store handles comment persistence.
type Store struct {
	db *sql.DB
}

// Open opens or creates the comment store at the given path.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create comment store directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open comment store: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init comment schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS comments (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		group_key  TEXT NOT NULL UNIQUE,
		aircraft   TEXT NOT NULL,
		ata        TEXT NOT NULL,
		text       TEXT NOT NULL DEFAULT '',
		author     TEXT NOT NULL DEFAULT '',
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_comments_aircraft ON comments(aircraft);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Lookup returns the comment for a defect-group key, if one exists.
func (s *Store) Lookup(key string) (*model.EngineeringComment, bool, error) {
	var c model.EngineeringComment
	err := s.db.QueryRow(`
		SELECT id, group_key, aircraft, ata, text, author, updated_at
		FROM comments
		WHERE group_key = ?
	`, key).Scan(&c.ID, &c.GroupKey, &c.Aircraft, &c.ATA, &c.Text, &c.Author, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("lookup comment %s: %w", key, err)
	}
	return &c, true, nil
}

// Upsert writes the comment for a defect-group key, replacing any
// previous text. Last write wins.
func (s *Store) Upsert(key, text, author string) (*model.EngineeringComment, error) {
	aircraft, ata := model.SplitGroupKey(key)
	now := time.Now().UTC()

	_, err := s.db.Exec(`
		INSERT INTO comments (group_key, aircraft, ata, text, author, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(group_key) DO UPDATE SET
			text = excluded.text,
			author = excluded.author,
			updated_at = excluded.updated_at
	`, key, aircraft, ata, text, author, now)
	if err != nil {
		return nil, fmt.Errorf("save comment %s: %w", key, err)
	}

	c, _, err := s.Lookup(key)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes the comment for a key. Deleting a missing key is not an
// error.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM comments WHERE group_key = ?`, key); err != nil {
		return fmt.Errorf("delete comment %s: %w", key, err)
	}
	return nil
}

// All returns every stored comment keyed by group identity, for merging
// into exports.
func (s *Store) All() (map[string]model.EngineeringComment, error) {
	rows, err := s.db.Query(`
		SELECT id, group_key, aircraft, ata, text, author, updated_at
		FROM comments
		ORDER BY aircraft, ata
	`)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	out := make(map[string]model.EngineeringComment)
	for rows.Next() {
		var c model.EngineeringComment
		if err := rows.Scan(&c.ID, &c.GroupKey, &c.Aircraft, &c.ATA, &c.Text, &c.Author, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan comment row: %w", err)
		}
		out[c.GroupKey] = c
	}
	return out, rows.Err()
}
