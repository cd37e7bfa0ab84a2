package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bibliogo/apiserver/types"
	sqlite3 "github.com/mattn/go-sqlite3"
)

// RevocationStore is the durable set of invalidated token identifiers.
// It is checked by the authentication middleware before any manager
// method runs; it never issues or parses tokens itself.
type RevocationStore struct {
	db *sql.DB
}

// NewRevocationStore opens (or creates) the SQLite database at dbPath
// and ensures the token table exists.
func NewRevocationStore(dbPath string) (*RevocationStore, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS token (
		jti TEXT PRIMARY KEY,
		revoked_at DATETIME NOT NULL
	);`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create token table: %w", err)
	}

	return &RevocationStore{db: db}, nil
}

// Close closes the underlying database.
func (s *RevocationStore) Close() error {
	return s.db.Close()
}

// IsRevoked reports whether the token identifier has been revoked.
func (s *RevocationStore) IsRevoked(jti string) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM token WHERE jti = ?;`, jti).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query token %s: %w", jti, err)
	}
	return true, nil
}

// Revoke inserts the token identifier with the current UTC timestamp.
// A duplicate identifier is a primary-key collision and fails with
// ErrAlreadyRevoked, signaling a duplicate logout attempt.
func (s *RevocationStore) Revoke(jti string) error {
	_, err := s.db.Exec(`INSERT INTO token (jti, revoked_at) VALUES (?, ?);`,
		jti, time.Now().UTC())
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("token %s: %w", jti, ErrAlreadyRevoked)
		}
		return fmt.Errorf("revoke token %s: %w", jti, err)
	}
	return nil
}

// Find returns the revocation record for a token identifier.
func (s *RevocationStore) Find(jti string) (types.RevokedToken, error) {
	var t types.RevokedToken
	err := s.db.QueryRow(`SELECT jti, revoked_at FROM token WHERE jti = ?;`, jti).
		Scan(&t.JTI, &t.RevokedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return types.RevokedToken{}, fmt.Errorf("token %s: %w", jti, ErrNotFound)
	}
	if err != nil {
		return types.RevokedToken{}, fmt.Errorf("query token %s: %w", jti, err)
	}
	return t, nil
}
