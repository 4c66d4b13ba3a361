// Package session persists users and their login sessions in SQLite. The
// ledger data itself lives in each user's spreadsheet; this store only keeps
// identity bookkeeping: who the user is, which document is theirs, and the
// refresh token needed to reach it.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// ErrNoSession is returned when a session token is unknown or expired.
var ErrNoSession = errors.New("session not found")

// User is one registered user.
type User struct {
	ID            string
	GoogleID      string
	Email         string
	Name          string
	SpreadsheetID string
	RefreshToken  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Session is one login session.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Store wraps the SQLite connection.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id             TEXT PRIMARY KEY,
	google_id      TEXT NOT NULL UNIQUE,
	email          TEXT NOT NULL,
	name           TEXT NOT NULL DEFAULT '',
	spreadsheet_id TEXT NOT NULL DEFAULT '',
	refresh_token  TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMP NOT NULL,
	updated_at     TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
	token      TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	expires_at TIMESTAMP NOT NULL,
	created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`

// Open opens the SQLite database at the given path, enabling WAL mode and
// foreign keys, and initializes the schema.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	connStr := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL", dbPath)
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

// OpenInMemory opens a throwaway in-memory database (tests).
func OpenInMemory() (*Store, error) {
	db, err := sql.Open("sqlite3", "file::memory:?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// UpsertUser inserts the user keyed by Google id, or refreshes the mutable
// fields of the existing row, and returns the stored user.
func (s *Store) UpsertUser(ctx context.Context, u *User) (*User, error) {
	now := time.Now().UTC()

	existing, err := s.userByGoogleID(ctx, u.GoogleID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		u.ID = uuid.NewString()
		u.CreatedAt = now
		u.UpdatedAt = now
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO users (id, google_id, email, name, spreadsheet_id, refresh_token, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			u.ID, u.GoogleID, u.Email, u.Name, u.SpreadsheetID, u.RefreshToken, u.CreatedAt, u.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("inserting user: %w", err)
		}
		return u, nil
	}

	// Keep the stored refresh token when the new login did not produce one.
	refreshToken := u.RefreshToken
	if refreshToken == "" {
		refreshToken = existing.RefreshToken
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE users SET email = ?, name = ?, refresh_token = ?, updated_at = ?
		WHERE id = ?`,
		u.Email, u.Name, refreshToken, now, existing.ID)
	if err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}

	existing.Email = u.Email
	existing.Name = u.Name
	existing.RefreshToken = refreshToken
	existing.UpdatedAt = now
	return existing, nil
}

// SetSpreadsheetID stores the id of the user's ledger document.
func (s *Store) SetSpreadsheetID(ctx context.Context, userID, spreadsheetID string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET spreadsheet_id = ?, updated_at = ? WHERE id = ?`,
		spreadsheetID, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("setting spreadsheet id: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("user %s not found", userID)
	}
	return nil
}

// CreateSession opens a new session for the user.
func (s *Store) CreateSession(ctx context.Context, userID string, ttl time.Duration) (*Session, error) {
	sess := &Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().UTC().Add(ttl),
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (token, user_id, expires_at, created_at)
		VALUES (?, ?, ?, ?)`,
		sess.Token, sess.UserID, sess.ExpiresAt, sess.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting session: %w", err)
	}
	return sess, nil
}

// UserBySession resolves a session token to its user. Expired and unknown
// tokens both return ErrNoSession.
func (s *Store) UserBySession(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrNoSession
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.google_id, u.email, u.name, u.spreadsheet_id, u.refresh_token, u.created_at, u.updated_at
		FROM sessions s JOIN users u ON u.id = s.user_id
		WHERE s.token = ? AND s.expires_at > ?`,
		token, time.Now().UTC())

	var u User
	err := row.Scan(&u.ID, &u.GoogleID, &u.Email, &u.Name, &u.SpreadsheetID, &u.RefreshToken, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	return &u, nil
}

// DeleteSession removes one session.
func (s *Store) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes every expired session and reports how many
// were dropped.
func (s *Store) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("deleting expired sessions: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) userByGoogleID(ctx context.Context, googleID string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, google_id, email, name, spreadsheet_id, refresh_token, created_at, updated_at
		FROM users WHERE google_id = ?`, googleID)

	var u User
	err := row.Scan(&u.ID, &u.GoogleID, &u.Email, &u.Name, &u.SpreadsheetID, &u.RefreshToken, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
