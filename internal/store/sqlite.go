package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ashureev/campus-concierge/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS students (
		username TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		orientation_done TEXT NOT NULL DEFAULT 'no',
		access_code TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetStudent retrieves a student by username.
func (s *SQLiteStore) GetStudent(ctx context.Context, username string) (*domain.StudentRecord, error) {
	query := `
		SELECT username, email, orientation_done, access_code
		FROM students WHERE username = ?`

	row := s.db.QueryRowContext(ctx, query, username)

	var rec domain.StudentRecord
	err := row.Scan(&rec.Username, &rec.Email, &rec.OrientationDone, &rec.AccessCode)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan student row: %w", err)
	}
	return &rec, nil
}

// UpsertStudent creates or updates a student record.
func (s *SQLiteStore) UpsertStudent(ctx context.Context, rec *domain.StudentRecord) error {
	query := `
	INSERT INTO students (username, email, orientation_done, access_code, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(username) DO UPDATE SET
		email = excluded.email,
		orientation_done = excluded.orientation_done,
		access_code = excluded.access_code,
		updated_at = excluded.updated_at`

	now := time.Now().Unix()
	_, err := s.db.ExecContext(ctx, query,
		rec.Username, rec.Email, rec.OrientationDone, rec.AccessCode, now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert student: %w", err)
	}
	return nil
}

// AllStudents returns every student record.
func (s *SQLiteStore) AllStudents(ctx context.Context) ([]domain.StudentRecord, error) {
	query := `
		SELECT username, email, orientation_done, access_code
		FROM students ORDER BY username`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query students: %w", err)
	}
	defer rows.Close()

	var out []domain.StudentRecord
	for rows.Next() {
		var rec domain.StudentRecord
		if err := rows.Scan(&rec.Username, &rec.Email, &rec.OrientationDone, &rec.AccessCode); err != nil {
			return nil, fmt.Errorf("scan student row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate students: %w", err)
	}
	return out, nil
}

// CountStudents returns the number of stored records.
func (s *SQLiteStore) CountStudents(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM students`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return n, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
