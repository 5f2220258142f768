// ABOUTME: SQL storage implementation for point collections
// ABOUTME: Shares one kv table between the SQLite and Postgres drivers

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/harper/pointedit/internal/models"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const kvSchema = `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
`

// SQLStore implements Store with a single-row kv table.
type SQLStore struct {
	db *sqlx.DB
}

// Compile-time check that SQLStore implements Store.
var _ Store = (*SQLStore)(nil)

// NewSQLiteStore opens a SQLite database at path.
// Creates the directory and database file if they don't exist.
func NewSQLiteStore(ctx context.Context, path string) (*SQLStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil { //nolint:gosec // 0750 is appropriate for user data directory
		return nil, fmt.Errorf("create directory: %w", err)
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)

	return newSQLStore(ctx, db)
}

// NewPostgresStore connects to a Postgres database using the pgx driver.
func NewPostgresStore(ctx context.Context, databaseURL string) (*SQLStore, error) {
	if databaseURL == "" {
		return nil, errors.New("postgres backend requires a database url")
	}

	db, err := sqlx.ConnectContext(ctx, "pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	return newSQLStore(ctx, db)
}

func newSQLStore(ctx context.Context, db *sqlx.DB) (*SQLStore, error) {
	if _, err := db.ExecContext(ctx, kvSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLStore{db: db}, nil
}

// Load reads the collection.
func (s *SQLStore) Load(ctx context.Context) (models.Collection, error) {
	var value string
	err := s.db.GetContext(ctx, &value, s.db.Rebind("SELECT value FROM kv WHERE key = ?"), Key)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Collection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query points: %w", err)
	}
	return Decode([]byte(value))
}

// Save replaces the stored collection.
func (s *SQLStore) Save(ctx context.Context, points models.Collection) error {
	data, err := Encode(points)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, s.db.Rebind(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`),
		Key, string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert points: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
