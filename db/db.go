package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// DefaultName is the file name of the store inside the application data directory.
const DefaultName = "portal.db"

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Repository provides a centralized structure for database operations.
// It owns the connection guard and implements every repository interface
// defined in the domain package.
type Repository struct {
	guard *guard
}

// NewRepository wraps an open connection. The connection must not be used
// directly once handed over.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		guard: newGuard(db),
	}
}

// Open creates the store at path when needed, applies the schema and returns
// a repository ready for use.
func Open(path string) (*Repository, error) {
	db, err := New(path)
	if err != nil {
		return nil, err
	}
	return NewRepository(db), nil
}

// Close terminates the database connection after any in-flight operation finishes.
func (repo *Repository) Close() error {
	err := repo.guard.close()
	if err != nil {
		return fmt.Errorf("closing repo : %w", err)
	}
	return nil
}

// New establishes a connection to a SQLite database file and applies the schema.
// Missing parent directories of `name` are created. The pool is limited to a
// single connection so every statement goes through the same handle.
//
// Applying the schema is idempotent: every statement is guarded by IF NOT EXISTS
// and goose records the version, so reopening an existing store is a no-op.
func New(name string) (*sqlx.DB, error) {
	if dir := filepath.Dir(name); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data dir %s: %w", dir, err)
		}
	}

	db, err := sqlx.Connect("sqlite", fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", name))
	if err != nil {
		return nil, fmt.Errorf("connecting to db : %w", err)
	}

	db.SetMaxOpenConns(1)

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func applySchema(db *sqlx.DB) error {
	migrations, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("loading embedded schema : %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db.DB, migrations)
	if err != nil {
		return fmt.Errorf("preparing schema provider : %w", err)
	}

	if _, err := provider.Up(context.Background()); err != nil {
		return fmt.Errorf("applying schema : %w", err)
	}
	return nil
}
