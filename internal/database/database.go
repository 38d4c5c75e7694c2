package database

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Config holds database configuration.
type Config struct {
	DatabasePath string
}

// DB wraps the SQLite connection and exposes per-entity repositories.
type DB struct {
	conn *sql.DB

	Users       *UserRepository
	Invitations *InvitationRepository
	Guests      *GuestRepository
	Templates   *TemplateRepository
	PageViews   *PageViewRepository
}

// NewDB opens (creating if necessary) the SQLite database at the configured
// path, runs migrations, and wires up the repositories. The database uses WAL
// journaling and enforced foreign keys so invitation deletes cascade to
// content, guests, and page views.
func NewDB(cfg Config) (*DB, error) {
	if cfg.DatabasePath == "" {
		return nil, fmt.Errorf("database path not provided")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	dsn := cfg.DatabasePath + "?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000"
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := Migrate(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	db.Users = NewUserRepository(conn)
	db.Invitations = NewInvitationRepository(conn)
	db.Guests = NewGuestRepository(conn)
	db.Templates = NewTemplateRepository(conn)
	db.PageViews = NewPageViewRepository(conn)

	return db, nil
}

// Migrate applies all pending goose migrations to the given connection.
func Migrate(conn *sql.DB) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(conn, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Reset drops every application table plus the migration bookkeeping table
// and reapplies all migrations from scratch, reseeding the templates. All
// data is destroyed.
func Reset(conn *sql.DB) error {
	tables := []string{
		"page_views",
		"guests",
		"invitation_content",
		"invitations",
		"templates",
		"users",
		"goose_db_version",
	}
	for _, table := range tables {
		if _, err := conn.Exec("DROP TABLE IF EXISTS " + table); err != nil {
			return fmt.Errorf("drop table %s: %w", table, err)
		}
	}
	return Migrate(conn)
}

// Connection exposes the underlying *sql.DB.
func (db *DB) Connection() *sql.DB {
	return db.conn
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
