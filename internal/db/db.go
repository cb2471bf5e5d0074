package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"github.com/dori/promanager/internal/agenda"
)

//go:embed migrations/*.sql
var migrations embed.FS

// timeLayout is fixed-width so stored timestamps compare lexically in SQL
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// DB is the local backend: it owns persistence, id generation and the
// today/upcoming/stats queries.
type DB struct {
	*sql.DB
	log    zerolog.Logger
	clock  agenda.Clock
	policy agenda.Policy
}

// Option configures a DB
type Option func(*DB)

// WithLogger sets the logger used for store and migration output
func WithLogger(log zerolog.Logger) Option {
	return func(db *DB) { db.log = log }
}

// WithClock overrides the clock used for timestamps and date queries
func WithClock(clock agenda.Clock) Option {
	return func(db *DB) { db.clock = clock }
}

// WithPolicy sets the today/upcoming policy
func WithPolicy(p agenda.Policy) Option {
	return func(db *DB) { db.policy = p }
}

// New wraps an existing connection without running migrations
func New(sqlDB *sql.DB, opts ...Option) *DB {
	db := &DB{
		DB:     sqlDB,
		log:    zerolog.Nop(),
		clock:  agenda.SystemClock,
		policy: agenda.DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Open opens a database connection and runs migrations
func Open(dbPath string, opts ...Option) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON", dbPath)
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := New(sqlDB, opts...)

	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	db.log.Debug().Str("path", dbPath).Msg("database opened")
	return db, nil
}

// migrate runs database migrations using embedded SQL files
func (db *DB) migrate() error {
	goose.SetLogger(gooseLogger{log: db.log})
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	if err := goose.Up(db.DB, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// Transaction executes fn within a transaction
func (db *DB) Transaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (db *DB) now() time.Time {
	return db.clock()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func parseTimePtr(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := parseTime(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// gooseLogger routes migration output into zerolog instead of stdout,
// which belongs to the TUI
type gooseLogger struct {
	log zerolog.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Debug().Str("component", "goose").Msgf(strings.TrimSpace(format), v...)
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Fatal().Str("component", "goose").Msgf(strings.TrimSpace(format), v...)
}
