package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/goccy/go-json"
	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required
)

// ErrDuplicate is returned by optimistic inserts that lose a race with a
// concurrent identical insert. Callers recover by re-querying and
// updating; this is an expected condition, not a failure.
var ErrDuplicate = errors.New("duplicate row")

// Store wraps the shared relational database handle. It is the single
// source of truth: one pool, constructed at process start and passed by
// reference to every repository.
type Store struct {
	db *sql.DB
	d  dialect
}

// Open opens the backing store for the given driver ("sqlite" or
// "mysql") and creates the schema if needed.
func Open(driver, dsn string) (*Store, error) {
	var (
		db  *sql.DB
		d   dialect
		err error
	)

	switch driver {
	case "mysql":
		db, err = sql.Open("mysql", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL: %w", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
		d = mysqlDialect{}
	default: // sqlite
		if dir := filepath.Dir(dsn); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create store dir: %w", err)
			}
		}
		full := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dsn)
		db, err = sql.Open("sqlite", full)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite: %w", err)
		}
		db.SetMaxOpenConns(1) // SQLite only supports 1 writer
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		d = sqliteDialect{}
	}

	s := &Store{db: db, d: d}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("[Store] Initialized %s store", d.name())
	return s, nil
}

func (s *Store) createTables() error {
	for _, stmt := range s.d.schema() {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// DB exposes the underlying handle for collaborators that manage their
// own tables (the flat proxy cache).
func (s *Store) DB() *sql.DB { return s.db }

// Driver returns the driver name the store was opened with.
func (s *Store) Driver() string { return s.d.name() }

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// Close closes the database handle.
func (s *Store) Close() error { return s.db.Close() }

// dialect abstracts the SQL differences between the supported backends:
// schema DDL and the upsert clause.
type dialect interface {
	name() string
	schema() []string
	// upsert builds an idempotent insert-or-update statement keyed on
	// conflictCol. Placeholders are `?` for both backends.
	upsert(table, conflictCol string, insertCols, updateCols []string) string
}

type sqliteDialect struct{}

func (sqliteDialect) name() string { return "sqlite" }

func (sqliteDialect) upsert(table, conflictCol string, insertCols, updateCols []string) string {
	sets := make([]string, len(updateCols))
	for i, c := range updateCols {
		sets[i] = c + " = excluded." + c
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(%s) DO UPDATE SET %s",
		table,
		strings.Join(insertCols, ", "),
		placeholders(len(insertCols)),
		conflictCol,
		strings.Join(sets, ", "))
}

type mysqlDialect struct{}

func (mysqlDialect) name() string { return "mysql" }

func (mysqlDialect) upsert(table, conflictCol string, insertCols, updateCols []string) string {
	sets := make([]string, len(updateCols))
	for i, c := range updateCols {
		sets[i] = c + " = VALUES(" + c + ")"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON DUPLICATE KEY UPDATE %s",
		table,
		strings.Join(insertCols, ", "),
		placeholders(len(insertCols)),
		strings.Join(sets, ", "))
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// isUniqueViolation reports whether err is a primary-key/unique-index
// conflict on either backend.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// encodeIDs serializes an ID slice for TEXT column storage.
func encodeIDs[T any](ids []T) (string, error) {
	if ids == nil {
		ids = []T{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("failed to encode id list: %w", err)
	}
	return string(b), nil
}

// decodeIDs deserializes an ID slice from TEXT column storage.
func decodeIDs[T any](raw string) ([]T, error) {
	var ids []T
	if raw == "" {
		return ids, nil
	}
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("failed to decode id list: %w", err)
	}
	return ids, nil
}

// inPlaceholders expands an IN (...) clause for len(args) values, with a
// guard value when the slice is empty so the query stays valid.
func inPlaceholders(n int) string {
	if n == 0 {
		return "?"
	}
	return placeholders(n)
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func intPtr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	i := v.Int64
	return &i
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
