package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"

	// PostgreSQL driver, selected by postgres:// DSNs.
	_ "github.com/lib/pq"
	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store holds the database handles and provides access to repositories.
type Store struct {
	db      *sqlx.DB
	drv     *entsql.Driver
	dialect string
	seq     *sequenceCounter
}

// Open creates a new Store. DSNs starting with postgres:// or
// postgresql:// connect to PostgreSQL; anything else is treated as a
// SQLite file path or URI, with recommended pragmas applied. The schema is
// migrated on open.
func Open(dsn string) (*Store, error) {
	driverName, dialectName := "sqlite", dialect.SQLite
	if isPostgres(dsn) {
		driverName, dialectName = "postgres", dialect.Postgres
	}

	if dialectName == dialect.SQLite {
		dsn = withPragmas(dsn)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}

	drv := entsql.OpenDB(dialectName, db)
	if err := migrate(context.Background(), drv); err != nil {
		drv.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	s := &Store{
		db:      sqlx.NewDb(db, driverName),
		drv:     drv,
		dialect: dialectName,
	}
	s.seq, err = newSequenceCounter(s)
	if err != nil {
		drv.Close()
		return nil, err
	}
	return s, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db.DB
}

// Dialect returns the ent dialect name in use.
func (s *Store) Dialect() string {
	return s.dialect
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// StudentRepo returns a StudentRepo backed by this store.
func (s *Store) StudentRepo() StudentRepo {
	return &studentRepo{s: s}
}

// InstructorRepo returns an InstructorRepo backed by this store.
func (s *Store) InstructorRepo() InstructorRepo {
	return &instructorRepo{s: s}
}

// GroupRepo returns a GroupRepo backed by this store.
func (s *Store) GroupRepo() GroupRepo {
	return &groupRepo{s: s}
}

// ClassRepo returns a ClassRepo backed by this store.
func (s *Store) ClassRepo() ClassRepo {
	return &classRepo{s: s}
}

// ActivityRepo returns an ActivityRepo backed by this store.
func (s *Store) ActivityRepo() ActivityRepo {
	return &activityRepo{s: s}
}

// SnapshotRepo returns a SnapshotRepo backed by this store.
func (s *Store) SnapshotRepo() SnapshotRepo {
	return &snapshotRepo{s: s}
}

// SettingsRepo returns a SettingsRepo backed by this store.
func (s *Store) SettingsRepo() SettingsRepo {
	return &settingsRepo{s: s}
}

// builder returns an SQL builder for the store's dialect.
func (s *Store) builder() *entsql.DialectBuilder {
	return entsql.Dialect(s.dialect)
}

// exec runs a built statement.
func (s *Store) exec(ctx context.Context, q querier) error {
	query, args := q.Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return err
	}
	return nil
}

// execOne runs a built statement that must touch at least one row.
func (s *Store) execOne(ctx context.Context, q querier) error {
	query, args := q.Query()
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// selectAll scans every row of a built query into dest.
func (s *Store) selectAll(ctx context.Context, dest any, q querier) error {
	query, args := q.Query()
	return s.db.SelectContext(ctx, dest, query, args...)
}

// get scans a single row into dest, returning ErrNotFound for no rows.
func (s *Store) get(ctx context.Context, dest any, q querier) error {
	query, args := q.Query()
	err := s.db.GetContext(ctx, dest, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// querier is satisfied by every ent SQL builder.
type querier interface {
	Query() (string, []any)
}

// pragmas configure SQLite for optimal single-user performance. They are
// passed in the DSN so the driver applies them to every pooled connection.
var pragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"foreign_keys(1)",
	"synchronous(NORMAL)",
}

func withPragmas(dsn string) string {
	params := make([]string, 0, len(pragmas)+1)
	for _, p := range pragmas {
		params = append(params, "_pragma="+p)
	}
	params = append(params, "_time_format=sqlite")
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// DefaultDBPath resolves the database file path in priority order:
// 1. DRIVEDESK_DB environment variable
// 2. $XDG_DATA_HOME/drivedesk/drivedesk.db
// 3. ~/.local/share/drivedesk/drivedesk.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("DRIVEDESK_DB"); p != "" {
		if isPostgres(p) {
			return p, nil
		}
		return p, ensureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "drivedesk", "drivedesk.db")
	return p, ensureDir(p)
}

// EnsureDir prepares the parent directory of a SQLite path. PostgreSQL
// DSNs and in-memory URIs are left alone.
func EnsureDir(dsn string) error {
	if isPostgres(dsn) || strings.HasPrefix(dsn, "file:") || dsn == ":memory:" {
		return nil
	}
	return ensureDir(dsn)
}

// ensureDir creates the parent directory of path if it doesn't exist.
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
