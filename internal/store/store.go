// Package store persists samples in an embedded SQLite database.
//
// The store owns two append-only tables, system_stats and process_stats.
// Writes happen from a single goroutine (the collection loop); the
// connection pool is capped at one connection so readers in the same
// process see every committed row.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	apperrors "github.com/agbru/sysoptimizer/internal/errors"
	"github.com/agbru/sysoptimizer/internal/record"
)

// BusyTimeoutMillis is how long SQLite waits on a locked database before
// failing a statement.
const BusyTimeoutMillis = 5000

const (
	createSystemStats = `CREATE TABLE IF NOT EXISTS system_stats (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT,
		cpu_usage REAL,
		memory_usage REAL,
		disk_usage REAL
	);`
	createProcessStats = `CREATE TABLE IF NOT EXISTS process_stats (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT,
		process_name TEXT,
		memory_usage_kb INTEGER,
		cpu_usage_percent REAL
	);`

	insertSystem  = `INSERT INTO system_stats (timestamp, cpu_usage, memory_usage, disk_usage) VALUES (?, ?, ?, ?)`
	insertProcess = `INSERT INTO process_stats (timestamp, process_name, memory_usage_kb, cpu_usage_percent) VALUES (?, ?, ?, ?)`

	selectSystem  = `SELECT timestamp, cpu_usage, memory_usage, disk_usage FROM system_stats ORDER BY id`
	selectProcess = `SELECT timestamp, process_name, memory_usage_kb, cpu_usage_percent FROM process_stats ORDER BY id`
)

// ErrClosed is returned by operations on a closed Store.
var ErrClosed = errors.New("store is closed")

// Store is a handle on the sample database.
type Store struct {
	db   *sql.DB
	path string

	mu       sync.Mutex
	closed   bool
	sysStmt  *sql.Stmt
	procStmt *sql.Stmt
}

// Open opens (creating if needed) the database at path. The parent directory
// is created when missing. Errors are returned as apperrors.StoreError.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, apperrors.NewStoreError("open", err)
		}
	}
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, apperrors.NewStoreError("open", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, apperrors.NewStoreError("open", err)
	}
	return &Store{db: db, path: path}, nil
}

func dsn(path string) string {
	return fmt.Sprintf("%s?_busy_timeout=%d", path, BusyTimeoutMillis)
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// EnsureSchema creates both tables if they do not exist. It is idempotent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		createSystemStats,
		createProcessStats,
	}
	for _, q := range stmts {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return apperrors.NewStoreError("schema", err)
		}
	}
	return nil
}

// AppendSystemSample inserts one system_stats row.
func (s *Store) AppendSystemSample(ctx context.Context, v record.SystemSample) error {
	stmt, err := s.prepared(ctx, &s.sysStmt, insertSystem)
	if err != nil {
		return apperrors.NewStoreError("insert system_stats", err)
	}
	_, err = stmt.ExecContext(ctx, v.Timestamp, v.CPUUsage, v.MemoryUsage, v.DiskUsage)
	return apperrors.NewStoreError("insert system_stats", err)
}

// AppendProcessSample inserts one process_stats row.
func (s *Store) AppendProcessSample(ctx context.Context, v record.ProcessSample) error {
	stmt, err := s.prepared(ctx, &s.procStmt, insertProcess)
	if err != nil {
		return apperrors.NewStoreError("insert process_stats", err)
	}
	// SQLite integers are signed 64-bit; no process footprint comes close.
	_, err = stmt.ExecContext(ctx, v.Timestamp, v.ProcessName, int64(v.MemoryUsageKB), v.CPUUsagePercent)
	return apperrors.NewStoreError("insert process_stats", err)
}

// prepared returns the cached statement for query, preparing it on first use.
// Preparation is deferred until the first append so Open works on an empty
// database before EnsureSchema runs.
func (s *Store) prepared(ctx context.Context, slot **sql.Stmt, query string) (*sql.Stmt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	if *slot != nil {
		return *slot, nil
	}
	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	*slot = stmt
	return stmt, nil
}

// SystemSamples returns every system_stats row in insertion order.
func (s *Store) SystemSamples(ctx context.Context) ([]record.SystemSample, error) {
	rows, err := s.db.QueryContext(ctx, selectSystem)
	if err != nil {
		return nil, apperrors.NewStoreError("read system_stats", err)
	}
	defer rows.Close()

	var out []record.SystemSample
	for rows.Next() {
		var v record.SystemSample
		if err := rows.Scan(&v.Timestamp, &v.CPUUsage, &v.MemoryUsage, &v.DiskUsage); err != nil {
			return nil, apperrors.NewStoreError("read system_stats", err)
		}
		out = append(out, v)
	}
	return out, apperrors.NewStoreError("read system_stats", rows.Err())
}

// ProcessSamples returns every process_stats row in insertion order.
func (s *Store) ProcessSamples(ctx context.Context) ([]record.ProcessSample, error) {
	rows, err := s.db.QueryContext(ctx, selectProcess)
	if err != nil {
		return nil, apperrors.NewStoreError("read process_stats", err)
	}
	defer rows.Close()

	var out []record.ProcessSample
	for rows.Next() {
		var (
			v  record.ProcessSample
			kb int64
		)
		if err := rows.Scan(&v.Timestamp, &v.ProcessName, &kb, &v.CPUUsagePercent); err != nil {
			return nil, apperrors.NewStoreError("read process_stats", err)
		}
		if kb > 0 {
			v.MemoryUsageKB = uint64(kb)
		}
		out = append(out, v)
	}
	return out, apperrors.NewStoreError("read process_stats", rows.Err())
}

// Tables lists the user tables of the database.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, apperrors.NewStoreError("list tables", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, apperrors.NewStoreError("list tables", err)
		}
		names = append(names, name)
	}
	return names, apperrors.NewStoreError("list tables", rows.Err())
}

// Close releases prepared statements and the database. It is safe to call
// more than once.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	for _, stmt := range []*sql.Stmt{s.sysStmt, s.procStmt} {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
	return s.db.Close()
}
