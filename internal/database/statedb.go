package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/adoperator/internal/model"
	"github.com/nao1215/adoperator/internal/session"
)

// FileName is the database file name inside the data directory.
const FileName = "adoperator.db"

var _ session.Store = (*StateDB)(nil)

// StateDB stores session values, offline cache entries and analysis snapshots.
type StateDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures StateDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging. The serve command reads the
	// cache while CLI invocations write session values.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a StateDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*StateDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file; mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &StateDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := sdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return sdb, nil
}

// Path returns the database file path.
func (sdb *StateDB) Path() string {
	return sdb.dbPath
}

// Close closes the database connection.
func (sdb *StateDB) Close() error {
	return sdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (sdb *StateDB) createTables() error {
	schema := `
	-- Session values: token, user, push prompt state
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Responses cached by the offline worker
	CREATE TABLE IF NOT EXISTS cache_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		url TEXT NOT NULL,
		status INTEGER NOT NULL,
		headers TEXT,
		body BLOB,
		digest TEXT NOT NULL,
		stored_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(name, url)
	);

	CREATE INDEX IF NOT EXISTS idx_cache_name ON cache_entries(name);

	-- Analyses fetched from the backend
	CREATE TABLE IF NOT EXISTS analyses (
		id TEXT PRIMARY KEY,
		product_name TEXT,
		status TEXT,
		analysis_json TEXT NOT NULL,
		saved_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_saved ON analyses(saved_at);
	`

	_, err := sdb.db.ExecContext(context.Background(), schema)
	return err
}

// Get implements session.Store.
func (sdb *StateDB) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := sdb.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %q: %w", key, err)
	}
	return value, true, nil
}

// Set implements session.Store.
func (sdb *StateDB) Set(ctx context.Context, key, value string) error {
	query := `
	INSERT INTO kv (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET
		value = excluded.value,
		updated_at = CURRENT_TIMESTAMP
	`
	if _, err := sdb.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set %q: %w", key, err)
	}
	return nil
}

// Delete implements session.Store.
func (sdb *StateDB) Delete(ctx context.Context, key string) error {
	if _, err := sdb.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

// SaveAnalysis stores a snapshot of a, replacing the previous one.
func (sdb *StateDB) SaveAnalysis(ctx context.Context, a *model.Analysis) error {
	if a == nil || a.ID == "" {
		return errors.New("analysis has no id")
	}
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to serialize analysis: %w", err)
	}

	query := `
	INSERT INTO analyses (id, product_name, status, analysis_json)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		product_name = excluded.product_name,
		status = excluded.status,
		analysis_json = excluded.analysis_json,
		saved_at = CURRENT_TIMESTAMP
	`
	_, err = sdb.db.ExecContext(ctx, query, a.ID, a.Product.Name, string(a.Status), string(data))
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

// GetAnalysis returns the snapshot of analysis id, or nil when none is stored.
func (sdb *StateDB) GetAnalysis(ctx context.Context, id string) (*model.Analysis, error) {
	var data string
	err := sdb.db.QueryRowContext(ctx, `SELECT analysis_json FROM analyses WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	var a model.Analysis
	if err := json.Unmarshal([]byte(data), &a); err != nil {
		return nil, fmt.Errorf("failed to parse analysis: %w", err)
	}
	return &a, nil
}

// AnalysisSummary describes a stored snapshot without loading its payloads.
type AnalysisSummary struct {
	ID          string
	ProductName string
	Status      model.Status
	SavedAt     time.Time
}

// ListAnalyses returns stored snapshots, most recently saved first.
func (sdb *StateDB) ListAnalyses(ctx context.Context) ([]AnalysisSummary, error) {
	query := `
	SELECT id, product_name, status, saved_at
	FROM analyses
	ORDER BY saved_at DESC, id
	`

	rows, err := sdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var results []AnalysisSummary
	for rows.Next() {
		var (
			s         AnalysisSummary
			name      sql.NullString
			status    sql.NullString
			timestamp string
		)
		if err := rows.Scan(&s.ID, &name, &status, &timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		s.ProductName = name.String
		s.Status = model.Status(status.String)
		s.SavedAt = parseTimestamp(timestamp)
		results = append(results, s)
	}

	return results, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// More specific formats come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp tries each of timestampFormats and returns the zero time
// when none matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
