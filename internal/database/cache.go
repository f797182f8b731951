package database

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nao1215/adoperator/internal/offline"
	"golang.org/x/crypto/sha3"
)

var _ offline.Cache = (*ResponseCache)(nil)

// ResponseCache is an offline.Cache persisted in the cache_entries table.
// Each body is stored with its SHA3-256 digest; an entry whose body no longer
// matches its digest is reported as a miss.
type ResponseCache struct {
	sdb *StateDB
	now func() time.Time
}

// Cache returns the offline cache view of the database.
func (sdb *StateDB) Cache() *ResponseCache {
	return &ResponseCache{sdb: sdb, now: time.Now}
}

// Put implements offline.Cache.
func (c *ResponseCache) Put(ctx context.Context, name string, e offline.Entry) error {
	headers, err := json.Marshal(e.Header)
	if err != nil {
		return fmt.Errorf("failed to serialize headers: %w", err)
	}
	storedAt := e.StoredAt
	if storedAt.IsZero() {
		storedAt = c.now()
	}

	query := `
	INSERT INTO cache_entries (name, url, status, headers, body, digest, stored_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(name, url) DO UPDATE SET
		status = excluded.status,
		headers = excluded.headers,
		body = excluded.body,
		digest = excluded.digest,
		stored_at = excluded.stored_at
	`
	_, err = c.sdb.db.ExecContext(ctx, query,
		name,
		e.URL,
		e.Status,
		string(headers),
		e.Body,
		digest(e.Body),
		storedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}

// Match implements offline.Cache.
func (c *ResponseCache) Match(ctx context.Context, name, url string) (offline.Entry, bool, error) {
	query := `
	SELECT status, headers, body, digest, stored_at
	FROM cache_entries
	WHERE name = ? AND url = ?
	`

	var (
		e         = offline.Entry{URL: url}
		headers   sql.NullString
		sum       string
		timestamp string
	)
	err := c.sdb.db.QueryRowContext(ctx, query, name, url).Scan(&e.Status, &headers, &e.Body, &sum, &timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return offline.Entry{}, false, nil
	}
	if err != nil {
		return offline.Entry{}, false, fmt.Errorf("failed to match cache entry: %w", err)
	}
	if digest(e.Body) != sum {
		return offline.Entry{}, false, nil
	}

	if headers.Valid && headers.String != "" {
		if err := json.Unmarshal([]byte(headers.String), &e.Header); err != nil {
			return offline.Entry{}, false, fmt.Errorf("failed to parse headers: %w", err)
		}
	}
	if e.Header == nil {
		e.Header = http.Header{}
	}
	e.StoredAt = parseTimestamp(timestamp)
	return e, true, nil
}

// Names implements offline.Cache.
func (c *ResponseCache) Names(ctx context.Context) ([]string, error) {
	rows, err := c.sdb.db.QueryContext(ctx, `SELECT DISTINCT name FROM cache_entries ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list caches: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan cache name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Delete implements offline.Cache.
func (c *ResponseCache) Delete(ctx context.Context, name string) error {
	if _, err := c.sdb.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE name = ?`, name); err != nil {
		return fmt.Errorf("failed to delete cache %q: %w", name, err)
	}
	return nil
}

func digest(body []byte) string {
	sum := sha3.Sum256(body)
	return hex.EncodeToString(sum[:])
}
