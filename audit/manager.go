package audit

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// ErrSearchUnavailable is returned by Search when the linked sqlite3 build
// lacks FTS5, per SPEC_FULL.md §8 property 3.
var ErrSearchUnavailable = errors.New("audit: search is unavailable (sqlite3 built without FTS5 support)")

// Manager is the dual-write (JSONL + SQLite) audit log, directly modeled on
// the reference corpus's history.Manager.
type Manager struct {
	db          *sql.DB
	jsonlPath   string
	searchAvail bool
	mu          sync.Mutex
}

// New opens (or creates) the audit database at dbPath and the JSONL mirror
// at jsonlPath.
func New(dbPath, jsonlPath string) (*Manager, error) {
	db, ftsEnabled, err := initDB(dbPath)
	if err != nil {
		return nil, err
	}
	m := &Manager{db: db, jsonlPath: jsonlPath, searchAvail: ftsEnabled}
	m.migrateFromJSONL()
	return m, nil
}

// Close releases the underlying database handle.
func (m *Manager) Close() error {
	if m.db == nil {
		return nil
	}
	return m.db.Close()
}

// Record persists one dispatch outcome to both the JSONL mirror and the
// SQLite table. A JSONL write failure is returned but does not prevent the
// SQLite write from being attempted, matching the reference corpus's
// "logging failures must not take down the session" posture.
func (m *Manager) Record(e Entry) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	jsonlErr := m.appendJSONL(e)

	_, err := m.db.Exec(
		"INSERT INTO entries(created_at, command, args, result) VALUES(?, ?, ?, ?)",
		e.Timestamp.Unix(), e.Command, e.Args, e.Result,
	)
	if err != nil {
		return fmt.Errorf("audit: db insert failed: %w", err)
	}
	return jsonlErr
}

func (m *Manager) appendJSONL(e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, err := os.OpenFile(m.jsonlPath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("audit: jsonl open failed: %w", err)
	}
	defer f.Close()

	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("audit: jsonl marshal failed: %w", err)
	}
	_, err = f.Write(append(b, '\n'))
	return err
}

// Recent returns the last n recorded entries in reverse-chronological
// order, per SPEC_FULL.md §8 property 3.
func (m *Manager) Recent(n int) ([]Entry, error) {
	rows, err := m.db.Query(
		"SELECT id, created_at, command, args, result FROM entries ORDER BY id DESC LIMIT ?", n,
	)
	if err != nil {
		return nil, fmt.Errorf("audit: recent query failed: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var ts int64
		if err := rows.Scan(&e.ID, &ts, &e.Command, &e.Args, &e.Result); err != nil {
			continue
		}
		e.Timestamp = time.Unix(ts, 0)
		out = append(out, e)
	}
	return out, nil
}

// Search runs a full-text query over recorded argument strings.
func (m *Manager) Search(query string) ([]SearchResult, error) {
	if !m.searchAvail {
		return nil, ErrSearchUnavailable
	}

	ftsQuery := ParseQuery(query)
	if ftsQuery == "" {
		return nil, fmt.Errorf("audit: empty query")
	}

	rows, err := m.db.Query(`
		SELECT entry_id, command, highlight(entries_fts, 0, '[1;31m', '[0m')
		FROM entries_fts
		WHERE entries_fts MATCH ?
		ORDER BY rank
		LIMIT 50`, ftsQuery)
	if err != nil {
		return nil, fmt.Errorf("audit: search query failed: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.EntryID, &r.Command, &r.Preview); err != nil {
			continue
		}
		var ts int64
		m.db.QueryRow("SELECT created_at FROM entries WHERE id = ?", r.EntryID).Scan(&ts)
		r.Timestamp = time.Unix(ts, 0)
		results = append(results, r)
	}
	return results, nil
}

// migrateFromJSONL imports a pre-existing JSONL mirror into an empty
// database, for an audit db created before this session but never before
// queried through SQLite — mirrors the reference corpus's lazy
// EnsureMigrated.
func (m *Manager) migrateFromJSONL() {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int
	if err := m.db.QueryRow("SELECT count(*) FROM entries").Scan(&count); err == nil && count > 0 {
		return
	}
	f, err := os.Open(m.jsonlPath)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	tx, err := m.db.Begin()
	if err != nil {
		return
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT INTO entries(created_at, command, args, result) VALUES(?, ?, ?, ?)")
	if err != nil {
		return
	}
	defer stmt.Close()

	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue
		}
		stmt.Exec(e.Timestamp.Unix(), e.Command, e.Args, e.Result)
	}
	tx.Commit()
}
