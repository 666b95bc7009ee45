// Package store keeps a SQLite log of compilation runs.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"
	_ "modernc.org/sqlite"
)

var log = commonlog.GetLogger("bcgen.store")

// ErrRunNotFound indicates the requested run doesn't exist.
var ErrRunNotFound = errors.New("run not found")

// Status values recorded for a run.
const (
	StatusOK            = "ok"
	StatusSyntaxError   = "syntax_error"
	StatusSemanticError = "semantic_error"
	StatusRuntimeFault  = "runtime_fault"
)

// Run is one logged compilation.
type Run struct {
	ID           string
	Time         time.Time
	Name         string
	Source       string
	Tokens       int
	Nodes        int
	Instructions int
	Diagnostics  []string
	Status       string
}

// RunLog is the run log database.
type RunLog struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens or creates the run log at path. ":memory:" gives a private
// in-memory log.
func Open(path string) (*RunLog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// An in-memory database exists per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		ts INTEGER NOT NULL,
		name TEXT NOT NULL,
		source TEXT NOT NULL,
		tokens INTEGER NOT NULL,
		nodes INTEGER NOT NULL,
		instructions INTEGER NOT NULL,
		diagnostics TEXT NOT NULL,
		status TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	return &RunLog{db: db}, nil
}

// Close closes the database connection.
func (l *RunLog) Close() error {
	if l.db != nil {
		return l.db.Close()
	}
	return nil
}

// Record stores r, assigning an ID and timestamp when they are unset, and
// returns the ID.
func (l *RunLog) Record(r *Run) (string, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Time.IsZero() {
		r.Time = time.Now()
	}
	diags := r.Diagnostics
	if diags == nil {
		diags = []string{}
	}
	data, err := json.Marshal(diags)
	if err != nil {
		return "", fmt.Errorf("encoding diagnostics: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	_, err = l.db.Exec(
		`INSERT INTO runs (id, ts, name, source, tokens, nodes, instructions, diagnostics, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Time.UnixNano(), r.Name, r.Source, r.Tokens, r.Nodes, r.Instructions, string(data), r.Status,
	)
	if err != nil {
		return "", fmt.Errorf("saving run: %w", err)
	}
	log.Debugf("recorded run %s (%s, %s)", r.ID, r.Name, r.Status)
	return r.ID, nil
}

const selectRun = `SELECT id, ts, name, source, tokens, nodes, instructions, diagnostics, status FROM runs`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var (
		r     Run
		ts    int64
		diags string
	)
	if err := s.Scan(&r.ID, &ts, &r.Name, &r.Source, &r.Tokens, &r.Nodes, &r.Instructions, &diags, &r.Status); err != nil {
		return nil, err
	}
	r.Time = time.Unix(0, ts)
	if err := json.Unmarshal([]byte(diags), &r.Diagnostics); err != nil {
		return nil, fmt.Errorf("decoding diagnostics of run %s: %w", r.ID, err)
	}
	return &r, nil
}

// Get returns the run with the given ID.
func (l *RunLog) Get(id string) (*Run, error) {
	r, err := scanRun(l.db.QueryRow(selectRun+" WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("querying run: %w", err)
	}
	return r, nil
}

// Recent returns up to limit runs, newest first.
func (l *RunLog) Recent(limit int) ([]*Run, error) {
	rows, err := l.db.Query(selectRun+" ORDER BY ts DESC, rowid DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// CountByStatus returns the number of runs per status.
func (l *RunLog) CountByStatus() (map[string]int, error) {
	rows, err := l.db.Query("SELECT status, COUNT(*) FROM runs GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("counting runs: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
