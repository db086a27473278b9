// Package history records generate runs in a local SQLite database so
// `flowc history` can answer what was generated, from which flow, and
// whether the host was patched. History is bookkeeping: callers treat write
// failures as warnings, never as generation failures.
package history

import (
	"crypto/sha256"
	"database/sql"
	_ "embed"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// DefaultPath is the history database location relative to the project
// root.
const DefaultPath = ".flowc/history.db"

// Run is one recorded generation.
type Run struct {
	ID             string
	FlowName       string
	FlowVersion    int
	OutputDir      string
	RuntimeSHA256  string
	TriggersSHA256 string
	Patched        bool
	CreatedAt      time.Time
}

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Open creates or opens the history database at path and applies the
// schema. Idempotent.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to history db: %w", err)
	}

	// Single writer; the CLI is one process and SQLite allows one
	// writer at a time anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying pragma: %w", err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts a run. A zero ID gets a fresh UUIDv7 (time-sortable, which
// keeps ids aligned with created_at); a zero CreatedAt gets the current
// time. Returns the stored run.
func (s *Store) Record(run Run) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.Must(uuid.NewV7()).String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(`
		INSERT INTO runs (id, flow_name, flow_version, output_dir,
			runtime_sha256, triggers_sha256, patched, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.FlowName, run.FlowVersion, run.OutputDir,
		run.RuntimeSHA256, run.TriggersSHA256, boolInt(run.Patched),
		run.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return run, fmt.Errorf("recording run: %w", err)
	}
	return run, nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, flow_name, flow_version, output_dir,
			runtime_sha256, triggers_sha256, patched, created_at
		FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var patched int
		var created string
		if err := rows.Scan(&r.ID, &r.FlowName, &r.FlowVersion, &r.OutputDir,
			&r.RuntimeSHA256, &r.TriggersSHA256, &patched, &created); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Patched = patched != 0
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			r.CreatedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// HashArtifact returns the hex SHA-256 of a generated artifact.
func HashArtifact(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
