// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists a log of conversion runs: one row per run in a
// SQLite database, plus a YAML record next to the run's output artifacts.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/geodcat-bridge/pkg/types"
)

const (
	dbFile     = "runs.db"
	recordFile = "run_record.yaml"
)

// Store manages the run history SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the history database at historyDir/runs.db,
// creating the schema if it does not exist.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.HistoryDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(cfg.HistoryDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source_url TEXT NOT NULL,
			stylesheet TEXT NOT NULL,
			input_sha256 TEXT,
			status TEXT NOT NULL,
			error TEXT,
			output_path TEXT,
			triples INTEGER,
			started_at TEXT NOT NULL,
			duration_ms INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts rec into the runs table and sets rec.ID from the insert.
func (s *Store) Record(rec *types.RunRecord) error {
	res, err := s.db.Exec(
		`INSERT INTO runs (source_url, stylesheet, input_sha256, status, error,
			output_path, triples, started_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SourceURL, rec.Stylesheet, rec.InputSHA256, string(rec.Status),
		rec.Error, rec.OutputPath, rec.Triples,
		rec.StartedAt.UTC().Format(time.RFC3339), rec.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading insert id: %w", err)
	}
	rec.ID = id
	return nil
}

// Recent returns the most recent runs, newest first. A limit of 0 or less
// uses the store's configured maximum.
func (s *Store) Recent(limit int) ([]types.RunRecord, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.Query(
		`SELECT id, source_url, stylesheet, input_sha256, status, error,
			output_path, triples, started_at, duration_ms
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var records []types.RunRecord
	for rows.Next() {
		var rec types.RunRecord
		var status, startedAt string
		var durationMs int64
		if err := rows.Scan(&rec.ID, &rec.SourceURL, &rec.Stylesheet,
			&rec.InputSHA256, &status, &rec.Error, &rec.OutputPath,
			&rec.Triples, &startedAt, &durationMs); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		rec.Status = types.RunStatus(status)
		if t, parseErr := time.Parse(time.RFC3339, startedAt); parseErr == nil {
			rec.StartedAt = t
		}
		rec.Duration = time.Duration(durationMs) * time.Millisecond
		records = append(records, rec)
	}
	return records, rows.Err()
}

// WriteRunRecord marshals rec to dir/run_record.yaml, overwriting any record
// from a previous run.
func WriteRunRecord(rec *types.RunRecord, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating record directory: %w", err)
	}
	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling run record: %w", err)
	}
	path := filepath.Join(dir, recordFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing run record: %w", err)
	}
	return nil
}
