// Package runlog persists a history of pipeline runs and the audio chunks
// destructive passes removed, backed by SQLite in the result root.
package runlog

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"vorleser/internal/config"
	"vorleser/internal/purge"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; users need to delete the database after a bump.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Run is one recorded pipeline invocation.
type Run struct {
	ID          string
	Command     string
	Status      string
	Detail      string
	StartedAt   time.Time
	FinishedAt  *time.Time
	PurgedCount int
}

// PurgedChunk is one audio file deletion recorded against a run.
type PurgedChunk struct {
	RunID     string
	Chapter   string
	Chunk     string
	WavPath   string
	ErrorRate float64
	Threshold float64
	PurgedAt  time.Time
}

// Store manages run history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// FileName is the database file created in the result root.
const FileName = "runlog.db"

// Open initializes or connects to the run log database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(filepath.Join(cfg.Paths.CheckDir, FileName))
}

// OpenPath opens the database at an explicit path.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// BeginRun records the start of a pipeline invocation and returns its ID.
func (s *Store) BeginRun(ctx context.Context, command string) (string, error) {
	id := uuid.NewString()
	startedAt := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO runs (id, command, status, started_at) VALUES (?, ?, ?, ?)",
		id, command, StatusRunning, startedAt)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// FinishRun marks a run as completed or failed with an optional detail line.
func (s *Store) FinishRun(ctx context.Context, id, status, detail string) error {
	finishedAt := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx,
		"UPDATE runs SET status = ?, detail = ?, finished_at = ? WHERE id = ?",
		status, detail, finishedAt, id)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("finish run: no run with id %s", id)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first, each with the number
// of purged chunks recorded against it.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT r.id, r.command, r.status, r.detail, r.started_at, r.finished_at,
               COUNT(p.id)
        FROM runs r
        LEFT JOIN purged_chunks p ON p.run_id = r.id
        GROUP BY r.id
        ORDER BY r.started_at DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var startedAt string
		var finishedAt sql.NullString
		if err := rows.Scan(&run.ID, &run.Command, &run.Status, &run.Detail,
			&startedAt, &finishedAt, &run.PurgedCount); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parse run start time: %w", err)
		}
		if finishedAt.Valid {
			parsed, err := time.Parse(time.RFC3339Nano, finishedAt.String)
			if err != nil {
				return nil, fmt.Errorf("parse run finish time: %w", err)
			}
			run.FinishedAt = &parsed
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// PurgedChunks returns the deletions recorded against a run, oldest first.
func (s *Store) PurgedChunks(ctx context.Context, runID string) ([]PurgedChunk, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT run_id, chapter, chunk, wav_path, error_rate, threshold, purged_at
        FROM purged_chunks WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list purged chunks: %w", err)
	}
	defer rows.Close()

	var chunks []PurgedChunk
	for rows.Next() {
		var chunk PurgedChunk
		var purgedAt string
		if err := rows.Scan(&chunk.RunID, &chunk.Chapter, &chunk.Chunk,
			&chunk.WavPath, &chunk.ErrorRate, &chunk.Threshold, &purgedAt); err != nil {
			return nil, fmt.Errorf("scan purged chunk: %w", err)
		}
		chunk.PurgedAt, err = time.Parse(time.RFC3339Nano, purgedAt)
		if err != nil {
			return nil, fmt.Errorf("parse purge time: %w", err)
		}
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

// recorder binds purge deletions to one run.
type recorder struct {
	store *Store
	ctx   context.Context
	runID string
}

// Recorder returns a purge.Recorder writing deletions against the given run.
func (s *Store) Recorder(ctx context.Context, runID string) purge.Recorder {
	return &recorder{store: s, ctx: ctx, runID: runID}
}

func (r *recorder) RecordPurgedChunk(entry purge.Entry) error {
	purgedAt := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := r.store.db.ExecContext(r.ctx, `
        INSERT INTO purged_chunks (run_id, chapter, chunk, wav_path, error_rate, threshold, purged_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.runID, entry.Chapter, entry.Chunk, entry.WavPath, entry.ErrorRate, entry.Threshold, purgedAt)
	if err != nil {
		return fmt.Errorf("record purged chunk: %w", err)
	}
	return nil
}
