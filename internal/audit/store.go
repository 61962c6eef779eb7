// Package audit persists tool invocation records for accountability
// and replay. Records carry token fingerprints only, never raw tokens.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"dex-mcp-server/internal/logging"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Record is one tool or resource invocation
type Record struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Kind       string    `json:"kind"` // tool, resource, prompt
	Name       string    `json:"name"`
	Chain      string    `json:"chain,omitempty"`
	TokenFP    string    `json:"token_fp,omitempty"`
	Success    bool      `json:"success"`
	ErrorCode  string    `json:"error_code,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	TraceID    string    `json:"trace_id,omitempty"`
}

// Query filters stored records
type Query struct {
	Kind    string     `json:"kind,omitempty"`
	Name    string     `json:"name,omitempty"`
	Chain   string     `json:"chain,omitempty"`
	Success *bool      `json:"success,omitempty"`
	After   *time.Time `json:"after,omitempty"`
	Before  *time.Time `json:"before,omitempty"`
	Limit   int        `json:"limit,omitempty"`
}

// Recorder accepts invocation records. Implementations must not block
// the request path.
type Recorder interface {
	Record(record *Record)
	Close() error
}

// Config configures the SQLite store
type Config struct {
	DatabasePath  string        `json:"database_path"`
	BufferSize    int           `json:"buffer_size"`
	BatchSize     int           `json:"batch_size"`
	FlushInterval time.Duration `json:"flush_interval"`
	Retention     time.Duration `json:"retention"`
}

// DefaultConfig returns default audit store configuration
func DefaultConfig() *Config {
	return &Config{
		DatabasePath:  "./data/audit.db",
		BufferSize:    1000,
		BatchSize:     50,
		FlushInterval: 2 * time.Second,
		Retention:     30 * 24 * time.Hour,
	}
}

// Store is the SQLite-backed audit log with buffered async writes
type Store struct {
	db     *sql.DB
	config *Config
	logger logging.Logger

	writeBuffer chan *Record
	cancel      context.CancelFunc
	wg          sync.WaitGroup

	mu      sync.Mutex
	dropped int64
}

// NewStore opens the database, applies the schema and starts the
// background writer
func NewStore(config *Config, logger logging.Logger) (*Store, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if dir := filepath.Dir(config.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create audit directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", config.DatabasePath+"?_journal_mode=WAL&_sync=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize audit schema: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	store := &Store{
		db:          db,
		config:      config,
		logger:      logger.WithComponent("audit"),
		writeBuffer: make(chan *Record, config.BufferSize),
		cancel:      cancel,
	}

	store.wg.Add(1)
	go store.writeLoop(ctx)

	return store, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS invocations (
	id          TEXT PRIMARY KEY,
	timestamp   INTEGER NOT NULL,
	kind        TEXT NOT NULL,
	name        TEXT NOT NULL,
	chain       TEXT,
	token_fp    TEXT,
	success     INTEGER NOT NULL,
	error_code  TEXT,
	duration_ms INTEGER NOT NULL,
	trace_id    TEXT
);
CREATE INDEX IF NOT EXISTS idx_invocations_timestamp ON invocations(timestamp);
CREATE INDEX IF NOT EXISTS idx_invocations_name ON invocations(name);
`

// Record enqueues one record. When the buffer is full the record is
// dropped rather than blocking the request path.
func (s *Store) Record(record *Record) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}

	select {
	case s.writeBuffer <- record:
	default:
		s.mu.Lock()
		s.dropped++
		s.mu.Unlock()
		s.logger.Warn("audit buffer full, dropping record", "name", record.Name)
	}
}

// Dropped reports how many records were lost to backpressure
func (s *Store) Dropped() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

func (s *Store) writeLoop(ctx context.Context) {
	defer s.wg.Done()

	batch := make([]*Record, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := s.writeBatch(batch); err != nil {
			s.logger.Error("failed to write audit batch", "error", err.Error(), "count", len(batch))
		}
		batch = batch[:0]
	}

	for {
		select {
		case record := <-s.writeBuffer:
			batch = append(batch, record)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-ctx.Done():
			// Drain whatever is still buffered before exiting
			for {
				select {
				case record := <-s.writeBuffer:
					batch = append(batch, record)
				default:
					flush()
					return
				}
			}
		}
	}
}

func (s *Store) writeBatch(batch []*Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO invocations
		(id, timestamp, kind, name, chain, token_fp, success, error_code, duration_ms, trace_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, record := range batch {
		success := 0
		if record.Success {
			success = 1
		}
		if _, err := stmt.Exec(record.ID, record.Timestamp.UnixMilli(), record.Kind,
			record.Name, record.Chain, record.TokenFP, success, record.ErrorCode,
			record.DurationMs, record.TraceID); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert record: %w", err)
		}
	}

	return tx.Commit()
}

// List returns records matching the query, newest first
func (s *Store) List(ctx context.Context, query *Query) ([]*Record, error) {
	if query == nil {
		query = &Query{}
	}

	var (
		clauses []string
		args    []interface{}
	)
	if query.Kind != "" {
		clauses = append(clauses, "kind = ?")
		args = append(args, query.Kind)
	}
	if query.Name != "" {
		clauses = append(clauses, "name = ?")
		args = append(args, query.Name)
	}
	if query.Chain != "" {
		clauses = append(clauses, "chain = ?")
		args = append(args, query.Chain)
	}
	if query.Success != nil {
		success := 0
		if *query.Success {
			success = 1
		}
		clauses = append(clauses, "success = ?")
		args = append(args, success)
	}
	if query.After != nil {
		clauses = append(clauses, "timestamp >= ?")
		args = append(args, query.After.UnixMilli())
	}
	if query.Before != nil {
		clauses = append(clauses, "timestamp < ?")
		args = append(args, query.Before.UnixMilli())
	}

	q := "SELECT id, timestamp, kind, name, chain, token_fp, success, error_code, duration_ms, trace_id FROM invocations"
	if len(clauses) > 0 {
		q += " WHERE " + strings.Join(clauses, " AND ")
	}
	q += " ORDER BY timestamp DESC"

	limit := query.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	q += " LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*Record
	for rows.Next() {
		var (
			record      Record
			timestampMs int64
			success     int
		)
		if err := rows.Scan(&record.ID, &timestampMs, &record.Kind, &record.Name,
			&record.Chain, &record.TokenFP, &success, &record.ErrorCode,
			&record.DurationMs, &record.TraceID); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		record.Timestamp = time.UnixMilli(timestampMs).UTC()
		record.Success = success == 1
		records = append(records, &record)
	}
	return records, rows.Err()
}

// Cleanup deletes records older than the retention period
func (s *Store) Cleanup(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-s.config.Retention).UnixMilli()
	result, err := s.db.ExecContext(ctx, "DELETE FROM invocations WHERE timestamp < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up audit log: %w", err)
	}
	return result.RowsAffected()
}

// Flush blocks until currently buffered records hit the database.
// Intended for tests and shutdown paths.
func (s *Store) Flush() {
	deadline := time.Now().Add(5 * time.Second)
	for len(s.writeBuffer) > 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	// One flush interval so the writer drains its batch
	time.Sleep(s.config.FlushInterval + 50*time.Millisecond)
}

// Close stops the writer, drains the buffer and closes the database
func (s *Store) Close() error {
	s.cancel()
	s.wg.Wait()
	return s.db.Close()
}

// NopRecorder discards all records. Used when auditing is disabled.
type NopRecorder struct{}

func (NopRecorder) Record(*Record) {}
func (NopRecorder) Close() error   { return nil }
