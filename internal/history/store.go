package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

// Snapshot records the outcome of one scan-to-manifest run.
type Snapshot struct {
	RunID         string
	Timestamp     time.Time
	OutputPath    string
	FileCount     int
	FailureCount  int
	ImportCount   int
	ResolvedCount int
	WrittenCount  int
}

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRun persists one snapshot and returns its generated run id.
func (s *Store) SaveRun(snapshot Snapshot) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runID := snapshot.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	ts := snapshot.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := s.db.Exec(`
INSERT INTO runs (run_id, ts_utc, output_path, file_count, failure_count, import_count, resolved_count, written_count)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID,
		ts.UTC().Format(time.RFC3339Nano),
		snapshot.OutputPath,
		snapshot.FileCount,
		snapshot.FailureCount,
		snapshot.ImportCount,
		snapshot.ResolvedCount,
		snapshot.WrittenCount,
	)
	if err != nil {
		return "", fmt.Errorf("save run snapshot: %w", err)
	}

	return runID, nil
}

// LoadRuns returns snapshots at or after since, oldest first.
func (s *Store) LoadRuns(since time.Time) ([]Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
SELECT run_id, ts_utc, output_path, file_count, failure_count, import_count, resolved_count, written_count
FROM runs
WHERE ts_utc >= ?
ORDER BY ts_utc ASC`,
		since.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("load run snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var snap Snapshot
		var ts string
		if err := rows.Scan(&snap.RunID, &ts, &snap.OutputPath, &snap.FileCount, &snap.FailureCount, &snap.ImportCount, &snap.ResolvedCount, &snap.WrittenCount); err != nil {
			return nil, fmt.Errorf("scan run snapshot: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			snap.Timestamp = parsed
		}
		snapshots = append(snapshots, snap)
	}

	return snapshots, rows.Err()
}
