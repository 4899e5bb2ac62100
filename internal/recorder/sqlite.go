package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/napolitain/solver-tube/internal/logger"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Infof("sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS solve_runs (
			id          TEXT PRIMARY KEY,
			timestamp   INTEGER NOT NULL,
			defs_path   TEXT,
			bound       REAL,
			policy      TEXT,
			cash        REAL,
			best_time   REAL,
			path        TEXT,
			nodes       INTEGER,
			pruned      INTEGER,
			terminal    INTEGER,
			memo_hits   INTEGER,
			memo_stores INTEGER,
			elapsed_ms  INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON solve_runs(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun appends one solve run.
func (r *SQLiteRecorder) RecordRun(rec *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO solve_runs
		(id, timestamp, defs_path, bound, policy, cash, best_time, path,
		 nodes, pruned, terminal, memo_hits, memo_stores, elapsed_ms)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.ID, time.Now().Unix(), rec.DefsPath, rec.Bound, rec.Policy, rec.Cash,
		rec.BestTime, rec.Path,
		rec.Nodes, rec.Pruned, rec.Terminal, rec.MemoHits, rec.MemoStores,
		rec.ElapsedMS,
	)
	return err
}

// Close closes the underlying database.
func (r *SQLiteRecorder) Close() error {
	logger.Infof("closing sqlite recorder")
	return r.db.Close()
}
