package recorder

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func TestSQLiteRecorderRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	rec, err := NewSQLiteRecorder(dbPath)
	if err != nil {
		t.Fatalf("Failed to open recorder: %v", err)
	}

	run := &RunRecord{
		ID:         "test-run-1",
		DefsPath:   "data/defs.json",
		Bound:      5,
		Policy:     "exact",
		Cash:       10,
		BestTime:   20.001,
		Path:       `[{"channel":0,"time":0}]`,
		Nodes:      12,
		Pruned:     3,
		Terminal:   2,
		MemoHits:   1,
		MemoStores: 9,
		ElapsedMS:  7,
	}
	if err := rec.RecordRun(run); err != nil {
		t.Fatalf("Failed to record run: %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Failed to close recorder: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	defer db.Close()

	var (
		policy   string
		bestTime float64
		nodes    int
		path     string
	)
	row := db.QueryRow(`SELECT policy, best_time, nodes, path FROM solve_runs WHERE id = ?`, run.ID)
	if err := row.Scan(&policy, &bestTime, &nodes, &path); err != nil {
		t.Fatalf("Failed to read back run: %v", err)
	}

	if policy != run.Policy {
		t.Errorf("policy: got %q, want %q", policy, run.Policy)
	}
	if bestTime != run.BestTime {
		t.Errorf("best_time: got %g, want %g", bestTime, run.BestTime)
	}
	if nodes != run.Nodes {
		t.Errorf("nodes: got %d, want %d", nodes, run.Nodes)
	}
	if path != run.Path {
		t.Errorf("path: got %q, want %q", path, run.Path)
	}
}

func TestSQLiteRecorderIdempotentMigration(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	for i := 0; i < 2; i++ {
		rec, err := NewSQLiteRecorder(dbPath)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		if err := rec.Close(); err != nil {
			t.Fatalf("close %d: %v", i, err)
		}
	}
}

func TestNoopRecorder(t *testing.T) {
	var rec Recorder = NewNoop()
	if err := rec.RecordRun(&RunRecord{ID: "x"}); err != nil {
		t.Errorf("noop RecordRun: %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Errorf("noop Close: %v", err)
	}
}
