// Package recorder persists solve-run history. It records results only;
// search state itself is never persisted.
package recorder

// RunRecord is one completed solve.
type RunRecord struct {
	ID       string // run identifier
	DefsPath string
	Bound    float64
	Policy   string
	Cash     float64

	BestTime float64
	Path     string // JSON-encoded upgrade path

	Nodes      int
	Pruned     int
	Terminal   int
	MemoHits   int
	MemoStores int

	ElapsedMS int64
}

// Recorder stores run history.
type Recorder interface {
	RecordRun(rec *RunRecord) error
	Close() error
}

// Noop is a Recorder that discards everything.
type Noop struct{}

// NewNoop creates a no-op recorder.
func NewNoop() *Noop { return &Noop{} }

func (*Noop) RecordRun(*RunRecord) error { return nil }

func (*Noop) Close() error { return nil }
