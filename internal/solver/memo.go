package solver

import (
	"math"
	"strconv"
	"strings"

	"github.com/napolitain/solver-tube/internal/models"
)

// Table is the lossy transposition table. The key deliberately collapses
// many distinct (cash, time) states into one bucket to bound memory and
// raise the hit rate; a collision returns a stale result for a genuinely
// different state. That is the documented contract, not a defect.
type Table struct {
	entries    map[string]Result
	phaseScale float64
	disabled   bool
}

// NewTable creates a memo table with the given payout-phase granularity.
// A disabled table never hits and never stores, for exact-reference runs.
func NewTable(phaseScale float64, disabled bool) *Table {
	return &Table{
		entries:    make(map[string]Result),
		phaseScale: phaseScale,
		disabled:   disabled,
	}
}

// Key builds the discretized fingerprint of (economy, cash, t): per-channel
// payout-phase buckets, a cash bucket of floor(cash mod max_cost / min_cost),
// and the full level vector.
func (m *Table) Key(eco *models.Economy, cash, t float64) string {
	var b strings.Builder
	for _, c := range eco.Channels {
		b.WriteString(strconv.Itoa(int(math.Floor(c.SinceCashOut(t) * m.phaseScale))))
		b.WriteByte(',')
	}
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(int(math.Floor(math.Mod(cash, eco.MaxCost()) / eco.MinCost()))))
	b.WriteByte('|')
	for _, c := range eco.Channels {
		b.WriteString(strconv.Itoa(c.Level))
		b.WriteByte(',')
	}
	return b.String()
}

// Lookup returns the stored result for a key, if any.
func (m *Table) Lookup(key string) (Result, bool) {
	if m.disabled {
		return Result{}, false
	}
	res, ok := m.entries[key]
	return res, ok
}

// Store records a result under a key and reports whether the entry was
// written. Entries are never evicted.
func (m *Table) Store(key string, res Result) bool {
	if m.disabled {
		return false
	}
	m.entries[key] = res
	return true
}

// Len returns the number of stored entries.
func (m *Table) Len() int {
	return len(m.entries)
}
