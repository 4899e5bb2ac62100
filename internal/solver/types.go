package solver

import (
	"errors"
	"math"
	"time"
)

// ErrBoundUnreachable is returned when the search exhausts its depth or
// wall-clock cutoff without ever reaching the target income bound.
var ErrBoundUnreachable = errors.New("income bound unreachable within search cutoffs")

// errStarved is returned by the exact simulator when no channel can ever pay
// out, so waiting for cash would loop forever.
var errStarved = errors.New("no channel produces any payout")

// Step records one upgrade on a path: which channel was bought and the
// elapsed time at which the purchase completed.
type Step struct {
	Channel int     `json:"channel"`
	Time    float64 `json:"time"`
}

// Path is the ordered upgrade sequence leading to a completion.
type Path []Step

// Clone returns an independent copy of the path.
func (p Path) Clone() Path {
	clone := make(Path, len(p))
	copy(clone, p)
	return clone
}

// Result is one search node's outcome: the best completion time found from
// that node and the full path achieving it.
type Result struct {
	Time float64
	Path Path
}

// worstResult is the sentinel returned by pruned or dead-ended nodes.
func worstResult() Result {
	return Result{Time: math.Inf(1)}
}

// Stats counts search work, used for reporting and for verifying pruning and
// memoization behavior.
type Stats struct {
	Nodes        int // nodes expanded (children enumerated)
	Terminal     int // nodes where income already met the bound
	Pruned       int // nodes rejected by the best-so-far bound
	DepthLimited int // nodes rejected by the depth cutoff
	MemoHits     int
	MemoStores   int
}

// Solution is the overall search outcome.
type Solution struct {
	Time    float64
	Path    Path
	Stats   Stats
	Elapsed time.Duration
}

// Options tunes the search. Zero values fall back to defaults.
type Options struct {
	Policy      Policy
	Epsilon     float64       // nudge past payout instants, default 1e-3
	PhaseScale  float64       // payout-phase bucket granularity, default 10
	DisableMemo bool          // bypass the transposition table entirely
	MaxDepth    int           // upgrade-count cutoff, default 256
	Timeout     time.Duration // wall-clock cutoff, default 60s
	OnImprove   func(Result)  // called whenever the global best improves
}

func (o Options) withDefaults() Options {
	if o.Policy == "" {
		o.Policy = PolicyExact
	}
	if o.Epsilon <= 0 {
		o.Epsilon = 1e-3
	}
	if o.PhaseScale <= 0 {
		o.PhaseScale = 10
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = 256
	}
	if o.Timeout <= 0 {
		o.Timeout = 60 * time.Second
	}
	return o
}
