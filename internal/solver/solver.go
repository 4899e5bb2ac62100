package solver

import (
	"math"
	"time"

	"github.com/napolitain/solver-tube/internal/models"
)

// Solver runs a branch-and-bound depth-first search over upgrade sequences,
// looking for the minimum elapsed time at which the economy's aggregate
// income reaches the target bound.
//
// The economy is a single shared instance mutated in place: every branch is
// entered by upgrading one channel and left by degrading it again, so
// siblings are explored strictly sequentially with full undo between them.
// The search context (best-so-far, memo table, statistics) lives on the
// Solver rather than in globals, and traversal uses an explicit frame stack
// so the required depth is not limited by the goroutine stack.
type Solver struct {
	economy *models.Economy
	bound   float64
	opts    Options
	sim     *Simulator
	memo    *Table

	best     Result
	path     Path
	stats    Stats
	deadline time.Time
	aborted  bool
}

// frame is one suspended search node on the explicit traversal stack.
type frame struct {
	key   string  // memo key computed on entry
	cash  float64 // cash on entry
	t     float64 // elapsed time on entry
	depth int
	via   int // channel upgraded to enter this node; -1 for the root
	next  int // next channel index to try
	best  Result
}

// NewSolver creates a solver for the given economy and income bound.
func NewSolver(economy *models.Economy, bound float64, opts Options) *Solver {
	opts = opts.withDefaults()
	return &Solver{
		economy: economy,
		bound:   bound,
		opts:    opts,
		sim:     &Simulator{Policy: opts.Policy, Epsilon: opts.Epsilon},
		memo:    NewTable(opts.PhaseScale, opts.DisableMemo),
	}
}

// Solve searches from the given starting cash and elapsed time. It returns
// ErrBoundUnreachable when the depth or wall-clock cutoff fires before any
// upgrade sequence reaches the bound.
func (s *Solver) Solve(cash, t float64) (*Solution, error) {
	if err := s.economy.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	s.best = worstResult()
	s.path = s.path[:0]
	s.stats = Stats{}
	s.aborted = false
	s.deadline = start.Add(s.opts.Timeout)

	result := s.search(cash, t)

	if result.Time > s.best.Time {
		// A pruned root can only happen via a stale memo hit; the global
		// best is still the answer.
		result = s.best
	}
	if isWorst(result) {
		return nil, ErrBoundUnreachable
	}

	return &Solution{
		Time:    result.Time,
		Path:    result.Path,
		Stats:   s.stats,
		Elapsed: time.Since(start),
	}, nil
}

// Stats returns the counters of the most recent Solve.
func (s *Solver) Stats() Stats {
	return s.stats
}

// search runs the depth-first traversal with an explicit stack. Each frame
// owns exactly one pending upgrade (via); popping a frame degrades that
// channel, restoring the shared economy for the next sibling.
func (s *Solver) search(cash, t float64) Result {
	res, key, resolved := s.enter(cash, t, 0)
	if resolved {
		return res
	}

	stack := make([]frame, 0, s.opts.MaxDepth+1)
	stack = append(stack, frame{key: key, cash: cash, t: t, depth: 0, via: -1, best: worstResult()})

	var final Result
	for len(stack) > 0 {
		f := &stack[len(stack)-1]

		if !s.aborted && time.Now().After(s.deadline) {
			s.aborted = true
		}

		if !s.aborted && f.next < len(s.economy.Channels) {
			i := f.next
			f.next++

			childCash, childT, err := s.sim.BuyNext(s.economy, i, f.cash, f.t)
			if err != nil {
				// Starved branch: the upgrade was never performed, treat
				// this option as hopeless and move on.
				continue
			}

			s.path = append(s.path, Step{Channel: i, Time: childT})
			childRes, childKey, childResolved := s.enter(childCash, childT, f.depth+1)
			if childResolved {
				s.path = s.path[:len(s.path)-1]
				s.economy.Degrade(i)
				if childRes.Time < f.best.Time {
					f.best = childRes
				}
				continue
			}

			stack = append(stack, frame{
				key:   childKey,
				cash:  childCash,
				t:     childT,
				depth: f.depth + 1,
				via:   i,
				best:  worstResult(),
			})
			continue
		}

		// All children explored (or the search aborted): finalize this node.
		res := f.best
		if res.Time < s.best.Time {
			s.best = res
			if s.opts.OnImprove != nil {
				s.opts.OnImprove(res)
			}
		}
		if !s.aborted && s.memo.Store(f.key, res) {
			s.stats.MemoStores++
		}

		via := f.via
		stack = stack[:len(stack)-1]
		if via < 0 {
			final = res
			break
		}
		s.path = s.path[:len(s.path)-1]
		s.economy.Degrade(via)
		parent := &stack[len(stack)-1]
		if res.Time < parent.best.Time {
			parent.best = res
		}
	}

	// An aborted traversal falls through the finalize path frame by frame,
	// so the shared economy is fully degraded back to its starting levels
	// before we return.
	return final
}

// enter evaluates a node's immediate outcomes: memo hit, best-so-far prune,
// terminal income check, and depth cutoff. resolved=false means the node
// must be expanded.
func (s *Solver) enter(cash, t float64, depth int) (res Result, key string, resolved bool) {
	key = s.memo.Key(s.economy, cash, t)
	if stored, ok := s.memo.Lookup(key); ok {
		// The table is lossy by design: this may be the result of a state
		// that only approximately matches. Returned unconditionally.
		s.stats.MemoHits++
		return stored, key, true
	}

	if t > s.best.Time {
		s.stats.Pruned++
		return worstResult(), key, true
	}

	if s.economy.Income() >= s.bound {
		s.stats.Terminal++
		res = Result{Time: t, Path: s.path.Clone()}
		if s.memo.Store(key, res) {
			s.stats.MemoStores++
		}
		return res, key, true
	}

	if depth >= s.opts.MaxDepth {
		s.stats.DepthLimited++
		return worstResult(), key, true
	}

	s.stats.Nodes++
	return Result{}, key, false
}

func isWorst(r Result) bool {
	return math.IsInf(r.Time, 1)
}
