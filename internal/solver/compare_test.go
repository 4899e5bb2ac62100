package solver

import (
	"math"
	"testing"
)

// Hand-derived single-channel scenario: the second upgrade costs 20 $ paid
// by 1 $/s of income. The exact policy walks 20 payout events with an
// epsilon nudge each (t = 20.001), while jump and amortized both land on
// t = 20 in one step.
func TestPoliciesAgreeOnHandComputedScenario(t *testing.T) {
	cases := []struct {
		policy Policy
		want   float64
	}{
		{PolicyExact, 20.001},
		{PolicyJump, 20},
		{PolicyAmortized, 20},
	}

	for _, tc := range cases {
		eco := singleChannelEconomy(0)
		sol, err := NewSolver(eco, 2, Options{Policy: tc.policy}).Solve(10, 0)
		if err != nil {
			t.Fatalf("%s: Solve failed: %v", tc.policy, err)
		}
		if math.Abs(sol.Time-tc.want) > 1e-6 {
			t.Errorf("%s: completion time got %g, want %g", tc.policy, sol.Time, tc.want)
		}
		if len(sol.Path) != 2 {
			t.Errorf("%s: path length got %d, want 2", tc.policy, len(sol.Path))
		}
	}
}

// Whatever a policy reports, its upgrade sequence must genuinely reach the
// bound: replaying the path under the exact simulator ends with aggregate
// income at or above the target.
func TestApproximatePathsReachBound(t *testing.T) {
	const bound = 5

	for _, policy := range []Policy{PolicyExact, PolicyJump, PolicyAmortized} {
		sol, err := NewSolver(reachableEconomy(), bound, Options{Policy: policy}).Solve(10, 0)
		if err != nil {
			t.Fatalf("%s: Solve failed: %v", policy, err)
		}
		if len(sol.Path) == 0 {
			t.Fatalf("%s: expected a non-empty upgrade path", policy)
		}

		replay := reachableEconomy()
		sim := &Simulator{Policy: PolicyExact, Epsilon: 1e-3}
		cash, now := 10.0, 0.0
		for k, step := range sol.Path {
			var err error
			cash, now, err = sim.BuyNext(replay, step.Channel, cash, now)
			if err != nil {
				t.Fatalf("%s: replay step %d failed: %v", policy, k, err)
			}
			if cash < 0 {
				t.Fatalf("%s: replay step %d left negative cash %g", policy, k, cash)
			}
		}
		if replay.Income() < bound {
			t.Errorf("%s: replayed path income %g below bound %d", policy, replay.Income(), bound)
		}
		t.Logf("%s: time=%g steps=%d replay income=%g", policy, sol.Time, len(sol.Path), replay.Income())
	}
}

func BenchmarkSolveExact(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := NewSolver(reachableEconomy(), 5, Options{Policy: PolicyExact}).Solve(10, 0); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSolveAmortized(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := NewSolver(reachableEconomy(), 5, Options{Policy: PolicyAmortized}).Solve(10, 0); err != nil {
			b.Fatal(err)
		}
	}
}
