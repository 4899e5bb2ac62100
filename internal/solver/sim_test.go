package solver

import (
	"math"
	"testing"

	"github.com/napolitain/solver-tube/internal/models"
)

func singleChannelEconomy(level int) *models.Economy {
	return models.NewEconomy([]*models.Channel{
		models.NewChannel("solo", 10, 2, 1, 1, 1, level, nil),
	})
}

func TestExactBuysImmediatelyWhenAffordable(t *testing.T) {
	eco := singleChannelEconomy(0)
	sim := &Simulator{Policy: PolicyExact, Epsilon: 1e-3}

	cash, tt, err := sim.BuyNext(eco, 0, 10, 0)
	if err != nil {
		t.Fatalf("BuyNext failed: %v", err)
	}
	if cash != 0 {
		t.Errorf("cash after purchase: got %g, want 0", cash)
	}
	if tt != 0 {
		t.Errorf("time should not advance for an affordable purchase: got %g", tt)
	}
	if eco.Channels[0].Level != 1 {
		t.Errorf("level after purchase: got %d, want 1", eco.Channels[0].Level)
	}
}

func TestExactWaitsForPayouts(t *testing.T) {
	eco := singleChannelEconomy(1)
	sim := &Simulator{Policy: PolicyExact, Epsilon: 1e-3}

	// Level 1 pays 1 $ per 1 s cycle; the next upgrade costs 20. Starting
	// broke, the simulator must collect 20 payouts, landing at t = 20 + eps.
	cash, tt, err := sim.BuyNext(eco, 0, 0, 0)
	if err != nil {
		t.Fatalf("BuyNext failed: %v", err)
	}
	if cash < 0 {
		t.Errorf("cash must stay non-negative, got %g", cash)
	}
	if math.Abs(tt-20.001) > 1e-6 {
		t.Errorf("time after waiting: got %g, want 20.001", tt)
	}
	if eco.Channels[0].Level != 2 {
		t.Errorf("level after purchase: got %d, want 2", eco.Channels[0].Level)
	}
}

func TestExactInvariants(t *testing.T) {
	eco := models.NewEconomy([]*models.Channel{
		models.NewChannel("a", 5, 1.5, 2, 3, 1, 1, nil),
		models.NewChannel("b", 20, 1.3, 3, 2, 4, 1, map[int]float64{2: 2}),
	})
	sim := &Simulator{Policy: PolicyExact, Epsilon: 1e-3}

	cash, tt := 0.0, 0.0
	for step := 0; step < 12; step++ {
		i := step % len(eco.Channels)
		nextCash, nextT, err := sim.BuyNext(eco, i, cash, tt)
		if err != nil {
			t.Fatalf("step %d: BuyNext failed: %v", step, err)
		}
		if nextCash < 0 {
			t.Errorf("step %d: negative cash %g", step, nextCash)
		}
		if nextT < tt {
			t.Errorf("step %d: time went backwards: %g < %g", step, nextT, tt)
		}
		cash, tt = nextCash, nextT
	}
}

func TestExactStarvedEconomy(t *testing.T) {
	// No channel has a level, so no payout can ever happen: waiting for
	// cash would loop forever. The simulator must refuse instead.
	eco := singleChannelEconomy(0)
	sim := &Simulator{Policy: PolicyExact, Epsilon: 1e-3}

	_, _, err := sim.BuyNext(eco, 0, 0, 0)
	if err == nil {
		t.Fatal("expected an error for a starved economy")
	}
	if eco.Channels[0].Level != 0 {
		t.Errorf("economy must be untouched on error: level %d", eco.Channels[0].Level)
	}
}

func TestJumpMatchesExactWhenAffordable(t *testing.T) {
	exactEco := singleChannelEconomy(0)
	jumpEco := singleChannelEconomy(0)

	exact := &Simulator{Policy: PolicyExact, Epsilon: 1e-3}
	jump := &Simulator{Policy: PolicyJump, Epsilon: 1e-3}

	ec, et, err := exact.BuyNext(exactEco, 0, 15, 2)
	if err != nil {
		t.Fatalf("exact failed: %v", err)
	}
	jc, jt, err := jump.BuyNext(jumpEco, 0, 15, 2)
	if err != nil {
		t.Fatalf("jump failed: %v", err)
	}

	if ec != jc || et != jt {
		t.Errorf("affordable purchase should be identical: exact=(%g,%g) jump=(%g,%g)", ec, et, jc, jt)
	}
}

func TestJumpSettlesResidualWithExactEvents(t *testing.T) {
	eco := singleChannelEconomy(1)
	sim := &Simulator{Policy: PolicyJump, Epsilon: 1e-3}

	cash, tt, err := sim.BuyNext(eco, 0, 0, 0)
	if err != nil {
		t.Fatalf("BuyNext failed: %v", err)
	}
	if cash < 0 {
		t.Errorf("cash must stay non-negative, got %g", cash)
	}
	if tt < 19 {
		t.Errorf("a 20 $ shortfall at 1 $/s cannot resolve before t=19, got %g", tt)
	}
	if eco.Channels[0].Level != 2 {
		t.Errorf("level after purchase: got %d, want 2", eco.Channels[0].Level)
	}
}

func TestAmortizedChargesCostAsTime(t *testing.T) {
	eco := singleChannelEconomy(1)
	sim := &Simulator{Policy: PolicyAmortized, Epsilon: 1e-3}

	// Income is 1 $/s and the upgrade costs 20, so time advances by 20.
	cash, tt, err := sim.BuyNext(eco, 0, 0, 5)
	if err != nil {
		t.Fatalf("BuyNext failed: %v", err)
	}
	if math.Abs(tt-25) > 1e-9 {
		t.Errorf("time: got %g, want 25", tt)
	}
	if cash != 0 {
		t.Errorf("cash: got %g, want 0", cash)
	}
	if eco.Channels[0].Level != 2 {
		t.Errorf("level after purchase: got %d, want 2", eco.Channels[0].Level)
	}
}

func TestAmortizedSpendsCashWhenAffordable(t *testing.T) {
	eco := singleChannelEconomy(0)
	sim := &Simulator{Policy: PolicyAmortized, Epsilon: 1e-3}

	cash, tt, err := sim.BuyNext(eco, 0, 12, 3)
	if err != nil {
		t.Fatalf("BuyNext failed: %v", err)
	}
	if cash != 2 {
		t.Errorf("cash: got %g, want 2", cash)
	}
	if tt != 3 {
		t.Errorf("time should not advance for an affordable purchase: got %g", tt)
	}
}

func TestParsePolicy(t *testing.T) {
	for _, name := range []string{"exact", "jump", "amortized"} {
		if _, err := ParsePolicy(name); err != nil {
			t.Errorf("ParsePolicy(%q) failed: %v", name, err)
		}
	}
	if _, err := ParsePolicy("greedy"); err == nil {
		t.Error("unknown policy should be rejected")
	}
}
