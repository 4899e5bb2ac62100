package solver

import (
	"fmt"
	"math"

	"github.com/napolitain/solver-tube/internal/models"
)

// Policy selects how the economic simulator advances (cash, time) to the
// point where a target channel's next upgrade is bought.
type Policy string

const (
	// PolicyExact replays every payout event one by one. It is the
	// correctness reference for the other two.
	PolicyExact Policy = "exact"
	// PolicyJump estimates the waiting time in closed form assuming constant
	// aggregate income, then corrects the residual with exact events.
	PolicyJump Policy = "jump"
	// PolicyAmortized buys immediately and charges the cost as time at the
	// current aggregate income rate. Fastest, least faithful: it does not
	// model discrete payout timing or the cash balance exactly.
	PolicyAmortized Policy = "amortized"
)

// ParsePolicy converts a policy name to a Policy.
func ParsePolicy(name string) (Policy, error) {
	switch Policy(name) {
	case PolicyExact, PolicyJump, PolicyAmortized:
		return Policy(name), nil
	default:
		return "", fmt.Errorf("unknown simulation policy %q", name)
	}
}

// Simulator advances (cash, time) until one more upgrade of a target channel
// has been bought, mutating the economy by performing that upgrade. Every
// policy returns cash >= 0 and time >= the input time; on error the economy
// is left untouched.
type Simulator struct {
	Policy  Policy
	Epsilon float64 // strictly positive nudge past payout instants
}

// BuyNext buys one more upgrade of channel i and returns the resulting
// (cash, time).
func (s *Simulator) BuyNext(eco *models.Economy, i int, cash, t float64) (float64, float64, error) {
	switch s.Policy {
	case PolicyJump:
		return s.buyJump(eco, i, cash, t)
	case PolicyAmortized:
		return s.buyAmortized(eco, i, cash, t)
	default:
		return s.buyExact(eco, i, cash, t)
	}
}

// buyExact repeatedly credits the soonest payout and advances time strictly
// past that instant until the upgrade is affordable, then pays the current
// cost and upgrades.
func (s *Simulator) buyExact(eco *models.Economy, i int, cash, t float64) (float64, float64, error) {
	ch := eco.Channels[i]

	if cash < ch.Cost() && totalPayout(eco) <= 0 {
		return cash, t, errStarved
	}

	for cash < ch.Cost() {
		dt, payout := eco.NextPayout(t)
		cash += payout
		t += dt + s.Epsilon
	}

	cash -= ch.Cost()
	eco.Upgrade(i)
	return cash, t, nil
}

// buyJump jumps time forward by the shortfall divided by the current
// aggregate income, credits each channel the full payout cycles elapsed in
// that window, then lets the exact policy settle any residual shortfall.
func (s *Simulator) buyJump(eco *models.Economy, i int, cash, t float64) (float64, float64, error) {
	ch := eco.Channels[i]

	if cost := ch.Cost(); cash < cost {
		income := eco.Income()
		if income <= 0 {
			return s.buyExact(eco, i, cash, t)
		}
		delta := (cost - cash) / income
		for _, c := range eco.Channels {
			cycles := math.Floor((t+delta)/c.Duration) - math.Floor(t/c.Duration)
			cash += cycles * c.CashOut()
		}
		t += delta
	}

	return s.buyExact(eco, i, cash, t)
}

// buyAmortized buys immediately; when cash does not cover the cost, the
// whole cost is charged as waiting time at the current income rate and the
// cash balance is left as an accounting fiction.
func (s *Simulator) buyAmortized(eco *models.Economy, i int, cash, t float64) (float64, float64, error) {
	ch := eco.Channels[i]

	cost := ch.Cost()
	if cash >= cost {
		cash -= cost
	} else {
		income := eco.Income()
		if income <= 0 {
			return s.buyExact(eco, i, cash, t)
		}
		t += cost / income
	}

	eco.Upgrade(i)
	return cash, t, nil
}

// totalPayout sums the per-cycle payout of every channel.
func totalPayout(eco *models.Economy) float64 {
	total := 0.0
	for _, c := range eco.Channels {
		total += c.CashOut()
	}
	return total
}
