package models

import (
	"fmt"
	"math"
)

// Channel represents one upgradeable income source: a periodic payout of
// views*revenue*multiplier*level every Duration seconds, with an upgrade
// cost that grows geometrically with the level.
type Channel struct {
	Name string

	// Cost parameters: Cost(level) = InitialCost * CostRate^level
	InitialCost float64
	CostRate    float64

	// Reward parameters
	Duration float64 // payout cycle length in seconds
	Views    float64
	Revenue  float64 // revenue per view

	Level int

	// Multipliers is a sparse level -> factor table. Multiplier is the
	// running product of the factors for every level reached so far and is
	// only ever changed through Upgrade/Degrade.
	Multipliers map[int]float64
	Multiplier  float64
}

// NewChannel creates a channel with the multiplier product initialized for
// its starting level.
func NewChannel(name string, initialCost, costRate, duration, views, revenue float64, level int, multipliers map[int]float64) *Channel {
	c := &Channel{
		Name:        name,
		InitialCost: initialCost,
		CostRate:    costRate,
		Duration:    duration,
		Views:       views,
		Revenue:     revenue,
		Multipliers: multipliers,
		Multiplier:  1,
	}
	for lvl := 1; lvl <= level; lvl++ {
		c.Level = lvl
		c.Multiplier *= c.factor(lvl)
	}
	c.Level = level
	return c
}

// Validate checks the channel parameters that the search depends on.
func (c *Channel) Validate() error {
	if c.Duration <= 0 {
		return fmt.Errorf("channel %s: payout duration must be positive, got %g", c.Name, c.Duration)
	}
	if c.InitialCost <= 0 {
		return fmt.Errorf("channel %s: initial cost must be positive, got %g", c.Name, c.InitialCost)
	}
	if c.CostRate <= 0 {
		return fmt.Errorf("channel %s: cost rate must be positive, got %g", c.Name, c.CostRate)
	}
	if c.Level < 0 {
		return fmt.Errorf("channel %s: level must be >= 0, got %d", c.Name, c.Level)
	}
	return nil
}

// factor returns the multiplier table entry for a level, defaulting to 1.
func (c *Channel) factor(level int) float64 {
	if f, ok := c.Multipliers[level]; ok {
		return f
	}
	return 1
}

// Upgrade raises the level by one, folds the new level's factor into the
// cumulative multiplier, and returns the payout cycle duration.
func (c *Channel) Upgrade() float64 {
	c.Level++
	c.Multiplier *= c.factor(c.Level)
	return c.Duration
}

// Degrade is the exact inverse of Upgrade: it divides out the current
// level's factor, then decrements the level. It must only be called
// immediately after the matching Upgrade in backtracking order.
func (c *Channel) Degrade() {
	c.Multiplier /= c.factor(c.Level)
	c.Level--
}

// Cost returns the price of the next upgrade at the current level.
func (c *Channel) Cost() float64 {
	return c.InitialCost * math.Pow(c.CostRate, float64(c.Level))
}

// CashOut returns the lump sum paid once per cycle at the current level.
func (c *Channel) CashOut() float64 {
	return c.Views * c.Revenue * c.Multiplier * float64(c.Level)
}

// Income returns the average income rate in $/s at the current level.
func (c *Channel) Income() float64 {
	return c.CashOut() / c.Duration
}

// TillCashOut returns the time remaining until the next payout instant.
func (c *Channel) TillCashOut(t float64) float64 {
	return c.Duration - math.Mod(t, c.Duration)
}

// SinceCashOut returns the time elapsed since the previous payout instant.
func (c *Channel) SinceCashOut(t float64) float64 {
	return math.Mod(t, c.Duration)
}

// Clone returns an independent copy sharing the immutable multiplier table.
func (c *Channel) Clone() *Channel {
	clone := *c
	return &clone
}

func (c *Channel) String() string {
	return fmt.Sprintf("%s@%d(%.2f $/s, %.0f)", c.Name, c.Level, c.Income(), c.Cost())
}
