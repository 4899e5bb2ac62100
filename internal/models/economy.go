package models

import (
	"fmt"
	"strings"
)

// Economy is the ordered, index-addressable set of channels. One instance is
// shared across the whole search and mutated in place; the level vector is
// the canonical state fingerprint.
type Economy struct {
	Channels []*Channel
}

// NewEconomy creates an economy over the given channels in order.
func NewEconomy(channels []*Channel) *Economy {
	return &Economy{Channels: channels}
}

// Validate checks every channel definition.
func (e *Economy) Validate() error {
	if len(e.Channels) == 0 {
		return fmt.Errorf("economy has no channels")
	}
	for _, c := range e.Channels {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Income returns the aggregate income rate across all channels.
func (e *Economy) Income() float64 {
	total := 0.0
	for _, c := range e.Channels {
		total += c.Income()
	}
	return total
}

// Upgrade raises channel i by one level.
func (e *Economy) Upgrade(i int) {
	e.Channels[i].Upgrade()
}

// Degrade undoes the most recent upgrade of channel i.
func (e *Economy) Degrade(i int) {
	e.Channels[i].Degrade()
}

// NextPayout returns the shortest wait until any channel pays out and that
// channel's payout amount. Ties are broken by channel index order: the first
// minimum wins.
func (e *Economy) NextPayout(t float64) (dt, amount float64) {
	dt = e.Channels[0].TillCashOut(t)
	amount = e.Channels[0].CashOut()
	for _, c := range e.Channels[1:] {
		if till := c.TillCashOut(t); till < dt {
			dt = till
			amount = c.CashOut()
		}
	}
	return dt, amount
}

// MinCost returns the cheapest next upgrade across channels. Recomputed on
// demand; never cached across a level change.
func (e *Economy) MinCost() float64 {
	min := e.Channels[0].Cost()
	for _, c := range e.Channels[1:] {
		if cost := c.Cost(); cost < min {
			min = cost
		}
	}
	return min
}

// MaxCost returns the most expensive next upgrade across channels.
func (e *Economy) MaxCost() float64 {
	max := e.Channels[0].Cost()
	for _, c := range e.Channels[1:] {
		if cost := c.Cost(); cost > max {
			max = cost
		}
	}
	return max
}

// Levels returns the current level vector in channel order.
func (e *Economy) Levels() []int {
	levels := make([]int, len(e.Channels))
	for i, c := range e.Channels {
		levels[i] = c.Level
	}
	return levels
}

// Clone returns an independent copy of the economy. The search itself never
// clones; this exists for replaying a path against the starting state.
func (e *Economy) Clone() *Economy {
	channels := make([]*Channel, len(e.Channels))
	for i, c := range e.Channels {
		channels[i] = c.Clone()
	}
	return &Economy{Channels: channels}
}

func (e *Economy) String() string {
	parts := make([]string, len(e.Channels))
	for i, c := range e.Channels {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}
