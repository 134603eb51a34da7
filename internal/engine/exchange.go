// Package engine advances the settlement graph through discrete
// production-then-trade turns.
package engine

import (
	"errors"
	"fmt"

	"github.com/avelinek/tradewinds/internal/world"
)

// Invalid-argument conditions. The core operations fail fast on malformed
// inputs rather than mutating state.
var (
	ErrNegativeAmount    = errors.New("negative amount")
	ErrNegativeSteps     = errors.New("negative step count")
	ErrUnknownSettlement = errors.New("unknown settlement")
)

// Default turn parameters.
const (
	DefaultProduction     = 10.0
	DefaultTradeThreshold = 100.0
	DefaultTradeCap       = 20.0
)

// Params are the per-turn simulation parameters.
type Params struct {
	Production     float64 `yaml:"production"`      // Food produced per unblocked settlement per turn.
	TradeThreshold float64 `yaml:"trade_threshold"` // Food level considered comfortable.
	TradeCap       float64 `yaml:"trade_cap"`       // Max quantity moved across one link per turn.
}

// DefaultParams returns the base-scenario parameters.
func DefaultParams() Params {
	return Params{
		Production:     DefaultProduction,
		TradeThreshold: DefaultTradeThreshold,
		TradeCap:       DefaultTradeCap,
	}
}

// Produce adds amount food to every unblocked settlement. Blocked
// settlements are left untouched.
func Produce(g *world.Graph, amount float64) error {
	if amount < 0 {
		return fmt.Errorf("produce: amount %v: %w", amount, ErrNegativeAmount)
	}
	for _, s := range g.Settlements {
		if s.Blocked {
			continue
		}
		s.Resources[world.ResourceFood] += amount
	}
	return nil
}

// Trade moves food across links from surplus to deficit. Flow on every link
// is decided from stock levels as of entry to this call: flows accumulate
// per settlement and are applied once at the end, so one link's outcome
// never influences another's within the same turn.
//
// A link carries flow only when one endpoint is strictly above threshold and
// the other strictly below; the quantity is min(surplus, deficit, cap).
// Links with a blocked endpoint are skipped entirely.
func Trade(g *world.Graph, threshold, cap float64) error {
	if cap < 0 {
		return fmt.Errorf("trade: cap %v: %w", cap, ErrNegativeAmount)
	}

	netFlow := make(map[string]float64, len(g.Settlements))

	for _, l := range g.Links {
		a, b := g.Settlements[l.A], g.Settlements[l.B]
		if a.Blocked || b.Blocked {
			continue
		}

		donor, recipient := a, b
		if b.Food() > threshold && a.Food() < threshold {
			donor, recipient = b, a
		} else if !(a.Food() > threshold && b.Food() < threshold) {
			// Both above, both below, or exactly at threshold: no flow.
			continue
		}

		surplus := donor.Food() - threshold
		deficit := threshold - recipient.Food()
		flow := min(surplus, deficit, cap)

		netFlow[donor.Name] -= flow
		netFlow[recipient.Name] += flow
	}

	for name, flow := range netFlow {
		g.Settlements[name].Resources[world.ResourceFood] += flow
	}
	return nil
}

// Step runs one full turn: produce, then trade, in that order. Food produced
// this turn is available for trade in the same turn.
func Step(g *world.Graph, p Params) error {
	if err := Produce(g, p.Production); err != nil {
		return err
	}
	return Trade(g, p.TradeThreshold, p.TradeCap)
}

// Run applies Step sequentially the given number of times. steps = 0 is a
// no-op. On error, mutations from completed steps remain applied.
func Run(g *world.Graph, steps int, p Params) error {
	if steps < 0 {
		return fmt.Errorf("run: steps %d: %w", steps, ErrNegativeSteps)
	}
	for i := 0; i < steps; i++ {
		if err := Step(g, p); err != nil {
			return fmt.Errorf("run: step %d: %w", i+1, err)
		}
	}
	return nil
}

// SetBlocked toggles a settlement's blocked flag. The change takes effect
// from the next produce or trade pass.
func SetBlocked(g *world.Graph, name string, blocked bool) error {
	s := g.Get(name)
	if s == nil {
		return fmt.Errorf("set blocked: %q: %w", name, ErrUnknownSettlement)
	}
	s.Blocked = blocked
	return nil
}

// Summary returns one line per settlement in lexicographic name order,
// formatted "<city>[ (BLOCKED)]: food=<value>" with one decimal place.
func Summary(g *world.Graph) []string {
	names := g.Names()
	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = g.Settlements[name].String()
	}
	return lines
}
