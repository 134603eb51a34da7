// Package world provides the settlement graph: capital cities as nodes and
// distance-bounded trade links as edges.
package world

import (
	"fmt"

	"github.com/avelinek/tradewinds/internal/geo"
)

// ResourceFood is the only resource populated in the base scenario. The
// resources map is keyed by name so further resources slot in without
// structural change.
const ResourceFood = "food"

// Settlement is a capital city node. Name is the unique key. Only Blocked
// and Resources are mutated during simulation; everything else is fixed at
// construction.
type Settlement struct {
	Name     string    `json:"name"`
	Country  string    `json:"country"`
	Position geo.Coord `json:"position"`

	Blocked   bool               `json:"blocked"`
	Resources map[string]float64 `json:"resources"`
}

// Food returns the settlement's current food stock.
func (s *Settlement) Food() float64 {
	return s.Resources[ResourceFood]
}

// String returns the per-step summary line for this settlement.
func (s *Settlement) String() string {
	if s.Blocked {
		return fmt.Sprintf("%s (BLOCKED): food=%.1f", s.Name, s.Food())
	}
	return fmt.Sprintf("%s: food=%.1f", s.Name, s.Food())
}
