// Simulation wraps the settlement graph with step tracking, events, and
// aggregate statistics for the daemon and API.
package engine

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/avelinek/tradewinds/internal/world"
)

// maxEvents bounds the in-memory event ring. Events are never persisted.
const maxEvents = 1000

// Simulation owns the live graph. All access from the engine loop and the
// API goes through its methods; a single mutex serializes them.
type Simulation struct {
	mu sync.Mutex

	Graph  *world.Graph
	Params Params

	lastStep uint64
	events   []Event
}

// Event is a notable occurrence: a block/unblock intervention or a step
// milestone.
type Event struct {
	Step        uint64         `json:"step"`
	Description string         `json:"description"`
	Category    string         `json:"category"` // "intervention", "step"
	Meta        map[string]any `json:"meta,omitempty"`
}

// SimStats tracks aggregate graph statistics.
type SimStats struct {
	Settlements int     `json:"settlements"`
	Links       int     `json:"links"`
	Blocked     int     `json:"blocked"`
	TotalFood   float64 `json:"total_food"`
	MinFood     float64 `json:"min_food"`
	MaxFood     float64 `json:"max_food"`
}

// NewSimulation wraps a built graph with the given turn parameters.
func NewSimulation(g *world.Graph, p Params) *Simulation {
	return &Simulation{Graph: g, Params: p}
}

// CurrentStep returns the most recently completed step number.
func (s *Simulation) CurrentStep() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastStep
}

// SetLastStep restores the step counter from a loaded snapshot.
func (s *Simulation) SetLastStep(step uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastStep = step
}

// Step advances the simulation by one production-then-trade turn and logs
// the per-settlement summary.
func (s *Simulation) Step() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := Step(s.Graph, s.Params); err != nil {
		return fmt.Errorf("step %d: %w", s.lastStep+1, err)
	}
	s.lastStep++

	for _, line := range Summary(s.Graph) {
		slog.Info("settlement", "step", s.lastStep, "summary", line)
	}
	return nil
}

// RunSteps advances the simulation by n turns, strictly sequentially.
func (s *Simulation) RunSteps(n int) error {
	if n < 0 {
		return fmt.Errorf("run steps %d: %w", n, ErrNegativeSteps)
	}
	for i := 0; i < n; i++ {
		if err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Block marks a settlement blocked, suppressing its production and trade
// from the next turn on.
func (s *Simulation) Block(name string) (string, error) {
	return s.setBlocked(name, true, "%s is blocked: production halts and trade routes close")
}

// Unblock restores a settlement to normal production and trade.
func (s *Simulation) Unblock(name string) (string, error) {
	return s.setBlocked(name, false, "%s is open again: production and trade resume")
}

func (s *Simulation) setBlocked(name string, blocked bool, format string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := SetBlocked(s.Graph, name, blocked); err != nil {
		return "", err
	}

	desc := fmt.Sprintf(format, name)
	s.emitEvent(Event{
		Step:        s.lastStep,
		Description: desc,
		Category:    "intervention",
		Meta: map[string]any{
			"settlement_name": name,
			"blocked":         blocked,
		},
	})

	slog.Info("block intervention", "settlement", name, "blocked", blocked, "step", s.lastStep)
	return desc, nil
}

// Summary returns the per-settlement summary lines in lexicographic order.
func (s *Simulation) Summary() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summary(s.Graph)
}

// Events returns a copy of the recent event ring.
func (s *Simulation) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// emitEvent appends to the event ring, trimming old entries. Callers hold mu.
func (s *Simulation) emitEvent(e Event) {
	s.events = append(s.events, e)
	if len(s.events) > maxEvents {
		s.events = s.events[len(s.events)-maxEvents:]
	}
}

// Stats computes aggregate statistics over the graph.
func (s *Simulation) Stats() SimStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := SimStats{
		Settlements: len(s.Graph.Settlements),
		Links:       len(s.Graph.Links),
	}

	first := true
	for _, sett := range s.Graph.Settlements {
		if sett.Blocked {
			stats.Blocked++
		}
		food := sett.Food()
		stats.TotalFood += food
		if first || food < stats.MinFood {
			stats.MinFood = food
		}
		if first || food > stats.MaxFood {
			stats.MaxFood = food
		}
		first = false
	}
	return stats
}

// WithGraph runs fn with the mutex held, for callers that need a consistent
// read of the live graph (snapshot save, rendering).
func (s *Simulation) WithGraph(fn func(g *world.Graph, lastStep uint64)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.Graph, s.lastStep)
}
