// Ticker-driven loop for daemon mode: one simulation step per interval.
package engine

import (
	"log/slog"
	"time"
)

// Engine drives the simulation forward in real time.
type Engine struct {
	Tick     uint64        // Completed tick counter (monotonic).
	Speed    float64       // Multiplier: 1.0 = real-time, 0 = paused.
	Interval time.Duration // Base tick interval.
	Running  bool

	// OnStep runs once per tick. Populated during setup.
	OnStep func(tick uint64)
}

// NewEngine creates an engine with default settings.
func NewEngine() *Engine {
	return &Engine{
		Speed:    1.0,
		Interval: time.Second,
	}
}

// Run starts the loop. Blocks until Stop is called. Each tick runs OnStep
// exactly once; no tick begins before the previous one's work completes.
func (e *Engine) Run() {
	e.Running = true
	slog.Info("engine started", "tick", e.Tick, "speed", e.Speed, "interval", e.Interval)

	for e.Running {
		if e.Speed <= 0 {
			// Paused.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()

		e.Tick++
		if e.OnStep != nil {
			e.OnStep(e.Tick)
		}

		// Sleep for the remainder of the interval, adjusted for speed.
		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / e.Speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("engine stopped", "tick", e.Tick)
}

// Stop halts the loop after the current tick completes.
func (e *Engine) Stop() {
	e.Running = false
}
