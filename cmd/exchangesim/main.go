// Command exchangesim runs the capital exchange simulator as a daemon:
// one production-then-trade step per tick, observable and steerable over
// the HTTP API, with SQLite snapshots across restarts.
package main

import (
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/avelinek/tradewinds/internal/api"
	"github.com/avelinek/tradewinds/internal/engine"
	"github.com/avelinek/tradewinds/internal/geo"
	"github.com/avelinek/tradewinds/internal/persistence"
	"github.com/avelinek/tradewinds/internal/scenario"
	"github.com/avelinek/tradewinds/internal/world"
)

// Snapshot save cadence, in ticks.
const saveEvery = 10

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Configuration from environment.
	dbPath := envOrDefault("EXCHANGE_DB", "data/exchange.db")
	scenarioPath := os.Getenv("EXCHANGE_SCENARIO")
	coastlinePath := os.Getenv("EXCHANGE_COASTLINE")
	coastlineURL := os.Getenv("EXCHANGE_COASTLINE_URL")
	adminKey := os.Getenv("EXCHANGE_ADMIN_KEY")
	apiPort := envIntOrDefault("EXCHANGE_PORT", 8080)
	intervalSec := envIntOrDefault("EXCHANGE_INTERVAL", 5)

	if adminKey == "" {
		slog.Warn("EXCHANGE_ADMIN_KEY not set — admin POST endpoints will be disabled")
	}

	// ── Scenario ──────────────────────────────────────────────────────
	sc := scenario.Default()
	if scenarioPath != "" {
		var err error
		sc, err = scenario.Load(scenarioPath)
		if err != nil {
			slog.Error("failed to load scenario", "path", scenarioPath, "error", err)
			os.Exit(1)
		}
	}
	slog.Info("scenario ready", "name", sc.Name, "capitals", len(sc.Capitals), "link_max_km", sc.LinkMaxKm)

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll(filepath.Dir(dbPath), 0755)
	db, err := persistence.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", dbPath)

	runID, err := db.RunID()
	if err != nil {
		slog.Error("failed to resolve run id", "error", err)
		os.Exit(1)
	}

	// ── Load or Build Graph ───────────────────────────────────────────
	var g *world.Graph
	var startStep uint64

	if db.HasSnapshot() {
		slog.Info("found saved snapshot, loading...")
		g, startStep, err = db.LoadGraph()
		if err != nil {
			slog.Error("failed to load snapshot", "error", err)
			os.Exit(1)
		}
		slog.Info("snapshot restored",
			"settlements", len(g.Settlements),
			"links", len(g.Links),
			"step", startStep,
		)
	} else {
		slog.Info("no saved snapshot, building graph from scenario...")
		g, err = sc.Build()
		if err != nil {
			slog.Error("failed to build graph", "error", err)
			os.Exit(1)
		}
		slog.Info("graph built", "settlements", len(g.Settlements), "links", len(g.Links))

		if err := db.SaveGraph(g, 0); err != nil {
			slog.Error("initial save failed", "error", err)
		}
	}

	// ── Coastline (map underlay, optional) ────────────────────────────
	var coastline *geo.Coastline
	if coastlinePath != "" {
		coastline, err = geo.LoadCoastline(coastlinePath, coastlineURL)
		if err != nil {
			slog.Error("failed to load coastline", "error", err)
			os.Exit(1)
		}
		slog.Info("coastline loaded", "lines", len(coastline.Lines))
	}

	// ── Simulation ────────────────────────────────────────────────────
	sim := engine.NewSimulation(g, sc.Params)
	sim.SetLastStep(startStep)

	eng := engine.NewEngine()
	eng.Tick = startStep
	eng.Interval = time.Duration(intervalSec) * time.Second

	eng.OnStep = func(tick uint64) {
		if err := sim.Step(); err != nil {
			slog.Error("step failed", "tick", tick, "error", err)
			eng.Stop()
			return
		}
		if tick%saveEvery == 0 {
			sim.WithGraph(func(g *world.Graph, lastStep uint64) {
				if err := db.SaveGraph(g, lastStep); err != nil {
					slog.Error("periodic save failed", "error", err)
				}
			})
		}
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	apiServer := &api.Server{
		Sim:       sim,
		Eng:       eng,
		RunID:     runID,
		Port:      apiPort,
		AdminKey:  adminKey,
		Coastline: coastline,
	}
	apiServer.Start()

	// ── Start ─────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		eng.Stop()
	}()

	slog.Info("capital exchange running",
		"run_id", runID,
		"settlements", len(g.Settlements),
		"links", len(g.Links),
		"step", startStep,
		"api_port", apiPort,
	)

	eng.Run()

	// Final save on shutdown.
	slog.Info("final save...")
	sim.WithGraph(func(g *world.Graph, lastStep uint64) {
		if err := db.SaveGraph(g, lastStep); err != nil {
			slog.Error("final save failed", "error", err)
		}
	})

	slog.Info("simulation stopped, snapshot saved")
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOrDefault(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
