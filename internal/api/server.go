// Package api provides the HTTP API for observing and steering the
// simulation. GET endpoints are public (read-only observation). POST
// endpoints require a bearer token (admin control plane).
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/avelinek/tradewinds/internal/engine"
	"github.com/avelinek/tradewinds/internal/geo"
	"github.com/avelinek/tradewinds/internal/render"
	"github.com/avelinek/tradewinds/internal/world"
)

// Server serves the simulation state over HTTP.
type Server struct {
	Sim      *engine.Simulation
	Eng      *engine.Engine
	RunID    string
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.

	Coastline *geo.Coastline // Optional underlay for /map.svg.
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	renderLimiter := NewRateLimiter(60, time.Hour)

	mux := http.NewServeMux()

	// Public observation endpoints.
	mux.HandleFunc("GET /api/v1/status", s.handleStatus)
	mux.HandleFunc("GET /api/v1/settlements", s.handleSettlements)
	mux.HandleFunc("GET /api/v1/settlement/{name}", s.handleSettlementDetail)
	mux.HandleFunc("GET /api/v1/links", s.handleLinks)
	mux.HandleFunc("GET /api/v1/summary", s.handleSummary)
	mux.HandleFunc("GET /api/v1/events", s.handleEvents)
	mux.HandleFunc("GET /api/v1/map.svg", RateLimitMiddleware(renderLimiter, s.handleMapSVG))
	mux.HandleFunc("GET /api/v1/map.geojson", RateLimitMiddleware(renderLimiter, s.handleMapGeoJSON))

	// Admin control plane.
	mux.HandleFunc("POST /api/v1/settlement/{name}/block", s.requireAdmin(s.handleBlock(true)))
	mux.HandleFunc("POST /api/v1/settlement/{name}/unblock", s.requireAdmin(s.handleBlock(false)))
	mux.HandleFunc("POST /api/v1/step", s.requireAdmin(s.handleStep))
	mux.HandleFunc("POST /api/v1/speed", s.requireAdmin(s.handleSpeed))

	return mux
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	go func() {
		slog.Info("api listening", "addr", addr)
		if err := http.ListenAndServe(addr, s.Handler()); err != nil {
			slog.Error("api server failed", "error", err)
		}
	}()
}

func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey == "" {
			http.Error(w, "admin endpoints disabled", http.StatusForbidden)
			return
		}
		auth := r.Header.Get("Authorization")
		if auth != "Bearer "+s.AdminKey {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats := s.Sim.Stats()
	writeJSON(w, map[string]any{
		"run_id": s.RunID,
		"step":   s.Sim.CurrentStep(),
		"params": s.Sim.Params,
		"stats":  stats,
	})
}

type settlementView struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Blocked bool    `json:"blocked"`
	Food    float64 `json:"food"`
}

func viewOf(sett *world.Settlement) settlementView {
	return settlementView{
		Name:    sett.Name,
		Country: sett.Country,
		Lat:     sett.Position.Lat,
		Lon:     sett.Position.Lon,
		Blocked: sett.Blocked,
		Food:    sett.Food(),
	}
}

func (s *Server) handleSettlements(w http.ResponseWriter, r *http.Request) {
	var views []settlementView
	s.Sim.WithGraph(func(g *world.Graph, _ uint64) {
		for _, name := range g.Names() {
			views = append(views, viewOf(g.Settlements[name]))
		}
	})
	writeJSON(w, views)
}

func (s *Server) handleSettlementDetail(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var view *settlementView
	var links []*world.TradeLink
	s.Sim.WithGraph(func(g *world.Graph, _ uint64) {
		sett := g.Get(name)
		if sett == nil {
			return
		}
		v := viewOf(sett)
		view = &v
		links = g.LinksOf(name)
	})

	if view == nil {
		http.Error(w, fmt.Sprintf("settlement %q not found", name), http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]any{
		"settlement": view,
		"links":      links,
	})
}

func (s *Server) handleLinks(w http.ResponseWriter, r *http.Request) {
	var links []*world.TradeLink
	s.Sim.WithGraph(func(g *world.Graph, _ uint64) {
		links = append(links, g.Links...)
	})
	writeJSON(w, links)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"step":  s.Sim.CurrentStep(),
		"lines": s.Sim.Summary(),
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.Events())
}

func (s *Server) handleMapSVG(w http.ResponseWriter, r *http.Request) {
	opts := render.DefaultSVGOptions()
	opts.Coastline = s.Coastline
	opts.Labels = r.URL.Query().Get("labels") != "off"

	var doc string
	s.Sim.WithGraph(func(g *world.Graph, _ uint64) {
		doc = render.SVG(g, opts)
	})

	w.Header().Set("Content-Type", "image/svg+xml")
	fmt.Fprint(w, doc)
}

func (s *Server) handleMapGeoJSON(w http.ResponseWriter, r *http.Request) {
	var data []byte
	var err error
	s.Sim.WithGraph(func(g *world.Graph, _ uint64) {
		data, err = render.GeoJSON(g)
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.Write(data)
}

func (s *Server) handleBlock(blocked bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")

		var desc string
		var err error
		if blocked {
			desc, err = s.Sim.Block(name)
		} else {
			desc, err = s.Sim.Unblock(name)
		}
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, engine.ErrUnknownSettlement) {
				status = http.StatusNotFound
			}
			http.Error(w, err.Error(), status)
			return
		}
		writeJSON(w, map[string]any{"result": desc})
	}
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	if err := s.Sim.Step(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{
		"step":  s.Sim.CurrentStep(),
		"lines": s.Sim.Summary(),
	})
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	if s.Eng == nil {
		http.Error(w, "engine not running", http.StatusConflict)
		return
	}

	var req struct {
		Speed float64 `json:"speed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Speed < 0 {
		http.Error(w, "speed must be >= 0", http.StatusBadRequest)
		return
	}

	s.Eng.Speed = req.Speed
	slog.Info("engine speed changed", "speed", req.Speed)
	writeJSON(w, map[string]any{"speed": req.Speed})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
