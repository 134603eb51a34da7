package world

import (
	"fmt"
	"sort"

	"github.com/avelinek/tradewinds/internal/geo"
)

// Default graph construction parameters.
const (
	DefaultLinkMaxKm    = 3000.0 // Two capitals trade iff within this distance.
	DefaultFood         = 100.0
	DefaultLinkCapacity = 50.0 // Placeholder; the per-step cap lives in the engine.
)

// CapitalRow is one entry of the static capital table the graph is built
// from.
type CapitalRow struct {
	Country string  `yaml:"country"`
	Capital string  `yaml:"capital"`
	Lat     float64 `yaml:"lat"`
	Lon     float64 `yaml:"lon"`
}

// BuildConfig controls graph construction.
type BuildConfig struct {
	LinkMaxKm    float64 // Great-circle link threshold in km.
	InitialFood  float64 // Starting food stock per settlement.
	LinkCapacity float64 // Capacity constant stamped on every link.
}

// DefaultBuildConfig returns the base-scenario construction parameters.
func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		LinkMaxKm:    DefaultLinkMaxKm,
		InitialFood:  DefaultFood,
		LinkCapacity: DefaultLinkCapacity,
	}
}

// Graph holds the complete settlement graph. Links are stored once per
// unordered pair, ordered lexicographically by (A, B) so iteration is
// deterministic.
type Graph struct {
	Settlements map[string]*Settlement
	Links       []*TradeLink
}

// Build constructs the settlement graph from a capital table: one node per
// row, one link per pair of capitals within cfg.LinkMaxKm great-circle
// distance. The distance test runs once, here; links are never re-derived.
func Build(rows []CapitalRow, cfg BuildConfig) (*Graph, error) {
	g := &Graph{Settlements: make(map[string]*Settlement, len(rows))}

	for _, row := range rows {
		if row.Capital == "" {
			return nil, fmt.Errorf("capital table: row for %q has no capital name", row.Country)
		}
		if _, dup := g.Settlements[row.Capital]; dup {
			return nil, fmt.Errorf("capital table: duplicate settlement %q", row.Capital)
		}
		g.Settlements[row.Capital] = &Settlement{
			Name:      row.Capital,
			Country:   row.Country,
			Position:  geo.Coord{Lat: row.Lat, Lon: row.Lon},
			Resources: map[string]float64{ResourceFood: cfg.InitialFood},
		}
	}

	// Pairwise distance test over sorted names keeps link order stable.
	names := g.Names()
	for i, a := range names {
		for _, b := range names[i+1:] {
			sa, sb := g.Settlements[a], g.Settlements[b]
			dist := geo.Distance(sa.Position, sb.Position)
			if dist <= cfg.LinkMaxKm {
				g.Links = append(g.Links, &TradeLink{
					A:          a,
					B:          b,
					DistanceKm: dist,
					Capacity:   cfg.LinkCapacity,
				})
			}
		}
	}

	return g, nil
}

// Get returns the settlement with the given name, or nil.
func (g *Graph) Get(name string) *Settlement {
	return g.Settlements[name]
}

// Names returns all settlement names in lexicographic order.
func (g *Graph) Names() []string {
	names := make([]string, 0, len(g.Settlements))
	for name := range g.Settlements {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LinksOf returns every link touching the named settlement.
func (g *Graph) LinksOf(name string) []*TradeLink {
	var links []*TradeLink
	for _, l := range g.Links {
		if l.Touches(name) {
			links = append(links, l)
		}
	}
	return links
}

// String returns a summary of the graph.
func (g *Graph) String() string {
	return fmt.Sprintf("Graph(settlements=%d, links=%d)", len(g.Settlements), len(g.Links))
}
