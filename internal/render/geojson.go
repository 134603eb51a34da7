package render

import (
	"encoding/json"

	"github.com/avelinek/tradewinds/internal/world"
)

// feature is a minimal GeoJSON feature.
type feature struct {
	Type       string         `json:"type"`
	Geometry   geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

// GeoJSON exports the graph as a FeatureCollection: one Point per
// settlement, one LineString per trade link.
func GeoJSON(g *world.Graph) ([]byte, error) {
	fc := featureCollection{Type: "FeatureCollection"}

	for _, name := range g.Names() {
		s := g.Settlements[name]
		fc.Features = append(fc.Features, feature{
			Type: "Feature",
			Geometry: geometry{
				Type:        "Point",
				Coordinates: []float64{s.Position.Lon, s.Position.Lat},
			},
			Properties: map[string]any{
				"name":    s.Name,
				"country": s.Country,
				"blocked": s.Blocked,
				"food":    s.Food(),
			},
		})
	}

	for _, l := range g.Links {
		a, b := g.Settlements[l.A], g.Settlements[l.B]
		fc.Features = append(fc.Features, feature{
			Type: "Feature",
			Geometry: geometry{
				Type: "LineString",
				Coordinates: [][]float64{
					{a.Position.Lon, a.Position.Lat},
					{b.Position.Lon, b.Position.Lat},
				},
			},
			Properties: map[string]any{
				"a":           l.A,
				"b":           l.B,
				"distance_km": l.DistanceKm,
				"capacity":    l.Capacity,
			},
		})
	}

	return json.MarshalIndent(fc, "", "  ")
}
