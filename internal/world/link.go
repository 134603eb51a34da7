package world

// TradeLink is an undirected edge between two settlements. Identity is the
// unordered name pair; at most one link exists per pair. DistanceKm is fixed
// at construction and never re-derived.
type TradeLink struct {
	A string `json:"a"`
	B string `json:"b"`

	DistanceKm float64 `json:"distance_km"`
	Capacity   float64 `json:"capacity"`
}

// Other returns the opposite endpoint name, or "" if name is not an endpoint.
func (l *TradeLink) Other(name string) string {
	switch name {
	case l.A:
		return l.B
	case l.B:
		return l.A
	}
	return ""
}

// Touches reports whether name is one of the link's endpoints.
func (l *TradeLink) Touches(name string) bool {
	return l.A == name || l.B == name
}
