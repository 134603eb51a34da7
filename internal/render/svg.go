// Package render draws the settlement graph on an equirectangular world
// map. Purely presentational: nothing here feeds back into simulation
// state.
package render

import (
	"fmt"
	"strings"

	"github.com/avelinek/tradewinds/internal/geo"
	"github.com/avelinek/tradewinds/internal/world"
)

// MapSize is the default SVG canvas size. Width:height is 2:1 to match the
// equirectangular projection.
const (
	MapWidth  = 1200
	MapHeight = 600
)

// SVGOptions controls map rendering.
type SVGOptions struct {
	Width     int
	Height    int
	Coastline *geo.Coastline // Optional underlay; nil renders the bare graph.
	Labels    bool           // Draw settlement names.
}

// DefaultSVGOptions returns the standard canvas with labels on.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{Width: MapWidth, Height: MapHeight, Labels: true}
}

// SVG renders the graph as an SVG document: links as line segments,
// settlements as points in two visual classes (blocked vs unblocked).
func SVG(g *world.Graph, opts SVGOptions) string {
	w, h := opts.Width, opts.Height
	if w <= 0 {
		w = MapWidth
	}
	if h <= 0 {
		h = MapHeight
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n", w, h, w, h)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="#eef4f8"/>`+"\n", w, h)

	if opts.Coastline != nil {
		b.WriteString(`<g stroke="#9db4c0" stroke-width="0.5" fill="none">` + "\n")
		for _, line := range opts.Coastline.Lines {
			writePolyline(&b, line, w, h)
		}
		b.WriteString("</g>\n")
	}

	b.WriteString(`<g stroke="#8a8a8a" stroke-width="1">` + "\n")
	for _, l := range g.Links {
		ax, ay := project(g.Settlements[l.A].Position, w, h)
		bx, by := project(g.Settlements[l.B].Position, w, h)
		fmt.Fprintf(&b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", ax, ay, bx, by)
	}
	b.WriteString("</g>\n")

	for _, name := range g.Names() {
		s := g.Settlements[name]
		x, y := project(s.Position, w, h)
		fill := "#2c7a3f"
		if s.Blocked {
			fill = "#c0392b"
		}
		fmt.Fprintf(&b, `<circle cx="%.1f" cy="%.1f" r="5" fill="%s" stroke="#222" stroke-width="1"/>`+"\n", x, y, fill)
		if opts.Labels {
			fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" font-size="10" font-family="sans-serif" fill="#222">%s</text>`+"\n",
				x+7, y-5, escape(s.Name))
		}
	}

	b.WriteString("</svg>\n")
	return b.String()
}

// project maps lon/lat degrees onto canvas pixels (equirectangular).
func project(c geo.Coord, w, h int) (float64, float64) {
	x := (c.Lon + 180) / 360 * float64(w)
	y := (90 - c.Lat) / 180 * float64(h)
	return x, y
}

func writePolyline(b *strings.Builder, line []geo.Coord, w, h int) {
	if len(line) < 2 {
		return
	}
	b.WriteString(`<polyline points="`)
	for i, c := range line {
		if i > 0 {
			b.WriteByte(' ')
		}
		x, y := project(c, w, h)
		fmt.Fprintf(b, "%.1f,%.1f", x, y)
	}
	b.WriteString(`"/>` + "\n")
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
