package geo

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"
)

// DefaultCoastlineURL is the remote fallback for the bundled coastline
// dataset (Natural Earth 1:110m coastline, GeoJSON).
const DefaultCoastlineURL = "https://raw.githubusercontent.com/nvkelso/natural-earth-vector/master/geojson/ne_110m_coastline.geojson"

// Coastline is a set of polylines in lon/lat degrees, used only as a map
// underlay. Simulation state never depends on it.
type Coastline struct {
	Lines [][]Coord
}

// LoadCoastline reads the coastline dataset from the given local path. If the
// local read or parse fails it falls back to fetching the dataset from url
// (DefaultCoastlineURL when empty). If the fallback also fails, both errors
// are returned; there is no retry.
func LoadCoastline(path, url string) (*Coastline, error) {
	data, localErr := os.ReadFile(path)
	if localErr == nil {
		cl, parseErr := parseCoastline(data)
		if parseErr == nil {
			return cl, nil
		}
		localErr = parseErr
	}

	if url == "" {
		url = DefaultCoastlineURL
	}
	slog.Warn("bundled coastline unavailable, fetching remote", "path", path, "error", localErr, "url", url)

	cl, remoteErr := fetchCoastline(url)
	if remoteErr != nil {
		return nil, fmt.Errorf("coastline: local %q: %w; remote %q: %v", path, localErr, url, remoteErr)
	}
	return cl, nil
}

func fetchCoastline(url string) (*Coastline, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return parseCoastline(data)
}

// geoJSON covers the subset of GeoJSON the coastline dataset uses:
// a FeatureCollection of LineString / MultiLineString features.
type geoJSON struct {
	Features []struct {
		Geometry struct {
			Type        string          `json:"type"`
			Coordinates json.RawMessage `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

func parseCoastline(data []byte) (*Coastline, error) {
	var doc geoJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}
	if len(doc.Features) == 0 {
		return nil, fmt.Errorf("parse geojson: no features")
	}

	cl := &Coastline{}
	for _, f := range doc.Features {
		switch f.Geometry.Type {
		case "LineString":
			var pts [][2]float64
			if err := json.Unmarshal(f.Geometry.Coordinates, &pts); err != nil {
				return nil, fmt.Errorf("parse linestring: %w", err)
			}
			cl.Lines = append(cl.Lines, toLine(pts))
		case "MultiLineString":
			var lines [][][2]float64
			if err := json.Unmarshal(f.Geometry.Coordinates, &lines); err != nil {
				return nil, fmt.Errorf("parse multilinestring: %w", err)
			}
			for _, pts := range lines {
				cl.Lines = append(cl.Lines, toLine(pts))
			}
		}
	}
	return cl, nil
}

func toLine(pts [][2]float64) []Coord {
	line := make([]Coord, len(pts))
	for i, p := range pts {
		// GeoJSON positions are [lon, lat].
		line[i] = Coord{Lon: p[0], Lat: p[1]}
	}
	return line
}
