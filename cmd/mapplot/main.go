// Command mapplot runs a scenario for a fixed number of steps and renders
// the resulting graph: per-step summaries on stdout, SVG world map (and
// optional GeoJSON) on disk.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/avelinek/tradewinds/internal/engine"
	"github.com/avelinek/tradewinds/internal/geo"
	"github.com/avelinek/tradewinds/internal/render"
	"github.com/avelinek/tradewinds/internal/scenario"
)

func main() {
	var (
		scenarioPath  = flag.String("scenario", "", "scenario YAML path (default: built-in capital table)")
		steps         = flag.Int("steps", 6, "number of simulation steps to run")
		blockName     = flag.String("block", "", "settlement to block before the run")
		blockAfter    = flag.Int("block-after", 0, "block the settlement after this many steps (0 = from the start)")
		svgPath       = flag.String("svg", "map.svg", "output SVG path (empty = skip)")
		geojsonPath   = flag.String("geojson", "", "output GeoJSON path (empty = skip)")
		coastlinePath = flag.String("coastline", "", "local coastline GeoJSON for the map underlay (empty = bare graph)")
		coastlineURL  = flag.String("coastline-url", "", "remote fallback for the coastline dataset")
		quiet         = flag.Bool("quiet", false, "suppress per-step summaries")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	sc := scenario.Default()
	if *scenarioPath != "" {
		var err error
		sc, err = scenario.Load(*scenarioPath)
		if err != nil {
			fatal(err)
		}
	}

	g, err := sc.Build()
	if err != nil {
		fatal(err)
	}

	if *blockName != "" && *blockAfter <= 0 {
		if err := engine.SetBlocked(g, *blockName, true); err != nil {
			fatal(err)
		}
	}

	for step := 1; step <= *steps; step++ {
		if *blockName != "" && *blockAfter > 0 && step == *blockAfter+1 {
			if err := engine.SetBlocked(g, *blockName, true); err != nil {
				fatal(err)
			}
		}
		if err := engine.Step(g, sc.Params); err != nil {
			fatal(err)
		}
		if !*quiet {
			fmt.Printf("--- step %d ---\n", step)
			for _, line := range engine.Summary(g) {
				fmt.Println(line)
			}
		}
	}

	if *svgPath != "" {
		opts := render.DefaultSVGOptions()
		if *coastlinePath != "" {
			cl, err := geo.LoadCoastline(*coastlinePath, *coastlineURL)
			if err != nil {
				fatal(err)
			}
			opts.Coastline = cl
		}
		if err := os.WriteFile(*svgPath, []byte(render.SVG(g, opts)), 0644); err != nil {
			fatal(err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", *svgPath)
	}

	if *geojsonPath != "" {
		data, err := render.GeoJSON(g)
		if err != nil {
			fatal(err)
		}
		if err := os.WriteFile(*geojsonPath, data, 0644); err != nil {
			fatal(err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", *geojsonPath)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "mapplot:", err)
	os.Exit(1)
}
