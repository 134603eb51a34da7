package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/avelinek/tradewinds/internal/engine"
	"github.com/avelinek/tradewinds/internal/world"
)

// Scenario describes a complete simulation setup: the capital table, graph
// construction parameters, turn parameters, and initially blocked
// settlements.
type Scenario struct {
	Name        string             `yaml:"name"`
	LinkMaxKm   float64            `yaml:"link_max_km"`
	InitialFood float64            `yaml:"initial_food"`
	Params      engine.Params      `yaml:"params"`
	Blocked     []string           `yaml:"blocked"`
	Capitals    []world.CapitalRow `yaml:"capitals"`
}

// Default returns the built-in base scenario: all capitals, default
// parameters, nothing blocked.
func Default() *Scenario {
	return &Scenario{
		Name:        "capitals",
		LinkMaxKm:   world.DefaultLinkMaxKm,
		InitialFood: world.DefaultFood,
		Params:      engine.DefaultParams(),
		Capitals:    DefaultCapitals(),
	}
}

// Load reads a scenario from a YAML file. Omitted numeric fields fall back
// to the defaults; an omitted capital table falls back to the built-in one.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}

	sc := Default()
	sc.Name = ""
	sc.Capitals = nil
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = path
	}
	if len(sc.Capitals) == 0 {
		sc.Capitals = DefaultCapitals()
	}
	return sc, nil
}

// Build constructs the settlement graph for this scenario and applies the
// initial blocked flags. Unknown names in the blocked list are an error.
func (sc *Scenario) Build() (*world.Graph, error) {
	cfg := world.DefaultBuildConfig()
	cfg.LinkMaxKm = sc.LinkMaxKm
	cfg.InitialFood = sc.InitialFood

	g, err := world.Build(sc.Capitals, cfg)
	if err != nil {
		return nil, err
	}
	for _, name := range sc.Blocked {
		if err := engine.SetBlocked(g, name, true); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
	}
	return g, nil
}
