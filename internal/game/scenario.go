package game

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Garsondee/Air-Sense/internal/combat"
)

// ErrUnknownScenario is returned for a scenario name that is not registered.
var ErrUnknownScenario = errors.New("unknown scenario")

// Scenario is a named sortie layout.
type Scenario struct {
	Name        string
	Description string
	options     func(cfg combat.Config) []combat.SimOption
}

var scenarios = map[string]Scenario{
	"strike": {
		Name:        "strike",
		Description: "ridge valley with a defended depot, friendly tower and roaming fighters",
		options: func(cfg combat.Config) []combat.SimOption {
			terrain := combat.DefaultRidgeTerrain()
			start := combat.V(-4000, 0, terrain.Height(-4000, 0)+700)
			return []combat.SimOption{
				combat.WithTerrain(terrain),
				combat.WithPlayer(start, 0),
				combat.WithTower(-1500, 300, false),
				combat.WithTowerAA(0, 0),
				combat.WithInstallation(combat.CategoryBunker, 2500, -200),
				combat.WithInstallation(combat.CategoryBunker, 2700, 150),
				combat.WithInstallation(combat.CategoryScatteredAA, 2200, 400),
				combat.WithInstallation(combat.CategoryScatteredAA, 2300, -500),
				combat.WithInstallation(combat.CategorySAM, 3500, 0),
				combat.WithOrbiter(combat.VehicleFighter, combat.V(1500, 0, 900), 1200, 0),
			}
		},
	},
	"intercept": {
		Name:        "intercept",
		Description: "flat sea, bombers on patrol with fighter escort",
		options: func(cfg combat.Config) []combat.SimOption {
			return []combat.SimOption{
				combat.WithPlayer(combat.V(-3000, 0, 800), 0),
				combat.WithMovingVehicle(combat.VehicleBomber, combat.PatternPatrol, combat.V(3000, 400, 900), math.Pi),
				combat.WithMovingVehicle(combat.VehicleBomber, combat.PatternPatrol, combat.V(3200, -400, 950), math.Pi),
				combat.WithMovingVehicle(combat.VehicleFighter, combat.PatternWeave, combat.V(2500, 0, 1100), math.Pi),
				combat.WithOrbiter(combat.VehicleHelicopter, combat.V(0, 1500, 300), 800, math.Pi/2),
			}
		},
	},
	"sam-belt": {
		Name:        "sam-belt",
		Description: "a line of SAM sites and flak guarding a bunker field",
		options: func(cfg combat.Config) []combat.SimOption {
			return []combat.SimOption{
				combat.WithPlayer(combat.V(-5000, 0, 600), 0),
				combat.WithInstallation(combat.CategorySAM, 0, -1500),
				combat.WithInstallation(combat.CategorySAM, 0, 0),
				combat.WithInstallation(combat.CategorySAM, 0, 1500),
				combat.WithInstallation(combat.CategoryScatteredAA, -800, 500),
				combat.WithInstallation(combat.CategoryScatteredAA, -800, -500),
				combat.WithInstallation(combat.CategoryBunker, 1500, 0),
				combat.WithInstallation(combat.CategoryBunker, 1600, 300),
			}
		},
	},
}

// Scenarios returns every registered scenario sorted by name.
func Scenarios() []Scenario {
	out := make([]Scenario, 0, len(scenarios))
	for _, s := range scenarios {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ScenarioNames is a comma-separated list for flag help text.
func ScenarioNames() string {
	var names []string
	for _, s := range Scenarios() {
		names = append(names, s.Name)
	}
	return strings.Join(names, ", ")
}

// NewSortie builds a headless sortie for the named scenario. A non-zero seed
// enables the airborne spawner. Extra options are applied after the
// scenario's own.
func NewSortie(name string, cfg combat.Config, seed int64, extra ...combat.SimOption) (*combat.TestSim, error) {
	sc, ok := scenarios[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownScenario, name, ScenarioNames())
	}
	opts := []combat.SimOption{combat.WithConfig(cfg)}
	if seed != 0 {
		opts = append(opts, combat.WithSeed(seed))
	}
	opts = append(opts, sc.options(cfg)...)
	opts = append(opts, extra...)
	return combat.NewTestSim(opts...), nil
}
