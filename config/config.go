// Package config loads YAML configuration and converts it into the
// runtime components.Params the engine consumes. Unlike the teacher's
// config package, there is no package-level global: spec §9 flags
// process-wide singletons as a pattern to remove, so Load returns a
// value the caller threads through engine.New.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/latteine1217/alife-3d-flocking/components"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config mirrors components.Params in YAML-friendly form.
type Config struct {
	Morse     MorseConfig     `yaml:"morse"`
	Rayleigh  RayleighConfig  `yaml:"rayleigh"`
	Alignment AlignmentConfig `yaml:"alignment"`
	Noise     NoiseConfig     `yaml:"noise"`
	SoftRepel SoftRepelConfig `yaml:"soft_repel"`
	Boundary  BoundaryConfig  `yaml:"boundary"`
	Grid      GridConfig      `yaml:"grid"`
	Foraging  ForagingConfig  `yaml:"foraging"`
	Predation PredationConfig `yaml:"predation"`
	Obstacle  ObstacleForceConfig `yaml:"obstacle"`
	Groups    GroupsConfig    `yaml:"groups"`
	Goal      GoalConfig      `yaml:"goal"`
	VCapScale float32         `yaml:"v_cap_scale"`
}

type MorseConfig struct {
	Ca float32 `yaml:"ca"`
	Cr float32 `yaml:"cr"`
	La float32 `yaml:"la"`
	Lr float32 `yaml:"lr"`
	Rc float32 `yaml:"rc"`
}

type RayleighConfig struct {
	Alpha float32 `yaml:"alpha"`
	V0    float32 `yaml:"v0"`
}

type AlignmentConfig struct {
	Beta float32 `yaml:"beta"`
}

type NoiseConfig struct {
	Eta float32 `yaml:"eta"`
}

type SoftRepelConfig struct {
	MinDist    float32 `yaml:"min_dist"`
	RepulsionK float32 `yaml:"repulsion_k"`
}

type BoundaryConfig struct {
	Mode          string  `yaml:"mode"` // "pbc" | "reflective" | "absorbing"
	BoxX          float32 `yaml:"box_x"`
	BoxY          float32 `yaml:"box_y"`
	BoxZ          float32 `yaml:"box_z"`
	WallStiffness float32 `yaml:"wall_stiffness"`
	Dimensions    int     `yaml:"dimensions"`
}

type GridConfig struct {
	CellSize float32 `yaml:"cell_size"`
}

type ForagingConfig struct {
	EnergyThreshold    float32 `yaml:"energy_threshold"`
	ConsumptionPerStep float32 `yaml:"consumption_per_step"`
	ForagingStrength   float32 `yaml:"foraging_strength"`
	EnergyMax          float32 `yaml:"energy_max"`
	PassiveDrain       float32 `yaml:"passive_drain"`
}

type PredationConfig struct {
	AttackRadius       float32 `yaml:"attack_radius"`
	Cooldown           int32   `yaml:"cooldown"`
	SearchRadius       float32 `yaml:"search_radius"`
	EnergyReward       float32 `yaml:"energy_reward"`
	AttractionStrength float32 `yaml:"attraction_strength"`
}

// ObstacleForceConfig configures the obstacle-avoidance force's
// activation radius and strength -- not to be confused with
// components.ObstacleConfig, which describes one physical obstacle
// added via Engine.AddObstacle.
type ObstacleForceConfig struct {
	RInfluence float32 `yaml:"r_influence"`
	Strength   float32 `yaml:"strength"`
}

type GroupsConfig struct {
	RCluster     float32 `yaml:"r_cluster"`
	ThetaCluster float32 `yaml:"theta_cluster"`
	NIterations  int     `yaml:"n_iterations"`
	Interval     int     `yaml:"interval"`
	MaxGroups    int     `yaml:"max_groups"`
}

type GoalConfig struct {
	Enabled  bool      `yaml:"enabled"`
	X        float32   `yaml:"x"`
	Y        float32   `yaml:"y"`
	Z        float32   `yaml:"z"`
	Strength float32   `yaml:"strength"`
	Types    [4]bool   `yaml:"types"` // [follower, explorer, leader, predator]
}

// Load reads configuration from a YAML file, merging it over the
// embedded defaults. If path is empty, only embedded defaults are
// used, following the teacher's config.Load merge-over-embedded
// pattern.
func Load(path string) (Config, error) {
	cfg := Config{}
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing embedded defaults: %w", err)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: reading file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parsing file: %w", err)
		}
	}
	return cfg, nil
}

// MustLoad is like Load but panics on error, mirroring the teacher's
// MustInit convenience wrapper for callers (tests, dev tools) that
// don't want to thread an error.
func MustLoad(path string) Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("config: failed to load: %v", err))
	}
	return cfg
}

func boundaryMode(s string) components.BoundaryMode {
	switch s {
	case "reflective":
		return components.BoundaryReflective
	case "absorbing":
		return components.BoundaryAbsorbing
	default:
		return components.BoundaryPeriodic
	}
}

// BuildParams converts the YAML-friendly Config into the runtime
// components.Params block the engine consumes.
func (c Config) BuildParams() components.Params {
	var goalTypes [components.NumAgentTypes]bool
	copy(goalTypes[:], c.Goal.Types[:])

	return components.Params{
		Morse:     components.MorseParams{Ca: c.Morse.Ca, Cr: c.Morse.Cr, La: c.Morse.La, Lr: c.Morse.Lr, Rc: c.Morse.Rc},
		Rayleigh:  components.RayleighParams{Alpha: c.Rayleigh.Alpha, V0: c.Rayleigh.V0},
		Alignment: components.AlignmentParams{Beta: c.Alignment.Beta},
		Noise:     components.NoiseParams{Eta: c.Noise.Eta},
		SoftRepel: components.SoftRepulsionParams{MinDist: c.SoftRepel.MinDist, RepulsionK: c.SoftRepel.RepulsionK},
		Boundary: components.BoundaryParams{
			Mode:          boundaryMode(c.Boundary.Mode),
			BoxSize:       components.Vec3{X: c.Boundary.BoxX, Y: c.Boundary.BoxY, Z: c.Boundary.BoxZ},
			WallStiffness: c.Boundary.WallStiffness,
			Dimensions:    c.Boundary.Dimensions,
		},
		Grid: components.GridParams{CellSize: c.Grid.CellSize},
		Foraging: components.ForagingParams{
			EnergyThreshold:    c.Foraging.EnergyThreshold,
			ConsumptionPerStep: c.Foraging.ConsumptionPerStep,
			ForagingStrength:   c.Foraging.ForagingStrength,
			EnergyMax:          c.Foraging.EnergyMax,
			PassiveDrain:       c.Foraging.PassiveDrain,
		},
		Predation: components.PredationParams{
			AttackRadius:       c.Predation.AttackRadius,
			Cooldown:           c.Predation.Cooldown,
			SearchRadius:       c.Predation.SearchRadius,
			EnergyReward:       c.Predation.EnergyReward,
			AttractionStrength: c.Predation.AttractionStrength,
		},
		Obstacle: components.ObstacleParams{RInfluence: c.Obstacle.RInfluence, Strength: c.Obstacle.Strength},
		Groups: components.GroupDetectionParams{
			RCluster:     c.Groups.RCluster,
			ThetaCluster: c.Groups.ThetaCluster,
			NIterations:  c.Groups.NIterations,
			Interval:     c.Groups.Interval,
			MaxGroups:    c.Groups.MaxGroups,
		},
		Goal: components.GoalParams{
			Enabled:  c.Goal.Enabled,
			Position: components.Vec3{X: c.Goal.X, Y: c.Goal.Y, Z: c.Goal.Z},
			Strength: c.Goal.Strength,
			Types:    goalTypes,
		},
		VCapScale: c.VCapScale,
	}
}
