package components

import (
	"fmt"
	"math"
)

// BoundaryMode selects how the integrator resolves agents that leave
// the domain box.
type BoundaryMode uint8

const (
	BoundaryPeriodic BoundaryMode = iota
	BoundaryReflective
	BoundaryAbsorbing
)

// MorseParams configures the short-range Morse pair force.
type MorseParams struct {
	Ca float32 // attraction amplitude (positive term of the Morse coefficient)
	Cr float32 // repulsion amplitude (negative term; see §4.4 sign convention)
	La float32 // attraction length scale
	Lr float32 // repulsion length scale
	Rc float32 // cutoff radius
}

// RayleighParams configures the active speed-anchoring drive.
type RayleighParams struct {
	Alpha float32
	V0    float32
}

// AlignmentParams configures Cucker-Smale velocity alignment.
type AlignmentParams struct {
	Beta float32
}

// NoiseParams holds a global Vicsek noise width. The integrator does not
// read it: the noise half-width applied to each agent is its type's
// Profile.EtaNoise.
type NoiseParams struct {
	Eta float32
}

// SoftRepulsionParams configures the soft-sphere short-range repulsion.
type SoftRepulsionParams struct {
	MinDist     float32
	RepulsionK  float32
}

// BoundaryParams configures domain size and edge handling.
type BoundaryParams struct {
	Mode          BoundaryMode
	BoxSize       Vec3 // for 2D runs, Z is ignored (treated as 0-thickness)
	WallStiffness float32
	Dimensions    int // 2 or 3
}

// GridParams configures the spatial grid.
type GridParams struct {
	CellSize float32 // must be >= Rc; default 2*Rc
}

// ForagingParams configures prey-side resource seeking and consumption.
type ForagingParams struct {
	EnergyThreshold    float32
	ConsumptionPerStep float32
	ForagingStrength   float32
	EnergyMax          float32
	PassiveDrain       float32 // per-step passive energy consumption
}

// PredationParams configures predator target acquisition and attack.
type PredationParams struct {
	AttackRadius       float32
	Cooldown           int32 // steps
	SearchRadius       float32
	EnergyReward       float32
	AttractionStrength float32 // pull toward the current prey target, spec §4.4
}

// ObstacleParams configures the obstacle-avoidance gradient force.
type ObstacleParams struct {
	RInfluence float32 // SDF distance below which the gradient force activates
	Strength   float32 // k_obs
}

// GroupDetectionParams configures label-propagation clustering.
type GroupDetectionParams struct {
	RCluster     float32
	ThetaCluster float32 // radians
	NIterations  int
	Interval     int // run every K steps
	MaxGroups    int
}

// GoalParams configures optional goal-seeking (applied per agent type
// by the physics kernel, e.g. leaders only).
type GoalParams struct {
	Enabled  bool
	Position Vec3
	Strength float32
	// Types lists which agent types are pulled toward Position.
	Types [NumAgentTypes]bool
}

// Params is the immutable-within-a-run parameter block. A parameter
// update swaps this block at a step boundary. Capacities and the agent
// count are fixed when the engine is constructed; no parameter update
// changes them or rebuilds the arena.
type Params struct {
	Morse      MorseParams
	Rayleigh   RayleighParams
	Alignment  AlignmentParams
	Noise      NoiseParams
	SoftRepel  SoftRepulsionParams
	Boundary   BoundaryParams
	Grid       GridParams
	Foraging   ForagingParams
	Predation  PredationParams
	Obstacle   ObstacleParams
	Groups     GroupDetectionParams
	Goal       GoalParams
	VCapScale  float32 // multiplier applied to health-scaled V0 to get the hard speed cap
}

// DefaultParams returns a reasonable baseline parameter block for a 3D
// periodic-boundary run.
func DefaultParams() Params {
	return Params{
		Morse: MorseParams{Ca: 1.5, Cr: 2.0, La: 2.5, Lr: 0.5, Rc: 15},
		Rayleigh: RayleighParams{Alpha: 0.5, V0: 1.0},
		Alignment: AlignmentParams{Beta: 1.0},
		Noise: NoiseParams{Eta: 0.1},
		SoftRepel: SoftRepulsionParams{MinDist: 1.0, RepulsionK: 10.0},
		Boundary: BoundaryParams{
			Mode:          BoundaryPeriodic,
			BoxSize:       Vec3{X: 100, Y: 100, Z: 100},
			WallStiffness: 5.0,
			Dimensions:    3,
		},
		Grid:     GridParams{CellSize: 30},
		Foraging: ForagingParams{EnergyThreshold: 50, ConsumptionPerStep: 0.6, ForagingStrength: 0.8, EnergyMax: 100, PassiveDrain: 0.05},
		Predation: PredationParams{AttackRadius: 5, Cooldown: 30, SearchRadius: 60, EnergyReward: 30, AttractionStrength: 0.9},
		Obstacle:  ObstacleParams{RInfluence: 5, Strength: 8},
		Groups: GroupDetectionParams{RCluster: 20, ThetaCluster: 0.8, NIterations: 5, Interval: 10, MaxGroups: 64},
		Goal:      GoalParams{},
		VCapScale: 2.0,
	}
}

// Validate reports configuration errors per spec §7: invalid
// capacities, non-finite parameters, non-positive cutoff/box size.
// It never mutates p.
func (p Params) Validate() error {
	if p.Morse.Rc <= 0 {
		return fmt.Errorf("params: morse cutoff rc must be > 0, got %v", p.Morse.Rc)
	}
	if p.Grid.CellSize < p.Morse.Rc {
		return fmt.Errorf("params: grid cell size (%v) must be >= morse cutoff rc (%v)", p.Grid.CellSize, p.Morse.Rc)
	}
	if p.Boundary.Dimensions != 2 && p.Boundary.Dimensions != 3 {
		return fmt.Errorf("params: boundary dimensions must be 2 or 3, got %d", p.Boundary.Dimensions)
	}
	if p.Boundary.BoxSize.X <= 0 || p.Boundary.BoxSize.Y <= 0 || (p.Boundary.Dimensions == 3 && p.Boundary.BoxSize.Z <= 0) {
		return fmt.Errorf("params: box_size must be > 0 on every active axis, got %+v", p.Boundary.BoxSize)
	}
	if p.Groups.MaxGroups <= 0 {
		return fmt.Errorf("params: max_groups must be > 0, got %d", p.Groups.MaxGroups)
	}
	if p.Groups.Interval <= 0 {
		return fmt.Errorf("params: group detection interval must be > 0, got %d", p.Groups.Interval)
	}
	if p.Foraging.EnergyMax <= 0 {
		return fmt.Errorf("params: foraging energy_max must be > 0, got %v", p.Foraging.EnergyMax)
	}
	if !allFinite(
		p.Morse.Ca, p.Morse.Cr, p.Morse.La, p.Morse.Lr, p.Morse.Rc,
		p.Rayleigh.Alpha, p.Rayleigh.V0, p.Alignment.Beta, p.Noise.Eta,
		p.SoftRepel.MinDist, p.SoftRepel.RepulsionK,
		p.Boundary.BoxSize.X, p.Boundary.BoxSize.Y, p.Boundary.BoxSize.Z, p.Boundary.WallStiffness,
		p.Grid.CellSize, p.Foraging.EnergyThreshold, p.Foraging.ConsumptionPerStep,
		p.Foraging.ForagingStrength, p.Foraging.PassiveDrain,
		p.Predation.AttackRadius, p.Predation.SearchRadius, p.Predation.EnergyReward, p.Predation.AttractionStrength,
		p.Obstacle.RInfluence, p.Obstacle.Strength,
		p.Groups.RCluster, p.Groups.ThetaCluster, p.VCapScale,
	) {
		return fmt.Errorf("params: non-finite parameter value")
	}
	return nil
}

func allFinite(vs ...float32) bool {
	for _, v := range vs {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// HealthBand is a discretized energy tier that scales effective
// preferred speed (spec §4.7).
type HealthBand uint8

const (
	HealthHealthy HealthBand = iota
	HealthTired
	HealthWeak
	HealthDying
)

// BandFor classifies energy into a health band using the spec's
// default thresholds.
func BandFor(energy float32) HealthBand {
	switch {
	case energy > 50:
		return HealthHealthy
	case energy > 30:
		return HealthTired
	case energy >= 15:
		return HealthWeak
	default:
		return HealthDying
	}
}

// SpeedMultiplier returns the V0 multiplier for a health band.
func (b HealthBand) SpeedMultiplier() float32 {
	switch b {
	case HealthHealthy:
		return 1.0
	case HealthTired:
		return 0.85
	case HealthWeak:
		return 0.60
	default:
		return 0.30
	}
}
