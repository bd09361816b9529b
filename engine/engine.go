// Package engine composes the spatial grid, physics kernel,
// integrator, resource/foraging/predation behaviors, and group
// detection into one deterministic per-step pipeline, per spec §4.11.
// It owns the agent, resource, and obstacle arenas and is the
// library-shaped surface everything else (CLI, dashboard, streaming
// layer) is built against -- none of which lives in this module.
package engine

import (
	"math"

	"github.com/google/uuid"
	"github.com/mlange-42/ark/ecs"

	"github.com/latteine1217/alife-3d-flocking/components"
	"github.com/latteine1217/alife-3d-flocking/rng"
	"github.com/latteine1217/alife-3d-flocking/systems"
)

// Capacities declares the fixed-size arenas an Engine is constructed
// with; none of them grow at runtime, per spec §9's
// "pre-allocate fixed-capacity arenas" redesign note.
type Capacities struct {
	MaxAgents     int
	MaxResources  int
	MaxObstacles  int
	MaxGroups     int
}

// Engine is the simulation's single entry point: construction,
// lifecycle, stepping, mutators, and queries, per spec §6.
type Engine struct {
	id uuid.UUID

	arena    *components.Arena
	profiles components.ProfileTable
	params   components.Params

	world         *ecs.World
	resourceStore *resourceStore
	obstacleStore *obstacleStore
	resources     []components.Resource // per-step scratch snapshot, written back after consumption/regeneration
	obstacles     []components.Obstacle // per-step scratch snapshot, read-only

	grid          *systems.Grid
	integrator    *systems.Integrator
	groupDetector *systems.GroupDetector
	lastGroups    []components.GroupAggregate

	agentTypes []components.AgentType // per-slot type, fixed at construction
	seed       uint64
	step       int64
	paused     bool

	commands chan Command
	perf     *perfCollector
	lastPerf PerfStats

	evalPos []components.Vec3
	evalVel []components.Vec3

	consumeScratch []systems.Candidate
}

// New constructs an Engine with the given parameters, per-slot agent
// types, and fixed capacities, per spec §6's
// `new(params, agent_types[N], capacities) → Engine` constructor.
// Configuration errors (invalid capacities, non-finite parameters) are
// reported synchronously; no state is mutated on error.
func New(params components.Params, agentTypes []components.AgentType, capacities Capacities) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if capacities.MaxAgents <= 0 {
		return nil, newConfigError("max_agents must be > 0, got %d", capacities.MaxAgents)
	}
	if capacities.MaxResources < 0 {
		return nil, newConfigError("max_resources must be >= 0, got %d", capacities.MaxResources)
	}
	if capacities.MaxObstacles < 0 {
		return nil, newConfigError("max_obstacles must be >= 0, got %d", capacities.MaxObstacles)
	}
	if len(agentTypes) != capacities.MaxAgents {
		return nil, newConfigError("agent_types length (%d) must equal max_agents (%d)", len(agentTypes), capacities.MaxAgents)
	}

	world := ecs.NewWorld()

	e := &Engine{
		id:            uuid.New(),
		arena:         components.NewArena(capacities.MaxAgents),
		profiles:      components.DefaultProfileTable(),
		params:        params,
		world:         world,
		resourceStore: newResourceStore(world, capacities.MaxResources),
		obstacleStore: newObstacleStore(world, capacities.MaxObstacles),
		grid:          systems.NewGrid(params.Boundary, params.Grid.CellSize, capacities.MaxAgents),
		integrator:    systems.NewIntegrator(capacities.MaxAgents),
		groupDetector: systems.NewGroupDetector(capacities.MaxAgents),
		agentTypes:    append([]components.AgentType(nil), agentTypes...),
		commands:      make(chan Command, 16),
		perf:          newPerfCollector(),
		evalPos:       make([]components.Vec3, capacities.MaxAgents),
		evalVel:       make([]components.Vec3, capacities.MaxAgents),
	}
	return e, nil
}

// ID returns this Engine's identity, supporting spec §9's
// multi-engine-coexistence requirement: a host process juggling
// several engines can tell them apart without any shared counter.
func (e *Engine) ID() uuid.UUID { return e.id }

// Initialize creates the initial agent population at random positions
// within initBoxSize around the origin, velocities sampled on a sphere
// at v0, and energy set to energy_max, per spec §3's lifecycle rule and spec
// §6's `initialize(init_box_size, seed)` lifecycle call.
func (e *Engine) Initialize(initBoxSize float32, seed uint64) {
	e.seed = seed
	e.initializeAgents(initBoxSize)
	e.step = 0
	e.paused = false
}

func (e *Engine) initializeAgents(initBoxSize float32) {
	n := len(e.agentTypes)
	for i := 0; i < n; i++ {
		typ := e.agentTypes[i]
		profile := e.profiles[typ]
		seed := rng.Seed(e.seed, i)

		pos := randomBoxPosition(&seed, initBoxSize, e.params.Boundary.Dimensions)
		vel := randomSpherePoint(&seed, e.params.Boundary.Dimensions).Scale(profile.V0PreferredSpeed)

		mass := float32(1)
		e.arena.InitAgent(i, typ, mass, pos, vel, e.params.Foraging.EnergyMax, seed)
	}
}

func randomBoxPosition(state *uint32, boxSize float32, dims int) components.Vec3 {
	half := boxSize / 2
	x := (rng.Uniform(state)*2 - 1) * half
	y := (rng.Uniform(state)*2 - 1) * half
	var z float32
	if dims == 3 {
		z = (rng.Uniform(state)*2 - 1) * half
	}
	return components.Vec3{X: x, Y: y, Z: z}
}

func randomSpherePoint(state *uint32, dims int) components.Vec3 {
	if dims == 2 {
		angle := rng.Uniform(state) * 2 * math.Pi
		s, c := math.Sincos(float64(angle))
		return components.Vec3{X: float32(c), Y: float32(s)}
	}
	for {
		x := rng.Uniform(state)*2 - 1
		y := rng.Uniform(state)*2 - 1
		z := rng.Uniform(state)*2 - 1
		l := x*x + y*y + z*z
		if l > 1e-9 && l <= 1 {
			inv := float32(1 / math.Sqrt(float64(l)))
			return components.Vec3{X: x * inv, Y: y * inv, Z: z * inv}
		}
	}
}

// reset re-seeds and re-randomizes the agent population in place,
// clearing the step counter, per spec §6's `reset()` lifecycle call.
// Resources and obstacles are left untouched -- they are mutated only
// through their own add/remove API, never by reset.
func (e *Engine) reset(seed uint64) {
	initBoxSize := e.params.Boundary.BoxSize.X / 4
	e.seed = seed
	e.initializeAgents(initBoxSize)
	e.step = 0
	e.groupDetector = systems.NewGroupDetector(e.arena.Capacity)
	e.lastGroups = nil
}

// Reset is the public form of reset, for callers that don't want to
// go through the command channel.
func (e *Engine) Reset(seed uint64) { e.reset(seed) }

// Step advances the simulation by one tick, running the full pipeline
// of spec §2: grid rebuild, target selection, two-half-step force
// accumulation/integration with boundary handling and noise,
// consumption, attack, regeneration, energy update, periodic group
// detection, and stats aggregation. A step never fails -- degeneracies
// are handled silently inside the kernel, per spec §7.
func (e *Engine) Step(dt float32) SnapshotView {
	e.drainCommands()
	if e.paused {
		return e.buildSnapshot()
	}

	e.perf.startTick()
	a := e.arena
	p := e.params

	e.perf.startPhase(PhaseGridRebuild)
	e.fillEvalBuffers()
	e.grid.Rebuild(e.evalPos, a.Alive, a.CellID)

	e.perf.startPhase(PhaseTargeting)
	e.resources = e.resourceStore.Snapshot(e.resources)
	e.obstacles = e.obstacleStore.Snapshot(e.obstacles)
	systems.SelectForagingTargets(a, e.resources, e.grid, p.Foraging.EnergyThreshold)
	systems.SelectPredationTargets(a, e.grid, p.Predation.SearchRadius)

	e.perf.startPhase(PhaseForces1)
	ctx := &systems.ForceContext{Arena: a, Grid: e.grid, Resources: e.resources, Obstacles: e.obstacles, Profiles: e.profiles, Params: p}
	systems.AccumulateForces(ctx, e.evalPos, e.evalVel)

	e.perf.startPhase(PhaseIntegrateHalf1)
	e.integrator.StepHalf1(a, p.Boundary, dt)

	e.perf.startPhase(PhaseForces2)
	systems.AccumulateForces(ctx, e.integrator.XNew(), e.integrator.HalfVel())

	e.perf.startPhase(PhaseIntegrateHalf2)
	e.integrator.CommitHalf2(a, e.profiles, p, dt)

	e.perf.startPhase(PhaseConsumption)
	e.consumeScratch = e.consumeScratch[:0]
	systems.ConsumeResources(e.resources, a, e.grid, p.Foraging.ConsumptionPerStep, p.Foraging.EnergyMax, e.consumeScratch)

	e.perf.startPhase(PhaseAttack)
	systems.Attack(a, e.grid, p.Predation, p.Rayleigh.V0, p.Foraging.EnergyMax, int32(e.step))

	e.perf.startPhase(PhaseRegeneration)
	systems.RegenerateResources(e.resources)
	e.resourceStore.WriteBack(e.resources)

	e.perf.startPhase(PhaseEnergy)
	systems.ApplyPassiveDrain(a, p.Foraging.PassiveDrain)

	if p.Groups.Interval > 0 && e.step%int64(p.Groups.Interval) == 0 {
		e.perf.startPhase(PhaseGroups)
		e.lastGroups = e.groupDetector.Run(a, e.grid, p.Groups)
	}

	e.perf.startPhase(PhaseSnapshot)
	snap := e.buildSnapshot()

	e.lastPerf = e.perf.finishTick()
	e.step++
	return snap
}

// Run advances the simulation by n_steps, returning the final
// snapshot, per spec §6's `run(n_steps, dt)` convenience.
func (e *Engine) Run(nSteps int, dt float32) SnapshotView {
	var snap SnapshotView
	for i := 0; i < nSteps; i++ {
		snap = e.Step(dt)
	}
	return snap
}

// AddResource adds a resource at the first free slot, per spec §6's
// `add_resource(ResourceConfig) → id` mutator. Returns a capacity
// error if every slot is occupied.
func (e *Engine) AddResource(cfg components.ResourceConfig) (int, error) {
	id := e.resourceStore.Add(cfg)
	if id < 0 {
		return -1, newCapacityError("resource")
	}
	return id, nil
}

// RemoveResource deactivates the resource at id, per spec §6's
// `remove_resource(id)` mutator. A nonexistent or already-inactive id
// is a domain error, reported but otherwise ignored.
func (e *Engine) RemoveResource(id int) error {
	if !e.resourceStore.Remove(id) {
		return newDomainError("no active resource at id %d", id)
	}
	return nil
}

// AddObstacle adds an obstacle at the first free slot, per spec §6's
// `add_obstacle(variant) → id` mutator.
func (e *Engine) AddObstacle(cfg components.ObstacleConfig) (int, error) {
	id := e.obstacleStore.Add(cfg)
	if id < 0 {
		return -1, newCapacityError("obstacle")
	}
	return id, nil
}

// Snapshot returns a point-in-time read-only copy of engine state,
// per spec §6's `snapshot() → SnapshotView` query. It never mutates
// engine state.
func (e *Engine) Snapshot() SnapshotView { return e.buildSnapshot() }

// Diagnostics returns the aggregate stats without the full
// per-agent arrays, per spec §6's `diagnostics()` query.
func (e *Engine) Diagnostics() SnapshotStats {
	return computeStats(e.arena, len(e.lastGroups))
}

// AliveCount returns the number of currently-live agents, per spec
// §6's `alive_count()` query.
func (e *Engine) AliveCount() int { return e.arena.AliveCount() }

// GroupCount returns the number of currently-detected groups, per spec
// §6's `group_count()` query.
func (e *Engine) GroupCount() int { return len(e.lastGroups) }

// GetGroups returns the current group aggregates, per spec §6's
// `get_groups() → [GroupAggregate]` query.
func (e *Engine) GetGroups() []components.GroupAggregate {
	return append([]components.GroupAggregate(nil), e.lastGroups...)
}

// PerfStats returns the most recently completed step's per-phase
// timings, mirroring telemetry.PerfCollector.Stats().
func (e *Engine) PerfStats() PerfStats { return e.lastPerf }

// fillEvalBuffers snapshots the arena's committed position/velocity
// into the engine's reusable scratch buffers, used both for grid
// rebuild and the first force-accumulation pass. Reused every step to
// avoid per-step allocation.
func (e *Engine) fillEvalBuffers() {
	a := e.arena
	n := a.Count
	for i := 0; i < n; i++ {
		e.evalPos[i] = a.Pos.Get(i)
		e.evalVel[i] = a.Vel.Get(i)
	}
}
