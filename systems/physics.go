package systems

import (
	"math"

	"github.com/latteine1217/alife-3d-flocking/components"
)

// ForceContext bundles the read-only arena/world references the
// physics kernel needs to accumulate every agent's acceleration. It
// is shared read-only across all workers of a force-accumulation
// phase (spec §5: "parameters and profile tables are read-only within
// a step").
type ForceContext struct {
	Arena     *components.Arena
	Grid      *Grid
	Resources []components.Resource
	Obstacles []components.Obstacle
	Profiles  components.ProfileTable
	Params    components.Params
}

// AccumulateForces computes acceleration for every live agent at the
// given positions/velocities (spec §4.4), writing the result into
// ctx.Arena.Acc. evalPos/evalVel let the integrator evaluate forces at
// the half-stepped position/velocity without disturbing the committed
// arena state (Velocity Verlet needs a force evaluation at x_new
// before v_new is committed).
func AccumulateForces(ctx *ForceContext, evalPos, evalVel []components.Vec3) {
	n := ctx.Arena.Count
	ParallelRange(n, func(lo, hi int) {
		var scratch []VisibleNeighbor
		for i := lo; i < hi; i++ {
			if !ctx.Arena.Alive[i] {
				ctx.Arena.Acc.Set(i, components.Vec3{})
				continue
			}
			acc, next := accumulateOne(ctx, i, evalPos, evalVel, scratch)
			scratch = next
			ctx.Arena.Acc.Set(i, acc)
		}
	})
}

func accumulateOne(ctx *ForceContext, i int, evalPos, evalVel []components.Vec3, scratch []VisibleNeighbor) (components.Vec3, []VisibleNeighbor) {
	a := ctx.Arena
	pos := evalPos[i]
	vel := evalVel[i]
	typ := a.Type[i]
	profile := ctx.Profiles[typ]
	p := ctx.Params

	neighbors := NeighborsVisible(ctx.Grid, i, evalPos, evalVel, a.Alive, p.Morse.Rc, profile.FOVAngle, profile.FOVEnabled, scratch)

	var force components.Vec3
	force = addMorseAndSoftRepulsion(force, p, neighbors)
	force = addAlignment(force, p, profile, vel, evalVel, neighbors)
	force = addRayleigh(force, p, profile, a.Energy[i], vel)
	force = addObstacles(force, p, ctx.Obstacles, pos)
	force = addGoal(force, p, ctx.Grid, typ, pos)
	force = addForaging(force, p, ctx.Resources, a, i, ctx.Grid, pos)
	force = addPredation(force, p, a, i, ctx.Grid, pos)

	mass := a.Mass[i]
	if mass <= 0 {
		mass = 1
	}
	return force.Scale(1 / mass), neighbors
}

// addMorseAndSoftRepulsion applies the Morse pair force and the
// short-range soft-sphere repulsion term over the visible neighbor
// set, per spec §4.4.
func addMorseAndSoftRepulsion(force components.Vec3, p components.Params, neighbors []VisibleNeighbor) components.Vec3 {
	m := p.Morse
	sr := p.SoftRepel
	for _, nb := range neighbors {
		r := nb.Dist
		if r < 1e-6 || r > m.Rc {
			continue
		}
		dir := nb.Delta.Scale(1 / r) // unit vector from i toward j

		coeff := (m.Ca/m.La)*expf(-r/m.La) - (m.Cr/m.Lr)*expf(-r/m.Lr)
		// coeff < 0 pushes i away from j (repulsive); coeff > 0 pulls
		// i toward j (attractive) -- the sign convention spec §4.4 and
		// §8's Morse-direction property test against.
		force = force.Add(dir.Scale(coeff))

		if r < sr.MinDist {
			force = force.Add(dir.Scale(-sr.RepulsionK * (sr.MinDist - r)))
		}
	}
	return force
}

// addAlignment applies Cucker-Smale mean-based velocity alignment:
// the mean is over neighbor velocities, not a sum, so a dense cluster
// doesn't out-pull a sparse one.
func addAlignment(force components.Vec3, p components.Params, profile components.Profile, vel components.Vec3, evalVel []components.Vec3, neighbors []VisibleNeighbor) components.Vec3 {
	if len(neighbors) == 0 {
		return force
	}
	var sum components.Vec3
	for _, nb := range neighbors {
		sum = sum.Add(evalVel[nb.J])
	}
	mean := sum.Scale(1 / float32(len(neighbors)))
	return force.Add(mean.Sub(vel).Scale(p.Alignment.Beta * profile.BetaAlignmentScale))
}

// addRayleigh applies the active speed-anchoring drive, health-band
// scaled per spec §4.7.
func addRayleigh(force components.Vec3, p components.Params, profile components.Profile, energy float32, vel components.Vec3) components.Vec3 {
	v0 := effectiveV0(p, profile, energy)
	if v0 < 1e-6 {
		return force
	}
	speedSq := vel.LenSq()
	coeff := p.Rayleigh.Alpha * (1 - speedSq/(v0*v0))
	return force.Add(vel.Scale(coeff))
}

// effectiveV0 returns the agent's health-scaled preferred speed,
// combining its per-type profile speed with the global Rayleigh V0
// and the energy-derived health band multiplier.
func effectiveV0(p components.Params, profile components.Profile, energy float32) float32 {
	base := p.Rayleigh.V0
	if profile.V0PreferredSpeed > 0 {
		base = profile.V0PreferredSpeed
	}
	return base * components.BandFor(energy).SpeedMultiplier()
}

// VCap returns the hard speed cap for an agent of the given profile
// and energy, enforced by the integrator after every step (spec §8.5).
func VCap(p components.Params, profile components.Profile, energy float32) float32 {
	return effectiveV0(p, profile, energy) * p.VCapScale
}

// addObstacles adds the SDF-gradient avoidance force when pos falls
// within r_influence of any active obstacle.
func addObstacles(force components.Vec3, p components.Params, obstacles []components.Obstacle, pos components.Vec3) components.Vec3 {
	for _, o := range obstacles {
		if !o.Active {
			continue
		}
		dist, grad := SDF(o, pos)
		if dist < p.Obstacle.RInfluence {
			force = force.Add(grad.Scale(p.Obstacle.Strength))
		}
	}
	return force
}

// addGoal applies per-agent-type goal-seeking toward the configured
// goal position, using the grid's PBC-aware delta.
func addGoal(force components.Vec3, p components.Params, grid *Grid, typ components.AgentType, pos components.Vec3) components.Vec3 {
	if !p.Goal.Enabled || !p.Goal.Types[typ] {
		return force
	}
	delta := grid.PBCDelta(pos, p.Goal.Position)
	dir := delta.Normalize()
	if dir == (components.Vec3{}) {
		return force
	}
	return force.Add(dir.Scale(p.Goal.Strength))
}

// addForaging applies the prey-side pull toward the agent's current
// resource target, per spec §4.4/§4.7.
func addForaging(force components.Vec3, p components.Params, resources []components.Resource, a *components.Arena, i int, grid *Grid, pos components.Vec3) components.Vec3 {
	if !a.HasTarget[i] || a.TargetResourceID[i] < 0 {
		return force
	}
	r := resources[a.TargetResourceID[i]]
	delta := grid.PBCDelta(pos, r.Position)
	dir := delta.Normalize()
	if dir == (components.Vec3{}) {
		return force
	}
	return force.Add(dir.Scale(p.Foraging.ForagingStrength))
}

// addPredation applies the predator-side pull toward the current prey
// target, the analogous attraction term spec §4.4 calls for.
func addPredation(force components.Vec3, p components.Params, a *components.Arena, i int, grid *Grid, pos components.Vec3) components.Vec3 {
	target := a.TargetPreyID[i]
	if target < 0 || !a.Alive[target] {
		return force
	}
	delta := grid.PBCDelta(pos, a.Pos.Get(int(target)))
	dir := delta.Normalize()
	if dir == (components.Vec3{}) {
		return force
	}
	return force.Add(dir.Scale(p.Predation.AttractionStrength))
}

func expf(v float32) float32 {
	return float32(math.Exp(float64(v)))
}
