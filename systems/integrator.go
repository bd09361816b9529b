package systems

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/latteine1217/alife-3d-flocking/components"
	"github.com/latteine1217/alife-3d-flocking/rng"
)

// Integrator advances the arena one step with Velocity Verlet in two
// half-steps, boundary resolution between them, Vicsek rotational
// noise, and a hard speed cap, per spec §4.5. It owns a pair of
// scratch Vec3 buffers sized to the arena's capacity, reused every
// step to avoid per-step allocation.
type Integrator struct {
	halfVel []components.Vec3 // v_half scratch, one per agent slot
	xNew    []components.Vec3 // x_new scratch, one per agent slot
}

// NewIntegrator allocates scratch buffers for an arena of the given
// capacity.
func NewIntegrator(capacity int) *Integrator {
	return &Integrator{
		halfVel: make([]components.Vec3, capacity),
		xNew:    make([]components.Vec3, capacity),
	}
}

// XNew exposes the half-step-resolved candidate positions, read by the
// engine to run the second AccumulateForces pass at x_new.
func (in *Integrator) XNew() []components.Vec3 { return in.xNew }

// HalfVel exposes v_half, read by the engine alongside XNew for the
// second force-accumulation pass (Cucker-Smale alignment needs
// neighbor velocities at the same evaluation point as positions).
func (in *Integrator) HalfVel() []components.Vec3 { return in.halfVel }

// StepHalf1 computes v_half = v + 0.5*a*dt and x_new = x + v_half*dt
// from the arena's currently committed (pos, vel, acc), then resolves
// the boundary on (x_new, v_half) in place. It never mutates the
// arena's committed Pos/Vel.
func (in *Integrator) StepHalf1(a *components.Arena, boundary components.BoundaryParams, dt float32) {
	blasHalfStep(a, in.halfVel, in.xNew, dt)
	n := a.Count
	for i := 0; i < n; i++ {
		if !a.Alive[i] {
			continue
		}
		in.xNew[i], in.halfVel[i] = resolveBoundary(in.xNew[i], in.halfVel[i], boundary)
	}
}

// blasHalfStep computes v_half and x_new for every slot below Count
// (live or dead; callers ignore dead slots) using
// gonum/blas/blas32's bulk Axpy over the arena's flat per-axis float32
// slices -- the SoA layout this engine's arena is built around is
// exactly what blas32 wants, grounded on
// systems/simd_bench_test.go's BLAS-vs-scalar blend benchmark.
func blasHalfStep(a *components.Arena, halfVel, xNew []components.Vec3, dt float32) {
	n := a.Count
	if n == 0 {
		return
	}
	for axis := 0; axis < 3; axis++ {
		vel := axisSlice(a.Vel, axis)[:n]
		acc := axisSlice(a.Acc, axis)[:n]
		pos := axisSlice(a.Pos, axis)[:n]

		halfOut := make([]float32, n)
		copy(halfOut, vel)
		halfVec := blas32.Vector{N: n, Inc: 1, Data: halfOut}
		accVec := blas32.Vector{N: n, Inc: 1, Data: acc}
		blas32.Axpy(0.5*dt, accVec, halfVec) // halfOut = vel + 0.5*dt*acc

		posOut := make([]float32, n)
		copy(posOut, pos)
		posVec := blas32.Vector{N: n, Inc: 1, Data: posOut}
		blas32.Axpy(dt, halfVec, posVec) // posOut = pos + dt*halfOut

		for i := 0; i < n; i++ {
			setAxis(halfVel, i, axis, halfOut[i])
			setAxis(xNew, i, axis, posOut[i])
		}
	}
}

func axisSlice(v components.Vec3Slice, axis int) []float32 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func setAxis(dst []components.Vec3, i, axis int, val float32) {
	switch axis {
	case 0:
		dst[i].X = val
	case 1:
		dst[i].Y = val
	default:
		dst[i].Z = val
	}
}

// resolveBoundary applies the mode-dependent wall rule of spec §4.5 to
// a candidate position/half-velocity pair.
func resolveBoundary(pos, vel components.Vec3, b components.BoundaryParams) (components.Vec3, components.Vec3) {
	switch b.Mode {
	case components.BoundaryPeriodic:
		pos.X = wrapCentered(pos.X, b.BoxSize.X)
		pos.Y = wrapCentered(pos.Y, b.BoxSize.Y)
		if b.Dimensions == 3 {
			pos.Z = wrapCentered(pos.Z, b.BoxSize.Z)
		}
		return pos, vel
	case components.BoundaryReflective:
		pos.X, vel.X = reflectAxis(pos.X, vel.X, b.BoxSize.X, b.WallStiffness)
		pos.Y, vel.Y = reflectAxis(pos.Y, vel.Y, b.BoxSize.Y, b.WallStiffness)
		if b.Dimensions == 3 {
			pos.Z, vel.Z = reflectAxis(pos.Z, vel.Z, b.BoxSize.Z, b.WallStiffness)
		}
		return pos, vel
	case components.BoundaryAbsorbing:
		pos.X, vel.X = absorbAxis(pos.X, vel.X, b.BoxSize.X)
		pos.Y, vel.Y = absorbAxis(pos.Y, vel.Y, b.BoxSize.Y)
		if b.Dimensions == 3 {
			pos.Z, vel.Z = absorbAxis(pos.Z, vel.Z, b.BoxSize.Z)
		}
		return pos, vel
	default:
		return pos, vel
	}
}

func wrapCentered(v, boxLen float32) float32 {
	if boxLen <= 0 {
		return v
	}
	half := boxLen / 2
	v += half
	for v < 0 {
		v += boxLen
	}
	for v >= boxLen {
		v -= boxLen
	}
	return v - half
}

// reflectAxis clamps an overshooting axis to the wall and negates the
// half-velocity, with an optional wall-stiffness spring term pushing
// back proportional to the overshoot (spec §4.5).
func reflectAxis(pos, vel, boxLen, wallStiffness float32) (float32, float32) {
	if boxLen <= 0 {
		return pos, vel
	}
	half := boxLen / 2
	if pos > half {
		overshoot := pos - half
		return half, -vel - wallStiffness*overshoot
	}
	if pos < -half {
		overshoot := -half - pos
		return -half, -vel + wallStiffness*overshoot
	}
	return pos, vel
}

// absorbAxis clamps an overshooting axis to the wall and zeroes
// velocity on that axis, leaving the agent in place (spec §4.5).
func absorbAxis(pos, vel, boxLen float32) (float32, float32) {
	if boxLen <= 0 {
		return pos, vel
	}
	half := boxLen / 2
	if pos > half {
		return half, 0
	}
	if pos < -half {
		return -half, 0
	}
	return pos, vel
}

// CommitHalf2 computes v_new = v_half + 0.5*a_new*dt from the newly
// accumulated acceleration (evaluated at x_new by a second
// AccumulateForces pass), applies Vicsek rotational noise, enforces
// the speed cap, and commits (x_new, v_new) into the arena. This is
// the last phase of integration for the step, per spec §4.5.
func (in *Integrator) CommitHalf2(a *components.Arena, profiles components.ProfileTable, p components.Params, dt float32) {
	n := a.Count
	for i := 0; i < n; i++ {
		if !a.Alive[i] {
			continue
		}
		vNew := in.halfVel[i].Add(a.Acc.Get(i).Scale(0.5 * dt))

		profile := profiles[a.Type[i]]
		vNew = applyVicsekNoise(vNew, profile.EtaNoise, &a.RNGState[i], p.Boundary.Dimensions)

		cap := VCap(p, profile, a.Energy[i])
		if speed := vNew.Len(); speed > cap && speed > 1e-9 {
			vNew = vNew.Scale(cap / speed)
		}

		a.Pos.Set(i, in.xNew[i])
		a.Vel.Set(i, vNew)
	}
}

// applyVicsekNoise rotates v by a random angle uniform on
// [-eta, eta]: in 2D a planar rotation around +Z; in 3D around an axis
// sampled uniformly on the unit sphere via the Marsaglia method,
// applied as a quaternion rotation (mgl32.QuatRotate) -- a
// uniform-axis-sampler substitute for Rodrigues' rotation that spec
// §9's open question explicitly allows.
func applyVicsekNoise(v components.Vec3, eta float32, state *uint32, dims int) components.Vec3 {
	if eta <= 0 || v.LenSq() < 1e-12 {
		return v
	}
	u := rng.Uniform(state)
	angle := u*2*eta - eta

	if dims == 2 {
		return rotateZ(v, angle)
	}

	axis := marsagliaUnitVector(state)
	q := mgl32.QuatRotate(angle, mgl32.Vec3{axis.X, axis.Y, axis.Z})
	rotated := q.Rotate(mgl32.Vec3{v.X, v.Y, v.Z})
	return components.Vec3{X: rotated[0], Y: rotated[1], Z: rotated[2]}
}

func rotateZ(v components.Vec3, angle float32) components.Vec3 {
	s, c := sincosf32(angle)
	return components.Vec3{
		X: v.X*c - v.Y*s,
		Y: v.X*s + v.Y*c,
		Z: v.Z,
	}
}

func sincosf32(v float32) (float32, float32) {
	s, c := math.Sincos(float64(v))
	return float32(s), float32(c)
}

// marsagliaUnitVector samples a uniformly-distributed unit vector on
// the sphere via Marsaglia's rejection method in the unit disk, per
// spec §4.5.
func marsagliaUnitVector(state *uint32) components.Vec3 {
	for {
		x1 := rng.Uniform(state)*2 - 1
		x2 := rng.Uniform(state)*2 - 1
		s := x1*x1 + x2*x2
		if s >= 1 || s <= 1e-12 {
			continue
		}
		root := sqrtf32(1 - s)
		return components.Vec3{
			X: 2 * x1 * root,
			Y: 2 * x2 * root,
			Z: 1 - 2*s,
		}
	}
}
