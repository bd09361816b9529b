package systems

import (
	"math"
	"testing"

	"github.com/latteine1217/alife-3d-flocking/components"
)

func TestStepHalf1AdvancesPositionWithConstantVelocity(t *testing.T) {
	a := components.NewArena(1)
	a.InitAgent(0, components.Follower, 1, components.Vec3{}, components.Vec3{X: 2, Y: 0, Z: 0}, 100, 1)
	a.Acc.Set(0, components.Vec3{})

	boundary := components.BoundaryParams{Mode: components.BoundaryPeriodic, BoxSize: components.Vec3{X: 100, Y: 100, Z: 100}, Dimensions: 3}
	in := NewIntegrator(1)
	in.StepHalf1(a, boundary, 0.5)

	got := in.XNew()[0]
	want := components.Vec3{X: 1, Y: 0, Z: 0}
	if got != want {
		t.Fatalf("StepHalf1 XNew = %+v, want %+v", got, want)
	}
	if in.HalfVel()[0] != (components.Vec3{X: 2, Y: 0, Z: 0}) {
		t.Fatalf("StepHalf1 HalfVel = %+v, want unchanged velocity with zero acceleration", in.HalfVel()[0])
	}
}

func TestReflectiveBoundaryBouncesBack(t *testing.T) {
	pos, vel := reflectAxis(55, 1, 100, 0)
	if pos != 50 {
		t.Fatalf("reflectAxis pos = %v, want clamped to 50", pos)
	}
	if vel != -1 {
		t.Fatalf("reflectAxis vel = %v, want negated to -1", vel)
	}
}

func TestAbsorbingBoundaryZeroesVelocity(t *testing.T) {
	pos, vel := absorbAxis(55, 1, 100)
	if pos != 50 {
		t.Fatalf("absorbAxis pos = %v, want clamped to 50", pos)
	}
	if vel != 0 {
		t.Fatalf("absorbAxis vel = %v, want 0", vel)
	}
}

func TestPeriodicWrapCenteredStaysInBox(t *testing.T) {
	got := wrapCentered(105, 100)
	want := float32(5)
	if math.Abs(float64(got-want)) > 1e-4 {
		t.Fatalf("wrapCentered(105, 100) = %v, want %v", got, want)
	}
}

func TestCommitHalf2EnforcesSpeedCap(t *testing.T) {
	a := components.NewArena(1)
	a.InitAgent(0, components.Follower, 1, components.Vec3{}, components.Vec3{}, 100, 1)
	a.Acc.Set(0, components.Vec3{X: 1000, Y: 0, Z: 0}) // huge acceleration to force an overshoot

	profiles := components.DefaultProfileTable()
	profiles[components.Follower].EtaNoise = 0 // isolate the cap from noise

	in := NewIntegrator(1)
	in.HalfVel()[0] = components.Vec3{X: 0, Y: 0, Z: 0}
	in.XNew()[0] = components.Vec3{X: 0, Y: 0, Z: 0}

	p := components.DefaultParams()
	p.VCapScale = 2
	in.CommitHalf2(a, profiles, p, 1)

	cap := VCap(p, profiles[components.Follower], a.Energy[0])
	speed := a.Vel.Get(0).Len()
	if speed > cap+1e-3 {
		t.Fatalf("committed speed %v exceeds cap %v", speed, cap)
	}
}

func TestCommitHalf2SkipsDeadAgents(t *testing.T) {
	a := components.NewArena(1)
	a.InitAgent(0, components.Follower, 1, components.Vec3{}, components.Vec3{}, 100, 1)
	a.Kill(0)

	in := NewIntegrator(1)
	in.XNew()[0] = components.Vec3{X: 99, Y: 99, Z: 99}

	profiles := components.DefaultProfileTable()
	in.CommitHalf2(a, profiles, components.DefaultParams(), 1)

	if a.Pos.Get(0) != (components.Vec3{X: components.Sentinel, Y: components.Sentinel, Z: components.Sentinel}) {
		t.Fatalf("dead agent's position should remain at the sentinel, got %+v", a.Pos.Get(0))
	}
}

func TestRotateZPreservesLength(t *testing.T) {
	v := components.Vec3{X: 3, Y: 0, Z: 0}
	got := rotateZ(v, float32(math.Pi/2))
	if math.Abs(float64(got.Len()-v.Len())) > 1e-4 {
		t.Fatalf("rotateZ changed vector length: %v != %v", got.Len(), v.Len())
	}
}

func TestMarsagliaUnitVectorIsUnitLength(t *testing.T) {
	state := uint32(12345)
	for i := 0; i < 100; i++ {
		v := marsagliaUnitVector(&state)
		if math.Abs(float64(v.Len()-1)) > 1e-3 {
			t.Fatalf("marsagliaUnitVector produced non-unit vector %+v (len=%v)", v, v.Len())
		}
	}
}
