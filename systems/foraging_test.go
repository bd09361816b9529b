package systems

import (
	"testing"

	"github.com/latteine1217/alife-3d-flocking/components"
)

func TestSelectForagingTargetsSkipsPredators(t *testing.T) {
	a := components.NewArena(1)
	a.InitAgent(0, components.Predator, 1, components.Vec3{}, components.Vec3{}, 10, 1)
	resources := []components.Resource{{Position: components.Vec3{X: 1}, Amount: 10, Active: true}}
	grid := newTestGrid(components.BoundaryPeriodic, 100, 1)
	grid.Rebuild([]components.Vec3{a.Pos.Get(0)}, a.Alive, a.CellID)

	SelectForagingTargets(a, resources, grid, 50)

	if a.HasTarget[0] {
		t.Fatalf("predator should never acquire a foraging target")
	}
}

func TestSelectForagingTargetsSkipsWellFedAgentsWithoutTarget(t *testing.T) {
	a := components.NewArena(1)
	a.InitAgent(0, components.Follower, 1, components.Vec3{}, components.Vec3{}, 90, 1)
	resources := []components.Resource{{Position: components.Vec3{X: 1}, Amount: 10, Active: true}}
	grid := newTestGrid(components.BoundaryPeriodic, 100, 1)
	grid.Rebuild([]components.Vec3{a.Pos.Get(0)}, a.Alive, a.CellID)

	SelectForagingTargets(a, resources, grid, 50)

	if a.HasTarget[0] {
		t.Fatalf("a well-fed agent with no existing target should not acquire one")
	}
}

func TestSelectForagingTargetsPicksNearestActiveResource(t *testing.T) {
	a := components.NewArena(1)
	a.InitAgent(0, components.Follower, 1, components.Vec3{}, components.Vec3{}, 10, 1)
	resources := []components.Resource{
		{Position: components.Vec3{X: 50}, Amount: 10, Active: true},
		{Position: components.Vec3{X: 5}, Amount: 10, Active: true},
		{Position: components.Vec3{X: -3}, Amount: 10, Active: false},
	}
	grid := newTestGrid(components.BoundaryPeriodic, 100, 1)
	grid.Rebuild([]components.Vec3{a.Pos.Get(0)}, a.Alive, a.CellID)

	SelectForagingTargets(a, resources, grid, 50)

	if !a.HasTarget[0] || a.TargetResourceID[0] != 1 {
		t.Fatalf("expected target resource index 1 (nearest active), got has=%v id=%d", a.HasTarget[0], a.TargetResourceID[0])
	}
}

func TestSelectForagingTargetsReleasesStaleTarget(t *testing.T) {
	a := components.NewArena(1)
	a.InitAgent(0, components.Follower, 1, components.Vec3{}, components.Vec3{}, 10, 1)
	a.HasTarget[0] = true
	a.TargetResourceID[0] = 0
	resources := []components.Resource{{Position: components.Vec3{X: 5}, Amount: 10, Active: false}}
	grid := newTestGrid(components.BoundaryPeriodic, 100, 1)
	grid.Rebuild([]components.Vec3{a.Pos.Get(0)}, a.Alive, a.CellID)

	SelectForagingTargets(a, resources, grid, 50)

	if a.HasTarget[0] {
		t.Fatalf("target on a now-inactive resource should be released")
	}
}

func TestApplyPassiveDrainKillsAtZeroEnergy(t *testing.T) {
	a := components.NewArena(1)
	a.InitAgent(0, components.Follower, 1, components.Vec3{}, components.Vec3{}, 1, 1)

	ApplyPassiveDrain(a, 2)

	if a.Alive[0] {
		t.Fatalf("agent with energy driven to <= 0 should be killed")
	}
}

func TestApplyPassiveDrainKeepsAliveAboveZero(t *testing.T) {
	a := components.NewArena(1)
	a.InitAgent(0, components.Follower, 1, components.Vec3{}, components.Vec3{}, 10, 1)

	ApplyPassiveDrain(a, 2)

	if !a.Alive[0] {
		t.Fatalf("agent with energy remaining above 0 should stay alive")
	}
	if a.Energy[0] != 8 {
		t.Fatalf("energy = %v, want 8", a.Energy[0])
	}
}
