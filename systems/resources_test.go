package systems

import (
	"testing"

	"github.com/latteine1217/alife-3d-flocking/components"
)

func newConsumeTestArena(positions []components.Vec3, energy []float32) *components.Arena {
	a := components.NewArena(len(positions))
	for i, p := range positions {
		a.InitAgent(i, components.Follower, 1, p, components.Vec3{}, energy[i], uint32(i+1))
	}
	return a
}

// Consumption serves closer agents first; a resource that cannot
// satisfy every claimant still pays out in distance order, not agent
// index order.
func TestConsumeResourcesServesNearestFirst(t *testing.T) {
	grid := newTestGrid(components.BoundaryPeriodic, 100, 3)
	positions := []components.Vec3{
		{X: 5, Y: 0, Z: 0}, // agent 0, far
		{X: 1, Y: 0, Z: 0}, // agent 1, near
		{X: 3, Y: 0, Z: 0}, // agent 2, middle
	}
	a := newConsumeTestArena(positions, []float32{0, 0, 0})
	grid.Rebuild(positions, a.Alive, a.CellID)

	resources := []components.Resource{{Position: components.Vec3{}, Amount: 1, MaxAmount: 1, Radius: 10, Active: true}}

	var scratch []Candidate
	ConsumeResources(resources, a, grid, 10 /* more than amount available */, 100, scratch)

	if a.Energy[1] != 1 {
		t.Fatalf("nearest agent should have consumed the full amount, got energy %v", a.Energy[1])
	}
	if a.Energy[0] != 0 || a.Energy[2] != 0 {
		t.Fatalf("farther agents should get nothing once the resource is exhausted, got %v %v", a.Energy[0], a.Energy[2])
	}
	if resources[0].Amount != 0 {
		t.Fatalf("resource amount = %v, want 0", resources[0].Amount)
	}
}

func TestConsumeResourcesSkipsInactiveResources(t *testing.T) {
	grid := newTestGrid(components.BoundaryPeriodic, 100, 1)
	positions := []components.Vec3{{X: 0, Y: 0, Z: 0}}
	a := newConsumeTestArena(positions, []float32{0})
	grid.Rebuild(positions, a.Alive, a.CellID)

	resources := []components.Resource{{Position: components.Vec3{}, Amount: 10, MaxAmount: 10, Radius: 5, Active: false}}
	var scratch []Candidate
	ConsumeResources(resources, a, grid, 10, 100, scratch)

	if a.Energy[0] != 0 {
		t.Fatalf("agent should not consume from an inactive resource, got energy %v", a.Energy[0])
	}
}

func TestConsumeResourcesRespectsEnergyMax(t *testing.T) {
	grid := newTestGrid(components.BoundaryPeriodic, 100, 1)
	positions := []components.Vec3{{X: 0, Y: 0, Z: 0}}
	a := newConsumeTestArena(positions, []float32{95})
	grid.Rebuild(positions, a.Alive, a.CellID)

	resources := []components.Resource{{Position: components.Vec3{}, Amount: 20, MaxAmount: 20, Radius: 5, Active: true}}
	var scratch []Candidate
	ConsumeResources(resources, a, grid, 10, 100, scratch)

	if a.Energy[0] != 100 {
		t.Fatalf("agent energy = %v, want capped at energy_max 100", a.Energy[0])
	}
	if resources[0].Amount != 15 {
		t.Fatalf("resource amount = %v, want 15 (only 5 consumed to hit the cap)", resources[0].Amount)
	}
}

func TestConsumeResourcesDeactivatesDepletedNonRenewable(t *testing.T) {
	grid := newTestGrid(components.BoundaryPeriodic, 100, 1)
	positions := []components.Vec3{{X: 0, Y: 0, Z: 0}}
	a := newConsumeTestArena(positions, []float32{0})
	grid.Rebuild(positions, a.Alive, a.CellID)

	resources := []components.Resource{{Position: components.Vec3{}, Amount: 5, MaxAmount: 5, Radius: 5, ReplenishRate: 0, Active: true}}
	var scratch []Candidate
	ConsumeResources(resources, a, grid, 5, 100, scratch)

	if resources[0].Active {
		t.Fatalf("depleted non-renewable resource should be deactivated")
	}
}

func TestRegenerateResourcesCapsAtMaxAmount(t *testing.T) {
	resources := []components.Resource{
		{Amount: 8, MaxAmount: 10, ReplenishRate: 5, Active: true},
		{Amount: 5, MaxAmount: 10, ReplenishRate: 0, Active: true}, // non-renewable, untouched
	}
	RegenerateResources(resources)

	if resources[0].Amount != 10 {
		t.Fatalf("renewable resource amount = %v, want capped at 10", resources[0].Amount)
	}
	if resources[1].Amount != 5 {
		t.Fatalf("non-renewable resource should not regenerate, got %v", resources[1].Amount)
	}
}
