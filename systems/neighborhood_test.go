package systems

import (
	"math"
	"testing"

	"github.com/latteine1217/alife-3d-flocking/components"
)

func TestInFOVOmnidirectionalWhenDisabled(t *testing.T) {
	vel := components.Vec3{X: 1, Y: 0, Z: 0}
	behind := components.Vec3{X: -1, Y: 0, Z: 0}
	if !InFOV(vel, behind, float32(math.Pi/4), false) {
		t.Fatalf("FOV filtering disabled should treat every direction as visible")
	}
}

func TestInFOVZeroVelocityIsOmnidirectional(t *testing.T) {
	behind := components.Vec3{X: -1, Y: 0, Z: 0}
	if !InFOV(components.Vec3{}, behind, float32(math.Pi/4), true) {
		t.Fatalf("near-zero velocity should be treated as omnidirectional perception")
	}
}

func TestInFOVAcceptsDirectionAheadWithinCone(t *testing.T) {
	vel := components.Vec3{X: 1, Y: 0, Z: 0}
	ahead := components.Vec3{X: 1, Y: 0.1, Z: 0}
	if !InFOV(vel, ahead, float32(math.Pi/2), true) {
		t.Fatalf("a direction within the half-angle cone should be visible")
	}
}

func TestInFOVRejectsDirectionBehindNarrowCone(t *testing.T) {
	vel := components.Vec3{X: 1, Y: 0, Z: 0}
	behind := components.Vec3{X: -1, Y: 0, Z: 0}
	if InFOV(vel, behind, float32(math.Pi/4), true) {
		t.Fatalf("a direction directly behind should be outside a narrow forward cone")
	}
}

func TestNeighborsVisibleIsSubsetOfUnfilteredNeighbors(t *testing.T) {
	g := newTestGrid(components.BoundaryPeriodic, 100, 5)
	positions := []components.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},  // ahead
		{X: -1, Y: 0, Z: 0}, // behind
		{X: 0, Y: 1, Z: 0},  // to the side
		{X: 0, Y: -1, Z: 0}, // to the other side
	}
	velocities := make([]components.Vec3, 5)
	velocities[0] = components.Vec3{X: 1, Y: 0, Z: 0}
	alive := []bool{true, true, true, true, true}
	cellOf := make([]int32, 5)
	g.Rebuild(positions, alive, cellOf)

	unfiltered := map[int]bool{}
	g.Neighbors(0, positions, alive, 5, func(j int, delta components.Vec3, distSq float32) {
		unfiltered[j] = true
	})

	visible := NeighborsVisible(g, 0, positions, velocities, alive, 5, float32(math.Pi/2), true, nil)
	for _, vn := range visible {
		if !unfiltered[vn.J] {
			t.Fatalf("NeighborsVisible returned agent %d not present in the unfiltered neighbor set", vn.J)
		}
	}
}

func TestNeighborsVisibleNarrowerFOVNeverFindsMore(t *testing.T) {
	g := newTestGrid(components.BoundaryPeriodic, 100, 5)
	positions := []components.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0.5, Z: 0},
		{X: 1, Y: -0.5, Z: 0},
		{X: -1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
	}
	velocities := make([]components.Vec3, 5)
	velocities[0] = components.Vec3{X: 1, Y: 0, Z: 0}
	alive := []bool{true, true, true, true, true}
	cellOf := make([]int32, 5)
	g.Rebuild(positions, alive, cellOf)

	wide := NeighborsVisible(g, 0, positions, velocities, alive, 5, float32(math.Pi), true, nil)
	narrow := NeighborsVisible(g, 0, positions, velocities, alive, 5, float32(math.Pi/8), true, nil)

	if len(narrow) > len(wide) {
		t.Fatalf("a narrower FOV angle should never reveal more neighbors: narrow=%d wide=%d", len(narrow), len(wide))
	}

	wideSet := map[int]bool{}
	for _, vn := range wide {
		wideSet[vn.J] = true
	}
	for _, vn := range narrow {
		if !wideSet[vn.J] {
			t.Fatalf("neighbor %d visible under a narrow FOV but not under a wider one", vn.J)
		}
	}
}

func TestNeighborsVisibleExcludesDeadAgents(t *testing.T) {
	g := newTestGrid(components.BoundaryPeriodic, 100, 2)
	positions := []components.Vec3{{X: 0}, {X: 1}}
	velocities := []components.Vec3{{X: 1}, {}}
	alive := []bool{true, false}
	cellOf := make([]int32, 2)
	g.Rebuild(positions, alive, cellOf)

	visible := NeighborsVisible(g, 0, positions, velocities, alive, 5, float32(math.Pi), true, nil)
	if len(visible) != 0 {
		t.Fatalf("expected no visible neighbors once the only candidate is dead, got %v", visible)
	}
}

func TestNeighborsVisibleResetsLengthAcrossCalls(t *testing.T) {
	g := newTestGrid(components.BoundaryPeriodic, 100, 3)
	positions := []components.Vec3{{X: 0}, {X: 1}, {X: 40}}
	velocities := make([]components.Vec3, 3)
	alive := []bool{true, true, true}
	cellOf := make([]int32, 3)
	g.Rebuild(positions, alive, cellOf)

	scratch := make([]VisibleNeighbor, 0, 8)
	scratch = NeighborsVisible(g, 0, positions, velocities, alive, 10, float32(math.Pi), true, scratch)
	if len(scratch) != 1 {
		t.Fatalf("expected 1 neighbor for agent 0, got %d", len(scratch))
	}

	scratch = NeighborsVisible(g, 2, positions, velocities, alive, 10, float32(math.Pi), true, scratch)
	if len(scratch) != 0 {
		t.Fatalf("expected the reused slice to reset to 0 neighbors for the isolated agent 2, got %d", len(scratch))
	}
}
