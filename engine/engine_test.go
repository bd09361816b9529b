package engine

import (
	"testing"

	"github.com/latteine1217/alife-3d-flocking/components"
)

func testCapacities(agents int) Capacities {
	return Capacities{MaxAgents: agents, MaxResources: 4, MaxObstacles: 2, MaxGroups: 8}
}

func uniformTypes(n int, predators int) []components.AgentType {
	types := make([]components.AgentType, n)
	for i := range types {
		if i < predators {
			types[i] = components.Predator
		} else {
			types[i] = components.Follower
		}
	}
	return types
}

func TestNewRejectsMismatchedAgentTypesLength(t *testing.T) {
	_, err := New(components.DefaultParams(), uniformTypes(5, 0), testCapacities(10))
	if err == nil {
		t.Fatalf("expected an error when agent_types length does not match max_agents")
	}
}

func TestNewRejectsInvalidParams(t *testing.T) {
	p := components.DefaultParams()
	p.Morse.Rc = 0
	_, err := New(p, uniformTypes(5, 0), testCapacities(5))
	if err == nil {
		t.Fatalf("expected an error from invalid (non-positive Rc) params")
	}
}

func TestNewRejectsNonPositiveCapacity(t *testing.T) {
	_, err := New(components.DefaultParams(), nil, Capacities{MaxAgents: 0})
	if err == nil {
		t.Fatalf("expected an error for max_agents <= 0")
	}
}

func newTestEngine(t *testing.T, n, predators int, seed uint64) *Engine {
	t.Helper()
	eng, err := New(components.DefaultParams(), uniformTypes(n, predators), testCapacities(n))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	eng.Initialize(20, seed)
	return eng
}

func TestStepIsDeterministicGivenSameSeed(t *testing.T) {
	e1 := newTestEngine(t, 20, 2, 42)
	e2 := newTestEngine(t, 20, 2, 42)

	var s1, s2 SnapshotView
	for i := 0; i < 10; i++ {
		s1 = e1.Step(0.05)
		s2 = e2.Step(0.05)
	}

	if len(s1.Positions) != len(s2.Positions) {
		t.Fatalf("snapshot lengths differ: %d vs %d", len(s1.Positions), len(s2.Positions))
	}
	for i := range s1.Positions {
		if s1.Positions[i] != s2.Positions[i] {
			t.Fatalf("position %d diverged between identically-seeded runs: %+v vs %+v", i, s1.Positions[i], s2.Positions[i])
		}
		if s1.Velocities[i] != s2.Velocities[i] {
			t.Fatalf("velocity %d diverged between identically-seeded runs: %+v vs %+v", i, s1.Velocities[i], s2.Velocities[i])
		}
	}
}

func TestStepKeepsSpeedWithinCap(t *testing.T) {
	eng := newTestEngine(t, 30, 3, 7)
	for i := 0; i < 30; i++ {
		snap := eng.Step(0.05)
		for j, v := range snap.Velocities {
			if !snap.Alive[j] {
				continue
			}
			profile := components.DefaultProfileTable()[snap.Types[j]]
			cap := profile.V0PreferredSpeed * eng.params.VCapScale
			if speed := v.Len(); speed > cap+1e-2 {
				t.Fatalf("step %d agent %d speed %v exceeds cap %v", i, j, speed, cap)
			}
		}
	}
}

func TestStepKeepsEnergyWithinBounds(t *testing.T) {
	eng := newTestEngine(t, 20, 2, 11)
	for i := 0; i < 40; i++ {
		snap := eng.Step(0.05)
		for j, energy := range snap.Energies {
			if !snap.Alive[j] {
				continue
			}
			if energy < 0 || energy > eng.params.Foraging.EnergyMax+1e-3 {
				t.Fatalf("step %d agent %d energy %v out of [0, energy_max] bounds", i, j, energy)
			}
		}
	}
}

func TestAliveCountIsMonotonicNonIncreasing(t *testing.T) {
	eng := newTestEngine(t, 20, 2, 3)
	prev := eng.AliveCount()
	for i := 0; i < 50; i++ {
		eng.Step(0.05)
		cur := eng.AliveCount()
		if cur > prev {
			t.Fatalf("alive count increased from %d to %d at step %d -- slots are never resurrected", prev, cur, i)
		}
		prev = cur
	}
}

func TestGroupIDsStayWithinDeclaredDomain(t *testing.T) {
	eng := newTestEngine(t, 20, 2, 5)
	for i := 0; i < 20; i++ {
		snap := eng.Step(0.05)
		for j, g := range snap.Groups {
			if snap.Types[j] == components.Predator {
				if g != components.NoGroup {
					t.Fatalf("predator %d has a group id %d, want NoGroup", j, g)
				}
				continue
			}
			if g != components.NoGroup && (g < 0 || int(g) >= eng.params.Groups.MaxGroups) {
				t.Fatalf("agent %d group id %d out of [0, max_groups) domain", j, g)
			}
		}
	}
}

func TestAddResourceRespectsCapacity(t *testing.T) {
	eng := newTestEngine(t, 5, 0, 1)
	cfg := components.ResourceConfig{Position: components.Vec3{}, Amount: 10, MaxAmount: 10, Radius: 5}
	for i := 0; i < 4; i++ {
		if _, err := eng.AddResource(cfg); err != nil {
			t.Fatalf("AddResource %d should have succeeded, got %v", i, err)
		}
	}
	if _, err := eng.AddResource(cfg); err == nil {
		t.Fatalf("expected a capacity error once the resource arena is full")
	}
}

func TestRemoveResourceRejectsUnknownID(t *testing.T) {
	eng := newTestEngine(t, 5, 0, 1)
	if err := eng.RemoveResource(0); err == nil {
		t.Fatalf("expected a domain error removing an inactive resource slot")
	}
}

func TestCommandPauseStopsStepping(t *testing.T) {
	eng := newTestEngine(t, 10, 1, 9)
	eng.SendCommand(Command{Kind: CommandPause})

	before := eng.Step(0.05)
	after := eng.Step(0.05)

	if before.Step != after.Step {
		t.Fatalf("paused engine should not advance its step counter: %d -> %d", before.Step, after.Step)
	}
}

func TestCommandResetRestartsStepCounter(t *testing.T) {
	eng := newTestEngine(t, 10, 1, 9)
	eng.Step(0.05)
	eng.Step(0.05)

	eng.SendCommand(Command{Kind: CommandReset, Seed: 123})
	snap := eng.Step(0.05)

	if snap.Step != 0 {
		t.Fatalf("reset should restart the step counter, got %d after one post-reset step (snapshot reports the step in progress, before it increments)", snap.Step)
	}
}
