package systems

import (
	"github.com/latteine1217/alife-3d-flocking/components"
)

// SelectForagingTargets scans for each live non-predator agent that
// either already has a target or is below the energy threshold, picking the
// nearest active resource by PBC-aware distance, per spec §4.7. It
// releases a target whose resource has gone inactive.
func SelectForagingTargets(a *components.Arena, resources []components.Resource, grid *Grid, energyThreshold float32) {
	n := a.Count
	for i := 0; i < n; i++ {
		if !a.Alive[i] || a.Type[i].IsPredator() {
			continue
		}

		if a.HasTarget[i] {
			id := a.TargetResourceID[i]
			if id < 0 || int(id) >= len(resources) || !resources[id].Active {
				a.HasTarget[i] = false
				a.TargetResourceID[i] = components.NoTarget
			}
		}

		if a.Energy[i] >= energyThreshold && !a.HasTarget[i] {
			continue
		}

		best := -1
		bestDistSq := float32(-1)
		pos := a.Pos.Get(i)
		for r := range resources {
			if !resources[r].Active {
				continue
			}
			delta := grid.PBCDelta(pos, resources[r].Position)
			d := delta.LenSq()
			if best < 0 || d < bestDistSq {
				best = r
				bestDistSq = d
			}
		}
		if best >= 0 {
			a.TargetResourceID[i] = int32(best)
			a.HasTarget[i] = true
		}
	}
}

// ApplyPassiveDrain subtracts the per-step passive energy cost from
// every live agent, marking newly-dead agents per spec §4.10.
func ApplyPassiveDrain(a *components.Arena, drain float32) {
	n := a.Count
	for i := 0; i < n; i++ {
		if !a.Alive[i] {
			continue
		}
		a.Energy[i] -= drain
		if a.Energy[i] <= 0 {
			a.Kill(i)
		}
	}
}
