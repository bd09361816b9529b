package systems

import (
	"sort"

	"github.com/latteine1217/alife-3d-flocking/components"
)

// Candidate is one agent's claim on a resource, collected during the
// consumption pass before FIFO-by-proximity sorting. Exported only so
// callers can preallocate and reuse the scratch slice across steps.
type Candidate struct {
	agent int
	dist  float32
}

// ConsumeResources runs one FIFO-by-proximity consumption pass over
// every active resource, per spec §4.6. Resources are serialised
// individually (the only cross-index write in a phase, per spec §5),
// but different resources are independent of one another.
func ConsumeResources(resources []components.Resource, a *components.Arena, grid *Grid, consumptionPerStep, energyMax float32, scratch []Candidate) {
	n := a.Count
	for r := range resources {
		res := &resources[r]
		if !res.Active {
			continue
		}
		scratch = scratch[:0]
		for i := 0; i < n; i++ {
			if !a.Alive[i] {
				continue
			}
			delta := grid.PBCDelta(a.Pos.Get(i), res.Position)
			d := delta.Len()
			if d <= res.Radius {
				scratch = append(scratch, Candidate{agent: i, dist: d})
			}
		}
		if len(scratch) == 0 {
			continue
		}
		sort.Slice(scratch, func(x, y int) bool {
			if scratch[x].dist != scratch[y].dist {
				return scratch[x].dist < scratch[y].dist
			}
			return scratch[x].agent < scratch[y].agent
		})

		for _, c := range scratch {
			if res.Amount <= 0 {
				break
			}
			room := energyMax - a.Energy[c.agent]
			take := minf(consumptionPerStep, res.Amount)
			take = minf(take, room)
			if take <= 0 {
				continue
			}
			res.Amount -= take
			a.Energy[c.agent] += take
		}

		if !res.Renewable() && res.Amount <= 0 {
			res.Active = false
		}
	}
}

// RegenerateResources applies per-step replenishment to every active
// renewable resource, per spec §4.6.
func RegenerateResources(resources []components.Resource) {
	for r := range resources {
		res := &resources[r]
		if !res.Active || !res.Renewable() {
			continue
		}
		res.Amount = minf(res.MaxAmount, res.Amount+res.ReplenishRate)
	}
}
