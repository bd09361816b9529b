package systems

import (
	"math"

	"github.com/latteine1217/alife-3d-flocking/components"
	"github.com/latteine1217/alife-3d-flocking/rng"
)

// SelectPredationTargets has each live predator pick the nearest live
// non-predator within SearchRadius, releasing the target if none is
// found, per spec §4.8.
func SelectPredationTargets(a *components.Arena, grid *Grid, searchRadius float32) {
	n := a.Count
	for i := 0; i < n; i++ {
		if !a.Alive[i] || !a.Type[i].IsPredator() {
			continue
		}
		pos := a.Pos.Get(i)
		best := -1
		bestDistSq := searchRadius * searchRadius
		for j := 0; j < n; j++ {
			if j == i || !a.Alive[j] || a.Type[j].IsPredator() {
				continue
			}
			delta := grid.PBCDelta(pos, a.Pos.Get(j))
			d := delta.LenSq()
			if d <= bestDistSq {
				best = j
				bestDistSq = d
			}
		}
		if best >= 0 {
			a.TargetPreyID[i] = int32(best)
		} else {
			a.TargetPreyID[i] = components.NoTarget
		}
	}
}

// Attack runs the ecological-interactions phase: every predator with a
// live target and an elapsed cooldown attempts a kill when within
// AttackRadius, using the multi-factor success probability of spec
// §4.8.
func Attack(a *components.Arena, grid *Grid, p components.PredationParams, v0 float32, energyMax float32, step int32) {
	n := a.Count
	for i := 0; i < n; i++ {
		if !a.Alive[i] || !a.Type[i].IsPredator() {
			continue
		}
		q := a.TargetPreyID[i]
		if q < 0 || !a.Alive[q] {
			continue
		}
		if step-a.LastAttackStep[i] < p.Cooldown {
			continue
		}

		predPos := a.Pos.Get(i)
		preyPos := a.Pos.Get(int(q))
		delta := grid.PBCDelta(predPos, preyPos)
		dist := delta.Len()
		if dist > p.AttackRadius {
			continue
		}

		protectors := countProtectors(a, grid, int(q), p.AttackRadius*2)
		prob := successProbability(a.Vel.Get(i).Len(), a.Vel.Get(int(q)).Len(), v0, a.Energy[int(q)], a.Energy[i], energyMax, protectors)

		u := rng.Uniform(&a.RNGState[i])
		if u < prob {
			a.Kill(int(q))
			a.Energy[i] = minf(energyMax, a.Energy[i]+p.EnergyReward)
			a.LastAttackStep[i] = step
		}
	}
}

// successProbability implements spec §4.8's multi-factor predation
// success formula, clamped to [0.05, 0.95].
func successProbability(predSpeed, preySpeed, v0 float32, preyEnergy, predEnergy, energyMax float32, protectors int) float32 {
	prob := float32(0.5)
	prob += 0.20 * tanhf((predSpeed-preySpeed)/v0)
	prob += 0.15 * (1 - preyEnergy/energyMax)
	prob += 0.06 * (predEnergy / energyMax)
	prob -= 0.30 * (1 - 1/(1+float32(protectors)))

	if prob < 0.05 {
		return 0.05
	}
	if prob > 0.95 {
		return 0.95
	}
	return prob
}

// countProtectors counts live same-group non-predator neighbors of
// prey index q within radius, per spec §4.8's group-defense term.
func countProtectors(a *components.Arena, grid *Grid, q int, radius float32) int {
	group := a.GroupID[q]
	if group < 0 {
		return 0
	}
	n := a.Count
	pos := a.Pos.Get(q)
	radiusSq := radius * radius
	count := 0
	for j := 0; j < n; j++ {
		if j == q || !a.Alive[j] || a.Type[j].IsPredator() {
			continue
		}
		if a.GroupID[j] != group {
			continue
		}
		delta := grid.PBCDelta(pos, a.Pos.Get(j))
		if delta.LenSq() <= radiusSq {
			count++
		}
	}
	return count
}

func tanhf(v float32) float32 {
	return float32(math.Tanh(float64(v)))
}
