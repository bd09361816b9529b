package engine

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/latteine1217/alife-3d-flocking/components"
)

// SnapshotView is a read-only, point-in-time copy of engine state for
// downstream consumers, per spec §4.12. It never shares backing
// arrays with the live arena -- copy-out, not copy-free, so a
// consumer holding a SnapshotView can never observe a torn or
// in-progress step.
type SnapshotView struct {
	N    int
	Step int64

	Positions  []components.Vec3
	Velocities []components.Vec3
	Types      []components.AgentType
	Energies   []float32
	Targets    []int32 // target_resource_id for foragers, target_prey_id for predators
	Groups     []int32
	Alive      []bool

	Stats SnapshotStats

	Resources      []ResourceView
	GroupAggregates []components.GroupAggregate
}

// ResourceView is the snapshot's per-resource summary, per spec §4.12.
type ResourceView struct {
	Position  components.Vec3
	Amount    float32
	Radius    float32
	Renewable bool
}

// SnapshotStats holds the aggregate diagnostics computed over live
// agents only, per spec §4.12.
type SnapshotStats struct {
	MeanSpeed    float32
	StdSpeed     float32
	Rg           float32
	Polarization float32
	NGroups      int
}

// buildSnapshot copies the live engine state into a SnapshotView. It
// is read-only with respect to the arena: nothing here mutates
// e.arena, e.resources, or e.lastGroups.
func (e *Engine) buildSnapshot() SnapshotView {
	a := e.arena
	n := a.Count

	view := SnapshotView{
		N:          a.Count,
		Step:       e.step,
		Positions:  make([]components.Vec3, n),
		Velocities: make([]components.Vec3, n),
		Types:      make([]components.AgentType, n),
		Energies:   make([]float32, n),
		Targets:    make([]int32, n),
		Groups:     make([]int32, n),
		Alive:      make([]bool, n),
	}
	for i := 0; i < n; i++ {
		view.Positions[i] = a.Pos.Get(i)
		view.Velocities[i] = a.Vel.Get(i)
		view.Types[i] = a.Type[i]
		view.Energies[i] = a.Energy[i]
		view.Alive[i] = a.Alive[i]
		view.Groups[i] = a.GroupID[i]
		if a.Type[i].IsPredator() {
			view.Targets[i] = a.TargetPreyID[i]
		} else {
			view.Targets[i] = a.TargetResourceID[i]
		}
	}

	view.Resources = make([]ResourceView, len(e.resources))
	for i, r := range e.resources {
		view.Resources[i] = ResourceView{Position: r.Position, Amount: r.Amount, Radius: r.Radius, Renewable: r.Renewable()}
	}
	view.GroupAggregates = append([]components.GroupAggregate(nil), e.lastGroups...)

	view.Stats = computeStats(a, len(view.GroupAggregates))
	return view
}

// computeStats reduces per-agent speed/position data to mean_speed,
// std_speed (via gonum/stat), Rg (radius of gyration), and
// polarization, all over live agents only, per spec §4.12.
func computeStats(a *components.Arena, nGroups int) SnapshotStats {
	n := a.Count
	speeds := make([]float32, 0, n)
	var centroidSum components.Vec3
	var velSum components.Vec3
	var velMagSum float32
	liveCount := 0

	for i := 0; i < n; i++ {
		if !a.Alive[i] {
			continue
		}
		v := a.Vel.Get(i)
		speeds = append(speeds, v.Len())
		centroidSum = centroidSum.Add(a.Pos.Get(i))
		velSum = velSum.Add(v)
		velMagSum += v.Len()
		liveCount++
	}

	if liveCount == 0 {
		return SnapshotStats{NGroups: nGroups}
	}

	speedsF64 := make([]float64, len(speeds))
	for i, s := range speeds {
		speedsF64[i] = float64(s)
	}
	mean, std := stat.MeanStdDev(speedsF64, nil)

	centroid := centroidSum.Scale(1 / float32(liveCount))
	var rgSumSq float32
	for i := 0; i < n; i++ {
		if !a.Alive[i] {
			continue
		}
		d := a.Pos.Get(i).Sub(centroid).Len()
		rgSumSq += d * d
	}
	rg := float32(math.Sqrt(float64(rgSumSq) / float64(liveCount)))

	var polarization float32
	if velMagSum > 1e-9 {
		polarization = velSum.Len() / velMagSum
	}

	return SnapshotStats{
		MeanSpeed:    float32(mean),
		StdSpeed:     float32(std),
		Rg:           rg,
		Polarization: polarization,
		NGroups:      nGroups,
	}
}
