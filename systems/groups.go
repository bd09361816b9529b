package systems

import (
	"math"

	"github.com/latteine1217/alife-3d-flocking/components"
)

// GroupDetector runs periodic label-propagation clustering over
// non-predator agents, double-buffering labels across iterations so
// the pass order never affects the result, per spec §4.9.
type GroupDetector struct {
	labelsA []int32
	labelsB []int32
	init    bool
}

// NewGroupDetector allocates the double-buffer for an arena of the
// given capacity.
func NewGroupDetector(capacity int) *GroupDetector {
	return &GroupDetector{
		labelsA: make([]int32, capacity),
		labelsB: make([]int32, capacity),
	}
}

// Run executes the label-propagation pass and writes the result back
// into a.GroupID, then returns the recomputed per-group aggregates.
// Called every Interval steps by the engine.
func (gd *GroupDetector) Run(a *components.Arena, grid *Grid, p components.GroupDetectionParams) []components.GroupAggregate {
	n := a.Count
	if !gd.init {
		gd.seedInitialLabels(a, p.MaxGroups)
		gd.init = true
	}

	copy(gd.labelsA, a.GroupID[:n])
	read, write := gd.labelsA, gd.labelsB
	positions := positionsView(a)

	for iter := 0; iter < p.NIterations; iter++ {
		for i := 0; i < n; i++ {
			if !a.Alive[i] || a.Type[i].IsPredator() {
				write[i] = -1
				continue
			}
			write[i] = propagateLabel(a, grid, i, read, positions, p)
		}
		read, write = write, read
	}

	copy(a.GroupID[:n], read)
	return aggregateGroups(a, grid, p.MaxGroups)
}

// seedInitialLabels assigns group_id[i] = i % max_groups to
// non-predators and -1 to predators/dead agents, per spec §4.9's
// first-run initialization.
func (gd *GroupDetector) seedInitialLabels(a *components.Arena, maxGroups int) {
	n := a.Count
	for i := 0; i < n; i++ {
		if !a.Alive[i] || a.Type[i].IsPredator() {
			a.GroupID[i] = components.NoGroup
			continue
		}
		a.GroupID[i] = int32(i % maxGroups)
	}
}

// propagateLabel computes agent i's next label: the mode among the
// current labels of live non-predator neighbors within RCluster whose
// heading is within ThetaCluster of i's (plus its own), ties broken by
// lowest label. No field-of-view filter is applied.
func propagateLabel(a *components.Arena, grid *Grid, i int, read []int32, positions []components.Vec3, p components.GroupDetectionParams) int32 {
	vel := a.Vel.Get(i)

	counts := map[int32]int{}
	self := read[i]
	if self >= 0 {
		counts[self]++
	}

	grid.Neighbors(i, positions, a.Alive, p.RCluster, func(j int, delta components.Vec3, distSq float32) {
		if a.Type[j].IsPredator() {
			return
		}
		if angleBetween(vel, a.Vel.Get(j)) > p.ThetaCluster {
			return
		}
		label := read[j]
		if label >= 0 {
			counts[label]++
		}
	})

	if len(counts) == 0 {
		return self
	}
	return modeLabel(counts)
}

func modeLabel(counts map[int32]int) int32 {
	bestLabel := int32(math.MaxInt32)
	bestCount := -1
	for label, c := range counts {
		if c > bestCount || (c == bestCount && label < bestLabel) {
			bestLabel = label
			bestCount = c
		}
	}
	return bestLabel
}

func angleBetween(v1, v2 components.Vec3) float32 {
	l1, l2 := v1.Len(), v2.Len()
	if l1 < 1e-6 || l2 < 1e-6 {
		return 0
	}
	cos := v1.Dot(v2) / (l1 * l2)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return float32(math.Acos(float64(cos)))
}

// positionsView materializes a []Vec3 snapshot of the arena's
// positions for the grid's []Vec3-shaped neighbor API.
func positionsView(a *components.Arena) []components.Vec3 {
	n := a.Count
	out := make([]components.Vec3, n)
	for i := 0; i < n; i++ {
		out[i] = a.Pos.Get(i)
	}
	return out
}

// aggregateGroups recomputes size/centroid/mean-velocity/radius per
// group label, using PBC-aware averaging (positions are folded
// relative to the first member of each group before summation, then
// re-wrapped), per spec §4.9.
func aggregateGroups(a *components.Arena, grid *Grid, maxGroups int) []components.GroupAggregate {
	n := a.Count
	anchors := make([]components.Vec3, maxGroups)
	haveAnchor := make([]bool, maxGroups)
	sumPos := make([]components.Vec3, maxGroups)
	sumVel := make([]components.Vec3, maxGroups)
	counts := make([]int32, maxGroups)

	for i := 0; i < n; i++ {
		if !a.Alive[i] {
			continue
		}
		g := a.GroupID[i]
		if g < 0 || int(g) >= maxGroups {
			continue
		}
		pos := a.Pos.Get(i)
		if !haveAnchor[g] {
			anchors[g] = pos
			haveAnchor[g] = true
		}
		rel := grid.PBCDelta(anchors[g], pos)
		sumPos[g] = sumPos[g].Add(rel)
		sumVel[g] = sumVel[g].Add(a.Vel.Get(i))
		counts[g]++
	}

	var out []components.GroupAggregate
	for g := 0; g < maxGroups; g++ {
		if counts[g] == 0 {
			continue
		}
		cnt := float32(counts[g])
		centroid := anchors[g].Add(sumPos[g].Scale(1 / cnt))
		if grid.mode == components.BoundaryPeriodic {
			centroid.X = wrapCentered(centroid.X, grid.box.X)
			centroid.Y = wrapCentered(centroid.Y, grid.box.Y)
			if grid.dims == 3 {
				centroid.Z = wrapCentered(centroid.Z, grid.box.Z)
			}
		}
		meanVel := sumVel[g].Scale(1 / cnt)

		var radius float32
		for i := 0; i < n; i++ {
			if !a.Alive[i] || a.GroupID[i] != int32(g) {
				continue
			}
			d := grid.PBCDelta(centroid, a.Pos.Get(i)).Len()
			if d > radius {
				radius = d
			}
		}

		out = append(out, components.GroupAggregate{
			ID:       int32(g),
			Size:     counts[g],
			Centroid: centroid,
			MeanVel:  meanVel,
			Radius:   radius,
		})
	}
	return out
}
