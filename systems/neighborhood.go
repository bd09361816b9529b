package systems

import (
	"math"

	"github.com/latteine1217/alife-3d-flocking/components"
)

// maxVisibleNeighbors bounds per-agent neighbor collection so a dense
// cluster cannot blow up a single force-accumulation pass; callers
// that need every neighbor (e.g. group detection) call Grid.Neighbors
// directly.
const maxVisibleNeighbors = 256

// InFOV reports whether the direction from i to j falls within agent
// i's field-of-view cone, per spec §4.3. A (near) zero velocity is
// treated as omnidirectional perception.
func InFOV(velocity components.Vec3, delta components.Vec3, fovAngle float32, fovEnabled bool) bool {
	if !fovEnabled {
		return true
	}
	velLen := velocity.Len()
	if velLen < 1e-6 {
		return true
	}
	deltaLen := delta.Len()
	if deltaLen < 1e-6 {
		return true
	}
	cosAngle := velocity.Dot(delta) / (velLen * deltaLen)
	// clamp for numerical safety before acos
	if cosAngle > 1 {
		cosAngle = 1
	} else if cosAngle < -1 {
		cosAngle = -1
	}
	angle := float32(math.Acos(float64(cosAngle)))
	return angle <= fovAngle/2
}

// VisibleNeighbor is a precomputed neighbor record for agent i,
// carrying the data every force term needs so none of them re-derive
// delta/distance.
type VisibleNeighbor struct {
	J      int
	Delta  components.Vec3 // PBC-aware delta from i to j
	DistSq float32
	Dist   float32
}

// NeighborsVisible collects the visible (alive, in-FOV, within rCut)
// neighbors of agent i into dst, reusing its backing array across
// calls to avoid allocation. Per spec §4.3.
func NeighborsVisible(grid *Grid, i int, positions []components.Vec3, velocities []components.Vec3, alive []bool, rCut float32, fovAngle float32, fovEnabled bool, dst []VisibleNeighbor) []VisibleNeighbor {
	dst = dst[:0]
	vel := velocities[i]
	grid.Neighbors(i, positions, alive, rCut, func(j int, delta components.Vec3, distSq float32) {
		if len(dst) >= maxVisibleNeighbors {
			return
		}
		if !InFOV(vel, delta, fovAngle, fovEnabled) {
			return
		}
		dst = append(dst, VisibleNeighbor{J: j, Delta: delta, DistSq: distSq, Dist: sqrtf32(distSq)})
	})
	return dst
}

func sqrtf32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}
