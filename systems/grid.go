// Package systems implements the per-phase simulation kernels: the
// spatial grid, neighborhood/FOV filtering, physics force
// accumulation, the Velocity-Verlet integrator, the resource and
// foraging/predation behaviors, and label-propagation group
// detection. Each system operates on plain index-addressed slices
// handed to it by the engine package — per spec §9's redesign note,
// systems never hold pointer graphs between agents.
package systems

import (
	"github.com/latteine1217/alife-3d-flocking/components"
)

// Grid is a uniform cell-hash spatial index over the bounded domain
// box. Cell size is 2*r_cutoff per spec §3. The grid holds no
// ownership over agent data; it is rebuilt from a positions/alive
// snapshot every step (spec §4.2).
type Grid struct {
	cellSize   float32
	dims       int // 2 or 3
	box        components.Vec3
	mode       components.BoundaryMode
	nx, ny, nz int

	cellHead []int32 // len nx*ny*nz, -1 = empty
	next     []int32 // len capacity, -1 = end of chain; indexed by agent index
}

// NewGrid builds a grid sized for the given boundary box and cell
// size. capacity is the agent arena's fixed N_max.
func NewGrid(boundary components.BoundaryParams, cellSize float32, capacity int) *Grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	dims := boundary.Dimensions
	if dims != 2 && dims != 3 {
		dims = 3
	}
	g := &Grid{
		cellSize: cellSize,
		dims:     dims,
		box:      boundary.BoxSize,
		mode:     boundary.Mode,
	}
	periodic := boundary.Mode == components.BoundaryPeriodic
	g.nx = axisCells(boundary.BoxSize.X, cellSize, periodic)
	g.ny = axisCells(boundary.BoxSize.Y, cellSize, periodic)
	if dims == 3 {
		g.nz = axisCells(boundary.BoxSize.Z, cellSize, periodic)
	} else {
		g.nz = 1
	}
	g.cellHead = make([]int32, g.nx*g.ny*g.nz)
	g.next = make([]int32, capacity)
	return g
}

// axisCells returns the cell count along one axis. Periodic axes are
// tiled exactly (the last cell absorbs the remainder) so that wrapping
// a neighbor step past either end lands on a populated cell.
func axisCells(boxLen, cellSize float32, periodic bool) int {
	n := int(boxLen / cellSize)
	if !periodic {
		n++
	}
	if n < 1 {
		n = 1
	}
	return n
}

// cellCoord returns the per-axis cell coordinate for a world
// position, clamping out-of-range values for non-periodic axes and
// wrapping for periodic axes (both end up in-range, so callers never
// see an invalid coordinate).
func (g *Grid) cellCoord(pos components.Vec3) (cx, cy, cz int) {
	cx = g.axisCoord(pos.X, g.box.X, g.nx)
	cy = g.axisCoord(pos.Y, g.box.Y, g.ny)
	if g.dims == 3 {
		cz = g.axisCoord(pos.Z, g.box.Z, g.nz)
	}
	return
}

func (g *Grid) axisCoord(v, boxLen float32, n int) int {
	if g.mode == components.BoundaryPeriodic {
		v = wrap(v, boxLen)
	}
	c := int(v / g.cellSize)
	if c < 0 {
		c = 0
	} else if c >= n {
		c = n - 1
	}
	return c
}

func wrap(v, boxLen float32) float32 {
	if boxLen <= 0 {
		return v
	}
	for v < 0 {
		v += boxLen
	}
	for v >= boxLen {
		v -= boxLen
	}
	return v
}

func (g *Grid) cellIndex(cx, cy, cz int) int {
	return (cz*g.ny+cy)*g.nx + cx
}

// Rebuild recomputes the grid's cell assignment for every live agent
// in O(N), per spec §4.2. cellOf, if non-nil, receives the
// resolved cell id for each agent index (used to populate
// Arena.CellID).
func (g *Grid) Rebuild(positions []components.Vec3, alive []bool, cellOf []int32) {
	for i := range g.cellHead {
		g.cellHead[i] = -1
	}
	for i := range g.next {
		g.next[i] = -1
	}
	for i, live := range alive {
		if !live {
			if cellOf != nil {
				cellOf[i] = -1
			}
			continue
		}
		cx, cy, cz := g.cellCoord(positions[i])
		idx := int32(g.cellIndex(cx, cy, cz))
		g.next[i] = g.cellHead[idx]
		g.cellHead[idx] = int32(i)
		if cellOf != nil {
			cellOf[i] = idx
		}
	}
}

// PBCDelta returns the shortest-path delta from a to b on each axis:
// wrapped for periodic boundaries, identity otherwise, per spec §4.2.
func (g *Grid) PBCDelta(a, b components.Vec3) components.Vec3 {
	d := components.Vec3{X: b.X - a.X, Y: b.Y - a.Y, Z: b.Z - a.Z}
	if g.mode != components.BoundaryPeriodic {
		return d
	}
	d.X = wrapDelta(d.X, g.box.X)
	d.Y = wrapDelta(d.Y, g.box.Y)
	if g.dims == 3 {
		d.Z = wrapDelta(d.Z, g.box.Z)
	}
	return d
}

func wrapDelta(d, boxLen float32) float32 {
	if boxLen <= 0 {
		return d
	}
	if d > boxLen/2 {
		d -= boxLen
	} else if d < -boxLen/2 {
		d += boxLen
	}
	return d
}

// VisitFunc is called once per candidate neighbor j of agent i, with
// the PBC-aware delta from i to j and the squared distance.
type VisitFunc func(j int, delta components.Vec3, distSq float32)

// Neighbors enumerates every live agent within rCut of agent i by
// scanning the 27-cell (9 in 2D) block around i's cell, per spec
// §4.2. i itself is never visited.
func (g *Grid) Neighbors(i int, positions []components.Vec3, alive []bool, rCut float32, visit VisitFunc) {
	cx, cy, cz := g.cellCoord(positions[i])
	rCutSq := rCut * rCut

	zRange := []int{0}
	if g.dims == 3 {
		zRange = []int{-1, 0, 1}
	}

	for _, dz := range zRange {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				ncx, ok1 := g.wrapCellAxis(cx+dx, g.nx, g.box.X)
				if !ok1 {
					continue
				}
				ncy, ok2 := g.wrapCellAxis(cy+dy, g.ny, g.box.Y)
				if !ok2 {
					continue
				}
				ncz := cz
				if g.dims == 3 {
					var ok3 bool
					ncz, ok3 = g.wrapCellAxis(cz+dz, g.nz, g.box.Z)
					if !ok3 {
						continue
					}
				}

				idx := g.cellIndex(ncx, ncy, ncz)
				for j := g.cellHead[idx]; j != -1; j = g.next[j] {
					ji := int(j)
					if ji == i || !alive[ji] {
						continue
					}
					delta := g.PBCDelta(positions[i], positions[ji])
					distSq := delta.X*delta.X + delta.Y*delta.Y + delta.Z*delta.Z
					if distSq <= rCutSq {
						visit(ji, delta, distSq)
					}
				}
			}
		}
	}
}

// wrapCellAxis resolves a neighboring cell coordinate that may have
// stepped outside [0,n): periodic boundaries wrap, non-periodic
// boundaries reject the out-of-range step (there is no neighbor
// beyond a wall).
func (g *Grid) wrapCellAxis(c, n int, boxLen float32) (int, bool) {
	if c >= 0 && c < n {
		return c, true
	}
	// With fewer than 3 cells every cell is already reached without
	// wrapping; wrapping would visit a cell twice.
	if g.mode != components.BoundaryPeriodic || n < 3 {
		return 0, false
	}
	for c < 0 {
		c += n
	}
	for c >= n {
		c -= n
	}
	return c, true
}

// CellOf returns the cell id for a position, recomputed on demand
// (used by the invariant check of spec §8.6 and by components that
// need a cell id outside the main Rebuild pass).
func (g *Grid) CellOf(pos components.Vec3) int32 {
	cx, cy, cz := g.cellCoord(pos)
	return int32(g.cellIndex(cx, cy, cz))
}
