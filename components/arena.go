package components

// Arena is the agent table: a fixed-capacity, N_max-sized
// structure-of-arrays. Every slice has length Capacity; index i is
// agent i's row across every slice. Slots are never reused once an
// agent dies — only Alive[i] flips to false (spec §3, §4.10).
type Arena struct {
	Capacity int
	Count    int // number of initialized (possibly dead) slots in use, <= Capacity

	Pos Vec3Slice
	Vel Vec3Slice
	Acc Vec3Slice

	Type   []AgentType
	Mass   []float32
	Energy []float32
	Alive  []bool

	TargetResourceID []int32
	TargetPreyID     []int32
	HasTarget        []bool

	GroupID []int32

	RNGState []uint32

	LastAttackStep []int32
	CellID         []int32
}

// Vec3Slice is a parallel [X][Y][Z] slice triple, kept here instead of
// []Vec3 so the integrator's bulk blas32 axpy can operate on one flat
// float32 slice per axis without a strided copy.
type Vec3Slice struct {
	X, Y, Z []float32
}

func newVec3Slice(n int) Vec3Slice {
	return Vec3Slice{X: make([]float32, n), Y: make([]float32, n), Z: make([]float32, n)}
}

// Get returns the Vec3 at index i.
func (v Vec3Slice) Get(i int) Vec3 {
	return Vec3{X: v.X[i], Y: v.Y[i], Z: v.Z[i]}
}

// Set writes val at index i.
func (v Vec3Slice) Set(i int, val Vec3) {
	v.X[i] = val.X
	v.Y[i] = val.Y
	v.Z[i] = val.Z
}

// NewArena allocates a fresh arena of the given fixed capacity. All
// agents start dead (Alive=false); callers populate slots via
// InitAgent.
func NewArena(capacity int) *Arena {
	a := &Arena{
		Capacity:         capacity,
		Pos:              newVec3Slice(capacity),
		Vel:              newVec3Slice(capacity),
		Acc:              newVec3Slice(capacity),
		Type:             make([]AgentType, capacity),
		Mass:             make([]float32, capacity),
		Energy:           make([]float32, capacity),
		Alive:            make([]bool, capacity),
		TargetResourceID: make([]int32, capacity),
		TargetPreyID:     make([]int32, capacity),
		HasTarget:        make([]bool, capacity),
		GroupID:          make([]int32, capacity),
		RNGState:         make([]uint32, capacity),
		LastAttackStep:   make([]int32, capacity),
		CellID:           make([]int32, capacity),
	}
	for i := 0; i < capacity; i++ {
		a.TargetResourceID[i] = NoTarget
		a.TargetPreyID[i] = NoTarget
		a.GroupID[i] = NoGroup
		a.CellID[i] = -1
		a.LastAttackStep[i] = -1
	}
	return a
}

// InitAgent (re)initializes a live agent at index i, per the
// initialize/reset lifecycle rules of spec §3.
func (a *Arena) InitAgent(i int, typ AgentType, mass float32, pos, vel Vec3, energy float32, rngSeed uint32) {
	a.Pos.Set(i, pos)
	a.Vel.Set(i, vel)
	a.Acc.Set(i, Vec3{})
	a.Type[i] = typ
	a.Mass[i] = mass
	a.Energy[i] = energy
	a.Alive[i] = true
	a.TargetResourceID[i] = NoTarget
	a.TargetPreyID[i] = NoTarget
	a.HasTarget[i] = false
	a.GroupID[i] = NoGroup
	a.RNGState[i] = rngSeed
	a.LastAttackStep[i] = -1
	a.CellID[i] = -1
	if i >= a.Count {
		a.Count = i + 1
	}
}

// Kill marks agent i dead per spec §4.10: position pinned to the far
// sentinel, velocity/acceleration zeroed, energy zeroed, target
// released, group membership cleared. The slot is never reused.
func (a *Arena) Kill(i int) {
	a.Alive[i] = false
	a.Pos.Set(i, Vec3{X: Sentinel, Y: Sentinel, Z: Sentinel})
	a.Vel.Set(i, Vec3{})
	a.Acc.Set(i, Vec3{})
	a.Energy[i] = 0
	a.HasTarget[i] = false
	a.TargetResourceID[i] = NoTarget
	a.TargetPreyID[i] = NoTarget
	a.GroupID[i] = NoGroup
}

// AliveCount returns the number of currently-live agents.
func (a *Arena) AliveCount() int {
	n := 0
	for i := 0; i < a.Count; i++ {
		if a.Alive[i] {
			n++
		}
	}
	return n
}
