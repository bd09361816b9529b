package engine

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/latteine1217/alife-3d-flocking/components"
)

// resourceStore backs the resource arena with mlange-42/ark: one
// ecs.Entity per declared R_max slot, created once at construction
// (engine.New) and never destroyed, matching spec §9's "pre-allocate fixed-capacity
// arenas, mark active rather than reallocating" redesign note. Unlike
// the agent arena (components.Arena, a plain SoA struct — see
// DESIGN.md), resources are few and mutate only through the
// add/remove/consume API, never inside the per-agent hot loop, so the
// ark indirection costs nothing here.
type resourceStore struct {
	world    *ecs.World
	mapper   *ecs.Map1[components.Resource]
	entities []ecs.Entity
}

func newResourceStore(world *ecs.World, capacity int) *resourceStore {
	s := &resourceStore{
		world:    world,
		mapper:   ecs.NewMap1[components.Resource](world),
		entities: make([]ecs.Entity, capacity),
	}
	for i := 0; i < capacity; i++ {
		s.entities[i] = s.mapper.NewEntity(&components.Resource{})
	}
	return s
}

// Snapshot copies every slot's current value into dst, growing it if
// necessary, and returns the resulting slice.
func (s *resourceStore) Snapshot(dst []components.Resource) []components.Resource {
	if cap(dst) < len(s.entities) {
		dst = make([]components.Resource, len(s.entities))
	}
	dst = dst[:len(s.entities)]
	for i, e := range s.entities {
		dst[i] = *s.mapper.Get(e)
	}
	return dst
}

// WriteBack copies src (as produced by a prior Snapshot, possibly
// mutated by the resource system) back into the ark-backed slots.
func (s *resourceStore) WriteBack(src []components.Resource) {
	for i, e := range s.entities {
		*s.mapper.Get(e) = src[i]
	}
}

// Add fills the first inactive slot with cfg and returns its index, or
// -1 if every slot is occupied (a capacity-overflow configuration
// error per spec §7).
func (s *resourceStore) Add(cfg components.ResourceConfig) int {
	for i, e := range s.entities {
		r := s.mapper.Get(e)
		if r.Active {
			continue
		}
		*r = components.Resource{
			Position:      cfg.Position,
			Amount:        cfg.Amount,
			MaxAmount:     cfg.MaxAmount,
			Radius:        cfg.Radius,
			ReplenishRate: cfg.ReplenishRate,
			Active:        true,
		}
		return i
	}
	return -1
}

// Remove deactivates the resource at id, if it exists and is active.
func (s *resourceStore) Remove(id int) bool {
	if id < 0 || id >= len(s.entities) {
		return false
	}
	r := s.mapper.Get(s.entities[id])
	if !r.Active {
		return false
	}
	r.Active = false
	return true
}

// obstacleStore mirrors resourceStore for the obstacle arena.
type obstacleStore struct {
	world    *ecs.World
	mapper   *ecs.Map1[components.Obstacle]
	entities []ecs.Entity
}

func newObstacleStore(world *ecs.World, capacity int) *obstacleStore {
	s := &obstacleStore{
		world:    world,
		mapper:   ecs.NewMap1[components.Obstacle](world),
		entities: make([]ecs.Entity, capacity),
	}
	for i := 0; i < capacity; i++ {
		s.entities[i] = s.mapper.NewEntity(&components.Obstacle{})
	}
	return s
}

func (s *obstacleStore) Snapshot(dst []components.Obstacle) []components.Obstacle {
	if cap(dst) < len(s.entities) {
		dst = make([]components.Obstacle, len(s.entities))
	}
	dst = dst[:len(s.entities)]
	for i, e := range s.entities {
		dst[i] = *s.mapper.Get(e)
	}
	return dst
}

func (s *obstacleStore) Add(cfg components.ObstacleConfig) int {
	for i, e := range s.entities {
		o := s.mapper.Get(e)
		if o.Active {
			continue
		}
		*o = components.Obstacle{
			Kind:        cfg.Kind,
			Active:      true,
			Center:      cfg.Center,
			Radius:      cfg.Radius,
			HalfExtents: cfg.HalfExtents,
			Height:      cfg.Height,
			Axis:        cfg.Axis,
		}
		return i
	}
	return -1
}
