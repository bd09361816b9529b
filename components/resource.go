package components

// Resource is a depletable/renewable point resource agents forage
// from. The arena has fixed capacity R_max; non-renewable resources
// are marked inactive rather than removed.
type Resource struct {
	Position       Vec3
	Amount         float32
	MaxAmount      float32
	Radius         float32 // consumption range
	ReplenishRate  float32 // per step; 0 = depletable, never regenerates
	Active         bool
}

// ResourceConfig is the user-facing description used by add_resource.
type ResourceConfig struct {
	Position      Vec3
	Amount        float32
	MaxAmount     float32
	Radius        float32
	ReplenishRate float32
}

// Renewable reports whether the resource regenerates.
func (r Resource) Renewable() bool { return r.ReplenishRate > 0 }
