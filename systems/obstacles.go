package systems

import (
	"math"

	"github.com/latteine1217/alife-3d-flocking/components"
)

// SDF evaluates an obstacle's signed distance at pos (negative
// inside, per the usual SDF convention) and the outward-pointing
// gradient at that point (unit length, away from the surface),
// grounded on the teacher's terrain collision escape-normal
// calculation (systems/terrain.go's FindNearestOpen*).
func SDF(o components.Obstacle, pos components.Vec3) (dist float32, gradient components.Vec3) {
	switch o.Kind {
	case components.ObstacleSphere:
		return sphereSDF(o, pos)
	case components.ObstacleBox:
		return boxSDF(o, pos)
	case components.ObstacleCylinder:
		return cylinderSDF(o, pos)
	default:
		return math.MaxFloat32, components.Vec3{}
	}
}

func sphereSDF(o components.Obstacle, pos components.Vec3) (float32, components.Vec3) {
	d := pos.Sub(o.Center)
	dist := d.Len() - o.Radius
	grad := d.Normalize()
	if grad == (components.Vec3{}) {
		grad = components.Vec3{X: 1}
	}
	return dist, grad
}

func boxSDF(o components.Obstacle, pos components.Vec3) (float32, components.Vec3) {
	d := pos.Sub(o.Center)
	qx := absf(d.X) - o.HalfExtents.X
	qy := absf(d.Y) - o.HalfExtents.Y
	qz := absf(d.Z) - o.HalfExtents.Z

	outsideX, outsideY, outsideZ := maxf(qx, 0), maxf(qy, 0), maxf(qz, 0)
	outsideLen := sqrtf32(outsideX*outsideX + outsideY*outsideY + outsideZ*outsideZ)
	insideDist := minf(maxf(qx, maxf(qy, qz)), 0)
	dist := outsideLen + insideDist

	// Gradient: direction of the axis with largest penetration/escape.
	grad := components.Vec3{X: signf(d.X) * boolToF(qx >= qy && qx >= qz), Y: signf(d.Y) * boolToF(qy >= qx && qy >= qz), Z: signf(d.Z) * boolToF(qz >= qx && qz >= qy)}
	grad = grad.Normalize()
	if grad == (components.Vec3{}) {
		grad = components.Vec3{X: 1}
	}
	return dist, grad
}

func cylinderSDF(o components.Obstacle, pos components.Vec3) (float32, components.Vec3) {
	axis := o.Axis.Normalize()
	if axis == (components.Vec3{}) {
		axis = components.Vec3{Z: 1}
	}
	d := pos.Sub(o.Center)
	axialDist := d.Dot(axis)
	radial := d.Sub(axis.Scale(axialDist))
	radialLen := radial.Len()

	dr := radialLen - o.Radius
	dz := absf(axialDist) - o.Height/2

	outsideR, outsideZ := maxf(dr, 0), maxf(dz, 0)
	outsideLen := sqrtf32(outsideR*outsideR + outsideZ*outsideZ)
	insideDist := minf(maxf(dr, dz), 0)
	dist := outsideLen + insideDist

	radialDir := radial.Normalize()
	if radialDir == (components.Vec3{}) {
		radialDir = components.Vec3{X: 1}
	}
	var grad components.Vec3
	if dr >= dz {
		grad = radialDir
	} else {
		grad = axis.Scale(signf(axialDist))
	}
	return dist, grad
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func signf(v float32) float32 {
	if v < 0 {
		return -1
	}
	return 1
}

func boolToF(b bool) float32 {
	if b {
		return 1
	}
	return 0
}
