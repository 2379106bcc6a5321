package geom

import "math"

// Point3d is a vertex in screen space with a scene depth.
// X and Y are pixel coordinates (Y grows downward); smaller Z is nearer.
type Point3d struct {
	X, Y, Z float64
}

// Finite reports whether all three coordinates are finite.
func (p Point3d) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0) &&
		!math.IsNaN(p.Z) && !math.IsInf(p.Z, 0)
}
