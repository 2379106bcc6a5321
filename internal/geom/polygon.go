package geom

// Accepted vertex count range for a polygon.
const (
	MinVertices = 3
	MaxVertices = 6
)

// Polygon is a closed vertex loop (the last point connects back to the first)
// filled with a single color.
type Polygon struct {
	Points []Point3d
	Color  Color
}

// NewPolygon copies pts so later changes to the caller's slice don't leak in.
func NewPolygon(pts []Point3d, c Color) Polygon {
	return Polygon{Points: append([]Point3d(nil), pts...), Color: c}
}

// Accepted reports whether the vertex count is within [MinVertices, MaxVertices].
func (p Polygon) Accepted() bool {
	n := len(p.Points)
	return n >= MinVertices && n <= MaxVertices
}
