package scene

import "zbuf-renderer/internal/geom"

// Demo returns the built-in five-polygon scene sized for an 800x600 target.
func Demo() *Scene {
	return &Scene{
		Name: "demo",
		Defs: []PolygonDef{
			{Color: 0xFF0000, Points: []Vertex{{300, 260, 50}, {560, 280, -50}, {480, 340, 0}}},
			{Color: 0x00FF00, Points: []Vertex{{380, 300, -50}, {480, 381, -50}, {500, 230, 100}, {420, 220, 100}}},
			{Color: 0xFF0FF0, Points: []Vertex{{200, 160, 100}, {500, 400, 100}, {600, 340, 100}, {600, 250, 100}}},
			{Color: 0xFFF51F, Points: []Vertex{{400, 200, -300}, {400, 300, 200}, {700, 300, 200}, {700, 200, -300}}},
			{Color: 0x55555F, Points: []Vertex{{280, 200, 100}, {290, 300, -80}, {550, 300, 100}, {530, 200, 200}, {520, 150, 150}}},
		},
	}
}

// FromPolygons wraps already-built geometry as a scene.
func FromPolygons(name string, polys []geom.Polygon) *Scene {
	sc := &Scene{Name: name, Defs: make([]PolygonDef, len(polys))}
	for i, p := range polys {
		pts := make([]Vertex, len(p.Points))
		for k, pt := range p.Points {
			pts[k] = Vertex{pt.X, pt.Y, pt.Z}
		}
		sc.Defs[i] = PolygonDef{Color: p.Color, Points: pts}
	}
	return sc
}
