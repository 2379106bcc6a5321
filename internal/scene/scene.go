// Package scene loads polygon lists from YAML, TOML or JSON files.
package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"zbuf-renderer/internal/geom"
)

// ErrDepthRange is returned when a vertex depth would not lie strictly in
// front of the background depth.
var ErrDepthRange = errors.New("scene: depth outside declared range")

// Vertex is a point as written in scene files: [x, y, z].
type Vertex [3]float64

// PolygonDef is one polygon as written in scene files.
type PolygonDef struct {
	Color  geom.Color `json:"color" yaml:"color" toml:"color"`
	Points []Vertex   `json:"points" yaml:"points" toml:"points"`
}

// Scene is a named, ordered list of polygons. Optional fields left at zero
// fall back to the renderer configuration.
type Scene struct {
	Name       string       `json:"name" yaml:"name" toml:"name"`
	Width      int          `json:"width,omitempty" yaml:"width,omitempty" toml:"width,omitempty"`
	Height     int          `json:"height,omitempty" yaml:"height,omitempty" toml:"height,omitempty"`
	MaxDepth   float64      `json:"max_depth,omitempty" yaml:"max_depth,omitempty" toml:"max_depth,omitempty"`
	Background *geom.Color  `json:"background,omitempty" yaml:"background,omitempty" toml:"background,omitempty"`
	Defs       []PolygonDef `json:"polygons" yaml:"polygons" toml:"polygons"`
}

// Load reads a scene file, choosing the decoder by extension.
// A missing name defaults to the file's base name.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}

	var sc Scene
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &sc)
	case ".toml":
		err = toml.Unmarshal(data, &sc)
	case ".json":
		err = json.Unmarshal(data, &sc)
	default:
		return nil, fmt.Errorf("scene: unknown extension %q: %s", ext, path)
	}
	if err != nil {
		return nil, fmt.Errorf("scene: parse %s: %w", path, err)
	}

	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &sc, nil
}

// Polygons converts the definitions to geometry. Vertex counts are passed
// through unchanged; the rasterizer decides what it accepts.
func (s *Scene) Polygons() []geom.Polygon {
	out := make([]geom.Polygon, len(s.Defs))
	for i, d := range s.Defs {
		pts := make([]geom.Point3d, len(d.Points))
		for k, v := range d.Points {
			pts[k] = geom.Point3d{X: v[0], Y: v[1], Z: v[2]}
		}
		out[i] = geom.Polygon{Points: pts, Color: d.Color}
	}
	return out
}

// Validate checks that every vertex is finite and that every depth is
// strictly less than maxDepth, so the first surface drawn on a pixel always
// passes the depth test.
func (s *Scene) Validate(maxDepth float64) error {
	for i, d := range s.Defs {
		for k, v := range d.Points {
			p := geom.Point3d{X: v[0], Y: v[1], Z: v[2]}
			if !p.Finite() {
				return fmt.Errorf("scene: %s: polygon %d vertex %d is not finite", s.Name, i, k)
			}
			if p.Z >= maxDepth {
				return fmt.Errorf("%w: %s: polygon %d vertex %d depth %g >= %g",
					ErrDepthRange, s.Name, i, k, p.Z, maxDepth)
			}
		}
	}
	return nil
}
