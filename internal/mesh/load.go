package mesh

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/wireview/pkg/math"
)

// file is the on-disk YAML layout:
//
//	vertices:
//	  - [-1, -1, 1]
//	edges:
//	  - [0, 1]
type file struct {
	Vertices [][3]float64 `yaml:"vertices"`
	Edges    [][2]int     `yaml:"edges"`
}

// Load reads and validates a mesh from a YAML file.
func Load(path string) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes and validates a mesh from YAML.
func Parse(data []byte) (*Mesh, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	m := &Mesh{
		Vertices: make([]math.Vec3, len(f.Vertices)),
		Edges:    make([]Edge, len(f.Edges)),
	}
	for i, v := range f.Vertices {
		m.Vertices[i] = math.Vec3{X: v[0], Y: v[1], Z: v[2]}
	}
	for i, e := range f.Edges {
		m.Edges[i] = Edge(e)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Marshal encodes the mesh in the same YAML layout Load reads.
func (m *Mesh) Marshal() ([]byte, error) {
	f := file{
		Vertices: make([][3]float64, len(m.Vertices)),
		Edges:    make([][2]int, len(m.Edges)),
	}
	for i, v := range m.Vertices {
		f.Vertices[i] = [3]float64{v.X, v.Y, v.Z}
	}
	for i, e := range m.Edges {
		f.Edges[i] = e
	}
	return yaml.Marshal(f)
}
