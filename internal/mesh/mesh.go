// Package mesh holds the wireframe geometry under construction.
package mesh

import (
	"errors"
	"fmt"

	"github.com/Faultbox/wireview/pkg/math"
)

// Validation errors.
var (
	ErrNoVertices      = errors.New("mesh has no vertices")
	ErrEdgeOutOfRange  = errors.New("edge references missing vertex")
	ErrDegenerateEdge  = errors.New("edge connects a vertex to itself")
	ErrNonFiniteVertex = errors.New("vertex coordinate is not finite")
)

// Edge is a pair of vertex indices. Order within the pair is the draw direction.
type Edge [2]int

// Mesh is an ordered vertex list plus ordered edges. Both orders are the
// construction order used by the animation.
type Mesh struct {
	Vertices []math.Vec3
	Edges    []Edge
}

// Cube returns the unit cube (8 vertices, 12 edges) centered at the origin.
func Cube() *Mesh {
	return &Mesh{
		Vertices: []math.Vec3{
			{X: -1, Y: -1, Z: 1}, {X: -1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: 1},
			{X: -1, Y: 1, Z: 1}, {X: -1, Y: 1, Z: -1}, {X: 1, Y: 1, Z: -1}, {X: 1, Y: 1, Z: 1},
		},
		Edges: []Edge{
			{0, 1}, {1, 2}, {2, 3}, {3, 0},
			{4, 5}, {5, 6}, {6, 7}, {7, 4},
			{0, 4}, {1, 5}, {2, 6}, {3, 7},
		},
	}
}

// Validate checks that the mesh has vertices, every coordinate is finite and
// every edge index is valid.
func (m *Mesh) Validate() error {
	if m == nil || len(m.Vertices) == 0 {
		return ErrNoVertices
	}
	for i, v := range m.Vertices {
		if !v.IsFinite() {
			return fmt.Errorf("vertex %d (%v, %v, %v): %w", i, v.X, v.Y, v.Z, ErrNonFiniteVertex)
		}
	}
	n := len(m.Vertices)
	for i, e := range m.Edges {
		if e[0] < 0 || e[0] >= n || e[1] < 0 || e[1] >= n {
			return fmt.Errorf("edge %d (%d-%d): %w", i, e[0], e[1], ErrEdgeOutOfRange)
		}
		if e[0] == e[1] {
			return fmt.Errorf("edge %d: %w", i, ErrDegenerateEdge)
		}
	}
	return nil
}

// HasVertex reports whether i indexes a vertex.
func (m *Mesh) HasVertex(i int) bool {
	return m != nil && i >= 0 && i < len(m.Vertices)
}

// HasEdge reports whether i indexes an edge.
func (m *Mesh) HasEdge(i int) bool {
	return m != nil && i >= 0 && i < len(m.Edges)
}

// Endpoints returns the world positions of edge i.
func (m *Mesh) Endpoints(i int) (a, b math.Vec3) {
	e := m.Edges[i]
	return m.Vertices[e[0]], m.Vertices[e[1]]
}

// Bounds returns the axis-aligned bounds of the vertices.
func (m *Mesh) Bounds() (lo, hi math.Vec3) {
	if m == nil || len(m.Vertices) == 0 {
		return
	}
	lo, hi = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		lo.X, hi.X = min(lo.X, v.X), max(hi.X, v.X)
		lo.Y, hi.Y = min(lo.Y, v.Y), max(hi.Y, v.Y)
		lo.Z, hi.Z = min(lo.Z, v.Z), max(hi.Z, v.Z)
	}
	return lo, hi
}
