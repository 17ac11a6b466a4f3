// Package picking resolves pointer positions to mesh vertices or edges in
// screen space.
//
// Vertices win over edges: edges are only tested when no vertex is within
// the vertex radius, and an edge is ignored while the pointer sits inside the
// endpoint guard around either of its projected endpoints. That keeps the hit
// from flickering between a vertex and an adjacent edge at corners.
//
// Ties between exactly equal distances go to the first candidate in mesh
// order. Nothing depends on that choice.
package picking

import (
	gomath "math"

	"github.com/Faultbox/wireview/internal/engine/projector"
	"github.com/Faultbox/wireview/internal/mesh"
	"github.com/Faultbox/wireview/pkg/math"
)

// Kind tags what a Hit refers to.
type Kind int

const (
	KindNone Kind = iota
	KindVertex
	KindEdge
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindVertex:
		return "vertex"
	case KindEdge:
		return "edge"
	default:
		return "none"
	}
}

// Hit is a picking result. ID is -1 exactly when Kind is KindNone.
type Hit struct {
	Kind Kind
	ID   int
}

// NoHit is the empty result.
var NoHit = Hit{Kind: KindNone, ID: -1}

// VertexHit returns a hit on vertex id.
func VertexHit(id int) Hit { return Hit{Kind: KindVertex, ID: id} }

// EdgeHit returns a hit on edge id.
func EdgeHit(id int) Hit { return Hit{Kind: KindEdge, ID: id} }

// Ok reports whether the hit refers to something.
func (h Hit) Ok() bool {
	return h.Kind != KindNone && h.ID >= 0
}

// Thresholds are picking distances in logical pixels. They are not scaled by
// the device pixel ratio.
type Thresholds struct {
	VertexRadiusPx     float64 `yaml:"vertex_radius_px"`
	EdgeTolerancePx    float64 `yaml:"edge_tolerance_px"`
	EndpointGuardScale float64 `yaml:"endpoint_guard_scale"`
}

// DefaultThresholds returns comfortable values for HiDPI pointers.
func DefaultThresholds() Thresholds {
	return Thresholds{
		VertexRadiusPx:     12,
		EdgeTolerancePx:    8,
		EndpointGuardScale: 1.05,
	}
}

// Overrides replaces thresholds for one call. Zero fields keep the picker's value.
type Overrides struct {
	VertexRadiusPx  float64
	EdgeTolerancePx float64
}

// Picker hit-tests a mesh. It keeps projection scratch buffers between calls,
// so a Picker must not be used from more than one goroutine.
type Picker struct {
	thresholds Thresholds
	projected  []math.Vec2
}

// NewPicker creates a picker with the given thresholds.
func NewPicker(t Thresholds) *Picker {
	return &Picker{thresholds: t}
}

// Pick returns the vertex or edge under pointer, or NoHit.
func (p *Picker) Pick(pointer math.Vec2, proj projector.Projector, vp projector.Viewport, vertices []math.Vec3, edges []mesh.Edge) Hit {
	return p.PickWithOverrides(pointer, proj, vp, vertices, edges, Overrides{})
}

// PickWithOverrides is Pick with per-call threshold overrides.
func (p *Picker) PickWithOverrides(pointer math.Vec2, proj projector.Projector, vp projector.Viewport, vertices []math.Vec3, edges []mesh.Edge, o Overrides) Hit {
	if vp.Empty() || len(vertices) == 0 {
		return NoHit
	}

	vRad := p.thresholds.VertexRadiusPx
	if o.VertexRadiusPx > 0 {
		vRad = o.VertexRadiusPx
	}
	eTol := p.thresholds.EdgeTolerancePx
	if o.EdgeTolerancePx > 0 {
		eTol = o.EdgeTolerancePx
	}
	guard := vRad * p.thresholds.EndpointGuardScale

	screen := p.project(proj, vp, vertices)

	// Vertex pass
	best, bestDist := -1, gomath.Inf(1)
	for i, s := range screen {
		d := pointer.Distance(s)
		if d < vRad && d < bestDist {
			best, bestDist = i, d
		}
	}
	if best >= 0 {
		return VertexHit(best)
	}

	// Edge pass
	best, bestDist = -1, gomath.Inf(1)
	for i, e := range edges {
		a, b := screen[e[0]], screen[e[1]]

		if pointer.X < gomath.Min(a.X, b.X)-eTol || pointer.X > gomath.Max(a.X, b.X)+eTol ||
			pointer.Y < gomath.Min(a.Y, b.Y)-eTol || pointer.Y > gomath.Max(a.Y, b.Y)+eTol {
			continue
		}

		if pointer.Distance(a) < guard || pointer.Distance(b) < guard {
			continue
		}

		d := math.PointSegmentDistance(pointer, a, b)
		if d < eTol && d < bestDist {
			best, bestDist = i, d
		}
	}
	if best >= 0 {
		return EdgeHit(best)
	}

	return NoHit
}

// project fills the scratch buffer with screen positions of vertices.
func (p *Picker) project(proj projector.Projector, vp projector.Viewport, vertices []math.Vec3) []math.Vec2 {
	if cap(p.projected) < len(vertices) {
		p.projected = make([]math.Vec2, len(vertices))
	}
	p.projected = p.projected[:len(vertices)]
	for i, v := range vertices {
		p.projected[i] = proj.WorldToScreen(v, vp)
	}
	return p.projected
}
