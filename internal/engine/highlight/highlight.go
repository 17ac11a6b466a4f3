// Package highlight turns the hover state into overlay draw items.
package highlight

import (
	"time"

	"github.com/Faultbox/wireview/internal/engine/animation"
	"github.com/Faultbox/wireview/internal/engine/colors"
	"github.com/Faultbox/wireview/internal/engine/drawlist"
	"github.com/Faultbox/wireview/internal/engine/picking"
	"github.com/Faultbox/wireview/internal/engine/projector"
	"github.com/Faultbox/wireview/internal/mesh"
	"github.com/Faultbox/wireview/pkg/math"
)

// Style holds the base sizes and the highlight tuning.
type Style struct {
	VertexRadiusPx float64
	EdgeWidthPx    float64

	HaloScale      float64
	HaloAlpha      float64
	EdgeWidthScale float64
	EdgeAlpha      float64
	EndCapScale    float64

	HighlightColor colors.Color
	VertexColor    colors.Color
	Layers         drawlist.Layers
}

// DefaultStyle returns the stock look.
func DefaultStyle() Style {
	return Style{
		VertexRadiusPx: 3,
		EdgeWidthPx:    2.5,
		HaloScale:      1.8,
		HaloAlpha:      0.45,
		EdgeWidthScale: 1.6,
		EdgeAlpha:      0.45,
		EndCapScale:    1.6,
		HighlightColor: colors.Highlight,
		VertexColor:    colors.Vertex,
		Layers:         drawlist.DefaultLayers(),
	}
}

// Emit returns the overlay items for the current hover target, or nil when
// nothing valid is hovered.
func Emit(now time.Duration, proj projector.Projector, m *mesh.Mesh, anim animation.State, in picking.Interaction, d animation.Durations, style Style) []drawlist.Item {
	if m == nil || !in.Hover.Ok() {
		return nil
	}

	switch in.Hover.Kind {
	case picking.KindVertex:
		if !m.HasVertex(in.Hover.ID) {
			return nil
		}
		return vertex(proj, m.Vertices[in.Hover.ID], style)

	case picking.KindEdge:
		if !m.HasEdge(in.Hover.ID) {
			return nil
		}
		return edge(now, proj, m, in.Hover.ID, anim, d, style)
	}
	return nil
}

func vertex(proj projector.Projector, v math.Vec3, style Style) []drawlist.Item {
	depth := proj.WorldToViewZ(v)
	return []drawlist.Item{
		drawlist.Point{
			Base: drawlist.Base{
				Depth: depth,
				Layer: style.Layers.PointUnderlay,
				Color: style.HighlightColor,
				Alpha: style.HaloAlpha,
			},
			P:        v,
			RadiusPx: style.VertexRadiusPx * style.HaloScale,
		},
		// The dot is emitted even when the scene has not revealed the vertex.
		drawlist.Point{
			Base: drawlist.Base{
				Depth: depth,
				Layer: style.Layers.PointBase,
				Color: style.VertexColor,
				Alpha: 1,
			},
			P:        v,
			RadiusPx: style.VertexRadiusPx,
		},
	}
}

func edge(now time.Duration, proj projector.Projector, m *mesh.Mesh, id int, anim animation.State, d animation.Durations, style Style) []drawlist.Item {
	a, b := m.Endpoints(id)
	end := VisibleEnd(a, b, edgeFraction(now, id, anim, d))

	capR := style.VertexRadiusPx * style.EndCapScale
	endCap := func(p math.Vec3) drawlist.Item {
		return drawlist.Point{
			Base: drawlist.Base{
				Depth: proj.WorldToViewZ(p),
				Layer: style.Layers.PointBase,
				Color: style.VertexColor,
				Alpha: 1,
			},
			P:        p,
			RadiusPx: capR,
		}
	}

	return []drawlist.Item{
		drawlist.Line{
			Base: drawlist.Base{
				Depth: SegmentDepth(proj, a, end),
				Layer: style.Layers.EdgeUnderlay,
				Color: style.HighlightColor,
				Alpha: style.EdgeAlpha,
			},
			A:       a,
			B:       end,
			WidthPx: style.EdgeWidthPx * style.EdgeWidthScale,
		},
		endCap(a),
		endCap(end),
	}
}

// edgeFraction is the drawn fraction of edge id, or 1 unless that edge is the
// one currently being drawn.
func edgeFraction(now time.Duration, id int, anim animation.State, d animation.Durations) float64 {
	if anim.Phase != animation.PhaseEdgeDrawing || anim.CurrentIndex != id {
		return 1
	}
	return math.Clamp01(animation.EdgeProgress(id, now, anim, d))
}

// VisibleEnd returns the point t of the way from a to b. At t >= 1 it returns
// b exactly.
func VisibleEnd(a, b math.Vec3, t float64) math.Vec3 {
	if t >= 1 {
		return b
	}
	return a.Lerp(b, t)
}

// SegmentDepth is the mean view z of a segment's endpoints.
func SegmentDepth(proj projector.Projector, a, b math.Vec3) float64 {
	return (proj.WorldToViewZ(a) + proj.WorldToViewZ(b)) * 0.5
}
