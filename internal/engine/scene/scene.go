// Package scene assembles the per-frame draw list: ground, grid, the
// partially constructed mesh, optional coordinate labels and hover
// highlights.
package scene

import (
	"fmt"
	"time"

	"github.com/Faultbox/wireview/internal/engine/animation"
	"github.com/Faultbox/wireview/internal/engine/colors"
	"github.com/Faultbox/wireview/internal/engine/drawlist"
	"github.com/Faultbox/wireview/internal/engine/highlight"
	"github.com/Faultbox/wireview/internal/engine/picking"
	"github.com/Faultbox/wireview/internal/engine/projector"
	"github.com/Faultbox/wireview/internal/mesh"
	"github.com/Faultbox/wireview/pkg/math"
)

// Style holds the base look of the scene.
type Style struct {
	EdgeWidthPx     float64
	VertexRadiusPx  float64
	GridLineWidthPx float64
	LabelOffsetPx   math.Vec2

	Ground colors.Color
	Grid   colors.Color
	Edge   colors.Color
	Vertex colors.Color
	Label  colors.Color

	Layers drawlist.Layers
}

// DefaultStyle returns the stock look.
func DefaultStyle() Style {
	return Style{
		EdgeWidthPx:     2.5,
		VertexRadiusPx:  3,
		GridLineWidthPx: 0.5,
		LabelOffsetPx:   math.Vec2{X: 6, Y: -6},
		Ground:          colors.Ground,
		Grid:            colors.Grid,
		Edge:            colors.Edge,
		Vertex:          colors.Vertex,
		Label:           colors.Label,
		Layers:          drawlist.DefaultLayers(),
	}
}

// Input is everything one frame depends on.
type Input struct {
	Now         time.Duration
	Proj        projector.Projector
	Viewport    projector.Viewport
	Mesh        *mesh.Mesh
	Animation   animation.State
	Interaction picking.Interaction
	ShowLabels  bool
}

// Builder turns frame input into an unsorted draw list.
type Builder struct {
	Grid      GridOptions
	Style     Style
	Highlight highlight.Style
	Durations animation.Durations

	items []drawlist.Item
}

// NewBuilder returns a builder with stock options.
func NewBuilder() *Builder {
	return &Builder{
		Grid:      DefaultGridOptions(),
		Style:     DefaultStyle(),
		Highlight: highlight.DefaultStyle(),
		Durations: animation.DefaultDurations(),
	}
}

// Build emits ground, grid, edges, vertices, labels and highlights in that
// order. Items with a non-finite depth are dropped one by one.
//
// The returned slice is reused by the next call.
func (b *Builder) Build(in Input) []drawlist.Item {
	b.items = b.items[:0]
	st := b.Style
	proj := in.Proj

	grid := BuildGrid(proj, in.Viewport, b.Grid)
	b.push(drawlist.Quad{
		Base: drawlist.Base{
			Depth: proj.WorldToViewZ(math.Vec3{Y: b.Grid.GroundY}),
			Layer: st.Layers.Ground,
			Color: st.Ground,
			Alpha: 1,
		},
		P1: grid.Ground[0], P2: grid.Ground[1], P3: grid.Ground[2], P4: grid.Ground[3],
	})
	for _, seg := range grid.Lines {
		b.push(drawlist.Line{
			Base: drawlist.Base{
				Depth: highlight.SegmentDepth(proj, seg.A, seg.B),
				Layer: st.Layers.Grid,
				Color: st.Grid,
				Alpha: 1,
			},
			A:       seg.A,
			B:       seg.B,
			WidthPx: st.GridLineWidthPx,
		})
	}

	m := in.Mesh
	if m == nil {
		return b.items
	}

	for i := range m.Edges {
		t := animation.EdgeProgress(i, in.Now, in.Animation, b.Durations)
		if t <= 0 {
			continue
		}
		a, bEnd := m.Endpoints(i)
		end := highlight.VisibleEnd(a, bEnd, t)
		b.push(drawlist.Line{
			Base: drawlist.Base{
				Depth: highlight.SegmentDepth(proj, a, end),
				Layer: st.Layers.EdgeBase,
				Color: st.Edge,
				Alpha: 1,
			},
			A:       a,
			B:       end,
			WidthPx: st.EdgeWidthPx,
		})
	}

	labelsFrom := len(b.items)
	for i, v := range m.Vertices {
		visible, alpha := animation.VertexVisibility(i, in.Now, in.Animation, b.Durations)
		if !visible {
			continue
		}
		b.push(drawlist.Point{
			Base: drawlist.Base{
				Depth: proj.WorldToViewZ(v),
				Layer: st.Layers.PointBase,
				Color: st.Vertex,
				Alpha: alpha,
			},
			P:        v,
			RadiusPx: st.VertexRadiusPx,
		})
	}

	if in.ShowLabels {
		points := b.items[labelsFrom:]
		labels := make([]drawlist.Item, 0, len(points))
		for _, it := range points {
			p := it.(drawlist.Point)
			labels = append(labels, drawlist.Label{
				Base: drawlist.Base{
					Depth: p.Depth,
					Layer: st.Layers.Label,
					Color: st.Label,
					Alpha: p.Alpha,
				},
				P:        p.P,
				OffsetPx: st.LabelOffsetPx,
				Text:     FormatVec3(p.P),
			})
		}
		b.items = append(b.items, labels...)
	}

	for _, it := range highlight.Emit(in.Now, proj, m, in.Animation, in.Interaction, b.Durations, b.Highlight) {
		b.push(it)
	}
	return b.items
}

func (b *Builder) push(it drawlist.Item) {
	if !math.IsFinite(it.Meta().Depth) {
		return
	}
	b.items = append(b.items, it)
}

// FormatVec3 renders a position as "(x,y,z)" with one decimal.
func FormatVec3(v math.Vec3) string {
	return fmt.Sprintf("(%.1f,%.1f,%.1f)", v.X, v.Y, v.Z)
}
