// Package drawlist defines the renderable primitives produced each frame,
// their paint order, and the single dispatch point that hands them to a
// drawing backend.
package drawlist

import (
	"github.com/Faultbox/wireview/internal/engine/colors"
	"github.com/Faultbox/wireview/pkg/math"
)

// Layer breaks depth ties; lower layers paint first.
type Layer int

// Layers assigns a Layer to each primitive role.
type Layers struct {
	Ground        Layer `yaml:"ground"`
	Grid          Layer `yaml:"grid"`
	EdgeUnderlay  Layer `yaml:"edge_underlay"`
	EdgeBase      Layer `yaml:"edge_base"`
	PointUnderlay Layer `yaml:"point_underlay"`
	PointBase     Layer `yaml:"point_base"`
	Label         Layer `yaml:"label"`
}

// DefaultLayers returns the stock paint order.
func DefaultLayers() Layers {
	return Layers{
		Ground:        10,
		Grid:          20,
		EdgeUnderlay:  30,
		EdgeBase:      40,
		PointUnderlay: 50,
		PointBase:     60,
		Label:         70,
	}
}

// Ordered reports whether the layers strictly increase in role order.
func (l Layers) Ordered() bool {
	seq := []Layer{l.Ground, l.Grid, l.EdgeUnderlay, l.EdgeBase, l.PointUnderlay, l.PointBase, l.Label}
	for i := 1; i < len(seq); i++ {
		if seq[i] <= seq[i-1] {
			return false
		}
	}
	return true
}

// Base is the metadata shared by every item.
type Base struct {
	Depth float64 // view-space z; smaller is farther
	Layer Layer
	Color colors.Color
	Alpha float64 // multiplies Color.A; use 1 for opaque
}

// Item is one of Quad, Line, Point or Label, stored by value.
type Item interface {
	Meta() Base
	item()
}

// Meta returns the shared metadata.
func (b Base) Meta() Base { return b }

func (Base) item() {}

// Quad is a filled world-space quadrilateral.
type Quad struct {
	Base
	P1, P2, P3, P4 math.Vec3
}

// Line is a world-space segment stroked WidthPx wide.
type Line struct {
	Base
	A, B    math.Vec3
	WidthPx float64
}

// Point is a filled circle of RadiusPx at a world position.
type Point struct {
	Base
	P        math.Vec3
	RadiusPx float64
}

// Label is text anchored on its baseline at a world position, shifted by
// OffsetPx on screen.
type Label struct {
	Base
	P        math.Vec3
	OffsetPx math.Vec2
	Text     string
}
