package drawlist

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/wireview/internal/engine/colors"
	"github.com/Faultbox/wireview/internal/engine/projector"
	"github.com/Faultbox/wireview/pkg/math"
)

// flatProjector maps world X/Y straight to pixels; world Z is depth.
type flatProjector struct{}

func (flatProjector) WorldToScreen(p math.Vec3, _ projector.Viewport) math.Vec2 {
	return math.Vec2{X: p.X, Y: p.Y}
}

func (flatProjector) WorldToViewZ(p math.Vec3) float64 { return p.Z }

// recorder captures backend calls by kind.
type recorder struct {
	calls []string
	lines [][2]math.Vec2
	text  []math.Vec2
}

func (r *recorder) FillQuad(p [4]math.Vec2, c colors.Color, alpha float64) {
	r.calls = append(r.calls, "quad")
}

func (r *recorder) DrawLine(a, b math.Vec2, widthPx float64, c colors.Color, alpha float64) {
	r.calls = append(r.calls, "line")
	r.lines = append(r.lines, [2]math.Vec2{a, b})
}

func (r *recorder) DrawCircle(center math.Vec2, radiusPx float64, c colors.Color, alpha float64) {
	r.calls = append(r.calls, "point")
}

func (r *recorder) DrawText(baseline math.Vec2, text string, c colors.Color, alpha float64) {
	r.calls = append(r.calls, "label")
	r.text = append(r.text, baseline)
}

var screen = projector.Viewport{Width: 640, Height: 480, DPR: 1}

func base(depth float64, layer Layer) Base {
	return Base{Depth: depth, Layer: layer, Color: colors.Vertex, Alpha: 1}
}

func TestSortDepthThenLayer(t *testing.T) {
	l := DefaultLayers()
	items := []Item{
		Point{Base: base(-2, l.PointBase), RadiusPx: 3},
		Line{Base: base(-2, l.EdgeUnderlay), WidthPx: 4},
		Quad{Base: base(-9, l.Ground)},
		Line{Base: base(-2, l.EdgeBase), WidthPx: 2},
		Point{Base: base(-2, l.PointUnderlay), RadiusPx: 5},
	}
	Sort(items)

	wantLayers := []Layer{l.Ground, l.EdgeUnderlay, l.EdgeBase, l.PointUnderlay, l.PointBase}
	for i, it := range items {
		if it.Meta().Layer != wantLayers[i] {
			t.Errorf("item %d: layer %d, want %d", i, it.Meta().Layer, wantLayers[i])
		}
	}
}

func TestSortStable(t *testing.T) {
	items := []Item{
		Label{Base: base(-1, 70), Text: "a"},
		Label{Base: base(-1, 70), Text: "b"},
		Label{Base: base(-3, 70), Text: "c"},
		Label{Base: base(-1, 70), Text: "d"},
	}
	Sort(items)
	first := make([]string, len(items))
	for i, it := range items {
		first[i] = it.(Label).Text
	}

	Sort(items)
	for i, it := range items {
		if it.(Label).Text != first[i] {
			t.Fatalf("second sort changed order at %d: %s vs %s", i, it.(Label).Text, first[i])
		}
	}

	want := []string{"c", "a", "b", "d"}
	for i := range want {
		if first[i] != want[i] {
			t.Errorf("position %d: %s, want %s", i, first[i], want[i])
		}
	}
}

func TestLayersOrdered(t *testing.T) {
	if !DefaultLayers().Ordered() {
		t.Error("default layers should be ordered")
	}
	l := DefaultLayers()
	l.PointBase = l.EdgeBase
	if l.Ordered() {
		t.Error("duplicate layer values should not be ordered")
	}
}

func TestDrawDispatch(t *testing.T) {
	items := []Item{
		Quad{Base: base(0, 10), P1: math.Vec3{}, P2: math.Vec3{X: 10}, P3: math.Vec3{X: 10, Y: 10}, P4: math.Vec3{Y: 10}},
		Line{Base: base(0, 40), A: math.Vec3{X: 0.4}, B: math.Vec3{X: 9.6, Y: 2.5}, WidthPx: 2},
		Point{Base: base(0, 60), P: math.Vec3{X: 5, Y: 5}, RadiusPx: 3},
		Label{Base: base(0, 70), P: math.Vec3{X: 5.25, Y: 5.6}, Text: "v0"},
	}
	r := &recorder{}
	if n := Draw(items, flatProjector{}, screen, r); n != 4 {
		t.Errorf("drew %d items, want 4", n)
	}

	want := []string{"quad", "line", "point", "label"}
	for i := range want {
		if r.calls[i] != want[i] {
			t.Errorf("call %d: %s, want %s", i, r.calls[i], want[i])
		}
	}

	if r.lines[0][0] != (math.Vec2{X: 0, Y: 0}) || r.lines[0][1] != (math.Vec2{X: 10, Y: 3}) {
		t.Errorf("line not rounded to pixels: %v", r.lines[0])
	}
	if r.text[0] != (math.Vec2{X: 5.25, Y: 6}) {
		t.Errorf("label anchor %v, want sub-pixel x and rounded baseline", r.text[0])
	}
}

func TestDrawSkipsNonFinite(t *testing.T) {
	nan := gomath.NaN()
	items := []Item{
		Point{Base: base(0, 60), P: math.Vec3{X: nan}, RadiusPx: 3},
		Line{Base: base(0, 40), A: math.Vec3{}, B: math.Vec3{Y: gomath.Inf(1)}, WidthPx: 2},
		Quad{Base: base(0, 10), P3: math.Vec3{X: nan}},
		Label{Base: base(0, 70), P: math.Vec3{Y: nan}, Text: "x"},
		Point{Base: base(0, 60), P: math.Vec3{X: 1, Y: 1}, RadiusPx: 3},
	}
	r := &recorder{}
	if n := Draw(items, flatProjector{}, screen, r); n != 1 {
		t.Errorf("drew %d items, want 1", n)
	}
	if len(r.calls) != 1 || r.calls[0] != "point" {
		t.Errorf("calls = %v, want the single finite point", r.calls)
	}
}

func TestDrawSkipsDegenerateSizes(t *testing.T) {
	items := []Item{
		Line{Base: base(0, 40), B: math.Vec3{X: 5}, WidthPx: 0},
		Point{Base: base(0, 60), RadiusPx: -1},
		Point{Base: base(0, 60), RadiusPx: gomath.NaN()},
	}
	r := &recorder{}
	if n := Draw(items, flatProjector{}, screen, r); n != 0 {
		t.Errorf("drew %d items, want 0", n)
	}
}

func TestDrawEmptyViewport(t *testing.T) {
	items := []Item{Point{Base: base(0, 60), RadiusPx: 3}}
	r := &recorder{}
	if n := Draw(items, flatProjector{}, projector.Viewport{}, r); n != 0 || len(r.calls) != 0 {
		t.Errorf("empty viewport drew %d items", n)
	}
}
