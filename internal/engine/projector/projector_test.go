package projector

import (
	"testing"

	"github.com/Faultbox/wireview/internal/engine/camera"
	"github.com/Faultbox/wireview/pkg/math"
)

func TestTargetProjectsToCenter(t *testing.T) {
	cam := camera.Default()
	vp := Viewport{Width: 800, Height: 600, DPR: 1}

	p := NewPerspective()
	p.Configure(cam, vp)

	s := p.WorldToScreen(cam.Target, vp)
	if !math.ApproxEqual(s.X, 400, 1e-6) || !math.ApproxEqual(s.Y, 300, 1e-6) {
		t.Errorf("target projected to %v, want (400, 300)", s)
	}
}

func TestScreenYGrowsDownward(t *testing.T) {
	cam := camera.Default()
	vp := Viewport{Width: 800, Height: 600, DPR: 1}

	p := NewPerspective()
	p.Configure(cam, vp)

	above := p.WorldToScreen(cam.Target.Add(math.Vec3{Y: 1}), vp)
	if above.Y >= 300 {
		t.Errorf("point above target at y=%f, want < 300", above.Y)
	}
}

func TestViewZOrdersByDistance(t *testing.T) {
	cam := camera.State{
		Position: math.Vec3{Z: 10},
		Up:       math.Vec3{Y: 1},
		FovDeg:   45,
		Near:     0.1,
		Far:      100,
	}
	p := NewPerspective()
	p.Configure(cam, Viewport{Width: 100, Height: 100})

	near := p.WorldToViewZ(math.Vec3{Z: 5})
	far := p.WorldToViewZ(math.Vec3{Z: -5})
	if !(far < near) {
		t.Errorf("far z %f should be smaller than near z %f", far, near)
	}
	if !math.ApproxEqual(near, -5, 1e-9) {
		t.Errorf("near z = %f, want -5", near)
	}
}

func TestEmptyViewport(t *testing.T) {
	p := NewPerspective()
	if s := p.WorldToScreen(math.Vec3{X: 1}, Viewport{}); s != (math.Vec2{}) {
		t.Errorf("empty viewport projected to %v, want origin", s)
	}
}

func TestCameraPlaneIsNonFinite(t *testing.T) {
	cam := camera.State{
		Position: math.Vec3{Z: 10},
		Up:       math.Vec3{Y: 1},
		FovDeg:   45,
		Near:     0.1,
		Far:      100,
	}
	vp := Viewport{Width: 100, Height: 100}
	p := NewPerspective()
	p.Configure(cam, vp)

	s := p.WorldToScreen(math.Vec3{X: 1, Z: 10}, vp)
	if s.IsFinite() {
		t.Errorf("point on camera plane projected to finite %v", s)
	}
}
