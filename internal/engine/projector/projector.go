// Package projector maps world points to surface pixels and view-space depth.
package projector

import (
	gomath "math"

	"github.com/Faultbox/wireview/internal/engine/camera"
	"github.com/Faultbox/wireview/pkg/math"
)

// Viewport is the drawing surface in logical (pre-DPR) pixels.
type Viewport struct {
	Width  float64
	Height float64
	DPR    float64 // device pixel ratio
}

// Empty reports whether the viewport has no drawable extent.
func (v Viewport) Empty() bool {
	return v.Width <= 0 || v.Height <= 0
}

// Projector is the projection surface consumed by picking and scene assembly.
type Projector interface {
	// WorldToScreen maps a world point to surface pixels (origin top-left, +Y down).
	WorldToScreen(p math.Vec3, vp Viewport) math.Vec2
	// WorldToViewZ returns the camera-space z of p. Farther points are smaller.
	WorldToViewZ(p math.Vec3) float64
}

// Perspective is a pinhole camera projector.
type Perspective struct {
	view     math.Mat4
	proj     math.Mat4
	viewProj math.Mat4
}

// NewPerspective returns a projector configured with the default camera on a
// square viewport.
func NewPerspective() *Perspective {
	p := &Perspective{}
	p.Configure(camera.Default(), Viewport{Width: 1, Height: 1, DPR: 1})
	return p
}

// Configure rebuilds the view and projection matrices.
func (p *Perspective) Configure(cam camera.State, vp Viewport) {
	aspect := gomath.Max(vp.Width/gomath.Max(1, vp.Height), math.Epsilon)
	near := gomath.Max(cam.Near, math.Epsilon)
	far := gomath.Max(cam.Far, near+math.Epsilon)

	p.view = math.LookAt(cam.Position, cam.Target, cam.Up)
	p.proj = math.Perspective(math.Radians(cam.FovDeg), aspect, near, far)
	p.viewProj = p.proj.Mul(p.view)
}

// WorldToScreen maps p to surface pixels. An empty viewport maps everything
// to the origin. Points on the camera plane produce non-finite coordinates.
func (p *Perspective) WorldToScreen(world math.Vec3, vp Viewport) math.Vec2 {
	if vp.Empty() {
		return math.Vec2{}
	}
	ndc := p.viewProj.Project(world)
	return math.Vec2{
		X: (ndc.X + 1) * 0.5 * vp.Width,
		Y: (1 - ndc.Y) * 0.5 * vp.Height,
	}
}

// WorldToViewZ returns the view-space z of world.
func (p *Perspective) WorldToViewZ(world math.Vec3) float64 {
	return p.view.TransformPoint(world).Z
}

// Matrices returns the current view and projection matrices.
func (p *Perspective) Matrices() (view, proj math.Mat4) {
	return p.view, p.proj
}
