// Package camera provides the camera pose consumed by the projector and an
// orbit controller that edits it from pointer drags and wheel input.
package camera

import (
	gomath "math"

	"github.com/Faultbox/wireview/pkg/math"
)

// State is a perspective camera pose.
type State struct {
	Position math.Vec3 `yaml:"position"`
	Target   math.Vec3 `yaml:"target"`
	Up       math.Vec3 `yaml:"up"`
	FovDeg   float64   `yaml:"fov_deg"`
	Near     float64   `yaml:"near"`
	Far      float64   `yaml:"far"`
}

// Default returns the viewer's starting pose looking at the unit cube.
func Default() State {
	return State{
		Position: math.Vec3{X: 5, Y: 3.5, Z: 5.5},
		Target:   math.Vec3{X: 0, Y: 0.5, Z: 0},
		Up:       math.Vec3{X: 0, Y: 1, Z: 0},
		FovDeg:   45,
		Near:     0.1,
		Far:      100,
	}
}

// Orbit orbits a camera around its target point.
type Orbit struct {
	pose State

	// Spherical coordinates around the target
	Distance float64
	Pitch    float64 // radians above the target's horizontal plane
	Yaw      float64 // radians around +Y

	// Constraints
	MinDistance float64
	MaxDistance float64
	MinPitch    float64
	MaxPitch    float64

	// Sensitivity
	DragSensitivity float64
	ZoomSensitivity float64
}

// NewOrbit derives orbit parameters from an existing pose.
func NewOrbit(pose State) *Orbit {
	o := &Orbit{
		pose:            pose,
		MinDistance:     0.5,
		MaxDistance:     pose.Far * 0.9,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
	o.fromPose()
	return o
}

func (o *Orbit) fromPose() {
	d := o.pose.Position.Sub(o.pose.Target)
	o.Distance = d.Length()
	if o.Distance == 0 {
		o.Distance = o.MinDistance
		return
	}
	o.Pitch = gomath.Asin(math.Clamp(d.Y/o.Distance, -1, 1))
	o.Yaw = gomath.Atan2(d.X, d.Z)
}

// State returns the current pose.
func (o *Orbit) State() State {
	return o.pose
}

// Position returns the camera position implied by the orbit parameters.
func (o *Orbit) Position() math.Vec3 {
	cp := gomath.Cos(o.Pitch)
	offset := math.Vec3{
		X: o.Distance * cp * gomath.Sin(o.Yaw),
		Y: o.Distance * gomath.Sin(o.Pitch),
		Z: o.Distance * cp * gomath.Cos(o.Yaw),
	}
	return o.pose.Target.Add(offset)
}

// HandleDrag updates rotation based on pointer drag delta in pixels.
func (o *Orbit) HandleDrag(deltaX, deltaY float64) {
	o.Yaw -= deltaX * o.DragSensitivity
	o.Pitch = math.Clamp(o.Pitch+deltaY*o.DragSensitivity, o.MinPitch, o.MaxPitch)
	o.pose.Position = o.Position()
}

// HandleZoom updates distance based on scroll wheel delta.
func (o *Orbit) HandleZoom(delta float64) {
	o.Distance -= delta * o.Distance * o.ZoomSensitivity
	o.Distance = math.Clamp(o.Distance, o.MinDistance, o.MaxDistance)
	o.pose.Position = o.Position()
}

// FitToBounds centers the target on the box and backs off far enough to see it.
// Non-finite bounds leave the pose unchanged.
func (o *Orbit) FitToBounds(lo, hi math.Vec3) {
	if !lo.IsFinite() || !hi.IsFinite() {
		return
	}
	o.pose.Target = lo.Add(hi).Scale(0.5)

	radius := hi.Sub(lo).Length() * 0.5
	fov := math.Radians(o.pose.FovDeg)
	if fov <= 0 {
		fov = math.Radians(45)
	}
	o.Distance = math.Clamp(radius/gomath.Sin(fov/2)*1.1, o.MinDistance, o.MaxDistance)
	o.pose.Position = o.Position()
}
