package camera

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/wireview/pkg/math"
)

func TestNewOrbitPreservesPose(t *testing.T) {
	pose := Default()
	o := NewOrbit(pose)

	got := o.Position()
	if got.Distance(pose.Position) > 1e-9 {
		t.Errorf("orbit position %v, want %v", got, pose.Position)
	}
}

func TestHandleZoomClamps(t *testing.T) {
	o := NewOrbit(Default())
	for i := 0; i < 200; i++ {
		o.HandleZoom(1)
	}
	if o.Distance != o.MinDistance {
		t.Errorf("distance %f, want clamp to %f", o.Distance, o.MinDistance)
	}
	if d := o.State().Position.Distance(o.State().Target); !math.ApproxEqual(d, o.MinDistance, 1e-9) {
		t.Errorf("pose distance %f, want %f", d, o.MinDistance)
	}
}

func TestHandleDragClampsPitch(t *testing.T) {
	o := NewOrbit(Default())
	o.HandleDrag(0, 100000)
	if o.Pitch != o.MaxPitch {
		t.Errorf("pitch %f, want %f", o.Pitch, o.MaxPitch)
	}
	o.HandleDrag(0, -100000)
	if o.Pitch != o.MinPitch {
		t.Errorf("pitch %f, want %f", o.Pitch, o.MinPitch)
	}
}

func TestFitToBounds(t *testing.T) {
	o := NewOrbit(Default())
	o.FitToBounds(math.Vec3{X: 9, Y: 9, Z: 9}, math.Vec3{X: 11, Y: 11, Z: 11})

	if o.State().Target != (math.Vec3{X: 10, Y: 10, Z: 10}) {
		t.Errorf("target %v, want box center", o.State().Target)
	}
	if o.Distance <= 0 {
		t.Errorf("distance %f should be positive", o.Distance)
	}
}

func TestFitToBoundsIgnoresNonFinite(t *testing.T) {
	o := NewOrbit(Default())
	before := o.State()

	o.FitToBounds(math.Vec3{X: -1}, math.Vec3{X: gomath.Inf(1), Y: 1, Z: 1})
	o.FitToBounds(math.Vec3{Y: gomath.NaN()}, math.Vec3{X: 1, Y: 1, Z: 1})

	if o.State() != before {
		t.Errorf("pose changed to %+v", o.State())
	}
}
