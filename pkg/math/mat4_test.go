package math

import (
	"math"
	"testing"
)

// translateScale is a translation by (10, 20, 30) after a uniform scale of 2.
var translateScale = Mat4{
	2, 0, 0, 0,
	0, 2, 0, 0,
	0, 0, 2, 0,
	10, 20, 30, 1,
}

func TestMulComposesLeftAfterRight(t *testing.T) {
	translate := Mat4{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 10, 20, 30, 1}
	scale := Mat4{2, 0, 0, 0, 0, 2, 0, 0, 0, 0, 2, 0, 0, 0, 0, 1}

	if got := translate.Mul(scale); got != translateScale {
		t.Errorf("T * S = %v, want %v", got, translateScale)
	}
}

func TestTransformPoint(t *testing.T) {
	got := translateScale.TransformPoint(Vec3{1, 2, 3})

	want := Vec3{12, 24, 36}
	if got != want {
		t.Errorf("TransformPoint: got %v, want %v", got, want)
	}
}

func TestPerspective(t *testing.T) {
	m := Perspective(math.Pi/4, 1, 0.1, 100)

	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}
}

func TestLookAtPutsTargetOnNegativeZ(t *testing.T) {
	eye := Vec3{0, 0, 5}
	m := LookAt(eye, Vec3{}, Vec3{0, 1, 0})

	got := m.TransformPoint(Vec3{})
	if !ApproxEqual(got.X, 0, 1e-9) || !ApproxEqual(got.Y, 0, 1e-9) || !ApproxEqual(got.Z, -5, 1e-9) {
		t.Errorf("LookAt target in view space: got %v, want (0, 0, -5)", got)
	}

	// Eye maps to the origin.
	if p := m.TransformPoint(eye); p.Length() > 1e-9 {
		t.Errorf("LookAt eye in view space: got %v, want origin", p)
	}
}

func TestProjectCenterOfView(t *testing.T) {
	view := LookAt(Vec3{0, 0, 5}, Vec3{}, Vec3{0, 1, 0})
	proj := Perspective(math.Pi/4, 1, 0.1, 100)

	ndc := proj.Mul(view).Project(Vec3{})
	if !ApproxEqual(ndc.X, 0, 1e-9) || !ApproxEqual(ndc.Y, 0, 1e-9) {
		t.Errorf("Project target: got %v, want NDC center", ndc)
	}
	if ndc.Z <= -1 || ndc.Z >= 1 {
		t.Errorf("Project target depth %f outside clip range", ndc.Z)
	}
}
