// Package tessellate turns screen-space strokes and dots into triangles.
package tessellate

import (
	gomath "math"

	"github.com/Faultbox/wireview/pkg/math"
)

const (
	minSegments = 12
	maxSegments = 64
	// maxSagPx bounds the gap between a true circle and its polygon.
	maxSagPx = 0.25
)

// Line returns the four corners of a widthPx-wide stroke from a to b with
// butt caps, in winding order. ok is false for a zero-length segment.
func Line(a, b math.Vec2, widthPx float64) (quad [4]math.Vec2, ok bool) {
	dir := b.Sub(a).Normalize()
	if dir == (math.Vec2{}) || !(widthPx > 0) {
		return quad, false
	}
	n := math.Vec2{X: -dir.Y, Y: dir.X}.Scale(widthPx / 2)
	return [4]math.Vec2{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)}, true
}

// Segments returns how many edges a circle of radius r needs so the polygon
// stays within a quarter pixel of the curve.
func Segments(r float64) int {
	if !(r > maxSagPx) {
		return minSegments
	}
	n := int(gomath.Ceil(gomath.Pi / gomath.Acos(1-maxSagPx/r)))
	return max(minSegments, min(maxSegments, n))
}

// Circle appends the rim of a circle, counter-clockwise from +X, to dst.
// The first point is not repeated at the end.
func Circle(dst []math.Vec2, center math.Vec2, r float64) []math.Vec2 {
	n := Segments(r)
	for i := 0; i < n; i++ {
		a := 2 * gomath.Pi * float64(i) / float64(n)
		dst = append(dst, math.Vec2{
			X: center.X + r*gomath.Cos(a),
			Y: center.Y + r*gomath.Sin(a),
		})
	}
	return dst
}

// Triangles splits a convex polygon into a fan of triangles and appends
// their vertices to dst.
func Triangles(dst []math.Vec2, poly []math.Vec2) []math.Vec2 {
	for i := 1; i+1 < len(poly); i++ {
		dst = append(dst, poly[0], poly[i], poly[i+1])
	}
	return dst
}
