package drawlist

import (
	gomath "math"

	"github.com/Faultbox/wireview/internal/engine/colors"
	"github.com/Faultbox/wireview/internal/engine/projector"
	"github.com/Faultbox/wireview/pkg/math"
)

// Backend issues primitives in surface pixels. Alpha multiplies the color's
// own alpha.
type Backend interface {
	FillQuad(p [4]math.Vec2, c colors.Color, alpha float64)
	DrawLine(a, b math.Vec2, widthPx float64, c colors.Color, alpha float64)
	DrawCircle(center math.Vec2, radiusPx float64, c colors.Color, alpha float64)
	DrawText(baseline math.Vec2, text string, c colors.Color, alpha float64)
}

// Draw projects items in order and hands them to b. A primitive whose
// projection is not finite, or whose size is not positive, is skipped on its
// own; the rest of the list still draws. It returns the number of items drawn.
//
// Fill and stroke coordinates are rounded to whole pixels. Label x stays
// sub-pixel and only the baseline is rounded.
func Draw(items []Item, proj projector.Projector, vp projector.Viewport, b Backend) int {
	if vp.Empty() {
		return 0
	}

	drawn := 0
	for _, it := range items {
		switch it := it.(type) {
		case Quad:
			var s [4]math.Vec2
			ok := true
			for i, p := range [4]math.Vec3{it.P1, it.P2, it.P3, it.P4} {
				s[i] = proj.WorldToScreen(p, vp)
				ok = ok && s[i].IsFinite()
				s[i] = s[i].Round()
			}
			if !ok {
				continue
			}
			b.FillQuad(s, it.Color, it.Alpha)

		case Line:
			if !(it.WidthPx > 0) || !math.IsFinite(it.WidthPx) {
				continue
			}
			sa, sb := proj.WorldToScreen(it.A, vp), proj.WorldToScreen(it.B, vp)
			if !sa.IsFinite() || !sb.IsFinite() {
				continue
			}
			b.DrawLine(sa.Round(), sb.Round(), it.WidthPx, it.Color, it.Alpha)

		case Point:
			if !(it.RadiusPx > 0) || !math.IsFinite(it.RadiusPx) {
				continue
			}
			s := proj.WorldToScreen(it.P, vp)
			if !s.IsFinite() {
				continue
			}
			b.DrawCircle(s.Round(), it.RadiusPx, it.Color, it.Alpha)

		case Label:
			s := proj.WorldToScreen(it.P, vp).Add(it.OffsetPx)
			if !s.IsFinite() {
				continue
			}
			s.Y = gomath.Round(s.Y)
			b.DrawText(s, it.Text, it.Color, it.Alpha)

		default:
			continue
		}
		drawn++
	}
	return drawn
}
