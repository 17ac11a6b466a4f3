package scene

import (
	gomath "math"

	"github.com/Faultbox/wireview/internal/engine/projector"
	"github.com/Faultbox/wireview/pkg/math"
)

const (
	defaultMaxLines   = 160
	minMaxLines       = 16
	defaultTargetPx   = 28
	minPxPerUnit      = 0.0001
	stepSnapTolerance = 1e-9
)

// Step candidates are mantissa × 10^k.
var (
	stepMantissas = []float64{1, 2, 5}
	minStepExp    = -3
	maxStepExp    = 3
)

// GridOptions configures the ground plane and its grid.
type GridOptions struct {
	GroundY float64 `yaml:"ground_y"`
	// Range is the requested half-extent in world units.
	Range float64 `yaml:"range"`
	// Adaptive picks a step from projected spacing when Step is not forced.
	Adaptive bool `yaml:"adaptive"`
	// Step forces the spacing when positive.
	Step            float64 `yaml:"step"`
	MaxLines        int     `yaml:"max_lines"`
	TargetSpacingPx float64 `yaml:"target_spacing_px"`
}

// DefaultGridOptions returns a two-unit grid with unit spacing one unit
// below the origin.
func DefaultGridOptions() GridOptions {
	return GridOptions{
		GroundY:         -1,
		Range:           2,
		Adaptive:        false,
		Step:            1,
		MaxLines:        100,
		TargetSpacingPx: defaultTargetPx,
	}
}

// Segment is a world-space line segment.
type Segment struct {
	A, B math.Vec3
}

// Grid is the ground quad plus its grid lines.
type Grid struct {
	// Ground runs (-r,-r), (r,-r), (r,r), (-r,r) in X/Z, clockwise seen
	// from above.
	Ground [4]math.Vec3
	Lines  []Segment
	Step   float64
	// Range is the half-extent after snapping and clamping.
	Range float64
}

// BuildGrid lays out the ground and grid for the current view.
//
// The half-extent is snapped down to a whole number of steps. When that
// would need more than MaxLines segments the extent shrinks; the step never
// changes for that reason.
func BuildGrid(proj projector.Projector, vp projector.Viewport, o GridOptions) Grid {
	step := 1.0
	switch {
	case o.Step > 0 && math.IsFinite(o.Step):
		step = o.Step
	case o.Adaptive:
		target := o.TargetSpacingPx
		if !(target > 0) {
			target = defaultTargetPx
		}
		step = chooseStep(estimatePxPerUnit(proj, vp, o.GroundY), target)
	}

	maxLines := o.MaxLines
	if maxLines <= 0 {
		maxLines = defaultMaxLines
	}
	maxLines = max(minMaxLines, maxLines)

	halfSteps := 0
	if o.Range > 0 && math.IsFinite(o.Range) {
		halfSteps = int(gomath.Floor(o.Range/step + stepSnapTolerance))
	}
	halfSteps = max(1, halfSteps)
	if (2*halfSteps+1)*2 > maxLines {
		halfSteps = max(1, int(gomath.Floor((float64(maxLines)/2-1)/2)))
	}

	r := float64(halfSteps) * step
	y := o.GroundY

	g := Grid{
		Ground: [4]math.Vec3{
			{X: -r, Y: y, Z: -r},
			{X: r, Y: y, Z: -r},
			{X: r, Y: y, Z: r},
			{X: -r, Y: y, Z: r},
		},
		Lines: make([]Segment, 0, (2*halfSteps+1)*2),
		Step:  step,
		Range: r,
	}

	for i := -halfSteps; i <= halfSteps; i++ {
		c := float64(i) * step
		g.Lines = append(g.Lines,
			Segment{A: math.Vec3{X: c, Y: y, Z: -r}, B: math.Vec3{X: c, Y: y, Z: r}},
			Segment{A: math.Vec3{X: -r, Y: y, Z: c}, B: math.Vec3{X: r, Y: y, Z: c}},
		)
	}
	return g
}

// chooseStep returns the candidate step whose projected spacing is closest
// to targetPx. The first candidate wins ties.
func chooseStep(pxPerUnit, targetPx float64) float64 {
	best, bestErr := 1.0, gomath.Inf(1)
	for e := minStepExp; e <= maxStepExp; e++ {
		scale := gomath.Pow(10, float64(e))
		for _, m := range stepMantissas {
			s := m * scale
			if err := gomath.Abs(s*pxPerUnit - targetPx); err < bestErr {
				best, bestErr = s, err
			}
		}
	}
	return best
}

// estimatePxPerUnit measures how many pixels one world unit along X and Z
// spans at the origin of the ground plane, and returns the smaller.
func estimatePxPerUnit(proj projector.Projector, vp projector.Viewport, groundY float64) float64 {
	o := proj.WorldToScreen(math.Vec3{Y: groundY}, vp)
	x := proj.WorldToScreen(math.Vec3{X: 1, Y: groundY}, vp)
	z := proj.WorldToScreen(math.Vec3{Y: groundY, Z: 1}, vp)

	px := min(o.Distance(x), o.Distance(z))
	if !math.IsFinite(px) || px < minPxPerUnit {
		return minPxPerUnit
	}
	return px
}
