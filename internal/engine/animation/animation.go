// Package animation implements the time-driven construction animation:
// an initial delay, then vertices fading in one by one, then edges drawn one
// by one. Every function is pure over an explicit State snapshot.
package animation

import (
	"time"

	"github.com/Faultbox/wireview/pkg/math"
)

// Phase is a stage of the construction animation.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseInitialDelay
	PhaseVertexConstruction
	PhaseEdgeDrawing
	PhaseComplete
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "IDLE"
	case PhaseInitialDelay:
		return "INITIAL_DELAY"
	case PhaseVertexConstruction:
		return "VERTEX_CONSTRUCTION"
	case PhaseEdgeDrawing:
		return "EDGE_DRAWING"
	case PhaseComplete:
		return "COMPLETE"
	default:
		return "UNKNOWN"
	}
}

// Durations configures the animation timing.
type Durations struct {
	InitialDelay time.Duration `yaml:"initial_delay"`
	VertexBuild  time.Duration `yaml:"vertex_build"`
	EdgeDraw     time.Duration `yaml:"edge_draw"`
}

// DefaultDurations returns the stock timing.
func DefaultDurations() Durations {
	return Durations{
		InitialDelay: 750 * time.Millisecond,
		VertexBuild:  600 * time.Millisecond,
		EdgeDraw:     250 * time.Millisecond,
	}
}

// State is the animation progress.
//
// StartTime is the phase-entry timestamp on the caller's monotonic clock.
// Zero means "not yet stamped"; the next Tick stamps it without advancing.
type State struct {
	Phase            Phase
	CurrentIndex     int
	StartTime        time.Duration
	HasCompletedOnce bool
}

// Idle returns the initial state.
func Idle() State {
	return State{Phase: PhaseIdle}
}

// Begin (re)starts the animation at the initial delay. In-flight progress is
// discarded; HasCompletedOnce is kept.
func Begin(now time.Duration, s State) State {
	return State{
		Phase:            PhaseInitialDelay,
		StartTime:        now,
		HasCompletedOnce: s.HasCompletedOnce,
	}
}

// Tick advances s to now. It moves at most one step per call and returns s
// unchanged when nothing is due.
func Tick(now time.Duration, s State, vertexCount, edgeCount int, d Durations) State {
	if s.Phase == PhaseIdle || s.Phase == PhaseComplete {
		return s
	}
	if s.StartTime == 0 {
		s.StartTime = now
		return s
	}

	elapsed := now - s.StartTime

	switch s.Phase {
	case PhaseInitialDelay:
		if elapsed >= d.InitialDelay {
			return s.enter(PhaseVertexConstruction, now)
		}

	case PhaseVertexConstruction:
		if elapsed >= d.VertexBuild {
			if s.CurrentIndex+1 >= vertexCount {
				return s.enter(PhaseEdgeDrawing, now)
			}
			s.CurrentIndex++
			s.StartTime = now
		}

	case PhaseEdgeDrawing:
		if elapsed >= d.EdgeDraw {
			if s.CurrentIndex+1 >= edgeCount {
				next := s.enter(PhaseComplete, now)
				next.HasCompletedOnce = true
				return next
			}
			s.CurrentIndex++
			s.StartTime = now
		}
	}

	return s
}

func (s State) enter(p Phase, now time.Duration) State {
	return State{
		Phase:            p,
		StartTime:        now,
		HasCompletedOnce: s.HasCompletedOnce,
	}
}

// VertexVisibility returns whether vertex i is shown and its opacity.
func VertexVisibility(i int, now time.Duration, s State, d Durations) (visible bool, alpha float64) {
	switch s.Phase {
	case PhaseVertexConstruction:
		switch {
		case i < s.CurrentIndex:
			return true, 1
		case i == s.CurrentIndex:
			return true, math.EaseCubicInOut(fraction(now-s.StartTime, d.VertexBuild))
		default:
			return false, 0
		}
	case PhaseEdgeDrawing, PhaseComplete:
		return true, 1
	default:
		return false, 0
	}
}

// EdgeProgress returns how much of edge i is drawn, in [0, 1].
func EdgeProgress(i int, now time.Duration, s State, d Durations) float64 {
	switch s.Phase {
	case PhaseEdgeDrawing:
		switch {
		case i < s.CurrentIndex:
			return 1
		case i == s.CurrentIndex:
			return fraction(now-s.StartTime, d.EdgeDraw)
		default:
			return 0
		}
	case PhaseComplete:
		return 1
	default:
		return 0
	}
}

// fraction is elapsed/total clamped to [0, 1]; a non-positive total is done.
func fraction(elapsed, total time.Duration) float64 {
	if total <= 0 {
		return 1
	}
	return math.Clamp01(float64(elapsed) / float64(total))
}
