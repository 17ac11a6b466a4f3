package picking

import "github.com/Faultbox/wireview/pkg/math"

// Interaction is the current hover target and the last pointer position.
type Interaction struct {
	Hover   Hit
	Pointer math.Vec2
}

// NewInteraction returns an interaction with nothing hovered.
func NewInteraction() Interaction {
	return Interaction{Hover: NoHit}
}

// Apply records a pointer move and its hit. The bool reports whether
// anything changed.
func (in Interaction) Apply(hit Hit, pointer math.Vec2) (Interaction, bool) {
	if !hit.Ok() {
		hit = NoHit
	}
	next := Interaction{Hover: hit, Pointer: pointer}
	return next, next != in
}

// Leave clears the hover target, keeping the last pointer position.
func (in Interaction) Leave() Interaction {
	return Interaction{Hover: NoHit, Pointer: in.Pointer}
}

// Cycle steps a manual highlight: none, vertex 0, edge 0, none.
func (in Interaction) Cycle() Interaction {
	switch in.Hover.Kind {
	case KindNone:
		in.Hover = VertexHit(0)
	case KindVertex:
		in.Hover = EdgeHit(0)
	default:
		in.Hover = NoHit
	}
	return in
}
