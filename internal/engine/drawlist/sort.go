package drawlist

import (
	"cmp"
	"slices"
)

// Sort orders items for painting: depth ascending (far to near), then layer
// ascending. The sort is stable, so equal keys keep emission order.
func Sort(items []Item) {
	slices.SortStableFunc(items, func(a, b Item) int {
		ma, mb := a.Meta(), b.Meta()
		if c := cmp.Compare(ma.Depth, mb.Depth); c != 0 {
			return c
		}
		return cmp.Compare(ma.Layer, mb.Layer)
	})
}
