// Package state holds the viewer's application state and notifies
// subscribers when selected parts of it change.
package state

import (
	"sync"

	"github.com/Faultbox/wireview/internal/engine/animation"
	"github.com/Faultbox/wireview/internal/engine/camera"
	"github.com/Faultbox/wireview/internal/engine/picking"
	"github.com/Faultbox/wireview/internal/engine/projector"
	"github.com/Faultbox/wireview/internal/mesh"
)

// UI holds presentation toggles.
type UI struct {
	ShowLabels bool
}

// State is one snapshot of everything the frame loop reads.
type State struct {
	Mesh        *mesh.Mesh
	Camera      camera.State
	Viewport    projector.Viewport
	Animation   animation.State
	Interaction picking.Interaction
	UI          UI

	// ProjectionDirty is set when Camera or Viewport changed since the
	// projector was last configured.
	ProjectionDirty bool
	// SceneDirty is set when anything the draw list depends on changed.
	SceneDirty bool
}

type listener func(prev, next State)

// Store guards a State. Listeners run on the updating goroutine, after the
// lock is released.
type Store struct {
	mu        sync.RWMutex
	state     State
	listeners map[int]listener
	nextID    int
}

// NewStore returns a store holding initial.
func NewStore(initial State) *Store {
	return &Store{
		state:     initial,
		listeners: make(map[int]listener),
	}
}

// Get returns the current snapshot.
func (s *Store) Get() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Update applies fn and notifies listeners.
func (s *Store) Update(fn func(*State)) {
	prev, next, ls := s.apply(fn, true)
	for _, l := range ls {
		l(prev, next)
	}
}

// UpdateSilent applies fn without notifying anyone.
func (s *Store) UpdateSilent(fn func(*State)) {
	s.apply(fn, false)
}

func (s *Store) apply(fn func(*State), notify bool) (prev, next State, ls []listener) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev = s.state
	fn(&s.state)
	next = s.state

	if notify {
		ls = make([]listener, 0, len(s.listeners))
		for id := 0; id < s.nextID; id++ {
			if l, ok := s.listeners[id]; ok {
				ls = append(ls, l)
			}
		}
	}
	return prev, next, ls
}

func (s *Store) add(l listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = l

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Subscribe calls fn with the selected value whenever an Update changes it.
// Listeners fire in subscription order. The returned func unsubscribes.
func Subscribe[T comparable](s *Store, selector func(State) T, fn func(T)) func() {
	return s.add(func(prev, next State) {
		a, b := selector(prev), selector(next)
		if a != b {
			fn(b)
		}
	})
}
