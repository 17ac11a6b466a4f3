// Package viewer wires the construction animation, picking, scene assembly
// and drawing into an interactive window.
//
// Controller holds all state transitions and has no SDL or GL dependency;
// Viewer owns the window, the event loop and the GL backend.
package viewer

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/wireview/internal/config"
	"github.com/Faultbox/wireview/internal/engine/animation"
	"github.com/Faultbox/wireview/internal/engine/camera"
	"github.com/Faultbox/wireview/internal/engine/drawlist"
	"github.com/Faultbox/wireview/internal/engine/picking"
	"github.com/Faultbox/wireview/internal/engine/projector"
	"github.com/Faultbox/wireview/internal/engine/scene"
	"github.com/Faultbox/wireview/internal/logger"
	"github.com/Faultbox/wireview/internal/mesh"
	"github.com/Faultbox/wireview/internal/state"
	"github.com/Faultbox/wireview/pkg/math"
)

// Controller applies input to the viewer state and produces sorted frames.
type Controller struct {
	cfg   *config.Config
	log   *zap.Logger
	store *state.Store

	proj    *projector.Perspective
	picker  *picking.Picker
	builder *scene.Builder
	orbit   *camera.Orbit

	frame  []drawlist.Item
	unsubs []func()
}

// NewController starts with m on screen and the animation idle.
func NewController(cfg *config.Config, m *mesh.Mesh) *Controller {
	c := &Controller{
		cfg:     cfg,
		log:     logger.Named("viewer"),
		proj:    projector.NewPerspective(),
		picker:  picking.NewPicker(cfg.Hit),
		builder: scene.NewBuilder(),
		orbit:   camera.NewOrbit(cfg.Camera),
	}
	c.orbit.DragSensitivity = cfg.UI.DragSensitivity
	c.orbit.ZoomSensitivity = cfg.UI.ZoomSensitivity

	c.builder.Grid = cfg.Grid
	c.builder.Style = cfg.SceneStyle()
	c.builder.Highlight = cfg.HighlightStyle()
	c.builder.Durations = cfg.Animation.Durations

	c.store = state.NewStore(state.State{
		Mesh:            m,
		Camera:          cfg.Camera,
		Animation:       animation.Idle(),
		Interaction:     picking.NewInteraction(),
		UI:              state.UI{ShowLabels: cfg.UI.ShowLabels},
		ProjectionDirty: true,
		SceneDirty:      true,
	})

	c.unsubs = append(c.unsubs,
		state.Subscribe(c.store, func(s state.State) animation.Phase { return s.Animation.Phase },
			func(p animation.Phase) {
				c.log.Info("phase", zap.Stringer("phase", p))
			}),
		state.Subscribe(c.store, func(s state.State) picking.Hit { return s.Interaction.Hover },
			func(h picking.Hit) {
				c.log.Debug("hover", zap.Stringer("kind", h.Kind), zap.Int("id", h.ID))
			}),
		state.Subscribe(c.store, func(s state.State) *mesh.Mesh { return s.Mesh },
			func(m *mesh.Mesh) {
				c.log.Info("mesh loaded", zap.Int("vertices", len(m.Vertices)), zap.Int("edges", len(m.Edges)))
			}),
	)
	return c
}

// Close drops the state subscriptions.
func (c *Controller) Close() {
	for _, u := range c.unsubs {
		u()
	}
	c.unsubs = nil
}

// State returns the current snapshot.
func (c *Controller) State() state.State {
	return c.store.Get()
}

// Projector returns the projector configured for the latest frame.
func (c *Controller) Projector() projector.Projector {
	return c.proj
}

// Resize sets the logical viewport size and pixel ratio.
func (c *Controller) Resize(width, height, dpr float64) {
	vp := projector.Viewport{Width: width, Height: height, DPR: dpr}
	c.store.Update(func(s *state.State) {
		if s.Viewport == vp {
			return
		}
		s.Viewport = vp
		s.ProjectionDirty = true
		s.SceneDirty = true
	})
	c.log.Debug("resize", zap.Float64("width", width), zap.Float64("height", height), zap.Float64("dpr", dpr))
}

// PointerMove hit-tests p and records the hover target.
func (c *Controller) PointerMove(p math.Vec2) {
	c.configure()
	s := c.store.Get()

	hit := picking.NoHit
	if s.Mesh != nil {
		hit = c.picker.Pick(p, c.proj, s.Viewport, s.Mesh.Vertices, s.Mesh.Edges)
	}
	next, changed := s.Interaction.Apply(hit, p)
	if !changed {
		return
	}
	c.store.Update(func(s *state.State) {
		if next.Hover != s.Interaction.Hover {
			s.SceneDirty = true
		}
		s.Interaction = next
	})
}

// PointerLeave clears the hover target.
func (c *Controller) PointerLeave() {
	c.store.Update(func(s *state.State) {
		s.Interaction = s.Interaction.Leave()
		s.SceneDirty = true
	})
}

// Begin starts, or restarts, construction at now.
func (c *Controller) Begin(now time.Duration) {
	c.store.Update(func(s *state.State) {
		s.Animation = animation.Begin(now, s.Animation)
		s.SceneDirty = true
	})
}

// CycleHighlight steps the manual highlight: none, vertex 0, edge 0, none.
func (c *Controller) CycleHighlight() {
	c.store.Update(func(s *state.State) {
		s.Interaction = s.Interaction.Cycle()
		s.SceneDirty = true
	})
}

// ToggleLabels shows or hides vertex coordinates.
func (c *Controller) ToggleLabels() {
	c.store.Update(func(s *state.State) {
		s.UI.ShowLabels = !s.UI.ShowLabels
		s.SceneDirty = true
	})
}

// Orbit rotates the camera by a pointer drag in pixels.
func (c *Controller) Orbit(dx, dy float64) {
	c.orbit.HandleDrag(dx, dy)
	c.setCamera(c.orbit.State())
}

// Zoom moves the camera along its view axis by wheel ticks.
func (c *Controller) Zoom(ticks float64) {
	c.orbit.HandleZoom(ticks)
	c.setCamera(c.orbit.State())
}

func (c *Controller) setCamera(cam camera.State) {
	c.store.Update(func(s *state.State) {
		s.Camera = cam
		s.ProjectionDirty = true
		s.SceneDirty = true
	})
}

// LoadMesh validates m and shows it. The hover target is cleared and the
// animation restarts at now when autostart is on, or goes idle otherwise.
// An invalid mesh leaves the current one in place.
func (c *Controller) LoadMesh(now time.Duration, m *mesh.Mesh) error {
	if err := m.Validate(); err != nil {
		return err
	}

	if c.cfg.UI.FitOnLoad {
		c.orbit.FitToBounds(m.Bounds())
	}

	c.store.Update(func(s *state.State) {
		s.Mesh = m
		s.Interaction = s.Interaction.Leave()
		s.Animation = animation.Idle()
		if c.cfg.Animation.Autostart {
			s.Animation = animation.Begin(now, s.Animation)
		}
		if c.cfg.UI.FitOnLoad {
			s.Camera = c.orbit.State()
			s.ProjectionDirty = true
		}
		s.SceneDirty = true
	})
	return nil
}

// LoadMeshFile reads a mesh file and shows it.
func (c *Controller) LoadMeshFile(now time.Duration, path string) error {
	m, err := mesh.Load(path)
	if err != nil {
		return err
	}
	if err := c.LoadMesh(now, m); err != nil {
		return fmt.Errorf("mesh %s: %w", path, err)
	}
	return nil
}

// Frame advances the animation to now and returns the sorted draw list. The
// slice is reused by the next call.
func (c *Controller) Frame(now time.Duration) []drawlist.Item {
	c.configure()

	s := c.store.Get()
	if s.Mesh != nil {
		next := animation.Tick(now, s.Animation, len(s.Mesh.Vertices), len(s.Mesh.Edges), c.builder.Durations)
		if next != s.Animation {
			c.store.Update(func(st *state.State) {
				st.Animation = next
				st.SceneDirty = true
			})
			s = c.store.Get()
		}
	}

	items := c.builder.Build(scene.Input{
		Now:         now,
		Proj:        c.proj,
		Viewport:    s.Viewport,
		Mesh:        s.Mesh,
		Animation:   s.Animation,
		Interaction: s.Interaction,
		ShowLabels:  s.UI.ShowLabels,
	})
	c.frame = append(c.frame[:0], items...)
	drawlist.Sort(c.frame)

	c.store.UpdateSilent(func(st *state.State) { st.SceneDirty = false })
	return c.frame
}

// Animating reports whether frames still change without input.
func (c *Controller) Animating() bool {
	p := c.store.Get().Animation.Phase
	return p != animation.PhaseIdle && p != animation.PhaseComplete
}

// Status returns the overlay text: phase and hover on the first line.
func (c *Controller) Status() string {
	s := c.store.Get()

	phase := s.Animation.Phase.String()
	if s.Mesh != nil {
		switch s.Animation.Phase {
		case animation.PhaseVertexConstruction:
			phase += fmt.Sprintf(" %d/%d", s.Animation.CurrentIndex+1, len(s.Mesh.Vertices))
		case animation.PhaseEdgeDrawing:
			phase += fmt.Sprintf(" %d/%d", s.Animation.CurrentIndex+1, len(s.Mesh.Edges))
		}
	}

	hover := "-"
	if s.Interaction.Hover.Ok() {
		hover = fmt.Sprintf("%s %d", s.Interaction.Hover.Kind, s.Interaction.Hover.ID)
	}
	return fmt.Sprintf("%s  hover: %s", phase, hover)
}

// configure rebuilds the projector when the camera or viewport changed.
func (c *Controller) configure() {
	s := c.store.Get()
	if !s.ProjectionDirty {
		return
	}
	c.proj.Configure(s.Camera, s.Viewport)
	c.store.UpdateSilent(func(st *state.State) { st.ProjectionDirty = false })

	if ce := c.log.Check(zap.DebugLevel, "projection rebuilt"); ce != nil {
		view, proj := c.proj.Matrices()
		ce.Write(
			zap.Float64s("view", view[:]),
			zap.Float64s("proj", proj[:]),
			zap.Float64("width", s.Viewport.Width),
			zap.Float64("height", s.Viewport.Height),
		)
	}
}
