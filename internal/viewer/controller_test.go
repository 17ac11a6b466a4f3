package viewer

import (
	"errors"
	gomath "math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/wireview/internal/config"
	"github.com/Faultbox/wireview/internal/engine/animation"
	"github.com/Faultbox/wireview/internal/engine/drawlist"
	"github.com/Faultbox/wireview/internal/engine/picking"
	"github.com/Faultbox/wireview/internal/mesh"
	"github.com/Faultbox/wireview/pkg/math"
)

const epoch = time.Second

func newTestController(t *testing.T) *Controller {
	t.Helper()
	c := NewController(config.Default(), mesh.Cube())
	t.Cleanup(c.Close)
	c.Resize(800, 600, 1)
	return c
}

func count(items []drawlist.Item) (edges, points, labels int) {
	for _, it := range items {
		switch it.(type) {
		case drawlist.Line:
			if it.Meta().Layer == drawlist.DefaultLayers().EdgeBase {
				edges++
			}
		case drawlist.Point:
			if it.Meta().Layer == drawlist.DefaultLayers().PointBase {
				points++
			}
		case drawlist.Label:
			labels++
		}
	}
	return edges, points, labels
}

// runUntil ticks frames every 16ms from start to end and returns the last
// frame.
func runUntil(c *Controller, start, end time.Duration) []drawlist.Item {
	var items []drawlist.Item
	for now := start; now <= end; now += 16 * time.Millisecond {
		items = c.Frame(now)
	}
	return items
}

func TestControllerIdleShowsOnlyGround(t *testing.T) {
	c := newTestController(t)

	items := c.Frame(epoch)
	if len(items) == 0 {
		t.Fatal("idle frame is empty, want ground and grid")
	}
	edges, points, labels := count(items)
	if edges != 0 || points != 0 || labels != 0 {
		t.Errorf("idle frame has %d edges, %d points, %d labels", edges, points, labels)
	}
	if got := c.State().Animation.Phase; got != animation.PhaseIdle {
		t.Errorf("phase = %v, want idle", got)
	}
	if c.Animating() {
		t.Error("Animating() = true while idle")
	}
}

func TestControllerRunsToComplete(t *testing.T) {
	c := newTestController(t)
	c.Begin(epoch)
	if !c.Animating() {
		t.Error("Animating() = false after Begin")
	}

	items := runUntil(c, epoch, epoch+12*time.Second)

	s := c.State()
	if s.Animation.Phase != animation.PhaseComplete || !s.Animation.HasCompletedOnce {
		t.Fatalf("animation = %+v, want complete", s.Animation)
	}
	edges, points, _ := count(items)
	if edges != 12 || points != 8 {
		t.Errorf("complete frame has %d edges and %d points, want 12 and 8", edges, points)
	}
}

func TestControllerFrameIsSorted(t *testing.T) {
	c := newTestController(t)
	c.ToggleLabels()
	c.Begin(epoch)
	items := runUntil(c, epoch, epoch+12*time.Second)

	for i := 1; i < len(items); i++ {
		a, b := items[i-1].Meta(), items[i].Meta()
		if a.Depth > b.Depth || (a.Depth == b.Depth && a.Layer > b.Layer) {
			t.Fatalf("items %d and %d out of order: %+v then %+v", i-1, i, a, b)
		}
	}
	if _, _, labels := count(items); labels != 8 {
		t.Errorf("got %d labels, want 8", labels)
	}
}

func TestControllerPointerOnVertex(t *testing.T) {
	c := newTestController(t)
	c.Frame(epoch)

	v := mesh.Cube().Vertices[3]
	p := c.Projector().WorldToScreen(v, c.State().Viewport)
	c.PointerMove(p)

	in := c.State().Interaction
	if in.Hover != picking.VertexHit(3) {
		t.Fatalf("hover = %+v, want vertex 3", in.Hover)
	}
	if in.Pointer != p {
		t.Errorf("pointer = %v, want %v", in.Pointer, p)
	}

	c.PointerLeave()
	if got := c.State().Interaction.Hover; got != picking.NoHit {
		t.Errorf("hover after leave = %+v, want none", got)
	}
}

func TestControllerPointerOffMesh(t *testing.T) {
	c := newTestController(t)
	c.Frame(epoch)

	c.PointerMove(math.Vec2{X: 2, Y: 2})
	if got := c.State().Interaction.Hover; got != picking.NoHit {
		t.Errorf("hover = %+v, want none", got)
	}
}

func TestControllerCycleHighlight(t *testing.T) {
	c := newTestController(t)

	want := []picking.Hit{picking.VertexHit(0), picking.EdgeHit(0), picking.NoHit}
	for i, w := range want {
		c.CycleHighlight()
		if got := c.State().Interaction.Hover; got != w {
			t.Errorf("cycle %d: hover = %+v, want %+v", i, got, w)
		}
	}
}

func TestControllerToggleLabels(t *testing.T) {
	c := newTestController(t)
	before := c.State().UI.ShowLabels

	c.ToggleLabels()
	if c.State().UI.ShowLabels == before {
		t.Error("ToggleLabels did not flip ShowLabels")
	}
	c.ToggleLabels()
	if c.State().UI.ShowLabels != before {
		t.Error("second ToggleLabels did not restore ShowLabels")
	}
}

func TestControllerOrbitMarksProjectionDirty(t *testing.T) {
	c := newTestController(t)
	c.Frame(epoch)
	if c.State().ProjectionDirty {
		t.Fatal("projection still dirty after Frame")
	}

	before := c.State().Camera
	c.Orbit(40, 0)
	s := c.State()
	if s.Camera == before {
		t.Error("Orbit did not move the camera")
	}
	if !s.ProjectionDirty || !s.SceneDirty {
		t.Error("Orbit did not mark projection and scene dirty")
	}

	c.Frame(epoch + time.Millisecond)
	if c.State().ProjectionDirty || c.State().SceneDirty {
		t.Error("Frame did not clear dirty flags")
	}
}

func TestControllerZoom(t *testing.T) {
	c := newTestController(t)
	s := c.State().Camera
	before := s.Position.Distance(s.Target)

	c.Zoom(1)
	s = c.State().Camera
	if after := s.Position.Distance(s.Target); after == before {
		t.Errorf("Zoom left distance at %v", after)
	}
}

func TestControllerLoadMesh(t *testing.T) {
	c := newTestController(t)
	c.CycleHighlight()

	tri := &mesh.Mesh{
		Vertices: []math.Vec3{{X: 0}, {X: 1}, {Z: 1}},
		Edges:    []mesh.Edge{{0, 1}, {1, 2}, {2, 0}},
	}
	if err := c.LoadMesh(epoch, tri); err != nil {
		t.Fatalf("LoadMesh: %v", err)
	}

	s := c.State()
	if s.Mesh != tri {
		t.Error("mesh not replaced")
	}
	if s.Interaction.Hover != picking.NoHit {
		t.Errorf("hover = %+v, want cleared", s.Interaction.Hover)
	}
	// Autostart is on by default.
	if s.Animation.Phase != animation.PhaseInitialDelay || s.Animation.StartTime != epoch {
		t.Errorf("animation = %+v, want initial delay at %v", s.Animation, epoch)
	}
	if !s.ProjectionDirty {
		t.Error("fit on load did not mark the projection dirty")
	}
}

func TestControllerLoadMeshWithoutAutostart(t *testing.T) {
	cfg := config.Default()
	cfg.Animation.Autostart = false
	c := NewController(cfg, mesh.Cube())
	t.Cleanup(c.Close)

	c.Begin(epoch)
	if err := c.LoadMesh(epoch, mesh.Cube()); err != nil {
		t.Fatalf("LoadMesh: %v", err)
	}
	if got := c.State().Animation.Phase; got != animation.PhaseIdle {
		t.Errorf("phase = %v, want idle", got)
	}
}

func TestControllerLoadMeshRejectsInvalid(t *testing.T) {
	c := newTestController(t)
	orig := c.State().Mesh

	bad := &mesh.Mesh{
		Vertices: []math.Vec3{{}, {X: 1}},
		Edges:    []mesh.Edge{{0, 5}},
	}
	err := c.LoadMesh(epoch, bad)
	if !errors.Is(err, mesh.ErrEdgeOutOfRange) {
		t.Fatalf("LoadMesh error = %v, want ErrEdgeOutOfRange", err)
	}
	if c.State().Mesh != orig {
		t.Error("invalid mesh replaced the current one")
	}
}

func TestControllerLoadMeshFile(t *testing.T) {
	c := newTestController(t)

	data, err := mesh.Cube().Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	path := filepath.Join(t.TempDir(), "cube.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := c.LoadMeshFile(epoch, path); err != nil {
		t.Fatalf("LoadMeshFile: %v", err)
	}
	if n := len(c.State().Mesh.Vertices); n != 8 {
		t.Errorf("loaded %d vertices, want 8", n)
	}

	if err := c.LoadMeshFile(epoch, filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadMeshFile on a missing file returned nil")
	}
}

func TestControllerResizeIgnoresSameViewport(t *testing.T) {
	c := newTestController(t)
	c.Frame(epoch)

	c.Resize(800, 600, 1)
	if c.State().ProjectionDirty {
		t.Error("same-size resize marked the projection dirty")
	}
	c.Resize(1024, 600, 2)
	if !c.State().ProjectionDirty {
		t.Error("resize did not mark the projection dirty")
	}
}

func TestControllerStatus(t *testing.T) {
	c := newTestController(t)

	if got, want := c.Status(), "IDLE  hover: -"; got != want {
		t.Errorf("Status() = %q, want %q", got, want)
	}

	c.Begin(epoch)
	c.Frame(epoch + 800*time.Millisecond)
	c.CycleHighlight()
	if got, want := c.Status(), "VERTEX_CONSTRUCTION 1/8  hover: vertex 0"; got != want {
		t.Errorf("Status() = %q, want %q", got, want)
	}
}

func TestControllerNonFiniteMeshKeepsFrame(t *testing.T) {
	c := newTestController(t)
	cam := c.State().Camera

	bad := &mesh.Mesh{
		Vertices: []math.Vec3{{X: gomath.Inf(1)}, {X: 1}, {Z: 1}},
		Edges:    []mesh.Edge{{0, 1}, {1, 2}, {2, 0}},
	}
	if err := c.LoadMesh(epoch, bad); !errors.Is(err, mesh.ErrNonFiniteVertex) {
		t.Fatalf("LoadMesh error = %v, want ErrNonFiniteVertex", err)
	}

	path := filepath.Join(t.TempDir(), "inf.yaml")
	content := "vertices:\n  - [.inf, 0, 0]\n  - [1, 0, 0]\n  - [0, 0, 1]\nedges:\n  - [0, 1]\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := c.LoadMeshFile(epoch, path); !errors.Is(err, mesh.ErrNonFiniteVertex) {
		t.Fatalf("LoadMeshFile error = %v, want ErrNonFiniteVertex", err)
	}

	s := c.State()
	if s.Camera != cam || !s.Camera.Position.IsFinite() {
		t.Errorf("camera = %+v, want unchanged %+v", s.Camera, cam)
	}
	if len(s.Mesh.Vertices) != 8 {
		t.Errorf("mesh has %d vertices, want the cube kept", len(s.Mesh.Vertices))
	}

	c.Begin(epoch)
	items := runUntil(c, epoch, epoch+12*time.Second)
	edges, points, _ := count(items)
	if edges != 12 || points != 8 {
		t.Errorf("frame has %d edges and %d points, want 12 and 8", edges, points)
	}
}

func TestControllerLogsProjectionOnRebuild(t *testing.T) {
	c := newTestController(t)
	core, logs := observer.New(zapcore.DebugLevel)
	c.log = zap.New(core)

	c.Frame(epoch)
	c.Frame(epoch + time.Millisecond)
	rebuilt := logs.FilterMessage("projection rebuilt")
	if rebuilt.Len() != 1 {
		t.Fatalf("got %d projection logs over two frames, want 1", rebuilt.Len())
	}

	view, proj := c.proj.Matrices()
	fields := rebuilt.All()[0].ContextMap()
	for name, want := range map[string]math.Mat4{"view": view, "proj": proj} {
		got, ok := fields[name].([]interface{})
		if !ok || len(got) != 16 {
			t.Fatalf("%s field = %#v, want 16 floats", name, fields[name])
		}
		for i := range got {
			if got[i] != any(want[i]) {
				t.Errorf("%s[%d] = %v, want %v", name, i, got[i], want[i])
			}
		}
	}

	c.Orbit(40, 0)
	c.Frame(epoch + 2*time.Millisecond)
	if n := logs.FilterMessage("projection rebuilt").Len(); n != 2 {
		t.Errorf("got %d projection logs after orbit, want 2", n)
	}
}
