package viewer

import (
	"errors"
	"fmt"
	"time"

	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/wireview/internal/config"
	"github.com/Faultbox/wireview/internal/engine/drawlist"
	"github.com/Faultbox/wireview/internal/engine/input"
	"github.com/Faultbox/wireview/internal/engine/projector"
	"github.com/Faultbox/wireview/internal/engine/renderer"
	"github.com/Faultbox/wireview/internal/engine/screenshot"
	"github.com/Faultbox/wireview/internal/engine/window"
	"github.com/Faultbox/wireview/internal/mesh"
	"github.com/Faultbox/wireview/pkg/math"
)

const (
	hints       = "Space build  H highlight  L labels  O open  P screenshot  Esc quit"
	idleDelayMs = 16
)

// Viewer is the interactive window.
type Viewer struct {
	cfg     *config.Config
	running bool
	start   time.Time

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	ctrl     *Controller
	shots    *screenshot.Writer

	dragging    bool
	dialogOpen  bool
	captureNext bool
	picked      chan string
}

// New opens the window and shows m.
func New(cfg *config.Config, m *mesh.Mesh) (*Viewer, error) {
	v := &Viewer{
		cfg:    cfg,
		picked: make(chan string, 1),
	}
	v.ctrl = NewController(cfg, m)
	v.ctrl.log.Info("initializing viewer",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	// Create window (this also creates OpenGL context)
	var err error
	v.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
		HighDPI:    cfg.Window.HighDPI,
		Samples:    4,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	v.renderer, err = renderer.New()
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.input = input.New()
	v.shots = screenshot.NewWriter(cfg.UI.ScreenshotDir, "wireview")

	w, h := v.window.GetSize()
	v.resize(w, h)

	v.ctrl.log.Info("viewer initialized")
	return v, nil
}

// now is the time since start on the monotonic clock. It is never zero,
// since zero marks an unstamped animation phase.
func (v *Viewer) now() time.Duration {
	return time.Since(v.start) + time.Millisecond
}

// Run drives the frame loop until the window closes.
func (v *Viewer) Run() error {
	v.running = true
	v.start = time.Now()

	switch {
	case v.cfg.Mesh.Path != "":
		// A mesh from the config is shown the same way as one opened later.
		if err := v.ctrl.LoadMesh(v.now(), v.ctrl.State().Mesh); err != nil {
			return fmt.Errorf("mesh %s: %w", v.cfg.Mesh.Path, err)
		}
	case v.cfg.Animation.Autostart:
		v.ctrl.Begin(v.now())
	}

	frameCount := 0
	fpsTimer := time.Now()
	lastTime := time.Now()

	v.ctrl.log.Info("starting frame loop")

	for v.running {
		frameStart := time.Now()
		dt := frameStart.Sub(lastTime)
		lastTime = frameStart

		// 1. Process input
		if v.input.Update() {
			v.running = false
			break
		}
		for _, event := range v.input.Events() {
			v.handle(event)
		}

		// 2. Pick up a dialog result
		select {
		case path := <-v.picked:
			v.dialogOpen = false
			if path != "" {
				v.load(path)
			}
		default:
		}

		// 3. Render
		v.render(v.now())
		if !v.cfg.Window.VSync && !v.ctrl.Animating() {
			// Nothing moves on its own; cap the idle frame rate.
			sdl.Delay(idleDelayMs)
		}

		if v.captureNext {
			v.captureNext = false
			v.capture()
		}

		// 4. Present
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.ctrl.log.Debug("fps", zap.Int("count", frameCount), zap.Duration("dt", dt))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handle(event input.Event) {
	switch event.Type {
	case input.EventWindowResize:
		v.resize(event.Width, event.Height)

	case input.EventKeyDown:
		switch event.Key {
		case sdl.K_ESCAPE:
			v.running = false
		case sdl.K_SPACE:
			v.ctrl.Begin(v.now())
		case sdl.K_h:
			v.ctrl.CycleHighlight()
		case sdl.K_l:
			v.ctrl.ToggleLabels()
		case sdl.K_o:
			v.openDialog()
		case sdl.K_p:
			v.captureNext = true
		}

	case input.EventMouseDown:
		if event.Button == sdl.BUTTON_RIGHT {
			v.dragging = true
		}
	case input.EventMouseUp:
		if event.Button == sdl.BUTTON_RIGHT {
			v.dragging = false
		}

	case input.EventMouseMove:
		if v.dragging {
			v.ctrl.Orbit(event.DeltaX, event.DeltaY)
		}
		v.ctrl.PointerMove(math.Vec2{X: event.MouseX, Y: event.MouseY})

	case input.EventMouseLeave:
		v.dragging = false
		v.ctrl.PointerLeave()

	case input.EventMouseWheel:
		if event.DeltaY != 0 {
			v.ctrl.Zoom(event.DeltaY)
		}

	case input.EventFileDrop:
		v.load(event.Path)
	}
}

func (v *Viewer) resize(w, h int) {
	vp := projector.Viewport{Width: float64(w), Height: float64(h), DPR: v.window.PixelRatio()}
	v.ctrl.Resize(vp.Width, vp.Height, vp.DPR)
	v.renderer.Resize(vp)
}

func (v *Viewer) load(path string) {
	if err := v.ctrl.LoadMeshFile(v.now(), path); err != nil {
		v.ctrl.log.Error("failed to load mesh", zap.String("path", path), zap.Error(err))
		return
	}
	v.window.SetTitle(fmt.Sprintf("%s - %s", v.cfg.Window.Title, path))
}

// capture saves the frame just rendered, before the buffers swap.
func (v *Viewer) capture() {
	pixels, w, h := v.renderer.ReadPixels()
	path, err := v.shots.Save(pixels, w, h)
	if err != nil {
		v.ctrl.log.Error("failed to save screenshot", zap.Error(err))
		return
	}
	v.ctrl.log.Info("screenshot saved", zap.String("path", path))
}

// openDialog shows the native file picker on a goroutine. The result comes
// back through v.picked; an empty path means nothing was chosen.
func (v *Viewer) openDialog() {
	if v.dialogOpen {
		return
	}
	v.dialogOpen = true

	go func() {
		filename, err := dialog.File().
			Filter("Mesh Files", "yaml", "yml").
			Filter("All Files", "*").
			Title("Open Mesh").
			Load()
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				v.ctrl.log.Error("file dialog failed", zap.Error(err))
			}
			filename = ""
		}
		v.picked <- filename
	}()
}

func (v *Viewer) render(now time.Duration) {
	items := v.ctrl.Frame(now)
	vp := v.ctrl.State().Viewport

	v.renderer.Begin(v.cfg.Colors.Background)
	drawlist.Draw(items, v.ctrl.Projector(), vp, v.renderer)

	status := v.ctrl.Status()
	w := max(v.renderer.MeasureText(status), v.renderer.MeasureText(hints)) + 12
	v.renderer.FillQuad(hudPanel(w, 46), v.cfg.Colors.Background.WithAlpha(0.75), 1)

	label := v.cfg.Colors.Label
	v.renderer.DrawText(math.Vec2{X: 10, Y: 20}, status, label, 1)
	v.renderer.DrawText(math.Vec2{X: 10, Y: 36}, hints, label, 0.6)

	v.renderer.End()
}

// hudPanel is the backdrop rectangle behind the status lines.
func hudPanel(w, h float64) [4]math.Vec2 {
	const x, y = 4, 4
	return [4]math.Vec2{{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}}
}

// Close releases the window and GL resources.
func (v *Viewer) Close() {
	v.ctrl.log.Info("closing viewer")
	v.ctrl.Close()

	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
