// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/Faultbox/wireview/internal/engine/animation"
	"github.com/Faultbox/wireview/internal/engine/camera"
	"github.com/Faultbox/wireview/internal/engine/colors"
	"github.com/Faultbox/wireview/internal/engine/drawlist"
	"github.com/Faultbox/wireview/internal/engine/highlight"
	"github.com/Faultbox/wireview/internal/engine/picking"
	"github.com/Faultbox/wireview/internal/engine/scene"
	"github.com/Faultbox/wireview/pkg/math"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all viewer settings.
type Config struct {
	Window    WindowConfig       `yaml:"window"`
	Logging   LoggingConfig      `yaml:"logging"`
	Mesh      MeshConfig         `yaml:"mesh"`
	Camera    camera.State       `yaml:"camera"`
	Animation AnimationConfig    `yaml:"animation"`
	Sizes     SizesConfig        `yaml:"sizes"`
	Grid      scene.GridOptions  `yaml:"grid"`
	Hit       picking.Thresholds `yaml:"hit"`
	Highlight HighlightConfig    `yaml:"highlight"`
	Layers    drawlist.Layers    `yaml:"layers"`
	Colors    ColorsConfig       `yaml:"colors"`
	UI        UIConfig           `yaml:"ui"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	HighDPI    bool   `yaml:"high_dpi"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// MeshConfig selects the mesh shown at startup. An empty path shows the
// built-in cube.
type MeshConfig struct {
	Path string `yaml:"path"`
}

// AnimationConfig holds construction timing.
type AnimationConfig struct {
	animation.Durations `yaml:",inline"`
	// Autostart begins construction as soon as the window opens.
	Autostart bool `yaml:"autostart"`
}

// SizesConfig holds base primitive sizes in logical pixels.
type SizesConfig struct {
	VertexRadiusPx  float64   `yaml:"vertex_radius_px"`
	EdgeWidthPx     float64   `yaml:"edge_width_px"`
	GridLineWidthPx float64   `yaml:"grid_line_width_px"`
	LabelOffsetPx   math.Vec2 `yaml:"label_offset_px"`
}

// HighlightConfig holds hover highlight tuning.
type HighlightConfig struct {
	HaloScale      float64 `yaml:"halo_scale"`
	HaloAlpha      float64 `yaml:"halo_alpha"`
	EdgeWidthScale float64 `yaml:"edge_width_scale"`
	EdgeAlpha      float64 `yaml:"edge_alpha"`
	EndCapScale    float64 `yaml:"end_cap_scale"`
}

// ColorsConfig holds the palette.
type ColorsConfig struct {
	Background colors.Color `yaml:"background"`
	Ground     colors.Color `yaml:"ground"`
	Grid       colors.Color `yaml:"grid"`
	Edge       colors.Color `yaml:"edge"`
	Vertex     colors.Color `yaml:"vertex"`
	Label      colors.Color `yaml:"label"`
	Highlight  colors.Color `yaml:"highlight"`
}

// UIConfig holds presentation toggles and input tuning.
type UIConfig struct {
	ShowLabels      bool    `yaml:"show_labels"`
	DragSensitivity float64 `yaml:"drag_sensitivity"`
	ZoomSensitivity float64 `yaml:"zoom_sensitivity"`
	FitOnLoad       bool    `yaml:"fit_on_load"`
	ScreenshotDir   string  `yaml:"screenshot_dir"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "Wireview",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			HighDPI:    true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Camera: camera.Default(),
		Animation: AnimationConfig{
			Durations: animation.DefaultDurations(),
			Autostart: true,
		},
		Sizes: SizesConfig{
			VertexRadiusPx:  3,
			EdgeWidthPx:     2.5,
			GridLineWidthPx: 0.5,
			LabelOffsetPx:   math.Vec2{X: 6, Y: -6},
		},
		Grid: scene.DefaultGridOptions(),
		Hit:  picking.DefaultThresholds(),
		Highlight: HighlightConfig{
			HaloScale:      1.8,
			HaloAlpha:      0.45,
			EdgeWidthScale: 1.6,
			EdgeAlpha:      0.45,
			EndCapScale:    1.6,
		},
		Layers: drawlist.DefaultLayers(),
		Colors: ColorsConfig{
			Background: colors.Background,
			Ground:     colors.Ground,
			Grid:       colors.Grid,
			Edge:       colors.Edge,
			Vertex:     colors.Vertex,
			Label:      colors.Label,
			Highlight:  colors.Highlight,
		},
		UI: UIConfig{
			ShowLabels:      false,
			DragSensitivity: 0.005,
			ZoomSensitivity: 0.1,
			FitOnLoad:       true,
			ScreenshotDir:   "screenshots",
		},
	}
}

// Validate reports the first setting that cannot drive the viewer.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return invalid("window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return invalid("logging.level: %v", err)
	}

	durations := []struct {
		name string
		d    time.Duration
	}{
		{"initial_delay", c.Animation.InitialDelay},
		{"vertex_build", c.Animation.VertexBuild},
		{"edge_draw", c.Animation.EdgeDraw},
	}
	for _, d := range durations {
		if d.d < 0 {
			return invalid("animation.%s is negative (%v)", d.name, d.d)
		}
	}

	positive := []struct {
		name string
		v    float64
	}{
		{"sizes.vertex_radius_px", c.Sizes.VertexRadiusPx},
		{"sizes.edge_width_px", c.Sizes.EdgeWidthPx},
		{"sizes.grid_line_width_px", c.Sizes.GridLineWidthPx},
		{"grid.range", c.Grid.Range},
		{"hit.vertex_radius_px", c.Hit.VertexRadiusPx},
		{"hit.edge_tolerance_px", c.Hit.EdgeTolerancePx},
		{"hit.endpoint_guard_scale", c.Hit.EndpointGuardScale},
		{"highlight.halo_scale", c.Highlight.HaloScale},
		{"highlight.edge_width_scale", c.Highlight.EdgeWidthScale},
		{"highlight.end_cap_scale", c.Highlight.EndCapScale},
		{"camera.near", c.Camera.Near},
	}
	for _, p := range positive {
		if !(p.v > 0) || !math.IsFinite(p.v) {
			return invalid("%s must be positive, got %v", p.name, p.v)
		}
	}

	if c.Grid.Step < 0 {
		return invalid("grid.step is negative (%v)", c.Grid.Step)
	}
	if c.Camera.Far <= c.Camera.Near {
		return invalid("camera.far (%v) must exceed camera.near (%v)", c.Camera.Far, c.Camera.Near)
	}
	if c.Camera.FovDeg <= 0 || c.Camera.FovDeg >= 180 {
		return invalid("camera.fov_deg %v out of range", c.Camera.FovDeg)
	}
	if math.ApproxEqual(c.Camera.Position.Distance(c.Camera.Target), 0, math.Epsilon) {
		return invalid("camera.position equals camera.target")
	}
	if !c.Layers.Ordered() {
		return invalid("layers must strictly increase from ground to label")
	}
	return nil
}

// HighlightStyle returns the hover highlight look.
func (c *Config) HighlightStyle() highlight.Style {
	return highlight.Style{
		VertexRadiusPx: c.Sizes.VertexRadiusPx,
		EdgeWidthPx:    c.Sizes.EdgeWidthPx,
		HaloScale:      c.Highlight.HaloScale,
		HaloAlpha:      c.Highlight.HaloAlpha,
		EdgeWidthScale: c.Highlight.EdgeWidthScale,
		EdgeAlpha:      c.Highlight.EdgeAlpha,
		EndCapScale:    c.Highlight.EndCapScale,
		HighlightColor: c.Colors.Highlight,
		VertexColor:    c.Colors.Vertex,
		Layers:         c.Layers,
	}
}

// SceneStyle returns the base scene look.
func (c *Config) SceneStyle() scene.Style {
	return scene.Style{
		EdgeWidthPx:     c.Sizes.EdgeWidthPx,
		VertexRadiusPx:  c.Sizes.VertexRadiusPx,
		GridLineWidthPx: c.Sizes.GridLineWidthPx,
		LabelOffsetPx:   c.Sizes.LabelOffsetPx,
		Ground:          c.Colors.Ground,
		Grid:            c.Colors.Grid,
		Edge:            c.Colors.Edge,
		Vertex:          c.Colors.Vertex,
		Label:           c.Colors.Label,
		Layers:          c.Layers,
	}
}
