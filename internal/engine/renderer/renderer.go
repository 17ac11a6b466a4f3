// Package renderer draws the per-frame draw list with OpenGL.
//
// Everything is batched in logical pixels under an orthographic projection;
// the GL viewport covers the drawable, so HiDPI surfaces stay sharp without
// touching the geometry. Solid triangles and text quads live in two batches.
// Switching from one to the other flushes the pending batch, which keeps
// paint order identical to call order.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/wireview/internal/engine/colors"
	"github.com/Faultbox/wireview/internal/engine/glyphs"
	"github.com/Faultbox/wireview/internal/engine/projector"
	"github.com/Faultbox/wireview/internal/engine/shader"
	"github.com/Faultbox/wireview/internal/engine/tessellate"
	"github.com/Faultbox/wireview/internal/logger"
	"github.com/Faultbox/wireview/pkg/math"
)

const (
	solidStride = 6 // pos2 + rgba4
	textStride  = 8 // pos2 + uv2 + rgba4
)

type batch int

const (
	batchNone batch = iota
	batchSolid
	batchText
)

// Renderer implements drawlist.Backend.
type Renderer struct {
	log *zap.Logger

	width, height float64 // logical pixels
	dpr           float64

	solid *shader.Program
	text  *shader.Program

	solidVAO, solidVBO uint32
	textVAO, textVBO   uint32
	atlasTex           uint32

	atlas *glyphs.Atlas

	solidVertices []float32
	textVertices  []float32
	pending       batch

	rim  []math.Vec2
	tris []math.Vec2
	proj [16]float32
}

// New creates the renderer. It must run after the GL context exists.
func New() (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r := &Renderer{
		log:           logger.Named("renderer"),
		dpr:           1,
		atlas:         glyphs.New(),
		solidVertices: make([]float32, 0, 8192),
		textVertices:  make([]float32, 0, 4096),
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	var err error
	if r.solid, err = shader.Compile(solidVertexShader, solidFragmentShader); err != nil {
		return nil, fmt.Errorf("create solid shader: %w", err)
	}
	if r.text, err = shader.Compile(textVertexShader, textFragmentShader); err != nil {
		r.solid.Delete()
		return nil, fmt.Errorf("create text shader: %w", err)
	}

	r.solidVAO, r.solidVBO = newBuffers(solidStride, []int32{2, 4})
	r.textVAO, r.textVBO = newBuffers(textStride, []int32{2, 2, 4})
	r.atlasTex = uploadAtlas(r.atlas)

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Enable(gl.MULTISAMPLE)

	return r, nil
}

// Close releases GL resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	r.solid.Delete()
	r.text.Delete()
	gl.DeleteVertexArrays(1, &r.solidVAO)
	gl.DeleteBuffers(1, &r.solidVBO)
	gl.DeleteVertexArrays(1, &r.textVAO)
	gl.DeleteBuffers(1, &r.textVBO)
	gl.DeleteTextures(1, &r.atlasTex)
}

// Resize sets the logical surface size and its pixel ratio.
func (r *Renderer) Resize(vp projector.Viewport) {
	dpr := vp.DPR
	if !(dpr > 0) {
		dpr = 1
	}
	r.width, r.height, r.dpr = vp.Width, vp.Height, dpr
	gl.Viewport(0, 0, int32(vp.Width*dpr+0.5), int32(vp.Height*dpr+0.5))
	r.proj = ortho(0, float32(vp.Width), float32(vp.Height), 0)

	r.log.Debug("renderer resized",
		zap.Float64("width", vp.Width),
		zap.Float64("height", vp.Height),
		zap.Float64("dpr", dpr),
	)
}

// Begin clears the surface and starts a frame.
func (r *Renderer) Begin(bg colors.Color) {
	gl.ClearColor(bg.R, bg.G, bg.B, bg.A)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	r.solidVertices = r.solidVertices[:0]
	r.textVertices = r.textVertices[:0]
	r.pending = batchNone
}

// End flushes whatever is still batched.
func (r *Renderer) End() {
	r.flush()
}

// ReadPixels returns the drawable as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() (pixels []byte, width, height int) {
	width = int(r.width*r.dpr + 0.5)
	height = int(r.height*r.dpr + 0.5)
	pixels = make([]byte, width*height*4)
	if len(pixels) == 0 {
		return pixels, width, height
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, width, height
}

// MeasureText returns the pixel width of a label.
func (r *Renderer) MeasureText(text string) float64 {
	return float64(r.atlas.Measure(text))
}

// FillQuad fills a convex quadrilateral.
func (r *Renderer) FillQuad(p [4]math.Vec2, c colors.Color, alpha float64) {
	r.use(batchSolid)
	r.tris = tessellate.Triangles(r.tris[:0], p[:])
	r.appendSolid(r.tris, c, alpha)
}

// DrawLine strokes a segment widthPx wide.
func (r *Renderer) DrawLine(a, b math.Vec2, widthPx float64, c colors.Color, alpha float64) {
	quad, ok := tessellate.Line(a, b, widthPx)
	if !ok {
		return
	}
	r.FillQuad(quad, c, alpha)
}

// DrawCircle fills a circle.
func (r *Renderer) DrawCircle(center math.Vec2, radiusPx float64, c colors.Color, alpha float64) {
	r.use(batchSolid)
	r.rim = tessellate.Circle(r.rim[:0], center, radiusPx)
	r.tris = tessellate.Triangles(r.tris[:0], r.rim)
	r.appendSolid(r.tris, c, alpha)
}

// DrawText draws one line of text with its baseline at baseline.
func (r *Renderer) DrawText(baseline math.Vec2, text string, c colors.Color, alpha float64) {
	r.use(batchText)

	a := float32(float64(c.A) * alpha)
	x := float32(baseline.X)
	y := float32(baseline.Y) - float32(r.atlas.Ascent)
	w, h := float32(r.atlas.CellW), float32(r.atlas.CellH)

	for _, ch := range text {
		if ch != ' ' {
			u0, v0, u1, v1 := r.atlas.UV(ch)
			r.textVertices = append(r.textVertices,
				x, y, u0, v0, c.R, c.G, c.B, a,
				x+w, y, u1, v0, c.R, c.G, c.B, a,
				x+w, y+h, u1, v1, c.R, c.G, c.B, a,
				x, y, u0, v0, c.R, c.G, c.B, a,
				x+w, y+h, u1, v1, c.R, c.G, c.B, a,
				x, y+h, u0, v1, c.R, c.G, c.B, a,
			)
		}
		x += w
	}
}

func (r *Renderer) appendSolid(tris []math.Vec2, c colors.Color, alpha float64) {
	a := float32(float64(c.A) * alpha)
	for _, p := range tris {
		r.solidVertices = append(r.solidVertices, float32(p.X), float32(p.Y), c.R, c.G, c.B, a)
	}
}

// use switches the active batch, flushing the other one first.
func (r *Renderer) use(b batch) {
	if r.pending != b {
		r.flush()
		r.pending = b
	}
}

func (r *Renderer) flush() {
	switch r.pending {
	case batchSolid:
		if len(r.solidVertices) > 0 {
			r.solid.Use()
			gl.UniformMatrix4fv(r.solid.Uniform("uProjection"), 1, false, &r.proj[0])
			draw(r.solidVAO, r.solidVBO, r.solidVertices, solidStride)
		}
		r.solidVertices = r.solidVertices[:0]

	case batchText:
		if len(r.textVertices) > 0 {
			r.text.Use()
			gl.UniformMatrix4fv(r.text.Uniform("uProjection"), 1, false, &r.proj[0])
			gl.Uniform1i(r.text.Uniform("uTexture"), 0)
			gl.ActiveTexture(gl.TEXTURE0)
			gl.BindTexture(gl.TEXTURE_2D, r.atlasTex)
			draw(r.textVAO, r.textVBO, r.textVertices, textStride)
			gl.BindTexture(gl.TEXTURE_2D, 0)
		}
		r.textVertices = r.textVertices[:0]
	}
	r.pending = batchNone
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

func draw(vao, vbo uint32, vertices []float32, stride int) {
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STREAM_DRAW)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(vertices)/stride))
}

// newBuffers creates a VAO/VBO pair whose float attributes have the given
// component counts, bound to locations 0, 1, 2...
func newBuffers(stride int, components []int32) (vao, vbo uint32) {
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)

	offset := 0
	for loc, n := range components {
		gl.VertexAttribPointerWithOffset(uint32(loc), n, gl.FLOAT, false, int32(stride*4), uintptr(offset*4))
		gl.EnableVertexAttribArray(uint32(loc))
		offset += int(n)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return vao, vbo
}

func uploadAtlas(a *glyphs.Atlas) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)

	b := a.Image.Bounds()
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R8, int32(b.Dx()), int32(b.Dy()), 0,
		gl.RED, gl.UNSIGNED_BYTE, unsafe.Pointer(&a.Image.Pix[0]))

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}

// ortho returns a column-major orthographic projection with z in [-1, 1].
func ortho(left, right, bottom, top float32) [16]float32 {
	return [16]float32{
		2 / (right - left), 0, 0, 0,
		0, 2 / (top - bottom), 0, 0,
		0, 0, -1, 0,
		-(right + left) / (right - left), -(top + bottom) / (top - bottom), 0, 1,
	}
}
