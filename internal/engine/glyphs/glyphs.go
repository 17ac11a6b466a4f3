// Package glyphs rasterizes a fixed-width bitmap font into a single alpha
// atlas for label rendering.
package glyphs

import (
	"image"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	firstRune = ' '
	lastRune  = '~'
	columns   = 16
	fallback  = '?'
)

// Atlas is a grid of printable ASCII glyphs.
type Atlas struct {
	Image *image.Alpha

	// CellW and CellH are the glyph cell size in pixels; every glyph
	// advances by CellW.
	CellW, CellH int
	// Ascent is the distance from the cell top to the baseline.
	Ascent int
}

// New rasterizes the 7x13 basic font.
func New() *Atlas {
	face := basicfont.Face7x13
	m := face.Metrics()

	a := &Atlas{
		CellW:  face.Advance,
		CellH:  face.Height,
		Ascent: m.Ascent.Ceil(),
	}

	count := int(lastRune-firstRune) + 1
	rows := (count + columns - 1) / columns
	a.Image = image.NewAlpha(image.Rect(0, 0, columns*a.CellW, rows*a.CellH))

	d := font.Drawer{Dst: a.Image, Src: image.Opaque, Face: face}
	for r := firstRune; r <= lastRune; r++ {
		cell := a.Cell(r)
		d.Dot = fixed.P(cell.Min.X, cell.Min.Y+a.Ascent)
		d.DrawString(string(r))
	}
	return a
}

// Cell returns the atlas rectangle for r. Runes outside printable ASCII map
// to '?'.
func (a *Atlas) Cell(r rune) image.Rectangle {
	if r < firstRune || r > lastRune {
		r = fallback
	}
	i := int(r - firstRune)
	x, y := (i%columns)*a.CellW, (i/columns)*a.CellH
	return image.Rect(x, y, x+a.CellW, y+a.CellH)
}

// UV returns the normalized texture coordinates of r's cell, top-left first.
func (a *Atlas) UV(r rune) (u0, v0, u1, v1 float32) {
	c := a.Cell(r)
	w, h := float32(a.Image.Rect.Dx()), float32(a.Image.Rect.Dy())
	return float32(c.Min.X) / w, float32(c.Min.Y) / h, float32(c.Max.X) / w, float32(c.Max.Y) / h
}

// Measure returns the pixel width of s on one line.
func (a *Atlas) Measure(s string) int {
	return utf8.RuneCountInString(s) * a.CellW
}
