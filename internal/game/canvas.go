package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// canvas is an offscreen image the field draws into during Update. Draw
// copies it onto the screen.
type canvas struct {
	img *ebiten.Image
}

func (c *canvas) SetSize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	if c.img != nil {
		if b := c.img.Bounds(); b.Dx() == w && b.Dy() == h {
			c.img.Clear()
			return
		}
		c.img.Deallocate()
	}
	c.img = ebiten.NewImage(w, h)
}

func (c *canvas) Clear() {
	if c.img != nil {
		c.img.Clear()
	}
}

func (c *canvas) FillCircle(x, y, r float64, clr color.Color) {
	if c.img == nil {
		return
	}
	vector.DrawFilledCircle(c.img, float32(x), float32(y), float32(r), clr, true)
}

func (c *canvas) StrokeLine(x0, y0, x1, y1, width float64, clr color.Color) {
	if c.img == nil {
		return
	}
	vector.StrokeLine(c.img, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), clr, true)
}

// layoutViewport remembers the last size ebiten handed to Layout.
type layoutViewport struct {
	w, h int
}

func (v *layoutViewport) Size() (int, int) { return v.w, v.h }

// set stores a new size and reports whether it changed.
func (v *layoutViewport) set(w, h int) bool {
	if w <= 0 || h <= 0 || (w == v.w && h == v.h) {
		return false
	}
	v.w, v.h = w, h
	return true
}

func (v *layoutViewport) known() bool { return v.w > 0 && v.h > 0 }
