// Package raster implements the engine drawing surface on an in-memory RGBA image.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/tartampluch/go-analogclock/internal/config"
	"github.com/tartampluch/go-analogclock/internal/engine"
)

// Imager is implemented by assets that can hand out pixels.
type Imager interface {
	Image() image.Image
}

// identity is the neutral affine transform.
var identity = f64.Aff3{1, 0, 0, 0, 1, 0}

// Canvas is an engine.Surface backed by an *image.RGBA.
// Transforms are 2x3 affine matrices composed the way a 2D canvas does:
// each new transform applies to local coordinates before the current one.
// A Canvas is not safe for concurrent use.
type Canvas struct {
	dst   *image.RGBA
	cur   f64.Aff3
	stack []f64.Aff3
}

// New allocates a transparent width x height canvas.
func New(width, height int) *Canvas {
	return NewFor(image.NewRGBA(image.Rect(0, 0, width, height)))
}

// NewFor wraps an existing image.
func NewFor(dst *image.RGBA) *Canvas {
	return &Canvas{dst: dst, cur: identity}
}

// Image returns the backing image.
func (c *Canvas) Image() *image.RGBA {
	return c.dst
}

// Fill paints every pixel with col, ignoring the current transform.
func (c *Canvas) Fill(col color.Color) {
	xdraw.Draw(c.dst, c.dst.Bounds(), image.NewUniform(col), image.Point{}, xdraw.Src)
}

// Save pushes the current transform.
func (c *Canvas) Save() {
	c.stack = append(c.stack, c.cur)
}

// Restore pops the last saved transform. Unbalanced calls are ignored.
func (c *Canvas) Restore() {
	n := len(c.stack)
	if n == 0 {
		return
	}
	c.cur = c.stack[n-1]
	c.stack = c.stack[:n-1]
}

// Scale applies a uniform scale pivoted at (px, py).
func (c *Canvas) Scale(factor, px, py float64) {
	c.aroundPivot(f64.Aff3{factor, 0, 0, 0, factor, 0}, px, py)
}

// Rotate applies a clockwise rotation pivoted at (px, py). The y axis points down,
// so the usual counter-clockwise matrix turns clockwise on screen.
func (c *Canvas) Rotate(degrees, px, py float64) {
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	c.aroundPivot(f64.Aff3{cos, -sin, 0, sin, cos, 0}, px, py)
}

// DrawAsset draws asset stretched into dst under the current transform.
// Assets without pixels are skipped.
func (c *Canvas) DrawAsset(asset engine.Asset, dst engine.Bounds) {
	im, ok := asset.(Imager)
	if !ok || im.Image() == nil {
		slog.Debug(config.MsgAssetSkipped,
			config.LogKeyComponent, config.CompRaster,
			config.LogKeyAsset, fmt.Sprintf("%T", asset),
			config.LogKeyError, config.ErrAssetNoImage,
		)
		return
	}
	src := im.Image()
	sr := src.Bounds()
	if sr.Empty() || dst.Width() <= 0 || dst.Height() <= 0 {
		return
	}

	sx := dst.Width() / float64(sr.Dx())
	sy := dst.Height() / float64(sr.Dy())

	s2d := c.cur
	s2d = mul(s2d, translate(dst.Left, dst.Top))
	s2d = mul(s2d, f64.Aff3{sx, 0, 0, 0, sy, 0})
	s2d = mul(s2d, translate(-float64(sr.Min.X), -float64(sr.Min.Y)))

	xdraw.BiLinear.Transform(c.dst, s2d, src, sr, xdraw.Over, nil)
}

// Transform returns the current transform.
func (c *Canvas) Transform() f64.Aff3 {
	return c.cur
}

// Depth returns the number of saved transforms.
func (c *Canvas) Depth() int {
	return len(c.stack)
}

func (c *Canvas) aroundPivot(m f64.Aff3, px, py float64) {
	c.cur = mul(c.cur, translate(px, py))
	c.cur = mul(c.cur, m)
	c.cur = mul(c.cur, translate(-px, -py))
}

func translate(tx, ty float64) f64.Aff3 {
	return f64.Aff3{1, 0, tx, 0, 1, ty}
}

// mul returns a*b: b is applied first.
func mul(a, b f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		a[0]*b[0] + a[1]*b[3],
		a[0]*b[1] + a[1]*b[4],
		a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3],
		a[3]*b[1] + a[4]*b[4],
		a[3]*b[2] + a[4]*b[5] + a[5],
	}
}

var _ engine.Surface = (*Canvas)(nil)
