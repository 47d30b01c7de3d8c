package engine

import (
	"fmt"
	"math"
)

// Geometry describes where the clock face sits inside the viewport.
type Geometry struct {
	Width   float64
	Height  float64
	CenterX float64
	CenterY float64

	// Scale is the uniform shrink factor applied around the center. It never exceeds 1.
	Scale float64
}

// Validate reports ErrDegenerateViewport when there is nothing to draw into.
func (g Geometry) Validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("%w: %gx%g", ErrDegenerateViewport, g.Width, g.Height)
	}
	return nil
}

// Scaled reports whether the face must be shrunk to fit.
func (g Geometry) Scaled() bool {
	return g.Scale < 1
}

// Layout centers a dial of intrinsic size dialW x dialH inside a viewportW x viewportH
// viewport. The face is shrunk uniformly when the viewport is smaller than the dial in
// either dimension and is never enlarged. A degenerate viewport or dial yields a scale of 1.
func Layout(viewportW, viewportH, dialW, dialH float64) Geometry {
	g := Geometry{
		Width:   viewportW,
		Height:  viewportH,
		CenterX: viewportW / 2,
		CenterY: viewportH / 2,
		Scale:   1,
	}

	if viewportW <= 0 || viewportH <= 0 || dialW <= 0 || dialH <= 0 {
		return g
	}

	if viewportW < dialW || viewportH < dialH {
		g.Scale = math.Min(viewportW/dialW, viewportH/dialH)
	}
	return g
}

// Bounds is an axis-aligned rectangle in viewport coordinates.
type Bounds struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// Width returns the horizontal extent of b.
func (b Bounds) Width() float64 { return b.Right - b.Left }

// Height returns the vertical extent of b.
func (b Bounds) Height() float64 { return b.Bottom - b.Top }

// BoundsFor centers an asset of intrinsic size assetW x assetH on the geometry center.
// The result ignores g.Scale: scaling is a surface transform applied at render time.
func BoundsFor(assetW, assetH float64, g Geometry) Bounds {
	halfW, halfH := assetW/2, assetH/2
	return Bounds{
		Left:   g.CenterX - halfW,
		Top:    g.CenterY - halfH,
		Right:  g.CenterX + halfW,
		Bottom: g.CenterY + halfH,
	}
}
