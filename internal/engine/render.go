package engine

import "github.com/tartampluch/go-analogclock/internal/config"

// Asset is an opaque graphic owned by the host. The core only needs its natural size.
type Asset interface {
	IntrinsicSize() (width, height float64)
}

// Surface is the drawing target of a frame.
// Save and Restore bracket transform state; transforms compose with the current state.
type Surface interface {
	Save()
	Restore()

	// Scale applies a uniform scale pivoted at (px, py).
	Scale(factor, px, py float64)

	// Rotate applies a clockwise rotation in degrees pivoted at (px, py).
	Rotate(degrees, px, py float64)

	// DrawAsset draws asset stretched into dst under the current transform.
	DrawAsset(asset Asset, dst Bounds)
}

// Part identifies one of the four graphics of the clock face.
type Part int

const (
	PartDial Part = iota
	PartHourHand
	PartMinuteHand
	PartSecondHand

	partCount
)

// Parts lists every part in draw order.
var Parts = [partCount]Part{PartDial, PartHourHand, PartMinuteHand, PartSecondHand}

// String returns the asset name of the part.
func (p Part) String() string {
	switch p {
	case PartDial:
		return config.AssetDial
	case PartHourHand:
		return config.AssetHourHand
	case PartMinuteHand:
		return config.AssetMinuteHand
	case PartSecondHand:
		return config.AssetSecondHand
	default:
		return "unknown"
	}
}

// AssetSet holds the four graphics of a clock face.
type AssetSet struct {
	Dial       Asset
	HourHand   Asset
	MinuteHand Asset
	SecondHand Asset
}

// Get returns the asset for part p.
func (a AssetSet) Get(p Part) Asset {
	switch p {
	case PartDial:
		return a.Dial
	case PartHourHand:
		return a.HourHand
	case PartMinuteHand:
		return a.MinuteHand
	case PartSecondHand:
		return a.SecondHand
	default:
		return nil
	}
}

// BoundsCache keeps the last computed bounds of every part, reused across frames
// until the viewport changes.
type BoundsCache struct {
	entries [partCount]Bounds
	valid   bool
}

// Recompute refreshes every entry from the intrinsic sizes of assets and g.
func (c *BoundsCache) Recompute(assets AssetSet, g Geometry) {
	for _, p := range Parts {
		w, h := assets.Get(p).IntrinsicSize()
		c.entries[p] = BoundsFor(w, h, g)
	}
	c.valid = true
}

// Get returns the cached bounds of p.
func (c *BoundsCache) Get(p Part) Bounds {
	return c.entries[p]
}

// Valid reports whether Recompute ran at least once.
func (c *BoundsCache) Valid() bool {
	return c.valid
}

// Frame is everything needed to paint the clock once.
type Frame struct {
	Assets   AssetSet
	Angles   AngleSet
	Geometry Geometry
	Bounds   *BoundsCache

	// Dirty requests a bounds recompute before drawing.
	Dirty bool
}

// Render paints f on s: dial first, then the hour, minute and second hands, each
// under its own rotation. A shrink scale, when needed, wraps the whole sequence.
// It reports whether anything was drawn; a degenerate viewport draws nothing and
// leaves the cache untouched.
func Render(s Surface, f Frame) bool {
	g := f.Geometry
	if g.Validate() != nil {
		return false
	}

	if f.Dirty || !f.Bounds.Valid() {
		f.Bounds.Recompute(f.Assets, g)
	}

	scaled := g.Scaled()
	if scaled {
		s.Save()
		s.Scale(g.Scale, g.CenterX, g.CenterY)
	}

	s.DrawAsset(f.Assets.Dial, f.Bounds.Get(PartDial))

	hands := [...]struct {
		part  Part
		angle float64
	}{
		{PartHourHand, f.Angles.Hour},
		{PartMinuteHand, f.Angles.Minute},
		{PartSecondHand, f.Angles.Second},
	}
	for _, h := range hands {
		s.Save()
		s.Rotate(h.angle, g.CenterX, g.CenterY)
		s.DrawAsset(f.Assets.Get(h.part), f.Bounds.Get(h.part))
		s.Restore()
	}

	if scaled {
		s.Restore()
	}
	return true
}
