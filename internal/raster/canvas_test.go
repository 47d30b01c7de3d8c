package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/f64"

	"github.com/tartampluch/go-analogclock/internal/engine"
)

// solidAsset is an opaque single-color graphic.
type solidAsset struct {
	img *image.RGBA
}

func newSolid(w, h int, col color.RGBA) solidAsset {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, col)
		}
	}
	return solidAsset{img: img}
}

func (a solidAsset) IntrinsicSize() (float64, float64) {
	b := a.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func (a solidAsset) Image() image.Image { return a.img }

// sizeOnly has no pixels.
type sizeOnly struct{}

func (sizeOnly) IntrinsicSize() (float64, float64) { return 10, 10 }

var red = color.RGBA{R: 255, A: 255}

// assertReddish tolerates bilinear rounding on opaque red pixels.
func assertReddish(t *testing.T, px color.RGBA) {
	t.Helper()
	assert.Greater(t, px.R, uint8(200))
	assert.Less(t, px.B, uint8(50))
	assert.Greater(t, px.A, uint8(200))
}

func alphaAt(c *Canvas, x, y int) uint8 {
	return c.Image().RGBAAt(x, y).A
}

// TestCanvas_DrawAsset verifies placement without transforms.
func TestCanvas_DrawAsset(t *testing.T) {
	c := New(20, 20)
	c.DrawAsset(newSolid(10, 10, red), engine.Bounds{Left: 5, Top: 5, Right: 15, Bottom: 15})

	assertReddish(t, c.Image().RGBAAt(10, 10))
	assert.Zero(t, alphaAt(c, 1, 1))
	assert.Zero(t, alphaAt(c, 18, 18))
}

// TestCanvas_DrawAssetStretches verifies the asset fills the destination bounds.
func TestCanvas_DrawAssetStretches(t *testing.T) {
	c := New(40, 40)
	c.DrawAsset(newSolid(2, 2, red), engine.Bounds{Left: 0, Top: 0, Right: 40, Bottom: 20})

	assert.Greater(t, alphaAt(c, 20, 10), uint8(200))
	assert.Greater(t, alphaAt(c, 35, 5), uint8(200))
	assert.Zero(t, alphaAt(c, 20, 30))
}

// TestCanvas_Rotate turns a bar pointing at 12 o'clock to 3 o'clock.
func TestCanvas_Rotate(t *testing.T) {
	c := New(20, 20)
	bar := newSolid(2, 10, red)

	c.Save()
	c.Rotate(90, 10, 10)
	c.DrawAsset(bar, engine.Bounds{Left: 9, Top: 0, Right: 11, Bottom: 10})
	c.Restore()

	assert.Greater(t, alphaAt(c, 15, 10), uint8(200), "bar must point right")
	assert.Zero(t, alphaAt(c, 10, 4), "nothing left above the center")
	assert.Zero(t, alphaAt(c, 4, 10), "clockwise, not counter-clockwise")
	assert.Equal(t, identity, c.Transform())
}

// TestCanvas_Scale shrinks a full-size asset around the center.
func TestCanvas_Scale(t *testing.T) {
	c := New(20, 20)

	c.Save()
	c.Scale(0.5, 10, 10)
	c.DrawAsset(newSolid(20, 20, red), engine.Bounds{Left: 0, Top: 0, Right: 20, Bottom: 20})
	c.Restore()

	assert.Greater(t, alphaAt(c, 10, 10), uint8(200))
	assert.Zero(t, alphaAt(c, 2, 2))
	assert.Zero(t, alphaAt(c, 17, 17))
}

// TestCanvas_SaveRestore checks transform stacking and unbalanced restores.
func TestCanvas_SaveRestore(t *testing.T) {
	c := New(10, 10)
	c.Restore()
	assert.Equal(t, identity, c.Transform())

	c.Save()
	c.Scale(2, 0, 0)
	scaled := c.Transform()
	c.Save()
	c.Rotate(45, 5, 5)
	assert.Equal(t, 2, c.Depth())
	assert.NotEqual(t, scaled, c.Transform())

	c.Restore()
	assert.Equal(t, scaled, c.Transform())
	c.Restore()
	assert.Equal(t, identity, c.Transform())
	assert.Zero(t, c.Depth())
}

// TestCanvas_SkipsAssetsWithoutPixels ensures foreign assets are ignored.
func TestCanvas_SkipsAssetsWithoutPixels(t *testing.T) {
	c := New(10, 10)
	c.DrawAsset(sizeOnly{}, engine.Bounds{Right: 10, Bottom: 10})
	c.DrawAsset(newSolid(4, 4, red), engine.Bounds{Left: 5, Top: 5, Right: 5, Bottom: 9})

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			require.Zero(t, alphaAt(c, x, y))
		}
	}
}

func TestCanvas_Fill(t *testing.T) {
	c := New(4, 4)
	c.Scale(0.1, 0, 0)
	c.Fill(color.White)
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, c.Image().RGBAAt(3, 3))
}

func TestMul(t *testing.T) {
	a := translate(3, 4)
	b := f64.Aff3{2, 0, 0, 0, 2, 0}
	// Scale first, then translate.
	assert.Equal(t, f64.Aff3{2, 0, 3, 0, 2, 4}, mul(a, b))
	assert.Equal(t, a, mul(a, identity))
	assert.Equal(t, a, mul(identity, a))
}

// TestCanvas_RendersClock runs a full engine frame on the canvas.
func TestCanvas_RendersClock(t *testing.T) {
	c := New(76, 86)
	frame := engine.Frame{
		Assets: engine.AssetSet{
			Dial:       newSolid(76, 86, color.RGBA{B: 255, A: 255}),
			HourHand:   newSolid(8, 86, red),
			MinuteHand: newSolid(6, 86, red),
			SecondHand: newSolid(2, 86, red),
		},
		Angles:   engine.AngleSet{Hour: 90, Minute: 180, Second: 270},
		Geometry: engine.Layout(76, 86, 76, 86),
		Bounds:   &engine.BoundsCache{},
		Dirty:    true,
	}

	require.True(t, engine.Render(c, frame))
	assert.Zero(t, c.Depth())
	assertReddish(t, c.Image().RGBAAt(38, 43))

	dial := c.Image().RGBAAt(2, 2)
	assert.Greater(t, dial.B, uint8(200))
	assert.Less(t, dial.R, uint8(50))
}
