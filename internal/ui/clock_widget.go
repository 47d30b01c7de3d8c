package ui

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/tartampluch/go-analogclock/internal/engine"
	"github.com/tartampluch/go-analogclock/internal/raster"
)

// FrameSink receives every painted frame together with its 24-hour description.
type FrameSink func(img image.Image, description string)

// ClockWidget hosts an engine.AnalogClock inside a Fyne canvas.Raster.
// The raster generator is the host draw callback: it reports the viewport to the
// engine and lets it paint on a raster.Canvas.
type ClockWidget struct {
	widget.BaseWidget

	clock  *engine.AnalogClock
	raster *canvas.Raster

	mu   sync.Mutex
	sink FrameSink
}

// NewClockWidget wraps clock. The caller wires the engine redraw request to Refresh.
func NewClockWidget(clock *engine.AnalogClock) *ClockWidget {
	w := &ClockWidget{clock: clock}
	w.raster = canvas.NewRaster(w.draw)
	w.ExtendBaseWidget(w)
	return w
}

// SetFrameSink installs fn to receive painted frames. nil removes it.
func (w *ClockWidget) SetFrameSink(fn FrameSink) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sink = fn
}

// CreateRenderer implements fyne.Widget.
func (w *ClockWidget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(w.raster)
}

// MinSize is the intrinsic size of the dial.
func (w *ClockWidget) MinSize() fyne.Size {
	dw, dh := w.clock.IntrinsicSize()
	return fyne.NewSize(float32(dw), float32(dh))
}

// draw is the canvas.Raster generator. Width and height are in device pixels;
// the engine works in logical units and the pixel ratio is applied as a base scale.
func (w *ClockWidget) draw(pw, ph int) image.Image {
	c := raster.New(pw, ph)

	ratio := 1.0
	if size := w.Size(); size.Width > 0 && pw > 0 {
		ratio = float64(pw) / float64(size.Width)
	}

	w.clock.OnViewportResized(float64(pw)/ratio, float64(ph)/ratio)

	c.Save()
	c.Scale(ratio, 0, 0)
	drawn := w.clock.Render(c)
	c.Restore()

	if drawn {
		w.mu.Lock()
		sink := w.sink
		w.mu.Unlock()
		if sink != nil {
			sink(c.Image(), w.clock.Description())
		}
	}
	return c.Image()
}
