package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/tartampluch/go-analogclock/internal/config"
)

// Recorder observes engine activity. A nil Recorder in Options disables observation.
type Recorder interface {
	Tick()
	RedrawRequested()
	ZoneChanged(fallback bool)
	LayoutComputed(scale float64)
	FrameRendered()
}

type nopRecorder struct{}

func (nopRecorder) Tick()                  {}
func (nopRecorder) RedrawRequested()       {}
func (nopRecorder) ZoneChanged(bool)       {}
func (nopRecorder) LayoutComputed(float64) {}
func (nopRecorder) FrameRendered()         {}

// Options configures an AnalogClock. The zero value is usable.
type Options struct {
	// Clock is the time source and timer facility. Defaults to the real clock.
	Clock Clock

	// Location is the zone used until a timezone change event arrives. Defaults to time.Local.
	Location *time.Location

	// Interval between ticks. Defaults to config.TickInterval.
	Interval time.Duration

	// Redraw asks the host to repaint. It must not block and must not call Start or Stop.
	Redraw func()

	Recorder Recorder
}

// AnalogClock ties the sampler, angle model, layout cache and scheduler together.
// It is the surface the host talks to: Start, Stop, OnViewportResized,
// OnTimezoneChanged, Render and Description.
type AnalogClock struct {
	assets  AssetSet
	sampler *Sampler
	sched   *Scheduler
	redraw  func()
	rec     Recorder

	mu       sync.Mutex
	zone     *time.Location
	sample   TimeSample
	angles   AngleSet
	viewW    float64
	viewH    float64
	dirty    bool
	geometry Geometry

	// renderMu serializes frames; bounds is only touched while holding it.
	renderMu sync.Mutex
	bounds   BoundsCache
}

// New builds a stopped clock drawing assets. It fails with ErrAssetUnavailable when
// any of the four graphics is missing.
func New(assets AssetSet, opts Options) (*AnalogClock, error) {
	if err := assets.Validate(); err != nil {
		return nil, err
	}

	c := &AnalogClock{
		assets:  assets,
		sampler: NewSampler(opts.Clock, opts.Location),
		redraw:  opts.Redraw,
		rec:     opts.Recorder,
		dirty:   true,
	}
	if c.rec == nil {
		c.rec = nopRecorder{}
	}
	c.sched = NewScheduler(opts.Clock, opts.Interval, c.tick)
	c.refresh()
	return c, nil
}

// Start begins ticking. The first sample and redraw request happen before it returns.
func (c *AnalogClock) Start() {
	c.sched.Start()
}

// Stop halts ticking. No redraw request is issued after it returns.
func (c *AnalogClock) Stop() {
	c.sched.Stop()
}

// Running reports whether the scheduler is running.
func (c *AnalogClock) Running() bool {
	return c.sched.State() == Running
}

// OnViewportResized records the host viewport size. Geometry and bounds are
// recomputed on the next frame only when the size actually changed.
func (c *AnalogClock) OnViewportResized(width, height float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if width == c.viewW && height == c.viewH {
		return
	}
	c.viewW, c.viewH = width, height
	c.dirty = true
}

// OnTimezoneChanged switches the clock to zone id and redraws immediately when
// running, without touching the tick phase. Unknown or empty ids fall back to UTC.
func (c *AnalogClock) OnTimezoneChanged(id string) {
	loc, err := LoadZone(id)
	fallback := err != nil
	if fallback {
		slog.Warn(config.MsgZoneFallback,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyZone, id,
			config.LogKeyFallback, config.FallbackZone,
			config.LogKeyError, err,
		)
	} else {
		slog.Info(config.MsgZoneChanged,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyZone, loc.String(),
		)
	}
	c.rec.ZoneChanged(fallback)

	c.mu.Lock()
	c.zone = loc
	c.mu.Unlock()

	c.Sync()
}

// Sync re-samples the wall clock and redraws immediately when running.
// Hosts call it when the system time is set.
func (c *AnalogClock) Sync() {
	c.refresh()
	c.sched.IfRunning(c.requestRedraw)
}

// Render paints the latest angles on s. It reports whether a frame was drawn:
// a degenerate viewport skips the frame.
func (c *AnalogClock) Render(s Surface) bool {
	c.renderMu.Lock()
	defer c.renderMu.Unlock()

	// The dirty flag is consumed before drawing: a resize arriving mid-frame
	// lands on the next frame.
	c.mu.Lock()
	dirty := c.dirty
	c.dirty = false
	if dirty {
		dialW, dialH := c.assets.Dial.IntrinsicSize()
		c.geometry = Layout(c.viewW, c.viewH, dialW, dialH)
		c.rec.LayoutComputed(c.geometry.Scale)
		slog.Debug(config.MsgLayoutComputed,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyWidth, c.geometry.Width,
			config.LogKeyHeight, c.geometry.Height,
			config.LogKeyScale, c.geometry.Scale,
		)
	}
	frame := Frame{
		Assets:   c.assets,
		Angles:   c.angles,
		Geometry: c.geometry,
		Bounds:   &c.bounds,
		Dirty:    dirty,
	}
	c.mu.Unlock()

	if !Render(s, frame) {
		slog.Debug(config.MsgViewportSkipped,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyError, frame.Geometry.Validate(),
		)
		return false
	}
	c.rec.FrameRendered()
	return true
}

// Description returns the latest sample as a 24-hour HH:MM string.
func (c *AnalogClock) Description() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sample.String()
}

// Sample returns the latest time sample.
func (c *AnalogClock) Sample() TimeSample {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sample
}

// Angles returns the latest hand angles.
func (c *AnalogClock) Angles() AngleSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.angles
}

// Geometry returns the geometry of the last frame.
func (c *AnalogClock) Geometry() Geometry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.geometry
}

// Zone returns the identifier of the zone the clock is currently showing.
func (c *AnalogClock) Zone() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sample.Zone
}

// IntrinsicSize is the natural size of the face: the dial's intrinsic size.
func (c *AnalogClock) IntrinsicSize() (width, height float64) {
	return c.assets.Dial.IntrinsicSize()
}

// tick runs under the scheduler lock.
func (c *AnalogClock) tick() {
	c.rec.Tick()
	c.refresh()
	c.requestRedraw()
}

func (c *AnalogClock) refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sample = c.sampler.SampleIn(c.zone)
	c.angles = ComputeAngles(c.sample)
}

func (c *AnalogClock) requestRedraw() {
	c.rec.RedrawRequested()
	if c.redraw != nil {
		c.redraw()
	}
}
