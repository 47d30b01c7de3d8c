package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// fakeAsset is a named graphic with a fixed intrinsic size.
type fakeAsset struct {
	name string
	w, h float64
}

func (a fakeAsset) IntrinsicSize() (float64, float64) { return a.w, a.h }

// testAssets mirrors the proportions of the bundled theme: a 76x86 dial and
// three hands sharing the dial height.
func testAssets() AssetSet {
	return AssetSet{
		Dial:       fakeAsset{name: "dial", w: 76, h: 86},
		HourHand:   fakeAsset{name: "hour", w: 8, h: 86},
		MinuteHand: fakeAsset{name: "minute", w: 6, h: 86},
		SecondHand: fakeAsset{name: "second", w: 2, h: 86},
	}
}

// recordingSurface captures every call as a readable op string.
type recordingSurface struct {
	mu    sync.Mutex
	ops   []string
	draws []Bounds
}

func (r *recordingSurface) record(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, fmt.Sprintf(format, args...))
}

func (r *recordingSurface) Save()    { r.record("save") }
func (r *recordingSurface) Restore() { r.record("restore") }

func (r *recordingSurface) Scale(factor, px, py float64) {
	r.record("scale %.2f @%.1f,%.1f", factor, px, py)
}

func (r *recordingSurface) Rotate(degrees, px, py float64) {
	r.record("rotate %.1f @%.1f,%.1f", degrees, px, py)
}

func (r *recordingSurface) DrawAsset(a Asset, dst Bounds) {
	name := "?"
	if fa, ok := a.(fakeAsset); ok {
		name = fa.name
	}
	r.record("draw %s", name)
	r.mu.Lock()
	r.draws = append(r.draws, dst)
	r.mu.Unlock()
}

func (r *recordingSurface) Ops() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ops...)
}

// recorderCounts is a point-in-time copy of a countingRecorder.
type recorderCounts struct {
	ticks     int
	redraws   int
	zones     int
	fallbacks int
	layouts   []float64
	frames    int
}

// countingRecorder is a Recorder keeping plain counters.
type countingRecorder struct {
	mu sync.Mutex
	c  recorderCounts
}

func (r *countingRecorder) Tick()            { r.mu.Lock(); r.c.ticks++; r.mu.Unlock() }
func (r *countingRecorder) RedrawRequested() { r.mu.Lock(); r.c.redraws++; r.mu.Unlock() }
func (r *countingRecorder) FrameRendered()   { r.mu.Lock(); r.c.frames++; r.mu.Unlock() }

func (r *countingRecorder) ZoneChanged(fallback bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.c.zones++
	if fallback {
		r.c.fallbacks++
	}
}

func (r *countingRecorder) LayoutComputed(scale float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.c.layouts = append(r.c.layouts, scale)
}

func (r *countingRecorder) counts() recorderCounts {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.c
	c.layouts = append([]float64(nil), r.c.layouts...)
	return c
}

// referenceTime is 2024-01-15 10:30:00 UTC.
var referenceTime = time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC)

func newFakeClock() *clockwork.FakeClock {
	return clockwork.NewFakeClockAt(referenceTime)
}
