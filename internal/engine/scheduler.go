package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/tartampluch/go-analogclock/internal/config"
)

// State is the lifecycle state of a Scheduler.
type State int

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// Scheduler runs a tick function once on Start and then every interval, each fire
// re-arming the next one interval after itself (fixed delay, no drift compensation).
//
// The tick runs with the scheduler lock held, so once Stop returns no tick is in
// flight and none will follow. The tick must not call Start or Stop.
type Scheduler struct {
	clock    Clock
	interval time.Duration
	tick     func()

	mu    sync.Mutex
	state State
	timer clockwork.Timer
	// gen invalidates timers armed before the last Stop.
	gen uint64
}

// NewScheduler creates a stopped Scheduler. A nil clock uses the real clock and a
// non-positive interval uses config.TickInterval.
func NewScheduler(clock Clock, interval time.Duration, tick func()) *Scheduler {
	if clock == nil {
		clock = RealClock()
	}
	if interval <= 0 {
		interval = config.TickInterval
	}
	if tick == nil {
		tick = func() {}
	}
	return &Scheduler{clock: clock, interval: interval, tick: tick}
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start ticks once synchronously and arms the recurring timer. No-op when running.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Running {
		return
	}
	s.state = Running
	s.gen++

	slog.Info(config.MsgSchedulerStart,
		config.LogKeyComponent, config.CompScheduler,
		config.LogKeyInterval, s.interval,
	)

	s.tick()
	s.arm(s.gen)
}

// Stop cancels the pending timer. No-op when stopped.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Stopped {
		return
	}
	s.state = Stopped
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	slog.Info(config.MsgSchedulerStop, config.LogKeyComponent, config.CompScheduler)
}

// IfRunning calls fn under the scheduler lock when the scheduler is running and
// reports whether it did. It lets out-of-band events share the stop guarantee.
func (s *Scheduler) IfRunning(fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Running {
		return false
	}
	fn()
	return true
}

// arm must be called with mu held.
func (s *Scheduler) arm(gen uint64) {
	s.timer = s.clock.AfterFunc(s.interval, func() { s.fire(gen) })
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A timer that raced past Stop, or belongs to an earlier Start, is dropped.
	if s.state != Running || gen != s.gen {
		return
	}
	s.tick()
	s.arm(gen)
}
