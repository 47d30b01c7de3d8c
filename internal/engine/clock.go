package engine

import "github.com/jonboulle/clockwork"

// Clock abstracts time.Now() and the timer facility to allow deterministic testing.
// It is used by the Sampler to read the wall clock and by the Scheduler to arm ticks.
type Clock = clockwork.Clock

// RealClock returns a Clock backed by the standard time package.
func RealClock() Clock {
	return clockwork.NewRealClock()
}
