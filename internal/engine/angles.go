package engine

import (
	"math"

	"github.com/tartampluch/go-analogclock/internal/config"
)

// AngleSet holds the rotation of each hand in degrees, clockwise from 12 o'clock.
// Every angle lies in [0, 360).
type AngleSet struct {
	Hour   float64
	Minute float64
	Second float64
}

// ComputeAngles converts a sample into hand rotations.
//
// The minute hand folds in the fractional second and the hour hand folds in the
// fractional minute, so both creep continuously instead of jumping once per unit.
func ComputeAngles(s TimeSample) AngleSet {
	minutes := float64(s.Minute) + float64(s.Second)/config.SecondsPerMinute
	minuteAngle := minutes / config.MinutesPerHour * config.DegreesPerTurn

	hours := float64(s.Hour) + minuteAngle/config.DegreesPerTurn
	hourAngle := hours / config.HoursPerTurn * config.DegreesPerTurn

	secondAngle := float64(s.Second) / config.SecondsPerMinute * config.DegreesPerTurn

	return AngleSet{
		Hour:   normalizeDegrees(hourAngle),
		Minute: normalizeDegrees(minuteAngle),
		Second: normalizeDegrees(secondAngle),
	}
}

// normalizeDegrees folds any angle into [0, 360).
func normalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, config.DegreesPerTurn)
	if deg < 0 {
		deg += config.DegreesPerTurn
	}
	// math.Mod can leave -0 or round a tiny negative up to exactly 360.
	if deg >= config.DegreesPerTurn || deg == 0 {
		return 0
	}
	return deg
}
