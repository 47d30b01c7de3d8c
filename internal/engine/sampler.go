package engine

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tartampluch/go-analogclock/internal/config"
)

// TimeSample is a single wall-clock reading. It is immutable and superseded by the next one.
type TimeSample struct {
	Hour   int // 0-23
	Minute int // 0-59
	Second int // 0-59

	// Zone is the identifier of the location the reading was taken in, after fallback.
	Zone string
}

// String returns the 24-hour representation (HH:MM) used as the accessible description.
func (s TimeSample) String() string {
	return fmt.Sprintf(config.DescriptionFormat, s.Hour, s.Minute)
}

// LoadZone resolves an IANA timezone identifier.
// Empty or unknown identifiers resolve to UTC; the returned error wraps ErrInvalidZone
// so the caller can log the fallback. The location is always usable.
func LoadZone(id string) (*time.Location, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return time.UTC, fmt.Errorf("%w: empty identifier", ErrInvalidZone)
	}
	loc, err := time.LoadLocation(id)
	if err != nil {
		return time.UTC, fmt.Errorf("%w %q: %w", ErrInvalidZone, id, err)
	}
	return loc, nil
}

// Sampler reads the wall clock and splits it into hour, minute and second.
type Sampler struct {
	clock    Clock
	location *time.Location
}

// NewSampler creates a Sampler reading clock in location.
// A nil clock uses the real clock and a nil location uses the system zone (time.Local).
func NewSampler(clock Clock, location *time.Location) *Sampler {
	if clock == nil {
		clock = RealClock()
	}
	if location == nil {
		location = time.Local
	}
	return &Sampler{clock: clock, location: location}
}

// Location returns the default location used when no zone is requested.
func (s *Sampler) Location() *time.Location {
	return s.location
}

// Sample reads the current time in zone, or in the default location when zone is empty.
// An unresolvable zone never fails the read: it falls back to UTC.
func (s *Sampler) Sample(zone string) TimeSample {
	if zone == "" {
		return s.SampleIn(s.location)
	}

	loc, err := LoadZone(zone)
	if err != nil {
		slog.Warn(config.MsgZoneFallback,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyZone, zone,
			config.LogKeyFallback, config.FallbackZone,
			config.LogKeyError, err,
		)
	}
	return s.SampleIn(loc)
}

// SampleIn reads the current time in loc. A nil loc means the default location.
func (s *Sampler) SampleIn(loc *time.Location) TimeSample {
	if loc == nil {
		loc = s.location
	}
	now := s.clock.Now().In(loc)
	hour, minute, second := now.Clock()
	return TimeSample{
		Hour:   hour,
		Minute: minute,
		Second: second,
		Zone:   loc.String(),
	}
}
