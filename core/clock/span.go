// Copyright (c) 2014 Square, Inc

package clock

import "time"

// Span represents an inclusive [begin, end] temporal region anchored to a
// Clock. begin is never greater than end; the duration between them is
// preserved across shift mutations and recomputed across resize mutations.
type Span struct {
	clock *Clock
	begin time.Time
	end   time.Time
}

// FromDuration creates a Span ending at clock.Now() and covering the given
// duration.
func FromDuration(clock *Clock, duration time.Duration) Span {
	end := clock.Now()
	return Span{clock: clock, begin: end.Add(-duration), end: end}
}

// FromBegin creates a Span that starts and ends at the same instant.
func FromBegin(clock *Clock, begin time.Time) Span {
	return Span{clock: clock, begin: begin, end: begin}
}

// Begin returns the first timestamp covered by the span.
func (s Span) Begin() time.Time { return s.begin }

// End returns the last timestamp covered by the span.
func (s Span) End() time.Time { return s.end }

// Duration returns the amount of time covered by the span.
func (s Span) Duration() time.Duration { return s.end.Sub(s.begin) }

// Resize moves end to the given timestamp, keeping begin unchanged, so the
// duration grows or shrinks. It returns false (and leaves the span
// unmodified) if the new end would precede begin.
func (s *Span) Resize(end time.Time) bool {
	if end.Before(s.begin) {
		return false
	}
	s.end = end
	return true
}

// Shift moves end to the given timestamp and recomputes begin so the
// duration is preserved.
func (s *Span) Shift(end time.Time) {
	duration := s.Duration()
	s.end = end
	s.begin = end.Add(-duration)
}

// ScrollRight shifts the span delta into the future, clamped so end never
// exceeds the clock's current instant.
func (s *Span) ScrollRight(delta time.Duration) {
	s.boundedShift(s.end.Add(delta))
}

// ScrollLeft shifts the span delta into the past, clamped so end never
// precedes the clock's initial instant plus the span's own duration (i.e.
// begin never precedes the clock's initial instant).
func (s *Span) ScrollLeft(delta time.Duration) {
	s.boundedShift(s.end.Add(-delta))
}

func (s *Span) boundedShift(unboundedEnd time.Time) {
	minEnd := s.clock.Initial().Add(s.Duration())
	maxEnd := s.clock.Now()

	bounded := unboundedEnd
	if bounded.Before(minEnd) {
		bounded = minEnd
	}
	if bounded.After(maxEnd) {
		bounded = maxEnd
	}
	s.Shift(bounded)
}

// IsFullyRight reports whether the span currently ends at the clock's
// current instant.
func (s Span) IsFullyRight() bool {
	return s.end.Equal(s.clock.Now())
}

// Intersects reports whether the span shares any instant with other.
func (s Span) Intersects(other Span) bool {
	return !(s.end.Before(other.begin) || s.begin.After(other.end))
}
