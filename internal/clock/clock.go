package clock

import "time"

// Clock allows injecting time into services.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystem returns a clock backed by time.Now.
func NewSystem() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

// Fixed is a clock pinned to a settable instant, for tests.
type Fixed struct {
	Instant time.Time
}

// NewFixed returns a clock that reports the given instant until advanced.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{Instant: t}
}

func (f *Fixed) Now() time.Time {
	return f.Instant
}

// Advance moves the fixed clock forward.
func (f *Fixed) Advance(d time.Duration) {
	f.Instant = f.Instant.Add(d)
}
