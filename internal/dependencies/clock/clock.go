package clock

import "time"

// Clock is the single source of "now". Sessions, login forms and contestant
// timestamps read it so tests can pin time.
type Clock interface {
	Now() time.Time
}

// System reads the wall clock in UTC
type System struct{}

// New returns the wall clock
func New() System {
	return System{}
}

// Now returns the current time in UTC
func (System) Now() time.Time {
	return time.Now().UTC()
}
