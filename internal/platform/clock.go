package platform

import "time"

// Clock provides times.
type Clock interface {
	// Now returns current UTC time.
	Now() time.Time
}

// SystemClock is Clock backed by system wall clock.
type SystemClock struct{}

// Now return current UTC time.
func (c SystemClock) Now() time.Time {
	return time.Now().UTC()
}
