package utils

import "time"

// Timer is the subset of *time.Timer the debounce logic needs
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. Tests substitute a manual implementation.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemClock is the wall clock
type SystemClock struct{}

// Now returns the current time
func (SystemClock) Now() time.Time { return time.Now() }

// AfterFunc runs f on its own goroutine after d
func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

