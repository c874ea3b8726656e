package service

import (
	"time"
)

// Clock defines the interface for reading wall-clock time
type Clock interface {
	// Now returns the current instant
	Now() time.Time
}

// SystemClock reads the operating system clock
type SystemClock struct{}

// Now returns time.Now()
func (SystemClock) Now() time.Time {
	return time.Now()
}
