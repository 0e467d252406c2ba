package runner

import "time"

// Clock supplies wall-clock time for run timestamps.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real time in UTC.
//
// Thread-safety: SystemClock is stateless and safe for concurrent use.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// formatTime renders t in TimeLayout, converting to UTC first.
func formatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}
