// Package countdown provides the remaining-time calculator and the periodic
// tick loop that drives the countdown toward a target instant.
package countdown

import "time"

// Unit divisors for breaking a duration into display components.
const (
	secondsPerMinute = 60
	secondsPerHour   = 3600
	secondsPerDay    = 86400
)

// Remaining is the display breakdown of time left until the target instant.
// Values are floored to whole seconds; a target in the past yields all zeros.
type Remaining struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
	Total   time.Duration
}

// IsZero reports whether no time remains.
func (r Remaining) IsZero() bool {
	return r.Total <= 0
}

// Milliseconds returns the total remaining time in whole milliseconds.
func (r Remaining) Milliseconds() int64 {
	return r.Total.Milliseconds()
}

// Until computes the remaining time from now until target.
// Negative remainders clamp to zero.
func Until(target, now time.Time) Remaining {
	return FromDuration(target.Sub(now))
}

// FromDuration breaks a duration into display components.
func FromDuration(d time.Duration) Remaining {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return Remaining{
		Days:    int(total / secondsPerDay),
		Hours:   int(total % secondsPerDay / secondsPerHour),
		Minutes: int(total % secondsPerHour / secondsPerMinute),
		Seconds: int(total % secondsPerMinute),
		Total:   d,
	}
}
