// Package timezone keeps the absolute target instant correct as the viewing
// timezone changes, and keeps the celebration state consistent per timezone.
package timezone

import (
	"fmt"
	"time"
)

// WallClockSpec is a timezone-agnostic local-time description. Paired with
// an IANA zone name it resolves to an absolute instant. Only wall-clock mode
// sessions carry one.
type WallClockSpec struct {
	Year    int
	Month   time.Month
	Day     int
	Hours   int
	Minutes int
	Seconds int
}

// SpecFromTime captures the calendar components of t as a wall-clock spec,
// discarding its location.
func SpecFromTime(t time.Time) WallClockSpec {
	return WallClockSpec{
		Year:    t.Year(),
		Month:   t.Month(),
		Day:     t.Day(),
		Hours:   t.Hour(),
		Minutes: t.Minute(),
		Seconds: t.Second(),
	}
}

// Resolve converts the spec to the absolute instant at which that local time
// occurs in the named zone. An unrecognized zone is a configuration bug and
// is returned to the caller rather than swallowed.
func (s WallClockSpec) Resolve(tz string) (time.Time, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Time{}, fmt.Errorf("resolve timezone %q: %w", tz, err)
	}
	return time.Date(s.Year, s.Month, s.Day, s.Hours, s.Minutes, s.Seconds, 0, loc), nil
}

// Detect returns the IANA-ish name of the local zone, falling back to UTC
// when the runtime only knows an offset.
func Detect() string {
	name := time.Local.String()
	if name == "" || name == "Local" {
		return "UTC"
	}
	return name
}
