package timezone

import (
	"fmt"
	"strings"

	"github.com/rsheridan/finale/internal/countdown"
)

// CompletedStatus is the accessible status text once the countdown is over.
const CompletedStatus = "Countdown completed"

// FormatStatus renders the human-readable status text pushed onto the shared
// container's accessible label: a fixed completion string, or a pluralized
// breakdown of the remaining time.
func FormatStatus(r countdown.Remaining, complete bool) string {
	if complete {
		return CompletedStatus
	}

	parts := make([]string, 0, 4)
	if r.Days > 0 {
		parts = append(parts, plural(r.Days, "day"))
	}
	if r.Hours > 0 || len(parts) > 0 {
		parts = append(parts, plural(r.Hours, "hour"))
	}
	if r.Minutes > 0 || len(parts) > 0 {
		parts = append(parts, plural(r.Minutes, "minute"))
	}
	parts = append(parts, plural(r.Seconds, "second"))

	return strings.Join(parts, ", ") + " remaining"
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
