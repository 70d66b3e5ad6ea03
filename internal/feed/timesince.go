package feed

import (
	"fmt"
	"time"
)

// TimeSince renders a coarse relative label for a creation timestamp.
// Future timestamps clamp to "Just now"; there is no month or year
// granularity beyond days.
func TimeSince(createdAt, now time.Time) string {
	diff := now.Sub(createdAt)

	if diff < time.Minute {
		return "Just now"
	}
	if diff < time.Hour {
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	}
	if diff < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	}
	return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
}
