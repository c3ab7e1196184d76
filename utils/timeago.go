// utils/timeago.go - Relative timestamp formatting
package utils

import (
	"fmt"
	"time"
)

const (
	minuteSeconds = 60
	hourSeconds   = 3600
	daySeconds    = 86400
	monthSeconds  = 2592000 // 30-day months
)

// TimeAgo formats the elapsed time between t and now using coarse buckets:
// "Just now", minutes, hours, days, then months.
func TimeAgo(t time.Time, now time.Time) string {
	secs := int64(now.Sub(t).Seconds())
	if secs < 0 {
		secs = 0
	}

	switch {
	case secs < minuteSeconds:
		return "Just now"
	case secs < hourSeconds:
		return pluralize(secs/minuteSeconds, "minute")
	case secs < daySeconds:
		return pluralize(secs/hourSeconds, "hour")
	case secs < monthSeconds:
		return pluralize(secs/daySeconds, "day")
	default:
		return pluralize(secs/monthSeconds, "month")
	}
}

func pluralize(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
