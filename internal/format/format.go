// Package format renders counters, durations, and timestamps for table
// output, following Korean display conventions for large numbers.
package format

import (
	"fmt"
	"strings"
	"time"
)

// Count renders a counter compactly: 억 for hundred-millions, 만 for
// ten-thousands, plain digits below that.
func Count(n int64) string {
	if n < 0 {
		return "0"
	}
	if n >= 100_000_000 {
		s := fmt.Sprintf("%.1f", float64(n)/100_000_000)
		s = strings.TrimSuffix(s, ".0")
		return s + "억"
	}
	if n >= 10_000 {
		return fmt.Sprintf("%d만", n/10_000)
	}
	return groupDigits(n)
}

// groupDigits inserts thousands separators.
func groupDigits(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// Duration renders seconds as M:SS, or H:MM:SS for hour-long content.
func Duration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}

	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// PublishedAt renders a publish instant as a local date-time.
func PublishedAt(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

// Ratio renders a computed ratio, or a placeholder when it is undefined.
func Ratio(ratio float64) string {
	if ratio <= 0 {
		return "계산불가"
	}
	return fmt.Sprintf("%.1f배", ratio)
}
