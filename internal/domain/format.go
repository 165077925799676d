package domain

import (
	"fmt"
	"time"
)

// ClockDuration formats d as "HH:MM" in whole hours and minutes, with the
// hour padded to two digits ("02:30", "123:05"). Negative durations count
// as zero.
func ClockDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int64(d / time.Hour)
	minutes := int64((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%02d:%02d", hours, minutes)
}
