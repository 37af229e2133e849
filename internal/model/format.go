package model

import (
	"fmt"
	"time"
)

// FormatRemaining renders a countdown as MM:SS, or HH:MM:SS once it reaches an
// hour. Sub-second remainders are truncated.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	hh := total / 3600
	mm := (total % 3600) / 60
	ss := total % 60
	if hh > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hh, mm, ss)
	}
	return fmt.Sprintf("%02d:%02d", mm, ss)
}
