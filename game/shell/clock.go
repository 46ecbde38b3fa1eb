package shell

import (
	"fmt"
	"time"
)

// BirthEpoch is the instant uptime counts from
var BirthEpoch = time.Date(1994, time.November, 15, 0, 0, 0, 0, time.UTC)

// Unit lengths in milliseconds. A year is 365.25 days.
const (
	msSecond = int64(1000)
	msMinute = 60 * msSecond
	msHour   = 60 * msMinute
	msDay    = 24 * msHour
	msYear   = 365*msDay + msDay/4
)

// Uptime reports the time elapsed since BirthEpoch
func Uptime(now time.Time) string {
	diff := now.Sub(BirthEpoch).Milliseconds()

	years := diff / msYear
	days := diff % msYear / msDay
	hours := diff % msDay / msHour
	minutes := diff % msHour / msMinute
	seconds := diff % msMinute / msSecond

	return fmt.Sprintf("System uptime since birth (Nov 15, 1994 00:00):\n%d years, %d days, %d hours, %d minutes, %d seconds",
		years, days, hours, minutes, seconds)
}

// FormatDate renders t in a fixed, locale-independent layout
func FormatDate(t time.Time) string {
	return t.Format("Mon Jan 02 2006 15:04:05 GMT-0700 (MST)")
}
