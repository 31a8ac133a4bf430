// Package clock pins the bot to a single wall clock. All user-facing time
// decisions (deadlines, reminder minutes) are computed in Zone, never in the
// server's local zone, so the behavior survives redeploys across regions.
package clock

import (
	"time"
)

// Zone is the fixed bot time zone (UTC+3). Reminder times stored as "HH:MM"
// are interpreted in it.
var Zone = time.FixedZone("MSK", 3*60*60)

// Now is swapped out in tests to freeze time.
var Now = func() time.Time {
	return time.Now().In(Zone)
}

// Minute formats t as the "HH:MM" wall-clock minute in Zone, the format users
// store their reminder time in.
func Minute(t time.Time) string {
	return t.In(Zone).Format("15:04")
}
