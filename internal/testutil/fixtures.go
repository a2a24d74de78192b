package testutil

import (
	"time"
)

// day is the fixed date used by scheduling tests.
var day = time.Date(2025, time.March, 10, 0, 0, 0, 0, time.Local)

// At returns a timestamp on the fixture date at the given wall-clock time.
func At(hour, min int) *time.Time {
	t := day.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
	return &t
}
