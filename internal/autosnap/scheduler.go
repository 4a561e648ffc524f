package autosnap

import "time"

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	// Stop reports whether the call was prevented.
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemScheduler schedules on the runtime timer heap. Callbacks run on
// their own goroutine; wrap it when the detector's owner needs locking.
var SystemScheduler Scheduler = systemScheduler{}

type systemScheduler struct{}

func (systemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
