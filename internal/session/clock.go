package session

import "time"

// Clock abstracts time for the manager. The simulated login round-trip is
// scheduled through AfterFunc, and user creation timestamps come from Now,
// so tests can drive both with a manual clock instead of sleeping.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func())
}

// systemClock is the production Clock, backed by the time package.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}
