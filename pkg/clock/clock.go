// Package clock abstracts the wall clock so that time-dependent rules
// (edit lock expiry, publish timestamps) can be tested deterministically.
package clock

import "time"

// Clock supplies the current time. Production code injects Real();
// tests inject Fake().
type Clock interface {
	Now() time.Time
}

type realClock struct{}

// Real returns a Clock backed by time.Now.
func Real() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }
