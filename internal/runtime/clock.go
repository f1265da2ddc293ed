// SPDX-License-Identifier: MPL-2.0

package runtime

import "time"

type (
	// Clock abstracts time for duration measurement and timers.
	Clock interface {
		Now() time.Time
		After(d time.Duration) <-chan time.Time
		Since(t time.Time) time.Duration
	}

	realClock struct{}
)

// RealClock returns the wall clock.
func RealClock() Clock { return realClock{} }

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
func (realClock) Since(t time.Time) time.Duration        { return time.Since(t) }
