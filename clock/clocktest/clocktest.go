// Package clocktest provides clocks returning predetermined times.
package clocktest

import (
	"sync"
	"time"

	"github.com/sprockets/x/clock"
)

// New returns a test clock that will respond to Now() calls using the
// times provided. Once only one time is left it is returned forever.
func New(ts ...time.Time) clock.Clock {
	var mu sync.Mutex
	return clock.Func(func() (t time.Time) {
		mu.Lock()
		defer mu.Unlock()

		if len(ts) == 0 {
			return
		}
		if len(ts) == 1 {
			return ts[0]
		}

		t, ts = ts[0], ts[1:]
		return
	})
}

// NewFromDurations returns a test clock that will respond to
// Now() calls with times that are after the current time by
// the passed durations.
func NewFromDurations(ds ...time.Duration) clock.Clock {
	t0 := time.Now()
	ts := make([]time.Time, 0, len(ds))
	for _, d := range ds {
		ts = append(ts, t0.Add(d))
	}
	return New(ts...)
}
