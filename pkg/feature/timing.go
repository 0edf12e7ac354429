package feature

import (
	"math"
	"time"
)

// maxMillis is the longest interval a time.Duration can hold, in milliseconds.
const maxMillis = math.MaxInt64 / int64(time.Millisecond)

// HasElapsedMillis reports whether now >= last + ms.
// A zero last means the action never ran, which always counts as elapsed.
func HasElapsedMillis(now, last time.Time, ms int64) bool {
	if last.IsZero() {
		return true
	}
	if ms > maxMillis {
		return false
	}
	return !now.Before(last.Add(time.Duration(ms) * time.Millisecond))
}

// HasElapsedAtRate reports whether now >= last + 1000/rate milliseconds.
// The interval is truncated to whole milliseconds. A non-positive rate, or one
// so small that the interval does not fit a time.Duration, never elapses.
func HasElapsedAtRate(now, last time.Time, ratePerSecond float64) bool {
	if ratePerSecond <= 0 {
		return false
	}
	interval := 1000 / ratePerSecond
	if interval >= float64(maxMillis) {
		return false
	}
	return HasElapsedMillis(now, last, int64(interval))
}

// Throttle holds the last-action timestamp for a feature's periodic work.
// It is owned by the feature and is not safe for concurrent use.
type Throttle struct {
	last time.Time
}

// Ready reports whether at least ms milliseconds passed since the last Mark.
func (t *Throttle) Ready(now time.Time, ms int64) bool {
	return HasElapsedMillis(now, t.last, ms)
}

// ReadyAtRate reports whether the action may run again at the given rate per second.
func (t *Throttle) ReadyAtRate(now time.Time, ratePerSecond float64) bool {
	return HasElapsedAtRate(now, t.last, ratePerSecond)
}

// Mark records now as the last time the action ran.
func (t *Throttle) Mark(now time.Time) {
	t.last = now
}

// Last returns the last recorded action time, zero if none.
func (t *Throttle) Last() time.Time {
	return t.last
}

// Reset forgets the last action so the next check passes.
func (t *Throttle) Reset() {
	t.last = time.Time{}
}
