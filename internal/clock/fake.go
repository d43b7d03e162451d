package clock

import "time"

// FakeClock is a manually advanced Clock for tests. Shift durations
// and report windows are asserted against it, so every time it hands
// out is normalized to UTC.
type FakeClock struct {
	now time.Time
}

func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	return c.now
}

// Advance moves the clock forward. Negative durations are allowed for
// tests that need out-of-order timestamps.
func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
