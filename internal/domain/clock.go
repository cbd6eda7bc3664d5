package domain

import "github.com/jonboulle/clockwork"

// clock is a package-level time source so tests can freeze time via SetClock.
// Production code uses the real clock; tests inject a fake for deterministic output.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Yesterday returns the previous UTC calendar date as YYYY-MM-DD. The feed
// publishes a complete day only after it ends, so yesterday is the default
// processing target.
func Yesterday() string {
	return clock.Now().UTC().AddDate(0, 0, -1).Format(DateFormat)
}
