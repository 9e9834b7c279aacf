package stats

import "time"

// DeltaTimer measures the time between consecutive frames.
type DeltaTimer struct {
	last time.Time
}

// Next returns the time since the previous call, or 0 on the first call.
func (d *DeltaTimer) Next(now time.Time) time.Duration {
	defer func() { d.last = now }()
	if d.last.IsZero() {
		return 0
	}
	return now.Sub(d.last)
}
