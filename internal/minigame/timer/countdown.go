package timer

import "time"

// Reading is one observation of a countdown.
type Reading struct {
	Remaining time.Duration `json:"-"`
	Seconds   int           `json:"seconds"`
	Label     string        `json:"label"`
	Phase     Phase         `json:"phase"`
	Expired   bool          `json:"expired"`
}

// Read computes the reading for a remaining duration.
func Read(remaining time.Duration) Reading {
	if remaining < 0 {
		remaining = 0
	}
	return Reading{
		Remaining: remaining,
		Seconds:   Seconds(remaining),
		Label:     Format(remaining),
		Phase:     PhaseOf(remaining),
		Expired:   remaining == 0,
	}
}

// Countdown measures a fixed limit against an injected clock. It reports
// expiry exactly once per run; Restart begins a new run.
type Countdown struct {
	limit     time.Duration
	startedAt time.Time
	expired   bool
	stopped   bool
}

// NewCountdown starts a countdown of limit at now.
func NewCountdown(limit time.Duration, now time.Time) *Countdown {
	return &Countdown{limit: limit, startedAt: now}
}

// Limit returns the configured duration.
func (c *Countdown) Limit() time.Duration { return c.limit }

// Read returns the reading at now without changing the countdown.
func (c *Countdown) Read(now time.Time) Reading {
	return Read(c.limit - now.Sub(c.startedAt))
}

// Tick reads the countdown and reports whether this tick is the one that
// crossed zero. A stopped countdown never expires.
func (c *Countdown) Tick(now time.Time) (Reading, bool) {
	r := c.Read(now)
	if c.stopped || c.expired || !r.Expired {
		return r, false
	}
	c.expired = true
	return r, true
}

// Stop freezes expiry reporting until Restart.
func (c *Countdown) Stop() { c.stopped = true }

// Stopped reports whether Stop was called since the last Restart.
func (c *Countdown) Stopped() bool { return c.stopped }

// Restart begins a fresh run at now.
func (c *Countdown) Restart(now time.Time) {
	c.startedAt = now
	c.expired = false
	c.stopped = false
}
