// Package timer holds the countdown arithmetic shared by every time-bounded
// mini-game: remaining-time phases, the M:SS label and a tickable countdown.
package timer

import (
	"fmt"
	"math"
	"time"
)

// TickInterval is how often an active countdown is re-read.
const TickInterval = 100 * time.Millisecond

// Phase is the urgency band of a countdown.
type Phase string

const (
	PhaseCalm     Phase = "calm"
	PhaseWarning  Phase = "warning"
	PhaseCritical Phase = "critical"
	PhaseFinal    Phase = "final"
)

// Seconds converts a remaining duration to whole seconds, rounding up so a
// display never reads 0:00 while time is left.
func Seconds(remaining time.Duration) int {
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Seconds()))
}

// PhaseFor maps whole remaining seconds to a phase.
func PhaseFor(seconds int) Phase {
	switch {
	case seconds > 20:
		return PhaseCalm
	case seconds > 10:
		return PhaseWarning
	case seconds > 5:
		return PhaseCritical
	default:
		return PhaseFinal
	}
}

// PhaseOf is PhaseFor applied to a duration.
func PhaseOf(remaining time.Duration) Phase {
	return PhaseFor(Seconds(remaining))
}

// Format renders remaining time as M:SS.
func Format(remaining time.Duration) string {
	s := Seconds(remaining)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
