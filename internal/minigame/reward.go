package minigame

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RewardField names the currency an element pays: xp in lessons, points in
// quiz questions.
type RewardField string

const (
	RewardXP     RewardField = "xp"
	RewardPoints RewardField = "points"
)

// RewardFieldFor picks the authoring currency of a config.
func RewardFieldFor(isQuizQuestion bool) RewardField {
	if isQuizQuestion {
		return RewardPoints
	}
	return RewardXP
}

// Reward is the amount an element (or a whole game) is worth. Authors fill
// exactly one of the two fields.
type Reward struct {
	XP     int `json:"xp,omitempty"`
	Points int `json:"points,omitempty"`
}

// Field returns the amount stored under f.
func (r Reward) Field(f RewardField) int {
	if f == RewardPoints {
		return r.Points
	}
	return r.XP
}

// Value returns the amount paid in currency f. A config authored in the other
// currency still pays out its amount rather than nothing.
func (r Reward) Value(f RewardField) int {
	if v := r.Field(f); v != 0 {
		return v
	}
	if f == RewardPoints {
		return r.XP
	}
	return r.Points
}

// check records reward defects for one element.
func (r Reward) check(d *defects, f RewardField, label string, allowZero bool) {
	if r.XP != 0 && r.Points != 0 {
		d.addf("%s sets both xp and points", label)
	}
	v := r.Field(f)
	switch {
	case v < 0:
		d.addf("%s %s must not be negative", label, f)
	case v == 0 && !allowZero:
		d.addf("%s %s must be greater than 0", label, f)
	}
}

// proportional returns round(correct/total × amount), half away from zero.
func proportional(correct, total, amount int) int {
	if total <= 0 || correct <= 0 || amount <= 0 {
		return 0
	}
	return int(decimal.NewFromInt(int64(correct)).
		Mul(decimal.NewFromInt(int64(amount))).
		Div(decimal.NewFromInt(int64(total))).
		Round(0).
		IntPart())
}

// multiply scales amount by factor and rounds to a whole reward.
func multiply(amount int, factor float64) int {
	return int(decimal.NewFromInt(int64(amount)).
		Mul(decimal.NewFromFloat(factor)).
		Round(0).
		IntPart())
}

func describe(kind string, i int, id string) string {
	if id == "" {
		return fmt.Sprintf("%s %d", kind, i+1)
	}
	return fmt.Sprintf("%s %q", kind, id)
}
