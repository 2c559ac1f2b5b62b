package minigame

import (
	"slices"
	"time"

	"github.com/samber/lo"
)

// SwipeCard is a photo the player judges safe (right) or unsafe (left).
type SwipeCard struct {
	ID          string `json:"id"`
	ImageURL    string `json:"imageUrl"`
	Caption     string `json:"caption,omitempty"`
	IsCorrect   bool   `json:"isCorrect"`
	Explanation string `json:"explanation,omitempty"`
	Reward
}

// PhotoSwipeConfig is a deck of photos judged one at a time. In time-attack
// mode the deck is played against TimeLimitSeconds and mistakes never pause
// the game.
type PhotoSwipeConfig struct {
	Instruction      string      `json:"instruction"`
	Cards            []SwipeCard `json:"cards"`
	TimeAttackMode   bool        `json:"timeAttackMode"`
	TimeLimitSeconds int         `json:"timeLimitSeconds,omitempty"`
}

func (PhotoSwipeConfig) GameType() Type { return TypePhotoSwipe }
func (PhotoSwipeConfig) sealed()        {}

func (c PhotoSwipeConfig) TimeLimit() time.Duration {
	if !c.TimeAttackMode {
		return 0
	}
	return limit(c.TimeLimitSeconds)
}

func (c PhotoSwipeConfig) Validate(f RewardField) ValidationResult {
	var d defects
	d.text(c.Instruction, "instruction")
	d.atLeast(len(c.Cards), 1, "cards")
	d.ids("card", lo.Map(c.Cards, func(card SwipeCard, _ int) string { return card.ID }))
	for i, card := range c.Cards {
		label := describe("card", i, card.ID)
		d.text(card.ImageURL, label+" imageUrl")
		card.Reward.check(&d, f, label, true)
	}
	if c.TimeAttackMode && c.TimeLimitSeconds <= 0 {
		d.addf("timeLimitSeconds must be greater than 0 in time attack mode")
	}
	return d.result()
}

// Swipe is one judged card.
type Swipe struct {
	CardID    string    `json:"cardId"`
	Direction Direction `json:"direction"`
	Correct   bool      `json:"correct"`
}

// SwipeState is the position in the deck and every judgement made so far.
// AwaitingAck is set while an incorrect swipe's explanation is shown.
type SwipeState struct {
	Index       int     `json:"index"`
	Swipes      []Swipe `json:"swipes"`
	Mistakes    int     `json:"mistakes"`
	AwaitingAck bool    `json:"awaitingAck"`
}

// SwipeFeedback is the per-card outcome.
type SwipeFeedback struct {
	Swipes []Swipe `json:"swipes"`
}

type photoSwipeRules struct {
	cfg PhotoSwipeConfig
	// pause stops the deck on a wrong swipe until it is acknowledged.
	pause bool
}

func (r photoSwipeRules) Initial() SwipeState { return SwipeState{Swipes: []Swipe{}} }

func (r photoSwipeRules) Reduce(s SwipeState, a Action) (SwipeState, error) {
	switch a.Kind {
	case ActionAcknowledge:
		if !s.AwaitingAck {
			return s, nil
		}
		next := s
		next.AwaitingAck = false
		next.Index++
		return next, nil
	case ActionSwipe:
	default:
		return s, ErrUnknownAction
	}

	if s.AwaitingAck {
		return s, ErrBlocked
	}
	if s.Index >= len(r.cfg.Cards) {
		return s, ErrInvalidAction
	}
	card := r.cfg.Cards[s.Index]
	if a.CardID != "" && a.CardID != card.ID {
		return s, ErrUnknownElement
	}
	if a.Direction != SwipeLeft && a.Direction != SwipeRight {
		return s, ErrInvalidAction
	}

	correct := (a.Direction == SwipeRight) == card.IsCorrect
	next := SwipeState{
		Index:    s.Index,
		Swipes:   append(slices.Clone(s.Swipes), Swipe{CardID: card.ID, Direction: a.Direction, Correct: correct}),
		Mistakes: s.Mistakes,
	}
	if !correct {
		next.Mistakes++
		if r.pause {
			next.AwaitingAck = true
			return next, nil
		}
	}
	next.Index++
	return next, nil
}

func (r photoSwipeRules) Finished(s SwipeState) bool {
	return len(r.cfg.Cards) > 0 && s.Index >= len(r.cfg.Cards)
}

func (r photoSwipeRules) Ready(s SwipeState) bool { return r.Finished(s) }

func (r photoSwipeRules) Evaluate(s SwipeState, f RewardField) Evaluation {
	rewards := lo.SliceToMap(r.cfg.Cards, func(c SwipeCard) (string, int) { return c.ID, c.Reward.Value(f) })
	correct, earned := 0, 0
	for _, sw := range s.Swipes {
		if sw.Correct {
			correct++
			earned += rewards[sw.CardID]
		}
	}
	total := len(r.cfg.Cards)
	mistakes := s.Mistakes
	return Evaluation{
		Success:  total > 0 && correct == total,
		Correct:  correct,
		Total:    total,
		Earned:   earned,
		Mistakes: &mistakes,
		Detail:   SwipeFeedback{Swipes: s.Swipes},
	}
}
