package minigame

import (
	"github.com/samber/lo"
)

// MatchItem is one side of a matching pair.
type MatchItem struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// MatchPair links a left item to a right item.
type MatchPair struct {
	LeftID  string `json:"leftId"`
	RightID string `json:"rightId"`
}

// MatchingConfig asks the player to connect every left item with its right
// counterpart. Scoring is all-or-nothing.
type MatchingConfig struct {
	Instruction string      `json:"instruction"`
	LeftItems   []MatchItem `json:"leftItems"`
	RightItems  []MatchItem `json:"rightItems"`
	Pairs       []MatchPair `json:"pairs"`
	Reward
}

func (MatchingConfig) GameType() Type { return TypeMatching }
func (MatchingConfig) sealed()        {}

func (c MatchingConfig) Validate(f RewardField) ValidationResult {
	var d defects
	d.text(c.Instruction, "instruction")
	d.atLeast(len(c.Pairs), 2, "pairs")

	itemID := func(it MatchItem, _ int) string { return it.ID }
	left := d.ids("left item", lo.Map(c.LeftItems, itemID))
	right := d.ids("right item", lo.Map(c.RightItems, itemID))
	for i, it := range c.LeftItems {
		d.oneOf(it.Text, it.ImageURL, describe("left item", i, it.ID), "text or an image")
	}
	for i, it := range c.RightItems {
		d.oneOf(it.Text, it.ImageURL, describe("right item", i, it.ID), "text or an image")
	}

	for i, p := range c.Pairs {
		if !left[p.LeftID] {
			d.addf("pair %d references unknown left item %q", i+1, p.LeftID)
		}
		if !right[p.RightID] {
			d.addf("pair %d references unknown right item %q", i+1, p.RightID)
		}
	}
	for _, id := range lo.FindDuplicates(lo.Map(c.Pairs, func(p MatchPair, _ int) string { return p.LeftID })) {
		d.addf("left item %q is used in more than one pair", id)
	}
	for _, id := range lo.FindDuplicates(lo.Map(c.Pairs, func(p MatchPair, _ int) string { return p.RightID })) {
		d.addf("right item %q is used in more than one pair", id)
	}

	c.Reward.check(&d, f, "game", false)
	return d.result()
}

// MatchingState holds the pairs the player has drawn.
type MatchingState struct {
	Pairs []MatchPair `json:"pairs"`
}

// MatchingFeedback marks each drawn pair right or wrong.
type MatchingFeedback struct {
	Pairs []PairVerdict `json:"pairs"`
}

// PairVerdict is a drawn pair with its verdict.
type PairVerdict struct {
	MatchPair
	Correct bool `json:"correct"`
}

type matchingRules struct {
	cfg     MatchingConfig
	left    map[string]bool
	right   map[string]bool
	correct map[string]bool
}

func newMatchingRules(cfg MatchingConfig) matchingRules {
	ids := func(it MatchItem) (string, bool) { return it.ID, true }
	return matchingRules{
		cfg:   cfg,
		left:  lo.SliceToMap(cfg.LeftItems, ids),
		right: lo.SliceToMap(cfg.RightItems, ids),
		correct: lo.SliceToMap(cfg.Pairs, func(p MatchPair) (string, bool) {
			return pairKey(p.LeftID, p.RightID), true
		}),
	}
}

func (r matchingRules) Initial() MatchingState { return MatchingState{Pairs: []MatchPair{}} }

func (r matchingRules) Reduce(s MatchingState, a Action) (MatchingState, error) {
	leftID, rightID := a.LeftID, a.RightID
	// Players may start a line from either column.
	if r.right[leftID] && r.left[rightID] {
		leftID, rightID = rightID, leftID
	}

	switch a.Kind {
	case ActionPair:
		if !r.left[leftID] || !r.right[rightID] {
			return s, ErrUnknownElement
		}
		kept := lo.Reject(s.Pairs, func(p MatchPair, _ int) bool {
			return p.LeftID == leftID || p.RightID == rightID
		})
		return MatchingState{Pairs: append(kept, MatchPair{LeftID: leftID, RightID: rightID})}, nil
	case ActionUnpair:
		if !r.left[leftID] && !r.right[rightID] {
			return s, ErrUnknownElement
		}
		kept := lo.Reject(s.Pairs, func(p MatchPair, _ int) bool {
			return (leftID != "" && p.LeftID == leftID) || (rightID != "" && p.RightID == rightID)
		})
		return MatchingState{Pairs: kept}, nil
	}
	return s, ErrUnknownAction
}

func (r matchingRules) Ready(s MatchingState) bool {
	return len(r.cfg.Pairs) > 0 && len(s.Pairs) == len(r.cfg.Pairs)
}

func (r matchingRules) Evaluate(s MatchingState, f RewardField) Evaluation {
	fb := MatchingFeedback{Pairs: make([]PairVerdict, 0, len(s.Pairs))}
	correct := 0
	for _, p := range s.Pairs {
		ok := r.correct[pairKey(p.LeftID, p.RightID)]
		if ok {
			correct++
		}
		fb.Pairs = append(fb.Pairs, PairVerdict{MatchPair: p, Correct: ok})
	}
	total := len(r.cfg.Pairs)
	success := total > 0 && correct == total && len(s.Pairs) == total
	return Evaluation{
		Success: success,
		Correct: correct,
		Total:   total,
		Earned:  lo.Ternary(success, r.cfg.Reward.Value(f), 0),
		Detail:  fb,
	}
}
