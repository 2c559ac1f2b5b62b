package minigame

import (
	"slices"

	"github.com/samber/lo"
)

// SequenceItem is an element to put in order.
type SequenceItem struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// SequenceConfig asks the player to arrange items in CorrectOrder.
type SequenceConfig struct {
	Instruction  string         `json:"instruction"`
	Items        []SequenceItem `json:"items"`
	CorrectOrder []string       `json:"correctOrder"`
	Reward
}

func (SequenceConfig) GameType() Type { return TypeSequence }
func (SequenceConfig) sealed()        {}

func (c SequenceConfig) Validate(f RewardField) ValidationResult {
	var d defects
	d.text(c.Instruction, "instruction")
	d.atLeast(len(c.Items), 2, "items")

	items := d.ids("item", lo.Map(c.Items, func(it SequenceItem, _ int) string { return it.ID }))
	for i, it := range c.Items {
		d.oneOf(it.Text, it.ImageURL, describe("item", i, it.ID), "text or an image")
	}

	for _, id := range c.CorrectOrder {
		if !items[id] {
			d.addf("correctOrder references unknown item %q", id)
		}
	}
	for _, id := range lo.FindDuplicates(c.CorrectOrder) {
		d.addf("item %q appears more than once in correctOrder", id)
	}
	for _, it := range c.Items {
		if it.ID != "" && !slices.Contains(c.CorrectOrder, it.ID) {
			d.addf("item %q is missing from correctOrder", it.ID)
		}
	}

	c.Reward.check(&d, f, "game", false)
	return d.result()
}

// SequenceState is the player's current order of placed items.
type SequenceState struct {
	Order []string `json:"order"`
}

// SequenceFeedback has one entry per configured item, true where the item at
// that position is right.
type SequenceFeedback struct {
	CorrectPositions []bool `json:"correctPositions"`
}

type sequenceRules struct {
	cfg SequenceConfig
}

func (r sequenceRules) Initial() SequenceState { return SequenceState{Order: []string{}} }

func (r sequenceRules) Reduce(s SequenceState, a Action) (SequenceState, error) {
	if a.Kind != ActionPlace && a.Kind != ActionRemove {
		return s, ErrUnknownAction
	}
	if !lo.ContainsBy(r.cfg.Items, func(it SequenceItem) bool { return it.ID == a.ItemID }) {
		return s, ErrUnknownElement
	}

	order := lo.Without(s.Order, a.ItemID)
	if a.Kind == ActionRemove {
		return SequenceState{Order: order}, nil
	}
	at := len(order)
	if a.Index != nil {
		at = lo.Clamp(*a.Index, 0, len(order))
	}
	return SequenceState{Order: slices.Insert(order, at, a.ItemID)}, nil
}

func (r sequenceRules) Ready(s SequenceState) bool {
	return len(r.cfg.Items) > 0 && len(s.Order) == len(r.cfg.Items)
}

func (r sequenceRules) Evaluate(s SequenceState, f RewardField) Evaluation {
	positions := make([]bool, len(r.cfg.Items))
	for i := range positions {
		positions[i] = i < len(s.Order) && i < len(r.cfg.CorrectOrder) && s.Order[i] == r.cfg.CorrectOrder[i]
	}
	correct := lo.Count(positions, true)
	total := len(positions)
	success := total > 0 && correct == total
	return Evaluation{
		Success: success,
		Correct: correct,
		Total:   total,
		Earned:  lo.Ternary(success, r.cfg.Reward.Value(f), 0),
		Detail:  SequenceFeedback{CorrectPositions: positions},
	}
}
