package minigame

import (
	"time"

	"github.com/samber/lo"
)

// SortItem is a draggable element with the target it belongs to.
type SortItem struct {
	ID              string `json:"id"`
	Content         string `json:"content"`
	ImageURL        string `json:"imageUrl,omitempty"`
	CorrectTargetID string `json:"correctTargetId"`
}

// SortTarget is a drop zone or category.
type SortTarget struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// DragDropConfig asks the player to drop every item on its target. The
// game-level reward is paid in proportion to correct placements.
type DragDropConfig struct {
	Instruction string       `json:"instruction"`
	Items       []SortItem   `json:"items"`
	Targets     []SortTarget `json:"targets"`
	Reward
}

func (DragDropConfig) GameType() Type { return TypeDragDrop }
func (DragDropConfig) sealed()        {}

func (c DragDropConfig) Validate(f RewardField) ValidationResult {
	var d defects
	d.text(c.Instruction, "instruction")
	validateSorting(&d, c.Items, c.Targets)
	c.Reward.check(&d, f, "game", false)
	return d.result()
}

// TimeAttackSortingConfig is a drag-drop variant played against the clock.
type TimeAttackSortingConfig struct {
	Instruction      string       `json:"instruction"`
	Items            []SortItem   `json:"items"`
	Targets          []SortTarget `json:"targets"`
	TimeLimitSeconds int          `json:"timeLimitSeconds"`
	Reward
}

func (TimeAttackSortingConfig) GameType() Type { return TypeTimeAttackSorting }
func (TimeAttackSortingConfig) sealed()        {}

func (c TimeAttackSortingConfig) TimeLimit() time.Duration { return limit(c.TimeLimitSeconds) }

func (c TimeAttackSortingConfig) Validate(f RewardField) ValidationResult {
	var d defects
	d.text(c.Instruction, "instruction")
	validateSorting(&d, c.Items, c.Targets)
	if c.TimeLimitSeconds <= 0 {
		d.addf("timeLimitSeconds must be greater than 0")
	}
	c.Reward.check(&d, f, "game", false)
	return d.result()
}

func validateSorting(d *defects, items []SortItem, targets []SortTarget) {
	d.atLeast(len(items), 1, "items")
	d.atLeast(len(targets), 2, "targets")

	targetIDs := d.ids("target", lo.Map(targets, func(t SortTarget, _ int) string { return t.ID }))
	for i, t := range targets {
		d.oneOf(t.Label, t.ImageURL, describe("target", i, t.ID), "a label or an image")
	}
	d.ids("item", lo.Map(items, func(it SortItem, _ int) string { return it.ID }))
	for i, it := range items {
		label := describe("item", i, it.ID)
		d.oneOf(it.Content, it.ImageURL, label, "content or an image")
		switch {
		case it.CorrectTargetID == "":
			d.addf("%s has no correctTargetId", label)
		case !targetIDs[it.CorrectTargetID]:
			d.addf("%s references unknown target %q", label, it.CorrectTargetID)
		}
	}
}

// PlacementState maps item ids to the target they were dropped on.
type PlacementState struct {
	Placements map[string]string `json:"placements"`
}

// PlacementFeedback tells, per item, whether its placement was right.
type PlacementFeedback struct {
	Items map[string]bool `json:"items"`
}

type sortingRules struct {
	items   []SortItem
	targets map[string]bool
	reward  Reward
}

func newSortingRules(items []SortItem, targets []SortTarget, reward Reward) sortingRules {
	return sortingRules{
		items:   items,
		targets: lo.SliceToMap(targets, func(t SortTarget) (string, bool) { return t.ID, true }),
		reward:  reward,
	}
}

func (r sortingRules) Initial() PlacementState {
	return PlacementState{Placements: map[string]string{}}
}

func (r sortingRules) hasItem(id string) bool {
	return lo.ContainsBy(r.items, func(it SortItem) bool { return it.ID == id })
}

func (r sortingRules) Reduce(s PlacementState, a Action) (PlacementState, error) {
	switch a.Kind {
	case ActionAssign:
		if !r.hasItem(a.ItemID) || !r.targets[a.TargetID] {
			return s, ErrUnknownElement
		}
		next := cloneMap(s.Placements)
		next[a.ItemID] = a.TargetID
		return PlacementState{Placements: next}, nil
	case ActionUnassign:
		if !r.hasItem(a.ItemID) {
			return s, ErrUnknownElement
		}
		next := cloneMap(s.Placements)
		delete(next, a.ItemID)
		return PlacementState{Placements: next}, nil
	}
	return s, ErrUnknownAction
}

func (r sortingRules) Ready(s PlacementState) bool {
	return len(r.items) > 0 && lo.EveryBy(r.items, func(it SortItem) bool {
		_, ok := s.Placements[it.ID]
		return ok
	})
}

func (r sortingRules) Evaluate(s PlacementState, f RewardField) Evaluation {
	fb := PlacementFeedback{Items: make(map[string]bool, len(r.items))}
	correct := 0
	for _, it := range r.items {
		ok := it.CorrectTargetID != "" && s.Placements[it.ID] == it.CorrectTargetID
		fb.Items[it.ID] = ok
		if ok {
			correct++
		}
	}
	total := len(r.items)
	return Evaluation{
		Success: total > 0 && correct == total,
		Correct: correct,
		Total:   total,
		Earned:  proportional(correct, total, r.reward.Value(f)),
		Detail:  fb,
	}
}
