package minigame

import (
	"slices"

	"github.com/samber/lo"
)

// ChoiceOption is an answer of a multiple-choice question.
type ChoiceOption struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	ImageURL  string `json:"imageUrl,omitempty"`
	IsCorrect bool   `json:"isCorrect"`
}

// MultipleChoiceConfig is a question with one or more correct options.
// Without AllowMultiple exactly one option is correct and selecting replaces
// the previous choice.
type MultipleChoiceConfig struct {
	Instruction   string         `json:"instruction"`
	Question      string         `json:"question"`
	ImageURL      string         `json:"imageUrl,omitempty"`
	Options       []ChoiceOption `json:"options"`
	AllowMultiple bool           `json:"allowMultiple"`
	Explanation   string         `json:"explanation,omitempty"`
	Reward
}

func (MultipleChoiceConfig) GameType() Type { return TypeMultipleChoice }
func (MultipleChoiceConfig) sealed()        {}

func (c MultipleChoiceConfig) Validate(f RewardField) ValidationResult {
	var d defects
	d.text(c.Instruction, "instruction")
	d.text(c.Question, "question")
	d.atLeast(len(c.Options), 2, "options")
	d.ids("option", lo.Map(c.Options, func(o ChoiceOption, _ int) string { return o.ID }))
	for i, o := range c.Options {
		d.oneOf(o.Text, o.ImageURL, describe("option", i, o.ID), "text or an image")
	}

	correct := lo.CountBy(c.Options, func(o ChoiceOption) bool { return o.IsCorrect })
	switch {
	case correct == 0:
		d.addf("at least one option must be correct")
	case !c.AllowMultiple && correct > 1:
		d.addf("single-answer question has %d correct options, want 1", correct)
	}

	c.Reward.check(&d, f, "game", false)
	return d.result()
}

// ChoiceState is the set of selected option ids in selection order.
type ChoiceState struct {
	Selected []string `json:"selected"`
}

// ChoiceFeedback splits the selection against the answer key.
type ChoiceFeedback struct {
	CorrectIDs []string `json:"correctIds"`
	Right      []string `json:"right"`
	Wrong      []string `json:"wrong"`
	Missed     []string `json:"missed"`
}

// selectOption toggles id, or replaces the selection when single is set.
func selectOption(s ChoiceState, id string, single bool) ChoiceState {
	if single {
		return ChoiceState{Selected: []string{id}}
	}
	if slices.Contains(s.Selected, id) {
		return ChoiceState{Selected: lo.Without(s.Selected, id)}
	}
	return ChoiceState{Selected: append(slices.Clone(s.Selected), id)}
}

func choiceFeedback(selected, correct []string) ChoiceFeedback {
	right := lo.Intersect(selected, correct)
	wrong, missed := lo.Difference(selected, correct)
	return ChoiceFeedback{CorrectIDs: correct, Right: right, Wrong: wrong, Missed: missed}
}

type multipleChoiceRules struct {
	cfg     MultipleChoiceConfig
	correct []string
}

func newMultipleChoiceRules(cfg MultipleChoiceConfig) multipleChoiceRules {
	return multipleChoiceRules{
		cfg: cfg,
		correct: lo.FilterMap(cfg.Options, func(o ChoiceOption, _ int) (string, bool) {
			return o.ID, o.IsCorrect
		}),
	}
}

func (r multipleChoiceRules) Initial() ChoiceState { return ChoiceState{Selected: []string{}} }

func (r multipleChoiceRules) Reduce(s ChoiceState, a Action) (ChoiceState, error) {
	if a.Kind != ActionSelect {
		return s, ErrUnknownAction
	}
	if !lo.ContainsBy(r.cfg.Options, func(o ChoiceOption) bool { return o.ID == a.OptionID }) {
		return s, ErrUnknownElement
	}
	return selectOption(s, a.OptionID, !r.cfg.AllowMultiple), nil
}

func (r multipleChoiceRules) Ready(s ChoiceState) bool { return len(s.Selected) > 0 }

func (r multipleChoiceRules) Evaluate(s ChoiceState, f RewardField) Evaluation {
	fb := choiceFeedback(s.Selected, r.correct)
	success := len(r.correct) > 0 && len(fb.Wrong) == 0 && len(fb.Missed) == 0
	if !r.cfg.AllowMultiple && len(s.Selected) != 1 {
		success = false
	}
	return Evaluation{
		Success: success,
		Correct: len(fb.Right),
		Total:   len(r.correct),
		Earned:  lo.Ternary(success, r.cfg.Reward.Value(f), 0),
		Detail:  fb,
	}
}
