package minigame

import (
	"github.com/samber/lo"
)

// ScenarioOption is a possible response to a scenario. Each correct option
// carries its own reward.
type ScenarioOption struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
	Feedback  string `json:"feedback,omitempty"`
	Reward
}

// ScenarioConfig describes a situation and the responses to choose from.
// Partial credit is paid for each correct option selected.
type ScenarioConfig struct {
	Instruction string           `json:"instruction"`
	Scenario    string           `json:"scenario"`
	ImageURL    string           `json:"imageUrl,omitempty"`
	Options     []ScenarioOption `json:"options"`
}

func (ScenarioConfig) GameType() Type { return TypeScenario }
func (ScenarioConfig) sealed()        {}

func (c ScenarioConfig) Validate(f RewardField) ValidationResult {
	var d defects
	d.text(c.Instruction, "instruction")
	d.text(c.Scenario, "scenario")
	d.atLeast(len(c.Options), 2, "options")
	d.ids("option", lo.Map(c.Options, func(o ScenarioOption, _ int) string { return o.ID }))
	for i, o := range c.Options {
		label := describe("option", i, o.ID)
		d.text(o.Text, label+" text")
		if o.IsCorrect {
			o.Reward.check(&d, f, label, false)
		} else if o.Reward.XP < 0 || o.Reward.Points < 0 {
			d.addf("%s reward must not be negative", label)
		}
	}
	if !lo.SomeBy(c.Options, func(o ScenarioOption) bool { return o.IsCorrect }) {
		d.addf("at least one option must be correct")
	}
	return d.result()
}

// ScenarioFeedback extends the choice breakdown with per-option notes for
// the selected options.
type ScenarioFeedback struct {
	ChoiceFeedback
	Notes map[string]string `json:"notes,omitempty"`
}

type scenarioRules struct {
	cfg     ScenarioConfig
	correct []string
}

func newScenarioRules(cfg ScenarioConfig) scenarioRules {
	return scenarioRules{
		cfg: cfg,
		correct: lo.FilterMap(cfg.Options, func(o ScenarioOption, _ int) (string, bool) {
			return o.ID, o.IsCorrect
		}),
	}
}

func (r scenarioRules) Initial() ChoiceState { return ChoiceState{Selected: []string{}} }

func (r scenarioRules) Reduce(s ChoiceState, a Action) (ChoiceState, error) {
	if a.Kind != ActionSelect {
		return s, ErrUnknownAction
	}
	if !lo.ContainsBy(r.cfg.Options, func(o ScenarioOption) bool { return o.ID == a.OptionID }) {
		return s, ErrUnknownElement
	}
	return selectOption(s, a.OptionID, false), nil
}

func (r scenarioRules) Ready(s ChoiceState) bool { return len(s.Selected) > 0 }

func (r scenarioRules) Evaluate(s ChoiceState, f RewardField) Evaluation {
	fb := ScenarioFeedback{ChoiceFeedback: choiceFeedback(s.Selected, r.correct), Notes: map[string]string{}}
	earned := 0
	for _, o := range r.cfg.Options {
		if !lo.Contains(s.Selected, o.ID) {
			continue
		}
		if o.IsCorrect {
			earned += o.Reward.Value(f)
		}
		if o.Feedback != "" {
			fb.Notes[o.ID] = o.Feedback
		}
	}
	wrong := len(fb.Wrong)
	return Evaluation{
		Success:  len(r.correct) > 0 && wrong == 0 && len(fb.Missed) == 0,
		Correct:  len(fb.Right),
		Total:    len(r.correct),
		Earned:   earned,
		Mistakes: &wrong,
		Detail:   fb,
	}
}
