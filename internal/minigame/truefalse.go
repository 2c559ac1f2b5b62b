package minigame

// TrueFalseConfig is a single statement judged true or false.
type TrueFalseConfig struct {
	Instruction   string `json:"instruction"`
	Statement     string `json:"statement"`
	ImageURL      string `json:"imageUrl,omitempty"`
	CorrectAnswer *bool  `json:"correctAnswer"`
	Explanation   string `json:"explanation,omitempty"`
	Reward
}

func (TrueFalseConfig) GameType() Type { return TypeTrueFalse }
func (TrueFalseConfig) sealed()        {}

func (c TrueFalseConfig) Validate(f RewardField) ValidationResult {
	var d defects
	d.text(c.Instruction, "instruction")
	d.text(c.Statement, "statement")
	if c.CorrectAnswer == nil {
		d.addf("correctAnswer is required")
	}
	c.Reward.check(&d, f, "game", false)
	return d.result()
}

// TrueFalseState is the selected answer, nil until the player picks one.
type TrueFalseState struct {
	Answer *bool `json:"answer"`
}

// TrueFalseFeedback reveals the expected answer.
type TrueFalseFeedback struct {
	CorrectAnswer *bool  `json:"correctAnswer"`
	Explanation   string `json:"explanation,omitempty"`
}

type trueFalseRules struct {
	cfg TrueFalseConfig
}

func (r trueFalseRules) Initial() TrueFalseState { return TrueFalseState{} }

func (r trueFalseRules) Reduce(s TrueFalseState, a Action) (TrueFalseState, error) {
	if a.Kind != ActionAnswer {
		return s, ErrUnknownAction
	}
	if a.Value == nil {
		return s, ErrInvalidAction
	}
	v := *a.Value
	return TrueFalseState{Answer: &v}, nil
}

func (r trueFalseRules) Ready(s TrueFalseState) bool { return s.Answer != nil }

func (r trueFalseRules) Evaluate(s TrueFalseState, f RewardField) Evaluation {
	ok := s.Answer != nil && r.cfg.CorrectAnswer != nil && *s.Answer == *r.cfg.CorrectAnswer
	ev := Evaluation{
		Success: ok,
		Total:   1,
		Detail:  TrueFalseFeedback{CorrectAnswer: r.cfg.CorrectAnswer, Explanation: r.cfg.Explanation},
	}
	if ok {
		ev.Correct = 1
		ev.Earned = r.cfg.Reward.Value(f)
	}
	return ev
}
