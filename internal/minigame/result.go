package minigame

import "encoding/json"

// GameResult is the single outcome contract shared by every game type.
// EarnedXP is set only in lesson mode and EarnedPoints only in quiz mode.
type GameResult struct {
	Success      bool            `json:"success"`
	Attempts     int             `json:"attempts"`
	TimeSpent    int             `json:"timeSpent"`
	EarnedXP     *int            `json:"earnedXp,omitempty"`
	EarnedPoints *int            `json:"earnedPoints,omitempty"`
	CorrectCount *int            `json:"correctCount,omitempty"`
	TotalCount   *int            `json:"totalCount,omitempty"`
	Mistakes     *int            `json:"mistakes,omitempty"`
	TimedOut     bool            `json:"timedOut,omitempty"`
	UserActions  json.RawMessage `json:"userActions,omitempty"`
}

// Earned returns whichever reward the result carries.
func (r GameResult) Earned() int {
	switch {
	case r.EarnedXP != nil:
		return *r.EarnedXP
	case r.EarnedPoints != nil:
		return *r.EarnedPoints
	}
	return 0
}

// Evaluation is what a game's rules conclude about a run state.
type Evaluation struct {
	Success  bool `json:"success"`
	Correct  int  `json:"correct"`
	Total    int  `json:"total"`
	Earned   int  `json:"earned"`
	Mistakes *int `json:"mistakes,omitempty"`
	// Detail is the per-type breakdown shown as lesson feedback.
	Detail any `json:"detail,omitempty"`
}
