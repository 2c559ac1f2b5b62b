package minigame

// ActionKind names a player input.
type ActionKind string

const (
	ActionAssign      ActionKind = "assign"
	ActionUnassign    ActionKind = "unassign"
	ActionPair        ActionKind = "pair"
	ActionUnpair      ActionKind = "unpair"
	ActionPlace       ActionKind = "place"
	ActionRemove      ActionKind = "remove"
	ActionMark        ActionKind = "mark"
	ActionUnmark      ActionKind = "unmark"
	ActionAnswer      ActionKind = "answer"
	ActionSelect      ActionKind = "select"
	ActionFlip        ActionKind = "flip"
	ActionSwipe       ActionKind = "swipe"
	ActionAcknowledge ActionKind = "acknowledge"
	ActionMediaFailed ActionKind = "media-failed"
	ActionSubmit      ActionKind = "submit"
	ActionRetry       ActionKind = "retry"
	ActionFinish      ActionKind = "finish"
	ActionReset       ActionKind = "reset"
)

// Direction is a photo-swipe gesture.
type Direction string

const (
	// SwipeLeft flags a photo as unsafe.
	SwipeLeft Direction = "left"
	// SwipeRight accepts a photo as safe.
	SwipeRight Direction = "right"
)

// Action is one player input. Only the fields relevant to Kind are read.
type Action struct {
	Kind      ActionKind `json:"kind"`
	ItemID    string     `json:"itemId,omitempty"`
	TargetID  string     `json:"targetId,omitempty"`
	LeftID    string     `json:"leftId,omitempty"`
	RightID   string     `json:"rightId,omitempty"`
	OptionID  string     `json:"optionId,omitempty"`
	CardID    string     `json:"cardId,omitempty"`
	Index     *int       `json:"index,omitempty"`
	X         float64    `json:"x,omitempty"`
	Y         float64    `json:"y,omitempty"`
	Value     *bool      `json:"value,omitempty"`
	Direction Direction  `json:"direction,omitempty"`
}
