package minigame

import (
	"encoding/json"
	"fmt"
	"time"
)

// Config is one arm of the closed game configuration union.
type Config interface {
	Validator
	GameType() Type
	sealed()
}

// Timed is implemented by configs that may run a countdown. A zero limit
// means the play is untimed.
type Timed interface {
	TimeLimit() time.Duration
}

// Envelope is the persisted and transported form of a config.
type Envelope struct {
	GameType Type            `json:"gameType"`
	Config   json.RawMessage `json:"config"`
}

// Decode parses raw as the config arm selected by t.
func Decode(t Type, raw json.RawMessage) (Config, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s config is empty", t)
	}
	switch t {
	case TypeHotspot:
		return decodeAs[HotspotConfig](t, raw)
	case TypeDragDrop:
		return decodeAs[DragDropConfig](t, raw)
	case TypeMatching:
		return decodeAs[MatchingConfig](t, raw)
	case TypeSequence:
		return decodeAs[SequenceConfig](t, raw)
	case TypeTrueFalse:
		return decodeAs[TrueFalseConfig](t, raw)
	case TypeMultipleChoice:
		return decodeAs[MultipleChoiceConfig](t, raw)
	case TypeScenario:
		return decodeAs[ScenarioConfig](t, raw)
	case TypeMemoryFlip:
		return decodeAs[MemoryFlipConfig](t, raw)
	case TypePhotoSwipe:
		return decodeAs[PhotoSwipeConfig](t, raw)
	case TypeTimeAttackSorting:
		return decodeAs[TimeAttackSortingConfig](t, raw)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
}

// DecodeEnvelope parses an envelope and its config.
func DecodeEnvelope(e Envelope) (Config, error) {
	return Decode(e.GameType, e.Config)
}

func decodeAs[C Config](t Type, raw json.RawMessage) (Config, error) {
	var c C
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decoding %s config: %w", t, err)
	}
	return c, nil
}

func limit(seconds int) time.Duration {
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
