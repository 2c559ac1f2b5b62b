// Package minigame implements the interactive mini-games embedded in lessons
// and quizzes. Every game type pairs an author configuration with a set of
// pure rules; a Play drives those rules through the shared lifecycle and
// emits exactly one GameResult per play-through.
package minigame

import (
	"errors"
	"fmt"
	"slices"
)

// Type identifies a game variant.
type Type string

const (
	TypeHotspot           Type = "hotspot"
	TypeDragDrop          Type = "drag-drop"
	TypeMatching          Type = "matching"
	TypeSequence          Type = "sequence"
	TypeTrueFalse         Type = "true-false"
	TypeMultipleChoice    Type = "multiple-choice"
	TypeScenario          Type = "scenario"
	TypeMemoryFlip        Type = "memory-flip"
	TypePhotoSwipe        Type = "photo-swipe"
	TypeTimeAttackSorting Type = "time-attack-sorting"
)

// Types lists every supported game type.
var Types = []Type{
	TypeHotspot,
	TypeDragDrop,
	TypeMatching,
	TypeSequence,
	TypeTrueFalse,
	TypeMultipleChoice,
	TypeScenario,
	TypeMemoryFlip,
	TypePhotoSwipe,
	TypeTimeAttackSorting,
}

// Valid reports whether t is a known game type.
func (t Type) Valid() bool { return slices.Contains(Types, t) }

// Mode selects how a play is scored and presented.
type Mode string

const (
	ModePreview Mode = "preview"
	ModeLesson  Mode = "lesson"
	ModeQuiz    Mode = "quiz"
)

// ParseMode validates a mode string. The empty string means lesson.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case "":
		return ModeLesson, nil
	case ModePreview, ModeLesson, ModeQuiz:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Scored reports whether plays in this mode produce results.
func (m Mode) Scored() bool { return m == ModeLesson || m == ModeQuiz }

// RewardField is the reward currency a mode pays out in.
func (m Mode) RewardField() RewardField {
	if m == ModeQuiz {
		return RewardPoints
	}
	return RewardXP
}

var (
	ErrUnknownType      = errors.New("unknown game type")
	ErrUnknownMode      = errors.New("unknown mode")
	ErrUnknownAction    = errors.New("action not supported by this game")
	ErrUnknownElement   = errors.New("unknown element")
	ErrInvalidAction    = errors.New("invalid action")
	ErrLimitReached     = errors.New("no more marks allowed")
	ErrBlocked          = errors.New("acknowledge the feedback first")
	ErrNotReady         = errors.New("answer is incomplete")
	ErrAlreadySubmitted = errors.New("already submitted")
	ErrNotSubmitted     = errors.New("not submitted")
	ErrPreviewMode      = errors.New("preview plays are not scored")
	ErrReadOnly         = errors.New("play is a read-only review")
	ErrRetryUnavailable = errors.New("try again is only available after an incorrect lesson answer")
	ErrUnmounted        = errors.New("play is unmounted")
)
