package minigame

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/playperu/minigames/internal/minigame/timer"
)

// Dispatcher mounts configs as plays.
type Dispatcher struct {
	now              func() time.Time
	feedbackDelay    time.Duration
	celebrationDelay time.Duration
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// WithDelays overrides the lesson feedback and celebration delays.
func WithDelays(feedback, celebration time.Duration) Option {
	return func(d *Dispatcher) {
		d.feedbackDelay = feedback
		d.celebrationDelay = celebration
	}
}

// NewDispatcher returns a dispatcher using the wall clock and the default
// lesson delays.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		now:              time.Now,
		feedbackDelay:    FeedbackDelay,
		celebrationDelay: CelebrationDelay,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// MountRequest describes a play to mount.
type MountRequest struct {
	Config Config
	Mode   Mode
	// PreviousState is a prior GameResult or its userActions blob. When set
	// the play is mounted as a read-only review.
	PreviousState json.RawMessage
	OnComplete    func(GameResult)
	OnTimer       func(timer.Display)
}

// Mount builds the play for req.Config.
func (d *Dispatcher) Mount(req MountRequest) (*Play, error) {
	if req.Config == nil {
		return nil, fmt.Errorf("%w: no config", ErrUnknownType)
	}
	mode := req.Mode
	if mode == "" {
		mode = ModeLesson
	}
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}
	b, err := boardFor(req.Config, mode)
	if err != nil {
		return nil, err
	}

	now := d.now()
	p := &Play{
		cfg:              req.Config,
		mode:             mode,
		board:            b,
		life:             newLifecycle(),
		now:              d.now,
		startedAt:        now,
		feedbackDelay:    d.feedbackDelay,
		celebrationDelay: d.celebrationDelay,
		onComplete:       req.OnComplete,
		onTimer:          req.OnTimer,
	}

	if len(req.PreviousState) > 0 && string(req.PreviousState) != "null" {
		if err := p.restoreReview(req.PreviousState); err != nil {
			return nil, fmt.Errorf("mounting review: %w", err)
		}
		return p, nil
	}

	if t, ok := req.Config.(Timed); ok && mode.Scored() && t.TimeLimit() > 0 {
		p.countdown = timer.NewCountdown(t.TimeLimit(), now)
		p.showTimer(p.countdown.Read(now))
	}
	return p, nil
}

func boardFor(cfg Config, mode Mode) (board, error) {
	switch c := cfg.(type) {
	case HotspotConfig:
		return newSession[HotspotState](TypeHotspot, hotspotRules{cfg: c}), nil
	case DragDropConfig:
		return newSession[PlacementState](TypeDragDrop, newSortingRules(c.Items, c.Targets, c.Reward)), nil
	case TimeAttackSortingConfig:
		return newSession[PlacementState](TypeTimeAttackSorting, newSortingRules(c.Items, c.Targets, c.Reward)), nil
	case MatchingConfig:
		return newSession[MatchingState](TypeMatching, newMatchingRules(c)), nil
	case SequenceConfig:
		return newSession[SequenceState](TypeSequence, sequenceRules{cfg: c}), nil
	case TrueFalseConfig:
		return newSession[TrueFalseState](TypeTrueFalse, trueFalseRules{cfg: c}), nil
	case MultipleChoiceConfig:
		return newSession[ChoiceState](TypeMultipleChoice, newMultipleChoiceRules(c)), nil
	case ScenarioConfig:
		return newSession[ChoiceState](TypeScenario, newScenarioRules(c)), nil
	case MemoryFlipConfig:
		return newSession[MemoryState](TypeMemoryFlip, newMemoryRules(c)), nil
	case PhotoSwipeConfig:
		// Quiz plays stay silent, so a wrong swipe never pauses the deck there.
		pause := !c.TimeAttackMode && mode != ModeQuiz
		return newSession[SwipeState](TypePhotoSwipe, photoSwipeRules{cfg: c, pause: pause}), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnknownType, cfg)
}
