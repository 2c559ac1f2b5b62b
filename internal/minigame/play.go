package minigame

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/looplab/fsm"
	"github.com/samber/lo"

	"github.com/playperu/minigames/internal/minigame/timer"
)

// State is a play's lifecycle position.
type State string

const (
	StateIdle        State = "idle"
	StateInteracting State = "interacting"
	StateSubmitted   State = "submitted"
	StateComplete    State = "complete"
	StateTimedOut    State = "timed_out"
)

const (
	eventInteract = "interact"
	eventSubmit   = "submit"
	eventRetry    = "retry"
	eventComplete = "complete"
	eventTimeout  = "timeout"
	eventReset    = "reset"
)

const (
	// CelebrationDelay holds back a fully correct lesson result while the
	// celebration plays.
	CelebrationDelay = 2200 * time.Millisecond
	// FeedbackDelay holds back a timed-out or finished lesson result while
	// the feedback is read.
	FeedbackDelay = 1500 * time.Millisecond
)

func newLifecycle() *fsm.FSM {
	idle, interacting := string(StateIdle), string(StateInteracting)
	submitted, complete, timedOut := string(StateSubmitted), string(StateComplete), string(StateTimedOut)

	return fsm.NewFSM(idle, fsm.Events{
		{Name: eventInteract, Src: []string{idle}, Dst: interacting},
		{Name: eventSubmit, Src: []string{interacting}, Dst: submitted},
		{Name: eventRetry, Src: []string{submitted}, Dst: interacting},
		{Name: eventComplete, Src: []string{submitted}, Dst: complete},
		{Name: eventTimeout, Src: []string{idle, interacting}, Dst: timedOut},
		{Name: eventReset, Src: []string{interacting, submitted, complete, timedOut}, Dst: idle},
	}, fsm.Callbacks{})
}

// Play is one mounted game instance. It owns its run state and countdown and
// is not safe for concurrent use; callers serialise access.
type Play struct {
	cfg   Config
	mode  Mode
	board board
	life  *fsm.FSM
	now   func() time.Time

	countdown *timer.Countdown
	display   timer.Display

	startedAt time.Time
	attempts  int
	review    bool
	unmounted bool
	celebrate bool
	hidden    []string

	eval      *Evaluation
	scored    *GameResult
	deliverAt time.Time
	delivered bool

	feedbackDelay    time.Duration
	celebrationDelay time.Duration
	onComplete       func(GameResult)
	onTimer          func(timer.Display)
}

// GameType returns the type of the mounted config.
func (p *Play) GameType() Type { return p.cfg.GameType() }

// Mode returns the mode the play was mounted in.
func (p *Play) Mode() Mode { return p.mode }

// Config returns the mounted config.
func (p *Play) Config() Config { return p.cfg }

// State returns the current lifecycle state.
func (p *Play) State() State { return State(p.life.Current()) }

// Result returns the delivered result, if any.
func (p *Play) Result() (GameResult, bool) {
	if !p.delivered || p.scored == nil {
		return GameResult{}, false
	}
	return *p.scored, true
}

func (p *Play) submitted() bool {
	switch p.State() {
	case StateSubmitted, StateComplete, StateTimedOut:
		return true
	}
	return false
}

// transition fires event when the lifecycle allows it from the current state.
func (p *Play) transition(event string) {
	if p.life.Can(event) {
		_ = p.life.Event(context.Background(), event)
	}
}

func (p *Play) writable() error {
	switch {
	case p.unmounted:
		return ErrUnmounted
	case p.review:
		return ErrReadOnly
	}
	return nil
}

// Dispatch applies one player action.
func (p *Play) Dispatch(a Action) error {
	switch a.Kind {
	case ActionSubmit:
		return p.Submit()
	case ActionRetry:
		return p.Retry()
	case ActionFinish:
		return p.Finish()
	case ActionReset:
		return p.Reset()
	case ActionMediaFailed:
		return p.hide(a)
	}
	return p.interact(a)
}

func (p *Play) interact(a Action) error {
	if err := p.writable(); err != nil {
		return err
	}
	now := p.now()
	p.advance(now)
	if p.submitted() {
		return ErrAlreadySubmitted
	}
	if err := p.board.apply(a); err != nil {
		return err
	}
	if !p.mode.Scored() {
		return nil
	}
	if p.State() == StateIdle {
		p.transition(eventInteract)
	}
	if p.board.finished() {
		p.conclude(now, false)
	}
	return nil
}

// Submit scores the current answer. It fails without side effects when the
// answer is incomplete or the play was already scored.
func (p *Play) Submit() error {
	if p.mode == ModePreview {
		return ErrPreviewMode
	}
	if err := p.writable(); err != nil {
		return err
	}
	now := p.now()
	p.advance(now)
	if p.submitted() {
		return ErrAlreadySubmitted
	}
	if !p.board.ready() {
		return ErrNotReady
	}
	p.conclude(now, false)
	return nil
}

// Retry clears an incorrect lesson answer so the player can try again. The
// attempt counter moves on the next submission.
func (p *Play) Retry() error {
	if err := p.writable(); err != nil {
		return err
	}
	now := p.now()
	p.advance(now)
	if p.mode != ModeLesson || p.State() != StateSubmitted || !p.deliverAt.IsZero() || p.delivered {
		return ErrRetryUnavailable
	}
	p.board.reset()
	p.eval, p.scored = nil, nil
	p.transition(eventRetry)
	p.restartTimer(now)
	return nil
}

// Finish delivers a submitted lesson result without waiting for a retry or
// the feedback delay.
func (p *Play) Finish() error {
	if err := p.writable(); err != nil {
		return err
	}
	now := p.now()
	p.advance(now)
	if p.mode != ModeLesson || p.scored == nil || p.delivered {
		return ErrNotSubmitted
	}
	p.deliverAt = now
	p.flush(now)
	return nil
}

// Reset starts a new play-through. A scored result that has not been
// delivered yet is delivered first.
func (p *Play) Reset() error {
	if err := p.writable(); err != nil {
		return err
	}
	now := p.now()
	if p.scored != nil && !p.delivered {
		p.deliver()
	}
	p.board.reset()
	p.eval, p.scored = nil, nil
	p.deliverAt, p.delivered = time.Time{}, false
	p.attempts, p.celebrate = 0, false
	p.startedAt = now
	p.transition(eventReset)
	p.restartTimer(now)
	return nil
}

// Tick advances the countdown and any pending lesson delivery to now.
func (p *Play) Tick(now time.Time) {
	if p.unmounted {
		return
	}
	p.advance(now)
}

// Unmount drops the run state and the countdown. A scored result that
// has not been delivered yet is delivered first. The play accepts no
// further input.
func (p *Play) Unmount() {
	if p.unmounted {
		return
	}
	if p.scored != nil && !p.delivered && !p.review {
		p.deliver()
	}
	p.unmounted = true
	p.board.reset()
	p.countdown = nil
	if p.display.Hide() && p.onTimer != nil {
		p.onTimer(p.display)
	}
}

func (p *Play) hide(a Action) error {
	if err := p.writable(); err != nil {
		return err
	}
	id := lo.Compact([]string{a.ItemID, a.CardID, a.OptionID, a.TargetID})
	if len(id) == 0 {
		return ErrInvalidAction
	}
	if !slices.Contains(p.hidden, id[0]) {
		p.hidden = append(p.hidden, id[0])
	}
	return nil
}

func (p *Play) advance(now time.Time) {
	if p.countdown != nil && !p.submitted() {
		r, expired := p.countdown.Tick(now)
		p.showTimer(r)
		if expired {
			p.conclude(now, true)
		}
	}
	p.flush(now)
}

// conclude scores the run state once and schedules its delivery.
func (p *Play) conclude(now time.Time, timedOut bool) {
	p.attempts++
	ev := p.board.evaluate(p.mode.RewardField())
	p.eval = &ev
	res := p.resultFor(ev, now, timedOut)
	p.scored = &res
	if p.countdown != nil {
		p.countdown.Stop()
	}

	if timedOut {
		p.transition(eventTimeout)
	} else {
		p.transition(eventSubmit)
	}

	switch {
	case p.mode == ModeQuiz:
		p.deliverAt = now
	case ev.Success:
		p.celebrate = true
		p.deliverAt = now.Add(p.celebrationDelay)
	case timedOut || p.board.continuous():
		p.deliverAt = now.Add(p.feedbackDelay)
	default:
		// Lesson: wait for retry or finish.
		p.deliverAt = time.Time{}
	}
	p.flush(now)
}

func (p *Play) flush(now time.Time) {
	if p.scored == nil || p.delivered || p.deliverAt.IsZero() || now.Before(p.deliverAt) {
		return
	}
	p.deliver()
}

func (p *Play) deliver() {
	if p.State() == StateSubmitted {
		p.transition(eventComplete)
	}
	p.delivered = true
	if p.display.Hide() && p.onTimer != nil {
		p.onTimer(p.display)
	}
	if p.onComplete != nil {
		p.onComplete(*p.scored)
	}
}

func (p *Play) resultFor(ev Evaluation, now time.Time, timedOut bool) GameResult {
	res := GameResult{
		Success:      ev.Success,
		Attempts:     p.attempts,
		TimeSpent:    int(math.Round(now.Sub(p.startedAt).Seconds())),
		CorrectCount: lo.ToPtr(ev.Correct),
		TotalCount:   lo.ToPtr(ev.Total),
		Mistakes:     ev.Mistakes,
		TimedOut:     timedOut,
	}
	switch p.mode {
	case ModeLesson:
		res.EarnedXP = lo.ToPtr(ev.Earned)
	case ModeQuiz:
		res.EarnedPoints = lo.ToPtr(ev.Earned)
	}
	if blob, err := p.board.snapshot(); err == nil {
		res.UserActions = blob
	}
	return res
}

func (p *Play) showTimer(r timer.Reading) {
	if p.display.Update(r) && p.onTimer != nil {
		p.onTimer(p.display)
	}
}

func (p *Play) restartTimer(now time.Time) {
	p.celebrate = false
	if p.countdown == nil {
		return
	}
	p.countdown.Restart(now)
	p.showTimer(p.countdown.Read(now))
}

// View is a render-ready snapshot of a play.
type View struct {
	GameType     Type           `json:"gameType"`
	Mode         Mode           `json:"mode"`
	State        State          `json:"state"`
	Attempts     int            `json:"attempts"`
	IsSubmitted  bool           `json:"isSubmitted"`
	ShowFeedback bool           `json:"showFeedback"`
	CanSubmit    bool           `json:"canSubmit"`
	CanRetry     bool           `json:"canRetry"`
	ReadOnly     bool           `json:"readOnly"`
	Celebrate    bool           `json:"celebrate,omitempty"`
	RunState     any            `json:"runState"`
	Feedback     *Evaluation    `json:"feedback,omitempty"`
	Timer        *timer.Display `json:"timer,omitempty"`
	Hidden       []string       `json:"hidden,omitempty"`
	Result       *GameResult    `json:"result,omitempty"`
}

// View returns the current snapshot.
func (p *Play) View() View {
	v := View{
		GameType:    p.GameType(),
		Mode:        p.mode,
		State:       p.State(),
		Attempts:    p.attempts,
		IsSubmitted: p.submitted(),
		ReadOnly:    p.review || p.unmounted,
		Celebrate:   p.celebrate,
		RunState:    p.board.state(),
		Hidden:      p.hidden,
	}
	if !v.ReadOnly && p.mode.Scored() && !v.IsSubmitted && !p.board.continuous() {
		v.CanSubmit = p.board.ready()
	}
	v.CanRetry = !v.ReadOnly && p.mode == ModeLesson && v.State == StateSubmitted &&
		p.deliverAt.IsZero() && !p.delivered
	if p.mode != ModeQuiz && p.eval != nil {
		ev := *p.eval
		v.ShowFeedback = true
		v.Feedback = &ev
	}
	if p.display.Visible {
		d := p.display
		v.Timer = &d
	}
	if res, ok := p.Result(); ok {
		v.Result = &res
	}
	return v
}

// restoreReview rebuilds a finished play from a previous result for display.
func (p *Play) restoreReview(raw json.RawMessage) error {
	blob, prev, err := parsePrevious(raw)
	if err != nil {
		return err
	}
	if err := p.board.restore(blob); err != nil {
		return err
	}
	p.review = true
	p.life.SetState(string(StateSubmitted))

	ev := p.board.evaluate(p.mode.RewardField())
	if prev != nil {
		p.attempts = prev.Attempts
		ev.Earned = prev.Earned()
		p.scored, p.delivered = prev, true
	}
	p.eval = &ev
	return nil
}

// parsePrevious accepts either a whole GameResult or its userActions blob.
func parsePrevious(raw json.RawMessage) (json.RawMessage, *GameResult, error) {
	var probe struct {
		UserActions json.RawMessage `json:"userActions"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, nil, fmt.Errorf("decoding previous state: %w", err)
	}
	if len(probe.UserActions) == 0 {
		return raw, nil, nil
	}
	var prev GameResult
	if err := json.Unmarshal(raw, &prev); err != nil {
		return nil, nil, fmt.Errorf("decoding previous result: %w", err)
	}
	return prev.UserActions, &prev, nil
}
