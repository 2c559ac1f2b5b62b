package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/playperu/minigames/internal/minigame"
	"github.com/playperu/minigames/internal/minigame/timer"
)

// StartRequest describes a play to mount. GameID is empty for inline
// preview configs.
type StartRequest struct {
	GameID        string
	Config        minigame.Config
	Mode          minigame.Mode
	PreviousState json.RawMessage
}

type livePlay struct {
	mu       sync.Mutex
	id       string
	gameID   string
	play     *minigame.Play
	lastSeen time.Time
}

// Plays holds every mounted play. Each play is guarded by its own mutex;
// the map lock is only held for lookups.
type Plays struct {
	logger     *slog.Logger
	dispatcher *minigame.Dispatcher
	broker     *Broker
	sink       *Sink
	idle       time.Duration
	now        func() time.Time

	mu   sync.RWMutex
	live map[string]*livePlay
}

func NewPlays(logger *slog.Logger, dispatcher *minigame.Dispatcher, broker *Broker, sink *Sink, idle time.Duration) *Plays {
	return &Plays{
		logger:     logger,
		dispatcher: dispatcher,
		broker:     broker,
		sink:       sink,
		idle:       idle,
		now:        time.Now,
		live:       make(map[string]*livePlay),
	}
}

// Start mounts a new play and returns its id and first view.
func (p *Plays) Start(req StartRequest) (string, minigame.View, error) {
	id := newID()
	mode := req.Mode
	play, err := p.dispatcher.Mount(minigame.MountRequest{
		Config:        req.Config,
		Mode:          mode,
		PreviousState: req.PreviousState,
		OnComplete: func(res minigame.GameResult) {
			p.broker.Publish(id, Event{Type: EventResult, Result: &res})
			p.sink.Emit(ResultRecord{
				PlayID:   id,
				GameID:   req.GameID,
				GameType: req.Config.GameType(),
				Mode:     mode,
				Result:   res,
			})
		},
		OnTimer: func(d timer.Display) {
			p.broker.Publish(id, Event{Type: EventTimer, Timer: &d})
		},
	})
	if err != nil {
		return "", minigame.View{}, fmt.Errorf("mounting play: %w", err)
	}

	lp := &livePlay{id: id, gameID: req.GameID, play: play, lastSeen: p.now()}
	p.mu.Lock()
	p.live[id] = lp
	p.mu.Unlock()

	p.logger.Info("play mounted",
		"play_id", id,
		"game_id", req.GameID,
		"game_type", req.Config.GameType(),
		"mode", mode,
		"review", len(req.PreviousState) > 0,
	)
	return id, play.View(), nil
}

func (p *Plays) get(id string) (*livePlay, error) {
	p.mu.RLock()
	lp, ok := p.live[id]
	p.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return lp, nil
}

// Do runs fn against the play and publishes the resulting view.
func (p *Plays) Do(id string, fn func(*minigame.Play) error) (minigame.View, error) {
	lp, err := p.get(id)
	if err != nil {
		return minigame.View{}, err
	}

	lp.mu.Lock()
	defer lp.mu.Unlock()

	lp.lastSeen = p.now()
	if err := fn(lp.play); err != nil {
		return minigame.View{}, err
	}
	view := lp.play.View()
	p.broker.Publish(id, Event{Type: EventView, View: &view})
	return view, nil
}

// Dispatch applies a player action.
func (p *Plays) Dispatch(id string, a minigame.Action) (minigame.View, error) {
	return p.Do(id, func(play *minigame.Play) error {
		return play.Dispatch(a)
	})
}

// View returns the current view after bringing the play up to date.
func (p *Plays) View(id string) (minigame.View, error) {
	lp, err := p.get(id)
	if err != nil {
		return minigame.View{}, err
	}

	lp.mu.Lock()
	defer lp.mu.Unlock()

	lp.lastSeen = p.now()
	lp.play.Tick(p.now())
	return lp.play.View(), nil
}

// Result returns the delivered result of the play, if any.
func (p *Plays) Result(id string) (minigame.GameResult, bool, error) {
	lp, err := p.get(id)
	if err != nil {
		return minigame.GameResult{}, false, err
	}

	lp.mu.Lock()
	defer lp.mu.Unlock()

	lp.lastSeen = p.now()
	lp.play.Tick(p.now())
	res, ok := lp.play.Result()
	return res, ok, nil
}

// Unmount tears the play down and ends its subscriptions.
func (p *Plays) Unmount(id string) error {
	p.mu.Lock()
	lp, ok := p.live[id]
	delete(p.live, id)
	p.mu.Unlock()
	if !ok {
		return ErrNotFound
	}

	p.unmount(lp)
	p.logger.Info("play unmounted", "play_id", id)
	return nil
}

func (p *Plays) unmount(lp *livePlay) {
	lp.mu.Lock()
	lp.play.Unmount()
	view := lp.play.View()
	lp.mu.Unlock()

	p.broker.Publish(lp.id, Event{Type: EventView, View: &view})
	p.broker.Close(lp.id)
}

// Len returns the number of mounted plays.
func (p *Plays) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.live)
}

// Run advances every play on each tick and evicts plays idle for longer
// than the idle timeout.
func (p *Plays) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.unmountAll()
			return nil
		case <-ticker.C:
			p.tick(p.now())
		}
	}
}

func (p *Plays) tick(now time.Time) {
	p.mu.RLock()
	plays := make([]*livePlay, 0, len(p.live))
	for _, lp := range p.live {
		plays = append(plays, lp)
	}
	p.mu.RUnlock()

	for _, lp := range plays {
		if p.idle > 0 && now.Sub(p.lastSeen(lp)) > p.idle {
			p.evict(lp)
			continue
		}
		p.advance(lp, now)
	}
}

func (p *Plays) lastSeen(lp *livePlay) time.Time {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	return lp.lastSeen
}

// advance ticks one play and publishes a view when the tick moved it.
func (p *Plays) advance(lp *livePlay, now time.Time) {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	state := lp.play.State()
	_, had := lp.play.Result()
	lp.play.Tick(now)
	_, has := lp.play.Result()
	if lp.play.State() == state && had == has {
		return
	}
	view := lp.play.View()
	p.broker.Publish(lp.id, Event{Type: EventView, View: &view})
}

func (p *Plays) evict(lp *livePlay) {
	p.mu.Lock()
	delete(p.live, lp.id)
	p.mu.Unlock()

	p.unmount(lp)
	p.logger.Info("play evicted", "play_id", lp.id, "idle_timeout", p.idle)
}

func (p *Plays) unmountAll() {
	p.mu.Lock()
	plays := p.live
	p.live = make(map[string]*livePlay)
	p.mu.Unlock()

	for _, lp := range plays {
		p.unmount(lp)
	}
}
