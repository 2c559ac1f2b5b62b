package server

import (
	"sync"

	"github.com/playperu/minigames/internal/minigame"
	"github.com/playperu/minigames/internal/minigame/timer"
)

const (
	EventView   = "view"
	EventTimer  = "timer"
	EventResult = "result"
	EventError  = "error"
)

// Event is pushed to SSE and websocket subscribers of a play.
type Event struct {
	Type   string               `json:"type"`
	PlayID string               `json:"playId"`
	View   *minigame.View       `json:"view,omitempty"`
	Timer  *timer.Display       `json:"timer,omitempty"`
	Result *minigame.GameResult `json:"result,omitempty"`
	Error  string               `json:"error,omitempty"`
}

// Broker is an in-process pub/sub for play events, keyed by play ID.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan Event]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe returns a channel that receives events for the given play.
func (b *Broker) Subscribe(playID string) chan Event {
	ch := make(chan Event, 32)
	b.mu.Lock()
	if b.subs[playID] == nil {
		b.subs[playID] = make(map[chan Event]struct{})
	}
	b.subs[playID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the play's subscribers. It is a no-op
// once Close has run for the play.
func (b *Broker) Unsubscribe(playID string, ch chan Event) {
	b.mu.Lock()
	if _, ok := b.subs[playID][ch]; ok {
		delete(b.subs[playID], ch)
		close(ch)
	}
	if len(b.subs[playID]) == 0 {
		delete(b.subs, playID)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of the play.
func (b *Broker) Publish(playID string, ev Event) {
	ev.PlayID = playID
	b.mu.RLock()
	for ch := range b.subs[playID] {
		select {
		case ch <- ev:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}

// Close ends every subscription of the play.
func (b *Broker) Close(playID string) {
	b.mu.Lock()
	for ch := range b.subs[playID] {
		close(ch)
	}
	delete(b.subs, playID)
	b.mu.Unlock()
}

func (b *Broker) subscribers(playID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[playID])
}
