package minigame

import (
	"encoding/json"
	"fmt"
)

// rules are the pure interaction and scoring rules of one game type over a
// run state S. Reduce returns a new state and never modifies s.
type rules[S any] interface {
	Initial() S
	Reduce(s S, a Action) (S, error)
	Ready(s S) bool
	Evaluate(s S, f RewardField) Evaluation
}

// continuous rules finish by themselves instead of waiting for a submit.
type continuous[S any] interface {
	Finished(s S) bool
}

// board is a type-erased run state bound to its rules.
type board interface {
	apply(a Action) error
	ready() bool
	continuous() bool
	finished() bool
	evaluate(f RewardField) Evaluation
	state() any
	snapshot() (json.RawMessage, error)
	restore(raw json.RawMessage) error
	reset()
}

// replay is the userActions blob: enough to rebuild a run state exactly.
type replay struct {
	GameType Type            `json:"gameType"`
	State    json.RawMessage `json:"state"`
}

type session[S any] struct {
	kind  Type
	rules rules[S]
	cur   S
}

func newSession[S any](kind Type, r rules[S]) *session[S] {
	return &session[S]{kind: kind, rules: r, cur: r.Initial()}
}

func (s *session[S]) apply(a Action) error {
	next, err := s.rules.Reduce(s.cur, a)
	if err != nil {
		return err
	}
	s.cur = next
	return nil
}

func (s *session[S]) ready() bool { return s.rules.Ready(s.cur) }

func (s *session[S]) continuous() bool {
	_, ok := s.rules.(continuous[S])
	return ok
}

func (s *session[S]) finished() bool {
	c, ok := s.rules.(continuous[S])
	return ok && c.Finished(s.cur)
}

func (s *session[S]) evaluate(f RewardField) Evaluation { return s.rules.Evaluate(s.cur, f) }

func (s *session[S]) state() any { return s.cur }

func (s *session[S]) reset() { s.cur = s.rules.Initial() }

func (s *session[S]) snapshot() (json.RawMessage, error) {
	state, err := json.Marshal(s.cur)
	if err != nil {
		return nil, fmt.Errorf("encoding %s state: %w", s.kind, err)
	}
	return json.Marshal(replay{GameType: s.kind, State: state})
}

func (s *session[S]) restore(raw json.RawMessage) error {
	var r replay
	if err := json.Unmarshal(raw, &r); err != nil {
		return fmt.Errorf("decoding previous state: %w", err)
	}
	if r.GameType != s.kind {
		return fmt.Errorf("previous state is for %q, not %q", r.GameType, s.kind)
	}
	next := s.rules.Initial()
	if err := json.Unmarshal(r.State, &next); err != nil {
		return fmt.Errorf("decoding %s state: %w", s.kind, err)
	}
	s.cur = next
	return nil
}

// cloneMap copies m so reducers can return a modified state.
func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "\x00" + b
}
