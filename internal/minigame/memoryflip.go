package minigame

import (
	"fmt"
	"slices"
	"time"

	"github.com/samber/lo"
)

// MemoryCard is a face-down card.
type MemoryCard struct {
	ID       string `json:"id"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// MemoryPair names the two cards that belong together and what finding them
// is worth.
type MemoryPair struct {
	ID      string   `json:"id"`
	CardIDs []string `json:"cardIds"`
	Reward
}

// MemoryFlipConfig is a concentration game. A game finished without a single
// mismatch multiplies the total by PerfectGameMultiplier.
type MemoryFlipConfig struct {
	Instruction           string       `json:"instruction"`
	Cards                 []MemoryCard `json:"cards"`
	Pairs                 []MemoryPair `json:"pairs"`
	PerfectGameMultiplier float64      `json:"perfectGameMultiplier,omitempty"`
	TimeLimitSeconds      int          `json:"timeLimitSeconds,omitempty"`
}

func (MemoryFlipConfig) GameType() Type { return TypeMemoryFlip }
func (MemoryFlipConfig) sealed()        {}

func (c MemoryFlipConfig) TimeLimit() time.Duration { return limit(c.TimeLimitSeconds) }

func (c MemoryFlipConfig) Validate(f RewardField) ValidationResult {
	var d defects
	d.text(c.Instruction, "instruction")
	d.atLeast(len(c.Pairs), 2, "pairs")
	if len(c.Cards)%2 != 0 {
		d.addf("card count must be even, got %d", len(c.Cards))
	}

	cards := d.ids("card", lo.Map(c.Cards, func(card MemoryCard, _ int) string { return card.ID }))
	for i, card := range c.Cards {
		d.oneOf(card.Content, card.ImageURL, describe("card", i, card.ID), "content or an image")
	}

	d.ids("pair", lo.Map(c.Pairs, func(p MemoryPair, _ int) string { return p.ID }))
	uses := map[string]int{}
	for i, p := range c.Pairs {
		label := describe("pair", i, p.ID)
		if len(p.CardIDs) != 2 {
			d.addf("%s must reference exactly 2 cards, got %d", label, len(p.CardIDs))
		}
		if len(p.CardIDs) == 2 && p.CardIDs[0] == p.CardIDs[1] {
			d.addf("%s references card %q twice", label, p.CardIDs[0])
		}
		for _, id := range lo.Uniq(p.CardIDs) {
			if !cards[id] {
				d.addf("%s references unknown card %q", label, id)
				continue
			}
			uses[id]++
		}
		p.Reward.check(&d, f, label, false)
	}
	for _, card := range c.Cards {
		switch n := uses[card.ID]; {
		case card.ID == "":
		case n == 0:
			d.addf("card %q is not part of any pair", card.ID)
		case n > 1:
			d.addf("card %q is used in %d pairs", card.ID, n)
		}
	}

	if c.PerfectGameMultiplier != 0 && c.PerfectGameMultiplier < 1 {
		d.addf("perfectGameMultiplier must be at least 1")
	}
	if c.TimeLimitSeconds < 0 {
		d.addf("timeLimitSeconds must not be negative")
	}
	return d.result()
}

// MemoryState tracks face-up cards, found pairs and mismatches.
type MemoryState struct {
	Revealed []string `json:"revealed"`
	Matched  []string `json:"matched"`
	Moves    int      `json:"moves"`
	Mistakes int      `json:"mistakes"`
}

// MemoryFeedback reports the perfect-game bonus.
type MemoryFeedback struct {
	Matched    []string `json:"matched"`
	Perfect    bool     `json:"perfect"`
	Multiplier float64  `json:"multiplier"`
}

type memoryRules struct {
	cfg    MemoryFlipConfig
	pairOf map[string]MemoryPair
	cards  map[string]bool
}

func newMemoryRules(cfg MemoryFlipConfig) memoryRules {
	pairs := make(map[string]MemoryPair, len(cfg.Pairs))
	for _, p := range cfg.Pairs {
		if len(p.CardIDs) == 2 {
			pairs[pairKey(p.CardIDs[0], p.CardIDs[1])] = p
		}
	}
	return memoryRules{
		cfg:    cfg,
		pairOf: pairs,
		cards:  lo.SliceToMap(cfg.Cards, func(c MemoryCard) (string, bool) { return c.ID, true }),
	}
}

func (r memoryRules) Initial() MemoryState {
	return MemoryState{Revealed: []string{}, Matched: []string{}}
}

func (r memoryRules) matchedCard(s MemoryState, id string) bool {
	return lo.SomeBy(s.Matched, func(pairID string) bool {
		p, ok := lo.Find(r.cfg.Pairs, func(p MemoryPair) bool { return p.ID == pairID })
		return ok && slices.Contains(p.CardIDs, id)
	})
}

func (r memoryRules) Reduce(s MemoryState, a Action) (MemoryState, error) {
	next := MemoryState{
		Revealed: slices.Clone(s.Revealed),
		Matched:  slices.Clone(s.Matched),
		Moves:    s.Moves,
		Mistakes: s.Mistakes,
	}

	switch a.Kind {
	case ActionAcknowledge:
		if len(next.Revealed) == 2 {
			next.Revealed = []string{}
		}
		return next, nil
	case ActionFlip:
	default:
		return s, ErrUnknownAction
	}

	if !r.cards[a.CardID] {
		return s, ErrUnknownElement
	}
	// A mismatched pair stays face up until the next flip.
	if len(next.Revealed) == 2 {
		next.Revealed = []string{}
	}
	if r.matchedCard(s, a.CardID) || slices.Contains(next.Revealed, a.CardID) {
		return s, fmt.Errorf("%w: card %q is already face up", ErrInvalidAction, a.CardID)
	}

	next.Revealed = append(next.Revealed, a.CardID)
	if len(next.Revealed) < 2 {
		return next, nil
	}
	next.Moves++
	if p, ok := r.pairOf[pairKey(next.Revealed[0], next.Revealed[1])]; ok {
		next.Matched = append(next.Matched, p.ID)
		next.Revealed = []string{}
	} else {
		next.Mistakes++
	}
	return next, nil
}

func (r memoryRules) Finished(s MemoryState) bool {
	return len(r.pairOf) > 0 && len(s.Matched) >= len(r.pairOf)
}

func (r memoryRules) Ready(s MemoryState) bool { return r.Finished(s) }

func (r memoryRules) Evaluate(s MemoryState, f RewardField) Evaluation {
	earned := 0
	for _, p := range r.cfg.Pairs {
		if slices.Contains(s.Matched, p.ID) {
			earned += p.Reward.Value(f)
		}
	}
	finished := r.Finished(s)
	perfect := finished && s.Mistakes == 0
	multiplier := 1.0
	if perfect && r.cfg.PerfectGameMultiplier > 1 {
		multiplier = r.cfg.PerfectGameMultiplier
		earned = multiply(earned, multiplier)
	}
	mistakes := s.Mistakes
	return Evaluation{
		Success:  finished,
		Correct:  len(s.Matched),
		Total:    len(r.cfg.Pairs),
		Earned:   earned,
		Mistakes: &mistakes,
		Detail:   MemoryFeedback{Matched: s.Matched, Perfect: perfect, Multiplier: multiplier},
	}
}
