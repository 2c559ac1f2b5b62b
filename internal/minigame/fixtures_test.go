package minigame

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func ptr[T any](v T) *T { return &v }

func dragDropFixture() DragDropConfig {
	return DragDropConfig{
		Instruction: "Sort the equipment",
		Items: []SortItem{
			{ID: "helmet", Content: "Helmet", CorrectTargetID: "ppe"},
			{ID: "gloves", Content: "Gloves", CorrectTargetID: "ppe"},
			{ID: "ladder", Content: "Ladder", CorrectTargetID: "tools"},
			{ID: "drill", Content: "Drill", CorrectTargetID: "tools"},
		},
		Targets: []SortTarget{
			{ID: "ppe", Label: "Protective gear"},
			{ID: "tools", Label: "Tools"},
		},
		Reward: Reward{XP: 100},
	}
}

func timeAttackFixture() TimeAttackSortingConfig {
	dd := dragDropFixture()
	return TimeAttackSortingConfig{
		Instruction:      dd.Instruction,
		Items:            dd.Items,
		Targets:          dd.Targets,
		TimeLimitSeconds: 30,
		Reward:           Reward{Points: 40},
	}
}

func matchingFixture() MatchingConfig {
	return MatchingConfig{
		Instruction: "Match each sign to its meaning",
		LeftItems:   []MatchItem{{ID: "l1", Text: "Red"}, {ID: "l2", Text: "Green"}},
		RightItems:  []MatchItem{{ID: "r1", Text: "Stop"}, {ID: "r2", Text: "Go"}},
		Pairs:       []MatchPair{{LeftID: "l1", RightID: "r1"}, {LeftID: "l2", RightID: "r2"}},
		Reward:      Reward{XP: 30},
	}
}

func sequenceFixture() SequenceConfig {
	return SequenceConfig{
		Instruction:  "Put the steps in order",
		Items:        []SequenceItem{{ID: "a", Text: "Assess"}, {ID: "b", Text: "Call"}, {ID: "c", Text: "Treat"}},
		CorrectOrder: []string{"a", "b", "c"},
		Reward:       Reward{XP: 20},
	}
}

func hotspotFixture() HotspotConfig {
	return HotspotConfig{
		Instruction: "Find the hazards",
		ImageURL:    "https://cdn.example.com/site.jpg",
		Hotspots: []Hotspot{
			{ID: "cable", X: 20, Y: 20, Radius: 5},
			{ID: "spill", X: 70, Y: 60, Radius: 8},
		},
		Reward: Reward{XP: 15},
	}
}

func trueFalseFixture() TrueFalseConfig {
	return TrueFalseConfig{
		Instruction:   "True or false?",
		Statement:     "Water conducts electricity.",
		CorrectAnswer: ptr(true),
		Reward:        Reward{XP: 10},
	}
}

func multipleChoiceFixture() MultipleChoiceConfig {
	return MultipleChoiceConfig{
		Instruction: "Pick one",
		Question:    "Which extinguisher is used on electrical fires?",
		Options: []ChoiceOption{
			{ID: "water", Text: "Water"},
			{ID: "co2", Text: "CO2", IsCorrect: true},
			{ID: "foam", Text: "Foam"},
		},
		Reward: Reward{XP: 10},
	}
}

func scenarioFixture() ScenarioConfig {
	return ScenarioConfig{
		Instruction: "Choose every right response",
		Scenario:    "A colleague collapses in the warehouse.",
		Options: []ScenarioOption{
			{ID: "call", Text: "Call for help", IsCorrect: true, Reward: Reward{XP: 10}},
			{ID: "check", Text: "Check breathing", IsCorrect: true, Reward: Reward{XP: 10}},
			{ID: "aed", Text: "Fetch the AED", IsCorrect: true, Reward: Reward{XP: 10}},
			{ID: "leave", Text: "Walk away", Feedback: "Never leave a casualty alone."},
		},
	}
}

func memoryFixture() MemoryFlipConfig {
	return MemoryFlipConfig{
		Instruction: "Find the pairs",
		Cards: []MemoryCard{
			{ID: "c1", Content: "Flammable"}, {ID: "c2", ImageURL: "https://cdn.example.com/flame.png"},
			{ID: "c3", Content: "Toxic"}, {ID: "c4", ImageURL: "https://cdn.example.com/skull.png"},
		},
		Pairs: []MemoryPair{
			{ID: "p1", CardIDs: []string{"c1", "c2"}, Reward: Reward{XP: 10}},
			{ID: "p2", CardIDs: []string{"c3", "c4"}, Reward: Reward{XP: 10}},
		},
		PerfectGameMultiplier: 2,
	}
}

func photoSwipeFixture() PhotoSwipeConfig {
	return PhotoSwipeConfig{
		Instruction: "Swipe right on safe workplaces",
		Cards: []SwipeCard{
			{ID: "s1", ImageURL: "https://cdn.example.com/1.jpg", IsCorrect: true, Reward: Reward{XP: 5}},
			{ID: "s2", ImageURL: "https://cdn.example.com/2.jpg", IsCorrect: false, Explanation: "Blocked exit", Reward: Reward{XP: 5}},
			{ID: "s3", ImageURL: "https://cdn.example.com/3.jpg", IsCorrect: true},
		},
	}
}

func fixtures() map[Type]Config {
	return map[Type]Config{
		TypeHotspot:           hotspotFixture(),
		TypeDragDrop:          dragDropFixture(),
		TypeMatching:          matchingFixture(),
		TypeSequence:          sequenceFixture(),
		TypeTrueFalse:         trueFalseFixture(),
		TypeMultipleChoice:    multipleChoiceFixture(),
		TypeScenario:          scenarioFixture(),
		TypeMemoryFlip:        memoryFixture(),
		TypePhotoSwipe:        photoSwipeFixture(),
		TypeTimeAttackSorting: timeAttackFixture(),
	}
}

type recorder struct {
	results []GameResult
}

func (r *recorder) record(res GameResult) { r.results = append(r.results, res) }

func mountPlay(t *testing.T, cfg Config, mode Mode, clock *fakeClock, opts ...Option) (*Play, *recorder) {
	t.Helper()
	rec := &recorder{}
	d := NewDispatcher(append([]Option{WithClock(clock.Now)}, opts...)...)
	p, err := d.Mount(MountRequest{Config: cfg, Mode: mode, OnComplete: rec.record})
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	return p, rec
}

func dispatchAll(t *testing.T, p *Play, actions ...Action) {
	t.Helper()
	for _, a := range actions {
		if err := p.Dispatch(a); err != nil {
			t.Fatalf("Dispatch(%+v): %v", a, err)
		}
	}
}
