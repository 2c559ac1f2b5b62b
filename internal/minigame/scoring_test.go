package minigame

import (
	"errors"
	"slices"
	"testing"
)

func reduceAll[S any](t *testing.T, r rules[S], actions ...Action) S {
	t.Helper()
	s := r.Initial()
	for _, a := range actions {
		next, err := r.Reduce(s, a)
		if err != nil {
			t.Fatalf("Reduce(%+v): %v", a, err)
		}
		s = next
	}
	return s
}

func assign(item, target string) Action {
	return Action{Kind: ActionAssign, ItemID: item, TargetID: target}
}

func TestProportional(t *testing.T) {
	tests := []struct {
		correct, total, amount, want int
	}{
		{3, 4, 100, 75},
		{1, 3, 100, 33},
		{2, 3, 100, 67},
		{1, 2, 5, 3},
		{0, 4, 100, 0},
		{4, 4, 100, 100},
		{1, 0, 100, 0},
	}
	for _, tt := range tests {
		if got := proportional(tt.correct, tt.total, tt.amount); got != tt.want {
			t.Errorf("proportional(%d, %d, %d) = %d, want %d", tt.correct, tt.total, tt.amount, got, tt.want)
		}
	}
}

func TestDragDropProportionalReward(t *testing.T) {
	cfg := dragDropFixture()
	r := newSortingRules(cfg.Items, cfg.Targets, cfg.Reward)
	s := reduceAll[PlacementState](t, r,
		assign("helmet", "ppe"),
		assign("gloves", "ppe"),
		assign("ladder", "tools"),
		assign("drill", "ppe"),
	)

	if !r.Ready(s) {
		t.Fatal("all items placed but not ready")
	}
	ev := r.Evaluate(s, RewardXP)
	if ev.Earned != 75 || ev.Correct != 3 || ev.Total != 4 || ev.Success {
		t.Errorf("evaluation = %+v, want 75 xp for 3 of 4", ev)
	}
	if fb := ev.Detail.(PlacementFeedback); fb.Items["drill"] || !fb.Items["helmet"] {
		t.Errorf("feedback = %+v", fb)
	}
}

func TestDragDropReassignAndUnknownTarget(t *testing.T) {
	cfg := dragDropFixture()
	r := newSortingRules(cfg.Items, cfg.Targets, cfg.Reward)
	s := reduceAll[PlacementState](t, r, assign("helmet", "tools"), assign("helmet", "ppe"))
	if s.Placements["helmet"] != "ppe" {
		t.Errorf("placement = %q", s.Placements["helmet"])
	}
	if r.Ready(s) {
		t.Error("ready with unplaced items")
	}
	if _, err := r.Reduce(s, assign("helmet", "garage")); !errors.Is(err, ErrUnknownElement) {
		t.Errorf("unknown target err = %v", err)
	}

	s2 := reduceAll[PlacementState](t, r, assign("helmet", "ppe"), Action{Kind: ActionUnassign, ItemID: "helmet"})
	if _, ok := s2.Placements["helmet"]; ok {
		t.Error("unassign kept the placement")
	}
}

func TestDragDropDanglingTargetNeverMatches(t *testing.T) {
	cfg := dragDropFixture()
	cfg.Items[0].CorrectTargetID = "nowhere"
	r := newSortingRules(cfg.Items, cfg.Targets, cfg.Reward)
	s := reduceAll[PlacementState](t, r,
		assign("helmet", "ppe"), assign("gloves", "ppe"), assign("ladder", "tools"), assign("drill", "tools"))
	if ev := r.Evaluate(s, RewardXP); ev.Correct != 3 || ev.Success {
		t.Errorf("evaluation = %+v", ev)
	}
}

func TestHotspotMatching(t *testing.T) {
	tests := []struct {
		name     string
		hotspots []Hotspot
		marks    []Mark
		want     []string
	}{
		{
			name:     "centre matches",
			hotspots: []Hotspot{{ID: "h", X: 20, Y: 20, Radius: 5}},
			marks:    []Mark{{X: 20, Y: 20}},
			want:     []string{"h"},
		},
		{
			name:     "on the radius matches",
			hotspots: []Hotspot{{ID: "h", X: 20, Y: 20, Radius: 5}},
			marks:    []Mark{{X: 25, Y: 20}},
			want:     []string{"h"},
		},
		{
			name:     "radius plus epsilon misses",
			hotspots: []Hotspot{{ID: "h", X: 20, Y: 20, Radius: 5}},
			marks:    []Mark{{X: 25.001, Y: 20}},
			want:     []string{""},
		},
		{
			name:     "no double claim",
			hotspots: []Hotspot{{ID: "h", X: 20, Y: 20, Radius: 5}},
			marks:    []Mark{{X: 20, Y: 20}, {X: 21, Y: 20}},
			want:     []string{"h", ""},
		},
		{
			name: "nearest unclaimed wins",
			hotspots: []Hotspot{
				{ID: "a", X: 50, Y: 50, Radius: 10},
				{ID: "b", X: 55, Y: 50, Radius: 10},
			},
			marks: []Mark{{X: 54, Y: 50}, {X: 54, Y: 50}},
			want:  []string{"b", "a"},
		},
		{
			name: "earlier mark yields to a later one",
			hotspots: []Hotspot{
				{ID: "a", X: 50, Y: 50, Radius: 10},
				{ID: "b", X: 65, Y: 50, Radius: 10},
			},
			marks: []Mark{{X: 57, Y: 50}, {X: 45, Y: 50}},
			want:  []string{"b", "a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchMarks(tt.marks, tt.hotspots)
			for i, v := range got {
				if v.HotspotID != tt.want[i] {
					t.Errorf("mark %d matched %q, want %q", i, v.HotspotID, tt.want[i])
				}
			}
		})
	}
}

func TestHotspotRewardAndLimit(t *testing.T) {
	r := hotspotRules{cfg: hotspotFixture()}
	s := reduceAll[HotspotState](t, r,
		Action{Kind: ActionMark, X: 21, Y: 19},
		Action{Kind: ActionMark, X: 5, Y: 90},
	)
	if _, err := r.Reduce(s, Action{Kind: ActionMark, X: 70, Y: 60}); !errors.Is(err, ErrLimitReached) {
		t.Errorf("third mark err = %v", err)
	}
	ev := r.Evaluate(s, RewardXP)
	if ev.Earned != 15 || ev.Correct != 1 || ev.Success || *ev.Mistakes != 1 {
		t.Errorf("evaluation = %+v", ev)
	}

	s = reduceAll[HotspotState](t, r, Action{Kind: ActionMark, X: 1, Y: 1}, Action{Kind: ActionUnmark, Index: ptr(0)})
	if len(s.Marks) != 0 || r.Ready(s) {
		t.Errorf("after unmark = %+v", s)
	}
}

func TestMatchingOrderInsensitive(t *testing.T) {
	r := newMatchingRules(matchingFixture())
	s := reduceAll[MatchingState](t, r,
		Action{Kind: ActionPair, LeftID: "r1", RightID: "l1"},
		Action{Kind: ActionPair, LeftID: "l2", RightID: "r2"},
	)
	ev := r.Evaluate(s, RewardXP)
	if !ev.Success || ev.Earned != 30 {
		t.Errorf("evaluation = %+v", ev)
	}

	// Re-pairing l1 drops its earlier pair and the pair that used r2.
	s = reduceAll[MatchingState](t, r,
		Action{Kind: ActionPair, LeftID: "l1", RightID: "r1"},
		Action{Kind: ActionPair, LeftID: "l2", RightID: "r2"},
		Action{Kind: ActionPair, LeftID: "l1", RightID: "r2"},
	)
	if len(s.Pairs) != 1 || r.Ready(s) {
		t.Errorf("pairs = %+v", s.Pairs)
	}
	if ev := r.Evaluate(s, RewardXP); ev.Earned != 0 || ev.Success {
		t.Errorf("all-or-nothing violated: %+v", ev)
	}
}

func TestSequencePositionsCoverEveryItem(t *testing.T) {
	r := sequenceRules{cfg: sequenceFixture()}
	place := func(id string, at int) Action { return Action{Kind: ActionPlace, ItemID: id, Index: ptr(at)} }

	partial := reduceAll[SequenceState](t, r, place("c", 0), place("a", 1))
	fb := r.Evaluate(partial, RewardXP).Detail.(SequenceFeedback)
	if len(fb.CorrectPositions) != 3 {
		t.Fatalf("positions = %v, want 3 entries", fb.CorrectPositions)
	}

	full := reduceAll[SequenceState](t, r, place("a", 0), place("c", 1), place("b", 1))
	if !slices.Equal(full.Order, []string{"a", "b", "c"}) {
		t.Fatalf("order = %v", full.Order)
	}
	ev := r.Evaluate(full, RewardXP)
	if !ev.Success || ev.Earned != 20 {
		t.Errorf("evaluation = %+v", ev)
	}

	wrong := reduceAll[SequenceState](t, r, place("a", 0), place("c", 9), place("b", 9))
	ev = r.Evaluate(wrong, RewardXP)
	want := []bool{true, false, false}
	if got := ev.Detail.(SequenceFeedback).CorrectPositions; !slices.Equal(got, want) || ev.Earned != 0 {
		t.Errorf("positions = %v earned %d, want %v and 0", got, ev.Earned, want)
	}
}

func TestMultipleChoiceSingleAnswerReplaces(t *testing.T) {
	r := newMultipleChoiceRules(multipleChoiceFixture())
	sel := func(id string) Action { return Action{Kind: ActionSelect, OptionID: id} }

	s := reduceAll[ChoiceState](t, r, sel("water"), sel("co2"))
	if !slices.Equal(s.Selected, []string{"co2"}) {
		t.Fatalf("selected = %v", s.Selected)
	}
	if ev := r.Evaluate(s, RewardXP); !ev.Success || ev.Earned != 10 {
		t.Errorf("evaluation = %+v", ev)
	}

	multi := multipleChoiceFixture()
	multi.AllowMultiple = true
	multi.Options[2].IsCorrect = true
	rm := newMultipleChoiceRules(multi)
	s = reduceAll[ChoiceState](t, rm, sel("co2"), sel("water"), sel("water"))
	ev := rm.Evaluate(s, RewardXP)
	if ev.Success || ev.Earned != 0 || ev.Correct != 1 || ev.Total != 2 {
		t.Errorf("subset scored as %+v", ev)
	}
}

func TestScenarioPartialCredit(t *testing.T) {
	r := newScenarioRules(scenarioFixture())
	s := reduceAll[ChoiceState](t, r,
		Action{Kind: ActionSelect, OptionID: "call"},
		Action{Kind: ActionSelect, OptionID: "check"},
	)
	ev := r.Evaluate(s, RewardXP)
	if ev.Earned != 20 || ev.Success {
		t.Errorf("evaluation = %+v, want 20 and not success", ev)
	}

	s = reduceAll[ChoiceState](t, r,
		Action{Kind: ActionSelect, OptionID: "call"},
		Action{Kind: ActionSelect, OptionID: "check"},
		Action{Kind: ActionSelect, OptionID: "aed"},
		Action{Kind: ActionSelect, OptionID: "leave"},
	)
	ev = r.Evaluate(s, RewardXP)
	if ev.Earned != 30 || ev.Success || *ev.Mistakes != 1 {
		t.Errorf("evaluation = %+v", ev)
	}
	if note := ev.Detail.(ScenarioFeedback).Notes["leave"]; note == "" {
		t.Error("missing option feedback")
	}
}

func TestMemoryPerfectMultiplier(t *testing.T) {
	r := newMemoryRules(memoryFixture())
	flip := func(id string) Action { return Action{Kind: ActionFlip, CardID: id} }

	perfect := reduceAll[MemoryState](t, r, flip("c1"), flip("c2"), flip("c4"), flip("c3"))
	if !r.Finished(perfect) {
		t.Fatal("all pairs matched but not finished")
	}
	if ev := r.Evaluate(perfect, RewardXP); ev.Earned != 40 || *ev.Mistakes != 0 {
		t.Errorf("perfect game = %+v, want 40", ev)
	}

	flawed := reduceAll[MemoryState](t, r, flip("c1"), flip("c3"), flip("c1"), flip("c2"), flip("c3"), flip("c4"))
	ev := r.Evaluate(flawed, RewardXP)
	if ev.Earned != 20 || *ev.Mistakes != 1 || !ev.Success {
		t.Errorf("flawed game = %+v, want 20 with one mistake", ev)
	}
}

func TestMemoryRejectsMatchedCard(t *testing.T) {
	r := newMemoryRules(memoryFixture())
	s := reduceAll[MemoryState](t, r, Action{Kind: ActionFlip, CardID: "c1"}, Action{Kind: ActionFlip, CardID: "c2"})
	if _, err := r.Reduce(s, Action{Kind: ActionFlip, CardID: "c2"}); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("err = %v", err)
	}
	if _, err := r.Reduce(s, Action{Kind: ActionFlip, CardID: "c9"}); !errors.Is(err, ErrUnknownElement) {
		t.Errorf("err = %v", err)
	}
}

func TestPhotoSwipeBlocksUntilAcknowledged(t *testing.T) {
	r := photoSwipeRules{cfg: photoSwipeFixture(), pause: true}
	swipe := func(d Direction) Action { return Action{Kind: ActionSwipe, Direction: d} }

	s := reduceAll[SwipeState](t, r, swipe(SwipeRight), swipe(SwipeRight))
	if !s.AwaitingAck || s.Mistakes != 1 {
		t.Fatalf("state = %+v", s)
	}
	if _, err := r.Reduce(s, swipe(SwipeRight)); !errors.Is(err, ErrBlocked) {
		t.Fatalf("err = %v, want ErrBlocked", err)
	}

	s, _ = r.Reduce(s, Action{Kind: ActionAcknowledge})
	s, _ = r.Reduce(s, swipe(SwipeRight))
	if !r.Finished(s) {
		t.Fatal("deck not finished")
	}
	ev := r.Evaluate(s, RewardXP)
	if ev.Success || ev.Correct != 2 || ev.Earned != 5 {
		t.Errorf("evaluation = %+v", ev)
	}
}

func TestPhotoSwipeTimeAttackNeverBlocks(t *testing.T) {
	r := photoSwipeRules{cfg: photoSwipeFixture()}
	s := reduceAll[SwipeState](t, r,
		Action{Kind: ActionSwipe, Direction: SwipeLeft},
		Action{Kind: ActionSwipe, Direction: SwipeLeft},
		Action{Kind: ActionSwipe, Direction: SwipeRight},
	)
	if s.AwaitingAck || !r.Finished(s) || s.Mistakes != 1 {
		t.Errorf("state = %+v", s)
	}
}

func TestRewardValueFallsBack(t *testing.T) {
	r := Reward{XP: 7}
	if r.Value(RewardXP) != 7 || r.Value(RewardPoints) != 7 || r.Field(RewardPoints) != 0 {
		t.Errorf("reward lookups wrong for %+v", r)
	}
}
