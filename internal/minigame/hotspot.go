package minigame

import (
	"cmp"
	"math"
	"slices"

	"github.com/samber/lo"
)

// Hotspot is a circular target on an image. Coordinates and radius are
// percentages of the image size.
type Hotspot struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Label  string  `json:"label,omitempty"`
}

// HotspotConfig asks the player to mark every hotspot on an image. The reward
// is paid per matched hotspot.
type HotspotConfig struct {
	Instruction string    `json:"instruction"`
	ImageURL    string    `json:"imageUrl"`
	Hotspots    []Hotspot `json:"hotspots"`
	Reward
}

func (HotspotConfig) GameType() Type { return TypeHotspot }
func (HotspotConfig) sealed()        {}

func (c HotspotConfig) Validate(f RewardField) ValidationResult {
	var d defects
	d.text(c.Instruction, "instruction")
	d.text(c.ImageURL, "imageUrl")
	d.atLeast(len(c.Hotspots), 1, "hotspots")
	d.ids("hotspot", lo.Map(c.Hotspots, func(h Hotspot, _ int) string { return h.ID }))
	for i, h := range c.Hotspots {
		label := describe("hotspot", i, h.ID)
		if !inPercent(h.X) || !inPercent(h.Y) {
			d.addf("%s must lie within the image (0-100)", label)
		}
		if h.Radius <= 0 || h.Radius > 100 {
			d.addf("%s radius must be between 0 and 100", label)
		}
	}
	c.Reward.check(&d, f, "hotspot", false)
	return d.result()
}

func inPercent(v float64) bool { return v >= 0 && v <= 100 }

// Mark is a point the player tapped, in image percentages.
type Mark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// HotspotState holds the marks in the order they were placed.
type HotspotState struct {
	Marks []Mark `json:"marks"`
}

// HotspotFeedback pairs each mark with the hotspot it claimed, if any.
type HotspotFeedback struct {
	Marks []MarkVerdict `json:"marks"`
	Found []string      `json:"found"`
}

// MarkVerdict is a mark and the hotspot it hit. HotspotID is empty for a miss.
type MarkVerdict struct {
	Mark
	HotspotID string `json:"hotspotId,omitempty"`
}

type hotspotRules struct {
	cfg HotspotConfig
}

func (r hotspotRules) Initial() HotspotState { return HotspotState{Marks: []Mark{}} }

func (r hotspotRules) Reduce(s HotspotState, a Action) (HotspotState, error) {
	switch a.Kind {
	case ActionMark:
		if !inPercent(a.X) || !inPercent(a.Y) {
			return s, ErrInvalidAction
		}
		if len(s.Marks) >= len(r.cfg.Hotspots) {
			return s, ErrLimitReached
		}
		marks := append(slices.Clone(s.Marks), Mark{X: a.X, Y: a.Y})
		return HotspotState{Marks: marks}, nil
	case ActionUnmark:
		if a.Index == nil || *a.Index < 0 || *a.Index >= len(s.Marks) {
			return s, ErrUnknownElement
		}
		marks := slices.Delete(slices.Clone(s.Marks), *a.Index, *a.Index+1)
		return HotspotState{Marks: marks}, nil
	}
	return s, ErrUnknownAction
}

func (r hotspotRules) Ready(s HotspotState) bool {
	return len(s.Marks) >= 1 && len(s.Marks) <= len(r.cfg.Hotspots)
}

func (r hotspotRules) Evaluate(s HotspotState, f RewardField) Evaluation {
	verdicts := matchMarks(s.Marks, r.cfg.Hotspots)
	found := lo.FilterMap(verdicts, func(v MarkVerdict, _ int) (string, bool) {
		return v.HotspotID, v.HotspotID != ""
	})
	misses := len(verdicts) - len(found)
	total := len(r.cfg.Hotspots)
	return Evaluation{
		Success:  total > 0 && len(found) == total,
		Correct:  len(found),
		Total:    total,
		Earned:   len(found) * r.cfg.Reward.Value(f),
		Mistakes: &misses,
		Detail:   HotspotFeedback{Marks: verdicts, Found: found},
	}
}

// matchMarks pairs marks with hotspots so that as many marks as possible hit
// a distinct hotspot. Each mark prefers its nearest free hotspot; when none is
// free an earlier mark is moved to another hotspot it also falls within.
func matchMarks(marks []Mark, hotspots []Hotspot) []MarkVerdict {
	within := make([][]int, len(marks))
	for i, m := range marks {
		for j, h := range hotspots {
			if math.Hypot(m.X-h.X, m.Y-h.Y) <= h.Radius {
				within[i] = append(within[i], j)
			}
		}
		slices.SortStableFunc(within[i], func(a, b int) int {
			return cmp.Compare(
				math.Hypot(m.X-hotspots[a].X, m.Y-hotspots[a].Y),
				math.Hypot(m.X-hotspots[b].X, m.Y-hotspots[b].Y),
			)
		})
	}

	owner := make([]int, len(hotspots))
	for j := range owner {
		owner[j] = -1
	}
	var claim func(i int, visited []bool) bool
	claim = func(i int, visited []bool) bool {
		for _, j := range within[i] {
			if owner[j] < 0 {
				owner[j] = i
				return true
			}
		}
		for _, j := range within[i] {
			if visited[j] {
				continue
			}
			visited[j] = true
			if claim(owner[j], visited) {
				owner[j] = i
				return true
			}
		}
		return false
	}
	for i := range marks {
		claim(i, make([]bool, len(hotspots)))
	}

	out := make([]MarkVerdict, len(marks))
	for i, m := range marks {
		out[i].Mark = m
	}
	for j, i := range owner {
		if i >= 0 {
			out[i].HotspotID = hotspots[j].ID
		}
	}
	return out
}
