package minigame

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// ValidationResult lists every authoring defect of a config.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Validator checks a config before it is persisted. Implementations never
// mutate the config and report all defects in one pass.
type Validator interface {
	Validate(field RewardField) ValidationResult
}

// Validate decodes raw as a config of type t and validates it against the
// reward currency implied by isQuizQuestion. Decoding failures are reported
// as defects.
func Validate(t Type, raw json.RawMessage, isQuizQuestion bool) ValidationResult {
	cfg, err := Decode(t, raw)
	if err != nil {
		return ValidationResult{Errors: []string{err.Error()}}
	}
	return cfg.Validate(RewardFieldFor(isQuizQuestion))
}

type defects struct {
	errs []string
}

func (d *defects) addf(format string, args ...any) {
	d.errs = append(d.errs, fmt.Sprintf(format, args...))
}

func (d *defects) text(value, name string) {
	if strings.TrimSpace(value) == "" {
		d.addf("%s is required", name)
	}
}

// oneOf requires at least one of two alternatives, e.g. text or an image.
func (d *defects) oneOf(a, b, label, what string) {
	if strings.TrimSpace(a) == "" && strings.TrimSpace(b) == "" {
		d.addf("%s needs %s", label, what)
	}
}

func (d *defects) atLeast(n, min int, what string) {
	if n < min {
		d.addf("at least %d %s required, got %d", min, what, n)
	}
}

// ids checks element ids for presence and uniqueness and returns the set of
// ids that are present.
func (d *defects) ids(kind string, ids []string) map[string]bool {
	for i, id := range ids {
		if strings.TrimSpace(id) == "" {
			d.addf("%s %d has no id", kind, i+1)
		}
	}
	for _, dup := range lo.FindDuplicates(lo.Compact(ids)) {
		d.addf("%s id %q is used more than once", kind, dup)
	}
	return lo.SliceToMap(lo.Compact(ids), func(id string) (string, bool) { return id, true })
}

func (d *defects) result() ValidationResult {
	if len(d.errs) == 0 {
		return ValidationResult{Valid: true, Errors: []string{}}
	}
	return ValidationResult{Errors: d.errs}
}
