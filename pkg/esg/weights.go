package esg

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Field names one of the three ESG categories.
type Field string

const (
	FieldEnvironment Field = "environment"
	FieldSocial      Field = "social"
	FieldGovernance  Field = "governance"
)

// Fields lists the categories in canonical order. Ties are always resolved in this order.
var Fields = []Field{FieldEnvironment, FieldSocial, FieldGovernance}

// ParseField accepts the category name or its initial letter, case-insensitively.
func ParseField(raw string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "environment", "env", "e":
		return FieldEnvironment, nil
	case "social", "soc", "s":
		return FieldSocial, nil
	case "governance", "gov", "g":
		return FieldGovernance, nil
	}
	return "", NewError(ErrCodeInvalidInput, fmt.Sprintf("unknown ESG field %q", raw))
}

// Valid reports whether f is one of the three categories.
func (f Field) Valid() bool {
	return f == FieldEnvironment || f == FieldSocial || f == FieldGovernance
}

// Label returns the Korean display label.
func (f Field) Label() string {
	switch f {
	case FieldEnvironment:
		return "환경"
	case FieldSocial:
		return "사회"
	case FieldGovernance:
		return "지배구조"
	}
	return ""
}

// Icon returns the glyph the results view shows next to the category.
func (f Field) Icon() string {
	switch f {
	case FieldEnvironment:
		return "🌱"
	case FieldSocial:
		return "🤝"
	case FieldGovernance:
		return "⚖️"
	}
	return ""
}

func (f Field) others() []Field {
	out := make([]Field, 0, 2)
	for _, candidate := range Fields {
		if candidate != f {
			out = append(out, candidate)
		}
	}
	return out
}

// Weights holds the three ESG percentages. A valid value sums to exactly 100.
type Weights struct {
	Environment int `json:"environment"`
	Social      int `json:"social"`
	Governance  int `json:"governance"`
}

// DefaultWeights is the questionnaire's starting split.
func DefaultWeights() Weights {
	return Weights{Environment: 33, Social: 33, Governance: 34}
}

// Get returns the value of one category; unknown fields read as zero.
func (w Weights) Get(f Field) int {
	switch f {
	case FieldEnvironment:
		return w.Environment
	case FieldSocial:
		return w.Social
	case FieldGovernance:
		return w.Governance
	}
	return 0
}

// Set returns a copy of w with one category replaced.
func (w Weights) Set(f Field, value int) Weights {
	switch f {
	case FieldEnvironment:
		w.Environment = value
	case FieldSocial:
		w.Social = value
	case FieldGovernance:
		w.Governance = value
	}
	return w
}

// Sum returns the total of the three categories.
func (w Weights) Sum() int {
	return w.Environment + w.Social + w.Governance
}

// Validate checks the range and sum invariants.
func (w Weights) Validate() error {
	for _, f := range Fields {
		if v := w.Get(f); v < 0 || v > 100 {
			return NewError(ErrCodeValidation, fmt.Sprintf("%s must be between 0 and 100, got %d", f, v))
		}
	}
	if sum := w.Sum(); sum != 100 {
		return NewError(ErrCodeValidation, fmt.Sprintf("weights must sum to 100, got %d", sum))
	}
	return nil
}

// Normalize clamps every category into [0,100] and then pushes any drift from 100
// onto the largest categories.
func (w Weights) Normalize() Weights {
	for _, f := range Fields {
		w = w.Set(f, clampPercent(w.Get(f)))
	}
	return w.absorbResidual()
}

// FocusCategories returns the two heaviest categories, heaviest first.
func (w Weights) FocusCategories() []Field {
	ordered := w.byValueDesc(Fields)
	return ordered[:2]
}

func (w Weights) byValueDesc(fields []Field) []Field {
	ordered := append([]Field(nil), fields...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return w.Get(ordered[i]) > w.Get(ordered[j])
	})
	return ordered
}

// absorbResidual applies 100-Sum() to the largest category. A residual one
// category cannot take within [0,100] spills over to the next largest.
func (w Weights) absorbResidual() Weights {
	residual := 100 - w.Sum()
	if residual == 0 {
		return w
	}
	for _, f := range w.byValueDesc(Fields) {
		v := w.Get(f)
		var step int
		if residual > 0 {
			step = min(residual, 100-v)
		} else {
			step = -min(-residual, v)
		}
		w = w.Set(f, v+step)
		residual -= step
		if residual == 0 {
			break
		}
	}
	return w
}

// Rebalance moves field to newValue and adjusts the other two categories so the
// total stays 100.
//
// An increase is taken from the other categories, largest first; if they run dry
// the changed field stops short. A decrease is handed back to the other categories
// in proportion to their current values, or split evenly when both are zero.
// Rounding drift lands on the largest category.
func Rebalance(current Weights, field Field, newValue int) Weights {
	w := current.Normalize()
	if !field.Valid() {
		return w
	}
	newValue = clampPercent(newValue)

	delta := newValue - w.Get(field)
	if delta == 0 {
		return w
	}

	others := field.others()
	if delta > 0 {
		remaining := delta
		for _, o := range w.byValueDesc(others) {
			v := w.Get(o)
			take := min(remaining, v)
			w = w.Set(o, v-take)
			remaining -= take
			if remaining == 0 {
				break
			}
		}
		w = w.Set(field, newValue-remaining)
		return w.absorbResidual()
	}

	freed := -delta
	first, second := others[0], others[1]
	v1, v2 := w.Get(first), w.Get(second)
	var share1, share2 int
	if total := v1 + v2; total == 0 {
		share2 = freed / 2
		share1 = freed - share2
	} else {
		share1 = proportionalShare(freed, v1, total)
		share2 = proportionalShare(freed, v2, total)
	}
	w = w.Set(first, v1+share1).Set(second, v2+share2).Set(field, newValue)
	return w.absorbResidual()
}

// proportionalShare returns amount*part/total rounded half away from zero.
func proportionalShare(amount, part, total int) int {
	share := decimal.NewFromInt(int64(amount)).
		Mul(decimal.NewFromInt(int64(part))).
		Div(decimal.NewFromInt(int64(total)))
	return int(share.Round(0).IntPart())
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
