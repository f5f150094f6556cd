// Package badge decides which catalog badges a user's recent weeks qualify for.
package badge

import (
	"fmt"

	"greensteps/internal/domain"
)

// MinEntries is the smallest window any rule will look at.
const MinEntries = 2

type Kind string

const (
	KindAverageAtLeast  Kind = "average_at_least"
	KindAverageBelow    Kind = "average_below"
	KindQualifyingWeeks Kind = "qualifying_weeks"
	KindEntryCount      Kind = "entry_count"
	KindDualGoal        Kind = "dual_goal"
	KindNotedEntries    Kind = "noted_entries"
)

type Field string

const (
	FieldElectricity Field = "electricity"
	FieldWater       Field = "water"
)

func (f Field) value(e domain.UsageEntry) (float64, error) {
	switch f {
	case FieldElectricity:
		return e.Electricity(), nil
	case FieldWater:
		return e.Water(), nil
	default:
		return 0, fmt.Errorf("unknown field %q", f)
	}
}

func (f Field) valid() bool {
	_, err := f.value(domain.UsageEntry{})
	return err == nil
}

// Rule is the eligibility condition of one badge, as written in the catalog.
type Rule struct {
	Kind            Kind    `yaml:"kind"`
	Field           Field   `yaml:"field,omitempty"`
	Threshold       float64 `yaml:"threshold,omitempty"`
	SecondField     Field   `yaml:"secondField,omitempty"`
	SecondThreshold float64 `yaml:"secondThreshold,omitempty"`
	MinCount        int     `yaml:"minCount,omitempty"`
}

// Predicate reports whether a window of entries earns a badge.
type Predicate func(entries []domain.UsageEntry) bool

// Compile turns the rule into a predicate. Every predicate rejects windows
// shorter than MinEntries.
func (r Rule) Compile() (Predicate, error) {
	var p Predicate
	switch r.Kind {
	case KindAverageAtLeast, KindAverageBelow:
		if !r.Field.valid() {
			return nil, fmt.Errorf("%s: unknown field %q", r.Kind, r.Field)
		}
		below := r.Kind == KindAverageBelow
		p = func(entries []domain.UsageEntry) bool {
			avg := average(entries, r.Field)
			if below {
				return avg < r.Threshold
			}
			return avg >= r.Threshold
		}
	case KindQualifyingWeeks:
		if !r.Field.valid() {
			return nil, fmt.Errorf("%s: unknown field %q", r.Kind, r.Field)
		}
		if r.MinCount < 1 {
			return nil, fmt.Errorf("%s: minCount must be positive", r.Kind)
		}
		p = func(entries []domain.UsageEntry) bool {
			return countWhere(entries, func(e domain.UsageEntry) bool {
				v, _ := r.Field.value(e)
				return v >= r.Threshold
			}) >= r.MinCount
		}
	case KindEntryCount:
		if r.MinCount < 1 {
			return nil, fmt.Errorf("%s: minCount must be positive", r.Kind)
		}
		p = func(entries []domain.UsageEntry) bool {
			return len(entries) >= r.MinCount
		}
	case KindDualGoal:
		if !r.Field.valid() || !r.SecondField.valid() {
			return nil, fmt.Errorf("%s: unknown field %q/%q", r.Kind, r.Field, r.SecondField)
		}
		if r.MinCount < 1 {
			return nil, fmt.Errorf("%s: minCount must be positive", r.Kind)
		}
		p = func(entries []domain.UsageEntry) bool {
			return countWhere(entries, func(e domain.UsageEntry) bool {
				a, _ := r.Field.value(e)
				b, _ := r.SecondField.value(e)
				return a >= r.Threshold && b >= r.SecondThreshold
			}) >= r.MinCount
		}
	case KindNotedEntries:
		if r.MinCount < 1 {
			return nil, fmt.Errorf("%s: minCount must be positive", r.Kind)
		}
		p = func(entries []domain.UsageEntry) bool {
			return countWhere(entries, domain.UsageEntry.HasNotes) >= r.MinCount
		}
	default:
		return nil, fmt.Errorf("unknown rule kind %q", r.Kind)
	}

	return func(entries []domain.UsageEntry) bool {
		if len(entries) < MinEntries {
			return false
		}
		return p(entries)
	}, nil
}

func average(entries []domain.UsageEntry, f Field) float64 {
	if len(entries) == 0 {
		return 0
	}
	sum := 0.0
	for _, e := range entries {
		v, _ := f.value(e)
		sum += v
	}
	return sum / float64(len(entries))
}

func countWhere(entries []domain.UsageEntry, ok func(domain.UsageEntry) bool) int {
	n := 0
	for _, e := range entries {
		if ok(e) {
			n++
		}
	}
	return n
}
