package badge

import (
	"cmp"
	"fmt"
	"slices"

	"greensteps/internal/domain"
)

// Definition pairs a catalog badge with its rule.
type Definition struct {
	Badge domain.Badge
	Rule  Rule
}

type compiled struct {
	badge domain.Badge
	check Predicate
}

// Evaluator holds the compiled rule table. It is safe for concurrent use.
type Evaluator struct {
	rules []compiled
}

func NewEvaluator(defs []Definition) (*Evaluator, error) {
	rules := make([]compiled, 0, len(defs))
	seen := make(map[int64]bool, len(defs))
	for _, d := range defs {
		if seen[d.Badge.ID] {
			return nil, fmt.Errorf("badge %d: duplicate rule", d.Badge.ID)
		}
		seen[d.Badge.ID] = true

		check, err := d.Rule.Compile()
		if err != nil {
			return nil, fmt.Errorf("badge %d (%s): %w", d.Badge.ID, d.Badge.Name, err)
		}
		rules = append(rules, compiled{badge: d.Badge, check: check})
	}
	slices.SortFunc(rules, func(a, b compiled) int {
		return cmp.Compare(a.badge.ID, b.badge.ID)
	})
	return &Evaluator{rules: rules}, nil
}

// Evaluate returns, in badge id order, the badges the window qualifies for
// that are not in earned. It never mutates its inputs.
func (ev *Evaluator) Evaluate(recent []domain.UsageEntry, earned []int64) []domain.Badge {
	eligible := []domain.Badge{}
	for _, r := range ev.rules {
		if slices.Contains(earned, r.badge.ID) {
			continue
		}
		if r.check(recent) {
			eligible = append(eligible, r.badge)
		}
	}
	return eligible
}
