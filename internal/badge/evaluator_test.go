package badge_test

import (
	"slices"
	"testing"

	"greensteps/internal/badge"
	"greensteps/internal/catalog"
	"greensteps/internal/domain"
)

func ptr(s string) *string {
	return &s
}

func week(date, recycling, water string, notes ...string) domain.UsageEntry {
	e := domain.UsageEntry{WeekStartDate: date}
	if recycling != "" {
		e.ElectricityUsage = ptr(recycling)
	}
	if water != "" {
		e.WaterUsage = ptr(water)
	}
	if len(notes) > 0 {
		e.Notes = ptr(notes[0])
	}
	return e
}

func newSeedEvaluator(t *testing.T) *badge.Evaluator {
	t.Helper()
	seed, err := catalog.Default()
	if err != nil {
		t.Fatalf("loading seed: %v", err)
	}
	ev, err := badge.NewEvaluator(seed.Definitions())
	if err != nil {
		t.Fatalf("building evaluator: %v", err)
	}
	return ev
}

func ids(badges []domain.Badge) []int64 {
	out := make([]int64, 0, len(badges))
	for _, b := range badges {
		out = append(out, b.ID)
	}
	return out
}

func TestEvaluateSeedRules(t *testing.T) {
	ev := newSeedEvaluator(t)

	tests := []struct {
		name    string
		entries []domain.UsageEntry
		earned  []int64
		want    []int64
	}{
		{
			name:    "no entries",
			entries: nil,
			want:    []int64{},
		},
		{
			name:    "single strong week is never enough",
			entries: []domain.UsageEntry{week("2024-06-03", "20", "20", "note")},
			want:    []int64{},
		},
		{
			name: "two recycling weeks",
			entries: []domain.UsageEntry{
				week("2024-06-10", "10", "1"),
				week("2024-06-03", "12", "1"),
			},
			want: []int64{2},
		},
		{
			name: "hydration average counts absent weeks as zero",
			entries: []domain.UsageEntry{
				week("2024-06-10", "", "24"),
				week("2024-06-03", "", ""),
			},
			want: []int64{1},
		},
		{
			name: "hydration average just below",
			entries: []domain.UsageEntry{
				week("2024-06-10", "", "12"),
				week("2024-06-03", "", "11.9"),
			},
			want: []int64{},
		},
		{
			name: "dual goal needs both in the same week",
			entries: []domain.UsageEntry{
				week("2024-06-17", "10", "1"),
				week("2024-06-10", "1", "12"),
				week("2024-06-03", "10", "12"),
			},
			want: []int64{2},
		},
		{
			name: "dual goal and hydration together",
			entries: []domain.UsageEntry{
				week("2024-06-10", "10", "12"),
				week("2024-06-03", "11", "13"),
			},
			want: []int64{1, 2, 4},
		},
		{
			name: "blank notes do not count",
			entries: []domain.UsageEntry{
				week("2024-06-10", "", "", "  "),
				week("2024-06-03", "", "", "felt good"),
			},
			want: []int64{},
		},
		{
			name: "two noted weeks",
			entries: []domain.UsageEntry{
				week("2024-06-10", "", "", "started composting"),
				week("2024-06-03", "", "", "felt good"),
			},
			want: []int64{5},
		},
		{
			name: "tenure badges",
			entries: []domain.UsageEntry{
				week("2024-07-08", "", ""), week("2024-07-01", "", ""),
				week("2024-06-24", "", ""), week("2024-06-17", "", ""),
				week("2024-06-10", "", ""), week("2024-06-03", "", ""),
			},
			want: []int64{3, 6},
		},
		{
			name: "earned badges are skipped",
			entries: []domain.UsageEntry{
				week("2024-06-10", "10", "12"),
				week("2024-06-03", "11", "13"),
			},
			earned: []int64{2, 4},
			want:   []int64{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(ev.Evaluate(tt.entries, tt.earned))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateIsIdempotentOnceAwarded(t *testing.T) {
	ev := newSeedEvaluator(t)
	entries := []domain.UsageEntry{
		week("2024-06-10", "10", ""),
		week("2024-06-03", "10", ""),
	}

	first := ids(ev.Evaluate(entries, nil))
	if !slices.Equal(first, []int64{2}) {
		t.Fatalf("first check = %v, want [2]", first)
	}

	second := ids(ev.Evaluate(entries, first))
	if len(second) != 0 {
		t.Errorf("second check after awarding = %v, want none", second)
	}
}

func TestEvaluateDoesNotMutateInputs(t *testing.T) {
	ev := newSeedEvaluator(t)
	entries := []domain.UsageEntry{
		week("2024-06-10", "10", "12", "a"),
		week("2024-06-03", "10", "12", "b"),
	}
	earned := []int64{3}
	entriesCopy := slices.Clone(entries)
	earnedCopy := slices.Clone(earned)

	ev.Evaluate(entries, earned)

	if !slices.Equal(earned, earnedCopy) {
		t.Errorf("earned changed: %v", earned)
	}
	for i := range entries {
		if entries[i].WeekStartDate != entriesCopy[i].WeekStartDate || entries[i].ElectricityUsage != entriesCopy[i].ElectricityUsage {
			t.Errorf("entry %d changed", i)
		}
	}
}

func TestNewEvaluatorRejectsBadRules(t *testing.T) {
	tests := []struct {
		name string
		defs []badge.Definition
	}{
		{
			name: "unknown kind",
			defs: []badge.Definition{{Badge: domain.Badge{ID: 1}, Rule: badge.Rule{Kind: "streak"}}},
		},
		{
			name: "unknown field",
			defs: []badge.Definition{{Badge: domain.Badge{ID: 1}, Rule: badge.Rule{Kind: badge.KindAverageBelow, Field: "gas"}}},
		},
		{
			name: "missing min count",
			defs: []badge.Definition{{Badge: domain.Badge{ID: 1}, Rule: badge.Rule{Kind: badge.KindEntryCount}}},
		},
		{
			name: "duplicate badge",
			defs: []badge.Definition{
				{Badge: domain.Badge{ID: 1}, Rule: badge.Rule{Kind: badge.KindEntryCount, MinCount: 2}},
				{Badge: domain.Badge{ID: 1}, Rule: badge.Rule{Kind: badge.KindEntryCount, MinCount: 3}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := badge.NewEvaluator(tt.defs); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestAverageBelowRule(t *testing.T) {
	ev, err := badge.NewEvaluator([]badge.Definition{
		{Badge: domain.Badge{ID: 9, Name: "Light Footprint"}, Rule: badge.Rule{Kind: badge.KindAverageBelow, Field: badge.FieldElectricity, Threshold: 5}},
	})
	if err != nil {
		t.Fatalf("building evaluator: %v", err)
	}

	low := []domain.UsageEntry{week("2024-06-10", "4", ""), week("2024-06-03", "5", "")}
	if got := ids(ev.Evaluate(low, nil)); !slices.Equal(got, []int64{9}) {
		t.Errorf("low usage = %v, want [9]", got)
	}
	high := []domain.UsageEntry{week("2024-06-10", "5", ""), week("2024-06-03", "5", "")}
	if got := ids(ev.Evaluate(high, nil)); len(got) != 0 {
		t.Errorf("average equal to the bound = %v, want none", got)
	}
	if got := ids(ev.Evaluate(low[:1], nil)); len(got) != 0 {
		t.Errorf("single entry = %v, want none", got)
	}
}
