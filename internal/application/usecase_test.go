package application

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"strconv"
	"testing"
	"time"

	"greensteps/internal/badge"
	"greensteps/internal/catalog"
	"greensteps/internal/domain"
	"greensteps/internal/infrastructure/repository"
	"greensteps/internal/logger"
)

// Wednesday 2024-06-05, week key 2024-06-03.
var wednesday = time.Date(2024, 6, 5, 10, 0, 0, 0, time.UTC)

type fixture struct {
	uc    *HabitUseCase
	store *repository.MemoryStore
	seed  *catalog.Seed
}

func newFixture(t *testing.T, opts ...Option) fixture {
	t.Helper()
	logger.Discard()
	seed, err := catalog.Default()
	if err != nil {
		t.Fatalf("loading seed: %v", err)
	}
	ev, err := badge.NewEvaluator(seed.Definitions())
	if err != nil {
		t.Fatalf("building evaluator: %v", err)
	}
	clock := func() time.Time { return wednesday }
	store := repository.NewMemoryStore(seed, repository.WithClock(clock))
	base := []Option{
		WithLocation(time.UTC),
		WithClock(clock),
		WithRandom(func(int) int { return 0 }),
	}
	uc := NewHabitUseCase(store, ev, seed.Settings, append(base, opts...)...)
	return fixture{uc: uc, store: store, seed: seed}
}

func earnedIDs(t *testing.T, f fixture) []int64 {
	t.Helper()
	earned, err := f.uc.UserBadges(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	return domain.BadgeIDs(earned)
}

func TestSubmitEntryRejectsDuplicateWeek(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, _, err := f.uc.SubmitEntry(ctx, 1, domain.UsageInput{WeekStartDate: "2024-06-03", WaterUsage: ptr("10")})
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	_, _, err = f.uc.SubmitEntry(ctx, 1, domain.UsageInput{WeekStartDate: "2024-06-03", WaterUsage: ptr("20")})
	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("second submit error = %v, want conflict", err)
	}
	if conflict.Existing.ID != first.ID || *conflict.Existing.WaterUsage != "10" {
		t.Errorf("conflict carries %+v", conflict.Existing)
	}
}

func TestSubmitEntryValidates(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.uc.SubmitEntry(context.Background(), 1, domain.UsageInput{WeekStartDate: " ", WaterUsage: ptr("-1")})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want validation error", err)
	}
	if len(verr.Fields) != 2 {
		t.Errorf("fields = %+v", verr.Fields)
	}
	if entries, _ := f.uc.Entries(context.Background(), 1, 0); len(entries) != 0 {
		t.Error("invalid submission was stored")
	}
}

func TestRecyclingStreakAwardedOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, awarded, err := f.uc.SubmitEntry(ctx, 1, domain.UsageInput{WeekStartDate: "2024-05-27", ElectricityUsage: ptr("10")})
	if err != nil {
		t.Fatal(err)
	}
	if len(awarded) != 0 {
		t.Errorf("one week awarded %v", awarded)
	}

	_, awarded, err = f.uc.SubmitEntry(ctx, 1, domain.UsageInput{WeekStartDate: "2024-06-03", ElectricityUsage: ptr("12")})
	if err != nil {
		t.Fatal(err)
	}
	if len(awarded) != 1 || awarded[0].Name != "Recycling Streak" {
		t.Fatalf("awarded = %+v, want Recycling Streak", awarded)
	}

	_, awarded, err = f.uc.SubmitEntry(ctx, 1, domain.UsageInput{WeekStartDate: "2024-06-10", ElectricityUsage: ptr("15")})
	if err != nil {
		t.Fatal(err)
	}
	if len(awarded) != 0 {
		t.Errorf("third week awarded %v", awarded)
	}
	if got := earnedIDs(t, f); !slices.Equal(got, []int64{2}) {
		t.Errorf("earned = %v, want [2]", got)
	}
	earned, _ := f.uc.UserBadges(ctx, 1)
	if !earned[0].EarnedAt.Equal(wednesday) {
		t.Errorf("earnedAt = %v, want %v", earned[0].EarnedAt, wednesday)
	}
}

func TestUpdateDoesNotAward(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, _, _ := f.uc.SubmitEntry(ctx, 1, domain.UsageInput{WeekStartDate: "2024-05-27", ElectricityUsage: ptr("1")})
	b, _, _ := f.uc.SubmitEntry(ctx, 1, domain.UsageInput{WeekStartDate: "2024-06-03", ElectricityUsage: ptr("1")})
	for _, id := range []int64{a.ID, b.ID} {
		if _, err := f.uc.UpdateEntry(ctx, id, domain.UsageUpdate{ElectricityUsage: ptr("11")}); err != nil {
			t.Fatalf("update %d: %v", id, err)
		}
	}

	if got := earnedIDs(t, f); len(got) != 0 {
		t.Errorf("update awarded %v", got)
	}
	eligible, err := f.uc.EligibleBadges(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(eligible) != 1 || eligible[0].ID != 2 {
		t.Errorf("eligible = %+v, want Recycling Streak", eligible)
	}
	if got := earnedIDs(t, f); len(got) != 0 {
		t.Error("eligibility check persisted an award")
	}
}

func TestUpdateEntryErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.uc.UpdateEntry(ctx, 77, domain.UsageUpdate{Notes: ptr("x")}); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Errorf("unknown id error = %v", err)
	}
	var verr *domain.ValidationError
	if _, err := f.uc.UpdateEntry(ctx, 1, domain.UsageUpdate{WaterUsage: ptr("-4")}); !errors.As(err, &verr) {
		t.Errorf("bad value error = %v", err)
	}
}

type failingAwards struct {
	*repository.MemoryStore
}

func (failingAwards) AwardBadge(context.Context, int64, int64) (bool, error) {
	return false, errors.New("award table unavailable")
}

func TestSubmitEntrySurvivesAwardFailure(t *testing.T) {
	f := newFixture(t)
	ev, _ := badge.NewEvaluator(f.seed.Definitions())
	uc := NewHabitUseCase(failingAwards{f.store}, ev, f.seed.Settings, WithClock(func() time.Time { return wednesday }))
	ctx := context.Background()

	_, _, _ = uc.SubmitEntry(ctx, 1, domain.UsageInput{WeekStartDate: "2024-05-27", ElectricityUsage: ptr("10")})
	entry, awarded, err := uc.SubmitEntry(ctx, 1, domain.UsageInput{WeekStartDate: "2024-06-03", ElectricityUsage: ptr("10")})
	if err != nil {
		t.Fatalf("SubmitEntry error = %v", err)
	}
	if entry == nil || len(awarded) != 0 {
		t.Errorf("entry = %v awarded = %v", entry, awarded)
	}
}

func TestCurrentWeek(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		loc  *time.Location
		want string
	}{
		{"wednesday", wednesday, time.UTC, "2024-06-03"},
		{"monday", time.Date(2024, 6, 3, 0, 30, 0, 0, time.UTC), time.UTC, "2024-06-03"},
		{"sunday goes back six days", time.Date(2024, 6, 9, 23, 0, 0, 0, time.UTC), time.UTC, "2024-06-03"},
		{"zone moves the day", time.Date(2024, 6, 9, 23, 0, 0, 0, time.UTC), time.FixedZone("UTC+3", 3*3600), "2024-06-10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := tt.now
			f := newFixture(t, WithLocation(tt.loc), WithClock(func() time.Time { return now }))
			if got := f.uc.CurrentWeek(); got != tt.want {
				t.Errorf("CurrentWeek() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCurrentEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	got, err := f.uc.CurrentEntry(ctx, 1)
	if err != nil || got != nil {
		t.Fatalf("empty = %v, %v", got, err)
	}
	_, _, _ = f.uc.SubmitEntry(ctx, 1, domain.UsageInput{WeekStartDate: "2024-06-03"})
	got, _ = f.uc.CurrentEntry(ctx, 1)
	if got == nil || got.WeekStartDate != "2024-06-03" {
		t.Errorf("current = %+v", got)
	}
}

func TestTips(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	all, _ := f.uc.Tips(ctx, "")
	if len(all) != 10 {
		t.Errorf("got %d tips", len(all))
	}
	hydration, _ := f.uc.Tips(ctx, "hydration")
	if len(hydration) != 5 {
		t.Errorf("got %d hydration tips", len(hydration))
	}

	for _, pick := range []int{0, 4, 9} {
		f := newFixture(t, WithRandom(func(n int) int {
			if n != 10 {
				t.Errorf("random source asked for n=%d", n)
			}
			return pick
		}))
		tip, err := f.uc.RandomTip(ctx)
		if err != nil || tip == nil {
			t.Fatalf("RandomTip = %v, %v", tip, err)
		}
		if tip.ID != all[pick].ID {
			t.Errorf("pick %d returned tip %d", pick, tip.ID)
		}
	}
}

func TestRandomTipAlwaysFromCatalog(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, WithRandom(rand.IntN))

	all, _ := f.uc.Tips(ctx, "")
	for i := 0; i < 50; i++ {
		tip, err := f.uc.RandomTip(ctx)
		if err != nil || tip == nil {
			t.Fatalf("RandomTip = %v, %v", tip, err)
		}
		if !slices.ContainsFunc(all, func(c domain.Tip) bool { return c.ID == tip.ID }) {
			t.Fatalf("tip %d not in catalog", tip.ID)
		}
	}
}

func TestSettingsLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if got, _ := f.uc.Settings(ctx, 1); got != nil {
		t.Fatalf("settings before first write = %+v", got)
	}

	st, err := f.uc.UpdateSettings(ctx, 1, domain.SettingsUpdate{WaterLimit: ptr("12"), SavingTips: ptr(false)})
	if err != nil {
		t.Fatalf("first write: %v", err)
	}
	if st.WaterLimit != "12" || st.ElectricityLimit != "10" || st.ElectricityUnit != "items" || st.SavingTips || !st.WeeklyAlerts {
		t.Errorf("first write = %+v", st)
	}

	st, err = f.uc.UpdateSettings(ctx, 1, domain.SettingsUpdate{WeeklyAlerts: ptr(false), WaterUnit: ptr("cups")})
	if err != nil {
		t.Fatalf("second write: %v", err)
	}
	if st.WaterLimit != "12" || st.WaterUnit != "cups" || st.WeeklyAlerts || st.SavingTips {
		t.Errorf("second write = %+v", st)
	}

	// Writing only the limits keeps the earlier choices.
	st, _ = f.uc.UpdateSettings(ctx, 1, domain.SettingsUpdate{ElectricityLimit: ptr("8"), WaterLimit: ptr("16")})
	if st.ElectricityLimit != "8" || st.WaterLimit != "16" || st.WaterUnit != "cups" || st.WeeklyAlerts || st.SavingTips {
		t.Errorf("limits write = %+v", st)
	}

	var verr *domain.ValidationError
	if _, err := f.uc.UpdateSettings(ctx, 1, domain.SettingsUpdate{WaterLimit: ptr("0")}); !errors.As(err, &verr) {
		t.Errorf("zero limit error = %v", err)
	}
}

func TestDashboard(t *testing.T) {
	f := newFixture(t, WithRandom(func(n int) int { return n - 1 }))
	ctx := context.Background()

	_, _, _ = f.uc.SubmitEntry(ctx, 1, domain.UsageInput{WeekStartDate: "2024-05-27", ElectricityUsage: ptr("10"), WaterUsage: ptr("1")})
	_, _, _ = f.uc.SubmitEntry(ctx, 1, domain.UsageInput{WeekStartDate: "2024-06-03", ElectricityUsage: ptr("13"), WaterUsage: ptr("2.5")})
	_, _ = f.uc.UpdateSettings(ctx, 1, domain.SettingsUpdate{})

	d, err := f.uc.Dashboard(ctx, 1)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if d.CurrentWeekUsage == nil || d.CurrentWeekUsage.WeekStartDate != "2024-06-03" {
		t.Errorf("current week = %+v", d.CurrentWeekUsage)
	}
	if len(d.RecentUsage) != 2 {
		t.Errorf("recent = %d entries", len(d.RecentUsage))
	}
	if d.RecentElectricity != 23 || d.RecentWater != 3.5 {
		t.Errorf("totals = %v/%v", d.RecentElectricity, d.RecentWater)
	}
	// Recycling Streak only.
	if d.TotalPoints != 75 {
		t.Errorf("points = %d, want 75", d.TotalPoints)
	}
	if d.MonthlySavings != 49 {
		t.Errorf("monthly savings = %d, want 49", d.MonthlySavings)
	}
	if d.Settings == nil {
		t.Fatal("settings missing")
	}
	if len(d.Alerts) != 1 || d.Alerts[0].Metric != "electricity" || d.Alerts[0].PercentOver != 30 || d.Alerts[0].Status != domain.StatusAlert {
		t.Errorf("alerts = %+v", d.Alerts)
	}
}

func TestDashboardEmpty(t *testing.T) {
	f := newFixture(t)
	d, err := f.uc.Dashboard(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if d.CurrentWeekUsage != nil || d.Settings != nil || len(d.RecentUsage) != 0 || d.TotalPoints != 0 {
		t.Errorf("empty dashboard = %+v", d)
	}
	if d.Alerts == nil || d.MonthlySavings != 20 {
		t.Errorf("alerts = %v savings = %d", d.Alerts, d.MonthlySavings)
	}
}

func TestSeedSampleData(t *testing.T) {
	f := newFixture(t, WithRandom(func(n int) int { return n - 1 }))
	ctx := context.Background()

	if err := f.uc.SeedSampleData(ctx, 1); err != nil {
		t.Fatalf("SeedSampleData: %v", err)
	}
	entries, _ := f.uc.Entries(ctx, 1, 0)
	want := []string{"2024-06-03", "2024-05-27", "2024-05-20", "2024-05-13"}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries", len(entries))
	}
	for i, e := range entries {
		if e.WeekStartDate != want[i] {
			t.Errorf("entry %d week = %s, want %s", i, e.WeekStartDate, want[i])
		}
		elec, _ := strconv.Atoi(*e.ElectricityUsage)
		water, _ := strconv.Atoi(*e.WaterUsage)
		if elec != 16 || water != 16 {
			t.Errorf("entry %d values = %d/%d", i, elec, water)
		}
		if e.ElectricityUnit != "items" || e.WaterUnit != "L" {
			t.Errorf("entry %d units = %s/%s", i, e.ElectricityUnit, e.WaterUnit)
		}
	}
	st, _ := f.uc.Settings(ctx, 1)
	if st == nil || st.ElectricityLimit != "10" || st.WaterLimit != "14" {
		t.Errorf("settings = %+v", st)
	}
	if got := earnedIDs(t, f); len(got) != 0 {
		t.Errorf("sample data awarded %v", got)
	}

	if err := f.uc.SeedSampleData(ctx, 1); err != nil {
		t.Fatalf("second SeedSampleData: %v", err)
	}
	if again, _ := f.uc.Entries(ctx, 1, 0); len(again) != len(want) {
		t.Errorf("reseeding added entries: %d", len(again))
	}
}
