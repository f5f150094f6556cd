package application

import (
	"context"
	"math/rand/v2"
	"time"

	"greensteps/internal/badge"
	"greensteps/internal/domain"
)

// Store is the persistence the use case needs. Both repository
// implementations satisfy it.
type Store interface {
	CreateEntry(ctx context.Context, userID int64, in domain.UsageInput) (*domain.UsageEntry, error)
	UpdateEntry(ctx context.Context, id int64, u domain.UsageUpdate) (*domain.UsageEntry, error)
	GetEntryForWeek(ctx context.Context, userID int64, week string) (*domain.UsageEntry, error)
	ListEntries(ctx context.Context, userID int64, limit int) ([]domain.UsageEntry, error)
	ListRecent(ctx context.Context, userID int64) ([]domain.UsageEntry, error)

	AllTips(ctx context.Context) ([]domain.Tip, error)
	TipsByCategory(ctx context.Context, category string) ([]domain.Tip, error)

	AllBadges(ctx context.Context) ([]domain.Badge, error)
	UserBadges(ctx context.Context, userID int64) ([]domain.EarnedBadge, error)
	AwardBadge(ctx context.Context, userID, badgeID int64) (bool, error)

	GetSettings(ctx context.Context, userID int64) (*domain.Settings, error)
	UpdateSettings(ctx context.Context, userID int64, u domain.SettingsUpdate) (*domain.Settings, error)

	GetUser(ctx context.Context, id int64) (*domain.User, error)
}

type HabitUseCase struct {
	store     Store
	evaluator *badge.Evaluator
	defaults  domain.Settings

	loc  *time.Location
	now  func() time.Time
	intn func(n int) int
}

type Option func(*HabitUseCase)

// WithLocation sets the time zone the current week is computed in.
func WithLocation(loc *time.Location) Option {
	return func(uc *HabitUseCase) { uc.loc = loc }
}

func WithClock(now func() time.Time) Option {
	return func(uc *HabitUseCase) { uc.now = now }
}

// WithRandom replaces the random source; intn must return a value in [0, n).
func WithRandom(intn func(n int) int) Option {
	return func(uc *HabitUseCase) { uc.intn = intn }
}

func NewHabitUseCase(store Store, evaluator *badge.Evaluator, defaults domain.Settings, opts ...Option) *HabitUseCase {
	uc := &HabitUseCase{
		store:     store,
		evaluator: evaluator,
		defaults:  defaults,
		loc:       time.Local,
		now:       time.Now,
		intn:      rand.IntN,
	}
	for _, o := range opts {
		o(uc)
	}
	return uc
}

// CurrentWeek returns the key of the week containing now.
func (uc *HabitUseCase) CurrentWeek() string {
	return domain.WeekStart(uc.now().In(uc.loc))
}

// User fetches the account a request acts for.
func (uc *HabitUseCase) User(ctx context.Context, id int64) (*domain.User, error) {
	return uc.store.GetUser(ctx, id)
}
