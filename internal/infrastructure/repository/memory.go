package repository

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"greensteps/internal/catalog"
	"greensteps/internal/domain"
)

// MemoryStore keeps every table in process memory behind one lock.
// Nothing survives a restart.
type MemoryStore struct {
	mu sync.RWMutex

	users      map[int64]domain.User
	entries    map[int64]domain.UsageEntry
	tips       []domain.Tip
	badges     []domain.Badge
	userBadges []domain.UserBadge
	settings   map[int64]domain.Settings

	nextEntryID    int64
	nextAwardID    int64
	nextSettingsID int64

	defaults domain.Settings
	units    domain.Units
	now      func() time.Time
}

type MemoryOption func(*MemoryStore)

// WithUnits sets the units stored on entries that do not name their own.
func WithUnits(u domain.Units) MemoryOption {
	return func(s *MemoryStore) { s.units = u }
}

func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) { s.now = now }
}

func NewMemoryStore(seed *catalog.Seed, opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		users:          map[int64]domain.User{seed.User.ID: seed.User},
		entries:        make(map[int64]domain.UsageEntry),
		tips:           slices.Clone(seed.Tips),
		badges:         seed.BadgeList(),
		settings:       make(map[int64]domain.Settings),
		nextEntryID:    1,
		nextAwardID:    1,
		nextSettingsID: 1,
		defaults:       seed.Settings,
		units:          domain.DefaultUnits,
		now:            time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	slices.SortFunc(s.tips, func(a, b domain.Tip) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortFunc(s.badges, func(a, b domain.Badge) int { return cmp.Compare(a.ID, b.ID) })
	return s
}

func (s *MemoryStore) GetUser(_ context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (s *MemoryStore) CreateEntry(_ context.Context, userID int64, in domain.UsageInput) (*domain.UsageEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.findWeek(userID, in.WeekStartDate); ok {
		return nil, &domain.ConflictError{Existing: existing}
	}

	entry := domain.NewUsageEntry(userID, in, s.units, s.now())
	entry.ID = s.nextEntryID
	s.nextEntryID++
	s.entries[entry.ID] = entry
	return &entry, nil
}

func (s *MemoryStore) UpdateEntry(_ context.Context, id int64, u domain.UsageUpdate) (*domain.UsageEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	entry.Apply(u)
	if other, ok := s.findWeek(entry.UserID, entry.WeekStartDate); ok && other.ID != id {
		return nil, &domain.ConflictError{Existing: other}
	}
	s.entries[id] = entry
	return &entry, nil
}

func (s *MemoryStore) GetEntryForWeek(_ context.Context, userID int64, week string) (*domain.UsageEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.findWeek(userID, week); ok {
		return &e, nil
	}
	return nil, nil
}

func (s *MemoryStore) ListEntries(_ context.Context, userID int64, limit int) ([]domain.UsageEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]domain.UsageEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.UserID == userID {
			list = append(list, e)
		}
	}
	// Week keys are zero-padded dates, so string order is date order.
	slices.SortFunc(list, func(a, b domain.UsageEntry) int {
		if c := cmp.Compare(b.WeekStartDate, a.WeekStartDate); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (s *MemoryStore) ListRecent(ctx context.Context, userID int64) ([]domain.UsageEntry, error) {
	return s.ListEntries(ctx, userID, domain.RecentWindow)
}

func (s *MemoryStore) AllTips(_ context.Context) ([]domain.Tip, error) {
	return slices.Clone(s.tips), nil
}

func (s *MemoryStore) TipsByCategory(_ context.Context, category string) ([]domain.Tip, error) {
	tips := []domain.Tip{}
	for _, t := range s.tips {
		if t.Category == category {
			tips = append(tips, t)
		}
	}
	return tips, nil
}

func (s *MemoryStore) AllBadges(_ context.Context) ([]domain.Badge, error) {
	return slices.Clone(s.badges), nil
}

func (s *MemoryStore) UserBadges(_ context.Context, userID int64) ([]domain.EarnedBadge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	earned := []domain.EarnedBadge{}
	for _, ub := range s.userBadges {
		if ub.UserID != userID {
			continue
		}
		b, ok := s.badge(ub.BadgeID)
		if !ok {
			continue
		}
		earned = append(earned, domain.EarnedBadge{UserBadge: ub, Badge: b})
	}
	return earned, nil
}

// AwardBadge records an award once; created is false when the user already held it.
func (s *MemoryStore) AwardBadge(_ context.Context, userID, badgeID int64) (created bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ub := range s.userBadges {
		if ub.UserID == userID && ub.BadgeID == badgeID {
			return false, nil
		}
	}
	s.userBadges = append(s.userBadges, domain.UserBadge{
		ID:       s.nextAwardID,
		UserID:   userID,
		BadgeID:  badgeID,
		EarnedAt: s.now(),
	})
	s.nextAwardID++
	return true, nil
}

func (s *MemoryStore) GetSettings(_ context.Context, userID int64) (*domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.settings[userID]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (s *MemoryStore) UpdateSettings(_ context.Context, userID int64, u domain.SettingsUpdate) (*domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.settings[userID]
	if !ok {
		st = s.defaults.WithDefaults(userID)
		st.ID = s.nextSettingsID
		s.nextSettingsID++
	}
	st.Apply(u)
	s.settings[userID] = st
	return &st, nil
}

func (s *MemoryStore) findWeek(userID int64, week string) (domain.UsageEntry, bool) {
	for _, e := range s.entries {
		if e.UserID == userID && e.WeekStartDate == week {
			return e, true
		}
	}
	return domain.UsageEntry{}, false
}

func (s *MemoryStore) badge(id int64) (domain.Badge, bool) {
	for _, b := range s.badges {
		if b.ID == id {
			return b, true
		}
	}
	return domain.Badge{}, false
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error {
	return nil
}
