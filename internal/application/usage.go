package application

import (
	"context"
	"fmt"

	"greensteps/internal/domain"
	"greensteps/internal/logger"
)

// SubmitEntry stores a new weekly entry and awards every badge the user's
// recent weeks now qualify for. A duplicate week returns *domain.ConflictError.
func (uc *HabitUseCase) SubmitEntry(ctx context.Context, userID int64, in domain.UsageInput) (*domain.UsageEntry, []domain.Badge, error) {
	if err := in.Validate(); err != nil {
		return nil, nil, err
	}

	entry, err := uc.store.CreateEntry(ctx, userID, in)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("usage entry created", "user", userID, "week", entry.WeekStartDate, "id", entry.ID)

	awarded, err := uc.awardEligible(ctx, userID)
	if err != nil {
		// The entry is already stored; awards are retried on the next submission.
		logger.Error("badge evaluation failed", "user", userID, "err", err)
		return entry, nil, nil
	}
	return entry, awarded, nil
}

func (uc *HabitUseCase) awardEligible(ctx context.Context, userID int64) ([]domain.Badge, error) {
	eligible, err := uc.EligibleBadges(ctx, userID)
	if err != nil {
		return nil, err
	}
	awarded := make([]domain.Badge, 0, len(eligible))
	for _, b := range eligible {
		created, err := uc.store.AwardBadge(ctx, userID, b.ID)
		if err != nil {
			return awarded, fmt.Errorf("awarding badge %d: %w", b.ID, err)
		}
		if created {
			logger.Info("badge awarded", "user", userID, "badge", b.Name)
			awarded = append(awarded, b)
		}
	}
	return awarded, nil
}

// UpdateEntry edits an entry in place. It does not re-run badge evaluation.
func (uc *HabitUseCase) UpdateEntry(ctx context.Context, id int64, u domain.UsageUpdate) (*domain.UsageEntry, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return uc.store.UpdateEntry(ctx, id, u)
}

// Entries lists the user's entries, newest week first. limit <= 0 lists all.
func (uc *HabitUseCase) Entries(ctx context.Context, userID int64, limit int) ([]domain.UsageEntry, error) {
	return uc.store.ListEntries(ctx, userID, limit)
}

func (uc *HabitUseCase) RecentEntries(ctx context.Context, userID int64) ([]domain.UsageEntry, error) {
	return uc.store.ListRecent(ctx, userID)
}

// CurrentEntry returns the entry for the current week, or nil.
func (uc *HabitUseCase) CurrentEntry(ctx context.Context, userID int64) (*domain.UsageEntry, error) {
	return uc.store.GetEntryForWeek(ctx, userID, uc.CurrentWeek())
}
