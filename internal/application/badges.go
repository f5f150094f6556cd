package application

import (
	"context"
	"fmt"

	"greensteps/internal/domain"
	"greensteps/internal/logger"
)

// EligibleBadges reports what the user would earn now, without awarding it.
func (uc *HabitUseCase) EligibleBadges(ctx context.Context, userID int64) ([]domain.Badge, error) {
	recent, err := uc.store.ListRecent(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading recent entries: %w", err)
	}
	earned, err := uc.store.UserBadges(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading earned badges: %w", err)
	}
	eligible := uc.evaluator.Evaluate(recent, domain.BadgeIDs(earned))
	logger.Debug("badge rules evaluated", "user", userID, "window", len(recent), "earned", len(earned), "eligible", len(eligible))
	return eligible, nil
}

func (uc *HabitUseCase) Badges(ctx context.Context) ([]domain.Badge, error) {
	return uc.store.AllBadges(ctx)
}

func (uc *HabitUseCase) UserBadges(ctx context.Context, userID int64) ([]domain.EarnedBadge, error) {
	return uc.store.UserBadges(ctx, userID)
}
