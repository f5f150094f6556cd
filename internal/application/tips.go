package application

import (
	"context"

	"greensteps/internal/domain"
)

// Tips returns the catalog, or only one category when category is set.
func (uc *HabitUseCase) Tips(ctx context.Context, category string) ([]domain.Tip, error) {
	if category == "" {
		return uc.store.AllTips(ctx)
	}
	return uc.store.TipsByCategory(ctx, category)
}

// RandomTip picks uniformly from the whole catalog. It is nil only when the catalog is empty.
func (uc *HabitUseCase) RandomTip(ctx context.Context) (*domain.Tip, error) {
	tips, err := uc.store.AllTips(ctx)
	if err != nil {
		return nil, err
	}
	if len(tips) == 0 {
		return nil, nil
	}
	tip := tips[uc.intn(len(tips))]
	return &tip, nil
}
