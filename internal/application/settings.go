package application

import (
	"context"

	"greensteps/internal/domain"
)

func (uc *HabitUseCase) Settings(ctx context.Context, userID int64) (*domain.Settings, error) {
	return uc.store.GetSettings(ctx, userID)
}

// UpdateSettings merges the given fields over the stored record. The first
// write starts from the defaults; later writes keep every field they leave out.
func (uc *HabitUseCase) UpdateSettings(ctx context.Context, userID int64, u domain.SettingsUpdate) (*domain.Settings, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return uc.store.UpdateSettings(ctx, userID, u)
}
