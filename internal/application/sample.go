package application

import (
	"context"
	"errors"
	"strconv"

	"greensteps/internal/domain"
	"greensteps/internal/logger"
)

const sampleWeeks = 4

// SeedSampleData gives a fresh user default settings and a few weeks of
// random history ending with the current week. Weeks already logged are left alone.
func (uc *HabitUseCase) SeedSampleData(ctx context.Context, userID int64) error {
	settings, err := uc.store.GetSettings(ctx, userID)
	if err != nil {
		return err
	}
	if settings == nil {
		all := domain.SettingsUpdate{}.FillMissing(uc.defaults)
		if settings, err = uc.store.UpdateSettings(ctx, userID, all); err != nil {
			return err
		}
	}

	now := uc.now().In(uc.loc)
	created := 0
	for i := sampleWeeks - 1; i >= 0; i-- {
		in := domain.UsageInput{
			WeekStartDate:    domain.WeekStart(now.AddDate(0, 0, -7*i)),
			ElectricityUsage: ptr(strconv.Itoa(6 + uc.intn(11))),
			ElectricityUnit:  ptr(settings.ElectricityUnit),
			WaterUsage:       ptr(strconv.Itoa(10 + uc.intn(7))),
			WaterUnit:        ptr(settings.WaterUnit),
		}
		_, err := uc.store.CreateEntry(ctx, userID, in)
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			continue
		}
		if err != nil {
			return err
		}
		created++
	}
	logger.Info("sample data seeded", "user", userID, "entries", created)
	return nil
}

func ptr[T any](v T) *T {
	return &v
}
