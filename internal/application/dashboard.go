package application

import (
	"context"
	"fmt"

	"greensteps/internal/domain"
)

// Dashboard is the aggregate shown on the landing page.
type Dashboard struct {
	CurrentWeekUsage  *domain.UsageEntry  `json:"currentWeekUsage"`
	RecentUsage       []domain.UsageEntry `json:"recentUsage"`
	TotalPoints       int                 `json:"totalPoints"`
	MonthlySavings    int                 `json:"monthlySavings"`
	RecentElectricity float64             `json:"recentElectricity"`
	RecentWater       float64             `json:"recentWater"`
	Settings          *domain.Settings    `json:"settings"`
	Alerts            []domain.UsageAlert `json:"alerts"`
}

func (uc *HabitUseCase) Dashboard(ctx context.Context, userID int64) (*Dashboard, error) {
	current, err := uc.CurrentEntry(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading current week: %w", err)
	}
	recent, err := uc.store.ListRecent(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading recent entries: %w", err)
	}
	earned, err := uc.store.UserBadges(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading earned badges: %w", err)
	}
	settings, err := uc.store.GetSettings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	d := &Dashboard{
		CurrentWeekUsage: current,
		RecentUsage:      recent,
		TotalPoints:      domain.TotalPoints(earned),
		// Placeholder figure, not derived from usage.
		MonthlySavings: 20 + uc.intn(30),
		Settings:       settings,
		Alerts:         domain.ThresholdAlerts(current, settings),
	}
	for _, e := range recent {
		d.RecentElectricity += e.Electricity()
		d.RecentWater += e.Water()
	}
	return d, nil
}
