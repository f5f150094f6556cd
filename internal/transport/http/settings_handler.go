package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"greensteps/internal/application"
	"greensteps/internal/domain"
	"greensteps/internal/middleware"
)

const (
	invalidSettings = "Invalid settings data"
	settingsFailed  = "Failed to update settings"
)

type SettingsHandler struct {
	uc *application.HabitUseCase
}

func NewSettingsHandler(uc *application.HabitUseCase) *SettingsHandler {
	return &SettingsHandler{uc: uc}
}

type settingsReq struct {
	ElectricityLimit *string `json:"electricityLimit" binding:"omitempty,numeric"`
	ElectricityUnit  *string `json:"electricityUnit"`
	WaterLimit       *string `json:"waterLimit" binding:"omitempty,numeric"`
	WaterUnit        *string `json:"waterUnit"`
	WeeklyAlerts     *bool   `json:"weeklyAlerts"`
	ThresholdAlerts  *bool   `json:"thresholdAlerts"`
	SavingTips       *bool   `json:"savingTips"`
}

func (r settingsReq) update() domain.SettingsUpdate {
	return domain.SettingsUpdate{
		ElectricityLimit: r.ElectricityLimit,
		ElectricityUnit:  r.ElectricityUnit,
		WaterLimit:       r.WaterLimit,
		WaterUnit:        r.WaterUnit,
		WeeklyAlerts:     r.WeeklyAlerts,
		ThresholdAlerts:  r.ThresholdAlerts,
		SavingTips:       r.SavingTips,
	}
}

// GET /api/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.uc.Settings(c, c.GetInt64(middleware.UserIDKey))
	if err != nil {
		writeError(c, err, "", "Failed to fetch settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// PUT and PATCH /api/settings. Both merge over the stored record.
func (h *SettingsHandler) Update(c *gin.Context) {
	var req settingsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindingError(err), invalidSettings, settingsFailed)
		return
	}

	settings, err := h.uc.UpdateSettings(c, c.GetInt64(middleware.UserIDKey), req.update())
	if err != nil {
		writeError(c, err, invalidSettings, settingsFailed)
		return
	}
	c.JSON(http.StatusOK, settings)
}
