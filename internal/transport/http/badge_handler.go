package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"greensteps/internal/application"
	"greensteps/internal/middleware"
)

type BadgeHandler struct {
	uc *application.HabitUseCase
}

func NewBadgeHandler(uc *application.HabitUseCase) *BadgeHandler {
	return &BadgeHandler{uc: uc}
}

func (h *BadgeHandler) List(c *gin.Context) {
	badges, err := h.uc.Badges(c)
	if err != nil {
		writeError(c, err, "", "Failed to fetch badges")
		return
	}
	c.JSON(http.StatusOK, badges)
}

// Earned lists the user's awards with badge detail.
func (h *BadgeHandler) Earned(c *gin.Context) {
	earned, err := h.uc.UserBadges(c, c.GetInt64(middleware.UserIDKey))
	if err != nil {
		writeError(c, err, "", "Failed to fetch user badges")
		return
	}
	c.JSON(http.StatusOK, earned)
}

// Eligible reports badges the user qualifies for now. Nothing is awarded.
func (h *BadgeHandler) Eligible(c *gin.Context) {
	eligible, err := h.uc.EligibleBadges(c, c.GetInt64(middleware.UserIDKey))
	if err != nil {
		writeError(c, err, "", "Failed to check badge eligibility")
		return
	}
	c.JSON(http.StatusOK, eligible)
}
