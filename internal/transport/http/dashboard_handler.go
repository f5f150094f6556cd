package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"greensteps/internal/application"
	"greensteps/internal/middleware"
)

type DashboardHandler struct {
	uc *application.HabitUseCase
}

func NewDashboardHandler(uc *application.HabitUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GET /api/dashboard
func (h *DashboardHandler) Get(c *gin.Context) {
	d, err := h.uc.Dashboard(c, c.GetInt64(middleware.UserIDKey))
	if err != nil {
		writeError(c, err, "", "Failed to fetch dashboard data")
		return
	}
	c.JSON(http.StatusOK, d)
}

// GET /health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
