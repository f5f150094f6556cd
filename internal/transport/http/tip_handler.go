package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"greensteps/internal/application"
)

type TipHandler struct {
	uc *application.HabitUseCase
}

func NewTipHandler(uc *application.HabitUseCase) *TipHandler {
	return &TipHandler{uc: uc}
}

// GET /api/tips?category=C
func (h *TipHandler) List(c *gin.Context) {
	tips, err := h.uc.Tips(c, c.Query("category"))
	if err != nil {
		writeError(c, err, "", "Failed to fetch tips")
		return
	}
	c.JSON(http.StatusOK, tips)
}

// GET /api/tips/random
func (h *TipHandler) Random(c *gin.Context) {
	tip, err := h.uc.RandomTip(c)
	if err != nil {
		writeError(c, err, "", "Failed to fetch random tip")
		return
	}
	c.JSON(http.StatusOK, tip)
}
