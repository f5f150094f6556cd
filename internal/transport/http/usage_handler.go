package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"greensteps/internal/application"
	"greensteps/internal/domain"
	"greensteps/internal/middleware"
)

const invalidUsage = "Invalid usage data"

type UsageHandler struct {
	uc *application.HabitUseCase
}

func NewUsageHandler(uc *application.HabitUseCase) *UsageHandler {
	return &UsageHandler{uc: uc}
}

type createUsageReq struct {
	WeekStartDate    string  `json:"weekStartDate" binding:"required,datetime=2006-01-02"`
	ElectricityUsage *string `json:"electricityUsage" binding:"omitempty,numeric"`
	ElectricityUnit  *string `json:"electricityUnit"`
	WaterUsage       *string `json:"waterUsage" binding:"omitempty,numeric"`
	WaterUnit        *string `json:"waterUnit"`
	Notes            *string `json:"notes"`
}

type updateUsageReq struct {
	WeekStartDate    *string `json:"weekStartDate" binding:"omitempty,datetime=2006-01-02"`
	ElectricityUsage *string `json:"electricityUsage" binding:"omitempty,numeric"`
	ElectricityUnit  *string `json:"electricityUnit"`
	WaterUsage       *string `json:"waterUsage" binding:"omitempty,numeric"`
	WaterUnit        *string `json:"waterUnit"`
	Notes            *string `json:"notes"`
}

// GET /api/usage?limit=N
func (h *UsageHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			verr := &domain.ValidationError{}
			verr.Add("limit", "must be a non-negative integer")
			writeError(c, verr, "Invalid query", "Failed to fetch usage entries")
			return
		}
		limit = n
	}

	entries, err := h.uc.Entries(c, c.GetInt64(middleware.UserIDKey), limit)
	if err != nil {
		writeError(c, err, invalidUsage, "Failed to fetch usage entries")
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GET /api/usage/current
func (h *UsageHandler) Current(c *gin.Context) {
	entry, err := h.uc.CurrentEntry(c, c.GetInt64(middleware.UserIDKey))
	if err != nil {
		writeError(c, err, invalidUsage, "Failed to fetch current week usage")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// GET /api/usage/recent
func (h *UsageHandler) Recent(c *gin.Context) {
	entries, err := h.uc.RecentEntries(c, c.GetInt64(middleware.UserIDKey))
	if err != nil {
		writeError(c, err, invalidUsage, "Failed to fetch recent usage")
		return
	}
	c.JSON(http.StatusOK, entries)
}

// POST /api/usage
func (h *UsageHandler) Create(c *gin.Context) {
	var req createUsageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindingError(err), invalidUsage, "")
		return
	}

	entry, _, err := h.uc.SubmitEntry(c, c.GetInt64(middleware.UserIDKey), domain.UsageInput{
		WeekStartDate:    req.WeekStartDate,
		ElectricityUsage: req.ElectricityUsage,
		ElectricityUnit:  req.ElectricityUnit,
		WaterUsage:       req.WaterUsage,
		WaterUnit:        req.WaterUnit,
		Notes:            req.Notes,
	})
	if err != nil {
		writeError(c, err, invalidUsage, "Failed to create usage entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// PUT /api/usage/:id
func (h *UsageHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		verr := &domain.ValidationError{}
		verr.Add("id", "must be a positive integer")
		writeError(c, verr, invalidUsage, "")
		return
	}

	var req updateUsageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindingError(err), invalidUsage, "")
		return
	}

	entry, err := h.uc.UpdateEntry(c, id, domain.UsageUpdate{
		WeekStartDate:    req.WeekStartDate,
		ElectricityUsage: req.ElectricityUsage,
		ElectricityUnit:  req.ElectricityUnit,
		WaterUsage:       req.WaterUsage,
		WaterUnit:        req.WaterUnit,
		Notes:            req.Notes,
	})
	if err != nil {
		writeError(c, err, invalidUsage, "Failed to update usage entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}
