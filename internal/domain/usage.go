package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// RecentWindow is the number of entries used for badge checks and dashboard totals.
const RecentWindow = 10

// UsageEntry is one user's log for a Monday-anchored week.
// Usage values are kept as the text the user typed.
type UsageEntry struct {
	ID               int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID           int64     `gorm:"not null;uniqueIndex:idx_usage_user_week" json:"userId"`
	WeekStartDate    string    `gorm:"not null;size:10;uniqueIndex:idx_usage_user_week" json:"weekStartDate"`
	ElectricityUsage *string   `json:"electricityUsage"`
	ElectricityUnit  string    `gorm:"not null" json:"electricityUnit"`
	WaterUsage       *string   `json:"waterUsage"`
	WaterUnit        string    `gorm:"not null" json:"waterUnit"`
	Notes            *string   `json:"notes"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (UsageEntry) TableName() string {
	return "usage_entries"
}

// Units holds the unit tags applied when an entry does not name its own.
type Units struct {
	Electricity string
	Water       string
}

var DefaultUnits = Units{Electricity: "kWh", Water: "L"}

// UsageInput is the payload of a weekly submission.
type UsageInput struct {
	WeekStartDate    string
	ElectricityUsage *string
	ElectricityUnit  *string
	WaterUsage       *string
	WaterUnit        *string
	Notes            *string
}

// UsageUpdate carries the fields of a partial edit. Nil means "keep".
type UsageUpdate struct {
	WeekStartDate    *string
	ElectricityUsage *string
	ElectricityUnit  *string
	WaterUsage       *string
	WaterUnit        *string
	Notes            *string
}

// NewUsageEntry builds the record stored for a submission; id is assigned by the store.
func NewUsageEntry(userID int64, in UsageInput, units Units, now time.Time) UsageEntry {
	return UsageEntry{
		UserID:           userID,
		WeekStartDate:    in.WeekStartDate,
		ElectricityUsage: nonEmpty(in.ElectricityUsage),
		ElectricityUnit:  orDefault(in.ElectricityUnit, units.Electricity),
		WaterUsage:       nonEmpty(in.WaterUsage),
		WaterUnit:        orDefault(in.WaterUnit, units.Water),
		Notes:            nonEmpty(in.Notes),
		CreatedAt:        now,
	}
}

// Apply merges the provided fields. ID, UserID and CreatedAt are never touched.
// An empty usage or notes value clears the field.
func (e *UsageEntry) Apply(u UsageUpdate) {
	if u.WeekStartDate != nil {
		e.WeekStartDate = *u.WeekStartDate
	}
	if u.ElectricityUsage != nil {
		e.ElectricityUsage = nonEmpty(u.ElectricityUsage)
	}
	if u.ElectricityUnit != nil {
		e.ElectricityUnit = *u.ElectricityUnit
	}
	if u.WaterUsage != nil {
		e.WaterUsage = nonEmpty(u.WaterUsage)
	}
	if u.WaterUnit != nil {
		e.WaterUnit = *u.WaterUnit
	}
	if u.Notes != nil {
		e.Notes = nonEmpty(u.Notes)
	}
}

// Electricity returns the numeric recycling/electricity value, 0 when absent or unparsable.
func (e UsageEntry) Electricity() float64 {
	return parseUsage(e.ElectricityUsage)
}

// Water returns the numeric hydration/water value, 0 when absent or unparsable.
func (e UsageEntry) Water() float64 {
	return parseUsage(e.WaterUsage)
}

// HasNotes reports whether the entry carries non-blank notes.
func (e UsageEntry) HasNotes() bool {
	return e.Notes != nil && strings.TrimSpace(*e.Notes) != ""
}

// Validate checks a submission before it reaches the store. Date and number
// formats are checked where the request is decoded; text that does not parse
// reads as 0.
func (in UsageInput) Validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(in.WeekStartDate) == "" {
		verr.Add("weekStartDate", "is required")
	}
	validateUsage(verr, "electricityUsage", in.ElectricityUsage)
	validateUsage(verr, "waterUsage", in.WaterUsage)
	return verr.Err()
}

// Validate checks the fields present in a partial edit.
func (u UsageUpdate) Validate() error {
	verr := &ValidationError{}
	if u.WeekStartDate != nil && strings.TrimSpace(*u.WeekStartDate) == "" {
		verr.Add("weekStartDate", "must not be empty")
	}
	validateUsage(verr, "electricityUsage", u.ElectricityUsage)
	validateUsage(verr, "waterUsage", u.WaterUsage)
	validateUnit(verr, "electricityUnit", u.ElectricityUnit)
	validateUnit(verr, "waterUnit", u.WaterUnit)
	return verr.Err()
}

func validateUsage(verr *ValidationError, field string, v *string) {
	if parseUsage(v) < 0 {
		verr.Add(field, "must not be negative")
	}
}

func validateUnit(verr *ValidationError, field string, v *string) {
	if v != nil && strings.TrimSpace(*v) == "" {
		verr.Add(field, "must not be empty")
	}
}

func parseUsage(v *string) float64 {
	if v == nil {
		return 0
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(*v), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

func nonEmpty(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	return strPtr(*v)
}

func orDefault(v *string, def string) string {
	if v == nil || *v == "" {
		return def
	}
	return *v
}

func strPtr(s string) *string {
	return &s
}
