package domain

import "time"

// Badge is a catalog achievement. The catalog is loaded once at startup.
type Badge struct {
	ID          int64  `gorm:"primaryKey;autoIncrement:false" json:"id" yaml:"id"`
	Name        string `gorm:"not null" json:"name" yaml:"name"`
	Description string `gorm:"not null" json:"description" yaml:"description"`
	Icon        string `gorm:"not null" json:"icon" yaml:"icon"`
	Requirement string `gorm:"not null" json:"requirement" yaml:"requirement"`
	Points      int    `gorm:"not null;default:0" json:"points" yaml:"points"`
}

func (Badge) TableName() string {
	return "badges"
}

// UserBadge records one award. A user holds each badge at most once.
type UserBadge struct {
	ID       int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   int64     `gorm:"not null;uniqueIndex:idx_user_badge" json:"userId"`
	BadgeID  int64     `gorm:"not null;uniqueIndex:idx_user_badge" json:"badgeId"`
	EarnedAt time.Time `json:"earnedAt"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}

// EarnedBadge is an award joined with its catalog entry.
type EarnedBadge struct {
	UserBadge
	Badge Badge `json:"badge"`
}

// BadgeIDs returns the ids of the given awards.
func BadgeIDs(earned []EarnedBadge) []int64 {
	ids := make([]int64, 0, len(earned))
	for _, e := range earned {
		ids = append(ids, e.BadgeID)
	}
	return ids
}

// TotalPoints sums the points of the given awards.
func TotalPoints(earned []EarnedBadge) int {
	total := 0
	for _, e := range earned {
		total += e.Badge.Points
	}
	return total
}
