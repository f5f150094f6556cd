package domain

import "time"

const DateLayout = "2006-01-02"

// WeekStart returns the Monday on or before t as a YYYY-MM-DD key, using t's location.
func WeekStart(t time.Time) string {
	back := int(t.Weekday()) - 1
	if t.Weekday() == time.Sunday {
		back = 6
	}
	return t.AddDate(0, 0, -back).Format(DateLayout)
}
