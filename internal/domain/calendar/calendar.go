package calendar

import (
	"context"
	"errors"
	"time"
)

var ErrHolidayNotFound = errors.New("holiday not found")

// Holiday marks a single non-working date. Weekends are derived, not stored.
type Holiday struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// WorkCalendar answers which dates count as working days. Saturdays and
// Sundays are never working days; stored holidays remove further dates.
type WorkCalendar interface {
	IsHoliday(ctx context.Context, date time.Time) (bool, error)
	HolidaysInMonth(ctx context.Context, year int, month time.Month) ([]Holiday, error)
	AddHoliday(ctx context.Context, holiday *Holiday) error
	RemoveHoliday(ctx context.Context, id string) error
}

// WorkingDays counts weekdays in the month minus the given holidays that
// fall on weekdays.
func WorkingDays(year int, month time.Month, holidays []Holiday, loc *time.Location) int {
	holidaySet := make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		holidaySet[h.Date.In(loc).Format("2006-01-02")] = struct{}{}
	}

	count := 0
	day := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	for day.Month() == month {
		if day.Weekday() != time.Saturday && day.Weekday() != time.Sunday {
			if _, holiday := holidaySet[day.Format("2006-01-02")]; !holiday {
				count++
			}
		}
		day = day.AddDate(0, 0, 1)
	}

	return count
}
