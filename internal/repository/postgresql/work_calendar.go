package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
)

type workCalendarRepository struct {
	db *database.DB
}

// IsHoliday implements calendar.WorkCalendar.
func (w *workCalendarRepository) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	q := GetQuerier(ctx, w.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM holidays WHERE date = $1)`, date).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check holiday: %w", err)
	}

	return exists, nil
}

// HolidaysInMonth implements calendar.WorkCalendar.
func (w *workCalendarRepository) HolidaysInMonth(ctx context.Context, year int, month time.Month) ([]calendar.Holiday, error) {
	q := GetQuerier(ctx, w.db)

	query := `
		SELECT id, date, name, created_at
		FROM holidays
		WHERE EXTRACT(YEAR FROM date) = $1
		  AND EXTRACT(MONTH FROM date) = $2
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, year, int(month))
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	holidays := []calendar.Holiday{}
	for rows.Next() {
		var h calendar.Holiday
		if err := rows.Scan(&h.ID, &h.Date, &h.Name, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays = append(holidays, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate holidays: %w", err)
	}

	return holidays, nil
}

// AddHoliday implements calendar.WorkCalendar.
func (w *workCalendarRepository) AddHoliday(ctx context.Context, holiday *calendar.Holiday) error {
	q := GetQuerier(ctx, w.db)

	query := `
		INSERT INTO holidays (date, name)
		VALUES ($1, $2)
		ON CONFLICT (date) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query, holiday.Date, holiday.Name).Scan(&holiday.ID, &holiday.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add holiday: %w", err)
	}

	return nil
}

// RemoveHoliday implements calendar.WorkCalendar.
func (w *workCalendarRepository) RemoveHoliday(ctx context.Context, id string) error {
	q := GetQuerier(ctx, w.db)

	tag, err := q.Exec(ctx, `DELETE FROM holidays WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to remove holiday: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return calendar.ErrHolidayNotFound
	}

	return nil
}

func NewWorkCalendarRepository(db *database.DB) calendar.WorkCalendar {
	return &workCalendarRepository{db: db}
}
