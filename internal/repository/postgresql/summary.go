package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/summary"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type summaryRepository struct {
	db *database.DB
}

const summaryColumns = `
	s.id, s.employee_id, s.month, s.year,
	s.working_days, s.present_days, s.late_days, s.absent_days,
	s.leave_days, s.half_days, s.early_departure_days,
	s.total_working_minutes, s.total_overtime_minutes, s.total_late_minutes,
	s.attendance_percentage`

// Upsert implements summary.Repository.
func (s *summaryRepository) Upsert(ctx context.Context, sum *summary.Summary) error {
	q := GetQuerier(ctx, s.db)

	query := `
		INSERT INTO attendance_summaries (
			employee_id, month, year,
			working_days, present_days, late_days, absent_days,
			leave_days, half_days, early_departure_days,
			total_working_minutes, total_overtime_minutes, total_late_minutes,
			attendance_percentage, generated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, now()
		)
		ON CONFLICT (employee_id, month, year) DO UPDATE SET
			working_days = EXCLUDED.working_days,
			present_days = EXCLUDED.present_days,
			late_days = EXCLUDED.late_days,
			absent_days = EXCLUDED.absent_days,
			leave_days = EXCLUDED.leave_days,
			half_days = EXCLUDED.half_days,
			early_departure_days = EXCLUDED.early_departure_days,
			total_working_minutes = EXCLUDED.total_working_minutes,
			total_overtime_minutes = EXCLUDED.total_overtime_minutes,
			total_late_minutes = EXCLUDED.total_late_minutes,
			attendance_percentage = EXCLUDED.attendance_percentage,
			generated_at = now()
		RETURNING id
	`

	err := q.QueryRow(ctx, query,
		sum.EmployeeID,
		sum.Month,
		sum.Year,
		sum.WorkingDays,
		sum.PresentDays,
		sum.LateDays,
		sum.AbsentDays,
		sum.LeaveDays,
		sum.HalfDays,
		sum.EarlyDepartureDays,
		sum.TotalWorkingMinutes,
		sum.TotalOvertimeMinutes,
		sum.TotalLateMinutes,
		sum.AttendancePercentage,
	).Scan(&sum.ID)

	if err != nil {
		return fmt.Errorf("failed to upsert summary: %w", err)
	}

	return nil
}

// GetByPeriod implements summary.Repository.
func (s *summaryRepository) GetByPeriod(ctx context.Context, employeeID string, month, year int) (*summary.Summary, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT ` + summaryColumns + `, e.full_name
		FROM attendance_summaries s
		JOIN employees e ON e.id = s.employee_id
		WHERE s.employee_id = $1
		  AND s.month = $2
		  AND s.year = $3
	`

	var sum summary.Summary
	err := q.QueryRow(ctx, query, employeeID, month, year).Scan(
		&sum.ID, &sum.EmployeeID, &sum.Month, &sum.Year,
		&sum.WorkingDays, &sum.PresentDays, &sum.LateDays, &sum.AbsentDays,
		&sum.LeaveDays, &sum.HalfDays, &sum.EarlyDepartureDays,
		&sum.TotalWorkingMinutes, &sum.TotalOvertimeMinutes, &sum.TotalLateMinutes,
		&sum.AttendancePercentage,
		&sum.EmployeeName,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, summary.ErrSummaryNotFound
		}
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}

	return &sum, nil
}

// List implements summary.Repository.
func (s *summaryRepository) List(ctx context.Context, filter summary.Filter) ([]summary.Summary, int, error) {
	q := GetQuerier(ctx, s.db)

	conditions := []string{"1=1"}
	args := []any{}
	argIdx := 1

	if filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("s.employee_id = $%d", argIdx))
		args = append(args, filter.EmployeeID)
		argIdx++
	}
	if filter.DepartmentID != "" {
		conditions = append(conditions, fmt.Sprintf("e.department_id = $%d", argIdx))
		args = append(args, filter.DepartmentID)
		argIdx++
	}
	if filter.Month != 0 {
		conditions = append(conditions, fmt.Sprintf("s.month = $%d", argIdx))
		args = append(args, filter.Month)
		argIdx++
	}
	if filter.Year != 0 {
		conditions = append(conditions, fmt.Sprintf("s.year = $%d", argIdx))
		args = append(args, filter.Year)
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	countQuery := `
		SELECT COUNT(*)
		FROM attendance_summaries s
		JOIN employees e ON e.id = s.employee_id
		WHERE ` + where

	var total int
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count summaries: %w", err)
	}

	query := `
		SELECT ` + summaryColumns + `, e.full_name
		FROM attendance_summaries s
		JOIN employees e ON e.id = s.employee_id
		WHERE ` + where + `
		ORDER BY s.year DESC, s.month DESC, e.full_name ASC
		LIMIT $` + fmt.Sprint(argIdx) + ` OFFSET $` + fmt.Sprint(argIdx+1)

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list summaries: %w", err)
	}
	defer rows.Close()

	summaries := []summary.Summary{}
	for rows.Next() {
		var sum summary.Summary
		err := rows.Scan(
			&sum.ID, &sum.EmployeeID, &sum.Month, &sum.Year,
			&sum.WorkingDays, &sum.PresentDays, &sum.LateDays, &sum.AbsentDays,
			&sum.LeaveDays, &sum.HalfDays, &sum.EarlyDepartureDays,
			&sum.TotalWorkingMinutes, &sum.TotalOvertimeMinutes, &sum.TotalLateMinutes,
			&sum.AttendancePercentage,
			&sum.EmployeeName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan summary: %w", err)
		}
		summaries = append(summaries, sum)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate summaries: %w", err)
	}

	return summaries, total, nil
}

func NewSummaryRepository(db *database.DB) summary.Repository {
	return &summaryRepository{db: db}
}
