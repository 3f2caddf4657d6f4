package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

const attendanceColumns = `
	ar.id, ar.employee_id, ar.date, ar.shift_policy_id,
	ar.check_in, ar.check_out,
	ar.working_minutes, ar.break_minutes, ar.overtime_minutes,
	ar.status, ar.is_late, ar.late_minutes,
	ar.is_early_departure, ar.early_departure_minutes,
	ar.check_in_latitude, ar.check_in_longitude,
	ar.check_out_latitude, ar.check_out_longitude,
	ar.location_id, ar.location_name,
	ar.notes, ar.is_manual_entry, ar.approved_by, ar.approved_at,
	ar.created_at, ar.updated_at`

func scanRecord(row pgx.Row, rec *attendance.Record) error {
	return row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.Date, &rec.ShiftPolicyID,
		&rec.CheckIn, &rec.CheckOut,
		&rec.WorkingMinutes, &rec.BreakMinutes, &rec.OvertimeMinutes,
		&rec.Status, &rec.IsLate, &rec.LateMinutes,
		&rec.IsEarlyDeparture, &rec.EarlyDepartureMinutes,
		&rec.CheckInLatitude, &rec.CheckInLongitude,
		&rec.CheckOutLatitude, &rec.CheckOutLongitude,
		&rec.LocationID, &rec.LocationName,
		&rec.Notes, &rec.IsManualEntry, &rec.ApprovedBy, &rec.ApprovedAt,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
}

// InsertCheckIn implements attendance.Repository.
func (a *attendanceRepository) InsertCheckIn(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	// The conditional upsert is the concurrency guard: two racing check-ins
	// for the same (employee_id, date) resolve to exactly one winner, the
	// loser sees no row returned.
	query := `
		INSERT INTO attendance_records (
			employee_id, date, shift_policy_id, check_in,
			status, is_late, late_minutes,
			check_in_latitude, check_in_longitude,
			location_id, location_name, notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
		ON CONFLICT (employee_id, date) DO UPDATE SET
			shift_policy_id = EXCLUDED.shift_policy_id,
			check_in = EXCLUDED.check_in,
			status = EXCLUDED.status,
			is_late = EXCLUDED.is_late,
			late_minutes = EXCLUDED.late_minutes,
			check_in_latitude = EXCLUDED.check_in_latitude,
			check_in_longitude = EXCLUDED.check_in_longitude,
			location_id = EXCLUDED.location_id,
			location_name = EXCLUDED.location_name,
			notes = EXCLUDED.notes,
			updated_at = NOW()
		WHERE attendance_records.check_in IS NULL
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rec.EmployeeID,
		rec.Date,
		rec.ShiftPolicyID,
		rec.CheckIn,
		rec.Status,
		rec.IsLate,
		rec.LateMinutes,
		rec.CheckInLatitude,
		rec.CheckInLongitude,
		rec.LocationID,
		rec.LocationName,
		rec.Notes,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Record{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Record{}, fmt.Errorf("failed to insert check-in: %w", err)
	}

	return rec, nil
}

// CompleteCheckOut implements attendance.Repository.
func (a *attendanceRepository) CompleteCheckOut(ctx context.Context, rec attendance.Record) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records SET
			check_out = $2,
			working_minutes = $3,
			break_minutes = $4,
			overtime_minutes = $5,
			status = $6,
			is_early_departure = $7,
			early_departure_minutes = $8,
			check_out_latitude = $9,
			check_out_longitude = $10,
			notes = COALESCE($11, notes),
			updated_at = NOW()
		WHERE id = $1
		  AND check_out IS NULL
	`

	tag, err := q.Exec(ctx, query,
		rec.ID,
		rec.CheckOut,
		rec.WorkingMinutes,
		rec.BreakMinutes,
		rec.OvertimeMinutes,
		rec.Status,
		rec.IsEarlyDeparture,
		rec.EarlyDepartureMinutes,
		rec.CheckOutLatitude,
		rec.CheckOutLongitude,
		rec.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to complete check-out: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return attendance.ErrAlreadyCheckedOut
	}

	return nil
}

// UpsertAdministrative implements attendance.Repository.
func (a *attendanceRepository) UpsertAdministrative(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records (
			employee_id, date, shift_policy_id, check_in, check_out,
			working_minutes, break_minutes, overtime_minutes,
			status, is_late, late_minutes,
			is_early_departure, early_departure_minutes,
			location_id, location_name,
			notes, is_manual_entry, approved_by, approved_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19
		)
		ON CONFLICT (employee_id, date) DO UPDATE SET
			shift_policy_id = EXCLUDED.shift_policy_id,
			check_in = EXCLUDED.check_in,
			check_out = EXCLUDED.check_out,
			working_minutes = EXCLUDED.working_minutes,
			break_minutes = EXCLUDED.break_minutes,
			overtime_minutes = EXCLUDED.overtime_minutes,
			status = EXCLUDED.status,
			is_late = EXCLUDED.is_late,
			late_minutes = EXCLUDED.late_minutes,
			is_early_departure = EXCLUDED.is_early_departure,
			early_departure_minutes = EXCLUDED.early_departure_minutes,
			location_id = EXCLUDED.location_id,
			location_name = EXCLUDED.location_name,
			notes = EXCLUDED.notes,
			is_manual_entry = EXCLUDED.is_manual_entry,
			approved_by = EXCLUDED.approved_by,
			approved_at = EXCLUDED.approved_at,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rec.EmployeeID,
		rec.Date,
		rec.ShiftPolicyID,
		rec.CheckIn,
		rec.CheckOut,
		rec.WorkingMinutes,
		rec.BreakMinutes,
		rec.OvertimeMinutes,
		rec.Status,
		rec.IsLate,
		rec.LateMinutes,
		rec.IsEarlyDeparture,
		rec.EarlyDepartureMinutes,
		rec.LocationID,
		rec.LocationName,
		rec.Notes,
		rec.IsManualEntry,
		rec.ApprovedBy,
		rec.ApprovedAt,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to upsert attendance record: %w", err)
	}

	return rec, nil
}

// GetByID implements attendance.Repository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `,
			   e.full_name, e.code, d.name
		FROM attendance_records ar
		JOIN employees e ON e.id = ar.employee_id
		LEFT JOIN departments d ON d.id = e.department_id
		WHERE ar.id = $1
	`

	var rec attendance.Record
	err := q.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.EmployeeID, &rec.Date, &rec.ShiftPolicyID,
		&rec.CheckIn, &rec.CheckOut,
		&rec.WorkingMinutes, &rec.BreakMinutes, &rec.OvertimeMinutes,
		&rec.Status, &rec.IsLate, &rec.LateMinutes,
		&rec.IsEarlyDeparture, &rec.EarlyDepartureMinutes,
		&rec.CheckInLatitude, &rec.CheckInLongitude,
		&rec.CheckOutLatitude, &rec.CheckOutLongitude,
		&rec.LocationID, &rec.LocationName,
		&rec.Notes, &rec.IsManualEntry, &rec.ApprovedBy, &rec.ApprovedAt,
		&rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmployeeName, &rec.EmployeeCode, &rec.DepartmentName,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance record: %w", err)
	}

	return rec, nil
}

// GetByEmployeeAndDate implements attendance.Repository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records ar
		WHERE ar.employee_id = $1
		  AND ar.date = $2
		LIMIT 1
	`

	var rec attendance.Record
	err := scanRecord(q.QueryRow(ctx, query, employeeID, date), &rec)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}

	return &rec, nil
}

var attendanceSortColumns = map[string]string{
	"date":       "ar.date",
	"check_in":   "ar.check_in",
	"status":     "ar.status",
	"created_at": "ar.created_at",
}

// List implements attendance.Repository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.Filter) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, a.db)

	conditions := []string{"1=1"}
	args := []any{}
	argIdx := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("ar.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.DepartmentID != nil {
		conditions = append(conditions, fmt.Sprintf("e.department_id = $%d", argIdx))
		args = append(args, *filter.DepartmentID)
		argIdx++
	}
	if filter.Date != nil {
		conditions = append(conditions, fmt.Sprintf("ar.date = $%d", argIdx))
		args = append(args, *filter.Date)
		argIdx++
	}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("ar.date >= $%d", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("ar.date <= $%d", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("ar.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	countQuery := `
		SELECT COUNT(*)
		FROM attendance_records ar
		JOIN employees e ON e.id = ar.employee_id
		WHERE ` + where

	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	sortBy, ok := attendanceSortColumns[filter.SortBy]
	if !ok {
		sortBy = "ar.date"
	}
	sortOrder := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	query := `
		SELECT ` + attendanceColumns + `,
			   e.full_name, e.code, d.name
		FROM attendance_records ar
		JOIN employees e ON e.id = ar.employee_id
		LEFT JOIN departments d ON d.id = e.department_id
		WHERE ` + where + `
		ORDER BY ` + sortBy + ` ` + sortOrder + `
		LIMIT $` + fmt.Sprint(argIdx) + ` OFFSET $` + fmt.Sprint(argIdx+1)

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	records := []attendance.Record{}
	for rows.Next() {
		var rec attendance.Record
		err := rows.Scan(
			&rec.ID, &rec.EmployeeID, &rec.Date, &rec.ShiftPolicyID,
			&rec.CheckIn, &rec.CheckOut,
			&rec.WorkingMinutes, &rec.BreakMinutes, &rec.OvertimeMinutes,
			&rec.Status, &rec.IsLate, &rec.LateMinutes,
			&rec.IsEarlyDeparture, &rec.EarlyDepartureMinutes,
			&rec.CheckInLatitude, &rec.CheckInLongitude,
			&rec.CheckOutLatitude, &rec.CheckOutLongitude,
			&rec.LocationID, &rec.LocationName,
			&rec.Notes, &rec.IsManualEntry, &rec.ApprovedBy, &rec.ApprovedAt,
			&rec.CreatedAt, &rec.UpdatedAt,
			&rec.EmployeeName, &rec.EmployeeCode, &rec.DepartmentName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendance records: %w", err)
	}

	return records, total, nil
}

// ListRange implements attendance.Repository.
func (a *attendanceRepository) ListRange(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records ar
		WHERE ar.employee_id = $1
		  AND ar.date >= $2
		  AND ar.date <= $3
		ORDER BY ar.date ASC
	`

	rows, err := q.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance range: %w", err)
	}
	defer rows.Close()

	records := []attendance.Record{}
	for rows.Next() {
		var rec attendance.Record
		if err := scanRecord(rows, &rec); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance range: %w", err)
	}

	return records, nil
}

// CountAbsences implements attendance.Repository.
func (a *attendanceRepository) CountAbsences(ctx context.Context, employeeID string, start, end time.Time) (int, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT COUNT(*)
		FROM attendance_records ar
		WHERE ar.employee_id = $1
		  AND ar.date >= $2
		  AND ar.date <= $3
		  AND ar.status = 'absent'
	`

	var count int
	if err := q.QueryRow(ctx, query, employeeID, start, end).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count absences: %w", err)
	}

	return count, nil
}

// Delete implements attendance.Repository.
func (a *attendanceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, a.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance record: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}

	return nil
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}
