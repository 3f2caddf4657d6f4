package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/correction"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type correctionRepository struct {
	db *database.DB
}

const correctionColumns = `
	cr.id, cr.employee_id, cr.attendance_id, cr.date, cr.request_type,
	cr.original_check_in, cr.original_check_out,
	cr.requested_check_in, cr.requested_check_out,
	cr.reason, cr.status, cr.reviewed_by, cr.reviewed_at, cr.review_notes,
	cr.created_at, cr.updated_at`

// Create implements correction.Repository.
func (c *correctionRepository) Create(ctx context.Context, req correction.Request) (correction.Request, error) {
	q := GetQuerier(ctx, c.db)

	query := `
		INSERT INTO correction_requests (
			employee_id, attendance_id, date, request_type,
			original_check_in, original_check_out,
			requested_check_in, requested_check_out,
			reason, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.EmployeeID,
		req.AttendanceID,
		req.Date,
		req.RequestType,
		req.OriginalCheckIn,
		req.OriginalCheckOut,
		req.RequestedCheckIn,
		req.RequestedCheckOut,
		req.Reason,
		req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)

	if err != nil {
		return correction.Request{}, fmt.Errorf("failed to create correction request: %w", err)
	}

	return req, nil
}

// GetByID implements correction.Repository.
func (c *correctionRepository) GetByID(ctx context.Context, id string) (correction.Request, error) {
	q := GetQuerier(ctx, c.db)

	query := `
		SELECT ` + correctionColumns + `,
			   e.full_name, e.department_id, d.name
		FROM correction_requests cr
		JOIN employees e ON e.id = cr.employee_id
		LEFT JOIN departments d ON d.id = e.department_id
		WHERE cr.id = $1
	`

	var req correction.Request
	err := q.QueryRow(ctx, query, id).Scan(
		&req.ID, &req.EmployeeID, &req.AttendanceID, &req.Date, &req.RequestType,
		&req.OriginalCheckIn, &req.OriginalCheckOut,
		&req.RequestedCheckIn, &req.RequestedCheckOut,
		&req.Reason, &req.Status, &req.ReviewedBy, &req.ReviewedAt, &req.ReviewNotes,
		&req.CreatedAt, &req.UpdatedAt,
		&req.EmployeeName, &req.DepartmentID, &req.DepartmentName,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return correction.Request{}, correction.ErrRequestNotFound
		}
		return correction.Request{}, fmt.Errorf("failed to get correction request: %w", err)
	}

	return req, nil
}

// List implements correction.Repository.
func (c *correctionRepository) List(ctx context.Context, filter correction.Filter) ([]correction.Request, int64, error) {
	q := GetQuerier(ctx, c.db)

	conditions := []string{"1=1"}
	args := []any{}
	argIdx := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("cr.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.DepartmentID != nil {
		conditions = append(conditions, fmt.Sprintf("e.department_id = $%d", argIdx))
		args = append(args, *filter.DepartmentID)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("cr.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	countQuery := `
		SELECT COUNT(*)
		FROM correction_requests cr
		JOIN employees e ON e.id = cr.employee_id
		WHERE ` + where

	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count correction requests: %w", err)
	}

	query := `
		SELECT ` + correctionColumns + `,
			   e.full_name, e.department_id, d.name
		FROM correction_requests cr
		JOIN employees e ON e.id = cr.employee_id
		LEFT JOIN departments d ON d.id = e.department_id
		WHERE ` + where + `
		ORDER BY cr.created_at DESC
		LIMIT $` + fmt.Sprint(argIdx) + ` OFFSET $` + fmt.Sprint(argIdx+1)

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list correction requests: %w", err)
	}
	defer rows.Close()

	requests := []correction.Request{}
	for rows.Next() {
		var req correction.Request
		err := rows.Scan(
			&req.ID, &req.EmployeeID, &req.AttendanceID, &req.Date, &req.RequestType,
			&req.OriginalCheckIn, &req.OriginalCheckOut,
			&req.RequestedCheckIn, &req.RequestedCheckOut,
			&req.Reason, &req.Status, &req.ReviewedBy, &req.ReviewedAt, &req.ReviewNotes,
			&req.CreatedAt, &req.UpdatedAt,
			&req.EmployeeName, &req.DepartmentID, &req.DepartmentName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan correction request: %w", err)
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate correction requests: %w", err)
	}

	return requests, total, nil
}

// Transition implements correction.Repository.
func (c *correctionRepository) Transition(ctx context.Context, req correction.Request) (bool, error) {
	q := GetQuerier(ctx, c.db)

	// Optimistic guard: only a pending row transitions, so concurrent
	// reviews resolve to exactly one winner.
	query := `
		UPDATE correction_requests SET
			status = $2,
			reviewed_by = $3,
			reviewed_at = $4,
			review_notes = $5,
			updated_at = NOW()
		WHERE id = $1
		  AND status = 'pending'
	`

	tag, err := q.Exec(ctx, query,
		req.ID,
		req.Status,
		req.ReviewedBy,
		req.ReviewedAt,
		req.ReviewNotes,
	)
	if err != nil {
		return false, fmt.Errorf("failed to transition correction request: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func NewCorrectionRepository(db *database.DB) correction.Repository {
	return &correctionRepository{db: db}
}
