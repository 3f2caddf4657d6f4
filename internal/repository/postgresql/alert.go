package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/alert"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
)

type alertRepository struct {
	db *database.DB
}

// Create implements alert.Repository.
func (a *alertRepository) Create(ctx context.Context, al *alert.Alert) error {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_alerts (
			employee_id, kind, severity, date, message, minutes
		) VALUES (
			$1, $2, $3, $4, $5, $6
		) RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		al.EmployeeID,
		al.Kind,
		al.Severity,
		al.Date,
		al.Message,
		al.Minutes,
	).Scan(&al.ID, &al.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}

	return nil
}

// List implements alert.Repository.
func (a *alertRepository) List(ctx context.Context, filter alert.Filter) ([]alert.Alert, int, error) {
	q := GetQuerier(ctx, a.db)

	conditions := []string{"1=1"}
	args := []any{}
	argIdx := 1

	if filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", argIdx))
		args = append(args, filter.EmployeeID)
		argIdx++
	}
	if filter.DepartmentID != "" {
		conditions = append(conditions, fmt.Sprintf("e.department_id = $%d", argIdx))
		args = append(args, filter.DepartmentID)
		argIdx++
	}
	if filter.Kind != "" {
		conditions = append(conditions, fmt.Sprintf("a.kind = $%d", argIdx))
		args = append(args, filter.Kind)
		argIdx++
	}
	if filter.Severity != "" {
		conditions = append(conditions, fmt.Sprintf("a.severity = $%d", argIdx))
		args = append(args, filter.Severity)
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	countQuery := `
		SELECT COUNT(*)
		FROM attendance_alerts a
		JOIN employees e ON e.id = a.employee_id
		WHERE ` + where

	var total int
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count alerts: %w", err)
	}

	query := `
		SELECT a.id, a.employee_id, a.kind, a.severity, a.date, a.message,
			   a.minutes, a.created_at, e.full_name
		FROM attendance_alerts a
		JOIN employees e ON e.id = a.employee_id
		WHERE ` + where + `
		ORDER BY a.created_at DESC
		LIMIT $` + fmt.Sprint(argIdx) + ` OFFSET $` + fmt.Sprint(argIdx+1)

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	alerts := []alert.Alert{}
	for rows.Next() {
		var al alert.Alert
		err := rows.Scan(
			&al.ID, &al.EmployeeID, &al.Kind, &al.Severity, &al.Date, &al.Message,
			&al.Minutes, &al.CreatedAt, &al.EmployeeName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, al)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate alerts: %w", err)
	}

	return alerts, total, nil
}

func NewAlertRepository(db *database.DB) alert.Repository {
	return &alertRepository{db: db}
}
