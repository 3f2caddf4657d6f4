package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// employeeDirectory reads the replicated employee/department tables. Writes
// flow in from the upstream HR system, not through this service.
type employeeDirectory struct {
	db *database.DB
}

const employeeColumns = `
	e.id, e.full_name, e.code, e.email, e.department_id, d.name, e.is_active,
	e.created_at, e.updated_at`

func scanEmployee(row pgx.Row, emp *employee.Employee) error {
	return row.Scan(
		&emp.ID, &emp.FullName, &emp.Code, &emp.Email,
		&emp.DepartmentID, &emp.DepartmentName, &emp.IsActive,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
}

// GetByID implements employee.Directory.
func (e *employeeDirectory) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees e
		LEFT JOIN departments d ON d.id = e.department_id
		WHERE e.id = $1
	`

	var emp employee.Employee
	if err := scanEmployee(q.QueryRow(ctx, query, id), &emp); err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return emp, nil
}

// ListActive implements employee.Directory.
func (e *employeeDirectory) ListActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees e
		LEFT JOIN departments d ON d.id = e.department_id
		WHERE e.is_active = TRUE
		ORDER BY e.full_name ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	employees := []employee.Employee{}
	for rows.Next() {
		var emp employee.Employee
		if err := scanEmployee(rows, &emp); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

// DepartmentOf implements employee.Directory.
func (e *employeeDirectory) DepartmentOf(ctx context.Context, employeeID string) (string, error) {
	q := GetQuerier(ctx, e.db)

	var departmentID string
	err := q.QueryRow(ctx, `SELECT department_id FROM employees WHERE id = $1`, employeeID).Scan(&departmentID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", employee.ErrEmployeeNotFound
		}
		return "", fmt.Errorf("failed to get employee department: %w", err)
	}

	return departmentID, nil
}

func NewEmployeeDirectory(db *database.DB) employee.Directory {
	return &employeeDirectory{db: db}
}
