package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/shift"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type shiftPolicyRepository struct {
	db *database.DB
}

const policyColumns = `
	id, name, code, start_time, end_time,
	grace_period_minutes, early_departure_threshold_minutes,
	overtime_start_after_minutes, minimum_work_minutes,
	half_day_threshold_minutes, break_minutes, is_night_shift,
	created_at, updated_at`

func scanPolicy(row pgx.Row, p *shift.Policy) error {
	return row.Scan(
		&p.ID, &p.Name, &p.Code, &p.StartTime, &p.EndTime,
		&p.GracePeriodMinutes, &p.EarlyDepartureThresholdMinutes,
		&p.OvertimeStartAfterMinutes, &p.MinimumWorkMinutes,
		&p.HalfDayThresholdMinutes, &p.BreakMinutes, &p.IsNightShift,
		&p.CreatedAt, &p.UpdatedAt,
	)
}

// Create implements shift.PolicyRepository.
func (s *shiftPolicyRepository) Create(ctx context.Context, policy shift.Policy) (shift.Policy, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		INSERT INTO shift_policies (
			name, code, start_time, end_time,
			grace_period_minutes, early_departure_threshold_minutes,
			overtime_start_after_minutes, minimum_work_minutes,
			half_day_threshold_minutes, break_minutes, is_night_shift
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		policy.Name,
		policy.Code,
		policy.StartTime,
		policy.EndTime,
		policy.GracePeriodMinutes,
		policy.EarlyDepartureThresholdMinutes,
		policy.OvertimeStartAfterMinutes,
		policy.MinimumWorkMinutes,
		policy.HalfDayThresholdMinutes,
		policy.BreakMinutes,
		policy.IsNightShift,
	).Scan(&policy.ID, &policy.CreatedAt, &policy.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return shift.Policy{}, shift.ErrPolicyCodeExists
		}
		return shift.Policy{}, fmt.Errorf("failed to create shift policy: %w", err)
	}

	return policy, nil
}

// GetByID implements shift.PolicyRepository.
func (s *shiftPolicyRepository) GetByID(ctx context.Context, id string) (shift.Policy, error) {
	q := GetQuerier(ctx, s.db)

	query := `SELECT ` + policyColumns + ` FROM shift_policies WHERE id = $1`

	var policy shift.Policy
	if err := scanPolicy(q.QueryRow(ctx, query, id), &policy); err != nil {
		if err == pgx.ErrNoRows {
			return shift.Policy{}, shift.ErrPolicyNotFound
		}
		return shift.Policy{}, fmt.Errorf("failed to get shift policy: %w", err)
	}

	return policy, nil
}

// GetByCode implements shift.PolicyRepository.
func (s *shiftPolicyRepository) GetByCode(ctx context.Context, code string) (*shift.Policy, error) {
	q := GetQuerier(ctx, s.db)

	query := `SELECT ` + policyColumns + ` FROM shift_policies WHERE code = $1`

	var policy shift.Policy
	if err := scanPolicy(q.QueryRow(ctx, query, code), &policy); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shift policy by code: %w", err)
	}

	return &policy, nil
}

// List implements shift.PolicyRepository.
func (s *shiftPolicyRepository) List(ctx context.Context) ([]shift.Policy, error) {
	q := GetQuerier(ctx, s.db)

	query := `SELECT ` + policyColumns + ` FROM shift_policies ORDER BY name ASC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift policies: %w", err)
	}
	defer rows.Close()

	policies := []shift.Policy{}
	for rows.Next() {
		var policy shift.Policy
		if err := scanPolicy(rows, &policy); err != nil {
			return nil, fmt.Errorf("failed to scan shift policy: %w", err)
		}
		policies = append(policies, policy)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shift policies: %w", err)
	}

	return policies, nil
}

// Update implements shift.PolicyRepository.
func (s *shiftPolicyRepository) Update(ctx context.Context, policy shift.Policy) error {
	q := GetQuerier(ctx, s.db)

	query := `
		UPDATE shift_policies SET
			name = $2,
			start_time = $3,
			end_time = $4,
			grace_period_minutes = $5,
			early_departure_threshold_minutes = $6,
			overtime_start_after_minutes = $7,
			minimum_work_minutes = $8,
			half_day_threshold_minutes = $9,
			break_minutes = $10,
			is_night_shift = $11,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		policy.ID,
		policy.Name,
		policy.StartTime,
		policy.EndTime,
		policy.GracePeriodMinutes,
		policy.EarlyDepartureThresholdMinutes,
		policy.OvertimeStartAfterMinutes,
		policy.MinimumWorkMinutes,
		policy.HalfDayThresholdMinutes,
		policy.BreakMinutes,
		policy.IsNightShift,
	)
	if err != nil {
		return fmt.Errorf("failed to update shift policy: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return shift.ErrPolicyNotFound
	}

	return nil
}

func NewShiftPolicyRepository(db *database.DB) shift.PolicyRepository {
	return &shiftPolicyRepository{db: db}
}

type shiftAssignmentRepository struct {
	db *database.DB
}

// Assign implements shift.AssignmentRepository.
func (s *shiftAssignmentRepository) Assign(ctx context.Context, assignment shift.Assignment) (shift.Assignment, error) {
	err := WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, s.db)

		// Close out the currently-active assignment so at most one stays
		// active per employee.
		closeQuery := `
			UPDATE shift_assignments SET
				is_active = FALSE,
				effective_to = $2,
				updated_at = NOW()
			WHERE employee_id = $1
			  AND is_active = TRUE
		`
		if _, err := q.Exec(txCtx, closeQuery, assignment.EmployeeID, assignment.EffectiveFrom); err != nil {
			return fmt.Errorf("failed to deactivate previous assignment: %w", err)
		}

		insertQuery := `
			INSERT INTO shift_assignments (
				employee_id, shift_policy_id, effective_from, effective_to, is_active
			) VALUES (
				$1, $2, $3, $4, TRUE
			) RETURNING id, created_at, updated_at
		`
		err := q.QueryRow(txCtx, insertQuery,
			assignment.EmployeeID,
			assignment.ShiftPolicyID,
			assignment.EffectiveFrom,
			assignment.EffectiveTo,
		).Scan(&assignment.ID, &assignment.CreatedAt, &assignment.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert shift assignment: %w", err)
		}

		assignment.IsActive = true
		return nil
	})
	if err != nil {
		return shift.Assignment{}, err
	}

	return assignment, nil
}

// GetActiveForDate implements shift.AssignmentRepository.
func (s *shiftAssignmentRepository) GetActiveForDate(ctx context.Context, employeeID string, date time.Time) (*shift.Assignment, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT sa.id, sa.employee_id, sa.shift_policy_id,
			   sa.effective_from, sa.effective_to, sa.is_active,
			   sa.created_at, sa.updated_at,
			   sp.name, sp.code
		FROM shift_assignments sa
		JOIN shift_policies sp ON sp.id = sa.shift_policy_id
		WHERE sa.employee_id = $1
		  AND sa.effective_from <= $2
		  AND (sa.effective_to IS NULL OR sa.effective_to >= $2)
		ORDER BY sa.effective_from DESC
		LIMIT 1
	`

	var assignment shift.Assignment
	err := q.QueryRow(ctx, query, employeeID, date).Scan(
		&assignment.ID, &assignment.EmployeeID, &assignment.ShiftPolicyID,
		&assignment.EffectiveFrom, &assignment.EffectiveTo, &assignment.IsActive,
		&assignment.CreatedAt, &assignment.UpdatedAt,
		&assignment.PolicyName, &assignment.PolicyCode,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active assignment: %w", err)
	}

	return &assignment, nil
}

// ListByEmployee implements shift.AssignmentRepository.
func (s *shiftAssignmentRepository) ListByEmployee(ctx context.Context, employeeID string) ([]shift.Assignment, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT sa.id, sa.employee_id, sa.shift_policy_id,
			   sa.effective_from, sa.effective_to, sa.is_active,
			   sa.created_at, sa.updated_at,
			   sp.name, sp.code
		FROM shift_assignments sa
		JOIN shift_policies sp ON sp.id = sa.shift_policy_id
		WHERE sa.employee_id = $1
		ORDER BY sa.effective_from DESC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift assignments: %w", err)
	}
	defer rows.Close()

	assignments := []shift.Assignment{}
	for rows.Next() {
		var assignment shift.Assignment
		err := rows.Scan(
			&assignment.ID, &assignment.EmployeeID, &assignment.ShiftPolicyID,
			&assignment.EffectiveFrom, &assignment.EffectiveTo, &assignment.IsActive,
			&assignment.CreatedAt, &assignment.UpdatedAt,
			&assignment.PolicyName, &assignment.PolicyCode,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift assignment: %w", err)
		}
		assignments = append(assignments, assignment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shift assignments: %w", err)
	}

	return assignments, nil
}

func NewShiftAssignmentRepository(db *database.DB) shift.AssignmentRepository {
	return &shiftAssignmentRepository{db: db}
}
