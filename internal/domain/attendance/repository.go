package attendance

import (
	"context"
	"time"
)

// Repository is the keyed per-employee-per-day record store. The (employee,
// date) uniqueness invariant is enforced here with conditional writes, not by
// callers catching constraint violations.
type Repository interface {
	// InsertCheckIn atomically creates the day's record with a check-in, or
	// claims an existing record whose check_in is still null (e.g. one created
	// administratively). Returns ErrAlreadyCheckedIn when the day already has
	// a non-null check-in, regardless of concurrent callers.
	InsertCheckIn(ctx context.Context, rec Record) (Record, error)

	// CompleteCheckOut writes the check-out and derived fields, guarded by
	// check_out IS NULL. Returns ErrAlreadyCheckedOut when the guard fails.
	CompleteCheckOut(ctx context.Context, rec Record) error

	// UpsertAdministrative overwrites or creates the day's record wholesale
	// (absence marking, leave marking, manual entries, approved corrections).
	UpsertAdministrative(ctx context.Context, rec Record) (Record, error)

	GetByID(ctx context.Context, id string) (Record, error)
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Record, error)

	List(ctx context.Context, filter Filter) ([]Record, int64, error)

	// ListRange returns all records for an employee between two dates
	// inclusive, ordered by date. Used by summaries and absence scans.
	ListRange(ctx context.Context, employeeID string, start, end time.Time) ([]Record, error)

	// CountAbsences counts absent days for the employee in [start, end].
	CountAbsences(ctx context.Context, employeeID string, start, end time.Time) (int, error)

	// Delete is the explicit administrative purge; records are never removed
	// otherwise.
	Delete(ctx context.Context, id string) error
}
