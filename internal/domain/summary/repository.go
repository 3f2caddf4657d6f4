package summary

import "context"

type Repository interface {
	// Upsert writes the summary keyed by (employee_id, month, year),
	// replacing any previous generation for the same period.
	Upsert(ctx context.Context, summary *Summary) error
	GetByPeriod(ctx context.Context, employeeID string, month, year int) (*Summary, error)
	List(ctx context.Context, filter Filter) ([]Summary, int, error)
}
