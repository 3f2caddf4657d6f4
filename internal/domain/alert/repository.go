package alert

import "context"

type Repository interface {
	Create(ctx context.Context, alert *Alert) error
	List(ctx context.Context, filter Filter) ([]Alert, int, error)
}
