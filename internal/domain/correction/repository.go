package correction

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, req Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)
	List(ctx context.Context, filter Filter) ([]Request, int64, error)

	// Transition performs the optimistic pending-to-terminal write:
	// UPDATE ... WHERE id = $1 AND status = 'pending'. Returns false when the
	// guard matched no row, meaning the request was already terminal.
	Transition(ctx context.Context, req Request) (bool, error)
}
