package geofence

import "context"

type Repository interface {
	Create(ctx context.Context, location *Location) error
	Update(ctx context.Context, location *Location) error
	GetByID(ctx context.Context, id string) (*Location, error)
	ListActive(ctx context.Context) ([]Location, error)
	List(ctx context.Context) ([]Location, error)
	Delete(ctx context.Context, id string) error
}
