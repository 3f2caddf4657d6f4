package geofence

import (
	"context"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/auth"
)

// Service manages geofence locations and classifies coordinates against
// them. Classification never blocks an attendance operation; callers use
// the result to annotate the record.
type Service interface {
	CreateLocation(ctx context.Context, actor auth.Context, req CreateLocationRequest) (LocationResponse, error)
	UpdateLocation(ctx context.Context, actor auth.Context, req UpdateLocationRequest) (LocationResponse, error)
	GetLocation(ctx context.Context, id string) (LocationResponse, error)
	ListLocations(ctx context.Context) (ListLocationsResponse, error)
	DeleteLocation(ctx context.Context, actor auth.Context, id string) error

	// Classify returns the nearest active fence containing the coordinate,
	// or an outside-fence result carrying the distance to the nearest one.
	Classify(ctx context.Context, latitude, longitude float64) (Classification, error)
}
