package geofence

import (
	"context"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/geofence"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/geo"
)

type GeofenceServiceImpl struct {
	geofence.Repository
}

// CreateLocation implements geofence.Service.
func (g *GeofenceServiceImpl) CreateLocation(ctx context.Context, actor auth.Context, req geofence.CreateLocationRequest) (geofence.LocationResponse, error) {
	if !actor.IsAdministrative() {
		return geofence.LocationResponse{}, auth.ErrAdminRequired
	}
	if err := req.Validate(); err != nil {
		return geofence.LocationResponse{}, err
	}

	location := geofence.Location{
		Name:         req.Name,
		Address:      req.Address,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		RadiusMeters: req.RadiusMeters,
		IsActive:     true,
	}

	if err := g.Repository.Create(ctx, &location); err != nil {
		return geofence.LocationResponse{}, err
	}

	return geofence.LocationResponse{Location: location}, nil
}

// UpdateLocation implements geofence.Service.
func (g *GeofenceServiceImpl) UpdateLocation(ctx context.Context, actor auth.Context, req geofence.UpdateLocationRequest) (geofence.LocationResponse, error) {
	if !actor.IsAdministrative() {
		return geofence.LocationResponse{}, auth.ErrAdminRequired
	}
	if err := req.Validate(); err != nil {
		return geofence.LocationResponse{}, err
	}

	location, err := g.Repository.GetByID(ctx, req.ID)
	if err != nil {
		return geofence.LocationResponse{}, err
	}

	if req.Name != nil {
		location.Name = *req.Name
	}
	if req.Address != nil {
		location.Address = *req.Address
	}
	if req.Latitude != nil {
		location.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		location.Longitude = *req.Longitude
	}
	if req.RadiusMeters != nil {
		location.RadiusMeters = *req.RadiusMeters
	}
	if req.IsActive != nil {
		location.IsActive = *req.IsActive
	}

	if err := g.Repository.Update(ctx, location); err != nil {
		return geofence.LocationResponse{}, err
	}

	return geofence.LocationResponse{Location: *location}, nil
}

// GetLocation implements geofence.Service.
func (g *GeofenceServiceImpl) GetLocation(ctx context.Context, id string) (geofence.LocationResponse, error) {
	location, err := g.Repository.GetByID(ctx, id)
	if err != nil {
		return geofence.LocationResponse{}, err
	}
	return geofence.LocationResponse{Location: *location}, nil
}

// ListLocations implements geofence.Service.
func (g *GeofenceServiceImpl) ListLocations(ctx context.Context) (geofence.ListLocationsResponse, error) {
	locations, err := g.Repository.List(ctx)
	if err != nil {
		return geofence.ListLocationsResponse{}, err
	}
	return geofence.ListLocationsResponse{Locations: locations}, nil
}

// DeleteLocation implements geofence.Service.
func (g *GeofenceServiceImpl) DeleteLocation(ctx context.Context, actor auth.Context, id string) error {
	if !actor.IsAdministrative() {
		return auth.ErrAdminRequired
	}
	return g.Repository.Delete(ctx, id)
}

// Classify implements geofence.Service. The result annotates attendance
// records; being outside every fence never blocks a check-in.
func (g *GeofenceServiceImpl) Classify(ctx context.Context, latitude, longitude float64) (geofence.Classification, error) {
	if !geo.ValidCoordinate(latitude, longitude) {
		return geofence.Classification{}, geofence.ErrInvalidCoordinate
	}

	locations, err := g.Repository.ListActive(ctx)
	if err != nil {
		return geofence.Classification{}, err
	}

	var (
		containing         *geofence.Location
		containingDistance float64
		nearestDistance    float64
		haveNearest        bool
	)
	for i := range locations {
		distance := geo.HaversineDistance(latitude, longitude, locations[i].Latitude, locations[i].Longitude)
		if !haveNearest || distance < nearestDistance {
			nearestDistance = distance
			haveNearest = true
		}
		if distance <= float64(locations[i].RadiusMeters) {
			if containing == nil || distance < containingDistance {
				containing = &locations[i]
				containingDistance = distance
			}
		}
	}

	if containing != nil {
		return geofence.Classification{
			WithinFence:    true,
			LocationID:     containing.ID,
			LocationName:   containing.Name,
			DistanceMeters: containingDistance,
		}, nil
	}

	return geofence.Classification{
		WithinFence:    false,
		DistanceMeters: nearestDistance,
	}, nil
}

func NewGeofenceService(repo geofence.Repository) geofence.Service {
	return &GeofenceServiceImpl{Repository: repo}
}
