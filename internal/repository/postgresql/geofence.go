package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/geofence"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type geofenceRepository struct {
	db *database.DB
}

const locationColumns = `
	id, name, address, latitude, longitude, radius_meters, is_active,
	created_at, updated_at`

func scanLocation(row pgx.Row, loc *geofence.Location) error {
	return row.Scan(
		&loc.ID, &loc.Name, &loc.Address, &loc.Latitude, &loc.Longitude,
		&loc.RadiusMeters, &loc.IsActive,
		&loc.CreatedAt, &loc.UpdatedAt,
	)
}

// Create implements geofence.Repository.
func (g *geofenceRepository) Create(ctx context.Context, location *geofence.Location) error {
	q := GetQuerier(ctx, g.db)

	query := `
		INSERT INTO geofence_locations (
			name, address, latitude, longitude, radius_meters, is_active
		) VALUES (
			$1, $2, $3, $4, $5, $6
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		location.Name,
		location.Address,
		location.Latitude,
		location.Longitude,
		location.RadiusMeters,
		location.IsActive,
	).Scan(&location.ID, &location.CreatedAt, &location.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return geofence.ErrLocationNameTaken
		}
		return fmt.Errorf("failed to create geofence location: %w", err)
	}

	return nil
}

// Update implements geofence.Repository.
func (g *geofenceRepository) Update(ctx context.Context, location *geofence.Location) error {
	q := GetQuerier(ctx, g.db)

	query := `
		UPDATE geofence_locations SET
			name = $2,
			address = $3,
			latitude = $4,
			longitude = $5,
			radius_meters = $6,
			is_active = $7,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		location.ID,
		location.Name,
		location.Address,
		location.Latitude,
		location.Longitude,
		location.RadiusMeters,
		location.IsActive,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return geofence.ErrLocationNameTaken
		}
		return fmt.Errorf("failed to update geofence location: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return geofence.ErrLocationNotFound
	}

	return nil
}

// GetByID implements geofence.Repository.
func (g *geofenceRepository) GetByID(ctx context.Context, id string) (*geofence.Location, error) {
	q := GetQuerier(ctx, g.db)

	query := `SELECT ` + locationColumns + ` FROM geofence_locations WHERE id = $1`

	var location geofence.Location
	if err := scanLocation(q.QueryRow(ctx, query, id), &location); err != nil {
		if err == pgx.ErrNoRows {
			return nil, geofence.ErrLocationNotFound
		}
		return nil, fmt.Errorf("failed to get geofence location: %w", err)
	}

	return &location, nil
}

func (g *geofenceRepository) list(ctx context.Context, query string) ([]geofence.Location, error) {
	q := GetQuerier(ctx, g.db)

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list geofence locations: %w", err)
	}
	defer rows.Close()

	locations := []geofence.Location{}
	for rows.Next() {
		var location geofence.Location
		if err := scanLocation(rows, &location); err != nil {
			return nil, fmt.Errorf("failed to scan geofence location: %w", err)
		}
		locations = append(locations, location)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate geofence locations: %w", err)
	}

	return locations, nil
}

// ListActive implements geofence.Repository.
func (g *geofenceRepository) ListActive(ctx context.Context) ([]geofence.Location, error) {
	return g.list(ctx, `SELECT `+locationColumns+` FROM geofence_locations WHERE is_active = TRUE ORDER BY name ASC`)
}

// List implements geofence.Repository.
func (g *geofenceRepository) List(ctx context.Context) ([]geofence.Location, error) {
	return g.list(ctx, `SELECT `+locationColumns+` FROM geofence_locations ORDER BY name ASC`)
}

// Delete implements geofence.Repository.
func (g *geofenceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, g.db)

	tag, err := q.Exec(ctx, `DELETE FROM geofence_locations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete geofence location: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return geofence.ErrLocationNotFound
	}

	return nil
}

func NewGeofenceRepository(db *database.DB) geofence.Repository {
	return &geofenceRepository{db: db}
}
