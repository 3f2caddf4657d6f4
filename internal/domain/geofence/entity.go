package geofence

import "time"

// Location is a named circular geofence around an office or site. Inactive
// locations are ignored during classification but kept for history.
type Location struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	RadiusMeters int       `json:"radius_meters"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Classification is the outcome of checking a coordinate against all active
// locations. When WithinFence is false, LocationID is empty and Distance
// refers to the nearest active fence (0 when none exist).
type Classification struct {
	WithinFence    bool    `json:"within_fence"`
	LocationID     string  `json:"location_id,omitempty"`
	LocationName   string  `json:"location_name,omitempty"`
	DistanceMeters float64 `json:"distance_meters"`
}
