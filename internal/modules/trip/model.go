// README: Trip domain model; every trip carries the route snapshot computed when it was last saved.
package trip

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"carona/internal/modules/pricing"
	"carona/internal/types"
)

var (
	ErrNotFound        = errors.New("trip not found")
	ErrVehicleNotFound = errors.New("vehicle not found")
	ErrBadRequest      = errors.New("bad request")
)

// Route is the output of the route pipeline at save time.
type Route struct {
	OriginPoint      types.Point       `json:"origin_point"`
	DestinationPoint types.Point       `json:"destination_point"`
	DistanceKm       float64           `json:"distance_km"`
	SpeedBand        pricing.SpeedBand `json:"speed_band"`
	AverageSpeedKmh  float64           `json:"average_speed_kmh"`
	DurationMin      float64           `json:"duration_min"`
	Fare             types.Money       `json:"fare"`
}

type Trip struct {
	ID          uuid.UUID  `json:"id"`
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	DepartureAt *time.Time `json:"departure_at,omitempty"`
	VehicleID   *uuid.UUID `json:"vehicle_id,omitempty"`
	Route       Route      `json:"route"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type CreateCommand struct {
	Origin      string
	Destination string
	DepartureAt *time.Time
	VehicleID   *uuid.UUID
}

// UpdateCommand replaces every caller-owned field of a trip.
type UpdateCommand struct {
	ID          uuid.UUID
	Origin      string
	Destination string
	DepartureAt *time.Time
	VehicleID   *uuid.UUID
}

// NearbyQuery selects trips whose origin lies within RadiusKm of Center.
type NearbyQuery struct {
	Center   types.Point
	RadiusKm float64
	Limit    int
}

// NearbyTrip is a trip with its straight-line distance from the search center.
type NearbyTrip struct {
	Trip
	DistanceKm float64 `json:"distance_km"`
}
