package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"carona/internal/modules/pricing"
	"carona/internal/types"
)

// ErrInvalidTrip is matched by every ValidationError.
var ErrInvalidTrip = errors.New("invalid trip request")

// ValidationError rejects a request before any provider is called.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid trip request: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidTrip }

// Geocoder resolves a free-text address to coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (types.Point, error)
}

// Router measures the driving distance in kilometres between two points.
type Router interface {
	DistanceBetween(ctx context.Context, origin, destination types.Point) (float64, error)
}

// TripRequest is what the planner needs to price a trip. DepartureAt is local
// civil time; nil means "not informed".
type TripRequest struct {
	Origin      string
	Destination string
	DepartureAt *time.Time
}

// RouteResult is the outcome of one ComputeRoute call.
type RouteResult struct {
	Origin          types.Point       `json:"origin"`
	Destination     types.Point       `json:"destination"`
	DistanceKm      float64           `json:"distance_km"`
	SpeedBand       pricing.SpeedBand `json:"speed_band"`
	AverageSpeedKmh float64           `json:"average_speed_kmh"`
	DurationMin     float64           `json:"duration_min"`
	Fare            types.Money       `json:"fare"`
}

// RoutePlanner chains geocoding, routing, the speed model and the tariff.
type RoutePlanner struct {
	geocoder Geocoder
	router   Router
	log      *zap.Logger
}

// NewRoutePlanner creates a RoutePlanner with initialized dependencies.
func NewRoutePlanner(geocoder Geocoder, router Router, log *zap.Logger) *RoutePlanner {
	if log == nil {
		log = zap.NewNop()
	}
	return &RoutePlanner{geocoder: geocoder, router: router, log: log}
}

// ComputeRoute prices a trip. The steps run strictly in order:
// geocode origin, geocode destination, route distance, speed, minutes, fare.
// Any provider error aborts the computation and is returned unchanged; no
// partial result is produced and nothing is retried.
func (p *RoutePlanner) ComputeRoute(ctx context.Context, req TripRequest) (RouteResult, error) {
	if strings.TrimSpace(req.Origin) == "" {
		return RouteResult{}, &ValidationError{Field: "origin", Reason: "is required"}
	}
	if strings.TrimSpace(req.Destination) == "" {
		return RouteResult{}, &ValidationError{Field: "destination", Reason: "is required"}
	}

	log := p.log.With(zap.String("origin", req.Origin), zap.String("destination", req.Destination))
	log.Info("calculating route")

	origin, err := p.geocoder.Resolve(ctx, req.Origin)
	if err != nil {
		log.Error("origin geocoding failed", zap.Error(err))
		return RouteResult{}, err
	}
	destination, err := p.geocoder.Resolve(ctx, req.Destination)
	if err != nil {
		log.Error("destination geocoding failed", zap.Error(err))
		return RouteResult{}, err
	}

	distanceKm, err := p.router.DistanceBetween(ctx, origin, destination)
	if err != nil {
		log.Error("route distance failed", zap.Error(err))
		return RouteResult{}, err
	}

	band := pricing.Classify(req.DepartureAt)
	speed := band.Speed()
	minutes := pricing.EstimatedMinutes(distanceKm, speed)
	fare := pricing.Fare(distanceKm, minutes)

	log.Info("route calculated",
		zap.Float64("distance_km", distanceKm),
		zap.String("speed_band", string(band)),
		zap.Float64("duration_min", minutes),
		zap.Stringer("fare", fare),
	)

	return RouteResult{
		Origin:          origin,
		Destination:     destination,
		DistanceKm:      distanceKm,
		SpeedBand:       band,
		AverageSpeedKmh: speed,
		DurationMin:     minutes,
		Fare:            fare,
	}, nil
}
