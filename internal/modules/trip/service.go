// README: Trip service; every create and update re-runs the route pipeline before persisting.
package trip

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"carona/internal/service"
	"carona/internal/types"
)

type Repository interface {
	Create(ctx context.Context, t *Trip) error
	Update(ctx context.Context, t *Trip) error
	Get(ctx context.Context, id uuid.UUID) (*Trip, error)
	List(ctx context.Context) ([]Trip, error)
	SearchByDestination(ctx context.Context, fragment string) ([]Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
	VehicleExists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Index interface {
	Put(ctx context.Context, id uuid.UUID, origin types.Point) error
	Remove(ctx context.Context, id uuid.UUID) error
	Nearby(ctx context.Context, center types.Point, radiusKm float64, limit int) ([]uuid.UUID, error)
}

type Planner interface {
	ComputeRoute(ctx context.Context, req service.TripRequest) (service.RouteResult, error)
}

const (
	DefaultNearbyRadiusKm = 5.0
	DefaultNearbyLimit    = 20
	maxNearbyLimit        = 100
)

type Options struct {
	NearbyRadiusKm float64
	Now            func() time.Time
}

type Service struct {
	repo    Repository
	index   Index
	planner Planner
	log     *zap.Logger

	radiusKm float64
	now      func() time.Time
}

func NewService(repo Repository, index Index, planner Planner, log *zap.Logger, opts Options) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.NearbyRadiusKm <= 0 {
		opts.NearbyRadiusKm = DefaultNearbyRadiusKm
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		repo:     repo,
		index:    index,
		planner:  planner,
		log:      log,
		radiusKm: opts.NearbyRadiusKm,
		now:      opts.Now,
	}
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Trip, error) {
	cmd.Origin = strings.TrimSpace(cmd.Origin)
	cmd.Destination = strings.TrimSpace(cmd.Destination)
	if err := s.checkVehicle(ctx, cmd.VehicleID); err != nil {
		return nil, err
	}
	route, err := s.plan(ctx, cmd.Origin, cmd.Destination, cmd.DepartureAt)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	t := &Trip{
		ID:          uuid.New(),
		Origin:      cmd.Origin,
		Destination: cmd.Destination,
		DepartureAt: cmd.DepartureAt,
		VehicleID:   cmd.VehicleID,
		Route:       route,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	s.indexOrigin(ctx, t)
	s.log.Info("trip created", zap.String("trip_id", t.ID.String()), zap.String("fare", t.Route.Fare.String()))
	return t, nil
}

func (s *Service) Update(ctx context.Context, cmd UpdateCommand) (*Trip, error) {
	cmd.Origin = strings.TrimSpace(cmd.Origin)
	cmd.Destination = strings.TrimSpace(cmd.Destination)
	t, err := s.repo.Get(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}
	if err := s.checkVehicle(ctx, cmd.VehicleID); err != nil {
		return nil, err
	}
	route, err := s.plan(ctx, cmd.Origin, cmd.Destination, cmd.DepartureAt)
	if err != nil {
		return nil, err
	}

	t.Origin = cmd.Origin
	t.Destination = cmd.Destination
	t.DepartureAt = cmd.DepartureAt
	t.VehicleID = cmd.VehicleID
	t.Route = route
	t.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	s.indexOrigin(ctx, t)
	s.log.Info("trip updated", zap.String("trip_id", t.ID.String()), zap.String("fare", t.Route.Fare.String()))
	return t, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Trip, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Trip, error) {
	return s.repo.List(ctx)
}

func (s *Service) SearchByDestination(ctx context.Context, fragment string) ([]Trip, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return nil, fmt.Errorf("%w: destination is blank", ErrBadRequest)
	}
	return s.repo.SearchByDestination(ctx, fragment)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.index.Remove(ctx, id); err != nil {
		s.log.Warn("geo index remove failed", zap.String("trip_id", id.String()), zap.Error(err))
	}
	return nil
}

// Nearby lists trips whose origin lies within the radius, closest first.
// Index entries whose trip no longer exists are dropped from the index.
func (s *Service) Nearby(ctx context.Context, q NearbyQuery) ([]NearbyTrip, error) {
	if q.RadiusKm < 0 || q.Limit < 0 {
		return nil, fmt.Errorf("%w: radius and limit must not be negative", ErrBadRequest)
	}
	if q.RadiusKm == 0 {
		q.RadiusKm = s.radiusKm
	}
	if q.Limit == 0 {
		q.Limit = DefaultNearbyLimit
	}
	if q.Limit > maxNearbyLimit {
		q.Limit = maxNearbyLimit
	}

	ids, err := s.index.Nearby(ctx, q.Center, q.RadiusKm, q.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]NearbyTrip, 0, len(ids))
	for _, id := range ids {
		t, err := s.repo.Get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			if rmErr := s.index.Remove(ctx, id); rmErr != nil {
				s.log.Warn("geo index remove failed", zap.String("trip_id", id.String()), zap.Error(rmErr))
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, NearbyTrip{Trip: *t, DistanceKm: q.Center.DistanceKm(t.Route.OriginPoint)})
	}
	return out, nil
}

func (s *Service) checkVehicle(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	ok, err := s.repo.VehicleExists(ctx, *id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrVehicleNotFound
	}
	return nil
}

func (s *Service) plan(ctx context.Context, origin, destination string, departure *time.Time) (Route, error) {
	res, err := s.planner.ComputeRoute(ctx, service.TripRequest{
		Origin:      origin,
		Destination: destination,
		DepartureAt: departure,
	})
	if err != nil {
		return Route{}, err
	}
	return Route{
		OriginPoint:      res.Origin,
		DestinationPoint: res.Destination,
		DistanceKm:       res.DistanceKm,
		SpeedBand:        res.SpeedBand,
		AverageSpeedKmh:  res.AverageSpeedKmh,
		DurationMin:      res.DurationMin,
		Fare:             res.Fare,
	}, nil
}

// indexOrigin logs index failures; the stored trip is then missing from Nearby
// until its next save.
func (s *Service) indexOrigin(ctx context.Context, t *Trip) {
	if err := s.index.Put(ctx, t.ID, t.Route.OriginPoint); err != nil {
		s.log.Warn("geo index put failed", zap.String("trip_id", t.ID.String()), zap.Error(err))
	}
}
