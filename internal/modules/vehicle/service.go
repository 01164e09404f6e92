// README: Vehicle service; deleting a vehicle also deletes its trips and their geo index entries.
package vehicle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, v *Vehicle) error
	Update(ctx context.Context, v *Vehicle) error
	Get(ctx context.Context, id uuid.UUID) (*Vehicle, error)
	List(ctx context.Context) ([]Vehicle, error)
	SearchByModel(ctx context.Context, fragment string) ([]Vehicle, error)
	Delete(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
}

// TripIndex drops trip origins from the nearby index.
type TripIndex interface {
	Remove(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo  Repository
	trips TripIndex
	log   *zap.Logger
	now   func() time.Time
}

func NewService(repo Repository, trips TripIndex, log *zap.Logger, now func() time.Time) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Service{repo: repo, trips: trips, log: log, now: now}
}

func (s *Service) Create(ctx context.Context, f Fields) (*Vehicle, error) {
	f = f.normalize()
	if err := f.validate(); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	v := &Vehicle{
		ID:        uuid.New(),
		Model:     f.Model,
		Plate:     f.Plate,
		PhotoURL:  f.PhotoURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	s.log.Info("vehicle created", zap.String("vehicle_id", v.ID.String()), zap.String("plate", v.Plate))
	return v, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, f Fields) (*Vehicle, error) {
	f = f.normalize()
	if err := f.validate(); err != nil {
		return nil, err
	}
	v, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	v.Model = f.Model
	v.Plate = f.Plate
	v.PhotoURL = f.PhotoURL
	v.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Vehicle, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Vehicle, error) {
	return s.repo.List(ctx)
}

func (s *Service) SearchByModel(ctx context.Context, fragment string) ([]Vehicle, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return nil, fmt.Errorf("%w: model is blank", ErrBadRequest)
	}
	return s.repo.SearchByModel(ctx, fragment)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	tripIDs, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	for _, tripID := range tripIDs {
		if err := s.trips.Remove(ctx, tripID); err != nil {
			s.log.Warn("geo index remove failed", zap.String("trip_id", tripID.String()), zap.Error(err))
		}
	}
	s.log.Info("vehicle deleted", zap.String("vehicle_id", id.String()), zap.Int("trips_removed", len(tripIDs)))
	return nil
}
