// README: Trip store backed by PostgreSQL. Fares are kept as integer cents.
package trip

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"carona/internal/modules/pricing"
	"carona/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const tripColumns = `
	id, origin, destination, departure_at, vehicle_id,
	origin_lat, origin_lng, destination_lat, destination_lng,
	distance_km, speed_band, average_speed_kmh, duration_min,
	fare_cents, fare_currency, created_at, updated_at`

func (s *Store) Create(ctx context.Context, t *Trip) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO trips (`+tripColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		t.ID,
		t.Origin,
		t.Destination,
		t.DepartureAt,
		t.VehicleID,
		t.Route.OriginPoint.Lat,
		t.Route.OriginPoint.Lng,
		t.Route.DestinationPoint.Lat,
		t.Route.DestinationPoint.Lng,
		t.Route.DistanceKm,
		string(t.Route.SpeedBand),
		t.Route.AverageSpeedKmh,
		t.Route.DurationMin,
		t.Route.Fare.Cents(),
		t.Route.Fare.Currency,
		t.CreatedAt,
		t.UpdatedAt,
	)
	return mapWriteError(err)
}

// Update overwrites every column except id and created_at.
func (s *Store) Update(ctx context.Context, t *Trip) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE trips
		SET origin = $2,
			destination = $3,
			departure_at = $4,
			vehicle_id = $5,
			origin_lat = $6,
			origin_lng = $7,
			destination_lat = $8,
			destination_lng = $9,
			distance_km = $10,
			speed_band = $11,
			average_speed_kmh = $12,
			duration_min = $13,
			fare_cents = $14,
			fare_currency = $15,
			updated_at = $16
		WHERE id = $1`,
		t.ID,
		t.Origin,
		t.Destination,
		t.DepartureAt,
		t.VehicleID,
		t.Route.OriginPoint.Lat,
		t.Route.OriginPoint.Lng,
		t.Route.DestinationPoint.Lat,
		t.Route.DestinationPoint.Lng,
		t.Route.DistanceKm,
		string(t.Route.SpeedBand),
		t.Route.AverageSpeedKmh,
		t.Route.DurationMin,
		t.Route.Fare.Cents(),
		t.Route.Fare.Currency,
		t.UpdatedAt,
	)
	if err != nil {
		return mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*Trip, error) {
	row := s.db.QueryRow(ctx, `SELECT `+tripColumns+` FROM trips WHERE id = $1`, id)
	t, err := scanTrip(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Store) List(ctx context.Context) ([]Trip, error) {
	rows, err := s.db.Query(ctx, `SELECT `+tripColumns+` FROM trips ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	return collectTrips(rows)
}

// SearchByDestination matches destinations containing fragment, ignoring case.
func (s *Store) SearchByDestination(ctx context.Context, fragment string) ([]Trip, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+tripColumns+` FROM trips
		WHERE destination ILIKE '%' || $1 || '%'
		ORDER BY created_at, id`,
		escapeLike(fragment),
	)
	if err != nil {
		return nil, err
	}
	return collectTrips(rows)
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) VehicleExists(ctx context.Context, id uuid.UUID) (bool, error) {
	row := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM vehicles WHERE id = $1)`, id)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (*Trip, error) {
	var (
		t         Trip
		departure *time.Time
		vehicleID *uuid.UUID
		band      string
		fareCents int64
		currency  string
	)
	if err := row.Scan(
		&t.ID,
		&t.Origin,
		&t.Destination,
		&departure,
		&vehicleID,
		&t.Route.OriginPoint.Lat,
		&t.Route.OriginPoint.Lng,
		&t.Route.DestinationPoint.Lat,
		&t.Route.DestinationPoint.Lng,
		&t.Route.DistanceKm,
		&band,
		&t.Route.AverageSpeedKmh,
		&t.Route.DurationMin,
		&fareCents,
		&currency,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	t.DepartureAt = departure
	t.VehicleID = vehicleID
	t.Route.SpeedBand = pricing.SpeedBand(band)
	if currency == "" {
		currency = types.CurrencyBRL
	}
	t.Route.Fare = types.MoneyFromCents(fareCents, currency)
	return &t, nil
}

func collectTrips(rows pgx.Rows) ([]Trip, error) {
	defer rows.Close()
	out := make([]Trip, 0)
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

const foreignKeyViolation = "23503"

// mapWriteError reports a vehicle removed after VehicleExists as ErrVehicleNotFound.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return ErrVehicleNotFound
	}
	return err
}

// escapeLike makes fragment match literally inside a LIKE pattern.
func escapeLike(fragment string) string {
	return likeEscaper.Replace(fragment)
}
