// README: Vehicle store backed by PostgreSQL.
package vehicle

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const vehicleColumns = `id, model, plate, photo_url, created_at, updated_at`

func (s *Store) Create(ctx context.Context, v *Vehicle) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO vehicles (`+vehicleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		v.ID, v.Model, v.Plate, v.PhotoURL, v.CreatedAt, v.UpdatedAt,
	)
	return mapWriteError(err)
}

func (s *Store) Update(ctx context.Context, v *Vehicle) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE vehicles
		SET model = $2, plate = $3, photo_url = $4, updated_at = $5
		WHERE id = $1`,
		v.ID, v.Model, v.Plate, v.PhotoURL, v.UpdatedAt,
	)
	if err != nil {
		return mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*Vehicle, error) {
	var v Vehicle
	err := s.db.QueryRow(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`, id).
		Scan(&v.ID, &v.Model, &v.Plate, &v.PhotoURL, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Store) List(ctx context.Context) ([]Vehicle, error) {
	rows, err := s.db.Query(ctx, `SELECT `+vehicleColumns+` FROM vehicles ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	return collectVehicles(rows)
}

// SearchByModel matches models containing fragment, ignoring case.
func (s *Store) SearchByModel(ctx context.Context, fragment string) ([]Vehicle, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+vehicleColumns+` FROM vehicles
		WHERE model ILIKE '%' || $1 || '%'
		ORDER BY created_at, id`,
		likeEscaper.Replace(fragment),
	)
	if err != nil {
		return nil, err
	}
	return collectVehicles(rows)
}

// Delete removes the vehicle and its trips in one transaction and returns the
// ids of the removed trips.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, `DELETE FROM trips WHERE vehicle_id = $1 RETURNING id`, id)
	if err != nil {
		return nil, err
	}
	tripIDs, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return tripIDs, nil
}

func collectVehicles(rows pgx.Rows) ([]Vehicle, error) {
	defer rows.Close()
	out := make([]Vehicle, 0)
	for rows.Next() {
		var v Vehicle
		if err := rows.Scan(&v.ID, &v.Model, &v.Plate, &v.PhotoURL, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicatePlate
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
