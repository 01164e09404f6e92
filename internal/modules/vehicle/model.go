// README: Vehicle domain model; trips may reference a vehicle.
package vehicle

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("vehicle not found")
	ErrDuplicatePlate = errors.New("plate already registered")
	ErrBadRequest     = errors.New("bad request")
)

const maxPhotoURLLen = 5000

type Vehicle struct {
	ID        uuid.UUID `json:"id"`
	Model     string    `json:"model"`
	Plate     string    `json:"plate"`
	PhotoURL  string    `json:"photo_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Fields is the caller-owned part of a vehicle.
type Fields struct {
	Model    string
	Plate    string
	PhotoURL string
}

func (f Fields) normalize() Fields {
	return Fields{
		Model:    strings.TrimSpace(f.Model),
		Plate:    strings.ToUpper(strings.TrimSpace(f.Plate)),
		PhotoURL: strings.TrimSpace(f.PhotoURL),
	}
}

func (f Fields) validate() error {
	switch {
	case f.Model == "":
		return fmt.Errorf("%w: model is required", ErrBadRequest)
	case f.Plate == "":
		return fmt.Errorf("%w: plate is required", ErrBadRequest)
	case f.PhotoURL == "":
		return fmt.Errorf("%w: photo_url is required", ErrBadRequest)
	case len(f.PhotoURL) > maxPhotoURLLen:
		return fmt.Errorf("%w: photo_url must be at most %d characters", ErrBadRequest, maxPhotoURLLen)
	}
	return nil
}
