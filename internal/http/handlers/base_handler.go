// README: Base handler utilities (JSON helpers, error mapping, request parsing).
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"carona/internal/maps"
	"carona/internal/modules/trip"
	"carona/internal/modules/vehicle"
	"carona/internal/service"
)

// DepartureLayout is the wall-clock format trips are exchanged in.
const DepartureLayout = "2006-01-02 15:04:05"

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeServiceError maps pipeline, trip and vehicle errors to a status code.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidTrip),
		errors.Is(err, maps.ErrInvalidInput),
		errors.Is(err, trip.ErrBadRequest),
		errors.Is(err, trip.ErrVehicleNotFound),
		errors.Is(err, vehicle.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, maps.ErrNotFound),
		errors.Is(err, trip.ErrNotFound),
		errors.Is(err, vehicle.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, vehicle.ErrDuplicatePlate):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, maps.ErrCanceled),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		writeError(c, http.StatusServiceUnavailable, "request canceled")
	case errors.Is(err, maps.ErrUpstream):
		writeError(c, http.StatusBadGateway, err.Error())
	default:
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// parseDeparture accepts DepartureLayout or RFC 3339. Both keep the wall
// clock as written; an empty value means no departure was informed.
func parseDeparture(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(DepartureLayout, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, fmt.Errorf("departure_at must be %q or RFC 3339", DepartureLayout)
	}
	return &t, nil
}

func formatDeparture(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DepartureLayout)
	return &s
}
