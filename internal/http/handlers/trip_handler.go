// README: Trip handlers for CRUD, destination search and nearby lookup.
package handlers

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"carona/internal/modules/trip"
	"carona/internal/types"
)

type TripService interface {
	Create(ctx context.Context, cmd trip.CreateCommand) (*trip.Trip, error)
	Update(ctx context.Context, cmd trip.UpdateCommand) (*trip.Trip, error)
	Get(ctx context.Context, id uuid.UUID) (*trip.Trip, error)
	List(ctx context.Context) ([]trip.Trip, error)
	SearchByDestination(ctx context.Context, fragment string) ([]trip.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Nearby(ctx context.Context, q trip.NearbyQuery) ([]trip.NearbyTrip, error)
}

type TripHandler struct {
	trips TripService
}

func NewTripHandler(svc TripService) *TripHandler {
	return &TripHandler{trips: svc}
}

type tripReq struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	DepartureAt string `json:"departure_at"`
	VehicleID   string `json:"vehicle_id"`
}

type tripResp struct {
	ID          uuid.UUID  `json:"id"`
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	DepartureAt *string    `json:"departure_at"`
	VehicleID   *uuid.UUID `json:"vehicle_id"`
	Route       trip.Route `json:"route"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toTripResp(t *trip.Trip) tripResp {
	return tripResp{
		ID:          t.ID,
		Origin:      t.Origin,
		Destination: t.Destination,
		DepartureAt: formatDeparture(t.DepartureAt),
		VehicleID:   t.VehicleID,
		Route:       t.Route,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

type nearbyResp struct {
	tripResp
	DistanceKm float64 `json:"distance_km"`
}

func toTripResps(trips []trip.Trip) []tripResp {
	out := make([]tripResp, len(trips))
	for i := range trips {
		out[i] = toTripResp(&trips[i])
	}
	return out
}

// bind decodes the body shared by create and update.
func (r tripReq) bind(c *gin.Context) (departure *time.Time, vehicle *uuid.UUID, ok bool) {
	departure, err := parseDeparture(r.DepartureAt)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return nil, nil, false
	}
	if r.VehicleID != "" {
		id, err := uuid.Parse(r.VehicleID)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid vehicle_id")
			return nil, nil, false
		}
		vehicle = &id
	}
	return departure, vehicle, true
}

func (h *TripHandler) Create(c *gin.Context) {
	var req tripReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	departure, vehicle, ok := req.bind(c)
	if !ok {
		return
	}
	t, err := h.trips.Create(c.Request.Context(), trip.CreateCommand{
		Origin:      req.Origin,
		Destination: req.Destination,
		DepartureAt: departure,
		VehicleID:   vehicle,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, toTripResp(t))
}

func (h *TripHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req tripReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	departure, vehicle, ok := req.bind(c)
	if !ok {
		return
	}
	t, err := h.trips.Update(c.Request.Context(), trip.UpdateCommand{
		ID:          id,
		Origin:      req.Origin,
		Destination: req.Destination,
		DepartureAt: departure,
		VehicleID:   vehicle,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toTripResp(t))
}

func (h *TripHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	t, err := h.trips.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toTripResp(t))
}

func (h *TripHandler) List(c *gin.Context) {
	trips, err := h.trips.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toTripResps(trips))
}

func (h *TripHandler) SearchByDestination(c *gin.Context) {
	trips, err := h.trips.SearchByDestination(c.Request.Context(), c.Param("destination"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toTripResps(trips))
}

func (h *TripHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.trips.Delete(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Nearby expects lat and lng; radius_km and limit fall back to service defaults.
func (h *TripHandler) Nearby(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil || math.IsNaN(lat) || lat < -90 || lat > 90 {
		writeError(c, http.StatusBadRequest, "invalid lat")
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil || math.IsNaN(lng) || lng < -180 || lng > 180 {
		writeError(c, http.StatusBadRequest, "invalid lng")
		return
	}
	q := trip.NearbyQuery{Center: types.Point{Lat: lat, Lng: lng}}
	if v := c.Query("radius_km"); v != "" {
		if q.RadiusKm, err = strconv.ParseFloat(v, 64); err != nil {
			writeError(c, http.StatusBadRequest, "invalid radius_km")
			return
		}
	}
	if v := c.Query("limit"); v != "" {
		if q.Limit, err = strconv.Atoi(v); err != nil {
			writeError(c, http.StatusBadRequest, "invalid limit")
			return
		}
	}
	trips, err := h.trips.Nearby(c.Request.Context(), q)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	out := make([]nearbyResp, len(trips))
	for i := range trips {
		out[i] = nearbyResp{tripResp: toTripResp(&trips[i].Trip), DistanceKm: trips[i].DistanceKm}
	}
	writeJSON(c, http.StatusOK, out)
}
