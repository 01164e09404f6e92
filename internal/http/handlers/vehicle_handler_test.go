package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carona/internal/http/handlers"
	"carona/internal/modules/vehicle"
)

type stubVehicles struct {
	fields   vehicle.Fields
	updateID uuid.UUID
	searched string
	deleted  uuid.UUID

	vehicle  *vehicle.Vehicle
	vehicles []vehicle.Vehicle
	err      error
}

func (s *stubVehicles) Create(_ context.Context, f vehicle.Fields) (*vehicle.Vehicle, error) {
	s.fields = f
	return s.vehicle, s.err
}

func (s *stubVehicles) Update(_ context.Context, id uuid.UUID, f vehicle.Fields) (*vehicle.Vehicle, error) {
	s.updateID, s.fields = id, f
	return s.vehicle, s.err
}

func (s *stubVehicles) Get(_ context.Context, _ uuid.UUID) (*vehicle.Vehicle, error) {
	return s.vehicle, s.err
}

func (s *stubVehicles) List(_ context.Context) ([]vehicle.Vehicle, error) {
	return s.vehicles, s.err
}

func (s *stubVehicles) SearchByModel(_ context.Context, fragment string) ([]vehicle.Vehicle, error) {
	s.searched = fragment
	return s.vehicles, s.err
}

func (s *stubVehicles) Delete(_ context.Context, id uuid.UUID) error {
	s.deleted = id
	return s.err
}

func buildVehicleRouter(vehicles handlers.VehicleService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	vh := handlers.NewVehicleHandler(vehicles)
	r.GET("/api/vehicles", vh.List)
	r.POST("/api/vehicles", vh.Create)
	r.GET("/api/vehicles/model/:model", vh.SearchByModel)
	r.GET("/api/vehicles/:id", vh.Get)
	r.PUT("/api/vehicles/:id", vh.Update)
	r.DELETE("/api/vehicles/:id", vh.Delete)
	return r
}

func sampleVehicle() *vehicle.Vehicle {
	return &vehicle.Vehicle{
		ID:       uuid.MustParse("0b7e6f2a-3c1d-4e5f-8a9b-1c2d3e4f5a6b"),
		Model:    "Onix",
		Plate:    "ABC1D23",
		PhotoURL: "https://example.com/onix.jpg",
	}
}

func TestCreateVehicle(t *testing.T) {
	vehicles := &stubVehicles{vehicle: sampleVehicle()}
	r := buildVehicleRouter(vehicles)

	w := doRequest(r, http.MethodPost, "/api/vehicles", map[string]string{
		"model":     "Onix",
		"plate":     "abc1d23",
		"photo_url": "https://example.com/onix.jpg",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, vehicle.Fields{Model: "Onix", Plate: "abc1d23", PhotoURL: "https://example.com/onix.jpg"}, vehicles.fields)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ABC1D23", body["plate"])
	assert.Equal(t, "https://example.com/onix.jpg", body["photo_url"])
}

func TestCreateVehicle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", vehicle.ErrBadRequest, http.StatusBadRequest},
		{"duplicate plate", vehicle.ErrDuplicatePlate, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := buildVehicleRouter(&stubVehicles{err: tt.err})
			w := doRequest(r, http.MethodPost, "/api/vehicles", map[string]string{"model": "Onix"})
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestCreateVehicle_InvalidJSON(t *testing.T) {
	r := buildVehicleRouter(&stubVehicles{})
	w := doRequest(r, http.MethodPost, "/api/vehicles", "not an object")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateVehicle(t *testing.T) {
	vehicles := &stubVehicles{vehicle: sampleVehicle()}
	r := buildVehicleRouter(vehicles)
	id := sampleVehicle().ID

	w := doRequest(r, http.MethodPut, "/api/vehicles/"+id.String(), map[string]string{
		"model": "HB20", "plate": "XYZ9A87", "photo_url": "https://example.com/hb20.jpg",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, vehicles.updateID)
	assert.Equal(t, "HB20", vehicles.fields.Model)
}

func TestGetVehicle(t *testing.T) {
	r := buildVehicleRouter(&stubVehicles{err: vehicle.ErrNotFound})

	w := doRequest(r, http.MethodGet, "/api/vehicles/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(r, http.MethodGet, "/api/vehicles/nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "invalid id"))
}

func TestSearchVehiclesByModel(t *testing.T) {
	vehicles := &stubVehicles{vehicles: []vehicle.Vehicle{*sampleVehicle()}}
	r := buildVehicleRouter(vehicles)

	w := doRequest(r, http.MethodGet, "/api/vehicles/model/onix", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "onix", vehicles.searched)
	var body []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body, 1)
}

func TestListVehicles_EmptyIsArray(t *testing.T) {
	r := buildVehicleRouter(&stubVehicles{vehicles: []vehicle.Vehicle{}})
	w := doRequest(r, http.MethodGet, "/api/vehicles", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestDeleteVehicle(t *testing.T) {
	vehicles := &stubVehicles{}
	r := buildVehicleRouter(vehicles)
	id := uuid.New()

	w := doRequest(r, http.MethodDelete, "/api/vehicles/"+id.String(), nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, id, vehicles.deleted)
}
