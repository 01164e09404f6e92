// README: Vehicle handlers for CRUD and model search.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"carona/internal/modules/vehicle"
)

type VehicleService interface {
	Create(ctx context.Context, f vehicle.Fields) (*vehicle.Vehicle, error)
	Update(ctx context.Context, id uuid.UUID, f vehicle.Fields) (*vehicle.Vehicle, error)
	Get(ctx context.Context, id uuid.UUID) (*vehicle.Vehicle, error)
	List(ctx context.Context) ([]vehicle.Vehicle, error)
	SearchByModel(ctx context.Context, fragment string) ([]vehicle.Vehicle, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type VehicleHandler struct {
	vehicles VehicleService
}

func NewVehicleHandler(svc VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicles: svc}
}

type vehicleReq struct {
	Model    string `json:"model"`
	Plate    string `json:"plate"`
	PhotoURL string `json:"photo_url"`
}

func (r vehicleReq) fields() vehicle.Fields {
	return vehicle.Fields{Model: r.Model, Plate: r.Plate, PhotoURL: r.PhotoURL}
}

func (h *VehicleHandler) Create(c *gin.Context) {
	var req vehicleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	v, err := h.vehicles.Create(c.Request.Context(), req.fields())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, v)
}

func (h *VehicleHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req vehicleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	v, err := h.vehicles.Update(c.Request.Context(), id, req.fields())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, v)
}

func (h *VehicleHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	v, err := h.vehicles.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, v)
}

func (h *VehicleHandler) List(c *gin.Context) {
	vs, err := h.vehicles.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, vs)
}

func (h *VehicleHandler) SearchByModel(c *gin.Context) {
	vs, err := h.vehicles.SearchByModel(c.Request.Context(), c.Param("model"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, vs)
}

func (h *VehicleHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.vehicles.Delete(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
