// README: Route quote handler; runs the pipeline without storing anything.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"carona/internal/service"
)

type RoutePlanner interface {
	ComputeRoute(ctx context.Context, req service.TripRequest) (service.RouteResult, error)
}

type RouteHandler struct {
	planner RoutePlanner
}

func NewRouteHandler(planner RoutePlanner) *RouteHandler {
	return &RouteHandler{planner: planner}
}

type quoteReq struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	DepartureAt string `json:"departure_at"`
}

func (h *RouteHandler) Quote(c *gin.Context) {
	var req quoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	departure, err := parseDeparture(req.DepartureAt)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.planner.ComputeRoute(c.Request.Context(), service.TripRequest{
		Origin:      req.Origin,
		Destination: req.Destination,
		DepartureAt: departure,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, res)
}
