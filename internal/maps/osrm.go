package maps

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"carona/internal/types"
)

// OSRMConfig holds the driving-route endpoint, e.g.
// http://router.project-osrm.org/route/v1/driving.
type OSRMConfig struct {
	BaseURL   string
	UserAgent string
}

// OSRMRouter measures road distance with an OSRM route service.
type OSRMRouter struct {
	cfg      OSRMConfig
	client   *http.Client
	throttle *Throttle
	log      *zap.Logger
}

func NewOSRMRouter(cfg OSRMConfig, client *http.Client, throttle *Throttle, log *zap.Logger) *OSRMRouter {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &OSRMRouter{cfg: cfg, client: client, throttle: throttle, log: log}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance *float64 `json:"distance"` // meters
	} `json:"routes"`
}

// DistanceBetween returns the driving distance in kilometres of the first
// route OSRM proposes. OSRM expects lng,lat order.
func (r *OSRMRouter) DistanceBetween(ctx context.Context, origin, destination types.Point) (float64, error) {
	if err := r.throttle.Wait(ctx); err != nil {
		return 0, err
	}

	coords := origin.LngLat() + ";" + destination.LngLat()
	endpoint := r.cfg.BaseURL + "/" + coords + "?overview=false"

	r.log.Debug("requesting route", zap.String("coordinates", coords))

	var body osrmResponse
	if err := getJSON(ctx, r.client, endpoint, r.cfg.UserAgent, &body); err != nil {
		return 0, callError(ctx, ProviderOSRM, err)
	}
	switch {
	case body.Code == "NoRoute" || (len(body.Routes) == 0 && (body.Code == "" || body.Code == "Ok")):
		return 0, &NotFoundError{Provider: ProviderOSRM, Subject: coords}
	case body.Code != "" && body.Code != "Ok":
		return 0, &UpstreamError{Provider: ProviderOSRM, Err: fmt.Errorf("route status %s", body.Code)}
	}
	meters := body.Routes[0].Distance
	if meters == nil {
		return 0, &UpstreamError{Provider: ProviderOSRM, Err: errors.New("first route has no distance")}
	}

	km := *meters / 1000.0
	r.log.Debug("route distance", zap.Float64("km", km))
	return km, nil
}
