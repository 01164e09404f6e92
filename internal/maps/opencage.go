package maps

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"carona/internal/types"
)

// OpenCageConfig holds the endpoint and credential for the OpenCage geocoder.
type OpenCageConfig struct {
	// BaseURL is the JSON endpoint, e.g. https://api.opencagedata.com/geocode/v1/json.
	BaseURL string
	APIKey  string
	// Region is appended to every query, e.g. "São Paulo - SP".
	Region    string
	UserAgent string
}

// OpenCageGeocoder resolves free-text addresses with the OpenCage API.
// It keeps no per-call state and is safe for concurrent use.
type OpenCageGeocoder struct {
	cfg      OpenCageConfig
	client   *http.Client
	throttle *Throttle
	log      *zap.Logger
}

func NewOpenCageGeocoder(cfg OpenCageConfig, client *http.Client, throttle *Throttle, log *zap.Logger) *OpenCageGeocoder {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &OpenCageGeocoder{cfg: cfg, client: client, throttle: throttle, log: log}
}

type openCageResponse struct {
	Results []struct {
		Geometry *struct {
			Lat *float64 `json:"lat"`
			Lng *float64 `json:"lng"`
		} `json:"geometry"`
	} `json:"results"`
}

// Resolve returns the coordinates of the first candidate for address.
// Exactly one HTTP attempt is made.
func (g *OpenCageGeocoder) Resolve(ctx context.Context, address string) (types.Point, error) {
	if strings.TrimSpace(address) == "" {
		return types.Point{}, fmt.Errorf("%w: blank address", ErrInvalidInput)
	}
	if err := g.throttle.Wait(ctx); err != nil {
		return types.Point{}, err
	}

	query := NormalizeAddress(address)
	if g.cfg.Region != "" {
		query += ", " + g.cfg.Region
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("key", g.cfg.APIKey)
	params.Set("language", "pt")
	params.Set("format", "json")

	g.log.Debug("geocoding address", zap.String("address", address), zap.String("query", query))

	var body openCageResponse
	if err := getJSON(ctx, g.client, g.cfg.BaseURL+"?"+params.Encode(), g.cfg.UserAgent, &body); err != nil {
		return types.Point{}, callError(ctx, ProviderOpenCage, err)
	}
	if len(body.Results) == 0 {
		return types.Point{}, &NotFoundError{Provider: ProviderOpenCage, Subject: address}
	}

	geom := body.Results[0].Geometry
	if geom == nil || geom.Lat == nil || geom.Lng == nil {
		return types.Point{}, &UpstreamError{Provider: ProviderOpenCage, Err: errors.New("first result has no geometry")}
	}
	p := types.Point{Lat: *geom.Lat, Lng: *geom.Lng}
	g.log.Debug("address resolved", zap.String("address", address), zap.Float64("lat", p.Lat), zap.Float64("lng", p.Lng))
	return p, nil
}
