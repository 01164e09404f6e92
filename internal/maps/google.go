package maps

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	gmaps "googlemaps.github.io/maps"

	"carona/internal/types"
)

// GoogleProvider geocodes and measures driving distance with the Google Maps
// Platform. It is the alternative to the OpenCage/OSRM pair and honours the
// same throttle and error contract.
type GoogleProvider struct {
	client   *gmaps.Client
	throttle *Throttle
	region   string
	log      *zap.Logger
}

// NewGoogleProvider creates a GoogleProvider with the given API key. Extra
// client options (base URL, HTTP client) are passed through.
func NewGoogleProvider(apiKey, region string, throttle *Throttle, log *zap.Logger, opts ...gmaps.ClientOption) (*GoogleProvider, error) {
	client, err := gmaps.NewClient(append([]gmaps.ClientOption{gmaps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &GoogleProvider{client: client, throttle: throttle, region: region, log: log}, nil
}

// Resolve geocodes address and returns the first result's location.
func (s *GoogleProvider) Resolve(ctx context.Context, address string) (types.Point, error) {
	if strings.TrimSpace(address) == "" {
		return types.Point{}, fmt.Errorf("%w: blank address", ErrInvalidInput)
	}
	if err := s.throttle.Wait(ctx); err != nil {
		return types.Point{}, err
	}

	query := NormalizeAddress(address)
	if s.region != "" {
		query += ", " + s.region
	}
	s.log.Debug("geocoding address", zap.String("address", address), zap.String("query", query))

	results, err := s.client.Geocode(ctx, &gmaps.GeocodingRequest{
		Address:  query,
		Language: "pt-BR",
		Region:   "br",
	})
	if isNotFoundStatus(err) || (err == nil && len(results) == 0) {
		return types.Point{}, &NotFoundError{Provider: ProviderGoogleGeo, Subject: address}
	}
	if err != nil {
		return types.Point{}, callError(ctx, ProviderGoogleGeo, err)
	}

	loc := results[0].Geometry.Location
	return types.Point{Lat: loc.Lat, Lng: loc.Lng}, nil
}

// DistanceBetween returns the driving distance in kilometres of the first
// route, summed over its legs.
func (s *GoogleProvider) DistanceBetween(ctx context.Context, origin, destination types.Point) (float64, error) {
	if err := s.throttle.Wait(ctx); err != nil {
		return 0, err
	}

	subject := origin.LatLng() + ";" + destination.LatLng()
	routes, _, err := s.client.Directions(ctx, &gmaps.DirectionsRequest{
		Origin:      origin.LatLng(),
		Destination: destination.LatLng(),
		Mode:        gmaps.TravelModeDriving,
		Language:    "pt-BR",
		Region:      "br",
	})
	if isNotFoundStatus(err) || (err == nil && (len(routes) == 0 || len(routes[0].Legs) == 0)) {
		return 0, &NotFoundError{Provider: ProviderGoogleRoutes, Subject: subject}
	}
	if err != nil {
		return 0, callError(ctx, ProviderGoogleRoutes, err)
	}

	meters := 0
	for _, leg := range routes[0].Legs {
		if leg == nil {
			return 0, &UpstreamError{Provider: ProviderGoogleRoutes, Err: errors.New("route has an empty leg")}
		}
		meters += leg.Distance.Meters
	}
	return float64(meters) / 1000.0, nil
}

// isNotFoundStatus reports whether the maps client surfaced a NOT_FOUND status
// as an error. ZERO_RESULTS comes back as an empty, error-free response.
func isNotFoundStatus(err error) bool {
	return err != nil && strings.Contains(err.Error(), "NOT_FOUND")
}
